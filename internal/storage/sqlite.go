//go:build sqlite
// +build sqlite

package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"catalystradar/internal/calendar"
	"catalystradar/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	path := cfg.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	st := &sqliteStore{db: db, log: log}

	if cfg.BusyTimeout > 0 {
		ms := cfg.BusyTimeout.Milliseconds()
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", ms))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) Load(ctx context.Context) (Document, error) {
	if s == nil || s.db == nil {
		return emptyDocument(), ErrDisabled
	}

	doc := emptyDocument()

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'updated_at'`).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// first run
	case err != nil:
		return emptyDocument(), err
	default:
		if t, perr := time.Parse(time.RFC3339Nano, raw); perr == nil {
			doc.UpdatedAt = &t
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, time, name, impact, forecast, actual, previous, status, notified_warn, notified_release
		 FROM events ORDER BY date, time, id`)
	if err != nil {
		return emptyDocument(), err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ev                        calendar.Event
			forecast, actual, prev    sql.NullString
			notifiedWarn, notifiedRel int
		)
		if err := rows.Scan(&ev.ID, &ev.Date, &ev.Time, &ev.Name, &ev.Impact,
			&forecast, &actual, &prev, &ev.Status, &notifiedWarn, &notifiedRel); err != nil {
			return emptyDocument(), err
		}
		ev.Forecast = optStr(forecast)
		ev.Actual = optStr(actual)
		ev.Previous = optStr(prev)
		ev.NotifiedWarn = notifiedWarn != 0
		ev.NotifiedRelease = notifiedRel != 0
		doc.Events = append(doc.Events, ev)
	}
	return doc, rows.Err()
}

func (s *sqliteStore) Save(ctx context.Context, doc Document) error {
	if s == nil || s.db == nil {
		return ErrDisabled
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// The document is a full snapshot of the tracked set; replace wholesale.
	if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return err
	}
	for _, ev := range doc.Events {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO events(id, date, time, name, impact, forecast, actual, previous, status, notified_warn, notified_release)
			 VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
			ev.ID, ev.Date, ev.Time, ev.Name, string(ev.Impact),
			nullStr(ev.Forecast), nullStr(ev.Actual), nullStr(ev.Previous),
			string(ev.Status), boolInt(ev.NotifiedWarn), boolInt(ev.NotifiedRelease),
		); err != nil {
			return err
		}
	}

	if doc.UpdatedAt != nil {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO meta(key, value) VALUES('updated_at', ?)
			 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
			doc.UpdatedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func optStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullStr(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
