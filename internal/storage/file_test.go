package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"catalystradar/internal/calendar"
	"catalystradar/pkg/logx"
)

func tempStore(t *testing.T) (Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calendar_data.json")
	st, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st, path
}

func strptr(s string) *string { return &s }

func TestLoadMissingDocumentIsEmptyNotError(t *testing.T) {
	t.Parallel()
	st, _ := tempStore(t)

	doc, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("missing document must not error: %v", err)
	}
	if doc.UpdatedAt != nil || len(doc.Events) != 0 {
		t.Fatalf("expected empty document, got %+v", doc)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()
	st, _ := tempStore(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	in := Document{
		UpdatedAt: &now,
		Events: []calendar.Event{{
			ID:              "abcdef0123456789",
			Date:            "2026-03-11",
			Time:            "08:30",
			Name:            "CPI m/m",
			Impact:          calendar.ImpactHigh,
			Forecast:        strptr("0.3%"),
			Status:          calendar.StatusUpcoming,
			NotifiedWarn:    true,
			NotifiedRelease: false,
		}},
	}
	if err := st.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.UpdatedAt == nil || !out.UpdatedAt.Equal(now) {
		t.Fatalf("UpdatedAt = %v, want %v", out.UpdatedAt, now)
	}
	if len(out.Events) != 1 {
		t.Fatalf("got %d events", len(out.Events))
	}
	ev := out.Events[0]
	if ev.Forecast == nil || *ev.Forecast != "0.3%" {
		t.Fatalf("Forecast = %v", ev.Forecast)
	}
	if ev.Actual != nil {
		t.Fatal("absent value must roundtrip as absent")
	}
	if !ev.NotifiedWarn || ev.NotifiedRelease {
		t.Fatalf("flags did not roundtrip: %+v", ev)
	}
}

func TestDocumentSchema(t *testing.T) {
	t.Parallel()
	st, path := tempStore(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	err := st.Save(ctx, Document{
		UpdatedAt: &now,
		Events: []calendar.Event{{
			ID:     "abcdef0123456789",
			Date:   "2026-03-11",
			Time:   "08:30",
			Name:   "CPI m/m",
			Impact: calendar.ImpactHigh,
			Status: calendar.StatusUpcoming,
		}},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	raw := string(b)

	// The on-disk shape is a stable contract: null for absent values,
	// snake_case flag names.
	for _, want := range []string{
		`"updated_at"`,
		`"events"`,
		`"forecast": null`,
		`"actual": null`,
		`"previous": null`,
		`"notification_sent_12h": false`,
		`"notification_sent_release": false`,
		`"status": "upcoming"`,
		`"impact": "High"`,
	} {
		if !strings.Contains(raw, want) {
			t.Fatalf("document missing %q:\n%s", want, raw)
		}
	}

	var generic map[string]any
	if err := json.Unmarshal(b, &generic); err != nil {
		t.Fatalf("document is not valid JSON: %v", err)
	}
}

func TestSaveNilEventsWritesEmptyList(t *testing.T) {
	t.Parallel()
	st, path := tempStore(t)

	if err := st.Save(context.Background(), Document{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(b), `"events": []`) {
		t.Fatalf("events must serialize as an empty list, got:\n%s", b)
	}
}

func TestLoadCorruptDocumentReturnsError(t *testing.T) {
	t.Parallel()
	st, path := tempStore(t)

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := st.Load(context.Background()); err == nil {
		t.Fatal("corrupt document must surface an error for the caller to degrade on")
	}
}

func TestOpenDisabledAndUnknownDrivers(t *testing.T) {
	t.Parallel()
	st, err := Open(Config{Driver: "none"}, logx.Nop())
	if err != nil || st != nil {
		t.Fatalf("driver none should disable storage, got %v / %v", st, err)
	}
	if _, err := Open(Config{Driver: "bogus"}, logx.Nop()); err == nil {
		t.Fatal("unknown driver must error")
	}
}
