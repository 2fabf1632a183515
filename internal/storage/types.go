package storage

import (
	"errors"
	"time"

	"catalystradar/internal/calendar"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures storage.
//
// Driver values:
//   - "file": single JSON document on disk (default)
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is "none", storage is disabled and every run starts from an
// empty prior batch.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Document is the persisted tracked-event set. The JSON shape is a
// stable contract shared with earlier versions of this tool; keep the
// field names and null conventions intact.
type Document struct {
	UpdatedAt *time.Time       `json:"updated_at"`
	Events    []calendar.Event `json:"events"`
}
