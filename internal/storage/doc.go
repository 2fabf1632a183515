package storage

// Package storage persists the tracked-event document between runs.
//
// The file driver owns the canonical JSON document shape; the optional
// sqlite driver stores the same data relationally for setups that want
// to query event history with SQL.
