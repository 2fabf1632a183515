package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"catalystradar/internal/calendar"
	"catalystradar/pkg/logx"
)

const defaultFilePath = "./calendar_data.json"

// fileStore persists the document as a single pretty-printed JSON file,
// written atomically (tmp + rename) so a crash mid-write never leaves a
// truncated document behind.
type fileStore struct {
	log  logx.Logger
	mu   sync.Mutex
	path string
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		path = defaultFilePath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &fileStore{log: log, path: path}, nil
}

func (s *fileStore) Load(ctx context.Context) (Document, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Info("no prior calendar document (first run)", logx.String("path", s.path))
		return emptyDocument(), nil
	}
	if err != nil {
		return emptyDocument(), err
	}

	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return emptyDocument(), err
	}
	if doc.Events == nil {
		doc.Events = []calendar.Event{}
	}
	return doc, nil
}

func (s *fileStore) Save(ctx context.Context, doc Document) error {
	_ = ctx
	if doc.Events == nil {
		doc.Events = []calendar.Event{}
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *fileStore) Close() error { return nil }

func emptyDocument() Document {
	return Document{Events: []calendar.Event{}}
}
