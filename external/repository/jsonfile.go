package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Sanzcloud-web/Whisper/internal/repository"
)

const (
	sessionFilePrefix = "session_"
	sessionTimeLayout = "20060102_150405"
)

// FileStore persists one session record as an indented JSON file. Every
// append is a locked read-modify-write of the whole file; the O(n) rewrite
// is acceptable because appends arrive at segment cadence.
type FileStore struct {
	dir string

	mu   sync.Mutex
	path string
}

func NewFileStore(dir string) repository.Store {
	return &FileStore{dir: dir}
}

func (s *FileStore) Initialize(_ context.Context, input repository.CreateSessionInput) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = filepath.Join(s.dir, fmt.Sprintf("%s%s.json", sessionFilePrefix, input.StartedAt.Format(sessionTimeLayout)))
	record := &repository.SessionRecord{
		Session: repository.SessionInfo{
			StartTime: input.StartedAt,
			Language:  input.Language,
			Model:     input.Model,
			Status:    repository.SessionStatusActive,
		},
		Transcriptions: []repository.TranscriptionEntry{},
	}
	if err := s.writeRecordLocked(record); err != nil {
		return fmt.Errorf("initialize session record: %w", err)
	}
	slog.Info("session record initialized", "path", s.path)
	return nil
}

func (s *FileStore) Append(_ context.Context, entry repository.TranscriptionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return errors.New("session store is not initialized")
	}
	record, err := readRecordFile(s.path)
	if err != nil {
		return fmt.Errorf("read session record: %w", err)
	}
	record.Transcriptions = append(record.Transcriptions, entry)
	if err := s.writeRecordLocked(record); err != nil {
		return fmt.Errorf("write session record: %w", err)
	}
	return nil
}

func (s *FileStore) Finalize(_ context.Context, endedAt time.Time) (*repository.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return nil, errors.New("session store is not initialized")
	}
	record, err := readRecordFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read session record: %w", err)
	}
	record.Session.EndTime = &endedAt
	record.Session.Status = repository.SessionStatusCompleted
	record.Session.TotalTranscriptions = len(record.Transcriptions)
	if err := s.writeRecordLocked(record); err != nil {
		return nil, fmt.Errorf("write session record: %w", err)
	}
	return record, nil
}

func (s *FileStore) ListSessions(_ context.Context) ([]repository.SessionSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session directory: %w", err)
	}

	var summaries []repository.SessionSummary
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, sessionFilePrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		record, err := readRecordFile(filepath.Join(s.dir, name))
		if err != nil {
			slog.Warn("skipping unreadable session record", "file", name, "error", err)
			continue
		}
		summaries = append(summaries, repository.SessionSummary{
			Filename:  name,
			StartTime: record.Session.StartTime,
			Status:    record.Session.Status,
			Model:     record.Session.Model,
			Entries:   len(record.Transcriptions),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Filename < summaries[j].Filename
	})
	return summaries, nil
}

func (s *FileStore) writeRecordLocked(record *repository.SessionRecord) error {
	b, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

func readRecordFile(path string) (*repository.SessionRecord, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var record repository.SessionRecord
	if err := json.Unmarshal(b, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
