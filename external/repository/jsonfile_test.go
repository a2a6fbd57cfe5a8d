package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Sanzcloud-web/Whisper/internal/repository"
)

func newInitializedStore(t *testing.T, dir string) repository.Store {
	t.Helper()
	store := NewFileStore(dir)
	input := repository.CreateSessionInput{
		StartedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Language:  "fr-FR",
		Model:     "long",
	}
	if err := store.Initialize(context.Background(), input); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	return store
}

func readSessionFile(t *testing.T, dir string) *repository.SessionRecord {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "session_*.json"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected exactly one session file, got %v (err %v)", matches, err)
	}
	b, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("failed to read session file: %v", err)
	}
	var record repository.SessionRecord
	if err := json.Unmarshal(b, &record); err != nil {
		t.Fatalf("failed to parse session file: %v", err)
	}
	return &record
}

func TestInitialize_CreatesActiveRecord(t *testing.T) {
	dir := t.TempDir()
	newInitializedStore(t, dir)

	record := readSessionFile(t, dir)
	if record.Session.Status != repository.SessionStatusActive {
		t.Fatalf("expected active status, got %s", record.Session.Status)
	}
	if record.Session.EndTime != nil {
		t.Fatalf("expected null end_time, got %v", record.Session.EndTime)
	}
	if record.Session.Language != "fr-FR" || record.Session.Model != "long" {
		t.Fatalf("unexpected session metadata: %+v", record.Session)
	}
	if len(record.Transcriptions) != 0 {
		t.Fatalf("expected no transcriptions, got %d", len(record.Transcriptions))
	}
}

func TestInitialize_UnwritableLocation(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create blocking file: %v", err)
	}

	store := NewFileStore(filepath.Join(blocker, "sessions"))
	err := store.Initialize(context.Background(), repository.CreateSessionInput{StartedAt: time.Now()})
	if err == nil {
		t.Fatal("expected error for unwritable location")
	}
}

func TestAppend_PreservesInsertionOrder(t *testing.T) {
	dir := t.TempDir()
	store := newInitializedStore(t, dir)

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		entry := repository.TranscriptionEntry{Timestamp: base.Add(time.Duration(i) * time.Second), Text: fmt.Sprintf("entry-%d", i)}
		if err := store.Append(context.Background(), entry); err != nil {
			t.Fatalf("append %d failed: %v", i, err)
		}
	}

	record := readSessionFile(t, dir)
	if len(record.Transcriptions) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(record.Transcriptions))
	}
	for i, entry := range record.Transcriptions {
		if want := fmt.Sprintf("entry-%d", i); entry.Text != want {
			t.Fatalf("entry %d out of order: got %q, want %q", i, entry.Text, want)
		}
	}
}

func TestAppend_ConcurrentCallersLoseNothing(t *testing.T) {
	dir := t.TempDir()
	store := newInitializedStore(t, dir)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry := repository.TranscriptionEntry{Timestamp: time.Now(), Text: fmt.Sprintf("writer-%d", i)}
			if err := store.Append(context.Background(), entry); err != nil {
				t.Errorf("append from writer %d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	record := readSessionFile(t, dir)
	if len(record.Transcriptions) != writers {
		t.Fatalf("expected %d entries, got %d", writers, len(record.Transcriptions))
	}
	seen := make(map[string]bool, writers)
	for _, entry := range record.Transcriptions {
		if seen[entry.Text] {
			t.Fatalf("duplicated entry %q", entry.Text)
		}
		seen[entry.Text] = true
	}
}

func TestFinalize_CompletesRecord(t *testing.T) {
	dir := t.TempDir()
	store := newInitializedStore(t, dir)

	for i := 0; i < 3; i++ {
		entry := repository.TranscriptionEntry{Timestamp: time.Now(), Text: fmt.Sprintf("entry-%d", i)}
		if err := store.Append(context.Background(), entry); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	endedAt := time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)
	record, err := store.Finalize(context.Background(), endedAt)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if record.Session.Status != repository.SessionStatusCompleted {
		t.Fatalf("expected completed status, got %s", record.Session.Status)
	}
	if record.Session.TotalTranscriptions != 3 {
		t.Fatalf("expected total 3, got %d", record.Session.TotalTranscriptions)
	}
	if record.Session.EndTime == nil || !record.Session.EndTime.Equal(endedAt) {
		t.Fatalf("unexpected end time: %v", record.Session.EndTime)
	}

	persisted := readSessionFile(t, dir)
	if persisted.Session.Status != repository.SessionStatusCompleted || persisted.Session.TotalTranscriptions != 3 {
		t.Fatalf("finalized state not persisted: %+v", persisted.Session)
	}
}

func TestListSessions(t *testing.T) {
	dir := t.TempDir()
	store := newInitializedStore(t, dir)
	if err := store.Append(context.Background(), repository.TranscriptionEntry{Timestamp: time.Now(), Text: "bonjour"}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if _, err := store.Finalize(context.Background(), time.Now()); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	// files that are not session records are ignored
	if err := os.WriteFile(filepath.Join(dir, "segment_x.wav"), []byte("pcm"), 0o644); err != nil {
		t.Fatalf("failed to seed wav file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "session_garbage.json"), []byte("{"), 0o644); err != nil {
		t.Fatalf("failed to seed corrupt file: %v", err)
	}

	summaries, err := store.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("list sessions failed: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	s := summaries[0]
	if s.Status != repository.SessionStatusCompleted || s.Model != "long" || s.Entries != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestListSessions_MissingDirectory(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "never-created"))
	summaries, err := store.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("expected no error for missing directory, got %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("expected no summaries, got %d", len(summaries))
	}
}
