package repository

import (
	"context"
	"time"
)

type CreateSessionInput struct {
	StartedAt time.Time
	Language  string
	Model     string
}

// SessionStore is the append-only persistence sink for one session.
// Append must serialize concurrent callers; insertion order is preserved.
type SessionStore interface {
	Initialize(ctx context.Context, input CreateSessionInput) error
	Append(ctx context.Context, entry TranscriptionEntry) error
	Finalize(ctx context.Context, endedAt time.Time) (*SessionRecord, error)
}

type SessionLister interface {
	ListSessions(ctx context.Context) ([]SessionSummary, error)
}

type Store interface {
	SessionStore
	SessionLister
}
