package repository

import "time"

type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

// TranscriptionEntry is immutable once appended.
type TranscriptionEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
}

type SessionInfo struct {
	StartTime           time.Time     `json:"start_time"`
	EndTime             *time.Time    `json:"end_time"`
	Language            string        `json:"language"`
	Model               string        `json:"model"`
	Status              SessionStatus `json:"status"`
	TotalTranscriptions int           `json:"total_transcriptions"`
}

// SessionRecord is the persisted shape of one capture session.
type SessionRecord struct {
	Session        SessionInfo          `json:"session"`
	Transcriptions []TranscriptionEntry `json:"transcriptions"`
}

type SessionSummary struct {
	Filename  string
	StartTime time.Time
	Status    SessionStatus
	Model     string
	Entries   int
}
