package capture

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/Sanzcloud-web/Whisper/internal/audio"
	"github.com/google/uuid"
)

const (
	popTimeout        = 2 * time.Second
	underrunLogAfter  = 5
	waitCeilingFactor = 5

	segmentFilePrefix = "segment_"
)

// ErrNoData is returned by Collect when not a single chunk arrived within
// the wait ceiling.
var ErrNoData = errors.New("no audio data collected")

// Segment is a time-boxed slice of the capture stream, persisted as a
// temporary WAV artifact. The caller owns the artifact and must Remove it
// once transcription finished.
type Segment struct {
	Path     string
	Chunks   int
	Duration time.Duration
}

// Remove deletes the temporary artifact. Removing an already-deleted
// artifact is a no-op.
func (s *Segment) Remove() {
	if s == nil || s.Path == "" {
		return
	}
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to remove segment artifact", "path", s.Path, "error", err)
	}
}

// Segmenter drains the capture buffer into fixed-duration segments.
// It is the buffer's only consumer.
type Segmenter struct {
	buffer     *ChunkBuffer
	cfg        audio.StreamConfig
	dir        string
	popTimeout time.Duration
}

func NewSegmenter(buffer *ChunkBuffer, cfg audio.StreamConfig, dir string) *Segmenter {
	return &Segmenter{buffer: buffer, cfg: cfg, dir: dir, popTimeout: popTimeout}
}

// Collect assembles chunks covering the requested duration into one WAV
// artifact. Underrun is tolerated up to a bounded ceiling: a segment shorter
// than requested is still returned so no captured audio is lost, and only a
// fully empty collection yields ErrNoData.
func (s *Segmenter) Collect(ctx context.Context, duration time.Duration) (*Segment, error) {
	needed := chunksNeeded(duration, s.cfg.SampleRate, s.cfg.FramesPerChunk)
	deadline := time.Now().Add(waitCeilingFactor * time.Duration(needed) * s.popTimeout)

	chunks := make([][]byte, 0, needed)
	emptyStreak := 0
	for len(chunks) < needed {
		if ctx.Err() != nil || time.Now().After(deadline) {
			break
		}
		chunk, err := s.buffer.Pop(s.popTimeout)
		if err != nil {
			emptyStreak++
			if emptyStreak > underrunLogAfter {
				slog.Warn("capture buffer underrun",
					"empty_pops", emptyStreak,
					"buffered_chunks", s.buffer.Len(),
					"collected", len(chunks),
					"needed", needed)
			}
			continue
		}
		emptyStreak = 0
		chunks = append(chunks, chunk)
	}
	if len(chunks) == 0 {
		return nil, ErrNoData
	}

	path := filepath.Join(s.dir, fmt.Sprintf("%s%s.wav", segmentFilePrefix, uuid.NewString()))
	if err := writeWAVFile(path, s.cfg, chunks); err != nil {
		return nil, fmt.Errorf("write segment artifact: %w", err)
	}
	return &Segment{
		Path:     path,
		Chunks:   len(chunks),
		Duration: time.Duration(len(chunks)) * s.cfg.ChunkDuration(),
	}, nil
}

func chunksNeeded(duration time.Duration, sampleRate, chunkFrames int) int {
	return int(math.Ceil(duration.Seconds() * float64(sampleRate) / float64(chunkFrames)))
}

// RemoveStaleArtifacts deletes segment WAV files left behind by a previous
// run that was killed before its dispatcher could clean up.
func RemoveStaleArtifacts(dir string) {
	matches, err := filepath.Glob(filepath.Join(dir, segmentFilePrefix+"*.wav"))
	if err != nil || len(matches) == 0 {
		return
	}
	for _, path := range matches {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to remove stale segment artifact", "path", path, "error", err)
		}
	}
	slog.Info("removed stale segment artifacts", "count", len(matches))
}
