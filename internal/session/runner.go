package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Sanzcloud-web/Whisper/internal/capture"
	"github.com/Sanzcloud-web/Whisper/internal/config"
	"github.com/Sanzcloud-web/Whisper/internal/dispatcher"
	"github.com/Sanzcloud-web/Whisper/internal/repository"
	"github.com/Sanzcloud-web/Whisper/internal/webhook"
)

const (
	captureWarmup       = 2 * time.Second
	recorderStopTimeout = 2 * time.Second
)

// Runner drives one continuous transcription session: it owns the control
// loop that collects segments, submits them to the dispatcher and appends
// finished transcriptions to the store.
type Runner struct {
	cfg        *config.Config
	store      repository.SessionStore
	webhook    webhook.Sender
	recorder   *capture.Recorder
	segmenter  *capture.Segmenter
	dispatcher *dispatcher.Dispatcher

	warmup        time.Duration
	nextSegmentID int
}

func NewRunner(cfg *config.Config, store repository.SessionStore, wh webhook.Sender, recorder *capture.Recorder, segmenter *capture.Segmenter, disp *dispatcher.Dispatcher) *Runner {
	return &Runner{
		cfg:        cfg,
		store:      store,
		webhook:    wh,
		recorder:   recorder,
		segmenter:  segmenter,
		dispatcher: disp,
		warmup:     captureWarmup,
	}
}

// Run captures and transcribes until ctx is canceled, then drains in-flight
// work and finalizes the session record. Cancellation is the normal way to
// end a session and is not an error.
func (r *Runner) Run(ctx context.Context) error {
	startedAt := time.Now()
	if err := r.store.Initialize(ctx, repository.CreateSessionInput{
		StartedAt: startedAt,
		Language:  r.cfg.TranscribeLanguage,
		Model:     r.cfg.GoogleCloudSpeechModel,
	}); err != nil {
		return fmt.Errorf("initialize session store: %w", err)
	}
	capture.RemoveStaleArtifacts(r.cfg.OutputDir)

	if err := r.recorder.Start(); err != nil {
		// best effort: leave a completed record behind even on a dead device
		if _, ferr := r.store.Finalize(context.Background(), time.Now()); ferr != nil {
			slog.Error("failed to finalize session record", "error", ferr)
		}
		return err
	}

	slog.Info("session started",
		"language", r.cfg.TranscribeLanguage,
		"model", r.cfg.GoogleCloudSpeechModel,
		"segment_duration", r.cfg.SegmentDuration,
		"workers", r.cfg.TranscribeWorkers)

	// let the buffer fill before slicing the first segment
	r.wait(ctx, r.warmup)

	for ctx.Err() == nil {
		r.appendCompleted(ctx, r.dispatcher.PollCompleted())

		segment, err := r.segmenter.Collect(ctx, r.cfg.SegmentDuration)
		switch {
		case errors.Is(err, capture.ErrNoData):
			slog.Warn("no audio collected for segment", "segment_id", r.nextSegmentID)
		case err != nil:
			slog.Error("segment collection failed", "error", err)
		default:
			if err := r.dispatcher.Submit(segment, r.nextSegmentID); err != nil {
				segment.Remove()
				slog.Error("segment submission rejected", "segment_id", r.nextSegmentID, "error", err)
			} else {
				slog.Info("segment submitted",
					"segment_id", r.nextSegmentID,
					"chunks", segment.Chunks,
					"duration", segment.Duration)
				r.nextSegmentID++
			}
		}

		r.wait(ctx, r.cfg.SegmentInterval)
	}

	r.shutdown()
	return nil
}

// shutdown drains every outstanding task before the record is finalized; no
// task is abandoned mid-flight.
func (r *Runner) shutdown() {
	slog.Info("stopping session; draining in-flight transcriptions", "pending", r.dispatcher.Pending())
	r.recorder.Stop(recorderStopTimeout)

	ctx := context.Background()
	r.appendCompleted(ctx, r.dispatcher.DrainAll())

	record, err := r.store.Finalize(ctx, time.Now())
	if err != nil {
		slog.Error("failed to finalize session record", "error", err)
		return
	}
	slog.Info("session finalized", "total_transcriptions", record.Session.TotalTranscriptions)

	if err := r.webhook.SendSessionRecord(ctx, record); err != nil {
		slog.Error("failed to send session record webhook", "error", err)
	}
}

// appendCompleted persists finished transcriptions. Empty results are
// discarded here, at the consumer boundary; a failed append is logged and
// skipped so the pipeline keeps running.
func (r *Runner) appendCompleted(ctx context.Context, completed []dispatcher.Completed) {
	for _, c := range completed {
		if strings.TrimSpace(c.Text) == "" {
			slog.Debug("discarding empty transcription", "segment_id", c.SegmentID)
			continue
		}
		entry := repository.TranscriptionEntry{Timestamp: c.SubmittedAt, Text: c.Text}
		if err := r.store.Append(ctx, entry); err != nil {
			slog.Error("failed to append transcription entry", "segment_id", c.SegmentID, "error", err)
			continue
		}
		slog.Info("transcription recorded", "segment_id", c.SegmentID, "chars", len(c.Text))
	}
}

func (r *Runner) wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
