package capture

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Sanzcloud-web/Whisper/internal/audio"
)

const maxConsecutiveReadErrors = 10

// Recorder runs the dedicated capture goroutine: it reads fixed-size chunks
// from the device stream and pushes them into the buffer. The goroutine has
// real-time deadlines (the device drops audio if not drained promptly), so
// nothing on this path blocks.
type Recorder struct {
	source audio.Source
	cfg    audio.StreamConfig
	buffer *ChunkBuffer

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewRecorder(source audio.Source, cfg audio.StreamConfig, buffer *ChunkBuffer) *Recorder {
	return &Recorder{
		source: source,
		cfg:    cfg,
		buffer: buffer,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start opens the capture device and launches the capture goroutine.
// A device-open failure is fatal for the session and reported here.
func (r *Recorder) Start() error {
	stream, err := r.source.Open(r.cfg)
	if err != nil {
		return fmt.Errorf("open capture device: %w", err)
	}
	slog.Info("continuous capture started",
		"sample_rate", r.cfg.SampleRate,
		"channels", r.cfg.Channels,
		"chunk_frames", r.cfg.FramesPerChunk)
	go r.captureLoop(stream)
	return nil
}

func (r *Recorder) captureLoop(stream audio.Stream) {
	defer close(r.done)
	defer func() {
		if err := stream.Close(); err != nil {
			slog.Warn("failed to close capture stream", "error", err)
		}
		slog.Info("continuous capture stopped")
	}()

	readErrors := 0
	for {
		select {
		case <-r.stop:
			return
		default:
		}

		chunk, err := stream.Read(r.cfg.FramesPerChunk)
		if err != nil {
			readErrors++
			slog.Warn("audio read failed", "error", err, "consecutive_errors", readErrors)
			if readErrors >= maxConsecutiveReadErrors {
				slog.Error("capture device failed; stopping capture", "error", err)
				return
			}
			continue
		}
		readErrors = 0
		if len(chunk) > 0 {
			r.buffer.Push(chunk)
		}
	}
}

// Stop signals the capture goroutine and joins it with a bounded timeout.
func (r *Recorder) Stop(timeout time.Duration) {
	r.stopOnce.Do(func() { close(r.stop) })
	select {
	case <-r.done:
	case <-time.After(timeout):
		slog.Warn("capture goroutine did not stop in time", "timeout", timeout)
	}
}
