package dispatcher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Sanzcloud-web/Whisper/internal/capture"
	"github.com/Sanzcloud-web/Whisper/internal/transcriber"
)

const defaultQueueCapacity = 64

// ErrDraining is returned by Submit after DrainAll started.
var ErrDraining = errors.New("dispatcher is draining; no new submissions accepted")

// Completed is a finished transcription, correlated by segment id and the
// submission timestamp (completion order does not match submission order).
type Completed struct {
	SegmentID   int
	Text        string
	SubmittedAt time.Time
}

type task struct {
	segment     *capture.Segment
	submittedAt time.Time
	done        chan struct{}
	text        string
}

// Dispatcher runs a fixed pool of transcription workers. Submissions queue
// in FIFO order; at most maxWorkers transcriptions execute concurrently.
//
// The pending table is owned by the control goroutine: Submit, PollCompleted
// and DrainAll must all be called from that one goroutine. Workers only
// resolve their task's done channel.
type Dispatcher struct {
	stt      transcriber.Transcriber
	language string

	jobs chan *task
	wg   sync.WaitGroup

	pending  map[int]*task
	order    []int
	draining bool
}

// New starts maxWorkers workers reading from the internal queue. The context
// is handed to engine calls; it should outlive the session stop signal so
// drained tasks run to completion instead of being aborted mid-flight.
func New(ctx context.Context, stt transcriber.Transcriber, language string, maxWorkers int) *Dispatcher {
	d := &Dispatcher{
		stt:      stt,
		language: language,
		jobs:     make(chan *task, defaultQueueCapacity),
		pending:  make(map[int]*task),
	}
	for i := 0; i < maxWorkers; i++ {
		d.wg.Add(1)
		go d.worker(ctx)
	}
	return d
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for t := range d.jobs {
		t.text = d.runTask(ctx, t)
		close(t.done)
	}
}

func (d *Dispatcher) runTask(ctx context.Context, t *task) string {
	defer t.segment.Remove()
	result, err := d.stt.Transcribe(ctx, t.segment.Path, d.language)
	if err != nil {
		slog.Warn("transcription failed; resolving to empty text", "artifact", t.segment.Path, "error", err)
		return ""
	}
	return transcriber.CleanText(result.Text)
}

// Submit enqueues a segment for transcription. It does not wait for a free
// worker as long as the internal queue has room.
func (d *Dispatcher) Submit(segment *capture.Segment, segmentID int) error {
	if d.draining {
		return ErrDraining
	}
	t := &task{segment: segment, submittedAt: time.Now(), done: make(chan struct{})}
	d.pending[segmentID] = t
	d.order = append(d.order, segmentID)
	d.jobs <- t
	return nil
}

// PollCompleted drains finished tasks without blocking; pending work is left
// untouched.
func (d *Dispatcher) PollCompleted() []Completed {
	var completed []Completed
	remaining := d.order[:0]
	for _, id := range d.order {
		t := d.pending[id]
		select {
		case <-t.done:
			completed = append(completed, Completed{SegmentID: id, Text: t.text, SubmittedAt: t.submittedAt})
			delete(d.pending, id)
		default:
			remaining = append(remaining, id)
		}
	}
	d.order = remaining
	return completed
}

// DrainAll waits for every outstanding task, returns their results and shuts
// the workers down. The dispatcher accepts no submissions afterwards.
func (d *Dispatcher) DrainAll() []Completed {
	if !d.draining {
		d.draining = true
		close(d.jobs)
	}
	var completed []Completed
	for _, id := range d.order {
		t := d.pending[id]
		<-t.done
		completed = append(completed, Completed{SegmentID: id, Text: t.text, SubmittedAt: t.submittedAt})
		delete(d.pending, id)
	}
	d.order = nil
	d.wg.Wait()
	return completed
}

func (d *Dispatcher) Pending() int {
	return len(d.pending)
}
