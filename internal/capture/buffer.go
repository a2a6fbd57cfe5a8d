package capture

import (
	"errors"
	"sync"
	"time"
)

// ErrEmpty is returned by Pop when no chunk arrived within the timeout.
var ErrEmpty = errors.New("capture buffer is empty")

// ChunkBuffer is an unbounded FIFO of raw PCM chunks shared between one
// producer (the capture goroutine) and one consumer (the segmenter).
// Push never blocks; backpressure is deliberately absent so the capture
// goroutine can keep up with the device's real-time deadlines.
type ChunkBuffer struct {
	mu     sync.Mutex
	chunks [][]byte
	signal chan struct{}
}

func NewChunkBuffer() *ChunkBuffer {
	return &ChunkBuffer{signal: make(chan struct{}, 1)}
}

func (b *ChunkBuffer) Push(chunk []byte) {
	b.mu.Lock()
	b.chunks = append(b.chunks, chunk)
	b.mu.Unlock()
	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// Pop returns the oldest chunk, blocking until one is available or the
// timeout elapses. Timeout is reported as ErrEmpty.
func (b *ChunkBuffer) Pop(timeout time.Duration) ([]byte, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		b.mu.Lock()
		if len(b.chunks) > 0 {
			chunk := b.chunks[0]
			b.chunks = b.chunks[1:]
			b.mu.Unlock()
			return chunk, nil
		}
		b.mu.Unlock()

		select {
		case <-b.signal:
		case <-deadline.C:
			return nil, ErrEmpty
		}
	}
}

func (b *ChunkBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.chunks)
}
