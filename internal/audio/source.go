package audio

import "time"

const bytesPerSample = 2

// StreamConfig describes the PCM format delivered by a capture stream.
// Samples are 16-bit little-endian signed integers.
type StreamConfig struct {
	SampleRate     int
	Channels       int
	FramesPerChunk int
}

func (c StreamConfig) BytesPerChunk() int {
	return c.FramesPerChunk * c.Channels * bytesPerSample
}

func (c StreamConfig) ChunkDuration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(c.FramesPerChunk) * time.Second / time.Duration(c.SampleRate)
}

type Stream interface {
	// Read blocks until the device has produced frameCount frames and
	// returns them as raw PCM bytes.
	Read(frameCount int) ([]byte, error)
	Close() error
}

type Source interface {
	Open(cfg StreamConfig) (Stream, error)
}
