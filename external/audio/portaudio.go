package audio

import (
	"encoding/binary"
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/Sanzcloud-web/Whisper/internal/audio"
)

// MicrophoneSource opens the default input device via PortAudio.
type MicrophoneSource struct{}

func NewMicrophoneSource() audio.Source {
	return &MicrophoneSource{}
}

func (s *MicrophoneSource) Open(cfg audio.StreamConfig) (audio.Stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	samples := make([]int16, cfg.FramesPerChunk*cfg.Channels)
	stream, err := portaudio.OpenDefaultStream(cfg.Channels, 0, float64(cfg.SampleRate), cfg.FramesPerChunk, samples)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("open default input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("start input stream: %w", err)
	}
	return &microphoneStream{stream: stream, samples: samples, frames: cfg.FramesPerChunk}, nil
}

type microphoneStream struct {
	stream  *portaudio.Stream
	samples []int16
	frames  int
}

func (s *microphoneStream) Read(frameCount int) ([]byte, error) {
	if frameCount != s.frames {
		return nil, fmt.Errorf("stream is configured for %d frames per read, got %d", s.frames, frameCount)
	}
	if err := s.stream.Read(); err != nil {
		return nil, err
	}
	chunk := make([]byte, len(s.samples)*2)
	for i, v := range s.samples {
		binary.LittleEndian.PutUint16(chunk[i*2:], uint16(v))
	}
	return chunk, nil
}

func (s *microphoneStream) Close() error {
	if err := s.stream.Stop(); err != nil {
		_ = s.stream.Close()
		_ = portaudio.Terminate()
		return err
	}
	if err := s.stream.Close(); err != nil {
		_ = portaudio.Terminate()
		return err
	}
	return portaudio.Terminate()
}
