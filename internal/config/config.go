package config

import (
	"fmt"
	"time"

	"github.com/Sanzcloud-web/Whisper/internal/audio"
)

type Config struct {
	Env                string
	TranscribeLanguage string
	OutputDir          string

	SampleRate      int
	AudioChannels   int
	ChunkFrames     int
	SegmentDuration time.Duration
	SegmentInterval time.Duration

	TranscribeWorkers int

	GoogleCloudProjectID       string
	GoogleCloudCredentialsJSON string
	GoogleCloudSpeechLocation  string
	GoogleCloudSpeechModel     string

	TranscriptWebhookURL string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("SAMPLE_RATE must be positive, got %d", c.SampleRate)
	}
	if c.AudioChannels <= 0 {
		return fmt.Errorf("AUDIO_CHANNELS must be positive, got %d", c.AudioChannels)
	}
	if c.ChunkFrames <= 0 {
		return fmt.Errorf("CHUNK_FRAMES must be positive, got %d", c.ChunkFrames)
	}
	if c.SegmentDuration <= 0 {
		return fmt.Errorf("SEGMENT_DURATION must be positive, got %s", c.SegmentDuration)
	}
	if c.SegmentInterval <= 0 {
		return fmt.Errorf("SEGMENT_INTERVAL must be positive, got %s", c.SegmentInterval)
	}
	if c.TranscribeWorkers <= 0 {
		return fmt.Errorf("TRANSCRIBE_WORKERS must be positive, got %d", c.TranscribeWorkers)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "TRANSCRIBE_LANGUAGE", value: c.TranscribeLanguage},
		{name: "OUTPUT_DIR", value: c.OutputDir},
		{name: "GOOGLE_CLOUD_SPEECH_MODEL", value: c.GoogleCloudSpeechModel},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) StreamConfig() audio.StreamConfig {
	return audio.StreamConfig{
		SampleRate:     c.SampleRate,
		Channels:       c.AudioChannels,
		FramesPerChunk: c.ChunkFrames,
	}
}
