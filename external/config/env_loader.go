package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	internalconfig "github.com/Sanzcloud-web/Whisper/internal/config"
)

type envConfig struct {
	Env                string        `env:"ENV" envDefault:"production"`
	TranscribeLanguage string        `env:"TRANSCRIBE_LANGUAGE" envDefault:"fr-FR"`
	OutputDir          string        `env:"OUTPUT_DIR" envDefault:"transcription"`
	SampleRate         int           `env:"SAMPLE_RATE" envDefault:"44100"`
	AudioChannels      int           `env:"AUDIO_CHANNELS" envDefault:"1"`
	ChunkFrames        int           `env:"CHUNK_FRAMES" envDefault:"2048"`
	SegmentDuration    time.Duration `env:"SEGMENT_DURATION" envDefault:"10s"`
	SegmentInterval    time.Duration `env:"SEGMENT_INTERVAL" envDefault:"3s"`
	TranscribeWorkers  int           `env:"TRANSCRIBE_WORKERS" envDefault:"2"`

	GoogleCloudProjectID       string `env:"GOOGLE_CLOUD_PROJECT_ID"`
	GoogleCloudCredentialsJSON string `env:"GOOGLE_CLOUD_CREDENTIALS_JSON"`
	GoogleCloudSpeechLocation  string `env:"GOOGLE_CLOUD_SPEECH_LOCATION" envDefault:"global"`
	GoogleCloudSpeechModel     string `env:"GOOGLE_CLOUD_SPEECH_MODEL" envDefault:"long"`

	TranscriptWebhookURL string `env:"TRANSCRIPT_WEBHOOK_URL"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                        raw.Env,
		TranscribeLanguage:         raw.TranscribeLanguage,
		OutputDir:                  raw.OutputDir,
		SampleRate:                 raw.SampleRate,
		AudioChannels:              raw.AudioChannels,
		ChunkFrames:                raw.ChunkFrames,
		SegmentDuration:            raw.SegmentDuration,
		SegmentInterval:            raw.SegmentInterval,
		TranscribeWorkers:          raw.TranscribeWorkers,
		GoogleCloudProjectID:       raw.GoogleCloudProjectID,
		GoogleCloudCredentialsJSON: raw.GoogleCloudCredentialsJSON,
		GoogleCloudSpeechLocation:  raw.GoogleCloudSpeechLocation,
		GoogleCloudSpeechModel:     raw.GoogleCloudSpeechModel,
		TranscriptWebhookURL:       raw.TranscriptWebhookURL,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
