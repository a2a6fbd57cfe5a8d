package session

import (
	"context"

	"github.com/Sanzcloud-web/Whisper/internal/audio"
	"github.com/Sanzcloud-web/Whisper/internal/capture"
	"github.com/Sanzcloud-web/Whisper/internal/config"
	"github.com/Sanzcloud-web/Whisper/internal/dispatcher"
	"github.com/Sanzcloud-web/Whisper/internal/repository"
	"github.com/Sanzcloud-web/Whisper/internal/transcriber"
	"github.com/Sanzcloud-web/Whisper/internal/webhook"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Runner, error) {
		cfg := do.MustInvoke[*config.Config](i)
		store := do.MustInvoke[repository.Store](i)
		wh := do.MustInvoke[webhook.Sender](i)
		stt := do.MustInvoke[transcriber.Transcriber](i)
		source := do.MustInvoke[audio.Source](i)

		streamCfg := cfg.StreamConfig()
		buffer := capture.NewChunkBuffer()
		recorder := capture.NewRecorder(source, streamCfg, buffer)
		segmenter := capture.NewSegmenter(buffer, streamCfg, cfg.OutputDir)
		// workers get their own context so drained tasks finish even after
		// the session stop signal fires
		disp := dispatcher.New(context.Background(), stt, cfg.TranscribeLanguage, cfg.TranscribeWorkers)

		return NewRunner(cfg, store, wh, recorder, segmenter, disp), nil
	})
}
