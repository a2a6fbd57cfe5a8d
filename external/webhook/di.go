package webhook

import (
	"github.com/Sanzcloud-web/Whisper/internal/config"
	"github.com/Sanzcloud-web/Whisper/internal/webhook"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (webhook.Sender, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewHTTPSender(cfg.TranscriptWebhookURL), nil
	})
}
