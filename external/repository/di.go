package repository

import (
	"github.com/Sanzcloud-web/Whisper/internal/config"
	"github.com/Sanzcloud-web/Whisper/internal/repository"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (repository.Store, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewFileStore(cfg.OutputDir), nil
	})
}
