package audio

import (
	"github.com/Sanzcloud-web/Whisper/internal/audio"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (audio.Source, error) {
		return NewMicrophoneSource(), nil
	})
}
