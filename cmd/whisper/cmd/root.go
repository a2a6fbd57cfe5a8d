package cmd

import (
	"log/slog"
	"os"

	audioimpl "github.com/Sanzcloud-web/Whisper/external/audio"
	configloader "github.com/Sanzcloud-web/Whisper/external/config"
	repositoryimpl "github.com/Sanzcloud-web/Whisper/external/repository"
	transcriberimpl "github.com/Sanzcloud-web/Whisper/external/transcriber"
	webhookimpl "github.com/Sanzcloud-web/Whisper/external/webhook"
	"github.com/Sanzcloud-web/Whisper/internal/config"
	"github.com/Sanzcloud-web/Whisper/internal/session"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

var (
	cfg      *config.Config
	injector do.Injector
)

var rootCmd = &cobra.Command{
	Use:   "whisper",
	Short: "Live microphone transcription",
	Long: `whisper captures live microphone audio, slices it into fixed-duration
segments and transcribes them concurrently, appending timestamped results
to a durable session record.

Commands:
  record      - start a continuous capture session (stop with Ctrl+C)
  transcribe  - transcribe a single audio file
  sessions    - list recorded session files`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := configloader.Load()
		if err != nil {
			slog.Error("config validation failed", "error", err)
			return err
		}
		cfg = loaded
		initLogger(cfg)
		injector = setupDI(cfg)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	audioimpl.RegisterDI(injector)
	transcriberimpl.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	session.RegisterDI(injector)

	return injector
}
