package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/Sanzcloud-web/Whisper/internal/session"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Start a continuous microphone transcription session",
	Long: `Starts capturing from the default microphone and transcribing segments
until interrupted. Ctrl+C stops the session cleanly: in-flight
transcriptions are drained and the session record is finalized.`,
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	runner, err := do.Invoke[*session.Runner](injector)
	if err != nil {
		return fmt.Errorf("resolve session runner: %w", err)
	}

	// interruption is the normal way to end a session, not an error
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runner.Run(ctx)
}
