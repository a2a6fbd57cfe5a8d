package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Sanzcloud-web/Whisper/internal/transcriber"
	"github.com/Sanzcloud-web/Whisper/internal/transcript"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

const previewRunes = 500

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <file>",
	Short: "Transcribe a single audio file",
	Long: `Transcribes one audio file in full and writes a JSON record with
per-segment timings plus a plain-text dump of the transcript to the
output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("audio file is not accessible: %w", err)
	}

	stt, err := do.Invoke[transcriber.Transcriber](injector)
	if err != nil {
		return fmt.Errorf("resolve transcription engine: %w", err)
	}

	slog.Info("transcribing file", "path", path, "language", cfg.TranscribeLanguage, "model", cfg.GoogleCloudSpeechModel)
	started := time.Now()
	result, err := stt.Transcribe(cmd.Context(), path, cfg.TranscribeLanguage)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	output, err := transcript.WriteFileResult(cfg.OutputDir, path, cfg.GoogleCloudSpeechModel, cfg.TranscribeLanguage, result, time.Now())
	if err != nil {
		return fmt.Errorf("write transcription output: %w", err)
	}

	fmt.Printf("Transcribed %s in %s\n", path, time.Since(started).Round(time.Millisecond))
	fmt.Printf("  audio duration: %.1fs, segments: %d\n", output.Duration, output.SegmentCount)
	fmt.Printf("  json: %s\n", output.JSONPath)
	fmt.Printf("  text: %s\n", output.TXTPath)
	fmt.Println()
	fmt.Println(preview(result.Text))
	return nil
}

// preview truncates on rune boundaries so multi-byte text is never cut
// mid-character.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes]) + "…"
}
