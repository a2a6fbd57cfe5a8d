package cmd

import (
	"fmt"

	"github.com/Sanzcloud-web/Whisper/internal/repository"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded session files",
	RunE:  runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	store, err := do.Invoke[repository.Store](injector)
	if err != nil {
		return fmt.Errorf("resolve session store: %w", err)
	}

	summaries, err := store.ListSessions(cmd.Context())
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(summaries) == 0 {
		fmt.Printf("No session records found in %s\n", cfg.OutputDir)
		return nil
	}

	fmt.Printf("Sessions in %s:\n", cfg.OutputDir)
	for _, s := range summaries {
		fmt.Printf("  %s  started=%s  status=%s  model=%s  entries=%d\n",
			s.Filename,
			s.StartTime.Format("2006-01-02 15:04:05"),
			s.Status,
			s.Model,
			s.Entries)
	}
	return nil
}
