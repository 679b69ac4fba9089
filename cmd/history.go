package cmd

import (
	"fmt"

	"savesync/internal/repository"

	"github.com/spf13/cobra"
)

var historyN int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recent sync history",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := repository.NewHistoryRepository()

		histories, err := repo.GetRecent(historyN)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}

		if len(histories) == 0 {
			fmt.Println("no history yet")
			return nil
		}

		for _, h := range histories {
			status := "✓"
			if h.Status == "FAILED" {
				status = "✗"
			}

			arrow := "→ backup"
			if h.Direction == "BACKUP_TO_CLIENT" {
				arrow = "→ client"
			}

			fmt.Printf("%s [%s] %-20s %-30s %s\n",
				status,
				h.SyncedAt.Format("2006-01-02 15:04:05"),
				h.Game,
				h.Identity,
				arrow,
			)
		}

		stats, err := repo.GetStats()
		if err == nil {
			fmt.Printf("\ntotal: %d, success: %d, failed: %d\n",
				stats.Total, stats.Success, stats.Failed)
		}

		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyN, "n", 20, "number of history entries to show")
	rootCmd.AddCommand(historyCmd)
}
