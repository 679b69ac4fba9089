package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"savesync/internal/model"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "View daemon status",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := http.Get(daemonURL("/status"))
		if err != nil {
			return fmt.Errorf("daemon not running: %w", err)
		}

		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		var result struct {
			Games []model.GameSnapshot `json:"games"`
		}

		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("failed to decode status response: %w", err)
		}

		if len(result.Games) == 0 {
			fmt.Println("no games watched")
			return nil
		}

		fmt.Printf("%-20s %-6s %-8s %-10s %-9s %s\n",
			"GAME", "RUNS", "COPIED", "CONFLICTS", "FAILURES", "LAST RUN")

		for _, snap := range result.Games {
			lastRun := "-"
			if snap.LastRun != nil {
				lastRun = snap.LastRun.Format("2006-01-02 15:04:05")
			}

			uptime := time.Since(snap.StartedAt).Round(time.Second)
			fmt.Printf("%-20s %-6d %-8d %-10d %-9d %s\n",
				snap.Game, snap.Runs, snap.Copied, snap.Conflicts, snap.Failures, lastRun)
			fmt.Printf("  client: %s\n  backup: %s\n  uptime: %s\n",
				snap.Client, snap.Backup, uptime)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
