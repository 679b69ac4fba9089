package cmd

import (
	"fmt"

	"savesync/internal/engine"
	"savesync/internal/executor"
	"savesync/internal/logger"
	"savesync/internal/model"
	"savesync/internal/notify"
	"savesync/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	noNotify     bool
	copyToBackup bool
	copyToClient bool
	dryRun       bool
	gameName     string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile all configured game saves once",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer logger.Sync()

		if copyToBackup || copyToClient {
			return fmt.Errorf("unconditional copy modes are not implemented")
		}

		entries, err := cfg.Entries()
		if err != nil {
			return err
		}

		if gameName != "" {
			entries = filterGame(entries, gameName)
			if len(entries) == 0 {
				return fmt.Errorf("no configured game named %q", gameName)
			}
		}

		if len(entries) == 0 {
			fmt.Println("no games configured, add them to the config file first")
			return nil
		}

		notifier := pickNotifier()

		var history engine.HistoryStore
		if !dryRun {
			history = repository.NewHistoryRepository()
		}

		reconciler := engine.New(&executor.Executor{DryRun: dryRun}, notifier, history)

		logger.Log.Info("starting reconciliation",
			zap.Int("games", len(entries)),
			zap.Bool("dry_run", dryRun))

		sum := reconciler.SyncAll(entries)

		fmt.Printf("done: %d copied, %d in sync, %d conflicts, %d failures\n",
			sum.Copied, sum.InSync, sum.Conflicts, sum.Failures)
		if sum.Skipped > 0 {
			fmt.Printf("%d game entries skipped (unreadable directory)\n", sum.Skipped)
		}

		return nil
	},
}

func pickNotifier() notify.Notifier {
	if noNotify || !cfg.Notify {
		return notify.Noop{}
	}
	return notify.Desktop{}
}

func filterGame(entries []model.GameEntry, name string) []model.GameEntry {
	for _, entry := range entries {
		if entry.Name == name {
			return []model.GameEntry{entry}
		}
	}
	return nil
}

func init() {
	syncCmd.Flags().BoolVar(&noNotify, "no-notify", false, "Don't send desktop notifications")
	syncCmd.Flags().BoolVar(&copyToBackup, "copy-to-backup", false, "Copy everything client to backup without reconciling (not implemented)")
	syncCmd.Flags().BoolVar(&copyToClient, "copy-to-client", false, "Copy everything backup to client without reconciling (not implemented)")
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log planned copies without writing anything")
	syncCmd.Flags().StringVar(&gameName, "game", "", "Limit the run to one configured game")
	rootCmd.AddCommand(syncCmd)
}
