package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"savesync/internal/daemon"
	"savesync/internal/engine"
	"savesync/internal/executor"
	"savesync/internal/logger"
	"savesync/internal/notify"
	"savesync/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch save directories and reconcile on change",
	RunE:  runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	defer logger.Sync()

	entries, err := cfg.Entries()
	if err != nil {
		return err
	}

	var notifier notify.Notifier = notify.Logger{}
	if cfg.Notify && !noNotify {
		notifier = notify.Desktop{}
	}

	reconciler := engine.New(&executor.Executor{}, notifier, repository.NewHistoryRepository())
	manager := daemon.NewManager(cfg, reconciler)

	for _, entry := range entries {
		if err := manager.StartGame(entry); err != nil {
			logger.Log.Warn("failed to watch game",
				zap.String("game", entry.Name),
				zap.Error(err))
		}
	}

	if len(entries) == 0 {
		logger.Log.Info("no games configured, add them to the config file first")
	}

	srv := daemon.NewServer(manager, cfg.DaemonPort)
	srv.Start()

	logger.Log.Info("savesync daemon started",
		zap.Int("games", len(entries)),
		zap.Int("port", cfg.DaemonPort))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Log.Info("shutting down",
			zap.String("signal", sig.String()))
	case <-srv.StopCh():
		logger.Log.Info("stop requested via API")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}

func init() {
	watchCmd.Flags().BoolVar(&noNotify, "no-notify", false, "Don't send desktop notifications")
	rootCmd.AddCommand(watchCmd)
}
