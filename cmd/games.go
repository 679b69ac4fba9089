package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List configured game entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := cfg.Entries()
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("no games configured")
			return nil
		}

		for _, entry := range entries {
			strategy := entry.StrategyName
			if strategy == "" {
				strategy = "filename"
			}

			fmt.Printf("%s (strategy: %s", entry.Name, strategy)
			if entry.SaveSuffix != "" {
				fmt.Printf(", suffix: %s", entry.SaveSuffix)
			}
			fmt.Println(")")
			fmt.Printf("  client: %s\n  backup: %s\n", entry.ClientPath, entry.BackupPath)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(gamesCmd)
}
