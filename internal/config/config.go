package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"savesync/internal/model"
	"savesync/internal/strategy"
	"savesync/internal/util"

	"github.com/spf13/viper"
)

type GameConfig struct {
	Name       string `mapstructure:"name"`
	ClientPath string `mapstructure:"client_path"`
	BackupPath string `mapstructure:"backup_path"`
	SaveSuffix string `mapstructure:"save_suffix"`
	Strategy   string `mapstructure:"strategy"`
}

type Config struct {
	DaemonPort      int          `mapstructure:"daemon_port"`
	DBPath          string       `mapstructure:"db_path"`
	Notify          bool         `mapstructure:"notify"`
	CoalesceMS      int          `mapstructure:"coalesce_ms"`
	SyncIntervalMin int          `mapstructure:"sync_interval_min"`
	IgnoreList      []string     `mapstructure:"ignore_list"`
	Games           []GameConfig `mapstructure:"games"`
}

var Default = Config{
	DaemonPort:      9780,
	DBPath:          "savesync.db",
	Notify:          true,
	CoalesceMS:      1000,
	SyncIntervalMin: 30,
	IgnoreList:      []string{"*.tmp", "*.swp", "*.part", ".DS_Store"},
}

func Load() (*Config, error) {
	configDir, err := Dir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	viper.SetDefault("daemon_port", Default.DaemonPort)
	viper.SetDefault("db_path", Default.DBPath)
	viper.SetDefault("notify", Default.Notify)
	viper.SetDefault("coalesce_ms", Default.CoalesceMS)
	viper.SetDefault("sync_interval_min", Default.SyncIntervalMin)
	viper.SetDefault("ignore_list", Default.IgnoreList)

	viper.SetEnvPrefix("SAVESYNC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := errors.AsType[viper.ConfigFileNotFoundError](err); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if !filepath.IsAbs(cfg.DBPath) {
		cfg.DBPath = filepath.Join(configDir, cfg.DBPath)
	}

	return &cfg, nil
}

// Dir returns ~/.savesync, creating it on first use.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home dir: %w", err)
	}

	configDir := filepath.Join(home, ".savesync")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}

	return configDir, nil
}

// Entries validates the configured games and resolves them into engine
// entries. Any invalid entry is bad configuration and aborts startup.
func (c *Config) Entries() ([]model.GameEntry, error) {
	entries := make([]model.GameEntry, 0, len(c.Games))
	seen := make(map[string]bool)

	for i, g := range c.Games {
		if g.Name == "" {
			return nil, fmt.Errorf("game entry %d: name is required", i)
		}
		if seen[g.Name] {
			return nil, fmt.Errorf("game entry %q configured twice", g.Name)
		}
		seen[g.Name] = true

		if g.ClientPath == "" || g.BackupPath == "" {
			return nil, fmt.Errorf("game entry %q: client_path and backup_path are required", g.Name)
		}
		if !strategy.Known(g.Strategy) {
			return nil, fmt.Errorf("game entry %q: unknown strategy %q", g.Name, g.Strategy)
		}

		clientPath, err := util.ExpandHome(g.ClientPath)
		if err != nil {
			return nil, fmt.Errorf("game entry %q: %w", g.Name, err)
		}

		backupPath, err := util.ExpandHome(g.BackupPath)
		if err != nil {
			return nil, fmt.Errorf("game entry %q: %w", g.Name, err)
		}

		entries = append(entries, model.GameEntry{
			Name:         g.Name,
			ClientPath:   clientPath,
			BackupPath:   backupPath,
			SaveSuffix:   g.SaveSuffix,
			StrategyName: g.Strategy,
		})
	}

	return entries, nil
}
