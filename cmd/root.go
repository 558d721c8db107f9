package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"StaticSweep/internal/config"
	"StaticSweep/internal/logger"
)

var (
	configPath string
	envFile    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "staticsweep",
	Short: "Delete static assets that the site source no longer references",
	Long: "Staticsweep scans a source tree for links under the public static URL, lists every object in the " +
		"R2/S3 bucket behind it, and after confirmation deletes the objects nothing links to.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $"+config.EnvConfigPath+" or ./"+config.DefaultConfigName+")")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// loadConfig reads file, environment and the listed flags (viper key to flag
// name) into a Config and applies the log level. It does not validate.
func loadConfig(cmd *cobra.Command, flags map[string]string) (*config.Config, error) {
	return loadConfigWith(cmd, flags, false)
}

func loadConfigWith(cmd *cobra.Command, flags map[string]string, checkPerms bool) (*config.Config, error) {
	v, err := config.Load(config.LoadOptions{ConfigPath: configPath, EnvFile: envFile, CheckPerms: checkPerms})
	if err != nil {
		return nil, err
	}
	for key, name := range flags {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	cfg, err := config.Unmarshal(v)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	level := logLevel
	if level == "" && cfg.Log != nil {
		level = cfg.Log.Level
	}
	logger.SetLevel(level)
	return cfg, nil
}

// loadValidConfig is loadConfig followed by config.Validate.
func loadValidConfig(cmd *cobra.Command, flags map[string]string) (*config.Config, error) {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
