package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type LoadOptions struct {
	// ConfigPath is the --config flag value; empty means resolve the default.
	ConfigPath string
	// EnvFile is loaded into the process environment before reading; missing is fine.
	EnvFile string
	// CheckPerms rejects a config file readable by group or others.
	CheckPerms bool
}

func Load(opts LoadOptions) (*viper.Viper, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	path := ResolveConfigPath(opts.ConfigPath)
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindCredentialEnv(v); err != nil {
		return nil, err
	}

	if opts.CheckPerms {
		if err := checkConfigPermissions(path); err != nil {
			return nil, err
		}
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound), errors.Is(err, fs.ErrNotExist):
			// The config file is optional; credentials usually come from the environment.
		default:
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("r2.region", DefaultRegion)
	v.SetDefault("r2.driver", DriverS3)
	v.SetDefault("r2.request_timeout", "0s")
	v.SetDefault("site.static_url", DefaultStaticURL)
	v.SetDefault("scan.root", ".")
	v.SetDefault("scan.extensions", DefaultExtensions)
	v.SetDefault("scan.exclude_dirs", DefaultExcludeDirs)
	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.dir", ".staticsweep/journal")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("lock.dir", os.TempDir())
	v.SetDefault("log.level", "info")
}

func bindCredentialEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"r2.account_id":        EnvAccountID,
		"r2.access_key_id":     EnvAccessKeyID,
		"r2.secret_access_key": EnvSecretAccessKey,
		"r2.bucket":            EnvBucketName,
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s: %w", env, err)
		}
	}
	return nil
}

func checkConfigPermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	mode := info.Mode().Perm()

	if mode&0077 != 0 {
		return fmt.Errorf("config file %s has overly permissive mode %s (recommended: 0600)", path, mode)
	}
	return nil
}
