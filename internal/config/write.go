package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Starter returns the config written by `staticsweep init`. Credentials are
// left out on purpose; they belong in the environment or a .env file.
func Starter(bucket, staticURL string) *Config {
	if staticURL == "" {
		staticURL = DefaultStaticURL
	}
	return &Config{
		R2: &R2Config{
			Bucket: bucket,
			Region: DefaultRegion,
			Driver: DriverS3,
		},
		Site: &SiteConfig{StaticURL: staticURL},
		Scan: &ScanConfig{
			Root:        ".",
			Extensions:  append([]string(nil), DefaultExtensions...),
			ExcludeDirs: append([]string(nil), DefaultExcludeDirs...),
		},
		Journal: &JournalConfig{Enabled: true, Dir: ".staticsweep/journal"},
		Log:     &LogConfig{Level: "info"},
	}
}

func Write(cfg *Config, path string) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
