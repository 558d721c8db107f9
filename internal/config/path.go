package config

import (
	"os"
)

const DefaultConfigName = "staticsweep.yaml"

const EnvConfigPath = "STATICSWEEP_CONFIG"

// EnvPrefix prefixes environment overrides for non-credential settings,
// e.g. STATICSWEEP_SITE_STATIC_URL.
const EnvPrefix = "STATICSWEEP"

const (
	EnvAccountID       = "R2_ACCOUNT_ID"
	EnvAccessKeyID     = "R2_ACCESS_KEY_ID"
	EnvSecretAccessKey = "R2_SECRET_ACCESS_KEY"
	EnvBucketName      = "R2_BUCKET_NAME"
)

func DefaultConfigPath() string {
	return DefaultConfigName
}

// ResolveConfigPath picks the config file: explicit flag value first, then
// STATICSWEEP_CONFIG, then ./staticsweep.yaml.
func ResolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultConfigPath()
}
