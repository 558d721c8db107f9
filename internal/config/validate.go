package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingEnv      = errors.New("missing required R2 configuration")
	ErrInvalidURL      = errors.New("invalid site.static_url")
	ErrInvalidDriver   = errors.New("invalid r2.driver: must be 's3' or 'minio'")
	ErrNoScanExtension = errors.New("scan.extensions must not be empty")
)

// Validate checks that every required credential is present and normalizes
// the remaining settings in place. It performs no I/O.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.R2 == nil {
		cfg.R2 = &R2Config{}
	}
	if missing := MissingCredentials(cfg.R2); len(missing) > 0 {
		return fmt.Errorf("%w: set %s", ErrMissingEnv, strings.Join(missing, ", "))
	}

	switch cfg.R2.Driver {
	case "":
		cfg.R2.Driver = DriverS3
	case DriverS3, DriverMinio:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidDriver, cfg.R2.Driver)
	}
	if cfg.R2.Region == "" {
		cfg.R2.Region = DefaultRegion
	}
	if cfg.R2.Endpoint == "" {
		cfg.R2.Endpoint = R2Endpoint(cfg.R2.AccountID)
	}
	if cfg.R2.RequestTimeout < 0 {
		return fmt.Errorf("r2.request_timeout must not be negative")
	}

	return ValidateScan(cfg)
}

// ValidateScan checks and normalizes only the site and scan sections, for
// commands that never contact the bucket.
func ValidateScan(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Site == nil {
		cfg.Site = &SiteConfig{}
	}
	staticURL, err := NormalizeStaticURL(cfg.Site.StaticURL)
	if err != nil {
		return err
	}
	cfg.Site.StaticURL = staticURL

	if cfg.Scan == nil {
		cfg.Scan = &ScanConfig{}
	}
	if cfg.Scan.Root == "" {
		cfg.Scan.Root = "."
	}
	cfg.Scan.Extensions = NormalizeExtensions(cfg.Scan.Extensions)
	if len(cfg.Scan.Extensions) == 0 {
		return ErrNoScanExtension
	}
	return nil
}

// MissingCredentials returns the environment variable names of the required
// R2 fields that are empty, in a stable order.
func MissingCredentials(r2 *R2Config) []string {
	if r2 == nil {
		r2 = &R2Config{}
	}
	var missing []string
	if strings.TrimSpace(r2.AccountID) == "" {
		missing = append(missing, EnvAccountID)
	}
	if strings.TrimSpace(r2.AccessKeyID) == "" {
		missing = append(missing, EnvAccessKeyID)
	}
	if strings.TrimSpace(r2.SecretAccessKey) == "" {
		missing = append(missing, EnvSecretAccessKey)
	}
	if strings.TrimSpace(r2.Bucket) == "" {
		missing = append(missing, EnvBucketName)
	}
	return missing
}
