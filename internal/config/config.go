package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverS3    = "s3"
	DriverMinio = "minio"
)

const (
	DefaultStaticURL = "https://static.katyusha.me/"
	DefaultRegion    = "auto"
)

var (
	DefaultExtensions  = []string{"ts", "tsx", "js", "jsx", "vue", "html", "css", "scss", "json", "md"}
	DefaultExcludeDirs = []string{"node_modules", "dist", ".git", "dist-ssr", ".idea"}
)

type Config struct {
	R2            *R2Config            `mapstructure:"r2" yaml:"r2"`
	Site          *SiteConfig          `mapstructure:"site" yaml:"site"`
	Scan          *ScanConfig          `mapstructure:"scan" yaml:"scan"`
	Notifications *NotificationsConfig `mapstructure:"notifications" yaml:"notifications,omitempty"`
	Journal       *JournalConfig       `mapstructure:"journal" yaml:"journal,omitempty"`
	Metrics       *MetricsConfig       `mapstructure:"metrics" yaml:"metrics,omitempty"`
	Lock          *LockConfig          `mapstructure:"lock" yaml:"lock,omitempty"`
	Log           *LogConfig           `mapstructure:"log" yaml:"log,omitempty"`
}

// R2Config holds the bucket credentials. Secrets are normally supplied
// through the environment rather than the config file.
type R2Config struct {
	AccountID          string        `mapstructure:"account_id" yaml:"account_id,omitempty"`
	AccessKeyID        string        `mapstructure:"access_key_id" yaml:"access_key_id,omitempty"`
	SecretAccessKey    string        `mapstructure:"secret_access_key" yaml:"secret_access_key,omitempty"`
	Bucket             string        `mapstructure:"bucket" yaml:"bucket,omitempty"`
	Endpoint           string        `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	Region             string        `mapstructure:"region" yaml:"region,omitempty"`
	Driver             string        `mapstructure:"driver" yaml:"driver,omitempty"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout" yaml:"request_timeout,omitempty"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify,omitempty"`
}

type SiteConfig struct {
	StaticURL string `mapstructure:"static_url" yaml:"static_url"`
}

type ScanConfig struct {
	Root        string   `mapstructure:"root" yaml:"root"`
	Extensions  []string `mapstructure:"extensions" yaml:"extensions"`
	ExcludeDirs []string `mapstructure:"exclude_dirs" yaml:"exclude_dirs"`
}

type NotificationsConfig struct {
	Enabled bool           `mapstructure:"enabled" yaml:"enabled"`
	Discord *DiscordConfig `mapstructure:"discord" yaml:"discord,omitempty"`
}

type DiscordConfig struct {
	Enabled        bool             `mapstructure:"enabled" yaml:"enabled"`
	WebhookURL     string           `mapstructure:"webhook_url" yaml:"webhook_url,omitempty"`
	TimeoutSeconds int              `mapstructure:"timeout_seconds" yaml:"timeout_seconds,omitempty"`
	Retry          *DiscordRetry    `mapstructure:"retry" yaml:"retry,omitempty"`
	Mentions       *DiscordMentions `mapstructure:"mentions" yaml:"mentions,omitempty"`
}

type DiscordRetry struct {
	Attempts  int `mapstructure:"attempts" yaml:"attempts"`
	BackoffMs int `mapstructure:"backoff_ms" yaml:"backoff_ms"`
}

type DiscordMentions struct {
	OnFailure string `mapstructure:"on_failure" yaml:"on_failure,omitempty"`
}

type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Dir     string `mapstructure:"dir" yaml:"dir,omitempty"`
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile" yaml:"textfile,omitempty"`
}

type LockConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir,omitempty"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level,omitempty"`
}

func Unmarshal(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// R2Endpoint returns the S3 API endpoint for an R2 account.
func R2Endpoint(accountID string) string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
}

func NotificationsEnabled(n *NotificationsConfig) bool {
	return n != nil && n.Enabled
}

func JournalEnabled(j *JournalConfig) bool {
	return j != nil && j.Enabled
}
