package s3

import (
	"context"
	"fmt"

	"StaticSweep/internal/config"
)

// Store is a bucket handle that can be probed as well as swept.
type Store interface {
	ListPage(ctx context.Context, token string) ([]string, string, error)
	DeleteObject(ctx context.Context, key string) error
	Probe(ctx context.Context) error
	Bucket() string
}

var (
	_ Store = (*Client)(nil)
	_ Store = (*MinioClient)(nil)
)

// OptionsFrom maps validated R2 settings to client options.
func OptionsFrom(r2 *config.R2Config) Options {
	return Options{
		Endpoint:           r2.Endpoint,
		Region:             r2.Region,
		AccessKey:          r2.AccessKeyID,
		SecretKey:          r2.SecretAccessKey,
		Bucket:             r2.Bucket,
		RequestTimeout:     r2.RequestTimeout,
		InsecureSkipVerify: r2.InsecureSkipVerify,
	}
}

// Open builds the client selected by r2.Driver.
func Open(ctx context.Context, r2 *config.R2Config) (Store, error) {
	if r2 == nil {
		return nil, fmt.Errorf("s3: r2 section is not configured")
	}
	opts := OptionsFrom(r2)
	switch r2.Driver {
	case "", config.DriverS3:
		return New(ctx, opts)
	case config.DriverMinio:
		return NewMinio(opts)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidDriver, r2.Driver)
	}
}
