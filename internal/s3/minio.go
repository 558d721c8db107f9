package s3

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient is the alternate store driver (r2.driver: minio). It talks the
// same S3 API through minio-go's low-level Core so that continuation tokens
// stay visible to the caller.
type MinioClient struct {
	core    minio.Core
	bucket  string
	timeout time.Duration
}

func NewMinio(opts Options) (*MinioClient, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("minio: bucket is required")
	}
	raw := strings.TrimSpace(opts.Endpoint)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("minio endpoint: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("minio endpoint: missing host in %q", opts.Endpoint)
	}
	if opts.Region == "" {
		opts.Region = "auto"
	}

	mopts := &minio.Options{
		Creds:        credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure:       u.Scheme == "https",
		Region:       opts.Region,
		BucketLookup: minio.BucketLookupPath,
	}
	if opts.InsecureSkipVerify {
		mopts.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	core, err := minio.NewCore(u.Host, mopts)
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &MinioClient{core: *core, bucket: opts.Bucket, timeout: opts.RequestTimeout}, nil
}

func (c *MinioClient) Bucket() string {
	return c.bucket
}

func (c *MinioClient) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// ListPage has the same contract as Client.ListPage. Core.ListObjectsV2 takes
// no context, so the request timeout only applies through the transport.
func (c *MinioClient) ListPage(ctx context.Context, token string) ([]string, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	res, err := c.core.ListObjectsV2(c.bucket, "", "", token, "", MaxKeysPerPage)
	if err != nil {
		return nil, "", wrapError("list", c.bucket, "", err)
	}
	keys := make([]string, 0, len(res.Contents))
	for _, obj := range res.Contents {
		if obj.Key != "" {
			keys = append(keys, obj.Key)
		}
	}
	return keys, res.NextContinuationToken, nil
}

func (c *MinioClient) DeleteObject(ctx context.Context, key string) error {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	if err := c.core.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return wrapError("delete", c.bucket, key, err)
	}
	return nil
}

func (c *MinioClient) Probe(ctx context.Context) error {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	ok, err := c.core.BucketExists(ctx, c.bucket)
	if err != nil {
		return wrapError("probe", c.bucket, "", err)
	}
	if !ok {
		return &StoreError{Op: "probe", Bucket: c.bucket, Kind: ErrNotFound, Err: fmt.Errorf("bucket does not exist")}
	}
	return nil
}
