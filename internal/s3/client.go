package s3

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MaxKeysPerPage is the largest page S3-compatible stores return.
const MaxKeysPerPage = 1000

type Options struct {
	Endpoint           string
	Region             string
	AccessKey          string
	SecretKey          string
	Bucket             string
	RequestTimeout     time.Duration
	InsecureSkipVerify bool
}

// api is the subset of *s3.Client the sweeper calls.
type api interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

var _ api = (*s3.Client)(nil)

type Client struct {
	client  api
	bucket  string
	timeout time.Duration
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}
	if opts.Region == "" {
		opts.Region = "auto"
	}
	endpointURL, err := parseEndpoint(opts.Endpoint)
	if err != nil {
		return nil, err
	}

	cfg := aws.Config{
		Region:      opts.Region,
		Credentials: credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
	}

	httpClient := http.DefaultClient
	if opts.InsecureSkipVerify {
		httpClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		}
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpointURL)
		o.UsePathStyle = true
		o.HTTPClient = httpClient
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	return &Client{
		client:  client,
		bucket:  opts.Bucket,
		timeout: opts.RequestTimeout,
	}, nil
}

func parseEndpoint(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("s3 endpoint: empty")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("s3 endpoint: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("s3 endpoint: missing host in %q", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

func (c *Client) Bucket() string {
	return c.bucket
}

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// ListPage fetches one page of keys starting at token ("" for the first
// page) and returns the continuation token for the next page, "" when done.
func (c *Client) ListPage(ctx context.Context, token string) ([]string, string, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(c.bucket),
		MaxKeys: aws.Int32(MaxKeysPerPage),
	}
	if token != "" {
		input.ContinuationToken = aws.String(token)
	}
	out, err := c.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, "", wrapError("list", c.bucket, "", err)
	}
	keys := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		if obj.Key != nil {
			keys = append(keys, *obj.Key)
		}
	}
	return keys, aws.ToString(out.NextContinuationToken), nil
}

func (c *Client) DeleteObject(ctx context.Context, key string) error {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return wrapError("delete", c.bucket, key, err)
	}
	return nil
}

// Probe lists at most one key to check credentials and bucket access.
func (c *Client) Probe(ctx context.Context) error {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	_, err := c.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(c.bucket),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return wrapError("probe", c.bucket, "", err)
	}
	return nil
}

func (c *Client) PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(contentLength),
	})
	if err != nil {
		return wrapError("put", c.bucket, key, err)
	}
	return nil
}

// CreateBucket creates the bucket, treating "already owned" as success.
func (c *Client) CreateBucket(ctx context.Context) error {
	_, err := c.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil && !isAlreadyOwned(err) {
		return wrapError("create bucket", c.bucket, "", err)
	}
	return nil
}
