//go:build integration

package integration

import (
	"os"
	"strings"
)

func getMinIOEnv() (endpoint, accessKey, secretKey, bucketPrefix string) {
	endpoint = os.Getenv("STATICSWEEP_MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	accessKey = os.Getenv("STATICSWEEP_MINIO_ACCESS_KEY")
	if accessKey == "" {
		accessKey = "minioadmin"
	}
	secretKey = os.Getenv("STATICSWEEP_MINIO_SECRET_KEY")
	if secretKey == "" {
		secretKey = "minioadmin"
	}
	bucketPrefix = os.Getenv("STATICSWEEP_MINIO_BUCKET_PREFIX")
	if bucketPrefix == "" {
		bucketPrefix = "staticsweep-it"
	}
	return strings.TrimSuffix(endpoint, "/"), accessKey, secretKey, bucketPrefix
}
