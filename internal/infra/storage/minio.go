package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultSignedURLTTL = 6 * time.Minute

// Store mints time-boxed read-only URLs over the image bucket. It never
// writes; uploads belong to the (external) upload pipeline.
type Store struct {
	client     *minio.Client
	bucketName string
	ttl        time.Duration
}

// New connects to MinIO and verifies the image bucket exists.
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool, ttl time.Duration) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("storage: bucket %q does not exist", bucket)
	}

	if ttl <= 0 {
		ttl = defaultSignedURLTTL
	}
	return &Store{client: cli, bucketName: bucket, ttl: ttl}, nil
}

// SignedGetURL mints a presigned GET URL for one stored object. The grant
// covers only the immediate model call plus its retry window; it is never
// cached or reused across analyses.
func (s *Store) SignedGetURL(ctx context.Context, storageLocation string) (string, error) {
	key := objectKey(storageLocation, s.bucketName)
	if key == "" {
		return "", fmt.Errorf("storage: malformed storage location %q", storageLocation)
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucketName, key, s.ttl, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// objectKey normalizes a stored location to the object key: leading slashes
// and a redundant bucket prefix are stripped.
func objectKey(location, bucket string) string {
	key := strings.TrimPrefix(location, "/")
	key = strings.TrimPrefix(key, bucket+"/")
	return key
}
