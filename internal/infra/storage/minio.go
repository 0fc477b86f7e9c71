// Package storage holds the MinIO-backed transcript archive: a best-effort
// sink for the full prompt/response trail of each analysis.
package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Archive struct {
	client     *minio.Client
	bucketName string
	region     string
}

func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*Archive, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	// make sure the bucket exists
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &Archive{client: cli, bucketName: bucket, region: region}, nil
}

// PutTranscript uploads one transcript payload and returns its object URL.
func (a *Archive) PutTranscript(ctx context.Context, key string, payload []byte) (string, error) {
	_, err := a.client.PutObject(ctx, a.bucketName, key,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("uploading transcript %s: %w", key, err)
	}
	return fmt.Sprintf("%s/%s/%s", a.client.EndpointURL(), a.bucketName, key), nil
}
