// Package dbs3 backs the object store contract with S3-compatible storage
// (MinIO in development). Object keys are "files/<id>" so derived URLs keep
// the id in the same path position as the GridFS backend.
package dbs3

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"vidshare/internal/config"
	"vidshare/internal/store"
)

type ObjectStore struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

func NewObjectStore(cfg *config.Config) (*ObjectStore, error) {
	s3cfg := cfg.Storage.S3

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(s3cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s3cfg.AccessKey,
			s3cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s3cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &ObjectStore{
		client:   client,
		bucket:   s3cfg.Bucket,
		endpoint: s3cfg.Endpoint,
	}, nil
}

func objectKey(id string) string {
	return "files/" + id
}

func (o *ObjectStore) Upload(ctx context.Context, up store.Upload) (string, error) {
	id := uuid.NewString()
	key := objectKey(id)

	_, err := o.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &o.bucket,
		Key:         &key,
		Body:        up.Content,
		ContentType: aws.String(up.MimeType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w: %v", key, store.ErrUnavailable, err)
	}
	return id, nil
}

func (o *ObjectStore) Delete(ctx context.Context, id string) error {
	key := objectKey(id)
	_, err := o.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &o.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w: %v", key, store.ErrUnavailable, err)
	}
	return nil
}

// ViewURL returns the public path-style URL of the object. The bucket is
// expected to allow anonymous reads in deployments using this backend;
// these URLs are stored in post documents, so they cannot be presigned
// (presigned URLs expire).
func (o *ObjectStore) ViewURL(id string) string {
	return fmt.Sprintf("%s/%s/files/%s", o.endpoint, o.bucket, id)
}

// PreviewURL carries the same transform parameters as the GridFS backend for
// URL compatibility; S3 serves the original bytes.
func (o *ObjectStore) PreviewURL(id string, width, height int, gravity string, quality int) string {
	params := url.Values{}
	params.Set("width", strconv.Itoa(width))
	params.Set("height", strconv.Itoa(height))
	params.Set("gravity", gravity)
	params.Set("quality", strconv.Itoa(quality))
	return fmt.Sprintf("%s/%s/files/%s?%s", o.endpoint, o.bucket, id, params.Encode())
}
