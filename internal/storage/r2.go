package storage

import (
	"bytes"
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2 mirrors uploads to a Cloudflare R2 bucket through the S3 API, so a
// lost node doesn't lose identity documents and lease files. Mirroring
// is best effort; the local write is the source of truth.
type R2 struct {
	client *s3.Client
	bucket string
}

func NewR2(endpoint, accessKey, secretKey, bucket, region string) (*R2, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return &R2{client: client, bucket: bucket}, nil
}

// Put uploads one object. Failures are logged and swallowed.
func (r *R2) Put(key string, data []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String("uploads/" + key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		log.Printf("[Storage] R2 mirror of %s failed: %v", key, err)
	}
}
