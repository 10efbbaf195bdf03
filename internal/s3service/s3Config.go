// Package s3service stores the generated verse datasets in S3: the
// generator uploads each run, the API can load the latest dataset at
// startup instead of shipping it with the binary.
package s3service

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Config struct {
	Client     *s3.Client
	BucketName string
	Region     string
}

func NewS3Config(ctx context.Context, bucket, region string) (*S3Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg)

	return &S3Config{
		Client:     client,
		BucketName: bucket,
		Region:     region,
	}, nil
}
