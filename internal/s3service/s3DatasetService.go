package s3service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type S3DatasetService struct {
	S3Config *S3Config
	Uploader *manager.Uploader
}

func NewS3DatasetService(s3Config *S3Config) *S3DatasetService {
	uploader := manager.NewUploader(s3Config.Client)

	return &S3DatasetService{
		S3Config: s3Config,
		Uploader: uploader,
	}
}

func latestKey(lang string) string {
	return fmt.Sprintf("datasets/%s/latest.json", lang)
}

// UploadDataset stores one run's dataset under a unique key (file path:
// datasets/en/20260301-abc123-def456.json) and then points the
// language's latest.json at the same content. Old runs stay around for
// rollback.
func (s *S3DatasetService) UploadDataset(ctx context.Context, lang string, dataset []byte) (string, error) {
	timeStamp := time.Now().Format("20060102")
	uniqueID := uuid.New().String()

	s3Key := fmt.Sprintf("datasets/%s/%s-%s.json", lang, timeStamp, uniqueID)

	for _, key := range []string{s3Key, latestKey(lang)} {
		_, err := s.Uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.S3Config.BucketName),
			Key:         aws.String(key),
			Body:        bytes.NewReader(dataset),
			ContentType: aws.String("application/json"),
		})
		if err != nil {
			return "", fmt.Errorf("failed to upload to S3: %w", err)
		}
	}

	return s3Key, nil
}

// Load fetches the language's latest dataset. Satisfies store.Loader,
// so the API can serve straight from a bucket-hosted dataset.
func (s *S3DatasetService) Load(ctx context.Context, lang string) ([]byte, error) {
	out, err := s.S3Config.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.S3Config.BucketName),
		Key:    aws.String(latestKey(lang)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset from S3: %w", err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

// GeneratePresignedURL returns a time-limited download link for a
// stored dataset, for sharing a run's output without bucket access.
func (s *S3DatasetService) GeneratePresignedURL(ctx context.Context, s3Key string, expiration time.Duration) (string, error) {
	presignedClient := s3.NewPresignClient(s.S3Config.Client)

	presignedReq, err := presignedClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.S3Config.BucketName),
		Key:    aws.String(s3Key),
	}, func(po *s3.PresignOptions) {
		po.Expires = expiration
	})
	if err != nil {
		return "", err
	}

	return presignedReq.URL, nil
}
