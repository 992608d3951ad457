package replay

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Sink archives session recordings to an S3 bucket.
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	sink := replay.NewS3Sink(s3.NewFromConfig(cfg), "my-bucket", "replays/")
type S3Sink struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Sink creates a sink writing to bucket under the given key
// prefix.
func NewS3Sink(client *s3.Client, bucket, prefix string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: prefix}
}

// Store implements Sink. Keys are prefix/<date>/<sessionID> so
// recordings shard by day.
func (s *S3Sink) Store(ctx context.Context, sessionID string, recording []byte) error {
	key := fmt.Sprintf("%s%s/%s", s.prefix, time.Now().UTC().Format("2006-01-02"), sessionID)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(recording),
		ContentType: aws.String("application/octet-stream"),
		Metadata: map[string]string{
			"session-id":  sessionID,
			"recorded-at": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("replay: put s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}
