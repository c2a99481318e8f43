package backup

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/salonkeep/salonkeep/internal/config"
)

// s3Uploader replicates snapshots to an S3 bucket
type s3Uploader struct {
	uploader *s3manager.Uploader
	bucket   string
	logger   Logger
}

// NewS3Uploader creates an offsite uploader from the offsite settings
func NewS3Uploader(cfg *config.OffsiteConfig, logger Logger) (Uploader, error) {
	awsConfig := aws.NewConfig().
		WithRegion(cfg.Region).
		WithCredentials(credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""))

	// Non-AWS endpoints (minio and friends) need path-style addressing
	if cfg.Endpoint != "" {
		awsConfig = awsConfig.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %v", err)
	}

	return &s3Uploader{
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.Bucket,
		logger:   logger,
	}, nil
}

// Upload sends one snapshot file to the bucket under its own filename
func (u *s3Uploader) Upload(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %v", err)
	}
	defer file.Close()

	result, err := u.uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(filepath.Base(path)),
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot: %v", err)
	}

	u.logger.LogInfo("Snapshot replicated offsite", map[string]interface{}{
		"snapshot": filepath.Base(path),
		"location": result.Location,
	})
	return nil
}
