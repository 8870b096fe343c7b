package model

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// FetchArtifactFromS3 downloads the model artifact from S3 to destPath.
// Called at startup before the handle's initial load when the service is
// configured with an S3 artifact source; the download replaces any stale
// local copy so a redeploy always picks up the latest trained model.
func FetchArtifactFromS3(ctx context.Context, bucket, key, destPath string, log zerolog.Logger) error {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	// Download to a temp file and rename, so a failed download never
	// clobbers a working artifact.
	tmpPath := destPath + ".download"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp artifact file: %w", err)
	}

	downloader := manager.NewDownloader(s3.NewFromConfig(cfg))
	n, err := downloader.Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	closeErr := f.Close()
	if err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to download s3://%s/%s: %w", bucket, key, err)
	}
	if closeErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp artifact file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}

	log.Info().
		Str("bucket", bucket).
		Str("key", key).
		Str("path", destPath).
		Int64("bytes", n).
		Msg("Model artifact downloaded from S3")
	return nil
}
