package lambda

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stahnma/gh-repofeed/internal/commands"
	"go.uber.org/zap"
)

// Uploader is the part of the S3 client the handler uses.
type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ObjectKey expands a "%s" in key to the date of now.
func ObjectKey(key, date string) string {
	if strings.Contains(key, "%s") {
		return fmt.Sprintf(key, date)
	}
	return key
}

// NewHandler returns a Lambda handler that exports the feed as JSON and
// uploads it to S3. A nil uploader is created from the default AWS config
// on first use.
func NewHandler(app *commands.App, uploader Uploader) func(context.Context, events.CloudWatchEvent) (string, error) {
	return func(ctx context.Context, event events.CloudWatchEvent) (string, error) {
		if err := app.Prepare(""); err != nil {
			return "", fmt.Errorf("prepare: %w", err)
		}
		defer func() {
			if err := app.SaveCache(); err != nil {
				app.Logger.Warn("saving cache", zap.Error(err))
			}
		}()
		app.Logger.Info("scheduled export",
			zap.String("event_id", event.ID),
			zap.Time("event_time", event.Time),
			zap.String("language", app.Config.Language),
			zap.Int("pages", app.Config.ExportPages))

		s3Bucket := app.Config.S3Bucket
		s3ObjectKey := app.Config.S3ObjectKey
		if s3Bucket == "" || s3ObjectKey == "" {
			return "", fmt.Errorf("S3_BUCKET_NAME and S3_OBJECT_KEY environment variables must be set")
		}

		var buf bytes.Buffer
		if err := app.Export(ctx, &buf, commands.ExportOptions{Format: "json"}); err != nil {
			return "", fmt.Errorf("export: %w", err)
		}
		if buf.Len() == 0 {
			return "", fmt.Errorf("export command produced no output")
		}

		if uploader == nil {
			cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(app.Config.AWSRegion))
			if err != nil {
				return "", fmt.Errorf("failed to load AWS config: %w", err)
			}
			uploader = s3.NewFromConfig(cfg)
		}

		key := ObjectKey(s3ObjectKey, app.Clock.Now().Format("2006-Jan-02"))
		_, err := uploader.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s3Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(buf.Bytes()),
			ContentType: aws.String("application/json"),
		})
		if err != nil {
			return "", fmt.Errorf("failed to upload file to S3: %w", err)
		}

		return fmt.Sprintf("Exported feed to s3://%s/%s", s3Bucket, key), nil
	}
}
