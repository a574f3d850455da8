// Package archive stores cascade reports in S3 so that users a cascade could
// not delete can be found and cleaned up later.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kingrain94/tenant-user-sync/internal/config"
	"github.com/kingrain94/tenant-user-sync/internal/service"
	"github.com/kingrain94/tenant-user-sync/pkg/logger"
)

// S3API is the subset of the S3 client the reporter needs.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3CascadeReporter struct {
	client S3API
	config *config.S3Config
	logger *logger.Logger
}

func NewS3CascadeReporter(client S3API, config *config.S3Config, logger *logger.Logger) *S3CascadeReporter {
	return &S3CascadeReporter{
		client: client,
		config: config,
		logger: logger,
	}
}

func (r *S3CascadeReporter) Report(ctx context.Context, report *service.CascadeReport) error {
	key := ObjectKey(r.config.Prefix, report)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cascade report: %w", err)
	}

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"tenant-id":   report.TenantID,
			"finished-at": report.FinishedAt.Format(time.RFC3339),
			"deleted":     strconv.Itoa(len(report.Deleted)),
			"failed":      strconv.Itoa(len(report.Failed)),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload cascade report to S3: %w", err)
	}

	r.logger.Infof("Uploaded cascade report to s3://%s/%s", r.config.BucketName, key)
	return nil
}

// ObjectKey lays reports out as <prefix>/<tenant id>/<finished at>.json.
func ObjectKey(prefix string, report *service.CascadeReport) string {
	return fmt.Sprintf("%s/%s/%s.json",
		prefix,
		report.TenantID,
		report.FinishedAt.UTC().Format("2006-01-02_15-04-05.000"))
}
