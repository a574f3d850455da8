package archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kingrain94/tenant-user-sync/internal/config"
	"github.com/kingrain94/tenant-user-sync/internal/service"
	"github.com/kingrain94/tenant-user-sync/pkg/logger"
)

type MockS3 struct {
	mock.Mock
}

func (m *MockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func testReport() *service.CascadeReport {
	finished := time.Date(2026, 10, 18, 12, 30, 0, 0, time.UTC)
	return &service.CascadeReport{
		TenantID:   "11111111-1111-1111-1111-111111111111",
		Matched:    2,
		Deleted:    []string{"u1"},
		Failed:     []service.CascadeFailure{{UserID: "u2", Reason: "timeout"}},
		StartedAt:  finished.Add(-time.Second),
		FinishedAt: finished,
	}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("cascades", testReport())

	assert.Equal(t, "cascades/11111111-1111-1111-1111-111111111111/2026-10-18_12-30-00.000.json", key)
}

func TestS3CascadeReporter_Report(t *testing.T) {
	client := new(MockS3)
	cfg := &config.S3Config{BucketName: "reports", Prefix: "cascades"}
	reporter := NewS3CascadeReporter(client, cfg, logger.NewLogger("test"))

	var uploaded *s3.PutObjectInput
	client.On("PutObject", mock.Anything, mock.AnythingOfType("*s3.PutObjectInput")).
		Run(func(args mock.Arguments) { uploaded = args.Get(1).(*s3.PutObjectInput) }).
		Return(&s3.PutObjectOutput{}, nil)

	err := reporter.Report(context.Background(), testReport())

	require.NoError(t, err)
	require.NotNil(t, uploaded)
	assert.Equal(t, "reports", *uploaded.Bucket)
	assert.Equal(t, "1", uploaded.Metadata["failed"])

	body, err := io.ReadAll(uploaded.Body)
	require.NoError(t, err)
	var decoded service.CascadeReport
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "u2", decoded.Failed[0].UserID)
	client.AssertExpectations(t)
}

func TestS3CascadeReporter_ReportUploadError(t *testing.T) {
	client := new(MockS3)
	cfg := &config.S3Config{BucketName: "reports", Prefix: "cascades"}
	reporter := NewS3CascadeReporter(client, cfg, logger.NewLogger("test"))

	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	err := reporter.Report(context.Background(), testReport())

	assert.ErrorContains(t, err, "access denied")
}
