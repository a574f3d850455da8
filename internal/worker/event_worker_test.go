package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/tenant-user-sync/internal/config"
	"github.com/kingrain94/tenant-user-sync/internal/domain"
	"github.com/kingrain94/tenant-user-sync/internal/mocks"
	"github.com/kingrain94/tenant-user-sync/internal/service"
	"github.com/kingrain94/tenant-user-sync/internal/service/queue"
	"github.com/kingrain94/tenant-user-sync/pkg/logger"
)

const deletedQueue = "http://localhost:4566/000000000000/tenant-deleted-queue"

type MockEventProcessor struct {
	mock.Mock
}

func (m *MockEventProcessor) Process(ctx context.Context, envelope domain.Envelope) error {
	args := m.Called(ctx, envelope)
	return args.Error(0)
}

type EventWorkerTestSuite struct {
	suite.Suite
	client    *mocks.SQSAPI
	processor *MockEventProcessor
	worker    *EventWorker
}

func (s *EventWorkerTestSuite) SetupTest() {
	s.client = new(mocks.SQSAPI)
	s.processor = new(MockEventProcessor)

	sqsService := queue.NewSQSService(s.client, &config.SQSConfig{TenantDeletedQueueURL: deletedQueue})
	s.worker = NewEventWorker(sqsService, s.processor, logger.NewLogger("test"), 1, 10*time.Millisecond)
}

func TestEventWorker(t *testing.T) {
	suite.Run(t, new(EventWorkerTestSuite))
}

func (s *EventWorkerTestSuite) message(receipt, tenantID string) types.Message {
	envelope := domain.Envelope{
		ID:      "evt-" + receipt,
		Topic:   domain.TopicTenantDeleted,
		Payload: json.RawMessage(fmt.Sprintf(`{"id":%q}`, tenantID)),
	}
	body, err := json.Marshal(envelope)
	s.Require().NoError(err)

	return types.Message{
		MessageId:     aws.String("msg-" + receipt),
		ReceiptHandle: aws.String(receipt),
		Body:          aws.String(string(body)),
	}
}

func (s *EventWorkerTestSuite) expectDelete(receipt string) {
	s.client.On("DeleteMessage", mock.Anything, mock.MatchedBy(func(in *sqs.DeleteMessageInput) bool {
		return aws.ToString(in.ReceiptHandle) == receipt && aws.ToString(in.QueueUrl) == deletedQueue
	})).Return(&sqs.DeleteMessageOutput{}, nil).Once()
}

func (s *EventWorkerTestSuite) TestProcessMessages_DeletesOnlySettledMessages() {
	// Arrange
	s.client.On("ReceiveMessage", mock.Anything, mock.Anything).Return(&sqs.ReceiveMessageOutput{
		Messages: []types.Message{
			s.message("ok", "t-ok"),
			s.message("invalid", "t-invalid"),
			s.message("failing", "t-failing"),
			{MessageId: aws.String("msg-garbage"), ReceiptHandle: aws.String("garbage"), Body: aws.String("{")},
		},
	}, nil)

	s.processor.On("Process", mock.Anything, mock.MatchedBy(func(e domain.Envelope) bool { return e.ID == "evt-ok" })).
		Return(nil)
	s.processor.On("Process", mock.Anything, mock.MatchedBy(func(e domain.Envelope) bool { return e.ID == "evt-invalid" })).
		Return(fmt.Errorf("%w: bad id", service.ErrInvalidEvent))
	s.processor.On("Process", mock.Anything, mock.MatchedBy(func(e domain.Envelope) bool { return e.ID == "evt-failing" })).
		Return(errors.New("scan unavailable"))

	s.expectDelete("ok")
	s.expectDelete("invalid")
	s.expectDelete("garbage")

	// Act
	n, err := s.worker.processMessages(context.Background(), deletedQueue)

	// Assert
	s.NoError(err)
	s.Equal(4, n)
	s.client.AssertExpectations(s.T())
	s.client.AssertNumberOfCalls(s.T(), "DeleteMessage", 3)
	s.processor.AssertNumberOfCalls(s.T(), "Process", 3)
}

func (s *EventWorkerTestSuite) TestProcessMessages_ReceiveFailure() {
	s.client.On("ReceiveMessage", mock.Anything, mock.Anything).Return(nil, errors.New("queue does not exist"))

	n, err := s.worker.processMessages(context.Background(), deletedQueue)

	s.Error(err)
	s.Zero(n)
	s.processor.AssertNotCalled(s.T(), "Process", mock.Anything, mock.Anything)
}

func (s *EventWorkerTestSuite) TestStartStop() {
	// Arrange
	polled := make(chan struct{}, 1)
	s.client.On("ReceiveMessage", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case polled <- struct{}{}:
			default:
			}
		}).
		Return(&sqs.ReceiveMessageOutput{}, nil)

	// Act
	s.worker.Start(context.Background())
	select {
	case <-polled:
	case <-time.After(time.Second):
		s.Fail("worker never polled")
	}

	done := make(chan struct{})
	go func() {
		s.worker.Stop()
		close(done)
	}()

	// Assert
	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("worker did not stop")
	}
}
