package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kingrain94/tenant-user-sync/internal/service"
	"github.com/kingrain94/tenant-user-sync/internal/service/queue"
	"github.com/kingrain94/tenant-user-sync/pkg/logger"
)

// EventWorker long-polls the queue of every configured topic and hands each
// message to the processor. A message is deleted only once it has been
// processed, or when it can never be processed; anything else becomes visible
// again after the queue's visibility timeout and is redelivered.
type EventWorker struct {
	sqsService   *queue.SQSService
	processor    service.EventProcessor
	logger       *logger.Logger
	workerCount  int
	pollInterval time.Duration
	maxMessages  int32
	waitTime     int32
	cancel       context.CancelFunc
	waitGroup    sync.WaitGroup
}

func NewEventWorker(
	sqsService *queue.SQSService,
	processor service.EventProcessor,
	logger *logger.Logger,
	workerCount int,
	pollInterval time.Duration,
) *EventWorker {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &EventWorker{
		sqsService:   sqsService,
		processor:    processor,
		logger:       logger,
		workerCount:  workerCount,
		pollInterval: pollInterval,
		maxMessages:  10, // SQS maximum per receive
		waitTime:     20, // long polling
	}
}

// Start launches workerCount pollers per topic queue.
func (w *EventWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	w.logger.Info("Starting event workers...")
	for _, topic := range w.sqsService.Topics() {
		queueURL, err := w.sqsService.QueueURL(topic)
		if err != nil {
			w.logger.Error("Skipping topic without queue", err, zap.String("topic", topic))
			continue
		}
		for i := 0; i < w.workerCount; i++ {
			w.waitGroup.Add(1)
			go w.runWorker(ctx, topic, queueURL, i)
		}
	}
}

// Stop cancels in-flight polls and waits for the pollers to return.
func (w *EventWorker) Stop() {
	w.logger.Info("Stopping event workers...")
	if w.cancel != nil {
		w.cancel()
	}
	w.waitGroup.Wait()
	w.logger.Info("All event workers stopped")
}

func (w *EventWorker) runWorker(ctx context.Context, topic, queueURL string, workerID int) {
	defer w.waitGroup.Done()

	w.logger.Infof("Worker %d started for %s", workerID, topic)

	for {
		n, err := w.processMessages(ctx, queueURL)
		if err != nil && ctx.Err() == nil {
			w.logger.Errorf("Worker %d failed to process %s messages: %v", workerID, topic, err)
		}

		// Back off only when the queue is idle or failing.
		delay := time.Duration(0)
		if n == 0 || err != nil {
			delay = w.pollInterval
		}

		select {
		case <-ctx.Done():
			w.logger.Infof("Worker %d for %s shutting down", workerID, topic)
			return
		case <-time.After(delay):
		}
	}
}

// processMessages handles one receive batch and returns its size.
func (w *EventWorker) processMessages(ctx context.Context, queueURL string) (int, error) {
	messages, err := w.sqsService.ReceiveMessages(ctx, queueURL, w.maxMessages, w.waitTime)
	if err != nil {
		return 0, fmt.Errorf("failed to receive messages: %w", err)
	}

	for _, msg := range messages {
		if !w.processMessage(ctx, msg) {
			continue
		}

		if err := w.sqsService.DeleteMessage(ctx, queueURL, msg.ReceiptHandle); err != nil {
			w.logger.Errorf("Failed to delete message: %v", err)
		}
	}

	return len(messages), nil
}

// processMessage reports whether the message should be deleted.
func (w *EventWorker) processMessage(ctx context.Context, msg queue.ReceivedMessage) bool {
	if msg.DecodeErr != nil {
		w.logger.Error("Dropping undecodable message", msg.DecodeErr)
		return true
	}

	err := w.processor.Process(ctx, msg.Envelope)
	switch {
	case err == nil:
		return true
	case errors.Is(err, service.ErrInvalidEvent):
		w.logger.Error("Dropping invalid event", err,
			zap.String("event_id", msg.Envelope.ID),
			zap.String("topic", msg.Envelope.Topic))
		return true
	default:
		w.logger.Error("Failed to process event, leaving it for redelivery", err,
			zap.String("event_id", msg.Envelope.ID),
			zap.String("topic", msg.Envelope.Topic))
		return false
	}
}
