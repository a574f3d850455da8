package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/kingrain94/tenant-user-sync/internal/config"
	"github.com/kingrain94/tenant-user-sync/internal/domain"
)

// SQSAPI is the subset of the SQS client the service needs.
//
//go:generate mockery --name SQSAPI --output ../../mocks
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// ReceivedMessage is one delivery. DecodeErr is set when the body is not a
// valid envelope; such a message can never be processed.
type ReceivedMessage struct {
	Envelope      domain.Envelope
	ReceiptHandle *string
	DecodeErr     error
}

// SQSService publishes every topic to its own queue. SQS keeps a received
// message invisible until it is deleted, and makes it visible again when it
// is not, which gives at-least-once delivery.
type SQSService struct {
	client    SQSAPI
	queueURLs map[string]string
}

func NewSQSService(client SQSAPI, config *config.SQSConfig) *SQSService {
	return &SQSService{
		client: client,
		queueURLs: map[string]string{
			domain.TopicTenantCreated: config.TenantCreatedQueueURL,
			domain.TopicTenantDeleted: config.TenantDeletedQueueURL,
		},
	}
}

// QueueURL returns the queue a topic is published to.
func (s *SQSService) QueueURL(topic string) (string, error) {
	queueURL, ok := s.queueURLs[topic]
	if !ok || queueURL == "" {
		return "", fmt.Errorf("no queue configured for topic %s", topic)
	}
	return queueURL, nil
}

// Topics returns every topic with a configured queue.
func (s *SQSService) Topics() []string {
	topics := make([]string, 0, len(s.queueURLs))
	for topic, queueURL := range s.queueURLs {
		if queueURL != "" {
			topics = append(topics, topic)
		}
	}
	return topics
}

func (s *SQSService) Publish(ctx context.Context, topic string, event any) error {
	queueURL, err := s.QueueURL(topic)
	if err != nil {
		return err
	}

	envelope, err := domain.NewEnvelope(topic, event)
	if err != nil {
		return err
	}

	msgBody, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	input := &sqs.SendMessageInput{
		MessageBody: aws.String(string(msgBody)),
		QueueUrl:    aws.String(queueURL),
	}

	if _, err := s.client.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("failed to send %s message: %w", topic, err)
	}

	return nil
}

func (s *SQSService) ReceiveMessages(ctx context.Context, queueURL string, maxMessages int32, waitTimeSeconds int32) ([]ReceivedMessage, error) {
	input := &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(queueURL),
		MaxNumberOfMessages: maxMessages,
		WaitTimeSeconds:     waitTimeSeconds,
	}

	output, err := s.client.ReceiveMessage(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to receive messages: %w", err)
	}

	messages := make([]ReceivedMessage, 0, len(output.Messages))
	for _, msg := range output.Messages {
		received := ReceivedMessage{ReceiptHandle: msg.ReceiptHandle}
		if err := json.Unmarshal([]byte(aws.ToString(msg.Body)), &received.Envelope); err != nil {
			received.DecodeErr = fmt.Errorf("failed to unmarshal message %s: %w", aws.ToString(msg.MessageId), err)
		}
		messages = append(messages, received)
	}

	return messages, nil
}

func (s *SQSService) DeleteMessage(ctx context.Context, queueURL string, receiptHandle *string) error {
	input := &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: receiptHandle,
	}

	if _, err := s.client.DeleteMessage(ctx, input); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	return nil
}
