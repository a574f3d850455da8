package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSConfig holds one queue per event topic.
type SQSConfig struct {
	Region                string `mapstructure:"region"`
	Endpoint              string `mapstructure:"endpoint"`
	AccessKeyID           string `mapstructure:"access_key_id"`
	SecretAccessKey       string `mapstructure:"secret_access_key"`
	TenantCreatedQueueURL string `mapstructure:"tenant_created_queue_url"`
	TenantDeletedQueueURL string `mapstructure:"tenant_deleted_queue_url"`
}

func DefaultSQSConfig() *SQSConfig {
	return &SQSConfig{
		Region:                getEnvWithDefault("AWS_REGION", "us-east-1"),
		Endpoint:              getEnvWithDefault("AWS_SQS_ENDPOINT", "http://localhost:4566"),
		AccessKeyID:           getEnvWithDefault("AWS_ACCESS_KEY_ID", "dummy"),
		SecretAccessKey:       getEnvWithDefault("AWS_SECRET_ACCESS_KEY", "dummy"),
		TenantCreatedQueueURL: getEnvWithDefault("AWS_SQS_TENANT_CREATED_QUEUE_URL", "http://localhost:4566/000000000000/tenant-created-queue"),
		TenantDeletedQueueURL: getEnvWithDefault("AWS_SQS_TENANT_DELETED_QUEUE_URL", "http://localhost:4566/000000000000/tenant-deleted-queue"),
	}
}

func (c *SQSConfig) GetClient(ctx context.Context) (*sqs.Client, error) {
	options := []func(*config.LoadOptions) error{
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AccessKeyID,
			c.SecretAccessKey,
			"",
		)),
	}

	if c.Endpoint != "" {
		customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == sqs.ServiceID {
				return aws.Endpoint{
					PartitionID:   "aws",
					URL:           c.Endpoint,
					SigningRegion: c.Region,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		options = append(options, config.WithEndpointResolverWithOptions(customResolver))
	}

	cfg, err := config.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return sqs.NewFromConfig(cfg), nil
}
