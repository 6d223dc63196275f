package aws

import (
	"context"
	"errors"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"
)

// SNSPublisher is a minimal interface for publishing messages to SNS.
type SNSPublisher interface {
	Publish(ctx context.Context, topicArn, eventType string, message []byte) error
}

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSClient struct {
	client snsAPI
	logger *zap.Logger
}

func NewSNSClient(cfg sdkaws.Config, logger *zap.Logger) *SNSClient {
	return newSNSClient(sns.NewFromConfig(cfg), logger)
}

func newSNSClient(api snsAPI, logger *zap.Logger) *SNSClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SNSClient{client: api, logger: logger}
}

var ErrEmptyTopic = errors.New("empty topicArn")

// Publish publishes a raw message to the given SNS topic ARN. eventType is
// attached as a message attribute so subscribers can filter on it.
func (s *SNSClient) Publish(ctx context.Context, topicArn, eventType string, message []byte) error {
	if topicArn == "" {
		return ErrEmptyTopic
	}

	s.logger.Debug("sns publish",
		zap.String("topic_arn", topicArn),
		zap.String("event_type", eventType),
		zap.Int("message_len", len(message)),
	)

	input := &sns.PublishInput{
		TopicArn: sdkaws.String(topicArn),
		Message:  sdkaws.String(string(message)),
	}
	if eventType != "" {
		input.MessageAttributes = map[string]types.MessageAttributeValue{
			"event_type": {DataType: sdkaws.String("String"), StringValue: sdkaws.String(eventType)},
		}
	}

	if _, err := s.client.Publish(ctx, input); err != nil {
		return fmt.Errorf("sns publish failed for topic %s: %w", topicArn, err)
	}
	return nil
}
