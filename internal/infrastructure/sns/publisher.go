package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/hurby24/Bibliobay-backend/internal/domain"
)

// Publisher fans auth events out to subscribers of an SNS topic.
type Publisher interface {
	Publish(ctx context.Context, e domain.AuthEvent) error
}

type snsAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type publisher struct {
	client   snsAPI
	topicARN string
}

// NewPublisher returns a Publisher for topicARN, or a no-op one when topicARN is empty.
func NewPublisher(awsCfg aws.Config, topicARN string) Publisher {
	if topicARN == "" {
		return NopPublisher{}
	}
	return &publisher{client: sns.NewFromConfig(awsCfg), topicARN: topicARN}
}

func (p *publisher) Publish(ctx context.Context, e domain.AuthEvent) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal auth event: %w", err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(e.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish %s: %w", e.Type, err)
	}
	return nil
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.AuthEvent) error { return nil }
