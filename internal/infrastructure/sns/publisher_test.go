package sns

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/hurby24/Bibliobay-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSNS struct{ mock.Mock }

func (m *mockSNS) Publish(ctx context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, in)
	return &sns.PublishOutput{}, args.Error(0)
}

func TestPublish(t *testing.T) {
	api := &mockSNS{}
	var sent *sns.PublishInput
	api.On("Publish", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(*sns.PublishInput)
	}).Return(nil)

	p := &publisher{client: api, topicARN: "arn:aws:sns:eu-central-1:000000000000:auth-events"}
	e := domain.AuthEvent{Type: domain.EventVerified, UserID: "user1", OccurredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	require.NoError(t, p.Publish(context.Background(), e))

	require.NotNil(t, sent)
	assert.Equal(t, "arn:aws:sns:eu-central-1:000000000000:auth-events", aws.ToString(sent.TopicArn))
	assert.Equal(t, domain.EventVerified, aws.ToString(sent.MessageAttributes["event_type"].StringValue))
	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(sent.Message)), &body))
	assert.Equal(t, "user.verified", body["type"])
	assert.Equal(t, "user1", body["user_id"])
	assert.Equal(t, "2026-03-01T12:00:00Z", body["occurred_at"])
}

func TestPublish_Error(t *testing.T) {
	api := &mockSNS{}
	api.On("Publish", mock.Anything, mock.Anything).Return(errors.New("throttled"))
	p := &publisher{client: api, topicARN: "arn"}
	assert.ErrorContains(t, p.Publish(context.Background(), domain.AuthEvent{Type: domain.EventLoggedIn}), "user.logged_in")
}

func TestNewPublisher_NoTopicIsNop(t *testing.T) {
	p := NewPublisher(aws.Config{}, "")
	assert.IsType(t, NopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), domain.AuthEvent{}))
}
