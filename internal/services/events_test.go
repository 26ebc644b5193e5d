package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"showcase/internal/models"
	"showcase/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockQueueClient is a mock implementation of services.QueueClient
type MockQueueClient struct {
	mock.Mock
}

func (m *MockQueueClient) Publish(ctx context.Context, body []byte) error {
	args := m.Called(ctx, body)
	return args.Error(0)
}

func TestQueuePublisher_RoundTrip(t *testing.T) {
	client := new(MockQueueClient)
	publisher := services.NewQueuePublisher(client)
	event := services.ProjectEvent{
		Type:         models.NotificationLike,
		ProjectID:    "project-1",
		ProjectTitle: "tool",
		OwnerID:      "owner-1",
		ActorID:      "actor-1",
		ActorName:    "Alice",
	}

	var sent []byte
	client.On("Publish", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).([]byte)
	}).Return(nil).Once()

	require.NoError(t, publisher.PublishProjectEvent(context.Background(), event))
	client.AssertExpectations(t)

	var wire map[string]string
	require.NoError(t, json.Unmarshal(sent, &wire))
	assert.Equal(t, "owner-1", wire["owner_id"])

	decoded, err := services.DecodeProjectEvent(sent)
	require.NoError(t, err)
	assert.Equal(t, event, decoded)
}

func TestQueuePublisher_BrokerError(t *testing.T) {
	client := new(MockQueueClient)
	client.On("Publish", mock.Anything, mock.Anything).Return(errors.New("channel closed")).Once()

	err := services.NewQueuePublisher(client).PublishProjectEvent(context.Background(), services.ProjectEvent{Type: models.NotificationComment})
	assert.ErrorContains(t, err, "channel closed")
}

func TestDecodeProjectEvent_Rejects(t *testing.T) {
	_, err := services.DecodeProjectEvent([]byte("not json"))
	assert.Error(t, err)

	_, err = services.DecodeProjectEvent([]byte(`{"type":"like"}`))
	assert.ErrorContains(t, err, "missing type or owner")
}
