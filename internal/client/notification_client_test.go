package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNotificationClient_SendNotification(t *testing.T) {
	var (
		mu       sync.Mutex
		received NotificationEvent
		apiKey   string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/internal/notifications", r.URL.Path)
		mu.Lock()
		defer mu.Unlock()
		apiKey = r.Header.Get("X-Internal-API-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewNotificationClient(server.URL, "secret-key", time.Second, zap.NewNop(), nil)
	event := NotificationEvent{
		Type:         NotificationStatusChanged,
		ActorID:      "owner",
		TargetUserID: "submitter",
		BoardSlug:    "acme",
		ResourceType: "feature_request",
		ResourceID:   uuid.New(),
		Metadata:     map[string]interface{}{"status": "SHIPPED"},
	}

	require.NoError(t, client.SendNotification(context.Background(), event))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "secret-key", apiKey)
	assert.Equal(t, NotificationStatusChanged, received.Type)
	assert.Equal(t, "submitter", received.TargetUserID)
	assert.NotEmpty(t, received.OccurredAt)
}

func TestNotificationClient_GracefulDegradation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewNotificationClient(server.URL, "", time.Second, zap.NewNop(), nil)

	assert.NoError(t, client.SendNotification(context.Background(), NotificationEvent{Type: NotificationCommentAdded}))
	assert.NoError(t, client.SendBulkNotifications(context.Background(), []NotificationEvent{
		{Type: NotificationCommentAdded},
		{Type: NotificationReplyAdded},
	}))
	assert.NoError(t, client.SendBulkNotifications(context.Background(), nil))
}

func TestNoOpNotificationClient(t *testing.T) {
	client := NewNoOpNotificationClient()
	assert.NoError(t, client.SendNotification(context.Background(), NotificationEvent{}))
	assert.NoError(t, client.SendBulkNotifications(context.Background(), []NotificationEvent{{}}))
}
