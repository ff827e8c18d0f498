package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"feedback-board-api/internal/metrics"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	NotificationStatusChanged NotificationType = "FEATURE_REQUEST_STATUS_CHANGED"
	NotificationCommentAdded  NotificationType = "FEATURE_REQUEST_COMMENTED"
	NotificationReplyAdded    NotificationType = "COMMENT_REPLIED"
)

// NotificationEvent represents a notification to be sent
type NotificationEvent struct {
	Type         NotificationType       `json:"type"`
	ActorID      string                 `json:"actorId"`
	TargetUserID string                 `json:"targetUserId"`
	BoardSlug    string                 `json:"boardSlug"`
	ResourceType string                 `json:"resourceType"`
	ResourceID   uuid.UUID              `json:"resourceId"`
	ResourceName string                 `json:"resourceName,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	OccurredAt   string                 `json:"occurredAt,omitempty"`
}

// BulkNotificationRequest represents a bulk notification request
type BulkNotificationRequest struct {
	Notifications []NotificationEvent `json:"notifications"`
}

// NotificationClient defines the interface for notification service communication
type NotificationClient interface {
	// SendNotification sends a single notification
	SendNotification(ctx context.Context, event NotificationEvent) error
	// SendBulkNotifications sends multiple notifications at once
	SendBulkNotifications(ctx context.Context, events []NotificationEvent) error
}

const (
	notificationsPath     = "/api/internal/notifications"
	bulkNotificationsPath = "/api/internal/notifications/bulk"
)

// notificationClient posts events to the notification service. Delivery is
// best effort: transport failures and non-2xx replies are logged, never returned.
type notificationClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewNotificationClient creates a new Notification API client
func NewNotificationClient(baseURL string, apiKey string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) NotificationClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &notificationClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    m,
	}
}

func (c *notificationClient) SendNotification(ctx context.Context, event NotificationEvent) error {
	if event.OccurredAt == "" {
		event.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}
	return c.post(ctx, notificationsPath, event,
		zap.String("type", string(event.Type)),
		zap.String("target_user_id", event.TargetUserID),
	)
}

func (c *notificationClient) SendBulkNotifications(ctx context.Context, events []NotificationEvent) error {
	if len(events) == 0 {
		return nil
	}
	stampOccurredAt(events, time.Now())
	return c.post(ctx, bulkNotificationsPath, BulkNotificationRequest{Notifications: events},
		zap.Int("count", len(events)),
	)
}

// post returns an error only when the payload cannot be built
func (c *notificationClient) post(ctx context.Context, path string, payload interface{}, fields ...zap.Field) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-API-Key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
		defer resp.Body.Close()
	}
	c.metrics.RecordExternalAPICall(path, http.MethodPost, statusCode, duration, err)

	fields = append(fields, zap.Duration("duration", duration))
	switch {
	case err != nil:
		c.logger.Error("Failed to send notification", append(fields, zap.Error(err))...)
	case statusCode < 200 || statusCode >= 300:
		c.logger.Warn("Notification service returned non-success status", append(fields, zap.Int("status_code", statusCode))...)
	default:
		c.logger.Debug("Notification sent", fields...)
	}
	return nil
}

func stampOccurredAt(events []NotificationEvent, now time.Time) {
	stamp := now.UTC().Format(time.RFC3339)
	for i := range events {
		if events[i].OccurredAt == "" {
			events[i].OccurredAt = stamp
		}
	}
}

// NoOpNotificationClient is a no-op implementation for when notifications are disabled
type NoOpNotificationClient struct{}

func NewNoOpNotificationClient() NotificationClient {
	return &NoOpNotificationClient{}
}

func (c *NoOpNotificationClient) SendNotification(ctx context.Context, event NotificationEvent) error {
	return nil
}

func (c *NoOpNotificationClient) SendBulkNotifications(ctx context.Context, events []NotificationEvent) error {
	return nil
}
