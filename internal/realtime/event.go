// Package realtime pushes board events to connected browsers over websockets.
package realtime

import (
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventInvalidate = "INVALIDATE"
)

// Event tells a board's viewers that some of its views changed
type Event struct {
	Type             string    `json:"type"`
	Board            string    `json:"board"`
	Mutation         string    `json:"mutation,omitempty"`
	FeatureRequestID uuid.UUID `json:"featureRequestId,omitempty"`
	Tags             []string  `json:"tags,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}
