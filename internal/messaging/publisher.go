// Package messaging defines the outbound event contract of the registry.
// Lifecycle events describe article and snapshot mutations so downstream
// consumers can react without polling the database.
package messaging

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Event types emitted by the registry
const (
	EventArticleCreated    = "registry.article.created"
	EventArticleShared     = "registry.article.shared"
	EventArticleDeleted    = "registry.article.deleted"
	EventSnapshotRefreshed = "registry.snapshot.refreshed"
)

// Event is one lifecycle event. ID is a ULID; consumers use it for
// deduplication, so the same logical event must carry the same ID on retry.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	TenantID  *int64    `json:"tenant_id,omitempty"`
	ArticleID int64     `json:"article_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent creates an event with a fresh ULID and the current time
func NewEvent(eventType string, tenantID *int64, articleID int64) *Event {
	return &Event{
		ID:        ulid.Make().String(),
		Type:      eventType,
		TenantID:  tenantID,
		ArticleID: articleID,
		Timestamp: time.Now().UTC(),
	}
}

// Publisher defines the interface for publishing lifecycle events
type Publisher interface {
	// PublishEvent publishes a lifecycle event to the message broker
	PublishEvent(ctx context.Context, event *Event) error
	// Close closes the connection
	Close()
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishEvent(_ context.Context, _ *Event) error { return nil }
func (NoopPublisher) Close()                                         {}
