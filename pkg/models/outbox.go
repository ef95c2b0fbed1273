package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OutboxEvent is written in the same transaction as the state change it
// describes and relayed to the broker afterwards.
type OutboxEvent struct {
	ID          string         `gorm:"type:uuid;primary_key" json:"id"`
	AggregateID string         `gorm:"type:uuid;not null" json:"aggregate_id"`
	EventType   string         `gorm:"type:varchar(64);not null" json:"event_type"`
	Payload     datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
	CreatedAt   time.Time      `gorm:"index:outbox_events_pending_idx,where:published_at IS NULL" json:"created_at"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	Attempts    int            `gorm:"not null;default:0" json:"attempts"`
	LastError   *string        `json:"last_error,omitempty"`
}

func (OutboxEvent) TableName() string { return "outbox_events" }

func (e *OutboxEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
