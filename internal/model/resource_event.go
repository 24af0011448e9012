package model

import "time"

type ResourceEventType string

const (
	ResourceCreated ResourceEventType = "resource.created"
	ResourceUpdated ResourceEventType = "resource.updated"
	ResourceDeleted ResourceEventType = "resource.deleted"
)

type ResourceEvent struct {
	Type       ResourceEventType `json:"type"`
	ResourceID string            `json:"resource_id"`
	UserID     string            `json:"user_id"`
	OccurredAt time.Time         `json:"occurred_at"`
}
