package dto

import "time"

// ActivityFilterRequest filtros de GET /api/activity-logs. From/To en RFC3339.
type ActivityFilterRequest struct {
	PageRequest
	ActorID    string `query:"actorId"`
	Action     string `query:"action"`
	EntityType string `query:"entityType"`
	From       string `query:"from"`
	To         string `query:"to"`
}

// ActivityLogResponse entrada de auditoría.
type ActivityLogResponse struct {
	ID            string    `json:"id"`
	ActorID       string    `json:"actorId,omitempty"`
	ActorUsername string    `json:"actorUsername,omitempty"`
	Action        string    `json:"action"`
	EntityType    string    `json:"entityType"`
	EntityID      string    `json:"entityId,omitempty"`
	Detail        string    `json:"detail,omitempty"`
	Outcome       string    `json:"outcome"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ActivityLogListResponse lista paginada de auditoría.
type ActivityLogListResponse struct {
	Items []ActivityLogResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
