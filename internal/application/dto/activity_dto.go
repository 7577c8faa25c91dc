package dto

import (
	"encoding/json"
	"time"
)

// ActivityQuery filtros del journal de actividad.
type ActivityQuery struct {
	Search string `query:"search"`
	Action string `query:"action"` // vacío o "all" = todas
	PageRequest
}

// ActivityResponse entrada del journal con su resumen legible.
type ActivityResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	UserName    string          `json:"user_name"`
	Action      string          `json:"action"`
	ActionLabel string          `json:"action_label"`
	Summary     string          `json:"summary"`
	Details     json.RawMessage `json:"details"`
	Timestamp   time.Time       `json:"timestamp"`
}

// ActivityListResponse página del journal.
type ActivityListResponse struct {
	Items []ActivityResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
