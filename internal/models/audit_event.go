package models

import "time"

// WatermarkIssuedEvent records that a personalized copy left the service.
type WatermarkIssuedEvent struct {
	ID             string    `json:"id"`
	RequestID      string    `json:"request_id,omitempty"`
	RecipientName  string    `json:"recipient_name"`
	RecipientEmail string    `json:"recipient_email"`
	SourceHash     string    `json:"source_hash"`
	PageCount      int       `json:"page_count"`
	Placement      string    `json:"placement"`
	IssuedAt       time.Time `json:"issued_at"`
}
