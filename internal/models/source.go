package models

import "time"

// CachedSource is a previously fetched source document kept for
// conditional revalidation.
type CachedSource struct {
	ETag        string    `json:"etag"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	FetchedAt   time.Time `json:"fetched_at"`
}
