package model

import "time"

// Note is a user note stored by the remote notes service.
type Note struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Order     float64   `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	OwnerKey  string    `json:"userEmail,omitempty"`
}
