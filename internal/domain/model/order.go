package model

import "time"

// Order is the read-only view of an order held by the business data backend.
// This service never mutates orders; it only lists them for the resolved
// customer scope.
type Order struct {
	ID       string    `json:"id"`
	Number   string    `json:"number"`
	Status   string    `json:"status"`
	Total    string    `json:"total"` // decimal string as returned by the backend
	PlacedAt time.Time `json:"placed_at"`
}
