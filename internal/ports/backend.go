package ports

// Ports for the external business data backend. The authorization core never
// calls these; they are exercised only after a request carries a resolved,
// trusted customer id.

import (
	"context"

	"github.com/target/shopfront-ui-api/internal/domain/model"
)

// CustomerDirectory reads customer records from the business data backend.
type CustomerDirectory interface {
	// Title returns the display title for a customer id.
	Title(ctx context.Context, customerID string) (string, error)

	// Search finds customers matching a query, for the impersonation picker.
	Search(ctx context.Context, query string, limit int) ([]model.CustomerSummary, error)
}

// OrderReader lists orders scoped to a single customer account.
type OrderReader interface {
	ListOrders(ctx context.Context, customerID string, limit int) ([]model.Order, error)
}
