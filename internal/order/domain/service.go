package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/slotlinelabs/slotline/internal/catalog/domain"
)

type ProcessOrderRequest struct {
	OrderID      snowflake.ID
	ActingUserID snowflake.ID
	BuyerID      snowflake.ID

	// Checkout holds the snapshot built by the catalog service: lines,
	// price and platform indexes, pricing function, total and rate.
	Checkout catalogdomain.CheckoutContext

	PaymentReference string
	ProofFiles       []string
	PaymentMethodID  snowflake.ID
	CartID           snowflake.ID

	// RequiresVerification is decided by the orchestration layer (payment
	// method policy); the core treats it as opaque.
	RequiresVerification bool
}

type ProcessOrderResult struct {
	SalesCount   int `json:"sales_count"`
	PendingCount int `json:"pending_count"`
}

// Service materializes checkouts. ProcessOrder is idempotent: re-invoking it
// for an order that already has sales refreshes the order's summary flags
// and returns the existing counts without creating anything.
type Service interface {
	ProcessOrder(ctx context.Context, req ProcessOrderRequest) (ProcessOrderResult, error)
}
