package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindOrder(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	ListSalesByOrderID(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]Sale, error)
	FindSaleByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Sale, error)
	InsertSale(ctx context.Context, db *gorm.DB, sale *Sale) error
	UpdateSaleRenewal(ctx context.Context, db *gorm.DB, sale *Sale) error
	InsertHistory(ctx context.Context, db *gorm.DB, entry *SaleHistoryEntry) error

	// UpdateOrderSummary refreshes the order's verification flags and
	// records the payment metadata of the processed checkout.
	UpdateOrderSummary(ctx context.Context, db *gorm.DB, order *Order) error

	// DetachCart nulls the order's cart reference before the cart is deleted
	// so no dangling foreign key survives.
	DetachCart(ctx context.Context, db *gorm.DB, orderID snowflake.ID) error
	DeleteCartLines(ctx context.Context, db *gorm.DB, cartID snowflake.ID) error
	DeleteCart(ctx context.Context, db *gorm.DB, cartID snowflake.ID) error
}
