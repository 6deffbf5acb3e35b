package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	orderdomain "github.com/slotlinelabs/slotline/internal/order/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() orderdomain.Repository {
	return &repo{}
}

func (r *repo) FindOrder(ctx context.Context, db *gorm.DB, id snowflake.ID) (*orderdomain.Order, error) {
	var order orderdomain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM orders WHERE id = ?`,
		id,
	).Scan(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) ListSalesByOrderID(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]orderdomain.Sale, error) {
	var sales []orderdomain.Sale
	err := db.WithContext(ctx).
		Model(&orderdomain.Sale{}).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&sales).Error
	return sales, err
}

func (r *repo) FindSaleByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*orderdomain.Sale, error) {
	var sale orderdomain.Sale
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM sales WHERE id = ?`,
		id,
	).Scan(&sale).Error
	if err != nil {
		return nil, err
	}
	if sale.ID == 0 {
		return nil, nil
	}
	return &sale, nil
}

func (r *repo) InsertSale(ctx context.Context, db *gorm.DB, sale *orderdomain.Sale) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO sales (
			id, buyer_id, price_id, account_id, profile_id, order_id,
			amount, pending, months_contracted, billing_cutoff, renewal,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sale.ID,
		sale.BuyerID,
		sale.PriceID,
		sale.AccountID,
		sale.ProfileID,
		sale.OrderID,
		sale.Amount,
		sale.Pending,
		sale.MonthsContracted,
		sale.BillingCutoff,
		sale.Renewal,
		sale.CreatedAt,
		sale.UpdatedAt,
	).Error
}

func (r *repo) UpdateSaleRenewal(ctx context.Context, db *gorm.DB, sale *orderdomain.Sale) error {
	return db.WithContext(ctx).Exec(
		`UPDATE sales
		 SET billing_cutoff = ?, amount = ?, order_id = ?, renewal = ?, months_contracted = ?, updated_at = ?
		 WHERE id = ?`,
		sale.BillingCutoff,
		sale.Amount,
		sale.OrderID,
		sale.Renewal,
		sale.MonthsContracted,
		sale.UpdatedAt,
		sale.ID,
	).Error
}

func (r *repo) InsertHistory(ctx context.Context, db *gorm.DB, entry *orderdomain.SaleHistoryEntry) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO sale_history (
			id, sale_id, buyer_id, amount, payment_date, payment_time,
			platform_id, account_id, registered_by_id, payment_method_id,
			reference, proof_file, renewal, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.SaleID,
		entry.BuyerID,
		entry.Amount,
		entry.PaymentDate,
		entry.PaymentTime,
		entry.PlatformID,
		entry.AccountID,
		entry.RegisteredByID,
		entry.PaymentMethodID,
		entry.Reference,
		entry.ProofFile,
		entry.Renewal,
		entry.CreatedAt,
	).Error
}

func (r *repo) UpdateOrderSummary(ctx context.Context, db *gorm.DB, order *orderdomain.Order) error {
	return db.WithContext(ctx).Exec(
		`UPDATE orders
		 SET reference = ?, awaiting_verification = ?, payment_verified = ?, payment_reference = ?, proof_files = ?, updated_at = ?
		 WHERE id = ?`,
		order.Reference,
		order.AwaitingVerification,
		order.PaymentVerified,
		order.PaymentReference,
		order.ProofFiles,
		order.UpdatedAt,
		order.ID,
	).Error
}

func (r *repo) DetachCart(ctx context.Context, db *gorm.DB, orderID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`UPDATE orders SET cart_id = NULL WHERE id = ?`,
		orderID,
	).Error
}

func (r *repo) DeleteCartLines(ctx context.Context, db *gorm.DB, cartID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM cart_lines WHERE cart_id = ?`,
		cartID,
	).Error
}

func (r *repo) DeleteCart(ctx context.Context, db *gorm.DB, cartID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM carts WHERE id = ?`,
		cartID,
	).Error
}
