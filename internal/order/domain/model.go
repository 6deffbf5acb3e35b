package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/slotlinelabs/slotline/pkg/flexbool"
	"gorm.io/datatypes"
)

type Order struct {
	ID                   snowflake.ID   `json:"id" gorm:"primaryKey"`
	Reference            string         `json:"reference" gorm:"type:varchar(32);not null;uniqueIndex"`
	BuyerID              snowflake.ID   `json:"buyer_id" gorm:"not null;index"`
	TotalAmount          int64          `json:"total_amount" gorm:"not null"`
	TotalLocal           int64          `json:"total_local" gorm:"not null"`
	ExchangeRate         float64        `json:"exchange_rate" gorm:"not null"`
	PaymentMethodID      snowflake.ID   `json:"payment_method_id" gorm:"not null"`
	PaymentReference     string         `json:"payment_reference" gorm:"type:varchar(128);not null;default:''"`
	ProofFiles           datatypes.JSON `json:"proof_files" gorm:"type:jsonb"`
	AwaitingVerification flexbool.Bool  `json:"awaiting_verification" gorm:"not null;default:true"`
	PaymentVerified      flexbool.Bool  `json:"payment_verified" gorm:"not null;default:false"`
	Cancelled            flexbool.Bool  `json:"cancelled" gorm:"not null;default:false"`
	CartID               *snowflake.ID  `json:"cart_id" gorm:"index"`
	CreatedAt            time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt            time.Time      `json:"updated_at" gorm:"not null"`
}

func (Order) TableName() string { return "orders" }

type Cart struct {
	ID           snowflake.ID `json:"id" gorm:"primaryKey"`
	OwnerID      snowflake.ID `json:"owner_id" gorm:"not null;index"`
	TotalAmount  *int64       `json:"total_amount"`
	TotalLocal   *int64       `json:"total_local"`
	ExchangeRate *float64     `json:"exchange_rate"`
	Discount     *int64       `json:"discount"`
	CreatedAt    time.Time    `json:"created_at" gorm:"not null"`
}

func (Cart) TableName() string { return "carts" }

// CartLine is owned exclusively by one cart. Renewal lines point at the sale
// being renewed and may pre-select the account/profile to keep.
type CartLine struct {
	ID             snowflake.ID  `json:"id" gorm:"primaryKey"`
	CartID         snowflake.ID  `json:"cart_id" gorm:"not null;index"`
	PriceID        snowflake.ID  `json:"price_id" gorm:"not null"`
	Quantity       int           `json:"quantity" gorm:"not null;default:1"`
	DurationMonths int           `json:"duration_months" gorm:"not null;default:1"`
	Renewal        flexbool.Bool `json:"renewal" gorm:"not null;default:false"`
	RenewedSaleID  *snowflake.ID `json:"renewed_sale_id"`
	AccountID      *snowflake.ID `json:"account_id"`
	ProfileID      *snowflake.ID `json:"profile_id"`
	CreatedAt      time.Time     `json:"created_at" gorm:"not null"`
}

func (CartLine) TableName() string { return "cart_lines" }

// Months returns the contracted month count, always positive.
func (l CartLine) Months() int {
	if l.DurationMonths < 1 {
		return 1
	}
	return l.DurationMonths
}

type Sale struct {
	ID               snowflake.ID  `json:"id" gorm:"primaryKey"`
	BuyerID          snowflake.ID  `json:"buyer_id" gorm:"not null;index"`
	PriceID          snowflake.ID  `json:"price_id" gorm:"not null"`
	AccountID        *snowflake.ID `json:"account_id" gorm:"index"`
	ProfileID        *snowflake.ID `json:"profile_id" gorm:"index"`
	OrderID          snowflake.ID  `json:"order_id" gorm:"not null;index"`
	Amount           int64         `json:"amount" gorm:"not null"`
	Pending          flexbool.Bool `json:"pending" gorm:"not null;default:false"`
	MonthsContracted int           `json:"months_contracted" gorm:"not null;default:1"`
	BillingCutoff    *time.Time    `json:"billing_cutoff"`
	Renewal          flexbool.Bool `json:"renewal" gorm:"not null;default:false"`
	CreatedAt        time.Time     `json:"created_at" gorm:"not null"`
	UpdatedAt        time.Time     `json:"updated_at" gorm:"not null"`
}

func (Sale) TableName() string { return "sales" }

// SaleHistoryEntry is the append-only audit row written once per sale per
// checkout. Never updated after insert.
type SaleHistoryEntry struct {
	ID              snowflake.ID   `json:"id" gorm:"primaryKey"`
	SaleID          snowflake.ID   `json:"sale_id" gorm:"not null;index"`
	BuyerID         snowflake.ID   `json:"buyer_id" gorm:"not null"`
	Amount          int64          `json:"amount" gorm:"not null"`
	PaymentDate     time.Time      `json:"payment_date" gorm:"not null"`
	PaymentTime     string         `json:"payment_time" gorm:"type:varchar(16);not null"`
	PlatformID      snowflake.ID   `json:"platform_id" gorm:"not null"`
	AccountID       *snowflake.ID  `json:"account_id"`
	RegisteredByID  snowflake.ID   `json:"registered_by_id" gorm:"not null"`
	PaymentMethodID snowflake.ID   `json:"payment_method_id" gorm:"not null"`
	Reference       string         `json:"reference" gorm:"type:varchar(128);not null;default:''"`
	ProofFile       datatypes.JSON `json:"proof_file" gorm:"type:jsonb"`
	Renewal         flexbool.Bool  `json:"renewal" gorm:"not null;default:false"`
	CreatedAt       time.Time      `json:"created_at" gorm:"not null"`
}

func (SaleHistoryEntry) TableName() string { return "sale_history" }
