package integration

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/slotlinelabs/slotline/internal/catalog/domain"
	catalogrepo "github.com/slotlinelabs/slotline/internal/catalog/repository"
	catalogservice "github.com/slotlinelabs/slotline/internal/catalog/service"
	"github.com/slotlinelabs/slotline/internal/clock"
	inventorydomain "github.com/slotlinelabs/slotline/internal/inventory/domain"
	inventoryrepo "github.com/slotlinelabs/slotline/internal/inventory/repository"
	inventoryservice "github.com/slotlinelabs/slotline/internal/inventory/service"
	orderdomain "github.com/slotlinelabs/slotline/internal/order/domain"
	orderrepo "github.com/slotlinelabs/slotline/internal/order/repository"
	orderservice "github.com/slotlinelabs/slotline/internal/order/service"
	"github.com/slotlinelabs/slotline/pkg/dateutil"
)

type staticRates struct{}

func (staticRates) CurrentRate(context.Context) float64 { return 103 }

// TestCheckoutCriticalPath drives the full pipeline the way a checkout does:
// snapshot, allocation, validation, materialization. One cart mixes a live
// whole-account line, a mother-account profile line (always pending) and a
// shortfall that degrades to a placeholder.
func TestCheckoutCriticalPath(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())

	err = db.AutoMigrate(
		&catalogdomain.Platform{},
		&catalogdomain.Price{},
		&inventorydomain.Account{},
		&inventorydomain.Profile{},
		&orderdomain.Order{},
		&orderdomain.Cart{},
		&orderdomain.CartLine{},
		&orderdomain.Sale{},
		&orderdomain.SaleHistoryEntry{},
	)
	require.NoError(t, err)

	node, _ := snowflake.NewNode(1)
	logger := zap.NewNop()
	now := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)
	clk := clock.Fixed(now)
	ctx := context.Background()

	catalogSvc := catalogservice.New(catalogservice.ServiceParam{
		DB:      db,
		Log:     logger,
		Repo:    catalogrepo.Provide(),
		RateSvc: staticRates{},
	})
	orderSvc := orderservice.New(orderservice.ServiceParam{
		DB:    db,
		Log:   logger,
		GenID: node,
		Clock: clk,
		Repo:  orderrepo.Provide(),
		Allocator: inventoryservice.NewAllocator(inventoryservice.AllocatorParam{
			Log:  logger,
			Repo: inventoryrepo.Provide(),
		}),
		Validator: inventoryservice.NewValidator(inventoryservice.ValidatorParam{
			Log:  logger,
			Repo: inventoryrepo.Provide(),
		}),
	})

	// -- Catalog --

	fast := catalogdomain.Platform{
		ID:                   node.Generate(),
		Code:                 "streammax",
		Name:                 "StreamMax",
		ImmediateFulfillment: true,
		AllocationStrategy:   catalogdomain.StrategyWholeAccount,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	require.NoError(t, db.Create(&fast).Error)

	mother := catalogdomain.Platform{
		ID:                   node.Generate(),
		Code:                 "melodyplus",
		Name:                 "MelodyPlus",
		ImmediateFulfillment: true,
		MotherAccountModel:   true,
		AllocationStrategy:   catalogdomain.StrategyProfileDefault,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	require.NoError(t, db.Create(&mother).Error)

	wholePrice := catalogdomain.Price{
		ID:            node.Generate(),
		PlatformID:    fast.ID,
		AmountRegular: 1200,
		WholeAccount:  true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, db.Create(&wholePrice).Error)

	profilePrice := catalogdomain.Price{
		ID:            node.Generate(),
		PlatformID:    mother.ID,
		AmountRegular: 400,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, db.Create(&profilePrice).Error)

	// -- Inventory: one whole account (demand is two), one mother profile --

	wholeAcc := inventorydomain.Account{
		ID:            node.Generate(),
		PlatformID:    fast.ID,
		Email:         "whole@stock.dev",
		SellableWhole: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, db.Create(&wholeAcc).Error)

	motherAcc := inventorydomain.Account{
		ID:            node.Generate(),
		PlatformID:    mother.ID,
		Email:         "mother@stock.dev",
		MotherAccount: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, db.Create(&motherAcc).Error)
	motherProfile := inventorydomain.Profile{
		ID:         node.Generate(),
		AccountID:  motherAcc.ID,
		SlotNumber: 2,
		PIN:        "2222",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, db.Create(&motherProfile).Error)

	// -- Cart and order --

	buyerID := node.Generate()
	cart := orderdomain.Cart{ID: node.Generate(), OwnerID: buyerID, CreatedAt: now}
	require.NoError(t, db.Create(&cart).Error)
	require.NoError(t, db.Create(&orderdomain.CartLine{
		ID:             node.Generate(),
		CartID:         cart.ID,
		PriceID:        wholePrice.ID,
		Quantity:       2,
		DurationMonths: 3,
		CreatedAt:      now,
	}).Error)
	require.NoError(t, db.Create(&orderdomain.CartLine{
		ID:             node.Generate(),
		CartID:         cart.ID,
		PriceID:        profilePrice.ID,
		Quantity:       1,
		DurationMonths: 1,
		CreatedAt:      now,
	}).Error)

	cartID := cart.ID
	order := orderdomain.Order{
		ID:              node.Generate(),
		Reference:       orderdomain.NewReference(now),
		BuyerID:         buyerID,
		PaymentMethodID: node.Generate(),
		CartID:          &cartID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, db.Create(&order).Error)

	// -- Snapshot --

	cc, err := catalogSvc.BuildCheckoutContext(ctx, catalogdomain.BuildCheckoutContextRequest{
		BuyerID: buyerID,
		CartID:  cart.ID,
	})
	require.NoError(t, err)
	require.Len(t, cc.Lines, 2)
	// 2 whole x 3 months x 1200 + 1 profile x 1 month x 400
	assert.Equal(t, int64(7600), cc.Total)
	assert.Equal(t, float64(103), cc.Rate)

	// -- Materialize --

	res, err := orderSvc.ProcessOrder(ctx, orderdomain.ProcessOrderRequest{
		OrderID:          order.ID,
		ActingUserID:     buyerID,
		BuyerID:          buyerID,
		Checkout:         cc,
		PaymentReference: "bank-778",
		ProofFiles:       []string{"receipt.jpg"},
		PaymentMethodID:  order.PaymentMethodID,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.SalesCount)
	// One whole-account seat had no stock; the mother profile hands off.
	assert.Equal(t, 2, res.PendingCount)

	var sales []orderdomain.Sale
	require.NoError(t, db.Order("id ASC").Find(&sales, "order_id = ?", order.ID).Error)
	require.Len(t, sales, 3)

	var liveSale, placeholder, profileSale *orderdomain.Sale
	for i := range sales {
		s := &sales[i]
		switch {
		case s.AccountID != nil && s.ProfileID == nil && !s.Pending.Bool():
			liveSale = s
		case s.ProfileID != nil:
			profileSale = s
		default:
			placeholder = s
		}
	}
	require.NotNil(t, liveSale)
	require.NotNil(t, placeholder)
	require.NotNil(t, profileSale)

	assert.Equal(t, wholeAcc.ID, *liveSale.AccountID)
	require.NotNil(t, liveSale.BillingCutoff)
	// January 31 plus three months clamps to April 30.
	assert.WithinDuration(t, dateutil.AddMonthsKeepDay(now, 3), *liveSale.BillingCutoff, time.Second)
	assert.Equal(t, int64(1200), liveSale.Amount)

	assert.True(t, placeholder.Pending.Bool())
	assert.Nil(t, placeholder.AccountID)
	assert.Nil(t, placeholder.BillingCutoff)

	assert.True(t, profileSale.Pending.Bool())
	assert.Equal(t, motherProfile.ID, *profileSale.ProfileID)
	assert.Nil(t, profileSale.BillingCutoff)

	var occupied inventorydomain.Account
	require.NoError(t, db.First(&occupied, "id = ?", wholeAcc.ID).Error)
	assert.True(t, occupied.Occupied.Bool())

	// Mother-account profiles stay free until fulfillment confirms them.
	var freeProfile inventorydomain.Profile
	require.NoError(t, db.First(&freeProfile, "id = ?", motherProfile.ID).Error)
	assert.False(t, freeProfile.Occupied.Bool())

	// Cart consumed, order detached.
	var cartCount, lineCount int64
	require.NoError(t, db.Model(&orderdomain.Cart{}).Where("id = ?", cart.ID).Count(&cartCount).Error)
	require.NoError(t, db.Model(&orderdomain.CartLine{}).Where("cart_id = ?", cart.ID).Count(&lineCount).Error)
	assert.Zero(t, cartCount)
	assert.Zero(t, lineCount)

	var processed orderdomain.Order
	require.NoError(t, db.First(&processed, "id = ?", order.ID).Error)
	assert.Nil(t, processed.CartID)
	assert.True(t, processed.PaymentVerified.Bool())
	assert.False(t, processed.AwaitingVerification.Bool())

	// -- Retry is a no-op --

	again, err := orderSvc.ProcessOrder(ctx, orderdomain.ProcessOrderRequest{
		OrderID:         order.ID,
		ActingUserID:    buyerID,
		BuyerID:         buyerID,
		Checkout:        cc,
		PaymentMethodID: order.PaymentMethodID,
	})
	require.NoError(t, err)
	assert.Equal(t, res, again)

	var saleCount int64
	require.NoError(t, db.Model(&orderdomain.Sale{}).Count(&saleCount).Error)
	assert.Equal(t, int64(3), saleCount)
}
