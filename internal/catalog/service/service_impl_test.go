package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	catalogdomain "github.com/slotlinelabs/slotline/internal/catalog/domain"
	"github.com/slotlinelabs/slotline/internal/catalog/repository"
	orderdomain "github.com/slotlinelabs/slotline/internal/order/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixedRates struct {
	rate float64
}

func (f fixedRates) CurrentRate(context.Context) float64 { return f.rate }

func openCatalogDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.Platform{},
		&catalogdomain.Price{},
		&orderdomain.Cart{},
		&orderdomain.CartLine{},
	))
	return db
}

func newCatalogService(db *gorm.DB, rate float64) catalogdomain.Service {
	return New(ServiceParam{
		DB:      db,
		Log:     zap.NewNop(),
		Repo:    repository.Provide(),
		RateSvc: fixedRates{rate: rate},
	})
}

func seedCatalog(t *testing.T, db *gorm.DB, node *snowflake.Node) (catalogdomain.Platform, catalogdomain.Price) {
	t.Helper()
	now := time.Now().UTC()

	platform := catalogdomain.Platform{
		ID:                   node.Generate(),
		Code:                 "streammax",
		Name:                 "StreamMax",
		ImmediateFulfillment: true,
		AllocationStrategy:   catalogdomain.StrategyWholeAccount,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	require.NoError(t, db.Create(&platform).Error)

	price := catalogdomain.Price{
		ID:             node.Generate(),
		PlatformID:     platform.ID,
		AmountRegular:  1000,
		AmountReseller: 850,
		DurationMonths: 1,
		WholeAccount:   true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, db.Create(&price).Error)
	return platform, price
}

func TestBuildCheckoutContext_EmptyCart(t *testing.T) {
	db := openCatalogDB(t)
	node, _ := snowflake.NewNode(1)
	svc := newCatalogService(db, 104.5)

	cc, err := svc.BuildCheckoutContext(context.Background(), catalogdomain.BuildCheckoutContextRequest{
		BuyerID: node.Generate(),
		CartID:  node.Generate(),
	})
	require.NoError(t, err)
	assert.Empty(t, cc.Lines)
	assert.Empty(t, cc.Prices)
	assert.Empty(t, cc.Platforms)
	assert.Zero(t, cc.Total)
	assert.Equal(t, 104.5, cc.Rate)
}

func TestBuildCheckoutContext_ComputesTotalFromLines(t *testing.T) {
	db := openCatalogDB(t)
	node, _ := snowflake.NewNode(1)
	svc := newCatalogService(db, 103)
	platform, price := seedCatalog(t, db, node)

	cart := orderdomain.Cart{ID: node.Generate(), OwnerID: node.Generate(), CreatedAt: time.Now().UTC()}
	require.NoError(t, db.Create(&cart).Error)
	line := orderdomain.CartLine{
		ID:             node.Generate(),
		CartID:         cart.ID,
		PriceID:        price.ID,
		Quantity:       2,
		DurationMonths: 3,
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, db.Create(&line).Error)

	cc, err := svc.BuildCheckoutContext(context.Background(), catalogdomain.BuildCheckoutContextRequest{
		BuyerID: cart.OwnerID,
		CartID:  cart.ID,
	})
	require.NoError(t, err)
	require.Len(t, cc.Lines, 1)
	assert.Equal(t, price.ID, cc.Lines[0].PriceID)
	assert.Contains(t, cc.Prices, price.ID)
	assert.Contains(t, cc.Platforms, platform.ID)
	// 2 seats x 3 months x 1000
	assert.Equal(t, int64(6000), cc.Total)
	assert.Equal(t, float64(103), cc.Rate)
}

func TestBuildCheckoutContext_ResellerPricing(t *testing.T) {
	db := openCatalogDB(t)
	node, _ := snowflake.NewNode(1)
	svc := newCatalogService(db, 103)
	_, price := seedCatalog(t, db, node)

	cart := orderdomain.Cart{ID: node.Generate(), OwnerID: node.Generate(), CreatedAt: time.Now().UTC()}
	require.NoError(t, db.Create(&cart).Error)
	line := orderdomain.CartLine{
		ID:        node.Generate(),
		CartID:    cart.ID,
		PriceID:   price.ID,
		Quantity:  1,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&line).Error)

	cc, err := svc.BuildCheckoutContext(context.Background(), catalogdomain.BuildCheckoutContextRequest{
		BuyerID:  cart.OwnerID,
		Reseller: true,
		CartID:   cart.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(850), cc.PriceFor(price))
	assert.Equal(t, int64(850), cc.Total)
}

func TestBuildCheckoutContext_CallerOverridesWin(t *testing.T) {
	db := openCatalogDB(t)
	node, _ := snowflake.NewNode(1)
	svc := newCatalogService(db, 103)
	_, price := seedCatalog(t, db, node)

	cachedRate := 101.0
	cachedTotal := int64(5000)
	cart := orderdomain.Cart{
		ID:           node.Generate(),
		OwnerID:      node.Generate(),
		TotalAmount:  &cachedTotal,
		ExchangeRate: &cachedRate,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, db.Create(&cart).Error)
	line := orderdomain.CartLine{
		ID:        node.Generate(),
		CartID:    cart.ID,
		PriceID:   price.ID,
		Quantity:  1,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&line).Error)

	clientTotal := int64(4200)
	clientRate := 99.5
	cc, err := svc.BuildCheckoutContext(context.Background(), catalogdomain.BuildCheckoutContextRequest{
		BuyerID:      cart.OwnerID,
		CartID:       cart.ID,
		ClientTotal:  &clientTotal,
		ExchangeRate: &clientRate,
	})
	require.NoError(t, err)
	assert.Equal(t, clientTotal, cc.Total)
	assert.Equal(t, clientRate, cc.Rate)
}

func TestBuildCheckoutContext_CartCacheBeatsComputed(t *testing.T) {
	db := openCatalogDB(t)
	node, _ := snowflake.NewNode(1)
	svc := newCatalogService(db, 103)
	_, price := seedCatalog(t, db, node)

	cachedRate := 101.0
	cachedTotal := int64(5000)
	cart := orderdomain.Cart{
		ID:           node.Generate(),
		OwnerID:      node.Generate(),
		TotalAmount:  &cachedTotal,
		ExchangeRate: &cachedRate,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, db.Create(&cart).Error)
	line := orderdomain.CartLine{
		ID:        node.Generate(),
		CartID:    cart.ID,
		PriceID:   price.ID,
		Quantity:  1,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&line).Error)

	cc, err := svc.BuildCheckoutContext(context.Background(), catalogdomain.BuildCheckoutContextRequest{
		BuyerID: cart.OwnerID,
		CartID:  cart.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, cachedTotal, cc.Total)
	assert.Equal(t, cachedRate, cc.Rate)
}
