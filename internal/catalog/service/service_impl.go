package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/slotlinelabs/slotline/internal/catalog/domain"
	exchangeratedomain "github.com/slotlinelabs/slotline/internal/exchangerate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    catalogdomain.Repository
	ratesvc exchangeratedomain.Service
}

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    catalogdomain.Repository
	RateSvc exchangeratedomain.Service
}

func New(p ServiceParam) catalogdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("catalog.service"),
		repo:    p.Repo,
		ratesvc: p.RateSvc,
	}
}

// BuildCheckoutContext loads the cart's lines with every price and platform
// they reference. Pure read: an empty cart yields an empty snapshot with the
// caller-supplied total and rate defaulted. Lookup failures wrap
// ErrCatalogRead.
func (s *Service) BuildCheckoutContext(ctx context.Context, req catalogdomain.BuildCheckoutContextRequest) (catalogdomain.CheckoutContext, error) {
	out := catalogdomain.CheckoutContext{
		CartID:    req.CartID,
		Prices:    map[snowflake.ID]catalogdomain.Price{},
		Platforms: map[snowflake.ID]catalogdomain.Platform{},
	}

	reseller := req.Reseller
	out.PriceFor = func(p catalogdomain.Price) int64 {
		return p.AmountFor(reseller)
	}

	totals, err := s.repo.FindCartTotals(ctx, s.db, req.CartID)
	if err != nil {
		return catalogdomain.CheckoutContext{}, fmt.Errorf("%w: cart %d: %v", catalogdomain.ErrCatalogRead, req.CartID, err)
	}

	lines, err := s.repo.ListCartLines(ctx, s.db, req.CartID)
	if err != nil {
		return catalogdomain.CheckoutContext{}, fmt.Errorf("%w: cart lines %d: %v", catalogdomain.ErrCatalogRead, req.CartID, err)
	}
	out.Lines = lines

	priceIDs := make([]snowflake.ID, 0, len(lines))
	seen := map[snowflake.ID]struct{}{}
	for _, line := range lines {
		if _, ok := seen[line.PriceID]; ok {
			continue
		}
		seen[line.PriceID] = struct{}{}
		priceIDs = append(priceIDs, line.PriceID)
	}

	prices, err := s.repo.FindPricesByIDs(ctx, s.db, priceIDs)
	if err != nil {
		return catalogdomain.CheckoutContext{}, fmt.Errorf("%w: prices: %v", catalogdomain.ErrCatalogRead, err)
	}
	platformIDs := make([]snowflake.ID, 0, len(prices))
	seenPlatform := map[snowflake.ID]struct{}{}
	for _, p := range prices {
		out.Prices[p.ID] = p
		if _, ok := seenPlatform[p.PlatformID]; ok {
			continue
		}
		seenPlatform[p.PlatformID] = struct{}{}
		platformIDs = append(platformIDs, p.PlatformID)
	}

	platforms, err := s.repo.FindPlatformsByIDs(ctx, s.db, platformIDs)
	if err != nil {
		return catalogdomain.CheckoutContext{}, fmt.Errorf("%w: platforms: %v", catalogdomain.ErrCatalogRead, err)
	}
	for _, pl := range platforms {
		out.Platforms[pl.ID] = pl
	}

	out.Total = s.resolveTotal(req, totals, out)
	out.Rate = s.resolveRate(ctx, req, totals)

	return out, nil
}

func (s *Service) resolveTotal(req catalogdomain.BuildCheckoutContextRequest, totals *catalogdomain.CartTotals, cc catalogdomain.CheckoutContext) int64 {
	if req.ClientTotal != nil {
		return *req.ClientTotal
	}
	if totals != nil && totals.TotalAmount != nil {
		return *totals.TotalAmount
	}

	var total int64
	for _, line := range cc.Lines {
		price, ok := cc.Prices[line.PriceID]
		if !ok {
			continue
		}
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		total += cc.PriceFor(price) * int64(qty) * int64(line.Months())
	}
	return total
}

func (s *Service) resolveRate(ctx context.Context, req catalogdomain.BuildCheckoutContextRequest, totals *catalogdomain.CartTotals) float64 {
	if req.ExchangeRate != nil && *req.ExchangeRate > 0 {
		return *req.ExchangeRate
	}
	if totals != nil && totals.ExchangeRate != nil && *totals.ExchangeRate > 0 {
		return *totals.ExchangeRate
	}
	return s.ratesvc.CurrentRate(ctx)
}
