package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/slotlinelabs/slotline/internal/catalog/domain"
	"github.com/slotlinelabs/slotline/internal/clock"
	inventorydomain "github.com/slotlinelabs/slotline/internal/inventory/domain"
	orderdomain "github.com/slotlinelabs/slotline/internal/order/domain"
	"github.com/slotlinelabs/slotline/pkg/dateutil"
	"github.com/slotlinelabs/slotline/pkg/flexbool"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service is the only component allowed to cause durable side effects for a
// checkout. Everything inside ProcessOrder runs in one transaction: the
// allocator's selection and claims, the validator's re-check, and every
// write either all commit or all roll back.
type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	repo      orderdomain.Repository
	allocator inventorydomain.Allocator
	validator inventorydomain.Validator
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock

	Repo      orderdomain.Repository
	Allocator inventorydomain.Allocator
	Validator inventorydomain.Validator
}

func New(p ServiceParam) orderdomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("order.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		allocator: p.Allocator,
		validator: p.Validator,
	}
}

func (s *Service) ProcessOrder(ctx context.Context, req orderdomain.ProcessOrderRequest) (orderdomain.ProcessOrderResult, error) {
	if req.OrderID == 0 {
		return orderdomain.ProcessOrderResult{}, orderdomain.ErrInvalidOrder
	}
	if req.BuyerID == 0 {
		return orderdomain.ProcessOrderResult{}, orderdomain.ErrInvalidBuyer
	}

	var result orderdomain.ProcessOrderResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.repo.FindOrder(ctx, tx, req.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return orderdomain.ErrOrderNotFound
		}

		now := s.clock.Now(ctx)

		// Orders are created by the checkout front before processing and
		// may arrive without a public number yet.
		if order.Reference == "" {
			order.Reference = orderdomain.NewReference(now)
		}

		existing, err := s.repo.ListSalesByOrderID(ctx, tx, req.OrderID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			// Already materialized: refresh the summary flags and report the
			// existing counts. No new sales, no re-allocation.
			pending := 0
			for _, sale := range existing {
				if sale.Pending.Bool() {
					pending++
				}
			}
			if err := s.updateSummary(ctx, tx, order, req, now); err != nil {
				return err
			}
			result = orderdomain.ProcessOrderResult{SalesCount: len(existing), PendingCount: pending}
			return nil
		}

		assignments, err := s.allocator.Allocate(ctx, tx, req.Checkout)
		if err != nil {
			return err
		}
		if err := s.validator.Validate(ctx, tx, assignments); err != nil {
			return err
		}

		salesCount, err := s.applyRenewals(ctx, tx, req, now)
		if err != nil {
			return err
		}

		pendingCount := 0
		for _, a := range assignments {
			sale, err := s.insertSale(ctx, tx, req, a, now)
			if err != nil {
				return err
			}
			if err := s.insertHistory(ctx, tx, req, sale, a.PlatformID, now); err != nil {
				return err
			}
			salesCount++
			if a.Pending {
				pendingCount++
			}
		}

		if err := s.updateSummary(ctx, tx, order, req, now); err != nil {
			return err
		}

		if err := s.consumeCart(ctx, tx, req, order); err != nil {
			return err
		}

		result = orderdomain.ProcessOrderResult{SalesCount: salesCount, PendingCount: pendingCount}
		return nil
	})
	if err != nil {
		return orderdomain.ProcessOrderResult{}, err
	}

	s.log.Info("order processed",
		zap.Int64("order_id", int64(req.OrderID)),
		zap.Int("sales", result.SalesCount),
		zap.Int("pending", result.PendingCount),
	)
	return result, nil
}

// applyRenewals pushes each renewal line's cutoff forward and re-records the
// sale under this order. Renewals never touch occupied flags or select new
// inventory: the sale keeps the account and profile it already has.
func (s *Service) applyRenewals(ctx context.Context, tx *gorm.DB, req orderdomain.ProcessOrderRequest, now time.Time) (int, error) {
	count := 0
	for _, line := range req.Checkout.Lines {
		if !line.Renewal.Bool() {
			continue
		}
		if line.RenewedSaleID == nil {
			return 0, fmt.Errorf("%w: cart line %d", orderdomain.ErrRenewalTargetMissing, line.ID)
		}

		sale, err := s.repo.FindSaleByID(ctx, tx, *line.RenewedSaleID)
		if err != nil {
			return 0, err
		}
		if sale == nil {
			return 0, fmt.Errorf("%w: sale %d", orderdomain.ErrRenewalTargetMissing, *line.RenewedSaleID)
		}

		price, ok := req.Checkout.Prices[line.PriceID]
		if !ok {
			return 0, fmt.Errorf("%w: cart line %d references price %d", catalogdomain.ErrPriceNotFound, line.ID, line.PriceID)
		}

		months := line.Months()
		base := now
		if sale.BillingCutoff != nil {
			base = *sale.BillingCutoff
		}
		cutoff := dateutil.AddMonthsKeepDay(base, months)

		sale.BillingCutoff = &cutoff
		sale.Amount = req.Checkout.PriceFor(price)
		sale.OrderID = req.OrderID
		sale.Renewal = true
		sale.MonthsContracted = months
		sale.UpdatedAt = now

		if err := s.repo.UpdateSaleRenewal(ctx, tx, sale); err != nil {
			return 0, err
		}
		if err := s.insertHistory(ctx, tx, req, sale, price.PlatformID, now); err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

func (s *Service) insertSale(ctx context.Context, tx *gorm.DB, req orderdomain.ProcessOrderRequest, a inventorydomain.Assignment, now time.Time) (*orderdomain.Sale, error) {
	sale := &orderdomain.Sale{
		ID:               s.genID.Generate(),
		BuyerID:          req.BuyerID,
		PriceID:          a.PriceID,
		AccountID:        a.AccountID,
		ProfileID:        a.ProfileID,
		OrderID:          req.OrderID,
		Amount:           a.Amount,
		Pending:          flexbool.Bool(a.Pending),
		MonthsContracted: a.Months,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if !a.Pending {
		cutoff := dateutil.AddMonthsKeepDay(now, a.Months)
		sale.BillingCutoff = &cutoff
	}
	if err := s.repo.InsertSale(ctx, tx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *Service) insertHistory(ctx context.Context, tx *gorm.DB, req orderdomain.ProcessOrderRequest, sale *orderdomain.Sale, platformID snowflake.ID, now time.Time) error {
	proof, err := json.Marshal(req.ProofFiles)
	if err != nil {
		return err
	}
	entry := &orderdomain.SaleHistoryEntry{
		ID:              s.genID.Generate(),
		SaleID:          sale.ID,
		BuyerID:         req.BuyerID,
		Amount:          sale.Amount,
		PaymentDate:     now,
		PaymentTime:     now.Local().Format("15:04:05"),
		PlatformID:      platformID,
		AccountID:       sale.AccountID,
		RegisteredByID:  req.ActingUserID,
		PaymentMethodID: req.PaymentMethodID,
		Reference:       req.PaymentReference,
		ProofFile:       proof,
		Renewal:         sale.Renewal,
		CreatedAt:       now,
	}
	return s.repo.InsertHistory(ctx, tx, entry)
}

func (s *Service) updateSummary(ctx context.Context, tx *gorm.DB, order *orderdomain.Order, req orderdomain.ProcessOrderRequest, now time.Time) error {
	proof, err := json.Marshal(req.ProofFiles)
	if err != nil {
		return err
	}
	order.AwaitingVerification = flexbool.Bool(req.RequiresVerification)
	order.PaymentVerified = flexbool.Bool(!req.RequiresVerification)
	order.PaymentReference = req.PaymentReference
	order.ProofFiles = proof
	order.UpdatedAt = now
	return s.repo.UpdateOrderSummary(ctx, tx, order)
}

// consumeCart detaches the order from its cart and deletes the cart with its
// lines. The detach runs first so the cart delete leaves no dangling
// reference behind.
func (s *Service) consumeCart(ctx context.Context, tx *gorm.DB, req orderdomain.ProcessOrderRequest, order *orderdomain.Order) error {
	cartID := req.CartID
	if cartID == 0 {
		cartID = req.Checkout.CartID
	}
	if cartID == 0 && order.CartID != nil {
		cartID = *order.CartID
	}
	if cartID == 0 {
		return nil
	}

	if err := s.repo.DetachCart(ctx, tx, order.ID); err != nil {
		return err
	}
	if err := s.repo.DeleteCartLines(ctx, tx, cartID); err != nil {
		return err
	}
	return s.repo.DeleteCart(ctx, tx, cartID)
}
