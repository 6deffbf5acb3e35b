package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/slotlinelabs/slotline/internal/catalog/domain"
	inventorydomain "github.com/slotlinelabs/slotline/internal/inventory/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Allocator struct {
	log  *zap.Logger
	repo inventorydomain.Repository
}

type AllocatorParam struct {
	fx.In

	Log  *zap.Logger
	Repo inventorydomain.Repository
}

func NewAllocator(p AllocatorParam) inventorydomain.Allocator {
	return &Allocator{
		log:  p.Log.Named("inventory.allocator"),
		repo: p.Repo,
	}
}

// batch tracks units already taken within one allocation so that pending
// (unclaimed) selections on slow-fulfillment platforms are not handed to two
// lines of the same cart.
type batch struct {
	accounts map[snowflake.ID]struct{}
	profiles map[snowflake.ID]struct{}
}

func (b *batch) usedAccount(id snowflake.ID) bool {
	_, ok := b.accounts[id]
	return ok
}

func (b *batch) usedProfile(id snowflake.ID) bool {
	_, ok := b.profiles[id]
	return ok
}

func (s *Allocator) Allocate(ctx context.Context, tx *gorm.DB, cc catalogdomain.CheckoutContext) ([]inventorydomain.Assignment, error) {
	out := make([]inventorydomain.Assignment, 0, len(cc.Lines))
	b := &batch{
		accounts: map[snowflake.ID]struct{}{},
		profiles: map[snowflake.ID]struct{}{},
	}

	for _, line := range cc.Lines {
		if line.Renewal.Bool() {
			continue
		}

		price, ok := cc.Prices[line.PriceID]
		if !ok {
			return nil, fmt.Errorf("%w: cart line %d references price %d", catalogdomain.ErrPriceNotFound, line.ID, line.PriceID)
		}
		platform, ok := cc.PlatformForPrice(price)
		if !ok {
			return nil, fmt.Errorf("%w: price %d references platform %d", catalogdomain.ErrCatalogRead, price.ID, price.PlatformID)
		}

		assignments, err := s.allocateLine(ctx, tx, b, cc, line.Quantity, line.Months(), price, platform)
		if err != nil {
			return nil, err
		}
		out = append(out, assignments...)
	}

	return out, nil
}

func (s *Allocator) allocateLine(
	ctx context.Context,
	tx *gorm.DB,
	b *batch,
	cc catalogdomain.CheckoutContext,
	quantity, months int,
	price catalogdomain.Price,
	platform catalogdomain.Platform,
) ([]inventorydomain.Assignment, error) {
	if quantity < 1 {
		quantity = 1
	}

	base := inventorydomain.Assignment{
		PriceID:    price.ID,
		PlatformID: platform.ID,
		Amount:     cc.PriceFor(price),
		Months:     months,
	}

	// Even a successfully selected unit stays pending for manual hand-off on
	// platforms without immediate fulfillment or with the mother-account model.
	handOff := !platform.ImmediateFulfillment.Bool() || platform.MotherAccountModel.Bool()

	var (
		out []inventorydomain.Assignment
		err error
	)
	remaining := quantity

	switch {
	case price.WholeAccount.Bool():
		out, remaining, err = s.fillWholeAccounts(ctx, tx, b, base, remaining, handOff, platform.ID)
	case platform.AllocationStrategy == catalogdomain.StrategyDualTier && price.PlanTier == catalogdomain.PlanTierSecond:
		out, remaining, err = s.fillHomeProfiles(ctx, tx, b, base, remaining, handOff, platform.ID)
		if err == nil && remaining > 0 {
			var more []inventorydomain.Assignment
			more, remaining, err = s.fillWholeAccountsFrom(ctx, tx, b, base, remaining, handOff, platform.ID, s.repo.ListMemberAccountCandidates)
			out = append(out, more...)
		}
	default:
		out, remaining, err = s.fillProfiles(ctx, tx, b, base, remaining, handOff, platform.ID, platform.MotherAccountModel.Bool())
	}
	if err != nil {
		return nil, err
	}

	// Shortfall degrades to placeholders; no unit is ever invented.
	for ; remaining > 0; remaining-- {
		placeholder := base
		placeholder.Pending = true
		out = append(out, placeholder)
	}

	return out, nil
}

func (s *Allocator) fillWholeAccounts(
	ctx context.Context,
	tx *gorm.DB,
	b *batch,
	base inventorydomain.Assignment,
	remaining int,
	handOff bool,
	platformID snowflake.ID,
) ([]inventorydomain.Assignment, int, error) {
	return s.fillWholeAccountsFrom(ctx, tx, b, base, remaining, handOff, platformID, s.repo.ListWholeAccountCandidates)
}

type accountLister func(ctx context.Context, db *gorm.DB, platformID snowflake.ID, limit int) ([]inventorydomain.Account, error)

func (s *Allocator) fillWholeAccountsFrom(
	ctx context.Context,
	tx *gorm.DB,
	b *batch,
	base inventorydomain.Assignment,
	remaining int,
	handOff bool,
	platformID snowflake.ID,
	list accountLister,
) ([]inventorydomain.Assignment, int, error) {
	var out []inventorydomain.Assignment

	for remaining > 0 {
		candidates, err := list(ctx, tx, platformID, remaining+len(b.accounts))
		if err != nil {
			return nil, 0, err
		}

		progress := false
		for _, acc := range candidates {
			if remaining == 0 {
				break
			}
			if b.usedAccount(acc.ID) {
				continue
			}

			claimed := false
			if !handOff {
				err := s.repo.ClaimAccount(ctx, tx, acc.ID)
				if errors.Is(err, inventorydomain.ErrStorageConflict) {
					s.log.Debug("account claim lost", zap.Int64("account_id", int64(acc.ID)))
					// The exclusion set grew, so the next listing pass widens
					// past the stolen unit. Counts as progress.
					b.accounts[acc.ID] = struct{}{}
					progress = true
					continue
				}
				if err != nil {
					return nil, 0, err
				}
				claimed = true
			}

			asn := base
			id := acc.ID
			asn.AccountID = &id
			asn.Pending = handOff
			asn.Claimed = claimed
			out = append(out, asn)
			b.accounts[acc.ID] = struct{}{}
			remaining--
			progress = true
		}

		if !progress {
			break
		}
	}

	return out, remaining, nil
}

type profileLister func(ctx context.Context, db *gorm.DB, platformID snowflake.ID, limit int) ([]inventorydomain.Profile, error)

func (s *Allocator) fillHomeProfiles(
	ctx context.Context,
	tx *gorm.DB,
	b *batch,
	base inventorydomain.Assignment,
	remaining int,
	handOff bool,
	platformID snowflake.ID,
) ([]inventorydomain.Assignment, int, error) {
	return s.fillProfilesFrom(ctx, tx, b, base, remaining, handOff, platformID, s.repo.ListHomeProfileCandidates)
}

func (s *Allocator) fillProfiles(
	ctx context.Context,
	tx *gorm.DB,
	b *batch,
	base inventorydomain.Assignment,
	remaining int,
	handOff bool,
	platformID snowflake.ID,
	motherOnly bool,
) ([]inventorydomain.Assignment, int, error) {
	list := func(ctx context.Context, db *gorm.DB, platformID snowflake.ID, limit int) ([]inventorydomain.Profile, error) {
		return s.repo.ListProfileCandidates(ctx, db, platformID, motherOnly, limit)
	}
	return s.fillProfilesFrom(ctx, tx, b, base, remaining, handOff, platformID, list)
}

func (s *Allocator) fillProfilesFrom(
	ctx context.Context,
	tx *gorm.DB,
	b *batch,
	base inventorydomain.Assignment,
	remaining int,
	handOff bool,
	platformID snowflake.ID,
	list profileLister,
) ([]inventorydomain.Assignment, int, error) {
	var out []inventorydomain.Assignment

	for remaining > 0 {
		candidates, err := list(ctx, tx, platformID, remaining+len(b.profiles))
		if err != nil {
			return nil, 0, err
		}

		progress := false
		for _, prof := range candidates {
			if remaining == 0 {
				break
			}
			if b.usedProfile(prof.ID) {
				continue
			}

			claimed := false
			if !handOff {
				err := s.repo.ClaimProfile(ctx, tx, prof.ID)
				if errors.Is(err, inventorydomain.ErrStorageConflict) {
					s.log.Debug("profile claim lost", zap.Int64("profile_id", int64(prof.ID)))
					// Same as the account branch: widen the next listing pass.
					b.profiles[prof.ID] = struct{}{}
					progress = true
					continue
				}
				if err != nil {
					return nil, 0, err
				}
				claimed = true
			}

			asn := base
			profileID := prof.ID
			accountID := prof.AccountID
			asn.ProfileID = &profileID
			asn.AccountID = &accountID
			asn.Pending = handOff
			asn.Claimed = claimed
			out = append(out, asn)
			b.profiles[prof.ID] = struct{}{}
			remaining--
			progress = true
		}

		if !progress {
			break
		}
	}

	return out, remaining, nil
}
