package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	inventorydomain "github.com/slotlinelabs/slotline/internal/inventory/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Validator struct {
	log  *zap.Logger
	repo inventorydomain.Repository
}

type ValidatorParam struct {
	fx.In

	Log  *zap.Logger
	Repo inventorydomain.Repository
}

func NewValidator(p ValidatorParam) inventorydomain.Validator {
	return &Validator{
		log:  p.Log.Named("inventory.validator"),
		repo: p.Repo,
	}
}

// Validate re-fetches every distinct account and profile referenced by the
// batch and rejects the whole batch if any unit is inactive or an account's
// platform does not match the platform implied by the assignment's price.
// The reads are issued fresh here, separate from the allocator's queries,
// to catch inventory that changed state between selection and commit.
func (v *Validator) Validate(ctx context.Context, tx *gorm.DB, assignments []inventorydomain.Assignment) error {
	accountIDs := make([]snowflake.ID, 0, len(assignments))
	profileIDs := make([]snowflake.ID, 0, len(assignments))
	seenAccounts := map[snowflake.ID]struct{}{}
	seenProfiles := map[snowflake.ID]struct{}{}

	for _, a := range assignments {
		if a.Placeholder() {
			continue
		}
		if a.AccountID != nil {
			if _, ok := seenAccounts[*a.AccountID]; !ok {
				seenAccounts[*a.AccountID] = struct{}{}
				accountIDs = append(accountIDs, *a.AccountID)
			}
		}
		if a.ProfileID != nil {
			if _, ok := seenProfiles[*a.ProfileID]; !ok {
				seenProfiles[*a.ProfileID] = struct{}{}
				profileIDs = append(profileIDs, *a.ProfileID)
			}
		}
	}
	if len(accountIDs) == 0 && len(profileIDs) == 0 {
		return nil
	}

	accounts, err := v.repo.FindAccountsByIDs(ctx, tx, accountIDs)
	if err != nil {
		return err
	}
	accountByID := make(map[snowflake.ID]inventorydomain.Account, len(accounts))
	for _, acc := range accounts {
		accountByID[acc.ID] = acc
	}

	profiles, err := v.repo.FindProfilesByIDs(ctx, tx, profileIDs)
	if err != nil {
		return err
	}
	profileByID := make(map[snowflake.ID]inventorydomain.Profile, len(profiles))
	for _, prof := range profiles {
		profileByID[prof.ID] = prof
	}

	for _, a := range assignments {
		if a.AccountID != nil {
			acc, ok := accountByID[*a.AccountID]
			if !ok {
				return fmt.Errorf("%w: account %d vanished", inventorydomain.ErrStaleInventory, *a.AccountID)
			}
			if acc.Inactive.Bool() {
				return fmt.Errorf("%w: account %d is inactive", inventorydomain.ErrStaleInventory, acc.ID)
			}
			if acc.PlatformID != a.PlatformID {
				return fmt.Errorf("%w: account %d is on platform %d, assignment expects %d",
					inventorydomain.ErrStaleInventory, acc.ID, acc.PlatformID, a.PlatformID)
			}
		}
		if a.ProfileID != nil {
			if _, ok := profileByID[*a.ProfileID]; !ok {
				return fmt.Errorf("%w: profile %d vanished", inventorydomain.ErrStaleInventory, *a.ProfileID)
			}
		}
	}

	return nil
}
