package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	catalogdomain "github.com/slotlinelabs/slotline/internal/catalog/domain"
	inventorydomain "github.com/slotlinelabs/slotline/internal/inventory/domain"
	"github.com/slotlinelabs/slotline/pkg/flexbool"
	"gorm.io/gorm"
)

func toFlag(v bool) flexbool.Bool { return flexbool.Bool(v) }

type platformSpec struct {
	name      string
	strategy  catalogdomain.AllocationStrategy
	immediate bool
	mother    bool
}

var demoPlatforms = []platformSpec{
	{name: "StreamMax", strategy: catalogdomain.StrategyDualTier, immediate: true},
	{name: "CineBox", strategy: catalogdomain.StrategyProfileDefault, immediate: true},
	{name: "MelodyPlus", strategy: catalogdomain.StrategyProfileDefault, immediate: false, mother: true},
}

// EnsureDemoCatalog seeds a minimal catalog with inventory for local
// development. Idempotent: a platform whose code already exists is skipped.
func EnsureDemoCatalog(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, spec := range demoPlatforms {
			if err := ensurePlatformTx(ctx, tx, node, spec); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensurePlatformTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, spec platformSpec) error {
	code := slug.Make(spec.name)

	var existing catalogdomain.Platform
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM platforms WHERE code = ?`, code,
	).Scan(&existing).Error
	if err != nil {
		return err
	}
	if existing.ID != 0 {
		return nil
	}

	now := time.Now().UTC()
	platform := catalogdomain.Platform{
		ID:                   node.Generate(),
		Code:                 code,
		Name:                 spec.name,
		ImmediateFulfillment: toFlag(spec.immediate),
		MotherAccountModel:   toFlag(spec.mother),
		AllocationStrategy:   spec.strategy,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := tx.Create(&platform).Error; err != nil {
		return err
	}

	if err := seedPricesTx(ctx, tx, node, platform, now); err != nil {
		return err
	}
	return seedInventoryTx(ctx, tx, node, platform, now)
}

func seedPricesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, platform catalogdomain.Platform, now time.Time) error {
	prices := []catalogdomain.Price{
		{
			ID:             node.Generate(),
			PlatformID:     platform.ID,
			AmountRegular:  1000,
			AmountReseller: 850,
			DurationMonths: 1,
			WholeAccount:   toFlag(true),
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			ID:             node.Generate(),
			PlatformID:     platform.ID,
			AmountRegular:  400,
			AmountReseller: 320,
			DurationMonths: 1,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}
	if platform.AllocationStrategy == catalogdomain.StrategyDualTier {
		prices = append(prices, catalogdomain.Price{
			ID:             node.Generate(),
			PlatformID:     platform.ID,
			AmountRegular:  600,
			AmountReseller: 500,
			DurationMonths: 1,
			PlanTier:       catalogdomain.PlanTierSecond,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	for i := range prices {
		if err := tx.WithContext(ctx).Create(&prices[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedInventoryTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, platform catalogdomain.Platform, now time.Time) error {
	dualTier := platform.AllocationStrategy == catalogdomain.StrategyDualTier
	for i := 0; i < 3; i++ {
		account := inventorydomain.Account{
			ID:             node.Generate(),
			PlatformID:     platform.ID,
			Email:          fmt.Sprintf("%s-stock-%d@slotline.dev", platform.Code, i+1),
			SellableWhole:  toFlag(i == 0),
			SellableMember: toFlag(dualTier && i == 1),
			MotherAccount:  platform.MotherAccountModel,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := tx.WithContext(ctx).Create(&account).Error; err != nil {
			return err
		}
		if account.SellableWhole.Bool() || account.SellableMember.Bool() {
			continue
		}

		for slot := 1; slot <= 4; slot++ {
			profile := inventorydomain.Profile{
				ID:          node.Generate(),
				AccountID:   account.ID,
				HomeProfile: toFlag(slot == 1 && dualTier),
				SlotNumber:  slot,
				PIN:         fmt.Sprintf("%04d", slot*1111),
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := tx.WithContext(ctx).Create(&profile).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
