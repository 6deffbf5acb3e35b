package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/slotlinelabs/slotline/pkg/flexbool"
)

// AllocationStrategy selects the inventory branch used for a platform's
// non-whole-account prices. It replaces what the legacy storefront expressed
// as hard-coded platform id comparisons.
type AllocationStrategy string

const (
	// StrategyWholeAccount fulfills every price from dedicated accounts.
	StrategyWholeAccount AllocationStrategy = "whole_account"
	// StrategyDualTier tries home profiles first, then falls back to member
	// accounts, for prices carrying the second-plan tier label.
	StrategyDualTier AllocationStrategy = "dual_tier"
	// StrategyProfileDefault fulfills from non-home profile slots.
	StrategyProfileDefault AllocationStrategy = "profile_default"
)

// PlanTierSecond marks the bespoke second-plan prices that trigger the
// dual-tier branch on platforms configured with StrategyDualTier.
const PlanTierSecond = "second"

type Platform struct {
	ID                   snowflake.ID       `json:"id" gorm:"primaryKey"`
	Code                 string             `json:"code" gorm:"type:varchar(64);not null;uniqueIndex"`
	Name                 string             `json:"name" gorm:"type:varchar(128);not null"`
	ImmediateFulfillment flexbool.Bool      `json:"immediate_fulfillment" gorm:"not null;default:true"`
	MotherAccountModel   flexbool.Bool      `json:"mother_account_model" gorm:"not null;default:false"`
	AllocationStrategy   AllocationStrategy `json:"allocation_strategy" gorm:"type:varchar(32);not null;default:profile_default"`
	CreatedAt            time.Time          `json:"created_at" gorm:"not null"`
	UpdatedAt            time.Time          `json:"updated_at" gorm:"not null"`
}

func (Platform) TableName() string { return "platforms" }

// Price is a read-only catalog row. Amounts are cents in the store currency;
// the two tiers correspond to the storefront's regular and reseller buyers.
type Price struct {
	ID             snowflake.ID  `json:"id" gorm:"primaryKey"`
	PlatformID     snowflake.ID  `json:"platform_id" gorm:"not null;index"`
	AmountRegular  int64         `json:"amount_regular" gorm:"not null"`
	AmountReseller int64         `json:"amount_reseller" gorm:"not null"`
	DurationMonths int           `json:"duration_months" gorm:"not null;default:1"`
	WholeAccount   flexbool.Bool `json:"whole_account" gorm:"not null;default:false"`
	PlanTier       string        `json:"plan_tier" gorm:"type:varchar(32);not null;default:''"`
	Region         string        `json:"region" gorm:"type:varchar(32);not null;default:''"`
	SubAccount     flexbool.Bool `json:"sub_account" gorm:"not null;default:false"`
	CreatedAt      time.Time     `json:"created_at" gorm:"not null"`
	UpdatedAt      time.Time     `json:"updated_at" gorm:"not null"`
}

func (Price) TableName() string { return "prices" }

// AmountFor returns the unit amount for the buyer's audience tier.
func (p Price) AmountFor(reseller bool) int64 {
	if reseller && p.AmountReseller > 0 {
		return p.AmountReseller
	}
	return p.AmountRegular
}
