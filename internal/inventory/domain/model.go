package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/slotlinelabs/slotline/pkg/flexbool"
)

// Account is a shared service account held in inventory. The capability
// flags say how it may be sold: as a whole account, as a member seat under
// someone else's plan, or as a mother account whose profiles are sold
// individually. An account with none of the sellable flags set is designated
// for per-profile sale.
type Account struct {
	ID             snowflake.ID  `json:"id" gorm:"primaryKey"`
	PlatformID     snowflake.ID  `json:"platform_id" gorm:"not null;index"`
	Email          string        `json:"email" gorm:"type:varchar(255);not null"`
	Occupied       flexbool.Bool `json:"occupied" gorm:"not null;default:false;index"`
	Inactive       flexbool.Bool `json:"inactive" gorm:"not null;default:false"`
	SellableWhole  flexbool.Bool `json:"sellable_whole" gorm:"not null;default:false"`
	SellableMember flexbool.Bool `json:"sellable_member" gorm:"not null;default:false"`
	MotherAccount  flexbool.Bool `json:"mother_account" gorm:"not null;default:false"`
	CreatedAt      time.Time     `json:"created_at" gorm:"not null"`
	UpdatedAt      time.Time     `json:"updated_at" gorm:"not null"`
}

func (Account) TableName() string { return "accounts" }

// ProfileSale reports whether the account's slots are sold per profile.
func (a Account) ProfileSale() bool {
	return !a.SellableWhole.Bool() && !a.SellableMember.Bool()
}

// Profile is one slot under an account. The account owns it; the back
// reference exists for lookup only.
type Profile struct {
	ID          snowflake.ID  `json:"id" gorm:"primaryKey"`
	AccountID   snowflake.ID  `json:"account_id" gorm:"not null;index"`
	Occupied    flexbool.Bool `json:"occupied" gorm:"not null;default:false;index"`
	HomeProfile flexbool.Bool `json:"home_profile" gorm:"not null;default:false"`
	SlotNumber  int           `json:"slot_number" gorm:"not null;default:1"`
	PIN         string        `json:"pin" gorm:"type:varchar(16);not null;default:''"`
	CreatedAt   time.Time     `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time     `json:"updated_at" gorm:"not null"`
}

func (Profile) TableName() string { return "profiles" }
