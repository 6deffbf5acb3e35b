package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	inventorydomain "github.com/slotlinelabs/slotline/internal/inventory/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&inventorydomain.Account{}, &inventorydomain.Profile{}))
	return db
}

func TestClaimAccount_SecondClaimConflicts(t *testing.T) {
	db := openDB(t)
	node, _ := snowflake.NewNode(1)
	ctx := context.Background()
	repo := Provide()

	now := time.Now().UTC()
	acc := inventorydomain.Account{
		ID:            node.Generate(),
		PlatformID:    node.Generate(),
		Email:         "claim@test.dev",
		SellableWhole: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, db.Create(&acc).Error)

	require.NoError(t, repo.ClaimAccount(ctx, db, acc.ID))

	// The losing side of the race sees zero rows affected.
	err := repo.ClaimAccount(ctx, db, acc.ID)
	assert.True(t, errors.Is(err, inventorydomain.ErrStorageConflict))

	var reloaded inventorydomain.Account
	require.NoError(t, db.First(&reloaded, "id = ?", acc.ID).Error)
	assert.True(t, reloaded.Occupied.Bool())
}

func TestClaimAccount_InactiveNeverClaims(t *testing.T) {
	db := openDB(t)
	node, _ := snowflake.NewNode(1)
	ctx := context.Background()
	repo := Provide()

	now := time.Now().UTC()
	acc := inventorydomain.Account{
		ID:         node.Generate(),
		PlatformID: node.Generate(),
		Email:      "dead@test.dev",
		Inactive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, db.Create(&acc).Error)

	err := repo.ClaimAccount(ctx, db, acc.ID)
	assert.True(t, errors.Is(err, inventorydomain.ErrStorageConflict))
}

func TestClaimProfile_SecondClaimConflicts(t *testing.T) {
	db := openDB(t)
	node, _ := snowflake.NewNode(1)
	ctx := context.Background()
	repo := Provide()

	now := time.Now().UTC()
	prof := inventorydomain.Profile{
		ID:         node.Generate(),
		AccountID:  node.Generate(),
		SlotNumber: 1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, db.Create(&prof).Error)

	require.NoError(t, repo.ClaimProfile(ctx, db, prof.ID))
	err := repo.ClaimProfile(ctx, db, prof.ID)
	assert.True(t, errors.Is(err, inventorydomain.ErrStorageConflict))
}

func TestListWholeAccountCandidates_FiltersAndOrders(t *testing.T) {
	db := openDB(t)
	node, _ := snowflake.NewNode(1)
	ctx := context.Background()
	repo := Provide()

	now := time.Now().UTC()
	platformID := node.Generate()

	eligible := inventorydomain.Account{
		ID: node.Generate(), PlatformID: platformID, Email: "a@test.dev",
		SellableWhole: true, CreatedAt: now, UpdatedAt: now,
	}
	occupied := inventorydomain.Account{
		ID: node.Generate(), PlatformID: platformID, Email: "b@test.dev",
		SellableWhole: true, Occupied: true, CreatedAt: now, UpdatedAt: now,
	}
	inactive := inventorydomain.Account{
		ID: node.Generate(), PlatformID: platformID, Email: "c@test.dev",
		SellableWhole: true, Inactive: true, CreatedAt: now, UpdatedAt: now,
	}
	otherPlatform := inventorydomain.Account{
		ID: node.Generate(), PlatformID: node.Generate(), Email: "d@test.dev",
		SellableWhole: true, CreatedAt: now, UpdatedAt: now,
	}
	for _, acc := range []inventorydomain.Account{eligible, occupied, inactive, otherPlatform} {
		require.NoError(t, db.Create(&acc).Error)
	}

	got, err := repo.ListWholeAccountCandidates(ctx, db, platformID, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, eligible.ID, got[0].ID)
}
