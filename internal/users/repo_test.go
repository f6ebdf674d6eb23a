package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storeratehq/storerate-backend/pkg/db"
	"github.com/storeratehq/storerate-backend/pkg/db/models"
	"github.com/storeratehq/storerate-backend/pkg/enums"
	"github.com/storeratehq/storerate-backend/pkg/pagination"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  address TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	stores := `
CREATE TABLE IF NOT EXISTS stores (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT,
  address TEXT NOT NULL DEFAULT '',
  owner_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	ratings := `
CREATE TABLE IF NOT EXISTS ratings (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  store_id TEXT NOT NULL,
  rating INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, store_id)
);`

	for _, stmt := range []string{users, stores, ratings} {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	for _, table := range []string{"ratings", "stores", "users"} {
		require.NoError(t, conn.Exec("DELETE FROM "+table).Error)
	}

	return conn
}

func seedUserRow(t *testing.T, conn *gorm.DB, name, email string, role enums.Role) *models.User {
	t.Helper()
	user := &models.User{
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: "x",
	}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func TestCreateEnforcesEmailUniqueness(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	first := &models.User{
		Name:         "First Longname Example Account",
		Email:        "dup@example.com",
		Role:         enums.RoleNormalUser,
		PasswordHash: "x",
	}
	require.NoError(t, repo.Create(ctx, first))

	second := &models.User{
		Name:         "Second Longname Example Acct",
		Email:        "dup@example.com",
		Role:         enums.RoleNormalUser,
		PasswordHash: "x",
	}
	err := repo.Create(ctx, second)
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, models.UserEmailConstraint))
}

func TestListFiltersByRoleAndQuery(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	seedUserRow(t, conn, "Normal Person Longname Acct", "normal@example.com", enums.RoleNormalUser)
	owner := seedUserRow(t, conn, "Owner Person Longname Acct", "Owner@Example.com", enums.RoleStoreOwner)
	seedUserRow(t, conn, "Admin Person Longname Acct", "admin@example.com", enums.RoleAdmin)

	role := enums.RoleStoreOwner
	rows, total, err := repo.List(ctx, ListQuery{
		Role:      &role,
		SortField: enums.UserSortName,
		Page:      pagination.Params{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, owner.ID, rows[0].ID)

	// substring query is case-insensitive across name and email
	rows, total, err = repo.List(ctx, ListQuery{
		Query:     "owner@example",
		SortField: enums.UserSortName,
		Page:      pagination.Params{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, owner.ID, rows[0].ID)
}

func TestListSortsByEmailDesc(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	seedUserRow(t, conn, "Person Aaa Longname Account", "a@example.com", enums.RoleNormalUser)
	seedUserRow(t, conn, "Person Bbb Longname Account", "b@example.com", enums.RoleNormalUser)

	rows, _, err := repo.List(ctx, ListQuery{
		SortField: enums.UserSortEmail,
		SortOrder: enums.SortDesc,
		Page:      pagination.Params{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "b@example.com", rows[0].Email)
}

func TestOwnerAverages(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	owner := seedUserRow(t, conn, "Owner Person Longname Acct", "owner@example.com", enums.RoleStoreOwner)
	idle := seedUserRow(t, conn, "Idle Owner Longname Acct", "idle@example.com", enums.RoleStoreOwner)

	store := &models.Store{Name: "Alpha", Address: "1 A St", OwnerID: owner.ID}
	require.NoError(t, conn.Create(store).Error)

	for _, score := range []int{3, 5} {
		rater := seedUserRow(t, conn, "Rater Person Longname Acct", uuid.NewString()+"@example.com", enums.RoleNormalUser)
		require.NoError(t, conn.Create(&models.Rating{UserID: rater.ID, StoreID: store.ID, Rating: score}).Error)
	}

	averages, err := repo.OwnerAverages(ctx, []uuid.UUID{owner.ID, idle.ID})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, averages[owner.ID], 0.001)
	_, hasIdle := averages[idle.ID]
	assert.False(t, hasIdle, "owner without stores has no aggregate row")
}

func TestCounts(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	owner := seedUserRow(t, conn, "Owner Person Longname Acct", "owner@example.com", enums.RoleStoreOwner)
	rater := seedUserRow(t, conn, "Rater Person Longname Acct", "rater@example.com", enums.RoleNormalUser)
	store := &models.Store{Name: "Alpha", Address: "1 A St", OwnerID: owner.ID}
	require.NoError(t, conn.Create(store).Error)
	require.NoError(t, conn.Create(&models.Rating{UserID: rater.ID, StoreID: store.ID, Rating: 5}).Error)

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Users)
	assert.Equal(t, int64(1), counts.Stores)
	assert.Equal(t, int64(1), counts.Ratings)
}

func TestUpdatePasswordHash(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := seedUserRow(t, conn, "Person Aaa Longname Account", "a@example.com", enums.RoleNormalUser)
	require.NoError(t, repo.UpdatePasswordHash(ctx, user.ID, "new-hash"))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", reloaded.PasswordHash)
}
