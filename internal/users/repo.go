package users

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeratehq/storerate-backend/pkg/db/models"
	"github.com/storeratehq/storerate-backend/pkg/enums"
)

// Repository handles user persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to user operations.
func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// Create persists a new user row. Email uniqueness is enforced by the
// storage constraint; callers inspect the returned error for violations.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// CreateWithTx persists the user inside the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, user *models.User) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Create(user).Error
}

// FindByID loads a user by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail loads a user by exact email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePasswordHash replaces the stored credential for a user.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

var sortColumns = map[enums.UserSortField]string{
	enums.UserSortName:      "LOWER(name)",
	enums.UserSortEmail:     "LOWER(email)",
	enums.UserSortRole:      "role",
	enums.UserSortCreatedAt: "created_at",
}

// List returns a filtered, sorted page of users plus the total match count.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.User, int64, error) {
	q.Page = q.Page.Normalize()

	filtered := func(tx *gorm.DB) *gorm.DB {
		if term := strings.TrimSpace(q.Query); term != "" {
			pattern := "%" + strings.ToLower(term) + "%"
			tx = tx.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(address) LIKE ?", pattern, pattern, pattern)
		}
		if q.Role != nil {
			tx = tx.Where("role = ?", string(*q.Role))
		}
		return tx
	}

	var total int64
	if err := filtered(r.db.WithContext(ctx).Model(&models.User{})).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[q.SortField]
	if !ok {
		column = sortColumns[enums.UserSortName]
	}
	direction := "ASC"
	if q.SortOrder == enums.SortDesc {
		direction = "DESC"
	}

	var rows []models.User
	if err := filtered(r.db.WithContext(ctx).Model(&models.User{})).
		Order(column + " " + direction).
		Offset(q.Page.Offset()).
		Limit(q.Page.Limit()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// OwnerAverages returns the mean rating across each owner's stores,
// keyed by owner id. Owners whose stores have no ratings map to zero.
func (r *Repository) OwnerAverages(ctx context.Context, ownerIDs []uuid.UUID) (map[uuid.UUID]float64, error) {
	if len(ownerIDs) == 0 {
		return map[uuid.UUID]float64{}, nil
	}

	type ownerAvg struct {
		OwnerID       uuid.UUID `gorm:"column:owner_id"`
		AverageRating float64   `gorm:"column:average_rating"`
	}

	var rows []ownerAvg
	if err := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Select("stores.owner_id, COALESCE(AVG(ratings.rating), 0) AS average_rating").
		Joins("LEFT JOIN ratings ON ratings.store_id = stores.id").
		Where("stores.owner_id IN ?", ownerIDs).
		Group("stores.owner_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]float64, len(rows))
	for _, row := range rows {
		out[row.OwnerID] = row.AverageRating
	}
	return out, nil
}

// Counts returns the platform-wide totals for the admin dashboard.
func (r *Repository) Counts(ctx context.Context) (CountsDTO, error) {
	var counts CountsDTO
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&counts.Users).Error; err != nil {
		return CountsDTO{}, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Store{}).Count(&counts.Stores).Error; err != nil {
		return CountsDTO{}, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Rating{}).Count(&counts.Ratings).Error; err != nil {
		return CountsDTO{}, err
	}
	return counts, nil
}
