package ratings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeratehq/storerate-backend/pkg/db"
	"github.com/storeratehq/storerate-backend/pkg/db/models"
	"github.com/storeratehq/storerate-backend/pkg/pagination"
)

// Repository handles rating persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to rating operations.
func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// Upsert writes the user's score for a store. The first submission inserts a
// row; a resubmission updates the existing row in place, keeping its id and
// created_at. The composite uniqueness constraint arbitrates concurrent
// first submissions, so the losing insert falls through to the update path.
func (r *Repository) Upsert(ctx context.Context, userID, storeID uuid.UUID, value int) (*models.Rating, error) {
	rating := &models.Rating{
		UserID:  userID,
		StoreID: storeID,
		Rating:  value,
	}

	err := r.db.WithContext(ctx).Create(rating).Error
	if err == nil {
		return rating, nil
	}
	if !db.IsUniqueViolation(err, models.RatingPairConstraint) {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		Update("rating", value).Error; err != nil {
		return nil, err
	}

	return r.FindByPair(ctx, userID, storeID)
}

// FindByPair loads the rating for a (user, store) pair.
func (r *Repository) FindByPair(ctx context.Context, userID, storeID uuid.UUID) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		First(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

// AverageForStore computes the mean score over all ratings for a store.
// A store with no ratings averages to zero.
func (r *Repository) AverageForStore(ctx context.Context, storeID uuid.UUID) (float64, error) {
	var avg float64
	if err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("store_id = ?", storeID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error; err != nil {
		return 0, err
	}
	return avg, nil
}

// CountForStore returns the number of distinct raters for a store.
func (r *Repository) CountForStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("store_id = ?", storeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListForStore returns a page of ratings for a store with their raters,
// oldest submission first, plus the total row count.
func (r *Repository) ListForStore(ctx context.Context, storeID uuid.UUID, params pagination.Params) ([]models.Rating, int64, error) {
	params = params.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("store_id = ?", storeID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Rating
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Preload("User").
		Order("created_at ASC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}
