package stores

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeratehq/storerate-backend/pkg/db/models"
	"github.com/storeratehq/storerate-backend/pkg/enums"
)

// StoreWithAggregates is a store row joined with its rating aggregates.
type StoreWithAggregates struct {
	ID            uuid.UUID `gorm:"column:id"`
	Name          string    `gorm:"column:name"`
	Email         *string   `gorm:"column:email"`
	Address       string    `gorm:"column:address"`
	OwnerID       uuid.UUID `gorm:"column:owner_id"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
	AverageRating float64   `gorm:"column:average_rating"`
	RatingCount   int64     `gorm:"column:rating_count"`
	OwnerName     *string   `gorm:"column:owner_name"`
	OwnerEmail    *string   `gorm:"column:owner_email"`
}

// Repository handles store persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to store operations.
func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// Create persists a new store row.
func (r *Repository) Create(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

// FindByID loads a store by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

const aggregateSelect = "stores.id, stores.name, stores.email, stores.address, stores.owner_id, stores.created_at, stores.updated_at, " +
	"COALESCE(AVG(ratings.rating), 0) AS average_rating, COUNT(ratings.id) AS rating_count"

// sortColumns maps the exposed sort fields to their ORDER BY expressions.
// Rating sorts on the derived aggregate, not a stored column.
var sortColumns = map[enums.StoreSortField]string{
	enums.StoreSortName:      "LOWER(stores.name)",
	enums.StoreSortAddress:   "LOWER(stores.address)",
	enums.StoreSortRating:    "average_rating",
	enums.StoreSortCreatedAt: "stores.created_at",
}

// List returns a page of stores with their aggregates, filtered and sorted
// per the query, plus the total number of matching stores. The owner view
// joins the owning user so admins can filter on the owner's email and see
// who the store belongs to.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]StoreWithAggregates, int64, error) {
	q.Page = q.Page.Normalize()

	filtered := func(tx *gorm.DB) *gorm.DB {
		if q.OwnerView {
			tx = tx.Joins("JOIN users ON users.id = stores.owner_id")
		}
		if term := strings.TrimSpace(q.Query); term != "" {
			pattern := "%" + strings.ToLower(term) + "%"
			if q.OwnerView {
				tx = tx.Where("LOWER(stores.name) LIKE ? OR LOWER(stores.address) LIKE ? OR LOWER(users.email) LIKE ?", pattern, pattern, pattern)
			} else {
				tx = tx.Where("LOWER(stores.name) LIKE ? OR LOWER(stores.address) LIKE ?", pattern, pattern)
			}
		}
		return tx
	}

	var total int64
	if err := filtered(r.db.WithContext(ctx).Model(&models.Store{})).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[q.SortField]
	if !ok {
		column = sortColumns[enums.StoreSortName]
	}
	direction := "ASC"
	if q.SortOrder == enums.SortDesc {
		direction = "DESC"
	}

	selectList := aggregateSelect
	group := "stores.id"
	if q.OwnerView {
		selectList += ", users.name AS owner_name, users.email AS owner_email"
		group = "stores.id, users.name, users.email"
	}

	var rows []StoreWithAggregates
	if err := filtered(r.db.WithContext(ctx).Model(&models.Store{})).
		Select(selectList).
		Joins("LEFT JOIN ratings ON ratings.store_id = stores.id").
		Group(group).
		Order(column + " " + direction).
		Offset(q.Page.Offset()).
		Limit(q.Page.Limit()).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// FindByOwner returns the owner's stores with their aggregates.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]StoreWithAggregates, error) {
	var rows []StoreWithAggregates
	if err := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Select(aggregateSelect).
		Joins("LEFT JOIN ratings ON ratings.store_id = stores.id").
		Where("stores.owner_id = ?", ownerID).
		Group("stores.id").
		Order("stores.created_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// RatingsByViewer returns the viewer's own scores for the given stores,
// keyed by store id.
func (r *Repository) RatingsByViewer(ctx context.Context, viewerID uuid.UUID, storeIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	if len(storeIDs) == 0 {
		return map[uuid.UUID]int{}, nil
	}

	var rows []models.Rating
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND store_id IN ?", viewerID, storeIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		out[row.StoreID] = row.Rating
	}
	return out, nil
}
