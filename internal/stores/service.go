package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeratehq/storerate-backend/pkg/db/models"
	pkgerrors "github.com/storeratehq/storerate-backend/pkg/errors"
	"github.com/storeratehq/storerate-backend/pkg/pagination"
)

type storeRepository interface {
	Create(ctx context.Context, store *models.Store) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	List(ctx context.Context, q ListQuery) ([]StoreWithAggregates, int64, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]StoreWithAggregates, error)
	RatingsByViewer(ctx context.Context, viewerID uuid.UUID, storeIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

type ownerFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type storeRatingsLister interface {
	ListForStore(ctx context.Context, storeID uuid.UUID, params pagination.Params) ([]models.Rating, int64, error)
}

// Service exposes store operations.
type Service interface {
	Create(ctx context.Context, input CreateStoreInput) (*StoreDTO, error)
	List(ctx context.Context, viewerID *uuid.UUID, q ListQuery) ([]StoreDTO, pagination.Meta, error)
	OwnerDashboard(ctx context.Context, ownerID uuid.UUID) (*OwnerDashboardDTO, error)
}

type service struct {
	repo    storeRepository
	users   ownerFinder
	ratings storeRatingsLister
}

// NewService builds a store service with the provided repositories.
func NewService(repo storeRepository, users ownerFinder, ratings storeRatingsLister) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if ratings == nil {
		return nil, fmt.Errorf("ratings repository required")
	}
	return &service{repo: repo, users: users, ratings: ratings}, nil
}

// Create registers a new store under an existing store owner.
func (s *service) Create(ctx context.Context, input CreateStoreInput) (*StoreDTO, error) {
	ownerID, err := uuid.Parse(input.OwnerID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner_id must be a valid uuid")
	}

	// The owner must exist; its role is conventionally store_owner but is
	// not checked here.
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owner")
	}

	store := &models.Store{
		Name:    input.Name,
		Email:   input.Email,
		Address: input.Address,
		OwnerID: ownerID,
	}
	if err := s.repo.Create(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}

	return &StoreDTO{
		ID:        store.ID,
		Name:      store.Name,
		Email:     store.Email,
		Address:   store.Address,
		OwnerID:   store.OwnerID,
		CreatedAt: store.CreatedAt,
	}, nil
}

// List returns a filtered, sorted page of stores with their aggregates.
// When a viewer is supplied, each row also carries the viewer's own score.
func (s *service) List(ctx context.Context, viewerID *uuid.UUID, q ListQuery) ([]StoreDTO, pagination.Meta, error) {
	q.Page = q.Page.Normalize()

	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}

	dtos := make([]StoreDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toStoreDTO(row))
	}

	if viewerID != nil && len(dtos) > 0 {
		ids := make([]uuid.UUID, 0, len(dtos))
		for _, dto := range dtos {
			ids = append(ids, dto.ID)
		}
		mine, err := s.repo.RatingsByViewer(ctx, *viewerID, ids)
		if err != nil {
			return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load viewer ratings")
		}
		for i := range dtos {
			if value, ok := mine[dtos[i].ID]; ok {
				v := value
				dtos[i].MyRating = &v
			}
		}
	}

	return dtos, pagination.MetaFor(q.Page, total), nil
}

// OwnerDashboard returns every store the owner controls, each with its
// aggregates and the identities of the users who rated it.
func (s *service) OwnerDashboard(ctx context.Context, ownerID uuid.UUID) (*OwnerDashboardDTO, error) {
	rows, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owned stores")
	}

	dashboard := &OwnerDashboardDTO{Stores: make([]DashboardStoreDTO, 0, len(rows))}
	for _, row := range rows {
		entry := DashboardStoreDTO{
			ID:            row.ID,
			Name:          row.Name,
			Address:       row.Address,
			AverageRating: row.AverageRating,
			RatingCount:   row.RatingCount,
			Raters:        []DashboardRaterDTO{},
		}

		page := pagination.Params{Page: 1, PageSize: pagination.MaxPageSize}
		for {
			ratings, total, err := s.ratings.ListForStore(ctx, row.ID, page)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store raters")
			}
			for _, rating := range ratings {
				rater := DashboardRaterDTO{
					UserID:      rating.UserID,
					Rating:      rating.Rating,
					SubmittedAt: rating.CreatedAt,
				}
				if rating.User != nil {
					rater.Name = rating.User.Name
					rater.Email = rating.User.Email
				}
				entry.Raters = append(entry.Raters, rater)
			}
			if int64(len(entry.Raters)) >= total || len(ratings) == 0 {
				break
			}
			page.Page++
		}

		dashboard.Stores = append(dashboard.Stores, entry)
	}

	return dashboard, nil
}
