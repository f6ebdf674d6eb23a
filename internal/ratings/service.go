package ratings

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

type ratingsRepository interface {
	Upsert(ctx context.Context, userID, storeID uuid.UUID, value int) (*models.Rating, error)
	FindByPair(ctx context.Context, userID, storeID uuid.UUID) (*models.Rating, error)
	AverageForStore(ctx context.Context, storeID uuid.UUID) (float64, error)
	CountForStore(ctx context.Context, storeID uuid.UUID) (int64, error)
	ListForStore(ctx context.Context, storeID uuid.UUID, params pagination.Params) ([]models.Rating, int64, error)
}

type storeFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// Service exposes rating operations.
type Service interface {
	Submit(ctx context.Context, userID, storeID uuid.UUID, input SubmitRatingInput) (*RatingDTO, error)
	SummaryForStore(ctx context.Context, storeID uuid.UUID) (*SummaryDTO, error)
	ListForStore(ctx context.Context, storeID uuid.UUID, params pagination.Params) ([]RatingDTO, pagination.Meta, error)
}

type service struct {
	repo   ratingsRepository
	stores storeFinder
}

// NewService builds a rating service with the provided repositories.
func NewService(repo ratingsRepository, stores storeFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ratings repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo, stores: stores}, nil
}

// Submit records the caller's score for a store. Resubmitting replaces the
// previous score; the response does not distinguish the two cases.
func (s *service) Submit(ctx context.Context, userID, storeID uuid.UUID, input SubmitRatingInput) (*RatingDTO, error) {
	if input.Value < 1 || input.Value > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5").
			WithDetails(map[string]any{"field": "rating", "min": 1, "max": 5})
	}

	if _, err := s.stores.FindByID(ctx, storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	rating, err := s.repo.Upsert(ctx, userID, storeID, input.Value)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save rating")
	}

	dto := toRatingDTO(*rating)
	return &dto, nil
}

// SummaryForStore returns the derived average and rater count for a store.
func (s *service) SummaryForStore(ctx context.Context, storeID uuid.UUID) (*SummaryDTO, error) {
	if _, err := s.stores.FindByID(ctx, storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	avg, err := s.repo.AverageForStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "average ratings")
	}
	count, err := s.repo.CountForStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count ratings")
	}

	return &SummaryDTO{
		StoreID:       storeID,
		AverageRating: avg,
		RatingCount:   count,
	}, nil
}

// ListForStore returns a page of the store's ratings with rater identities.
func (s *service) ListForStore(ctx context.Context, storeID uuid.UUID, params pagination.Params) ([]RatingDTO, pagination.Meta, error) {
	if _, err := s.stores.FindByID(ctx, storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	params = params.Normalize()
	rows, total, err := s.repo.ListForStore(ctx, storeID, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ratings")
	}

	dtos := make([]RatingDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toRatingDTO(row))
	}

	return dtos, pagination.MetaFor(params, total), nil
}
