package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/storeratehq/storerate-backend/pkg/enums"
	"github.com/storeratehq/storerate-backend/pkg/pagination"
)

// CreateStoreInput carries the fields an admin supplies for a new store.
type CreateStoreInput struct {
	Name    string  `json:"name" validate:"required,min=1,max=60"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Address string  `json:"address" validate:"required,max=400"`
	OwnerID string  `json:"owner_id" validate:"required,uuid"`
}

// ListQuery captures the filter, sort and page parameters for store listings.
// OwnerView widens the filter to the owner's email and resolves the owner on
// each row; it is set only for the admin listing.
type ListQuery struct {
	Query     string
	SortField enums.StoreSortField
	SortOrder enums.SortOrder
	OwnerView bool
	Page      pagination.Params
}

// StoreDTO is the API shape of a store with its derived aggregates.
// MyRating is present only for listings scoped to an authenticated rater.
type StoreDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         *string   `json:"email,omitempty"`
	Address       string    `json:"address"`
	OwnerID       uuid.UUID `json:"owner_id"`
	AverageRating float64   `json:"average_rating"`
	RatingCount   int64     `json:"rating_count"`
	MyRating      *int      `json:"my_rating,omitempty"`
	Owner         *OwnerDTO `json:"owner,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// OwnerDTO identifies the store's owner on admin listings.
type OwnerDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// DashboardRaterDTO is one rater row on the owner dashboard.
type DashboardRaterDTO struct {
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Rating      int       `json:"rating"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// DashboardStoreDTO is one owned store with its raters.
type DashboardStoreDTO struct {
	ID            uuid.UUID           `json:"id"`
	Name          string              `json:"name"`
	Address       string              `json:"address"`
	AverageRating float64             `json:"average_rating"`
	RatingCount   int64               `json:"rating_count"`
	Raters        []DashboardRaterDTO `json:"raters"`
}

// OwnerDashboardDTO is the store owner's view over everything they own.
type OwnerDashboardDTO struct {
	Stores []DashboardStoreDTO `json:"stores"`
}

func toStoreDTO(row StoreWithAggregates) StoreDTO {
	dto := StoreDTO{
		ID:            row.ID,
		Name:          row.Name,
		Email:         row.Email,
		Address:       row.Address,
		OwnerID:       row.OwnerID,
		AverageRating: row.AverageRating,
		RatingCount:   row.RatingCount,
		CreatedAt:     row.CreatedAt,
	}
	if row.OwnerName != nil || row.OwnerEmail != nil {
		owner := &OwnerDTO{ID: row.OwnerID}
		if row.OwnerName != nil {
			owner.Name = *row.OwnerName
		}
		if row.OwnerEmail != nil {
			owner.Email = *row.OwnerEmail
		}
		dto.Owner = owner
	}
	return dto
}
