package ratings

import (
	"time"

	"github.com/google/uuid"

	"github.com/storeratehq/storerate-backend/pkg/db/models"
)

// SubmitRatingInput carries a user's score for a store.
type SubmitRatingInput struct {
	Value int `json:"rating" validate:"required,min=1,max=5"`
}

// RaterDTO identifies the user behind a rating row.
type RaterDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// RatingDTO is the API shape of a single rating.
type RatingDTO struct {
	ID        uuid.UUID `json:"id"`
	StoreID   uuid.UUID `json:"store_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      *RaterDTO `json:"user,omitempty"`
}

// SummaryDTO carries the derived aggregates for one store.
type SummaryDTO struct {
	StoreID       uuid.UUID `json:"store_id"`
	AverageRating float64   `json:"average_rating"`
	RatingCount   int64     `json:"rating_count"`
}

func toRatingDTO(m models.Rating) RatingDTO {
	dto := RatingDTO{
		ID:        m.ID,
		StoreID:   m.StoreID,
		UserID:    m.UserID,
		Rating:    m.Rating,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.User != nil {
		dto.User = &RaterDTO{
			ID:    m.User.ID,
			Name:  m.User.Name,
			Email: m.User.Email,
		}
	}
	return dto
}
