package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/storeratehq/storerate-backend/pkg/db/models"
	"github.com/storeratehq/storerate-backend/pkg/enums"
	"github.com/storeratehq/storerate-backend/pkg/pagination"
)

// CreateUserInput carries the fields an admin supplies for a new user.
// Role is fixed at creation time; there is no later role change.
type CreateUserInput struct {
	Name     string `json:"name" validate:"required,min=20,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Address  string `json:"address" validate:"max=400"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// ChangePasswordInput carries a self-service password update.
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// ListQuery captures the filter, sort and page parameters for user listings.
type ListQuery struct {
	Query     string
	Role      *enums.Role
	SortField enums.UserSortField
	SortOrder enums.SortOrder
	Page      pagination.Params
}

// UserDTO is the API shape of a user. AverageRating is populated only for
// store owners and reflects the mean score across their stores' ratings.
type UserDTO struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Address       string     `json:"address"`
	Role          enums.Role `json:"role"`
	AverageRating *float64   `json:"average_rating,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CountsDTO is the admin dashboard's headline numbers.
type CountsDTO struct {
	Users   int64 `json:"total_users"`
	Stores  int64 `json:"total_stores"`
	Ratings int64 `json:"total_ratings"`
}

// FromModel converts a user model into its API shape.
func FromModel(m *models.User) *UserDTO {
	if m == nil {
		return nil
	}
	dto := toUserDTO(*m)
	return &dto
}

func toUserDTO(m models.User) UserDTO {
	return UserDTO{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Address:   m.Address,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}
