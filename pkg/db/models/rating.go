package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RatingPairConstraint is the name of the composite uniqueness constraint on
// ratings(user_id, store_id). The constraint is what makes concurrent
// submissions for the same pair safe; resubmission updates the row in place.
const RatingPairConstraint = "idx_ratings_user_store"

// Rating is a single user's 1-5 score for a store. At most one row exists per
// (user, store) pair; id and created_at survive resubmissions.
type Rating struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_ratings_user_store"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_ratings_user_store"`
	Rating    int       `gorm:"column:rating;not null;check:rating >= 1 AND rating <= 5"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	User  *User  `gorm:"foreignKey:UserID"`
	Store *Store `gorm:"foreignKey:StoreID"`
}

func (r *Rating) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
