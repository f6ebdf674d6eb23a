package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeratehq/storerate-backend/pkg/config"
	"github.com/storeratehq/storerate-backend/pkg/db"
	"github.com/storeratehq/storerate-backend/pkg/db/models"
	"github.com/storeratehq/storerate-backend/pkg/enums"
	pkgerrors "github.com/storeratehq/storerate-backend/pkg/errors"
	"github.com/storeratehq/storerate-backend/pkg/pagination"
	"github.com/storeratehq/storerate-backend/pkg/security"
)

type usersRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	List(ctx context.Context, q ListQuery) ([]models.User, int64, error)
	OwnerAverages(ctx context.Context, ownerIDs []uuid.UUID) (map[uuid.UUID]float64, error)
	Counts(ctx context.Context) (CountsDTO, error)
}

// Service exposes user operations.
type Service interface {
	Create(ctx context.Context, input CreateUserInput) (*UserDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	List(ctx context.Context, q ListQuery) ([]UserDTO, pagination.Meta, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error
	Counts(ctx context.Context) (*CountsDTO, error)
}

type service struct {
	repo        usersRepository
	passwordCfg config.PasswordConfig
}

// NewService builds a user service with the provided repository.
func NewService(repo usersRepository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

// Create registers a user with an admin-chosen role.
func (s *service) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	role, err := enums.ParseRole(input.Role)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role").
			WithDetails(map[string]any{"field": "role"})
	}

	if err := security.ValidatePasswordComplexity(input.Password); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error()).
			WithDetails(map[string]any{"field": "password"})
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Address:      strings.TrimSpace(input.Address),
		Role:         role,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, models.UserEmailConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	dto := toUserDTO(*user)
	return &dto, nil
}

// Get loads a single user.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	dto := toUserDTO(*user)
	return &dto, nil
}

// List returns a filtered, sorted page of users. Store owners additionally
// carry the mean rating across their stores.
func (s *service) List(ctx context.Context, q ListQuery) ([]UserDTO, pagination.Meta, error) {
	q.Page = q.Page.Normalize()

	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	dtos := make([]UserDTO, 0, len(rows))
	ownerIDs := make([]uuid.UUID, 0)
	for _, row := range rows {
		dtos = append(dtos, toUserDTO(row))
		if row.Role == enums.RoleStoreOwner {
			ownerIDs = append(ownerIDs, row.ID)
		}
	}

	if len(ownerIDs) > 0 {
		averages, err := s.repo.OwnerAverages(ctx, ownerIDs)
		if err != nil {
			return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owner averages")
		}
		for i := range dtos {
			if dtos[i].Role != enums.RoleStoreOwner {
				continue
			}
			if avg, ok := averages[dtos[i].ID]; ok {
				v := avg
				dtos[i].AverageRating = &v
			}
		}
	}

	return dtos, pagination.MetaFor(q.Page, total), nil
}

// ChangePassword rotates the caller's credential after verifying the
// current one.
func (s *service) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(input.CurrentPassword, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	if err := security.ValidatePasswordComplexity(input.NewPassword); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, err.Error()).
			WithDetails(map[string]any{"field": "new_password"})
	}

	hash, err := security.HashPassword(input.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
	}
	return nil
}

// Counts returns the admin dashboard totals.
func (s *service) Counts(ctx context.Context) (*CountsDTO, error) {
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count entities")
	}
	return &counts, nil
}
