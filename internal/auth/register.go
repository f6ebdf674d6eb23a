package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/storeratehq/storerate-backend/internal/users"
	"github.com/storeratehq/storerate-backend/pkg/config"
	"github.com/storeratehq/storerate-backend/pkg/db"
	"github.com/storeratehq/storerate-backend/pkg/db/models"
	"github.com/storeratehq/storerate-backend/pkg/enums"
	pkgerrors "github.com/storeratehq/storerate-backend/pkg/errors"
	"github.com/storeratehq/storerate-backend/pkg/security"
)

const (
	nameMinLen    = 20
	nameMaxLen    = 60
	addressMaxLen = 400
)

// RegisterRequest contains the payload for self-service signup. Signup
// always produces a normal user; other roles are created by admins.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Address  string `json:"address"`
	Password string `json:"password" validate:"required"`
}

// RegisterService handles the signup transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerUserRepo interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	CreateWithTx(tx *gorm.DB, user *models.User) error
}

// RegisterServiceParams packages the dependencies for the signup flow.
type RegisterServiceParams struct {
	DB             txRunner
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          txRunner
	passwordCfg config.PasswordConfig
	repoFor     func(tx *gorm.DB) registerUserRepo
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
		repoFor: func(tx *gorm.DB) registerUserRepo {
			return users.NewRepository(tx)
		},
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	name := strings.TrimSpace(req.Name)
	if len(name) < nameMinLen || len(name) > nameMaxLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must be between 20 and 60 characters").
			WithDetails(map[string]any{"field": "name", "min": nameMinLen, "max": nameMaxLen})
	}

	address := strings.TrimSpace(req.Address)
	if len(address) > addressMaxLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address must be at most 400 characters").
			WithDetails(map[string]any{"field": "address", "max": addressMaxLen})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	if err := security.ValidatePasswordComplexity(req.Password); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error()).
			WithDetails(map[string]any{"field": "password"})
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *models.User
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.repoFor(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user := &models.User{
			Name:         name,
			Email:        email,
			Address:      address,
			Role:         enums.RoleNormalUser,
			PasswordHash: passwordHash,
		}
		if err := userRepo.CreateWithTx(tx, user); err != nil {
			if db.IsUniqueViolation(err, models.UserEmailConstraint) {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return users.FromModel(created), nil
}
