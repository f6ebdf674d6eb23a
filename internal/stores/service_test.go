package stores

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeratehq/storerate-backend/pkg/db/models"
	"github.com/storeratehq/storerate-backend/pkg/enums"
	pkgerrors "github.com/storeratehq/storerate-backend/pkg/errors"
	"github.com/storeratehq/storerate-backend/pkg/pagination"
)

type stubStoreRepo struct {
	created   *models.Store
	createErr error
	rows      []StoreWithAggregates
	total     int64
	mine      map[uuid.UUID]int
	listErr   error
}

func (s *stubStoreRepo) Create(ctx context.Context, store *models.Store) error {
	if s.createErr != nil {
		return s.createErr
	}
	store.ID = uuid.New()
	s.created = store
	return nil
}

func (s *stubStoreRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStoreRepo) List(ctx context.Context, q ListQuery) ([]StoreWithAggregates, int64, error) {
	return s.rows, s.total, s.listErr
}

func (s *stubStoreRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]StoreWithAggregates, error) {
	return s.rows, s.listErr
}

func (s *stubStoreRepo) RatingsByViewer(ctx context.Context, viewerID uuid.UUID, storeIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	return s.mine, nil
}

type stubOwnerFinder struct {
	user *models.User
	err  error
}

func (s stubOwnerFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

type stubRatingsLister struct {
	rows []models.Rating
}

func (s stubRatingsLister) ListForStore(ctx context.Context, storeID uuid.UUID, params pagination.Params) ([]models.Rating, int64, error) {
	return s.rows, int64(len(s.rows)), nil
}

func TestCreateRejectsMissingOwner(t *testing.T) {
	svc, err := NewService(&stubStoreRepo{}, stubOwnerFinder{err: gorm.ErrRecordNotFound}, stubRatingsLister{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Create(context.Background(), CreateStoreInput{
		Name:    "Corner Bakery",
		Address: "10 Oak Ave",
		OwnerID: uuid.NewString(),
	})
	if gotErr == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", gotErr)
	}
}

func TestCreateAcceptsAnyExistingOwner(t *testing.T) {
	// Owner role is a convention, not a creation-time rule.
	owner := &models.User{ID: uuid.New(), Role: enums.RoleNormalUser}
	repo := &stubStoreRepo{}
	svc, err := NewService(repo, stubOwnerFinder{user: owner}, stubRatingsLister{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Create(context.Background(), CreateStoreInput{
		Name:    "Corner Bakery",
		Address: "10 Oak Ave",
		OwnerID: owner.ID.String(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.OwnerID != owner.ID {
		t.Fatalf("expected owner %s got %s", owner.ID, dto.OwnerID)
	}
}

func TestCreateSuccess(t *testing.T) {
	owner := &models.User{ID: uuid.New(), Role: enums.RoleStoreOwner}
	repo := &stubStoreRepo{}
	svc, err := NewService(repo, stubOwnerFinder{user: owner}, stubRatingsLister{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Create(context.Background(), CreateStoreInput{
		Name:    "Corner Bakery",
		Address: "10 Oak Ave",
		OwnerID: owner.ID.String(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.OwnerID != owner.ID {
		t.Fatalf("expected owner %s got %s", owner.ID, dto.OwnerID)
	}
	if repo.created == nil || repo.created.Name != "Corner Bakery" {
		t.Fatal("expected store to be persisted")
	}
}

func TestListAttachesViewerScore(t *testing.T) {
	ratedID := uuid.New()
	unratedID := uuid.New()
	repo := &stubStoreRepo{
		rows: []StoreWithAggregates{
			{ID: ratedID, Name: "Rated", AverageRating: 4.5, RatingCount: 2},
			{ID: unratedID, Name: "Unrated"},
		},
		total: 2,
		mine:  map[uuid.UUID]int{ratedID: 4},
	}
	svc, err := NewService(repo, stubOwnerFinder{}, stubRatingsLister{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	viewer := uuid.New()
	dtos, meta, err := svc.List(context.Background(), &viewer, ListQuery{Page: pagination.Params{Page: 1, PageSize: 10}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if meta.Total != 2 {
		t.Fatalf("expected total 2 got %d", meta.Total)
	}
	if dtos[0].MyRating == nil || *dtos[0].MyRating != 4 {
		t.Fatalf("expected viewer score on first row, got %+v", dtos[0].MyRating)
	}
	if dtos[1].MyRating != nil {
		t.Fatal("expected no viewer score on unrated store")
	}
}

func TestListWithoutViewerOmitsScores(t *testing.T) {
	repo := &stubStoreRepo{
		rows:  []StoreWithAggregates{{ID: uuid.New(), Name: "Alpha"}},
		total: 1,
		mine:  map[uuid.UUID]int{},
	}
	svc, err := NewService(repo, stubOwnerFinder{}, stubRatingsLister{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dtos, _, err := svc.List(context.Background(), nil, ListQuery{Page: pagination.Params{Page: 1, PageSize: 10}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if dtos[0].MyRating != nil {
		t.Fatal("expected no viewer scope without a viewer")
	}
}

func TestOwnerDashboardCollectsRaters(t *testing.T) {
	storeID := uuid.New()
	rater := &models.User{ID: uuid.New(), Name: "Some Rater", Email: "rater@example.com"}
	repo := &stubStoreRepo{
		rows: []StoreWithAggregates{
			{ID: storeID, Name: "Alpha", AverageRating: 4, RatingCount: 1},
		},
	}
	lister := stubRatingsLister{
		rows: []models.Rating{
			{ID: uuid.New(), UserID: rater.ID, StoreID: storeID, Rating: 4, User: rater},
		},
	}
	svc, err := NewService(repo, stubOwnerFinder{}, lister)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dashboard, err := svc.OwnerDashboard(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(dashboard.Stores) != 1 {
		t.Fatalf("expected one store, got %d", len(dashboard.Stores))
	}
	entry := dashboard.Stores[0]
	if entry.AverageRating != 4 {
		t.Fatalf("expected average 4 got %v", entry.AverageRating)
	}
	if len(entry.Raters) != 1 || entry.Raters[0].Email != rater.Email {
		t.Fatalf("expected rater identity, got %+v", entry.Raters)
	}
}
