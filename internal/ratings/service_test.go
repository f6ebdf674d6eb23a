package ratings

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeratehq/storerate-backend/pkg/db/models"
	pkgerrors "github.com/storeratehq/storerate-backend/pkg/errors"
	"github.com/storeratehq/storerate-backend/pkg/pagination"
)

type stubRatingsRepo struct {
	upserted *models.Rating
	rows     []models.Rating
	total    int64
	avg      float64
	count    int64
	err      error
}

func (s *stubRatingsRepo) Upsert(ctx context.Context, userID, storeID uuid.UUID, value int) (*models.Rating, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.upserted = &models.Rating{
		ID:      uuid.New(),
		UserID:  userID,
		StoreID: storeID,
		Rating:  value,
	}
	return s.upserted, nil
}

func (s *stubRatingsRepo) FindByPair(ctx context.Context, userID, storeID uuid.UUID) (*models.Rating, error) {
	if s.upserted == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.upserted, nil
}

func (s *stubRatingsRepo) AverageForStore(ctx context.Context, storeID uuid.UUID) (float64, error) {
	return s.avg, s.err
}

func (s *stubRatingsRepo) CountForStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	return s.count, s.err
}

func (s *stubRatingsRepo) ListForStore(ctx context.Context, storeID uuid.UUID, params pagination.Params) ([]models.Rating, int64, error) {
	return s.rows, s.total, s.err
}

type stubStoreFinder struct {
	store *models.Store
	err   error
}

func (s stubStoreFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.store, nil
}

func TestNewServiceRequiresRepos(t *testing.T) {
	if _, err := NewService(nil, stubStoreFinder{}); err == nil {
		t.Fatal("expected error creating service without repo")
	}
	if _, err := NewService(&stubRatingsRepo{}, nil); err == nil {
		t.Fatal("expected error creating service without store repo")
	}
}

func TestSubmitRejectsOutOfRangeValue(t *testing.T) {
	svc, err := NewService(&stubRatingsRepo{}, stubStoreFinder{store: &models.Store{ID: uuid.New()}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	for _, value := range []int{0, 6, -1} {
		_, gotErr := svc.Submit(context.Background(), uuid.New(), uuid.New(), SubmitRatingInput{Value: value})
		if gotErr == nil {
			t.Fatalf("expected error for value %d", value)
		}
		if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for value %d, got %v", value, gotErr)
		}
	}
}

func TestSubmitUnknownStore(t *testing.T) {
	svc, err := NewService(&stubRatingsRepo{}, stubStoreFinder{err: gorm.ErrRecordNotFound})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Submit(context.Background(), uuid.New(), uuid.New(), SubmitRatingInput{Value: 3})
	if gotErr == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", gotErr)
	}
}

func TestSubmitSuccess(t *testing.T) {
	repo := &stubRatingsRepo{}
	svc, err := NewService(repo, stubStoreFinder{store: &models.Store{ID: uuid.New()}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	userID := uuid.New()
	storeID := uuid.New()
	dto, err := svc.Submit(context.Background(), userID, storeID, SubmitRatingInput{Value: 5})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if dto.Rating != 5 {
		t.Fatalf("expected rating 5 got %d", dto.Rating)
	}
	if dto.UserID != userID || dto.StoreID != storeID {
		t.Fatal("dto does not carry the submitted pair")
	}
	if repo.upserted == nil {
		t.Fatal("expected repo upsert to be called")
	}
}

func TestSubmitRepoFailureIsDependencyError(t *testing.T) {
	repo := &stubRatingsRepo{err: errors.New("boom")}
	svc, err := NewService(repo, stubStoreFinder{store: &models.Store{ID: uuid.New()}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Submit(context.Background(), uuid.New(), uuid.New(), SubmitRatingInput{Value: 3})
	if gotErr == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", gotErr)
	}
}

func TestSummaryForStore(t *testing.T) {
	repo := &stubRatingsRepo{avg: 4.5, count: 2}
	storeID := uuid.New()
	svc, err := NewService(repo, stubStoreFinder{store: &models.Store{ID: storeID}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	summary, err := svc.SummaryForStore(context.Background(), storeID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.AverageRating != 4.5 || summary.RatingCount != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestListForStoreMapsRaters(t *testing.T) {
	rater := &models.User{ID: uuid.New(), Name: "Some Rater", Email: "rater@example.com"}
	repo := &stubRatingsRepo{
		rows: []models.Rating{
			{ID: uuid.New(), UserID: rater.ID, Rating: 4, User: rater},
		},
		total: 1,
	}
	svc, err := NewService(repo, stubStoreFinder{store: &models.Store{ID: uuid.New()}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dtos, meta, err := svc.ListForStore(context.Background(), uuid.New(), pagination.Params{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if meta.Total != 1 {
		t.Fatalf("expected total 1 got %d", meta.Total)
	}
	if len(dtos) != 1 || dtos[0].User == nil || dtos[0].User.Email != rater.Email {
		t.Fatalf("expected rater identity on dto, got %+v", dtos)
	}
}
