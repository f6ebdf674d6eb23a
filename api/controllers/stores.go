package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/storeratehq/storerate-backend/api/responses"
	"github.com/storeratehq/storerate-backend/api/validators"
	"github.com/storeratehq/storerate-backend/internal/stores"
	"github.com/storeratehq/storerate-backend/pkg/config"
	"github.com/storeratehq/storerate-backend/pkg/enums"
	pkgerrors "github.com/storeratehq/storerate-backend/pkg/errors"
	"github.com/storeratehq/storerate-backend/pkg/logger"
)

// CreateStore registers a new store under an existing owner. Admin only;
// the route group enforces the role.
func CreateStore(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		var req stores.CreateStoreInput
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.Create(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, store)
	}
}

func storeListQuery(r *http.Request, listingCfg config.ListingConfig) (stores.ListQuery, error) {
	page, err := pageParams(r, listingCfg.PageSize)
	if err != nil {
		return stores.ListQuery{}, err
	}

	sortField, err := enums.ParseStoreSortField(validators.QueryString(r, "sort"))
	if err != nil {
		return stores.ListQuery{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort field").
			WithDetails(map[string]any{"field": "sort"})
	}

	order, err := sortOrderParam(r)
	if err != nil {
		return stores.ListQuery{}, err
	}

	return stores.ListQuery{
		Query:     validators.SanitizeString(r.URL.Query().Get("q"), searchTermMaxLen),
		SortField: sortField,
		SortOrder: order,
		Page:      page,
	}, nil
}

// ListStores returns the consumer store listing. Each row includes the
// aggregates and the caller's own score where one exists.
func ListStores(svc stores.Service, listingCfg config.ListingConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		q, err := storeListQuery(r, listingCfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, meta, err := svc.List(r.Context(), &uid, q)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pagedResponse{Items: items, Meta: meta})
	}
}

// AdminListStores returns the admin store listing: no viewer scoping, the
// owner resolved on each row, and the filter widened to the owner's email.
func AdminListStores(svc stores.Service, listingCfg config.ListingConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		q, err := storeListQuery(r, listingCfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		q.OwnerView = true

		items, meta, err := svc.List(r.Context(), (*uuid.UUID)(nil), q)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pagedResponse{Items: items, Meta: meta})
	}
}

// OwnerDashboard returns the caller's stores with their raters and averages.
func OwnerDashboard(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dashboard, err := svc.OwnerDashboard(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dashboard)
	}
}
