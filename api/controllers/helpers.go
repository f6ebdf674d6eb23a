package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/storeratehq/storerate-backend/api/middleware"
	"github.com/storeratehq/storerate-backend/api/validators"
	"github.com/storeratehq/storerate-backend/pkg/enums"
	pkgerrors "github.com/storeratehq/storerate-backend/pkg/errors"
	"github.com/storeratehq/storerate-backend/pkg/pagination"
)

// actorID extracts the authenticated caller's UUID from the request context.
func actorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

// pageParams reads page and page_size from the query string.
func pageParams(r *http.Request, defaultSize int) (pagination.Params, error) {
	if defaultSize <= 0 {
		defaultSize = pagination.DefaultPageSize
	}
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
	if err != nil {
		return pagination.Params{}, err
	}
	size, err := validators.ParseQueryInt(r, "page_size", defaultSize, 1, pagination.MaxPageSize)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Page: page, PageSize: size}, nil
}

// sortOrderParam reads the order query parameter.
func sortOrderParam(r *http.Request) (enums.SortOrder, error) {
	order, err := enums.ParseSortOrder(validators.QueryString(r, "order"))
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid sort order").
			WithDetails(map[string]any{"field": "order"})
	}
	return order, nil
}

// searchTermMaxLen caps free-text filter terms before they reach a LIKE clause.
const searchTermMaxLen = 200

// pagedResponse is the envelope payload for paginated listings.
type pagedResponse struct {
	Items any             `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}
