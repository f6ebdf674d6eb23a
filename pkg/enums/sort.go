package enums

import "fmt"

// SortOrder is the direction applied to listing sorts.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// IsValid reports whether the value is a known sort order.
func (s SortOrder) IsValid() bool {
	return s == SortAsc || s == SortDesc
}

// ParseSortOrder converts raw input into a SortOrder, defaulting to asc when empty.
func ParseSortOrder(value string) (SortOrder, error) {
	switch value {
	case "":
		return SortAsc, nil
	case string(SortAsc):
		return SortAsc, nil
	case string(SortDesc):
		return SortDesc, nil
	}
	return "", fmt.Errorf("invalid sort order %q", value)
}

// StoreSortField names the columns a store listing can be ordered by.
// The rating field sorts by the derived average, not a stored column.
type StoreSortField string

const (
	StoreSortName      StoreSortField = "name"
	StoreSortAddress   StoreSortField = "address"
	StoreSortRating    StoreSortField = "rating"
	StoreSortCreatedAt StoreSortField = "created_at"
)

var validStoreSortFields = []StoreSortField{
	StoreSortName,
	StoreSortAddress,
	StoreSortRating,
	StoreSortCreatedAt,
}

// IsValid reports whether the value is a known store sort field.
func (f StoreSortField) IsValid() bool {
	for _, candidate := range validStoreSortFields {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseStoreSortField converts raw input, defaulting to name when empty.
func ParseStoreSortField(value string) (StoreSortField, error) {
	if value == "" {
		return StoreSortName, nil
	}
	for _, candidate := range validStoreSortFields {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid store sort field %q", value)
}

// UserSortField names the columns a user listing can be ordered by.
type UserSortField string

const (
	UserSortName      UserSortField = "name"
	UserSortEmail     UserSortField = "email"
	UserSortRole      UserSortField = "role"
	UserSortCreatedAt UserSortField = "created_at"
)

var validUserSortFields = []UserSortField{
	UserSortName,
	UserSortEmail,
	UserSortRole,
	UserSortCreatedAt,
}

// IsValid reports whether the value is a known user sort field.
func (f UserSortField) IsValid() bool {
	for _, candidate := range validUserSortFields {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseUserSortField converts raw input, defaulting to name when empty.
func ParseUserSortField(value string) (UserSortField, error) {
	if value == "" {
		return UserSortName, nil
	}
	for _, candidate := range validUserSortFields {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user sort field %q", value)
}
