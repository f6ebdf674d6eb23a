package pagination

const (
	// DefaultPageSize is the fixed listing page size when config is silent.
	DefaultPageSize = 10
	// MaxPageSize caps how many rows any listing query can request.
	MaxPageSize = 100
)

// Params holds 1-indexed page inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Normalize enforces the 1-indexed page and the configured page size bounds.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Limit returns the normalized page size.
func (p Params) Limit() int {
	return p.Normalize().PageSize
}

// Meta describes a page of results for the pagination UI.
type Meta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

// MetaFor builds the response metadata for the given params and match count.
func MetaFor(p Params, total int64) Meta {
	n := p.Normalize()
	return Meta{Page: n.Page, PageSize: n.PageSize, Total: total}
}
