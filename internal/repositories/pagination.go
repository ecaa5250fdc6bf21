package repositories

// Default and maximum page sizes for list queries.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination selects one page of a list query.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize fills in defaults and clamps the page size.
func (p Pagination) Normalize() Pagination {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// Offset is the number of rows skipped before this page.
func (p Pagination) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Limit
}
