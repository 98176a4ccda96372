// Package pagination normalizes paging parameters and builds the filter and
// sort specification shared by every listing operation.
package pagination

// Parameter defaults and bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params holds normalized page-based paging parameters.
type Params struct {
	Page  int
	Limit int
}

// NewParams clamps raw page/limit query values into valid bounds.
func NewParams(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset returns the number of records to skip for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages returns the page count for a total record count, rounding up.
func (p Params) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	pages := total / int64(p.Limit)
	if total%int64(p.Limit) != 0 {
		pages++
	}
	return int(pages)
}

// Filter describes the listing restrictions applied by a query. Zero values
// mean "no restriction"; Category "all" is the no-category-filter sentinel.
type Filter struct {
	Published *bool
	Category  string
	Search    string
	AuthorID  uint
}

// HasCategory reports whether the filter restricts by category.
func (f Filter) HasCategory() bool {
	return f.Category != "" && f.Category != "all"
}

// Sort keys accepted from clients.
const (
	SortCreatedAt  = "createdAt"
	SortLikesCount = "likesCount"
	SortViews      = "views"
	SortTitle      = "title"
	SortTrending   = "trending"
)

// OrderClause translates a requested sort into a SQL ORDER BY expression.
// Trending is a fixed two-key tiebreak (likes then views, both descending)
// and ignores the requested order. Unknown keys fall back to newest first.
func OrderClause(sortBy, sortOrder string) string {
	dir := "DESC"
	if sortOrder == "asc" {
		dir = "ASC"
	}

	switch sortBy {
	case SortTrending:
		return "likes_count DESC, views DESC"
	case SortLikesCount:
		return "likes_count " + dir
	case SortViews:
		return "views " + dir
	case SortTitle:
		return "title " + dir
	case SortCreatedAt:
		return "created_at " + dir
	default:
		return "created_at DESC"
	}
}

// Query bundles everything a listing operation needs.
type Query struct {
	Params
	Filter
	SortBy    string
	SortOrder string
}
