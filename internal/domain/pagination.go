package domain

// Pagination limits for list queries.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// PageRequest holds cursor-based pagination parameters for list queries.
// Token must be a continuation token returned verbatim from a prior page,
// or empty for the first page.
type PageRequest struct {
	Limit int
	Token string
}

// ClampedLimit returns the request limit clamped to [1, MaxPageLimit],
// falling back to DefaultPageLimit when unset.
func (p PageRequest) ClampedLimit() int {
	if p.Limit <= 0 {
		return DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		return MaxPageLimit
	}
	return p.Limit
}

// Page is one slice of a list result. NextToken is opaque to callers; an
// empty NextToken means pagination is exhausted.
type Page[T any] struct {
	Items     []T
	NextToken string
}
