package helpers

import (
	"net/http"
	"strconv"

	"eventdesk/internal/domain"
)

// ParsePageRequest reads limit and next_token from the request query string
// and returns domain.PageRequest. Invalid or missing limits fall back to the
// repository default; the token is passed through opaquely and validated at
// the repository boundary.
func ParsePageRequest(r *http.Request) domain.PageRequest {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			limit = v
			if limit > domain.MaxPageLimit {
				limit = domain.MaxPageLimit
			}
		}
	}
	return domain.PageRequest{
		Limit: limit,
		Token: r.URL.Query().Get("next_token"),
	}
}

// ListResponse is the payload shape for paginated list endpoints.
// NextToken is present only when another page exists.
// swagger:model ListResponse
type ListResponse struct {
	Items     any    `json:"items"`
	NextToken string `json:"next_token,omitempty"`
}
