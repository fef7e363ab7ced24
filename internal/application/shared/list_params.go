package shared

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// DefaultListLimit is the page size used when a list request sets no limit
const DefaultListLimit = 50

// MaxListLimit caps the page size a client may request
const MaxListLimit = 1000

// ListParams are the query parameters shared by every list endpoint.
// Order takes a field name; a leading "-" sorts descending.
type ListParams struct {
	Q      string `form:"q" binding:"max=200"`
	Offset int    `form:"offset" binding:"min=0"`
	Limit  int    `form:"limit" binding:"min=0,max=1000"`
	Order  string `form:"order" binding:"max=64"`
}

// ToFilter converts the parameters into a repository filter
func (p ListParams) ToFilter() shared.Filter {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}

	f := shared.Filter{
		Skip:     offset,
		PageSize: limit,
		Search:   strings.TrimSpace(p.Q),
		Filters:  make(map[string]any),
	}
	if order := strings.TrimSpace(p.Order); order != "" {
		f.OrderDir = "asc"
		if strings.HasPrefix(order, "-") {
			f.OrderDir = "desc"
			order = order[1:]
		}
		f.OrderBy = order
	}
	return f
}

// EffectiveLimit returns the page size the parameters resolve to
func (p ListParams) EffectiveLimit() int {
	return p.ToFilter().PageSize
}

// DeleteResponse is returned by delete operations
type DeleteResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// NewDeleteResponse builds the delete confirmation for an object type
func NewDeleteResponse(id, object string) *DeleteResponse {
	return &DeleteResponse{ID: id, Object: object, Deleted: true}
}
