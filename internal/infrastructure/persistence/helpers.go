package persistence

import (
	"errors"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM sentinel errors onto domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	default:
		return err
	}
}

// paginate applies the filter's limit and offset. A non-positive page size
// means no limit.
func paginate(q *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.PageSize > 0 {
		q = q.Limit(filter.PageSize)
	}
	if offset := filter.Offset(); offset > 0 {
		q = q.Offset(offset)
	}
	return q
}

// likePattern builds a case-insensitive contains pattern with LIKE
// metacharacters escaped
func likePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(search))) + "%"
}

// stringFilter returns a non-empty string value from filter.Filters
func stringFilter(filter shared.Filter, key string) (string, bool) {
	v, ok := filter.Filters[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// likeCond is a case-insensitive LIKE condition on col for use with likePattern
func likeCond(col string) string {
	return "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
}
