package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// orderClause builds a whitelisted ORDER BY expression. The id tiebreaker
// keeps offset pagination stable when the sort column has duplicates.
func orderClause(orderBy, orderDir string, allowed map[string]bool, defaultField, idColumn string) string {
	field := ValidateSortField(orderBy, allowed, defaultField)
	clause := field + " " + ValidateSortOrder(orderDir)
	if field != idColumn {
		clause += ", " + idColumn + " ASC"
	}
	return clause
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// RegionSortFields contains allowed sort fields for regions
var RegionSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"currency_code": true,
	"tax_rate":      true,
}

// CountrySortFields contains allowed sort fields for countries
var CountrySortFields = map[string]bool{
	"id":           true,
	"iso_2":        true,
	"iso_3":        true,
	"num_code":     true,
	"name":         true,
	"display_name": true,
}

// CurrencySortFields contains allowed sort fields for currencies
var CurrencySortFields = map[string]bool{
	"code": true,
	"name": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"email":         true,
	"first_name":    true,
	"last_name":     true,
	"role":          true,
	"last_login_at": true,
}

// InviteSortFields contains allowed sort fields for invites
var InviteSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"user_email": true,
	"expires_at": true,
}

// LocationSortFields contains allowed sort fields for stock locations
var LocationSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

// FileSortFields contains allowed sort fields for files
var FileSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"original_name": true,
	"size":          true,
	"mime_type":     true,
}
