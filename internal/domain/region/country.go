package region

import (
	"strings"

	"github.com/google/uuid"
)

// Country is ISO 3166-1 reference data. A country belongs to at most one region.
type Country struct {
	ID          int
	ISO2        string
	ISO3        string
	NumCode     int
	Name        string
	DisplayName string
	RegionID    *uuid.UUID
}

// NormalizeISO2 lower-cases and trims an alpha-2 code
func NormalizeISO2(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
