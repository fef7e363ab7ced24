package region

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Region groups countries that share a currency and tax settings
type Region struct {
	shared.BaseAggregateRoot
	Name             string
	CurrencyCode     string
	TaxRate          decimal.Decimal
	TaxCode          string
	GiftCardsTaxable bool
	AutomaticTaxes   bool
	IncludesTax      bool
	Countries        []Country
	Metadata         shared.Metadata
}

// NewRegion creates a region without countries. Currency membership and
// country ownership are checked by the application service.
func NewRegion(name, currencyCode string, taxRate decimal.Decimal) (*Region, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	code, err := normalizeCurrencyCode(currencyCode)
	if err != nil {
		return nil, err
	}
	if err := ValidateTaxRate(taxRate); err != nil {
		return nil, err
	}

	r := &Region{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		CurrencyCode:      code,
		TaxRate:           taxRate,
		GiftCardsTaxable:  true,
		AutomaticTaxes:    true,
		Countries:         make([]Country, 0),
		Metadata:          shared.Metadata{},
	}
	r.AddDomainEvent(NewRegionCreatedEvent(r))
	return r, nil
}

// Rename changes the region name
func (r *Region) Rename(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	r.Name = strings.TrimSpace(name)
	r.touch()
	return nil
}

// ChangeCurrency sets a new currency code
func (r *Region) ChangeCurrency(currencyCode string) error {
	code, err := normalizeCurrencyCode(currencyCode)
	if err != nil {
		return err
	}
	r.CurrencyCode = code
	r.touch()
	return nil
}

// ChangeTaxRate sets a new tax rate
func (r *Region) ChangeTaxRate(rate decimal.Decimal) error {
	if err := ValidateTaxRate(rate); err != nil {
		return err
	}
	r.TaxRate = rate
	r.touch()
	return nil
}

// SetTaxSettings updates the tax flags and tax code
func (r *Region) SetTaxSettings(taxCode string, giftCardsTaxable, automaticTaxes, includesTax bool) {
	r.TaxCode = strings.TrimSpace(taxCode)
	r.GiftCardsTaxable = giftCardsTaxable
	r.AutomaticTaxes = automaticTaxes
	r.IncludesTax = includesTax
	r.touch()
}

// MergeMetadata applies a metadata patch
func (r *Region) MergeMetadata(patch shared.Metadata) {
	r.Metadata = r.Metadata.Merge(patch)
	r.touch()
}

// HasCountry reports whether the region contains the given ISO2 code
func (r *Region) HasCountry(iso2 string) bool {
	iso2 = strings.ToLower(iso2)
	for _, c := range r.Countries {
		if c.ISO2 == iso2 {
			return true
		}
	}
	return false
}

// AddCountry attaches a country. Adding a country the region already
// contains is a no-op and returns false. A country owned by another region
// is rejected with a CONFLICT error.
func (r *Region) AddCountry(country Country) (bool, error) {
	if r.HasCountry(country.ISO2) {
		return false, nil
	}
	if country.RegionID != nil && *country.RegionID != r.ID {
		return false, shared.NewDomainErrorf("CONFLICT",
			"%s already exists in region %s", country.DisplayName, country.RegionID.String())
	}
	regionID := r.ID
	country.RegionID = &regionID
	r.Countries = append(r.Countries, country)
	r.touch()
	r.AddDomainEvent(NewRegionCountryAddedEvent(r, country.ISO2))
	return true, nil
}

// RemoveCountry detaches a country. Removing a country the region does not
// contain is a no-op and returns nil, false.
func (r *Region) RemoveCountry(iso2 string) (*Country, bool) {
	iso2 = strings.ToLower(iso2)
	for i, c := range r.Countries {
		if c.ISO2 != iso2 {
			continue
		}
		removed := c
		removed.RegionID = nil
		r.Countries = append(r.Countries[:i], r.Countries[i+1:]...)
		r.touch()
		r.AddDomainEvent(NewRegionCountryRemovedEvent(r, iso2))
		return &removed, true
	}
	return nil, false
}

// CountryCodes returns the ISO2 codes of the region's countries
func (r *Region) CountryCodes() []string {
	codes := make([]string, 0, len(r.Countries))
	for _, c := range r.Countries {
		codes = append(codes, c.ISO2)
	}
	return codes
}

// MarkUpdated records an update event after a batch of changes
func (r *Region) MarkUpdated() {
	r.IncrementVersion()
	r.AddDomainEvent(NewRegionUpdatedEvent(r))
}

// Delete soft deletes the region. The repository detaches its countries.
func (r *Region) Delete() {
	r.Countries = nil
	r.MarkDeleted()
	r.AddDomainEvent(NewRegionDeletedEvent(r))
}

func (r *Region) touch() {
	r.UpdatedAt = time.Now()
}

// BelongsTo reports whether the country is attached to the given region
func (c Country) BelongsTo(regionID uuid.UUID) bool {
	return c.RegionID != nil && *c.RegionID == regionID
}

// ValidateTaxRate checks that a tax rate is a fraction between 0 and 1
func ValidateTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_INPUT", "The tax_rate must be between 0 and 1")
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Region name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_INPUT", "Region name cannot exceed 200 characters")
	}
	return nil
}

func normalizeCurrencyCode(code string) (string, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", shared.NewDomainError("INVALID_INPUT", "Currency code must be a 3 letter ISO 4217 code")
	}
	return code, nil
}
