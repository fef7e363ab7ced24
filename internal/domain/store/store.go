package store

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Default values used when the store is bootstrapped
const (
	DefaultStoreName    = "Storefront"
	DefaultCurrencyCode = "usd"
)

// Currency is ISO 4217 reference data
type Currency struct {
	Code         string
	Symbol       string
	SymbolNative string
	Name         string
}

// Store holds the settings of the single storefront served by this backend
type Store struct {
	shared.BaseAggregateRoot
	Name                string
	DefaultCurrencyCode string
	Currencies          []Currency
	DefaultRegionID     *uuid.UUID
	DefaultLocationID   *uuid.UUID
	SwapLinkTemplate    string
	PaymentLinkTemplate string
	InviteLinkTemplate  string
	Metadata            shared.Metadata
}

// NewStore creates a store whose only currency is the default one
func NewStore(name string, defaultCurrency Currency) (*Store, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Store name cannot be empty")
	}
	defaultCurrency.Code = strings.ToLower(defaultCurrency.Code)
	s := &Store{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		Name:                name,
		DefaultCurrencyCode: defaultCurrency.Code,
		Currencies:          []Currency{defaultCurrency},
		Metadata:            shared.Metadata{},
	}
	s.AddDomainEvent(NewStoreUpdatedEvent(s))
	return s, nil
}

// Rename changes the store name
func (s *Store) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Store name cannot be empty")
	}
	s.Name = name
	s.touch()
	return nil
}

// HasCurrency reports whether the store accepts the currency code
func (s *Store) HasCurrency(code string) bool {
	code = strings.ToLower(code)
	for _, c := range s.Currencies {
		if c.Code == code {
			return true
		}
	}
	return false
}

// CurrencyCodes returns the store's currency codes
func (s *Store) CurrencyCodes() []string {
	codes := make([]string, 0, len(s.Currencies))
	for _, c := range s.Currencies {
		codes = append(codes, c.Code)
	}
	return codes
}

// AddCurrency adds a currency; adding a present currency is a no-op
func (s *Store) AddCurrency(c Currency) bool {
	c.Code = strings.ToLower(c.Code)
	if s.HasCurrency(c.Code) {
		return false
	}
	s.Currencies = append(s.Currencies, c)
	s.touch()
	return true
}

// RemoveCurrency removes a currency. The default currency cannot be removed.
func (s *Store) RemoveCurrency(code string) error {
	code = strings.ToLower(code)
	if code == s.DefaultCurrencyCode {
		return shared.NewDomainErrorf("BUSINESS_RULE",
			"Currency %s is the store's default currency and cannot be removed", code)
	}
	for i, c := range s.Currencies {
		if c.Code == code {
			s.Currencies = append(s.Currencies[:i], s.Currencies[i+1:]...)
			s.touch()
			return nil
		}
	}
	return nil
}

// ReplaceCurrencies sets the currency list. The result must still contain
// the default currency.
func (s *Store) ReplaceCurrencies(currencies []Currency) error {
	next := make([]Currency, 0, len(currencies))
	seen := make(map[string]bool, len(currencies))
	for _, c := range currencies {
		c.Code = strings.ToLower(c.Code)
		if seen[c.Code] {
			continue
		}
		seen[c.Code] = true
		next = append(next, c)
	}
	if !seen[s.DefaultCurrencyCode] {
		return shared.NewDomainErrorf("BUSINESS_RULE",
			"You are not allowed to remove default currency from store currencies without replacing it as well")
	}
	s.Currencies = next
	s.touch()
	return nil
}

// SetDefaultCurrency changes the default currency, which must already be a
// store currency.
func (s *Store) SetDefaultCurrency(code string) error {
	code = strings.ToLower(code)
	if !s.HasCurrency(code) {
		return shared.NewDomainErrorf("BUSINESS_RULE", "Store does not have currency: %s", code)
	}
	s.DefaultCurrencyCode = code
	s.touch()
	return nil
}

// SetDefaultRegion points the store at a region (nil clears it)
func (s *Store) SetDefaultRegion(id *uuid.UUID) {
	s.DefaultRegionID = id
	s.touch()
}

// SetDefaultLocation points the store at a stock location (nil clears it)
func (s *Store) SetDefaultLocation(id *uuid.UUID) {
	s.DefaultLocationID = id
	s.touch()
}

// SetLinkTemplates updates the link templates used in outgoing notifications
func (s *Store) SetLinkTemplates(swap, payment, invite *string) {
	if swap != nil {
		s.SwapLinkTemplate = *swap
	}
	if payment != nil {
		s.PaymentLinkTemplate = *payment
	}
	if invite != nil {
		s.InviteLinkTemplate = *invite
	}
	s.touch()
}

// MergeMetadata applies a metadata patch
func (s *Store) MergeMetadata(patch shared.Metadata) {
	s.Metadata = s.Metadata.Merge(patch)
	s.touch()
}

// MarkUpdated records an update event after a batch of changes
func (s *Store) MarkUpdated() {
	s.IncrementVersion()
	s.AddDomainEvent(NewStoreUpdatedEvent(s))
}

func (s *Store) touch() {
	s.UpdatedAt = time.Now()
}
