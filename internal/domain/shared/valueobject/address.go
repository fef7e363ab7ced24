package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a value object representing a postal address.
// It is immutable - all operations return new Address instances.
type Address struct {
	address1    string
	address2    string
	company     string
	city        string
	countryCode string
	province    string
	postalCode  string
	phone       string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithAddress2 sets the second address line
func WithAddress2(line string) AddressOption {
	return func(a *Address) {
		a.address2 = strings.TrimSpace(line)
	}
}

// WithCompany sets the company name
func WithCompany(company string) AddressOption {
	return func(a *Address) {
		a.company = strings.TrimSpace(company)
	}
}

// WithCity sets the city
func WithCity(city string) AddressOption {
	return func(a *Address) {
		a.city = strings.TrimSpace(city)
	}
}

// WithProvince sets the province or state
func WithProvince(province string) AddressOption {
	return func(a *Address) {
		a.province = strings.TrimSpace(province)
	}
}

// WithPostalCode sets the postal code
func WithPostalCode(postalCode string) AddressOption {
	return func(a *Address) {
		a.postalCode = strings.TrimSpace(postalCode)
	}
}

// WithPhone sets the phone number
func WithPhone(phone string) AddressOption {
	return func(a *Address) {
		a.phone = strings.TrimSpace(phone)
	}
}

// NewAddress creates a new Address. The first line and the ISO 3166-1
// alpha-2 country code are required; the country code is stored lower case.
func NewAddress(address1, countryCode string, opts ...AddressOption) (Address, error) {
	addr := Address{
		address1:    strings.TrimSpace(address1),
		countryCode: strings.ToLower(strings.TrimSpace(countryCode)),
	}
	for _, opt := range opts {
		opt(&addr)
	}
	if err := addr.validate(); err != nil {
		return Address{}, err
	}
	return addr, nil
}

// EmptyAddress returns an empty address (for optional address fields)
func EmptyAddress() Address {
	return Address{}
}

// Address1 returns the first address line
func (a Address) Address1() string { return a.address1 }

// Address2 returns the second address line
func (a Address) Address2() string { return a.address2 }

// Company returns the company name
func (a Address) Company() string { return a.company }

// City returns the city
func (a Address) City() string { return a.city }

// CountryCode returns the lower case ISO 3166-1 alpha-2 code
func (a Address) CountryCode() string { return a.countryCode }

// Province returns the province or state
func (a Address) Province() string { return a.province }

// PostalCode returns the postal code
func (a Address) PostalCode() string { return a.postalCode }

// Phone returns the phone number
func (a Address) Phone() string { return a.phone }

// IsEmpty returns true if the address has no first line and no country
func (a Address) IsEmpty() bool {
	return a.address1 == "" && a.countryCode == ""
}

// String returns a single-line representation of the address
func (a Address) String() string {
	if a.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, 6)
	for _, p := range []string{a.address1, a.address2, a.city, a.province, a.postalCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, strings.ToUpper(a.countryCode))
	return strings.Join(parts, ", ")
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a == other
}

func (a Address) validate() error {
	if a.address1 == "" {
		return fmt.Errorf("address_1 cannot be empty")
	}
	if len(a.address1) > 255 || len(a.address2) > 255 {
		return fmt.Errorf("address lines cannot exceed 255 characters")
	}
	if len(a.countryCode) != 2 {
		return fmt.Errorf("country_code must be an ISO 3166-1 alpha-2 code")
	}
	for _, r := range a.countryCode {
		if r < 'a' || r > 'z' {
			return fmt.Errorf("country_code must be an ISO 3166-1 alpha-2 code")
		}
	}
	if len(a.postalCode) > 20 {
		return fmt.Errorf("postal code cannot exceed 20 characters")
	}
	return nil
}

// AddressDTO is the serialized form of Address
type AddressDTO struct {
	Address1    string `json:"address_1"`
	Address2    string `json:"address_2,omitempty"`
	Company     string `json:"company,omitempty"`
	City        string `json:"city,omitempty"`
	CountryCode string `json:"country_code"`
	Province    string `json:"province,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// ToDTO converts Address to AddressDTO
func (a Address) ToDTO() AddressDTO {
	return AddressDTO{
		Address1:    a.address1,
		Address2:    a.address2,
		Company:     a.company,
		City:        a.city,
		CountryCode: a.countryCode,
		Province:    a.province,
		PostalCode:  a.postalCode,
		Phone:       a.phone,
	}
}

// ToAddress converts AddressDTO back to Address
func (d AddressDTO) ToAddress() (Address, error) {
	if d.Address1 == "" && d.CountryCode == "" {
		return EmptyAddress(), nil
	}
	return NewAddress(d.Address1, d.CountryCode,
		WithAddress2(d.Address2),
		WithCompany(d.Company),
		WithCity(d.City),
		WithProvince(d.Province),
		WithPostalCode(d.PostalCode),
		WithPhone(d.Phone),
	)
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.ToDTO())
}

// UnmarshalJSON implements json.Unmarshaler, applying the same validation as NewAddress.
func (a *Address) UnmarshalJSON(data []byte) error {
	var d AddressDTO
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	addr, err := d.ToAddress()
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// Value implements driver.Valuer, storing the address as JSON
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = EmptyAddress()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*a = EmptyAddress()
		return nil
	}
	return json.Unmarshal(data, a)
}
