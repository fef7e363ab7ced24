package location

import (
	"time"

	"github.com/google/uuid"
	appshared "github.com/storefront/backend/internal/application/shared"
	"github.com/storefront/backend/internal/domain/location"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// AddressRequest is the address part of a stock location request
type AddressRequest struct {
	Address1    string `json:"address_1" binding:"required,max=255"`
	Address2    string `json:"address_2" binding:"max=255"`
	Company     string `json:"company" binding:"max=200"`
	City        string `json:"city" binding:"max=100"`
	CountryCode string `json:"country_code" binding:"required,country_code"`
	Province    string `json:"province" binding:"max=100"`
	PostalCode  string `json:"postal_code" binding:"max=20"`
	Phone       string `json:"phone" binding:"max=50"`
}

func (r *AddressRequest) toAddress() (valueobject.Address, error) {
	if r == nil {
		return valueobject.EmptyAddress(), nil
	}
	return valueobject.AddressDTO{
		Address1:    r.Address1,
		Address2:    r.Address2,
		Company:     r.Company,
		City:        r.City,
		CountryCode: r.CountryCode,
		Province:    r.Province,
		PostalCode:  r.PostalCode,
		Phone:       r.Phone,
	}.ToAddress()
}

// CreateLocationRequest represents a request to create a stock location
type CreateLocationRequest struct {
	Name     string          `json:"name" binding:"required,min=1,max=200"`
	Address  *AddressRequest `json:"address"`
	Metadata shared.Metadata `json:"metadata"`
}

// UpdateLocationRequest represents a request to update a stock location
type UpdateLocationRequest struct {
	Name     *string         `json:"name" binding:"omitempty,min=1,max=200"`
	Address  *AddressRequest `json:"address"`
	Metadata shared.Metadata `json:"metadata"`
}

// LocationListFilter holds the query parameters of the stock location list
type LocationListFilter struct {
	appshared.ListParams
}

// LocationResponse represents a stock location in API responses
type LocationResponse struct {
	ID        uuid.UUID               `json:"id"`
	Name      string                  `json:"name"`
	Address   *valueobject.AddressDTO `json:"address"`
	Metadata  shared.Metadata         `json:"metadata"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// ToLocationResponse converts a domain Location to LocationResponse
func ToLocationResponse(l *location.Location) *LocationResponse {
	resp := &LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Metadata:  l.Metadata,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
	if resp.Metadata == nil {
		resp.Metadata = shared.Metadata{}
	}
	if !l.Address.IsEmpty() {
		dto := l.Address.ToDTO()
		resp.Address = &dto
	}
	return resp
}
