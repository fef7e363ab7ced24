package location

import (
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Location is a stock location goods are shipped from
type Location struct {
	shared.BaseAggregateRoot
	Name     string
	Address  valueobject.Address
	Metadata shared.Metadata
}

// NewLocation creates a stock location; the address may be empty
func NewLocation(name string, address valueobject.Address) (*Location, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	loc := &Location{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Address:           address,
		Metadata:          shared.Metadata{},
	}
	loc.AddDomainEvent(NewLocationEvent(EventTypeLocationCreated, loc))
	return loc, nil
}

// Update applies changed fields. Nil arguments leave the field untouched.
func (l *Location) Update(name *string, address *valueobject.Address, metadata shared.Metadata) error {
	if name != nil {
		if err := validateName(*name); err != nil {
			return err
		}
		l.Name = strings.TrimSpace(*name)
	}
	if address != nil {
		l.Address = *address
	}
	if metadata != nil {
		l.Metadata = l.Metadata.Merge(metadata)
	}
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	l.AddDomainEvent(NewLocationEvent(EventTypeLocationUpdated, l))
	return nil
}

// Delete soft deletes the location
func (l *Location) Delete() {
	l.MarkDeleted()
	l.AddDomainEvent(NewLocationEvent(EventTypeLocationDeleted, l))
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Location name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_INPUT", "Location name cannot exceed 200 characters")
	}
	return nil
}
