package location

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appshared "github.com/storefront/backend/internal/application/shared"
	"github.com/storefront/backend/internal/domain/location"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// LocationService manages stock locations
type LocationService struct {
	locations location.LocationRepository
	txScope   appshared.TransactionScope
	events    shared.EventPublisher
	logger    *zap.Logger
}

// NewLocationService creates a new LocationService
func NewLocationService(
	locations location.LocationRepository,
	txScope appshared.TransactionScope,
	events shared.EventPublisher,
	logger *zap.Logger,
) *LocationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocationService{
		locations: locations,
		txScope:   txScope,
		events:    events,
		logger:    logger,
	}
}

// Create creates a stock location
func (s *LocationService) Create(ctx context.Context, req CreateLocationRequest) (*LocationResponse, error) {
	addr, err := req.Address.toAddress()
	if err != nil {
		return nil, err
	}
	loc, err := location.NewLocation(req.Name, addr)
	if err != nil {
		return nil, err
	}
	if req.Metadata != nil {
		loc.Metadata = loc.Metadata.Merge(req.Metadata)
	}

	if err := s.locations.Save(ctx, loc); err != nil {
		return nil, err
	}
	s.publish(ctx, loc)

	s.logger.Info("Stock location created", zap.String("location_id", loc.ID.String()))
	return ToLocationResponse(loc), nil
}

// Retrieve returns a stock location
func (s *LocationService) Retrieve(ctx context.Context, id uuid.UUID) (*LocationResponse, error) {
	loc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToLocationResponse(loc), nil
}

// List returns a page of stock locations and the total count
func (s *LocationService) List(ctx context.Context, filter LocationListFilter) ([]LocationResponse, int64, error) {
	f := filter.ToFilter()
	locations, err := s.locations.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.locations.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	out := make([]LocationResponse, 0, len(locations))
	for i := range locations {
		out = append(out, *ToLocationResponse(&locations[i]))
	}
	return out, total, nil
}

// Update changes the name, address or metadata of a stock location
func (s *LocationService) Update(ctx context.Context, id uuid.UUID, req UpdateLocationRequest) (*LocationResponse, error) {
	loc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	var addr *valueobject.Address
	if req.Address != nil {
		a, err := req.Address.toAddress()
		if err != nil {
			return nil, err
		}
		addr = &a
	}
	if err := loc.Update(req.Name, addr, req.Metadata); err != nil {
		return nil, err
	}

	if err := s.locations.Save(ctx, loc); err != nil {
		return nil, err
	}
	s.publish(ctx, loc)
	return ToLocationResponse(loc), nil
}

// Delete soft deletes a stock location and unsets it as the store's
// default. Deleting a missing location succeeds.
func (s *LocationService) Delete(ctx context.Context, id uuid.UUID) (*appshared.DeleteResponse, error) {
	var deleted *location.Location
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		loc, err := repos.LocationRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil
			}
			return err
		}

		loc.Delete()
		if err := repos.LocationRepo().Delete(ctx, id); err != nil {
			return err
		}
		deleted = loc

		st, err := repos.StoreRepo().Get(ctx)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil
			}
			return err
		}
		if st.DefaultLocationID == nil || *st.DefaultLocationID != id {
			return nil
		}
		st.SetDefaultLocation(nil)
		st.MarkUpdated()
		return repos.StoreRepo().Save(ctx, st)
	})
	if err != nil {
		return nil, err
	}

	if deleted != nil {
		s.publish(ctx, deleted)
		s.logger.Info("Stock location deleted", zap.String("location_id", id.String()))
	}
	return appshared.NewDeleteResponse(id.String(), "stock_location"), nil
}

func (s *LocationService) find(ctx context.Context, id uuid.UUID) (*location.Location, error) {
	loc, err := s.locations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NotFoundError("StockLocation", id.String())
		}
		return nil, err
	}
	return loc, nil
}

func (s *LocationService) publish(ctx context.Context, loc *location.Location) {
	if err := shared.PublishAndClear(ctx, s.events, loc); err != nil {
		s.logger.Warn("Failed to publish stock location events", zap.Error(err))
	}
}
