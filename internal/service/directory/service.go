// Package directory manages the customers, vehicles and locations that
// appointments refer to.
package directory

import (
	"context"
	"log/slog"
	"strings"

	"github.com/DesignByOnyx/curbee-coding-exercise/internal/domain"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/store"
)

// Directory is the slice of store.Store this service needs.
type Directory interface {
	GetCustomer(ctx context.Context, id string) (domain.Customer, error)
	FindCustomers(ctx context.Context, filter store.CustomerFilter) ([]domain.Customer, error)
	CreateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error)

	GetVehicle(ctx context.Context, id string) (domain.Vehicle, error)
	FindVehicles(ctx context.Context, filter store.VehicleFilter) ([]domain.Vehicle, error)
	CreateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)

	GetLocation(ctx context.Context, id string) (domain.Location, error)
	FindLocations(ctx context.Context, filter store.LocationFilter) ([]domain.Location, error)
	CreateLocation(ctx context.Context, l domain.Location) (domain.Location, error)
}

type Service struct {
	dir Directory
	log *slog.Logger
}

func NewService(dir Directory, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{dir: dir, log: log.With(slog.String("component", "service.directory"))}
}

func (s *Service) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	id, err := requireID(id)
	if err != nil {
		return domain.Customer{}, err
	}
	c, err := s.dir.GetCustomer(ctx, id)
	if err != nil {
		return domain.Customer{}, store.NotFound(err, "Customer", id)
	}
	return c, nil
}

func (s *Service) FindCustomers(ctx context.Context, filter store.CustomerFilter) ([]domain.Customer, error) {
	return s.dir.FindCustomers(ctx, filter)
}

func (s *Service) CreateCustomer(ctx context.Context, in domain.CustomerInput) (domain.Customer, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return domain.Customer{}, err
	}
	c, err := s.dir.CreateCustomer(ctx, in.Customer())
	if err != nil {
		return domain.Customer{}, err
	}
	s.log.Info("customer created", slog.String("customer_id", c.ID))
	return c, nil
}

func (s *Service) GetVehicle(ctx context.Context, id string) (domain.Vehicle, error) {
	id, err := requireID(id)
	if err != nil {
		return domain.Vehicle{}, err
	}
	v, err := s.dir.GetVehicle(ctx, id)
	if err != nil {
		return domain.Vehicle{}, store.NotFound(err, "Vehicle", id)
	}
	return v, nil
}

func (s *Service) FindVehicles(ctx context.Context, filter store.VehicleFilter) ([]domain.Vehicle, error) {
	filter.VIN = strings.ToUpper(strings.TrimSpace(filter.VIN))
	return s.dir.FindVehicles(ctx, filter)
}

func (s *Service) CreateVehicle(ctx context.Context, in domain.VehicleInput) (domain.Vehicle, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return domain.Vehicle{}, err
	}
	v, err := s.dir.CreateVehicle(ctx, in.Vehicle())
	if err != nil {
		return domain.Vehicle{}, err
	}
	s.log.Info("vehicle created", slog.String("vehicle_id", v.ID))
	return v, nil
}

func (s *Service) GetLocation(ctx context.Context, id string) (domain.Location, error) {
	id, err := requireID(id)
	if err != nil {
		return domain.Location{}, err
	}
	l, err := s.dir.GetLocation(ctx, id)
	if err != nil {
		return domain.Location{}, store.NotFound(err, "Location", id)
	}
	return l, nil
}

func (s *Service) FindLocations(ctx context.Context, filter store.LocationFilter) ([]domain.Location, error) {
	return s.dir.FindLocations(ctx, filter)
}

func (s *Service) CreateLocation(ctx context.Context, in domain.LocationInput) (domain.Location, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return domain.Location{}, err
	}
	l, err := s.dir.CreateLocation(ctx, in.Location())
	if err != nil {
		return domain.Location{}, err
	}
	s.log.Info("location created", slog.String("location_id", l.ID))
	return l, nil
}

func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", domain.NewValidationError("id is required", "id")
	}
	return id, nil
}
