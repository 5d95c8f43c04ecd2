package customers

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"sales_management/internal/models"
)

// ErrNameRequired is returned when a customer is written without a name.
var ErrNameRequired = errors.New("customer name is required")

// Service provides customer management on a Storage backend.
type Service struct {
	storage      Storage
	logger       *zap.Logger
	demoFallback bool
}

// NewService creates a new Service. With demoFallback set, List answers
// store failures with DemoCustomers.
func NewService(storage Storage, logger *zap.Logger, demoFallback bool) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{storage: storage, logger: logger, demoFallback: demoFallback}
}

func (s *Service) List(ctx context.Context) ([]models.Customer, error) {
	list, err := s.storage.List(ctx)
	if err != nil {
		if s.demoFallback {
			s.logger.Warn("serving demo customers after store failure", zap.Error(err))
			return DemoCustomers(), nil
		}
		s.logger.Error("failed to list customers", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *Service) Create(ctx context.Context, in Input) (uint, error) {
	if strings.TrimSpace(in.Name) == "" {
		return 0, ErrNameRequired
	}
	id, err := s.storage.Create(ctx, in)
	if err != nil {
		s.logger.Error("failed to create customer", zap.String("name", in.Name), zap.Error(err))
		return 0, err
	}
	s.logger.Info("customer created", zap.Uint("customer_id", id))
	return id, nil
}

func (s *Service) Update(ctx context.Context, id uint, in Input) error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if err := s.storage.Update(ctx, id, in); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("failed to update customer", zap.Uint("customer_id", id), zap.Error(err))
		}
		return err
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.storage.Delete(ctx, id); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("failed to delete customer", zap.Uint("customer_id", id), zap.Error(err))
		}
		return err
	}
	s.logger.Info("customer deleted", zap.Uint("customer_id", id))
	return nil
}

// DemoCustomers is the canned customer list used by the demo fallback.
func DemoCustomers() []models.Customer {
	north, south := "North", "South"
	regular, premium := "Regular", "Premium"
	return []models.Customer{
		{ID: 1, Name: "Demo Customer 1", Address: "Demo Address 1", AreaName: &north, CategoryName: &regular},
		{ID: 2, Name: "Demo Customer 2", Address: "Demo Address 2", AreaName: &south, CategoryName: &premium},
	}
}
