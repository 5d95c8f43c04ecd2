package products

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sales_management/internal/models"
)

var (
	// ErrNameRequired is returned when a product is written without a name.
	ErrNameRequired = errors.New("product name is required")
	// ErrNegativeRate is returned when a purchase or sales rate is below zero.
	ErrNegativeRate = errors.New("rates must not be negative")
	// ErrImagePathRequired is returned when an image link has no path.
	ErrImagePathRequired = errors.New("image path is required")
)

// Service provides product management on a Storage backend.
type Service struct {
	storage      Storage
	logger       *zap.Logger
	demoFallback bool
}

// NewService creates a new Service. With demoFallback set, List answers
// store failures with DemoProducts.
func NewService(storage Storage, logger *zap.Logger, demoFallback bool) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{storage: storage, logger: logger, demoFallback: demoFallback}
}

func (s *Service) List(ctx context.Context) ([]models.Product, error) {
	list, err := s.storage.List(ctx)
	if err != nil {
		if s.demoFallback {
			s.logger.Warn("serving demo products after store failure", zap.Error(err))
			return DemoProducts(), nil
		}
		s.logger.Error("failed to list products", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func validate(in Input) error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if in.PurchaseRate.IsNegative() || in.SalesRate.IsNegative() {
		return ErrNegativeRate
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in Input) (uint, error) {
	if err := validate(in); err != nil {
		return 0, err
	}
	id, err := s.storage.Create(ctx, in)
	if err != nil {
		s.logger.Error("failed to create product", zap.String("name", in.Name), zap.Error(err))
		return 0, err
	}
	s.logger.Info("product created", zap.Uint("product_id", id))
	return id, nil
}

func (s *Service) Update(ctx context.Context, id uint, in Input) error {
	if err := validate(in); err != nil {
		return err
	}
	if err := s.storage.Update(ctx, id, in); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("failed to update product", zap.Uint("product_id", id), zap.Error(err))
		}
		return err
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.storage.Delete(ctx, id); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("failed to delete product", zap.Uint("product_id", id), zap.Error(err))
		}
		return err
	}
	s.logger.Info("product deleted", zap.Uint("product_id", id))
	return nil
}

// AddImage links an already stored image file to a product.
func (s *Service) AddImage(ctx context.Context, productID uint, path string) (uint, error) {
	if strings.TrimSpace(path) == "" {
		return 0, ErrImagePathRequired
	}
	id, err := s.storage.AddImage(ctx, productID, path)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("failed to link product image", zap.Uint("product_id", productID), zap.Error(err))
		}
		return 0, err
	}
	return id, nil
}

func (s *Service) Images(ctx context.Context, productID uint) ([]models.ProductImage, error) {
	images, err := s.storage.ListImages(ctx, productID)
	if err != nil {
		s.logger.Error("failed to list product images", zap.Uint("product_id", productID), zap.Error(err))
		return nil, err
	}
	return images, nil
}

// DemoProducts is the canned product list used by the demo fallback.
func DemoProducts() []models.Product {
	electronics, stationery := "Electronics", "Stationery"
	generic := "Generic"
	return []models.Product{
		{ID: 1, Name: "Demo Product 1", PurchaseRate: decimal.NewFromInt(80), SalesRate: decimal.NewFromInt(100), CategoryName: &electronics, BrandName: &generic},
		{ID: 2, Name: "Demo Product 2", PurchaseRate: decimal.NewFromInt(15), SalesRate: decimal.NewFromInt(25), CategoryName: &stationery, BrandName: &generic},
	}
}
