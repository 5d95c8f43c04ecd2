package lookups

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no entry has the given ID.
	ErrNotFound = errors.New("lookup entry not found")
	// ErrNameRequired is returned when an entry is written without a name.
	ErrNameRequired = errors.New("name is required")
)

// Kind names one lookup table.
type Kind string

const (
	Areas              Kind = "customer_areas"
	CustomerCategories Kind = "customer_categories"
	ProductCategories  Kind = "product_categories"
	Brands             Kind = "brands"
)

// Entry is a lookup row. Every lookup table has the same (id, name) shape.
type Entry struct {
	ID   uint   `gorm:"primaryKey" json:"ID"`
	Name string `json:"Name"`
}

// CustomerDropdowns feeds the customer form.
type CustomerDropdowns struct {
	Areas      []Entry `json:"areas"`
	Categories []Entry `json:"categories"`
}

// ProductDropdowns feeds the product form.
type ProductDropdowns struct {
	Categories []Entry `json:"categories"`
	Brands     []Entry `json:"brands"`
}

// Storage is the persistence layer for lookup tables.
type Storage interface {
	List(ctx context.Context, kind Kind) ([]Entry, error)
	Create(ctx context.Context, kind Kind, name string) (uint, error)
	Update(ctx context.Context, kind Kind, id uint, name string) error
	Delete(ctx context.Context, kind Kind, id uint) error
}

// GormStorage stores lookup rows in the relational store.
type GormStorage struct {
	db *gorm.DB
}

func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

func (s *GormStorage) List(ctx context.Context, kind Kind) ([]Entry, error) {
	out := []Entry{}
	if err := s.db.WithContext(ctx).Table(string(kind)).Order("name").Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return out, nil
}

func (s *GormStorage) Create(ctx context.Context, kind Kind, name string) (uint, error) {
	e := Entry{Name: name}
	if err := s.db.WithContext(ctx).Table(string(kind)).Create(&e).Error; err != nil {
		return 0, fmt.Errorf("insert %s: %w", kind, err)
	}
	return e.ID, nil
}

func (s *GormStorage) Update(ctx context.Context, kind Kind, id uint, name string) error {
	res := s.db.WithContext(ctx).Table(string(kind)).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return fmt.Errorf("update %s %d: %w", kind, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStorage) Delete(ctx context.Context, kind Kind, id uint) error {
	res := s.db.WithContext(ctx).Table(string(kind)).Where("id = ?", id).Delete(&Entry{})
	if res.Error != nil {
		return fmt.Errorf("delete %s %d: %w", kind, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Service provides lookup management and the dropdown bundles.
type Service struct {
	storage      Storage
	logger       *zap.Logger
	demoFallback bool
}

func NewService(storage Storage, logger *zap.Logger, demoFallback bool) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{storage: storage, logger: logger, demoFallback: demoFallback}
}

// CustomerDropdowns returns areas and customer categories.
func (s *Service) CustomerDropdowns(ctx context.Context) (CustomerDropdowns, error) {
	areas, err := s.storage.List(ctx, Areas)
	if err == nil {
		var categories []Entry
		categories, err = s.storage.List(ctx, CustomerCategories)
		if err == nil {
			return CustomerDropdowns{Areas: areas, Categories: categories}, nil
		}
	}
	if s.demoFallback {
		s.logger.Warn("serving demo customer dropdowns after store failure", zap.Error(err))
		return DemoCustomerDropdowns(), nil
	}
	s.logger.Error("failed to load customer dropdowns", zap.Error(err))
	return CustomerDropdowns{}, err
}

// ProductDropdowns returns product categories and brands.
func (s *Service) ProductDropdowns(ctx context.Context) (ProductDropdowns, error) {
	categories, err := s.storage.List(ctx, ProductCategories)
	if err == nil {
		var brands []Entry
		brands, err = s.storage.List(ctx, Brands)
		if err == nil {
			return ProductDropdowns{Categories: categories, Brands: brands}, nil
		}
	}
	if s.demoFallback {
		s.logger.Warn("serving demo product dropdowns after store failure", zap.Error(err))
		return DemoProductDropdowns(), nil
	}
	s.logger.Error("failed to load product dropdowns", zap.Error(err))
	return ProductDropdowns{}, err
}

func (s *Service) List(ctx context.Context, kind Kind) ([]Entry, error) {
	entries, err := s.storage.List(ctx, kind)
	if err != nil {
		s.logger.Error("failed to list lookup entries", zap.String("kind", string(kind)), zap.Error(err))
		return nil, err
	}
	return entries, nil
}

func (s *Service) Create(ctx context.Context, kind Kind, name string) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrNameRequired
	}
	id, err := s.storage.Create(ctx, kind, name)
	if err != nil {
		s.logger.Error("failed to create lookup entry", zap.String("kind", string(kind)), zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (s *Service) Update(ctx context.Context, kind Kind, id uint, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	if err := s.storage.Update(ctx, kind, id, name); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("failed to update lookup entry", zap.String("kind", string(kind)), zap.Uint("id", id), zap.Error(err))
		}
		return err
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, kind Kind, id uint) error {
	if err := s.storage.Delete(ctx, kind, id); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("failed to delete lookup entry", zap.String("kind", string(kind)), zap.Uint("id", id), zap.Error(err))
		}
		return err
	}
	return nil
}

func DemoCustomerDropdowns() CustomerDropdowns {
	return CustomerDropdowns{
		Areas:      []Entry{{ID: 1, Name: "North"}, {ID: 2, Name: "South"}},
		Categories: []Entry{{ID: 1, Name: "Regular"}, {ID: 2, Name: "Premium"}},
	}
}

func DemoProductDropdowns() ProductDropdowns {
	return ProductDropdowns{
		Categories: []Entry{{ID: 1, Name: "Electronics"}, {ID: 2, Name: "Stationery"}},
		Brands:     []Entry{{ID: 1, Name: "Generic"}},
	}
}
