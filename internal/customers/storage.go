package customers

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sales_management/internal/models"
)

// ErrNotFound is returned when no customer has the given ID.
var ErrNotFound = errors.New("customer not found")

// Input holds the writable customer fields.
type Input struct {
	Name       string
	Address    string
	AreaID     *uint
	CategoryID *uint
}

// Storage is the persistence layer for customers.
type Storage interface {
	List(ctx context.Context) ([]models.Customer, error)
	Create(ctx context.Context, in Input) (uint, error)
	Update(ctx context.Context, id uint, in Input) error
	Delete(ctx context.Context, id uint) error
}

// GormStorage stores customers in the relational store.
type GormStorage struct {
	db *gorm.DB
}

func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

// List returns every customer with its area and category names.
func (s *GormStorage) List(ctx context.Context) ([]models.Customer, error) {
	out := []models.Customer{}
	err := s.db.WithContext(ctx).
		Model(&models.Customer{}).
		Select("customers.*, customer_areas.name AS area_name, customer_categories.name AS category_name").
		Joins("LEFT JOIN customer_areas ON customer_areas.id = customers.area_id").
		Joins("LEFT JOIN customer_categories ON customer_categories.id = customers.category_id").
		Order("customers.id").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return out, nil
}

func (s *GormStorage) Create(ctx context.Context, in Input) (uint, error) {
	c := models.Customer{
		Name:       in.Name,
		Address:    in.Address,
		AreaID:     in.AreaID,
		CategoryID: in.CategoryID,
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return 0, fmt.Errorf("insert customer: %w", err)
	}
	return c.ID, nil
}

func (s *GormStorage) Update(ctx context.Context, id uint, in Input) error {
	res := s.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":        in.Name,
			"address":     in.Address,
			"area_id":     in.AreaID,
			"category_id": in.CategoryID,
		})
	if res.Error != nil {
		return fmt.Errorf("update customer %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStorage) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Customer{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete customer %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
