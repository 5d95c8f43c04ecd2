package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sales_management/internal/models"
)

// ErrNotFound is returned when no product has the given ID.
var ErrNotFound = errors.New("product not found")

// Input holds the writable product fields.
type Input struct {
	Name         string
	CategoryID   *uint
	BrandID      *uint
	PurchaseRate decimal.Decimal
	SalesRate    decimal.Decimal
}

// Storage is the persistence layer for products and their images.
type Storage interface {
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, in Input) (uint, error)
	Update(ctx context.Context, id uint, in Input) error
	// Delete removes the product and its image rows together.
	Delete(ctx context.Context, id uint) error

	AddImage(ctx context.Context, productID uint, path string) (uint, error)
	ListImages(ctx context.Context, productID uint) ([]models.ProductImage, error)
}

// GormStorage stores products in the relational store.
type GormStorage struct {
	db *gorm.DB
}

func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

// List returns every product with its category and brand names.
func (s *GormStorage) List(ctx context.Context) ([]models.Product, error) {
	out := []models.Product{}
	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("products.*, product_categories.name AS category_name, brands.name AS brand_name").
		Joins("LEFT JOIN product_categories ON product_categories.id = products.category_id").
		Joins("LEFT JOIN brands ON brands.id = products.brand_id").
		Order("products.id").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (s *GormStorage) Create(ctx context.Context, in Input) (uint, error) {
	p := models.Product{
		Name:         in.Name,
		CategoryID:   in.CategoryID,
		BrandID:      in.BrandID,
		PurchaseRate: in.PurchaseRate,
		SalesRate:    in.SalesRate,
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return p.ID, nil
}

func (s *GormStorage) Update(ctx context.Context, id uint, in Input) error {
	res := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":          in.Name,
			"category_id":   in.CategoryID,
			"brand_id":      in.BrandID,
			"purchase_rate": in.PurchaseRate,
			"sales_rate":    in.SalesRate,
		})
	if res.Error != nil {
		return fmt.Errorf("update product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStorage) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete product %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("delete images of product %d: %w", id, err)
		}
		return nil
	})
}

func (s *GormStorage) AddImage(ctx context.Context, productID uint, path string) (uint, error) {
	img := models.ProductImage{ProductID: productID, ImagePath: path}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Product{}).Where("id = ?", productID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return tx.Create(&img).Error
	})
	if err != nil {
		return 0, err
	}
	return img.ID, nil
}

func (s *GormStorage) ListImages(ctx context.Context, productID uint) ([]models.ProductImage, error) {
	out := []models.ProductImage{}
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list images of product %d: %w", productID, err)
	}
	return out, nil
}
