package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sales_management/internal/auth"
	"sales_management/internal/models"
)

var (
	seedAreas              = []string{"North", "South", "East", "West"}
	seedCustomerCategories = []string{"Regular", "Premium", "Wholesale"}
	seedProductCategories  = []string{"Electronics", "Groceries", "Stationery"}
	seedBrands             = []string{"Generic", "Acme"}
)

// Seed inserts the baseline lookup rows and, when a password is given, the admin user.
// Running it twice leaves the same rows.
func Seed(conn *gorm.DB, adminName, adminPassword string) error {
	for _, name := range seedAreas {
		if err := conn.Where(models.Area{Name: name}).FirstOrCreate(&models.Area{}).Error; err != nil {
			return fmt.Errorf("seed area %s: %w", name, err)
		}
	}
	for _, name := range seedCustomerCategories {
		if err := conn.Where(models.CustomerCategory{Name: name}).FirstOrCreate(&models.CustomerCategory{}).Error; err != nil {
			return fmt.Errorf("seed customer category %s: %w", name, err)
		}
	}
	for _, name := range seedProductCategories {
		if err := conn.Where(models.ProductCategory{Name: name}).FirstOrCreate(&models.ProductCategory{}).Error; err != nil {
			return fmt.Errorf("seed product category %s: %w", name, err)
		}
	}
	for _, name := range seedBrands {
		if err := conn.Where(models.Brand{Name: name}).FirstOrCreate(&models.Brand{}).Error; err != nil {
			return fmt.Errorf("seed brand %s: %w", name, err)
		}
	}

	if adminName == "" || adminPassword == "" {
		return nil
	}
	var existing models.User
	err := conn.Where("name = ?", adminName).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup admin user: %w", err)
	}
	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}
	if err := conn.Create(&models.User{Name: adminName, PasswordHash: hash}).Error; err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	return nil
}
