package models

// Area is a customer area lookup row.
type Area struct {
	ID   uint   `gorm:"primaryKey" json:"ID"`
	Name string `gorm:"size:100;not null" json:"Name"`
}

func (Area) TableName() string {
	return "customer_areas"
}

// CustomerCategory is a customer category lookup row.
type CustomerCategory struct {
	ID   uint   `gorm:"primaryKey" json:"ID"`
	Name string `gorm:"size:100;not null" json:"Name"`
}

func (CustomerCategory) TableName() string {
	return "customer_categories"
}

// ProductCategory is a product category lookup row.
type ProductCategory struct {
	ID   uint   `gorm:"primaryKey" json:"ID"`
	Name string `gorm:"size:100;not null" json:"Name"`
}

func (ProductCategory) TableName() string {
	return "product_categories"
}

// Brand is a product brand lookup row.
type Brand struct {
	ID   uint   `gorm:"primaryKey" json:"ID"`
	Name string `gorm:"size:100;not null" json:"Name"`
}

func (Brand) TableName() string {
	return "brands"
}
