package models

// Customer is a row of the customers table.
// AreaName and CategoryName are filled by LEFT JOIN on reads and never written.
type Customer struct {
	ID         uint   `gorm:"primaryKey" json:"ID"`
	Name       string `gorm:"size:255;not null" json:"Name"`
	Address    string `gorm:"size:500" json:"Address"`
	AreaID     *uint  `gorm:"index" json:"AreaID"`
	CategoryID *uint  `gorm:"index" json:"CategoryID"`

	AreaName     *string `gorm:"->;-:migration" json:"AreaName"`
	CategoryName *string `gorm:"->;-:migration" json:"CategoryName"`
}

func (Customer) TableName() string {
	return "customers"
}
