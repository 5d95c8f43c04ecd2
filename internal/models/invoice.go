package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesInvoice is the header row of a sales invoice.
//
// CustomerID is a plain reference, not a foreign key: deleting a customer leaves
// its invoices readable with CustomerName absent.
type SalesInvoice struct {
	TxnNo       uint            `gorm:"primaryKey;autoIncrement" json:"TxnNo"`
	TxnDate     time.Time       `gorm:"not null;index" json:"TxnDate"`
	CustomerID  uint            `gorm:"index;not null" json:"CustomerId"`
	Address     string          `gorm:"size:500" json:"Address"`
	TotalQty    decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"TotalQty"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"TotalAmount"`

	CustomerName *string     `gorm:"->;-:migration" json:"CustomerName"`
	Items        []SalesItem `gorm:"-" json:"Items"`
}

func (SalesInvoice) TableName() string {
	return "sales_invoices"
}

// SalesItem is one line of a sales invoice, keyed by (TxnNo, Sno).
type SalesItem struct {
	TxnNo     uint            `gorm:"primaryKey;autoIncrement:false" json:"TxnNo"`
	Sno       int             `gorm:"primaryKey;autoIncrement:false" json:"Sno"`
	ProductID uint            `gorm:"index;not null" json:"ProductID"`
	Quantity  decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"Quantity"`
	Rate      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"Rate"`
	Discount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"Discount"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"Amount"`

	ProductName *string `gorm:"->;-:migration" json:"ProductName"`
}

func (SalesItem) TableName() string {
	return "sales_items"
}
