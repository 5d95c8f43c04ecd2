package sales

import (
	"time"

	"github.com/shopspring/decimal"

	"sales_management/internal/models"
)

// DemoInvoices is the canned payload served when the store is down and demo fallback is on.
func DemoInvoices() []models.SalesInvoice {
	customer := "Demo Customer 1"
	first, second := "Demo Product 1", "Demo Product 2"
	return []models.SalesInvoice{
		{
			TxnNo:        1,
			TxnDate:      time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC),
			CustomerID:   1,
			CustomerName: &customer,
			Address:      "Demo Address 1",
			TotalQty:     decimal.NewFromInt(3),
			TotalAmount:  decimal.RequireFromString("150.00"),
			Items: []models.SalesItem{
				{
					TxnNo:       1,
					Sno:         1,
					ProductID:   1,
					ProductName: &first,
					Quantity:    decimal.NewFromInt(1),
					Rate:        decimal.NewFromInt(100),
					Discount:    decimal.Zero,
					Amount:      decimal.NewFromInt(100),
				},
				{
					TxnNo:       1,
					Sno:         2,
					ProductID:   2,
					ProductName: &second,
					Quantity:    decimal.NewFromInt(2),
					Rate:        decimal.NewFromInt(25),
					Discount:    decimal.Zero,
					Amount:      decimal.NewFromInt(50),
				},
			},
		},
	}
}
