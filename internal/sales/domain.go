package sales

import (
	"github.com/shopspring/decimal"

	"sales_management/internal/models"
)

// CreateInvoiceInput is what a caller submits to create a sales invoice.
// TotalQty and TotalAmount are caller-supplied aggregates.
type CreateInvoiceInput struct {
	CustomerID  uint
	Address     string
	TotalQty    decimal.Decimal
	TotalAmount decimal.Decimal
	Items       []LineItemInput
}

// LineItemInput is one requested invoice line. The sequence number is assigned by the writer.
type LineItemInput struct {
	ProductID uint
	Quantity  decimal.Decimal
	Rate      decimal.Decimal
	Discount  decimal.Decimal
	Amount    decimal.Decimal
}

// ListOptions bounds an invoice listing. A zero Limit lists the whole history.
type ListOptions struct {
	Limit  int
	Offset int
}

// MaxListLimit caps a single page of invoices.
const MaxListLimit = 500

func (in CreateInvoiceInput) header() *models.SalesInvoice {
	return &models.SalesInvoice{
		CustomerID:  in.CustomerID,
		Address:     in.Address,
		TotalQty:    in.TotalQty,
		TotalAmount: in.TotalAmount,
	}
}

func (in CreateInvoiceInput) lines() []models.SalesItem {
	items := make([]models.SalesItem, len(in.Items))
	for i, it := range in.Items {
		items[i] = models.SalesItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Rate:      it.Rate,
			Discount:  it.Discount,
			Amount:    it.Amount,
		}
	}
	return items
}

// totalsMatch reports whether the header aggregates equal the sums of the lines.
func (in CreateInvoiceInput) totalsMatch() bool {
	qty, amount := decimal.Zero, decimal.Zero
	for _, it := range in.Items {
		qty = qty.Add(it.Quantity)
		amount = amount.Add(it.Amount)
	}
	return qty.Equal(in.TotalQty) && amount.Equal(in.TotalAmount)
}
