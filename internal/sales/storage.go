package sales

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sales_management/internal/models"
)

var (
	// ErrNotFound is returned when an invoice with the given number does not exist.
	ErrNotFound = errors.New("sales invoice not found")
	// ErrUnknownCustomer is returned when the invoice references a missing customer.
	ErrUnknownCustomer = errors.New("customer does not exist")
	// ErrUnknownProduct is returned when a line references a missing product.
	ErrUnknownProduct = errors.New("product does not exist")
)

// Storage is the persistence layer for sales invoices.
type Storage interface {
	// CreateInvoice persists header and items atomically and returns the new transaction number.
	CreateInvoice(ctx context.Context, header *models.SalesInvoice, items []models.SalesItem) (uint, error)
	ListInvoices(ctx context.Context, opts ListOptions) ([]models.SalesInvoice, error)
	GetInvoice(ctx context.Context, txnNo uint) (*models.SalesInvoice, error)
}

// GormStorage stores invoices in the relational store.
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage creates a GormStorage over db.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

// CreateInvoice inserts the header then each item with Sno 1..N inside one transaction.
// Any failure rolls the whole invoice back.
func (s *GormStorage) CreateInvoice(ctx context.Context, header *models.SalesInvoice, items []models.SalesItem) (uint, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Customer{}, header.CustomerID, ErrUnknownCustomer); err != nil {
			return err
		}
		if err := tx.Create(header).Error; err != nil {
			return fmt.Errorf("insert invoice header: %w", err)
		}
		for i := range items {
			items[i].TxnNo = header.TxnNo
			items[i].Sno = i + 1
			if err := requireRow(tx, &models.Product{}, items[i].ProductID, ErrUnknownProduct); err != nil {
				return err
			}
			if err := tx.Create(&items[i]).Error; err != nil {
				return fmt.Errorf("insert invoice item %d: %w", items[i].Sno, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return header.TxnNo, nil
}

func requireRow(tx *gorm.DB, model any, id uint, missing error) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", missing, id)
	}
	return nil
}

// ListInvoices returns headers newest first, each with its items ordered by Sno.
func (s *GormStorage) ListInvoices(ctx context.Context, opts ListOptions) ([]models.SalesInvoice, error) {
	q := s.headers(ctx).
		Order("sales_invoices.txn_date DESC").
		Order("sales_invoices.txn_no DESC")
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit).Offset(opts.Offset)
	}

	headers := []models.SalesInvoice{}
	if err := q.Find(&headers).Error; err != nil {
		return nil, fmt.Errorf("list invoice headers: %w", err)
	}
	if err := s.attachItems(ctx, headers); err != nil {
		return nil, err
	}
	return headers, nil
}

// GetInvoice returns one invoice with its items.
func (s *GormStorage) GetInvoice(ctx context.Context, txnNo uint) (*models.SalesInvoice, error) {
	var header models.SalesInvoice
	err := s.headers(ctx).Where("sales_invoices.txn_no = ?", txnNo).Take(&header).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get invoice header: %w", err)
	}

	headers := []models.SalesInvoice{header}
	if err := s.attachItems(ctx, headers); err != nil {
		return nil, err
	}
	return &headers[0], nil
}

func (s *GormStorage) headers(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.SalesInvoice{}).
		Select("sales_invoices.*, customers.name AS customer_name").
		Joins("LEFT JOIN customers ON customers.id = sales_invoices.customer_id")
}

// itemChunk bounds the number of transaction numbers bound into one item query.
// Drivers cap bind parameters per statement (SQLite 32766, pgx 65535).
var itemChunk = 1000

// attachItems loads the items of every header in chunked queries and nests them.
func (s *GormStorage) attachItems(ctx context.Context, headers []models.SalesInvoice) error {
	if len(headers) == 0 {
		return nil
	}
	index := make(map[uint]int, len(headers))
	txnNos := make([]uint, len(headers))
	for i := range headers {
		headers[i].Items = []models.SalesItem{}
		index[headers[i].TxnNo] = i
		txnNos[i] = headers[i].TxnNo
	}

	for start := 0; start < len(txnNos); start += itemChunk {
		end := min(start+itemChunk, len(txnNos))

		var items []models.SalesItem
		err := s.db.WithContext(ctx).
			Model(&models.SalesItem{}).
			Select("sales_items.*, products.name AS product_name").
			Joins("LEFT JOIN products ON products.id = sales_items.product_id").
			Where("sales_items.txn_no IN ?", txnNos[start:end]).
			Order("sales_items.txn_no").
			Order("sales_items.sno").
			Find(&items).Error
		if err != nil {
			return fmt.Errorf("list invoice items: %w", err)
		}

		for _, it := range items {
			if i, ok := index[it.TxnNo]; ok {
				headers[i].Items = append(headers[i].Items, it)
			}
		}
	}
	return nil
}
