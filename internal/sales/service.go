package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sales_management/internal/models"
)

var (
	// ErrEmptyInvoice is returned when an invoice has no line items.
	ErrEmptyInvoice = errors.New("invoice must have at least one item")
	// ErrTotalsMismatch is returned when header totals differ from the item sums.
	ErrTotalsMismatch = errors.New("invoice totals do not match line items")
)

// Options tunes the invoice service.
type Options struct {
	// EnforceTotals rejects invoices whose TotalQty/TotalAmount differ from the item sums.
	// When false the header aggregates are stored as the caller sent them.
	EnforceTotals bool
	// DemoFallback answers list calls with DemoInvoices when the store fails.
	DemoFallback bool
	// Now overrides the clock that stamps TxnDate.
	Now func() time.Time
}

// Service provides sales invoice creation and retrieval on a Storage backend.
type Service struct {
	storage Storage
	logger  *zap.Logger
	opts    Options
}

// NewService creates a new Service.
func NewService(storage Storage, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		storage: storage,
		logger:  logger,
		opts:    opts,
	}
}

// CreateInvoice persists the invoice and returns its transaction number.
// TxnDate is always taken from the server clock.
func (s *Service) CreateInvoice(ctx context.Context, in CreateInvoiceInput) (uint, error) {
	if len(in.Items) == 0 {
		return 0, ErrEmptyInvoice
	}
	if s.opts.EnforceTotals && !in.totalsMatch() {
		return 0, ErrTotalsMismatch
	}

	header := in.header()
	header.TxnDate = s.opts.Now().UTC()

	txnNo, err := s.storage.CreateInvoice(ctx, header, in.lines())
	if err != nil {
		s.logger.Error("failed to create sales invoice",
			zap.Uint("customer_id", in.CustomerID),
			zap.Int("items", len(in.Items)),
			zap.Error(err),
		)
		return 0, fmt.Errorf("create sales invoice: %w", err)
	}

	s.logger.Info("sales invoice created",
		zap.Uint("txn_no", txnNo),
		zap.Uint("customer_id", in.CustomerID),
		zap.Int("items", len(in.Items)),
		zap.String("total_amount", in.TotalAmount.String()),
	)
	return txnNo, nil
}

// ListInvoices returns invoices newest first with nested items.
// When DemoFallback is set a store failure yields DemoInvoices instead of an error.
func (s *Service) ListInvoices(ctx context.Context, opts ListOptions) ([]models.SalesInvoice, error) {
	if opts.Limit > MaxListLimit {
		opts.Limit = MaxListLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	invoices, err := s.storage.ListInvoices(ctx, opts)
	if err != nil {
		if s.opts.DemoFallback {
			s.logger.Warn("serving demo invoices after store failure", zap.Error(err))
			return DemoInvoices(), nil
		}
		s.logger.Error("failed to list sales invoices", zap.Error(err))
		return nil, fmt.Errorf("list sales invoices: %w", err)
	}
	return invoices, nil
}

// GetInvoice returns a single invoice with its items.
func (s *Service) GetInvoice(ctx context.Context, txnNo uint) (*models.SalesInvoice, error) {
	invoice, err := s.storage.GetInvoice(ctx, txnNo)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("failed to get sales invoice", zap.Uint("txn_no", txnNo), zap.Error(err))
		}
		return nil, err
	}
	return invoice, nil
}
