package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"tiendapos/internal/domain"
	"tiendapos/internal/port"
)

// DefaultCustomer is recorded when a sale carries no customer reference.
const DefaultCustomer = "Consumidor final"

// CheckoutInput is the DTO for recording a sale.
type CheckoutInput struct {
	CustomerRef string            `json:"customer_ref"`
	Items       []domain.CartItem `json:"items" validate:"required,min=1,dive"`
}

// SalesService records point-of-sale transactions against the inventory.
type SalesService interface {
	Checkout(ctx context.Context, input CheckoutInput) (*domain.Sale, error)
}

type salesService struct {
	inventory port.InventoryRepository
	sales     port.SalesRepository
	validate  *validator.Validate
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewSalesService creates a new SalesService implementation.
func NewSalesService(inventory port.InventoryRepository, sales port.SalesRepository, log logrus.FieldLogger) SalesService {
	return &salesService{
		inventory: inventory,
		sales:     sales,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		log:       log,
		now:       time.Now,
	}
}

func (s *salesService) Checkout(ctx context.Context, input CheckoutInput) (*domain.Sale, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, verrs.Error())
		}
		return nil, fmt.Errorf("salesService.Checkout: %w", err)
	}
	for i := range input.Items {
		if !input.Items[i].Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: item %s", domain.ErrInvalidQuantity, input.Items[i].ProductID)
		}
		if p := input.Items[i].UnitPrice; p != nil && p.IsNegative() {
			return nil, fmt.Errorf("%w: negative price for %s", domain.ErrInvalidInput, input.Items[i].ProductID)
		}
	}

	records, err := s.inventory.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("salesService.Checkout: %w", err)
	}
	byID := make(map[string]*domain.InventoryRecord, len(records))
	for i := range records {
		if _, dup := byID[records[i].ProductID]; !dup {
			byID[records[i].ProductID] = &records[i]
		}
	}

	// Price every item and total the demand per product before touching the store.
	items := make([]domain.SaleItem, 0, len(input.Items))
	demand := make(map[string]decimal.Decimal)
	var order []string
	total := decimal.Zero
	for i := range input.Items {
		ci := &input.Items[i]
		rec, ok := byID[ci.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, ci.ProductID)
		}
		price := ci.UnitPrice
		if price == nil {
			price = rec.Price
		}
		if price == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrPriceNotSet, ci.ProductID)
		}
		lineTotal := price.Mul(ci.Quantity)
		items = append(items, domain.SaleItem{
			ProductID: rec.ProductID,
			Name:      rec.Name,
			Quantity:  ci.Quantity,
			UnitPrice: *price,
			Total:     lineTotal,
		})
		total = total.Add(lineTotal)

		if _, seen := demand[rec.ProductID]; !seen {
			order = append(order, rec.ProductID)
		}
		demand[rec.ProductID] = demand[rec.ProductID].Add(ci.Quantity)
	}

	updates := make([]domain.FieldUpdate, 0, len(order))
	for _, id := range order {
		rec := byID[id]
		if rec.Stock.LessThan(demand[id]) {
			return nil, fmt.Errorf("%w: %s has %s, requested %s", domain.ErrInsufficientStock, id, rec.Stock, demand[id])
		}
		updates = append(updates, domain.FieldUpdate{
			RowKey: rec.RowKey,
			Fields: map[string]string{domain.ColStock: rec.Stock.Sub(demand[id]).String()},
		})
	}

	if err := s.inventory.UpdateFields(ctx, updates); err != nil {
		s.log.WithField("products", len(updates)).Errorf("salesService.Checkout: stock decrement failed: %v", err)
		return nil, &domain.StoreWriteError{Op: domain.StoreOpUpdate, Err: err}
	}

	customer := strings.TrimSpace(input.CustomerRef)
	if customer == "" {
		customer = DefaultCustomer
	}
	sale := &domain.Sale{
		ID:          uuid.New().String(),
		CreatedAt:   s.now().UTC(),
		CustomerRef: customer,
		Items:       items,
		Total:       total,
		Summary:     saleSummary(items),
	}

	if err := s.sales.Append(ctx, sale); err != nil {
		s.log.WithField("sale_id", sale.ID).Errorf("salesService.Checkout: stock decremented but sale row not written: %v", err)
		return nil, &domain.StoreWriteError{Op: domain.StoreOpAppend, Err: err}
	}

	s.log.WithFields(logrus.Fields{
		"sale_id": sale.ID,
		"items":   len(items),
		"total":   total.StringFixed(2),
	}).Info("salesService.Checkout: sale recorded")
	return sale, nil
}

func saleSummary(items []domain.SaleItem) string {
	parts := make([]string, 0, len(items))
	for i := range items {
		parts = append(parts, fmt.Sprintf("%s x %s", items[i].Quantity, items[i].Name))
	}
	return strings.Join(parts, "; ")
}
