package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nepalmeatshop/backend/internal/domain/catalog"
	"github.com/nepalmeatshop/backend/internal/domain/inventory"
	"github.com/nepalmeatshop/backend/internal/domain/order"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
	"github.com/nepalmeatshop/backend/internal/domain/shared/valueobject"
)

// GormCheckoutStore implements order.CheckoutStore. Stock rows are
// locked for the duration of the transaction, so two concurrent
// checkouts for the last kilo cannot both succeed.
type GormCheckoutStore struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormCheckoutStore creates a new GormCheckoutStore
func NewGormCheckoutStore(db *gorm.DB) *GormCheckoutStore {
	return &GormCheckoutStore{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (s *GormCheckoutStore) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	s.outboxSaver = saver
}

// PlaceOrder persists a placed order, deducts stock for every line
// under row locks, appends deduction ledger entries, and writes the
// order events plus raised stock events to the outbox, all in one
// transaction
func (s *GormCheckoutStore) PlaceOrder(ctx context.Context, o *order.Order, events []shared.DomainEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var offending []string
		products := make([]*catalog.Product, 0, len(o.Items))
		ledger := make([]*inventory.StockTransaction, 0, len(o.Items))

		for _, item := range o.Items {
			product, err := s.lockProduct(tx, item.ProductID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					offending = append(offending, fmt.Sprintf("%s: no longer available", item.ProductName))
					continue
				}
				return err
			}
			if !product.IsActive() {
				offending = append(offending, fmt.Sprintf("%s: no longer available", item.ProductName))
				continue
			}

			weight, err := valueobject.NewWeight(item.QuantityKg)
			if err != nil {
				return err
			}
			if err := product.DeductStock(weight); err != nil {
				if errors.Is(err, shared.ErrInsufficientStock) {
					offending = append(offending, fmt.Sprintf("%s: only %s kg available",
						item.ProductName, product.StockKg.String()))
					continue
				}
				return err
			}

			txn, err := inventory.NewStockTransaction(
				product.ID, item.QuantityKg.Neg(), product.StockKg,
				inventory.TxnReasonOrderDeduction, "Order "+o.OrderNumber)
			if err != nil {
				return err
			}
			txn.WithOrder(o.ID)

			products = append(products, product)
			ledger = append(ledger, txn)
		}

		if len(offending) > 0 {
			return shared.NewDomainError("INSUFFICIENT_STOCK",
				"Some items can no longer be fulfilled: "+strings.Join(offending, "; "))
		}

		// Insert the order and its lines
		if err := tx.Omit("Items").Create(o).Error; err != nil {
			return err
		}
		for i := range o.Items {
			o.Items[i].OrderID = o.ID
			if err := tx.Create(&o.Items[i]).Error; err != nil {
				return err
			}
		}

		// Persist the deducted stock and the ledger rows
		stockEvents := make([]shared.DomainEvent, 0, len(products))
		for _, product := range products {
			if err := tx.Save(product).Error; err != nil {
				return err
			}
			stockEvents = append(stockEvents, product.GetDomainEvents()...)
			product.ClearDomainEvents()
		}
		for _, txn := range ledger {
			if err := tx.Create(txn).Error; err != nil {
				return err
			}
		}

		// Save events to outbox within the same transaction
		if err := s.saveEvents(ctx, tx, events, stockEvents); err != nil {
			return err
		}

		return nil
	})
}

// CancelOrder persists a cancelled order and restocks every line,
// appending restock ledger entries and writing the order events plus
// raised stock events to the outbox, all in one transaction
func (s *GormCheckoutStore) CancelOrder(ctx context.Context, o *order.Order, events []shared.DomainEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stockEvents := make([]shared.DomainEvent, 0, len(o.Items))

		for _, item := range o.Items {
			product, err := s.lockProduct(tx, item.ProductID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					// Product was removed since the order was placed;
					// there is nothing left to restock.
					continue
				}
				return err
			}

			weight, err := valueobject.NewWeight(item.QuantityKg)
			if err != nil {
				return err
			}
			if err := product.AddStock(weight); err != nil {
				return err
			}

			txn, err := inventory.NewStockTransaction(
				product.ID, item.QuantityKg, product.StockKg,
				inventory.TxnReasonCancellationRestock, "Cancelled order "+o.OrderNumber)
			if err != nil {
				return err
			}
			txn.WithOrder(o.ID)

			if err := tx.Save(product).Error; err != nil {
				return err
			}
			if err := tx.Create(txn).Error; err != nil {
				return err
			}

			stockEvents = append(stockEvents, product.GetDomainEvents()...)
			product.ClearDomainEvents()
		}

		if err := tx.Omit("Items").Save(o).Error; err != nil {
			return err
		}

		// Save events to outbox within the same transaction
		if err := s.saveEvents(ctx, tx, events, stockEvents); err != nil {
			return err
		}

		return nil
	})
}

// saveEvents writes order and stock events to the outbox within the transaction
func (s *GormCheckoutStore) saveEvents(ctx context.Context, tx *gorm.DB, events, stockEvents []shared.DomainEvent) error {
	if s.outboxSaver == nil {
		return nil
	}
	all := make([]shared.DomainEvent, 0, len(events)+len(stockEvents))
	all = append(all, events...)
	all = append(all, stockEvents...)
	if len(all) == 0 {
		return nil
	}
	if err := s.outboxSaver.SaveEvents(ctx, tx, all...); err != nil {
		return fmt.Errorf("failed to save events to outbox: %w", err)
	}
	return nil
}

// lockProduct loads a product row under a FOR UPDATE lock
func (s *GormCheckoutStore) lockProduct(tx *gorm.DB, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Ensure GormCheckoutStore implements CheckoutStore
var _ order.CheckoutStore = (*GormCheckoutStore)(nil)
