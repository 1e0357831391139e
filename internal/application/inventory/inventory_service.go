package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/catalog"
	"github.com/nepalmeatshop/backend/internal/domain/inventory"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
	"github.com/nepalmeatshop/backend/internal/domain/shared/valueobject"
)

// InventoryService handles admin stock corrections, the movement
// ledger, and low-stock alert configuration. Order deductions and
// cancellation restocks are written by checkout, not here.
type InventoryService struct {
	productRepo    catalog.ProductRepository
	txnRepo        inventory.StockTransactionRepository
	alertRepo      inventory.StockAlertRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(productRepo catalog.ProductRepository, txnRepo inventory.StockTransactionRepository, alertRepo inventory.StockAlertRepository, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		productRepo: productRepo,
		txnRepo:     txnRepo,
		alertRepo:   alertRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// AdjustStock applies an admin stock correction and records it in the
// movement ledger
func (s *InventoryService) AdjustStock(ctx context.Context, actorID, productID uuid.UUID, req AdjustStockRequest) (*AdjustmentResponse, error) {
	if req.DeltaKg.IsZero() {
		return nil, shared.NewDomainError("INVALID_DELTA", "Stock adjustment cannot be zero")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.DeltaKg.IsPositive() {
		weight, werr := valueobject.NewWeight(req.DeltaKg)
		if werr != nil {
			return nil, shared.NewDomainError("INVALID_DELTA", werr.Error())
		}
		err = product.AddStock(weight)
	} else {
		weight, werr := valueobject.NewWeight(req.DeltaKg.Neg())
		if werr != nil {
			return nil, shared.NewDomainError("INVALID_DELTA", werr.Error())
		}
		err = product.DeductStock(weight)
	}
	if err != nil {
		return nil, err
	}

	txn, err := inventory.NewStockTransaction(product.ID, req.DeltaKg, product.StockKg, inventory.TxnReasonAdminAdjustment, req.Reason)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("save product stock: %w", err)
	}
	if err := s.txnRepo.Append(ctx, txn.WithActor(actorID)); err != nil {
		// The stock change is already persisted at this point
		return nil, fmt.Errorf("record stock adjustment: %w", err)
	}

	s.publishEvents(ctx, product)

	s.logger.Info("Stock adjusted",
		zap.String("product", product.Name),
		zap.String("delta_kg", req.DeltaKg.String()),
		zap.String("stock_kg", product.StockKg.String()),
		zap.String("actor_id", actorID.String()))

	return &AdjustmentResponse{
		ProductID:   product.ID,
		ProductName: product.Name,
		DeltaKg:     req.DeltaKg,
		StockKg:     product.StockKg,
		Reason:      req.Reason,
	}, nil
}

// ListTransactions returns a product's movement ledger, newest first
func (s *InventoryService) ListTransactions(ctx context.Context, productID uuid.UUID, filter LedgerFilter) (*LedgerResult, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	txns, total, err := s.txnRepo.FindByProduct(ctx, productID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list stock transactions: %w", err)
	}

	items := make([]StockTransactionResponse, len(txns))
	for i, txn := range txns {
		items[i] = ToStockTransactionResponse(txn)
	}
	return &LedgerResult{Items: items, Total: total}, nil
}

// ListAlerts returns every alert configuration joined with current
// stock levels
func (s *InventoryService) ListAlerts(ctx context.Context) ([]StockAlertResponse, error) {
	alerts, err := s.alertRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stock alerts: %w", err)
	}
	if len(alerts) == 0 {
		return []StockAlertResponse{}, nil
	}

	ids := make([]uuid.UUID, len(alerts))
	for i, alert := range alerts {
		ids[i] = alert.ProductID
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load alert products: %w", err)
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	responses := make([]StockAlertResponse, len(alerts))
	for i, alert := range alerts {
		responses[i] = ToStockAlertResponse(alert, byID[alert.ProductID])
	}
	return responses, nil
}

// ConfigureAlert creates or updates a product's low-stock alert
func (s *InventoryService) ConfigureAlert(ctx context.Context, productID uuid.UUID, req ConfigureAlertRequest) (*StockAlertResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	alert, err := s.alertRepo.FindByProduct(ctx, productID)
	if errors.Is(err, shared.ErrNotFound) {
		alert, err = inventory.NewStockAlert(productID)
	}
	if err != nil {
		return nil, err
	}

	if req.ThresholdKg != nil {
		if err := alert.SetThreshold(*req.ThresholdKg); err != nil {
			return nil, err
		}
	}
	if req.Active != nil && *req.Active != alert.Active {
		if *req.Active {
			err = alert.Activate()
		} else {
			err = alert.Deactivate()
		}
		if err != nil {
			return nil, err
		}
	}

	if err := s.alertRepo.Save(ctx, alert); err != nil {
		return nil, fmt.Errorf("save stock alert: %w", err)
	}

	resp := ToStockAlertResponse(alert, product)
	return &resp, nil
}

// SweepLowStock raises ProductStockLow events for products sitting at
// or below their alert threshold. The scheduler runs it periodically;
// the event handler applies the alert cooldown before notifying.
func (s *InventoryService) SweepLowStock(ctx context.Context) (*SweepResult, error) {
	now := time.Now()
	result := &SweepResult{}
	due := make(map[uuid.UUID]*catalog.Product)

	// Products under the default threshold, whether or not an alert
	// row was ever configured
	lowStock, err := s.productRepo.FindLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("find low stock products: %w", err)
	}
	for i := range lowStock {
		due[lowStock[i].ID] = &lowStock[i]
	}
	result.Checked = len(lowStock)

	// Configured alerts can raise the bar above the default
	alerts, err := s.alertRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("find active alerts: %w", err)
	}
	alertByProduct := make(map[uuid.UUID]*inventory.StockAlert, len(alerts))
	missing := make([]uuid.UUID, 0, len(alerts))
	for _, alert := range alerts {
		alertByProduct[alert.ProductID] = alert
		if _, ok := due[alert.ProductID]; !ok {
			missing = append(missing, alert.ProductID)
		}
	}
	if len(missing) > 0 {
		products, err := s.productRepo.FindByIDs(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("load alert products: %w", err)
		}
		result.Checked += len(products)
		for i := range products {
			p := &products[i]
			if p.StockKg.LessThanOrEqual(alertByProduct[p.ID].ThresholdKg) {
				due[p.ID] = p
			}
		}
	}

	for _, p := range due {
		if alert, ok := alertByProduct[p.ID]; ok && !alert.ShouldAlert(p.StockKg, now) {
			continue
		}
		if s.eventPublisher != nil {
			if err := s.eventPublisher.Publish(ctx, catalog.NewProductStockLowEvent(p)); err != nil {
				s.logger.Warn("Failed to publish low stock event",
					zap.String("product", p.Name), zap.Error(err))
				continue
			}
		}
		result.Raised++
	}

	if result.Raised > 0 {
		s.logger.Info("Low stock sweep raised alerts",
			zap.Int("checked", result.Checked),
			zap.Int("raised", result.Raised))
	}
	return result, nil
}

// publishEvents publishes the product's pending domain events
func (s *InventoryService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range product.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish stock event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	product.ClearDomainEvents()
}
