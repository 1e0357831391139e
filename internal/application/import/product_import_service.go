package importapp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/bulk"
	"github.com/nepalmeatshop/backend/internal/domain/catalog"
	"github.com/nepalmeatshop/backend/internal/domain/inventory"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
	"github.com/nepalmeatshop/backend/internal/domain/shared/valueobject"
	csvimport "github.com/nepalmeatshop/backend/internal/infrastructure/import"
)

// ProductImportResult represents the result of a product import operation
type ProductImportResult struct {
	HistoryID    uuid.UUID            `json:"history_id"`
	TotalRows    int                  `json:"total_rows"`
	ImportedRows int                  `json:"imported_rows"`
	UpdatedRows  int                  `json:"updated_rows"`
	SkippedRows  int                  `json:"skipped_rows"`
	ErrorRows    int                  `json:"error_rows"`
	Errors       []csvimport.RowError `json:"errors,omitempty"`
	IsTruncated  bool                 `json:"is_truncated,omitempty"`
	TotalErrors  int                  `json:"total_errors,omitempty"`
}

// ProductImportService handles bulk product uploads. Each import is
// tracked as an ImportHistory record; stock loaded through an import
// is written to the stock movement ledger.
type ProductImportService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	historyRepo  bulk.ImportHistoryRepository
	stockTxnRepo inventory.StockTransactionRepository
	eventBus     shared.EventPublisher
	logger       *zap.Logger
}

// NewProductImportService creates a new ProductImportService
func NewProductImportService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	historyRepo bulk.ImportHistoryRepository,
	stockTxnRepo inventory.StockTransactionRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *ProductImportService {
	return &ProductImportService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		historyRepo:  historyRepo,
		stockTxnRepo: stockTxnRepo,
		eventBus:     eventBus,
		logger:       logger,
	}
}

// GetValidationRules returns the validation rules for product import.
// The rules mirror what product creation enforces; the category column
// holds the category's English name, not an ID.
func (s *ProductImportService) GetValidationRules() []csvimport.FieldRule {
	zero := decimal.Zero
	return []csvimport.FieldRule{
		csvimport.Field("name").Required().String().MinLength(1).MaxLength(200).Unique().Build(),
		csvimport.Field("name_nepali").String().MaxLength(200).Build(),
		csvimport.Field("category").Required().String().MaxLength(100).Reference("category").Build(),
		csvimport.Field("meat_type").Required().String().Custom(validateMeatTypeColumn).Build(),
		csvimport.Field("preparation_type").String().Custom(validatePreparationTypeColumn).Build(),
		csvimport.Field("price_per_kg").Required().Decimal().MinValue(zero).Build(),
		csvimport.Field("stock_kg").Decimal().MinValue(zero).Build(),
		csvimport.Field("min_order_kg").Decimal().MinValue(zero).Build(),
		csvimport.Field("description").String().Build(),
		csvimport.Field("cooking_tips").String().Build(),
		csvimport.Field("image_url").String().MaxLength(500).Build(),
		csvimport.Field("featured").Bool().Build(),
	}
}

// validateMeatTypeColumn validates the meat_type field
func validateMeatTypeColumn(value string) error {
	if value == "" {
		return nil // required check reports the empty case
	}
	for _, mt := range catalog.ValidMeatTypes {
		if string(mt) == value {
			return nil
		}
	}
	return fmt.Errorf("meat_type must be one of: pork, buffalo, chicken, goat, mutton, fish")
}

// validatePreparationTypeColumn validates the preparation_type field
func validatePreparationTypeColumn(value string) error {
	if value == "" {
		return nil // optional field, defaults to fresh
	}
	for _, pt := range catalog.ValidPreparationTypes {
		if string(pt) == value {
			return nil
		}
	}
	return fmt.Errorf("preparation_type must be one of: fresh, frozen, marinated, cut")
}

// LookupCategory reports whether a category with the given English name
// exists. It backs the reference check during CSV validation.
func (s *ProductImportService) LookupCategory(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return true, nil // empty is caught by the required check
	}
	_, err := s.categoryRepo.FindByName(ctx, name)
	if err != nil {
		if err == shared.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Import imports products from validated rows. Rows that failed
// validation were already excluded; this processes the valid remainder
// and records the combined outcome, validation errors included, in the
// import history.
func (s *ProductImportService) Import(
	ctx context.Context,
	userID uuid.UUID,
	session *csvimport.ImportSession,
	validRows []*csvimport.Row,
	conflictMode csvimport.ConflictMode,
) (*ProductImportResult, error) {
	if session.State != csvimport.StateValidated {
		return nil, shared.NewDomainError("INVALID_STATE", "Import session must be in validated state")
	}
	if !session.HasImportableRows() {
		return nil, shared.NewDomainError("NO_IMPORTABLE_ROWS", "No rows passed validation")
	}
	if !conflictMode.IsValid() {
		return nil, shared.NewDomainError("INVALID_CONFLICT_MODE", fmt.Sprintf("Invalid conflict mode: %s", conflictMode))
	}

	history, err := bulk.NewImportHistory(session.FileName, session.FileSize, bulk.ConflictMode(conflictMode), userID)
	if err != nil {
		return nil, err
	}
	if err := history.StartProcessing(session.TotalRows); err != nil {
		return nil, err
	}
	if err := s.historyRepo.Save(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to save import history: %w", err)
	}

	session.UpdateState(csvimport.StateImporting)

	result := &ProductImportResult{
		HistoryID: history.ID,
		TotalRows: len(validRows),
	}
	importErrors := csvimport.NewErrorCollection(100)

	for _, row := range validRows {
		select {
		case <-ctx.Done():
			session.UpdateState(csvimport.StateCancelled)
			s.finishHistory(context.WithoutCancel(ctx), history, func() error {
				return history.Cancel()
			})
			return nil, ctx.Err()
		default:
		}

		if err := s.importRow(ctx, userID, row, conflictMode, result, importErrors); err != nil {
			// Repository failure, not a row problem. Stop the import.
			session.UpdateState(csvimport.StateFailed)
			details := mergeErrorDetails(session, importErrors)
			s.finishHistory(context.WithoutCancel(ctx), history, func() error {
				return history.Fail(details)
			})
			return nil, err
		}
	}

	result.Errors = importErrors.Errors()
	result.IsTruncated = importErrors.IsTruncated()
	result.TotalErrors = importErrors.TotalCount()

	details := mergeErrorDetails(session, importErrors)
	s.finishHistory(ctx, history, func() error {
		return history.Complete(result.ImportedRows, session.ErrorRows+result.ErrorRows,
			result.SkippedRows, result.UpdatedRows, details)
	})

	if result.ErrorRows > 0 && result.ImportedRows == 0 && result.UpdatedRows == 0 {
		session.UpdateState(csvimport.StateFailed)
	} else {
		session.UpdateState(csvimport.StateCompleted)
	}

	return result, nil
}

// finishHistory applies a terminal transition to the history record and
// saves it. The import outcome stands even if the bookkeeping write
// fails, so failures are logged rather than returned.
func (s *ProductImportService) finishHistory(ctx context.Context, history *bulk.ImportHistory, transition func() error) {
	if err := transition(); err != nil {
		s.logger.Warn("Failed to finalize import history",
			zap.String("history_id", history.ID.String()), zap.Error(err))
		return
	}
	if err := s.historyRepo.Save(ctx, history); err != nil {
		s.logger.Warn("Failed to save import history",
			zap.String("history_id", history.ID.String()), zap.Error(err))
	}
}

// importRow imports a single product row
func (s *ProductImportService) importRow(
	ctx context.Context,
	userID uuid.UUID,
	row *csvimport.Row,
	conflictMode csvimport.ConflictMode,
	result *ProductImportResult,
	errors *csvimport.ErrorCollection,
) error {
	name := row.Get("name")
	nameNepali := row.Get("name_nepali")
	categoryName := row.Get("category")
	meatTypeStr := row.Get("meat_type")
	prepStr := row.GetOrDefault("preparation_type", string(catalog.PreparationFresh))
	priceStr := row.Get("price_per_kg")
	stockStr := row.Get("stock_kg")
	minOrderStr := row.Get("min_order_kg")
	description := row.Get("description")
	cookingTips := row.Get("cooking_tips")
	imageURL := row.Get("image_url")
	featuredStr := row.Get("featured")

	pricePerKg, err := decimal.NewFromString(priceStr)
	if err != nil {
		errors.Add(csvimport.NewRowError(row.LineNumber, "price_per_kg", csvimport.ErrCodeImportInvalidType, "invalid decimal value"))
		result.ErrorRows++
		return nil
	}

	var stockKg decimal.Decimal
	if stockStr != "" {
		stockKg, err = decimal.NewFromString(stockStr)
		if err != nil {
			errors.Add(csvimport.NewRowError(row.LineNumber, "stock_kg", csvimport.ErrCodeImportInvalidType, "invalid decimal value"))
			result.ErrorRows++
			return nil
		}
	}

	// Existing products are matched by English name
	existing, err := s.productRepo.FindByName(ctx, name)
	if err != nil && err != shared.ErrNotFound {
		return fmt.Errorf("failed to check existing product: %w", err)
	}

	if existing != nil {
		switch conflictMode {
		case csvimport.ConflictModeSkip:
			result.SkippedRows++
			return nil
		case csvimport.ConflictModeFail:
			errors.Add(csvimport.NewRowErrorWithValue(row.LineNumber, "name", csvimport.ErrCodeImportDuplicateInDB,
				fmt.Sprintf("product named '%s' already exists", name), name))
			result.ErrorRows++
			return nil
		case csvimport.ConflictModeUpdate:
			return s.updateExistingProduct(ctx, userID, existing, row, result, errors)
		}
	}

	category, err := s.categoryRepo.FindByName(ctx, categoryName)
	if err != nil {
		if err == shared.ErrNotFound {
			errors.Add(csvimport.NewRowErrorWithValue(row.LineNumber, "category", csvimport.ErrCodeImportReferenceNotFound,
				fmt.Sprintf("category '%s' not found", categoryName), categoryName))
			result.ErrorRows++
			return nil
		}
		return fmt.Errorf("failed to look up category: %w", err)
	}

	product, err := catalog.NewProduct(name, nameNepali, category.ID, catalog.MeatType(meatTypeStr), valueobject.NewMoneyNPR(pricePerKg))
	if err != nil {
		errors.Add(csvimport.NewRowError(row.LineNumber, "", csvimport.ErrCodeImportValidation, err.Error()))
		result.ErrorRows++
		return nil
	}

	if prepStr != string(catalog.PreparationFresh) {
		if err := product.SetPreparationType(catalog.PreparationType(prepStr)); err != nil {
			errors.Add(csvimport.NewRowError(row.LineNumber, "preparation_type", csvimport.ErrCodeImportValidation, err.Error()))
			result.ErrorRows++
			return nil
		}
	}

	if description != "" || cookingTips != "" {
		if err := product.Update(name, nameNepali, description, cookingTips); err != nil {
			errors.Add(csvimport.NewRowError(row.LineNumber, "description", csvimport.ErrCodeImportValidation, err.Error()))
			result.ErrorRows++
			return nil
		}
	}

	if imageURL != "" {
		if err := product.SetImageURL(imageURL); err != nil {
			errors.Add(csvimport.NewRowError(row.LineNumber, "image_url", csvimport.ErrCodeImportValidation, err.Error()))
			result.ErrorRows++
			return nil
		}
	}

	if minOrderStr != "" {
		minOrderKg, err := decimal.NewFromString(minOrderStr)
		if err != nil {
			errors.Add(csvimport.NewRowError(row.LineNumber, "min_order_kg", csvimport.ErrCodeImportInvalidType, "invalid decimal value"))
			result.ErrorRows++
			return nil
		}
		if err := product.SetMinOrderKg(minOrderKg); err != nil {
			errors.Add(csvimport.NewRowError(row.LineNumber, "min_order_kg", csvimport.ErrCodeImportValidation, err.Error()))
			result.ErrorRows++
			return nil
		}
	}

	if featuredStr != "" {
		featured, err := csvimport.ParseBool(featuredStr)
		if err != nil {
			errors.Add(csvimport.NewRowErrorWithValue(row.LineNumber, "featured", csvimport.ErrCodeImportInvalidType,
				"invalid boolean value", featuredStr))
			result.ErrorRows++
			return nil
		}
		product.SetFeatured(featured)
	}

	if stockKg.IsPositive() {
		weight, werr := valueobject.NewWeight(stockKg)
		if werr == nil {
			werr = product.AddStock(weight)
		}
		if werr != nil {
			errors.Add(csvimport.NewRowError(row.LineNumber, "stock_kg", csvimport.ErrCodeImportValidation, werr.Error()))
			result.ErrorRows++
			return nil
		}
	}

	// Imported products stay hidden from the storefront until an admin
	// reviews them. NewProduct always starts active, so this cannot fail.
	_ = product.Deactivate()

	if err := s.productRepo.Save(ctx, product); err != nil {
		errors.Add(csvimport.NewRowError(row.LineNumber, "", csvimport.ErrCodeImportValidation, "failed to save product: "+err.Error()))
		result.ErrorRows++
		return nil
	}

	if stockKg.IsPositive() {
		s.recordStockMovement(ctx, userID, product, stockKg)
	}

	s.publishEvents(ctx, product)

	result.ImportedRows++
	return nil
}

// updateExistingProduct updates an existing product with import data.
// Empty optional cells keep the product's current values, so a partial
// CSV does not erase Nepali names or descriptions.
func (s *ProductImportService) updateExistingProduct(
	ctx context.Context,
	userID uuid.UUID,
	product *catalog.Product,
	row *csvimport.Row,
	result *ProductImportResult,
	errors *csvimport.ErrorCollection,
) error {
	name := row.Get("name")
	nameNepali := row.GetOrDefault("name_nepali", product.NameNepali)
	description := row.GetOrDefault("description", product.Description)
	cookingTips := row.GetOrDefault("cooking_tips", product.CookingTips)

	if err := product.Update(name, nameNepali, description, cookingTips); err != nil {
		errors.Add(csvimport.NewRowError(row.LineNumber, "name", csvimport.ErrCodeImportValidation, err.Error()))
		result.ErrorRows++
		return nil
	}

	categoryName := row.Get("category")
	category, err := s.categoryRepo.FindByName(ctx, categoryName)
	if err != nil {
		if err == shared.ErrNotFound {
			errors.Add(csvimport.NewRowErrorWithValue(row.LineNumber, "category", csvimport.ErrCodeImportReferenceNotFound,
				fmt.Sprintf("category '%s' not found", categoryName), categoryName))
			result.ErrorRows++
			return nil
		}
		return fmt.Errorf("failed to look up category: %w", err)
	}
	if category.ID != product.CategoryID {
		if err := product.SetCategory(category.ID); err != nil {
			errors.Add(csvimport.NewRowError(row.LineNumber, "category", csvimport.ErrCodeImportValidation, err.Error()))
			result.ErrorRows++
			return nil
		}
	}

	if meatType := catalog.MeatType(row.Get("meat_type")); meatType != product.MeatType {
		if err := product.SetMeatType(meatType); err != nil {
			errors.Add(csvimport.NewRowError(row.LineNumber, "meat_type", csvimport.ErrCodeImportValidation, err.Error()))
			result.ErrorRows++
			return nil
		}
	}

	if prepStr := row.Get("preparation_type"); prepStr != "" {
		if prep := catalog.PreparationType(prepStr); prep != product.PreparationType {
			if err := product.SetPreparationType(prep); err != nil {
				errors.Add(csvimport.NewRowError(row.LineNumber, "preparation_type", csvimport.ErrCodeImportValidation, err.Error()))
				result.ErrorRows++
				return nil
			}
		}
	}

	pricePerKg, err := decimal.NewFromString(row.Get("price_per_kg"))
	if err != nil {
		errors.Add(csvimport.NewRowError(row.LineNumber, "price_per_kg", csvimport.ErrCodeImportInvalidType, "invalid decimal value"))
		result.ErrorRows++
		return nil
	}
	if !pricePerKg.Equal(product.PricePerKg) {
		if err := product.SetPrice(valueobject.NewMoneyNPR(pricePerKg)); err != nil {
			errors.Add(csvimport.NewRowError(row.LineNumber, "price_per_kg", csvimport.ErrCodeImportValidation, err.Error()))
			result.ErrorRows++
			return nil
		}
	}

	if minOrderStr := row.Get("min_order_kg"); minOrderStr != "" {
		minOrderKg, err := decimal.NewFromString(minOrderStr)
		if err != nil {
			errors.Add(csvimport.NewRowError(row.LineNumber, "min_order_kg", csvimport.ErrCodeImportInvalidType, "invalid decimal value"))
			result.ErrorRows++
			return nil
		}
		if err := product.SetMinOrderKg(minOrderKg); err != nil {
			errors.Add(csvimport.NewRowError(row.LineNumber, "min_order_kg", csvimport.ErrCodeImportValidation, err.Error()))
			result.ErrorRows++
			return nil
		}
	}

	if imageURL := row.Get("image_url"); imageURL != "" {
		if err := product.SetImageURL(imageURL); err != nil {
			errors.Add(csvimport.NewRowError(row.LineNumber, "image_url", csvimport.ErrCodeImportValidation, err.Error()))
			result.ErrorRows++
			return nil
		}
	}

	if featuredStr := row.Get("featured"); featuredStr != "" {
		featured, err := csvimport.ParseBool(featuredStr)
		if err != nil {
			errors.Add(csvimport.NewRowErrorWithValue(row.LineNumber, "featured", csvimport.ErrCodeImportInvalidType,
				"invalid boolean value", featuredStr))
			result.ErrorRows++
			return nil
		}
		product.SetFeatured(featured)
	}

	// stock_kg on an update adds incoming stock, delivery manifest style
	var stockKg decimal.Decimal
	if stockStr := row.Get("stock_kg"); stockStr != "" {
		stockKg, err = decimal.NewFromString(stockStr)
		if err != nil {
			errors.Add(csvimport.NewRowError(row.LineNumber, "stock_kg", csvimport.ErrCodeImportInvalidType, "invalid decimal value"))
			result.ErrorRows++
			return nil
		}
		if stockKg.IsPositive() {
			weight, werr := valueobject.NewWeight(stockKg)
			if werr == nil {
				werr = product.AddStock(weight)
			}
			if werr != nil {
				errors.Add(csvimport.NewRowError(row.LineNumber, "stock_kg", csvimport.ErrCodeImportValidation, werr.Error()))
				result.ErrorRows++
				return nil
			}
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		errors.Add(csvimport.NewRowError(row.LineNumber, "", csvimport.ErrCodeImportValidation, "failed to save product: "+err.Error()))
		result.ErrorRows++
		return nil
	}

	if stockKg.IsPositive() {
		s.recordStockMovement(ctx, userID, product, stockKg)
	}

	s.publishEvents(ctx, product)

	result.UpdatedRows++
	return nil
}

// recordStockMovement appends the stock loaded by an import row to the
// movement ledger. The product is already saved; a ledger failure is
// logged, not surfaced as a row error.
func (s *ProductImportService) recordStockMovement(ctx context.Context, userID uuid.UUID, product *catalog.Product, deltaKg decimal.Decimal) {
	if s.stockTxnRepo == nil {
		return
	}
	txn, err := inventory.NewStockTransaction(product.ID, deltaKg, product.StockKg, inventory.TxnReasonImport, "CSV import")
	if err != nil {
		s.logger.Warn("Failed to build import stock movement",
			zap.String("product_id", product.ID.String()), zap.Error(err))
		return
	}
	if err := s.stockTxnRepo.Append(ctx, txn.WithActor(userID)); err != nil {
		s.logger.Warn("Failed to record import stock movement",
			zap.String("product_id", product.ID.String()), zap.Error(err))
	}
}

// publishEvents publishes the product's pending domain events
func (s *ProductImportService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventBus == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) > 0 {
		if err := s.eventBus.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish product import events",
				zap.String("product", product.Name), zap.Error(err))
		}
	}
	product.ClearDomainEvents()
}

// mergeErrorDetails folds validation errors and import errors into one
// report for the history record
func mergeErrorDetails(session *csvimport.ImportSession, importErrors *csvimport.ErrorCollection) []bulk.ImportErrorDetail {
	details := make([]bulk.ImportErrorDetail, 0, len(session.Errors)+importErrors.Count())
	for _, e := range session.Errors {
		details = append(details, toErrorDetail(e))
	}
	for _, e := range importErrors.Errors() {
		details = append(details, toErrorDetail(e))
	}
	return details
}

// toErrorDetail converts a CSV row error to an import history detail
func toErrorDetail(e csvimport.RowError) bulk.ImportErrorDetail {
	return bulk.ImportErrorDetail{
		Row:     e.Row,
		Column:  e.Column,
		Code:    e.Code,
		Message: e.Message,
		Value:   e.Value,
	}
}

// ValidateWithWarnings returns validation warnings (non-blocking issues)
func (s *ProductImportService) ValidateWithWarnings(row *csvimport.Row) []string {
	var warnings []string

	if priceStr := row.Get("price_per_kg"); priceStr != "" {
		if price, err := decimal.NewFromString(priceStr); err == nil && price.IsZero() {
			warnings = append(warnings, fmt.Sprintf("row %d: price per kg is zero", row.LineNumber))
		}
	}

	stockStr := row.Get("stock_kg")
	minOrderStr := row.Get("min_order_kg")
	if stockStr != "" && minOrderStr != "" {
		stock, err1 := decimal.NewFromString(stockStr)
		minOrder, err2 := decimal.NewFromString(minOrderStr)
		if err1 == nil && err2 == nil && stock.IsPositive() && minOrder.GreaterThan(stock) {
			warnings = append(warnings, fmt.Sprintf("row %d: minimum order exceeds available stock", row.LineNumber))
		}
	}

	return warnings
}
