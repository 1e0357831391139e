package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/catalog"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
	"github.com/nepalmeatshop/backend/internal/domain/shared/valueobject"
)

// ProductService handles product-related business operations.
// Storefront reads go through the catalog cache; every mutation
// invalidates the affected entries.
type ProductService struct {
	productRepo    catalog.ProductRepository
	categoryRepo   catalog.CategoryRepository
	cache          catalog.Cache
	cacheCfg       catalog.CacheConfig
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	cache catalog.Cache,
	cacheCfg catalog.CacheConfig,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		cacheCfg:     cacheCfg,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// cachedListing is the payload stored in the listing cache
type cachedListing struct {
	Items []ProductListResponse `json:"items"`
	Total int64                 `json:"total"`
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this name already exists")
	}

	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		return nil, err
	}

	price := valueobject.NewMoneyNPR(req.PricePerKg)
	product, err := catalog.NewProduct(req.Name, req.NameNepali, req.CategoryID, catalog.MeatType(req.MeatType), price)
	if err != nil {
		return nil, err
	}

	if req.PreparationType != "" {
		if err := product.SetPreparationType(catalog.PreparationType(req.PreparationType)); err != nil {
			return nil, err
		}
	}
	if req.MinOrderKg != nil {
		if err := product.SetMinOrderKg(*req.MinOrderKg); err != nil {
			return nil, err
		}
	}
	if req.ButcheredAt != nil {
		if err := product.SetButcheredAt(*req.ButcheredAt); err != nil {
			return nil, err
		}
	}
	if req.Description != "" || req.CookingTips != "" {
		if err := product.Update(req.Name, req.NameNepali, req.Description, req.CookingTips); err != nil {
			return nil, err
		}
	}
	if req.ImageURL != "" {
		if err := product.SetImageURL(req.ImageURL); err != nil {
			return nil, err
		}
	}
	if req.Featured {
		product.SetFeatured(true)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)
	s.invalidateProduct(ctx, product.ID)

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
		zap.String("meat_type", string(product.MeatType)))

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product by ID, for the back office
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.findCached(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetStorefrontDetail retrieves an active product for the storefront.
// Inactive products are reported as not found rather than forbidden.
func (s *ProductService) GetStorefrontDetail(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.findCached(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.ErrNotFound
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// ListActive retrieves active products for the storefront.
// Results are cached per query signature for a short TTL.
func (s *ProductService) ListActive(ctx context.Context, filter ProductListFilter) ([]ProductListResponse, int64, error) {
	key := listingKey("active", filter)

	if s.cache != nil {
		if payload, err := s.cache.GetListing(ctx, key); err == nil && payload != nil {
			var cached cachedListing
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached.Items, cached.Total, nil
			}
		}
	}

	domainFilter := toDomainFilter(filter)
	products, err := s.productRepo.FindActive(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	countFilter := domainFilter
	countFilter.Filters = cloneFilters(domainFilter.Filters)
	countFilter.Filters["status"] = string(catalog.ProductStatusActive)
	total, err := s.productRepo.Count(ctx, countFilter)
	if err != nil {
		return nil, 0, err
	}

	items := ToProductListResponses(products)

	if s.cache != nil {
		if payload, err := json.Marshal(cachedListing{Items: items, Total: total}); err == nil {
			if err := s.cache.SetListing(ctx, key, payload, s.cacheCfg.ListingTTL); err != nil {
				s.logger.Warn("Failed to cache product listing", zap.Error(err))
			}
		}
	}

	return items, total, nil
}

// ListFeatured retrieves active featured products for the storefront
func (s *ProductService) ListFeatured(ctx context.Context, limit int) ([]ProductListResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 8
	}

	key := fmt.Sprintf("featured:%d", limit)

	if s.cache != nil {
		if payload, err := s.cache.GetListing(ctx, key); err == nil && payload != nil {
			var cached cachedListing
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached.Items, nil
			}
		}
	}

	products, err := s.productRepo.FindFeatured(ctx, limit)
	if err != nil {
		return nil, err
	}

	items := ToProductListResponses(products)

	if s.cache != nil {
		if payload, err := json.Marshal(cachedListing{Items: items}); err == nil {
			if err := s.cache.SetListing(ctx, key, payload, s.cacheCfg.ListingTTL); err != nil {
				s.logger.Warn("Failed to cache featured listing", zap.Error(err))
			}
		}
	}

	return items, nil
}

// List retrieves products matching the filter, for the back office.
// Admin listings bypass the cache so stock levels are always current.
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductListResponse, int64, error) {
	domainFilter := toDomainFilter(filter)
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductListResponses(products), total, nil
}

// Update updates an existing product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	if req.Name != nil {
		name = *req.Name
	}
	nameNepali := product.NameNepali
	if req.NameNepali != nil {
		nameNepali = *req.NameNepali
	}
	description := product.Description
	if req.Description != nil {
		description = *req.Description
	}
	cookingTips := product.CookingTips
	if req.CookingTips != nil {
		cookingTips = *req.CookingTips
	}

	if name != product.Name {
		exists, err := s.productRepo.ExistsByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this name already exists")
		}
	}

	if err := product.Update(name, nameNepali, description, cookingTips); err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if err == shared.ErrNotFound {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
		if err := product.SetCategory(*req.CategoryID); err != nil {
			return nil, err
		}
	}
	if req.MeatType != nil {
		if err := product.SetMeatType(catalog.MeatType(*req.MeatType)); err != nil {
			return nil, err
		}
	}
	if req.PreparationType != nil {
		if err := product.SetPreparationType(catalog.PreparationType(*req.PreparationType)); err != nil {
			return nil, err
		}
	}
	if req.PricePerKg != nil {
		if err := product.SetPrice(valueobject.NewMoneyNPR(*req.PricePerKg)); err != nil {
			return nil, err
		}
	}
	if req.MinOrderKg != nil {
		if err := product.SetMinOrderKg(*req.MinOrderKg); err != nil {
			return nil, err
		}
	}
	if req.ButcheredAt != nil {
		if err := product.SetButcheredAt(*req.ButcheredAt); err != nil {
			return nil, err
		}
	}
	if req.ImageURL != nil {
		if err := product.SetImageURL(*req.ImageURL); err != nil {
			return nil, err
		}
	}
	if req.Featured != nil {
		product.SetFeatured(*req.Featured)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)
	s.invalidateProduct(ctx, product.ID)

	s.logger.Info("Product updated", zap.String("product_id", product.ID.String()))

	resp := ToProductResponse(product)
	return &resp, nil
}

// Activate makes a product visible on the storefront
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, id, func(p *catalog.Product) error {
		return p.Activate()
	})
}

// Deactivate hides a product from the storefront
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, id, func(p *catalog.Product) error {
		return p.Deactivate()
	})
}

// Delete deletes a product. Order items snapshot product data, so
// history survives the deletion.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, catalog.NewProductDeletedEvent(product)); err != nil {
			s.logger.Warn("Failed to publish product deleted event", zap.Error(err))
		}
	}
	s.invalidateProduct(ctx, id)

	s.logger.Info("Product deleted",
		zap.String("product_id", id.String()),
		zap.String("name", product.Name))

	return nil
}

// changeStatus loads a product, applies the transition and saves
func (s *ProductService) changeStatus(ctx context.Context, id uuid.UUID, fn func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)
	s.invalidateProduct(ctx, product.ID)

	resp := ToProductResponse(product)
	return &resp, nil
}

// findCached reads a product through the cache
func (s *ProductService) findCached(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	if s.cache != nil {
		if product, err := s.cache.GetProduct(ctx, id); err == nil && product != nil {
			return product, nil
		}
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, id, product, s.cacheCfg.ProductTTL); err != nil {
			s.logger.Warn("Failed to cache product", zap.String("product_id", id.String()), zap.Error(err))
		}
	}

	return product, nil
}

// invalidateProduct drops a product's cache entry and every listing
func (s *ProductService) invalidateProduct(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteProduct(ctx, id); err != nil {
		s.logger.Warn("Failed to invalidate product cache", zap.String("product_id", id.String()), zap.Error(err))
	}
	if err := s.cache.InvalidateListings(ctx); err != nil {
		s.logger.Warn("Failed to invalidate listing cache", zap.Error(err))
	}
}

// publishEvents publishes buffered domain events after a successful save
func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range product.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish product event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	product.ClearDomainEvents()
}

// toDomainFilter maps an API filter to a repository filter
func toDomainFilter(filter ProductListFilter) shared.Filter {
	domainFilter := shared.Filter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "created_at"
		domainFilter.OrderDir = "desc"
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.MeatType != "" {
		domainFilter.Filters["meat_type"] = filter.MeatType
	}
	if filter.PreparationType != "" {
		domainFilter.Filters["preparation_type"] = filter.PreparationType
	}
	if filter.Featured != nil {
		domainFilter.Filters["featured"] = *filter.Featured
	}
	return domainFilter
}

// listingKey builds an opaque cache key from the query signature
func listingKey(scope string, filter ProductListFilter) string {
	categoryID := ""
	if filter.CategoryID != nil {
		categoryID = filter.CategoryID.String()
	}
	featured := ""
	if filter.Featured != nil {
		featured = fmt.Sprintf("%t", *filter.Featured)
	}
	signature := fmt.Sprintf("%s|%s|%s|%s|%s|%s|%d|%d|%s|%s",
		scope, filter.Search, categoryID, filter.MeatType, filter.PreparationType,
		featured, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)

	sum := sha256.Sum256([]byte(signature))
	return hex.EncodeToString(sum[:16])
}

func cloneFilters(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}
