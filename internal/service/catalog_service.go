package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/markstore/backend/internal/entity"
	"github.com/markstore/backend/internal/messaging"
	"github.com/markstore/backend/internal/repository"
)

// Sort orders accepted by ProductFilter.
const (
	SortDefault    = ""
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortRatingDesc = "rating_desc"
)

// ProductFilter narrows and orders a catalog listing. Zero values mean
// "no constraint"; MaxPrice 0 leaves the upper bound open.
type ProductFilter struct {
	Query    string
	Category string
	MinPrice int64
	MaxPrice int64
	Sort     string
}

// CatalogService handles browsing for everyone and product management for
// admins.
type CatalogService struct {
	catalog   repository.Catalog
	publisher messaging.Publisher
}

func NewCatalogService(catalog repository.Catalog, publisher messaging.Publisher) *CatalogService {
	return &CatalogService{
		catalog:   catalog,
		publisher: publisher,
	}
}

// Products lists the catalog through the filter. Filtering and sorting are
// pure compositions over a snapshot; the catalog itself is untouched.
func (s *CatalogService) Products(ctx context.Context, filter ProductFilter) []entity.Product {
	products := s.catalog.List()

	for _, keep := range []func(entity.Product) bool{
		matchesQuery(filter.Query),
		matchesCategory(filter.Category),
		matchesPriceRange(filter.MinPrice, filter.MaxPrice),
	} {
		filtered := products[:0]
		for _, p := range products {
			if keep(p) {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	switch filter.Sort {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case SortRatingDesc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Rating > products[j].Rating })
	}
	return products
}

// matchesQuery matches a case-insensitive substring of name or description.
func matchesQuery(query string) func(entity.Product) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	return func(p entity.Product) bool {
		if q == "" {
			return true
		}
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q)
	}
}

func matchesCategory(category string) func(entity.Product) bool {
	return func(p entity.Product) bool {
		return category == "" || p.Category == category
	}
}

func matchesPriceRange(min, max int64) func(entity.Product) bool {
	return func(p entity.Product) bool {
		if p.Price < min {
			return false
		}
		return max <= 0 || p.Price <= max
	}
}

// Product returns a single catalog entry.
func (s *CatalogService) Product(ctx context.Context, id int64) (entity.Product, error) {
	p, ok := s.catalog.Get(id)
	if !ok {
		return entity.Product{}, fmt.Errorf("product %d: %w", id, entity.ErrProductNotFound)
	}
	return p, nil
}

// Categories returns the distinct category labels, sorted.
func (s *CatalogService) Categories(ctx context.Context) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range s.catalog.List() {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out
}

// Upsert creates or replaces a product, admin only. A stock change outside
// checkout is announced as a ProductStockUpdated event.
func (s *CatalogService) Upsert(ctx context.Context, actor *entity.User, p entity.Product) (entity.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return entity.Product{}, err
	}

	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return entity.Product{}, fmt.Errorf("%w: product name must not be empty", entity.ErrInvalidInput)
	}
	if p.Price < 0 {
		return entity.Product{}, fmt.Errorf("%w: price must not be negative", entity.ErrInvalidInput)
	}
	if p.Stock < 0 {
		return entity.Product{}, fmt.Errorf("%w: stock must not be negative", entity.ErrInvalidInput)
	}
	if p.Rating < 0 || p.Rating > 5 {
		return entity.Product{}, fmt.Errorf("%w: rating must be between 0 and 5", entity.ErrInvalidInput)
	}

	prev, existed := s.catalog.Get(p.ID)
	stored := s.catalog.Upsert(p)
	slog.Info("Service: Product saved", "product_id", stored.ID, "name", stored.Name)

	if !existed || prev.Stock != stored.Stock {
		event := entity.ProductStockUpdated{ProductID: stored.ID, NewStock: stored.Stock}
		if err := s.publisher.PublishEvent(ctx, messaging.TopicStockUpdated, strconv.FormatInt(stored.ID, 10), event); err != nil {
			slog.Error("Failed to publish ProductStockUpdated", "product_id", stored.ID, "err", err)
		}
	}
	return stored, nil
}

// Delete removes a product, admin only. The id is retired for the life of
// the process.
func (s *CatalogService) Delete(ctx context.Context, actor *entity.User, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	slog.Info("Service: Product deleted", "product_id", id)
	s.catalog.Delete(id)
	return nil
}
