package service

import (
	"context"
	"sort"
	"sync"

	"github.com/markstore/backend/internal/entity"
	"github.com/markstore/backend/internal/repository"
)

// InventoryValue folds price x stock over the products. Pure integer
// arithmetic, so summation order cannot change the result.
func InventoryValue(products []entity.Product) int64 {
	var total int64
	for _, p := range products {
		total += p.Price * int64(p.Stock)
	}
	return total
}

// AveragePrice is inventory value over total stock units, 0 for an empty
// inventory.
func AveragePrice(products []entity.Product) float64 {
	var units int
	for _, p := range products {
		units += p.Stock
	}
	if units == 0 {
		return 0
	}
	return float64(InventoryValue(products)) / float64(units)
}

// ProductSales aggregates one product's sales across the ledger. Revenue is
// priced at the product's current catalog price; products removed from the
// catalog drop out of the report entirely.
type ProductSales struct {
	ProductID    int64  `json:"product_id"`
	Name         string `json:"name"`
	QuantitySold int    `json:"quantity_sold"`
	Revenue      int64  `json:"revenue"`
}

// PerProductSales aggregates every order item, regardless of order status,
// into per-product quantity and revenue. Every cataloged product appears,
// sold or not.
func PerProductSales(products []entity.Product, orders []entity.Order) map[int64]ProductSales {
	sales := make(map[int64]ProductSales, len(products))
	for _, p := range products {
		sales[p.ID] = ProductSales{ProductID: p.ID, Name: p.Name}
	}
	for _, o := range orders {
		for _, item := range o.Items {
			s, ok := sales[item.ProductID]
			if !ok {
				continue
			}
			p, _ := productByID(products, item.ProductID)
			s.QuantitySold += item.Quantity
			s.Revenue += p.Price * int64(item.Quantity)
			sales[item.ProductID] = s
		}
	}
	return sales
}

func productByID(products []entity.Product, id int64) (entity.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return entity.Product{}, false
}

// CategoryGroup is one branch of the category tree.
type CategoryGroup struct {
	Category string           `json:"category"`
	Products []entity.Product `json:"products"`
}

// CategoryTree groups products by category, categories sorted
// lexicographically, products kept in catalog insertion order.
func CategoryTree(products []entity.Product) []CategoryGroup {
	byCategory := make(map[string][]entity.Product)
	var categories []string
	for _, p := range products {
		if _, ok := byCategory[p.Category]; !ok {
			categories = append(categories, p.Category)
		}
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}
	sort.Strings(categories)

	groups := make([]CategoryGroup, 0, len(categories))
	for _, c := range categories {
		groups = append(groups, CategoryGroup{Category: c, Products: byCategory[c]})
	}
	return groups
}

// Analysis is the catalog-wide summary the admin dashboard shows.
type Analysis struct {
	TotalProducts    int     `json:"total_products"`
	InventoryValue   int64   `json:"inventory_value"`
	TotalStock       int     `json:"total_stock"`
	AveragePrice     float64 `json:"average_price"`
	UniqueCategories int     `json:"unique_categories"`
}

// AnalyticsService derives read-side aggregates from the catalog and the
// ledger. Everything is recomputed on demand; only Analysis is cached, keyed
// by the catalog's version counter so any write invalidates it.
type AnalyticsService struct {
	catalog repository.Catalog
	ledger  repository.Ledger

	mu            sync.Mutex
	cachedVersion uint64
	cacheValid    bool
	cached        Analysis
}

func NewAnalyticsService(catalog repository.Catalog, ledger repository.Ledger) *AnalyticsService {
	return &AnalyticsService{
		catalog: catalog,
		ledger:  ledger,
	}
}

func (s *AnalyticsService) InventoryValue(ctx context.Context) int64 {
	return InventoryValue(s.catalog.List())
}

func (s *AnalyticsService) AveragePrice(ctx context.Context) float64 {
	return AveragePrice(s.catalog.List())
}

func (s *AnalyticsService) PerProductSales(ctx context.Context) map[int64]ProductSales {
	return PerProductSales(s.catalog.List(), s.ledger.All())
}

func (s *AnalyticsService) CategoryTree(ctx context.Context) []CategoryGroup {
	return CategoryTree(s.catalog.List())
}

// Analysis returns the catalog summary, reusing the previous result while
// the catalog version is unchanged.
func (s *AnalyticsService) Analysis(ctx context.Context) Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()

	version := s.catalog.Version()
	if s.cacheValid && version == s.cachedVersion {
		return s.cached
	}

	products := s.catalog.List()
	var stock int
	categories := make(map[string]bool)
	for _, p := range products {
		stock += p.Stock
		categories[p.Category] = true
	}

	s.cached = Analysis{
		TotalProducts:    len(products),
		InventoryValue:   InventoryValue(products),
		TotalStock:       stock,
		AveragePrice:     AveragePrice(products),
		UniqueCategories: len(categories),
	}
	s.cachedVersion = version
	s.cacheValid = true
	return s.cached
}
