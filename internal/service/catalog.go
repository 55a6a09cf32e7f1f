package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/vigor_shop/internal/models"
	"github.com/Skotchmaster/vigor_shop/internal/repo"
	"github.com/Skotchmaster/vigor_shop/pkg/apperr"
	"github.com/Skotchmaster/vigor_shop/pkg/cache"
	"github.com/Skotchmaster/vigor_shop/pkg/events"
	"github.com/Skotchmaster/vigor_shop/pkg/logging"
	"github.com/Skotchmaster/vigor_shop/pkg/metrics"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type ProductQuery struct {
	Search   string
	Category string
	Page     int
	Size     int
}

type ProductPage struct {
	Items []models.Product `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
}

// ProductInput carries admin writes. Nil fields are left unchanged on update.
type ProductInput struct {
	Slug         *string
	Title        *string
	Description  *string
	Ingredients  []string
	Benefits     []string
	Price        *float64
	MRP          *float64
	Images       []string
	Stock        *int
	IsActive     *bool
	CategorySlug *string
}

type CategoryInput struct {
	Slug        *string
	Name        *string
	Description *string
}

// ProductIndex is an optional full-text backend for product search. Listing
// falls back to the database when it is unset or failing.
type ProductIndex interface {
	Put(ctx context.Context, p models.Product) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, query, category string, from, size int) (int64, []models.Product, error)
}

type CatalogService struct {
	Store  CatalogStore
	Cache  *cache.Cache
	Events events.Publisher
	Index  ProductIndex
}

func NewCatalogService(store CatalogStore, c *cache.Cache, pub events.Publisher) *CatalogService {
	return &CatalogService{Store: store, Cache: c, Events: pub}
}

func Paginate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return (page - 1) * size, size
}

func (s *CatalogService) ListProducts(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	offset, limit := Paginate(q.Page, q.Size)
	q.Search = strings.TrimSpace(q.Search)

	key := fmt.Sprintf("products:%s:%s:%d:%d", strings.ToLower(q.Search), q.Category, offset, limit)
	var page ProductPage
	if s.cached(ctx, key, &page) {
		return &page, nil
	}

	category := q.Category
	if category != "" {
		// an unknown category does not narrow the listing
		if _, err := s.Store.GetCategoryBySlug(ctx, category); err != nil {
			if !errors.Is(err, repo.ErrNotFound) {
				return nil, err
			}
			category = ""
		}
	}

	if q.Search != "" && s.Index != nil {
		total, items, err := s.Index.Search(ctx, q.Search, category, offset, limit)
		if err == nil {
			page = ProductPage{Items: items, Total: total, Page: offset/limit + 1, Size: limit}
			s.store(ctx, key, page)
			return &page, nil
		}
		logging.FromContext(ctx).Warn("search_index_error", "fallback", "database", "error", err)
	}

	total, items, err := s.Store.ListProducts(ctx, repo.ProductFilter{
		Search:       q.Search,
		CategorySlug: category,
		ActiveOnly:   true,
		Offset:       offset,
		Limit:        limit,
	})
	if err != nil {
		return nil, err
	}

	page = ProductPage{Items: items, Total: total, Page: offset/limit + 1, Size: limit}
	s.store(ctx, key, page)
	return &page, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, slug string) (*models.Product, error) {
	key := "product:" + slug
	var p models.Product
	if s.cached(ctx, key, &p) {
		return &p, nil
	}

	prod, err := s.Store.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "Product not found")
	}
	s.store(ctx, key, prod)
	return prod, nil
}

// PriceOf returns the current catalog price of a product by id or slug.
func (s *CatalogService) PriceOf(ctx context.Context, productID string) (float64, error) {
	var (
		p   *models.Product
		err error
	)
	if id, perr := uuid.Parse(productID); perr == nil {
		p, err = s.Store.GetProductByID(ctx, id)
	} else {
		p, err = s.Store.GetProductBySlug(ctx, productID)
	}
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, apperr.New(apperr.ErrBadRequest, "Unknown product in order")
		}
		return 0, err
	}
	if !p.IsActive {
		return 0, apperr.New(apperr.ErrBadRequest, "Product is not available")
	}
	return p.Price, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.Slug == nil || strings.TrimSpace(*in.Slug) == "" || in.Title == nil || strings.TrimSpace(*in.Title) == "" || in.Price == nil {
		return nil, apperr.New(apperr.ErrBadRequest, "slug, title and price are required")
	}

	p := &models.Product{IsActive: true, Ingredients: []string{}, Benefits: []string{}, Images: []string{}}
	if err := s.applyProduct(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.Store.CreateProduct(ctx, p); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperr.New(apperr.ErrConflict, "Product slug already exists")
		}
		return nil, err
	}

	s.invalidate(ctx)
	publish(ctx, s.Events, events.TopicProducts, p.ID.String(), "product_created", map[string]any{"productId": p.ID, "slug": p.Slug})
	return s.refreshed(ctx, p.Slug)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, slug string, in ProductInput) (*models.Product, error) {
	p, err := s.Store.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "Product not found")
	}
	if err := s.applyProduct(ctx, p, in); err != nil {
		return nil, err
	}
	p.Category = nil
	if err := s.Store.SaveProduct(ctx, p); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperr.New(apperr.ErrConflict, "Product slug already exists")
		}
		return nil, err
	}

	s.invalidate(ctx)
	publish(ctx, s.Events, events.TopicProducts, p.ID.String(), "product_updated", map[string]any{"productId": p.ID, "slug": p.Slug})
	return s.refreshed(ctx, p.Slug)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, slug string) error {
	p, err := s.Store.GetProductBySlug(ctx, slug)
	if err != nil {
		return notFound(err, "Product not found")
	}
	if err := s.Store.DeleteProductBySlug(ctx, slug); err != nil {
		return notFound(err, "Product not found")
	}
	s.invalidate(ctx)
	if s.Index != nil {
		if err := s.Index.Remove(ctx, p.ID.String()); err != nil {
			logging.FromContext(ctx).Warn("search_index_error", "op", "remove", "slug", slug, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicProducts, p.ID.String(), "product_deleted", map[string]any{"productId": p.ID, "slug": slug})
	return nil
}

// refreshed reloads a written product with its category and pushes it to the
// search index.
func (s *CatalogService) refreshed(ctx context.Context, slug string) (*models.Product, error) {
	p, err := s.Store.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if s.Index != nil {
		if err := s.Index.Put(ctx, *p); err != nil {
			logging.FromContext(ctx).Warn("search_index_error", "op", "put", "slug", slug, "error", err)
		}
	}
	return p, nil
}

// Reindex pushes every product, active or not, to the search index.
func (s *CatalogService) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, nil
	}
	n := 0
	for offset := 0; ; offset += MaxPageSize {
		_, items, err := s.Store.ListProducts(ctx, repo.ProductFilter{Offset: offset, Limit: MaxPageSize})
		if err != nil {
			return n, err
		}
		for _, p := range items {
			if err := s.Index.Put(ctx, p); err != nil {
				return n, err
			}
			n++
		}
		if len(items) < MaxPageSize {
			return n, nil
		}
	}
}

// category slugs are denormalized into indexed products
func (s *CatalogService) reindexAfterCategoryChange(ctx context.Context) {
	if s.Index == nil {
		return
	}
	if _, err := s.Reindex(ctx); err != nil {
		logging.FromContext(ctx).Warn("search_index_error", "op", "reindex", "error", err)
	}
}

func (s *CatalogService) applyProduct(ctx context.Context, p *models.Product, in ProductInput) error {
	if in.Slug != nil {
		p.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Ingredients != nil {
		p.Ingredients = in.Ingredients
	}
	if in.Benefits != nil {
		p.Benefits = in.Benefits
	}
	if in.Images != nil {
		p.Images = in.Images
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return apperr.New(apperr.ErrBadRequest, "price must be >= 0")
		}
		p.Price = *in.Price
	}
	if in.MRP != nil {
		p.MRP = *in.MRP
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return apperr.New(apperr.ErrBadRequest, "stock must be >= 0")
		}
		p.Stock = *in.Stock
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.CategorySlug != nil {
		if *in.CategorySlug == "" {
			p.CategoryID = nil
		} else {
			c, err := s.Store.GetCategoryBySlug(ctx, *in.CategorySlug)
			if err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return apperr.New(apperr.ErrBadRequest, "Unknown category")
				}
				return err
			}
			p.CategoryID = &c.ID
		}
	}
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if s.cached(ctx, "categories", &cats) {
		return cats, nil
	}
	cats, err := s.Store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, "categories", cats)
	return cats, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	c, err := s.Store.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "Category not found")
	}
	return c, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if in.Slug == nil || strings.TrimSpace(*in.Slug) == "" || in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, apperr.New(apperr.ErrBadRequest, "slug and name are required")
	}
	c := &models.Category{Slug: strings.TrimSpace(*in.Slug), Name: *in.Name}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if err := s.Store.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperr.New(apperr.ErrConflict, "Category slug already exists")
		}
		return nil, err
	}
	s.invalidate(ctx)
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, slug string, in CategoryInput) (*models.Category, error) {
	c, err := s.Store.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "Category not found")
	}
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		c.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if err := s.Store.SaveCategory(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperr.New(apperr.ErrConflict, "Category slug already exists")
		}
		return nil, err
	}
	s.invalidate(ctx)
	s.reindexAfterCategoryChange(ctx)
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, slug string) error {
	if err := s.Store.DeleteCategoryBySlug(ctx, slug); err != nil {
		return notFound(err, "Category not found")
	}
	s.invalidate(ctx)
	s.reindexAfterCategoryChange(ctx)
	return nil
}

func (s *CatalogService) cached(ctx context.Context, key string, dst any) bool {
	if !s.Cache.Enabled() {
		return false
	}
	if s.Cache.Get(ctx, key, dst) {
		metrics.CacheHits.WithLabelValues("catalog").Inc()
		return true
	}
	metrics.CacheMisses.WithLabelValues("catalog").Inc()
	return false
}

func (s *CatalogService) store(ctx context.Context, key string, v any) {
	if err := s.Cache.Set(ctx, key, v); err != nil {
		logging.FromContext(ctx).Warn("cache_set_error", "key", key, "error", err)
	}
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := s.Cache.Flush(ctx); err != nil {
		logging.FromContext(ctx).Warn("cache_flush_error", "error", err)
	}
}
