package service

import (
	"context"
	"errors"
	"time"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/cache"
	appErrors "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/errors"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/orderbuilder"
	repository "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/repositories"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = telemetry.Tracer("github.com/cameronfredericks24/beatbuddy-sales-pro/internal/services")

const catalogCacheID = "all"

// CatalogService is the Catalog Provider seen by the rest of the service.
type CatalogService interface {
	Search(ctx context.Context, query string) (*models.ProductListResponse, error)
	Categories(ctx context.Context) (*models.CategoryListResponse, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	// Current reads the provider directly, skipping the cache. The
	// submission pipeline revalidates prices against it.
	Current(ctx context.Context) ([]models.Product, error)
}

type catalogService struct {
	repo  repository.ProductRepository
	cache *cache.ReadThrough
	ttl   time.Duration
}

func NewCatalogService(repo repository.ProductRepository, rt *cache.ReadThrough, ttl time.Duration) CatalogService {
	return &catalogService{repo: repo, cache: rt, ttl: ttl}
}

func (s *catalogService) products(ctx context.Context) ([]models.Product, error) {
	products, err := cache.Load(ctx, s.cache, cache.Key(cache.CatalogKeyPrefix, catalogCacheID), s.ttl, s.repo.ListProducts)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to load the catalog").WithError(err)
	}

	return products, nil
}

func (s *catalogService) Search(ctx context.Context, query string) (*models.ProductListResponse, error) {
	ctx, span := tracer.Start(ctx, "CatalogService.Search")
	defer span.End()

	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}

	matches := orderbuilder.Search(query, products)
	span.SetAttributes(attribute.Int("catalog.matches", len(matches)))

	return &models.ProductListResponse{Query: query, Products: matches, Total: len(matches)}, nil
}

func (s *catalogService) Categories(ctx context.Context) (*models.CategoryListResponse, error) {
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}

	return &models.CategoryListResponse{Categories: orderbuilder.Categories(products)}, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := cache.Load(ctx, s.cache, cache.Key(cache.ProductKeyPrefix, id), s.ttl,
		func(ctx context.Context) (*models.Product, error) {
			return s.repo.GetProductByID(ctx, id)
		})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch the product").WithError(err)
	}

	return product, nil
}

func (s *catalogService) Current(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to load the catalog").WithError(err)
	}

	return products, nil
}
