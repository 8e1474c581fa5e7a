package services

import (
	"context"
	"log/slog"

	"storefront/internal/apperrors"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// EventPublisher sends product events to other systems.
type EventPublisher interface {
	PublishProductEvent(event interface{}) error
}

// User-facing messages for failed product operations.
const (
	msgListFailed    = "failed to fetch products"
	msgGetFailed     = "failed to fetch product"
	msgCreateFailed  = "failed to create product"
	msgUpdateFailed  = "failed to update product"
	msgDeleteFailed  = "failed to delete product"
	msgNotFound      = "product not found"
	msgRequired      = "product name, price, and stock quantity are required"
	msgNegative      = "price and stock quantity cannot be negative"
	msgEmptyPatch    = "no fields to update"
	msgEmptyName     = "product name cannot be empty"
	msgPriceScale    = "price cannot have more than two decimal places"
	msgDeleteNoMatch = "delete affected no rows"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	metrics   *metrics.Metrics
	validate  *validator.Validate
}

// NewProductService creates a new ProductService. publisher and m may be nil.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, m *metrics.Metrics) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		validate:  validator.New(),
	}
}

// List returns every product ordered by id.
func (s *ProductService) List(ctx context.Context) (products []models.Product, err error) {
	defer func() { s.metrics.ProductOperation("list", err) }()

	products, err = s.repo.ListAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list products", "error", err)
		return nil, apperrors.Service(msgListFailed, err)
	}
	return products, nil
}

// GetByID returns one product or a NotFound error.
func (s *ProductService) GetByID(ctx context.Context, id int64) (product *models.Product, err error) {
	defer func() { s.metrics.ProductOperation("get", err) }()

	product, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get product", "product_id", id, "error", err)
		return nil, apperrors.Service(msgGetFailed, err)
	}
	if !found {
		return nil, apperrors.NotFound(msgNotFound)
	}
	return product, nil
}

// Create validates fields and stores a new product.
func (s *ProductService) Create(ctx context.Context, fields models.ProductFields) (product *models.Product, err error) {
	defer func() { s.metrics.ProductOperation("create", err) }()

	if err := s.validate.StructCtx(ctx, fields); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, msgRequired, err)
	}
	if fields.Price.IsNegative() || *fields.StockQuantity < 0 {
		return nil, apperrors.Validation(msgNegative)
	}
	if !fitsPriceColumn(*fields.Price) {
		return nil, apperrors.Validation(msgPriceScale)
	}

	product, err = s.repo.Insert(ctx, fields)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindValidation {
			return nil, err
		}
		slog.ErrorContext(ctx, "failed to create product", "error", err)
		return nil, apperrors.Service(msgCreateFailed, err)
	}

	s.publish(ctx, models.ProductCreated, product)
	return product, nil
}

// Update applies patch to an existing product and returns the stored result.
func (s *ProductService) Update(ctx context.Context, id int64, patch models.ProductPatch) (product *models.Product, err error) {
	defer func() { s.metrics.ProductOperation("update", err) }()

	current, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load product for update", "product_id", id, "error", err)
		return nil, apperrors.Service(msgUpdateFailed, err)
	}
	if !found {
		return nil, apperrors.NotFound(msgNotFound)
	}

	if patch.IsEmpty() {
		return nil, apperrors.Validation(msgEmptyPatch)
	}
	if (patch.Price != nil && patch.Price.IsNegative()) || (patch.StockQuantity != nil && *patch.StockQuantity < 0) {
		return nil, apperrors.Validation(msgNegative)
	}
	if patch.Price != nil && !fitsPriceColumn(*patch.Price) {
		return nil, apperrors.Validation(msgPriceScale)
	}
	if patch.Name != nil && *patch.Name == "" {
		return nil, apperrors.Validation(msgEmptyName)
	}

	product, found, err = s.repo.Update(ctx, id, patch.Apply(current.Fields()))
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindValidation {
			return nil, err
		}
		slog.ErrorContext(ctx, "failed to update product", "product_id", id, "error", err)
		return nil, apperrors.Service(msgUpdateFailed, err)
	}
	if !found {
		return nil, apperrors.NotFound(msgNotFound)
	}

	s.publish(ctx, models.ProductUpdated, product)
	return product, nil
}

// Remove deletes an existing product.
func (s *ProductService) Remove(ctx context.Context, id int64) (err error) {
	defer func() { s.metrics.ProductOperation("delete", err) }()

	current, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load product for delete", "product_id", id, "error", err)
		return apperrors.Service(msgDeleteFailed, err)
	}
	if !found {
		return apperrors.NotFound(msgNotFound)
	}

	removed, err := s.repo.Remove(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete product", "product_id", id, "error", err)
		return apperrors.Service(msgDeleteFailed, err)
	}
	if !removed {
		slog.WarnContext(ctx, "delete affected no rows", "product_id", id)
		return apperrors.Service(msgDeleteNoMatch, nil)
	}

	s.publish(ctx, models.ProductDeleted, current)
	return nil
}

// fitsPriceColumn reports whether price survives the decimal(10,2) column unrounded.
func fitsPriceColumn(price decimal.Decimal) bool {
	return price.Equal(price.Round(2))
}

func (s *ProductService) publish(ctx context.Context, eventType string, p *models.Product) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishProductEvent(models.NewProductEvent(eventType, p)); err != nil {
		slog.WarnContext(ctx, "failed to publish product event", "type", eventType, "product_id", p.ID, "error", err)
	}
}
