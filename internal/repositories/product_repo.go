package repositories

import (
	"context"
	"strings"

	"storefront/internal/apperrors"
	"storefront/internal/models"
)

// ProductRepository defines the interface for product data access.
//
// Absence is reported through the boolean result, never as an error.
type ProductRepository interface {
	ListAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, bool, error)
	Insert(ctx context.Context, fields models.ProductFields) (*models.Product, error)
	Update(ctx context.Context, id int64, fields models.ProductFields) (*models.Product, bool, error)
	Remove(ctx context.Context, id int64) (bool, error)
}

func checkRequired(fields models.ProductFields) error {
	if missing := fields.Missing(); len(missing) > 0 {
		return apperrors.Validation("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}
