package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/apperrors"
	"storefront/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
// Each call holds a single pooled connection for its whole duration.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// ListAll retrieves every product ordered by id.
func (r *GORMProductRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0)
	err := r.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		return conn.Order("id ASC").Find(&products).Error
	})
	if err != nil {
		return nil, apperrors.Storage("failed to list products", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, bool, error) {
	var (
		product models.Product
		found   bool
	)
	err := r.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		var err error
		found, err = takeByID(conn, id, &product)
		return err
	})
	if err != nil {
		return nil, false, apperrors.Storage(fmt.Sprintf("failed to get product %d", id), err)
	}
	if !found {
		return nil, false, nil
	}
	return &product, true, nil
}

// Insert stores a new product and returns the row as persisted, including its generated id and
// timestamps.
func (r *GORMProductRepository) Insert(ctx context.Context, fields models.ProductFields) (*models.Product, error) {
	if err := checkRequired(fields); err != nil {
		return nil, err
	}

	product := models.Product{
		Name:          fields.Name,
		Description:   fields.Description,
		Price:         *fields.Price,
		StockQuantity: *fields.StockQuantity,
		ImageURL:      fields.ImageURL,
		Category:      fields.Category,
	}

	var stored models.Product
	err := r.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		if err := conn.Create(&product).Error; err != nil {
			return err
		}
		found, err := takeByID(conn, product.ID, &stored)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("product %d vanished after insert", product.ID)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Storage("failed to create product", err)
	}
	return &stored, nil
}

// Update overwrites all mutable columns of the product. It reports false when no row has the id.
func (r *GORMProductRepository) Update(ctx context.Context, id int64, fields models.ProductFields) (*models.Product, bool, error) {
	if err := checkRequired(fields); err != nil {
		return nil, false, err
	}

	var (
		stored models.Product
		found  bool
	)
	err := r.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		res := conn.Model(&models.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
			"name":           fields.Name,
			"description":    fields.Description,
			"price":          *fields.Price,
			"stock_quantity": *fields.StockQuantity,
			"image_url":      fields.ImageURL,
			"category":       fields.Category,
			"updated_at":     time.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		var err error
		found, err = takeByID(conn, id, &stored)
		return err
	})
	if err != nil {
		return nil, false, apperrors.Storage(fmt.Sprintf("failed to update product %d", id), err)
	}
	if !found {
		return nil, false, nil
	}
	return &stored, true, nil
}

// Remove deletes a product by its ID and reports whether exactly one row went away.
func (r *GORMProductRepository) Remove(ctx context.Context, id int64) (bool, error) {
	var affected int64
	err := r.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		res := conn.Delete(&models.Product{}, "id = ?", id)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, apperrors.Storage(fmt.Sprintf("failed to delete product %d", id), err)
	}
	return affected == 1, nil
}

func takeByID(conn *gorm.DB, id int64, dest *models.Product) (bool, error) {
	err := conn.Where("id = ?", id).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
