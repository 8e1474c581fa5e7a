package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"storefront/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository, used when
// DB_DRIVER=memory and in tests.
type MemoryProductRepository struct {
	products map[int64]models.Product
	nextID   int64
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[int64]models.Product),
	}
}

// ListAll returns all products ordered by id.
func (r *MemoryProductRepository) ListAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, cloneProduct(p))
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(_ context.Context, id int64) (*models.Product, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, false, nil
	}
	product = cloneProduct(product)
	return &product, true, nil
}

// Insert adds a new product under the next id.
func (r *MemoryProductRepository) Insert(_ context.Context, fields models.ProductFields) (*models.Product, error) {
	if err := checkRequired(fields); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now().UTC()
	product := models.Product{ID: r.nextID, CreatedAt: now, UpdatedAt: now}
	assign(&product, fields)
	r.products[product.ID] = product
	product = cloneProduct(product)
	return &product, nil
}

// Update overwrites the mutable fields of an existing product.
func (r *MemoryProductRepository) Update(_ context.Context, id int64, fields models.ProductFields) (*models.Product, bool, error) {
	if err := checkRequired(fields); err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, false, nil
	}
	assign(&product, fields)
	product.UpdatedAt = time.Now().UTC()
	r.products[id] = product
	product = cloneProduct(product)
	return &product, true, nil
}

// Remove deletes a product by its ID.
func (r *MemoryProductRepository) Remove(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return false, nil
	}
	delete(r.products, id)
	return true, nil
}

func assign(p *models.Product, fields models.ProductFields) {
	p.Name = fields.Name
	p.Description = cloneString(fields.Description)
	p.Price = *fields.Price
	p.StockQuantity = *fields.StockQuantity
	p.ImageURL = cloneString(fields.ImageURL)
	p.Category = cloneString(fields.Category)
}

// cloneProduct detaches the optional strings of p from the stored row.
func cloneProduct(p models.Product) models.Product {
	p.Description = cloneString(p.Description)
	p.ImageURL = cloneString(p.ImageURL)
	p.Category = cloneString(p.Category)
	return p
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
