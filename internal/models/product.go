package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, matching what the storefront client sends.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a product in the store.
type Product struct {
	ID            int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string          `json:"name" gorm:"type:varchar(255);not null"`
	Description   *string         `json:"description" gorm:"type:text"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null"`
	ImageURL      *string         `json:"image_url" gorm:"type:varchar(512)"`
	Category      *string         `json:"category" gorm:"type:varchar(100)"`
	CreatedAt     time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName pins the table name regardless of naming strategy.
func (Product) TableName() string {
	return "products"
}

// Fields returns the mutable columns of p.
func (p *Product) Fields() ProductFields {
	price := p.Price
	stock := p.StockQuantity
	return ProductFields{
		Name:          p.Name,
		Description:   p.Description,
		Price:         &price,
		StockQuantity: &stock,
		ImageURL:      p.ImageURL,
		Category:      p.Category,
	}
}

// ProductFields holds every mutable column of a product. Price and StockQuantity are pointers so
// that an omitted value can be told apart from zero.
type ProductFields struct {
	Name          string           `json:"name" validate:"required"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price" validate:"required"`
	StockQuantity *int             `json:"stock_quantity" validate:"required"`
	ImageURL      *string          `json:"image_url"`
	Category      *string          `json:"category"`
}

// Missing lists the required fields that are absent, in declaration order.
func (f ProductFields) Missing() []string {
	var missing []string
	if f.Name == "" {
		missing = append(missing, "name")
	}
	if f.Price == nil {
		missing = append(missing, "price")
	}
	if f.StockQuantity == nil {
		missing = append(missing, "stock_quantity")
	}
	return missing
}

// NullableString records whether a JSON field was present, so that an explicit null can be told
// apart from an omitted field.
type NullableString struct {
	Set   bool
	Value *string
}

// NewNullableString returns a present field holding v. A nil v is an explicit null.
func NewNullableString(v *string) NullableString {
	return NullableString{Set: true, Value: v}
}

// UnmarshalJSON marks the field present and stores nil for null.
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// MarshalJSON writes the value or null.
func (n NullableString) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Value)
}

// ProductPatch is a partial update. Omitted fields keep their stored value; optional columns sent
// as null are cleared.
type ProductPatch struct {
	Name          *string          `json:"name"`
	Description   NullableString   `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stock_quantity"`
	ImageURL      NullableString   `json:"image_url"`
	Category      NullableString   `json:"category"`
}

// IsEmpty reports whether the patch sets no field at all.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && !p.Description.Set && p.Price == nil &&
		p.StockQuantity == nil && !p.ImageURL.Set && !p.Category.Set
}

// Apply returns the fields of current with the patch laid over them.
func (p ProductPatch) Apply(current ProductFields) ProductFields {
	merged := current
	if p.Name != nil {
		merged.Name = *p.Name
	}
	if p.Description.Set {
		merged.Description = p.Description.Value
	}
	if p.Price != nil {
		merged.Price = p.Price
	}
	if p.StockQuantity != nil {
		merged.StockQuantity = p.StockQuantity
	}
	if p.ImageURL.Set {
		merged.ImageURL = p.ImageURL.Value
	}
	if p.Category.Set {
		merged.Category = p.Category.Value
	}
	return merged
}
