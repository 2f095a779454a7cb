package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnknownStorefront  = errors.New("unknown storefront")
	ErrUnknownFacet       = errors.New("unknown facet")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidProductData = errors.New("invalid product")
)

const (
	StorefrontSneakers = "sneakers"
	StorefrontApparel  = "apparel"
)

type Product struct {
	ID         int       `gorm:"primaryKey;autoIncrement:false" json:"id" validate:"gt=0"`
	Storefront string    `gorm:"primaryKey;size:40" json:"storefront,omitempty" validate:"required"`
	Name       string    `gorm:"size:180" json:"name" validate:"required"`
	Brand      string    `gorm:"size:100;index" json:"brand"`
	Category   string    `gorm:"size:100" json:"category"`
	Color      string    `gorm:"size:100" json:"color"`
	Price      int64     `gorm:"not null" json:"price" validate:"gte=0"`
	Sizes      []string  `gorm:"type:text;serializer:json" json:"size" validate:"min=1,dive,required"`
	Image      string    `gorm:"size:255" json:"image"`
	IsNew      bool      `gorm:"default:false" json:"isNew,omitempty"`
	Discount   *int      `json:"discount,omitempty" validate:"omitempty,gt=0,lte=100"`
	Position   int       `gorm:"index" json:"-"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// Storefront describes one page variant: its title, currency and the option
// lists rendered in the filter panel.
type Storefront struct {
	Slug      string    `gorm:"primaryKey;size:40" json:"slug"`
	Title     string    `gorm:"size:140" json:"title"`
	Tagline   string    `gorm:"size:255" json:"tagline"`
	Currency  string    `gorm:"size:8" json:"currency"`
	Sizes     []string  `gorm:"type:text;serializer:json" json:"sizes"`
	Colors    []string  `gorm:"type:text;serializer:json" json:"colors"`
	Brands    []string  `gorm:"type:text;serializer:json" json:"brands"`
	Sections  []string  `gorm:"type:text;serializer:json" json:"sections"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

var validate = validator.New()

// Validate checks the catalog invariants: positive id, at least one size and
// a discount in (0,100] when present.
func (p Product) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w %d: %v", ErrInvalidProductData, p.ID, err)
	}
	return nil
}

// DefaultSize is the size auto-selected when the product is added to a cart.
func (p Product) DefaultSize() string {
	if len(p.Sizes) == 0 {
		return ""
	}
	return p.Sizes[0]
}

func (p Product) HasDiscount() bool {
	return p.Discount != nil && *p.Discount > 0
}

// EffectivePrice is the unit price after the percentage discount, unrounded.
func (p Product) EffectivePrice() decimal.Decimal {
	price := decimal.NewFromInt(p.Price)
	if !p.HasDiscount() {
		return price
	}
	return price.Mul(decimal.NewFromInt(int64(100 - *p.Discount))).Div(decimal.NewFromInt(100))
}

type ProductRepo interface {
	ListByStorefront(ctx context.Context, storefront string) ([]Product, error)
	FindByID(ctx context.Context, storefront string, id int) (*Product, error)
	SaveAll(ctx context.Context, products []Product) error
}

type StorefrontRepo interface {
	List(ctx context.Context) ([]Storefront, error)
	FindBySlug(ctx context.Context, slug string) (*Storefront, error)
	Save(ctx context.Context, s *Storefront) error
}

// IntPtr is a helper for optional integer fields in fixtures.
func IntPtr(v int) *int { return &v }
