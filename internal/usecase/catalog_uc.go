package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/phenrril/vitrina/internal/domain"
)

// Catalog is the read-only product list of one storefront.
type Catalog struct {
	Storefront domain.Storefront
	products   []domain.Product
	byID       map[int]int
}

func newCatalog(sf domain.Storefront, products []domain.Product) *Catalog {
	c := &Catalog{Storefront: sf, products: products, byID: make(map[int]int, len(products))}
	for i, p := range products {
		c.byID[p.ID] = i
	}
	return c
}

// Products returns the catalog in display order. The slice is a copy.
func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Product(id int) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

func (c *Catalog) Len() int { return len(c.products) }

// CatalogUC loads every storefront catalog once and serves it from memory.
type CatalogUC struct {
	Products    domain.ProductRepo
	Storefronts domain.StorefrontRepo

	mu       sync.RWMutex
	catalogs map[string]*Catalog
	order    []string
}

func (uc *CatalogUC) Load(ctx context.Context) error {
	sfs, err := uc.Storefronts.List(ctx)
	if err != nil {
		return fmt.Errorf("list storefronts: %w", err)
	}
	catalogs := make(map[string]*Catalog, len(sfs))
	order := make([]string, 0, len(sfs))
	for _, sf := range sfs {
		products, err := uc.Products.ListByStorefront(ctx, sf.Slug)
		if err != nil {
			return fmt.Errorf("list products of %s: %w", sf.Slug, err)
		}
		for _, p := range products {
			if err := p.Validate(); err != nil {
				return err
			}
		}
		catalogs[sf.Slug] = newCatalog(sf, products)
		order = append(order, sf.Slug)
	}
	uc.mu.Lock()
	uc.catalogs = catalogs
	uc.order = order
	uc.mu.Unlock()
	return nil
}

func (uc *CatalogUC) Catalog(slug string) (*Catalog, error) {
	s := strings.ToLower(strings.TrimSpace(slug))
	if s == "" {
		return nil, errors.New("empty storefront")
	}
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	c, ok := uc.catalogs[s]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStorefront, slug)
	}
	return c, nil
}

// List returns the loaded storefronts in repository order.
func (uc *CatalogUC) List() []domain.Storefront {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	out := make([]domain.Storefront, 0, len(uc.order))
	for _, slug := range uc.order {
		out = append(out, uc.catalogs[slug].Storefront)
	}
	return out
}
