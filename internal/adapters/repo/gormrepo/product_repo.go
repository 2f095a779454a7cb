package gormrepo

import (
	"context"
	"errors"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/phenrril/vitrina/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

// ListByStorefront returns the catalog of one storefront in display order.
func (r *ProductRepo) ListByStorefront(ctx context.Context, storefront string) ([]domain.Product, error) {
	var list []domain.Product
	if err := r.db.WithContext(ctx).
		Where("storefront = ?", storefront).
		Order("position asc").Order("id asc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) FindByID(ctx context.Context, storefront string, id int) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, "storefront = ? AND id = ?", storefront, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// SaveAll upserts the given products in one transaction. Rows are matched on
// (storefront, id) so reseeding is idempotent.
func (r *ProductRepo) SaveAll(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return upsert(tx, products)
	})
}

// ReplaceStorefronts makes products the whole catalog of every storefront
// they belong to. Rows of those storefronts missing from products are
// deleted in the same transaction; other storefronts are untouched.
func (r *ProductRepo) ReplaceStorefronts(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	var stores []string
	for _, p := range products {
		if !slices.Contains(stores, p.Storefront) {
			stores = append(stores, p.Storefront)
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("storefront IN ?", stores).Delete(&domain.Product{}).Error; err != nil {
			return err
		}
		return upsert(tx, products)
	})
}

func upsert(tx *gorm.DB, products []domain.Product) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "storefront"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "brand", "category", "color", "price", "sizes", "image", "is_new", "discount", "position", "updated_at",
		}),
	}).Create(&products).Error
}

func (r *ProductRepo) Count(ctx context.Context, storefront string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("storefront = ?", storefront).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// DistinctBrands lists the brands present in a storefront catalog.
func (r *ProductRepo) DistinctBrands(ctx context.Context, storefront string) ([]string, error) {
	brands := []string{}
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Distinct("brand").Where("storefront = ? AND brand <> ''", storefront).Order("brand asc").Pluck("brand", &brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}
