package gormrepo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/phenrril/vitrina/internal/domain"
)

type StorefrontRepo struct{ db *gorm.DB }

func NewStorefrontRepo(db *gorm.DB) *StorefrontRepo { return &StorefrontRepo{db: db} }

func (r *StorefrontRepo) List(ctx context.Context) ([]domain.Storefront, error) {
	var list []domain.Storefront
	if err := r.db.WithContext(ctx).Order("slug asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *StorefrontRepo) FindBySlug(ctx context.Context, slug string) (*domain.Storefront, error) {
	s := strings.ToLower(strings.TrimSpace(slug))
	if s == "" {
		return nil, errors.New("empty slug")
	}
	var sf domain.Storefront
	if err := r.db.WithContext(ctx).First(&sf, "slug = ?", s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &sf, nil
}

func (r *StorefrontRepo) Save(ctx context.Context, s *domain.Storefront) error {
	s.Slug = strings.ToLower(strings.TrimSpace(s.Slug))
	return r.db.WithContext(ctx).Save(s).Error
}
