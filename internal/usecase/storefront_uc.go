package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/phenrril/vitrina/internal/domain"
	"github.com/phenrril/vitrina/internal/metrics"
)

// StorefrontView is everything the page needs to render one storefront for
// one session. All derived values are computed from the session on demand.
type StorefrontView struct {
	Storefront    domain.Storefront      `json:"storefront"`
	Catalog       []domain.Product       `json:"catalog"`
	Visible       []domain.Product       `json:"visible"`
	Filters       domain.FilterSelection `json:"filters"`
	ActiveFilters int                    `json:"activeFilters"`
	Cart          []domain.CartItem      `json:"cart"`
	Total         decimal.Decimal        `json:"total"`
	ItemCount     int                    `json:"itemCount"`
	UnitCount     int                    `json:"unitCount"`
	Section       string                 `json:"section,omitempty"`
}

// NoMatches reports that the active filters hide the whole catalog and the
// page must offer to clear them.
func (v StorefrontView) NoMatches() bool { return len(v.Visible) == 0 }

type StorefrontUC struct {
	Catalog  *CatalogUC
	Sessions domain.SessionStore
	Metrics  *metrics.Storefront
	Now      func() time.Time
}

func (uc *StorefrontUC) NewSessionID() string { return uuid.NewString() }

func (uc *StorefrontUC) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}

// session returns the stored session or a fresh empty one.
func (uc *StorefrontUC) session(ctx context.Context, sid string, cat *Catalog) (*domain.Session, error) {
	if sid == "" {
		return nil, errors.New("empty session id")
	}
	sess, err := uc.Sessions.Get(ctx, domain.SessionKey(sid, cat.Storefront.Slug))
	if errors.Is(err, domain.ErrSessionNotFound) {
		return &domain.Session{ID: sid, Storefront: cat.Storefront.Slug}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// mutate applies fn to the stored session and saves it. It returns the
// canonical storefront slug.
func (uc *StorefrontUC) mutate(ctx context.Context, sid, store string, fn func(*domain.Session, *Catalog) error) (string, error) {
	cat, err := uc.Catalog.Catalog(store)
	if err != nil {
		return "", err
	}
	slug := cat.Storefront.Slug
	sess, err := uc.session(ctx, sid, cat)
	if err != nil {
		return slug, err
	}
	if err := fn(sess, cat); err != nil {
		return slug, err
	}
	sess.UpdatedAt = uc.now()
	if err := uc.Sessions.Save(ctx, domain.SessionKey(sid, slug), sess); err != nil {
		return slug, fmt.Errorf("save session: %w", err)
	}
	return slug, nil
}

func (uc *StorefrontUC) ToggleFilter(ctx context.Context, sid, store, facet, value string) error {
	f, err := domain.ParseFacet(facet)
	if err != nil {
		return err
	}
	slug, err := uc.mutate(ctx, sid, store, func(s *domain.Session, _ *Catalog) error {
		return s.Filters.Toggle(f, value)
	})
	if err == nil {
		uc.Metrics.FilterOp(slug, string(f))
	}
	return err
}

func (uc *StorefrontUC) ClearFilters(ctx context.Context, sid, store string) error {
	slug, err := uc.mutate(ctx, sid, store, func(s *domain.Session, _ *Catalog) error {
		s.Filters.Clear()
		return nil
	})
	if err == nil {
		uc.Metrics.FilterOp(slug, "clear")
	}
	return err
}

// AddToCart adds one unit of a catalog product. Unknown ids fail with
// domain.ErrNotFound.
func (uc *StorefrontUC) AddToCart(ctx context.Context, sid, store string, id int) error {
	slug, err := uc.mutate(ctx, sid, store, func(s *domain.Session, cat *Catalog) error {
		p, ok := cat.Product(id)
		if !ok {
			return fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
		}
		s.Cart.Add(p)
		return nil
	})
	if err == nil {
		uc.Metrics.CartOp(slug, "add")
		log.Debug().Str("storefront", slug).Int("product_id", id).Msg("cart add")
	}
	return err
}

func (uc *StorefrontUC) RemoveFromCart(ctx context.Context, sid, store string, id int) error {
	slug, err := uc.mutate(ctx, sid, store, func(s *domain.Session, _ *Catalog) error {
		s.Cart.Remove(id)
		return nil
	})
	if err == nil {
		uc.Metrics.CartOp(slug, "remove")
	}
	return err
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
func (uc *StorefrontUC) UpdateQuantity(ctx context.Context, sid, store string, id, qty int) error {
	slug, err := uc.mutate(ctx, sid, store, func(s *domain.Session, _ *Catalog) error {
		s.Cart.UpdateQuantity(id, qty)
		return nil
	})
	if err == nil {
		uc.Metrics.CartOp(slug, "update")
	}
	return err
}

// AdjustQuantity moves a line's quantity by delta, as the +/- buttons do.
// Lines not in the cart are left alone.
func (uc *StorefrontUC) AdjustQuantity(ctx context.Context, sid, store string, id, delta int) error {
	slug, err := uc.mutate(ctx, sid, store, func(s *domain.Session, _ *Catalog) error {
		it, ok := s.Cart.Get(id)
		if !ok {
			return nil
		}
		s.Cart.UpdateQuantity(id, it.Quantity+delta)
		return nil
	})
	if err == nil {
		uc.Metrics.CartOp(slug, "update")
	}
	return err
}

// SetSection records the highlighted nav section. Unknown sections are
// ignored.
func (uc *StorefrontUC) SetSection(ctx context.Context, sid, store, section string) error {
	_, err := uc.mutate(ctx, sid, store, func(s *domain.Session, cat *Catalog) error {
		if slices.Contains(cat.Storefront.Sections, section) {
			s.Section = section
		}
		return nil
	})
	return err
}

func (uc *StorefrontUC) View(ctx context.Context, sid, store string) (*StorefrontView, error) {
	cat, err := uc.Catalog.Catalog(store)
	if err != nil {
		return nil, err
	}
	sess, err := uc.session(ctx, sid, cat)
	if err != nil {
		return nil, err
	}
	products := cat.Products()
	section := sess.Section
	if section == "" && len(cat.Storefront.Sections) > 0 {
		section = cat.Storefront.Sections[0]
	}
	return &StorefrontView{
		Storefront:    cat.Storefront,
		Catalog:       products,
		Visible:       domain.VisibleProducts(products, sess.Filters),
		Filters:       sess.Filters,
		ActiveFilters: sess.Filters.ActiveCount(),
		Cart:          sess.Cart.Items(),
		Total:         sess.Cart.TotalPrice(),
		ItemCount:     sess.Cart.ItemCount(),
		UnitCount:     sess.Cart.UnitCount(),
		Section:       section,
	}, nil
}
