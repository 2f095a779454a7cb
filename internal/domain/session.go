package domain

import (
	"context"
	"time"
)

// Session is the state owned by one visitor on one storefront.
type Session struct {
	ID         string          `json:"id"`
	Storefront string          `json:"storefront"`
	Cart       Cart            `json:"cart"`
	Filters    FilterSelection `json:"filters"`
	Section    string          `json:"section,omitempty"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// SessionKey namespaces a visitor id by storefront so each variant keeps its
// own cart.
func SessionKey(id, storefront string) string {
	return storefront + ":" + id
}

type SessionStore interface {
	Get(ctx context.Context, key string) (*Session, error)
	Save(ctx context.Context, key string, s *Session) error
	Delete(ctx context.Context, key string) error
}
