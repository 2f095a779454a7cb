package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

type Facet string

const (
	FacetSize  Facet = "size"
	FacetColor Facet = "color"
	FacetBrand Facet = "brand"
)

func ParseFacet(s string) (Facet, error) {
	switch f := Facet(strings.ToLower(strings.TrimSpace(s))); f {
	case FacetSize, FacetColor, FacetBrand:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFacet, s)
}

// FilterSelection holds the active values of each facet. An empty facet
// places no constraint on the catalog.
type FilterSelection struct {
	Sizes  []string `json:"sizes"`
	Colors []string `json:"colors"`
	Brands []string `json:"brands"`
}

func (s *FilterSelection) facet(f Facet) (*[]string, error) {
	switch f {
	case FacetSize:
		return &s.Sizes, nil
	case FacetColor:
		return &s.Colors, nil
	case FacetBrand:
		return &s.Brands, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFacet, string(f))
}

// Toggle adds value to the facet when absent and removes it when present.
func (s *FilterSelection) Toggle(f Facet, value string) error {
	set, err := s.facet(f)
	if err != nil {
		return err
	}
	if i := slices.Index(*set, value); i >= 0 {
		*set = slices.Delete(*set, i, i+1)
		return nil
	}
	*set = append(*set, value)
	return nil
}

func (s *FilterSelection) Has(f Facet, value string) bool {
	set, err := s.facet(f)
	if err != nil {
		return false
	}
	return slices.Contains(*set, value)
}

func (s *FilterSelection) Clear() {
	s.Sizes = []string{}
	s.Colors = []string{}
	s.Brands = []string{}
}

// MarshalJSON writes unset facets as empty arrays.
func (s FilterSelection) MarshalJSON() ([]byte, error) {
	type plain FilterSelection
	return json.Marshal(plain{Sizes: orEmpty(s.Sizes), Colors: orEmpty(s.Colors), Brands: orEmpty(s.Brands)})
}

func orEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

// ActiveCount is the number of selected values across all facets.
func (s FilterSelection) ActiveCount() int {
	return len(s.Sizes) + len(s.Colors) + len(s.Brands)
}

func (s FilterSelection) Empty() bool { return s.ActiveCount() == 0 }

// Matches reports whether p passes every facet: any of its sizes for the size
// facet, its single color and brand for the others.
func (s FilterSelection) Matches(p Product) bool {
	if len(s.Sizes) > 0 && !intersects(p.Sizes, s.Sizes) {
		return false
	}
	if len(s.Colors) > 0 && !slices.Contains(s.Colors, p.Color) {
		return false
	}
	if len(s.Brands) > 0 && !slices.Contains(s.Brands, p.Brand) {
		return false
	}
	return true
}

// VisibleProducts returns the products passing sel, in catalog order.
func VisibleProducts(catalog []Product, sel FilterSelection) []Product {
	out := make([]Product, 0, len(catalog))
	for _, p := range catalog {
		if sel.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

func intersects(a, b []string) bool {
	return slices.ContainsFunc(a, func(v string) bool { return slices.Contains(b, v) })
}
