package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioCatalog() []Product {
	return []Product{
		{ID: 1, Name: "A", Sizes: []string{"40", "41"}, Color: "Black", Brand: "Nike", Price: 100},
		{ID: 2, Name: "B", Sizes: []string{"42"}, Color: "White", Brand: "Adidas", Price: 200},
	}
}

func ids(ps []Product) []int {
	out := []int{}
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestVisibleProductsScenario(t *testing.T) {
	catalog := scenarioCatalog()

	tests := []struct {
		name string
		sel  FilterSelection
		want []int
	}{
		{"no filters", FilterSelection{}, []int{1, 2}},
		{"size 41", FilterSelection{Sizes: []string{"41"}}, []int{1}},
		{"brand adidas", FilterSelection{Brands: []string{"Adidas"}}, []int{2}},
		{"and across facets", FilterSelection{Sizes: []string{"41"}, Brands: []string{"Adidas"}}, []int{}},
		{"any size matches", FilterSelection{Sizes: []string{"42", "40"}}, []int{1, 2}},
		{"color membership", FilterSelection{Colors: []string{"White", "Red"}}, []int{2}},
		{"unknown value", FilterSelection{Brands: []string{"Puma"}}, []int{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(VisibleProducts(catalog, tc.sel)))
		})
	}
}

func TestVisibleProductsIsPureAndStable(t *testing.T) {
	catalog := scenarioCatalog()
	sel := FilterSelection{Sizes: []string{"40", "42"}}

	first := VisibleProducts(catalog, sel)
	second := VisibleProducts(catalog, sel)

	assert.Equal(t, first, second)
	assert.Equal(t, scenarioCatalog(), catalog)

	all := VisibleProducts(catalog, FilterSelection{})
	assert.Equal(t, catalog, all)
}

func TestFilterSelectionToggle(t *testing.T) {
	var sel FilterSelection

	require.NoError(t, sel.Toggle(FacetSize, "41"))
	require.NoError(t, sel.Toggle(FacetSize, "42"))
	require.NoError(t, sel.Toggle(FacetBrand, "Nike"))
	assert.Equal(t, 3, sel.ActiveCount())
	assert.True(t, sel.Has(FacetSize, "41"))

	require.NoError(t, sel.Toggle(FacetSize, "41"))
	assert.Equal(t, []string{"42"}, sel.Sizes)
	assert.False(t, sel.Has(FacetSize, "41"))
	assert.Equal(t, 2, sel.ActiveCount())

	err := sel.Toggle(Facet("season"), "winter")
	assert.ErrorIs(t, err, ErrUnknownFacet)
}

func TestFilterSelectionClearRestoresCatalog(t *testing.T) {
	catalog := scenarioCatalog()
	sel := FilterSelection{Sizes: []string{"99"}, Colors: []string{"Red"}, Brands: []string{"Puma"}}
	require.Empty(t, VisibleProducts(catalog, sel))

	sel.Clear()

	assert.True(t, sel.Empty())
	assert.Equal(t, catalog, VisibleProducts(catalog, sel))
}

func TestParseFacet(t *testing.T) {
	f, err := ParseFacet(" Color ")
	require.NoError(t, err)
	assert.Equal(t, FacetColor, f)

	_, err = ParseFacet("price")
	assert.ErrorIs(t, err, ErrUnknownFacet)
}

func TestFilterSelectionJSONUsesEmptyArrays(t *testing.T) {
	var sel FilterSelection
	b, err := json.Marshal(sel)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sizes":[],"colors":[],"brands":[]}`, string(b))

	require.NoError(t, sel.Toggle(FacetColor, "Black"))
	sel.Clear()
	b, err = json.Marshal(sel)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sizes":[],"colors":[],"brands":[]}`, string(b))

	require.NoError(t, sel.Toggle(FacetBrand, "Nike"))
	b, err = json.Marshal(sel)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sizes":[],"colors":[],"brands":["Nike"]}`, string(b))

	var back FilterSelection
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Has(FacetBrand, "Nike"))
	assert.Equal(t, 1, back.ActiveCount())
}
