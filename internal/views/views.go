package views

import (
	"embed"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/phenrril/vitrina/internal/domain"
)

//go:embed *.html
var FS embed.FS

// Parse loads the page templates. With an empty dir the embedded copies are
// used; otherwise templates are read from disk so they can be edited live.
func Parse(dir string) (*template.Template, error) {
	t := template.New("layout").Funcs(Funcs())
	if dir == "" {
		return t.ParseFS(FS, "*.html")
	}
	return t.ParseGlob(filepath.Join(dir, "*.html"))
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"add":      func(a, b int) int { return a + b },
		"sub":      func(a, b int) int { return a - b },
		"money":    Money,
		"selected": func(sel domain.FilterSelection, facet, value string) bool { return sel.Has(domain.Facet(facet), value) },
		"deref": func(p *int) int {
			if p == nil {
				return 0
			}
			return *p
		},
		"join":  strings.Join,
		"lower": strings.ToLower,
		"img": func(u string) string {
			s := strings.TrimSpace(u)
			if s == "" {
				return s
			}
			if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") && !strings.HasPrefix(s, "/") {
				s = "/" + s
			}
			return strings.ReplaceAll(s, " ", "%20")
		},
	}
}

// Money renders an amount rounded to whole units with space-grouped
// thousands followed by the currency symbol, e.g. "14 990 ₽".
func Money(v any, currency string) string {
	var d decimal.Decimal
	switch x := v.(type) {
	case decimal.Decimal:
		d = x
	case int64:
		d = decimal.NewFromInt(x)
	case int:
		d = decimal.NewFromInt(int64(x))
	case float64:
		d = decimal.NewFromFloat(x)
	default:
		return fmt.Sprint(v)
	}
	s := d.Round(0).String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	n := len(s)
	if n > 3 {
		rem := n % 3
		if rem == 0 {
			rem = 3
		}
		out := s[:rem]
		for i := rem; i < n; i += 3 {
			out += " " + s[i:i+3]
		}
		s = out
	}
	if neg {
		s = "-" + s
	}
	if currency == "" {
		return s
	}
	return s + " " + currency
}
