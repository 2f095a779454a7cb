// Package catalogxlsx imports storefront catalogs from a spreadsheet. Each
// sheet is one storefront (the sheet name is its slug) and the first row
// names the columns.
package catalogxlsx

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/phenrril/vitrina/internal/domain"
)

// Columns understood in the header row. Matching is case-insensitive.
const (
	ColID       = "id"
	ColName     = "name"
	ColBrand    = "brand"
	ColCategory = "category"
	ColColor    = "color"
	ColPrice    = "price"
	ColSizes    = "sizes"
	ColImage    = "image"
	ColIsNew    = "is_new"
	ColDiscount = "discount"
)

var Header = []string{ColID, ColName, ColBrand, ColCategory, ColColor, ColPrice, ColSizes, ColImage, ColIsNew, ColDiscount}

// Report summarises one import.
type Report struct {
	Imported int
	Skipped  int
	Problems []string
}

func ReadFile(path string) ([]domain.Product, *Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return Read(bytes.NewReader(data))
}

// Read parses every sheet. Rows that fail validation are skipped and listed
// in the report; they never abort the import.
func Read(r io.Reader) ([]domain.Product, *Report, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	rep := &Report{}
	var out []domain.Product
	for _, sh := range f.GetSheetList() {
		rows, err := f.GetRows(sh)
		if err != nil || len(rows) < 2 {
			continue
		}
		store := strings.ToLower(strings.TrimSpace(sh))
		cols := headerIndex(rows[0])
		if _, ok := cols[ColID]; !ok {
			rep.Problems = append(rep.Problems, fmt.Sprintf("%s: missing %q column", sh, ColID))
			continue
		}
		pos := 0
		for i, row := range rows[1:] {
			if blank(row) {
				continue
			}
			p, err := parseRow(store, cols, row)
			if err == nil {
				err = p.Validate()
			}
			if err != nil {
				rep.Skipped++
				rep.Problems = append(rep.Problems, fmt.Sprintf("%s row %d: %v", sh, i+2, err))
				log.Warn().Err(err).Str("sheet", sh).Int("row", i+2).Msg("catalog row skipped")
				continue
			}
			p.Position = pos
			pos++
			out = append(out, p)
			rep.Imported++
		}
	}
	return out, rep, nil
}

// Write renders products as a workbook readable by Read, one sheet per
// storefront in first-seen order.
func Write(w io.Writer, products []domain.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	rowBySheet := map[string]int{}
	first := true
	for _, p := range products {
		sh := p.Storefront
		if _, ok := rowBySheet[sh]; !ok {
			if first {
				if err := f.SetSheetName("Sheet1", sh); err != nil {
					return err
				}
				first = false
			} else if _, err := f.NewSheet(sh); err != nil {
				return err
			}
			if err := f.SetSheetRow(sh, "A1", &Header); err != nil {
				return err
			}
			rowBySheet[sh] = 1
		}
		rowBySheet[sh]++
		discount := ""
		if p.Discount != nil {
			discount = strconv.Itoa(*p.Discount)
		}
		row := []any{p.ID, p.Name, p.Brand, p.Category, p.Color, p.Price, strings.Join(p.Sizes, ","), p.Image, strconv.FormatBool(p.IsNew), discount}
		cell, err := excelize.CoordinatesToCellName(1, rowBySheet[sh])
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sh, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func headerIndex(row []string) map[string]int {
	m := map[string]int{}
	for i, c := range row {
		k := strings.ToLower(strings.TrimSpace(c))
		if k != "" {
			m[k] = i
		}
	}
	return m
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(cols map[string]int, row []string, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseRow(store string, cols map[string]int, row []string) (domain.Product, error) {
	p := domain.Product{Storefront: store}
	id, err := strconv.Atoi(cell(cols, row, ColID))
	if err != nil {
		return p, fmt.Errorf("id: %w", err)
	}
	p.ID = id
	p.Name = cell(cols, row, ColName)
	p.Brand = cell(cols, row, ColBrand)
	p.Category = cell(cols, row, ColCategory)
	p.Color = cell(cols, row, ColColor)
	p.Image = cell(cols, row, ColImage)

	if raw := cell(cols, row, ColPrice); raw != "" {
		price, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return p, fmt.Errorf("price: %w", err)
		}
		p.Price = price
	}
	for _, s := range strings.Split(cell(cols, row, ColSizes), ",") {
		if s = strings.TrimSpace(s); s != "" {
			p.Sizes = append(p.Sizes, s)
		}
	}
	switch strings.ToLower(cell(cols, row, ColIsNew)) {
	case "1", "true", "yes", "y", "si", "sí":
		p.IsNew = true
	}
	if raw := strings.TrimSuffix(cell(cols, row, ColDiscount), "%"); raw != "" {
		d, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return p, fmt.Errorf("discount: %w", err)
		}
		if d != 0 {
			p.Discount = domain.IntPtr(d)
		}
	}
	return p, nil
}
