// Package normalize turns raw catalog records into normalized items with
// accent-stripped, lowercase search fields.
package normalize

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ludmilasolutions/productos/internal/models"
)

// ErrMalformedRecord signals a record missing codigo, descripcion or
// precio_venta. Callers drop the record; the error is never surfaced past
// the ingestion layer.
var ErrMalformedRecord = errors.New("malformed catalog record")

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and strips combining diacritical marks
// after canonical decomposition (e.g. "Ñandú" -> "nandu").
func Fold(s string) string {
	out, _, err := transform.String(stripAccents, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// SearchText folds s and additionally replaces every non-alphanumeric rune
// with a space, collapsing runs of whitespace to one space and trimming.
// This is the canonical form indexed and matched against query words.
func SearchText(s string) string {
	folded := Fold(s)
	var b strings.Builder
	b.Grow(len(folded))
	lastSpace := true
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Record normalizes one raw catalog record. Returns ErrMalformedRecord when
// codigo, descripcion or precio_venta is absent. Price is coerced to a
// number; unparseable or negative input yields 0, never an error.
func Record(raw *models.CatalogItem) (*models.Item, error) {
	if raw.Codigo == nil || raw.Descripcion == nil || raw.PrecioVenta == nil {
		return nil, ErrMalformedRecord
	}
	code := strings.TrimSpace(*raw.Codigo)
	description := strings.TrimSpace(*raw.Descripcion)
	if code == "" || description == "" {
		return nil, ErrMalformedRecord
	}

	item := &models.Item{
		Code:        code,
		Description: description,
		Category:    strings.TrimSpace(raw.Rubro),
		Brand:       strings.TrimSpace(raw.Marca),
		Price:       coercePrice(raw.PrecioVenta),
	}
	item.CodeNorm = Fold(item.Code)
	item.DescriptionNorm = Fold(item.Description)
	item.CategoryNorm = Fold(item.Category)
	item.BrandNorm = Fold(item.Brand)
	item.SearchText = SearchText(item.Code + " " + item.Description + " " + item.Brand + " " + item.Category)
	return item, nil
}

// coercePrice maps the untyped precio_venta value to a non-negative float64.
func coercePrice(v any) float64 {
	var price float64
	switch p := v.(type) {
	case float64:
		price = p
	case int:
		price = float64(p)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(p, ",", ".")), 64)
		if err != nil {
			return 0
		}
		price = parsed
	default:
		return 0
	}
	if price < 0 {
		return 0
	}
	return price
}
