// Package models defines core data structures for catalog items, queries, and search results.
package models

// CatalogItem is one raw record from the catalog source. Fields are optional
// pointers because upstream exports are partial; records missing codigo,
// descripcion or precio_venta are dropped during normalization.
type CatalogItem struct {
	Codigo      *string `json:"codigo"`
	Descripcion *string `json:"descripcion"`
	Rubro       string  `json:"rubro"`
	Marca       string  `json:"marca"`
	// PrecioVenta may arrive as a JSON number or a numeric string.
	PrecioVenta any `json:"precio_venta"`
}

// Item is a normalized catalog item. Immutable once created; owned by the
// catalog it was loaded into.
type Item struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`

	// Normalized (lowercase, accent-stripped) copies used for scoring.
	CodeNorm        string `json:"-"`
	DescriptionNorm string `json:"-"`
	CategoryNorm    string `json:"-"`
	BrandNorm       string `json:"-"`

	// SearchText is all four fields joined, normalized, with non-alphanumeric
	// runs collapsed to single spaces. The inverted index tokenizes this.
	SearchText string `json:"-"`
}
