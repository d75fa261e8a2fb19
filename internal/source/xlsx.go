package source

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ludmilasolutions/productos/internal/catalog"
	"github.com/ludmilasolutions/productos/internal/models"
)

// xlsx column headers recognized on the first row, matched case-insensitively.
var xlsxColumns = map[string]string{
	"codigo":       "codigo",
	"código":       "codigo",
	"descripcion":  "descripcion",
	"descripción":  "descripcion",
	"rubro":        "rubro",
	"marca":        "marca",
	"precio_venta": "precio_venta",
	"precio venta": "precio_venta",
	"precio":       "precio_venta",
}

// ReadXLSX reads a catalog from the first sheet of an XLSX price list. The
// first row must be a header naming the catalog columns; unknown columns are
// ignored. Cells are carried as strings and coerced during normalization.
func ReadXLSX(path string) ([]models.CatalogItem, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &catalog.LoadError{Stage: "fetch", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &catalog.LoadError{Stage: "decode", Err: fmt.Errorf("workbook %s has no sheets", path)}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &catalog.LoadError{Stage: "decode", Err: err}
	}
	if len(rows) == 0 {
		return nil, &catalog.LoadError{Stage: "decode", Err: fmt.Errorf("sheet %s is empty", sheets[0])}
	}

	fieldByCol := make(map[int]string)
	for col, header := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(header))
		if field, ok := xlsxColumns[key]; ok {
			fieldByCol[col] = field
		}
	}
	if len(fieldByCol) == 0 {
		return nil, &catalog.LoadError{Stage: "decode", Err: fmt.Errorf("sheet %s has no recognized catalog columns", sheets[0])}
	}

	raw := make([]models.CatalogItem, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var rec models.CatalogItem
		for col, field := range fieldByCol {
			if col >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[col])
			if value == "" {
				continue
			}
			switch field {
			case "codigo":
				v := value
				rec.Codigo = &v
			case "descripcion":
				v := value
				rec.Descripcion = &v
			case "rubro":
				rec.Rubro = value
			case "marca":
				rec.Marca = value
			case "precio_venta":
				rec.PrecioVenta = value
			}
		}
		raw = append(raw, rec)
	}
	return raw, nil
}
