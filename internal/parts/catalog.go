package parts

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/phxauto/phoenixbid/internal/domain"
)

// parts.go — catálogo de piezas a valorar en cada scan.
//
// El catálogo vive en un CSV editable por el usuario (search_query,
// category_id, min_price). Si el archivo no existe se usa una lista mínima
// embebida para que el scanner nunca arranque vacío.

// DefaultCatalog es el fallback cuando no hay CSV: las tres piezas de mayor
// valor de recuperación.
func DefaultCatalog() []domain.PartQuery {
	return []domain.PartQuery{
		{SearchTerm: "engine", CategoryID: "33615"},
		{SearchTerm: "transmission", CategoryID: "33616"},
		{SearchTerm: "alternator", CategoryID: "33555"},
	}
}

// LoadCatalog lee el catálogo de piezas desde un CSV con header
// search_query,category_id,min_price. Filas sin search_query o category_id
// se ignoran. Si el archivo no existe devuelve DefaultCatalog sin error.
func LoadCatalog(path string) ([]domain.PartQuery, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultCatalog(), nil
		}
		return nil, fmt.Errorf("parts.LoadCatalog: abrir %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parts.LoadCatalog: leer %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("parts.LoadCatalog: %s no tiene filas de datos", path)
	}

	col, err := columnIndex(rows[0])
	if err != nil {
		return nil, fmt.Errorf("parts.LoadCatalog: %s: %w", path, err)
	}

	var catalog []domain.PartQuery
	for i, row := range rows[1:] {
		query := field(row, col.search)
		category := field(row, col.category)
		if query == "" || category == "" {
			continue
		}

		var minPrice float64
		if raw := field(row, col.minPrice); raw != "" {
			minPrice, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("parts.LoadCatalog: fila %d: min_price %q inválido: %w", i+2, raw, err)
			}
		}

		catalog = append(catalog, domain.PartQuery{
			SearchTerm: query,
			CategoryID: category,
			MinPrice:   minPrice,
		})
	}

	if len(catalog) == 0 {
		return nil, fmt.Errorf("parts.LoadCatalog: %s no contiene piezas válidas", path)
	}
	return catalog, nil
}

type columns struct {
	search   int
	category int
	minPrice int
}

// columnIndex localiza las columnas por nombre de header; min_price es opcional.
func columnIndex(header []string) (columns, error) {
	col := columns{search: -1, category: -1, minPrice: -1}
	for i, name := range header {
		switch name {
		case "search_query":
			col.search = i
		case "category_id":
			col.category = i
		case "min_price":
			col.minPrice = i
		}
	}
	if col.search < 0 || col.category < 0 {
		return col, fmt.Errorf("header sin columnas search_query/category_id")
	}
	return col, nil
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
