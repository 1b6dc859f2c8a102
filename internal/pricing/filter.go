package pricing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/phxauto/phoenixbid/internal/domain"
)

// filter.go — limpieza rule-based de listings antes del análisis percentil.
//
// Tres etapas en orden: keywords sospechosos, suelo de precio, outliers IQR.
// Cada removal queda registrado con una razón legible para el activity log.

// suspiciousKeywords mapea nombre canónico de pieza → substrings que delatan
// un accesorio miscategorizado ("engine oil filter" no es un motor).
// Piezas sin entrada aquí se saltan la etapa de keywords.
var suspiciousKeywords = map[string][]string{
	"engine":        {"oil filter", "housing", "gasket", "seal", "sensor", "valve cover", "dipstick", "bracket", "mount", "belt", "pulley"},
	"alternator":    {"brush", "pulley", "wire", "connector", "regulator", "belt"},
	"transmission":  {"fluid", "filter", "gasket", "cooler", "mount", "line"},
	"starter":       {"solenoid", "brush", "drive", "gear", "bolt"},
	"brake caliper": {"pad", "rotor", "disc", "fluid", "line", "hose"},
	"fuel pump":     {"filter", "line", "hose", "tank", "sending unit"},
	"headlight":     {"bulb", "ballast", "wire", "connector", "lens", "cover"},
}

// minIQRSample es el mínimo de listings limpios para aplicar la etapa IQR.
// Con menos datos los cuartiles posicionales no son fiables.
const minIQRSample = 10

// maxRemovalDetails limita cuántas razones de removal se reportan en el reasoning.
const maxRemovalDetails = 3

// CleanResult es la salida del filtrado de listings de una pieza.
type CleanResult struct {
	Prices   []float64 // precios totales limpios, orden ascendente
	Removed  []string  // razón legible por cada listing eliminado, en orden
	Original int       // cuántos listings entraron al filtro
}

// RemovedCount devuelve cuántos listings fueron eliminados en total.
func (r CleanResult) RemovedCount() int {
	return len(r.Removed)
}

// Details devuelve las primeras razones de removal para diagnóstico.
func (r CleanResult) Details() []string {
	if len(r.Removed) <= maxRemovalDetails {
		return r.Removed
	}
	return r.Removed[:maxRemovalDetails]
}

// CleanListings aplica las tres etapas de limpieza sobre los listings de una
// pieza. Si todo se elimina, devuelve Prices vacío con todos los originales
// contados como removed.
func CleanListings(listings []domain.Listing, partName string, minPrice float64) CleanResult {
	result := CleanResult{Original: len(listings)}
	keywords := suspiciousKeywords[strings.ToLower(partName)]

	// Etapa 1: keywords sospechosos en el título (case-insensitive)
	var prices []float64
	for _, l := range listings {
		if kw := matchKeyword(l.Title, keywords); kw != "" {
			result.Removed = append(result.Removed,
				fmt.Sprintf("$%.2f - miscategorized (title contains %q)", l.Total(), kw))
			continue
		}
		prices = append(prices, l.Total())
	}

	// Etapa 2: suelo de precio configurable por pieza
	if minPrice > 0 {
		kept := prices[:0]
		for _, p := range prices {
			if p < minPrice {
				result.Removed = append(result.Removed,
					fmt.Sprintf("$%.2f - below minimum ($%.2f)", p, minPrice))
				continue
			}
			kept = append(kept, p)
		}
		prices = kept
	}

	// Etapa 3: outliers extremos por IQR, solo con muestra suficiente.
	// Cuartiles por posición en el array ordenado (n/4 y 3n/4), NO por
	// interpolación: esto es un guard grueso, no un percentil fino.
	if len(prices) >= minIQRSample {
		sorted := append([]float64(nil), prices...)
		sort.Float64s(sorted)
		q1 := sorted[len(sorted)/4]
		q3 := sorted[3*len(sorted)/4]
		iqr := q3 - q1
		lower, upper := q1-1.5*iqr, q3+1.5*iqr

		kept := prices[:0]
		for _, p := range prices {
			if p < lower || p > upper {
				result.Removed = append(result.Removed,
					fmt.Sprintf("$%.2f - statistical outlier (IQR bounds $%.2f..$%.2f)", p, lower, upper))
				continue
			}
			kept = append(kept, p)
		}
		prices = kept
	}

	sort.Float64s(prices)
	result.Prices = prices
	return result
}

// matchKeyword devuelve el primer keyword encontrado en el título, o "".
func matchKeyword(title string, keywords []string) string {
	if len(keywords) == 0 {
		return ""
	}
	lower := strings.ToLower(title)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return kw
		}
	}
	return ""
}
