package pricing

import (
	"context"
	"fmt"
	"strings"

	"github.com/phxauto/phoenixbid/internal/domain"
	"github.com/phxauto/phoenixbid/internal/ports"
)

// Analyzer es la estrategia de análisis de precios: convierte los listings
// crudos de una pieza en un estimado de tres tiers. Nunca devuelve error —
// los fallos degradan a un estimado en cero o al path estadístico.
type Analyzer interface {
	Analyze(ctx context.Context, listings []domain.Listing, part domain.PartQuery, vehicle domain.Vehicle) domain.TierEstimate
}

// minStatisticalSample es el mínimo de listings para el pipeline percentil
// completo. Por debajo, la media aritmética es el único estimado defendible.
const minStatisticalSample = 3

// aggressiveSample: con menos de 10 precios limpios se usan percentiles más
// agresivos (5/25/50 en vez de 10/30/50) para que los extremos de una muestra
// pequeña no arrastren los tiers.
const aggressiveSample = 10

// DistributionAnalyzer es el path estadístico determinista: limpieza
// rule-based + percentiles interpolados + redondeo adaptativo.
// No calcula confidence; reporta siempre yellow.
type DistributionAnalyzer struct {
	activity ports.ActivityLog
}

// NewDistributionAnalyzer crea el analizador estadístico.
func NewDistributionAnalyzer(activity ports.ActivityLog) *DistributionAnalyzer {
	return &DistributionAnalyzer{activity: activity}
}

// Analyze implementa la estrategia estadística.
//
// Casos:
//   - 0 listings → todo en cero.
//   - 1–2 listings → los tres tiers igual a la media (degenerado).
//   - ≥3 → filtrar; si no queda nada, cero con todos contados como removed;
//     si queda, percentiles + smart rounding + separación forzada de tiers.
func (a *DistributionAnalyzer) Analyze(_ context.Context, listings []domain.Listing, part domain.PartQuery, _ domain.Vehicle) domain.TierEstimate {
	partName := part.Name()

	if len(listings) == 0 {
		return domain.TierEstimate{
			Confidence: domain.ConfidenceYellow,
			Reasoning:  "no listings to analyze",
		}
	}

	if len(listings) < minStatisticalSample {
		var sum float64
		for _, l := range listings {
			sum += l.Total()
		}
		avg := sum / float64(len(listings))
		a.activity.Line("%s: only %d listings, using arithmetic mean $%.2f", partName, len(listings), avg)
		return domain.TierEstimate{
			Low: avg, Average: avg, High: avg,
			ItemsAnalyzed: len(listings),
			Confidence:    domain.ConfidenceYellow,
			Reasoning:     fmt.Sprintf("too few data points (%d) for percentile analysis, all tiers set to mean", len(listings)),
		}
	}

	cleaned := CleanListings(listings, partName, part.MinPrice)
	for _, reason := range cleaned.Details() {
		a.activity.Line("%s: removed %s", partName, reason)
	}

	if len(cleaned.Prices) == 0 {
		a.activity.Line("%s: all %d listings filtered out", partName, cleaned.Original)
		return domain.TierEstimate{
			ItemsAnalyzed:    cleaned.Original,
			ItemsFilteredOut: cleaned.Original,
			Confidence:       domain.ConfidenceYellow,
			Reasoning:        "every listing was rejected by the cleaning stages",
		}
	}

	prices := cleaned.Prices // ya ordenados ascendente
	n := len(prices)

	// Percentiles agresivos para muestras pequeñas: acercan los extremos al
	// centro para que sigan siendo representativos.
	pLow, pMid, pHigh := 10.0, 30.0, 50.0
	if n < aggressiveSample {
		pLow, pMid = 5.0, 25.0
	}

	low := domain.SmartRound(domain.Percentile(prices, pLow), n)
	average := domain.SmartRound(domain.Percentile(prices, pMid), n)
	high := domain.SmartRound(domain.Percentile(prices, pHigh), n)

	low, average, high = domain.SeparateTiers(low, average, high, prices[0], prices[n-1])

	return domain.TierEstimate{
		Low: low, Average: average, High: high,
		ItemsAnalyzed:    cleaned.Original,
		ItemsFilteredOut: cleaned.RemovedCount(),
		Confidence:       domain.ConfidenceYellow,
		Reasoning:        buildReasoning(cleaned, n, pLow, pMid, pHigh),
	}
}

// buildReasoning arma el audit trail del filtrado para el estimado.
func buildReasoning(cleaned CleanResult, n int, pLow, pMid, pHigh float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "statistical analysis of %d listings (%d removed), tiers at p%.0f/p%.0f/p%.0f",
		cleaned.Original, cleaned.RemovedCount(), pLow, pMid, pHigh)
	if details := cleaned.Details(); len(details) > 0 {
		fmt.Fprintf(&sb, "; removals: %s", strings.Join(details, "; "))
	}
	return sb.String()
}
