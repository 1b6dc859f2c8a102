package domain

import "math"

const (
	bidFloor          = 300.0   // puja fija para totales pequeños
	bidFloorThreshold = 3000.0  // hasta aquí aplica la puja fija
	bidBasePct        = 0.25    // porcentaje base sobre el exceso
	bidGrowthPct      = 0.40    // crecimiento sub-lineal del porcentaje
	bidGrowthScale    = 15000.0 // escala del término raíz cuadrada
)

// RecommendBid aplica la fórmula de puja sobre el valor total de piezas.
// Continua, monótona creciente y cóncava: floor de $300 para totales bajos,
// y un premium que crece con la raíz del exceso para que vehículos de muy
// alto valor no reciban pujas desproporcionadas.
func RecommendBid(partsValue float64) float64 {
	if partsValue <= 0 {
		return 0
	}
	if partsValue <= bidFloorThreshold {
		return bidFloor
	}
	excess := partsValue - bidFloorThreshold
	percentage := bidBasePct + bidGrowthPct*math.Sqrt(excess/bidGrowthScale)
	return bidFloor + excess*percentage
}

// AggregateBids suma los tiers de todos los estimados y calcula la puja
// recomendada por tier. La fórmula se evalúa idéntica e independiente
// para cada uno de los tres tiers.
func AggregateBids(parts map[string]TierEstimate) (BidTotals, BidRecommendation) {
	var totals BidTotals
	for _, est := range parts {
		totals.Low += est.Low
		totals.Average += est.Average
		totals.High += est.High
	}
	bids := BidRecommendation{
		Low:     RecommendBid(totals.Low),
		Average: RecommendBid(totals.Average),
		High:    RecommendBid(totals.High),
	}
	return totals, bids
}
