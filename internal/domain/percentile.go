package domain

import "math"

// smallDataset es el umbral bajo el cual un dataset se considera pequeño
// y necesita granularidad más fina de redondeo para no colapsar los tiers.
const smallDataset = 10

// Percentile calcula el percentil p (0–100) por interpolación lineal
// sobre valores ya ordenados ascendente. Con un solo elemento lo devuelve tal cual.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	idx := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := lower + 1
	if upper > len(sorted)-1 {
		upper = len(sorted) - 1
	}
	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// SmartRound redondea un precio al incremento apropiado según su magnitud
// y el tamaño del dataset limpio. Datasets pequeños usan incrementos más
// finos: con pocos puntos, redondear a $25 colapsa los tres tiers en uno.
func SmartRound(value float64, datasetSize int) float64 {
	if datasetSize < smallDataset {
		switch {
		case value < 50:
			return math.Round(value)
		case value < 200:
			return math.Round(value/5) * 5
		default:
			return math.Round(value/10) * 10
		}
	}
	switch {
	case value < 100:
		return math.Round(value/5) * 5
	case value < 500:
		return math.Round(value/10) * 10
	default:
		return math.Round(value/25) * 25
	}
}

// separationStep devuelve el paso de separación forzada según el rango observado.
func separationStep(priceRange float64) float64 {
	switch {
	case priceRange < 50:
		return 5
	case priceRange < 200:
		return 10
	default:
		return 25
	}
}

// SeparateTiers fuerza separación entre tiers cuando el redondeo los dejó
// idénticos pero el rango real de precios supera $10. Low baja un paso
// (clampeado al mínimo observado) y High sube un paso.
func SeparateTiers(low, average, high, minPrice, maxPrice float64) (float64, float64, float64) {
	if low != average || average != high {
		return low, average, high
	}
	priceRange := maxPrice - minPrice
	if priceRange <= 10 {
		return low, average, high
	}
	step := separationStep(priceRange)
	low = math.Max(low-step, minPrice)
	high += step
	return low, average, high
}
