package domain

import (
	"fmt"
	"strings"
	"time"
)

// Confidence es el rating ordinal de calidad de un estimado de precios.
// Orden de peor a mejor; solo el path de IA lo calcula realmente,
// el path estadístico siempre reporta ConfidenceYellow.
type Confidence int

const (
	ConfidenceRed Confidence = iota // mayoría de listings inapropiados
	ConfidenceOrange                // datos pobres o muestra muy pequeña
	ConfidenceYellow                // calidad mixta — default del path estadístico
	ConfidenceLightGreen            // datos buenos y apropiados
	ConfidenceDarkGreen             // datos excelentes y consistentes
)

// ParseConfidence convierte el string del modelo al enum.
// Valores no reconocidos devuelven (ConfidenceYellow, false) — el caller
// decide si loguear el warning.
func ParseConfidence(s string) (Confidence, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red":
		return ConfidenceRed, true
	case "orange":
		return ConfidenceOrange, true
	case "yellow":
		return ConfidenceYellow, true
	case "light_green":
		return ConfidenceLightGreen, true
	case "dark_green":
		return ConfidenceDarkGreen, true
	default:
		return ConfidenceYellow, false
	}
}

func (c Confidence) String() string {
	switch c {
	case ConfidenceRed:
		return "red"
	case ConfidenceOrange:
		return "orange"
	case ConfidenceYellow:
		return "yellow"
	case ConfidenceLightGreen:
		return "light_green"
	case ConfidenceDarkGreen:
		return "dark_green"
	default:
		return "yellow"
	}
}

// Label devuelve la etiqueta corta para display en consola.
func (c Confidence) Label() string {
	switch c {
	case ConfidenceRed:
		return "POOR"
	case ConfidenceOrange:
		return "LOW"
	case ConfidenceYellow:
		return "MED"
	case ConfidenceLightGreen:
		return "GOOD"
	case ConfidenceDarkGreen:
		return "HIGH"
	default:
		return "MED"
	}
}

// Low devuelve true si el rating está en la zona de aviso (orange o red).
func (c Confidence) Low() bool {
	return c <= ConfidenceOrange
}

// TierEstimate es el estimado de tres tiers para una pieza.
// Invariante: Low ≤ Average ≤ High siempre que hubo ≥3 datos válidos;
// los tres son iguales solo en el caso degenerado (≤2 listings).
type TierEstimate struct {
	Low     float64 // budget tier
	Average float64 // standard tier
	High    float64 // premium tier

	ItemsAnalyzed    int // listings recibidos del search
	ItemsFilteredOut int // suma de removals de todas las etapas de filtrado

	Confidence            Confidence
	ConfidenceExplanation string
	Reasoning             string // audit trail de las decisiones de filtrado
}

// Failed devuelve true si la pieza no pudo ser valorada (los tres tiers en cero).
func (e TierEstimate) Failed() bool {
	return e.Low == 0 && e.Average == 0 && e.High == 0
}

// BidTotals suma los tiers de todas las piezas de un scan.
type BidTotals struct {
	Low     float64
	Average float64
	High    float64
}

// BidRecommendation es la puja recomendada por tier, derivada de BidTotals
// con la fórmula de puja. Recalculada en cada scan, nunca mutada.
type BidRecommendation struct {
	Low     float64
	Average float64
	High    float64
}

// ScanResult es el resultado completo de un scan de VIN: el objeto que
// consume el notifier y persiste el history store.
type ScanResult struct {
	ID        string // uuid asignado al persistir
	VIN       string
	Vehicle   Vehicle
	ScannedAt time.Time

	Parts  map[string]TierEstimate // part name → estimado
	Order  []string                // orden de catálogo, para display estable
	Totals BidTotals
	Bids   BidRecommendation

	// StoredStatus es el status persistido; los índices de historial lo
	// cargan sin los estimados por pieza, así que no puede rederivarse.
	StoredStatus string
}

// FailedParts devuelve los nombres de las piezas que no pudieron valorarse.
func (r ScanResult) FailedParts() []string {
	var failed []string
	for _, name := range r.Order {
		if r.Parts[name].Failed() {
			failed = append(failed, name)
		}
	}
	return failed
}

// LowConfidenceParts devuelve las piezas valoradas pero con rating orange/red.
func (r ScanResult) LowConfidenceParts() []string {
	var low []string
	for _, name := range r.Order {
		est := r.Parts[name]
		if !est.Failed() && est.Confidence.Low() {
			low = append(low, name)
		}
	}
	return low
}

// Status deriva el estado global del scan para el índice de historial.
// Un scan cargado sin estimados usa el status con el que se persistió.
func (r ScanResult) Status() string {
	if len(r.Parts) == 0 && r.StoredStatus != "" {
		return r.StoredStatus
	}
	if n := len(r.FailedParts()); n > 0 {
		return fmt.Sprintf("%d FAILED", n)
	}
	if n := len(r.LowConfidenceParts()); n > 0 {
		return fmt.Sprintf("%d LOW CONF", n)
	}
	return "COMPLETE"
}
