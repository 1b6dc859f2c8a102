package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phxauto/phoenixbid/internal/domain"
	"github.com/phxauto/phoenixbid/internal/ports"
)

// ai.go — estrategia de análisis delegada al modelo de lenguaje.
//
// El modelo recibe los listings en CSV y un contrato de salida JSON estricto.
// Su respuesta se trata como payload NO confiable: validación completa de
// schema antes de usarla, y cualquier desviación degrada al path estadístico.
// El path de IA nunca puede ser una dependencia dura del scan.

const (
	maxModelAttempts = 2
	retryBackoff     = 500 * time.Millisecond
)

// requiredKeys son las claves que el JSON del modelo debe traer sí o sí.
var requiredKeys = []string{
	"low_price", "average_price", "high_price",
	"items_analyzed", "items_filtered_out",
	"reasoning", "confidence_rating", "confidence_explanation",
}

// modelResponse es el schema del JSON que devuelve el modelo.
type modelResponse struct {
	LowPrice              float64 `json:"low_price"`
	AveragePrice          float64 `json:"average_price"`
	HighPrice             float64 `json:"high_price"`
	ItemsAnalyzed         int     `json:"items_analyzed"`
	ItemsFilteredOut      int     `json:"items_filtered_out"`
	Reasoning             string  `json:"reasoning"`
	ConfidenceRating      string  `json:"confidence_rating"`
	ConfidenceExplanation string  `json:"confidence_explanation"`
}

// InstructionSource provee las instrucciones custom del usuario para el prompt.
// Se consulta en cada análisis para recoger ediciones entre scans.
type InstructionSource interface {
	Current() string
}

// AIAnalyzer delega el filtrado y el juicio percentil al modelo de lenguaje,
// con fallback a DistributionAnalyzer ante cualquier fallo de transporte,
// parseo o schema.
type AIAnalyzer struct {
	completer    ports.Completer
	fallback     *DistributionAnalyzer
	instructions InstructionSource
	activity     ports.ActivityLog
}

// NewAIAnalyzer crea la estrategia de IA. instructions puede ser nil.
func NewAIAnalyzer(completer ports.Completer, fallback *DistributionAnalyzer, instructions InstructionSource, activity ports.ActivityLog) *AIAnalyzer {
	return &AIAnalyzer{
		completer:    completer,
		fallback:     fallback,
		instructions: instructions,
		activity:     activity,
	}
}

// Analyze implementa la estrategia de IA. Mismo contrato de retorno que el
// path estadístico, pero con confidence real del modelo.
func (a *AIAnalyzer) Analyze(ctx context.Context, listings []domain.Listing, part domain.PartQuery, vehicle domain.Vehicle) domain.TierEstimate {
	partName := part.Name()

	if len(listings) == 0 {
		return domain.TierEstimate{
			Confidence: domain.ConfidenceYellow,
			Reasoning:  "no listings to analyze",
		}
	}

	// Pre-filtro por suelo de precio: no gastamos tokens en listings
	// que el contrato obliga a descartar de todas formas.
	eligible := listings
	if part.MinPrice > 0 {
		eligible = make([]domain.Listing, 0, len(listings))
		for _, l := range listings {
			if l.Total() >= part.MinPrice {
				eligible = append(eligible, l)
			}
		}
	}

	var custom string
	if a.instructions != nil {
		custom = a.instructions.Current()
	}
	prompt := BuildPrompt(partName, FormatListings(eligible), part.MinPrice, vehicle, custom)

	a.activity.Line("%s: analyzing %d listings with AI", partName, len(eligible))

	raw, err := a.completeWithRetry(ctx, partName, prompt)
	if err != nil {
		a.activity.Line("%s: model call failed (%v), falling back to statistical analysis", partName, err)
		return a.fallback.Analyze(ctx, listings, part, vehicle)
	}

	est, err := a.parseResponse(partName, raw)
	if err != nil {
		// Respuesta recibida pero inválida: NO se reintenta la misma
		// llamada malformada — fallback directo.
		a.activity.Line("%s: invalid model response (%v), falling back to statistical analysis", partName, err)
		slog.Warn("model response rejected", "part", partName, "err", err)
		return a.fallback.Analyze(ctx, listings, part, vehicle)
	}

	a.activity.Line("%s: AI analyzed %d, filtered %d, confidence %s - %s",
		partName, est.ItemsAnalyzed, est.ItemsFilteredOut, est.Confidence, est.ConfidenceExplanation)
	a.activity.Line("%s: AI reasoning: %s", partName, est.Reasoning)
	return est
}

// completeWithRetry llama al modelo con hasta maxModelAttempts intentos.
// Solo los errores de transporte se reintentan.
func (a *AIAnalyzer) completeWithRetry(ctx context.Context, partName, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxModelAttempts; attempt++ {
		a.activity.Line("%s: model call attempt %d/%d", partName, attempt, maxModelAttempts)

		raw, err := a.completer.Complete(ctx, prompt)
		if err == nil {
			return raw, nil
		}
		lastErr = err

		if attempt < maxModelAttempts {
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	return "", fmt.Errorf("exhausted %d attempts: %w", maxModelAttempts, lastErr)
}

// parseResponse limpia, parsea y valida la respuesta del modelo.
func (a *AIAnalyzer) parseResponse(partName, raw string) (domain.TierEstimate, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return domain.TierEstimate{}, fmt.Errorf("empty response after cleanup")
	}

	// Primera pasada sobre un map para validar presencia de claves:
	// un struct decodearía claves ausentes a zero values en silencio.
	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &keys); err != nil {
		return domain.TierEstimate{}, fmt.Errorf("parse JSON: %w", err)
	}
	for _, k := range requiredKeys {
		if _, ok := keys[k]; !ok {
			return domain.TierEstimate{}, fmt.Errorf("missing required key %q", k)
		}
	}

	var resp modelResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return domain.TierEstimate{}, fmt.Errorf("decode schema: %w", err)
	}

	confidence, ok := domain.ParseConfidence(resp.ConfidenceRating)
	if !ok {
		slog.Warn("unrecognized confidence rating, defaulting to yellow",
			"part", partName, "rating", resp.ConfidenceRating)
		a.activity.Line("%s: invalid confidence rating %q, defaulting to yellow", partName, resp.ConfidenceRating)
	}

	return domain.TierEstimate{
		Low:                   resp.LowPrice,
		Average:               resp.AveragePrice,
		High:                  resp.HighPrice,
		ItemsAnalyzed:         resp.ItemsAnalyzed,
		ItemsFilteredOut:      resp.ItemsFilteredOut,
		Confidence:            confidence,
		ConfidenceExplanation: resp.ConfidenceExplanation,
		Reasoning:             resp.Reasoning,
	}, nil
}

// stripFences elimina el wrapping de markdown y cualquier texto alrededor
// del objeto JSON. Los modelos a veces envuelven la salida en ```json pese
// a las instrucciones.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if start := strings.Index(s, "{"); start >= 0 {
		s = s[start:]
	}
	if end := strings.LastIndex(s, "}"); end >= 0 {
		s = s[:end+1]
	}
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
