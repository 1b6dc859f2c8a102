package scan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phxauto/phoenixbid/internal/domain"
	"github.com/phxauto/phoenixbid/internal/ports"
	"github.com/phxauto/phoenixbid/internal/pricing"
)

// Config contiene la configuración del scanner.
type Config struct {
	Concurrent  bool          // búsqueda de piezas en paralelo
	Workers     int           // goroutines del pool concurrente (0 = 3)
	PartTimeout time.Duration // timeout por pieza (0 = 45s)
}

const defaultPartTimeout = 45 * time.Second

// Scanner es el orquestador de un scan de VIN: decode → búsqueda y análisis
// por pieza → agregación de pujas → notificación y persistencia.
type Scanner struct {
	cfg      Config
	decoder  ports.VehicleDecoder
	searcher ports.PartSearcher
	analyzer pricing.Analyzer
	store    ports.HistoryStore
	notifier ports.Notifier
	activity ports.ActivityLog
	catalog  []domain.PartQuery
}

// New crea un Scanner con todas las dependencias inyectadas.
// La estrategia de análisis se inyecta desde fuera (cmd/) para respetar la
// inversión de dependencias. store y notifier pueden ser nil.
func New(
	cfg Config,
	decoder ports.VehicleDecoder,
	searcher ports.PartSearcher,
	analyzer pricing.Analyzer,
	store ports.HistoryStore,
	notifier ports.Notifier,
	activity ports.ActivityLog,
	catalog []domain.PartQuery,
) *Scanner {
	if cfg.PartTimeout <= 0 {
		cfg.PartTimeout = defaultPartTimeout
	}
	return &Scanner{
		cfg:      cfg,
		decoder:  decoder,
		searcher: searcher,
		analyzer: analyzer,
		store:    store,
		notifier: notifier,
		activity: activity,
		catalog:  catalog,
	}
}

// Scan ejecuta un scan completo para el VIN dado.
//
// Solo el decode puede abortar el scan: una pieza que falla (error de
// búsqueda, timeout) entra al resultado como estimado en cero y el scan
// continúa con las demás.
func (s *Scanner) Scan(ctx context.Context, vin string) (domain.ScanResult, error) {
	start := time.Now()

	vehicle, err := s.decoder.Decode(ctx, vin)
	if err != nil {
		return domain.ScanResult{}, fmt.Errorf("scan.Scan: %w", err)
	}
	s.activity.Line("decoded %s: %s", vehicle.VIN, vehicle)
	if label := vehicle.EngineLabel(); label != "" {
		s.activity.Line("engine: %s", label)
	}

	result := domain.ScanResult{
		VIN:       vehicle.VIN,
		Vehicle:   vehicle,
		ScannedAt: start,
		Parts:     make(map[string]domain.TierEstimate, len(s.catalog)),
	}
	for _, part := range s.catalog {
		result.Order = append(result.Order, part.Name())
	}

	if s.cfg.Concurrent {
		s.estimateConcurrent(ctx, vehicle, result.Parts)
	} else {
		s.estimateSequential(ctx, vehicle, result.Parts)
	}

	result.Totals, result.Bids = domain.AggregateBids(result.Parts)

	slog.Info("scan complete",
		"vin", vehicle.VIN,
		"parts", len(result.Parts),
		"failed", len(result.FailedParts()),
		"status", result.Status(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, result); err != nil {
			slog.Warn("notifier error", "err", err)
		}
	}
	if s.store != nil {
		id, err := s.store.SaveScan(ctx, result)
		if err != nil {
			slog.Warn("storage error", "err", err)
		} else {
			result.ID = id
		}
	}
	return result, nil
}

// estimateSequential procesa el catálogo pieza a pieza, en orden.
func (s *Scanner) estimateSequential(ctx context.Context, vehicle domain.Vehicle, out map[string]domain.TierEstimate) {
	for i, part := range s.catalog {
		s.activity.Line("searching %s (%d/%d)...", part.Name(), i+1, len(s.catalog))
		out[part.Name()] = s.estimatePart(ctx, vehicle, part)
	}
}

// estimatePart busca y analiza una pieza bajo su propio timeout.
// Nunca devuelve error: los fallos degradan a un estimado en cero.
func (s *Scanner) estimatePart(ctx context.Context, vehicle domain.Vehicle, part domain.PartQuery) domain.TierEstimate {
	partCtx, cancel := context.WithTimeout(ctx, s.cfg.PartTimeout)
	defer cancel()

	listings, err := s.searcher.Search(partCtx, vehicle, part)
	if err != nil {
		s.activity.Line("✗ %s failed: %v", part.Name(), err)
		return domain.TierEstimate{
			Confidence: domain.ConfidenceYellow,
			Reasoning:  fmt.Sprintf("search failed: %v", err),
		}
	}
	s.activity.Line("%s: %d listings found", part.Name(), len(listings))

	est := s.analyzer.Analyze(partCtx, listings, part, vehicle)
	if est.Failed() {
		s.activity.Line("✗ %s: no usable price data", part.Name())
	} else {
		s.activity.Line("✓ %s completed (%s)", part.Name(), est.Confidence.Label())
	}
	return est
}
