package scan

// concurrent.go — pool de workers para buscar y analizar piezas en paralelo.
//
// El cuello de botella del scan es la búsqueda en el marketplace (una llamada
// HTTP por pieza). Con catálogos grandes el modo concurrente recorta el scan
// de minutos a segundos; el rate limiter del searcher sigue acotando el
// tráfico real hacia el API.

import (
	"context"
	"sync"

	"github.com/phxauto/phoenixbid/internal/domain"
)

const defaultWorkers = 3

// estimateConcurrent procesa el catálogo con un pool de workers acotado.
// Cada pieza mantiene su propio timeout; el orden del resultado lo da
// ScanResult.Order, no el orden de terminación.
func (s *Scanner) estimateConcurrent(ctx context.Context, vehicle domain.Vehicle, out map[string]domain.TierEstimate) {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	type partResult struct {
		name string
		est  domain.TierEstimate
	}

	workCh := make(chan domain.PartQuery, len(s.catalog))
	resultCh := make(chan partResult, len(s.catalog))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for part := range workCh {
				resultCh <- partResult{
					name: part.Name(),
					est:  s.estimatePart(ctx, vehicle, part),
				}
			}
		}()
	}

	s.activity.Line("searching %d parts (%d concurrent)...", len(s.catalog), workers)
	for _, part := range s.catalog {
		workCh <- part
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for r := range resultCh {
		out[r.name] = r.est
	}
}
