package ports

import (
	"context"
	"time"

	"github.com/phxauto/phoenixbid/internal/domain"
)

// HistoryStore persiste los resultados de scan para consulta posterior.
// Mantiene solo los scans más recientes (el store decide la retención).
type HistoryStore interface {
	// SaveScan persiste el resultado completo de un scan y devuelve su id.
	SaveScan(ctx context.Context, result domain.ScanResult) (string, error)

	// RecentScans devuelve el índice de scans más recientes, nuevos primero.
	RecentScans(ctx context.Context, limit int) ([]domain.ScanResult, error)

	// GetScan devuelve el scan completo (con estimados por pieza) por id.
	GetScan(ctx context.Context, id string) (domain.ScanResult, error)

	// DeleteScansBefore elimina scans anteriores al instante dado.
	DeleteScansBefore(ctx context.Context, cutoff time.Time) error

	Close() error
}
