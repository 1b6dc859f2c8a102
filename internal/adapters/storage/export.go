package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// export.go — export del índice de historial a CSV.
//
// Una fila por scan, sin estimados por pieza: el CSV es para comparar
// vehículos en una hoja de cálculo antes de la subasta.

var exportHeader = []string{
	"scan_id", "vin", "vehicle", "scanned_at",
	"total_low", "total_avg", "total_high",
	"bid_low", "bid_avg", "bid_high", "status",
}

// ExportCSV escribe el índice completo de scans al writer dado.
// Devuelve cuántos scans se exportaron.
func (s *SQLiteStore) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	scans, err := s.RecentScans(ctx, maxScans)
	if err != nil {
		return 0, fmt.Errorf("storage.ExportCSV: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("storage.ExportCSV: write header: %w", err)
	}

	for _, r := range scans {
		row := []string{
			r.ID,
			r.VIN,
			r.Vehicle.String(),
			r.ScannedAt.UTC().Format(time.RFC3339),
			money(r.Totals.Low), money(r.Totals.Average), money(r.Totals.High),
			money(r.Bids.Low), money(r.Bids.Average), money(r.Bids.High),
			r.Status(),
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("storage.ExportCSV: write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("storage.ExportCSV: flush: %w", err)
	}
	return len(scans), nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
