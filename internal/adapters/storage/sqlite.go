package storage

// sqlite.go — historial de scans en SQLite.
//
// Estrategia:
//   - `scans`: una fila por scan de VIN (vehículo, totales, pujas, status).
//   - `part_estimates`: una fila por pieza del scan, con los tres tiers y
//     la metadata de confianza del análisis.
//   - Retención por cantidad, no por edad: al guardar se quedan solo los
//     50 scans más recientes. El historial es una herramienta de consulta
//     rápida antes de la subasta, no un archivo.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/phxauto/phoenixbid/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Una fila por scan de VIN
CREATE TABLE IF NOT EXISTS scans (
    id          TEXT PRIMARY KEY,
    vin         TEXT     NOT NULL,
    vehicle     TEXT     NOT NULL,
    scanned_at  DATETIME NOT NULL,
    total_low   REAL     NOT NULL DEFAULT 0,
    total_avg   REAL     NOT NULL DEFAULT 0,
    total_high  REAL     NOT NULL DEFAULT 0,
    bid_low     REAL     NOT NULL DEFAULT 0,
    bid_avg     REAL     NOT NULL DEFAULT 0,
    bid_high    REAL     NOT NULL DEFAULT 0,
    status      TEXT     NOT NULL DEFAULT 'COMPLETE'
);

-- Una fila por pieza de cada scan
CREATE TABLE IF NOT EXISTS part_estimates (
    scan_id      TEXT    NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
    position     INTEGER NOT NULL,
    part         TEXT    NOT NULL,
    low          REAL    NOT NULL DEFAULT 0,
    average      REAL    NOT NULL DEFAULT 0,
    high         REAL    NOT NULL DEFAULT 0,
    analyzed     INTEGER NOT NULL DEFAULT 0,
    filtered_out INTEGER NOT NULL DEFAULT 0,
    confidence   TEXT    NOT NULL DEFAULT 'yellow',
    conf_detail  TEXT,
    reasoning    TEXT,
    PRIMARY KEY (scan_id, part)
);

CREATE INDEX IF NOT EXISTS idx_scans_at  ON scans(scanned_at DESC);
CREATE INDEX IF NOT EXISTS idx_scans_vin ON scans(vin);
`

// maxScans es la retención del historial: al guardar el scan 51 se borra el
// más antiguo.
const maxScans = 50

// timeLayout es RFC3339 con nanos de ancho fijo: ordena lexicográficamente
// igual que cronológicamente, así ORDER BY scanned_at funciona sobre texto.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore implementa ports.HistoryStore usando SQLite (pure Go, sin CGo).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore abre (o crea) la base de datos en la ruta dada y aplica
// el schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStore: enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStore: apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// SaveScan persiste el scan completo con sus estimados por pieza y aplica
// la retención. Devuelve el id asignado.
func (s *SQLiteStore) SaveScan(ctx context.Context, result domain.ScanResult) (string, error) {
	id := result.ID
	if id == "" {
		id = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("storage.SaveScan: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO scans
			(id, vin, vehicle, scanned_at, total_low, total_avg, total_high,
			 bid_low, bid_avg, bid_high, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		result.VIN,
		result.Vehicle.String(),
		result.ScannedAt.UTC().Format(timeLayout),
		result.Totals.Low, result.Totals.Average, result.Totals.High,
		result.Bids.Low, result.Bids.Average, result.Bids.High,
		result.Status(),
	); err != nil {
		return "", fmt.Errorf("storage.SaveScan: insert scan: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO part_estimates
			(scan_id, position, part, low, average, high,
			 analyzed, filtered_out, confidence, conf_detail, reasoning)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("storage.SaveScan: prepare: %w", err)
	}
	defer stmt.Close()

	for pos, name := range result.Order {
		est := result.Parts[name]
		if _, err := stmt.ExecContext(ctx,
			id, pos, name,
			est.Low, est.Average, est.High,
			est.ItemsAnalyzed, est.ItemsFilteredOut,
			est.Confidence.String(), est.ConfidenceExplanation, est.Reasoning,
		); err != nil {
			return "", fmt.Errorf("storage.SaveScan: insert estimate %s: %w", name, err)
		}
	}

	// Retención: conservar solo los maxScans más recientes
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM scans WHERE id NOT IN (
			SELECT id FROM scans ORDER BY scanned_at DESC, id LIMIT ?
		)`, maxScans,
	); err != nil {
		return "", fmt.Errorf("storage.SaveScan: prune: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage.SaveScan: commit: %w", err)
	}
	return id, nil
}

// RecentScans devuelve el índice de scans (sin estimados por pieza),
// los más nuevos primero.
func (s *SQLiteStore) RecentScans(ctx context.Context, limit int) ([]domain.ScanResult, error) {
	if limit <= 0 || limit > maxScans {
		limit = maxScans
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, vin, vehicle, scanned_at,
		       total_low, total_avg, total_high,
		       bid_low, bid_avg, bid_high, status
		FROM scans
		ORDER BY scanned_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.RecentScans: query: %w", err)
	}
	defer rows.Close()

	var results []domain.ScanResult
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("storage.RecentScans: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// GetScan devuelve el scan completo, con estimados por pieza en el orden
// original del catálogo.
func (s *SQLiteStore) GetScan(ctx context.Context, id string) (domain.ScanResult, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, vin, vehicle, scanned_at,
		       total_low, total_avg, total_high,
		       bid_low, bid_avg, bid_high, status
		FROM scans WHERE id = ?`, id)

	result, err := scanRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.ScanResult{}, fmt.Errorf("storage.GetScan: scan %q no existe", id)
		}
		return domain.ScanResult{}, fmt.Errorf("storage.GetScan: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT part, low, average, high, analyzed, filtered_out,
		       confidence, conf_detail, reasoning
		FROM part_estimates
		WHERE scan_id = ?
		ORDER BY position`, id)
	if err != nil {
		return domain.ScanResult{}, fmt.Errorf("storage.GetScan: query estimates: %w", err)
	}
	defer rows.Close()

	result.Parts = make(map[string]domain.TierEstimate)
	for rows.Next() {
		var name, confidence string
		var detail, reasoning sql.NullString
		var est domain.TierEstimate
		if err := rows.Scan(
			&name,
			&est.Low, &est.Average, &est.High,
			&est.ItemsAnalyzed, &est.ItemsFilteredOut,
			&confidence, &detail, &reasoning,
		); err != nil {
			return domain.ScanResult{}, fmt.Errorf("storage.GetScan: scan estimate: %w", err)
		}
		est.Confidence, _ = domain.ParseConfidence(confidence)
		est.ConfidenceExplanation = detail.String
		est.Reasoning = reasoning.String

		result.Parts[name] = est
		result.Order = append(result.Order, name)
	}
	return result, rows.Err()
}

// DeleteScansBefore elimina los scans anteriores al instante dado.
func (s *SQLiteStore) DeleteScansBefore(ctx context.Context, cutoff time.Time) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM scans WHERE scanned_at < ?`, cutoff.UTC().Format(timeLayout),
	); err != nil {
		return fmt.Errorf("storage.DeleteScansBefore: %w", err)
	}
	return nil
}

// Close cierra la base de datos.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// rowScanner cubre *sql.Row y *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner) (domain.ScanResult, error) {
	var r domain.ScanResult
	var vehicle, scannedAt string
	if err := row.Scan(
		&r.ID, &r.VIN, &vehicle, &scannedAt,
		&r.Totals.Low, &r.Totals.Average, &r.Totals.High,
		&r.Bids.Low, &r.Bids.Average, &r.Bids.High,
		&r.StoredStatus,
	); err != nil {
		return domain.ScanResult{}, err
	}
	r.ScannedAt, _ = time.Parse(timeLayout, scannedAt)
	// El string del vehículo basta para el índice; el detalle completo
	// vive en el scan original.
	r.Vehicle = domain.Vehicle{Model: vehicle}
	return r, nil
}
