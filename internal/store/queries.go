package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/androidtrackers/certified-android-devices/internal/device"
)

// ReplaceDevices swaps the stored device set for records in one transaction.
// Feed order is kept in the position column.
func (s *Store) ReplaceDevices(records []device.Record, syncedAt string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM devices`); err != nil {
		return wrapErr(err, "failed to clear devices")
	}

	stmt, err := tx.Prepare(`INSERT INTO devices (position, brand, name, device, model) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.Exec(i, r.Brand, r.Name, r.Device, r.Model); err != nil {
			return fmt.Errorf("failed to insert device %s: %w", r.Device, err)
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO sync_state (id, synced_at, record_count) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET synced_at = excluded.synced_at, record_count = excluded.record_count
	`, syncedAt, len(records)); err != nil {
		return wrapErr(err, "failed to record sync state")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit devices: %w", err)
	}
	return nil
}

// Lookup returns every record whose field equals key, in feed order.
func (s *Store) Lookup(field device.Field, key string) ([]device.Record, error) {
	column, err := columnFor(field)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT brand, name, device, model FROM devices WHERE `+column+` = ? ORDER BY position`, key)
	if err != nil {
		return nil, wrapErr(err, "failed to query devices")
	}
	defer rows.Close()

	var records []device.Record
	for rows.Next() {
		var r device.Record
		if err := rows.Scan(&r.Brand, &r.Name, &r.Device, &r.Model); err != nil {
			return nil, fmt.Errorf("failed to scan device row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating devices: %w", err)
	}
	return records, nil
}

// CountDevices returns the number of stored records.
func (s *Store) CountDevices() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM devices`).Scan(&n); err != nil {
		return 0, wrapErr(err, "failed to count devices")
	}
	return n, nil
}

// BrandCount is the number of records for one brand.
type BrandCount struct {
	Brand string
	Count int
}

// TopBrands returns the limit brands with the most records.
func (s *Store) TopBrands(limit int) ([]BrandCount, error) {
	rows, err := s.db.Query(`
		SELECT brand, COUNT(*) AS n FROM devices
		GROUP BY brand
		ORDER BY n DESC, brand
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, wrapErr(err, "failed to query brands")
	}
	defer rows.Close()

	var out []BrandCount
	for rows.Next() {
		var bc BrandCount
		if err := rows.Scan(&bc.Brand, &bc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan brand row: %w", err)
		}
		out = append(out, bc)
	}
	return out, rows.Err()
}

// LastSync returns the date of the last stored sync. ok is false if the
// store has never been filled.
func (s *Store) LastSync() (syncedAt string, count int, ok bool, err error) {
	err = s.db.QueryRow(`SELECT synced_at, record_count FROM sync_state WHERE id = 1`).Scan(&syncedAt, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, false, nil
	}
	if err != nil {
		return "", 0, false, wrapErr(err, "failed to read sync state")
	}
	return syncedAt, count, true, nil
}

func columnFor(f device.Field) (string, error) {
	switch f {
	case device.FieldDevice:
		return "device", nil
	case device.FieldModel:
		return "model", nil
	case device.FieldBrand:
		return "brand", nil
	case device.FieldName:
		return "name", nil
	}
	return "", fmt.Errorf("unknown lookup field %q", f)
}
