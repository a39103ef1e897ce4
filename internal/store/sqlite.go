// Package store persists normalized license rows into a local SQLite
// database. The retrieval core itself does not persist anything; this is
// the CLI's sink for pipeline output.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/gisgkh/licenses-cli/internal/licenses"
)

// Store wraps the SQLite database holding downloaded license rows.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database at the given path and
// configures WAL mode.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS license_rows (
	id                         INTEGER PRIMARY KEY AUTOINCREMENT,
	region_name                TEXT NOT NULL,
	number_in_file             INTEGER NOT NULL,
	house_fias_id              TEXT NOT NULL DEFAULT '',
	license_number             TEXT NOT NULL,
	license_date               TEXT NOT NULL,
	license_status             TEXT NOT NULL,
	license_included_date      TEXT NOT NULL,
	order_number               TEXT NOT NULL,
	order_date                 TEXT NOT NULL,
	lisence_juristic_address   TEXT NOT NULL,
	license_holder_uid         TEXT NOT NULL,
	additional_info            TEXT NOT NULL,
	license_holder_name        TEXT NOT NULL,
	inn                        TEXT NOT NULL,
	ogrn                       TEXT NOT NULL,
	mkd_address                TEXT NOT NULL,
	gos_uslugi_house_code      TEXT NOT NULL,
	mkd_included_register_date DATETIME NOT NULL,
	mkd_begin_management_date  DATETIME NOT NULL,
	mkd_end_management_date    DATETIME NOT NULL,
	mkd_excluded_register_date DATETIME NOT NULL,
	mkd_excluded_reason        TEXT NOT NULL,
	state_198_info             TEXT NOT NULL,
	is_information_in_register INTEGER NOT NULL,
	fetched_at                 DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_license_rows_region ON license_rows(region_name);
CREATE INDEX IF NOT EXISTS idx_license_rows_inn ON license_rows(inn);
`

// Migrate creates the schema if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "sqlite: migrate")
}

const insertRowSQL = `
INSERT INTO license_rows (
	region_name, number_in_file, house_fias_id, license_number, license_date,
	license_status, license_included_date, order_number, order_date,
	lisence_juristic_address, license_holder_uid, additional_info,
	license_holder_name, inn, ogrn, mkd_address, gos_uslugi_house_code,
	mkd_included_register_date, mkd_begin_management_date,
	mkd_end_management_date, mkd_excluded_register_date, mkd_excluded_reason,
	state_198_info, is_information_in_register, fetched_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SaveRows inserts one region's rows in a single transaction and returns the
// number inserted.
func (s *Store) SaveRows(ctx context.Context, regionName string, rows []licenses.Row) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, insertRowSQL)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	now := time.Now().UTC()
	for _, r := range rows {
		_, err := stmt.ExecContext(ctx,
			regionName, r.NumberInFile, r.HouseFiasID, r.LicenseNumber, r.LicenseDate,
			r.LicenseStatus, r.LicenseIncludedDate, r.OrderNumber, r.OrderDate,
			r.LisenceJuristicAddress, r.LicenseHolderUID, r.AdditionalInfo,
			r.LicenseHolderName, r.INN, r.OGRN, r.MKDAddress, r.GosUslugiHouseCode,
			r.MKDIncludedRegisterDate, r.MKDBeginManagementDate,
			r.MKDEndManagementDate, r.MKDExcludedRegisterDate, r.MKDExcludedReason,
			r.State198Info, r.IsInformationInRegister, now,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert row %d for %s", r.NumberInFile, regionName)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return len(rows), nil
}

// CountRows returns the number of stored rows for a region; an empty region
// name counts everything.
func (s *Store) CountRows(ctx context.Context, regionName string) (int, error) {
	var count int
	var err error
	if regionName == "" {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM license_rows`).Scan(&count)
	} else {
		err = s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM license_rows WHERE region_name = ?`, regionName).Scan(&count)
	}
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: count rows")
	}
	return count, nil
}

// DeleteRegion removes all stored rows for a region, returning the number
// deleted. Used before re-fetching a region.
func (s *Store) DeleteRegion(ctx context.Context, regionName string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM license_rows WHERE region_name = ?`, regionName)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: delete region %s", regionName)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: rows affected")
	}
	return n, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
