package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/robertadelima/data-visualization-gas-prices/internal/model"
)

// Store persists the joined base table between the ingest and serve
// commands via DuckDB.
type Store struct {
	DB      *sql.DB
	DataDir string
}

// New opens (or creates) a DuckDB database in the given data directory.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "gas-prices.duckdb")
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening duckdb: %w", err)
	}

	s := &Store{DB: db, DataDir: dataDir}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS joined_records (
			row_idx INTEGER PRIMARY KEY,
			month TEXT NOT NULL,
			product TEXT NOT NULL,
			city TEXT NOT NULL,
			region TEXT NOT NULL,
			state TEXT NOT NULL,
			station_count INTEGER NOT NULL,
			unit TEXT,
			market_price_mean DOUBLE,
			market_price_std DOUBLE,
			market_price_min DOUBLE,
			market_price_max DOUBLE,
			market_price_var_coef DOUBLE,
			market_margin DOUBLE,
			dist_price_mean DOUBLE,
			dist_price_std DOUBLE,
			dist_price_min DOUBLE,
			dist_price_max DOUBLE,
			dist_price_var_coef DOUBLE,
			lat DOUBLE,
			lon DOUBLE,
			matched BOOLEAN NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.DB.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}
	return nil
}

// nullable converts a possibly-missing metric for insertion.
func nullable(f model.Float) sql.NullFloat64 {
	if f.Missing() {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: float64(f), Valid: true}
}

// floatOf converts a scanned value back to the in-memory form.
func floatOf(v sql.NullFloat64) model.Float {
	if !v.Valid {
		return model.MissingFloat()
	}
	return model.Float(v.Float64)
}

// WriteJoined replaces the persisted base table. Row order is
// preserved; the last-matching-row parent lookup depends on it.
func (s *Store) WriteJoined(rows []model.JoinedRecord) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM joined_records"); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO joined_records (
		row_idx,
		month, product, city, region, state, station_count, unit,
		market_price_mean, market_price_std, market_price_min, market_price_max, market_price_var_coef,
		market_margin,
		dist_price_mean, dist_price_std, dist_price_min, dist_price_max, dist_price_var_coef,
		lat, lon, matched
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.Exec(
			i,
			r.Month.String(), r.Product, r.City, r.Region, r.State, r.StationCount, r.Unit,
			nullable(r.MarketPriceMean), nullable(r.MarketPriceStd), nullable(r.MarketPriceMin),
			nullable(r.MarketPriceMax), nullable(r.MarketPriceVarCoef),
			nullable(r.MarketMargin),
			nullable(r.DistPriceMean), nullable(r.DistPriceStd), nullable(r.DistPriceMin),
			nullable(r.DistPriceMax), nullable(r.DistPriceVarCoef),
			nullable(r.Lat), nullable(r.Lon), r.Matched,
		); err != nil {
			return fmt.Errorf("inserting joined row %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// ReadJoined loads the persisted base table in insertion order.
func (s *Store) ReadJoined() ([]model.JoinedRecord, error) {
	rows, err := s.DB.Query(`SELECT
		month, product, city, region, state, station_count, unit,
		market_price_mean, market_price_std, market_price_min, market_price_max, market_price_var_coef,
		market_margin,
		dist_price_mean, dist_price_std, dist_price_min, dist_price_max, dist_price_var_coef,
		lat, lon, matched
	FROM joined_records ORDER BY row_idx`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.JoinedRecord
	for rows.Next() {
		var r model.JoinedRecord
		var month string
		var unit sql.NullString
		var mpMean, mpStd, mpMin, mpMax, mpVar, margin sql.NullFloat64
		var dpMean, dpStd, dpMin, dpMax, dpVar sql.NullFloat64
		var lat, lon sql.NullFloat64

		if err := rows.Scan(
			&month, &r.Product, &r.City, &r.Region, &r.State, &r.StationCount, &unit,
			&mpMean, &mpStd, &mpMin, &mpMax, &mpVar,
			&margin,
			&dpMean, &dpStd, &dpMin, &dpMax, &dpVar,
			&lat, &lon, &r.Matched,
		); err != nil {
			return nil, err
		}

		ym, err := model.ParseYearMonth(month)
		if err != nil {
			return nil, fmt.Errorf("stored month %q: %w", month, err)
		}
		r.Month = ym
		r.Unit = unit.String
		r.MarketPriceMean = floatOf(mpMean)
		r.MarketPriceStd = floatOf(mpStd)
		r.MarketPriceMin = floatOf(mpMin)
		r.MarketPriceMax = floatOf(mpMax)
		r.MarketPriceVarCoef = floatOf(mpVar)
		r.MarketMargin = floatOf(margin)
		r.DistPriceMean = floatOf(dpMean)
		r.DistPriceStd = floatOf(dpStd)
		r.DistPriceMin = floatOf(dpMin)
		r.DistPriceMax = floatOf(dpMax)
		r.DistPriceVarCoef = floatOf(dpVar)
		r.Lat = floatOf(lat)
		r.Lon = floatOf(lon)

		out = append(out, r)
	}
	return out, rows.Err()
}

// SetMeta stores one metadata value (ingest timestamp, join mode).
func (s *Store) SetMeta(key, value string) error {
	_, err := s.DB.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", key, value)
	return err
}

// Meta reads one metadata value; absent keys come back empty.
func (s *Store) Meta(key string) string {
	var v sql.NullString
	s.DB.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&v)
	return v.String
}

// RowCount returns the persisted base-table size.
func (s *Store) RowCount() int {
	var n int
	s.DB.QueryRow("SELECT COUNT(*) FROM joined_records").Scan(&n)
	return n
}

// MatchedCount returns how many rows carry gazetteer coordinates.
func (s *Store) MatchedCount() int {
	var n int
	s.DB.QueryRow("SELECT COUNT(*) FROM joined_records WHERE matched").Scan(&n)
	return n
}

// Products returns the distinct surveyed products.
func (s *Store) Products() []string {
	var out []string
	rows, err := s.DB.Query("SELECT DISTINCT product FROM joined_records ORDER BY product")
	if err != nil {
		return out
	}
	defer rows.Close()
	for rows.Next() {
		var p string
		rows.Scan(&p)
		out = append(out, p)
	}
	return out
}

// MonthRange returns the first and last persisted survey months, or
// empty strings for an empty table.
func (s *Store) MonthRange() (first, last string) {
	var lo, hi sql.NullString
	s.DB.QueryRow("SELECT MIN(month), MAX(month) FROM joined_records").Scan(&lo, &hi)
	return lo.String, hi.String
}

// RowCountByRegion returns per-region row counts for the status
// breakdown.
func (s *Store) RowCountByRegion() map[string]int {
	m := make(map[string]int)
	rows, err := s.DB.Query("SELECT region, COUNT(*) FROM joined_records GROUP BY region ORDER BY region")
	if err != nil {
		return m
	}
	defer rows.Close()
	for rows.Next() {
		var region string
		var cnt int
		rows.Scan(&region, &cnt)
		m[region] = cnt
	}
	return m
}
