package targets

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"scamscan/internal/analysis"
	"scamscan/internal/diag"
)

// DB is a read-only target source over the shared contract-indexing
// database. Analyses are never written back.
type DB struct {
	db    *sql.DB
	table string
}

// OpenDB connects to the contract database and verifies the connection.
// The table must already exist; this source never creates schema.
func OpenDB(dsn, table string) (*DB, error) {
	if table == "" {
		return nil, fmt.Errorf("contract table name is required")
	}
	if !validTableName(table) {
		return nil, fmt.Errorf("invalid contract table name: %s", table)
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open contract database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach contract database: %w", err)
	}
	return &DB{db: db, table: table}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// validTableName restricts the interpolated identifier; the driver
// cannot parameterize table names.
func validTableName(name string) bool {
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '_' {
			continue
		}
		return false
	}
	return name != ""
}

// Proxies resolve to their implementation so the detectors see the code
// that actually runs.
const effectiveAddrExpr = "CASE WHEN isproxy = 1 AND implementation IS NOT NULL AND implementation != '' THEN implementation ELSE address END"

// Latest returns the most recently created contracts, proxy-resolved
// and with their stored ABI when present.
func (d *DB) Latest(limit int) ([]analysis.Target, []diag.Diagnostic, error) {
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	query := fmt.Sprintf(`
		SELECT effective_address, abi, MAX(createblock) AS max_block
		FROM (
			SELECT %s AS effective_address, abi, createblock
			FROM %s
			WHERE contract IS NOT NULL AND contract != ''
		) t
		GROUP BY effective_address, abi
		ORDER BY max_block DESC
		LIMIT %d
	`, effectiveAddrExpr, d.table, limit)
	return d.query(query)
}

// ByBlockRange returns contracts created within [start, end].
func (d *DB) ByBlockRange(start, end uint64) ([]analysis.Target, []diag.Diagnostic, error) {
	query := fmt.Sprintf(`
		SELECT effective_address, abi, MAX(createblock) AS max_block
		FROM (
			SELECT %s AS effective_address, abi, createblock
			FROM %s
			WHERE contract IS NOT NULL AND contract != '' AND createblock BETWEEN ? AND ?
		) t
		GROUP BY effective_address, abi
		ORDER BY max_block DESC
		LIMIT 1000
	`, effectiveAddrExpr, d.table)
	return d.query(query, start, end)
}

func (d *DB) query(query string, args ...interface{}) ([]analysis.Target, []diag.Diagnostic, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("contract database query failed: %w", err)
	}
	defer rows.Close()

	var raw []analysis.Target
	for rows.Next() {
		var addr string
		var abi sql.NullString
		var maxBlock uint64
		if err := rows.Scan(&addr, &abi, &maxBlock); err != nil {
			return nil, nil, err
		}
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		t := analysis.Target{Address: addr}
		if abi.Valid {
			t.ABI = strings.TrimSpace(abi.String)
		}
		raw = append(raw, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return normalize(raw)
}
