// Package db opens the relational store that holds the canonical layer table.
// PostgreSQL URLs use the pgx driver; anything else is treated as a DuckDB file.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/marcboeker/go-duckdb"
)

// DefaultTable is the canonical layer table in PostgreSQL.
const DefaultTable = "public.layers"

// DefaultDuckDBTable is the layer table in a DuckDB file, which has no public schema.
const DefaultDuckDBTable = "layers"

// Config holds database configuration.
type Config struct {
	// DSN is a postgres:// URL, a DuckDB file path, or ":memory:".
	DSN string
}

// Driver returns the database/sql driver name for a DSN.
func Driver(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "pgx"
	}
	return "duckdb"
}

// TableFor returns the default layer table for a DSN.
func TableFor(dsn string) string {
	if Driver(dsn) == "pgx" {
		return DefaultTable
	}
	return DefaultDuckDBTable
}

// ResolveTable returns table, or the default layer table for dsn when table is empty.
func ResolveTable(dsn, table string) string {
	if table != "" {
		return table
	}
	return TableFor(dsn)
}

// Open opens and pings the database described by cfg.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	dsn := cfg.DSN
	if dsn == "" {
		return nil, fmt.Errorf("no database configured")
	}
	if dsn == ":memory:" {
		dsn = ""
	}

	conn, err := sql.Open(Driver(dsn), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return conn, nil
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ValidTable reports whether name is a plain, optionally schema-qualified, table name.
func ValidTable(name string) bool {
	return tableName.MatchString(name)
}

// SelectAll returns the query listing every row of table.
func SelectAll(table string) (string, error) {
	if !ValidTable(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	return "SELECT * FROM " + table, nil
}

// SelectByID returns the query selecting one row of table by id.
func SelectByID(table string) (string, error) {
	q, err := SelectAll(table)
	if err != nil {
		return "", err
	}
	return q + " WHERE id = $1", nil
}

// QueryMaps runs a query and returns each row as a column→value map.
func QueryMaps(ctx context.Context, conn *sql.DB, query string, args ...any) ([]map[string]any, error) {
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	results := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
