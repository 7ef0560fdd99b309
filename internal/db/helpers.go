package db

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Dialect covers the placeholder and catalog differences between the
// supported drivers.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
)

type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DialectFor maps a DB_DRIVER value to its dialect; unknown values use MySQL.
func DialectFor(driver string) Dialect {
	if strings.EqualFold(strings.TrimSpace(driver), string(Postgres)) {
		return Postgres
	}
	return MySQL
}

// Rebind rewrites '?' placeholders into the dialect's form. Placeholders
// inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var out strings.Builder
	out.Grow(len(query) + 8)
	n := 0
	quoted := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			quoted = !quoted
			out.WriteByte(c)
		case c == '?' && !quoted:
			n++
			out.WriteByte('$')
			out.WriteString(strconv.Itoa(n))
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}

// AsText renders a column as text so TIME values scan into strings on both
// drivers.
func (d Dialect) AsText(column string) string {
	if d == Postgres {
		return column + "::text"
	}
	return "CAST(" + column + " AS CHAR)"
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// ValidIdentifier reports whether name can be spliced into SQL as a table or
// column name.
func ValidIdentifier(name string) bool {
	return identPattern.MatchString(name)
}

// HasTable checks the catalog of the current database/schema.
func (d Dialect) HasTable(ctx context.Context, q QueryRower, table string) (bool, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND LOWER(table_name) = LOWER(?)
		LIMIT 1`
	if d == Postgres {
		query = strings.Replace(query, "DATABASE()", "current_schema()", 1)
	}

	var name sql.NullString
	err := q.QueryRowContext(ctx, d.Rebind(query), table).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup table %s: %w", table, err)
	}
	return name.Valid && name.String != "", nil
}
