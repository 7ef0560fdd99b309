package query

import (
	"fmt"
	"strings"
)

// States lists every distinct state.
func (b Builder) States() Query {
	sql := fmt.Sprintf("SELECT DISTINCT state FROM %s WHERE state IS NOT NULL ORDER BY state", b.table)
	return Query{SQL: sql, Args: []any{}}
}

// Routes lists the distinct routes of one state.
func (b Builder) Routes(state string) Query {
	sql := fmt.Sprintf("SELECT DISTINCT route_name FROM %s WHERE state = ? AND route_name IS NOT NULL ORDER BY route_name", b.table)
	return Query{SQL: b.dialect.Rebind(sql), Args: []any{strings.TrimSpace(state)}}
}

// PriceBounds returns MIN/MAX price, scoped to a state when one is given.
func (b Builder) PriceBounds(state string) Query {
	state = strings.TrimSpace(state)
	if state == "" {
		return Query{SQL: fmt.Sprintf("SELECT MIN(price), MAX(price) FROM %s", b.table), Args: []any{}}
	}
	sql := fmt.Sprintf("SELECT MIN(price), MAX(price) FROM %s WHERE state = ?", b.table)
	return Query{SQL: b.dialect.Rebind(sql), Args: []any{state}}
}

// Count returns the number of listings in the table.
func (b Builder) Count() Query {
	return Query{SQL: fmt.Sprintf("SELECT COUNT(*) FROM %s", b.table), Args: []any{}}
}
