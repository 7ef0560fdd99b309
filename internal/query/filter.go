package query

import (
	"fmt"
	"strings"

	intdb "quickride/internal/db"
)

type BusType string

const (
	BusTypeAC     BusType = "A/C"
	BusTypeNonAC  BusType = "NON A/C"
	BusTypeOthers BusType = "others"
)

// BusTypes lists the radio choices in display order.
func BusTypes() []string {
	return []string{string(BusTypeAC), string(BusTypeNonAC), string(BusTypeOthers)}
}

// Patterns excluded by the catch-all bus type.
var excludedBusTypePatterns = []string{"%Sleeper%", "%Semi-Sleeper%"}

type Range struct {
	Min float64
	Max float64
}

const (
	RatingFloor = 0.0
	RatingCeil  = 5.0
	SeatsCeil   = 50
)

// DefaultRating is the untouched ratings slider; it adds no predicate.
var DefaultRating = Range{Min: RatingFloor, Max: RatingCeil}

// Filter holds the user's selections. Zero values mean "unset", except
// BusType where anything other than A/C and NON A/C selects the catch-all.
type Filter struct {
	State     string
	Routes    []string
	BusType   BusType
	Price     *Range
	Rating    Range
	MinSeats  int
	StartTime string
	EndTime   string
}

// Query is a parameterized statement with binds in placeholder order.
type Query struct {
	SQL  string
	Args []any
}

// Builder renders statements against one table for one dialect.
type Builder struct {
	table   string
	dialect intdb.Dialect
}

func NewBuilder(table string, dialect intdb.Dialect) (Builder, error) {
	table = strings.TrimSpace(table)
	if !intdb.ValidIdentifier(table) {
		return Builder{}, fmt.Errorf("invalid table name %q", table)
	}
	return Builder{table: table, dialect: dialect}, nil
}

func (b Builder) Table() string { return b.table }

func (b Builder) columns() string {
	d := b.dialect
	cols := []string{
		"id",
		"COALESCE(state,'')",
		"COALESCE(route_name,'')",
		"COALESCE(route_link,'')",
		"COALESCE(busname,'')",
		"COALESCE(bus_type,'')",
		"COALESCE(" + d.AsText("start_time") + ",'')",
		"COALESCE(" + d.AsText("end_time") + ",'')",
		"COALESCE(" + d.AsText("duration") + ",'')",
		"COALESCE(price,0)",
		"COALESCE(star_rating,0)",
		"COALESCE(seats_available,0)",
	}
	return strings.Join(cols, ", ")
}

// Search translates f into a SELECT over the listing table. Predicates are
// appended in a fixed order and Args follows that order.
func (b Builder) Search(f Filter) Query {
	where := []string{"1=1"}
	args := []any{}

	if state := strings.TrimSpace(f.State); state != "" {
		where = append(where, "state = ?")
		args = append(args, state)
	}

	routes := cleanList(f.Routes)
	if len(routes) > 0 {
		marks := strings.TrimSuffix(strings.Repeat("?, ", len(routes)), ", ")
		where = append(where, "route_name IN ("+marks+")")
		for _, r := range routes {
			args = append(args, r)
		}
	}

	switch f.BusType {
	case BusTypeAC, BusTypeNonAC:
		where = append(where, "bus_type = ?")
		args = append(args, string(f.BusType))
	default:
		for _, p := range excludedBusTypePatterns {
			where = append(where, "bus_type NOT LIKE ?")
			args = append(args, p)
		}
	}

	if f.Price != nil {
		where = append(where, "price BETWEEN ? AND ?")
		args = append(args, f.Price.Min, f.Price.Max)
	}

	if f.Rating.Min > RatingFloor || f.Rating.Max < RatingCeil {
		where = append(where, "star_rating BETWEEN ? AND ?")
		args = append(args, f.Rating.Min, f.Rating.Max)
	}

	if f.MinSeats > 0 {
		where = append(where, "seats_available >= ?")
		args = append(args, f.MinSeats)
	}

	if start := strings.TrimSpace(f.StartTime); start != "" {
		where = append(where, "start_time >= ?")
		args = append(args, start)
	}
	if end := strings.TrimSpace(f.EndTime); end != "" {
		where = append(where, "end_time <= ?")
		args = append(args, end)
	}

	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY route_name, start_time, id",
		b.columns(), b.table, strings.Join(where, " AND "))
	return Query{SQL: b.dialect.Rebind(sql), Args: args}
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
