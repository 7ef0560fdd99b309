package repositories

import (
	"context"
	"database/sql"

	intconfig "quickride/internal/config"
	intdb "quickride/internal/db"
	"quickride/internal/domain"
	"quickride/internal/domain/models"
	"quickride/internal/metrics"
	"quickride/internal/query"
)

const (
	msgConnection = "Database connection error"
	msgLoading    = "Data loading error"

	DefaultPriceMin = 0.0
	DefaultPriceMax = 1000.0
)

// BusRepository reads the listing table. Zero-value fields fall back to the
// shared connection and the configured driver/table.
type BusRepository struct {
	DB     *sql.DB
	Driver string
	Table  string
}

func (r BusRepository) conn() (*sql.DB, error) {
	if r.DB != nil {
		return r.DB, nil
	}
	db, err := intconfig.ConnectDB()
	if err != nil {
		return nil, domain.UnavailableError{Op: msgConnection, Err: err}
	}
	return db, nil
}

func (r BusRepository) dialect() intdb.Dialect {
	if r.Driver != "" {
		return intdb.DialectFor(r.Driver)
	}
	return intdb.DialectFor(intconfig.Active().DBDriver)
}

func (r BusRepository) builder() (query.Builder, error) {
	table := r.Table
	if table == "" {
		table = intconfig.Active().DBTable
	}
	b, err := query.NewBuilder(table, r.dialect())
	if err != nil {
		return query.Builder{}, domain.InternalError{Msg: "listing table is misconfigured", Err: err}
	}
	return b, nil
}

func (r BusRepository) prepare() (*sql.DB, query.Builder, error) {
	b, err := r.builder()
	if err != nil {
		return nil, b, err
	}
	db, err := r.conn()
	if err != nil {
		return nil, b, err
	}
	return db, b, nil
}

// ListStates returns the distinct states in the table.
func (r BusRepository) ListStates(ctx context.Context) ([]string, error) {
	db, b, err := r.prepare()
	if err != nil {
		return []string{}, err
	}
	out, err := queryStrings(ctx, db, b.States())
	metrics.ObserveQuery("states", err)
	return out, err
}

// ListRoutes returns the distinct routes for state.
func (r BusRepository) ListRoutes(ctx context.Context, state string) ([]string, error) {
	db, b, err := r.prepare()
	if err != nil {
		return []string{}, err
	}
	out, err := queryStrings(ctx, db, b.Routes(state))
	metrics.ObserveQuery("routes", err)
	return out, err
}

// PriceBounds returns the cheapest and dearest fare for state. NULL bounds
// (no rows) fall back to 0 and 1000.
func (r BusRepository) PriceBounds(ctx context.Context, state string) (float64, float64, error) {
	db, b, err := r.prepare()
	if err != nil {
		return DefaultPriceMin, DefaultPriceMax, err
	}

	q := b.PriceBounds(state)
	var lo, hi sql.NullFloat64
	err = db.QueryRowContext(ctx, q.SQL, q.Args...).Scan(&lo, &hi)
	metrics.ObserveQuery("price_bounds", ignoreNoRows(err))
	if err != nil && err != sql.ErrNoRows {
		return DefaultPriceMin, DefaultPriceMax, domain.UnavailableError{Op: msgLoading, Err: err}
	}

	priceMin, priceMax := DefaultPriceMin, DefaultPriceMax
	if lo.Valid {
		priceMin = lo.Float64
	}
	if hi.Valid {
		priceMax = hi.Float64
	}
	return priceMin, priceMax, nil
}

// Search runs the filter query and scans every matching row.
func (r BusRepository) Search(ctx context.Context, f query.Filter) ([]models.BusRoute, error) {
	out := []models.BusRoute{}
	db, b, err := r.prepare()
	if err != nil {
		return out, err
	}

	q := b.Search(f)
	rows, err := db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		metrics.ObserveQuery("search", err)
		return out, domain.UnavailableError{Op: msgLoading, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var rec models.BusRoute
		if err := rows.Scan(
			&rec.ID,
			&rec.State,
			&rec.RouteName,
			&rec.RouteLink,
			&rec.BusName,
			&rec.BusType,
			&rec.StartTime,
			&rec.EndTime,
			&rec.Duration,
			&rec.Price,
			&rec.StarRating,
			&rec.SeatsAvailable,
		); err != nil {
			metrics.ObserveQuery("search", err)
			return []models.BusRoute{}, domain.UnavailableError{Op: msgLoading, Err: err}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		metrics.ObserveQuery("search", err)
		return []models.BusRoute{}, domain.UnavailableError{Op: msgLoading, Err: err}
	}
	metrics.ObserveQuery("search", nil)
	return out, nil
}

// Count returns the total number of listings.
func (r BusRepository) Count(ctx context.Context) (int64, error) {
	db, b, err := r.prepare()
	if err != nil {
		return 0, err
	}
	q := b.Count()
	var n int64
	err = db.QueryRowContext(ctx, q.SQL, q.Args...).Scan(&n)
	metrics.ObserveQuery("count", err)
	if err != nil {
		return 0, domain.UnavailableError{Op: msgLoading, Err: err}
	}
	return n, nil
}

// HasTable reports whether the configured listing table exists.
func (r BusRepository) HasTable(ctx context.Context) (bool, error) {
	db, b, err := r.prepare()
	if err != nil {
		return false, err
	}
	ok, err := r.dialect().HasTable(ctx, db, b.Table())
	metrics.ObserveQuery("has_table", err)
	if err != nil {
		return false, domain.UnavailableError{Op: msgLoading, Err: err}
	}
	return ok, nil
}

func queryStrings(ctx context.Context, db *sql.DB, q query.Query) ([]string, error) {
	out := []string{}
	rows, err := db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return out, domain.UnavailableError{Op: msgLoading, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return []string{}, domain.UnavailableError{Op: msgLoading, Err: err}
		}
		if v.Valid && v.String != "" {
			out = append(out, v.String)
		}
	}
	if err := rows.Err(); err != nil {
		return []string{}, domain.UnavailableError{Op: msgLoading, Err: err}
	}
	return out, nil
}

func ignoreNoRows(err error) error {
	if err == sql.ErrNoRows {
		return nil
	}
	return err
}
