package services

import (
	"context"
	"fmt"
	"strings"

	"quickride/internal/domain/models"
	"quickride/internal/query"
	"quickride/internal/repositories"
	"quickride/internal/utils"
)

// BusStore is the read side BusService needs.
type BusStore interface {
	ListStates(ctx context.Context) ([]string, error)
	ListRoutes(ctx context.Context, state string) ([]string, error)
	PriceBounds(ctx context.Context, state string) (float64, float64, error)
	Search(ctx context.Context, f query.Filter) ([]models.BusRoute, error)
}

type BusService struct {
	Store     BusStore
	RequestID string
}

// BrowseResult is everything the Find Your Way tab renders. Errors holds
// user-facing messages; a failed load leaves its part empty.
type BrowseResult struct {
	Options models.FilterOptions
	Filter  query.Filter
	Rows    []models.BusRoute
	Errors  []string
}

func (s BusService) store() BusStore {
	if s.Store != nil {
		return s.Store
	}
	return repositories.BusRepository{}
}

// Options loads the sidebar choices for state. When state is blank the first
// known state is selected, matching a select box's default.
func (s BusService) Options(ctx context.Context, state string) (models.FilterOptions, []error) {
	var errs []error
	opts := models.FilterOptions{
		States:    []string{},
		Routes:    []string{},
		BusTypes:  query.BusTypes(),
		PriceMin:  repositories.DefaultPriceMin,
		PriceMax:  repositories.DefaultPriceMax,
		RatingMin: query.RatingFloor,
		RatingMax: query.RatingCeil,
		SeatsMin:  0,
		SeatsMax:  query.SeatsCeil,
	}

	states, err := s.store().ListStates(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	if states != nil {
		opts.States = states
	}

	state = strings.TrimSpace(state)
	if state == "" && len(states) > 0 {
		state = states[0]
	}
	opts.SelectedState = state

	if state != "" {
		routes, err := s.store().ListRoutes(ctx, state)
		if err != nil {
			errs = append(errs, err)
		}
		if routes != nil {
			opts.Routes = routes
		}
	}

	lo, hi, err := s.store().PriceBounds(ctx, state)
	if err != nil {
		errs = append(errs, err)
	}
	opts.PriceMin, opts.PriceMax = lo, hi

	return opts, errs
}

// Search runs f and always returns a non-nil slice.
func (s BusService) Search(ctx context.Context, f query.Filter) ([]models.BusRoute, error) {
	rows, err := s.store().Search(ctx, f)
	if rows == nil {
		rows = []models.BusRoute{}
	}
	if err != nil {
		utils.LogEvent(s.RequestID, "buses", "search_failed", err.Error())
		return []models.BusRoute{}, err
	}
	utils.LogEvent(s.RequestID, "buses", "search", fmt.Sprintf("rows=%d bus_type=%s", len(rows), f.BusType))
	return rows, nil
}

// Browse loads options, applies the sidebar defaults the user did not
// override, and runs the search. Store failures are collected as messages.
func (s BusService) Browse(ctx context.Context, f query.Filter) BrowseResult {
	opts, errs := s.Options(ctx, f.State)
	optionsFailed := len(errs) > 0

	f.State = opts.SelectedState
	if !optionsFailed {
		f.Routes = knownRoutes(f.Routes, opts.Routes)
		if f.Price == nil {
			f.Price = &query.Range{Min: opts.PriceMin, Max: opts.PriceMax}
		}
	}

	rows, err := s.Search(ctx, f)
	if err != nil {
		errs = append(errs, err)
	}

	return BrowseResult{
		Options: opts,
		Filter:  f,
		Rows:    rows,
		Errors:  Messages(errs),
	}
}

// knownRoutes keeps the selections that are offered for the current state.
func knownRoutes(selected, offered []string) []string {
	if len(selected) == 0 {
		return selected
	}
	ok := make(map[string]bool, len(offered))
	for _, r := range offered {
		ok[r] = true
	}
	out := []string{}
	for _, r := range selected {
		if ok[r] {
			out = append(out, r)
		}
	}
	return out
}

// Messages turns errors into distinct user-facing lines.
func Messages(errs []error) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		msg := err.Error()
		if seen[msg] {
			continue
		}
		seen[msg] = true
		out = append(out, msg)
	}
	return out
}
