package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"quickride/internal/domain"
	"quickride/internal/utils"
)

// ParseFilter maps form/query parameters onto a Filter. Absent fields stay
// unset; bus_type defaults to A/C like the first radio option.
func ParseFilter(v url.Values) (Filter, error) {
	f := Filter{
		State:   utils.NormalizeSpace(v.Get("state")),
		Routes:  utils.UniqueList(v["route"]...),
		BusType: ParseBusType(v.Get("bus_type")),
		Rating:  DefaultRating,
	}

	priceMin, hasMin, err := parseFloat(v, "price_min")
	if err != nil {
		return Filter{}, err
	}
	priceMax, hasMax, err := parseFloat(v, "price_max")
	if err != nil {
		return Filter{}, err
	}
	switch {
	case hasMin && hasMax:
		if priceMin < 0 {
			return Filter{}, domain.ValidationError{Field: "price_min", Msg: "must not be negative"}
		}
		if priceMin > priceMax {
			return Filter{}, domain.ValidationError{Field: "price_min", Msg: "must not exceed price_max"}
		}
		f.Price = &Range{Min: priceMin, Max: priceMax}
	case hasMin || hasMax:
		return Filter{}, domain.ValidationError{Field: "price", Msg: "price_min and price_max must be given together"}
	}

	if r, ok, err := parseFloat(v, "rating_min"); err != nil {
		return Filter{}, err
	} else if ok {
		f.Rating.Min = r
	}
	if r, ok, err := parseFloat(v, "rating_max"); err != nil {
		return Filter{}, err
	} else if ok {
		f.Rating.Max = r
	}
	if f.Rating.Min < RatingFloor || f.Rating.Max > RatingCeil {
		return Filter{}, domain.ValidationError{Field: "rating", Msg: "must be between 0 and 5"}
	}
	if f.Rating.Min > f.Rating.Max {
		return Filter{}, domain.ValidationError{Field: "rating_min", Msg: "must not exceed rating_max"}
	}

	if raw := strings.TrimSpace(v.Get("seats")); raw != "" {
		seats, err := strconv.Atoi(raw)
		if err != nil {
			return Filter{}, domain.ValidationError{Field: "seats", Msg: "must be a whole number", Err: err}
		}
		if seats < 0 || seats > SeatsCeil {
			return Filter{}, domain.ValidationError{Field: "seats", Msg: "must be between 0 and 50"}
		}
		f.MinSeats = seats
	}

	if f.StartTime, err = utils.ParseClock(v.Get("start_time")); err != nil {
		return Filter{}, domain.ValidationError{Field: "start_time", Msg: "must be HH:MM", Err: err}
	}
	if f.EndTime, err = utils.ParseClock(v.Get("end_time")); err != nil {
		return Filter{}, domain.ValidationError{Field: "end_time", Msg: "must be HH:MM", Err: err}
	}

	return f, nil
}

// ParseBusType matches the two named categories case-insensitively; any other
// non-blank value is the catch-all.
func ParseBusType(raw string) BusType {
	raw = utils.NormalizeSpace(raw)
	switch strings.ToUpper(raw) {
	case "":
		return BusTypeAC
	case string(BusTypeAC):
		return BusTypeAC
	case string(BusTypeNonAC):
		return BusTypeNonAC
	default:
		return BusTypeOthers
	}
}

// ForState clears the selections that belong to prevState's options once
// the user has picked a different state.
func (f Filter) ForState(prevState string) Filter {
	prevState = utils.NormalizeSpace(prevState)
	if prevState == "" || f.State == "" || prevState == f.State {
		return f
	}
	f.Routes = nil
	f.Price = nil
	return f
}

// Values is the inverse of ParseFilter, used for export links.
func (f Filter) Values() url.Values {
	v := url.Values{}
	if f.State != "" {
		v.Set("state", f.State)
	}
	for _, r := range f.Routes {
		v.Add("route", r)
	}
	if f.BusType != "" {
		v.Set("bus_type", string(f.BusType))
	}
	if f.Price != nil {
		v.Set("price_min", strconv.FormatFloat(f.Price.Min, 'f', -1, 64))
		v.Set("price_max", strconv.FormatFloat(f.Price.Max, 'f', -1, 64))
	}
	if f.Rating != DefaultRating {
		v.Set("rating_min", strconv.FormatFloat(f.Rating.Min, 'f', -1, 64))
		v.Set("rating_max", strconv.FormatFloat(f.Rating.Max, 'f', -1, 64))
	}
	if f.MinSeats > 0 {
		v.Set("seats", strconv.Itoa(f.MinSeats))
	}
	if f.StartTime != "" {
		v.Set("start_time", f.StartTime)
	}
	if f.EndTime != "" {
		v.Set("end_time", f.EndTime)
	}
	return v
}

func parseFloat(v url.Values, key string) (float64, bool, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false, domain.ValidationError{Field: key, Msg: "must be a number", Err: err}
	}
	return n, true, nil
}
