package models

// BusRoute is one scraped bus listing. Rows are independent of each other.
type BusRoute struct {
	ID             int64   `json:"id" csv:"id"`
	State          string  `json:"state" csv:"state"`
	RouteName      string  `json:"route_name" csv:"route_name"`
	RouteLink      string  `json:"route_link,omitempty" csv:"route_link"`
	BusName        string  `json:"busname,omitempty" csv:"busname"`
	BusType        string  `json:"bus_type" csv:"bus_type"`
	StartTime      string  `json:"start_time" csv:"start_time"`
	EndTime        string  `json:"end_time" csv:"end_time"`
	Duration       string  `json:"duration,omitempty" csv:"duration"`
	Price          float64 `json:"price" csv:"price"`
	StarRating     float64 `json:"star_rating" csv:"star_rating"`
	SeatsAvailable int     `json:"seats_available" csv:"seats_available"`
}

// FilterOptions feeds the sidebar widgets.
type FilterOptions struct {
	States        []string `json:"states"`
	SelectedState string   `json:"selected_state"`
	Routes        []string `json:"routes"`
	BusTypes      []string `json:"bus_types"`
	PriceMin      float64  `json:"price_min"`
	PriceMax      float64  `json:"price_max"`
	RatingMin     float64  `json:"rating_min"`
	RatingMax     float64  `json:"rating_max"`
	SeatsMin      int      `json:"seats_min"`
	SeatsMax      int      `json:"seats_max"`
}
