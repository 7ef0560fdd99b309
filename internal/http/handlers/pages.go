package handlers

import (
	"html/template"
	"net/http"

	"quickride/internal/domain/models"
	"quickride/internal/http/middleware"
	"quickride/internal/query"
	"quickride/internal/services"
	"quickride/internal/utils"

	"github.com/gin-gonic/gin"
)

type feature struct {
	Name   string
	Detail string
}

var homeFeatures = []feature{
	{"Wide Range of Options", "Choose from numerous bus operators and routes."},
	{"Easy Booking", "Simple and quick booking process."},
	{"Secure Payments", "Multiple secure payment options for your convenience."},
	{"Customer Support", "24/7 support for any queries or issues."},
}

type findPage struct {
	Tab      string
	Title    string
	Result   services.BrowseResult
	PriceMin float64
	PriceMax float64
	CSVURL   template.URL
	PDFURL   template.URL
}

// Home renders the landing tab.
func Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.tmpl", gin.H{
		"Tab":      "home",
		"Title":    "Home",
		"Features": homeFeatures,
	})
}

// FindYourWay renders the filter sidebar and the matching listings. Store and
// input errors are shown on the page; the status stays 200.
func FindYourWay(c *gin.Context) {
	svc := services.BusService{RequestID: middleware.GetRequestID(c)}
	ctx := c.Request.Context()

	var res services.BrowseResult
	f, err := query.ParseFilter(c.Request.URL.Query())
	if err != nil {
		_ = c.Error(err)
		opts, errs := svc.Options(ctx, c.Query("state"))
		res = services.BrowseResult{
			Options: opts,
			Filter: query.Filter{
				State:   opts.SelectedState,
				BusType: query.ParseBusType(c.Query("bus_type")),
				Rating:  query.DefaultRating,
			},
			Rows:   []models.BusRoute{},
			Errors: append([]string{err.Error()}, services.Messages(errs)...),
		}
	} else {
		res = svc.Browse(ctx, f.ForState(c.Query("prev_state")))
	}

	page := findPage{
		Tab:      "find",
		Title:    "Find Your Way",
		Result:   res,
		PriceMin: res.Options.PriceMin,
		PriceMax: res.Options.PriceMax,
	}
	if res.Filter.Price != nil {
		page.PriceMin, page.PriceMax = res.Filter.Price.Min, res.Filter.Price.Max
	}
	qs := res.Filter.Values().Encode()
	page.CSVURL = template.URL("/api/buses/export.csv?" + qs)
	page.PDFURL = template.URL("/api/buses/export.pdf?" + qs)

	c.HTML(http.StatusOK, "find.tmpl", page)
}

// TemplateFuncs are the helpers the page templates call.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"bound":  utils.FormatBound,
		"rupees": utils.FormatRupees,
		"rating": utils.FormatRating,
		"clock":  utils.ClockHM,
		"routeSelected": func(f query.Filter, route string) bool {
			for _, r := range f.Routes {
				if r == route {
					return true
				}
			}
			return false
		},
		"busTypeChecked": func(f query.Filter, choice string) bool {
			return query.ParseBusType(string(f.BusType)) == query.BusType(choice)
		},
	}
}
