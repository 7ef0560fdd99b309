package handlers

import (
	"net/http"

	"quickride/internal/domain/models"
	"quickride/internal/http/middleware"
	"quickride/internal/query"
	"quickride/internal/services"

	"github.com/gin-gonic/gin"
)

type busListResponse struct {
	Data        []models.BusRoute `json:"data"`
	Count       int               `json:"count"`
	QueryErrors []string          `json:"query_errors"`
}

type filterOptionsResponse struct {
	Options     models.FilterOptions `json:"options"`
	QueryErrors []string             `json:"query_errors"`
}

// ListBuses returns listings matching the query-string filter. A store
// failure yields an empty list plus the message.
func ListBuses(c *gin.Context) {
	f, err := query.ParseFilter(c.Request.URL.Query())
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	svc := services.BusService{RequestID: middleware.GetRequestID(c)}
	rows, err := svc.Search(c.Request.Context(), f)
	resp := busListResponse{Data: rows, Count: len(rows), QueryErrors: []string{}}
	if err != nil {
		_ = c.Error(err)
		resp.QueryErrors = services.Messages([]error{err})
	}
	c.JSON(http.StatusOK, resp)
}

// GetFilterOptions returns the sidebar choices for ?state=.
func GetFilterOptions(c *gin.Context) {
	svc := services.BusService{RequestID: middleware.GetRequestID(c)}
	opts, errs := svc.Options(c.Request.Context(), c.Query("state"))
	c.JSON(http.StatusOK, filterOptionsResponse{Options: opts, QueryErrors: services.Messages(errs)})
}

// ExportBusesCSV downloads the filtered listing as CSV.
func ExportBusesCSV(c *gin.Context) {
	rows, _, ok := exportRows(c)
	if !ok {
		return
	}
	data, filename, err := services.ExportService{RequestID: middleware.GetRequestID(c)}.CSV(rows)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendAttachment(c, "text/csv; charset=utf-8", filename, data)
}

// ExportBusesPDF downloads the filtered listing as a PDF table.
func ExportBusesPDF(c *gin.Context) {
	rows, f, ok := exportRows(c)
	if !ok {
		return
	}
	data, filename, err := services.ExportService{RequestID: middleware.GetRequestID(c)}.PDF(rows, f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendAttachment(c, "application/pdf", filename, data)
}

func exportRows(c *gin.Context) ([]models.BusRoute, query.Filter, bool) {
	f, err := query.ParseFilter(c.Request.URL.Query())
	if err != nil {
		RespondDomainError(c, err)
		return nil, f, false
	}
	svc := services.BusService{RequestID: middleware.GetRequestID(c)}
	rows, err := svc.Search(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return nil, f, false
	}
	return rows, f, true
}
