package api

import (
	"log"
	stdhttp "net/http"

	intconfig "quickride/internal/config"
	h "quickride/internal/http/handlers"
	"quickride/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.Metrics(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.SetHTMLTemplate(loadTemplates())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	// Tabs
	r.GET("/", h.Home)
	r.GET("/find", h.FindYourWay)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)
		api.GET("/filters", h.GetFilterOptions)

		buses := api.Group("/buses")
		buses.GET("", h.ListBuses)
		buses.GET("/export.csv", h.ExportBusesCSV)
		buses.GET("/export.pdf", h.ExportBusesPDF)
	}

	h.SetRouter(r)
	return r
}
