package handlers

import (
	"net/http"
	"sync"

	intconfig "quickride/internal/config"
	"quickride/internal/repositories"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "quickride is running"})
}

// DBCheck pings the store and reports whether the listing table is present.
func DBCheck(c *gin.Context) {
	if err := intconfig.EnsureDB(); err != nil {
		RespondError(c, http.StatusServiceUnavailable, "Database connection error", err)
		return
	}

	repo := repositories.BusRepository{}
	ctx := c.Request.Context()
	ok, err := repo.HasTable(ctx)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "database reachable, listing table missing", "table": intconfig.Active().DBTable})
		return
	}

	count, err := repo.Count(ctx)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK", "table": intconfig.Active().DBTable, "listings": count})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "router not ready"})
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
