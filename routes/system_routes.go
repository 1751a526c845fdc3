package routes

import (
	"context"
	"net/http"
	"time"

	"complaint-tracker-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthCheck dipanggil /healthz. Nil berarti komponen sehat.
type HealthCheck func(ctx context.Context) error

const healthTimeout = 2 * time.Second

func setupSystemRoutes(r *gin.Engine, checks map[string]HealthCheck) {
	r.GET("/", func(c *gin.Context) {
		respond(c, http.StatusOK, "Welcome to the Hostel Complaint Tracker API", gin.H{"version": "1.0.0"})
	})

	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		components := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				components[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			components[name] = "ok"
		}

		if status != http.StatusOK {
			c.JSON(status, utils.APIResponse{
				StatusCode: status,
				Message:    "Degraded",
				Data:       gin.H{"components": components},
				Errors:     []string{},
			})
			return
		}
		respond(c, status, "OK", gin.H{"components": components})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
