package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Audit endpoints
	AuditHandler gin.HandlerFunc

	// Prometheus exposition
	MetricsHandler http.Handler
}
