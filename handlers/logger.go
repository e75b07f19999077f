package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Envapa08241978/soynexo-servidor-final/utils"
)

// getLogger returns the request logger set by middleware.RequestLogger,
// falling back to whatever the request context carries.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.LoggerFromContext(c.Request.Context(), nil)
}
