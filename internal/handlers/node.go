package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errGetStatus  = "failed to load node status"
	errGetReading = "failed to load reading"
)

func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Node status
// @Description  Mode, connectivity state, alert flag and its sources, latest reading, Ro and the last telemetry attempt.
// @Tags         node
// @Produce      json
// @Success      200  {object}  models.NodeStatus
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/node/status [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	st, err := h.services.Monitoring.GetStatus(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetStatus, "node_get_status_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Latest reading
// @Tags         node
// @Produce      json
// @Success      200  {object}  models.Reading
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/node/reading [get]
// @Security     BearerAuth
func (h *Handler) getReading(c *gin.Context) {
	r, err := h.services.Monitoring.GetReading(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetReading, "node_get_reading_failed", err)
		return
	}
	c.JSON(http.StatusOK, r)
}
