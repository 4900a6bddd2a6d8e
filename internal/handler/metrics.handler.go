package handler

import (
	"net/http"

	"github.com/bencohensolal/seniorhub/pkg/response"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// EmailMetrics exposes the delivery queue counters for operators.
func (h *Handler) EmailMetrics(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.metrics.Snapshot())
}
