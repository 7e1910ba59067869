package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/habitloop/health-backend/logger"
	"github.com/habitloop/health-backend/services"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps service errors onto HTTP statuses. Validation problems are
// the caller's fault (400), a plan that came back short is unprocessable
// (422), missing records are 404 and anything else is treated as an upstream
// or storage failure (502).
func writeError(w http.ResponseWriter, err error) {
	var incomplete *services.IncompletePlanError
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &incomplete):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	default:
		logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream request failed"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}
