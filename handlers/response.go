package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"tendrilAPI/internal/store"
	"tendrilAPI/services"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError maps service and store errors onto HTTP statuses.
// Unexpected errors are logged and hidden behind a generic message.
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondWithError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, services.ErrValidation):
		respondWithError(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, services.ErrRateLimited):
		respondWithError(w, http.StatusTooManyRequests, "Rate limit exceeded")
	default:
		logger.Error("request failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, services.ErrValidation.Error()+": "); i >= 0 {
		return msg[i+len(services.ErrValidation.Error())+2:]
	}
	return msg
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func parseDate(raw string) (civil.Date, error) {
	d, err := civil.ParseDate(raw)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return d, nil
}
