package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"tendrilAPI/internal/types/tip"
	"tendrilAPI/services"
)

type TipHandler struct {
	tipService *services.TipService
	logger     *zap.Logger
}

func NewTipHandler(tipService *services.TipService, logger *zap.Logger) *TipHandler {
	return &TipHandler{
		tipService: tipService,
		logger:     logger,
	}
}

func (h *TipHandler) ListTips(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tips, err := h.tipService.ListTips(ctx)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "No tips available")
		return
	}

	respondWithJSON(w, http.StatusOK, tips)
}

func (h *TipHandler) FeaturedTips(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tips, err := h.tipService.FeaturedTips(ctx)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "No tips available")
		return
	}

	respondWithJSON(w, http.StatusOK, tips)
}

func (h *TipHandler) RandomTip(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	t, err := h.tipService.RandomTip(ctx)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "No tips available")
		return
	}

	respondWithJSON(w, http.StatusOK, t)
}

func (h *TipHandler) CreateTip(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req tip.CreateTipRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.tipService.CreateTip(ctx, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "No tips available")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// GetAffirmation may call out to the rewrite provider, so it gets a longer
// deadline than the store-backed endpoints.
func (h *TipHandler) GetAffirmation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	respondWithJSON(w, http.StatusOK, h.tipService.Affirmation(ctx))
}
