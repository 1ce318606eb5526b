package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/evaluator"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/models"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/store"
)

// ScorecardStore is the read surface the handlers need from the batch
// store. Write access stays with the feed process.
type ScorecardStore interface {
	Latest() (*models.Batch, string, error)
	Get(name string) (*models.Batch, error)
	FindPatient(patientID string) (*models.Scorecard, error)
}

// ScorecardHandler serves the read-only CDS API. It holds no state beyond
// the store handle; every request is independent.
type ScorecardHandler struct {
	store      ScorecardStore
	thresholds evaluator.Thresholds
	temp       evaluator.TempAdjustConfig
	logger     *zap.Logger
}

func NewScorecardHandler(s ScorecardStore, thresholds evaluator.Thresholds, temp evaluator.TempAdjustConfig, logger *zap.Logger) *ScorecardHandler {
	return &ScorecardHandler{store: s, thresholds: thresholds, temp: temp, logger: logger}
}

// GET /health
func (h *ScorecardHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /cds/scorecards/latest
// An empty store is the normal state on a fresh deployment and answers
// 404, not 500.
func (h *ScorecardHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	batch, _, err := h.store.Latest()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeErr(w, http.StatusNotFound, "no scorecard batches published yet")
			return
		}
		h.logger.Error("Failed to load latest batch", zap.Error(err))
		writeErr(w, http.StatusInternalServerError, "failed to load latest batch")
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

// GET /cds/scorecards/{name}
func (h *ScorecardHandler) GetByName(w http.ResponseWriter, r *http.Request, name string) {
	batch, err := h.store.Get(name)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrBadName):
			writeErr(w, http.StatusBadRequest, "malformed batch name")
		case errors.Is(err, store.ErrNotFound):
			writeErr(w, http.StatusNotFound, "batch not found")
		default:
			h.logger.Error("Failed to load batch", zap.String("name", name), zap.Error(err))
			writeErr(w, http.StatusInternalServerError, "failed to load batch")
		}
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

// GET /cds/patient/{patient_id}
// Lookup is against the latest batch only.
func (h *ScorecardHandler) GetPatient(w http.ResponseWriter, r *http.Request, patientID string) {
	card, err := h.store.FindPatient(patientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeErr(w, http.StatusNotFound, "patient not found in latest batch")
			return
		}
		h.logger.Error("Failed to look up patient", zap.String("patient_id", patientID), zap.Error(err))
		writeErr(w, http.StatusInternalServerError, "failed to look up patient")
		return
	}
	writeJSON(w, http.StatusOK, card)
}

type thresholdsResponse struct {
	Thresholds evaluator.Thresholds       `json:"thresholds"`
	TempAdjust evaluator.TempAdjustConfig `json:"temperature_adjustment_degC"`
}

// GET /cds/config/thresholds
// Serves the same threshold table the classifier runs on; there is no
// second descriptive copy to drift out of sync.
func (h *ScorecardHandler) GetThresholds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, thresholdsResponse{
		Thresholds: h.thresholds,
		TempAdjust: h.temp,
	})
}
