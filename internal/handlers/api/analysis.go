package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"

	"dganalyzer/internal/metrics"
	"dganalyzer/internal/models"
	"dganalyzer/internal/store"
	"dganalyzer/internal/validation"
)

// Ingest outcomes reported to metrics.
const (
	outcomeOK         = "ok"
	outcomeInvalid    = "invalid"
	outcomeParseError = "parse_error"
	outcomeStoreError = "store_error"
)

// parseFailureMessage is reported when a string analysis does not decode.
const parseFailureMessage = "analysis must be a valid JSON string when provided as string"

// AnalysisHandler serves the ingest and query endpoints.
type AnalysisHandler struct {
	store store.Store
	now   func() time.Time
}

// NewAnalysisHandler creates a new analysis handler backed by st.
func NewAnalysisHandler(st store.Store) *AnalysisHandler {
	return &AnalysisHandler{
		store: st,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Analyze stores a new analysis, replacing the previous one.
func (h *AnalysisHandler) Analyze(c fiber.Ctx) error {
	var req models.AnalyzeRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		metrics.RecordIngest(outcomeInvalid)
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid request body", err.Error())
	}

	if valid, msg := validation.ValidateDatasetName(req.DatasetName); !valid {
		metrics.RecordIngest(outcomeInvalid)
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid dataset_name", msg)
	}

	analysis, err := validation.NormalizeAnalysis(req.Analysis)
	if err != nil {
		var perr *validation.ParseError
		if errors.As(err, &perr) {
			metrics.RecordIngest(outcomeParseError)
			slog.Info("rejected analysis", "dataset", req.DatasetName, "error", perr.Err)
			// Reported in the body with a 200 so producers branch on status.
			return c.JSON(models.StatusResponse{
				Status:  models.StatusError,
				Message: parseFailureMessage,
				Details: perr.Err.Error(),
			})
		}
		metrics.RecordIngest(outcomeInvalid)
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid analysis", err.Error())
	}

	rec := &models.AnalysisRecord{
		Dataset:   req.DatasetName,
		Analysis:  analysis,
		Timestamp: h.now(),
	}
	if err := h.store.Write(c.Context(), rec); err != nil {
		metrics.RecordIngest(outcomeStoreError)
		slog.Error("failed to persist analysis", "dataset", rec.Dataset, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to persist analysis", err.Error())
	}

	metrics.RecordIngest(outcomeOK)
	slog.Info("stored analysis", "dataset", rec.Dataset, "bytes", len(rec.Analysis))
	return jsonOK(c)
}

// Latest returns the stored analysis, or the empty sentinel before the
// first submission.
func (h *AnalysisHandler) Latest(c fiber.Ctx) error {
	rec, err := h.store.Read(c.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(models.StatusResponse{
				Status:  models.StatusEmpty,
				Message: models.EmptyMessage,
			})
		}
		slog.Error("failed to read analysis", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to read analysis", err.Error())
	}
	return c.JSON(rec)
}
