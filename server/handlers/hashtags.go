package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"trendtags/config"
	"trendtags/export"
	"trendtags/metrics"
	"trendtags/models"
	"trendtags/scraper/trends24"
	"trendtags/services"
	"trendtags/utils"
)

// fetchErrorBody is the only error detail callers ever see.
const fetchErrorBody = "Error while fetching data."

// TrendSource produces the current trend records for one request.
type TrendSource interface {
	Acquire(ctx context.Context, opts config.RequestOptions) ([]models.TrendRecord, error)
}

// HashtagHandler serves hashtags and the raw trend snapshot.
type HashtagHandler struct {
	source   TrendSource
	defaults config.RequestOptions
	logger   *utils.Logger
}

// NewHashtagHandler creates a handler that overlays query parameters on defaults.
func NewHashtagHandler(source TrendSource, defaults config.RequestOptions, logger *utils.Logger) *HashtagHandler {
	return &HashtagHandler{source: source, defaults: defaults, logger: logger}
}

type hashtagsResponse struct {
	Hashtags services.Hashtags `json:"hashtags"`
}

type trendsResponse struct {
	Trends []models.TrendRecord `json:"trends"`
}

// GenerateHashtags acquires the trends table and returns synthesized hashtags.
func (h *HashtagHandler) GenerateHashtags(w http.ResponseWriter, r *http.Request) {
	opts, records, ok := h.acquire(w, r)
	if !ok {
		return
	}

	hashtags := services.Synthesize(records, opts.Policy())
	metrics.RecordHashtags(string(hashtags.Mode), len(hashtags.Tags))
	h.logger.Info("[http] %d records -> %d hashtags (%s)", len(records), len(hashtags.Tags), hashtags.Mode)

	respondWithJSON(w, http.StatusOK, hashtagsResponse{Hashtags: hashtags})
}

// GetTrends returns the acquired records as JSON.
func (h *HashtagHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	_, records, ok := h.acquire(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, trendsResponse{Trends: records})
}

// GetTrendsCSV returns the acquired records as CSV.
func (h *HashtagHandler) GetTrendsCSV(w http.ResponseWriter, r *http.Request) {
	_, records, ok := h.acquire(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trends.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := export.NewCSVWriter(w).WriteRecords(records); err != nil {
		h.logger.Error("[http] CSV export failed: %v", err)
	}
}

// acquire parses the request options and runs the acquisition, writing the
// error response itself when ok is false.
func (h *HashtagHandler) acquire(w http.ResponseWriter, r *http.Request) (opts config.RequestOptions, records []models.TrendRecord, ok bool) {
	log := h.logger
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		log = log.With("request_id", reqID)
	}

	opts, err := config.FromQuery(h.defaults, r.URL.Query())
	if err != nil {
		log.Warn("[http] Rejected options: %v", err)
		respondWithText(w, http.StatusBadRequest, err.Error())
		return opts, nil, false
	}

	records, err = h.source.Acquire(r.Context(), opts)
	if err != nil {
		if stage, isStage := trends24.StageOf(err); isStage {
			log.With("stage", string(stage)).Error("[http] Acquisition failed: %v", err)
		} else if errors.Is(err, context.Canceled) {
			log.Warn("[http] Request cancelled by caller")
		} else {
			log.Error("[http] Unexpected failure: %v", err)
		}
		respondWithText(w, http.StatusInternalServerError, fetchErrorBody)
		return opts, nil, false
	}

	return opts, records, true
}
