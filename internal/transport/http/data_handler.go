package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/render"

	"epipulse/internal/errors"
	"epipulse/internal/services"
)

// dateParamFormat is the layout for from/to query parameters.
const dateParamFormat = "2006-01-02"

// DataHandler handles dashboard data requests.
type DataHandler struct {
	service *services.DataService
	logger  *slog.Logger
}

// NewDataHandler creates a new data handler
func NewDataHandler(service *services.DataService, logger *slog.Logger) *DataHandler {
	return &DataHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "data")),
	}
}

// Entities handles GET /api/data/entities
func (h *DataHandler) Entities(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.ListEntities(r.Context()))
}

// Summary handles GET /api/data/summary
func (h *DataHandler) Summary(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Summary(r.Context()))
}

// Series handles GET /api/data/series. Query parameters:
//
//	entities   comma-separated entity names (required)
//	from, to   inclusive date bounds, YYYY-MM-DD (optional)
//	normalized "true" to select the per-million view (optional)
func (h *DataHandler) Series(w http.ResponseWriter, r *http.Request) {
	req, apiErr := parseSeriesQuery(r)
	if apiErr != nil {
		errors.WriteError(w, apiErr)
		return
	}

	resp, err := h.service.Series(r.Context(), *req)
	if err != nil {
		h.logger.WarnContext(r.Context(), "series query rejected",
			slog.String("error", err.Error()))
		errors.WriteError(w, errors.InvalidRequestWithError(err))
		return
	}

	render.JSON(w, r, resp)
}

// Reload handles POST /api/data/reload: re-run the pipeline from the source
// tables. A missing source table is reported as a non-fatal condition and
// the previous result keeps serving.
func (h *DataHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reload(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "dataset reload failed",
			slog.String("error", err.Error()))
		errors.WriteError(w, errors.DatasetUnavailableError(err))
		return
	}

	render.JSON(w, r, h.service.Summary(r.Context()))
}

func parseSeriesQuery(r *http.Request) (*services.SeriesRequest, *errors.APIError) {
	q := r.URL.Query()

	var entities []string
	for _, part := range strings.Split(q.Get("entities"), ",") {
		if part = strings.TrimSpace(part); part != "" {
			entities = append(entities, part)
		}
	}
	if len(entities) == 0 {
		return nil, errors.ErrValidation("entities", "at least one entity must be selected")
	}

	req := &services.SeriesRequest{Entities: entities}

	if v := q.Get("from"); v != "" {
		t, err := time.Parse(dateParamFormat, v)
		if err != nil {
			return nil, errors.ErrValidation("from", "must be a YYYY-MM-DD date")
		}
		req.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(dateParamFormat, v)
		if err != nil {
			return nil, errors.ErrValidation("to", "must be a YYYY-MM-DD date")
		}
		req.To = t
	}
	if v := q.Get("normalized"); v != "" {
		normalized, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.ErrValidation("normalized", "must be a boolean")
		}
		req.Normalized = normalized
	}

	return req, nil
}
