package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"electionpulse/internal/dataset"
	apierrors "electionpulse/internal/errors"
	"electionpulse/internal/infrastructure"
	"electionpulse/internal/services"
)

// DashboardHandler serves the derived election views over HTTP.
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the dashboard API routes.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/kpis", h.GetKPIs)
	r.Get("/outliers", h.GetOutliers)
	r.Get("/outliers/zscores", h.GetOutlierZScores)
	r.Get("/areas", h.GetAreaComparison)
	r.Get("/history", h.GetHistory)
	r.Get("/map/points", h.GetMapPoints)

	r.Route("/dataset", func(r chi.Router) {
		r.Post("/reload", h.ReloadDataset)
		r.Get("/status", h.GetDatasetStatus)
	})

	return r
}

// outlierQuery holds the validated GET /outliers parameters.
type outlierQuery struct {
	Column string `validate:"omitempty,oneof=Global_Composite_Score APC_z_score PDP_z_score LP_z_score NNPP_z_score Accredited_Ratio"`
	N      int    `validate:"omitempty,min=1,max=100"`
}

// areaQuery holds the validated GET /areas parameters.
type areaQuery struct {
	Group string `validate:"omitempty,oneof=LGA Ward"`
	Value string `validate:"omitempty,oneof=Global_Composite_Score Accredited_Ratio Total_Votes APC PDP LP NNPP"`
}

// GetKPIs handles GET /api/kpis
func (h *DashboardHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r, "fetching kpi summary")

	kpi, err := h.service.KPISummary(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   kpi,
	})
}

// GetOutliers handles GET /api/outliers?column=&n=
func (h *DashboardHandler) GetOutliers(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r, "fetching top outliers")

	query := outlierQuery{Column: r.URL.Query().Get("column")}
	if raw := r.URL.Query().Get("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("n", "must be an integer"))
			return
		}
		query.N = n
	}

	if err := h.validate.Struct(query); err != nil {
		h.errorHandler.HandleError(w, r, validationError(err))
		return
	}

	outliers, err := h.service.TopOutliers(r.Context(), query.Column, query.N)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   outliers,
		"count":  len(outliers),
	})
}

// GetOutlierZScores handles GET /api/outliers/zscores
func (h *DashboardHandler) GetOutlierZScores(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r, "fetching outlier z-scores")

	long, err := h.service.PartyZScores(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   long,
		"count":  len(long),
	})
}

// GetAreaComparison handles GET /api/areas?group=&value=
func (h *DashboardHandler) GetAreaComparison(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r, "fetching area comparison")

	query := areaQuery{
		Group: r.URL.Query().Get("group"),
		Value: r.URL.Query().Get("value"),
	}
	if err := h.validate.Struct(query); err != nil {
		h.errorHandler.HandleError(w, r, validationError(err))
		return
	}

	rollup, err := h.service.AreaComparison(r.Context(), query.Group, query.Value)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   rollup,
		"count":  len(rollup),
	})
}

// GetHistory handles GET /api/history
func (h *DashboardHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r, "fetching historical series")

	series, err := h.service.HistoricalTrends(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   series,
		"count":  len(series),
	})
}

// GetMapPoints handles GET /api/map/points
func (h *DashboardHandler) GetMapPoints(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r, "fetching map points")

	points, skipped, err := h.service.MapPoints(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":       "success",
		"data":         points,
		"count":        len(points),
		"skipped_rows": skipped,
	})
}

// ReloadDataset handles POST /api/dataset/reload
func (h *DashboardHandler) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r, "reloading dataset")

	if err := h.service.Reload(r.Context()); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	status := h.service.Status(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   status,
	})
}

// GetDatasetStatus handles GET /api/dataset/status
func (h *DashboardHandler) GetDatasetStatus(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r, "fetching dataset status")

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   h.service.Status(r.Context()),
	})
}

func (h *DashboardHandler) logRequest(r *http.Request, msg string) {
	h.logger.InfoContext(r.Context(), msg,
		slog.String("request_id", infrastructure.GetTraceID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
}

// handleServiceError maps service and dataset errors onto API errors.
func (h *DashboardHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var sv *dataset.SchemaViolation
	switch {
	case errors.Is(err, services.ErrNotLoaded):
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotLoaded)
	case errors.Is(err, dataset.ErrEmptyDataset):
		h.errorHandler.HandleError(w, r, apierrors.ErrEmptyDataset)
	case errors.Is(err, dataset.ErrUnknownColumn):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest, "UNKNOWN_COLUMN",
			"Requested column is not part of the dataset schema", err.Error()))
	case errors.As(err, &sv):
		h.errorHandler.HandleError(w, r, apierrors.SchemaError(sv))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

// validationError converts validator failures to field-level details.
func validationError(err error) *apierrors.APIError {
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return apierrors.ErrValidationFailed
	}

	fields := make([]apierrors.ValidationError, 0, len(invalid))
	for _, fe := range invalid {
		fields = append(fields, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: fe.Tag(),
		})
	}
	return apierrors.NewValidationErrors(fields)
}
