package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "krxcli/internal/errors"
	"krxcli/internal/middleware"
	"krxcli/internal/services"
)

// CompanyHandler handles company directory HTTP requests
type CompanyHandler struct {
	service      QuoteServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(service QuoteServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *CompanyHandler {
	return &CompanyHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "company_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the company routes
func (h *CompanyHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.SearchCompanies)
	return r
}

// SearchCompanies handles GET /api/companies?q=&limit=
func (h *CompanyHandler) SearchCompanies(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	keyword := r.URL.Query().Get("q")

	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		limitStr = "20"
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > 200 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("limit", "Limit must be a number between 1 and 200"))
		return
	}

	h.logger.InfoContext(r.Context(), "searching companies",
		slog.String("request_id", reqID),
		slog.String("keyword", keyword),
		slog.Int("limit", limit),
	)

	companies, err := h.service.SearchCompanies(r.Context(), keyword, limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "company search failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)

		if errors.Is(err, services.ErrDirectoryUnavailable) {
			h.errorHandler.HandleError(w, r, apierrors.ErrDirectoryUnavailable)
			return
		}

		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   companies,
		"count":  len(companies),
	})
}
