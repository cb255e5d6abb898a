package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"krxcli/internal/chart"
	apierrors "krxcli/internal/errors"
	"krxcli/internal/exporter"
	"krxcli/internal/middleware"
	"krxcli/internal/services"
	"krxcli/pkg/contracts/domain"
)

// tableRows is how many recent rows the dashboard table shows.
const tableRows = 10

// QuoteHandler handles price history HTTP requests
type QuoteHandler struct {
	service      QuoteServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(service QuoteServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *QuoteHandler {
	return &QuoteHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "quote_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the quote routes
func (h *QuoteHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/{symbol}", func(r chi.Router) {
		r.With(render.SetContentType(render.ContentTypeJSON)).Get("/", h.GetQuote)
		r.Get("/chart.png", h.GetChart)
		r.Get("/export", h.Export)
		r.With(render.SetContentType(render.ContentTypeJSON)).Get("/news", h.GetNews)
	})

	return r
}

// quoteParams are the bound and validated query parameters of a lookup.
type quoteParams struct {
	Input string `validate:"required,min=1,max=64"`
	From  string `validate:"required,datetime=2006-01-02"`
	To    string `validate:"required,datetime=2006-01-02"`
}

// bindQuery binds the symbol path segment and from/to parameters into a
// domain.Query, reporting the first validation problem.
func (h *QuoteHandler) bindQuery(r *http.Request) (domain.Query, *apierrors.APIError) {
	params := quoteParams{
		Input: chi.URLParam(r, "symbol"),
		From:  r.URL.Query().Get("from"),
		To:    r.URL.Query().Get("to"),
	}

	// The path segment arrives percent-encoded for Hangul names.
	// PathUnescape keeps a literal "+" intact, unlike query unescaping.
	if decoded, err := url.PathUnescape(params.Input); err == nil {
		params.Input = decoded
	}

	if err := h.validate.Struct(params); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0].Field()
			return domain.Query{}, apierrors.ErrValidation(field, fmt.Sprintf("Invalid value for %s", field))
		}
		return domain.Query{}, apierrors.InvalidRequestWithError(err)
	}

	from, err := parseDate(params.From)
	if err != nil {
		return domain.Query{}, apierrors.ErrValidation("from", "Start date must be formatted YYYY-MM-DD")
	}
	to, err := parseDate(params.To)
	if err != nil {
		return domain.Query{}, apierrors.ErrValidation("to", "End date must be formatted YYYY-MM-DD")
	}

	return domain.Query{Input: params.Input, From: from, To: to}, nil
}

// lookup runs the pipeline and maps service sentinels onto API errors.
// A nil result means the error has already been written.
func (h *QuoteHandler) lookup(w http.ResponseWriter, r *http.Request) *domain.QuoteResult {
	reqID := middleware.GetReqID(r.Context())

	q, apiErr := h.bindQuery(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return nil
	}

	h.logger.InfoContext(r.Context(), "quote lookup",
		slog.String("request_id", reqID),
		slog.String("input", q.Input),
		slog.String("from", q.From.Format(dateLayout)),
		slog.String("to", q.To.Format(dateLayout)),
	)

	result, err := h.service.Lookup(r.Context(), q)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "quote lookup failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("input", q.Input),
		)
		h.writeServiceError(w, r, q.Input, err)
		return nil
	}

	return result
}

// writeServiceError maps service sentinels onto API errors and responds.
func (h *QuoteHandler) writeServiceError(w http.ResponseWriter, r *http.Request, input string, err error) {
	var ambErr *services.AmbiguousQueryError
	switch {
	case errors.As(err, &ambErr):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"AMBIGUOUS_QUERY",
			fmt.Sprintf("Query %q matches %d companies", ambErr.Query, len(ambErr.Candidates)),
			map[string]interface{}{"candidates": ambErr.Candidates},
		))
	case errors.Is(err, services.ErrEmptyQuery), errors.Is(err, services.ErrInvalidInput):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("symbol", err.Error()))
	case errors.Is(err, services.ErrInvalidDateRange):
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidDateRange)
	case errors.Is(err, services.ErrCompanyNotFound):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"COMPANY_NOT_FOUND",
			fmt.Sprintf("Query %q matches no listed company", input),
			map[string]interface{}{"query": input},
		))
	case errors.Is(err, services.ErrDirectoryUnavailable):
		h.errorHandler.HandleError(w, r, apierrors.ErrDirectoryUnavailable)
	case errors.Is(err, services.ErrProviderUnavailable):
		h.errorHandler.HandleError(w, r, apierrors.ErrProviderUnavailable)
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

// GetQuote handles GET /api/quotes/{symbol}?from=&to=
// An empty series is a valid outcome reported with no_data=true, not an error.
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	result := h.lookup(w, r)
	if result == nil {
		return
	}

	response := map[string]interface{}{
		"status":  "success",
		"company": result.Company,
		"from":    result.From.Format(dateLayout),
		"to":      result.To.Format(dateLayout),
		"no_data": result.NoData,
		"series":  result.Series,
		"tail":    result.Series.Tail(tableRows),
		"count":   len(result.Series),
	}
	if result.Summary != nil {
		response["summary"] = result.Summary
	}
	if result.NoData {
		response["notice"] = "No price data for the requested period"
	}

	render.JSON(w, r, response)
}

// GetNews handles GET /api/quotes/{symbol}/news
// Only the symbol is needed; no date range. An empty headline list is a
// valid outcome reported with a notice, not an error.
func (h *QuoteHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	input := chi.URLParam(r, "symbol")
	if decoded, err := url.PathUnescape(input); err == nil {
		input = decoded
	}

	result, err := h.service.Headlines(r.Context(), input)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "headline lookup failed",
			slog.String("error", err.Error()),
			slog.String("input", input),
		)
		h.writeServiceError(w, r, input, err)
		return
	}

	response := map[string]interface{}{
		"status":  "success",
		"company": result.Company,
		"query":   result.Query,
		"items":   result.Items,
		"count":   len(result.Items),
	}
	if len(result.Items) == 0 {
		response["notice"] = "No related news found for this company"
	}

	render.JSON(w, r, response)
}

// GetChart handles GET /api/quotes/{symbol}/chart.png?from=&to=&ma20=&ma60=
func (h *QuoteHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	result := h.lookup(w, r)
	if result == nil {
		return
	}

	if len(result.Series) < 2 {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusNotFound,
			"NOT_FOUND",
			"Not enough data points to draw a chart",
			map[string]interface{}{"rows": len(result.Series)},
		))
		return
	}

	opts := chart.Options{
		Title:    fmt.Sprintf("%s (%s)", result.Company.Name, result.Company.Symbol),
		ShowMA20: r.URL.Query().Get("ma20") != "false",
		ShowMA60: r.URL.Query().Get("ma60") == "true",
	}

	w.Header().Set("Content-Type", "image/png")
	if err := chart.Render(w, result.Series, opts); err != nil {
		// Headers already sent; log and give up on this response.
		h.logger.ErrorContext(r.Context(), "chart render failed",
			slog.String("error", err.Error()),
			slog.String("symbol", result.Company.Symbol),
		)
	}
}

// Export handles GET /api/quotes/{symbol}/export?from=&to=&format=xlsx|csv
// Exporting an empty series still yields a valid file with headers only.
func (h *QuoteHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}
	if format != "xlsx" && format != "csv" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", "Format must be xlsx or csv"))
		return
	}

	result := h.lookup(w, r)
	if result == nil {
		return
	}

	var (
		buf         interface{ Bytes() []byte }
		contentType string
		err         error
	)
	switch format {
	case "csv":
		buf, err = exporter.BuildCSV(result.Series)
		contentType = exporter.CSVContentType
	default:
		buf, err = exporter.BuildWorkbook(result.Series)
		contentType = exporter.XLSXContentType
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrExportFailed)
		return
	}

	filename := exporter.Filename(result.Company, format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
