package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"krxcli/internal/analytics"
	"krxcli/internal/directory"
	"krxcli/internal/news"
	"krxcli/internal/resolver"
	"krxcli/pkg/contracts/domain"
)

// DirectorySource supplies the cached company roster.
type DirectorySource interface {
	Companies(ctx context.Context) ([]domain.CompanyRecord, error)
}

// PriceSource supplies daily OHLCV history for a resolved symbol.
type PriceSource interface {
	DailyCandles(ctx context.Context, symbol string, from, to time.Time) (domain.PriceSeries, error)
}

// HeadlineSource supplies news headlines for one search query.
type HeadlineSource interface {
	Headlines(ctx context.Context, query string, limit int) ([]domain.Headline, error)
}

// How many headlines a lookup requests, and how many make a query "good
// enough" to stop trying broader fallbacks.
const (
	headlineLimit = 10
	headlineFloor = 5
)

// QuoteService orchestrates the lookup pipeline:
// validate → resolve → fetch → summarize. Strictly sequential; every user
// action runs the pipeline once and discards the result on the next action.
type QuoteService struct {
	dir    DirectorySource
	prices PriceSource
	news   HeadlineSource
	logger *slog.Logger
}

// NewQuoteService creates the quote orchestration service.
func NewQuoteService(dir DirectorySource, prices PriceSource, news HeadlineSource, logger *slog.Logger) *QuoteService {
	return &QuoteService{
		dir:    dir,
		prices: prices,
		news:   news,
		logger: logger.With(slog.String("component", "quote_service")),
	}
}

// SearchCompanies returns roster entries matching the keyword, ranked
// prefix-first.
func (s *QuoteService) SearchCompanies(ctx context.Context, keyword string, limit int) ([]domain.CompanyRecord, error) {
	roster, err := s.dir.Companies(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "roster load failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	return directory.Search(roster, keyword, limit), nil
}

// Lookup runs the full pipeline for one query. The date range is validated
// before any network call.
func (s *QuoteService) Lookup(ctx context.Context, q domain.Query) (*domain.QuoteResult, error) {
	if q.From.IsZero() || q.To.IsZero() {
		return nil, fmt.Errorf("%w: both start and end dates are required", ErrInvalidDateRange)
	}
	if q.From.After(q.To) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidDateRange,
			q.From.Format("2006-01-02"), q.To.Format("2006-01-02"))
	}

	company, err := s.resolve(ctx, q.Input)
	if err != nil {
		return nil, err
	}

	series, err := s.prices.DailyCandles(ctx, company.Symbol, q.From, q.To)
	if err != nil {
		s.logger.ErrorContext(ctx, "price fetch failed",
			slog.String("symbol", company.Symbol),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	result := &domain.QuoteResult{
		Company: company,
		From:    q.From,
		To:      q.To,
		Series:  series,
		NoData:  len(series) == 0,
	}
	if !result.NoData {
		result.Summary = analytics.Summarize(series)
	}

	s.logger.InfoContext(ctx, "quote lookup completed",
		slog.String("input", q.Input),
		slog.String("symbol", company.Symbol),
		slog.Int("rows", len(series)),
		slog.Bool("no_data", result.NoData),
	)

	return result, nil
}

// Headlines resolves the query to a company and fetches news headlines,
// trying progressively broader search queries until one returns enough
// items. An empty item list is a valid outcome.
func (s *QuoteService) Headlines(ctx context.Context, input string) (*domain.NewsResult, error) {
	company, err := s.resolve(ctx, input)
	if err != nil {
		return nil, err
	}

	name := company.Name
	if name == "" {
		name = company.Symbol
	}

	result := &domain.NewsResult{Company: company, Items: []domain.Headline{}}

	var lastErr error
	for _, query := range news.BuildQueries(name, company.Symbol) {
		items, err := s.news.Headlines(ctx, query, headlineLimit)
		if err != nil {
			s.logger.WarnContext(ctx, "headline fetch failed",
				slog.String("query", query),
				slog.String("error", err.Error()),
			)
			lastErr = err
			continue
		}
		if len(items) > len(result.Items) {
			result.Items = items
			result.Query = query
		}
		if len(items) >= headlineFloor {
			break
		}
	}

	if len(result.Items) == 0 && lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, lastErr)
	}

	s.logger.InfoContext(ctx, "headline lookup completed",
		slog.String("symbol", company.Symbol),
		slog.String("query", result.Query),
		slog.Int("items", len(result.Items)),
	)

	return result, nil
}

// resolve maps free-form input to a company record. A purely numeric
// input short-circuits without needing the roster; name lookups require it.
func (s *QuoteService) resolve(ctx context.Context, input string) (domain.CompanyRecord, error) {
	// Numeric inputs never need the roster, so try an empty one first and
	// only load the directory when a name lookup is actually required.
	company, err := resolver.Resolve(input, nil)
	if err == nil {
		return company, nil
	}
	if errors.Is(err, resolver.ErrEmptyQuery) {
		return domain.CompanyRecord{}, fmt.Errorf("%w", ErrEmptyQuery)
	}
	if errors.Is(err, resolver.ErrInvalidCode) {
		return domain.CompanyRecord{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	roster, rosterErr := s.dir.Companies(ctx)
	if rosterErr != nil {
		s.logger.ErrorContext(ctx, "roster load failed", slog.String("error", rosterErr.Error()))
		return domain.CompanyRecord{}, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, rosterErr)
	}

	company, err = resolver.Resolve(input, roster)
	switch {
	case err == nil:
		return company, nil
	case errors.Is(err, resolver.ErrAmbiguous):
		var ambErr *resolver.AmbiguousError
		if errors.As(err, &ambErr) {
			return domain.CompanyRecord{}, &AmbiguousQueryError{
				Query:      ambErr.Query,
				Candidates: ambErr.Candidates,
			}
		}
		return domain.CompanyRecord{}, fmt.Errorf("%w: %v", ErrAmbiguousQuery, err)
	case errors.Is(err, resolver.ErrNotFound):
		return domain.CompanyRecord{}, fmt.Errorf("%w: %q", ErrCompanyNotFound, input)
	default:
		return domain.CompanyRecord{}, err
	}
}

// AmbiguousQueryError carries the candidates of an ambiguous query so the
// transport layer can offer them to the user.
type AmbiguousQueryError struct {
	Query      string
	Candidates []domain.CompanyRecord
}

func (e *AmbiguousQueryError) Error() string {
	return fmt.Sprintf("query %q matches %d companies", e.Query, len(e.Candidates))
}

func (e *AmbiguousQueryError) Unwrap() error { return ErrAmbiguousQuery }
