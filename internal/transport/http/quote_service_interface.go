package http

import (
	"context"
	"time"

	"krxcli/pkg/contracts/domain"
)

// QuoteServiceInterface defines the contract the quote handler depends on.
// Tests substitute a mock implementation.
type QuoteServiceInterface interface {
	SearchCompanies(ctx context.Context, keyword string, limit int) ([]domain.CompanyRecord, error)
	Lookup(ctx context.Context, q domain.Query) (*domain.QuoteResult, error)
	Headlines(ctx context.Context, input string) (*domain.NewsResult, error)
}

// HealthServiceInterface defines the contract the health handler depends on.
type HealthServiceInterface interface {
	Status(ctx context.Context) map[string]interface{}
	Version() string
}

// dateLayout is the wire format for from/to query parameters.
const dateLayout = "2006-01-02"

// parseDate parses a from/to parameter.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
