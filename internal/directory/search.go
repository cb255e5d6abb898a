package directory

import (
	"strings"

	"krxcli/pkg/contracts/domain"
)

// Search filters the roster by keyword against company names and symbols,
// ranking prefix matches before other substring matches. An empty keyword
// returns the first limit records of the roster.
func Search(records []domain.CompanyRecord, keyword string, limit int) []domain.CompanyRecord {
	if limit <= 0 {
		limit = 20
	}

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		if len(records) > limit {
			return records[:limit]
		}
		return records
	}

	var prefix, rest []domain.CompanyRecord
	for _, rec := range records {
		switch {
		case strings.HasPrefix(rec.Name, keyword) || strings.HasPrefix(rec.Symbol, keyword):
			prefix = append(prefix, rec)
		case strings.Contains(rec.Name, keyword):
			rest = append(rest, rec)
		}
	}

	out := append(prefix, rest...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
