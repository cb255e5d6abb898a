package resolver

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"krxcli/internal/directory"
	"krxcli/pkg/contracts/domain"
)

// Sentinel errors distinguishing validation failures from lookup failures.
var (
	// ErrEmptyQuery means the input was blank. Validation failure.
	ErrEmptyQuery = errors.New("resolver: empty query")
	// ErrInvalidCode means the input looked numeric but is not a usable
	// symbol (more than 6 digits). Validation failure.
	ErrInvalidCode = errors.New("resolver: invalid numeric code")
	// ErrAmbiguous means the input matched more than one company with no
	// exact winner. Validation failure; see AmbiguousError for candidates.
	ErrAmbiguous = errors.New("resolver: ambiguous query")
	// ErrNotFound means no company matched. Validation failure, same
	// severity as an ambiguous query: the input needs correcting.
	ErrNotFound = errors.New("resolver: company not found")
)

var numericInput = regexp.MustCompile(`^\d+$`)

// AmbiguousError carries the candidate companies of an ambiguous query.
type AmbiguousError struct {
	Query      string
	Candidates []domain.CompanyRecord
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("resolver: query %q matches %d companies", e.Query, len(e.Candidates))
}

func (e *AmbiguousError) Unwrap() error { return ErrAmbiguous }

// Resolve maps a free-form user query to a company record with a canonical
// 6-digit symbol.
//
// Resolution order:
//  1. purely numeric input of up to 6 digits is zero-padded and used as the
//     symbol directly, without consulting the roster;
//  2. an exact name match wins even when it is a prefix of other names;
//  3. otherwise a substring match must be unique.
func Resolve(input string, roster []domain.CompanyRecord) (domain.CompanyRecord, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return domain.CompanyRecord{}, ErrEmptyQuery
	}

	if numericInput.MatchString(input) {
		if len(input) > 6 {
			return domain.CompanyRecord{}, fmt.Errorf("%w: %q is longer than 6 digits", ErrInvalidCode, input)
		}
		symbol := directory.PadSymbol(input)
		// Attach the company name when the symbol is in the roster.
		for _, rec := range roster {
			if rec.Symbol == symbol {
				return rec, nil
			}
		}
		return domain.CompanyRecord{Name: symbol, Symbol: symbol}, nil
	}

	var matches []domain.CompanyRecord
	for _, rec := range roster {
		if rec.Name == input {
			return rec, nil
		}
		if strings.Contains(rec.Name, input) {
			matches = append(matches, rec)
		}
	}

	switch len(matches) {
	case 0:
		return domain.CompanyRecord{}, fmt.Errorf("%w: %q", ErrNotFound, input)
	case 1:
		return matches[0], nil
	default:
		return domain.CompanyRecord{}, &AmbiguousError{Query: input, Candidates: matches}
	}
}
