package services

import "errors"

// Service-level sentinel errors. Handlers map these onto the three
// user-facing severities: validation problems, fetch failures, and
// benign empty results.
var (
	// Validation failures (surfaced as warnings, HTTP 400). A zero-match
	// query belongs here: the input is wrong, nothing downstream failed.
	ErrEmptyQuery       = errors.New("query input is empty")
	ErrInvalidInput     = errors.New("query input is not a valid company name or code")
	ErrInvalidDateRange = errors.New("start date is after end date")
	ErrAmbiguousQuery   = errors.New("query matches more than one company")
	ErrCompanyNotFound  = errors.New("query matches no listed company")

	// Fetch failures (surfaced as errors).
	ErrDirectoryUnavailable = errors.New("company directory unavailable")
	ErrProviderUnavailable  = errors.New("price data provider unavailable")
)
