package domain

import "regexp"

// symbolPattern matches a canonical 6-digit zero-padded KRX symbol.
var symbolPattern = regexp.MustCompile(`^\d{6}$`)

// CompanyRecord represents a single listed company from the KRX roster.
// Records are loaded once per session and are immutable after load.
type CompanyRecord struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// IsValidSymbol reports whether s is a canonical 6-digit KRX symbol.
func IsValidSymbol(s string) bool {
	return symbolPattern.MatchString(s)
}
