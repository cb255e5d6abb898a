// Package http contains the chi HTTP handlers for the dashboard: company
// directory search, quote lookup, chart rendering, spreadsheet export, and
// health endpoints. Handlers translate service sentinel errors into
// RFC 7807 problem responses.
package http
