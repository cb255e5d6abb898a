// Package exporter serializes a fetched price series into downloadable
// spreadsheet formats. Encoders are deterministic: the same series always
// produces the same bytes.
package exporter
