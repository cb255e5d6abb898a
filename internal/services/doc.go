// Package services contains the orchestration layer between HTTP transport
// and the domain packages. QuoteService runs the sequential lookup pipeline
// (validate → resolve → fetch → summarize); HealthService reports liveness.
package services
