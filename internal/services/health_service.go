package services

import (
	"context"
	"log/slog"
	"time"
)

// HealthService reports basic liveness and version information.
type HealthService struct {
	version   string
	startedAt time.Time
	logger    *slog.Logger
}

// NewHealthService creates a health service for the given build version.
func NewHealthService(version string, logger *slog.Logger) *HealthService {
	return &HealthService{
		version:   version,
		startedAt: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// Status returns the current health snapshot.
func (s *HealthService) Status(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{
		"status":    "ok",
		"version":   s.version,
		"uptime":    time.Since(s.startedAt).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}

// Version returns the build version string.
func (s *HealthService) Version() string { return s.version }
