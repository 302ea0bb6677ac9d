package http

import (
	"context"
	"time"

	"github.com/aathifpm/feedback-reports/internal/scope"
	"github.com/aathifpm/feedback-reports/internal/service"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// ScopeResolver authorizes and completes the request filters.
type ScopeResolver interface {
	Resolve(ctx context.Context, req scope.Requester, f scope.Filter) (scope.Scope, error)
}

// ReportService is the aggregation facade consumed by the handlers.
type ReportService interface {
	GetFeedbackReport(ctx context.Context, sc scope.Scope) (service.FeedbackReport, error)
	GetParticipationSummary(ctx context.Context, sc scope.Scope) ([]service.ParticipationLine, error)
	GetExitSurveyReport(ctx context.Context, sc scope.Scope) (service.ExitSurveyReport, error)
	GetNonAcademicReport(ctx context.Context, sc scope.Scope) (service.NonAcademicReport, error)
}
