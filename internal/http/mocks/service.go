package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/aathifpm/feedback-reports/internal/scope"
	"github.com/aathifpm/feedback-reports/internal/service"
)

// MockReportService is a mock implementation of the ReportService interface
// for testing the handlers.
type MockReportService struct {
	GetFeedbackReportFunc       func(ctx context.Context, sc scope.Scope) (service.FeedbackReport, error)
	GetParticipationSummaryFunc func(ctx context.Context, sc scope.Scope) ([]service.ParticipationLine, error)
	GetExitSurveyReportFunc     func(ctx context.Context, sc scope.Scope) (service.ExitSurveyReport, error)
	GetNonAcademicReportFunc    func(ctx context.Context, sc scope.Scope) (service.NonAcademicReport, error)
}

func (m *MockReportService) GetFeedbackReport(ctx context.Context, sc scope.Scope) (service.FeedbackReport, error) {
	if m.GetFeedbackReportFunc != nil {
		return m.GetFeedbackReportFunc(ctx, sc)
	}
	return service.FeedbackReport{}, errors.New("GetFeedbackReportFunc not implemented")
}

func (m *MockReportService) GetParticipationSummary(ctx context.Context, sc scope.Scope) ([]service.ParticipationLine, error) {
	if m.GetParticipationSummaryFunc != nil {
		return m.GetParticipationSummaryFunc(ctx, sc)
	}
	return nil, errors.New("GetParticipationSummaryFunc not implemented")
}

func (m *MockReportService) GetExitSurveyReport(ctx context.Context, sc scope.Scope) (service.ExitSurveyReport, error) {
	if m.GetExitSurveyReportFunc != nil {
		return m.GetExitSurveyReportFunc(ctx, sc)
	}
	return service.ExitSurveyReport{}, errors.New("GetExitSurveyReportFunc not implemented")
}

func (m *MockReportService) GetNonAcademicReport(ctx context.Context, sc scope.Scope) (service.NonAcademicReport, error) {
	if m.GetNonAcademicReportFunc != nil {
		return m.GetNonAcademicReportFunc(ctx, sc)
	}
	return service.NonAcademicReport{}, errors.New("GetNonAcademicReportFunc not implemented")
}

// MockScopeResolver is a mock implementation of the ScopeResolver interface.
type MockScopeResolver struct {
	ResolveFunc func(ctx context.Context, req scope.Requester, f scope.Filter) (scope.Scope, error)
}

func (m *MockScopeResolver) Resolve(ctx context.Context, req scope.Requester, f scope.Filter) (scope.Scope, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, req, f)
	}
	return scope.Scope{}, errors.New("ResolveFunc not implemented")
}

// MockCacher is a mock implementation of the Cacher interface.
type MockCacher struct {
	GetFunc   func(ctx context.Context, key string, dest any) error
	SetFunc   func(ctx context.Context, key string, value any, expiration time.Duration) error
	CloseFunc func() error
}

func (m *MockCacher) Get(ctx context.Context, key string, dest any) error {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key, dest)
	}
	return errors.New("GetFunc not implemented")
}

func (m *MockCacher) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *MockCacher) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
