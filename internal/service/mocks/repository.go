package mocks

import (
	"context"
	"errors"

	"github.com/aathifpm/feedback-reports/internal/repository/models"
	"github.com/aathifpm/feedback-reports/internal/scope"
)

// MockFeedbackRepository is a mock implementation of the FeedbackRepository
// interface for testing the service layer.
type MockFeedbackRepository struct {
	GetStatementDistributionsFunc func(ctx context.Context, sc scope.Scope) ([]models.StatementDistributionRow, error)
	GetResponseRowsFunc           func(ctx context.Context, sc scope.Scope) ([]models.ResponseRow, error)
	CountEligibleStudentsFunc     func(ctx context.Context, sc scope.Scope) (int64, error)
	CountResponsesFunc            func(ctx context.Context, sc scope.Scope) (int64, error)
	GetSummaryRowsFunc            func(ctx context.Context, sc scope.Scope) ([]models.SummaryRow, error)
}

func (m *MockFeedbackRepository) GetStatementDistributions(ctx context.Context, sc scope.Scope) ([]models.StatementDistributionRow, error) {
	if m.GetStatementDistributionsFunc != nil {
		return m.GetStatementDistributionsFunc(ctx, sc)
	}
	return nil, errors.New("GetStatementDistributionsFunc not implemented")
}

func (m *MockFeedbackRepository) GetResponseRows(ctx context.Context, sc scope.Scope) ([]models.ResponseRow, error) {
	if m.GetResponseRowsFunc != nil {
		return m.GetResponseRowsFunc(ctx, sc)
	}
	return nil, errors.New("GetResponseRowsFunc not implemented")
}

func (m *MockFeedbackRepository) CountEligibleStudents(ctx context.Context, sc scope.Scope) (int64, error) {
	if m.CountEligibleStudentsFunc != nil {
		return m.CountEligibleStudentsFunc(ctx, sc)
	}
	return 0, errors.New("CountEligibleStudentsFunc not implemented")
}

func (m *MockFeedbackRepository) CountResponses(ctx context.Context, sc scope.Scope) (int64, error) {
	if m.CountResponsesFunc != nil {
		return m.CountResponsesFunc(ctx, sc)
	}
	return 0, errors.New("CountResponsesFunc not implemented")
}

func (m *MockFeedbackRepository) GetSummaryRows(ctx context.Context, sc scope.Scope) ([]models.SummaryRow, error) {
	if m.GetSummaryRowsFunc != nil {
		return m.GetSummaryRowsFunc(ctx, sc)
	}
	return nil, errors.New("GetSummaryRowsFunc not implemented")
}

// MockSurveyRepository is a mock implementation of the SurveyRepository
// interface.
type MockSurveyRepository struct {
	GetExitSurveysFunc         func(ctx context.Context, academicYearID int64) ([]models.SurveyRow, error)
	GetNonAcademicFeedbackFunc func(ctx context.Context, academicYearID int64) ([]models.SurveyRow, error)
}

func (m *MockSurveyRepository) GetExitSurveys(ctx context.Context, academicYearID int64) ([]models.SurveyRow, error) {
	if m.GetExitSurveysFunc != nil {
		return m.GetExitSurveysFunc(ctx, academicYearID)
	}
	return nil, errors.New("GetExitSurveysFunc not implemented")
}

func (m *MockSurveyRepository) GetNonAcademicFeedback(ctx context.Context, academicYearID int64) ([]models.SurveyRow, error) {
	if m.GetNonAcademicFeedbackFunc != nil {
		return m.GetNonAcademicFeedbackFunc(ctx, academicYearID)
	}
	return nil, errors.New("GetNonAcademicFeedbackFunc not implemented")
}
