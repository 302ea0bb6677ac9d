package service

import (
	"context"

	"github.com/aathifpm/feedback-reports/internal/repository/models"
	"github.com/aathifpm/feedback-reports/internal/scope"
)

// FeedbackRepository defines the interface for course-feedback queries.
type FeedbackRepository interface {
	GetStatementDistributions(ctx context.Context, sc scope.Scope) ([]models.StatementDistributionRow, error)
	GetResponseRows(ctx context.Context, sc scope.Scope) ([]models.ResponseRow, error)
	CountEligibleStudents(ctx context.Context, sc scope.Scope) (int64, error)
	CountResponses(ctx context.Context, sc scope.Scope) (int64, error)
	GetSummaryRows(ctx context.Context, sc scope.Scope) ([]models.SummaryRow, error)
}

// SurveyRepository defines the interface for JSON-blob survey queries.
type SurveyRepository interface {
	GetExitSurveys(ctx context.Context, academicYearID int64) ([]models.SurveyRow, error)
	GetNonAcademicFeedback(ctx context.Context, academicYearID int64) ([]models.SurveyRow, error)
}
