package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aathifpm/feedback-reports/internal/repository/models"
	"github.com/aathifpm/feedback-reports/internal/scope"
	"github.com/aathifpm/feedback-reports/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// TestNewReportService tests the constructor
func TestNewReportService(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		feedback := &mocks.MockFeedbackRepository{}
		surveys := &mocks.MockSurveyRepository{}
		logger := zap.NewNop()

		svc := NewReportService(feedback, surveys, logger)

		assert.NotNil(t, svc)
		assert.Equal(t, feedback, svc.feedback)
		assert.Equal(t, surveys, svc.surveys)
		assert.Equal(t, logger, svc.logger)
	})

	t.Run("nil feedback repository panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewReportService(nil, &mocks.MockSurveyRepository{}, zap.NewNop())
		})
	})

	t.Run("nil survey repository panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewReportService(&mocks.MockFeedbackRepository{}, nil, zap.NewNop())
		})
	})

	t.Run("nil logger gets default", func(t *testing.T) {
		svc := NewReportService(&mocks.MockFeedbackRepository{}, &mocks.MockSurveyRepository{}, nil)

		assert.NotNil(t, svc)
		assert.NotNil(t, svc.logger)
	})
}

// TestRatingStatus verifies the classification step function at its
// boundaries.
func TestRatingStatus(t *testing.T) {
	cases := []struct {
		avg      float64
		expected string
	}{
		{4.5, "Excellent"},
		{4.49, "Very Good"},
		{4.0, "Very Good"},
		{3.99, "Good"},
		{3.5, "Good"},
		{3.49, "Satisfactory"},
		{3.0, "Satisfactory"},
		{2.99, "Needs Improvement"},
		{5.0, "Excellent"},
		{0, "Needs Improvement"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, RatingStatus(tc.avg), "average %v", tc.avg)
	}
}

func TestParticipationRate(t *testing.T) {
	t.Run("three of ten students", func(t *testing.T) {
		assert.Equal(t, 30.00, ParticipationRate(3, 10))
	})

	t.Run("zero eligible students", func(t *testing.T) {
		assert.Equal(t, 0.0, ParticipationRate(5, 0))
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		assert.Equal(t, 33.33, ParticipationRate(1, 3))
		assert.Equal(t, 66.67, ParticipationRate(2, 3))
	})

	t.Run("idempotent on the same snapshot", func(t *testing.T) {
		first := ParticipationRate(7, 23)
		second := ParticipationRate(7, 23)
		assert.Equal(t, first, second)
	})
}

// TestBuildSectionStats covers the histogram to section-average folding.
func TestBuildSectionStats(t *testing.T) {
	t.Run("statement with ratings 1,1,5", func(t *testing.T) {
		rows := []models.StatementDistributionRow{
			{Section: "Course Effectiveness", StatementID: 1, Statement: "Syllabus coverage", Position: 1,
				Rating1: 2, Rating5: 1},
		}

		sections := BuildSectionStats(rows)

		assert.Len(t, sections, 1)
		st := sections[0].Statements[0]
		assert.Equal(t, int64(2), st.Rating1)
		assert.Equal(t, int64(1), st.Rating5)
		assert.Equal(t, int64(3), st.Total)
		assert.Equal(t, 2.33, st.Average)
		assert.Equal(t, "Needs Improvement", st.Status)
		assert.Equal(t, st.Total, st.Rating1+st.Rating2+st.Rating3+st.Rating4+st.Rating5)
	})

	t.Run("zero-rating statements report 0 and stay out of the denominator", func(t *testing.T) {
		rows := []models.StatementDistributionRow{
			{Section: "Teaching Effectiveness", StatementID: 1, Position: 1, Rating4: 1, Rating5: 1},
			{Section: "Teaching Effectiveness", StatementID: 2, Position: 2},
		}

		sections := BuildSectionStats(rows)

		assert.Len(t, sections, 1)
		assert.Equal(t, 0.0, sections[0].Statements[1].Average)
		// 4.5 alone, not (4.5+0)/2
		assert.Equal(t, 4.5, sections[0].Average)
		assert.Equal(t, "Excellent", sections[0].Status)
	})

	t.Run("section with no rated statements averages 0", func(t *testing.T) {
		rows := []models.StatementDistributionRow{
			{Section: "Resources", StatementID: 1, Position: 1},
			{Section: "Resources", StatementID: 2, Position: 2},
		}

		sections := BuildSectionStats(rows)

		assert.Equal(t, 0.0, sections[0].Average)
	})

	t.Run("section order follows input order", func(t *testing.T) {
		rows := []models.StatementDistributionRow{
			{Section: "Course Effectiveness", StatementID: 1, Position: 1, Rating5: 1},
			{Section: "Assessment", StatementID: 2, Position: 1, Rating3: 1},
		}

		sections := BuildSectionStats(rows)

		assert.Equal(t, "Course Effectiveness", sections[0].Name)
		assert.Equal(t, "Assessment", sections[1].Name)
	})
}

func TestCumulativeAverage(t *testing.T) {
	t.Run("mean of non-zero sections", func(t *testing.T) {
		sections := []SectionStats{
			{Average: 4.0},
			{Average: 0},
			{Average: 3.0},
		}
		assert.Equal(t, 3.5, CumulativeAverage(sections))
	})

	t.Run("all sections zero", func(t *testing.T) {
		sections := []SectionStats{{Average: 0}, {Average: 0}}
		assert.Equal(t, 0.0, CumulativeAverage(sections))
	})

	t.Run("no sections", func(t *testing.T) {
		assert.Equal(t, 0.0, CumulativeAverage(nil))
	})
}

// TestGetFeedbackReport tests the full aggregation path over mocks.
func TestGetFeedbackReport(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	sc := scope.Scope{HasAccess: true, AcademicYearID: 1, SubjectID: 7, Semester: 5, Section: "A"}

	t.Run("three of ten students rating everything 5", func(t *testing.T) {
		feedback := &mocks.MockFeedbackRepository{
			CountResponsesFunc: func(ctx context.Context, s scope.Scope) (int64, error) {
				assert.Equal(t, sc, s)
				return 3, nil
			},
			CountEligibleStudentsFunc: func(ctx context.Context, s scope.Scope) (int64, error) {
				return 10, nil
			},
			GetStatementDistributionsFunc: func(ctx context.Context, s scope.Scope) ([]models.StatementDistributionRow, error) {
				return []models.StatementDistributionRow{
					{Section: "Course Effectiveness", StatementID: 1, Position: 1, Rating5: 3},
					{Section: "Teaching Effectiveness", StatementID: 2, Position: 1, Rating5: 3},
				}, nil
			},
			GetResponseRowsFunc: func(ctx context.Context, s scope.Scope) ([]models.ResponseRow, error) {
				return []models.ResponseRow{
					{FeedbackID: 1, RollNumber: "21CS001", CumulativeAverage: 5.0},
					{FeedbackID: 2, RollNumber: "21CS002", CumulativeAverage: 5.0},
					{FeedbackID: 3, RollNumber: "21CS003", CumulativeAverage: 5.0},
				}, nil
			},
		}

		svc := NewReportService(feedback, &mocks.MockSurveyRepository{}, logger)
		rep, err := svc.GetFeedbackReport(ctx, sc)

		assert.NoError(t, err)
		assert.Equal(t, 30.00, rep.ParticipationRate)
		assert.Equal(t, int64(10), rep.TotalEligible)
		assert.Equal(t, int64(3), rep.ResponsesReceived)
		for _, sec := range rep.Sections {
			for _, st := range sec.Statements {
				assert.Equal(t, 5.00, st.Average)
			}
		}
		assert.Equal(t, 5.00, rep.CumulativeAverage)
		assert.Equal(t, "Excellent", rep.Status)
		assert.Len(t, rep.Responses, 3)
	})

	t.Run("no responses found", func(t *testing.T) {
		feedback := &mocks.MockFeedbackRepository{
			CountResponsesFunc: func(ctx context.Context, s scope.Scope) (int64, error) {
				return 0, nil
			},
		}

		svc := NewReportService(feedback, &mocks.MockSurveyRepository{}, logger)
		_, err := svc.GetFeedbackReport(ctx, sc)

		assert.ErrorIs(t, err, ErrNoRatings)
	})

	t.Run("storage failure", func(t *testing.T) {
		feedback := &mocks.MockFeedbackRepository{
			CountResponsesFunc: func(ctx context.Context, s scope.Scope) (int64, error) {
				return 0, errors.New("database connection failed")
			},
		}

		svc := NewReportService(feedback, &mocks.MockSurveyRepository{}, logger)
		_, err := svc.GetFeedbackReport(ctx, sc)

		assert.ErrorIs(t, err, ErrStorageFailure)
		assert.Contains(t, err.Error(), "database connection failed")
	})
}

// TestGetParticipationSummary tests the summary line computation.
func TestGetParticipationSummary(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	sc := scope.Scope{HasAccess: true, AcademicYearID: 1}

	t.Run("rates computed per line", func(t *testing.T) {
		feedback := &mocks.MockFeedbackRepository{
			GetSummaryRowsFunc: func(ctx context.Context, s scope.Scope) ([]models.SummaryRow, error) {
				return []models.SummaryRow{
					{DepartmentName: "CSE", Semester: 5, Section: "A", TotalStudents: 60, ResponsesReceived: 45},
					{DepartmentName: "ECE", Semester: 3, Section: "B", TotalStudents: 0, ResponsesReceived: 0},
				}, nil
			},
		}

		svc := NewReportService(feedback, &mocks.MockSurveyRepository{}, logger)
		lines, err := svc.GetParticipationSummary(ctx, sc)

		assert.NoError(t, err)
		assert.Len(t, lines, 2)
		assert.Equal(t, 75.00, lines[0].ParticipationRate)
		assert.Equal(t, 0.0, lines[1].ParticipationRate)
	})

	t.Run("no rows found", func(t *testing.T) {
		feedback := &mocks.MockFeedbackRepository{
			GetSummaryRowsFunc: func(ctx context.Context, s scope.Scope) ([]models.SummaryRow, error) {
				return nil, nil
			},
		}

		svc := NewReportService(feedback, &mocks.MockSurveyRepository{}, logger)
		_, err := svc.GetParticipationSummary(ctx, sc)

		assert.ErrorIs(t, err, ErrNoRatings)
	})
}
