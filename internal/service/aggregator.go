package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aathifpm/feedback-reports/internal/repository/models"
	"github.com/aathifpm/feedback-reports/internal/scope"
	"go.uber.org/zap"
)

const (
	dbTimeout = 1 * time.Second
)

var (
	ErrNoRatings      = errors.New("no ratings found")
	ErrStorageFailure = errors.New("storage failure")
)

// ReportService handles feedback aggregation and report statistics.
type ReportService struct {
	feedback FeedbackRepository
	surveys  SurveyRepository
	logger   *zap.Logger
}

// NewReportService creates a new ReportService instance.
func NewReportService(feedback FeedbackRepository, surveys SurveyRepository, logger *zap.Logger) *ReportService {
	if feedback == nil {
		panic("feedback repository must not be nil")
	}
	if surveys == nil {
		panic("survey repository must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &ReportService{
		feedback: feedback,
		surveys:  surveys,
		logger:   logger,
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// RatingStatus maps a numeric average onto the qualitative scale printed in
// every report legend.
func RatingStatus(avg float64) string {
	switch {
	case avg >= 4.5:
		return "Excellent"
	case avg >= 4.0:
		return "Very Good"
	case avg >= 3.5:
		return "Good"
	case avg >= 3.0:
		return "Satisfactory"
	default:
		return "Needs Improvement"
	}
}

// ParticipationRate returns received/eligible as a percentage rounded to two
// decimals. A scope with no eligible students reports 0.
func ParticipationRate(received, eligible int64) float64 {
	if eligible <= 0 {
		return 0
	}
	return round2(float64(received) / float64(eligible) * 100)
}

// BuildSectionStats folds per-statement rating histograms into per-section
// statistics. Statements with zero ratings report an average of exactly 0
// and are excluded from their section's denominator. Input rows are assumed
// ordered by (section, position); section order is preserved.
func BuildSectionStats(rows []models.StatementDistributionRow) []SectionStats {
	var sections []SectionStats
	index := make(map[string]int)

	for _, r := range rows {
		i, ok := index[r.Section]
		if !ok {
			i = len(sections)
			index[r.Section] = i
			sections = append(sections, SectionStats{Name: r.Section})
		}

		total := r.Rating1 + r.Rating2 + r.Rating3 + r.Rating4 + r.Rating5
		var avg float64
		if total > 0 {
			sum := r.Rating1*1 + r.Rating2*2 + r.Rating3*3 + r.Rating4*4 + r.Rating5*5
			avg = round2(float64(sum) / float64(total))
		}

		sections[i].Statements = append(sections[i].Statements, StatementStats{
			StatementID: r.StatementID,
			Statement:   r.Statement,
			Position:    r.Position,
			Rating1:     r.Rating1,
			Rating2:     r.Rating2,
			Rating3:     r.Rating3,
			Rating4:     r.Rating4,
			Rating5:     r.Rating5,
			Total:       total,
			Average:     avg,
			Status:      RatingStatus(avg),
		})
	}

	for i := range sections {
		var sum float64
		var rated int
		for _, st := range sections[i].Statements {
			if st.Total > 0 {
				sum += st.Average
				rated++
			}
		}
		if rated > 0 {
			sections[i].Average = round2(sum / float64(rated))
		}
		sections[i].Status = RatingStatus(sections[i].Average)
	}

	return sections
}

// CumulativeAverage is the mean of the non-zero section averages, rounded to
// two decimals. All-zero sections yield 0 rather than a division by zero.
func CumulativeAverage(sections []SectionStats) float64 {
	var sum float64
	var n int
	for _, s := range sections {
		if s.Average > 0 {
			sum += s.Average
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return round2(sum / float64(n))
}

// GetFeedbackReport aggregates all course feedback matching the scope into
// one report structure.
func (s *ReportService) GetFeedbackReport(ctx context.Context, sc scope.Scope) (FeedbackReport, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	received, err := s.feedback.CountResponses(dbCtx, sc)
	if err != nil {
		return FeedbackReport{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if received == 0 {
		return FeedbackReport{}, ErrNoRatings
	}

	eligible, err := s.feedback.CountEligibleStudents(dbCtx, sc)
	if err != nil {
		return FeedbackReport{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	distRows, err := s.feedback.GetStatementDistributions(dbCtx, sc)
	if err != nil {
		return FeedbackReport{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	respRows, err := s.feedback.GetResponseRows(dbCtx, sc)
	if err != nil {
		return FeedbackReport{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	sections := BuildSectionStats(distRows)
	cumulative := CumulativeAverage(sections)

	responses := make([]StudentResponse, 0, len(respRows))
	for _, r := range respRows {
		responses = append(responses, StudentResponse{
			RollNumber:            r.RollNumber,
			StudentName:           r.StudentName,
			CourseEffectiveness:   r.CourseEffectiveness,
			TeachingEffectiveness: r.TeachingEffectiveness,
			ResourcesSupport:      r.ResourcesSupport,
			AssessmentLearning:    r.AssessmentLearning,
			CourseOutcomes:        r.CourseOutcomes,
			CumulativeAverage:     r.CumulativeAverage,
			Comments:              r.Comments,
			SubmittedAt:           r.SubmittedAt,
		})
	}

	report := FeedbackReport{
		Sections:          sections,
		CumulativeAverage: cumulative,
		Status:            RatingStatus(cumulative),
		TotalEligible:     eligible,
		ResponsesReceived: received,
		ParticipationRate: ParticipationRate(received, eligible),
		Responses:         responses,
	}

	s.logger.Info("built feedback report",
		zap.Int64("responses", received),
		zap.Int64("eligible", eligible),
		zap.Float64("cumulative", cumulative))

	return report, nil
}

// GetParticipationSummary returns one participation line per department x
// semester x section in the scope.
func (s *ReportService) GetParticipationSummary(ctx context.Context, sc scope.Scope) ([]ParticipationLine, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.feedback.GetSummaryRows(dbCtx, sc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoRatings
	}

	lines := make([]ParticipationLine, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, ParticipationLine{
			DepartmentName:    r.DepartmentName,
			Semester:          r.Semester,
			Section:           r.Section,
			TotalStudents:     r.TotalStudents,
			ResponsesReceived: r.ResponsesReceived,
			ParticipationRate: ParticipationRate(r.ResponsesReceived, r.TotalStudents),
		})
	}

	return lines, nil
}
