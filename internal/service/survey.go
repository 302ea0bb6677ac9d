package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aathifpm/feedback-reports/internal/repository/models"
	"github.com/aathifpm/feedback-reports/internal/scope"
	"go.uber.org/zap"
)

const topNameBuckets = 10

// parseRatingBlob decodes a survey rating blob of the shape
// {"group": {"item": value, ...}, ...}. Blobs written by older batches of
// the upstream application are occasionally truncated or hand-edited, so a
// decode failure is a per-record condition, not a report failure.
func parseRatingBlob(blob []byte) (map[string]map[string]float64, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("empty rating blob")
	}
	var groups map[string]map[string]float64
	if err := json.Unmarshal(blob, &groups); err != nil {
		return nil, fmt.Errorf("decode rating blob: %w", err)
	}
	return groups, nil
}

// aggregateBlobRows folds survey rating blobs into per-group item averages.
// Malformed rows are skipped entirely and reported by ID so callers can
// exclude every part of them, names included, from the report.
func (s *ReportService) aggregateBlobRows(rows []models.SurveyRow) ([]RatingGroupStats, map[int64]bool) {
	type itemAcc struct {
		sum   float64
		count int64
	}
	acc := make(map[string]map[string]*itemAcc)
	skipped := make(map[int64]bool)

	for _, row := range rows {
		groups, err := parseRatingBlob(row.Ratings)
		if err != nil {
			skipped[row.ID] = true
			s.logger.Warn("skipping survey record with malformed ratings",
				zap.Int64("record_id", row.ID),
				zap.Error(err))
			continue
		}

		for group, items := range groups {
			if acc[group] == nil {
				acc[group] = make(map[string]*itemAcc)
			}
			for item, value := range items {
				a := acc[group][item]
				if a == nil {
					a = &itemAcc{}
					acc[group][item] = a
				}
				a.sum += value
				a.count++
			}
		}
	}

	groupNames := make([]string, 0, len(acc))
	for name := range acc {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	results := make([]RatingGroupStats, 0, len(groupNames))
	for _, group := range groupNames {
		itemNames := make([]string, 0, len(acc[group]))
		for name := range acc[group] {
			itemNames = append(itemNames, name)
		}
		sort.Strings(itemNames)

		g := RatingGroupStats{Group: group}
		var sum float64
		var rated int
		for _, item := range itemNames {
			a := acc[group][item]
			var avg float64
			if a.count > 0 {
				avg = round2(a.sum / float64(a.count))
			}
			g.Items = append(g.Items, ItemStats{
				Name:    item,
				Count:   a.count,
				Average: avg,
				Status:  RatingStatus(avg),
			})
			if avg > 0 {
				sum += avg
				rated++
			}
		}
		if rated > 0 {
			g.Average = round2(sum / float64(rated))
		}
		g.Status = RatingStatus(g.Average)
		results = append(results, g)
	}

	return results, skipped
}

func overallGroupAverage(groups []RatingGroupStats) float64 {
	var sum float64
	var n int
	for _, g := range groups {
		if g.Average > 0 {
			sum += g.Average
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return round2(sum / float64(n))
}

// GetExitSurveyReport aggregates the exit surveys of the scoped academic
// year, including the merged top employer and institution rankings.
func (s *ReportService) GetExitSurveyReport(ctx context.Context, sc scope.Scope) (ExitSurveyReport, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.surveys.GetExitSurveys(dbCtx, sc.AcademicYearID)
	if err != nil {
		return ExitSurveyReport{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if len(rows) == 0 {
		return ExitSurveyReport{}, ErrNoRatings
	}

	groups, skipped := s.aggregateBlobRows(rows)
	overall := overallGroupAverage(groups)

	// A skipped row contributes nothing, so its employer and institution
	// stay out of the rankings too.
	var employers, institutions []string
	for _, r := range rows {
		if skipped[r.ID] {
			continue
		}
		if r.CompanyName != "" {
			employers = append(employers, r.CompanyName)
		}
		if r.InstitutionName != "" {
			institutions = append(institutions, r.InstitutionName)
		}
	}

	report := ExitSurveyReport{
		TotalResponses:  len(rows) - len(skipped),
		SkippedRecords:  len(skipped),
		Groups:          groups,
		OverallAverage:  overall,
		Status:          RatingStatus(overall),
		TopEmployers:    MergeNameCounts(employers, topNameBuckets),
		TopInstitutions: MergeNameCounts(institutions, topNameBuckets),
	}

	s.logger.Info("built exit survey report",
		zap.Int("responses", report.TotalResponses),
		zap.Int("skipped", report.SkippedRecords),
		zap.Float64("overall", overall))

	return report, nil
}

// GetNonAcademicReport aggregates the non-academic feedback of the scoped
// academic year.
func (s *ReportService) GetNonAcademicReport(ctx context.Context, sc scope.Scope) (NonAcademicReport, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.surveys.GetNonAcademicFeedback(dbCtx, sc.AcademicYearID)
	if err != nil {
		return NonAcademicReport{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if len(rows) == 0 {
		return NonAcademicReport{}, ErrNoRatings
	}

	groups, skipped := s.aggregateBlobRows(rows)
	overall := overallGroupAverage(groups)

	return NonAcademicReport{
		TotalResponses: len(rows) - len(skipped),
		SkippedRecords: len(skipped),
		Groups:         groups,
		OverallAverage: overall,
		Status:         RatingStatus(overall),
	}, nil
}
