package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aathifpm/feedback-reports/internal/repository/models"
)

// SurveyRepository reads exit-survey and non-academic-feedback rows. Both
// tables store their rating groups as one JSON blob per row; the blob is
// returned raw and parsed defensively upstream.
type SurveyRepository struct {
	db *sql.DB
}

func NewSurveyRepository(db *sql.DB) *SurveyRepository {
	return &SurveyRepository{db: db}
}

func (s *SurveyRepository) GetExitSurveys(ctx context.Context, academicYearID int64) ([]models.SurveyRow, error) {
	const query = `
		SELECT
			es.id,
			st.roll_number,
			st.name,
			COALESCE(es.employment_status, ''),
			COALESCE(es.company_name, ''),
			COALESCE(es.institution_name, ''),
			es.ratings,
			COALESCE(es.comments, ''),
			es.submitted_at
		FROM exit_surveys es
		JOIN students st ON es.student_id = st.id
		WHERE es.academic_year_id = ?
		ORDER BY st.roll_number
	`

	rows, err := s.db.QueryContext(ctx, query, academicYearID)
	if err != nil {
		return nil, fmt.Errorf("query GetExitSurveys: %w", err)
	}
	defer rows.Close()

	return scanSurveyRows(rows, "GetExitSurveys")
}

func (s *SurveyRepository) GetNonAcademicFeedback(ctx context.Context, academicYearID int64) ([]models.SurveyRow, error) {
	const query = `
		SELECT
			naf.id,
			st.roll_number,
			st.name,
			'',
			'',
			'',
			naf.ratings,
			COALESCE(naf.comments, ''),
			naf.submitted_at
		FROM non_academic_feedback naf
		JOIN students st ON naf.student_id = st.id
		WHERE naf.academic_year_id = ?
		ORDER BY st.roll_number
	`

	rows, err := s.db.QueryContext(ctx, query, academicYearID)
	if err != nil {
		return nil, fmt.Errorf("query GetNonAcademicFeedback: %w", err)
	}
	defer rows.Close()

	return scanSurveyRows(rows, "GetNonAcademicFeedback")
}

func scanSurveyRows(rows *sql.Rows, op string) ([]models.SurveyRow, error) {
	var results []models.SurveyRow
	for rows.Next() {
		var r models.SurveyRow
		if err := rows.Scan(&r.ID, &r.RollNumber, &r.StudentName,
			&r.EmploymentStatus, &r.CompanyName, &r.InstitutionName,
			&r.Ratings, &r.Comments, &r.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", op, err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", op, err)
	}
	return results, nil
}
