package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/aathifpm/feedback-reports/internal/repository/models"
	"github.com/aathifpm/feedback-reports/internal/scope"
)

// FeedbackRepository issues the read-only grouped queries behind course
// feedback reports. All rating arithmetic on raw buckets happens in the
// service layer; SQL only groups and counts.
type FeedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// assignmentConditions renders the scope as WHERE clauses over the
// subject_assignments (sa) and subjects (sub) aliases.
func assignmentConditions(s scope.Scope) (string, []any) {
	conds := []string{"sa.academic_year_id = ?"}
	args := []any{s.AcademicYearID}

	if s.DepartmentID != 0 {
		conds = append(conds, "sub.department_id = ?")
		args = append(args, s.DepartmentID)
	}
	if s.SubjectID != 0 {
		conds = append(conds, "sa.subject_id = ?")
		args = append(args, s.SubjectID)
	}
	if s.FacultyID != 0 {
		conds = append(conds, "sa.faculty_id = ?")
		args = append(args, s.FacultyID)
	}
	if s.Semester != 0 {
		conds = append(conds, "sa.semester = ?")
		args = append(args, s.Semester)
	}
	if s.Section != "" {
		conds = append(conds, "sa.section = ?")
		args = append(args, s.Section)
	}

	return strings.Join(conds, " AND "), args
}

// GetStatementDistributions returns the 1..5 rating histogram per active
// statement. Statements with no ratings in scope still come back, with all
// buckets zero.
func (s *FeedbackRepository) GetStatementDistributions(ctx context.Context, sc scope.Scope) ([]models.StatementDistributionRow, error) {
	where, args := assignmentConditions(sc)
	query := fmt.Sprintf(`
		SELECT
			fs.section,
			fs.id,
			fs.statement,
			fs.position,
			COALESCE(SUM(CASE WHEN r.rating = 1 THEN 1 ELSE 0 END), 0) AS rating_1,
			COALESCE(SUM(CASE WHEN r.rating = 2 THEN 1 ELSE 0 END), 0) AS rating_2,
			COALESCE(SUM(CASE WHEN r.rating = 3 THEN 1 ELSE 0 END), 0) AS rating_3,
			COALESCE(SUM(CASE WHEN r.rating = 4 THEN 1 ELSE 0 END), 0) AS rating_4,
			COALESCE(SUM(CASE WHEN r.rating = 5 THEN 1 ELSE 0 END), 0) AS rating_5
		FROM feedback_statements fs
		LEFT JOIN (
			SELECT fr.statement_id, fr.rating
			FROM feedback_ratings fr
			JOIN feedback f ON fr.feedback_id = f.id
			JOIN subject_assignments sa ON f.assignment_id = sa.id
			JOIN subjects sub ON sa.subject_id = sub.id
			WHERE %s
		) r ON r.statement_id = fs.id
		WHERE fs.is_active = 1
		GROUP BY fs.section, fs.id, fs.statement, fs.position
		ORDER BY fs.section, fs.position
	`, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query GetStatementDistributions: %w", err)
	}
	defer rows.Close()

	var results []models.StatementDistributionRow
	for rows.Next() {
		var r models.StatementDistributionRow
		if err := rows.Scan(&r.Section, &r.StatementID, &r.Statement, &r.Position,
			&r.Rating1, &r.Rating2, &r.Rating3, &r.Rating4, &r.Rating5); err != nil {
			return nil, fmt.Errorf("scan GetStatementDistributions row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate GetStatementDistributions: %w", err)
	}
	return results, nil
}

// GetResponseRows returns the individual submitted responses in scope with
// their precomputed section averages.
func (s *FeedbackRepository) GetResponseRows(ctx context.Context, sc scope.Scope) ([]models.ResponseRow, error) {
	where, args := assignmentConditions(sc)
	query := fmt.Sprintf(`
		SELECT
			f.id,
			st.name,
			st.roll_number,
			f.course_effectiveness_avg,
			f.teaching_effectiveness_avg,
			f.resources_avg,
			f.assessment_avg,
			f.outcomes_avg,
			f.cumulative_avg,
			COALESCE(f.comments, ''),
			f.submitted_at
		FROM feedback f
		JOIN students st ON f.student_id = st.id
		JOIN subject_assignments sa ON f.assignment_id = sa.id
		JOIN subjects sub ON sa.subject_id = sub.id
		WHERE %s
		ORDER BY st.roll_number
	`, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query GetResponseRows: %w", err)
	}
	defer rows.Close()

	var results []models.ResponseRow
	for rows.Next() {
		var r models.ResponseRow
		if err := rows.Scan(&r.FeedbackID, &r.StudentName, &r.RollNumber,
			&r.CourseEffectiveness, &r.TeachingEffectiveness, &r.ResourcesSupport,
			&r.AssessmentLearning, &r.CourseOutcomes, &r.CumulativeAverage,
			&r.Comments, &r.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan GetResponseRows row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate GetResponseRows: %w", err)
	}
	return results, nil
}

// CountEligibleStudents counts the students who should have submitted in the
// scope, whether or not they did. The count comes from section membership
// alone so non-submitters stay in the participation denominator.
func (s *FeedbackRepository) CountEligibleStudents(ctx context.Context, sc scope.Scope) (int64, error) {
	conds := []string{"1 = 1"}
	args := []any{}

	if sc.DepartmentID != 0 {
		conds = append(conds, "st.department_id = ?")
		args = append(args, sc.DepartmentID)
	}
	if sc.Semester != 0 {
		conds = append(conds, "st.current_semester = ?")
		args = append(args, sc.Semester)
	}
	if sc.Section != "" {
		conds = append(conds, "st.section = ?")
		args = append(args, sc.Section)
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM students st WHERE %s`, strings.Join(conds, " AND "))

	var count sql.NullInt64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("query CountEligibleStudents: %w", err)
	}
	if !count.Valid {
		return 0, nil
	}
	return count.Int64, nil
}

// CountResponses counts the distinct students who submitted in the scope.
// Students submit one feedback row per subject assignment, so counting rows
// would overstate participation whenever the scope spans several subjects.
func (s *FeedbackRepository) CountResponses(ctx context.Context, sc scope.Scope) (int64, error) {
	where, args := assignmentConditions(sc)
	query := fmt.Sprintf(`
		SELECT COUNT(DISTINCT f.student_id)
		FROM feedback f
		JOIN subject_assignments sa ON f.assignment_id = sa.id
		JOIN subjects sub ON sa.subject_id = sub.id
		WHERE %s
	`, where)

	var count sql.NullInt64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("query CountResponses: %w", err)
	}
	if !count.Valid {
		return 0, nil
	}
	return count.Int64, nil
}

// GetSummaryRows returns one participation line per department x semester x
// section for the scoped academic year. Responses are counted per student,
// matching CountResponses.
func (s *FeedbackRepository) GetSummaryRows(ctx context.Context, sc scope.Scope) ([]models.SummaryRow, error) {
	conds := []string{"sa.academic_year_id = ?"}
	args := []any{sc.AcademicYearID}
	if sc.DepartmentID != 0 {
		conds = append(conds, "d.id = ?")
		args = append(args, sc.DepartmentID)
	}

	query := fmt.Sprintf(`
		SELECT
			d.id,
			d.name,
			sa.semester,
			sa.section,
			(
				SELECT COUNT(*)
				FROM students st
				WHERE st.department_id = d.id
				  AND st.current_semester = sa.semester
				  AND st.section = sa.section
			) AS total_students,
			COUNT(DISTINCT f.student_id) AS responses_received
		FROM subject_assignments sa
		JOIN subjects sub ON sa.subject_id = sub.id
		JOIN departments d ON sub.department_id = d.id
		LEFT JOIN feedback f ON f.assignment_id = sa.id
		WHERE %s
		GROUP BY d.id, d.name, sa.semester, sa.section
		ORDER BY d.name, sa.semester, sa.section
	`, strings.Join(conds, " AND "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query GetSummaryRows: %w", err)
	}
	defer rows.Close()

	var results []models.SummaryRow
	for rows.Next() {
		var r models.SummaryRow
		if err := rows.Scan(&r.DepartmentID, &r.DepartmentName, &r.Semester, &r.Section,
			&r.TotalStudents, &r.ResponsesReceived); err != nil {
			return nil, fmt.Errorf("scan GetSummaryRows row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate GetSummaryRows: %w", err)
	}
	return results, nil
}
