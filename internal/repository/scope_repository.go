package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aathifpm/feedback-reports/internal/repository/models"
	"github.com/aathifpm/feedback-reports/internal/scope"
)

// ScopeRepository serves the lookups needed to authorize and scope a report
// request.
type ScopeRepository struct {
	db *sql.DB
}

func NewScopeRepository(db *sql.DB) *ScopeRepository {
	return &ScopeRepository{db: db}
}

func (s *ScopeRepository) AcademicYearByID(ctx context.Context, id int64) (models.AcademicYear, error) {
	const query = `
		SELECT id, year_start, year_end, is_current
		FROM academic_years
		WHERE id = ?
	`

	var year models.AcademicYear
	err := s.db.QueryRowContext(ctx, query, id).Scan(&year.ID, &year.YearStart, &year.YearEnd, &year.IsCurrent)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.AcademicYear{}, scope.ErrNoAcademicYear
		}
		return models.AcademicYear{}, fmt.Errorf("query AcademicYearByID: %w", err)
	}
	return year, nil
}

// CurrentAcademicYear returns the row flagged current, falling back to the
// most recent year when nothing is flagged.
func (s *ScopeRepository) CurrentAcademicYear(ctx context.Context) (models.AcademicYear, error) {
	const query = `
		SELECT id, year_start, year_end, is_current
		FROM academic_years
		ORDER BY is_current DESC, year_start DESC
		LIMIT 1
	`

	var year models.AcademicYear
	err := s.db.QueryRowContext(ctx, query).Scan(&year.ID, &year.YearStart, &year.YearEnd, &year.IsCurrent)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.AcademicYear{}, scope.ErrNoAcademicYear
		}
		return models.AcademicYear{}, fmt.Errorf("query CurrentAcademicYear: %w", err)
	}
	return year, nil
}

func (s *ScopeRepository) DepartmentOfFaculty(ctx context.Context, facultyID int64) (int64, error) {
	const query = `
		SELECT department_id
		FROM faculty
		WHERE id = ?
	`

	var deptID int64
	err := s.db.QueryRowContext(ctx, query, facultyID).Scan(&deptID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("faculty %d not found", facultyID)
		}
		return 0, fmt.Errorf("query DepartmentOfFaculty: %w", err)
	}
	return deptID, nil
}
