package scope

import (
	"context"
	"errors"
	"testing"

	"github.com/aathifpm/feedback-reports/internal/repository/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type mockRepository struct {
	AcademicYearByIDFunc    func(ctx context.Context, id int64) (models.AcademicYear, error)
	CurrentAcademicYearFunc func(ctx context.Context) (models.AcademicYear, error)
	DepartmentOfFacultyFunc func(ctx context.Context, facultyID int64) (int64, error)
}

func (m *mockRepository) AcademicYearByID(ctx context.Context, id int64) (models.AcademicYear, error) {
	if m.AcademicYearByIDFunc != nil {
		return m.AcademicYearByIDFunc(ctx, id)
	}
	return models.AcademicYear{}, errors.New("AcademicYearByIDFunc not implemented")
}

func (m *mockRepository) CurrentAcademicYear(ctx context.Context) (models.AcademicYear, error) {
	if m.CurrentAcademicYearFunc != nil {
		return m.CurrentAcademicYearFunc(ctx)
	}
	return models.AcademicYear{}, errors.New("CurrentAcademicYearFunc not implemented")
}

func (m *mockRepository) DepartmentOfFaculty(ctx context.Context, facultyID int64) (int64, error) {
	if m.DepartmentOfFacultyFunc != nil {
		return m.DepartmentOfFacultyFunc(ctx, facultyID)
	}
	return 0, errors.New("DepartmentOfFacultyFunc not implemented")
}

func currentYear() models.AcademicYear {
	return models.AcademicYear{ID: 9, YearStart: 2025, YearEnd: 2026, IsCurrent: true}
}

func TestNewResolver(t *testing.T) {
	t.Run("nil storage panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewResolver(nil, zap.NewNop())
		})
	})

	t.Run("nil logger gets default", func(t *testing.T) {
		r := NewResolver(&mockRepository{}, nil)
		assert.NotNil(t, r)
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("admin keeps supplied filters", func(t *testing.T) {
		repo := &mockRepository{
			CurrentAcademicYearFunc: func(ctx context.Context) (models.AcademicYear, error) {
				return currentYear(), nil
			},
		}
		r := NewResolver(repo, logger)

		sc, err := r.Resolve(ctx, Requester{Role: RoleAdmin, UserID: 1}, Filter{
			DepartmentID: 4, Semester: 5, Section: "B",
		})

		assert.NoError(t, err)
		assert.True(t, sc.HasAccess)
		assert.Equal(t, int64(4), sc.DepartmentID)
		assert.Equal(t, int64(9), sc.AcademicYearID)
		assert.Equal(t, 5, sc.Semester)
		assert.Equal(t, "B", sc.Section)
	})

	t.Run("hod department is overridden silently", func(t *testing.T) {
		repo := &mockRepository{
			CurrentAcademicYearFunc: func(ctx context.Context) (models.AcademicYear, error) {
				return currentYear(), nil
			},
			DepartmentOfFacultyFunc: func(ctx context.Context, facultyID int64) (int64, error) {
				assert.Equal(t, int64(12), facultyID)
				return 2, nil
			},
		}
		r := NewResolver(repo, logger)

		sc, err := r.Resolve(ctx, Requester{Role: RoleHOD, UserID: 12}, Filter{DepartmentID: 4})

		assert.NoError(t, err)
		assert.True(t, sc.HasAccess)
		assert.Equal(t, int64(2), sc.DepartmentID)
	})

	t.Run("faculty gets own department when none supplied", func(t *testing.T) {
		repo := &mockRepository{
			CurrentAcademicYearFunc: func(ctx context.Context) (models.AcademicYear, error) {
				return currentYear(), nil
			},
			DepartmentOfFacultyFunc: func(ctx context.Context, facultyID int64) (int64, error) {
				return 7, nil
			},
		}
		r := NewResolver(repo, logger)

		sc, err := r.Resolve(ctx, Requester{Role: RoleFaculty, UserID: 3}, Filter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(7), sc.DepartmentID)
	})

	t.Run("student has no report access", func(t *testing.T) {
		r := NewResolver(&mockRepository{}, logger)

		sc, err := r.Resolve(ctx, Requester{Role: RoleStudent, UserID: 42}, Filter{})

		assert.NoError(t, err)
		assert.False(t, sc.HasAccess)
	})

	t.Run("explicit academic year is validated", func(t *testing.T) {
		repo := &mockRepository{
			AcademicYearByIDFunc: func(ctx context.Context, id int64) (models.AcademicYear, error) {
				assert.Equal(t, int64(5), id)
				return models.AcademicYear{ID: 5, YearStart: 2023, YearEnd: 2024}, nil
			},
		}
		r := NewResolver(repo, logger)

		sc, err := r.Resolve(ctx, Requester{Role: RoleAdmin, UserID: 1}, Filter{AcademicYearID: 5})

		assert.NoError(t, err)
		assert.Equal(t, int64(5), sc.AcademicYearID)
	})

	t.Run("no academic year at all is fatal", func(t *testing.T) {
		repo := &mockRepository{
			CurrentAcademicYearFunc: func(ctx context.Context) (models.AcademicYear, error) {
				return models.AcademicYear{}, ErrNoAcademicYear
			},
		}
		r := NewResolver(repo, logger)

		_, err := r.Resolve(ctx, Requester{Role: RoleAdmin, UserID: 1}, Filter{})

		assert.ErrorIs(t, err, ErrNoAcademicYear)
	})

	t.Run("department lookup failure wraps storage error", func(t *testing.T) {
		repo := &mockRepository{
			DepartmentOfFacultyFunc: func(ctx context.Context, facultyID int64) (int64, error) {
				return 0, errors.New("connection lost")
			},
		}
		r := NewResolver(repo, logger)

		_, err := r.Resolve(ctx, Requester{Role: RoleFaculty, UserID: 3}, Filter{})

		assert.ErrorIs(t, err, ErrStorageFailure)
		assert.Contains(t, err.Error(), "connection lost")
	})
}
