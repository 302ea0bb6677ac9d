package scope

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aathifpm/feedback-reports/internal/repository/models"
	"go.uber.org/zap"
)

const dbTimeout = 1 * time.Second

var (
	ErrNoAcademicYear = errors.New("no academic year configured")
	ErrStorageFailure = errors.New("storage failure")
)

// Role is the caller's role as carried by the session token.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleHOD     Role = "hod"
	RoleFaculty Role = "faculty"
	RoleStudent Role = "student"
)

// Requester identifies the authenticated caller of a report endpoint.
type Requester struct {
	Role   Role
	UserID int64
}

// Filter holds the raw, unauthorized filters supplied on the request.
// Zero values mean "not supplied".
type Filter struct {
	AcademicYearID int64
	DepartmentID   int64
	SubjectID      int64
	FacultyID      int64
	Semester       int
	Section        string
}

// Scope is a fully resolved, authorized query scope. Callers must refuse to
// run any query when HasAccess is false.
type Scope struct {
	HasAccess      bool
	AcademicYearID int64
	DepartmentID   int64
	SubjectID      int64
	FacultyID      int64
	Semester       int
	Section        string
}

// Repository defines the lookups the resolver needs.
type Repository interface {
	AcademicYearByID(ctx context.Context, id int64) (models.AcademicYear, error)
	CurrentAcademicYear(ctx context.Context) (models.AcademicYear, error)
	DepartmentOfFaculty(ctx context.Context, facultyID int64) (int64, error)
}

// Resolver translates caller role plus request filters into an authorized
// query scope.
type Resolver struct {
	storage Repository
	logger  *zap.Logger
}

func NewResolver(storage Repository, logger *zap.Logger) *Resolver {
	if storage == nil {
		panic("storage must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{storage: storage, logger: logger}
}

// Resolve builds the authorized scope for the caller. HOD and faculty
// callers are pinned to their own department: a filter naming a different
// department is overridden silently, not rejected. Students get no report
// access at all.
func (r *Resolver) Resolve(ctx context.Context, req Requester, f Filter) (Scope, error) {
	s := Scope{
		DepartmentID: f.DepartmentID,
		SubjectID:    f.SubjectID,
		FacultyID:    f.FacultyID,
		Semester:     f.Semester,
		Section:      f.Section,
	}

	switch req.Role {
	case RoleAdmin:
		s.HasAccess = true
	case RoleHOD, RoleFaculty:
		dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
		defer cancel()

		deptID, err := r.storage.DepartmentOfFaculty(dbCtx, req.UserID)
		if err != nil {
			return Scope{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
		}
		if f.DepartmentID != 0 && f.DepartmentID != deptID {
			r.logger.Info("overriding requested department with caller's own",
				zap.Int64("requested", f.DepartmentID),
				zap.Int64("own", deptID),
				zap.Int64("user_id", req.UserID))
		}
		s.DepartmentID = deptID
		s.HasAccess = true
	default:
		return Scope{HasAccess: false}, nil
	}

	yearID, err := r.resolveAcademicYear(ctx, f.AcademicYearID)
	if err != nil {
		return Scope{}, err
	}
	s.AcademicYearID = yearID

	return s, nil
}

// resolveAcademicYear validates an explicit year id, or falls back to the
// current year. Reports cannot be scoped without one, so a missing year is
// fatal.
func (r *Resolver) resolveAcademicYear(ctx context.Context, id int64) (int64, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if id != 0 {
		year, err := r.storage.AcademicYearByID(dbCtx, id)
		if err != nil {
			if errors.Is(err, ErrNoAcademicYear) {
				return 0, ErrNoAcademicYear
			}
			return 0, fmt.Errorf("%w: %v", ErrStorageFailure, err)
		}
		return year.ID, nil
	}

	year, err := r.storage.CurrentAcademicYear(dbCtx)
	if err != nil {
		if errors.Is(err, ErrNoAcademicYear) {
			return 0, ErrNoAcademicYear
		}
		return 0, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return year.ID, nil
}
