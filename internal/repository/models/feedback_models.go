package models

import "time"

// AcademicYear mirrors one row of the shared academic_years table. Exactly
// one row is flagged current at any time.
type AcademicYear struct {
	ID        int64
	YearStart int
	YearEnd   int
	IsCurrent bool
}

// StatementDistributionRow carries the SQL-side rating histogram for one
// questionnaire statement within one report scope.
type StatementDistributionRow struct {
	Section     string
	StatementID int64
	Statement   string
	Position    int
	Rating1     int64
	Rating2     int64
	Rating3     int64
	Rating4     int64
	Rating5     int64
}

// ResponseRow is one submitted feedback response with its precomputed
// section averages.
type ResponseRow struct {
	FeedbackID            int64
	StudentName           string
	RollNumber            string
	CourseEffectiveness   float64
	TeachingEffectiveness float64
	ResourcesSupport      float64
	AssessmentLearning    float64
	CourseOutcomes        float64
	CumulativeAverage     float64
	Comments              string
	SubmittedAt           time.Time
}

// SummaryRow is one department x semester x section participation line.
type SummaryRow struct {
	DepartmentID      int64
	DepartmentName    string
	Semester          int
	Section           string
	TotalStudents     int64
	ResponsesReceived int64
}

// SurveyRow is one exit-survey or non-academic-feedback submission. The
// rating groups arrive as a raw JSON blob; parsing happens in the service
// layer because blobs from older batches are occasionally malformed.
type SurveyRow struct {
	ID               int64
	RollNumber       string
	StudentName      string
	EmploymentStatus string
	CompanyName      string
	InstitutionName  string
	Ratings          []byte
	Comments         string
	SubmittedAt      time.Time
}
