package service

import "time"

// StatementStats is the rating histogram and average for one questionnaire
// statement. The five buckets always sum to Total.
type StatementStats struct {
	StatementID int64   `json:"statement_id"`
	Statement   string  `json:"statement"`
	Position    int     `json:"position"`
	Rating1     int64   `json:"rating_1"`
	Rating2     int64   `json:"rating_2"`
	Rating3     int64   `json:"rating_3"`
	Rating4     int64   `json:"rating_4"`
	Rating5     int64   `json:"rating_5"`
	Total       int64   `json:"total"`
	Average     float64 `json:"average"`
	Status      string  `json:"status"`
}

// SectionStats groups statement stats under one questionnaire section. The
// Average covers only statements with at least one rating.
type SectionStats struct {
	Name       string           `json:"name"`
	Statements []StatementStats `json:"statements"`
	Average    float64          `json:"average"`
	Status     string           `json:"status"`
}

// StudentResponse is one submitted feedback response with its precomputed
// section averages, as shown on detail pages.
type StudentResponse struct {
	RollNumber            string    `json:"roll_number"`
	StudentName           string    `json:"student_name"`
	CourseEffectiveness   float64   `json:"course_effectiveness"`
	TeachingEffectiveness float64   `json:"teaching_effectiveness"`
	ResourcesSupport      float64   `json:"resources_support"`
	AssessmentLearning    float64   `json:"assessment_learning"`
	CourseOutcomes        float64   `json:"course_outcomes"`
	CumulativeAverage     float64   `json:"cumulative_average"`
	Comments              string    `json:"comments"`
	SubmittedAt           time.Time `json:"submitted_at"`
}

// FeedbackReport is the full aggregation for one scope.
type FeedbackReport struct {
	Sections          []SectionStats    `json:"sections"`
	CumulativeAverage float64           `json:"cumulative_average"`
	Status            string            `json:"status"`
	TotalEligible     int64             `json:"total_eligible"`
	ResponsesReceived int64             `json:"responses_received"`
	ParticipationRate float64           `json:"participation_rate"`
	Responses         []StudentResponse `json:"responses"`
}

// ParticipationLine is one department x semester x section summary row.
type ParticipationLine struct {
	DepartmentName    string  `json:"department_name"`
	Semester          int     `json:"semester"`
	Section           string  `json:"section"`
	TotalStudents     int64   `json:"total_students"`
	ResponsesReceived int64   `json:"responses_received"`
	ParticipationRate float64 `json:"participation_rate"`
}

// ItemStats is one rated item inside a survey rating group.
type ItemStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
	Status  string  `json:"status"`
}

// RatingGroupStats aggregates one named rating group of a survey blob.
type RatingGroupStats struct {
	Group   string      `json:"group"`
	Items   []ItemStats `json:"items"`
	Average float64     `json:"average"`
	Status  string      `json:"status"`
}

// NameCount is one merged employer/institution bucket after fuzzy matching.
type NameCount struct {
	Name     string   `json:"name"`
	Count    int      `json:"count"`
	Variants []string `json:"variants"`
}

// ExitSurveyReport is the aggregated exit survey for one academic year.
type ExitSurveyReport struct {
	TotalResponses  int                `json:"total_responses"`
	SkippedRecords  int                `json:"skipped_records"`
	Groups          []RatingGroupStats `json:"groups"`
	OverallAverage  float64            `json:"overall_average"`
	Status          string             `json:"status"`
	TopEmployers    []NameCount        `json:"top_employers"`
	TopInstitutions []NameCount        `json:"top_institutions"`
}

// NonAcademicReport is the aggregated non-academic feedback for one
// academic year.
type NonAcademicReport struct {
	TotalResponses int                `json:"total_responses"`
	SkippedRecords int                `json:"skipped_records"`
	Groups         []RatingGroupStats `json:"groups"`
	OverallAverage float64            `json:"overall_average"`
	Status         string             `json:"status"`
}
