package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aathifpm/feedback-reports/internal/report"
)

func TestFilename(t *testing.T) {
	date := time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		ext      string
		parts    []string
		expected string
	}{
		{
			name:     "plain parts",
			ext:      "pdf",
			parts:    []string{"feedback", "dept1", "sem5"},
			expected: "feedback_dept1_sem5_2026-08-29.pdf",
		},
		{
			name:     "spaces and case are normalized",
			ext:      "xlsx",
			parts:    []string{"Section Report", "Sec A"},
			expected: "section_report_sec_a_2026-08-29.xlsx",
		},
		{
			name:     "unsafe characters are dropped",
			ext:      "pdf",
			parts:    []string{"exit/survey?", "B.E (CSE)"},
			expected: "exitsurvey_be_cse_2026-08-29.pdf",
		},
		{
			name:     "empty parts vanish",
			ext:      "pdf",
			parts:    []string{"", "participation", "   "},
			expected: "participation_2026-08-29.pdf",
		},
		{
			name:     "no parts leaves just the date",
			ext:      "xlsx",
			parts:    nil,
			expected: "2026-08-29.xlsx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, report.Filename(tt.ext, date, tt.parts...))
		})
	}
}

func TestFilenameIsDeterministic(t *testing.T) {
	date := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	first := report.Filename("pdf", date, "feedback", "dept1")
	second := report.Filename("pdf", date, "feedback", "dept1")

	assert.Equal(t, first, second)
}
