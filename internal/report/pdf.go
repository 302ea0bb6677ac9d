package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/aathifpm/feedback-reports/internal/service"
	"github.com/jung-kurt/gofpdf"
)

// Letterhead carries the college identity printed on every report page.
type Letterhead struct {
	CollegeName    string
	CollegeAddress string
}

// PDFRenderer builds paginated PDF reports. Every method renders into a
// fully assembled byte buffer; nothing is ever streamed half-built.
type PDFRenderer struct {
	letterhead Letterhead
}

func NewPDFRenderer(lh Letterhead) *PDFRenderer {
	return &PDFRenderer{letterhead: lh}
}

// truncate shortens a cell value to max runes, never splitting a multibyte
// character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// statusFill returns the table fill colour for a rating average, matching
// the legend thresholds.
func statusFill(avg float64) (int, int, int) {
	switch {
	case avg >= 4.5:
		return 198, 239, 206
	case avg >= 4.0:
		return 218, 242, 208
	case avg >= 3.5:
		return 255, 235, 156
	case avg >= 3.0:
		return 255, 214, 165
	default:
		return 255, 199, 206
	}
}

func (r *PDFRenderer) newDocument(title string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.AliasNbPages("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 15)
		pdf.CellFormat(0, 8, r.letterhead.CollegeName, "", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 5, r.letterhead.CollegeAddress, "", 1, "C", false, 0, "")
		pdf.SetDrawColor(40, 92, 145)
		pdf.SetLineWidth(0.5)
		pdf.Line(15, pdf.GetY()+1, 195, pdf.GetY()+1)
		pdf.Ln(5)
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")
		pdf.Ln(2)
	})

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 5,
			fmt.Sprintf("Generated on %s", time.Now().Format("02 Jan 2006 15:04")),
			"", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5,
			fmt.Sprintf("Page %d/{nb}", pdf.PageNo()),
			"", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	return pdf
}

func (r *PDFRenderer) writeLegend(pdf *gofpdf.Fpdf) {
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Rating Scale", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)

	legend := []struct {
		rng   string
		label string
		avg   float64
	}{
		{"4.50 - 5.00", "Excellent", 4.5},
		{"4.00 - 4.49", "Very Good", 4.0},
		{"3.50 - 3.99", "Good", 3.5},
		{"3.00 - 3.49", "Satisfactory", 3.0},
		{"0.00 - 2.99", "Needs Improvement", 0},
	}
	for _, l := range legend {
		red, green, blue := statusFill(l.avg)
		pdf.SetFillColor(red, green, blue)
		pdf.CellFormat(30, 6, l.rng, "1", 0, "C", true, 0, "")
		pdf.CellFormat(50, 6, l.label, "1", 1, "L", true, 0, "")
	}
}

func output(pdf *gofpdf.Fpdf) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render PDF: %w", err)
	}
	return &buf, nil
}

// FeedbackReport renders the full course-feedback report: scope summary,
// per-section statement tables, per-student detail rows and the legend.
func (r *PDFRenderer) FeedbackReport(title string, rep service.FeedbackReport) (*bytes.Buffer, error) {
	pdf := r.newDocument(title)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(60, 6, fmt.Sprintf("Eligible students: %d", rep.TotalEligible), "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 6, fmt.Sprintf("Responses: %d", rep.ResponsesReceived), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Participation: %.2f%%", rep.ParticipationRate), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6,
		fmt.Sprintf("Cumulative average: %.2f (%s)", rep.CumulativeAverage, rep.Status),
		"", 1, "L", false, 0, "")
	pdf.Ln(3)

	for _, sec := range rep.Sections {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 7,
			fmt.Sprintf("%s - %.2f (%s)", sec.Name, sec.Average, sec.Status),
			"", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(40, 92, 145)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(80, 7, "STATEMENT", "1", 0, "L", true, 0, "")
		for i := 1; i <= 5; i++ {
			pdf.CellFormat(12, 7, fmt.Sprintf("%d", i), "1", 0, "C", true, 0, "")
		}
		pdf.CellFormat(16, 7, "AVG", "1", 0, "C", true, 0, "")
		pdf.CellFormat(0, 7, "STATUS", "1", 1, "C", true, 0, "")
		pdf.SetTextColor(0, 0, 0)

		pdf.SetFont("Arial", "", 8)
		for _, st := range sec.Statements {
			red, green, blue := statusFill(st.Average)
			pdf.SetFillColor(red, green, blue)
			pdf.CellFormat(80, 6, truncate(st.Statement, 60), "1", 0, "L", false, 0, "")
			pdf.CellFormat(12, 6, fmt.Sprintf("%d", st.Rating1), "1", 0, "C", false, 0, "")
			pdf.CellFormat(12, 6, fmt.Sprintf("%d", st.Rating2), "1", 0, "C", false, 0, "")
			pdf.CellFormat(12, 6, fmt.Sprintf("%d", st.Rating3), "1", 0, "C", false, 0, "")
			pdf.CellFormat(12, 6, fmt.Sprintf("%d", st.Rating4), "1", 0, "C", false, 0, "")
			pdf.CellFormat(12, 6, fmt.Sprintf("%d", st.Rating5), "1", 0, "C", false, 0, "")
			pdf.CellFormat(16, 6, fmt.Sprintf("%.2f", st.Average), "1", 0, "C", true, 0, "")
			pdf.CellFormat(0, 6, st.Status, "1", 1, "C", false, 0, "")
		}
		pdf.Ln(4)
	}

	if len(rep.Responses) > 0 {
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 7, "Individual Responses", "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(40, 92, 145)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(28, 7, "ROLL NO", "1", 0, "L", true, 0, "")
		pdf.CellFormat(48, 7, "NAME", "1", 0, "L", true, 0, "")
		for _, h := range []string{"CE", "TE", "RS", "AL", "CO"} {
			pdf.CellFormat(14, 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.CellFormat(16, 7, "CUM", "1", 0, "C", true, 0, "")
		pdf.CellFormat(0, 7, "STATUS", "1", 1, "C", true, 0, "")
		pdf.SetTextColor(0, 0, 0)

		pdf.SetFont("Arial", "", 8)
		for _, resp := range rep.Responses {
			red, green, blue := statusFill(resp.CumulativeAverage)
			pdf.SetFillColor(red, green, blue)
			pdf.CellFormat(28, 6, resp.RollNumber, "1", 0, "L", false, 0, "")
			pdf.CellFormat(48, 6, truncate(resp.StudentName, 34), "1", 0, "L", false, 0, "")
			for _, v := range []float64{
				resp.CourseEffectiveness, resp.TeachingEffectiveness,
				resp.ResourcesSupport, resp.AssessmentLearning, resp.CourseOutcomes,
			} {
				pdf.CellFormat(14, 6, fmt.Sprintf("%.2f", v), "1", 0, "C", false, 0, "")
			}
			pdf.CellFormat(16, 6, fmt.Sprintf("%.2f", resp.CumulativeAverage), "1", 0, "C", true, 0, "")
			pdf.CellFormat(0, 6, service.RatingStatus(resp.CumulativeAverage), "1", 1, "C", false, 0, "")
		}
	}

	r.writeLegend(pdf)
	return output(pdf)
}

// ParticipationSummary renders the department x semester x section
// participation table.
func (r *PDFRenderer) ParticipationSummary(title string, lines []service.ParticipationLine) (*bytes.Buffer, error) {
	pdf := r.newDocument(title)

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(40, 92, 145)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(70, 7, "DEPARTMENT", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 7, "SEM", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "SEC", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "TOTAL", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "RECEIVED", "1", 0, "C", true, 0, "")
	pdf.CellFormat(0, 7, "RATE", "1", 1, "C", true, 0, "")
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont("Arial", "", 9)
	pdf.SetFillColor(245, 245, 245)
	for i, line := range lines {
		fill := i%2 == 0
		pdf.CellFormat(70, 6, line.DepartmentName, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", line.Semester), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(20, 6, line.Section, "1", 0, "C", fill, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", line.TotalStudents), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", line.ResponsesReceived), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("%.2f%%", line.ParticipationRate), "1", 1, "C", fill, 0, "")
	}

	r.writeLegend(pdf)
	return output(pdf)
}

func (r *PDFRenderer) writeRatingGroups(pdf *gofpdf.Fpdf, groups []service.RatingGroupStats) {
	for _, g := range groups {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 7,
			fmt.Sprintf("%s - %.2f (%s)", g.Group, g.Average, g.Status),
			"", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(40, 92, 145)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(100, 7, "ITEM", "1", 0, "L", true, 0, "")
		pdf.CellFormat(25, 7, "RESPONSES", "1", 0, "C", true, 0, "")
		pdf.CellFormat(20, 7, "AVG", "1", 0, "C", true, 0, "")
		pdf.CellFormat(0, 7, "STATUS", "1", 1, "C", true, 0, "")
		pdf.SetTextColor(0, 0, 0)

		pdf.SetFont("Arial", "", 8)
		for _, item := range g.Items {
			red, green, blue := statusFill(item.Average)
			pdf.SetFillColor(red, green, blue)
			pdf.CellFormat(100, 6, item.Name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(25, 6, fmt.Sprintf("%d", item.Count), "1", 0, "C", false, 0, "")
			pdf.CellFormat(20, 6, fmt.Sprintf("%.2f", item.Average), "1", 0, "C", true, 0, "")
			pdf.CellFormat(0, 6, item.Status, "1", 1, "C", false, 0, "")
		}
		pdf.Ln(4)
	}
}

func (r *PDFRenderer) writeNameRanking(pdf *gofpdf.Fpdf, heading string, buckets []service.NameCount) {
	if len(buckets) == 0 {
		return
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, heading, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(40, 92, 145)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(12, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(90, 7, "NAME", "1", 0, "L", true, 0, "")
	pdf.CellFormat(0, 7, "STUDENTS", "1", 1, "C", true, 0, "")
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont("Arial", "", 8)
	pdf.SetFillColor(245, 245, 245)
	for i, b := range buckets {
		fill := i%2 == 0
		pdf.CellFormat(12, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(90, 6, b.Name, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("%d", b.Count), "1", 1, "C", fill, 0, "")
	}
	pdf.Ln(4)
}

// ExitSurveyReport renders rating groups plus the merged employer and
// institution rankings.
func (r *PDFRenderer) ExitSurveyReport(title string, rep service.ExitSurveyReport) (*bytes.Buffer, error) {
	pdf := r.newDocument(title)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(60, 6, fmt.Sprintf("Responses: %d", rep.TotalResponses), "", 0, "L", false, 0, "")
	if rep.SkippedRecords > 0 {
		pdf.CellFormat(60, 6, fmt.Sprintf("Skipped records: %d", rep.SkippedRecords), "", 0, "L", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6,
		fmt.Sprintf("Overall: %.2f (%s)", rep.OverallAverage, rep.Status),
		"", 1, "L", false, 0, "")
	pdf.Ln(3)

	r.writeRatingGroups(pdf, rep.Groups)
	r.writeNameRanking(pdf, "Top Employers", rep.TopEmployers)
	r.writeNameRanking(pdf, "Top Higher-Study Institutions", rep.TopInstitutions)
	r.writeLegend(pdf)
	return output(pdf)
}

// NonAcademicReport renders the non-academic feedback rating groups.
func (r *PDFRenderer) NonAcademicReport(title string, rep service.NonAcademicReport) (*bytes.Buffer, error) {
	pdf := r.newDocument(title)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(60, 6, fmt.Sprintf("Responses: %d", rep.TotalResponses), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6,
		fmt.Sprintf("Overall: %.2f (%s)", rep.OverallAverage, rep.Status),
		"", 1, "L", false, 0, "")
	pdf.Ln(3)

	r.writeRatingGroups(pdf, rep.Groups)
	r.writeLegend(pdf)
	return output(pdf)
}
