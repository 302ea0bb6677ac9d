package report

import (
	"bytes"
	"fmt"

	"github.com/aathifpm/feedback-reports/internal/service"
	"github.com/xuri/excelize/v2"
)

// ExcelRenderer builds multi-sheet workbooks. Like the PDF renderer, every
// method assembles the complete artifact in memory before returning it.
type ExcelRenderer struct {
	letterhead Letterhead
}

func NewExcelRenderer(lh Letterhead) *ExcelRenderer {
	return &ExcelRenderer{letterhead: lh}
}

// statusFillHex is the spreadsheet counterpart of statusFill.
func statusFillHex(avg float64) string {
	switch {
	case avg >= 4.5:
		return "C6EFCE"
	case avg >= 4.0:
		return "DAF2D0"
	case avg >= 3.5:
		return "FFEB9C"
	case avg >= 3.0:
		return "FFD6A5"
	default:
		return "FFC7CE"
	}
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"285C91"}, Pattern: 1},
	})
}

func ratingStyle(f *excelize.File, avg float64) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{statusFillHex(avg)}, Pattern: 1},
	})
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, v)
	}
}

func writeHeaderRow(f *excelize.File, sheet string, row int, headers []string) error {
	style, err := headerStyle(f)
	if err != nil {
		return fmt.Errorf("build header style: %w", err)
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, style)
	}
	return nil
}

// writeStatisticsSheet adds the rating-scale legend sheet shared by every
// workbook.
func writeStatisticsSheet(f *excelize.File) error {
	const sheet = "Statistics"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	if err := writeHeaderRow(f, sheet, 1, []string{"Range", "Rating"}); err != nil {
		return err
	}

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
	for i, l := range legend {
		row := i + 2
		writeRow(f, sheet, row, []any{l.rng, l.label})
		style, err := ratingStyle(f, l.avg)
		if err != nil {
			return fmt.Errorf("build legend style: %w", err)
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		end, _ := excelize.CoordinatesToCellName(2, row)
		f.SetCellStyle(sheet, start, end, style)
	}
	return nil
}

// sheetName clamps a group or section name to Excel's 31-character sheet
// limit, counting runes so multibyte names survive intact.
func sheetName(name string) string {
	runes := []rune(name)
	if len(runes) > 31 {
		return string(runes[:31])
	}
	return name
}

func finishWorkbook(f *excelize.File) (*bytes.Buffer, error) {
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf, nil
}

// FeedbackReport writes a workbook with Summary, one sheet per questionnaire
// section, a Responses sheet and the Statistics legend.
func (r *ExcelRenderer) FeedbackReport(title string, rep service.FeedbackReport) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if _, err := f.NewSheet(summary); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", summary, err)
	}
	writeRow(f, summary, 1, []any{r.letterhead.CollegeName})
	writeRow(f, summary, 2, []any{title})
	writeRow(f, summary, 4, []any{"Eligible students", rep.TotalEligible})
	writeRow(f, summary, 5, []any{"Responses received", rep.ResponsesReceived})
	writeRow(f, summary, 6, []any{"Participation rate", fmt.Sprintf("%.2f%%", rep.ParticipationRate)})
	writeRow(f, summary, 7, []any{"Cumulative average", rep.CumulativeAverage, rep.Status})

	if err := writeHeaderRow(f, summary, 9, []string{"Section", "Average", "Status"}); err != nil {
		return nil, err
	}
	for i, sec := range rep.Sections {
		row := i + 10
		writeRow(f, summary, row, []any{sec.Name, sec.Average, sec.Status})
		style, err := ratingStyle(f, sec.Average)
		if err != nil {
			return nil, fmt.Errorf("build section style: %w", err)
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		end, _ := excelize.CoordinatesToCellName(3, row)
		f.SetCellStyle(summary, start, end, style)
	}

	for _, sec := range rep.Sections {
		sheet := sheetName(sec.Name)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", sheet, err)
		}
		if err := writeHeaderRow(f, sheet, 1, []string{
			"#", "Statement", "1", "2", "3", "4", "5", "Total", "Average", "Status",
		}); err != nil {
			return nil, err
		}
		for i, st := range sec.Statements {
			row := i + 2
			writeRow(f, sheet, row, []any{
				st.Position, st.Statement,
				st.Rating1, st.Rating2, st.Rating3, st.Rating4, st.Rating5,
				st.Total, st.Average, st.Status,
			})
			style, err := ratingStyle(f, st.Average)
			if err != nil {
				return nil, fmt.Errorf("build statement style: %w", err)
			}
			avgCell, _ := excelize.CoordinatesToCellName(9, row)
			statusCell, _ := excelize.CoordinatesToCellName(10, row)
			f.SetCellStyle(sheet, avgCell, statusCell, style)
		}
	}

	if len(rep.Responses) > 0 {
		const responses = "Responses"
		if _, err := f.NewSheet(responses); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", responses, err)
		}
		if err := writeHeaderRow(f, responses, 1, []string{
			"Roll No", "Name", "Course Effectiveness", "Teaching Effectiveness",
			"Resources & Support", "Assessment & Learning", "Course Outcomes",
			"Cumulative", "Status", "Comments", "Submitted",
		}); err != nil {
			return nil, err
		}
		for i, resp := range rep.Responses {
			writeRow(f, responses, i+2, []any{
				resp.RollNumber, resp.StudentName,
				resp.CourseEffectiveness, resp.TeachingEffectiveness,
				resp.ResourcesSupport, resp.AssessmentLearning, resp.CourseOutcomes,
				resp.CumulativeAverage, service.RatingStatus(resp.CumulativeAverage),
				resp.Comments, resp.SubmittedAt.Format("2006-01-02 15:04"),
			})
		}
	}

	if err := writeStatisticsSheet(f); err != nil {
		return nil, err
	}
	return finishWorkbook(f)
}

// ParticipationSummary writes the Summary and Statistics sheets for the
// participation report.
func (r *ExcelRenderer) ParticipationSummary(title string, lines []service.ParticipationLine) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if _, err := f.NewSheet(summary); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", summary, err)
	}
	writeRow(f, summary, 1, []any{r.letterhead.CollegeName})
	writeRow(f, summary, 2, []any{title})
	if err := writeHeaderRow(f, summary, 4, []string{
		"Department", "Semester", "Section", "Total Students", "Responses", "Rate",
	}); err != nil {
		return nil, err
	}
	for i, line := range lines {
		writeRow(f, summary, i+5, []any{
			line.DepartmentName, line.Semester, line.Section,
			line.TotalStudents, line.ResponsesReceived,
			fmt.Sprintf("%.2f%%", line.ParticipationRate),
		})
	}

	if err := writeStatisticsSheet(f); err != nil {
		return nil, err
	}
	return finishWorkbook(f)
}

func writeGroupSheets(f *excelize.File, groups []service.RatingGroupStats) error {
	for _, g := range groups {
		sheet := sheetName(g.Group)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
		if err := writeHeaderRow(f, sheet, 1, []string{"Item", "Responses", "Average", "Status"}); err != nil {
			return err
		}
		for i, item := range g.Items {
			row := i + 2
			writeRow(f, sheet, row, []any{item.Name, item.Count, item.Average, item.Status})
			style, err := ratingStyle(f, item.Average)
			if err != nil {
				return fmt.Errorf("build item style: %w", err)
			}
			avgCell, _ := excelize.CoordinatesToCellName(3, row)
			statusCell, _ := excelize.CoordinatesToCellName(4, row)
			f.SetCellStyle(sheet, avgCell, statusCell, style)
		}
	}
	return nil
}

// ExitSurveyReport writes Summary, per-group sheets, Employers/Institutions
// rankings and the Statistics legend.
func (r *ExcelRenderer) ExitSurveyReport(title string, rep service.ExitSurveyReport) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if _, err := f.NewSheet(summary); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", summary, err)
	}
	writeRow(f, summary, 1, []any{r.letterhead.CollegeName})
	writeRow(f, summary, 2, []any{title})
	writeRow(f, summary, 4, []any{"Responses", rep.TotalResponses})
	writeRow(f, summary, 5, []any{"Skipped records", rep.SkippedRecords})
	writeRow(f, summary, 6, []any{"Overall average", rep.OverallAverage, rep.Status})

	if err := writeHeaderRow(f, summary, 8, []string{"Group", "Average", "Status"}); err != nil {
		return nil, err
	}
	for i, g := range rep.Groups {
		writeRow(f, summary, i+9, []any{g.Group, g.Average, g.Status})
	}

	if err := writeGroupSheets(f, rep.Groups); err != nil {
		return nil, err
	}

	for _, ranking := range []struct {
		sheet   string
		buckets []service.NameCount
	}{
		{"Employers", rep.TopEmployers},
		{"Institutions", rep.TopInstitutions},
	} {
		if len(ranking.buckets) == 0 {
			continue
		}
		if _, err := f.NewSheet(ranking.sheet); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", ranking.sheet, err)
		}
		if err := writeHeaderRow(f, ranking.sheet, 1, []string{"Rank", "Name", "Students", "Variants"}); err != nil {
			return nil, err
		}
		for i, b := range ranking.buckets {
			writeRow(f, ranking.sheet, i+2, []any{
				i + 1, b.Name, b.Count, fmt.Sprintf("%v", b.Variants),
			})
		}
	}

	if err := writeStatisticsSheet(f); err != nil {
		return nil, err
	}
	return finishWorkbook(f)
}

// NonAcademicReport writes Summary, per-group sheets and the Statistics
// legend.
func (r *ExcelRenderer) NonAcademicReport(title string, rep service.NonAcademicReport) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if _, err := f.NewSheet(summary); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", summary, err)
	}
	writeRow(f, summary, 1, []any{r.letterhead.CollegeName})
	writeRow(f, summary, 2, []any{title})
	writeRow(f, summary, 4, []any{"Responses", rep.TotalResponses})
	writeRow(f, summary, 5, []any{"Skipped records", rep.SkippedRecords})
	writeRow(f, summary, 6, []any{"Overall average", rep.OverallAverage, rep.Status})

	if err := writeGroupSheets(f, rep.Groups); err != nil {
		return nil, err
	}
	if err := writeStatisticsSheet(f); err != nil {
		return nil, err
	}
	return finishWorkbook(f)
}
