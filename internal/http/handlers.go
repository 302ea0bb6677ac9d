package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/aathifpm/feedback-reports/internal/report"
	"github.com/aathifpm/feedback-reports/internal/scope"
	"github.com/aathifpm/feedback-reports/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultCacheDuration  = 10 * time.Minute
	defaultRequestTimeout = 30 * time.Second

	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type cacheKeyPrefix string

const (
	cacheKeyFeedback      cacheKeyPrefix = "reports:feedback"
	cacheKeySection       cacheKeyPrefix = "reports:section"
	cacheKeyExitSurvey    cacheKeyPrefix = "reports:exit_survey"
	cacheKeyNonAcademic   cacheKeyPrefix = "reports:non_academic"
	cacheKeyParticipation cacheKeyPrefix = "reports:participation"
)

// Handlers serves the report endpoints.
type Handlers struct {
	reports  ReportService
	resolver ScopeResolver
	pdf      *report.PDFRenderer
	excel    *report.ExcelRenderer
	cache    Cacher
	logger   *zap.Logger
	sfGroup  singleflight.Group
	cacheTTL time.Duration
}

// NewHandlers initializes the report handlers.
func NewHandlers(reports ReportService, resolver ScopeResolver, pdf *report.PDFRenderer, excel *report.ExcelRenderer, cache Cacher, logger *zap.Logger, ttl time.Duration) *Handlers {
	if reports == nil {
		panic("nil ReportService provided to NewHandlers")
	}
	if resolver == nil {
		panic("nil ScopeResolver provided to NewHandlers")
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &Handlers{
		reports:  reports,
		resolver: resolver,
		pdf:      pdf,
		excel:    excel,
		cache:    cache,
		logger:   logger.Named("report-handler"),
		cacheTTL: ttl,
	}
}

// Register mounts the report routes behind the auth and role middleware.
func (h *Handlers) Register(router gin.IRouter, jwtSecret string) {
	reports := router.Group("/reports")
	reports.Use(AuthRequired(jwtSecret, h.logger))
	reports.Use(RoleOnly("admin", "hod", "faculty"))

	reports.GET("/faculty-feedback", h.FacultyFeedback)
	reports.GET("/section", h.SectionReport)
	reports.GET("/exit-survey", h.ExitSurvey)
	reports.GET("/non-academic", h.NonAcademic)
	reports.GET("/participation", h.Participation)
}

func newRequestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), defaultRequestTimeout)
}

func parseFilter(c *gin.Context) scope.Filter {
	return scope.Filter{
		AcademicYearID: queryInt64(c, "academic_year_id"),
		DepartmentID:   queryInt64(c, "department_id"),
		SubjectID:      queryInt64(c, "subject_id"),
		FacultyID:      queryInt64(c, "faculty_id"),
		Semester:       int(queryInt64(c, "semester")),
		Section:        c.Query("section"),
	}
}

func queryInt64(c *gin.Context, key string) int64 {
	v, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// resolveScope authorizes the request and completes the filters. A caller
// without report access is redirected just like an unauthenticated one.
func (h *Handlers) resolveScope(c *gin.Context) (scope.Scope, bool) {
	req := scope.Requester{
		Role:   scope.Role(c.GetString("role")),
		UserID: c.GetInt64("user_id"),
	}

	sc, err := h.resolver.Resolve(c.Request.Context(), req, parseFilter(c))
	if err != nil {
		h.handleError(c, "resolve scope", err)
		return scope.Scope{}, false
	}
	if !sc.HasAccess {
		c.Redirect(http.StatusSeeOther, loginPath)
		c.Abort()
		return scope.Scope{}, false
	}
	return sc, true
}

// handleError maps service errors onto short, non-technical responses.
// Diagnostics stay in the server log.
func (h *Handlers) handleError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrNoRatings):
		h.logger.Info("no data for report scope", zap.String("op", op))
		c.JSON(http.StatusNotFound, gin.H{"error": "no feedback data for the selected scope"})
	case errors.Is(err, scope.ErrNoAcademicYear):
		h.logger.Warn("no academic year configured", zap.String("op", op))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no academic year configured"})
	default:
		h.logger.Error("report generation failed", zap.String("op", op), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
	}
	c.Abort()
}

// sendAttachment flushes a fully rendered artifact. The renderers return
// complete buffers, so nothing partial can reach the wire.
func sendAttachment(c *gin.Context, buf *bytes.Buffer, filename, contentType string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func scopeKey(prefix cacheKeyPrefix, sc scope.Scope) string {
	return fmt.Sprintf("%s:y%d:d%d:sub%d:f%d:sem%d:sec%s",
		prefix, sc.AcademicYearID, sc.DepartmentID, sc.SubjectID, sc.FacultyID, sc.Semester, sc.Section)
}

// FacultyFeedback serves the per-assignment course feedback report.
func (h *Handlers) FacultyFeedback(c *gin.Context) {
	h.feedbackReport(c, cacheKeyFeedback, "Course Feedback Report", "feedback")
}

// SectionReport serves the consolidated report for one class section across
// its subjects.
func (h *Handlers) SectionReport(c *gin.Context) {
	h.feedbackReport(c, cacheKeySection, "Section Feedback Report", "section_report")
}

func (h *Handlers) feedbackReport(c *gin.Context, prefix cacheKeyPrefix, title, filePrefix string) {
	sc, ok := h.resolveScope(c)
	if !ok {
		return
	}

	ctx, cancel := newRequestContext(c)
	defer cancel()

	switch c.DefaultQuery("format", "json") {
	case "json":
		rep, err := FindAndCache(ctx, h.cache, &h.sfGroup, scopeKey(prefix, sc), h.cacheTTL, h.logger,
			func(fetchCtx context.Context) (service.FeedbackReport, error) {
				return h.reports.GetFeedbackReport(fetchCtx, sc)
			})
		if err != nil {
			h.handleError(c, title, err)
			return
		}
		c.JSON(http.StatusOK, rep)

	case "pdf":
		rep, err := h.reports.GetFeedbackReport(ctx, sc)
		if err != nil {
			h.handleError(c, title, err)
			return
		}
		buf, err := h.pdf.FeedbackReport(title, rep)
		if err != nil {
			h.handleError(c, title, err)
			return
		}
		sendAttachment(c, buf, h.scopeFilename("pdf", filePrefix, sc), contentTypePDF)

	case "excel":
		rep, err := h.reports.GetFeedbackReport(ctx, sc)
		if err != nil {
			h.handleError(c, title, err)
			return
		}
		buf, err := h.excel.FeedbackReport(title, rep)
		if err != nil {
			h.handleError(c, title, err)
			return
		}
		sendAttachment(c, buf, h.scopeFilename("xlsx", filePrefix, sc), contentTypeXLSX)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json, pdf or excel"})
	}
}

// ExitSurvey serves the aggregated exit survey for one academic year.
func (h *Handlers) ExitSurvey(c *gin.Context) {
	sc, ok := h.resolveScope(c)
	if !ok {
		return
	}

	ctx, cancel := newRequestContext(c)
	defer cancel()

	const title = "Exit Survey Report"
	switch c.DefaultQuery("format", "json") {
	case "json":
		rep, err := FindAndCache(ctx, h.cache, &h.sfGroup, scopeKey(cacheKeyExitSurvey, sc), h.cacheTTL, h.logger,
			func(fetchCtx context.Context) (service.ExitSurveyReport, error) {
				return h.reports.GetExitSurveyReport(fetchCtx, sc)
			})
		if err != nil {
			h.handleError(c, title, err)
			return
		}
		c.JSON(http.StatusOK, rep)

	case "pdf":
		rep, err := h.reports.GetExitSurveyReport(ctx, sc)
		if err != nil {
			h.handleError(c, title, err)
			return
		}
		buf, err := h.pdf.ExitSurveyReport(title, rep)
		if err != nil {
			h.handleError(c, title, err)
			return
		}
		sendAttachment(c, buf, h.scopeFilename("pdf", "exit_survey", sc), contentTypePDF)

	case "excel":
		rep, err := h.reports.GetExitSurveyReport(ctx, sc)
		if err != nil {
			h.handleError(c, title, err)
			return
		}
		buf, err := h.excel.ExitSurveyReport(title, rep)
		if err != nil {
			h.handleError(c, title, err)
			return
		}
		sendAttachment(c, buf, h.scopeFilename("xlsx", "exit_survey", sc), contentTypeXLSX)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json, pdf or excel"})
	}
}

// NonAcademic serves the aggregated non-academic feedback report.
func (h *Handlers) NonAcademic(c *gin.Context) {
	sc, ok := h.resolveScope(c)
	if !ok {
		return
	}

	ctx, cancel := newRequestContext(c)
	defer cancel()

	const title = "Non-Academic Feedback Report"
	switch c.DefaultQuery("format", "json") {
	case "json":
		rep, err := FindAndCache(ctx, h.cache, &h.sfGroup, scopeKey(cacheKeyNonAcademic, sc), h.cacheTTL, h.logger,
			func(fetchCtx context.Context) (service.NonAcademicReport, error) {
				return h.reports.GetNonAcademicReport(fetchCtx, sc)
			})
		if err != nil {
			h.handleError(c, title, err)
			return
		}
		c.JSON(http.StatusOK, rep)

	case "pdf":
		rep, err := h.reports.GetNonAcademicReport(ctx, sc)
		if err != nil {
			h.handleError(c, title, err)
			return
		}
		buf, err := h.pdf.NonAcademicReport(title, rep)
		if err != nil {
			h.handleError(c, title, err)
			return
		}
		sendAttachment(c, buf, h.scopeFilename("pdf", "non_academic", sc), contentTypePDF)

	case "excel":
		rep, err := h.reports.GetNonAcademicReport(ctx, sc)
		if err != nil {
			h.handleError(c, title, err)
			return
		}
		buf, err := h.excel.NonAcademicReport(title, rep)
		if err != nil {
			h.handleError(c, title, err)
			return
		}
		sendAttachment(c, buf, h.scopeFilename("xlsx", "non_academic", sc), contentTypeXLSX)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json, pdf or excel"})
	}
}

// Participation serves the department x semester x section summary.
func (h *Handlers) Participation(c *gin.Context) {
	sc, ok := h.resolveScope(c)
	if !ok {
		return
	}

	ctx, cancel := newRequestContext(c)
	defer cancel()

	const title = "Feedback Participation Summary"
	switch c.DefaultQuery("format", "json") {
	case "json":
		lines, err := FindAndCache(ctx, h.cache, &h.sfGroup, scopeKey(cacheKeyParticipation, sc), h.cacheTTL, h.logger,
			func(fetchCtx context.Context) ([]service.ParticipationLine, error) {
				return h.reports.GetParticipationSummary(fetchCtx, sc)
			})
		if err != nil {
			h.handleError(c, title, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"rows": lines})

	case "pdf":
		lines, err := h.reports.GetParticipationSummary(ctx, sc)
		if err != nil {
			h.handleError(c, title, err)
			return
		}
		buf, err := h.pdf.ParticipationSummary(title, lines)
		if err != nil {
			h.handleError(c, title, err)
			return
		}
		sendAttachment(c, buf, h.scopeFilename("pdf", "participation", sc), contentTypePDF)

	case "excel":
		lines, err := h.reports.GetParticipationSummary(ctx, sc)
		if err != nil {
			h.handleError(c, title, err)
			return
		}
		buf, err := h.excel.ParticipationSummary(title, lines)
		if err != nil {
			h.handleError(c, title, err)
			return
		}
		sendAttachment(c, buf, h.scopeFilename("xlsx", "participation", sc), contentTypeXLSX)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json, pdf or excel"})
	}
}

func (h *Handlers) scopeFilename(ext, prefix string, sc scope.Scope) string {
	parts := []string{prefix}
	if sc.SubjectID != 0 {
		parts = append(parts, fmt.Sprintf("subject%d", sc.SubjectID))
	}
	if sc.DepartmentID != 0 {
		parts = append(parts, fmt.Sprintf("dept%d", sc.DepartmentID))
	}
	if sc.Semester != 0 {
		parts = append(parts, fmt.Sprintf("sem%d", sc.Semester))
	}
	if sc.Section != "" {
		parts = append(parts, "sec"+sc.Section)
	}
	return report.Filename(ext, time.Now(), parts...)
}
