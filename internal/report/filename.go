package report

import (
	"strings"
	"time"
)

// Filename builds a deterministic attachment name from the scope parts and
// the generation date, e.g. feedback_cs301_sem5_2026-08-29.pdf.
func Filename(ext string, date time.Time, parts ...string) string {
	cleaned := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		s := sanitizePart(p)
		if s != "" {
			cleaned = append(cleaned, s)
		}
	}
	cleaned = append(cleaned, date.Format("2006-01-02"))
	return strings.Join(cleaned, "_") + "." + ext
}

func sanitizePart(p string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(p)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
