// Package validate holds the input validation and normalization helpers
// shared by every handler. All free-text input passes through Sanitize
// before it reaches the database.
package validate

import (
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/kutbudev/taskboard/internal/models"
)

const (
	// DefaultPerPage is the page size when none is requested.
	DefaultPerPage = 20
	// MaxPerPage caps the requested page size.
	MaxPerPage = 100
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	hexColorRe   = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// Sanitize trims surrounding whitespace, strips markup and escapes
// characters meaningful to HTML rendering.
func Sanitize(s string) string {
	return strictPolicy.Sanitize(strings.TrimSpace(s))
}

// IsDate reports whether s is a strict YYYY-MM-DD calendar date.
// Re-formatting the parsed value must reproduce the input exactly,
// so normalized forms like 2024-2-30 are rejected.
func IsDate(s string) bool {
	t, err := time.Parse("2006-01-02", s)
	return err == nil && t.Format("2006-01-02") == s
}

// MissingFields returns the names of required fields that are absent or
// blank in the given values, in the order they were requested.
func MissingFields(values map[string]string, required ...string) []string {
	var missing []string
	for _, field := range required {
		if strings.TrimSpace(values[field]) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// IsPriority reports whether p is one of the known task priorities.
func IsPriority(p string) bool {
	return p == models.PriorityLow || p == models.PriorityMedium || p == models.PriorityHigh
}

// IsStatus reports whether s is one of the known task statuses.
func IsStatus(s string) bool {
	return s == models.StatusTodo || s == models.StatusInProgress || s == models.StatusDone
}

// NormalizePriority falls back to Medium for unknown values instead of
// rejecting them.
func NormalizePriority(p string) string {
	if IsPriority(p) {
		return p
	}
	return models.PriorityMedium
}

// NormalizeStatus falls back to todo for unknown values instead of
// rejecting them.
func NormalizeStatus(s string) string {
	if IsStatus(s) {
		return s
	}
	return models.StatusTodo
}

// NormalizeColor returns color when it matches #RRGGBB, otherwise the
// default category color.
func NormalizeColor(color string) string {
	if hexColorRe.MatchString(color) {
		return color
	}
	return models.DefaultCategoryColor
}

// PageParams clamps pagination input: page is at least 1 and perPage is
// clamped to [1, MaxPerPage]. The DefaultPerPage fallback for an absent
// parameter belongs to the caller.
func PageParams(page, perPage int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	offset := (page - 1) * perPage
	return page, perPage, offset
}
