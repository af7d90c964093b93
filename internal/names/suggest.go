package names

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/neuroblueprint/shuttle/internal/logger"
)

// DefaultValueDigits is the digit width used for the first subject or
// session of a project, when no existing value fixes the width.
const DefaultValueDigits = 3

// SuggestOptions controls how the suggested number is rendered.
type SuggestOptions struct {
	// WithPrefix prepends "sub-"/"ses-" to the suggested value.
	WithPrefix bool
	// DefaultDigits is the zero-padding width used when no numeric
	// values exist yet. Zero means DefaultValueDigits.
	DefaultDigits int
}

// SuggestNext computes the next unused subject or session number from
// the names existing at one hierarchy level: max(existing)+1, rendered
// with the project's established zero-padding width. An empty project
// starts at 1 rendered at the default width. Names whose primary value
// is not fully numeric are skipped. A gap in the numeric sequence is
// reported as a non-fatal log warning, since it may indicate deleted or
// externally created folders.
func SuggestNext(existing []string, prefix Prefix, opts SuggestOptions) (string, error) {
	if !prefix.IsValid() {
		return "", fmt.Errorf("names: prefix must be %q or %q, got %q", Sub, Ses, prefix)
	}

	defaultDigits := opts.DefaultDigits
	if defaultDigits <= 0 {
		defaultDigits = DefaultValueDigits
	}

	maxNum, digits, err := maxValueAndDigits(existing, prefix, defaultDigits)
	if err != nil {
		return "", err
	}

	suggested := fmt.Sprintf("%0*d", digits, maxNum+1)
	if opts.WithPrefix {
		suggested = string(prefix) + "-" + suggested
	}
	return suggested, nil
}

// maxValueAndDigits finds the largest numeric primary value and the
// uniform digit width across the given names. Inconsistent widths make
// a suggestion impossible and return an InconsistentPadding issue.
func maxValueAndDigits(existing []string, prefix Prefix, defaultDigits int) (int, int, error) {
	var values []int
	digits := 0

	for _, name := range existing {
		value, ok := primaryValue(name, prefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		if digits != 0 && digits != len(value) {
			return 0, 0, newIssue(InconsistentPadding, fmt.Sprintf(
				"the number of value digits for the %s level are not consistent. Cannot suggest a %s number",
				prefix, prefix))
		}
		digits = len(value)
		values = append(values, n)
	}

	if len(values) == 0 {
		return 0, defaultDigits, nil
	}

	sort.Ints(values)
	if !consecutive(values) {
		logger.Warn("numbers have been skipped at this level",
			"prefix", prefix, "used", values)
	}
	return values[len(values)-1], digits, nil
}

// consecutive reports whether the sorted values form an unbroken run.
func consecutive(values []int) bool {
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1]+1 {
			return false
		}
	}
	return true
}
