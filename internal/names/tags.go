package names

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock supplies the current time for tag expansion. Tests inject a
// fixed clock for deterministic output.
type Clock func() time.Time

// Placeholder tokens recognized inside candidate names.
const (
	TagDate     = "@DATE@"
	TagTime     = "@TIME@"
	TagDatetime = "@DATETIME@"
	TagTo       = "@TO@"
)

// ExpandTags replaces the @DATE@, @TIME@ and @DATETIME@ tokens in a
// candidate name with concrete key-value pairs so the result still
// parses as key-value grammar:
//
//	@DATE@     -> date-YYYYMMDD
//	@TIME@     -> time-HHMMSS
//	@DATETIME@ -> datetime-YYYYMMDDTHHMMSS
//
// Absence of tokens is a no-op.
func ExpandTags(name string, clock Clock) string {
	now := clock()
	date := now.Format("20060102")
	tm := now.Format("150405")

	// Replace @DATETIME@ first so its "@DATE@"-free token is not clipped
	// by the shorter replacements.
	name = strings.ReplaceAll(name, TagDatetime, "datetime-"+date+"T"+tm)
	name = strings.ReplaceAll(name, TagDate, "date-"+date)
	name = strings.ReplaceAll(name, TagTime, "time-"+tm)
	return name
}

// ExpandRange expands a @TO@ range in a single name into the full run
// of names it denotes. "sub-001@TO@003" becomes ["sub-001", "sub-002",
// "sub-003"]; any suffix after the upper bound is carried onto every
// expanded name. The zero-padding width of the wider bound is kept.
// A name without @TO@ is returned as a one-element slice.
func ExpandRange(name string, prefix Prefix) ([]string, error) {
	if !strings.Contains(name, TagTo) {
		return []string{name}, nil
	}

	lhs, rhs, _ := strings.Cut(name, TagTo)

	lead := string(prefix) + "-"
	if !strings.HasPrefix(lhs, lead) {
		return nil, newIssue(InvalidCharacter,
			fmt.Sprintf("the %s bound of name %q must start with %q", TagTo, name, lead))
	}
	fromStr := strings.TrimPrefix(lhs, lead)

	// The upper bound runs to the next "_" (or end of name); anything
	// after it is a key-value suffix shared by all expanded names.
	toStr, suffix, hasSuffix := strings.Cut(rhs, "_")

	from, err := strconv.Atoi(fromStr)
	if err != nil {
		return nil, newIssue(InvalidCharacter,
			fmt.Sprintf("the %s bounds of name %q must be numeric, got %q", TagTo, name, fromStr))
	}
	to, err := strconv.Atoi(toStr)
	if err != nil {
		return nil, newIssue(InvalidCharacter,
			fmt.Sprintf("the %s bounds of name %q must be numeric, got %q", TagTo, name, toStr))
	}
	if to < from {
		return nil, newIssue(InvalidCharacter,
			fmt.Sprintf("the %s upper bound of name %q must not be below the lower bound", TagTo, name))
	}

	width := max(len(fromStr), len(toStr))

	expanded := make([]string, 0, to-from+1)
	for n := from; n <= to; n++ {
		expandedName := fmt.Sprintf("%s-%0*d", prefix, width, n)
		if hasSuffix {
			expandedName += "_" + suffix
		}
		expanded = append(expanded, expandedName)
	}
	return expanded, nil
}
