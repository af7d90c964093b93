package names

import (
	"fmt"
	"strconv"
	"strings"
)

// Location identifies which side of the project a folder name was
// scanned from. Provenance is kept so conflict messages can say where
// the existing folder lives.
type Location string

const (
	Local     Location = "local"
	Central   Location = "central"
	Requested Location = "requested"
)

// Entry pairs a raw folder name with its provenance.
type Entry struct {
	Name     string
	Location Location
}

// NameSet is an immutable snapshot of the folder names existing at one
// hierarchy level, merged across locations with provenance preserved.
// It is rebuilt from live storage on every validation call.
type NameSet struct {
	entries []Entry
	seen    map[string]map[Location]bool
}

// NewNameSet returns an empty NameSet.
func NewNameSet() *NameSet {
	return &NameSet{seen: make(map[string]map[Location]bool)}
}

// Add records names found at the given location. A name already
// recorded for the same location is ignored; the same name at another
// location is recorded once more with that provenance.
func (s *NameSet) Add(loc Location, names ...string) {
	for _, name := range names {
		if s.seen[name] == nil {
			s.seen[name] = make(map[Location]bool)
		}
		if s.seen[name][loc] {
			continue
		}
		s.seen[name][loc] = true
		s.entries = append(s.entries, Entry{Name: name, Location: loc})
	}
}

// Entries returns all recorded entries in insertion order. Callers add
// local names before central ones, which fixes the scan order.
func (s *NameSet) Entries() []Entry {
	return s.entries
}

// Names returns the de-duplicated union of names across locations, in
// insertion order.
func (s *NameSet) Names() []string {
	out := make([]string, 0, len(s.seen))
	listed := make(map[string]bool, len(s.seen))
	for _, e := range s.entries {
		if listed[e.Name] {
			continue
		}
		listed[e.Name] = true
		out = append(out, e.Name)
	}
	return out
}

// Len returns the number of distinct names in the set.
func (s *NameSet) Len() int {
	return len(s.seen)
}

// Mode selects the severity policy for a validation run.
type Mode string

const (
	// ModeError halts at the first issue found in scan order.
	ModeError Mode = "error"
	// ModeWarn collects every issue across the full scan.
	ModeWarn Mode = "warn"
)

// IsValid reports whether m is a recognized mode.
func (m Mode) IsValid() bool {
	return m == ModeError || m == ModeWarn
}

// CheckLevel runs the two consistency checks over one scope: the whole
// project for subjects, or a single subject's namespace for sessions.
// Candidates are the names about to be created (may be empty when
// validating existing folders only); existing is the merged
// local/central snapshot. Duplicate-id issues are reported before the
// padding issue.
func CheckLevel(candidates []string, existing *NameSet, prefix Prefix) []*Issue {
	combined := make([]Entry, 0, len(candidates)+len(existing.Entries()))
	for _, c := range candidates {
		combined = append(combined, Entry{Name: c, Location: Requested})
	}
	combined = append(combined, existing.Entries()...)

	issues := checkDuplicateIDs(combined, prefix)
	if issue := checkValueLengths(combined, prefix); issue != nil {
		issues = append(issues, issue)
	}
	return issues
}

// Resolve applies the severity policy. In error mode the first issue is
// returned as the aborting error. In warn mode every issue is
// downgraded to a warning and returned for the caller to surface.
func Resolve(issues []*Issue, mode Mode) ([]*Issue, error) {
	if len(issues) == 0 {
		return nil, nil
	}
	if mode == ModeError {
		return nil, issues[0]
	}
	for _, issue := range issues {
		issue.Severity = SeverityWarning
	}
	return issues, nil
}

// checkDuplicateIDs reports every pair of names sharing a primary id
// but differing in their full string. Byte-identical names (e.g. the
// same folder present locally and centrally) are not conflicts.
func checkDuplicateIDs(entries []Entry, prefix Prefix) []*Issue {
	var issues []*Issue
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			a, b := entries[i], entries[j]
			if a.Name == b.Name {
				continue
			}
			if !samePrimaryID(a.Name, b.Name, prefix) {
				continue
			}
			issues = append(issues, newIssue(DuplicateID, duplicateMessage(a, b, prefix)))
		}
	}
	return issues
}

// duplicateMessage words the conflict so both names appear verbatim,
// preferring the "new name vs existing folder" phrasing when one side
// is a requested candidate.
func duplicateMessage(a, b Entry, prefix Prefix) string {
	if b.Location == Requested && a.Location != Requested {
		a, b = b, a
	}
	if a.Location == Requested && b.Location != Requested {
		return fmt.Sprintf("a %s already exists with the same %s id as %s. The existing folder is %s (%s)",
			prefix, prefix, a.Name, b.Name, b.Location)
	}
	if a.Location == Requested && b.Location == Requested {
		return fmt.Sprintf("the requested names %s and %s share the same %s id", a.Name, b.Name, prefix)
	}
	return fmt.Sprintf("a %s already exists with the same %s id as %s (%s). The existing folder is %s (%s)",
		prefix, prefix, a.Name, a.Location, b.Name, b.Location)
}

// checkValueLengths verifies that the zero-padded digit counts of all
// primary numeric values in the scope agree. Names whose primary value
// has no leading digit run cannot be compared for padding and are
// skipped; they still participate in duplicate detection above.
func checkValueLengths(entries []Entry, prefix Prefix) *Issue {
	widths := make(map[int]bool)
	counted := make(map[string]bool)
	for _, e := range entries {
		if counted[e.Name] {
			continue
		}
		counted[e.Name] = true

		value, ok := primaryValue(e.Name, prefix)
		if !ok {
			continue
		}
		run := leadingDigits(value)
		if run == 0 {
			continue
		}
		widths[run] = true
	}

	if len(widths) > 1 {
		return newIssue(InconsistentPadding, fmt.Sprintf(
			"inconsistent value lengths for the key %s were found. Ensure the number of digits for the %s value are the same and prefixed with leading zeros if required",
			prefix, prefix))
	}
	return nil
}

// samePrimaryID reports whether two names share a primary id. Numeric
// values compare by integer value so "sub-002" collides with
// "sub-2_id-b"; non-numeric values compare as strings.
func samePrimaryID(a, b string, prefix Prefix) bool {
	av, aok := primaryValue(a, prefix)
	bv, bok := primaryValue(b, prefix)
	if !aok || !bok {
		return false
	}
	an, aerr := strconv.Atoi(av)
	bn, berr := strconv.Atoi(bv)
	if aerr == nil && berr == nil {
		return an == bn
	}
	return av == bv
}

// primaryValue extracts the value following the prefix without running
// the full grammar, so folders created outside this tool can still be
// compared against candidates.
func primaryValue(name string, prefix Prefix) (string, bool) {
	rest, found := strings.CutPrefix(name, string(prefix)+"-")
	if !found {
		return "", false
	}
	value, _, _ := strings.Cut(rest, "_")
	if value == "" {
		return "", false
	}
	return value, true
}

// leadingDigits returns the length of the digit run at the start of a
// value, or 0 when the value does not start with a digit.
func leadingDigits(value string) int {
	n := 0
	for _, r := range value {
		if r < '0' || r > '9' {
			break
		}
		n++
	}
	return n
}
