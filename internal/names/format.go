package names

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FormatNames runs the full formatting pipeline over a batch of
// requested subject or session names:
//
//  1. NFC-normalize each name.
//  2. Prepend "sub-"/"ses-" when the name does not already start with it.
//  3. Expand @TO@ ranges into runs of names.
//  4. Expand @DATE@/@TIME@/@DATETIME@ tags against the clock.
//  5. Parse every name; grammar failures abort the whole batch.
//  6. Reject duplicate full names within the batch.
//  7. Match against the name templates when they are switched on.
//
// On success the formatted raw names are returned in order.
func FormatNames(namesIn []string, prefix Prefix, templates Templates, clock Clock) ([]string, error) {
	if !prefix.IsValid() {
		return nil, fmt.Errorf("names: prefix must be %q or %q, got %q", Sub, Ses, prefix)
	}

	formatted := make([]string, 0, len(namesIn))
	for _, name := range namesIn {
		name = norm.NFC.String(name)
		name = ensurePrefix(name, prefix)

		expanded, err := ExpandRange(name, prefix)
		if err != nil {
			return nil, err
		}
		for _, e := range expanded {
			formatted = append(formatted, ExpandTags(e, clock))
		}
	}

	seen := make(map[string]bool, len(formatted))
	for _, name := range formatted {
		if _, err := Parse(name, prefix); err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, newIssue(InvalidCharacter,
				fmt.Sprintf("name %q appears more than once in the requested names", name))
		}
		seen[name] = true

		if err := MatchTemplate(name, prefix, templates); err != nil {
			return nil, err
		}
	}

	return formatted, nil
}

// ensurePrefix prepends "sub-"/"ses-" to names passed without it, so
// bare values like "001" become "sub-001". A malformed "sub_100" does
// not carry the prefix and becomes "sub-sub_100", which the parser then
// rejects.
func ensurePrefix(name string, prefix Prefix) string {
	lead := string(prefix) + "-"
	if strings.HasPrefix(name, lead) {
		return name
	}
	return lead + name
}
