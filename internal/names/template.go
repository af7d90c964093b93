package names

import (
	"fmt"
	"regexp"
)

// Templates holds the optional regular-expression templates that
// candidate names are matched against. When On is false the matcher is
// skipped entirely; stored templates stay persisted but inert.
type Templates struct {
	On  bool
	Sub string
	Ses string
}

// forPrefix returns the template configured for the given level, or ""
// when none is set.
func (t Templates) forPrefix(prefix Prefix) string {
	if prefix == Sub {
		return t.Sub
	}
	return t.Ses
}

// MatchTemplate checks the raw candidate name against the configured
// template for its prefix. The whole name must match. A mismatch
// produces a TemplateMismatch issue carrying both the rejected name and
// the template verbatim.
func MatchTemplate(name string, prefix Prefix, templates Templates) error {
	if !templates.On {
		return nil
	}
	pattern := templates.forPrefix(prefix)
	if pattern == "" {
		return nil
	}

	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return fmt.Errorf("names: invalid %s name template %q: %w", prefix, pattern, err)
	}
	if !re.MatchString(name) {
		return newIssue(TemplateMismatch,
			fmt.Sprintf("the name %s does not match the name template %s", name, pattern))
	}
	return nil
}
