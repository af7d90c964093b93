// Package names implements the subject/session naming engine: parsing
// key-value folder names, expanding placeholder tags, matching name
// templates, detecting cross-location naming conflicts and suggesting
// the next available subject or session number.
package names

import (
	"fmt"
	"strings"
	"unicode"
)

// Prefix identifies the hierarchy level a name belongs to.
type Prefix string

const (
	// Sub is the subject-level prefix ("sub").
	Sub Prefix = "sub"
	// Ses is the session-level prefix ("ses").
	Ses Prefix = "ses"
)

// IsValid reports whether p is one of the two recognized prefixes.
func (p Prefix) IsValid() bool {
	return p == Sub || p == Ses
}

// Component is a single key-value pair within a folder name.
type Component struct {
	Key   string
	Value string
}

// ParsedName is an ordered sequence of key-value components plus the
// raw string it was parsed from. The first component's key is always
// the prefix ("sub" or "ses") and its value is the primary value used
// for duplicate and numbering logic.
type ParsedName struct {
	Raw        string
	Components []Component
}

// PrimaryValue returns the value of the leading prefix component.
func (n ParsedName) PrimaryValue() string {
	return n.Components[0].Value
}

// String re-serializes the components with "-"/"_" joiners. For a
// successfully parsed name this reproduces the raw input exactly.
func (n ParsedName) String() string {
	parts := make([]string, len(n.Components))
	for i, c := range n.Components {
		parts[i] = c.Key + "-" + c.Value
	}
	return strings.Join(parts, "_")
}

// Parse splits a folder name of the form prefix-value[_key-value]* into
// its components. It fails with an InvalidCharacter issue when a
// component lacks a "-", the first key does not equal the expected
// prefix, a key or value contains disallowed characters, or a key is
// repeated.
//
// A primary value equal to a prefix literal is rejected explicitly:
// a malformed input like "sub_100" is auto-prefixed to "sub-sub_100"
// upstream, and the resulting "sub" value must not silently parse.
func Parse(name string, prefix Prefix) (ParsedName, error) {
	if !prefix.IsValid() {
		return ParsedName{}, fmt.Errorf("names: prefix must be %q or %q, got %q", Sub, Ses, prefix)
	}

	parts := strings.Split(name, "_")
	parsed := ParsedName{Raw: name, Components: make([]Component, 0, len(parts))}
	seen := make(map[string]bool, len(parts))

	for i, part := range parts {
		key, value, found := strings.Cut(part, "-")
		if !found {
			return ParsedName{}, newIssue(InvalidCharacter,
				fmt.Sprintf("name %q is not composed of key-value pairs: component %q has no '-'", name, part))
		}
		if err := checkKey(key, name); err != nil {
			return ParsedName{}, err
		}
		if err := checkValue(value, name); err != nil {
			return ParsedName{}, err
		}
		if i == 0 {
			if key != string(prefix) {
				return ParsedName{}, newIssue(InvalidCharacter,
					fmt.Sprintf("the first key of name %q must be %q", name, prefix))
			}
			if value == string(Sub) || value == string(Ses) {
				return ParsedName{}, newIssue(InvalidCharacter,
					fmt.Sprintf("invalid character in subject or session value: %s", value))
			}
		}
		if seen[key] {
			return ParsedName{}, newIssue(InvalidCharacter,
				fmt.Sprintf("name %q contains the key %q more than once", name, key))
		}
		seen[key] = true
		parsed.Components = append(parsed.Components, Component{Key: key, Value: value})
	}

	return parsed, nil
}

// checkKey rejects empty keys and keys containing delimiters or whitespace.
// "-" cannot occur here as keys are produced by cutting on the first "-".
func checkKey(key, name string) error {
	if key == "" {
		return newIssue(InvalidCharacter,
			fmt.Sprintf("name %q contains a component with an empty key", name))
	}
	if strings.ContainsFunc(key, unicode.IsSpace) {
		return newIssue(InvalidCharacter,
			fmt.Sprintf("invalid character in key %q of name %q: keys must not contain whitespace", key, name))
	}
	return nil
}

// checkValue rejects empty values and values containing whitespace.
// Values are otherwise unconstrained; ids such as "id-@" are permitted.
func checkValue(value, name string) error {
	if value == "" {
		return newIssue(InvalidCharacter,
			fmt.Sprintf("name %q contains a component with an empty value", name))
	}
	if strings.ContainsFunc(value, unicode.IsSpace) {
		return newIssue(InvalidCharacter,
			fmt.Sprintf("invalid character in value %q of name %q: values must not contain whitespace", value, name))
	}
	return nil
}
