package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// NameTemplates holds optional regular expressions that subject and
// session names must match when template checking is switched on.
type NameTemplates struct {
	On  bool   `yaml:"on"`
	Sub string `yaml:"sub"`
	Ses string `yaml:"ses"`
}

// TuiSettings remembers interactive selections between sessions.
type TuiSettings struct {
	CheckboxesOn map[string]bool `yaml:"checkboxes_on"`
}

// PersistentSettings are per-project preferences that live alongside
// the configuration but change more often than it does.
type PersistentSettings struct {
	TopLevelFolder string        `yaml:"top_level_folder"`
	Tui            TuiSettings   `yaml:"tui"`
	NameTemplates  NameTemplates `yaml:"name_templates"`
}

// Datatypes are the canonical session-level folder names.
var Datatypes = []string{"ephys", "behav", "funcimg", "anat"}

// TopLevelFolders are the only folder names allowed directly under the
// project root.
var TopLevelFolders = []string{"rawdata", "derivatives"}

// IsTopLevelFolder reports whether name is a canonical top-level folder.
func IsTopLevelFolder(name string) bool {
	for _, f := range TopLevelFolders {
		if name == f {
			return true
		}
	}
	return false
}

// IsDatatype reports whether name is a canonical datatype folder.
func IsDatatype(name string) bool {
	for _, d := range Datatypes {
		if name == d {
			return true
		}
	}
	return false
}

// NewDefaultSettings returns the settings a freshly initialized project
// starts with. Every datatype checkbox starts checked.
func NewDefaultSettings() *PersistentSettings {
	boxes := make(map[string]bool, len(Datatypes))
	for _, d := range Datatypes {
		boxes[d] = true
	}
	return &PersistentSettings{
		TopLevelFolder: "rawdata",
		Tui:            TuiSettings{CheckboxesOn: boxes},
		NameTemplates:  NameTemplates{},
	}
}

// LoadSettings reads settings from path. A missing file yields the
// defaults rather than an error, and files written by older releases
// are upgraded in place: absent keys keep their default values while
// unknown keys are dropped on the next save.
func LoadSettings(path string) (*PersistentSettings, error) {
	settings := NewDefaultSettings()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	if !IsTopLevelFolder(settings.TopLevelFolder) {
		return nil, &ValidationError{
			Field:   "top_level_folder",
			Message: fmt.Sprintf("must be one of %v", TopLevelFolders),
			Value:   settings.TopLevelFolder,
			Wrapped: ErrInvalidConfig,
		}
	}

	if settings.Tui.CheckboxesOn == nil {
		settings.Tui.CheckboxesOn = NewDefaultSettings().Tui.CheckboxesOn
	}
	for _, d := range Datatypes {
		if _, ok := settings.Tui.CheckboxesOn[d]; !ok {
			settings.Tui.CheckboxesOn[d] = true
		}
	}

	return settings, nil
}

// SaveSettings writes settings to path, creating parent folders as
// needed.
func SaveSettings(settings *PersistentSettings, path string) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating settings folder: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}
