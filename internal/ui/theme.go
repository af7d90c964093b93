// Package ui provides the terminal presentation layer: the init
// wizard, transfer progress display and headless-mode detection so
// every command also works in scripts and on HPC job schedulers.
package ui

import "os"

// Palette holds the color values used by interactive components.
type Palette struct {
	Primary   string
	Secondary string
	Success   string
	Error     string
}

// Theme bundles the palette with the NoColor switch.
type Theme struct {
	NoColor bool
	Colors  Palette
}

// NewTheme returns the default theme. The NO_COLOR convention is
// honored.
func NewTheme() *Theme {
	return &Theme{
		NoColor: os.Getenv("NO_COLOR") != "",
		Colors: Palette{
			Primary:   "#5A9BD5",
			Secondary: "#8E6BC8",
			Success:   "#3FB950",
			Error:     "#F85149",
		},
	}
}
