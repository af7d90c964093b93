package ui

import (
	"maps"
	"os"

	"github.com/mattn/go-isatty"
)

// HeadlessManager decides whether the UI may take over the terminal.
// Without a TTY (scripts, CI, HPC batch jobs) every component falls
// back to plain line output and wizard answers come from defaults.
//
// Detection order: an explicit ForceHeadless override, then the
// SHUTTLE_HEADLESS environment variable, then the TTY state of stdin
// and stdout. Piped output counts as headless so command output stays
// parseable.
type HeadlessManager struct {
	forced   *bool
	defaults map[string]string
}

// NewHeadlessManager returns a manager using automatic detection.
func NewHeadlessManager() *HeadlessManager {
	return &HeadlessManager{}
}

// IsHeadless reports whether interactive components must be avoided.
func (h *HeadlessManager) IsHeadless() bool {
	if h.forced != nil {
		return *h.forced
	}
	if os.Getenv("SHUTTLE_HEADLESS") != "" {
		return true
	}
	return !isTTY(os.Stdin) || !isTTY(os.Stdout)
}

func isTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ForceHeadless overrides detection in either direction.
func (h *HeadlessManager) ForceHeadless(force bool) {
	h.forced = &force
}

// ClearForce reverts to automatic detection.
func (h *HeadlessManager) ClearForce() {
	h.forced = nil
}

// SetDefaults stores the answers used when the init wizard runs
// headless. Keys match the wizard fields: "project_name",
// "connection_method", "local_path", "central_path",
// "central_host_id", "central_host_username". Nil or empty clears the
// stored answers.
func (h *HeadlessManager) SetDefaults(defaults map[string]string) {
	if len(defaults) == 0 {
		h.defaults = nil
		return
	}
	h.defaults = make(map[string]string, len(defaults))
	maps.Copy(h.defaults, defaults)
}

// GetDefault retrieves a stored answer by key.
func (h *HeadlessManager) GetDefault(key string) (string, bool) {
	if h.defaults == nil {
		return "", false
	}
	v, ok := h.defaults[key]
	return v, ok
}

// HasDefaults reports whether any answer has been stored.
func (h *HeadlessManager) HasDefaults() bool {
	return len(h.defaults) > 0
}
