package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrHeadlessNoDefaults is returned when the wizard runs without a TTY
// and no answers were provided up front.
var ErrHeadlessNoDefaults = errors.New("running without a terminal: pass the project settings as flags")

// WizardResult carries the answers of the project initialization
// wizard.
type WizardResult struct {
	ProjectName         string
	ConnectionMethod    string
	LocalPath           string
	CentralPath         string
	CentralHostID       string
	CentralHostUsername string
}

// Wizard walks the user through setting up a new project.
type Wizard interface {
	Run(ctx context.Context) (*WizardResult, error)
}

type wizardImpl struct {
	theme    *Theme
	headless *HeadlessManager
}

// NewWizard creates a Wizard backed by the given theme and headless
// manager.
func NewWizard(theme *Theme, hm *HeadlessManager) Wizard {
	return &wizardImpl{theme: theme, headless: hm}
}

// Run executes the wizard. In headless mode the result is built from
// stored defaults instead of prompting.
func (w *wizardImpl) Run(ctx context.Context) (*WizardResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if w.headless.IsHeadless() {
		return w.runHeadless()
	}
	return w.runInteractive(ctx)
}

func (w *wizardImpl) runHeadless() (*WizardResult, error) {
	if !w.headless.HasDefaults() {
		return nil, ErrHeadlessNoDefaults
	}

	result := &WizardResult{}
	fields := map[string]*string{
		"project_name":          &result.ProjectName,
		"connection_method":     &result.ConnectionMethod,
		"local_path":            &result.LocalPath,
		"central_path":          &result.CentralPath,
		"central_host_id":       &result.CentralHostID,
		"central_host_username": &result.CentralHostUsername,
	}
	for key, dst := range fields {
		if v, ok := w.headless.GetDefault(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	return result, nil
}

func (w *wizardImpl) runInteractive(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{ConnectionMethod: "local_filesystem"}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Placeholder("my_project").
				Validate(notEmpty("project name")).
				Value(&result.ProjectName),
			huh.NewSelect[string]().
				Title("Connection method").
				Options(
					huh.NewOption("Local filesystem (mounted drive)", "local_filesystem"),
					huh.NewOption("SSH", "ssh"),
				).
				Value(&result.ConnectionMethod),
			huh.NewInput().
				Title("Local path").
				Description("Full path the local project lives at, ending in the project name").
				Validate(notEmpty("local path")).
				Value(&result.LocalPath),
			huh.NewInput().
				Title("Central path").
				Description("Full path to the central copy of the project").
				Validate(notEmpty("central path")).
				Value(&result.CentralPath),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Central host").
				Placeholder("hpc.example.ac.uk").
				Validate(notEmpty("central host")).
				Value(&result.CentralHostID),
			huh.NewInput().
				Title("Username on the central host").
				Validate(notEmpty("username")).
				Value(&result.CentralHostUsername),
		).WithHideFunc(func() bool {
			return result.ConnectionMethod != "ssh"
		}),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

func notEmpty(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("the %s must not be empty", what)
		}
		return nil
	}
}
