// Package project orchestrates the per-project operations: creating
// standardized subject/session folder trees, validating existing names
// across local and central storage, and suggesting the next free
// subject or session number.
package project

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neuroblueprint/shuttle/internal/config"
	"github.com/neuroblueprint/shuttle/internal/logger"
	"github.com/neuroblueprint/shuttle/internal/names"
)

// Project binds a named project's configuration and persistent
// settings to the storage backends its operations act on.
type Project struct {
	Name     string
	Config   *config.Config
	Settings *config.PersistentSettings

	// Clock is used for @DATE@/@TIME@/@DATETIME@ expansion. Nil means
	// time.Now.
	Clock names.Clock

	local   Lister
	central Lister
}

// New loads an existing project from the metadata registry.
func New(name string) (*Project, error) {
	configPath, err := config.ConfigPath(name)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath, name)
	if err != nil {
		return nil, err
	}

	settingsPath, err := config.SettingsPath(name)
	if err != nil {
		return nil, err
	}
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}

	return NewWithConfig(name, cfg, settings), nil
}

// NewWithConfig builds a project from in-memory configuration, without
// touching the metadata registry.
func NewWithConfig(name string, cfg *config.Config, settings *config.PersistentSettings) *Project {
	return &Project{
		Name:     name,
		Config:   cfg,
		Settings: settings,
		local:    LocalLister{},
	}
}

// SetCentralLister installs the backend used to reach central storage
// over SSH. For local-filesystem projects this is not needed.
func (p *Project) SetCentralLister(l Lister) {
	p.central = l
}

// SaveSettings persists the project's settings to the registry.
func (p *Project) SaveSettings() error {
	path, err := config.SettingsPath(p.Name)
	if err != nil {
		return err
	}
	return config.SaveSettings(p.Settings, path)
}

// Templates returns the stored name templates in checkable form.
func (p *Project) Templates() names.Templates {
	t := p.Settings.NameTemplates
	return names.Templates{On: t.On, Sub: t.Sub, Ses: t.Ses}
}

// SetNameTemplates stores and persists new name templates.
func (p *Project) SetNameTemplates(t names.Templates) error {
	p.Settings.NameTemplates = config.NameTemplates{On: t.On, Sub: t.Sub, Ses: t.Ses}
	return p.SaveSettings()
}

// SetTopLevelFolder switches the folder all operations act under.
func (p *Project) SetTopLevelFolder(name string) error {
	if !config.IsTopLevelFolder(name) {
		return fmt.Errorf("top level folder %q is not recognized, must be one of %v",
			name, config.TopLevelFolders)
	}
	p.Settings.TopLevelFolder = name
	return p.SaveSettings()
}

func (p *Project) clock() names.Clock {
	if p.Clock != nil {
		return p.Clock
	}
	return time.Now
}

// MakeFolders formats the requested subject and session names, checks
// them against the local project in error mode, and creates the folder
// tree. It returns the leaf paths that were ensured.
//
// Central storage is deliberately not consulted here: creation must
// work offline, and the full cross-location check runs before any
// transfer.
func (p *Project) MakeFolders(ctx context.Context, subNames, sesNames, datatypes []string) ([]string, error) {
	if len(subNames) == 0 {
		return nil, errors.New("at least one subject name is required")
	}
	if len(datatypes) > 0 && len(sesNames) == 0 {
		return nil, errors.New("datatype folders require at least one session name")
	}
	datatypes, err := expandDatatypes(datatypes)
	if err != nil {
		return nil, err
	}

	tpl := p.Templates()
	subs, err := names.FormatNames(subNames, names.Sub, tpl, p.clock())
	if err != nil {
		return nil, err
	}
	var sess []string
	if len(sesNames) > 0 {
		sess, err = names.FormatNames(sesNames, names.Ses, tpl, p.clock())
		if err != nil {
			return nil, err
		}
	}

	existingSubs, err := p.subjectSet(ctx, false)
	if err != nil {
		return nil, err
	}
	if _, err := names.Resolve(names.CheckLevel(subs, existingSubs, names.Sub), names.ModeError); err != nil {
		return nil, err
	}
	for _, sub := range subs {
		existingSess, err := p.sessionSet(ctx, sub, false)
		if err != nil {
			return nil, err
		}
		if _, err := names.Resolve(names.CheckLevel(sess, existingSess, names.Ses), names.ModeError); err != nil {
			return nil, err
		}
	}

	created, err := makeTree(p.Config.LocalPath, p.Settings.TopLevelFolder, subs, sess, datatypes)
	if err != nil {
		return nil, err
	}
	logger.Info("made folders", "project", p.Name, "count", len(created))
	return created, nil
}

// ValidateProject scans the existing folder names and reports every
// naming problem found. In error mode the first issue in scan order is
// returned as the error; in warn mode all issues come back as
// warnings. Subjects are checked before sessions and, within a level,
// local folders before central ones.
func (p *Project) ValidateProject(ctx context.Context, mode names.Mode, includeCentral bool) ([]*names.Issue, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("mode %q is not recognized, must be %q or %q",
			mode, names.ModeError, names.ModeWarn)
	}

	tpl := p.Templates()

	subSet, err := p.subjectSet(ctx, includeCentral)
	if err != nil {
		return nil, err
	}
	issues, err := checkEntries(subSet, names.Sub, tpl)
	if err != nil {
		return nil, err
	}
	if mode == names.ModeError && len(issues) > 0 {
		return names.Resolve(issues, mode)
	}

	for _, sub := range subSet.Names() {
		sesSet, err := p.sessionSet(ctx, sub, includeCentral)
		if err != nil {
			return nil, err
		}
		sesIssues, err := checkEntries(sesSet, names.Ses, tpl)
		if err != nil {
			return nil, err
		}
		issues = append(issues, sesIssues...)
		if mode == names.ModeError && len(issues) > 0 {
			break
		}
	}

	return names.Resolve(issues, mode)
}

// checkEntries runs the per-name checks (grammar, template) over a
// scanned set, then the cross-name checks (duplicate ids, padding).
func checkEntries(set *names.NameSet, prefix names.Prefix, tpl names.Templates) ([]*names.Issue, error) {
	var issues []*names.Issue
	for _, name := range set.Names() {
		if _, err := names.Parse(name, prefix); err != nil {
			issue, ok := asIssue(err)
			if !ok {
				return nil, err
			}
			issues = append(issues, issue)
			continue
		}
		if err := names.MatchTemplate(name, prefix, tpl); err != nil {
			issue, ok := asIssue(err)
			if !ok {
				return nil, err
			}
			issues = append(issues, issue)
		}
	}
	return append(issues, names.CheckLevel(nil, set, prefix)...), nil
}

func asIssue(err error) (*names.Issue, bool) {
	var issue *names.Issue
	if errors.As(err, &issue) {
		return issue, true
	}
	return nil, false
}

// NextSubNumber suggests the next unused subject number, e.g.
// "sub-004".
func (p *Project) NextSubNumber(ctx context.Context, includeCentral bool) (string, error) {
	set, err := p.subjectSet(ctx, includeCentral)
	if err != nil {
		return "", err
	}
	return names.SuggestNext(set.Names(), names.Sub, names.SuggestOptions{WithPrefix: true})
}

// NextSesNumber suggests the next unused session number within one
// subject.
func (p *Project) NextSesNumber(ctx context.Context, sub string, includeCentral bool) (string, error) {
	set, err := p.sessionSet(ctx, sub, includeCentral)
	if err != nil {
		return "", err
	}
	return names.SuggestNext(set.Names(), names.Ses, names.SuggestOptions{WithPrefix: true})
}

// subjectSet scans the subject folders under the active top level
// folder, local first and then central when requested.
func (p *Project) subjectSet(ctx context.Context, includeCentral bool) (*names.NameSet, error) {
	set := names.NewNameSet()

	local, err := p.local.ListDirs(
		ctx, p.local.Join(p.Config.LocalPath, p.Settings.TopLevelFolder), names.Sub)
	if err != nil {
		return nil, err
	}
	set.Add(names.Local, local...)

	if includeCentral {
		lister, err := p.centralLister()
		if err != nil {
			return nil, err
		}
		central, err := lister.ListDirs(
			ctx, lister.Join(p.Config.CentralPath, p.Settings.TopLevelFolder), names.Sub)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCentralUnavailable, err)
		}
		set.Add(names.Central, central...)
	}

	return set, nil
}

// sessionSet scans the session folders of a single subject.
func (p *Project) sessionSet(ctx context.Context, sub string, includeCentral bool) (*names.NameSet, error) {
	set := names.NewNameSet()

	local, err := p.local.ListDirs(
		ctx, p.local.Join(p.Config.LocalPath, p.Settings.TopLevelFolder, sub), names.Ses)
	if err != nil {
		return nil, err
	}
	set.Add(names.Local, local...)

	if includeCentral {
		lister, err := p.centralLister()
		if err != nil {
			return nil, err
		}
		central, err := lister.ListDirs(
			ctx, lister.Join(p.Config.CentralPath, p.Settings.TopLevelFolder, sub), names.Ses)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCentralUnavailable, err)
		}
		set.Add(names.Central, central...)
	}

	return set, nil
}

func (p *Project) centralLister() (Lister, error) {
	if p.central != nil {
		return p.central, nil
	}
	if p.Config.ConnectionMethod == config.ConnectionLocalFilesystem {
		return LocalLister{}, nil
	}
	return nil, fmt.Errorf("%w: no ssh connection has been established", ErrCentralUnavailable)
}
