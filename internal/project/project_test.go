package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuroblueprint/shuttle/internal/config"
	"github.com/neuroblueprint/shuttle/internal/names"
)

func testProject(t *testing.T) *Project {
	t.Helper()
	base := t.TempDir()

	cfg := config.NewDefaultConfig()
	cfg.LocalPath = filepath.Join(base, "local", "my_project")
	cfg.CentralPath = filepath.Join(base, "central", "my_project")
	cfg.ConnectionMethod = config.ConnectionLocalFilesystem

	p := NewWithConfig("my_project", cfg, config.NewDefaultSettings())
	p.Clock = func() time.Time {
		return time.Date(2024, 3, 5, 14, 30, 59, 0, time.UTC)
	}
	return p
}

func mkdirs(t *testing.T, base string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		require.NoError(t, os.MkdirAll(filepath.Join(base, filepath.FromSlash(r)), 0o755))
	}
}

func TestMakeFoldersFullTree(t *testing.T) {
	p := testProject(t)

	created, err := p.MakeFolders(context.Background(),
		[]string{"sub-001", "002"},
		[]string{"ses-001"},
		[]string{"behav", "ephys"})
	require.NoError(t, err)
	assert.Len(t, created, 4)

	for _, rel := range []string{
		"rawdata/sub-001/ses-001/behav",
		"rawdata/sub-001/ses-001/ephys",
		"rawdata/sub-002/ses-001/behav",
		"rawdata/sub-002/ses-001/ephys",
	} {
		assert.DirExists(t, filepath.Join(p.Config.LocalPath, filepath.FromSlash(rel)))
	}
}

func TestMakeFoldersExpandsAllDatatypes(t *testing.T) {
	p := testProject(t)

	created, err := p.MakeFolders(context.Background(),
		[]string{"sub-001"}, []string{"ses-001"}, []string{"all"})
	require.NoError(t, err)
	assert.Len(t, created, len(config.Datatypes))

	for _, dt := range config.Datatypes {
		assert.DirExists(t, filepath.Join(p.Config.LocalPath, "rawdata", "sub-001", "ses-001", dt))
	}
}

func TestMakeFoldersIsIdempotent(t *testing.T) {
	p := testProject(t)

	_, err := p.MakeFolders(context.Background(), []string{"sub-001"}, []string{"ses-001"}, nil)
	require.NoError(t, err)

	// Re-creating byte-identical names never conflicts.
	_, err = p.MakeFolders(context.Background(), []string{"sub-001"}, []string{"ses-001"}, nil)
	assert.NoError(t, err)
}

func TestMakeFoldersRejectsDuplicateID(t *testing.T) {
	p := testProject(t)

	_, err := p.MakeFolders(context.Background(), []string{"sub-001"}, nil, nil)
	require.NoError(t, err)

	_, err = p.MakeFolders(context.Background(), []string{"sub-1_id-a"}, nil, nil)
	require.ErrorIs(t, err, names.ErrDuplicateID)
	assert.ErrorContains(t, err, "sub-1_id-a")
	assert.ErrorContains(t, err, "sub-001")
}

func TestMakeFoldersRejectsInconsistentPadding(t *testing.T) {
	p := testProject(t)

	_, err := p.MakeFolders(context.Background(), []string{"sub-001"}, nil, nil)
	require.NoError(t, err)

	_, err = p.MakeFolders(context.Background(), []string{"sub-02"}, nil, nil)
	assert.ErrorIs(t, err, names.ErrInconsistentPadding)
}

func TestMakeFoldersExpandsTags(t *testing.T) {
	p := testProject(t)

	_, err := p.MakeFolders(context.Background(), []string{"sub-001@TO@003"}, []string{"ses-001_@DATE@"}, nil)
	require.NoError(t, err)

	for _, sub := range []string{"sub-001", "sub-002", "sub-003"} {
		assert.DirExists(t, filepath.Join(
			p.Config.LocalPath, "rawdata", sub, "ses-001_date-20240305"))
	}
}

func TestMakeFoldersInputRules(t *testing.T) {
	p := testProject(t)

	_, err := p.MakeFolders(context.Background(), nil, nil, nil)
	assert.ErrorContains(t, err, "at least one subject")

	_, err = p.MakeFolders(context.Background(), []string{"sub-001"}, nil, []string{"behav"})
	assert.ErrorContains(t, err, "require at least one session")

	_, err = p.MakeFolders(context.Background(), []string{"sub-001"}, []string{"ses-001"}, []string{"eeg"})
	assert.ErrorContains(t, err, "not recognized")
}

func TestMakeFoldersEnforcesTemplates(t *testing.T) {
	p := testProject(t)
	require.NoError(t, os.MkdirAll(p.Config.LocalPath, 0o755))
	p.Settings.NameTemplates = config.NameTemplates{On: true, Sub: `sub-\d\d\d_id-.+`}

	_, err := p.MakeFolders(context.Background(), []string{"sub-001"}, nil, nil)
	require.ErrorIs(t, err, names.ErrTemplateMismatch)

	_, err = p.MakeFolders(context.Background(), []string{"sub-001_id-4fe8"}, nil, nil)
	assert.NoError(t, err)
}

func TestValidateProjectWarnModeCollectsAcrossLocations(t *testing.T) {
	p := testProject(t)
	mkdirs(t, p.Config.LocalPath, "rawdata/sub-001", "rawdata/sub-001/ses-001")
	mkdirs(t, p.Config.CentralPath, "rawdata/sub-02")

	issues, err := p.ValidateProject(context.Background(), names.ModeWarn, true)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, names.SeverityWarning, issues[0].Severity)
	assert.Equal(t, names.InconsistentPadding, issues[0].Kind)
}

func TestValidateProjectErrorModeStopsAtFirstIssue(t *testing.T) {
	p := testProject(t)
	mkdirs(t, p.Config.LocalPath,
		"rawdata/sub-001",
		"rawdata/sub-1_id-a",
		"rawdata/sub-001/ses-01",
		"rawdata/sub-001/ses-002")

	_, err := p.ValidateProject(context.Background(), names.ModeError, false)
	// The subject-level duplicate is reported before the session-level
	// padding problem.
	require.ErrorIs(t, err, names.ErrDuplicateID)
}

func TestValidateProjectSessionPaddingIsPerSubject(t *testing.T) {
	p := testProject(t)
	mkdirs(t, p.Config.LocalPath,
		"rawdata/sub-001/ses-01",
		"rawdata/sub-002/ses-001")

	issues, err := p.ValidateProject(context.Background(), names.ModeWarn, false)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidateProjectCleanTree(t *testing.T) {
	p := testProject(t)
	mkdirs(t, p.Config.LocalPath,
		"rawdata/sub-001/ses-001",
		"rawdata/sub-002/ses-001")
	mkdirs(t, p.Config.CentralPath, "rawdata/sub-001/ses-001")

	issues, err := p.ValidateProject(context.Background(), names.ModeWarn, true)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestNextNumbers(t *testing.T) {
	p := testProject(t)
	mkdirs(t, p.Config.LocalPath,
		"rawdata/sub-001/ses-001",
		"rawdata/sub-002/ses-001",
		"rawdata/sub-002/ses-002")
	mkdirs(t, p.Config.CentralPath, "rawdata/sub-003")

	next, err := p.NextSubNumber(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "sub-003", next)

	next, err = p.NextSubNumber(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, "sub-004", next)

	next, err = p.NextSesNumber(context.Background(), "sub-002", false)
	require.NoError(t, err)
	assert.Equal(t, "ses-003", next)
}

func TestNextNumbersEmptyProject(t *testing.T) {
	p := testProject(t)

	next, err := p.NextSubNumber(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "sub-001", next)
}

func TestCentralRequiresConnectionForSSH(t *testing.T) {
	p := testProject(t)
	p.Config.ConnectionMethod = config.ConnectionSSH

	_, err := p.ValidateProject(context.Background(), names.ModeWarn, true)
	assert.ErrorIs(t, err, ErrCentralUnavailable)
}
