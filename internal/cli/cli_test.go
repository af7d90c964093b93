package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuroblueprint/shuttle/internal/names"
)

// execute runs the command tree once and resets flag state so tests do
// not leak into each other.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	InitDependencies()
	deps.Headless.ForceHeadless(true)

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	resetFlags(rootCmd)
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// setupProject initializes a project inside an isolated home and
// returns its local path.
func setupProject(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	base := t.TempDir()
	localPath := filepath.Join(base, "local", "my_project")
	centralPath := filepath.Join(base, "central", "my_project")
	require.NoError(t, os.MkdirAll(filepath.Dir(localPath), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(centralPath), 0o755))

	_, err := execute(t, "init", "my_project",
		"--non-interactive",
		"--connection-method", "local_filesystem",
		"--local-path", localPath,
		"--central-path", centralPath)
	require.NoError(t, err)
	return localPath
}

func TestInitCreatesConfigAndSettings(t *testing.T) {
	setupProject(t)

	out, err := execute(t, "config", "show", "my_project")
	require.NoError(t, err)
	assert.Contains(t, out, "connection_method: local_filesystem")
	assert.Contains(t, out, "transfer_verbosity: v")

	out, err = execute(t, "projects")
	require.NoError(t, err)
	assert.Contains(t, out, "my_project")
}

func TestInitRejectsMismatchedPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	base := t.TempDir()

	_, err := execute(t, "init", "my_project",
		"--non-interactive",
		"--connection-method", "local_filesystem",
		"--local-path", filepath.Join(base, "other_name"),
		"--central-path", filepath.Join(base, "my_project"),
		"--skip-parent-check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must end in the project name")
}

func TestConfigSetRoundTrip(t *testing.T) {
	setupProject(t)

	_, err := execute(t, "config", "set", "my_project", "overwrite_old_files", "true")
	require.NoError(t, err)

	out, err := execute(t, "config", "show", "my_project")
	require.NoError(t, err)
	assert.Contains(t, out, "overwrite_old_files: true")

	_, err = execute(t, "config", "set", "my_project", "no_such_key", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_key")
}

func TestCreateValidateAndNext(t *testing.T) {
	localPath := setupProject(t)

	out, err := execute(t, "create", "my_project",
		"--sub", "001", "--sub", "002",
		"--ses", "001",
		"--datatype", "behav")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(localPath, "rawdata", "sub-001", "ses-001", "behav"))

	out, err = execute(t, "validate", "my_project", "--mode", "warn")
	require.NoError(t, err)
	assert.Contains(t, out, "No naming problems found.")

	out, err = execute(t, "next-sub", "my_project")
	require.NoError(t, err)
	assert.Equal(t, "sub-003\n", out)

	out, err = execute(t, "next-ses", "my_project", "sub-001")
	require.NoError(t, err)
	assert.Equal(t, "ses-002\n", out)
}

func TestValidateErrorModeFailsOnDuplicateID(t *testing.T) {
	localPath := setupProject(t)
	require.NoError(t, os.MkdirAll(filepath.Join(localPath, "rawdata", "sub-001"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(localPath, "rawdata", "sub-1_id-a"), 0o755))

	_, err := execute(t, "validate", "my_project", "--mode", "error")
	assert.ErrorIs(t, err, names.ErrDuplicateID)
}

func TestNameFormatPreview(t *testing.T) {
	setupProject(t)

	out, err := execute(t, "format", "my_project", "--sub", "sub-001@TO@003")
	require.NoError(t, err)
	assert.Equal(t, "sub-001\nsub-002\nsub-003\n", out)
}

func TestTemplatesSetAndEnforce(t *testing.T) {
	setupProject(t)

	_, err := execute(t, "templates", "set", "my_project",
		"--on", "--sub", `sub-\d\d\d_id-.+`)
	require.NoError(t, err)

	out, err := execute(t, "templates", "show", "my_project")
	require.NoError(t, err)
	assert.Contains(t, out, "on: true")
	assert.Contains(t, out, `sub: sub-\d\d\d_id-.+`)

	_, err = execute(t, "create", "my_project", "--sub", "001")
	assert.ErrorIs(t, err, names.ErrTemplateMismatch)

	_, err = execute(t, "create", "my_project", "--sub", "sub-001_id-4fe8")
	assert.NoError(t, err)
}

func TestTopLevelSwitch(t *testing.T) {
	localPath := setupProject(t)

	out, err := execute(t, "top-level", "show", "my_project")
	require.NoError(t, err)
	assert.Equal(t, "rawdata\n", out)

	_, err = execute(t, "top-level", "set", "my_project", "derivatives")
	require.NoError(t, err)

	_, err = execute(t, "create", "my_project", "--sub", "001")
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(localPath, "derivatives", "sub-001"))

	_, err = execute(t, "top-level", "set", "my_project", "sourcedata")
	assert.Error(t, err)
}

func TestUploadAndDownload(t *testing.T) {
	localPath := setupProject(t)

	dataFile := filepath.Join(localPath, "rawdata", "sub-001", "ses-001", "behav", "trials.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(dataFile), 0o755))
	require.NoError(t, os.WriteFile(dataFile, []byte("a,b\n"), 0o644))

	out, err := execute(t, "upload", "my_project")
	require.NoError(t, err)
	assert.Contains(t, out, "transferred 1 file(s)")

	// A second upload finds nothing new to do.
	out, err = execute(t, "upload", "my_project")
	require.NoError(t, err)
	assert.Contains(t, out, "transferred 0 file(s)")

	// Remove the local copy and download it back.
	require.NoError(t, os.RemoveAll(filepath.Join(localPath, "rawdata")))
	out, err = execute(t, "download", "my_project")
	require.NoError(t, err)
	assert.Contains(t, out, "transferred 1 file(s)")
	assert.FileExists(t, dataFile)
}

func TestUploadDryRun(t *testing.T) {
	localPath := setupProject(t)
	dataFile := filepath.Join(localPath, "rawdata", "sub-001", "a.bin")
	require.NoError(t, os.MkdirAll(filepath.Dir(dataFile), 0o755))
	require.NoError(t, os.WriteFile(dataFile, []byte("x"), 0o644))

	out, err := execute(t, "upload", "my_project", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "would transfer 1 file(s)")
}

func TestGuidePrintsMarkdownHeadless(t *testing.T) {
	out, err := execute(t, "guide")
	require.NoError(t, err)
	assert.Contains(t, out, "# Shuttle guide")
}
