package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsLocalFilesystemConfig(t *testing.T) {
	cfg := validConfig(t)
	assert.NoError(t, Validate(cfg, "my_project"))
}

func TestValidateSSHRequiresHostFields(t *testing.T) {
	cfg := validConfig(t)
	cfg.ConnectionMethod = ConnectionSSH

	err := Validate(cfg, "my_project")
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "central_host_id")
	assert.ErrorContains(t, err, "central_host_username")

	cfg.CentralHostID = "hpc.example.ac.uk"
	cfg.CentralHostUsername = "jziminski"
	assert.NoError(t, Validate(cfg, "my_project"))
}

func TestValidatePathRules(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantMsg string
	}{
		{"empty", "", "must be set"},
		{"tilde", "~/data/my_project", "no ~ syntax"},
		{"relative dot", "./data/my_project", "no dot syntax"},
		{"wrong last folder", "/data/other_project", "must end in the project name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			cfg.LocalPath = tt.path

			err := Validate(cfg, "my_project")
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorContains(t, err, tt.wantMsg)
			assert.ErrorContains(t, err, "local_path")
		})
	}
}

func TestValidateRejectsBadVerbosityAndMethod(t *testing.T) {
	cfg := validConfig(t)
	cfg.TransferVerbosity = "vvv"
	cfg.ConnectionMethod = "rsync"

	err := Validate(cfg, "my_project")
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "transfer_verbosity")
	assert.ErrorContains(t, err, "connection_method")
}

func TestCheckParentDirs(t *testing.T) {
	base := t.TempDir()
	cfg := NewDefaultConfig()
	cfg.ConnectionMethod = ConnectionLocalFilesystem
	cfg.LocalPath = filepath.Join(base, "local", "my_project")
	cfg.CentralPath = filepath.Join(base, "central", "my_project")

	err := CheckParentDirs(cfg)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "local_path")

	require.NoError(t, os.MkdirAll(filepath.Join(base, "local"), 0o755))
	err = CheckParentDirs(cfg)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "central_path")

	require.NoError(t, os.MkdirAll(filepath.Join(base, "central"), 0o755))
	assert.NoError(t, CheckParentDirs(cfg))
}
