// Package config provides project configuration and persistent settings
// for shuttle. Project configs are YAML files with a fixed canonical
// schema, validated exhaustively on load: unknown or missing keys are
// hard errors so a mistyped config never half-works.
package config

import "slices"

// ConnectionMethod selects how the central project storage is reached.
type ConnectionMethod string

const (
	// ConnectionSSH reaches central storage over an SSH/SFTP connection.
	ConnectionSSH ConnectionMethod = "ssh"
	// ConnectionLocalFilesystem reaches central storage through a local
	// path, e.g. a mounted network drive.
	ConnectionLocalFilesystem ConnectionMethod = "local_filesystem"
)

// IsValid reports whether m is a recognized connection method.
func (m ConnectionMethod) IsValid() bool {
	return m == ConnectionSSH || m == ConnectionLocalFilesystem
}

// Config is the canonical project configuration. Every key is required
// in the config file; the schema is closed.
type Config struct {
	LocalPath            string           `yaml:"local_path"`
	CentralPath          string           `yaml:"central_path"`
	ConnectionMethod     ConnectionMethod `yaml:"connection_method"`
	CentralHostID        string           `yaml:"central_host_id"`
	CentralHostUsername  string           `yaml:"central_host_username"`
	OverwriteOldFiles    bool             `yaml:"overwrite_old_files"`
	TransferVerbosity    string           `yaml:"transfer_verbosity"`
	ShowTransferProgress bool             `yaml:"show_transfer_progress"`
}

// canonicalKeys lists every permitted config key, in canonical order.
var canonicalKeys = []string{
	"local_path",
	"central_path",
	"connection_method",
	"central_host_id",
	"central_host_username",
	"overwrite_old_files",
	"transfer_verbosity",
	"show_transfer_progress",
}

// CanonicalKeys returns the permitted config keys in canonical order.
func CanonicalKeys() []string {
	return slices.Clone(canonicalKeys)
}

// IsCanonicalKey reports whether key belongs to the config schema.
func IsCanonicalKey(key string) bool {
	return slices.Contains(canonicalKeys, key)
}

// NewDefaultConfig returns a Config with the documented defaults for
// the optional-feeling fields. Paths and connection method have no
// sensible default and stay empty.
func NewDefaultConfig() *Config {
	return &Config{
		TransferVerbosity: "v",
	}
}
