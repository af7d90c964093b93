package config

import (
	"os"
	"path/filepath"
)

// Project metadata (config, settings, SSH material) lives under the
// user's home folder rather than inside the project tree, so syncing
// the project never ships credentials or machine-local settings.

// shuttleDirName is the folder under the user home holding all
// per-project metadata.
const shuttleDirName = ".shuttle"

const (
	configFileName     = "config.yaml"
	settingsFileName   = "settings.yaml"
	knownHostsFileName = "known_hosts"
	sshKeyFileName     = "ssh_key"
)

// ShuttleDir returns the root metadata folder, ~/.shuttle.
func ShuttleDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, shuttleDirName), nil
}

// ProjectDir returns the metadata folder for one project.
func ProjectDir(projectName string) (string, error) {
	dir, err := ShuttleDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, projectName), nil
}

// ConfigPath returns the project's config file path.
func ConfigPath(projectName string) (string, error) {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// SettingsPath returns the project's persistent settings file path.
func SettingsPath(projectName string) (string, error) {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsFileName), nil
}

// KnownHostsPath returns the project's cached SSH host keys file path.
func KnownHostsPath(projectName string) (string, error) {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, knownHostsFileName), nil
}

// SSHKeyPath returns the project's SSH private key file path.
func SSHKeyPath(projectName string) (string, error) {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sshKeyFileName), nil
}

// ExistingProjects lists the names of projects under ~/.shuttle that
// contain a config file. A missing ~/.shuttle folder is an empty list,
// not an error.
func ExistingProjects() ([]string, error) {
	dir, err := ShuttleDir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var projects []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, entry.Name(), configFileName)); err == nil {
			projects = append(projects, entry.Name())
		}
	}
	return projects, nil
}
