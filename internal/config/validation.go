package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Validate checks the configuration against the canonical schema
// rules. All failures are collected and returned together.
func Validate(cfg *Config, projectName string) error {
	var errs []ValidationError

	if !cfg.ConnectionMethod.IsValid() {
		errs = append(errs, ValidationError{
			Field:   "connection_method",
			Message: fmt.Sprintf("must be %q or %q", ConnectionSSH, ConnectionLocalFilesystem),
			Value:   string(cfg.ConnectionMethod),
			Wrapped: ErrInvalidConfig,
		})
	}

	errs = append(errs, validatePath("local_path", cfg.LocalPath, projectName)...)
	errs = append(errs, validatePath("central_path", cfg.CentralPath, projectName)...)

	if cfg.ConnectionMethod == ConnectionSSH {
		if cfg.CentralHostID == "" {
			errs = append(errs, ValidationError{
				Field:   "central_host_id",
				Message: "required when connection_method is ssh",
				Wrapped: ErrInvalidConfig,
			})
		}
		if cfg.CentralHostUsername == "" {
			errs = append(errs, ValidationError{
				Field:   "central_host_username",
				Message: "required when connection_method is ssh",
				Wrapped: ErrInvalidConfig,
			})
		}
	}

	if cfg.TransferVerbosity != "v" && cfg.TransferVerbosity != "vv" {
		errs = append(errs, ValidationError{
			Field:   "transfer_verbosity",
			Message: `must be "v" or "vv"`,
			Value:   cfg.TransferVerbosity,
			Wrapped: ErrInvalidConfig,
		})
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

// validatePath enforces the path rules shared by local_path and
// central_path: a full path with no home or dot shorthand, ending in
// the project name so transfers cannot target an unrelated tree.
func validatePath(field, path, projectName string) []ValidationError {
	if path == "" {
		return []ValidationError{{
			Field:   field,
			Message: "must be set",
			Wrapped: ErrInvalidConfig,
		}}
	}

	var errs []ValidationError
	if strings.HasPrefix(path, "~") {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: "must contain the full folder path with no ~ syntax",
			Value:   path,
			Wrapped: ErrInvalidConfig,
		})
	}
	if strings.HasPrefix(path, ".") {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: "must contain the full folder path with no dot syntax",
			Value:   path,
			Wrapped: ErrInvalidConfig,
		})
	}
	if base := filepath.Base(filepath.ToSlash(path)); len(errs) == 0 && base != projectName {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must end in the project name %q, the last folder of the passed path is %q", projectName, base),
			Value:   path,
			Wrapped: ErrInvalidConfig,
		})
	}
	return errs
}

// CheckParentDirs verifies that the folders the local (and, for
// local-filesystem connections, central) project trees will live in
// already exist. This guards against a mistyped path silently creating
// a project in the wrong place. The central path cannot be checked here
// when the connection method is ssh.
func CheckParentDirs(cfg *Config) error {
	if _, err := os.Stat(filepath.Dir(cfg.LocalPath)); err != nil {
		return &ValidationError{
			Field:   "local_path",
			Message: "the folder the project will reside in does not exist",
			Value:   filepath.Dir(cfg.LocalPath),
			Wrapped: ErrInvalidConfig,
		}
	}
	if cfg.ConnectionMethod == ConnectionLocalFilesystem {
		if _, err := os.Stat(filepath.Dir(cfg.CentralPath)); err != nil {
			return &ValidationError{
				Field:   "central_path",
				Message: "the folder the central project will reside in does not exist",
				Value:   filepath.Dir(cfg.CentralPath),
				Wrapped: ErrInvalidConfig,
			}
		}
	}
	return nil
}
