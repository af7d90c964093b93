package transfer

import (
	"strings"

	"github.com/neuroblueprint/shuttle/internal/config"
)

// Progress is called after each file with its action and the running
// position within the transfer.
type Progress func(rel string, action Action, done, total int)

// Options controls one Sync run.
type Options struct {
	// Overwrite allows replacing destination files when the source
	// copy is newer. Older source files never replace newer ones.
	Overwrite bool
	// DryRun reports the actions without touching the destination.
	DryRun bool
	// Verbose logs skipped files as well as transferred ones.
	Verbose bool
	// Filter restricts the transfer to files whose root-relative path
	// it accepts. Nil means everything.
	Filter func(rel string) bool
	// Progress receives per-file completion updates.
	Progress Progress
}

// OptionsFromConfig derives run options from the project
// configuration.
func OptionsFromConfig(cfg *config.Config, dryRun bool) Options {
	return Options{
		Overwrite: cfg.OverwriteOldFiles,
		DryRun:    dryRun,
		Verbose:   cfg.TransferVerbosity == "vv",
	}
}

// SubSesFilter builds a Filter keeping only files under the given
// subject folders, the given session folders within them, and the
// given datatype folders within those. Empty slices mean no
// restriction at that level.
func SubSesFilter(subs, sess, datatypes []string) func(rel string) bool {
	if len(subs) == 0 && len(sess) == 0 && len(datatypes) == 0 {
		return nil
	}
	return func(rel string) bool {
		parts := strings.Split(rel, "/")
		if len(subs) > 0 {
			if len(parts) < 1 || !contains(subs, parts[0]) {
				return false
			}
		}
		if len(sess) > 0 {
			if len(parts) < 2 || !contains(sess, parts[1]) {
				return false
			}
		}
		if len(datatypes) > 0 {
			if len(parts) < 3 || !contains(datatypes, parts[2]) {
				return false
			}
		}
		return true
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
