package project

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/neuroblueprint/shuttle/internal/names"
)

// ErrCentralUnavailable marks failures reaching central storage. It is
// distinct from naming issues so callers can tell "the names are bad"
// apart from "the remote is down".
var ErrCentralUnavailable = errors.New("central storage is unavailable")

// Lister enumerates subject or session folders under one directory of
// a storage backend. Implementations exist for the local filesystem
// and for SFTP-mounted central storage.
type Lister interface {
	// ListDirs returns the names of directories directly under dir
	// whose names start with the prefix. A missing dir is an empty
	// list, not an error.
	ListDirs(ctx context.Context, dir string, prefix names.Prefix) ([]string, error)
	// Join builds a backend path from elements.
	Join(elem ...string) string
}

// LocalLister is the Lister for the machine's own filesystem.
type LocalLister struct{}

func (LocalLister) ListDirs(ctx context.Context, dir string, prefix names.Prefix) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	lead := string(prefix) + "-"
	var out []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), lead) {
			out = append(out, entry.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

func (LocalLister) Join(elem ...string) string {
	return filepath.Join(elem...)
}
