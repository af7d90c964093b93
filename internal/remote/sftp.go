package remote

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/pkg/sftp"

	"github.com/neuroblueprint/shuttle/internal/names"
)

// The methods below make *Client usable wherever a storage backend is
// expected: folder scanning during validation and file endpoints
// during transfer. Remote paths are always slash separated.

// ListDirs returns the subject or session folders under dir. A missing
// dir is an empty list.
func (c *Client) ListDirs(ctx context.Context, dir string, prefix names.Prefix) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := c.sftp.ReadDir(dir)
	if isNotExist(err) {
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

// Join builds a remote path.
func (c *Client) Join(elem ...string) string {
	return path.Join(elem...)
}

// Walk visits every file under root, calling fn with each file's path
// relative to root. A missing root is a no-op.
func (c *Client) Walk(root string, fn func(rel string, info fs.FileInfo) error) error {
	if _, err := c.sftp.Stat(root); isNotExist(err) {
		return nil
	}

	walker := c.sftp.Walk(root)
	for walker.Step() {
		if err := walker.Err(); err != nil {
			return err
		}
		info := walker.Stat()
		if info.IsDir() {
			continue
		}
		rel, err := relPath(root, walker.Path())
		if err != nil {
			return err
		}
		if err := fn(rel, info); err != nil {
			return err
		}
	}
	return nil
}

func relPath(root, full string) (string, error) {
	rel := strings.TrimPrefix(full, strings.TrimSuffix(root, "/")+"/")
	if rel == full {
		return "", errors.New("walked path " + full + " is outside root " + root)
	}
	return rel, nil
}

// Stat returns file metadata, mapping missing files to fs.ErrNotExist.
func (c *Client) Stat(p string) (fs.FileInfo, error) {
	info, err := c.sftp.Stat(p)
	if isNotExist(err) {
		return nil, fs.ErrNotExist
	}
	return info, err
}

// MkdirAll creates a remote folder tree.
func (c *Client) MkdirAll(p string) error {
	return c.sftp.MkdirAll(p)
}

// Open opens a remote file for reading.
func (c *Client) Open(p string) (io.ReadCloser, error) {
	return c.sftp.Open(p)
}

// Create opens a remote file for writing, truncating any existing
// content.
func (c *Client) Create(p string) (io.WriteCloser, error) {
	return c.sftp.Create(p)
}

// Chtimes sets a remote file's modification time, keeping sync
// freshness comparisons meaningful after a copy.
func (c *Client) Chtimes(p string, mtime time.Time) error {
	return c.sftp.Chtimes(p, mtime, mtime)
}

func isNotExist(err error) bool {
	return err != nil && (errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) || errors.Is(err, sftp.ErrSSHFxNoSuchFile))
}
