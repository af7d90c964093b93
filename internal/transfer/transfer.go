// Package transfer moves project files between local and central
// storage. Sync is one-directional and additive: files missing on the
// destination are copied, existing files are only replaced when the
// source is newer and overwriting is enabled, and nothing is ever
// deleted.
package transfer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/neuroblueprint/shuttle/internal/logger"
)

// Endpoint is one side of a transfer. The local filesystem and an SFTP
// connection both satisfy it.
type Endpoint interface {
	// Walk visits every file under root with its root-relative,
	// slash-separated path. A missing root is a no-op.
	Walk(root string, fn func(rel string, info fs.FileInfo) error) error
	// Stat maps missing files to fs.ErrNotExist.
	Stat(path string) (fs.FileInfo, error)
	MkdirAll(path string) error
	Open(path string) (io.ReadCloser, error)
	Create(path string) (io.WriteCloser, error)
	// Chtimes sets the modification time after a copy so later
	// freshness comparisons see the source's timestamp.
	Chtimes(path string, mtime time.Time) error
	Join(elem ...string) string
}

// Action says what Sync decided to do with one file.
type Action string

const (
	ActionCopied  Action = "copied"
	ActionUpdated Action = "updated"
	ActionSkipped Action = "skipped"
)

// Stats summarizes one Sync run.
type Stats struct {
	Copied  int
	Updated int
	Skipped int
	Bytes   int64
}

// Total returns the number of files considered.
func (s *Stats) Total() int {
	return s.Copied + s.Updated + s.Skipped
}

func (s *Stats) count(action Action, size int64) {
	switch action {
	case ActionCopied:
		s.Copied++
		s.Bytes += size
	case ActionUpdated:
		s.Updated++
		s.Bytes += size
	default:
		s.Skipped++
	}
}

// Sync copies the tree under srcRoot on src into dstRoot on dst.
func Sync(src, dst Endpoint, srcRoot, dstRoot string, opts Options) (*Stats, error) {
	type file struct {
		rel  string
		info fs.FileInfo
	}
	var files []file
	err := src.Walk(srcRoot, func(rel string, info fs.FileInfo) error {
		if opts.Filter != nil && !opts.Filter(rel) {
			return nil
		}
		files = append(files, file{rel: rel, info: info})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", srcRoot, err)
	}

	stats := &Stats{}
	for i, f := range files {
		action, err := syncFile(src, dst, srcRoot, dstRoot, f.rel, f.info, opts)
		if err != nil {
			return stats, err
		}
		stats.count(action, f.info.Size())
		switch {
		case opts.DryRun && action != ActionSkipped:
			logger.Info("would transfer", "file", f.rel, "action", action)
		case opts.Verbose || action != ActionSkipped:
			logger.Debug("transfer", "file", f.rel, "action", action)
		}
		if opts.Progress != nil {
			opts.Progress(f.rel, action, i+1, len(files))
		}
	}
	return stats, nil
}

// syncFile decides and performs the action for one file.
func syncFile(src, dst Endpoint, srcRoot, dstRoot, rel string, srcInfo fs.FileInfo, opts Options) (Action, error) {
	srcPath := src.Join(srcRoot, rel)
	dstPath := dst.Join(dstRoot, rel)

	action := ActionCopied
	dstInfo, err := dst.Stat(dstPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return "", fmt.Errorf("checking %s: %w", dstPath, err)
	case opts.Overwrite && srcInfo.ModTime().After(dstInfo.ModTime()):
		action = ActionUpdated
	default:
		return ActionSkipped, nil
	}

	if opts.DryRun {
		return action, nil
	}
	if err := copyFile(src, dst, srcPath, dstPath, srcInfo.ModTime()); err != nil {
		return "", err
	}
	return action, nil
}

func copyFile(src, dst Endpoint, srcPath, dstPath string, mtime time.Time) error {
	if err := dst.MkdirAll(parentDir(dst, dstPath)); err != nil {
		return fmt.Errorf("creating folder for %s: %w", dstPath, err)
	}

	r, err := src.Open(srcPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", srcPath, err)
	}
	defer r.Close()

	w, err := dst.Create(dstPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dstPath, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("copying %s: %w", dstPath, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dstPath, err)
	}
	return dst.Chtimes(dstPath, mtime)
}

// parentDir strips the final element using the destination's own path
// rules: Join normalizes, then cutting at the last separator works for
// both slash and native paths.
func parentDir(dst Endpoint, p string) string {
	joined := dst.Join(p)
	for i := len(joined) - 1; i >= 0; i-- {
		if joined[i] == '/' || joined[i] == filepath.Separator {
			return joined[:i]
		}
	}
	return joined
}

// LocalEndpoint is the Endpoint for the machine's own filesystem.
type LocalEndpoint struct{}

func (LocalEndpoint) Walk(root string, fn func(rel string, info fs.FileInfo) error) error {
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel), info)
	})
}

func (LocalEndpoint) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(filepath.FromSlash(path))
}

func (LocalEndpoint) MkdirAll(path string) error {
	return os.MkdirAll(filepath.FromSlash(path), 0o755)
}

func (LocalEndpoint) Open(path string) (io.ReadCloser, error) {
	return os.Open(filepath.FromSlash(path))
}

func (LocalEndpoint) Create(path string) (io.WriteCloser, error) {
	return os.Create(filepath.FromSlash(path))
}

func (LocalEndpoint) Chtimes(path string, mtime time.Time) error {
	return os.Chtimes(filepath.FromSlash(path), mtime, mtime)
}

func (LocalEndpoint) Join(elem ...string) string {
	return filepath.Join(elem...)
}
