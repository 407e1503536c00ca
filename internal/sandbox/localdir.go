package sandbox

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"workbench/internal/config"
	"workbench/internal/errors"
	"workbench/internal/log"
	"workbench/pkg/types"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// DirClient implements Client over a directory on the local filesystem,
// which serves as the development sandbox. Listings honor the configured
// ignore patterns, writes are atomic (temp file then rename), and when
// watching is enabled filesystem events surface through Changes so callers
// can reconcile without waiting for the next poll.
type DirClient struct {
	root    string
	ignore  []glob.Glob
	maxSize int64

	fsWatcher *fsnotify.Watcher
	changes   chan struct{}
	stopChan  chan struct{}
	closeOnce sync.Once
}

// New creates a DirClient rooted at cfg.Sandbox.Root.
func New(cfg *config.Config) (*DirClient, error) {
	root, err := filepath.Abs(cfg.Sandbox.Root)
	if err != nil {
		return nil, errors.Wrap(err, "resolve sandbox root")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.NewSandboxError("sandbox root not accessible", root, errors.Unreachable, err)
	}
	if !info.IsDir() {
		return nil, errors.Newf("sandbox root is not a directory: %s", root)
	}

	ignore := make([]glob.Glob, 0, len(cfg.Sandbox.Ignore))
	for _, pattern := range cfg.Sandbox.Ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "bad ignore pattern %q", pattern)
		}
		ignore = append(ignore, g)
	}

	c := &DirClient{
		root:     root,
		ignore:   ignore,
		maxSize:  cfg.Sandbox.MaxSize,
		changes:  make(chan struct{}, 1),
		stopChan: make(chan struct{}),
	}

	if cfg.Sync.WatchEnabled {
		if err := c.startWatching(); err != nil {
			// Watching is an optimization; polling still covers changes.
			log.Warnf("sandbox watch disabled: %v", err)
		}
	}

	return c, nil
}

// Root returns the sandbox root directory.
func (c *DirClient) Root() string {
	return c.root
}

// List walks the sandbox and returns an entry per regular file, with paths
// relative to the root in slash form and RFC3339Nano modification stamps.
func (c *DirClient) List(ctx context.Context) ([]types.RemoteEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewSandboxError("listing cancelled", c.root, errors.Unreachable, err)
	}
	if _, err := os.Stat(c.root); err != nil {
		return nil, errors.NewSandboxError("sandbox root not accessible", c.root, errors.Unreachable, err)
	}

	var entries []types.RemoteEntry
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip unreadable subtrees; the rest of the listing stands.
			log.Debugf("skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(c.root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if c.ignored(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		if c.maxSize > 0 && info.Size() > c.maxSize {
			return nil
		}
		entries = append(entries, types.RemoteEntry{
			Path:     rel,
			Size:     info.Size(),
			ModStamp: info.ModTime().UTC().Format(time.RFC3339Nano),
		})
		return nil
	})
	if err != nil {
		return nil, errors.NewSandboxError("sandbox listing failed", c.root, errors.Unreachable, err)
	}
	return entries, nil
}

// Read returns the content of the file at path.
func (c *DirClient) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.NewSandboxError("read cancelled", path, errors.Unreachable, err)
	}
	abs, err := c.resolve(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewSandboxError("file not found in sandbox", path, errors.NotFound, err)
		}
		return "", errors.NewSandboxError("sandbox read failed", path, errors.Unreachable, err)
	}
	return string(data), nil
}

// Write persists content atomically: the data lands in a temp file in the
// target directory and is renamed into place, so readers never observe a
// half-written file. Returns the modification stamp of the written file.
func (c *DirClient) Write(ctx context.Context, path string, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.NewSandboxError("write cancelled", path, errors.Unreachable, err)
	}
	abs, err := c.resolve(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return "", errors.NewSandboxError("sandbox rejected write", path, errors.WriteRejected, err)
	}

	tempPath := abs + ".tmp"
	if err := os.WriteFile(tempPath, []byte(content), 0644); err != nil {
		os.Remove(tempPath)
		return "", errors.NewSandboxError("sandbox rejected write", path, errors.WriteRejected, err)
	}
	if err := os.Rename(tempPath, abs); err != nil {
		os.Remove(tempPath)
		return "", errors.NewSandboxError("sandbox rejected write", path, errors.WriteRejected, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		// The write landed; the stamp is merely unknown.
		return "", nil
	}
	return info.ModTime().UTC().Format(time.RFC3339Nano), nil
}

// Delete removes the file at path.
func (c *DirClient) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return errors.NewSandboxError("delete cancelled", path, errors.Unreachable, err)
	}
	abs, err := c.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		if os.IsNotExist(err) {
			return errors.NewSandboxError("file not found in sandbox", path, errors.NotFound, err)
		}
		return errors.NewSandboxError("sandbox delete failed", path, errors.Unreachable, err)
	}
	return nil
}

// Changes returns the out-of-band change notification channel.
func (c *DirClient) Changes() <-chan struct{} {
	return c.changes
}

// Close stops the filesystem watcher, if one is running.
func (c *DirClient) Close() {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		if c.fsWatcher != nil {
			c.fsWatcher.Close()
		}
	})
}

// resolve maps a sandbox-relative path to an absolute path, refusing paths
// that escape the root.
func (c *DirClient) resolve(path string) (string, error) {
	if path == "" {
		return "", errors.NewSandboxError("empty path", path, errors.NotFound, nil)
	}
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", errors.NewSandboxError("path escapes sandbox", path, errors.NotFound, nil)
	}
	return filepath.Join(c.root, cleaned), nil
}

// ignored reports whether a relative slash path matches an ignore pattern.
// Patterns are tested against the full relative path and each path segment,
// so "node_modules" excludes the whole subtree wherever it appears.
func (c *DirClient) ignored(rel string) bool {
	for _, g := range c.ignore {
		if g.Match(rel) {
			return true
		}
		for _, segment := range strings.Split(rel, "/") {
			if g.Match(segment) {
				return true
			}
		}
	}
	return false
}

// startWatching wires fsnotify to the change channel. fsnotify does not
// recurse, so every directory found now or created later is added.
func (c *DirClient) startWatching() error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create fsnotify watcher")
	}
	c.fsWatcher = fsWatcher

	err = filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(c.root, path)
		if relErr == nil && rel != "." && c.ignored(filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		return fsWatcher.Add(path)
	})
	if err != nil {
		fsWatcher.Close()
		c.fsWatcher = nil
		return errors.Wrap(err, "failed to watch sandbox tree")
	}

	go func() {
		for {
			select {
			case event, ok := <-fsWatcher.Events:
				if !ok {
					return
				}
				if event.Op.Has(fsnotify.Create) {
					if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
						if addErr := fsWatcher.Add(event.Name); addErr != nil {
							log.Debugf("failed to watch new directory %s: %v", event.Name, addErr)
						}
					}
				}
				c.notify()
			case _, ok := <-fsWatcher.Errors:
				if !ok {
					return
				}
			case <-c.stopChan:
				return
			}
		}
	}()

	log.LogWithFields(log.F("root", c.root)).Debug("watching sandbox directory")
	return nil
}

// notify signals a change without blocking; a pending signal already covers
// any number of coalesced events.
func (c *DirClient) notify() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}
