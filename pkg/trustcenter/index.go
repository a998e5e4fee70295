package trustcenter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"paythru/trustdesk/pkg/telemetry/logging"
)

// ErrArtifactNotFound is returned when a requested artifact is not in the
// index.
var ErrArtifactNotFound = errors.New("artifact not found")

// artifactExtensions lists the file types served by the portal. Anything
// else in the content directory is ignored.
var artifactExtensions = map[string]string{
	".pdf":  "application/pdf",
	".html": "text/html; charset=utf-8",
	".md":   "text/markdown; charset=utf-8",
	".txt":  "text/plain; charset=utf-8",
	".json": "application/json",
}

// Artifact is one published file in the trust center portal: an audit
// report, certificate, or similar evidence of the compliance program.
type Artifact struct {
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Modified    time.Time `json:"modified"`
}

// Index is the artifact catalog for the trust center portal. It holds a
// snapshot of the content directory and is reloaded by the directory
// watcher when files change.
type Index struct {
	dir      string
	logger   *logging.Logger
	onReload func(count int)

	mu        sync.RWMutex
	artifacts []Artifact
}

// NewIndex creates an Index over the given content directory and performs
// the initial scan. A missing directory is not an error; the index starts
// empty and fills in once the directory appears and a reload runs.
func NewIndex(dir string, logger *logging.Logger) *Index {
	idx := &Index{dir: dir, logger: logger}
	if err := idx.Reload(); err != nil {
		logger.Warn("initial artifact scan failed", map[string]any{
			"dir":   dir,
			"error": err,
		})
	}
	return idx
}

// WithReloadHook attaches a callback invoked with the artifact count after
// each successful reload, and returns the Index for chaining.
func (idx *Index) WithReloadHook(fn func(count int)) *Index {
	idx.onReload = fn
	idx.mu.RLock()
	count := len(idx.artifacts)
	idx.mu.RUnlock()
	if fn != nil {
		fn(count)
	}
	return idx
}

// Reload rescans the content directory and swaps in the new snapshot.
func (idx *Index) Reload() error {
	entries, err := os.ReadDir(idx.dir)
	if err != nil {
		if os.IsNotExist(err) {
			idx.swap(nil)
			return nil
		}
		return fmt.Errorf("failed to read content directory: %w", err)
	}

	var artifacts []Artifact
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		contentType, ok := artifactExtensions[strings.ToLower(filepath.Ext(entry.Name()))]
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		artifacts = append(artifacts, Artifact{
			Name:        entry.Name(),
			Size:        info.Size(),
			ContentType: contentType,
			Modified:    info.ModTime().UTC(),
		})
	}
	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Name < artifacts[j].Name })

	idx.swap(artifacts)
	idx.logger.Info("artifact index reloaded", map[string]any{
		"dir":   idx.dir,
		"count": len(artifacts),
	})
	return nil
}

func (idx *Index) swap(artifacts []Artifact) {
	idx.mu.Lock()
	idx.artifacts = artifacts
	idx.mu.Unlock()

	if idx.onReload != nil {
		idx.onReload(len(artifacts))
	}
}

// Artifacts returns the current snapshot.
func (idx *Index) Artifacts() []Artifact {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]Artifact, len(idx.artifacts))
	copy(out, idx.artifacts)
	return out
}

// Open returns the filesystem path and content type for a named artifact.
// The name must match an indexed entry exactly, which also rules out path
// traversal.
func (idx *Index) Open(name string) (string, string, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for _, a := range idx.artifacts {
		if a.Name == name {
			return filepath.Join(idx.dir, a.Name), a.ContentType, nil
		}
	}
	return "", "", ErrArtifactNotFound
}
