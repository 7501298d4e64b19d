// Package localdir watches a directory and ingests files dropped into
// it as supporting documents. It is the intake path for records that
// never appear on the remote site, such as scanned handouts or public
// comment attachments.
package localdir

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/opencivics/engage/internal/core/ports/driving"
	"github.com/opencivics/engage/internal/logger"
)

// Watcher ingests files from a single directory. Subdirectories are
// not descended into.
type Watcher struct {
	dir    string
	ingest driving.IngestService

	// seen tracks paths ingested during this run, so editors that
	// emit a create followed by several writes do not trigger
	// repeated ingests. The document store's URL key makes a missed
	// duplicate harmless anyway.
	seen map[string]bool
}

// New creates a watcher over dir.
func New(dir string, ingest driving.IngestService) *Watcher {
	return &Watcher{
		dir:    dir,
		ingest: ingest,
		seen:   make(map[string]bool),
	}
}

// Run ingests files already present in the directory, then watches for
// new ones until the context is canceled. Only Run touches the seen
// set; it must not be called concurrently.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	if err := w.ingestExisting(ctx); err != nil {
		return err
	}

	logger.Info("Watching %s", w.dir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if err := w.handleEvent(ctx, event); err != nil {
				logger.Warn("watch %s: %v", event.Name, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

// handleEvent ingests the file behind a create or write event. Other
// operations carry no new content.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) error {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return nil
	}
	return w.ingestPath(ctx, event.Name)
}

func (w *Watcher) ingestExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", w.dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if err := w.ingestPath(ctx, path); err != nil {
			logger.Warn("ingest %s: %v", path, err)
		}
	}
	return nil
}

// ingestPath reads one file and stores it as a supporting document,
// keyed by a synthetic file:// URL.
func (w *Watcher) ingestPath(ctx context.Context, path string) error {
	if isHidden(path) || w.seen[path] {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	doc, err := w.ingest.IngestFile(ctx, "file://"+abs, filepath.Base(path), data, detectMIME(path, data))
	if err != nil {
		return err
	}

	w.seen[path] = true
	logger.Info("Ingested %s as document %d", filepath.Base(path), doc.ID)
	return nil
}

// isHidden reports whether any element of the path starts with a dot.
// Editors and sync tools drop temp files like .goutputstream-* that
// should never become documents.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// detectMIME resolves a media type from the file extension, falling
// back to content sniffing. Parameters are stripped so the value keys
// directly into the extractor registry.
func detectMIME(path string, data []byte) string {
	mt := mime.TypeByExtension(filepath.Ext(path))
	if mt == "" {
		mt = http.DetectContentType(data)
	}
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		return parsed
	}
	return mt
}
