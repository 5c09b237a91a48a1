package artifact

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"

	"github.com/viant/afs"
)

// Writer persists Artifacts to storage through afs.Service, the same
// storage boundary the teacher's inspector/coder.Coder and
// analyzer.Analyzer hold as an `fs afs.Service` field — artifact writing
// itself is an external collaborator (spec.md §1 Non-goals), so this type
// only fixes where that boundary sits, not a concrete local/cloud
// implementation.
type Writer struct {
	fs      afs.Service
	baseURL string
}

// NewWriter creates a Writer rooted at baseURL (a local path or any
// afs-supported URL scheme), defaulting to afs.New() the way the
// teacher's own constructors do.
func NewWriter(baseURL string) *Writer {
	return &Writer{fs: afs.New(), baseURL: baseURL}
}

// Write uploads a to "<baseURL>/<name>.queryc.js".
func (w *Writer) Write(ctx context.Context, a *Artifact) error {
	url := path.Join(w.baseURL, a.Name+".queryc.js")
	if err := w.fs.Upload(ctx, url, os.FileMode(0644), bytes.NewReader(a.Content)); err != nil {
		return fmt.Errorf("artifact %q: write %s: %w", a.Name, url, err)
	}
	return nil
}

// WriteAll writes every artifact, stopping and reporting the first
// failure (spec.md §7: "artifacts for the failing project are not
// written" — callers should discard partial output on error).
func (w *Writer) WriteAll(ctx context.Context, artifacts []*Artifact) error {
	for _, a := range artifacts {
		if err := w.Write(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
