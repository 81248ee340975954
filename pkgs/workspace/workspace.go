package workspace

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/rhaikit/rhaikit/pkgs/hir"
	"github.com/rhaikit/rhaikit/pkgs/parser"
	"github.com/rhaikit/rhaikit/pkgs/syntax"
)

// ErrStale rejects an edit whose version is not newer than the stored
// document. Rapid-fire edits can complete out of order upstream; the
// version number decides, not arrival time.
var ErrStale = errors.New("stale document version")

// ErrNotOpen reports an operation on a URI with no open document.
var ErrNotOpen = errors.New("document not open")

// Document is one open source file with everything derived from its
// current text. A Document is immutable after publication; edits
// replace it wholesale.
type Document struct {
	URI     string
	Version int
	Text    string
	IsDef   bool

	Tree   *syntax.Tree
	Errors []parser.ParseError
	Lines  *syntax.LineIndex
	Source hir.Source
}

// Workspace owns the open documents and the semantic index built from
// them. All methods are safe for concurrent use; a single mutex
// serializes rebuilds because resolution links across documents.
type Workspace struct {
	mu   sync.Mutex
	fs   afero.Fs
	log  logrus.FieldLogger
	docs map[string]*Document
	hir  *hir.Hir
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithFs sets the filesystem used to load files and check imports.
func WithFs(fs afero.Fs) Option {
	return func(w *Workspace) { w.fs = fs }
}

// WithLogger sets the structured logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(w *Workspace) { w.log = log }
}

// New returns an empty workspace over the OS filesystem.
func New(opts ...Option) *Workspace {
	w := &Workspace{
		fs:   afero.NewOsFs(),
		log:  logrus.StandardLogger(),
		docs: make(map[string]*Document),
		hir:  hir.New(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.hir.SetImportResolver(&FsResolver{Fs: w.fs, IsOpen: w.isOpen})
	return w
}

// isOpen runs inside Resolve, which only happens under the mutex.
func (w *Workspace) isOpen(url string) bool {
	_, ok := w.docs[url]
	return ok
}

// Hir exposes the semantic index. Hold no reference across calls that
// may rebuild; query under the caller's own synchronization instead.
func (w *Workspace) Hir() *hir.Hir { return w.hir }

// Open registers a document and builds it. Re-opening an already open
// URI behaves like an edit with the given version.
func (w *Workspace) Open(uri string, version int, text string) *Document {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc := w.publish(uri, version, text)
	w.log.WithFields(logrus.Fields{
		"uri":     uri,
		"version": version,
		"errors":  len(doc.Errors),
	}).Debug("document opened")
	return doc
}

// OpenFile loads a file from the workspace filesystem and opens it at
// version zero.
func (w *Workspace) OpenFile(path string) (*Document, error) {
	data, err := afero.ReadFile(w.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return w.Open(path, 0, string(data)), nil
}

// Edit replaces a document's text. Versions must increase; an edit at
// or below the stored version is discarded and ErrStale returned with
// the surviving document.
func (w *Workspace) Edit(uri string, version int, text string) (*Document, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev, ok := w.docs[uri]
	if !ok {
		return nil, fmt.Errorf("edit %s: %w", uri, ErrNotOpen)
	}
	if version <= prev.Version {
		w.log.WithFields(logrus.Fields{
			"uri":     uri,
			"version": version,
			"stored":  prev.Version,
		}).Warn("discarding stale edit")
		return prev, ErrStale
	}

	doc := w.publish(uri, version, text)
	return doc, nil
}

// Close drops a document and unlinks it from the index. References to
// it from other documents go unresolved until it is opened again.
func (w *Workspace) Close(uri string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc, ok := w.docs[uri]
	if !ok {
		return
	}
	delete(w.docs, uri)
	w.hir.Remove(doc.Source)
	w.hir.Resolve()
	w.log.WithField("uri", uri).Debug("document closed")
}

// Get returns the current build of a document, or nil.
func (w *Workspace) Get(uri string) *Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.docs[uri]
}

// Diagnostics returns parse errors and semantic findings for one
// document. Parse errors come first, in document order.
func (w *Workspace) Diagnostics(uri string) ([]parser.ParseError, []hir.Diagnostic) {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc, ok := w.docs[uri]
	if !ok {
		return nil, nil
	}
	return doc.Errors, w.hir.Diagnostics(doc.Source)
}

// publish parses text, swaps the document in, and relinks the whole
// index. Re-resolving everything keeps cross-document references
// correct when an imported module appears or changes; single-document
// reindexing stays cheap because only this document's slice of the
// index is rebuilt.
func (w *Workspace) publish(uri string, version int, text string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Text:    text,
		IsDef:   IsDefURI(uri),
		Lines:   syntax.NewLineIndex(text),
	}

	if doc.IsDef {
		res := parser.ParseDef(text)
		doc.Tree, doc.Errors = res.Tree, res.Errors
		doc.Source = w.hir.AddDefFile(uri, syntax.CastRhaiDef(res.Tree.Root()))
	} else {
		res := parser.Parse(text)
		doc.Tree, doc.Errors = res.Tree, res.Errors
		doc.Source = w.hir.AddScript(uri, syntax.CastRhai(res.Tree.Root()))
	}

	w.docs[uri] = doc
	w.hir.Resolve()

	if len(doc.Errors) > 0 {
		w.log.WithFields(logrus.Fields{
			"uri":    uri,
			"errors": len(doc.Errors),
		}).Debug("document has syntax errors")
	}
	return doc
}

// IsDefURI reports whether a URI names a definition file.
func IsDefURI(uri string) bool {
	return strings.HasSuffix(uri, ".d.rhai")
}
