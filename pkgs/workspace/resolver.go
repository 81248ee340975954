package workspace

import (
	"strings"

	"github.com/spf13/afero"

	"github.com/rhaikit/rhaikit/pkgs/hir"
)

// FsResolver resolves import paths relative to the importing document
// and confirms the target exists as an open document or as a file on
// a filesystem. A path that does not exist yet stays unresolved;
// nothing is cached, so the import links as soon as the file appears
// and the workspace relinks.
type FsResolver struct {
	Fs afero.Fs
	// IsOpen reports URLs held in memory, usually unsaved editor
	// buffers that no filesystem check can see.
	IsOpen func(url string) bool
}

var _ hir.ImportResolver = (*FsResolver)(nil)

func (r *FsResolver) ResolveImport(baseURL, importPath string) (string, bool) {
	url, ok := hir.RelativeResolver{}.ResolveImport(baseURL, importPath)
	if !ok {
		return "", false
	}
	// synthetic schemes have no backing file
	if strings.Contains(url, "://") {
		return url, true
	}
	if r.IsOpen != nil && r.IsOpen(url) {
		return url, true
	}
	if r.Fs == nil {
		return url, true
	}
	if exists, err := afero.Exists(r.Fs, url); err == nil && exists {
		return url, true
	}
	return "", false
}
