package workspace_test

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/rhaikit/rhaikit/pkgs/hir"
	"github.com/rhaikit/rhaikit/pkgs/workspace"
)

func newWorkspace(fs afero.Fs) *workspace.Workspace {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return workspace.New(workspace.WithFs(fs), workspace.WithLogger(log))
}

func TestOpenAndGet(t *testing.T) {
	w := newWorkspace(afero.NewMemMapFs())

	doc := w.Open("/ws/main.rhai", 1, "let x = 1;\nx;")
	require.NotNil(t, doc)
	require.Equal(t, 1, doc.Version)
	require.False(t, doc.IsDef)
	require.Empty(t, doc.Errors)
	require.Equal(t, "let x = 1;\nx;", doc.Tree.Text())

	require.Same(t, doc, w.Get("/ws/main.rhai"))
	require.Nil(t, w.Get("/ws/other.rhai"))
}

func TestSyntaxErrorsAreData(t *testing.T) {
	w := newWorkspace(afero.NewMemMapFs())

	doc := w.Open("/ws/bad.rhai", 1, "let = ;")
	require.NotEmpty(t, doc.Errors)
	// the tree still covers every input byte
	require.Equal(t, "let = ;", doc.Tree.Text())
}

func TestEditReplacesDocument(t *testing.T) {
	w := newWorkspace(afero.NewMemMapFs())
	w.Open("/ws/a.rhai", 1, "let first = 1;")

	doc, err := w.Edit("/ws/a.rhai", 2, "let second = 2;")
	require.NoError(t, err)
	require.Equal(t, 2, doc.Version)
	require.Equal(t, "let second = 2;", doc.Text)

	// the old build's symbols are gone from the index
	w.Hir().Symbols(func(_ hir.Symbol, sd *hir.SymbolData) bool {
		require.NotEqual(t, "first", sd.Name)
		return true
	})
}

func TestStaleEditDiscarded(t *testing.T) {
	w := newWorkspace(afero.NewMemMapFs())
	w.Open("/ws/a.rhai", 5, "let current = 1;")

	doc, err := w.Edit("/ws/a.rhai", 5, "let stale = 2;")
	require.ErrorIs(t, err, workspace.ErrStale)
	require.Equal(t, "let current = 1;", doc.Text)

	doc, err = w.Edit("/ws/a.rhai", 3, "let older = 3;")
	require.ErrorIs(t, err, workspace.ErrStale)
	require.Equal(t, 5, doc.Version)
}

func TestEditUnopenedDocument(t *testing.T) {
	w := newWorkspace(afero.NewMemMapFs())

	_, err := w.Edit("/ws/nope.rhai", 1, "1;")
	require.ErrorIs(t, err, workspace.ErrNotOpen)
}

func TestImportsLinkAcrossOpenDocuments(t *testing.T) {
	w := newWorkspace(afero.NewMemMapFs())

	w.Open("/ws/main.rhai", 1, "import \"lib\" as lib;")
	_, diags := w.Diagnostics("/ws/main.rhai")
	require.Len(t, diags, 1)
	require.Equal(t, hir.DiagUnresolvedImport, diags[0].Kind)

	// opening the target retroactively links the import
	w.Open("/ws/lib.rhai", 1, "export fn helper() {}")
	_, diags = w.Diagnostics("/ws/main.rhai")
	require.Empty(t, diags)

	// closing it breaks the link again
	w.Close("/ws/lib.rhai")
	_, diags = w.Diagnostics("/ws/main.rhai")
	require.Len(t, diags, 1)
	require.Equal(t, hir.DiagUnresolvedImport, diags[0].Kind)
}

func TestDefinitionFileDescribesScript(t *testing.T) {
	w := newWorkspace(afero.NewMemMapFs())

	w.Open("/ws/app.rhai", 1, "let r = host_add(1, 2);")
	_, diags := w.Diagnostics("/ws/app.rhai")
	require.Len(t, diags, 1)
	require.Equal(t, hir.DiagUnresolvedReference, diags[0].Kind)

	def := w.Open("/ws/app.d.rhai", 1, "fn host_add(a: int, b: int) -> int;")
	require.True(t, def.IsDef)

	_, diags = w.Diagnostics("/ws/app.rhai")
	require.Empty(t, diags)
}

func TestOpenFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/ws/main.rhai", []byte("let x = 1;"), 0o644))
	w := newWorkspace(fs)

	doc, err := w.OpenFile("/ws/main.rhai")
	require.NoError(t, err)
	require.Equal(t, "let x = 1;", doc.Text)

	_, err = w.OpenFile("/ws/absent.rhai")
	require.Error(t, err)
}

func TestImportWaitsForFileOnDisk(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := newWorkspace(fs)

	w.Open("/ws/main.rhai", 1, "import \"util\" as util;")
	_, diags := w.Diagnostics("/ws/main.rhai")
	require.Len(t, diags, 1)

	// the file appearing on disk is not enough until it is loaded
	require.NoError(t, afero.WriteFile(fs, "/ws/util.rhai", []byte("export let v = 1;"), 0o644))
	_, err := w.OpenFile("/ws/util.rhai")
	require.NoError(t, err)

	_, diags = w.Diagnostics("/ws/main.rhai")
	require.Empty(t, diags)
}

func TestLineIndexOnDocument(t *testing.T) {
	w := newWorkspace(afero.NewMemMapFs())

	doc := w.Open("/ws/a.rhai", 1, "let a = 1;\nlet b = 2;\n")
	require.Equal(t, 3, doc.Lines.LineCount())
	pos := doc.Lines.Position(11)
	require.Equal(t, 1, pos.Line)
	require.Equal(t, 0, pos.Character)
}
