package source_test

import (
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pouriyajamshidi/optionalize/internal/testdata"
	"github.com/pouriyajamshidi/optionalize/record"
	"github.com/pouriyajamshidi/optionalize/source"
)

func parse(t *testing.T, src string) *source.File {
	t.Helper()

	f, err := source.ParseFile(token.NewFileSet(), "widget.go", src)
	require.NoError(t, err)

	return f
}

func TestParseFile(t *testing.T) {
	f := parse(t, testdata.WidgetSource)

	assert.Equal(t, "shop", f.Package)
	assert.Equal(t, []source.Import{
		{Name: "time", Path: "time"},
		{Name: "optional", Path: "github.com/pouriyajamshidi/optionalize/optional"},
	}, f.Imports)

	alias, ok := f.Lookup("StringOpt")
	require.True(t, ok)
	assert.Equal(t, record.Alias, alias.Kind)
	assert.False(t, alias.Annotated)

	base, ok := f.Lookup("Base")
	require.True(t, ok)
	assert.Equal(t, record.Struct, base.Kind)
	assert.False(t, base.Annotated)

	widget, ok := f.Lookup("Widget")
	require.True(t, ok)
	assert.True(t, widget.Annotated)
	assert.Equal(t, record.Struct, widget.Kind)
	assert.Equal(t, record.Public, widget.Visibility)
	assert.Equal(t, "widget.go", widget.Pos.Filename)
	assert.Equal(t, 16, widget.Pos.Line)

	assert.Equal(t, []string{"Base", "Name", "Price", "Tags", "Note", "Comment", "Created", "count"}, widget.FieldNames())

	embedded := widget.Fields[0]
	assert.True(t, embedded.Embedded)
	assert.Equal(t, "*Base", embedded.TypeString())
	assert.Equal(t, record.Public, embedded.Visibility)

	name := widget.Fields[1]
	assert.Equal(t, `json:"name" db:"name"`, name.Tag)
	assert.Equal(t, []string{"// Name is shown to customers."}, name.Doc)

	assert.Equal(t, "optional.Option[string]", widget.Fields[5].TypeString())
	assert.Equal(t, record.Private, widget.Fields[7].Visibility)

	_, ok = f.Lookup("Missing")
	assert.False(t, ok)
}

func TestParseFileKinds(t *testing.T) {
	f := parse(t, `package shop

type (
	ID     int
	Other  Widget
	Widget struct{ ID ID }
	Store  interface{ Get() ID }
	Alias  = Widget
)

//optionalize:generate
type Page[T any, K comparable] struct {
	Items []T
	A, B  K
}

type Empty struct{}
`)

	tests := []struct {
		name string
		kind record.Kind
	}{
		{"ID", record.Defined},
		{"Other", record.Defined},
		{"Widget", record.Struct},
		{"Store", record.Interface},
		{"Alias", record.Alias},
		{"Page", record.Struct},
		{"Empty", record.Struct},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := f.Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.kind, d.Kind)
		})
	}

	page, _ := f.Lookup("Page")
	assert.True(t, page.Annotated)
	require.Len(t, page.TypeParams, 2)
	assert.Equal(t, "T", page.TypeParams[0].Name)
	assert.Equal(t, "comparable", record.ExprString(page.TypeParams[1].Constraint))
	assert.Equal(t, []string{"Items", "A", "B"}, page.FieldNames())

	empty, _ := f.Lookup("Empty")
	assert.NotNil(t, empty.Fields)
	assert.Empty(t, empty.Fields)
}

func TestParseFileDirective(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{
			name: "directive alone",
			src:  "package p\n\n//optionalize:generate\ntype A struct{}\n",
			want: true,
		},
		{
			name: "directive after doc",
			src:  "package p\n\n// A is a record.\n//optionalize:generate\ntype A struct{}\n",
			want: true,
		},
		{
			name: "directive with arguments",
			src:  "package p\n\n//optionalize:generate for patches\ntype A struct{}\n",
			want: true,
		},
		{
			name: "spaced directive is a plain comment",
			src:  "package p\n\n// optionalize:generate\ntype A struct{}\n",
			want: false,
		},
		{
			name: "directive on a single spec group",
			src:  "package p\n\n//optionalize:generate\ntype (\n\tA struct{}\n)\n",
			want: true,
		},
		{
			name: "group directive does not apply to several specs",
			src:  "package p\n\n//optionalize:generate\ntype (\n\tA struct{}\n\tB struct{}\n)\n",
			want: false,
		},
		{
			name: "no doc",
			src:  "package p\n\ntype A struct{}\n",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := parse(t, tt.src).Lookup("A")
			require.True(t, ok)
			assert.Equal(t, tt.want, d.Annotated)
		})
	}
}

func TestImportMap(t *testing.T) {
	f := parse(t, `package p

import (
	_ "embed"
	. "strings"
	js "encoding/json"
	"github.com/google/go-github/v45/github"
)
`)

	assert.Equal(t, map[string]string{
		"js":     "encoding/json",
		"github": "github.com/google/go-github/v45/github",
	}, f.ImportMap())
	assert.True(t, f.Imports[2].Explicit)
	assert.False(t, f.Imports[3].Explicit)
}

func TestParseFileSyntaxError(t *testing.T) {
	_, err := source.ParseFile(token.NewFileSet(), "broken.go", "package p\n\ntype A struct {\n")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse broken.go")
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	widget := testdata.WriteSource(t, dir, "widget.go", testdata.WidgetSource)
	empty := testdata.WriteSource(t, dir, "empty.go", testdata.EmptySource)
	testdata.WriteSource(t, dir, "widget_test.go", "package shop\n")
	testdata.WriteSource(t, dir, "widget_optional.go", "// Code generated by optionalize; DO NOT EDIT.\n\npackage shop\n")
	testdata.WriteSource(t, dir, "notes.txt", "not go")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.go"), 0o755))

	t.Run("directory", func(t *testing.T) {
		files, err := source.Collect(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{empty, widget}, files)
	})

	t.Run("files are kept as given and deduplicated", func(t *testing.T) {
		files, err := source.Collect(widget, dir, widget)
		require.NoError(t, err)
		assert.Equal(t, []string{empty, widget}, files)
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := source.Collect(t.TempDir())
		assert.ErrorIs(t, err, source.ErrNoGoFiles)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := source.Collect(filepath.Join(dir, "missing.go"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
