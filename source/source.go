// Package source decodes Go source files into record descriptors.
package source

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/pouriyajamshidi/optionalize/record"
	"github.com/pouriyajamshidi/optionalize/wrappers"
)

// Directive marks a type declaration for generation when it appears as a
// line of the declaration's doc comment.
const Directive = "//optionalize:generate"

// ErrNoGoFiles indicates that the given paths contain no Go source files.
var ErrNoGoFiles = errors.New("no Go source files found")

// File is a decoded Go source file.
type File struct {
	Path    string
	Package string
	Imports []Import
	Decls   []Decl
}

// Import is an import spec of a file.
type Import struct {
	Name     string // Name is the local package name, explicit or guessed from Path.
	Path     string
	Explicit bool // Explicit is true when the import carries its own name.
}

// Decl is a top-level type declaration.
type Decl struct {
	record.Descriptor
	Annotated bool
}

// ImportMap returns the file's imports keyed by local package name.
// Blank and dot imports are left out since no selector can refer to them.
func (f *File) ImportMap() map[string]string {
	m := make(map[string]string, len(f.Imports))
	for _, imp := range f.Imports {
		if imp.Name == "_" || imp.Name == "." {
			continue
		}
		m[imp.Name] = imp.Path
	}

	return m
}

// Lookup returns the declaration called name.
func (f *File) Lookup(name string) (Decl, bool) {
	i := slices.IndexFunc(f.Decls, func(d Decl) bool { return d.Name == name })
	if i < 0 {
		return Decl{}, false
	}

	return f.Decls[i], true
}

// ParseFile decodes the file at path. When src is not nil it is used instead
// of reading the file, as with go/parser.ParseFile.
func ParseFile(fset *token.FileSet, path string, src any) (*File, error) {
	astFile, err := parser.ParseFile(fset, path, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	f := &File{
		Path:    path,
		Package: astFile.Name.Name,
	}

	for _, spec := range astFile.Imports {
		imp, err := decodeImport(spec)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		f.Imports = append(f.Imports, imp)
	}

	for _, decl := range astFile.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}

		for _, spec := range gen.Specs {
			typeSpec := spec.(*ast.TypeSpec)

			doc := typeSpec.Doc
			if doc == nil && len(gen.Specs) == 1 {
				doc = gen.Doc
			}

			f.Decls = append(f.Decls, Decl{
				Descriptor: decodeTypeSpec(fset, typeSpec),
				Annotated:  hasDirective(doc),
			})
		}
	}

	return f, nil
}

func decodeImport(spec *ast.ImportSpec) (Import, error) {
	importPath, err := strconv.Unquote(spec.Path.Value)
	if err != nil {
		return Import{}, fmt.Errorf("import path %s: %w", spec.Path.Value, err)
	}

	if spec.Name != nil {
		return Import{Name: spec.Name.Name, Path: importPath, Explicit: true}, nil
	}

	return Import{Name: wrappers.PackageName(importPath), Path: importPath}, nil
}

func decodeTypeSpec(fset *token.FileSet, spec *ast.TypeSpec) record.Descriptor {
	d := record.Descriptor{
		Name:       spec.Name.Name,
		Visibility: record.VisibilityOf(spec.Name.Name),
		Pos:        fset.Position(spec.Name.Pos()),
	}

	if spec.TypeParams != nil {
		for _, param := range spec.TypeParams.List {
			for _, name := range param.Names {
				d.TypeParams = append(d.TypeParams, record.TypeParam{
					Name:       name.Name,
					Constraint: param.Type,
				})
			}
		}
	}

	if spec.Assign.IsValid() {
		d.Kind = record.Alias
		return d
	}

	switch t := spec.Type.(type) {
	case *ast.StructType:
		d.Kind = record.Struct
		d.Fields = decodeFields(t.Fields)
	case *ast.InterfaceType:
		d.Kind = record.Interface
	default:
		d.Kind = record.Defined
	}

	return d
}

func decodeFields(list *ast.FieldList) []record.Field {
	// a struct with no fields still gets a non-nil slice
	fields := []record.Field{}
	if list == nil {
		return fields
	}

	for _, field := range list.List {
		tag := ""
		if field.Tag != nil {
			if unquoted, err := strconv.Unquote(field.Tag.Value); err == nil {
				tag = unquoted
			}
		}

		doc := commentLines(field.Doc)

		if len(field.Names) == 0 {
			name := embeddedName(field.Type)
			fields = append(fields, record.Field{
				Name:       name,
				Type:       field.Type,
				Visibility: record.VisibilityOf(name),
				Embedded:   true,
				Tag:        tag,
				Doc:        doc,
			})
			continue
		}

		for _, name := range field.Names {
			fields = append(fields, record.Field{
				Name:       name.Name,
				Type:       field.Type,
				Visibility: record.VisibilityOf(name.Name),
				Tag:        tag,
				Doc:        doc,
			})
		}
	}

	return fields
}

// embeddedName returns the implicit field name of an embedded type:
// T, *T, pkg.T, *pkg.T and their instantiations all name the field T.
func embeddedName(t ast.Expr) string {
	for {
		switch e := t.(type) {
		case *ast.StarExpr:
			t = e.X
		case *ast.IndexExpr:
			t = e.X
		case *ast.IndexListExpr:
			t = e.X
		case *ast.ParenExpr:
			t = e.X
		case *ast.SelectorExpr:
			return e.Sel.Name
		case *ast.Ident:
			return e.Name
		default:
			return record.ExprString(t)
		}
	}
}

func commentLines(group *ast.CommentGroup) []string {
	if group == nil {
		return nil
	}

	lines := make([]string, 0, len(group.List))
	for _, c := range group.List {
		lines = append(lines, c.Text)
	}

	return lines
}

func hasDirective(group *ast.CommentGroup) bool {
	if group == nil {
		return false
	}

	for _, c := range group.List {
		text := strings.TrimSpace(c.Text)
		if text == Directive || strings.HasPrefix(text, Directive+" ") {
			return true
		}
	}

	return false
}

// Collect expands paths into Go source files. Directories contribute their
// non-test .go files that were not generated; files are kept as given.
// The result is sorted and free of duplicates.
func Collect(paths ...string) ([]string, error) {
	var files []string

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}

		if !info.IsDir() {
			files = append(files, filepath.Clean(p))
			continue
		}

		dirFiles, err := collectDir(p)
		if err != nil {
			return nil, err
		}
		files = append(files, dirFiles...)
	}

	slices.Sort(files)
	files = slices.Compact(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoGoFiles, strings.Join(paths, ", "))
	}

	return files, nil
}

func collectDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var files []string

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}

		path := filepath.Join(dir, name)

		generated, err := isGenerated(path)
		if err != nil {
			return nil, err
		}
		if generated {
			continue
		}

		files = append(files, path)
	}

	return files, nil
}

// isGenerated reports whether the file carries a generated-code header.
// Only the package clause and the comments above it are parsed.
func isGenerated(path string) (bool, error) {
	fset := token.NewFileSet()

	f, err := parser.ParseFile(fset, path, nil, parser.PackageClauseOnly|parser.ParseComments)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}

	return ast.IsGenerated(f), nil
}
