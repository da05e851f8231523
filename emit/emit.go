// Package emit renders record descriptors as Go source using jennifer.
package emit

import (
	"fmt"
	"go/ast"
	"go/token"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/pouriyajamshidi/optionalize/option"
	"github.com/pouriyajamshidi/optionalize/record"
	"github.com/pouriyajamshidi/optionalize/wrappers"
)

// FileSuffix is appended to the base name of a source file to name its output.
const FileSuffix = "_optional.go"

// Header is the generated-code marker written at the top of every output file.
const Header = "Code generated by optionalize; DO NOT EDIT."

type config struct {
	header      string
	withTags    bool
	withDocs    bool
	originNames map[string]string
}

type Option = option.Option[config]

// WithHeader replaces the generated-code header comment.
func WithHeader(header string) Option {
	return func(c *config) {
		c.header = header
	}
}

// WithoutTags drops struct tags from the output.
func WithoutTags() Option {
	return func(c *config) {
		c.withTags = false
	}
}

// WithoutDocs drops field comments from the output.
func WithoutDocs() Option {
	return func(c *config) {
		c.withDocs = false
	}
}

// WithOrigins maps generated record names to the names they were derived
// from, for use in their doc comments.
func WithOrigins(origins map[string]string) Option {
	return func(c *config) {
		c.originNames = origins
	}
}

// OutputPath returns the path of the file generated for the source file src.
func OutputPath(src string) string {
	dir, base := filepath.Split(src)
	return filepath.Join(dir, strings.TrimSuffix(base, ".go")+FileSuffix)
}

// NewFile builds the generated file for records in package pkg. imports maps
// the package names used by the records' type expressions to import paths.
func NewFile(pkg string, imports map[string]string, records []record.Descriptor, opts ...Option) *jen.File {
	cfg := config{
		header:   Header,
		withTags: true,
		withDocs: true,
	}
	option.Apply(&cfg, opts...)

	f := jen.NewFile(pkg)
	f.HeaderComment(cfg.header)

	c := converter{imports: imports, used: map[string]string{}}

	for i, r := range records {
		if i > 0 {
			f.Line()
		}

		if origin, ok := cfg.originNames[r.Name]; ok {
			f.Commentf("%s is the optional counterpart of %s.", r.Name, origin)
		}

		decl := f.Type().Id(r.Name)
		if len(r.TypeParams) > 0 {
			decl.Types(c.typeParams(r.TypeParams)...)
		}
		decl.Struct(c.fields(r.Fields, cfg)...)
	}

	// keep the local names used by the source, even when jennifer would guess another
	for _, importPath := range sortedKeys(c.used) {
		name := c.used[importPath]
		if wrappers.PackageName(importPath) == name {
			f.ImportName(importPath, name)
			continue
		}
		f.ImportAlias(importPath, name)
	}

	return f
}

// Render writes the generated file for records to w. The output is gofmt-ed.
func Render(w io.Writer, pkg string, imports map[string]string, records []record.Descriptor, opts ...Option) error {
	if err := NewFile(pkg, imports, records, opts...).Render(w); err != nil {
		return fmt.Errorf("render package %s: %w", pkg, err)
	}

	return nil
}

type converter struct {
	imports map[string]string
	// used records the local name each referenced import path is written with
	used map[string]string
}

// qualify resolves the package name of a selector to its import path. A name
// missing from the import map is matched against the last element of each
// import path, for packages named after their version directory such as
// k8s.io/api/core/v1.
func (c converter) qualify(name string) (string, bool) {
	importPath, ok := c.imports[name]
	if !ok {
		for _, local := range sortedKeys(c.imports) {
			if path.Base(c.imports[local]) == name {
				importPath, ok = c.imports[local], true
				break
			}
		}
	}

	if !ok {
		return "", false
	}

	if _, seen := c.used[importPath]; !seen {
		c.used[importPath] = name
	}

	return importPath, true
}

func (c converter) typeParams(params []record.TypeParam) []jen.Code {
	codes := make([]jen.Code, 0, len(params))
	for _, p := range params {
		codes = append(codes, jen.Id(p.Name).Add(c.expr(p.Constraint)))
	}

	return codes
}

func (c converter) fields(fields []record.Field, cfg config) []jen.Code {
	codes := make([]jen.Code, 0, len(fields))

	for _, f := range fields {
		if cfg.withDocs {
			for _, comment := range f.Doc {
				for _, line := range commentLines(comment) {
					codes = append(codes, jen.Comment(line))
				}
			}
		}

		// embedded fields are written with their implicit name: a wrapped
		// type cannot be embedded
		field := jen.Id(f.Name).Add(c.expr(f.Type))

		if cfg.withTags && strings.TrimSpace(f.Tag) != "" {
			if tags, ok := parseTag(f.Tag); ok {
				field.Tag(tags)
			} else {
				field.Op(rawTag(f.Tag))
			}
		}

		codes = append(codes, field)
	}

	return codes
}

// expr converts a type expression. Package selectors are resolved through
// the import map so jennifer tracks the imports the output needs.
func (c converter) expr(e ast.Expr) jen.Code {
	switch t := e.(type) {
	case nil:
		return jen.Null()
	case *ast.Ident:
		return jen.Id(t.Name)
	case *ast.SelectorExpr:
		if pkg, ok := t.X.(*ast.Ident); ok {
			if importPath, ok := c.qualify(pkg.Name); ok {
				return jen.Qual(importPath, t.Sel.Name)
			}
		}
		return jen.Id(record.ExprString(t))
	case *ast.StarExpr:
		return jen.Op("*").Add(c.expr(t.X))
	case *ast.ParenExpr:
		return jen.Parens(c.expr(t.X))
	case *ast.ArrayType:
		if t.Len == nil {
			return jen.Index().Add(c.expr(t.Elt))
		}
		return jen.Index(c.expr(t.Len)).Add(c.expr(t.Elt))
	case *ast.Ellipsis:
		return jen.Op("...").Add(c.expr(t.Elt))
	case *ast.MapType:
		return jen.Map(c.expr(t.Key)).Add(c.expr(t.Value))
	case *ast.ChanType:
		switch t.Dir {
		case ast.SEND:
			return jen.Chan().Op("<-").Add(c.expr(t.Value))
		case ast.RECV:
			return jen.Op("<-").Chan().Add(c.expr(t.Value))
		}
		return jen.Chan().Add(c.expr(t.Value))
	case *ast.IndexExpr:
		return jen.Add(c.expr(t.X)).Types(c.expr(t.Index))
	case *ast.IndexListExpr:
		args := make([]jen.Code, 0, len(t.Indices))
		for _, index := range t.Indices {
			args = append(args, c.expr(index))
		}
		return jen.Add(c.expr(t.X)).Types(args...)
	case *ast.FuncType:
		return jen.Func().Add(c.signature(t))
	case *ast.InterfaceType:
		return jen.Interface(c.methods(t.Methods)...)
	case *ast.StructType:
		return jen.Struct(c.fields(decodeAnonymous(t), config{withTags: true})...)
	case *ast.BinaryExpr:
		if t.Op == token.OR {
			return jen.Union(c.expr(t.X), c.expr(t.Y))
		}
	case *ast.UnaryExpr:
		if t.Op == token.TILDE {
			return jen.Op("~").Add(c.expr(t.X))
		}
	case *ast.BasicLit:
		return jen.Id(t.Value)
	}

	return jen.Id(record.ExprString(e))
}

func (c converter) signature(f *ast.FuncType) *jen.Statement {
	s := jen.Params(c.params(f.Params)...)

	if f.Results == nil || len(f.Results.List) == 0 {
		return s
	}

	if len(f.Results.List) == 1 && len(f.Results.List[0].Names) == 0 {
		return s.Add(c.expr(f.Results.List[0].Type))
	}

	return s.Params(c.params(f.Results)...)
}

func (c converter) params(list *ast.FieldList) []jen.Code {
	if list == nil {
		return nil
	}

	var codes []jen.Code

	for _, p := range list.List {
		if len(p.Names) == 0 {
			codes = append(codes, c.expr(p.Type))
			continue
		}

		for _, name := range p.Names {
			codes = append(codes, jen.Id(name.Name).Add(c.expr(p.Type)))
		}
	}

	return codes
}

func (c converter) methods(list *ast.FieldList) []jen.Code {
	if list == nil {
		return nil
	}

	var codes []jen.Code

	for _, m := range list.List {
		fn, ok := m.Type.(*ast.FuncType)
		if !ok || len(m.Names) == 0 {
			// embedded interface or type set
			codes = append(codes, c.expr(m.Type))
			continue
		}

		for _, name := range m.Names {
			codes = append(codes, jen.Id(name.Name).Add(c.signature(fn)))
		}
	}

	return codes
}

// decodeAnonymous turns the fields of an inline struct type into descriptors.
// Inline structs are written as-is, never wrapped.
func decodeAnonymous(s *ast.StructType) []record.Field {
	var fields []record.Field
	if s.Fields == nil {
		return fields
	}

	for _, f := range s.Fields.List {
		tag := ""
		if f.Tag != nil {
			tag, _ = strconv.Unquote(f.Tag.Value)
		}

		if len(f.Names) == 0 {
			fields = append(fields, record.Field{Type: f.Type, Embedded: true, Tag: tag})
			continue
		}

		for _, name := range f.Names {
			fields = append(fields, record.Field{Name: name.Name, Type: f.Type, Tag: tag})
		}
	}

	return fields
}

// commentLines rewrites one source comment as line comments. Block comments
// are split per line with their indentation dropped. Every line keeps its
// "//" marker so jennifer writes it verbatim.
func commentLines(comment string) []string {
	if strings.HasPrefix(comment, "//") {
		return []string{comment}
	}

	text := strings.TrimSuffix(strings.TrimPrefix(comment, "/*"), "*/")
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	// the markers usually sit on lines of their own
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			out = append(out, "//")
			continue
		}
		out = append(out, "// "+line)
	}

	return out
}

// rawTag quotes a struct tag for output as written.
func rawTag(tag string) string {
	if strconv.CanBackquote(tag) {
		return "`" + tag + "`"
	}

	return strconv.Quote(tag)
}

// ParseTag splits a raw struct tag into its key/value pairs. Malformed
// trailing content is dropped, like reflect.StructTag.Lookup ignores it.
func ParseTag(tag string) map[string]string {
	tags, _ := parseTag(tag)
	return tags
}

// parseTag reports false when part of the tag is not in key:"value" form or
// a key repeats, so the tag can't be rebuilt from the map.
func parseTag(tag string) (map[string]string, bool) {
	tags := map[string]string{}

	for tag != "" {
		// skip leading space
		i := 0
		for i < len(tag) && tag[i] == ' ' {
			i++
		}
		tag = tag[i:]
		if tag == "" {
			return tags, true
		}

		i = 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}
		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			return tags, false
		}
		name := tag[:i]
		tag = tag[i+1:]

		// scan quoted string to find value
		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(tag) {
			return tags, false
		}
		quoted := tag[:i+1]
		tag = tag[i+1:]

		value, err := strconv.Unquote(quoted)
		if err != nil {
			return tags, false
		}
		if _, dup := tags[name]; dup {
			return tags, false
		}
		tags[name] = value
	}

	return tags, true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
