// Package wrappers implements the styles used to make a field type optional.
package wrappers

import (
	"go/ast"
	"path"
	"strings"

	"github.com/pouriyajamshidi/optionalize/option"
)

// Style names accepted on the command line and in config files.
const (
	StyleGeneric = "generic"
	StylePointer = "pointer"
)

// Defaults for the generic container.
const (
	DefaultPackage  = "github.com/pouriyajamshidi/optionalize/optional"
	DefaultTypeName = "Option"
)

// Generic wraps T as pkg.Option[T].
type Generic struct {
	Package  string // Package is the import path of the container type.
	TypeName string // TypeName is the generic container type, e.g. "Option".
}

type GenericOption = option.Option[Generic]

// WithPackage sets the import path of the container. An empty path keeps the default.
func WithPackage(importPath string) GenericOption {
	return func(g *Generic) {
		if importPath != "" {
			g.Package = importPath
		}
	}
}

// WithTypeName sets the container type name. An empty name keeps the default.
func WithTypeName(name string) GenericOption {
	return func(g *Generic) {
		if name != "" {
			g.TypeName = name
		}
	}
}

// NewGeneric returns a Generic wrapper for optional.Option unless configured otherwise.
func NewGeneric(opts ...GenericOption) *Generic {
	g := Generic{
		Package:  DefaultPackage,
		TypeName: DefaultTypeName,
	}

	option.Apply(&g, opts...)

	return &g
}

// IsOptional matches Name[X] and pkg.Name[X] for any package qualifier.
func (g *Generic) IsOptional(t ast.Expr) bool {
	index, ok := t.(*ast.IndexExpr)
	if !ok {
		return false
	}

	switch head := index.X.(type) {
	case *ast.Ident:
		return head.Name == g.TypeName
	case *ast.SelectorExpr:
		return head.Sel.Name == g.TypeName
	}

	return false
}

// Wrap returns pkg.Name[t].
func (g *Generic) Wrap(t ast.Expr) ast.Expr {
	return &ast.IndexExpr{
		X: &ast.SelectorExpr{
			X:   ast.NewIdent(g.PackageName()),
			Sel: ast.NewIdent(g.TypeName),
		},
		Index: t,
	}
}

// Imports returns the container package keyed by its package name.
func (g *Generic) Imports() map[string]string {
	return map[string]string{g.PackageName(): g.Package}
}

// PackageName guesses the package name from the import path, skipping
// major version suffixes such as "/v2".
func (g *Generic) PackageName() string {
	return PackageName(g.Package)
}

func (g *Generic) String() string {
	return StyleGeneric
}

// PackageName guesses a package name from its import path the way the go
// command does for module paths: the last element, unless it is a major
// version suffix, with dashes and dots dropped.
func PackageName(importPath string) string {
	name := path.Base(importPath)
	if isMajorVersion(name) {
		name = path.Base(path.Dir(importPath))
	}

	// gopkg.in/yaml.v3
	if i := strings.LastIndex(name, ".v"); i > 0 && isMajorVersion(name[i+1:]) {
		name = name[:i]
	}

	name = strings.TrimPrefix(name, "go-")
	name = strings.TrimSuffix(name, ".go")

	return strings.NewReplacer("-", "", ".", "").Replace(name)
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}

	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
