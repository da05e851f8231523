// Package record holds the descriptors of record shapes read from Go source
// and produced by the transformer.
package record

import (
	"go/ast"
	"go/token"
	"go/types"
)

// Visibility tells whether a record or a field is exported.
type Visibility int

const (
	Private Visibility = iota
	Public
)

// VisibilityOf applies the Go export rule to name.
func VisibilityOf(name string) Visibility {
	if token.IsExported(name) {
		return Public
	}

	return Private
}

func (v Visibility) String() string {
	if v == Public {
		return "public"
	}

	return "private"
}

// Kind is the shape of a type declaration.
type Kind int

const (
	// Struct is a record shape, the only kind the transformer accepts.
	Struct Kind = iota
	// Interface is a method set or a union of types.
	Interface
	// Alias is a `type A = B` declaration.
	Alias
	// Defined is a defined type whose written type is not a struct literal,
	// e.g. `type ID int` or `type Other Widget`.
	Defined
)

func (k Kind) String() string {
	switch k {
	case Struct:
		return "struct"
	case Interface:
		return "interface"
	case Alias:
		return "type alias"
	case Defined:
		return "defined type"
	}

	return "unknown"
}

// Field describes one field of a record.
type Field struct {
	Name       string
	Type       ast.Expr
	Visibility Visibility
	Embedded   bool
	Tag        string   // Tag is the raw struct tag without its backquotes.
	Doc        []string // Doc holds the field's comment lines, markers included.
}

// TypeString renders the field's type expression as written.
func (f Field) TypeString() string {
	return ExprString(f.Type)
}

// TypeParam is a generic type parameter of a record.
type TypeParam struct {
	Name       string
	Constraint ast.Expr
}

// Descriptor describes a record shape. The same type is used for the input
// read from source and for the generated output.
type Descriptor struct {
	Name       string
	Kind       Kind
	TypeParams []TypeParam
	Fields     []Field
	Visibility Visibility
	Pos        token.Position
}

// IsRecord reports whether d is a record shape.
func (d Descriptor) IsRecord() bool {
	return d.Kind == Struct
}

// FieldNames returns the field names in declaration order.
func (d Descriptor) FieldNames() []string {
	names := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		names = append(names, f.Name)
	}

	return names
}

// ExprString renders a type expression. A nil expression renders as "".
func ExprString(e ast.Expr) string {
	if e == nil {
		return ""
	}

	return types.ExprString(e)
}
