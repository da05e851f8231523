// Package optionalize derives "optional" counterparts of Go struct types: every
// field type is wrapped in an optional container unless it already is one.
package optionalize

import (
	"go/ast"

	"github.com/pouriyajamshidi/optionalize/wrappers"
)

var (
	// List of compile time checks for all wrappers
	_ Wrapper = (*wrappers.Generic)(nil)
	_ Wrapper = (*wrappers.Pointer)(nil)
)

// Wrapper defines how a field type is made optional.
type Wrapper interface {
	// IsOptional reports whether t is already an optional type. The check is
	// a shallow match on the written type expression; aliases are not resolved.
	IsOptional(t ast.Expr) bool

	// Wrap returns t wrapped in the optional container.
	Wrap(t ast.Expr) ast.Expr

	// Imports returns the imports a wrapped type refers to, keyed by the
	// package name used in the wrapped expression.
	Imports() map[string]string

	// String names the wrapping style.
	String() string
}

// NewWrapper returns the wrapper for a style name: "generic" (the default when
// style is empty) or "pointer". pkg and typ override the generic container's
// import path and type name when not empty.
func NewWrapper(style, pkg, typ string) (Wrapper, error) {
	switch style {
	case "", wrappers.StyleGeneric:
		return wrappers.NewGeneric(wrappers.WithPackage(pkg), wrappers.WithTypeName(typ)), nil
	case wrappers.StylePointer:
		return wrappers.NewPointer(), nil
	}

	return nil, &UnknownWrapperError{Style: style}
}
