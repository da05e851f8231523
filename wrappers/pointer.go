package wrappers

import "go/ast"

// Pointer wraps T as *T. Any pointer type counts as already optional.
type Pointer struct{}

// NewPointer returns a Pointer wrapper.
func NewPointer() *Pointer {
	return &Pointer{}
}

// IsOptional reports whether t is written as a pointer type.
func (p *Pointer) IsOptional(t ast.Expr) bool {
	_, ok := t.(*ast.StarExpr)
	return ok
}

// Wrap returns *t.
func (p *Pointer) Wrap(t ast.Expr) ast.Expr {
	return &ast.StarExpr{X: t}
}

// Imports returns nil: pointers need no import.
func (p *Pointer) Imports() map[string]string {
	return nil
}

func (p *Pointer) String() string {
	return StylePointer
}
