package optionalize

import (
	"go/ast"
	"slices"

	"github.com/pouriyajamshidi/optionalize/record"
)

// Suffix is appended to a record name to name its optional counterpart.
const Suffix = "Optional"

// OptionalName returns the name of the record derived from name.
// Collisions with existing declarations are left to the compiler.
func OptionalName(name string) string {
	return name + Suffix
}

// WrappedType returns t unchanged when w already considers it optional and
// wraps it otherwise, so Option[Option[X]] is never produced.
func WrappedType(t ast.Expr, w Wrapper) ast.Expr {
	if w.IsOptional(t) {
		return t
	}

	return w.Wrap(t)
}

// Transform derives the optional counterpart of a record. Field order, names,
// visibility, tags and docs are kept; only field types change.
// Any declaration that is not a struct yields an *UnsupportedShapeError.
func Transform(in record.Descriptor, w Wrapper) (record.Descriptor, error) {
	if !in.IsRecord() {
		return record.Descriptor{}, &UnsupportedShapeError{
			Name: in.Name,
			Kind: in.Kind,
			Pos:  in.Pos,
		}
	}

	out := record.Descriptor{
		Name:       OptionalName(in.Name),
		Kind:       record.Struct,
		TypeParams: slices.Clone(in.TypeParams),
		Fields:     make([]record.Field, len(in.Fields)),
		Visibility: in.Visibility,
		Pos:        in.Pos,
	}

	for i, f := range in.Fields {
		f.Type = WrappedType(f.Type, w)
		f.Doc = slices.Clone(f.Doc)
		out.Fields[i] = f
	}

	return out, nil
}

// CountWrapped returns how many fields of in would be wrapped and how many
// would pass through unchanged.
func CountWrapped(in record.Descriptor, w Wrapper) (wrapped, passed int) {
	for _, f := range in.Fields {
		if w.IsOptional(f.Type) {
			passed++
			continue
		}
		wrapped++
	}

	return wrapped, passed
}
