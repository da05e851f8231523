package optionalize

import (
	"errors"
	"fmt"
	"go/token"

	"github.com/pouriyajamshidi/optionalize/record"
)

var (
	// ErrUnsupportedShape matches every UnsupportedShapeError.
	ErrUnsupportedShape = errors.New("only record shapes are supported")

	// ErrTypeNotFound indicates a requested type name was not declared in any input file.
	ErrTypeNotFound = errors.New("type not found")

	// ErrOutputWithMultipleFiles indicates an output file name was given for more than one input file.
	ErrOutputWithMultipleFiles = errors.New("output file name requires a single input file")
)

// UnsupportedShapeError is returned when a declaration that is not a struct
// is asked to be transformed.
type UnsupportedShapeError struct {
	Name string
	Kind record.Kind
	Pos  token.Position
}

func (e *UnsupportedShapeError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: derive from %s %s: %v", e.Pos, e.Kind, e.Name, ErrUnsupportedShape)
	}

	return fmt.Sprintf("derive from %s %s: %v", e.Kind, e.Name, ErrUnsupportedShape)
}

// Is makes errors.Is(err, ErrUnsupportedShape) hold.
func (e *UnsupportedShapeError) Is(target error) bool {
	return target == ErrUnsupportedShape
}

// UnknownWrapperError is returned for a wrapping style that does not exist.
type UnknownWrapperError struct {
	Style string
}

func (e *UnknownWrapperError) Error() string {
	return fmt.Sprintf("unknown wrapper style %q, use \"generic\" or \"pointer\"", e.Style)
}
