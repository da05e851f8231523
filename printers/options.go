package printers

import (
	"io"
	"os"
)

// options contains common display options shared by all printers
type options struct {
	ShowTimestamp    bool
	ShowPosition     bool
	ShowFailuresOnly bool
	Out              io.Writer
}

type hasOptions interface {
	options() *options
}

func (o *options) writer() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}

	return o.Out
}

// WithTimestamp enables timestamp display in printer output
func WithTimestamp[T hasOptions]() func(T) {
	return func(p T) {
		p.options().ShowTimestamp = true
	}
}

// WithPosition enables display of the file:line:column of each declaration
func WithPosition[T hasOptions]() func(T) {
	return func(p T) {
		p.options().ShowPosition = true
	}
}

// WithFailuresOnly configures the printer to only show rejected declarations
func WithFailuresOnly[T hasOptions]() func(T) {
	return func(p T) {
		p.options().ShowFailuresOnly = true
	}
}

// WithOutput redirects console output, os.Stdout by default
func WithOutput[T hasOptions](w io.Writer) func(T) {
	return func(p T) {
		p.options().Out = w
	}
}
