// Package optional provides the Option type referenced by generated code.
package optional

import (
	"bytes"
	"encoding/json"
	"fmt"
)

var null = []byte("null")

// Option holds a value of type T or nothing. The zero value is None.
type Option[T any] struct {
	value T
	ok    bool
}

// Some returns an Option holding v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None returns an empty Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// FromPtr returns None for a nil pointer and Some(*p) otherwise.
func FromPtr[T any](p *T) Option[T] {
	if p == nil {
		return None[T]()
	}

	return Some(*p)
}

// Map applies fn to the held value, if any.
func Map[T, U any](o Option[T], fn func(T) U) Option[U] {
	if !o.ok {
		return None[U]()
	}

	return Some(fn(o.value))
}

// Get returns the held value and whether there is one.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

func (o Option[T]) IsSome() bool {
	return o.ok
}

func (o Option[T]) IsNone() bool {
	return !o.ok
}

// OrElse returns the held value or def when the Option is empty.
func (o Option[T]) OrElse(def T) T {
	if !o.ok {
		return def
	}

	return o.value
}

// Ptr returns a pointer to a copy of the held value, or nil.
func (o Option[T]) Ptr() *T {
	if !o.ok {
		return nil
	}

	v := o.value
	return &v
}

// IsZero lets encoding/json drop empty options tagged with omitzero.
func (o Option[T]) IsZero() bool {
	return !o.ok
}

// MarshalJSON encodes None as null and Some(v) as v.
func (o Option[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return null, nil
	}

	return json.Marshal(o.value)
}

// UnmarshalJSON decodes null as None and anything else as Some.
func (o *Option[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), null) {
		*o = None[T]()
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode optional value: %w", err)
	}

	*o = Some(v)
	return nil
}

func (o Option[T]) String() string {
	if !o.ok {
		return "None"
	}

	return fmt.Sprintf("Some(%v)", o.value)
}
