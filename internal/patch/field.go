// Package patch decodes partial-update request bodies where a key can be
// absent, explicitly null, or carry a value.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field is a JSON value that remembers whether its key appeared in the
// document. The zero value represents an absent key.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Of returns a field holding v.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a field explicitly set to null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// UnmarshalJSON implements json.Unmarshaler. encoding/json only calls it when
// the key is present, which is what makes Set meaningful.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON implements json.Marshaler.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Present reports whether the key carried a non-null value.
func (f Field[T]) Present() bool {
	return f.Set && !f.Null
}

// Ptr converts a set field to the nullable column value it should write:
// nil for null, a pointer to the value otherwise. Callers check Set first.
func (f Field[T]) Ptr() *T {
	if !f.Set || f.Null {
		return nil
	}
	v := f.Value
	return &v
}

// Apply copies a set field into dst, clearing it on null.
func (f Field[T]) Apply(dst **T) {
	if !f.Set {
		return
	}
	*dst = f.Ptr()
}

// Or returns the value when present and fallback otherwise.
func (f Field[T]) Or(fallback T) T {
	if f.Present() {
		return f.Value
	}
	return fallback
}
