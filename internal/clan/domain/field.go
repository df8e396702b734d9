package domain

import (
	"bytes"
	"encoding/json"
)

// Field is a tri-state optional value: absent (Set false), null (Set true,
// Valid false) or a value (Set and Valid true).
type Field[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func Value[T any](v T) Field[T] {
	return Field[T]{Set: true, Valid: true, Value: v}
}

func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

func (f Field[T]) IsNull() bool {
	return f.Set && !f.Valid
}

// Ptr returns nil for null or absent fields.
func (f Field[T]) Ptr() *T {
	if !f.Set || !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// UnmarshalJSON is only invoked for keys present in the payload, which is
// what distinguishes absent from null.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Valid = false
		var zero T
		f.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}
