package handlers

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/danielgtaylor/huma/v2"
)

// Nullable is a body field for a nullable column. It tells a missing key
// (Sent false) apart from an explicit null (Null true).
type Nullable[T any] struct {
	Sent  bool
	Null  bool
	Value T
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	n.Sent = true
	if bytes.Equal(b, []byte("null")) {
		n.Null = true
		return nil
	}
	return json.Unmarshal(b, &n.Value)
}

func (n Nullable[T]) Schema(r huma.Registry) *huma.Schema {
	s := r.Schema(reflect.TypeOf(n.Value), true, "")
	s.Nullable = true
	return s
}

// assign stores the field into dst. A missing key leaves dst untouched and
// null clears it.
func (n Nullable[T]) assign(dst **T) {
	switch {
	case !n.Sent:
	case n.Null:
		*dst = nil
	default:
		v := n.Value
		*dst = &v
	}
}
