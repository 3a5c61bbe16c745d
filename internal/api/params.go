package api

import (
	"reflect"

	"github.com/danielgtaylor/huma/v2"
)

// OptionalParam wraps a query parameter so handlers can tell an omitted
// value apart from an explicit zero.
type OptionalParam[T any] struct {
	Value T
	IsSet bool
}

// Schema uses the wrapped type's schema.
func (o OptionalParam[T]) Schema(r huma.Registry) *huma.Schema {
	return huma.SchemaFromType(r, reflect.TypeOf(o.Value))
}

// Receiver exposes the wrapped value to huma's parameter parser.
func (o *OptionalParam[T]) Receiver() reflect.Value {
	return reflect.ValueOf(o).Elem().Field(0)
}

// OnParamSet records whether the request carried the parameter.
func (o *OptionalParam[T]) OnParamSet(isSet bool, _ any) {
	o.IsSet = isSet
}

// Ptr returns the value, or nil when the parameter was omitted.
func (o OptionalParam[T]) Ptr() *T {
	if !o.IsSet {
		return nil
	}
	v := o.Value
	return &v
}

// nonEmpty returns nil for the empty string.
func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
