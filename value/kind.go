package value

import (
	"reflect"

	"google.golang.org/protobuf/proto"
)

// Kind is the closed set of argument shapes understood by Equal.
type Kind int

const (
	// Null is an absent value: untyped nil or a nil pointer, interface, func or chan.
	Null Kind = iota
	// Bool is a boolean.
	Bool
	// Number is any integer or floating point value.
	Number
	// Text is a string.
	Text
	// Bytes is a byte slice.
	Bytes
	// List is a slice or array.
	List
	// Map is a map.
	Map
	// Record is a struct.
	Record
	// Callable is a non-nil func.
	Callable
	// Message is a protobuf message.
	Message
	// Other covers channels, complex numbers and anything else.
	Other
)

var kindNames = map[Kind]string{
	Null:     "null",
	Bool:     "bool",
	Number:   "number",
	Text:     "text",
	Bytes:    "bytes",
	List:     "list",
	Map:      "map",
	Record:   "record",
	Callable: "callable",
	Message:  "message",
	Other:    "other",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

var messageType = reflect.TypeOf((*proto.Message)(nil)).Elem()

// KindOf classifies v.
func KindOf(v any) Kind {
	return kindOfValue(reflect.ValueOf(v))
}

func kindOfValue(v reflect.Value) Kind {
	v = unwrap(v)
	if isNil(v) {
		return Null
	}
	if v.Type().Implements(messageType) {
		return Message
	}

	switch v.Kind() {
	case reflect.Bool:
		return Bool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return Number
	case reflect.String:
		return Text
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return Bytes
		}
		return List
	case reflect.Array:
		return List
	case reflect.Map:
		return Map
	case reflect.Struct:
		return Record
	case reflect.Func:
		return Callable
	case reflect.Pointer:
		return kindOfValue(v.Elem())
	default:
		return Other
	}
}

// unwrap strips interface wrappers.
func unwrap(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// isNil reports whether v is null-like. Nil maps and slices are empty
// collections, not null.
func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}
