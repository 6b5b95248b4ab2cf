package value

import (
	"bytes"
	"math"
	"reflect"
	"time"

	"google.golang.org/protobuf/proto"
)

var timeType = reflect.TypeOf(time.Time{})

// compareMode selects how equal treats matchers and funcs.
type compareMode int

const (
	modeEqual compareMode = iota
	modeMatch
	modeIdentical
)

// visit marks a pointer pair already under comparison so cyclic values terminate.
type visit struct {
	a, b uintptr
	typ  reflect.Type
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b any) bool {
	return equal(reflect.ValueOf(a), reflect.ValueOf(b), make(map[visit]bool), modeEqual)
}

// Match is Equal, except that a Matcher found anywhere inside expected
// decides for the value at the same position in actual.
func Match(expected, actual any) bool {
	return equal(reflect.ValueOf(expected), reflect.ValueOf(actual), make(map[visit]bool), modeMatch)
}

// Identical is Equal, except that funcs must share the same code and
// matchers must be the same matcher value. Two Satisfies matchers built
// from separate calls are never identical.
func Identical(a, b any) bool {
	return equal(reflect.ValueOf(a), reflect.ValueOf(b), make(map[visit]bool), modeIdentical)
}

// EqualArgs reports whether two argument lists have the same length and
// pairwise equal values.
func EqualArgs(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// IdenticalArgs reports whether two argument lists have the same length and
// pairwise identical values.
func IdenticalArgs(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Identical(a[i], b[i]) {
			return false
		}
	}
	return true
}

// MatchArgs reports whether actual satisfies the expected argument list,
// honouring Matchers in expected.
func MatchArgs(expected, actual []any) bool {
	if len(expected) != len(actual) {
		return false
	}
	for i := range expected {
		if !Match(expected[i], actual[i]) {
			return false
		}
	}
	return true
}

func equal(a, b reflect.Value, seen map[visit]bool, mode compareMode) bool {
	switch mode {
	case modeMatch:
		if m, ok := asMatcher(a); ok {
			var actual any
			if b.IsValid() && b.CanInterface() {
				actual = b.Interface()
			}
			return m.Match(actual)
		}
	case modeIdentical:
		am, aok := asMatcher(a)
		bm, bok := asMatcher(b)
		if aok || bok {
			return aok && bok && sameMatcher(am, bm)
		}
	}

	a, b = unwrap(a), unwrap(b)
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}

	// Messages carry internal state that only proto.Equal understands.
	am, aok := asMessage(a)
	bm, bok := asMessage(b)
	if aok || bok {
		return aok && bok && proto.Equal(am, bm)
	}

	if a.Kind() == reflect.Pointer || b.Kind() == reflect.Pointer {
		if a.Kind() == reflect.Pointer && b.Kind() == reflect.Pointer {
			if a.Pointer() == b.Pointer() {
				return true
			}
			key := visit{a: a.Pointer(), b: b.Pointer(), typ: a.Type()}
			if seen[key] {
				return true
			}
			seen[key] = true
		}
		return equal(deref(a), deref(b), seen, mode)
	}

	ka, kb := kindOfValue(a), kindOfValue(b)
	if ka == Bytes && kb == List {
		ka = List
	}
	if kb == Bytes && ka == List {
		kb = List
	}
	if ka != kb {
		return false
	}

	switch ka {
	case Bool:
		return a.Bool() == b.Bool()
	case Number:
		return numberEqual(a, b)
	case Text:
		return a.String() == b.String()
	case Bytes:
		return bytes.Equal(a.Bytes(), b.Bytes())
	case List:
		return listEqual(a, b, seen, mode)
	case Map:
		return mapEqual(a, b, seen, mode)
	case Record:
		return recordEqual(a, b, seen, mode)
	case Callable:
		if mode == modeIdentical {
			return a.Pointer() == b.Pointer()
		}
		return true
	default:
		return otherEqual(a, b)
	}
}

func deref(v reflect.Value) reflect.Value {
	if v.Kind() == reflect.Pointer {
		return v.Elem()
	}
	return v
}

func asMessage(v reflect.Value) (proto.Message, bool) {
	if !v.IsValid() || !v.CanInterface() || !v.Type().Implements(messageType) {
		return nil, false
	}
	m, ok := v.Interface().(proto.Message)
	return m, ok
}

// sameMatcher reports whether a and b are the same matcher value. Matchers
// of non-comparable types are only the same as themselves, which cannot be
// observed, so they never are.
func sameMatcher(a, b Matcher) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	return ta == tb && ta.Comparable() && a == b
}

func asMatcher(v reflect.Value) (Matcher, bool) {
	if !v.IsValid() || !v.CanInterface() {
		return nil, false
	}
	m, ok := v.Interface().(Matcher)
	return m, ok
}

func numberEqual(a, b reflect.Value) bool {
	af, aFloat := floatOf(a)
	bf, bFloat := floatOf(b)
	if aFloat || bFloat {
		if math.IsNaN(af) && math.IsNaN(bf) {
			return true
		}
		return af == bf
	}

	aSigned, bSigned := isSigned(a), isSigned(b)
	switch {
	case aSigned && bSigned:
		return a.Int() == b.Int()
	case !aSigned && !bSigned:
		return a.Uint() == b.Uint()
	case aSigned:
		return a.Int() >= 0 && uint64(a.Int()) == b.Uint()
	default:
		return b.Int() >= 0 && uint64(b.Int()) == a.Uint()
	}
}

// floatOf returns v as float64 and whether v was a float to begin with.
func floatOf(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), false
	default:
		return float64(v.Uint()), false
	}
}

func isSigned(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func listEqual(a, b reflect.Value, seen map[visit]bool, mode compareMode) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !equal(a.Index(i), b.Index(i), seen, mode) {
			return false
		}
	}
	return true
}

// mapEqual compares key/value sets. Keys of differing Go types, or held in
// interface-typed maps, are paired by structural equality.
func mapEqual(a, b reflect.Value, seen map[visit]bool, mode compareMode) bool {
	if a.Len() != b.Len() {
		return false
	}

	keyMode := modeEqual
	if mode == modeIdentical {
		keyMode = modeIdentical
	}
	direct := a.Type().Key() == b.Type().Key() && a.Type().Key().Kind() != reflect.Interface
	iter := a.MapRange()
	for iter.Next() {
		var bv reflect.Value
		if direct {
			bv = b.MapIndex(iter.Key())
		} else {
			bv = lookupKey(b, iter.Key(), seen, keyMode)
		}
		if !bv.IsValid() {
			return false
		}
		if !equal(iter.Value(), bv, seen, mode) {
			return false
		}
	}
	return true
}

func lookupKey(m, key reflect.Value, seen map[visit]bool, mode compareMode) reflect.Value {
	iter := m.MapRange()
	for iter.Next() {
		if equal(key, iter.Key(), seen, mode) {
			return iter.Value()
		}
	}
	return reflect.Value{}
}

func recordEqual(a, b reflect.Value, seen map[visit]bool, mode compareMode) bool {
	if a.Type() != b.Type() {
		return false
	}
	if a.Type() == timeType && a.CanInterface() && b.CanInterface() {
		return a.Interface().(time.Time).Equal(b.Interface().(time.Time))
	}
	for i := 0; i < a.NumField(); i++ {
		if !equal(a.Field(i), b.Field(i), seen, mode) {
			return false
		}
	}
	return true
}

func otherEqual(a, b reflect.Value) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch a.Kind() {
	case reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	case reflect.Complex64, reflect.Complex128:
		return a.Complex() == b.Complex()
	}
	if a.CanInterface() && b.CanInterface() && a.Type().Comparable() {
		return a.Interface() == b.Interface()
	}
	return false
}
