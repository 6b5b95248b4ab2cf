/*
Package inspect discovers the callable members of an arbitrary Go value.

Members are returned in a stable order that mirrors how an object with a
delegation chain resolves names:

 1. exported func-typed fields of the struct itself, in declaration order
    (interface-typed fields count when they currently hold a func)
 2. exported func-typed fields of exported embedded structs, depth first
 3. non-nil func entries of a map with string keys, keys sorted
 4. the exported method set of the value's dynamic type

A name found earlier hides the same name found later. Inspection only reads
the target, so unaddressable struct values work as well as pointers.
*/
package inspect

import (
	"reflect"
	"sort"
)

// Source says where a member was found.
type Source int

const (
	// Field is a func-typed field declared on the struct itself.
	Field Source = iota
	// Embedded is a func-typed field reached through an embedded struct.
	Embedded
	// Entry is a func value stored in a map.
	Entry
	// Method is a method of the value's type, bound to the value.
	Method
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case Field:
		return "field"
	case Embedded:
		return "embedded"
	case Entry:
		return "entry"
	case Method:
		return "method"
	}
	return "unknown"
}

// Member is a callable member of a target.
type Member struct {
	// Name is the member name.
	Name string

	// Source is where the member was found.
	Source Source

	// Func is the callable. Methods are already bound to the target. A
	// func-typed field may hold a nil func.
	Func reflect.Value

	// Type is the member's func type.
	Type reflect.Type
}

// Property is a non-function member of a target.
type Property struct {
	Name  string
	Value any
}

// Methods returns the names of the callable members of target.
func Methods(target any) []string {
	members := Members(target)
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Name)
	}
	return names
}

// Members returns the callable members of target in discovery order.
func Members(target any) []Member {
	v := reflect.ValueOf(target)
	if !v.IsValid() {
		return nil
	}

	c := &collector{seen: make(map[string]bool)}

	switch base := indirect(v); base.Kind() {
	case reflect.Struct:
		c.fields(base, Field)
	case reflect.Map:
		c.entries(base)
	}

	t := v.Type()
	for i := 0; i < t.NumMethod(); i++ {
		fn := v.Method(i)
		c.add(Member{Name: t.Method(i).Name, Source: Method, Func: fn, Type: fn.Type()})
	}

	return c.members
}

// Properties returns the exported non-function fields of a struct, or the
// non-function entries of a string-keyed map sorted by key. Embedded structs
// are part of the delegation chain and are not reported.
func Properties(target any) []Property {
	v := indirect(reflect.ValueOf(target))
	var props []Property

	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.Anonymous || !f.IsExported() || isCallable(v.Field(i)) {
				continue
			}
			props = append(props, Property{Name: f.Name, Value: v.Field(i).Interface()})
		}
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil
		}
		for _, k := range sortedKeys(v) {
			ev := v.MapIndex(k)
			if isCallable(ev) {
				continue
			}
			props = append(props, Property{Name: k.String(), Value: ev.Interface()})
		}
	}

	return props
}

type collector struct {
	seen    map[string]bool
	members []Member
}

func (c *collector) add(m Member) {
	if c.seen[m.Name] {
		return
	}
	c.seen[m.Name] = true
	c.members = append(c.members, m)
}

func (c *collector) fields(v reflect.Value, src Source) {
	t := v.Type()
	var embedded []reflect.Value

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		fv := v.Field(i)

		if f.Anonymous {
			// Unexported embedded values cannot be called through reflection.
			if !f.IsExported() {
				continue
			}
			if inner := indirect(fv); inner.Kind() == reflect.Struct {
				embedded = append(embedded, inner)
			}
			continue
		}
		if !f.IsExported() {
			continue
		}

		switch f.Type.Kind() {
		case reflect.Func:
			c.add(Member{Name: f.Name, Source: src, Func: fv, Type: f.Type})
		case reflect.Interface:
			if !fv.IsNil() && fv.Elem().Kind() == reflect.Func {
				c.add(Member{Name: f.Name, Source: src, Func: fv.Elem(), Type: fv.Elem().Type()})
			}
		}
	}

	for _, inner := range embedded {
		c.fields(inner, Embedded)
	}
}

func (c *collector) entries(v reflect.Value) {
	if v.Type().Key().Kind() != reflect.String {
		return
	}
	for _, k := range sortedKeys(v) {
		ev := v.MapIndex(k)
		if ev.Kind() == reflect.Interface {
			ev = ev.Elem()
		}
		if ev.Kind() == reflect.Func && !ev.IsNil() {
			c.add(Member{Name: k.String(), Source: Entry, Func: ev, Type: ev.Type()})
		}
	}
}

// isCallable reports whether a field or entry holds (or is typed as) a func.
func isCallable(v reflect.Value) bool {
	if v.Kind() == reflect.Func {
		return true
	}
	return v.Kind() == reflect.Interface && !v.IsNil() && v.Elem().Kind() == reflect.Func
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func sortedKeys(v reflect.Value) []reflect.Value {
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}
