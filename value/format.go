package value

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"google.golang.org/protobuf/encoding/prototext"
)

// Format renders v for failure messages: strings are quoted, funcs print as
// <func>, maps print with sorted keys and protobuf messages print as text.
func Format(v any) string {
	var sb strings.Builder
	format(&sb, reflect.ValueOf(v))
	return sb.String()
}

// FormatArgs renders an argument list as "(a, b, c)".
func FormatArgs(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = Format(a)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatValue(v reflect.Value) string {
	var sb strings.Builder
	format(&sb, v)
	return sb.String()
}

func format(sb *strings.Builder, v reflect.Value) {
	if m, ok := asMatcher(v); ok {
		sb.WriteString(m.String())
		return
	}

	v = unwrap(v)
	if isNil(v) {
		if v.IsValid() && v.Kind() == reflect.Func {
			sb.WriteString("<nil func>")
			return
		}
		sb.WriteString("nil")
		return
	}
	if m, ok := asMessage(v); ok {
		sb.WriteString("{" + strings.TrimSpace(prototext.MarshalOptions{}.Format(m)) + "}")
		return
	}

	if v.Kind() == reflect.Pointer {
		sb.WriteString("&")
		format(sb, v.Elem())
		return
	}

	switch kindOfValue(v) {
	case Text:
		sb.WriteString(strconv.Quote(v.String()))
	case Bytes:
		fmt.Fprintf(sb, "%q", v.Bytes())
	case Callable:
		sb.WriteString("<func>")
	case List:
		sb.WriteString("[")
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				sb.WriteString(", ")
			}
			format(sb, v.Index(i))
		}
		sb.WriteString("]")
	case Map:
		formatMap(sb, v)
	default:
		if v.CanInterface() {
			fmt.Fprintf(sb, "%+v", v.Interface())
			return
		}
		sb.WriteString(v.Type().String())
	}
}

func formatMap(sb *strings.Builder, v reflect.Value) {
	type pair struct{ k, v string }
	pairs := make([]pair, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		pairs = append(pairs, pair{k: formatValue(iter.Key()), v: formatValue(iter.Value())})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].k < pairs[j].k })

	sb.WriteString("{")
	for i, p := range pairs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.k + ": " + p.v)
	}
	sb.WriteString("}")
}
