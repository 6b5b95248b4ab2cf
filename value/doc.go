/*
Package value classifies call arguments and compares them structurally.

Every argument a double records is an ordinary Go value. For matching and
assertions those values are treated as a closed set of kinds (see Kind):
null, bool, number, text, bytes, list, map, record, callable, protobuf message
and "other". Equal walks two values kind by kind:

  - numbers compare by numeric value, so int(1), int64(1) and float64(1) match
  - maps compare as key/value sets; iteration order never matters
  - pointers are followed, so &T{...} matches T{...}
  - protobuf messages compare with proto.Equal
  - two funcs are equal when both are nil or both are non-nil

Match is Equal with Matcher support on the expected side, at any depth:

	value.MatchArgs([]any{"alice", value.Anything}, []any{"alice", 42}) // true
*/
package value
