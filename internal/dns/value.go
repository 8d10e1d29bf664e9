package dns

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Kind tags the shape of a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindBool
	KindInt
	KindList
	KindRecordList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindList:
		return "list"
	case KindRecordList:
		return "record list"
	default:
		return "invalid"
	}
}

// IsScalar reports whether k is one of the scalar kinds.
func (k Kind) IsScalar() bool {
	return k == KindString || k == KindBool || k == KindInt
}

// Value is a zone attribute value: a scalar, a list of strings, or a list
// of rrsets. The zero Value is invalid.
type Value struct {
	kind   Kind
	str    string
	boolv  bool
	intv   int64
	list   []string
	rrsets []RRSet
}

func StringValue(s string) Value { return Value{kind: KindString, str: s} }
func BoolValue(b bool) Value     { return Value{kind: KindBool, boolv: b} }
func IntValue(i int64) Value     { return Value{kind: KindInt, intv: i} }

func ListValue(items ...string) Value {
	return Value{kind: KindList, list: slices.Clone(items)}
}

func RecordListValue(sets []RRSet) Value {
	return Value{kind: KindRecordList, rrsets: slices.Clone(sets)}
}

func (v Value) Kind() Kind { return v.kind }

// Str returns the string of a KindString value.
func (v Value) Str() string { return v.str }

// Items returns a copy of the elements of a KindList value.
func (v Value) Items() []string { return slices.Clone(v.list) }

// RRSets returns the rrsets of a KindRecordList value.
func (v Value) RRSets() []RRSet { return v.rrsets }

// Equal compares two values of the same kind. Lists compare in order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.boolv == o.boolv
	case KindInt:
		return v.intv == o.intv
	case KindList:
		return slices.Equal(v.list, o.list)
	case KindRecordList:
		return slices.EqualFunc(v.rrsets, o.rrsets, rrsetEqual)
	default:
		return true
	}
}

// Interface returns the plain Go form of the value, suitable for JSON or
// YAML encoding and change reports.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return v.boolv
	case KindInt:
		return v.intv
	case KindList:
		if len(v.list) == 0 {
			return []string{}
		}
		return v.Items()
	case KindRecordList:
		return v.rrsets
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.boolv)
	case KindInt:
		return strconv.FormatInt(v.intv, 10)
	case KindList:
		return "[" + strings.Join(v.list, ", ") + "]"
	case KindRecordList:
		keys := make([]string, 0, len(v.rrsets))
		for _, s := range v.rrsets {
			keys = append(keys, s.Key())
		}
		return "[" + strings.Join(keys, ", ") + "]"
	default:
		return "<invalid>"
	}
}

// MarshalJSON encodes the plain form of the value.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// ValueFromAny converts a decoded YAML or JSON value into a Value.
// Only scalars and lists of strings are accepted.
func ValueFromAny(in any) (Value, error) {
	switch x := in.(type) {
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return Value{}, fmt.Errorf("integer %d out of range", x)
		}
		return IntValue(int64(x)), nil
	case float64:
		if x != math.Trunc(x) {
			return Value{}, fmt.Errorf("non-integer number %v", x)
		}
		return IntValue(int64(x)), nil
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return Value{}, fmt.Errorf("non-integer number %s", x)
		}
		return IntValue(i), nil
	case []string:
		return ListValue(x...), nil
	case []any:
		items := make([]string, 0, len(x))
		for i, e := range x {
			s, ok := e.(string)
			if !ok {
				return Value{}, fmt.Errorf("list element %d: expected string, got %T", i, e)
			}
			items = append(items, s)
		}
		return ListValue(items...), nil
	case nil:
		return Value{}, fmt.Errorf("null value")
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", in)
	}
}

func valueFromJSON(msg json.RawMessage) (Value, bool) {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, false
	}
	v, err := ValueFromAny(raw)
	if err != nil {
		return Value{}, false
	}
	return v, true
}

func rrsetEqual(a, b RRSet) bool {
	if a.Name != b.Name || a.Type != b.Type {
		return false
	}
	if (a.TTL == nil) != (b.TTL == nil) || (a.TTL != nil && *a.TTL != *b.TTL) {
		return false
	}
	return slices.Equal(a.Records, b.Records)
}
