package gorec

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Value is the closed tagged variant held by every field slot. Construct
// values through the typed constructors; the zero Value is invalid and is
// never stored by Instance.
type Value struct {
	kind    Kind
	s       string
	i       int64
	f       float64
	b       bool
	t       time.Time
	u       uuid.UUID
	list    []Value
	entries []MapEntry
	inst    *Instance
}

// MapEntry is one ordered key/value pair of a map-kind Value.
type MapEntry struct {
	Key   string
	Value Value
}

// Null returns the explicit null value.
func Null() Value { return Value{kind: KindNull} }

// StringValue returns a string-kind value.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// IntValue returns an int-kind value.
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// FloatValue returns a float-kind value.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// BoolValue returns a bool-kind value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// DateValue returns a date-kind value. The time-of-day portion of t is
// discarded; the calendar date is kept as-is in UTC.
func DateValue(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// TimeValue returns a time-of-day-kind value. The calendar date portion of t
// is discarded; the clock (including fractional seconds) is kept.
func TimeValue(t time.Time) Value {
	h, min, s := t.Clock()
	return Value{kind: KindTime, t: time.Date(0, time.January, 1, h, min, s, t.Nanosecond(), time.UTC)}
}

// DateTimeValue returns a datetime-kind value carrying the full instant.
func DateTimeValue(t time.Time) Value { return Value{kind: KindDateTime, t: t} }

// UUIDValue returns a uuid-kind value.
func UUIDValue(u uuid.UUID) Value { return Value{kind: KindUUID, u: u} }

// ListValue returns a list-kind value holding a copy of items.
func ListValue(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindList, list: cp}
}

// MapValue returns a map-kind value from ordered entries. A repeated key
// replaces the earlier entry in place.
func MapValue(entries ...MapEntry) Value {
	out := make([]MapEntry, 0, len(entries))
	for _, e := range entries {
		replaced := false
		for i := range out {
			if out[i].Key == e.Key {
				out[i].Value = e.Value
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, e)
		}
	}
	return Value{kind: KindMap, entries: out}
}

// ResourceValue returns a resource-kind value wrapping a nested instance.
func ResourceValue(inst *Instance) Value { return Value{kind: KindResource, inst: inst} }

// ValueOf converts a natural Go value into a Value. nil maps to Null,
// time.Time maps to datetime; use DateValue/TimeValue for the other temporal
// kinds. Maps are ordered by sorted key for determinism.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int8:
		return IntValue(int64(x)), nil
	case int16:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return Value{}, fmt.Errorf("uint value %d overflows int64", x)
		}
		return IntValue(int64(x)), nil
	case uint8:
		return IntValue(int64(x)), nil
	case uint16:
		return IntValue(int64(x)), nil
	case uint32:
		return IntValue(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return Value{}, fmt.Errorf("uint64 value %d overflows int64", x)
		}
		return IntValue(int64(x)), nil
	case float32:
		return FloatValue(float64(x)), nil
	case float64:
		return FloatValue(x), nil
	case time.Time:
		return DateTimeValue(x), nil
	case uuid.UUID:
		return UUIDValue(x), nil
	case *Instance:
		return ResourceValue(x), nil
	case []Value:
		return ListValue(x...), nil
	case []any:
		items := make([]Value, 0, len(x))
		for _, it := range x {
			iv, err := ValueOf(it)
			if err != nil {
				return Value{}, err
			}
			items = append(items, iv)
		}
		return ListValue(items...), nil
	case []string:
		items := make([]Value, 0, len(x))
		for _, s := range x {
			items = append(items, StringValue(s))
		}
		return ListValue(items...), nil
	case []int:
		items := make([]Value, 0, len(x))
		for _, i := range x {
			items = append(items, IntValue(int64(i)))
		}
		return ListValue(items...), nil
	case []float64:
		items := make([]Value, 0, len(x))
		for _, fl := range x {
			items = append(items, FloatValue(fl))
		}
		return ListValue(items...), nil
	case []MapEntry:
		return MapValue(x...), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]MapEntry, 0, len(keys))
		for _, k := range keys {
			ev, err := ValueOf(x[k])
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, MapEntry{Key: k, Value: ev})
		}
		return MapValue(entries...), nil
	default:
		return Value{}, fmt.Errorf("cannot represent %T as a field value", v)
	}
}

// MustValue is ValueOf that panics on unsupported input. Intended for
// declaration-time constants.
func MustValue(v any) Value {
	out, err := ValueOf(v)
	if err != nil {
		panic(err)
	}
	return out
}

// Kind reports the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is the explicit null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsZero reports whether the value is the invalid zero Value.
func (v Value) IsZero() bool { return v.kind == KindInvalid }

// String returns the string payload.
func (v Value) String() (string, bool) { return v.s, v.kind == KindString }

// Int returns the int payload.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Float returns the float payload.
func (v Value) Float() (float64, bool) { return v.f, v.kind == KindFloat }

// Bool returns the bool payload.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Time returns the temporal payload of date, time and datetime values.
func (v Value) Time() (time.Time, bool) {
	switch v.kind {
	case KindDate, KindTime, KindDateTime:
		return v.t, true
	}
	return time.Time{}, false
}

// UUID returns the uuid payload.
func (v Value) UUID() (uuid.UUID, bool) { return v.u, v.kind == KindUUID }

// List returns a copy of the list payload.
func (v Value) List() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	cp := make([]Value, len(v.list))
	copy(cp, v.list)
	return cp, true
}

// Len returns the element count of list and map values and the rune count of
// strings; ok is false for other kinds.
func (v Value) Len() (int, bool) {
	switch v.kind {
	case KindList:
		return len(v.list), true
	case KindMap:
		return len(v.entries), true
	case KindString:
		return len([]rune(v.s)), true
	}
	return 0, false
}

// Entries returns a copy of the ordered map payload.
func (v Value) Entries() ([]MapEntry, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	cp := make([]MapEntry, len(v.entries))
	copy(cp, v.entries)
	return cp, true
}

// MapGet looks up a key in a map-kind value.
func (v Value) MapGet(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	for _, e := range v.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Resource returns the nested instance payload.
func (v Value) Resource() (*Instance, bool) { return v.inst, v.kind == KindResource }

// Equal reports deep value equality. Temporal values compare with time.Equal,
// lists are order-sensitive, maps are order-insensitive.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInvalid, KindNull:
		return true
	case KindString:
		return v.s == o.s
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindBool:
		return v.b == o.b
	case KindDate, KindTime, KindDateTime:
		return v.t.Equal(o.t)
	case KindUUID:
		return v.u == o.u
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.entries) != len(o.entries) {
			return false
		}
		for _, e := range v.entries {
			ov, ok := o.MapGet(e.Key)
			if !ok || !e.Value.Equal(ov) {
				return false
			}
		}
		return true
	case KindResource:
		if v.inst == nil || o.inst == nil {
			return v.inst == o.inst
		}
		return v.inst.Equal(o.inst)
	}
	return false
}

// Display renders a value for message substitution. Strings are quoted the
// way a developer would write them.
func (v Value) Display() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return "'" + v.s + "'"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindDate:
		return formatDate(v.t)
	case KindTime:
		return formatClock(v.t)
	case KindDateTime:
		return formatRFC3339Canonical(v.t)
	case KindUUID:
		return v.u.String()
	}
	return v.kind.String()
}
