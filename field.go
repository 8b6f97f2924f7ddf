package gorec

import (
	"fmt"
	"sort"

	"github.com/reoring/gorec/i18n"
)

// Reserved composite tags. These never resolve through the kind registry;
// the walker handles them structurally via Elem/Of.
const (
	TagList     = "list"
	TagMap      = "map"
	TagResource = "resource"
)

// Validator checks a single field value and reports zero or more issues.
// Validators run in declared order and never short-circuit each other.
type Validator func(v Value) Issues

// InstanceValidator checks a whole instance after its fields passed through
// field-level validation.
type InstanceValidator func(inst *Instance) Issues

// Field describes one named, typed slot of a ResourceType. Populate the
// exported fields and hand the spec to NewType (or use the dsl package);
// the returned ResourceType owns resolved copies, so treat declared specs
// as throwaway input.
type Field struct {
	Name     string
	Tag      string // scalar kind tag, or the reserved list/map/resource tags
	Required bool
	Nullable bool
	// Default is materialized into unset slots at construction and decode.
	// DefaultFunc wins over Default when both are set.
	Default     any
	DefaultFunc func() any
	// Choices restricts the value to a fixed set, validated (not parsed):
	// decode accepts out-of-set symbols, Validate reports invalid_choice.
	Choices []any
	// Validators run after the contract's intrinsic checks, in order.
	Validators []Validator
	// Messages overrides catalog templates per issue code for this field.
	Messages map[string]string
	// Elem describes list elements and map values for the reserved
	// list/map tags.
	Elem *Field
	// Of names the nested type for the reserved resource tag.
	Of *ResourceType
	// Calc makes the field virtual: computed at encode time, read-only,
	// skipped by validation and never assigned on decode.
	Calc func(inst *Instance) (Value, error)

	kind     Kind
	contract Contract
	defVal   Value
	choices  []Value
}

// Kind reports the field's resolved representation kind. Only meaningful on
// fields obtained from a built ResourceType.
func (f Field) Kind() Kind { return f.kind }

// Virtual reports whether the field is computed rather than stored.
func (f Field) Virtual() bool { return f.Calc != nil }

// HasDefault reports whether an unset slot receives a materialized value.
func (f Field) HasDefault() bool { return f.DefaultFunc != nil || f.Default != nil }

// resolve validates a declared field spec and fills the internal resolved
// state. Nested list/map element specs resolve recursively.
func (f *Field) resolve(path string) error {
	if f.Name == "" && path == "" {
		return fmt.Errorf("field name must not be empty")
	}
	where := f.Name
	if path != "" {
		where = path
	}
	switch f.Tag {
	case TagList, TagMap:
		if f.Elem == nil {
			return fmt.Errorf("field %q: %s requires an element spec", where, f.Tag)
		}
		if f.Of != nil {
			return fmt.Errorf("field %q: Of is only valid for %s fields", where, TagResource)
		}
		if f.Tag == TagList {
			f.kind = KindList
		} else {
			f.kind = KindMap
		}
		if err := f.Elem.resolve(where + " element"); err != nil {
			return err
		}
	case TagResource:
		if f.Of == nil {
			return fmt.Errorf("field %q: resource requires a target type", where)
		}
		if f.Elem != nil {
			return fmt.Errorf("field %q: Elem is only valid for list and map fields", where)
		}
		f.kind = KindResource
	default:
		c, err := KindOf(f.Tag)
		if err != nil {
			return err
		}
		if f.Elem != nil || f.Of != nil {
			return fmt.Errorf("field %q: Elem/Of are only valid for composite fields", where)
		}
		f.contract = c
		f.kind = c.Kind()
	}

	if len(f.Choices) > 0 {
		if f.contract == nil {
			return fmt.Errorf("field %q: choices require a scalar kind", where)
		}
		f.choices = make([]Value, 0, len(f.Choices))
		for _, raw := range f.Choices {
			v, err := f.contract.Parse(raw)
			if err != nil {
				return fmt.Errorf("field %q: choice %v does not match kind %q", where, raw, f.Tag)
			}
			f.choices = append(f.choices, v)
		}
	}

	if f.Default != nil && f.DefaultFunc == nil {
		v, err := f.parseInput(f.Default)
		if err != nil {
			return fmt.Errorf("field %q: default does not match kind %q", where, f.Tag)
		}
		f.defVal = v
	}
	return nil
}

// parseInput converts a natural Go value into a Value matching this field's
// kind, recursing into composites. Ready-made Values pass through a kind
// check instead.
func (f *Field) parseInput(raw any) (Value, error) {
	if raw == nil {
		return Null(), nil
	}
	if v, ok := raw.(Value); ok {
		if v.IsNull() {
			return v, nil
		}
		if err := f.checkKind(v); err != nil {
			return Value{}, err
		}
		return v, nil
	}
	switch f.kind {
	case KindList:
		items, ok := rawItems(raw)
		if !ok {
			return Value{}, invalidIssues(i18n.KeyInvalidList, nil)
		}
		out := make([]Value, 0, len(items))
		for _, it := range items {
			v, err := f.Elem.parseInput(it)
			if err != nil {
				return Value{}, err
			}
			out = append(out, v)
		}
		return ListValue(out...), nil
	case KindMap:
		entries, ok := rawEntries(raw)
		if !ok {
			return Value{}, invalidIssues(i18n.KeyInvalidMap, nil)
		}
		out := make([]MapEntry, 0, len(entries))
		for _, e := range entries {
			v, err := f.Elem.parseInput(e.value)
			if err != nil {
				return Value{}, err
			}
			out = append(out, MapEntry{Key: e.key, Value: v})
		}
		return MapValue(out...), nil
	case KindResource:
		switch x := raw.(type) {
		case *Instance:
			v := ResourceValue(x)
			if err := f.checkKind(v); err != nil {
				return Value{}, err
			}
			return v, nil
		case map[string]any:
			inst, err := NewWith(f.Of, x)
			if err != nil {
				return Value{}, err
			}
			return ResourceValue(inst), nil
		}
		return Value{}, invalidIssues(i18n.KeyInvalidResource, map[string]any{"expected": f.Of.Name()})
	default:
		return f.contract.Parse(raw)
	}
}

// checkKind enforces the slot invariant: the value's representation must
// match the field's declared kind, recursively for composites. Null always
// passes; nullability is a validation concern.
func (f *Field) checkKind(v Value) *KindError {
	if v.IsNull() {
		return nil
	}
	if v.kind != f.kind {
		return &KindError{Field: f.Name, Want: f.kind, Got: v.kind}
	}
	switch f.kind {
	case KindList:
		for i := range v.list {
			if err := f.Elem.checkKind(v.list[i]); err != nil {
				return &KindError{Field: f.Name, Want: err.Want, Got: err.Got}
			}
		}
	case KindMap:
		for i := range v.entries {
			if err := f.Elem.checkKind(v.entries[i].Value); err != nil {
				return &KindError{Field: f.Name, Want: err.Want, Got: err.Got}
			}
		}
	case KindResource:
		if v.inst != nil && f.Of != nil && !v.inst.Type().AssignableTo(f.Of) {
			return &KindError{Field: f.Name, Want: KindResource, Got: KindResource}
		}
	}
	return nil
}

// defaultValue materializes the declared default.
func (f *Field) defaultValue() (Value, bool, error) {
	if f.DefaultFunc != nil {
		v, err := f.parseInput(f.DefaultFunc())
		if err != nil {
			return Value{}, false, fmt.Errorf("field %q: default factory result does not match kind %q", f.Name, f.Tag)
		}
		return v, true, nil
	}
	if f.Default != nil {
		return f.defVal, true, nil
	}
	return Value{}, false, nil
}

type rawEntry struct {
	key   string
	value any
}

func rawItems(raw any) ([]any, bool) {
	switch x := raw.(type) {
	case []any:
		return x, true
	case []Value:
		out := make([]any, len(x))
		for i, v := range x {
			out[i] = v
		}
		return out, true
	case []*Instance:
		out := make([]any, len(x))
		for i, v := range x {
			out[i] = v
		}
		return out, true
	case []string:
		out := make([]any, len(x))
		for i, v := range x {
			out[i] = v
		}
		return out, true
	case []int:
		out := make([]any, len(x))
		for i, v := range x {
			out[i] = v
		}
		return out, true
	case []float64:
		out := make([]any, len(x))
		for i, v := range x {
			out[i] = v
		}
		return out, true
	}
	return nil, false
}

func rawEntries(raw any) ([]rawEntry, bool) {
	switch x := raw.(type) {
	case []MapEntry:
		out := make([]rawEntry, len(x))
		for i, e := range x {
			out[i] = rawEntry{key: e.Key, value: e.Value}
		}
		return out, true
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]rawEntry, 0, len(keys))
		for _, k := range keys {
			out = append(out, rawEntry{key: k, value: x[k]})
		}
		return out, true
	}
	return nil, false
}
