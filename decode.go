package gorec

import (
	"fmt"
	"strconv"

	"github.com/reoring/gorec/i18n"
)

// DecodeOpt tunes decoding. The zero value decodes any mapping that
// carries a known discriminator.
type DecodeOpt struct {
	// Type is the expected resource type. It serves as the fallback when
	// the tree carries no usable discriminator, and as a compatibility
	// bound when it does: the discriminated type must be assignable to it.
	Type *ResourceType
	// Strict reports unexpected mapping keys as issues instead of
	// silently dropping them.
	Strict bool
	// TypeField overrides the reserved discriminator key. Empty means "$".
	TypeField string
}

func (o DecodeOpt) typeField() string {
	if o.TypeField == "" {
		return TypeField
	}
	return o.TypeField
}

// FromNode builds an instance from a tagged tree. Shape problems with
// individual field values are collected into Issues so one pass reports
// everything wrong with a document; structural problems (no resolvable
// type, discriminator outside the expected hierarchy) abort with a typed
// error. The result is never validated here: call Validate when the data
// has rules to meet.
func FromNode(n Node, opt DecodeOpt) (*Instance, error) {
	if n.Kind() != NodeMap {
		return nil, fmt.Errorf("cannot decode %s node into a resource", n.Kind())
	}
	rt, err := resolveType(n, opt)
	if err != nil {
		return nil, err
	}
	inst := &Instance{
		rtype:  rt,
		values: make([]Value, len(rt.fields)),
		isSet:  make([]bool, len(rt.fields)),
	}
	var iss Issues
	for i := range rt.fields {
		f := rt.field(i)
		fn, ok := n.Get(f.Name)
		if !ok || f.Virtual() {
			continue
		}
		path := "/" + escapeToken(f.Name)
		v, viss, err := nodeValue(f, fn, path, opt)
		if err != nil {
			return nil, err
		}
		if len(viss) > 0 {
			iss = append(iss, viss...)
			continue
		}
		inst.values[i] = v
		inst.isSet[i] = true
	}
	if opt.Strict {
		tf := opt.typeField()
		for i := 0; i < n.Len(); i++ {
			key, _ := n.Entry(i)
			if key == tf || rt.HasField(key) {
				continue
			}
			iss = append(iss, Issue{
				Path:    "/" + escapeToken(key),
				Code:    CodeUnexpectedField,
				Message: i18n.T(i18n.KeyUnexpectedField, map[string]any{"name": key}),
				Params:  map[string]any{"name": key},
			})
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	if err := inst.applyDefaults(); err != nil {
		return nil, err
	}
	return inst, nil
}

// resolveType picks the concrete type for a mapping node from its
// discriminator and the caller's expectation.
func resolveType(n Node, opt DecodeOpt) (*ResourceType, error) {
	var rt *ResourceType
	if dn, ok := n.Get(opt.typeField()); ok {
		name, isStr := dn.String()
		if !isStr {
			return nil, &UnknownTypeError{Name: dn.text()}
		}
		found, known := Lookup(name)
		switch {
		case known:
			if opt.Type != nil && !found.AssignableTo(opt.Type) {
				return nil, &TypeMismatchError{Want: opt.Type.name, Got: name}
			}
			rt = found
		case opt.Type != nil:
			// An unknown discriminator is recoverable when the caller
			// already knows what shape to expect.
			rt = opt.Type
		default:
			return nil, &UnknownTypeError{Name: name}
		}
	} else {
		if opt.Type == nil {
			return nil, &UnknownTypeError{}
		}
		rt = opt.Type
	}
	if rt.abstract {
		return nil, &AbstractTypeError{Name: rt.name}
	}
	return rt, nil
}

// nodeValue converts one field's wire node into a Value. Issues describe
// recoverable shape problems at this field; a non-nil error is structural
// and aborts the whole decode.
func nodeValue(f *Field, n Node, path string, opt DecodeOpt) (Value, Issues, error) {
	if n.Kind() == NodeNull {
		return Null(), nil, nil
	}
	switch f.kind {
	case KindList:
		if n.Kind() != NodeSeq {
			return Value{}, applyOverrides(f, invalidAt(path, i18n.KeyInvalidList, nil)), nil
		}
		items := make([]Value, 0, n.Len())
		var iss Issues
		for i := 0; i < n.Len(); i++ {
			v, viss, err := nodeValue(f.Elem, n.Index(i), path+"/"+strconv.Itoa(i), opt)
			if err != nil {
				return Value{}, nil, err
			}
			if len(viss) > 0 {
				iss = append(iss, viss...)
				continue
			}
			items = append(items, v)
		}
		if len(iss) > 0 {
			return Value{}, iss, nil
		}
		return ListValue(items...), nil, nil
	case KindMap:
		if n.Kind() != NodeMap {
			return Value{}, applyOverrides(f, invalidAt(path, i18n.KeyInvalidMap, nil)), nil
		}
		entries := make([]MapEntry, 0, n.Len())
		var iss Issues
		for i := 0; i < n.Len(); i++ {
			key, en := n.Entry(i)
			v, viss, err := nodeValue(f.Elem, en, path+"/"+escapeToken(key), opt)
			if err != nil {
				return Value{}, nil, err
			}
			if len(viss) > 0 {
				iss = append(iss, viss...)
				continue
			}
			entries = append(entries, MapEntry{Key: key, Value: v})
		}
		if len(iss) > 0 {
			return Value{}, iss, nil
		}
		return MapValue(entries...), nil, nil
	case KindResource:
		if n.Kind() != NodeMap {
			p := map[string]any{"expected": f.Of.name}
			return Value{}, applyOverrides(f, invalidAt(path, i18n.KeyInvalidResource, p)), nil
		}
		child, err := FromNode(n, DecodeOpt{Type: f.Of, Strict: opt.Strict, TypeField: opt.TypeField})
		if err != nil {
			if iss, ok := AsIssues(err); ok {
				return Value{}, iss.rebase(path), nil
			}
			return Value{}, nil, err
		}
		return ResourceValue(child), nil, nil
	default:
		v, err := f.contract.FromWire(n)
		if err != nil {
			if iss, ok := AsIssues(err); ok {
				return Value{}, applyOverrides(f, iss.rebase(path)), nil
			}
			return Value{}, nil, err
		}
		return v, nil, nil
	}
}

func invalidAt(path, key string, params map[string]any) Issues {
	return Issues{{Path: path, Code: CodeInvalid, Message: i18n.T(key, params), Params: params}}
}

// applyOverrides swaps in the field's custom message for any issue code
// it overrides.
func applyOverrides(f *Field, iss Issues) Issues {
	if len(f.Messages) == 0 {
		return iss
	}
	for i := range iss {
		if tmpl, ok := f.Messages[iss[i].Code]; ok {
			iss[i].Message = i18n.Render(tmpl, iss[i].Params)
		}
	}
	return iss
}

// Decode parses one document through a format driver and builds the
// instance it describes. Batch formats (CSV) always unmarshal to a
// sequence; a one-element sequence is unwrapped here so a single record
// decodes, anything longer needs DecodeAll.
func Decode(data []byte, f Format, opt DecodeOpt) (*Instance, error) {
	n, err := f.Unmarshal(data)
	if err != nil {
		return nil, &DecodeError{Format: f.Name(), Err: err}
	}
	if n.Kind() == NodeSeq && n.Len() == 1 {
		n = n.Index(0)
	}
	return FromNode(n, opt)
}

// DecodeAll parses a sequence document into a batch of instances. Field
// issues are aggregated across the whole batch, each rebased under its
// element index.
func DecodeAll(data []byte, f Format, opt DecodeOpt) ([]*Instance, error) {
	n, err := f.Unmarshal(data)
	if err != nil {
		return nil, &DecodeError{Format: f.Name(), Err: err}
	}
	if n.Kind() != NodeSeq {
		return nil, fmt.Errorf("cannot decode %s node into a resource list", n.Kind())
	}
	out := make([]*Instance, 0, n.Len())
	var iss Issues
	for i := 0; i < n.Len(); i++ {
		inst, err := FromNode(n.Index(i), opt)
		if err != nil {
			if eiss, ok := AsIssues(err); ok {
				iss = append(iss, eiss.rebase("/"+strconv.Itoa(i))...)
				continue
			}
			return nil, err
		}
		out = append(out, inst)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}
