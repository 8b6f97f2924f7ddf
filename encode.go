package gorec

import "fmt"

// EncodeOpt tunes encoding. The zero value is the recommended default.
type EncodeOpt struct {
	// TypeField overrides the reserved discriminator key. Empty means "$".
	TypeField string
}

func (o EncodeOpt) typeField() string {
	if o.TypeField == "" {
		return TypeField
	}
	return o.TypeField
}

// ToNode renders an instance as a tagged tree. The discriminator key is
// written first, then fields in declaration order, so output is
// deterministic and diffs stay readable. Unset fields without a default
// are omitted; defaults are materialized into the output. Virtual fields
// are computed and included.
func ToNode(inst *Instance, opt EncodeOpt) (Node, error) {
	if inst == nil {
		return Node{}, fmt.Errorf("cannot encode a nil instance")
	}
	out := MapNode()
	out.Set(opt.typeField(), StringNode(inst.rtype.name))
	for i := range inst.rtype.fields {
		f := inst.rtype.field(i)
		var v Value
		switch {
		case f.Virtual():
			cv, err := f.Calc(inst)
			if err != nil {
				return Node{}, fmt.Errorf("computing %s.%s: %w", inst.rtype.name, f.Name, err)
			}
			if ke := f.checkKind(cv); ke != nil {
				ke.Type, ke.Field = inst.rtype.name, f.Name
				return Node{}, ke
			}
			v = cv
		case inst.isSet[i]:
			v = inst.values[i]
		case f.HasDefault():
			dv, _, err := f.defaultValue()
			if err != nil {
				return Node{}, err
			}
			v = dv
		default:
			continue
		}
		n, err := valueNode(f, v, opt)
		if err != nil {
			return Node{}, err
		}
		out.Set(f.Name, n)
	}
	return out, nil
}

func valueNode(f *Field, v Value, opt EncodeOpt) (Node, error) {
	if v.Kind() == KindNull {
		return NullNode(), nil
	}
	switch f.kind {
	case KindList:
		items, _ := v.List()
		seq := SeqNode()
		for _, item := range items {
			n, err := valueNode(f.Elem, item, opt)
			if err != nil {
				return Node{}, err
			}
			seq.Append(n)
		}
		return seq, nil
	case KindMap:
		entries, _ := v.Entries()
		m := MapNode()
		for _, e := range entries {
			n, err := valueNode(f.Elem, e.Value, opt)
			if err != nil {
				return Node{}, err
			}
			m.Set(e.Key, n)
		}
		return m, nil
	case KindResource:
		child, _ := v.Resource()
		return ToNode(child, opt)
	default:
		return f.contract.ToWire(v)
	}
}

// Encode renders an instance through a format driver.
func Encode(inst *Instance, f Format, opt EncodeOpt) ([]byte, error) {
	n, err := ToNode(inst, opt)
	if err != nil {
		return nil, err
	}
	return f.Marshal(n)
}

// EncodeAll renders a batch of instances as one sequence document. The
// instances need not share a type; each mapping carries its own
// discriminator.
func EncodeAll(list []*Instance, f Format, opt EncodeOpt) ([]byte, error) {
	seq := SeqNode()
	for _, inst := range list {
		n, err := ToNode(inst, opt)
		if err != nil {
			return nil, err
		}
		seq.Append(n)
	}
	return f.Marshal(seq)
}
