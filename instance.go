package gorec

// Instance is a mutable value container bound to exactly one ResourceType.
// Every slot provably holds a value of its field's kind or is unset;
// semantically invalid values are allowed until Validate runs. Instances
// carry no internal locking; concurrent mutation of one instance must be
// synchronized by the caller.
type Instance struct {
	rtype  *ResourceType
	values []Value
	isSet  []bool
}

// New constructs an empty instance of rt with declared defaults
// materialized. Abstract types refuse instantiation.
func New(rt *ResourceType) (*Instance, error) {
	if rt.abstract {
		return nil, &AbstractTypeError{Name: rt.name}
	}
	inst := &Instance{
		rtype:  rt,
		values: make([]Value, len(rt.fields)),
		isSet:  make([]bool, len(rt.fields)),
	}
	if err := inst.applyDefaults(); err != nil {
		return nil, err
	}
	return inst, nil
}

// MustNew is New that panics on failure.
func MustNew(rt *ResourceType) *Instance {
	inst, err := New(rt)
	if err != nil {
		panic(err)
	}
	return inst
}

// NewWith constructs an instance and assigns the given field values. Raw Go
// values convert through the field's contract (a string field accepts
// string, a date field accepts time.Time or "2006-01-02", a nested resource
// field accepts *Instance or map[string]any, a list-of-resource field
// accepts []*Instance or nested maps). Ready-made Values are kind-checked
// as in Set.
func NewWith(rt *ResourceType, values map[string]any) (*Instance, error) {
	inst, err := New(rt)
	if err != nil {
		return nil, err
	}
	// deterministic assignment order: declaration order, not map order
	for i := range rt.fields {
		f := &rt.fields[i]
		raw, ok := values[f.Name]
		if !ok {
			continue
		}
		v, err := f.parseInput(raw)
		if err != nil {
			return nil, err
		}
		if err := inst.Set(f.Name, v); err != nil {
			return nil, err
		}
	}
	for name := range values {
		if !rt.HasField(name) {
			return nil, &UnknownFieldError{Type: rt.name, Field: name}
		}
	}
	return inst, nil
}

// MustNewWith is NewWith that panics on failure. Intended for fixtures and
// declaration-time constants.
func MustNewWith(rt *ResourceType, values map[string]any) *Instance {
	inst, err := NewWith(rt, values)
	if err != nil {
		panic(err)
	}
	return inst
}

// Type returns the instance's ResourceType.
func (in *Instance) Type() *ResourceType { return in.rtype }

// Set assigns a value into the named slot, fail-fast: a wrong-kind value is
// a *KindError at assignment time, never deferred to validation. Null is
// assignable to any field; nullability is checked by Validate.
func (in *Instance) Set(name string, v Value) error {
	i, ok := in.rtype.index[name]
	if !ok {
		return &UnknownFieldError{Type: in.rtype.name, Field: name}
	}
	f := in.rtype.field(i)
	if f.Virtual() {
		return &ReadOnlyFieldError{Type: in.rtype.name, Field: name}
	}
	if err := f.checkKind(v); err != nil {
		err.Type = in.rtype.name
		err.Field = name
		return err
	}
	in.values[i] = v
	in.isSet[i] = true
	return nil
}

// Get returns the named field's value. Unset slots return the zero Value;
// virtual fields compute their value from the instance.
func (in *Instance) Get(name string) (Value, error) {
	i, ok := in.rtype.index[name]
	if !ok {
		return Value{}, &UnknownFieldError{Type: in.rtype.name, Field: name}
	}
	f := in.rtype.field(i)
	if f.Virtual() {
		return f.Calc(in)
	}
	if !in.isSet[i] {
		return Value{}, nil
	}
	return in.values[i], nil
}

// Has reports whether the named slot holds a value. Virtual fields always
// report true.
func (in *Instance) Has(name string) bool {
	i, ok := in.rtype.index[name]
	if !ok {
		return false
	}
	if in.rtype.field(i).Virtual() {
		return true
	}
	return in.isSet[i]
}

// Unset clears the named slot back to the unset state.
func (in *Instance) Unset(name string) error {
	i, ok := in.rtype.index[name]
	if !ok {
		return &UnknownFieldError{Type: in.rtype.name, Field: name}
	}
	if in.rtype.field(i).Virtual() {
		return &ReadOnlyFieldError{Type: in.rtype.name, Field: name}
	}
	in.values[i] = Value{}
	in.isSet[i] = false
	return nil
}

// Equal reports value equality: same type, same set slots, equal values.
// Virtual fields do not participate.
func (in *Instance) Equal(o *Instance) bool {
	if in == nil || o == nil {
		return in == o
	}
	if in.rtype != o.rtype {
		return false
	}
	for i := range in.rtype.fields {
		if in.rtype.fields[i].Virtual() {
			continue
		}
		if in.isSet[i] != o.isSet[i] {
			return false
		}
		if in.isSet[i] && !in.values[i].Equal(o.values[i]) {
			return false
		}
	}
	return true
}

// applyDefaults materializes declared defaults into unset slots.
func (in *Instance) applyDefaults() error {
	for i := range in.rtype.fields {
		f := in.rtype.field(i)
		if f.Virtual() || in.isSet[i] {
			continue
		}
		v, ok, err := f.defaultValue()
		if err != nil {
			return err
		}
		if ok {
			in.values[i] = v
			in.isSet[i] = true
		}
	}
	return nil
}
