package gorec

import "fmt"

// TypeSpec is the declaration input for a ResourceType. The dsl package
// offers a builder over it; handing a TypeSpec to NewType directly is
// equally supported.
type TypeSpec struct {
	Name   string
	Fields []Field
	// Parent inherits its fields: parent fields first in their declared
	// order, a child field with the same name replaces the parent's in
	// place, child-only fields append afterwards.
	Parent *ResourceType
	// Validators run against the whole instance after field validation.
	Validators []InstanceValidator
	// Abstract types cannot be instantiated, registered or decoded into;
	// they exist to be inherited from.
	Abstract bool
}

// ResourceType is a named, versionless, immutable schema. Its name doubles
// as the wire discriminator.
type ResourceType struct {
	name       string
	fields     []Field
	index      map[string]int
	parent     *ResourceType
	validators []InstanceValidator
	abstract   bool
}

// NewType resolves a TypeSpec into a ResourceType. The result is not yet
// registered; see Register.
func NewType(spec TypeSpec) (*ResourceType, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("resource type name must not be empty")
	}
	seen := make(map[string]bool, len(spec.Fields))
	for i := range spec.Fields {
		f := &spec.Fields[i]
		if f.Name == "" {
			return nil, fmt.Errorf("resource type %q: field %d has no name", spec.Name, i)
		}
		if f.Name == TypeField {
			return nil, fmt.Errorf("resource type %q: field name %q collides with the discriminator key", spec.Name, f.Name)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("resource type %q: duplicate field %q", spec.Name, f.Name)
		}
		seen[f.Name] = true
		if err := f.resolve(""); err != nil {
			return nil, fmt.Errorf("resource type %q: %w", spec.Name, err)
		}
	}

	var fields []Field
	if spec.Parent != nil {
		fields = make([]Field, len(spec.Parent.fields), len(spec.Parent.fields)+len(spec.Fields))
		copy(fields, spec.Parent.fields)
		for i := range spec.Fields {
			f := spec.Fields[i]
			if at, ok := spec.Parent.index[f.Name]; ok {
				fields[at] = f
			} else {
				fields = append(fields, f)
			}
		}
	} else {
		fields = make([]Field, len(spec.Fields))
		copy(fields, spec.Fields)
	}

	index := make(map[string]int, len(fields))
	for i := range fields {
		index[fields[i].Name] = i
	}
	return &ResourceType{
		name:       spec.Name,
		fields:     fields,
		index:      index,
		parent:     spec.Parent,
		validators: append([]InstanceValidator(nil), spec.Validators...),
		abstract:   spec.Abstract,
	}, nil
}

// Name returns the type's registered discriminator string.
func (t *ResourceType) Name() string { return t.name }

// Parent returns the inherited type, nil at the root of a hierarchy.
func (t *ResourceType) Parent() *ResourceType { return t.parent }

// Abstract reports whether the type is declaration-only.
func (t *ResourceType) Abstract() bool { return t.abstract }

// NumFields returns the field count, inherited fields included.
func (t *ResourceType) NumFields() int { return len(t.fields) }

// Fields returns the resolved fields in declaration order (parent first).
func (t *ResourceType) Fields() []Field {
	cp := make([]Field, len(t.fields))
	copy(cp, t.fields)
	return cp
}

// FieldByName returns the named field's resolved spec.
func (t *ResourceType) FieldByName(name string) (Field, error) {
	i, ok := t.index[name]
	if !ok {
		return Field{}, &UnknownFieldError{Type: t.name, Field: name}
	}
	return t.fields[i], nil
}

// HasField reports whether the type declares or inherits the field.
func (t *ResourceType) HasField(name string) bool {
	_, ok := t.index[name]
	return ok
}

// AssignableTo reports whether t is base or descends from base.
func (t *ResourceType) AssignableTo(base *ResourceType) bool {
	for cur := t; cur != nil; cur = cur.parent {
		if cur == base {
			return true
		}
	}
	return false
}

// field returns a pointer into the resolved slice for internal walkers.
func (t *ResourceType) field(i int) *Field { return &t.fields[i] }

// shapeEqual reports whether two types declare the same schema. Functions
// (validators, default factories, calculated fields) cannot be compared and
// only their presence participates.
func shapeEqual(a, b *ResourceType) bool {
	if a.name != b.name || a.abstract != b.abstract || len(a.fields) != len(b.fields) {
		return false
	}
	switch {
	case a.parent == nil && b.parent != nil,
		a.parent != nil && b.parent == nil:
		return false
	case a.parent != nil && a.parent.name != b.parent.name:
		return false
	}
	for i := range a.fields {
		if !fieldShapeEqual(&a.fields[i], &b.fields[i]) {
			return false
		}
	}
	return true
}

func fieldShapeEqual(a, b *Field) bool {
	if a.Name != b.Name || a.Tag != b.Tag || a.Required != b.Required || a.Nullable != b.Nullable {
		return false
	}
	if (a.DefaultFunc != nil) != (b.DefaultFunc != nil) || (a.Calc != nil) != (b.Calc != nil) {
		return false
	}
	if a.DefaultFunc == nil && b.DefaultFunc == nil && !a.defVal.Equal(b.defVal) {
		return false
	}
	if len(a.choices) != len(b.choices) {
		return false
	}
	for i := range a.choices {
		if !a.choices[i].Equal(b.choices[i]) {
			return false
		}
	}
	switch {
	case a.Elem == nil && b.Elem != nil, a.Elem != nil && b.Elem == nil:
		return false
	case a.Elem != nil && !fieldShapeEqual(a.Elem, b.Elem):
		return false
	}
	switch {
	case a.Of == nil && b.Of != nil, a.Of != nil && b.Of == nil:
		return false
	case a.Of != nil && a.Of.name != b.Of.name:
		return false
	}
	return true
}
