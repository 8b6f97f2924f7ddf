package dsl

import (
	"fmt"

	gorec "github.com/reoring/gorec"
)

type resourceBuilder struct {
	name       string
	parent     *gorec.ResourceType
	abstract   bool
	declared   []declaredField
	validators []gorec.InstanceValidator
	errs       []error
}

type declaredField struct {
	name string
	spec Spec
	opts []Option
	calc func(*gorec.Instance) (gorec.Value, error)
}

// NewResource starts declaring a resource type. Chain Field/Calculated/
// Constant/Parent/Validate and finish with Build or MustBuild.
func NewResource(name string) *resourceBuilder {
	return &resourceBuilder{name: name}
}

// Field declares a stored field.
func (b *resourceBuilder) Field(name string, spec Spec, opts ...Option) *resourceBuilder {
	b.declared = append(b.declared, declaredField{name: name, spec: spec, opts: opts})
	return b
}

// Calculated declares a read-only virtual field computed from the
// instance when it is encoded. Virtual fields never decode or validate.
func (b *resourceBuilder) Calculated(name string, spec Spec, fn func(*gorec.Instance) (gorec.Value, error)) *resourceBuilder {
	b.declared = append(b.declared, declaredField{name: name, spec: spec, calc: fn})
	return b
}

// Constant declares a read-only virtual field that always encodes the
// given scalar value.
func (b *resourceBuilder) Constant(name string, v any) *resourceBuilder {
	val, err := gorec.ValueOf(v)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("dsl: constant %s.%s: %w", b.name, name, err))
		return b
	}
	tag, ok := tagForKind(val.Kind())
	if !ok {
		b.errs = append(b.errs, fmt.Errorf("dsl: constant %s.%s must be a scalar, got %s", b.name, name, val.Kind()))
		return b
	}
	b.declared = append(b.declared, declaredField{
		name: name,
		spec: Spec{tag: tag},
		calc: func(*gorec.Instance) (gorec.Value, error) { return val, nil },
	})
	return b
}

// Parent declares the type this one inherits fields from. Child fields
// with the same name replace the parent's in place.
func (b *resourceBuilder) Parent(p *gorec.ResourceType) *resourceBuilder {
	b.parent = p
	return b
}

// Abstract marks the type as a base for inheritance only: it is not
// registered and cannot be instantiated or decoded into directly.
func (b *resourceBuilder) Abstract() *resourceBuilder {
	b.abstract = true
	return b
}

// Validate attaches resource-level validators that see the whole instance
// and can check across fields.
func (b *resourceBuilder) Validate(vs ...gorec.InstanceValidator) *resourceBuilder {
	b.validators = append(b.validators, vs...)
	return b
}

// Build materializes the declaration into a ResourceType and, unless the
// type is abstract, registers it. Building an identical declaration again
// returns the already registered type.
func (b *resourceBuilder) Build() (*gorec.ResourceType, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	fields := make([]gorec.Field, 0, len(b.declared))
	for _, d := range b.declared {
		f, err := d.spec.materialize()
		if err != nil {
			return nil, err
		}
		f.Name = d.name
		f.Calc = d.calc
		for _, opt := range d.opts {
			opt(&f)
		}
		fields = append(fields, f)
	}
	rt, err := gorec.NewType(gorec.TypeSpec{
		Name:       b.name,
		Fields:     fields,
		Parent:     b.parent,
		Validators: b.validators,
		Abstract:   b.abstract,
	})
	if err != nil {
		return nil, err
	}
	if b.abstract {
		return rt, nil
	}
	return gorec.Register(rt)
}

// MustBuild is Build that panics on error. Intended for package-level
// type declarations where a bad declaration is a programming error.
func (b *resourceBuilder) MustBuild() *gorec.ResourceType {
	rt, err := b.Build()
	if err != nil {
		panic(err)
	}
	return rt
}
