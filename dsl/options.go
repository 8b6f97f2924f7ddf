package dsl

import (
	gorec "github.com/reoring/gorec"
	"github.com/reoring/gorec/rules"
)

// Option tweaks one declared field.
type Option func(*gorec.Field)

// Required marks the field as required: unset fails validation.
func Required() Option {
	return func(f *gorec.Field) { f.Required = true }
}

// Nullable allows explicit null as a stored value.
func Nullable() Option {
	return func(f *gorec.Field) { f.Nullable = true }
}

// Default sets the field's default, given in natural Go form. It is
// parsed through the field's kind when the resource is built, so a bad
// default fails the build rather than some later decode.
func Default(v any) Option {
	return func(f *gorec.Field) { f.Default = v }
}

// DefaultFunc sets a default computed per instance, for values like
// timestamps and fresh UUIDs that must differ between instances.
func DefaultFunc(fn func() any) Option {
	return func(f *gorec.Field) { f.DefaultFunc = fn }
}

// Choices restricts the field to the given values.
func Choices(vals ...any) Option {
	return func(f *gorec.Field) { f.Choices = append(f.Choices, vals...) }
}

// Validate attaches validators to the field. Validators run in the order
// attached, after the kind contract's own checks.
func Validate(vs ...gorec.Validator) Option {
	return func(f *gorec.Field) { f.Validators = append(f.Validators, vs...) }
}

// Min attaches a minimum-value bound.
func Min(limit float64) Option { return Validate(rules.MinValue(limit)) }

// Max attaches a maximum-value bound.
func Max(limit float64) Option { return Validate(rules.MaxValue(limit)) }

// Len attaches an exact length bound.
func Len(n int) Option { return Validate(rules.Length(n)) }

// MinLen attaches a minimum length bound.
func MinLen(n int) Option { return Validate(rules.MinLength(n)) }

// MaxLen attaches a maximum length bound.
func MaxLen(n int) Option { return Validate(rules.MaxLength(n)) }

// Pattern attaches a regular expression match.
func Pattern(expr string) Option { return Validate(rules.Pattern(expr)) }

// Messages overrides the engine's message templates for this field, keyed
// by issue code. Templates may reference the same {param} placeholders as
// the built-in catalog.
func Messages(m map[string]string) Option {
	return func(f *gorec.Field) {
		if f.Messages == nil {
			f.Messages = make(map[string]string, len(m))
		}
		for code, tmpl := range m {
			f.Messages[code] = tmpl
		}
	}
}
