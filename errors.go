package gorec

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeRequired        = "required"
	CodeNull            = "null"
	CodeEmpty           = "empty"
	CodeInvalid         = "invalid"
	CodeInvalidChoice   = "invalid_choice"
	CodeMinValue        = "min_value"
	CodeMaxValue        = "max_value"
	CodeLength          = "length"
	CodeMinLength       = "min_length"
	CodeMaxLength       = "max_length"
	CodeUnexpectedField = "unexpected_field"
)

// Issue represents a single validation or parse entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /authors/2/name).
	Code    string // One of the codes listed above, or a validator-defined code.
	Message string
	// Params carries the structured parameters that were substituted into
	// Message (e.g. {"limit_value": 10, "show_value": 42}) for i18n and
	// programmatic inspection.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. required at /title
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// rebase prefixes every issue path with the given base path. Child issues use
// "/" for their own root, which collapses into the base.
func (iss Issues) rebase(base string) Issues {
	out := make(Issues, len(iss))
	for i, it := range iss {
		p := it.Path
		if p == "/" || p == "" {
			it.Path = base
		} else {
			it.Path = base + p
		}
		out[i] = it
	}
	return out
}

// Structural errors. Unlike Issues these abort the current call immediately:
// they indicate misuse of the schema, not bad data.

// KindError reports an attempt to place a value of the wrong kind into a
// field slot. It is raised at assignment time, never deferred to validation.
type KindError struct {
	Type  string
	Field string
	Want  Kind
	Got   Kind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("field %s.%s holds %s values, got %s", e.Type, e.Field, e.Want, e.Got)
}

// UnknownFieldError reports a reference to a field name the ResourceType does
// not declare.
type UnknownFieldError struct {
	Type  string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("resource type %q has no field %q", e.Type, e.Field)
}

// ReadOnlyFieldError reports an attempt to assign into a calculated or
// constant field.
type ReadOnlyFieldError struct {
	Type  string
	Field string
}

func (e *ReadOnlyFieldError) Error() string {
	return fmt.Sprintf("field %s.%s is read only", e.Type, e.Field)
}

// UnknownKindError reports a field kind tag with no registered Contract.
type UnknownKindError struct {
	Tag string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("no field contract registered for kind %q", e.Tag)
}

// UnknownTypeError reports a discriminator that resolves to no registered
// ResourceType. Name is empty when the discriminator key was absent and no
// expected type was supplied.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	if e.Name == "" {
		return "mapping node carries no type discriminator and no expected type was given"
	}
	return fmt.Sprintf("no resource type registered as %q", e.Name)
}

// TypeMismatchError reports a decoded discriminator that is neither the
// expected type nor one of its descendants.
type TypeMismatchError struct {
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("resource type %q is not compatible with expected type %q", e.Got, e.Want)
}

// DuplicateTypeError reports a second registration of a discriminator with a
// different field set.
type DuplicateTypeError struct {
	Name string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("resource type %q is already registered with a different shape", e.Name)
}

// AbstractTypeError reports instantiation or direct decode of an abstract
// ResourceType.
type AbstractTypeError struct {
	Name string
}

func (e *AbstractTypeError) Error() string {
	return fmt.Sprintf("resource type %q is abstract", e.Name)
}

// DecodeError wraps a format-level failure turning wire bytes into a node
// tree.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
