package dsl

import (
	"fmt"

	gorec "github.com/reoring/gorec"
)

// Spec describes the kind of a field being declared: a scalar tag,
// optionally an element spec for lists and maps, or a resource reference.
// Specs are built with the constructors below and consumed by the builder.
type Spec struct {
	tag     string
	elem    *Spec
	ofName  string
	ofType  *gorec.ResourceType
	choices []any
}

// String declares a string field.
func String() Spec { return Spec{tag: gorec.TagString} }

// Int declares an integer field.
func Int() Spec { return Spec{tag: gorec.TagInt} }

// Float declares a float field.
func Float() Spec { return Spec{tag: gorec.TagFloat} }

// Bool declares a boolean field.
func Bool() Spec { return Spec{tag: gorec.TagBool} }

// Date declares a calendar-date field.
func Date() Spec { return Spec{tag: gorec.TagDate} }

// Time declares a time-of-day field.
func Time() Spec { return Spec{tag: gorec.TagTime} }

// DateTime declares a full-instant field.
func DateTime() Spec { return Spec{tag: gorec.TagDateTime} }

// UUID declares a uuid field.
func UUID() Spec { return Spec{tag: gorec.TagUUID} }

// Email declares a string field whose values must be email addresses.
func Email() Spec { return Spec{tag: gorec.TagEmail} }

// URL declares a string field whose values must be absolute URLs.
func URL() Spec { return Spec{tag: gorec.TagURL} }

// IPv4 declares a string field whose values must be IPv4 addresses.
func IPv4() Spec { return Spec{tag: gorec.TagIPv4} }

// IPv6 declares a string field whose values must be IPv6 addresses.
func IPv6() Spec { return Spec{tag: gorec.TagIPv6} }

// IP declares a string field whose values must be IP addresses of either
// family.
func IP() Spec { return Spec{tag: gorec.TagIP} }

// Kind declares a field of a custom registered kind tag.
func Kind(tag string) Spec { return Spec{tag: tag} }

// Enum declares a scalar field restricted to the given choices. The
// scalar kind is inferred from the first choice; Enum panics when called
// with no choices or with a choice that has no scalar representation.
func Enum(choices ...any) Spec {
	if len(choices) == 0 {
		panic("dsl: Enum needs at least one choice")
	}
	tag, ok := tagForKind(gorec.MustValue(choices[0]).Kind())
	if !ok {
		panic(fmt.Sprintf("dsl: Enum choice %v is not a scalar", choices[0]))
	}
	return Spec{tag: tag, choices: choices}
}

// ListOf declares a list field with the given element spec.
func ListOf(elem Spec) Spec { return Spec{tag: gorec.TagList, elem: &elem} }

// MapOf declares a string-keyed map field with the given value spec.
func MapOf(elem Spec) Spec { return Spec{tag: gorec.TagMap, elem: &elem} }

// Ref declares a nested resource field. It accepts either a built
// *gorec.ResourceType or a registered type name; names are resolved when
// the enclosing resource is built.
func Ref(target any) Spec {
	switch t := target.(type) {
	case *gorec.ResourceType:
		return Spec{tag: gorec.TagResource, ofType: t}
	case string:
		return Spec{tag: gorec.TagResource, ofName: t}
	default:
		panic(fmt.Sprintf("dsl: Ref wants a *gorec.ResourceType or a type name, got %T", target))
	}
}

func tagForKind(k gorec.Kind) (string, bool) {
	switch k {
	case gorec.KindString:
		return gorec.TagString, true
	case gorec.KindInt:
		return gorec.TagInt, true
	case gorec.KindFloat:
		return gorec.TagFloat, true
	case gorec.KindBool:
		return gorec.TagBool, true
	case gorec.KindDate:
		return gorec.TagDate, true
	case gorec.KindTime:
		return gorec.TagTime, true
	case gorec.KindDateTime:
		return gorec.TagDateTime, true
	case gorec.KindUUID:
		return gorec.TagUUID, true
	}
	return "", false
}

// materialize turns a Spec into a field skeleton, resolving named
// resource references against the type registry.
func (s Spec) materialize() (gorec.Field, error) {
	f := gorec.Field{Tag: s.tag, Choices: s.choices}
	if s.elem != nil {
		elem, err := s.elem.materialize()
		if err != nil {
			return gorec.Field{}, err
		}
		f.Elem = &elem
	}
	switch {
	case s.ofType != nil:
		f.Of = s.ofType
	case s.ofName != "":
		rt, ok := gorec.Lookup(s.ofName)
		if !ok {
			return gorec.Field{}, fmt.Errorf("dsl: Ref(%q) does not name a registered type", s.ofName)
		}
		f.Of = rt
	}
	return f, nil
}
