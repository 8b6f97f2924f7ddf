// Package mapping transforms instances of one resource type into another
// through declarative rules. A rule reads a source field, a constant or a
// supplier, optionally converts the value, and assigns it to a target
// field by name; assignment goes through Instance.Set so kind mismatches
// fail fast exactly like direct construction. Mappings never validate the
// result; run gorec.Validate on the output when it has rules to meet.
package mapping

import (
	"fmt"
	"sync"

	gorec "github.com/reoring/gorec"
)

// Rule moves one value from source to target. Exactly one of From, Const
// and Supply must be set.
type Rule struct {
	// From names the source field to read. An unset source field skips
	// the rule, leaving the target at its default.
	From string
	// Const supplies a fixed value.
	Const *gorec.Value
	// Supply computes a fresh value per application.
	Supply func() gorec.Value
	// To names the target field to assign.
	To string
	// Convert transforms the value before assignment.
	Convert func(gorec.Value) (gorec.Value, error)
}

// Mapping is a validated rule set bound to a (source, target) type pair.
type Mapping struct {
	source *gorec.ResourceType
	target *gorec.ResourceType
	rules  []Rule
}

type config struct {
	autoMap bool
}

// Option tweaks how a Mapping is built.
type Option func(*config)

// AutoMap appends identity rules for fields that share name and kind
// across the pair and are not covered by an explicit rule.
func AutoMap() Option {
	return func(c *config) { c.autoMap = true }
}

// New builds a Mapping, checking every rule eagerly: field names must
// exist on their side, the target must be writable, and each rule must
// carry exactly one source specifier.
func New(source, target *gorec.ResourceType, rules []Rule, opts ...Option) (*Mapping, error) {
	if source == nil || target == nil {
		return nil, fmt.Errorf("mapping needs both a source and a target type")
	}
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	m := &Mapping{source: source, target: target, rules: make([]Rule, 0, len(rules))}
	covered := map[string]bool{}
	for i, r := range rules {
		if err := checkRule(source, target, r); err != nil {
			return nil, fmt.Errorf("mapping %s to %s: rule %d: %w", source.Name(), target.Name(), i, err)
		}
		covered[r.To] = true
		m.rules = append(m.rules, r)
	}
	if cfg.autoMap {
		m.rules = append(m.rules, autoRules(source, target, covered)...)
	}
	return m, nil
}

func checkRule(source, target *gorec.ResourceType, r Rule) error {
	specifiers := 0
	if r.From != "" {
		specifiers++
	}
	if r.Const != nil {
		specifiers++
	}
	if r.Supply != nil {
		specifiers++
	}
	if specifiers != 1 {
		return fmt.Errorf("want exactly one of From, Const and Supply, got %d", specifiers)
	}
	if r.From != "" {
		if _, err := source.FieldByName(r.From); err != nil {
			return err
		}
	}
	tf, err := target.FieldByName(r.To)
	if err != nil {
		return err
	}
	if tf.Virtual() {
		return &gorec.ReadOnlyFieldError{Type: target.Name(), Field: r.To}
	}
	return nil
}

// autoRules pairs same-named fields whose kinds line up and that no
// explicit rule already fills.
func autoRules(source, target *gorec.ResourceType, covered map[string]bool) []Rule {
	var out []Rule
	for _, sf := range source.Fields() {
		if sf.Virtual() || covered[sf.Name] {
			continue
		}
		tf, err := target.FieldByName(sf.Name)
		if err != nil || tf.Virtual() || !fieldsCompatible(sf, tf) {
			continue
		}
		out = append(out, Rule{From: sf.Name, To: sf.Name})
	}
	return out
}

func fieldsCompatible(src, dst gorec.Field) bool {
	if src.Kind() != dst.Kind() {
		return false
	}
	switch src.Kind() {
	case gorec.KindList, gorec.KindMap:
		return src.Elem != nil && dst.Elem != nil && fieldsCompatible(*src.Elem, *dst.Elem)
	case gorec.KindResource:
		return src.Of != nil && src.Of.AssignableTo(dst.Of)
	}
	return true
}

// Source returns the mapping's source type.
func (m *Mapping) Source() *gorec.ResourceType { return m.source }

// Target returns the mapping's target type.
func (m *Mapping) Target() *gorec.ResourceType { return m.target }

// Apply transforms one instance. Rules run in declared order with
// auto-mapped rules after the explicit ones; target fields no rule fills
// keep their defaults. The result is not validated.
func (m *Mapping) Apply(src *gorec.Instance) (*gorec.Instance, error) {
	if src == nil {
		return nil, fmt.Errorf("mapping %s to %s: nil source instance", m.source.Name(), m.target.Name())
	}
	if !src.Type().AssignableTo(m.source) {
		return nil, &gorec.TypeMismatchError{Want: m.source.Name(), Got: src.Type().Name()}
	}
	dst, err := gorec.New(m.target)
	if err != nil {
		return nil, err
	}
	for _, r := range m.rules {
		var v gorec.Value
		switch {
		case r.From != "":
			if !src.Has(r.From) {
				continue
			}
			v, err = src.Get(r.From)
			if err != nil {
				return nil, err
			}
		case r.Const != nil:
			v = *r.Const
		default:
			v = r.Supply()
		}
		if r.Convert != nil {
			v, err = r.Convert(v)
			if err != nil {
				return nil, fmt.Errorf("mapping %s to %s: convert %q: %w", m.source.Name(), m.target.Name(), r.To, err)
			}
		}
		if err := dst.Set(r.To, v); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// NoMappingError reports a registry miss for a (source, target) pair.
type NoMappingError struct {
	Source string
	Target string
}

func (e *NoMappingError) Error() string {
	return fmt.Sprintf("no mapping registered from %s to %s", e.Source, e.Target)
}

type pairKey struct {
	source string
	target string
}

var (
	mu       sync.RWMutex
	registry = map[pairKey]*Mapping{}
)

// Register binds a mapping under its (source, target) discriminator pair.
// Re-registering the same Mapping is a no-op; a different one for the
// same pair is an error.
func Register(m *Mapping) error {
	if m == nil {
		return fmt.Errorf("cannot register a nil mapping")
	}
	key := pairKey{source: m.source.Name(), target: m.target.Name()}
	mu.Lock()
	defer mu.Unlock()
	if prev, ok := registry[key]; ok && prev != m {
		return fmt.Errorf("mapping from %s to %s is already registered", key.source, key.target)
	}
	registry[key] = m
	return nil
}

// MustRegister is Register that panics on error.
func MustRegister(m *Mapping) *Mapping {
	if err := Register(m); err != nil {
		panic(err)
	}
	return m
}

// Lookup resolves a registered mapping by discriminator pair.
func Lookup(source, target string) (*Mapping, error) {
	mu.RLock()
	m, ok := registry[pairKey{source: source, target: target}]
	mu.RUnlock()
	if !ok {
		return nil, &NoMappingError{Source: source, Target: target}
	}
	return m, nil
}

// Map transforms an instance using the registered mapping for its type,
// walking up the source's parent chain so a mapping declared on a base
// type serves its children.
func Map(inst *gorec.Instance, target *gorec.ResourceType) (*gorec.Instance, error) {
	if inst == nil || target == nil {
		return nil, fmt.Errorf("mapping needs an instance and a target type")
	}
	for t := inst.Type(); t != nil; t = t.Parent() {
		m, err := Lookup(t.Name(), target.Name())
		if err == nil {
			return m.Apply(inst)
		}
	}
	return nil, &NoMappingError{Source: inst.Type().Name(), Target: target.Name()}
}

// Reset empties the mapping registry. Intended for tests.
func Reset() {
	mu.Lock()
	registry = map[pairKey]*Mapping{}
	mu.Unlock()
}
