package gorec

import (
	"fmt"
	"sort"
	"sync"
)

// Contract defines the behavior of one field kind tag. Parse converts a
// natural Go value into a Value of the contract's kind and rejects shape
// errors only; Validate applies the kind's intrinsic semantic checks (format
// kinds like "email" use it); ToWire/FromWire convert between Values and
// scalar wire nodes with an exact round-trip guarantee:
// FromWire(ToWire(v)).Equal(v) for every representable v.
type Contract interface {
	Kind() Kind
	Parse(raw any) (Value, error)
	Validate(v Value) Issues
	ToWire(v Value) (Node, error)
	FromWire(n Node) (Value, error)
}

// The kind registry is process-wide: populated during schema declaration,
// read-mostly afterward. Writes are serialized; reads take the read lock.
var (
	kindMu sync.RWMutex
	kinds  = builtinKinds()
)

// RegisterKind binds a Contract to a kind tag. Registering an already bound
// tag fails; the built-in tags are bound at package init.
func RegisterKind(tag string, c Contract) error {
	if tag == "" {
		return fmt.Errorf("kind tag must not be empty")
	}
	if c == nil {
		return fmt.Errorf("kind %q: contract must not be nil", tag)
	}
	switch tag {
	case TagList, TagMap, TagResource:
		return fmt.Errorf("kind tag %q is reserved for composite fields", tag)
	}
	kindMu.Lock()
	defer kindMu.Unlock()
	if prev, ok := kinds[tag]; ok {
		if prev == c {
			return nil
		}
		return fmt.Errorf("kind %q is already registered", tag)
	}
	kinds[tag] = c
	return nil
}

// MustRegisterKind is RegisterKind that panics on failure. Intended for
// declaration-time init blocks.
func MustRegisterKind(tag string, c Contract) {
	if err := RegisterKind(tag, c); err != nil {
		panic(err)
	}
}

// KindOf resolves a kind tag to its Contract.
func KindOf(tag string) (Contract, error) {
	kindMu.RLock()
	c, ok := kinds[tag]
	kindMu.RUnlock()
	if !ok {
		return nil, &UnknownKindError{Tag: tag}
	}
	return c, nil
}

// Kinds returns the registered kind tags, sorted. Intended for diagnostics.
func Kinds() []string {
	kindMu.RLock()
	out := make([]string, 0, len(kinds))
	for tag := range kinds {
		out = append(out, tag)
	}
	kindMu.RUnlock()
	sort.Strings(out)
	return out
}

// ResetKinds restores the registry to the built-in tags. Intended for tests.
func ResetKinds() {
	kindMu.Lock()
	kinds = builtinKinds()
	kindMu.Unlock()
}
