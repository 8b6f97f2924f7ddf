package gorec

import (
	"sort"
	"sync"
)

// The type registry is process-wide: schema declaration populates it during
// init, decode resolves discriminators from it afterward. Registration is
// serialized behind the write lock; lookups share the read lock.
var (
	typeMu      sync.RWMutex
	typesByName = map[string]*ResourceType{}
)

// Register inserts a ResourceType under its discriminator. Registration is
// idempotent: re-registering a type whose shape matches the existing entry
// returns the existing entry; a conflicting shape fails with
// *DuplicateTypeError. Abstract types are never registered.
func Register(rt *ResourceType) (*ResourceType, error) {
	if rt.abstract {
		return nil, &AbstractTypeError{Name: rt.name}
	}
	typeMu.Lock()
	defer typeMu.Unlock()
	if prev, ok := typesByName[rt.name]; ok {
		if prev == rt || shapeEqual(prev, rt) {
			return prev, nil
		}
		return nil, &DuplicateTypeError{Name: rt.name}
	}
	typesByName[rt.name] = rt
	return rt, nil
}

// MustRegister is Register that panics on failure. Intended for
// declaration-time init blocks.
func MustRegister(rt *ResourceType) *ResourceType {
	out, err := Register(rt)
	if err != nil {
		panic(err)
	}
	return out
}

// Lookup resolves a discriminator to its registered type.
func Lookup(name string) (*ResourceType, bool) {
	typeMu.RLock()
	rt, ok := typesByName[name]
	typeMu.RUnlock()
	return rt, ok
}

// Types returns the registered discriminators, sorted. Intended for
// diagnostics.
func Types() []string {
	typeMu.RLock()
	out := make([]string, 0, len(typesByName))
	for name := range typesByName {
		out = append(out, name)
	}
	typeMu.RUnlock()
	sort.Strings(out)
	return out
}

// ResetTypes empties the registry. Intended for tests.
func ResetTypes() {
	typeMu.Lock()
	typesByName = map[string]*ResourceType{}
	typeMu.Unlock()
}
