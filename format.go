package gorec

import (
	"fmt"
	"sort"
	"sync"
)

// Format is the narrow SPI every wire format implements: bytes to tagged
// tree and back. The core never sees a format library directly.
type Format interface {
	Name() string
	Marshal(n Node) ([]byte, error)
	Unmarshal(data []byte) (Node, error)
}

// The format registry supports name-based dispatch (content negotiation,
// file extensions). Drivers are registered explicitly, not by import side
// effect.
var (
	formatMu sync.RWMutex
	formats  = map[string]Format{}
)

// RegisterFormat binds a Format under its Name.
func RegisterFormat(f Format) error {
	if f == nil || f.Name() == "" {
		return fmt.Errorf("format must have a name")
	}
	formatMu.Lock()
	defer formatMu.Unlock()
	if prev, ok := formats[f.Name()]; ok && prev != f {
		return fmt.Errorf("format %q is already registered", f.Name())
	}
	formats[f.Name()] = f
	return nil
}

// FormatOf resolves a registered format by name.
func FormatOf(name string) (Format, error) {
	formatMu.RLock()
	f, ok := formats[name]
	formatMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no format registered as %q", name)
	}
	return f, nil
}

// Formats returns the registered format names, sorted.
func Formats() []string {
	formatMu.RLock()
	out := make([]string, 0, len(formats))
	for name := range formats {
		out = append(out, name)
	}
	formatMu.RUnlock()
	sort.Strings(out)
	return out
}

// ResetFormats empties the format registry. Intended for tests.
func ResetFormats() {
	formatMu.Lock()
	formats = map[string]Format{}
	formatMu.Unlock()
}
