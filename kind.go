package gorec

import "fmt"

// Kind identifies the representation of a Value. The set is closed: every
// field slot provably holds a value of its declared kind. Field kind TAGS
// (see RegisterKind) are open; each tag resolves to a Contract that commits
// to exactly one Kind.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindNull is the explicit wire null. Fields never declare it; a slot of
	// any kind may hold it when the field is nullable.
	KindNull
	KindString
	KindInt
	KindFloat
	KindBool
	KindDate
	KindTime
	KindDateTime
	KindUUID
	KindList
	KindMap
	KindResource
)

var kindNames = map[Kind]string{
	KindInvalid:  "invalid",
	KindNull:     "null",
	KindString:   "string",
	KindInt:      "int",
	KindFloat:    "float",
	KindBool:     "bool",
	KindDate:     "date",
	KindTime:     "time",
	KindDateTime: "datetime",
	KindUUID:     "uuid",
	KindList:     "list",
	KindMap:      "map",
	KindResource: "resource",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsScalar reports whether values of this kind are leaves of the value tree.
func (k Kind) IsScalar() bool {
	switch k {
	case KindString, KindInt, KindFloat, KindBool, KindDate, KindTime, KindDateTime, KindUUID:
		return true
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if s, ok := kindNames[k]; ok {
		return []byte(s), nil
	}
	return nil, fmt.Errorf("unknown kind %d", uint8(k))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	s := string(text)
	for kk, name := range kindNames {
		if name == s {
			*k = kk
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", s)
}
