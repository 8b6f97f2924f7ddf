package gorec

import (
	"fmt"
	"net/mail"
	"net/netip"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reoring/gorec/i18n"
)

// Built-in scalar kind tags. Composite kinds (list, map, resource) are
// structural and never resolve through the registry.
const (
	TagString   = "string"
	TagInt      = "int"
	TagFloat    = "float"
	TagBool     = "bool"
	TagDate     = "date"
	TagTime     = "time"
	TagDateTime = "datetime"
	TagUUID     = "uuid"
	TagEmail    = "email"
	TagURL      = "url"
	TagIPv4     = "ipv4"
	TagIPv6     = "ipv6"
	TagIP       = "ip"
)

func builtinKinds() map[string]Contract {
	return map[string]Contract{
		TagString:   stringContract{},
		TagInt:      intContract{},
		TagFloat:    floatContract{},
		TagBool:     boolContract{},
		TagDate:     dateContract{},
		TagTime:     clockContract{},
		TagDateTime: dateTimeContract{},
		TagUUID:     uuidContract{},
		TagEmail:    emailContract{},
		TagURL:      urlContract{},
		TagIPv4:     ipv4Contract{},
		TagIPv6:     ipv6Contract{},
		TagIP:       ipContract{},
	}
}

// invalidIssues builds the single-issue collection contracts return for shape
// errors.
func invalidIssues(key string, params map[string]any) Issues {
	return Issues{{Path: "/", Code: CodeInvalid, Message: i18n.T(key, params), Params: params}}
}

func wireKindErr(tag string, v Value) error {
	return fmt.Errorf("%s contract cannot encode a %s value", tag, v.Kind())
}

// ---- string ----

type stringContract struct{}

func (stringContract) Kind() Kind { return KindString }

func (stringContract) Parse(raw any) (Value, error) {
	switch x := raw.(type) {
	case string:
		return StringValue(x), nil
	case Value:
		if x.kind == KindString {
			return x, nil
		}
	}
	return Value{}, invalidIssues(i18n.KeyInvalidString, map[string]any{"value": fmt.Sprintf("%v", raw)})
}

func (stringContract) Validate(Value) Issues { return nil }

func (stringContract) ToWire(v Value) (Node, error) {
	s, ok := v.String()
	if !ok {
		return Node{}, wireKindErr(TagString, v)
	}
	return StringNode(s), nil
}

func (stringContract) FromWire(n Node) (Value, error) {
	if s, ok := n.String(); ok {
		return StringValue(s), nil
	}
	return Value{}, invalidIssues(i18n.KeyInvalidString, map[string]any{"value": n.text()})
}

// ---- int ----

type intContract struct{}

func (intContract) Kind() Kind { return KindInt }

func (intContract) Parse(raw any) (Value, error) {
	switch x := raw.(type) {
	case Value:
		if x.kind == KindInt {
			return x, nil
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64); err == nil {
			return IntValue(i), nil
		}
	case float64:
		if float64(int64(x)) == x {
			return IntValue(int64(x)), nil
		}
	case float32:
		return intContract{}.Parse(float64(x))
	default:
		if v, err := ValueOf(raw); err == nil && v.kind == KindInt {
			return v, nil
		}
	}
	return Value{}, invalidIssues(i18n.KeyInvalidInt, map[string]any{"value": fmt.Sprintf("%v", raw)})
}

func (intContract) Validate(Value) Issues { return nil }

func (intContract) ToWire(v Value) (Node, error) {
	i, ok := v.Int()
	if !ok {
		return Node{}, wireKindErr(TagInt, v)
	}
	return IntNode(i), nil
}

func (intContract) FromWire(n Node) (Value, error) {
	switch n.Kind() {
	case NodeInt:
		i, _ := n.Int()
		return IntValue(i), nil
	case NodeFloat:
		f, _ := n.Float()
		if float64(int64(f)) == f {
			return IntValue(int64(f)), nil
		}
	case NodeString:
		s, _ := n.String()
		if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return IntValue(i), nil
		}
	}
	return Value{}, invalidIssues(i18n.KeyInvalidInt, map[string]any{"value": n.text()})
}

// ---- float ----

type floatContract struct{}

func (floatContract) Kind() Kind { return KindFloat }

func (floatContract) Parse(raw any) (Value, error) {
	switch x := raw.(type) {
	case Value:
		if x.kind == KindFloat {
			return x, nil
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return FloatValue(f), nil
		}
	case float64:
		return FloatValue(x), nil
	case float32:
		return FloatValue(float64(x)), nil
	default:
		if v, err := ValueOf(raw); err == nil {
			switch v.kind {
			case KindFloat:
				return v, nil
			case KindInt:
				return FloatValue(float64(v.i)), nil
			}
		}
	}
	return Value{}, invalidIssues(i18n.KeyInvalidFloat, map[string]any{"value": fmt.Sprintf("%v", raw)})
}

func (floatContract) Validate(Value) Issues { return nil }

func (floatContract) ToWire(v Value) (Node, error) {
	f, ok := v.Float()
	if !ok {
		return Node{}, wireKindErr(TagFloat, v)
	}
	return FloatNode(f), nil
}

func (floatContract) FromWire(n Node) (Value, error) {
	switch n.Kind() {
	case NodeFloat:
		f, _ := n.Float()
		return FloatValue(f), nil
	case NodeInt:
		i, _ := n.Int()
		return FloatValue(float64(i)), nil
	case NodeString:
		s, _ := n.String()
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return FloatValue(f), nil
		}
	}
	return Value{}, invalidIssues(i18n.KeyInvalidFloat, map[string]any{"value": n.text()})
}

// ---- bool ----

var (
	trueStrings  = []string{"t", "true", "y", "yes", "on", "1", "✓"}
	falseStrings = []string{"f", "false", "n", "no", "off", "0"}
)

type boolContract struct{}

func (boolContract) Kind() Kind { return KindBool }

func parseBoolString(s string) (bool, bool) {
	ls := strings.ToLower(strings.TrimSpace(s))
	for _, t := range trueStrings {
		if ls == t {
			return true, true
		}
	}
	for _, f := range falseStrings {
		if ls == f {
			return false, true
		}
	}
	return false, false
}

func (boolContract) Parse(raw any) (Value, error) {
	switch x := raw.(type) {
	case bool:
		return BoolValue(x), nil
	case Value:
		if x.kind == KindBool {
			return x, nil
		}
	case string:
		if b, ok := parseBoolString(x); ok {
			return BoolValue(b), nil
		}
	case int:
		if x == 0 || x == 1 {
			return BoolValue(x == 1), nil
		}
	case int64:
		if x == 0 || x == 1 {
			return BoolValue(x == 1), nil
		}
	}
	return Value{}, invalidIssues(i18n.KeyInvalidBool, map[string]any{"value": fmt.Sprintf("%v", raw)})
}

func (boolContract) Validate(Value) Issues { return nil }

func (boolContract) ToWire(v Value) (Node, error) {
	b, ok := v.Bool()
	if !ok {
		return Node{}, wireKindErr(TagBool, v)
	}
	return BoolNode(b), nil
}

func (boolContract) FromWire(n Node) (Value, error) {
	switch n.Kind() {
	case NodeBool:
		b, _ := n.Bool()
		return BoolValue(b), nil
	case NodeString:
		s, _ := n.String()
		if b, ok := parseBoolString(s); ok {
			return BoolValue(b), nil
		}
	case NodeInt:
		if i, _ := n.Int(); i == 0 || i == 1 {
			return BoolValue(i == 1), nil
		}
	}
	return Value{}, invalidIssues(i18n.KeyInvalidBool, map[string]any{"value": n.text()})
}

// ---- date ----

type dateContract struct{}

func (dateContract) Kind() Kind { return KindDate }

func (dateContract) Parse(raw any) (Value, error) {
	switch x := raw.(type) {
	case time.Time:
		return DateValue(x), nil
	case Value:
		if x.kind == KindDate {
			return x, nil
		}
	case string:
		if t, err := parseDate(x); err == nil {
			return DateValue(t), nil
		}
	}
	return Value{}, invalidIssues(i18n.KeyInvalidDate, nil)
}

func (dateContract) Validate(Value) Issues { return nil }

func (dateContract) ToWire(v Value) (Node, error) {
	if v.kind != KindDate {
		return Node{}, wireKindErr(TagDate, v)
	}
	return StringNode(formatDate(v.t)), nil
}

func (dateContract) FromWire(n Node) (Value, error) {
	if s, ok := n.String(); ok {
		if t, err := parseDate(s); err == nil {
			return DateValue(t), nil
		}
	}
	return Value{}, invalidIssues(i18n.KeyInvalidDate, nil)
}

// ---- time of day ----

type clockContract struct{}

func (clockContract) Kind() Kind { return KindTime }

func (clockContract) Parse(raw any) (Value, error) {
	switch x := raw.(type) {
	case time.Time:
		return TimeValue(x), nil
	case Value:
		if x.kind == KindTime {
			return x, nil
		}
	case string:
		if t, err := parseClock(x); err == nil {
			return TimeValue(t), nil
		}
	}
	return Value{}, invalidIssues(i18n.KeyInvalidTime, nil)
}

func (clockContract) Validate(Value) Issues { return nil }

func (clockContract) ToWire(v Value) (Node, error) {
	if v.kind != KindTime {
		return Node{}, wireKindErr(TagTime, v)
	}
	return StringNode(formatClock(v.t)), nil
}

func (clockContract) FromWire(n Node) (Value, error) {
	if s, ok := n.String(); ok {
		if t, err := parseClock(s); err == nil {
			return TimeValue(t), nil
		}
	}
	return Value{}, invalidIssues(i18n.KeyInvalidTime, nil)
}

// ---- datetime ----

type dateTimeContract struct{}

func (dateTimeContract) Kind() Kind { return KindDateTime }

func (dateTimeContract) Parse(raw any) (Value, error) {
	switch x := raw.(type) {
	case time.Time:
		return DateTimeValue(x), nil
	case Value:
		if x.kind == KindDateTime {
			return x, nil
		}
	case string:
		if t, err := parseRFC3339(x); err == nil {
			return DateTimeValue(t), nil
		}
	}
	return Value{}, invalidIssues(i18n.KeyInvalidDateTime, nil)
}

func (dateTimeContract) Validate(Value) Issues { return nil }

func (dateTimeContract) ToWire(v Value) (Node, error) {
	if v.kind != KindDateTime {
		return Node{}, wireKindErr(TagDateTime, v)
	}
	return StringNode(formatRFC3339Canonical(v.t)), nil
}

func (dateTimeContract) FromWire(n Node) (Value, error) {
	if s, ok := n.String(); ok {
		if t, err := parseRFC3339(s); err == nil {
			return DateTimeValue(t), nil
		}
	}
	return Value{}, invalidIssues(i18n.KeyInvalidDateTime, nil)
}

// ---- uuid ----

type uuidContract struct{}

func (uuidContract) Kind() Kind { return KindUUID }

func (uuidContract) Parse(raw any) (Value, error) {
	switch x := raw.(type) {
	case uuid.UUID:
		return UUIDValue(x), nil
	case Value:
		if x.kind == KindUUID {
			return x, nil
		}
	case string:
		if u, err := uuid.Parse(x); err == nil {
			return UUIDValue(u), nil
		}
	}
	return Value{}, invalidIssues(i18n.KeyInvalidUUID, map[string]any{"value": fmt.Sprintf("%v", raw)})
}

func (uuidContract) Validate(Value) Issues { return nil }

func (uuidContract) ToWire(v Value) (Node, error) {
	u, ok := v.UUID()
	if !ok {
		return Node{}, wireKindErr(TagUUID, v)
	}
	return StringNode(u.String()), nil
}

func (uuidContract) FromWire(n Node) (Value, error) {
	if s, ok := n.String(); ok {
		if u, err := uuid.Parse(s); err == nil {
			return UUIDValue(u), nil
		}
	}
	return Value{}, invalidIssues(i18n.KeyInvalidUUID, map[string]any{"value": n.text()})
}

// ---- string kinds with intrinsic format checks ----

type emailContract struct{ stringContract }

func (emailContract) Validate(v Value) Issues {
	if s, ok := v.String(); ok && !checkEmail(s) {
		return Issues{{Path: "/", Code: CodeInvalid, Message: i18n.T(i18n.KeyEmail, nil)}}
	}
	return nil
}

type urlContract struct{ stringContract }

func (urlContract) Validate(v Value) Issues {
	if s, ok := v.String(); ok && !checkURL(s) {
		return Issues{{Path: "/", Code: CodeInvalid, Message: i18n.T(i18n.KeyURL, nil)}}
	}
	return nil
}

type ipv4Contract struct{ stringContract }

func (ipv4Contract) Validate(v Value) Issues {
	if s, ok := v.String(); ok && !checkIPv4(s) {
		return Issues{{Path: "/", Code: CodeInvalid, Message: i18n.T(i18n.KeyIPv4, nil)}}
	}
	return nil
}

type ipv6Contract struct{ stringContract }

func (ipv6Contract) Validate(v Value) Issues {
	if s, ok := v.String(); ok && !checkIPv6(s) {
		return Issues{{Path: "/", Code: CodeInvalid, Message: i18n.T(i18n.KeyIPv6, nil)}}
	}
	return nil
}

type ipContract struct{ stringContract }

func (ipContract) Validate(v Value) Issues {
	if s, ok := v.String(); ok && !checkIP(s) {
		return Issues{{Path: "/", Code: CodeInvalid, Message: i18n.T(i18n.KeyIP, nil)}}
	}
	return nil
}

func checkEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Name == "" && addr.Address == s
}

func checkURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func checkIPv4(s string) bool {
	a, err := netip.ParseAddr(s)
	return err == nil && a.Is4()
}

func checkIPv6(s string) bool {
	a, err := netip.ParseAddr(s)
	return err == nil && !a.Is4()
}

func checkIP(s string) bool {
	_, err := netip.ParseAddr(s)
	return err == nil
}
