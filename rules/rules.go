// Package rules provides reusable field validators. Each constructor
// returns a gorec.Validator closure; validators report issues at path "/"
// and the validation engine rebases them under the owning field. A
// validator handed a value of a kind it does not understand stays silent,
// so kind problems are not reported twice.
package rules

import (
	"net/mail"
	"net/netip"
	"net/url"
	"regexp"

	gorec "github.com/reoring/gorec"
	"github.com/reoring/gorec/i18n"
)

func report(code, key string, params map[string]any) gorec.Issues {
	return gorec.Issues{{Path: "/", Code: code, Message: i18n.T(key, params), Params: params}}
}

func numeric(v gorec.Value) (float64, bool) {
	if i, ok := v.Int(); ok {
		return float64(i), true
	}
	return v.Float()
}

// MinValue ensures a numeric value is greater than or equal to limit.
func MinValue(limit float64) gorec.Validator {
	return func(v gorec.Value) gorec.Issues {
		n, ok := numeric(v)
		if !ok || n >= limit {
			return nil
		}
		return report(gorec.CodeMinValue, i18n.KeyMinValue, map[string]any{"limit_value": limit})
	}
}

// MaxValue ensures a numeric value is less than or equal to limit.
func MaxValue(limit float64) gorec.Validator {
	return func(v gorec.Value) gorec.Issues {
		n, ok := numeric(v)
		if !ok || n <= limit {
			return nil
		}
		return report(gorec.CodeMaxValue, i18n.KeyMaxValue, map[string]any{"limit_value": limit})
	}
}

// Length ensures a string (counted in runes), list or map has exactly
// limit elements.
func Length(limit int) gorec.Validator {
	return func(v gorec.Value) gorec.Issues {
		n, ok := v.Len()
		if !ok || n == limit {
			return nil
		}
		return report(gorec.CodeLength, i18n.KeyLength, map[string]any{"limit_value": limit, "show_value": n})
	}
}

// MinLength ensures a string (counted in runes), list or map has at least
// limit elements.
func MinLength(limit int) gorec.Validator {
	return func(v gorec.Value) gorec.Issues {
		n, ok := v.Len()
		if !ok || n >= limit {
			return nil
		}
		return report(gorec.CodeMinLength, i18n.KeyMinLength, map[string]any{"limit_value": limit, "show_value": n})
	}
}

// MaxLength ensures a string (counted in runes), list or map has at most
// limit elements.
func MaxLength(limit int) gorec.Validator {
	return func(v gorec.Value) gorec.Issues {
		n, ok := v.Len()
		if !ok || n <= limit {
			return nil
		}
		return report(gorec.CodeMaxLength, i18n.KeyMaxLength, map[string]any{"limit_value": limit, "show_value": n})
	}
}

// Pattern ensures a string matches the regular expression expr. The
// expression is compiled once at declaration time and panics if invalid.
func Pattern(expr string) gorec.Validator {
	re := regexp.MustCompile(expr)
	return func(v gorec.Value) gorec.Issues {
		s, ok := v.String()
		if !ok || re.MatchString(s) {
			return nil
		}
		return report(gorec.CodeInvalid, i18n.KeyPattern, nil)
	}
}

// Email ensures a string is a bare RFC 5322 address without display name.
func Email() gorec.Validator {
	return func(v gorec.Value) gorec.Issues {
		s, ok := v.String()
		if !ok || validEmail(s) {
			return nil
		}
		return report(gorec.CodeInvalid, i18n.KeyEmail, nil)
	}
}

// URL ensures a string is an absolute URL with a scheme and a host.
func URL() gorec.Validator {
	return func(v gorec.Value) gorec.Issues {
		s, ok := v.String()
		if !ok || validURL(s) {
			return nil
		}
		return report(gorec.CodeInvalid, i18n.KeyURL, nil)
	}
}

// IPv4 ensures a string is a dotted-quad IPv4 address.
func IPv4() gorec.Validator {
	return func(v gorec.Value) gorec.Issues {
		s, ok := v.String()
		if !ok {
			return nil
		}
		if a, err := netip.ParseAddr(s); err == nil && a.Is4() {
			return nil
		}
		return report(gorec.CodeInvalid, i18n.KeyIPv4, nil)
	}
}

// IPv6 ensures a string is an IPv6 address.
func IPv6() gorec.Validator {
	return func(v gorec.Value) gorec.Issues {
		s, ok := v.String()
		if !ok {
			return nil
		}
		if a, err := netip.ParseAddr(s); err == nil && !a.Is4() {
			return nil
		}
		return report(gorec.CodeInvalid, i18n.KeyIPv6, nil)
	}
}

// IP ensures a string is either an IPv4 or an IPv6 address.
func IP() gorec.Validator {
	return func(v gorec.Value) gorec.Issues {
		s, ok := v.String()
		if !ok {
			return nil
		}
		if _, err := netip.ParseAddr(s); err == nil {
			return nil
		}
		return report(gorec.CodeInvalid, i18n.KeyIP, nil)
	}
}

// OneOf ensures a value equals one of the given choices. Choices are
// converted with gorec.MustValue at declaration time.
func OneOf(choices ...any) gorec.Validator {
	want := make([]gorec.Value, 0, len(choices))
	for _, c := range choices {
		want = append(want, gorec.MustValue(c))
	}
	return func(v gorec.Value) gorec.Issues {
		for _, w := range want {
			if v.Equal(w) {
				return nil
			}
		}
		return report(gorec.CodeInvalidChoice, i18n.KeyInvalidChoice, map[string]any{"value": v.Display()})
	}
}

// Simple wraps a plain predicate as a validator with a fixed code and
// message.
func Simple(code, message string, pred func(gorec.Value) bool) gorec.Validator {
	return func(v gorec.Value) gorec.Issues {
		if pred(v) {
			return nil
		}
		return gorec.Issues{{Path: "/", Code: code, Message: message}}
	}
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Name == "" && addr.Address == s
}

func validURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
