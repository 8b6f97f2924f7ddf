// Package i18n holds the message catalog used when rendering validation and
// parse failures. Templates are keyed by a stable message key and substitute
// {param} placeholders from a params map, so messages stay testable by exact
// string while remaining swappable via the Translator interface.
package i18n

import (
	"fmt"
	"strings"
	"sync"
)

// Translator retrieves the message template for a key and renders it with the
// supplied params. Implementations may ignore params and return fully custom
// text.
type Translator interface {
	Message(key string, params map[string]any) string
}

// Built-in message keys. Custom field kinds may register additional keys via
// RegisterMessage.
const (
	KeyRequired        = "required"
	KeyNull            = "null"
	KeyInvalidChoice   = "invalid_choice"
	KeyInvalidString   = "invalid_string"
	KeyInvalidInt      = "invalid_int"
	KeyInvalidFloat    = "invalid_float"
	KeyInvalidBool     = "invalid_bool"
	KeyInvalidDate     = "invalid_date"
	KeyInvalidTime     = "invalid_time"
	KeyInvalidDateTime = "invalid_datetime"
	KeyInvalidUUID     = "invalid_uuid"
	KeyInvalidList     = "invalid_list"
	KeyInvalidMap      = "invalid_map"
	KeyInvalidResource = "invalid_resource"
	KeyInvalid         = "invalid"
	KeyMinValue        = "min_value"
	KeyMaxValue        = "max_value"
	KeyLength          = "length"
	KeyMinLength       = "min_length"
	KeyMaxLength       = "max_length"
	KeyPattern         = "pattern"
	KeyURL             = "url"
	KeyEmail           = "email"
	KeyIPv4            = "ipv4"
	KeyIPv6            = "ipv6"
	KeyIP              = "ip"
	KeyUnexpectedField = "unexpected_field"
)

var (
	mu      sync.RWMutex
	catalog = map[string]string{
		KeyRequired:        "This field is required.",
		KeyNull:            "This field cannot be null.",
		KeyInvalidChoice:   "Value {value} is not a valid choice.",
		KeyInvalidString:   "'{value}' value must be a string.",
		KeyInvalidInt:      "'{value}' value must be an integer.",
		KeyInvalidFloat:    "'{value}' value must be a float.",
		KeyInvalidBool:     "'{value}' value must be either true or false.",
		KeyInvalidDate:     "Not a valid date string.",
		KeyInvalidTime:     "Not a valid time string.",
		KeyInvalidDateTime: "Not a valid datetime string.",
		KeyInvalidUUID:     "'{value}' is not a valid UUID.",
		KeyInvalidList:     "Must be a list.",
		KeyInvalidMap:      "Must be a dict.",
		KeyInvalidResource: "Must be a dict of ``{expected}`` objects.",
		KeyInvalid:         "The supplied value is invalid.",
		KeyMinValue:        "Ensure this value is greater than or equal to {limit_value}.",
		KeyMaxValue:        "Ensure this value is less than or equal to {limit_value}.",
		KeyLength:          "Ensure this value has exactly {limit_value} characters (it has {show_value}).",
		KeyMinLength:       "Ensure this value has at least {limit_value} characters (it has {show_value}).",
		KeyMaxLength:       "Ensure this value has at most {limit_value} characters (it has {show_value}).",
		KeyPattern:         "Enter a valid value.",
		KeyURL:             "Enter a valid URL value.",
		KeyEmail:           "Enter a valid email address.",
		KeyIPv4:            "Enter a valid IPv4 address.",
		KeyIPv6:            "Enter a valid IPv6 address",
		KeyIP:              "Enter a valid IPv4 or IPv6 address.",
		KeyUnexpectedField: "Unexpected field.",
	}
	current Translator = catalogTranslator{}
)

// catalogTranslator is the built-in catalog-backed Translator.
type catalogTranslator struct{}

func (catalogTranslator) Message(key string, params map[string]any) string {
	mu.RLock()
	tmpl, ok := catalog[key]
	mu.RUnlock()
	if !ok {
		return key
	}
	return Render(tmpl, params)
}

// Render substitutes {name} placeholders in tmpl from params. Placeholders
// with no matching param are left as-is.
func Render(tmpl string, params map[string]any) string {
	if len(params) == 0 || !strings.ContainsRune(tmpl, '{') {
		return tmpl
	}
	var b strings.Builder
	b.Grow(len(tmpl))
	for {
		open := strings.IndexByte(tmpl, '{')
		if open < 0 {
			b.WriteString(tmpl)
			break
		}
		close := strings.IndexByte(tmpl[open:], '}')
		if close < 0 {
			b.WriteString(tmpl)
			break
		}
		close += open
		name := tmpl[open+1 : close]
		if v, ok := params[name]; ok {
			b.WriteString(tmpl[:open])
			fmt.Fprintf(&b, "%v", v)
		} else {
			b.WriteString(tmpl[:close+1])
		}
		tmpl = tmpl[close+1:]
	}
	return b.String()
}

// RegisterMessage adds or replaces a catalog template. Intended for custom
// field kinds that introduce new message keys.
func RegisterMessage(key, tmpl string) {
	mu.Lock()
	catalog[key] = tmpl
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation. Passing nil restores
// the built-in catalog.
func SetTranslator(tr Translator) {
	if tr == nil {
		current = catalogTranslator{}
		return
	}
	current = tr
}

// T fetches a rendered message for the given key using the current Translator.
func T(key string, params map[string]any) string { return current.Message(key, params) }
