package gorec

import (
	"strconv"
	"strings"

	"github.com/reoring/gorec/i18n"
)

// Validate checks every field of the instance in declaration order and then
// the resource-level validators, aggregating ALL failures into one Issues
// collection. It never short-circuits, never mutates the instance and never
// panics; an empty result means valid. Callers decide when to run it: neither
// decode nor mapping validates implicitly.
func Validate(inst *Instance) Issues {
	var iss Issues
	for i := range inst.rtype.fields {
		f := inst.rtype.field(i)
		if f.Virtual() {
			continue
		}
		path := "/" + escapeToken(f.Name)
		if !inst.isSet[i] {
			if f.Required {
				iss = AppendIssues(iss, fieldIssue(f, CodeRequired, i18n.KeyRequired, nil, path))
			}
			continue
		}
		iss = AppendIssues(iss, validateValue(f, inst.values[i], path)...)
	}
	for _, check := range inst.rtype.validators {
		iss = AppendIssues(iss, check(inst)...)
	}
	if len(iss) == 0 {
		return nil
	}
	return iss
}

// validateValue applies a field spec to one value: nullability, the
// contract's intrinsic checks, choices, attached validators in declared
// order, then recursion into composites. All failures are collected.
func validateValue(f *Field, v Value, path string) Issues {
	if v.IsNull() {
		if !f.Nullable {
			return Issues{fieldIssue(f, CodeNull, i18n.KeyNull, nil, path)}
		}
		return nil
	}
	var iss Issues
	if f.contract != nil {
		iss = AppendIssues(iss, f.contract.Validate(v).rebase(path)...)
	}
	if len(f.choices) > 0 && !choiceAllowed(f.choices, v) {
		params := map[string]any{"value": v.Display()}
		iss = AppendIssues(iss, fieldIssue(f, CodeInvalidChoice, i18n.KeyInvalidChoice, params, path))
	}
	for _, check := range f.Validators {
		iss = AppendIssues(iss, check(v).rebase(path)...)
	}
	switch f.kind {
	case KindList:
		for idx := range v.list {
			iss = AppendIssues(iss, validateValue(f.Elem, v.list[idx], path+"/"+strconv.Itoa(idx))...)
		}
	case KindMap:
		for _, e := range v.entries {
			iss = AppendIssues(iss, validateValue(f.Elem, e.Value, path+"/"+escapeToken(e.Key))...)
		}
	case KindResource:
		if v.inst != nil {
			iss = AppendIssues(iss, Validate(v.inst).rebase(path)...)
		}
	}
	return iss
}

func choiceAllowed(choices []Value, v Value) bool {
	for _, c := range choices {
		if c.Equal(v) {
			return true
		}
	}
	return false
}

// fieldIssue renders an engine-raised issue, honoring the field's per-code
// message overrides before the catalog.
func fieldIssue(f *Field, code, key string, params map[string]any, path string) Issue {
	var msg string
	if tmpl, ok := f.Messages[code]; ok {
		msg = i18n.Render(tmpl, params)
	} else {
		msg = i18n.T(key, params)
	}
	return Issue{Path: path, Code: code, Message: msg, Params: params}
}

// escapeToken escapes a JSON Pointer reference token per RFC 6901.
func escapeToken(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}
