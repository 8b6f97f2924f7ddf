package gorec

// Package gorec provides:
//
// - Declarative resource types built from typed fields (kinds, defaults, choices, nesting)
// - Aggregated validation via Issues (JSON Pointer, code, message); one pass reports everything
// - A polymorphic codec layer over a tagged tree with a reserved "$" discriminator key
// - A declarative mapping engine for transforming instances between resource types
//
// Design policy:
// - Keep only public APIs in the root package; format drivers live under codec/.
// - Place the builder DSL under dsl/, reusable field validators under rules/.
// - Decoding never validates; Validate is an explicit, separate step.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	book := dsl.NewResource("Book").
//		Field("title", dsl.String(), dsl.Required()).
//		Field("rrp", dsl.Float(), dsl.Default(20.4)).
//		MustBuild()
//
//	inst, err := gorec.Decode(data, jsoncodec.Format{}, gorec.DecodeOpt{Type: book})
//	if iss := gorec.Validate(inst); iss != nil { ... }
//	out, err := gorec.Encode(inst, jsoncodec.Format{}, gorec.EncodeOpt{})
