// Package dsl provides the builder DSL for declaring gorec resource types.
//
// Overview
//   - Builder API: declare a resource with NewResource()/Field()/MustBuild();
//     fields take a kind Spec plus Options (Required/Nullable/Default/...).
//   - Kind specs: String()/Int()/Float()/Bool()/Date()/Time()/DateTime()/UUID(),
//     format-checked strings Email()/URL()/IPv4()/IPv6()/IP(), Enum(choices...),
//     composites ListOf(elem)/MapOf(elem)/Ref(type), and Kind(tag) for custom
//     registered kinds.
//   - Virtual fields: Calculated(name, spec, fn) and Constant(name, v) encode
//     into output but never decode or validate.
//   - Inheritance: Parent(base) merges the base type's fields; Abstract() marks
//     a type as a base that is never registered or instantiated.
//
// Entry points
//   - NewResource(name): create a builder; chain Field/Calculated/Constant/
//     Parent/Validate then MustBuild()/Build().
//   - Build registers the finished type so decoding can resolve it from the
//     "$" discriminator; an identical re-declaration returns the existing type.
//
// Design guidelines
//   - Declarations fail at build time, not first use: defaults and choices are
//     parsed through the field kind inside Build.
//   - Options compose with rules: Min/Max/MinLen/MaxLen/Len/Pattern are thin
//     wrappers over the rules package.
//
// Example (quickstart)
//
//	var Book = dsl.NewResource("Book").
//		Field("title", dsl.String(), dsl.Required()).
//		Field("isbn", dsl.String(), dsl.MaxLen(32)).
//		Field("num_pages", dsl.Int(), dsl.Min(1)).
//		Field("rrp", dsl.Float(), dsl.Default(20.4)).
//		Field("fiction", dsl.Bool(), dsl.Required()).
//		Field("genre", dsl.Enum("sci-fi", "fantasy", "others")).
//		Field("authors", dsl.ListOf(dsl.Ref("Author")), dsl.Required()).
//		MustBuild()
//
// Example (inheritance and virtual fields)
//
//	var Media = dsl.NewResource("Media").
//		Field("title", dsl.String(), dsl.Required()).
//		Abstract().
//		MustBuild()
//
//	var Album = dsl.NewResource("Album").
//		Parent(Media).
//		Field("tracks", dsl.Int()).
//		Constant("category", "audio").
//		Calculated("display", dsl.String(), func(in *gorec.Instance) (gorec.Value, error) {
//			title, _ := in.Get("title")
//			s, _ := title.String()
//			return gorec.StringValue("[album] " + s), nil
//		}).
//		MustBuild()
package dsl
