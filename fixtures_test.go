package gorec_test

import (
	"testing"

	gorec "github.com/reoring/gorec"
	"github.com/reoring/gorec/dsl"
)

// The catalog fixtures below are built through the dsl on every call.
// Registration is idempotent for identical declarations, so each test can
// call these helpers without caring what ran before it, and tests that
// reset the registries just call them again.

func authorType(t *testing.T) *gorec.ResourceType {
	t.Helper()
	return dsl.NewResource("Author").
		Field("name", dsl.String(), dsl.Required()).
		Field("email", dsl.Email()).
		MustBuild()
}

func bookType(t *testing.T) *gorec.ResourceType {
	t.Helper()
	authorType(t)
	return dsl.NewResource("Book").
		Field("title", dsl.String(), dsl.Required()).
		Field("isbn", dsl.String(), dsl.MaxLen(32)).
		Field("num_pages", dsl.Int(), dsl.Min(1)).
		Field("rrp", dsl.Float(), dsl.Default(20.4)).
		Field("fiction", dsl.Bool(), dsl.Required()).
		Field("genre", dsl.Enum("sci-fi", "fantasy", "biography", "others", "computers-and-tech")).
		Field("published", dsl.DateTime(), dsl.Nullable()).
		Field("authors", dsl.ListOf(dsl.Ref("Author"))).
		MustBuild()
}

func libraryType(t *testing.T) *gorec.ResourceType {
	t.Helper()
	bookType(t)
	return dsl.NewResource("Library").
		Field("name", dsl.String(), dsl.Required()).
		Field("books", dsl.ListOf(dsl.Ref("Book"))).
		Field("book_count", dsl.MapOf(dsl.Int())).
		MustBuild()
}

func trackType(t *testing.T) *gorec.ResourceType {
	t.Helper()
	return dsl.NewResource("Track").
		Field("title", dsl.String(), dsl.Required()).
		Field("seconds", dsl.Int(), dsl.Default(0)).
		Constant("category", "audio").
		Calculated("display", dsl.String(), func(in *gorec.Instance) (gorec.Value, error) {
			v, err := in.Get("title")
			if err != nil {
				return gorec.Value{}, err
			}
			s, _ := v.String()
			return gorec.StringValue("[track] " + s), nil
		}).
		MustBuild()
}

func mediaTypes(t *testing.T) (base, album *gorec.ResourceType) {
	t.Helper()
	base = dsl.NewResource("Media").
		Field("title", dsl.String(), dsl.Required()).
		MustBuild()
	album = dsl.NewResource("Album").
		Parent(base).
		Field("tracks", dsl.Int(), dsl.Default(0)).
		MustBuild()
	return base, album
}

func mustBook(t *testing.T, values map[string]any) *gorec.Instance {
	t.Helper()
	inst, err := gorec.NewWith(bookType(t), values)
	if err != nil {
		t.Fatalf("building Book fixture: %v", err)
	}
	return inst
}

func mustAuthor(t *testing.T, name, email string) *gorec.Instance {
	t.Helper()
	values := map[string]any{"name": name}
	if email != "" {
		values["email"] = email
	}
	inst, err := gorec.NewWith(authorType(t), values)
	if err != nil {
		t.Fatalf("building Author fixture: %v", err)
	}
	return inst
}
