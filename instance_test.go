package gorec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	gorec "github.com/reoring/gorec"
	"github.com/reoring/gorec/dsl"
)

func TestNew_MaterializesDefaults(t *testing.T) {
	inst, err := gorec.New(bookType(t))
	require.NoError(t, err)

	require.True(t, inst.Has("rrp"))
	v, err := inst.Get("rrp")
	require.NoError(t, err)
	require.True(t, v.Equal(gorec.FloatValue(20.4)))

	require.False(t, inst.Has("title"), "fields without defaults start unset")
}

func TestNew_RefusesAbstract(t *testing.T) {
	abs, err := gorec.NewType(gorec.TypeSpec{
		Name:     "NewAbstract",
		Fields:   []gorec.Field{{Name: "x", Tag: gorec.TagInt}},
		Abstract: true,
	})
	require.NoError(t, err)

	_, err = gorec.New(abs)
	var ae *gorec.AbstractTypeError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, "NewAbstract", ae.Name)
}

func TestNewWith_ParsesNaturalValues(t *testing.T) {
	author := mustAuthor(t, "Philip K. Dick", "pkd@example.com")
	inst := mustBook(t, map[string]any{
		"title":     "Ubik",
		"num_pages": 224,
		"fiction":   true,
		"genre":     "sci-fi",
		"authors":   []*gorec.Instance{author},
	})

	title, err := inst.Get("title")
	require.NoError(t, err)
	require.True(t, title.Equal(gorec.StringValue("Ubik")))

	authors, err := inst.Get("authors")
	require.NoError(t, err)
	items, ok := authors.List()
	require.True(t, ok)
	require.Len(t, items, 1)
	nested, ok := items[0].Resource()
	require.True(t, ok)
	require.True(t, nested.Equal(author))
}

func TestNewWith_RejectsUnknownKey(t *testing.T) {
	_, err := gorec.NewWith(bookType(t), map[string]any{
		"title":  "Ubik",
		"tiitle": "typo",
	})
	var ufe *gorec.UnknownFieldError
	require.ErrorAs(t, err, &ufe)
	require.Equal(t, "tiitle", ufe.Field)
}

func TestSet_WrongKindFailsFast(t *testing.T) {
	inst := gorec.MustNew(bookType(t))
	err := inst.Set("title", gorec.IntValue(3))
	var ke *gorec.KindError
	require.ErrorAs(t, err, &ke)
	require.Equal(t, "Book", ke.Type)
	require.Equal(t, "title", ke.Field)
	require.Equal(t, gorec.KindString, ke.Want)
	require.Equal(t, gorec.KindInt, ke.Got)
	require.Equal(t, "field Book.title holds string values, got int", ke.Error())

	require.False(t, inst.Has("title"), "failed Set must not leave a value behind")
}

func TestSet_NullAllowedByKindCheck(t *testing.T) {
	inst := gorec.MustNew(bookType(t))
	require.NoError(t, inst.Set("published", gorec.Null()),
		"null is a storage question, nullability is a validation question")
	v, err := inst.Get("published")
	require.NoError(t, err)
	require.True(t, v.IsNull())
}

func TestVirtualFields(t *testing.T) {
	track := trackType(t)
	inst, err := gorec.NewWith(track, map[string]any{"title": "Echoes"})
	require.NoError(t, err)

	err = inst.Set("display", gorec.StringValue("nope"))
	var roe *gorec.ReadOnlyFieldError
	require.ErrorAs(t, err, &roe)

	v, err := inst.Get("display")
	require.NoError(t, err)
	require.True(t, v.Equal(gorec.StringValue("[track] Echoes")))

	cat, err := inst.Get("category")
	require.NoError(t, err)
	require.True(t, cat.Equal(gorec.StringValue("audio")))

	require.True(t, inst.Has("display"))
}

func TestDefaultFunc_FreshPerInstance(t *testing.T) {
	serial := 0
	rt, err := gorec.NewType(gorec.TypeSpec{
		Name: "Numbered",
		Fields: []gorec.Field{
			{Name: "n", Tag: gorec.TagInt, DefaultFunc: func() any {
				serial++
				return serial
			}},
		},
	})
	require.NoError(t, err)

	a := gorec.MustNew(rt)
	b := gorec.MustNew(rt)
	av, err := a.Get("n")
	require.NoError(t, err)
	bv, err := b.Get("n")
	require.NoError(t, err)
	require.True(t, av.Equal(gorec.IntValue(1)))
	require.True(t, bv.Equal(gorec.IntValue(2)))
}

func TestUnset(t *testing.T) {
	inst := mustBook(t, map[string]any{"title": "Ubik", "fiction": true})
	require.True(t, inst.Has("title"))
	require.NoError(t, inst.Unset("title"))
	require.False(t, inst.Has("title"))

	v, err := inst.Get("title")
	require.NoError(t, err)
	require.True(t, v.IsZero(), "unset fields read as the zero Value")
}

func TestInstance_Equal(t *testing.T) {
	a := mustBook(t, map[string]any{"title": "Ubik", "fiction": true})
	b := mustBook(t, map[string]any{"title": "Ubik", "fiction": true})
	require.True(t, a.Equal(b))

	require.NoError(t, b.Set("isbn", gorec.StringValue("0-385-08437-4")))
	require.False(t, a.Equal(b), "set pattern is part of equality")

	c := mustBook(t, map[string]any{"title": "Valis", "fiction": true})
	require.False(t, a.Equal(c))

	other := gorec.MustNew(trackType(t))
	require.False(t, a.Equal(other), "different types never compare equal")
}

func TestNewWith_BuildsNestedResourcesFromMaps(t *testing.T) {
	at := authorType(t)
	profile := dsl.NewResource("AuthorProfile").
		Field("author", dsl.Ref(at), dsl.Required()).
		MustBuild()

	inst, err := gorec.NewWith(profile, map[string]any{
		"author": map[string]any{"name": "Iain M. Banks", "email": "iain@example.com"},
	})
	require.NoError(t, err)
	v, err := inst.Get("author")
	require.NoError(t, err)
	nested, ok := v.Resource()
	require.True(t, ok)
	require.True(t, nested.Equal(mustAuthor(t, "Iain M. Banks", "iain@example.com")))

	book := mustBook(t, map[string]any{
		"title":   "Use of Weapons",
		"fiction": true,
		"authors": []any{map[string]any{"name": "Iain M. Banks"}},
	})
	authors, err := book.Get("authors")
	require.NoError(t, err)
	items, ok := authors.List()
	require.True(t, ok)
	require.Len(t, items, 1)

	// Bad keys inside the nested map surface the nested type's error.
	_, err = gorec.NewWith(profile, map[string]any{
		"author": map[string]any{"pen_name": "Banksie"},
	})
	var ue *gorec.UnknownFieldError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, "Author", ue.Type)
}

func TestBuilderEnumRoundTrip(t *testing.T) {
	rt := dsl.NewResource("Dial").
		Field("level", dsl.Enum(1, 2, 3)).
		MustBuild()
	f, err := rt.FieldByName("level")
	require.NoError(t, err)
	require.Equal(t, gorec.KindInt, f.Kind(), "enum kind inferred from its first choice")
}
