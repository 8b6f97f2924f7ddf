package mapping_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	gorec "github.com/reoring/gorec"
	"github.com/reoring/gorec/dsl"
	"github.com/reoring/gorec/mapping"
)

func novelType(t *testing.T) *gorec.ResourceType {
	t.Helper()
	return dsl.NewResource("Novel").
		Field("title", dsl.String(), dsl.Required()).
		Field("pages", dsl.Int()).
		Field("price", dsl.Float(), dsl.Default(10.0)).
		Field("tags", dsl.ListOf(dsl.String())).
		MustBuild()
}

func synopsisType(t *testing.T) *gorec.ResourceType {
	t.Helper()
	return dsl.NewResource("Synopsis").
		Field("headline", dsl.String()).
		Field("title", dsl.String()).
		Field("pages", dsl.Int()).
		Field("publisher", dsl.String()).
		Field("tags", dsl.ListOf(dsl.String())).
		Calculated("display", dsl.String(), func(inst *gorec.Instance) (gorec.Value, error) {
			v, err := inst.Get("headline")
			if err != nil || v.IsZero() {
				return gorec.StringValue(""), nil
			}
			s, _ := v.String()
			return gorec.StringValue("* " + s), nil
		}).
		MustBuild()
}

func mustNovel(t *testing.T, values map[string]any) *gorec.Instance {
	t.Helper()
	inst, err := gorec.NewWith(novelType(t), values)
	require.NoError(t, err)
	return inst
}

func upper(v gorec.Value) (gorec.Value, error) {
	s, _ := v.String()
	return gorec.StringValue(strings.ToUpper(s)), nil
}

func TestApplyExplicitRules(t *testing.T) {
	src := novelType(t)
	dst := synopsisType(t)
	pub := gorec.StringValue("Orbit")

	serial := 0
	m, err := mapping.New(src, dst, []mapping.Rule{
		{From: "title", To: "headline", Convert: upper},
		{Const: &pub, To: "publisher"},
		{Supply: func() gorec.Value { serial++; return gorec.IntValue(int64(serial)) }, To: "pages"},
	})
	require.NoError(t, err)
	require.Same(t, src, m.Source())
	require.Same(t, dst, m.Target())

	out, err := m.Apply(mustNovel(t, map[string]any{"title": "Consider Phlebas"}))
	require.NoError(t, err)

	v, _ := out.Get("headline")
	s, _ := v.String()
	require.Equal(t, "CONSIDER PHLEBAS", s)

	v, _ = out.Get("publisher")
	s, _ = v.String()
	require.Equal(t, "Orbit", s)

	v, _ = out.Get("pages")
	i, _ := v.Int()
	require.Equal(t, int64(1), i)

	out, err = m.Apply(mustNovel(t, map[string]any{"title": "Matter"}))
	require.NoError(t, err)
	v, _ = out.Get("pages")
	i, _ = v.Int()
	require.Equal(t, int64(2), i, "suppliers run once per application")
}

func TestApplyWidensIntsThroughConverters(t *testing.T) {
	src := dsl.NewResource("SourcePoint").
		Field("x", dsl.Int(), dsl.Required()).
		Field("y", dsl.Int(), dsl.Required()).
		MustBuild()
	dst := dsl.NewResource("TargetPoint").
		Field("lat", dsl.Float(), dsl.Required()).
		Field("lon", dsl.Float(), dsl.Required()).
		MustBuild()

	widen := func(v gorec.Value) (gorec.Value, error) {
		i, _ := v.Int()
		return gorec.FloatValue(float64(i)), nil
	}
	m, err := mapping.New(src, dst, []mapping.Rule{
		{From: "x", To: "lat", Convert: widen},
		{From: "y", To: "lon", Convert: widen},
	})
	require.NoError(t, err)

	point, err := gorec.NewWith(src, map[string]any{"x": 3, "y": 4})
	require.NoError(t, err)
	out, err := m.Apply(point)
	require.NoError(t, err)

	lat, _ := out.Get("lat")
	lon, _ := out.Get("lon")
	require.True(t, lat.Equal(gorec.FloatValue(3)))
	require.True(t, lon.Equal(gorec.FloatValue(4)))
	require.Nil(t, gorec.Validate(out), "both required targets are covered")
}

func TestApplyUnsetSourceSkipsRule(t *testing.T) {
	src := novelType(t)
	dst := synopsisType(t)

	m, err := mapping.New(src, dst, []mapping.Rule{
		{From: "title", To: "title"},
		{From: "pages", To: "pages"},
	})
	require.NoError(t, err)

	out, err := m.Apply(mustNovel(t, map[string]any{"title": "Matter"}))
	require.NoError(t, err)
	require.True(t, out.Has("title"))
	require.False(t, out.Has("pages"), "an unset source leaves the target untouched")
}

func TestAutoMapPairsCompatibleFields(t *testing.T) {
	src := novelType(t)
	dst := synopsisType(t)

	m, err := mapping.New(src, dst, nil, mapping.AutoMap())
	require.NoError(t, err)

	out, err := m.Apply(mustNovel(t, map[string]any{
		"title": "Matter",
		"pages": 471,
		"tags":  []any{"culture", "space"},
	}))
	require.NoError(t, err)

	v, _ := out.Get("title")
	s, _ := v.String()
	require.Equal(t, "Matter", s)
	v, _ = out.Get("pages")
	i, _ := v.Int()
	require.Equal(t, int64(471), i)
	v, _ = out.Get("tags")
	l, _ := v.Len()
	require.Equal(t, 2, l)

	require.False(t, out.Has("headline"), "no same-named source field")
	require.False(t, out.Has("publisher"))
}

func TestAutoMapSkipsIncompatibleKinds(t *testing.T) {
	src := novelType(t)
	card := dsl.NewResource("IndexCard").
		Field("title", dsl.String()).
		Field("pages", dsl.String()).
		MustBuild()

	m, err := mapping.New(src, card, nil, mapping.AutoMap())
	require.NoError(t, err)

	out, err := m.Apply(mustNovel(t, map[string]any{"title": "Matter", "pages": 471}))
	require.NoError(t, err)
	require.True(t, out.Has("title"))
	require.False(t, out.Has("pages"), "int does not auto-map onto string")
}

func TestAutoMapRespectsExplicitCoverage(t *testing.T) {
	src := novelType(t)
	dst := synopsisType(t)

	m, err := mapping.New(src, dst, []mapping.Rule{
		{From: "title", To: "title", Convert: upper},
	}, mapping.AutoMap())
	require.NoError(t, err)

	out, err := m.Apply(mustNovel(t, map[string]any{"title": "Matter"}))
	require.NoError(t, err)
	v, _ := out.Get("title")
	s, _ := v.String()
	require.Equal(t, "MATTER", s, "the explicit rule owns the field")
}

func TestNewRejectsBadRules(t *testing.T) {
	src := novelType(t)
	dst := synopsisType(t)
	pub := gorec.StringValue("Orbit")

	cases := []struct {
		name string
		rule mapping.Rule
		want string
	}{
		{"no specifier", mapping.Rule{To: "title"}, "want exactly one of From, Const and Supply, got 0"},
		{"two specifiers", mapping.Rule{From: "title", Const: &pub, To: "title"}, "got 2"},
		{"unknown source field", mapping.Rule{From: "subtitle", To: "title"}, `has no field "subtitle"`},
		{"unknown target field", mapping.Rule{From: "title", To: "strapline"}, `has no field "strapline"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := mapping.New(src, dst, []mapping.Rule{tc.rule})
			require.ErrorContains(t, err, "rule 0")
			require.ErrorContains(t, err, tc.want)
		})
	}

	_, err := mapping.New(src, dst, []mapping.Rule{{From: "title", To: "display"}})
	var ro *gorec.ReadOnlyFieldError
	require.ErrorAs(t, err, &ro, "calculated targets are not writable")
	require.Equal(t, "display", ro.Field)

	_, err = mapping.New(nil, dst, nil)
	require.Error(t, err)
}

func TestApplyChecksSourceType(t *testing.T) {
	src := novelType(t)
	dst := synopsisType(t)
	m, err := mapping.New(src, dst, []mapping.Rule{{From: "title", To: "title"}})
	require.NoError(t, err)

	other, err := gorec.NewWith(dst, map[string]any{"title": "x"})
	require.NoError(t, err)

	_, err = m.Apply(other)
	var mismatch *gorec.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, "Novel", mismatch.Want)
	require.Equal(t, "Synopsis", mismatch.Got)

	_, err = m.Apply(nil)
	require.ErrorContains(t, err, "nil source instance")
}

func TestApplyAcceptsSubtypes(t *testing.T) {
	base := dsl.NewResource("Release").
		Field("title", dsl.String()).
		MustBuild()
	child := dsl.NewResource("Single").
		Parent(base).
		Field("minutes", dsl.Int()).
		MustBuild()
	dst := synopsisType(t)

	m, err := mapping.New(base, dst, []mapping.Rule{{From: "title", To: "title"}})
	require.NoError(t, err)

	inst, err := gorec.NewWith(child, map[string]any{"title": "Echoes", "minutes": 23})
	require.NoError(t, err)

	out, err := m.Apply(inst)
	require.NoError(t, err)
	v, _ := out.Get("title")
	s, _ := v.String()
	require.Equal(t, "Echoes", s)
}

func TestConvertFailuresAbort(t *testing.T) {
	src := novelType(t)
	dst := synopsisType(t)

	m, err := mapping.New(src, dst, []mapping.Rule{
		{From: "title", To: "headline", Convert: func(gorec.Value) (gorec.Value, error) {
			return gorec.Value{}, errors.New("boom")
		}},
	})
	require.NoError(t, err)

	_, err = m.Apply(mustNovel(t, map[string]any{"title": "Matter"}))
	require.EqualError(t, err, `mapping Novel to Synopsis: convert "headline": boom`)
}

func TestConvertKindMismatchFailsFast(t *testing.T) {
	src := novelType(t)
	dst := synopsisType(t)

	m, err := mapping.New(src, dst, []mapping.Rule{
		{From: "title", To: "headline", Convert: func(gorec.Value) (gorec.Value, error) {
			return gorec.IntValue(3), nil
		}},
	})
	require.NoError(t, err)

	_, err = m.Apply(mustNovel(t, map[string]any{"title": "Matter"}))
	var ke *gorec.KindError
	require.ErrorAs(t, err, &ke)
	require.Equal(t, "headline", ke.Field)
}

func TestApplyDoesNotValidate(t *testing.T) {
	src := synopsisType(t)
	dst := novelType(t)

	m, err := mapping.New(src, dst, []mapping.Rule{{From: "pages", To: "pages"}})
	require.NoError(t, err)

	blank, err := gorec.New(src)
	require.NoError(t, err)
	out, err := m.Apply(blank)
	require.NoError(t, err, "a mapped instance may be incomplete")

	err = gorec.Validate(out)
	iss, ok := gorec.AsIssues(err)
	require.True(t, ok)
	require.Equal(t, "/title", iss[0].Path)
}

func TestRegistryAndMap(t *testing.T) {
	mapping.Reset()
	t.Cleanup(mapping.Reset)

	base := dsl.NewResource("Release").
		Field("title", dsl.String()).
		MustBuild()
	child := dsl.NewResource("Single").
		Parent(base).
		Field("minutes", dsl.Int()).
		MustBuild()
	dst := synopsisType(t)

	m, err := mapping.New(base, dst, []mapping.Rule{{From: "title", To: "title"}})
	require.NoError(t, err)
	require.NoError(t, mapping.Register(m))
	require.NoError(t, mapping.Register(m), "re-registering the same mapping is a no-op")

	dup, err := mapping.New(base, dst, nil)
	require.NoError(t, err)
	require.ErrorContains(t, mapping.Register(dup), "already registered")

	got, err := mapping.Lookup("Release", "Synopsis")
	require.NoError(t, err)
	require.Same(t, m, got)

	_, err = mapping.Lookup("Release", "IndexCard")
	var miss *mapping.NoMappingError
	require.ErrorAs(t, err, &miss)
	require.Equal(t, "Release", miss.Source)
	require.Equal(t, "IndexCard", miss.Target)

	inst, err := gorec.NewWith(child, map[string]any{"title": "Echoes"})
	require.NoError(t, err)
	out, err := mapping.Map(inst, dst)
	require.NoError(t, err, "a mapping on the base type serves its children")
	v, _ := out.Get("title")
	s, _ := v.String()
	require.Equal(t, "Echoes", s)

	_, err = mapping.Map(inst, base)
	require.ErrorAs(t, err, &miss)
	require.Equal(t, "Single", miss.Source)

	require.Error(t, mapping.Register(nil))
}
