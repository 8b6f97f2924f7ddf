package dsl_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	gorec "github.com/reoring/gorec"
	"github.com/reoring/gorec/dsl"
)

func TestBuildRegistersAndRebuildsIdempotently(t *testing.T) {
	first := dsl.NewResource("Gadget").
		Field("name", dsl.String(), dsl.Required()).
		MustBuild()
	second := dsl.NewResource("Gadget").
		Field("name", dsl.String(), dsl.Required()).
		MustBuild()

	require.Same(t, first, second, "an identical declaration returns the registered type")

	got, ok := gorec.Lookup("Gadget")
	require.True(t, ok)
	require.Same(t, first, got)
}

func TestBuildReportsDuplicateFields(t *testing.T) {
	_, err := dsl.NewResource("Twice").
		Field("a", dsl.String()).
		Field("a", dsl.Int()).
		Build()
	require.ErrorContains(t, err, `duplicate field "a"`)
}

func TestBuildRejectsDiscriminatorFieldName(t *testing.T) {
	_, err := dsl.NewResource("Clash").
		Field("$", dsl.String()).
		Build()
	require.ErrorContains(t, err, "collides with the discriminator key")
}

func TestBuildRejectsMissingNames(t *testing.T) {
	_, err := dsl.NewResource("").
		Field("a", dsl.String()).
		Build()
	require.ErrorContains(t, err, "resource type name must not be empty")

	_, err = dsl.NewResource("NoName").
		Field("", dsl.String()).
		Build()
	require.ErrorContains(t, err, "has no name")
}

func TestBuildRejectsUnknownKindTag(t *testing.T) {
	_, err := dsl.NewResource("Odd").
		Field("q", dsl.Kind("quaternion")).
		Build()

	var unknown *gorec.UnknownKindError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "quaternion", unknown.Tag)
}

func TestBuildRejectsMismatchedDefault(t *testing.T) {
	_, err := dsl.NewResource("BadDefault").
		Field("n", dsl.Int(), dsl.Default("many")).
		Build()
	require.ErrorContains(t, err, `default does not match kind "int"`)
}

func TestBuildRejectsMismatchedChoice(t *testing.T) {
	_, err := dsl.NewResource("BadChoice").
		Field("g", dsl.String(), dsl.Choices("a", 3)).
		Build()
	require.ErrorContains(t, err, `choice 3 does not match kind "string"`)
}

func TestMustBuildPanicsOnError(t *testing.T) {
	require.Panics(t, func() {
		dsl.NewResource("Boom").
			Field("a", dsl.String()).
			Field("a", dsl.String()).
			MustBuild()
	})
}

func TestEnumInfersKindAndPanicsOnMisuse(t *testing.T) {
	rt := dsl.NewResource("Knob").
		Field("level", dsl.Enum(1, 2, 3)).
		MustBuild()
	f, err := rt.FieldByName("level")
	require.NoError(t, err)
	require.Equal(t, gorec.KindInt, f.Kind())

	require.Panics(t, func() { dsl.Enum() })
	require.Panics(t, func() { dsl.Enum([]string{"not", "scalar"}) })
}

func TestRefResolution(t *testing.T) {
	widget := dsl.NewResource("Widget").
		Field("id", dsl.Int()).
		MustBuild()

	byPointer := dsl.NewResource("CartonA").
		Field("w", dsl.Ref(widget)).
		MustBuild()
	f, err := byPointer.FieldByName("w")
	require.NoError(t, err)
	require.Same(t, widget, f.Of)

	byName := dsl.NewResource("CartonB").
		Field("w", dsl.Ref("Widget")).
		MustBuild()
	f, err = byName.FieldByName("w")
	require.NoError(t, err)
	require.Same(t, widget, f.Of)

	_, err = dsl.NewResource("CartonC").
		Field("w", dsl.Ref("Missing")).
		Build()
	require.ErrorContains(t, err, `Ref("Missing") does not name a registered type`)

	require.Panics(t, func() { dsl.Ref(42) })
}

func TestConstantMustBeScalar(t *testing.T) {
	_, err := dsl.NewResource("Tagged").
		Constant("meta", []string{"a", "b"}).
		Build()
	require.ErrorContains(t, err, "constant Tagged.meta must be a scalar, got list")
}

func TestAbstractTypesStayUnregistered(t *testing.T) {
	base := dsl.NewResource("Chassis").
		Abstract().
		Field("serial", dsl.String()).
		MustBuild()

	_, ok := gorec.Lookup("Chassis")
	require.False(t, ok)
	require.True(t, base.Abstract())

	_, err := gorec.New(base)
	var abs *gorec.AbstractTypeError
	require.ErrorAs(t, err, &abs)
}

func TestParentFieldsComeFirstAndOverrideInPlace(t *testing.T) {
	base := dsl.NewResource("Part").
		Field("id", dsl.Int()).
		Field("label", dsl.String()).
		MustBuild()
	child := dsl.NewResource("Bolt").
		Parent(base).
		Field("label", dsl.String(), dsl.Required()).
		Field("thread", dsl.String()).
		MustBuild()

	names := make([]string, 0, child.NumFields())
	for _, f := range child.Fields() {
		names = append(names, f.Name)
	}
	require.Equal(t, []string{"id", "label", "thread"}, names)

	label, err := child.FieldByName("label")
	require.NoError(t, err)
	require.True(t, label.Required, "the child's declaration replaced the parent's")
	require.True(t, child.AssignableTo(base))
}

func TestMessagesOptionsMerge(t *testing.T) {
	rt := dsl.NewResource("Labelled").
		Field("code", dsl.String(),
			dsl.Messages(map[string]string{"required": "Code is a must."}),
			dsl.Messages(map[string]string{"null": "Code cannot be empty."})).
		MustBuild()

	f, err := rt.FieldByName("code")
	require.NoError(t, err)
	require.Equal(t, "Code is a must.", f.Messages["required"])
	require.Equal(t, "Code cannot be empty.", f.Messages["null"])
}

func TestCalculatedAndConstantAreVirtual(t *testing.T) {
	rt := dsl.NewResource("Badge").
		Field("name", dsl.String()).
		Constant("category", "badge").
		Calculated("display", dsl.String(), func(inst *gorec.Instance) (gorec.Value, error) {
			v, _ := inst.Get("name")
			s, _ := v.String()
			return gorec.StringValue("# " + s), nil
		}).
		MustBuild()

	cat, err := rt.FieldByName("category")
	require.NoError(t, err)
	require.True(t, cat.Virtual())
	require.Equal(t, gorec.KindString, cat.Kind())

	disp, err := rt.FieldByName("display")
	require.NoError(t, err)
	require.True(t, disp.Virtual())
}
