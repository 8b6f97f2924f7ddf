package gorec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	gorec "github.com/reoring/gorec"
	csvcodec "github.com/reoring/gorec/codec/csv"
	jsoncodec "github.com/reoring/gorec/codec/json"
)

func TestEncodeJSONDocument(t *testing.T) {
	inst := mustBook(t, map[string]any{
		"title":     "Consider Phlebas",
		"num_pages": 471,
		"fiction":   true,
		"genre":     "sci-fi",
		"authors": []any{
			map[string]any{"name": "Iain M. Banks"},
		},
	})

	data, err := gorec.Encode(inst, jsoncodec.Format{}, gorec.EncodeOpt{})
	require.NoError(t, err)
	require.Equal(t,
		`{"$":"Book","title":"Consider Phlebas","num_pages":471,"rrp":20.4,"fiction":true,"genre":"sci-fi","authors":[{"$":"Author","name":"Iain M. Banks"}]}`,
		string(data))
}

func TestDecodeJSONDocument(t *testing.T) {
	bookType(t)
	data := []byte(`{"$": "Book", "title": "Matter", "fiction": false, "num_pages": 224}`)

	inst, err := gorec.Decode(data, jsoncodec.Format{}, gorec.DecodeOpt{})
	require.NoError(t, err)

	v, _ := inst.Get("title")
	s, _ := v.String()
	require.Equal(t, "Matter", s)
	v, _ = inst.Get("rrp")
	f, _ := v.Float()
	require.Equal(t, 20.4, f)
}

func TestDecodeReportsDriverErrors(t *testing.T) {
	bookType(t)
	_, err := gorec.Decode([]byte(`{"title": `), jsoncodec.Format{}, gorec.DecodeOpt{})

	var de *gorec.DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, "json", de.Format)
	require.NotNil(t, de.Unwrap())
}

func TestDecodeAllJSON(t *testing.T) {
	bookType(t)
	data := []byte(`[
		{"$": "Book", "title": "Consider Phlebas", "fiction": true},
		{"$": "Book", "title": "Use of Weapons", "fiction": true}
	]`)

	list, err := gorec.DecodeAll(data, jsoncodec.Format{}, gorec.DecodeOpt{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	v, _ := list[1].Get("title")
	s, _ := v.String()
	require.Equal(t, "Use of Weapons", s)
}

func TestDecodeAllAggregatesAcrossElements(t *testing.T) {
	bookType(t)
	data := []byte(`[
		{"$": "Book", "title": 1, "fiction": true},
		{"$": "Book", "title": "Matter", "fiction": true, "num_pages": "many"}
	]`)

	_, err := gorec.DecodeAll(data, jsoncodec.Format{}, gorec.DecodeOpt{})
	iss, ok := gorec.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 2)
	require.Equal(t, "/0/title", iss[0].Path)
	require.Equal(t, "/1/num_pages", iss[1].Path)
}

func TestDecodeAllRejectsNonSequence(t *testing.T) {
	bookType(t)
	_, err := gorec.DecodeAll([]byte(`{"$": "Book"}`), jsoncodec.Format{}, gorec.DecodeOpt{})
	require.ErrorContains(t, err, "cannot decode mapping node into a resource list")
}

func TestDecodeSingleCSVRecord(t *testing.T) {
	a := mustAuthor(t, "Iain M. Banks", "iain@example.com")

	data, err := gorec.Encode(a, csvcodec.Format{}, gorec.EncodeOpt{})
	require.NoError(t, err)

	// CSV unmarshals to a sequence even for one record; Decode unwraps it.
	inst, err := gorec.Decode(data, csvcodec.Format{}, gorec.DecodeOpt{Type: authorType(t)})
	require.NoError(t, err)
	require.True(t, inst.Equal(a))

	b := mustAuthor(t, "Ursula K. Le Guin", "")
	batch, err := gorec.EncodeAll([]*gorec.Instance{a, b}, csvcodec.Format{}, gorec.EncodeOpt{})
	require.NoError(t, err)
	_, err = gorec.Decode(batch, csvcodec.Format{}, gorec.DecodeOpt{Type: authorType(t)})
	require.ErrorContains(t, err, "cannot decode sequence node into a resource")
}

func TestEncodeAllJSON(t *testing.T) {
	a := mustBook(t, map[string]any{"title": "A", "fiction": true})
	b := mustBook(t, map[string]any{"title": "B", "fiction": false})

	data, err := gorec.EncodeAll([]*gorec.Instance{a, b}, jsoncodec.Format{}, gorec.EncodeOpt{})
	require.NoError(t, err)
	require.Equal(t,
		`[{"$":"Book","title":"A","rrp":20.4,"fiction":true},{"$":"Book","title":"B","rrp":20.4,"fiction":false}]`,
		string(data))
}
