package csv_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	gorec "github.com/reoring/gorec"
	csvcodec "github.com/reoring/gorec/codec/csv"
)

func row(pairs ...any) gorec.Node {
	n := gorec.MapNode()
	for i := 0; i+1 < len(pairs); i += 2 {
		n.Set(pairs[i].(string), pairs[i+1].(gorec.Node))
	}
	return n
}

func TestMarshalBatch(t *testing.T) {
	n := gorec.SeqNode(
		row("$", gorec.StringNode("Book"), "title", gorec.StringNode("Matter"), "pages", gorec.IntNode(471)),
		row("$", gorec.StringNode("Book"), "title", gorec.StringNode("Excession"), "pages", gorec.IntNode(390)),
	)

	data, err := csvcodec.Format{}.Marshal(n)
	require.NoError(t, err)
	require.Equal(t, "title,pages\nMatter,471\nExcession,390\n", string(data))
}

func TestMarshalHeaderIsFirstSeenUnion(t *testing.T) {
	n := gorec.SeqNode(
		row("a", gorec.IntNode(1), "b", gorec.IntNode(2)),
		row("b", gorec.IntNode(3), "c", gorec.IntNode(4)),
	)

	data, err := csvcodec.Format{}.Marshal(n)
	require.NoError(t, err)
	require.Equal(t, "a,b,c\n1,2,\n,3,4\n", string(data))
}

func TestMarshalSingleMappingBecomesOneRecord(t *testing.T) {
	data, err := csvcodec.Format{}.Marshal(row("title", gorec.StringNode("Matter")))
	require.NoError(t, err)
	require.Equal(t, "title\nMatter\n", string(data))
}

func TestMarshalNullAndMissingCellsAreEmpty(t *testing.T) {
	n := gorec.SeqNode(
		row("a", gorec.NullNode(), "b", gorec.BoolNode(true)),
	)

	data, err := csvcodec.Format{}.Marshal(n)
	require.NoError(t, err)
	require.Equal(t, "a,b\n,true\n", string(data))
}

func TestMarshalQuotesDelimiters(t *testing.T) {
	n := gorec.SeqNode(row("note", gorec.StringNode(`contains, comma and "quote"`)))

	data, err := csvcodec.Format{}.Marshal(n)
	require.NoError(t, err)
	require.Equal(t, "note\n\"contains, comma and \"\"quote\"\"\"\n", string(data))
}

func TestMarshalRejectsNestedValues(t *testing.T) {
	n := gorec.SeqNode(row("tags", gorec.SeqNode(gorec.StringNode("x"))))

	_, err := csvcodec.Format{}.Marshal(n)
	require.ErrorContains(t, err, `record 0 column "tags"`)
	require.ErrorContains(t, err, "cannot flatten a sequence into a cell")
}

func TestMarshalRejectsNonMappingRecords(t *testing.T) {
	_, err := csvcodec.Format{}.Marshal(gorec.SeqNode(gorec.IntNode(3)))
	require.ErrorContains(t, err, "record 0 is a int, want mapping")

	_, err = csvcodec.Format{}.Marshal(gorec.StringNode("x"))
	require.ErrorContains(t, err, "cannot marshal string node")
}

func TestUnmarshalAlwaysYieldsSequence(t *testing.T) {
	n, err := csvcodec.Format{}.Unmarshal([]byte("title,pages\nMatter,471\n"))
	require.NoError(t, err)
	require.Equal(t, gorec.NodeSeq, n.Kind())
	require.Equal(t, 1, n.Len())

	first := n.Index(0)
	title, ok := first.Get("title")
	require.True(t, ok)
	require.Equal(t, gorec.NodeString, title.Kind(), "cells stay strings for the contracts to coerce")
	pages, _ := first.Get("pages")
	require.Equal(t, gorec.NodeString, pages.Kind())
	s, _ := pages.String()
	require.Equal(t, "471", s)
}

func TestUnmarshalSkipsEmptyCells(t *testing.T) {
	n, err := csvcodec.Format{}.Unmarshal([]byte("a,b,c\n1,,3\n"))
	require.NoError(t, err)

	first := n.Index(0)
	require.True(t, first.Has("a"))
	require.False(t, first.Has("b"), "an empty cell means the key is absent")
	require.True(t, first.Has("c"))
}

func TestUnmarshalHeaderOnly(t *testing.T) {
	n, err := csvcodec.Format{}.Unmarshal([]byte("a,b\n"))
	require.NoError(t, err)
	require.Equal(t, gorec.NodeSeq, n.Kind())
	require.Equal(t, 0, n.Len())
}

func TestUnmarshalMissingHeader(t *testing.T) {
	_, err := csvcodec.Format{}.Unmarshal(nil)
	require.ErrorContains(t, err, "missing header row")
}

func TestCommaOverride(t *testing.T) {
	f := csvcodec.Format{Comma: ';'}
	n := gorec.SeqNode(row("a", gorec.IntNode(1), "b", gorec.IntNode(2)))

	data, err := f.Marshal(n)
	require.NoError(t, err)
	require.Equal(t, "a;b\n1;2\n", string(data))

	back, err := f.Unmarshal(data)
	require.NoError(t, err)
	v, ok := back.Index(0).Get("b")
	require.True(t, ok)
	s, _ := v.String()
	require.Equal(t, "2", s)
}
