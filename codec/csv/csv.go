// Package csv implements a flat CSV wire format. CSV is a batch format:
// a document is a header row naming fields plus one record per resource,
// so Unmarshal always yields a sequence and decoding goes through
// gorec.DecodeAll with DecodeOpt.Type set (gorec.Decode handles the
// one-record case by unwrapping it). The discriminator key is not
// written; every cell is a string and the field contracts coerce. Empty
// cells mean the field is absent, so CSV cannot distinguish unset, null
// and the empty string.
package csv

import (
	"bytes"
	stdcsv "encoding/csv"
	"fmt"
	"strconv"

	gorec "github.com/reoring/gorec"
)

// Format is the CSV driver. The zero value writes comma-separated output.
type Format struct {
	// Comma overrides the field delimiter. Zero means ','.
	Comma rune
}

// Name implements gorec.Format.
func (Format) Name() string { return "csv" }

// Marshal implements gorec.Format. It accepts a single mapping node or a
// sequence of them. The header is the union of row keys in first-seen
// order, minus the discriminator; missing and null cells write as empty.
func (f Format) Marshal(n gorec.Node) ([]byte, error) {
	var rows []gorec.Node
	switch n.Kind() {
	case gorec.NodeMap:
		rows = []gorec.Node{n}
	case gorec.NodeSeq:
		for i := 0; i < n.Len(); i++ {
			row := n.Index(i)
			if row.Kind() != gorec.NodeMap {
				return nil, fmt.Errorf("csv: record %d is a %s, want mapping", i, row.Kind())
			}
			rows = append(rows, row)
		}
	default:
		return nil, fmt.Errorf("csv: cannot marshal %s node", n.Kind())
	}

	var header []string
	seen := map[string]bool{}
	for _, row := range rows {
		for _, key := range row.Keys() {
			if key == gorec.TypeField || seen[key] {
				continue
			}
			seen[key] = true
			header = append(header, key)
		}
	}

	var buf bytes.Buffer
	w := stdcsv.NewWriter(&buf)
	if f.Comma != 0 {
		w.Comma = f.Comma
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	record := make([]string, len(header))
	for i, row := range rows {
		for j, key := range header {
			cell, err := cellText(row, key)
			if err != nil {
				return nil, fmt.Errorf("csv: record %d column %q: %w", i, key, err)
			}
			record[j] = cell
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func cellText(row gorec.Node, key string) (string, error) {
	v, ok := row.Get(key)
	if !ok {
		return "", nil
	}
	switch v.Kind() {
	case gorec.NodeNull:
		return "", nil
	case gorec.NodeString:
		s, _ := v.String()
		return s, nil
	case gorec.NodeInt:
		i, _ := v.Int()
		return strconv.FormatInt(i, 10), nil
	case gorec.NodeFloat:
		fv, _ := v.Float()
		return strconv.FormatFloat(fv, 'g', -1, 64), nil
	case gorec.NodeBool:
		b, _ := v.Bool()
		return strconv.FormatBool(b), nil
	}
	return "", fmt.Errorf("cannot flatten a %s into a cell", v.Kind())
}

// Unmarshal implements gorec.Format. Every row becomes a mapping of
// header name to string cell; empty cells are omitted so absent values
// fall back to field defaults downstream.
func (f Format) Unmarshal(data []byte) (gorec.Node, error) {
	r := stdcsv.NewReader(bytes.NewReader(data))
	if f.Comma != 0 {
		r.Comma = f.Comma
	}
	records, err := r.ReadAll()
	if err != nil {
		return gorec.Node{}, err
	}
	if len(records) == 0 {
		return gorec.Node{}, fmt.Errorf("csv: missing header row")
	}
	header := records[0]
	out := gorec.SeqNode()
	for _, record := range records[1:] {
		row := gorec.MapNode()
		for i, cell := range record {
			if i >= len(header) || cell == "" {
				continue
			}
			row.Set(header[i], gorec.StringNode(cell))
		}
		out.Append(row)
	}
	return out, nil
}
