// Package json implements the JSON wire format over goccy/go-json. Keys
// keep document order both ways; numbers decode via UseNumber so integers
// survive without a float round-trip; duplicate object keys are rejected.
package json

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"

	gorec "github.com/reoring/gorec"
)

// Format is the JSON driver. The zero value is ready to use and safe to
// share.
type Format struct {
	// Indent pretty-prints output with the given indent string. Empty
	// means compact output.
	Indent string
}

// Name implements gorec.Format.
func (Format) Name() string { return "json" }

// Marshal implements gorec.Format. Output is built by hand so mapping
// keys keep their insertion order; strings go through go-json for
// escaping.
func (f Format) Marshal(n gorec.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.write(&buf, n, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f Format) write(buf *bytes.Buffer, n gorec.Node, depth int) error {
	switch n.Kind() {
	case gorec.NodeNull:
		buf.WriteString("null")
	case gorec.NodeString:
		s, _ := n.String()
		return writeString(buf, s)
	case gorec.NodeInt:
		i, _ := n.Int()
		buf.WriteString(strconv.FormatInt(i, 10))
	case gorec.NodeFloat:
		fv, _ := n.Float()
		return writeFloat(buf, fv)
	case gorec.NodeBool:
		b, _ := n.Bool()
		buf.WriteString(strconv.FormatBool(b))
	case gorec.NodeSeq:
		buf.WriteByte('[')
		for i := 0; i < n.Len(); i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			f.newline(buf, depth+1)
			if err := f.write(buf, n.Index(i), depth+1); err != nil {
				return err
			}
		}
		if n.Len() > 0 {
			f.newline(buf, depth)
		}
		buf.WriteByte(']')
	case gorec.NodeMap:
		buf.WriteByte('{')
		for i := 0; i < n.Len(); i++ {
			key, val := n.Entry(i)
			if i > 0 {
				buf.WriteByte(',')
			}
			f.newline(buf, depth+1)
			if err := writeString(buf, key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if f.Indent != "" {
				buf.WriteByte(' ')
			}
			if err := f.write(buf, val, depth+1); err != nil {
				return err
			}
		}
		if n.Len() > 0 {
			f.newline(buf, depth)
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("json: cannot marshal %s node", n.Kind())
	}
	return nil
}

func (f Format) newline(buf *bytes.Buffer, depth int) {
	if f.Indent == "" {
		return
	}
	buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		buf.WriteString(f.Indent)
	}
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := j.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func writeFloat(buf *bytes.Buffer, fv float64) error {
	b, err := j.Marshal(fv)
	if err != nil {
		return fmt.Errorf("json: %w", err)
	}
	buf.Write(b)
	return nil
}

// Unmarshal implements gorec.Format via a token walk so object key order
// is observed rather than lost to a map.
func (Format) Unmarshal(data []byte) (gorec.Node, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := parseValue(dec)
	if err != nil {
		return gorec.Node{}, err
	}
	if dec.More() {
		return gorec.Node{}, fmt.Errorf("json: unexpected data after top-level value")
	}
	return n, nil
}

func parseValue(dec *j.Decoder) (gorec.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return gorec.Node{}, fmt.Errorf("json: unexpected end of input")
		}
		return gorec.Node{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
		return gorec.Node{}, fmt.Errorf("json: unexpected delimiter %q", v.String())
	case string:
		return gorec.StringNode(v), nil
	case bool:
		return gorec.BoolNode(v), nil
	case j.Number:
		return numberNode(string(v))
	case float64:
		return gorec.FloatNode(v), nil
	case nil:
		return gorec.NullNode(), nil
	}
	return gorec.Node{}, fmt.Errorf("json: unexpected token %v", tok)
}

func parseObject(dec *j.Decoder) (gorec.Node, error) {
	out := gorec.MapNode()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return gorec.Node{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return gorec.Node{}, fmt.Errorf("json: object key is not a string: %v", keyTok)
		}
		if _, dup := out.Get(key); dup {
			return gorec.Node{}, fmt.Errorf("json: duplicate object key %q", key)
		}
		val, err := parseValue(dec)
		if err != nil {
			return gorec.Node{}, err
		}
		out.Set(key, val)
	}
	// consume '}'
	if _, err := dec.Token(); err != nil {
		return gorec.Node{}, err
	}
	return out, nil
}

func parseArray(dec *j.Decoder) (gorec.Node, error) {
	out := gorec.SeqNode()
	for dec.More() {
		val, err := parseValue(dec)
		if err != nil {
			return gorec.Node{}, err
		}
		out.Append(val)
	}
	// consume ']'
	if _, err := dec.Token(); err != nil {
		return gorec.Node{}, err
	}
	return out, nil
}

func numberNode(s string) (gorec.Node, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return gorec.IntNode(i), nil
		}
	}
	fv, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return gorec.Node{}, fmt.Errorf("json: bad number %q", s)
	}
	return gorec.FloatNode(fv), nil
}
