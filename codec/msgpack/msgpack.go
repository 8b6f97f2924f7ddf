// Package msgpack implements the MessagePack wire format over
// vmihailenco/msgpack/v5. Encoding and decoding drive the low-level
// Encoder/Decoder directly so map key order survives; the generic
// interface path would shuffle keys through a Go map.
package msgpack

import (
	"bytes"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	gorec "github.com/reoring/gorec"
)

// Format is the MessagePack driver. The zero value is ready to use and
// safe to share.
type Format struct{}

// Name implements gorec.Format.
func (Format) Name() string { return "msgpack" }

// Marshal implements gorec.Format.
func (Format) Marshal(n gorec.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encodeNode(enc, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeNode(enc *msgpack.Encoder, n gorec.Node) error {
	switch n.Kind() {
	case gorec.NodeNull:
		return enc.EncodeNil()
	case gorec.NodeString:
		s, _ := n.String()
		return enc.EncodeString(s)
	case gorec.NodeInt:
		i, _ := n.Int()
		return enc.EncodeInt(i)
	case gorec.NodeFloat:
		f, _ := n.Float()
		return enc.EncodeFloat64(f)
	case gorec.NodeBool:
		b, _ := n.Bool()
		return enc.EncodeBool(b)
	case gorec.NodeSeq:
		if err := enc.EncodeArrayLen(n.Len()); err != nil {
			return err
		}
		for i := 0; i < n.Len(); i++ {
			if err := encodeNode(enc, n.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case gorec.NodeMap:
		if err := enc.EncodeMapLen(n.Len()); err != nil {
			return err
		}
		for i := 0; i < n.Len(); i++ {
			key, val := n.Entry(i)
			if err := enc.EncodeString(key); err != nil {
				return err
			}
			if err := encodeNode(enc, val); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("msgpack: cannot marshal %s node", n.Kind())
}

// Unmarshal implements gorec.Format.
func (Format) Unmarshal(data []byte) (gorec.Node, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	return decodeNode(dec)
}

func decodeNode(dec *msgpack.Decoder) (gorec.Node, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return gorec.Node{}, err
	}
	switch {
	case c == msgpcode.Nil:
		if err := dec.DecodeNil(); err != nil {
			return gorec.Node{}, err
		}
		return gorec.NullNode(), nil
	case c == msgpcode.True || c == msgpcode.False:
		b, err := dec.DecodeBool()
		if err != nil {
			return gorec.Node{}, err
		}
		return gorec.BoolNode(b), nil
	case c == msgpcode.Uint64:
		u, err := dec.DecodeUint64()
		if err != nil {
			return gorec.Node{}, err
		}
		if u > math.MaxInt64 {
			return gorec.Node{}, fmt.Errorf("msgpack: integer %d overflows int64", u)
		}
		return gorec.IntNode(int64(u)), nil
	case msgpcode.IsFixedNum(c),
		c == msgpcode.Int8, c == msgpcode.Int16, c == msgpcode.Int32, c == msgpcode.Int64,
		c == msgpcode.Uint8, c == msgpcode.Uint16, c == msgpcode.Uint32:
		i, err := dec.DecodeInt64()
		if err != nil {
			return gorec.Node{}, err
		}
		return gorec.IntNode(i), nil
	case c == msgpcode.Float, c == msgpcode.Double:
		f, err := dec.DecodeFloat64()
		if err != nil {
			return gorec.Node{}, err
		}
		return gorec.FloatNode(f), nil
	case msgpcode.IsString(c):
		s, err := dec.DecodeString()
		if err != nil {
			return gorec.Node{}, err
		}
		return gorec.StringNode(s), nil
	case msgpcode.IsBin(c):
		b, err := dec.DecodeBytes()
		if err != nil {
			return gorec.Node{}, err
		}
		return gorec.StringNode(string(b)), nil
	case msgpcode.IsFixedArray(c), c == msgpcode.Array16, c == msgpcode.Array32:
		ln, err := dec.DecodeArrayLen()
		if err != nil {
			return gorec.Node{}, err
		}
		out := gorec.SeqNode()
		for i := 0; i < ln; i++ {
			item, err := decodeNode(dec)
			if err != nil {
				return gorec.Node{}, err
			}
			out.Append(item)
		}
		return out, nil
	case msgpcode.IsFixedMap(c), c == msgpcode.Map16, c == msgpcode.Map32:
		ln, err := dec.DecodeMapLen()
		if err != nil {
			return gorec.Node{}, err
		}
		out := gorec.MapNode()
		for i := 0; i < ln; i++ {
			key, err := dec.DecodeString()
			if err != nil {
				return gorec.Node{}, fmt.Errorf("msgpack: map key: %w", err)
			}
			val, err := decodeNode(dec)
			if err != nil {
				return gorec.Node{}, err
			}
			out.Set(key, val)
		}
		return out, nil
	}
	return gorec.Node{}, fmt.Errorf("msgpack: unsupported code 0x%02x", c)
}
