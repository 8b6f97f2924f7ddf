package gorec

import "fmt"

// TypeField is the reserved mapping key that carries a resource's registered
// discriminator on the wire. Decoders special-case it; it is never a data
// field. EncodeOpt/DecodeOpt can override the key per call.
const TypeField = "$"

// NodeKind identifies the shape of a Node.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota
	NodeNull
	NodeString
	NodeInt
	NodeFloat
	NodeBool
	NodeSeq
	NodeMap
)

var nodeKindNames = map[NodeKind]string{
	NodeInvalid: "invalid",
	NodeNull:    "null",
	NodeString:  "string",
	NodeInt:     "int",
	NodeFloat:   "float",
	NodeBool:    "bool",
	NodeSeq:     "sequence",
	NodeMap:     "mapping",
}

func (k NodeKind) String() string {
	if s, ok := nodeKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("NodeKind(%d)", uint8(k))
}

// Node is the format-agnostic tagged tree every codec works on: a scalar, an
// ordered sequence, or a mapping with insertion-ordered keys that may carry
// the discriminator key. Nodes are transient, created per encode/decode call.
type Node struct {
	kind NodeKind
	s    string
	i    int64
	f    float64
	b    bool
	seq  []Node
	keys []string
	vals []Node
}

// NullNode returns a null scalar node.
func NullNode() Node { return Node{kind: NodeNull} }

// StringNode returns a string scalar node.
func StringNode(s string) Node { return Node{kind: NodeString, s: s} }

// IntNode returns an integer scalar node.
func IntNode(i int64) Node { return Node{kind: NodeInt, i: i} }

// FloatNode returns a float scalar node.
func FloatNode(f float64) Node { return Node{kind: NodeFloat, f: f} }

// BoolNode returns a bool scalar node.
func BoolNode(b bool) Node { return Node{kind: NodeBool, b: b} }

// SeqNode returns a sequence node holding a copy of items.
func SeqNode(items ...Node) Node {
	cp := make([]Node, len(items))
	copy(cp, items)
	return Node{kind: NodeSeq, seq: cp}
}

// MapNode returns an empty mapping node; populate it with Set.
func MapNode() Node { return Node{kind: NodeMap} }

// Kind reports the node's shape.
func (n Node) Kind() NodeKind { return n.kind }

// IsZero reports whether the node is the invalid zero Node.
func (n Node) IsZero() bool { return n.kind == NodeInvalid }

// String returns the string payload.
func (n Node) String() (string, bool) { return n.s, n.kind == NodeString }

// Int returns the integer payload.
func (n Node) Int() (int64, bool) { return n.i, n.kind == NodeInt }

// Float returns the float payload.
func (n Node) Float() (float64, bool) { return n.f, n.kind == NodeFloat }

// Bool returns the bool payload.
func (n Node) Bool() (bool, bool) { return n.b, n.kind == NodeBool }

// Len returns the element count of sequence and mapping nodes, zero
// otherwise.
func (n Node) Len() int {
	switch n.kind {
	case NodeSeq:
		return len(n.seq)
	case NodeMap:
		return len(n.keys)
	}
	return 0
}

// Index returns element i of a sequence node.
func (n Node) Index(i int) Node {
	if n.kind != NodeSeq || i < 0 || i >= len(n.seq) {
		return Node{}
	}
	return n.seq[i]
}

// Append adds items to a sequence node.
func (n *Node) Append(items ...Node) {
	if n.kind == NodeInvalid {
		n.kind = NodeSeq
	}
	n.seq = append(n.seq, items...)
}

// Entry returns the i-th key/value pair of a mapping node in insertion order.
func (n Node) Entry(i int) (string, Node) {
	if n.kind != NodeMap || i < 0 || i >= len(n.keys) {
		return "", Node{}
	}
	return n.keys[i], n.vals[i]
}

// Keys returns a copy of the mapping keys in insertion order.
func (n Node) Keys() []string {
	if n.kind != NodeMap {
		return nil
	}
	cp := make([]string, len(n.keys))
	copy(cp, n.keys)
	return cp
}

// Get looks up a key in a mapping node.
func (n Node) Get(key string) (Node, bool) {
	if n.kind != NodeMap {
		return Node{}, false
	}
	for i, k := range n.keys {
		if k == key {
			return n.vals[i], true
		}
	}
	return Node{}, false
}

// Has reports whether a mapping node carries the key.
func (n Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// Set inserts or replaces a key in a mapping node, keeping first-insertion
// order.
func (n *Node) Set(key string, v Node) {
	if n.kind == NodeInvalid {
		n.kind = NodeMap
	}
	for i, k := range n.keys {
		if k == key {
			n.vals[i] = v
			return
		}
	}
	n.keys = append(n.keys, key)
	n.vals = append(n.vals, v)
}

// Equal reports structural equality. Sequences are order-sensitive, mappings
// are order-insensitive.
func (n Node) Equal(o Node) bool {
	if n.kind != o.kind {
		return false
	}
	switch n.kind {
	case NodeInvalid, NodeNull:
		return true
	case NodeString:
		return n.s == o.s
	case NodeInt:
		return n.i == o.i
	case NodeFloat:
		return n.f == o.f
	case NodeBool:
		return n.b == o.b
	case NodeSeq:
		if len(n.seq) != len(o.seq) {
			return false
		}
		for i := range n.seq {
			if !n.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	case NodeMap:
		if len(n.keys) != len(o.keys) {
			return false
		}
		for i, k := range n.keys {
			ov, ok := o.Get(k)
			if !ok || !n.vals[i].Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// text renders a scalar node for message substitution.
func (n Node) text() string {
	switch n.kind {
	case NodeNull:
		return "null"
	case NodeString:
		return n.s
	case NodeInt:
		return fmt.Sprintf("%d", n.i)
	case NodeFloat:
		return fmt.Sprintf("%v", n.f)
	case NodeBool:
		return fmt.Sprintf("%t", n.b)
	}
	return n.kind.String()
}
