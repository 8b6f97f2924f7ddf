// Package yaml implements the YAML wire format over gopkg.in/yaml.v3.
// Both directions work on the yaml.Node AST so mapping key order survives
// and scalar typing stays under our control: strings that look like other
// scalars get quoted on output instead of changing type on the next read.
package yaml

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	gorec "github.com/reoring/gorec"
)

// Format is the YAML driver. The zero value is ready to use and safe to
// share.
type Format struct{}

// Name implements gorec.Format.
func (Format) Name() string { return "yaml" }

// Marshal implements gorec.Format.
func (Format) Marshal(n gorec.Node) ([]byte, error) {
	yn, err := toYAML(n)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(yn)
}

func toYAML(n gorec.Node) (*yaml.Node, error) {
	switch n.Kind() {
	case gorec.NodeNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case gorec.NodeString:
		s, _ := n.String()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}, nil
	case gorec.NodeInt:
		i, _ := n.Int()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(i, 10)}, nil
	case gorec.NodeFloat:
		f, _ := n.Float()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(f)}, nil
	case gorec.NodeBool:
		b, _ := n.Bool()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}, nil
	case gorec.NodeSeq:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i := 0; i < n.Len(); i++ {
			item, err := toYAML(n.Index(i))
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, item)
		}
		return out, nil
	case gorec.NodeMap:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for i := 0; i < n.Len(); i++ {
			key, val := n.Entry(i)
			vn, err := toYAML(val)
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, vn)
		}
		return out, nil
	}
	return nil, fmt.Errorf("yaml: cannot marshal %s node", n.Kind())
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// Keep the scalar resolvable as a float on the way back in.
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Unmarshal implements gorec.Format.
func (Format) Unmarshal(data []byte) (gorec.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return gorec.Node{}, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return gorec.Node{}, fmt.Errorf("yaml: empty document")
	}
	return fromYAML(doc.Content[0])
}

func fromYAML(yn *yaml.Node) (gorec.Node, error) {
	switch yn.Kind {
	case yaml.AliasNode:
		return fromYAML(yn.Alias)
	case yaml.ScalarNode:
		return scalarNode(yn)
	case yaml.SequenceNode:
		out := gorec.SeqNode()
		for _, item := range yn.Content {
			n, err := fromYAML(item)
			if err != nil {
				return gorec.Node{}, err
			}
			out.Append(n)
		}
		return out, nil
	case yaml.MappingNode:
		out := gorec.MapNode()
		for i := 0; i+1 < len(yn.Content); i += 2 {
			kn, vn := yn.Content[i], yn.Content[i+1]
			if kn.Kind != yaml.ScalarNode {
				return gorec.Node{}, fmt.Errorf("yaml: line %d: mapping key is not a scalar", kn.Line)
			}
			if out.Has(kn.Value) {
				return gorec.Node{}, fmt.Errorf("yaml: line %d: duplicate mapping key %q", kn.Line, kn.Value)
			}
			v, err := fromYAML(vn)
			if err != nil {
				return gorec.Node{}, err
			}
			out.Set(kn.Value, v)
		}
		return out, nil
	}
	return gorec.Node{}, fmt.Errorf("yaml: line %d: unsupported node kind", yn.Line)
}

func scalarNode(yn *yaml.Node) (gorec.Node, error) {
	switch yn.Tag {
	case "!!null":
		return gorec.NullNode(), nil
	case "!!bool":
		b, err := strconv.ParseBool(yn.Value)
		if err != nil {
			return gorec.Node{}, fmt.Errorf("yaml: line %d: bad bool %q", yn.Line, yn.Value)
		}
		return gorec.BoolNode(b), nil
	case "!!int":
		i, err := parseYAMLInt(yn.Value)
		if err != nil {
			return gorec.Node{}, fmt.Errorf("yaml: line %d: bad int %q", yn.Line, yn.Value)
		}
		return gorec.IntNode(i), nil
	case "!!float":
		f, err := parseYAMLFloat(yn.Value)
		if err != nil {
			return gorec.Node{}, fmt.Errorf("yaml: line %d: bad float %q", yn.Line, yn.Value)
		}
		return gorec.FloatNode(f), nil
	default:
		// !!str, !!timestamp and anything custom stay strings; the field
		// contract decides what to make of them.
		return gorec.StringNode(yn.Value), nil
	}
}

func parseYAMLInt(s string) (int64, error) {
	s = strings.ReplaceAll(s, "_", "")
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") ||
		strings.HasPrefix(s, "0o") || strings.HasPrefix(s, "0O") {
		return strconv.ParseInt(s, 0, 64)
	}
	return strconv.ParseInt(s, 10, 64)
}

func parseYAMLFloat(s string) (float64, error) {
	switch strings.ToLower(strings.TrimPrefix(s, "+")) {
	case ".inf":
		return math.Inf(1), nil
	case "-.inf":
		return math.Inf(-1), nil
	case ".nan":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
}
