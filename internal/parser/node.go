// Package parser turns rule and locale files into positioned trees and scans
// rule trees into definitions and references.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/oxcheck/internal/model"
)

// Kind is the shape of a Node.
type Kind int

const (
	KindScalar Kind = iota
	KindMap
	KindList
)

// Node is a YAML node with aliases resolved and merge keys flattened.
type Node struct {
	Kind  Kind
	Range model.SourceRange

	// Value and Tag are set for scalars. Tag is the resolved short tag
	// ("!!str", "!!int", "!!null", ...).
	Value string
	Tag   string

	// Comment is the inline comment trailing the node, without the "#".
	Comment string

	Pairs []Pair
	Items []*Node
}

// Pair is one key/value entry of a mapping.
type Pair struct {
	Key   *Node
	Value *Node
}

// Get returns the value stored under key in a mapping, or nil.
func (n *Node) Get(key string) *Node {
	if n == nil || n.Kind != KindMap {
		return nil
	}
	for _, p := range n.Pairs {
		if p.Key.Value == key {
			return p.Value
		}
	}
	return nil
}

// Scalar returns the node's value if it is a non-null scalar.
func (n *Node) Scalar() (string, bool) {
	if n == nil || n.Kind != KindScalar || n.IsNull() {
		return "", false
	}
	return n.Value, true
}

// IsNull reports whether the node is an explicit or empty null.
func (n *Node) IsNull() bool {
	return n != nil && n.Kind == KindScalar && n.Tag == "!!null"
}

// IsLiteral reports whether a scalar is a number or boolean rather than text.
func (n *Node) IsLiteral() bool {
	if n == nil || n.Kind != KindScalar {
		return false
	}
	switch n.Tag {
	case "!!int", "!!float", "!!bool":
		return true
	}
	return false
}

// IsContainer reports whether the node is a mapping or a list.
func (n *Node) IsContainer() bool {
	return n != nil && (n.Kind == KindMap || n.Kind == KindList)
}

// Plain converts the node to string scalars, []any and map[string]any.
// Null scalars become nil.
func (n *Node) Plain() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindMap:
		m := make(map[string]any, len(n.Pairs))
		for _, p := range n.Pairs {
			m[p.Key.Value] = p.Value.Plain()
		}
		return m
	case KindList:
		items := make([]any, len(n.Items))
		for i, item := range n.Items {
			items[i] = item.Plain()
		}
		return items
	default:
		if n.IsNull() {
			return nil
		}
		return n.Value
	}
}

// maxAliasDepth bounds alias expansion so self-referencing anchors cannot
// recurse forever.
const maxAliasDepth = 64

// Expansion budget: a document may convert into at most
// max(minNodeBudget, source nodes * maxExpansionRatio) nodes.
const (
	minNodeBudget     = 1_000_000
	maxExpansionRatio = 10
)

// ErrExpansionTooLarge is returned when aliases expand a document past its
// node budget.
var ErrExpansionTooLarge = errors.New("document expands too far through aliases")

type converter struct {
	depth  int
	nodes  int
	budget int
}

func newConverter(doc *yaml.Node) *converter {
	budget := countNodes(doc) * maxExpansionRatio
	if budget < minNodeBudget {
		budget = minNodeBudget
	}
	return &converter{budget: budget}
}

// countNodes counts the nodes written in the source. Aliases count once.
func countNodes(y *yaml.Node) int {
	if y == nil {
		return 0
	}
	n := 1
	if y.Kind == yaml.AliasNode {
		return n
	}
	for _, child := range y.Content {
		n += countNodes(child)
	}
	return n
}

func (c *converter) convert(y *yaml.Node) (*Node, error) {
	c.nodes++
	if c.budget > 0 && c.nodes > c.budget {
		return nil, fmt.Errorf("line %d: %w (more than %d nodes)", y.Line, ErrExpansionTooLarge, c.budget)
	}

	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return emptyMap(y), nil
		}
		return c.convert(y.Content[0])

	case yaml.AliasNode:
		if y.Alias == nil {
			return nil, fmt.Errorf("line %d: unknown alias", y.Line)
		}
		c.depth++
		defer func() { c.depth-- }()
		if c.depth > maxAliasDepth {
			return nil, fmt.Errorf("line %d: alias nesting too deep", y.Line)
		}
		return c.convert(y.Alias)

	case yaml.SequenceNode:
		n := &Node{Kind: KindList, Range: startRange(y), Comment: comment(y)}
		for _, child := range y.Content {
			item, err := c.convert(child)
			if err != nil {
				return nil, err
			}
			n.Items = append(n.Items, item)
		}
		n.Range.End = lastEnd(n.Range, n.Items...)
		return n, nil

	case yaml.MappingNode:
		return c.convertMap(y)

	default:
		n := &Node{
			Kind:    KindScalar,
			Value:   y.Value,
			Tag:     y.ShortTag(),
			Comment: comment(y),
			Range:   startRange(y),
		}
		n.Range.End = model.Position{Line: y.Line, Column: y.Column + scalarWidth(y)}
		return n, nil
	}
}

// convertMap flattens "<<" merge keys. Explicit keys win over merged ones,
// and earlier merge sources win over later ones.
func (c *converter) convertMap(y *yaml.Node) (*Node, error) {
	n := &Node{Kind: KindMap, Range: startRange(y), Comment: comment(y)}
	seen := make(map[string]struct{})
	var merged []Pair

	for i := 0; i+1 < len(y.Content); i += 2 {
		keyNode, valueNode := y.Content[i], y.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == "!!merge" {
			sources, err := c.mergeSources(valueNode)
			if err != nil {
				return nil, err
			}
			for _, src := range sources {
				merged = append(merged, src.Pairs...)
			}
			continue
		}

		key, err := c.convert(keyNode)
		if err != nil {
			return nil, err
		}
		value, err := c.convert(valueNode)
		if err != nil {
			return nil, err
		}
		if key.Comment == "" {
			key.Comment = comment(valueNode)
		}
		seen[key.Value] = struct{}{}
		n.Pairs = append(n.Pairs, Pair{Key: key, Value: value})
	}

	for _, p := range merged {
		if _, ok := seen[p.Key.Value]; ok {
			continue
		}
		seen[p.Key.Value] = struct{}{}
		n.Pairs = append(n.Pairs, p)
	}

	values := make([]*Node, 0, len(n.Pairs))
	for _, p := range n.Pairs {
		values = append(values, p.Value)
	}
	n.Range.End = lastEnd(n.Range, values...)
	return n, nil
}

func (c *converter) mergeSources(y *yaml.Node) ([]*Node, error) {
	var raw []*yaml.Node
	if y.Kind == yaml.SequenceNode {
		raw = y.Content
	} else {
		raw = []*yaml.Node{y}
	}
	sources := make([]*Node, 0, len(raw))
	for _, r := range raw {
		src, err := c.convert(r)
		if err != nil {
			return nil, err
		}
		if src.Kind != KindMap {
			return nil, fmt.Errorf("line %d: merge value is not a mapping", r.Line)
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func emptyMap(y *yaml.Node) *Node {
	line := y.Line
	if line == 0 {
		line = 1
	}
	pos := model.Position{Line: line, Column: 1}
	return &Node{Kind: KindMap, Range: model.SourceRange{Start: pos, End: pos}}
}

func startRange(y *yaml.Node) model.SourceRange {
	pos := model.Position{Line: y.Line, Column: y.Column}
	return model.SourceRange{Start: pos, End: pos}
}

// lastEnd returns the furthest end position among the children.
func lastEnd(r model.SourceRange, children ...*Node) model.Position {
	end := r.End
	for _, child := range children {
		if child == nil {
			continue
		}
		e := child.Range.End
		if e.Line > end.Line || (e.Line == end.Line && e.Column > end.Column) {
			end = e
		}
	}
	return end
}

// scalarWidth approximates the width of a scalar on its first line.
func scalarWidth(y *yaml.Node) int {
	value := y.Value
	if i := strings.IndexByte(value, '\n'); i >= 0 {
		value = value[:i]
	}
	width := len(value)
	if y.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		width += 2
	}
	return width
}

func comment(y *yaml.Node) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(y.LineComment), "#"))
}
