package config

import (
	"fmt"
	"sort"
	"strings"

	"planner/pkg/selector"
)

// Composite kinds understood by Build. Every other kind is a leaf looked up
// in the Registry.
const (
	KindUnion            = "union"
	KindCartesianProduct = "cartesian_product"
)

// LeafFactory creates a leaf selector from its definition.
type LeafFactory func(def SelectorDef) (selector.MoveSelector, error)

// Registry maps leaf kinds to factories.
type Registry map[string]LeafFactory

// Kinds returns the registered leaf kinds, sorted.
func (r Registry) Kinds() []string {
	out := make([]string, 0, len(r))
	for k := range r {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Build turns a definition tree into a selector tree. Composites are built
// bottom-up so every child exists before its parent registers it.
func Build(def SelectorDef, reg Registry) (selector.MoveSelector, error) {
	return build(def, reg, "selector")
}

func build(def SelectorDef, reg Registry, path string) (selector.MoveSelector, error) {
	switch def.Kind {
	case KindUnion, KindCartesianProduct:
		if len(def.Children) == 0 {
			return nil, fmt.Errorf("%s (%s): %w", path, def.Kind, ErrMissingChildren)
		}
		children := make([]selector.MoveSelector, len(def.Children))
		for i, c := range def.Children {
			child, err := build(c, reg, fmt.Sprintf("%s.children[%d]", path, i))
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		opt := selector.WithRandomSelection(def.Random)
		if def.Kind == KindUnion {
			u, err := selector.NewUnionMoveSelector(children, opt)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			return u, nil
		}
		p, err := selector.NewCartesianProductMoveSelector(children, opt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return p, nil
	}

	factory, ok := reg[def.Kind]
	if !ok {
		return nil, fmt.Errorf("%s: %w %q (leaves: %s)", path, ErrUnknownKind, def.Kind, strings.Join(reg.Kinds(), ", "))
	}
	if len(def.Children) > 0 {
		return nil, fmt.Errorf("%s (%s): %w", path, def.Kind, ErrUnexpectedChildren)
	}
	leaf, err := factory(def)
	if err != nil {
		return nil, fmt.Errorf("%s (%s): %w", path, def.Kind, err)
	}
	return leaf, nil
}

// Outline renders the definition tree, one node per line, children indented.
func (def SelectorDef) Outline() string {
	var b strings.Builder
	def.outline(&b, 0)
	return b.String()
}

func (def SelectorDef) outline(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(def.Kind)
	if def.Random {
		b.WriteString(" (random)")
	}
	b.WriteByte('\n')
	for _, c := range def.Children {
		c.outline(b, depth+1)
	}
}
