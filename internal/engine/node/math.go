package node

import "fmt"

// component is a named content container of a math node.
type component struct {
	index   MathIndex
	content *Container
}

// Math is a fixed-arity math construct whose components are Content
// containers. It is opaque: its layout length is always 1 and changes inside
// components reach ancestors as content-length changes only.
type Math struct {
	nodeBase
	kind       Kind
	components []component
	binomial   bool
	block      bool
}

// NewFraction creates a fraction. A binomial renders without the bar.
func NewFraction(numerator, denominator []Node, binomial bool) *Math {
	return newMath(KindFraction, []component{
		{Numerator, NewContent(numerator...)},
		{Denominator, NewContent(denominator...)},
	}, binomial, false)
}

// NewEquation creates an equation; block equations are displayed on their
// own line.
func NewEquation(nucleus []Node, block bool) *Math {
	return newMath(KindEquation, []component{
		{Nucleus, NewContent(nucleus...)},
	}, false, block)
}

func newMath(kind Kind, components []component, binomial, block bool) *Math {
	m := &Math{
		nodeBase:   newBase(),
		kind:       kind,
		components: components,
		binomial:   binomial,
		block:      block,
	}
	for _, c := range components {
		c.content.setParent(m)
	}
	return m
}

// Kind returns KindFraction or KindEquation.
func (m *Math) Kind() Kind { return m.kind }

// IsBinomial reports whether a fraction is a binomial.
func (m *Math) IsBinomial() bool { return m.binomial }

// Components returns the component names in order.
func (m *Math) Components() []MathIndex {
	out := make([]MathIndex, len(m.components))
	for i, c := range m.components {
		out[i] = c.index
	}
	return out
}

// Component returns the container of a named component.
func (m *Math) Component(idx MathIndex) (*Container, bool) {
	for _, c := range m.components {
		if c.index == idx {
			return c.content, true
		}
	}
	return nil, false
}

// ContentLength returns the sum over the components.
func (m *Math) ContentLength() int {
	n := 0
	for _, c := range m.components {
		n += c.content.ContentLength()
	}
	return n
}

// LayoutLength returns 1.
func (m *Math) LayoutLength() int { return 1 }

// IsBlock reports whether the node is a block equation.
func (m *Math) IsBlock() bool { return m.kind == KindEquation && m.block }

// IsDirty reports whether any component is dirty.
func (m *Math) IsDirty() bool {
	for _, c := range m.components {
		if c.content.IsDirty() {
			return true
		}
	}
	return false
}

// Child returns the component named by x.
func (m *Math) Child(x Index) (Node, bool) {
	idx, ok := x.Component()
	if !ok {
		return nil, false
	}
	c, ok := m.Component(idx)
	if !ok {
		return nil, false
	}
	return c, true
}

// DeepCopy returns a copy with fresh ids throughout.
func (m *Math) DeepCopy() Node {
	components := make([]component, len(m.components))
	for i, c := range m.components {
		components[i] = component{c.index, c.content.DeepCopy().(*Container)}
	}
	return newMath(m.kind, components, m.binomial, m.block)
}

func (m *Math) contentChanged(delta Delta, inStorage bool) {
	m.propagate(Delta{Content: delta.Content}, inStorage)
}

// PerformLayout lays out components into nested contexts. From scratch the
// node is inserted as one unit; otherwise only dirty components are laid
// out and the unit is invalidated in place.
func (m *Math) PerformLayout(ctx LayoutContext, fromScratch bool) {
	for _, c := range m.components {
		if !fromScratch && !c.content.IsDirty() {
			continue
		}
		sub := ctx.ComponentContext(m, c.index, fromScratch)
		c.content.PerformLayout(sub, fromScratch)
	}
	if fromScratch {
		ctx.InsertMath(m)
	} else {
		ctx.InvalidateBackwards(m.LayoutLength())
	}
}

func (m *Math) String() string {
	return fmt.Sprintf("%s#%d", m.kind, m.id)
}
