package node

// Linebreak is a forced line break inside a paragraph.
type Linebreak struct {
	nodeBase
}

// NewLinebreak creates a line break.
func NewLinebreak() *Linebreak {
	return &Linebreak{nodeBase: newBase()}
}

func (*Linebreak) Kind() Kind { return KindLinebreak }
func (*Linebreak) ContentLength() int { return 1 }
func (*Linebreak) LayoutLength() int { return 1 }
func (*Linebreak) IsBlock() bool { return false }
func (*Linebreak) IsDirty() bool { return false }
func (*Linebreak) Child(Index) (Node, bool) { return nil, false }
func (*Linebreak) DeepCopy() Node { return NewLinebreak() }
func (l *Linebreak) PerformLayout(ctx LayoutContext, _ bool) { ctx.InsertUnit(l) }

// Unknown is an opaque placeholder for content the document cannot
// represent. It occupies one unit.
type Unknown struct {
	nodeBase
	name string
}

// NewUnknown creates a placeholder carrying a descriptive name.
func NewUnknown(name string) *Unknown {
	return &Unknown{nodeBase: newBase(), name: name}
}

// Name returns the descriptive name.
func (u *Unknown) Name() string { return u.name }

func (*Unknown) Kind() Kind { return KindUnknown }
func (*Unknown) ContentLength() int { return 1 }
func (*Unknown) LayoutLength() int { return 1 }
func (*Unknown) IsBlock() bool { return false }
func (*Unknown) IsDirty() bool { return false }
func (*Unknown) Child(Index) (Node, bool) { return nil, false }
func (u *Unknown) DeepCopy() Node { return NewUnknown(u.name) }
func (u *Unknown) PerformLayout(ctx LayoutContext, _ bool) { ctx.InsertUnit(u) }
