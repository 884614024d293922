package layout

import "github.com/satzlich/swift-rohan-sub002/internal/engine/node"

type tee struct {
	a, b node.LayoutContext
}

// Tee returns a context that forwards every instruction to a and then b.
func Tee(a, b node.LayoutContext) node.LayoutContext {
	return &tee{a: a, b: b}
}

func (t *tee) SkipBackwards(n int) {
	t.a.SkipBackwards(n)
	t.b.SkipBackwards(n)
}

func (t *tee) DeleteBackwards(n int) {
	t.a.DeleteBackwards(n)
	t.b.DeleteBackwards(n)
}

func (t *tee) InvalidateBackwards(n int) {
	t.a.InvalidateBackwards(n)
	t.b.InvalidateBackwards(n)
}

func (t *tee) InsertNewline(c *node.Container) {
	t.a.InsertNewline(c)
	t.b.InsertNewline(c)
}

func (t *tee) InsertText(x *node.Text) {
	t.a.InsertText(x)
	t.b.InsertText(x)
}

func (t *tee) InsertUnit(n node.Node) {
	t.a.InsertUnit(n)
	t.b.InsertUnit(n)
}

func (t *tee) InsertMath(m *node.Math) {
	t.a.InsertMath(m)
	t.b.InsertMath(m)
}

func (t *tee) ComponentContext(m *node.Math, idx node.MathIndex, fromScratch bool) node.LayoutContext {
	return &tee{
		a: t.a.ComponentContext(m, idx, fromScratch),
		b: t.b.ComponentContext(m, idx, fromScratch),
	}
}
