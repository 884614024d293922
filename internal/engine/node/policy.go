package node

// IsBlockKind reports whether containers of kind k are laid out as blocks.
func IsBlockKind(k Kind) bool {
	switch k {
	case KindHeading, KindParagraph:
		return true
	default:
		return false
	}
}

// IsTransparent reports whether n can be walked through when looking for
// the enclosing paragraph.
func IsTransparent(n Node) bool {
	switch n.Kind() {
	case KindParagraph, KindText:
		return true
	default:
		return false
	}
}

// IsPivotal reports whether tracing by layout position stops at n.
func IsPivotal(n Node) bool {
	switch n.Kind() {
	case KindFraction, KindEquation:
		return true
	default:
		return false
	}
}

// IsOpaque reports whether n hides its internal structure from ancestors'
// layout accounting and from selection ranges.
func IsOpaque(n Node) bool {
	switch n.(type) {
	case *Math, *Unknown:
		return true
	case *Container, *Text, *Linebreak:
		return false
	default:
		panic("node: unhandled node type")
	}
}

// IsParagraphLike reports whether n accepts everything a paragraph does.
func IsParagraphLike(n Node) bool {
	return n.Kind() == KindParagraph
}

// IsParagraphContainer reports whether n can hold paragraphs directly.
func IsParagraphContainer(n Node) bool {
	return n.Kind() == KindRoot
}

// IsVoidable reports whether container c may be left without children.
func IsVoidable(_ *Container) bool {
	return true
}

// IsMergeable reports whether two sibling containers can be merged by
// splicing the children of rhs into lhs.
func IsMergeable(lhs, rhs Node) bool {
	return IsParagraphLike(lhs) && IsParagraphLike(rhs)
}
