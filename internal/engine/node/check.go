package node

import (
	"errors"
	"fmt"
)

// CheckInvariants verifies the bookkeeping of the subtree at n: cached
// lengths equal the sums over children, newline tables match the children,
// parent links point to the owner and no id occurs twice.
func CheckInvariants(n Node) error {
	seen := make(map[ID]Node)
	var errs []error
	var walk func(n Node)
	walk = func(n Node) {
		if prev, ok := seen[n.ID()]; ok {
			errs = append(errs, fmt.Errorf("id %d shared by %s and %s", n.ID(), prev.Kind(), n.Kind()))
		}
		seen[n.ID()] = n

		switch n := n.(type) {
		case *Container:
			errs = append(errs, checkContainer(n)...)
			for _, c := range n.children {
				walk(c)
			}
		case *Math:
			for _, c := range n.components {
				if c.content.Parent() != Node(n) {
					errs = append(errs, fmt.Errorf("%s: component %s has wrong parent", n, c.index))
				}
				walk(c.content)
			}
		case *Text, *Linebreak, *Unknown:
		default:
			errs = append(errs, fmt.Errorf("unhandled node type %T", n))
		}
	}
	walk(n)
	return errors.Join(errs...)
}

func checkContainer(c *Container) []error {
	var errs []error
	if len(c.children) != c.newlines.Len() {
		errs = append(errs, fmt.Errorf("%s: %d children but %d newline entries",
			c, len(c.children), c.newlines.Len()))
		return errs
	}

	var sum Delta
	for i, child := range c.children {
		sum = sum.Add(lengthOf(child))
		if child.Parent() != Node(c) {
			errs = append(errs, fmt.Errorf("%s: child %d has wrong parent", c, i))
		}
		want := i+1 < len(c.children) && (child.IsBlock() || c.children[i+1].IsBlock())
		if c.newlines.At(i) != want {
			errs = append(errs, fmt.Errorf("%s: newline %d = %v, want %v", c, i, c.newlines.At(i), want))
		}
	}
	if sum.Content != c.contentLength {
		errs = append(errs, fmt.Errorf("%s: content length %d, children sum %d", c, c.contentLength, sum.Content))
	}
	if sum.Layout != c.layoutLength {
		errs = append(errs, fmt.Errorf("%s: layout length %d, children sum %d", c, c.layoutLength, sum.Layout))
	}
	return errs
}
