package node

import (
	"fmt"
	"strconv"
)

// MathIndex names a component of a math node.
type MathIndex uint8

// Math component names, in document order.
const (
	Nucleus MathIndex = iota + 1
	Numerator
	Denominator
)

var mathIndexNames = map[MathIndex]string{
	Nucleus:     "nucleus",
	Numerator:   "numerator",
	Denominator: "denominator",
}

// String returns the component name.
func (m MathIndex) String() string {
	if s, ok := mathIndexNames[m]; ok {
		return s
	}
	return fmt.Sprintf("MathIndex(%d)", uint8(m))
}

// ParseMathIndex parses a component name.
func ParseMathIndex(s string) (MathIndex, bool) {
	for k, v := range mathIndexNames {
		if v == s {
			return k, true
		}
	}
	return 0, false
}

// Index addresses a child of a node: a plain child index for containers and
// text offsets, or a named component for math nodes. The zero value is child 0.
type Index struct {
	math  MathIndex
	value int
}

// ChildIndex returns the index of the i-th child.
func ChildIndex(i int) Index {
	return Index{value: i}
}

// ComponentIndex returns the index of a math component.
func ComponentIndex(m MathIndex) Index {
	return Index{math: m}
}

// Child returns the plain child index, if x is one.
func (x Index) Child() (int, bool) {
	if x.math != 0 {
		return 0, false
	}
	return x.value, true
}

// Component returns the math component, if x is one.
func (x Index) Component() (MathIndex, bool) {
	return x.math, x.math != 0
}

// Ordinal maps x to an integer that orders indices within one parent.
func (x Index) Ordinal() int {
	if x.math != 0 {
		return int(x.math)
	}
	return x.value
}

// String returns the decimal child index or the component name.
func (x Index) String() string {
	if x.math != 0 {
		return x.math.String()
	}
	return strconv.Itoa(x.value)
}
