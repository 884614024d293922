package node

import (
	"strconv"
	"strings"
)

type printEntry struct {
	label string
	node  Node
}

func printLabel(n Node) string {
	switch n := n.(type) {
	case *Text:
		return `text "` + n.s + `"`
	case *Unknown:
		if n.name != "" {
			return "unknown " + strconv.Quote(n.name)
		}
		return "unknown"
	default:
		return n.Kind().String()
	}
}

func printChildren(n Node) []printEntry {
	switch n := n.(type) {
	case *Container:
		out := make([]printEntry, len(n.children))
		for i, c := range n.children {
			out[i] = printEntry{printLabel(c), c}
		}
		return out
	case *Math:
		out := make([]printEntry, len(n.components))
		for i, c := range n.components {
			out[i] = printEntry{c.index.String(), c.content}
		}
		return out
	default:
		return nil
	}
}

// PrettyPrint renders the subtree at n as an indented tree:
//
//	root
//	 └ paragraph
//	    ├ text "he"
//	    └ linebreak
func PrettyPrint(n Node) string {
	var lines []string
	var walk func(label string, n Node, prefix string)
	walk = func(label string, n Node, prefix string) {
		lines = append(lines, label)
		kids := printChildren(n)
		for i, k := range kids {
			last := i == len(kids)-1
			branch, indent := " ├ ", " │ "
			if last {
				branch, indent = " └ ", "   "
			}
			before := len(lines)
			walk(k.label, k.node, prefix+indent)
			lines[before] = prefix + branch + lines[before]
		}
	}
	walk(printLabel(n), n, "")
	return strings.Join(lines, "\n")
}

// Synopsis renders the subtree at n on one line, for example
// paragraph["he", fraction[numerator["a"], denominator["b"]]].
func Synopsis(n Node) string {
	var sb strings.Builder
	writeSynopsis(&sb, n)
	return sb.String()
}

func writeSynopsis(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Text:
		sb.WriteString(strconv.Quote(n.s))
		return
	case *Container, *Math:
		sb.WriteString(n.Kind().String())
	default:
		sb.WriteString(printLabel(n))
		return
	}
	sb.WriteByte('[')
	for i, k := range printChildren(n) {
		if i > 0 {
			sb.WriteString(", ")
		}
		if _, ok := n.(*Math); ok {
			sb.WriteString(k.label)
			writeChildren(sb, k.node)
		} else {
			writeSynopsis(sb, k.node)
		}
	}
	sb.WriteByte(']')
}

func writeChildren(sb *strings.Builder, n Node) {
	sb.WriteByte('[')
	for i, k := range printChildren(n) {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeSynopsis(sb, k.node)
	}
	sb.WriteByte(']')
}
