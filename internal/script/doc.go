// Package script runs Lua programs that build and edit a document.
//
// A State is a gopher-lua interpreter with only the base, table, string and
// math libraries opened. Register installs the global doc module bound to
// one engine.Engine:
//
//	doc.set_root{
//		doc.heading(1, {"Title"}),
//		doc.paragraph{"x = ", doc.fraction({"1"}, {"2"})},
//	}
//	local loc = doc.insert_string("[1,0]:4", "y")
//	print(doc.render())
//
// Locations cross the boundary as strings in the form "[0,1]:3", where a
// path element is either a child index or a math component name
// (nucleus, numerator, denominator).
//
// Edits that the document refuses (for example a paragraph break inside a
// heading) return nil and a message. Malformed arguments and internal
// failures raise Lua errors.
//
// Execution is bounded by a timeout and by a budget of doc calls; both
// cancel the context the interpreter runs under.
package script
