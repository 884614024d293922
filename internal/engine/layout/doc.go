// Package layout provides consumers for the instructions the node tree
// emits during a layout pass.
//
// Recorder writes each instruction as a line of text and is what the trace
// command prints. Stream keeps the rendered unit sequence itself: one unit
// per grapheme, synthesized newline, linebreak, placeholder or math node,
// with math components rendered into nested streams. Tee fans one pass out
// to two consumers.
//
// All consumers follow the cursor protocol of node.LayoutContext: a pass
// starts with the cursor at the end of the previous rendering and moves it
// towards the front.
package layout
