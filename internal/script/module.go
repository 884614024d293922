package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/satzlich/swift-rohan-sub002/internal/engine"
	"github.com/satzlich/swift-rohan-sub002/internal/engine/errs"
	"github.com/satzlich/swift-rohan-sub002/internal/engine/location"
	"github.com/satzlich/swift-rohan-sub002/internal/engine/node"
)

const nodeTypeName = "rohan.node"

// docModule implements the doc global.
type docModule struct {
	state  *State
	engine *engine.Engine
}

// Register installs the doc module bound to e into s.
func Register(s *State, e *engine.Engine) {
	m := &docModule{state: s, engine: e}
	L := s.L

	mt := L.NewTypeMetatable(nodeTypeName)
	L.SetField(mt, "__tostring", L.NewFunction(nodeToString))
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"kind":   nodeKind,
		"length": nodeLength,
	}))

	funcs := map[string]lua.LGFunction{
		// constructors
		"text":      m.text,
		"paragraph": m.container(node.NewParagraph),
		"emphasis":  m.container(node.NewEmphasis),
		"content":   m.container(node.NewContent),
		"text_mode": m.container(node.NewTextMode),
		"heading":   m.heading,
		"linebreak": m.linebreak,
		"fraction":  m.fraction,
		"equation":  m.equation,
		"unknown":   m.unknown,

		// document
		"set_root":        m.setRoot,
		"insert_string":   m.insertString,
		"delete_range":    m.deleteRange,
		"paragraph_break": m.paragraphBreak,
		"repair":          m.repair,
		"validate":        m.validate,
		"normalize":       m.normalize,
		"layout":          m.layout,
		"tree":            m.tree,
		"synopsis":        m.synopsis,
		"render":          m.render,
		"length":          m.length,
		"id":              m.id,
	}
	mod := L.NewTable()
	for name, fn := range funcs {
		L.SetField(mod, name, L.NewFunction(m.charged(fn)))
	}
	L.SetGlobal("doc", mod)
}

func (m *docModule) charged(fn lua.LGFunction) lua.LGFunction {
	return func(L *lua.LState) int {
		m.state.charge(L)
		return fn(L)
	}
}

// ============================================================================
// Nodes
// ============================================================================

func pushNode(L *lua.LState, n node.Node) {
	ud := L.NewUserData()
	ud.Value = n
	L.SetMetatable(ud, L.GetTypeMetatable(nodeTypeName))
	L.Push(ud)
}

func checkNode(L *lua.LState, i int) node.Node {
	ud := L.CheckUserData(i)
	n, ok := ud.Value.(node.Node)
	if !ok {
		L.ArgError(i, "node expected")
	}
	return n
}

func nodeToString(L *lua.LState) int {
	L.Push(lua.LString(node.Synopsis(checkNode(L, 1))))
	return 1
}

func nodeKind(L *lua.LState) int {
	L.Push(lua.LString(checkNode(L, 1).Kind().String()))
	return 1
}

func nodeLength(L *lua.LState) int {
	L.Push(lua.LNumber(checkNode(L, 1).ContentLength()))
	return 1
}

// checkChildren reads a list of strings and nodes. A node that is already
// attached, or listed twice, is copied.
func checkChildren(L *lua.LState, i int) []node.Node {
	tbl := L.CheckTable(i)
	n := tbl.Len()
	out := make([]node.Node, 0, n)
	seen := make(map[node.ID]bool, n)
	for j := 1; j <= n; j++ {
		switch v := tbl.RawGetInt(j).(type) {
		case lua.LString:
			out = append(out, node.NewText(string(v)))
		case *lua.LUserData:
			child, ok := v.Value.(node.Node)
			if !ok {
				L.ArgError(i, "element "+lua.LNumber(j).String()+" is not a node")
			}
			if child.Kind() == node.KindRoot {
				L.ArgError(i, "a root cannot be nested")
			}
			if child.Parent() != nil || seen[child.ID()] {
				child = child.DeepCopy()
			}
			seen[child.ID()] = true
			out = append(out, child)
		default:
			L.ArgError(i, "element "+lua.LNumber(j).String()+" must be a string or node, got "+v.Type().String())
		}
	}
	return out
}

// text(s) -> node
func (m *docModule) text(L *lua.LState) int {
	pushNode(L, node.NewText(L.CheckString(1)))
	return 1
}

// container returns a constructor taking a child list.
func (m *docModule) container(ctor func(...node.Node) *node.Container) lua.LGFunction {
	return func(L *lua.LState) int {
		pushNode(L, ctor(checkChildren(L, 1)...))
		return 1
	}
}

// heading(level, {children}) -> node
func (m *docModule) heading(L *lua.LState) int {
	level := L.CheckInt(1)
	if level < 1 {
		L.ArgError(1, "level must be positive")
	}
	pushNode(L, node.NewHeading(level, checkChildren(L, 2)...))
	return 1
}

// linebreak() -> node
func (m *docModule) linebreak(L *lua.LState) int {
	pushNode(L, node.NewLinebreak())
	return 1
}

// fraction({numerator}, {denominator}, binomial?) -> node
func (m *docModule) fraction(L *lua.LState) int {
	num := checkChildren(L, 1)
	den := checkChildren(L, 2)
	pushNode(L, node.NewFraction(num, den, L.OptBool(3, false)))
	return 1
}

// equation({nucleus}, block?) -> node
func (m *docModule) equation(L *lua.LState) int {
	pushNode(L, node.NewEquation(checkChildren(L, 1), L.OptBool(2, false)))
	return 1
}

// unknown(name) -> node
func (m *docModule) unknown(L *lua.LState) int {
	pushNode(L, node.NewUnknown(L.CheckString(1)))
	return 1
}

// ============================================================================
// Document
// ============================================================================

func checkLocation(L *lua.LState, i int) location.Location {
	loc, err := location.Parse(L.CheckString(i))
	if err != nil {
		L.ArgError(i, err.Error())
	}
	return loc
}

func checkRange(L *lua.LState, i int) location.Range {
	r, err := location.NewRange(checkLocation(L, i), checkLocation(L, i+1))
	if err != nil {
		L.ArgError(i+1, err.Error())
	}
	return r
}

// pushResult pushes (location, moved), or (nil, message) for a rejected
// edit. Other errors are raised.
func pushResult(L *lua.LState, op string, res engine.Result, err error) int {
	if err != nil {
		if errs.IsRejected(err) {
			L.Push(lua.LNil)
			L.Push(lua.LString(err.Error()))
			return 2
		}
		L.RaiseError("%s: %v", op, err)
		return 0
	}
	L.Push(lua.LString(res.Location.String()))
	L.Push(lua.LBool(res.Moved))
	return 2
}

// set_root({children}) -> nil
func (m *docModule) setRoot(L *lua.LState) int {
	if err := m.engine.SetRoot(node.NewRoot(checkChildren(L, 1)...)); err != nil {
		L.RaiseError("set_root: %v", err)
	}
	return 0
}

// insert_string(loc, s) -> loc, moved
func (m *docModule) insertString(L *lua.LState) int {
	loc := checkLocation(L, 1)
	s := L.CheckString(2)
	res, err := m.engine.InsertString(s, loc)
	return pushResult(L, "insert_string", res, err)
}

// delete_range(start, end) -> loc, moved
func (m *docModule) deleteRange(L *lua.LState) int {
	res, err := m.engine.DeleteRange(checkRange(L, 1))
	return pushResult(L, "delete_range", res, err)
}

// paragraph_break(loc) -> loc, moved
func (m *docModule) paragraphBreak(L *lua.LState) int {
	res, err := m.engine.InsertParagraphBreak(checkLocation(L, 1))
	return pushResult(L, "paragraph_break", res, err)
}

// repair(start, end) -> start, end, outcome
func (m *docModule) repair(L *lua.LState) int {
	r, outcome := m.engine.RepairRange(checkRange(L, 1))
	L.Push(lua.LString(r.Start.String()))
	L.Push(lua.LString(r.End.String()))
	L.Push(lua.LString(outcome.String()))
	return 3
}

// validate(start, end) -> bool
func (m *docModule) validate(L *lua.LState) int {
	L.Push(lua.LBool(m.engine.ValidateRange(checkRange(L, 1))))
	return 1
}

// normalize(loc) -> loc
func (m *docModule) normalize(L *lua.LState) int {
	loc, err := m.engine.Normalize(checkLocation(L, 1))
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LString(loc.String()))
	return 1
}

// layout() -> {revision, from_scratch, length, skipped, deleted, invalidated, inserted}
func (m *docModule) layout(L *lua.LState) int {
	rep := m.engine.LastReport()
	tbl := L.NewTable()
	L.SetField(tbl, "revision", lua.LNumber(rep.Revision))
	L.SetField(tbl, "from_scratch", lua.LBool(rep.FromScratch))
	L.SetField(tbl, "length", lua.LNumber(m.engine.LayoutLength()))
	L.SetField(tbl, "skipped", lua.LNumber(rep.Stats.Skipped))
	L.SetField(tbl, "deleted", lua.LNumber(rep.Stats.Deleted))
	L.SetField(tbl, "invalidated", lua.LNumber(rep.Stats.Invalidated))
	L.SetField(tbl, "inserted", lua.LNumber(rep.Stats.Inserted))
	L.Push(tbl)
	return 1
}

func (m *docModule) tree(L *lua.LState) int {
	L.Push(lua.LString(m.engine.Tree()))
	return 1
}

func (m *docModule) synopsis(L *lua.LState) int {
	L.Push(lua.LString(m.engine.Synopsis()))
	return 1
}

func (m *docModule) render(L *lua.LState) int {
	L.Push(lua.LString(m.engine.Render()))
	return 1
}

func (m *docModule) length(L *lua.LState) int {
	L.Push(lua.LNumber(m.engine.ContentLength()))
	return 1
}

func (m *docModule) id(L *lua.LState) int {
	L.Push(lua.LString(m.engine.ID().String()))
	return 1
}
