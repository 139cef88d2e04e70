package compiler

import (
	"github.com/arc-language/core-declarer/ast"
	"github.com/arc-language/core-declarer/diagnostics"
)

// LiveAndChanged is the frame of one open control split: the variables live
// at its entry and those written on any of its branches so far.
type LiveAndChanged struct {
	Node    ast.Node
	Live    VariableSet
	Changed VariableSet
}

// ControlFlowTracker is the stack of open control splits. Its height equals
// the number of splits the visitor is currently inside.
//
// The analysis is flow-insensitive within a split: a write on any branch
// counts for the whole split, whatever early exits the branch contains.
type ControlFlowTracker struct {
	frames []*LiveAndChanged
}

// Push opens a split at node with the given live set.
func (t *ControlFlowTracker) Push(node ast.Node, live VariableSet) {
	t.frames = append(t.frames, &LiveAndChanged{
		Node:    node,
		Live:    live,
		Changed: make(VariableSet),
	})
}

// Pop closes the innermost split and returns its changed set. The set is
// folded into the enclosing split's changed set, so writes accumulate
// outwards.
func (t *ControlFlowTracker) Pop() (VariableSet, error) {
	if len(t.frames) == 0 {
		return nil, diagnostics.Errorf(diagnostics.MalformedControlFlow, ast.Pos{},
			"control split popped with none active")
	}
	top := t.frames[len(t.frames)-1]
	t.frames = t.frames[:len(t.frames)-1]
	if len(t.frames) > 0 {
		t.frames[len(t.frames)-1].Changed.AddAll(top.Changed)
	}
	return top.Changed, nil
}

// MarkVariableModified records a write to v in the innermost split, if v was
// live at that split's entry. Variables declared inside the split are not
// recorded. It reports whether the write was recorded.
func (t *ControlFlowTracker) MarkVariableModified(v *Variable) bool {
	if len(t.frames) == 0 {
		return false
	}
	top := t.frames[len(t.frames)-1]
	if !top.Live.Contains(v) {
		return false
	}
	top.Changed.Add(v)
	return true
}

// Depth is the number of open splits.
func (t *ControlFlowTracker) Depth() int {
	return len(t.frames)
}

// Top returns the innermost open split, or nil.
func (t *ControlFlowTracker) Top() *LiveAndChanged {
	if len(t.frames) == 0 {
		return nil
	}
	return t.frames[len(t.frames)-1]
}
