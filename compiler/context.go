package compiler

import (
	"fmt"

	"github.com/arc-language/core-builder/builder"
	"github.com/arc-language/core-builder/ir"
	"github.com/arc-language/core-builder/types"
	"github.com/arc-language/core-declarer/ast"
	"github.com/arc-language/core-declarer/config"
	"github.com/arc-language/core-declarer/diagnostics"
)

// siteKey identifies a node as seen from one callable. Generic bodies are
// visited once per specialization, so the same node can carry different
// results for each.
type siteKey struct {
	callable *Callable
	node     ast.Node
}

// Context holds the state of one compilation unit. It is not safe for
// concurrent use and must not be reused across units.
type Context struct {
	Builder     *builder.Builder
	IR          *ir.Module
	Diagnostics *diagnostics.DiagnosticEngine
	Logger      *Logger
	Options     *config.Options
	Types       *TypeService

	modules       *ModuleRegistry
	currentModule *Module
	scopes        []*Scope

	currentCallable *Callable
	splits          ControlFlowTracker
	queue           SpecializationQueue

	bindings    map[siteKey]Declaration
	callTargets map[siteKey][]Declaration
	changed     map[siteKey]VariableSet

	callables []*Callable
	irNames   map[string]int
}

// NewContext creates the context of one compilation unit. A nil logger
// logs under the unit's name.
func NewContext(opts *config.Options, logger *Logger) *Context {
	if opts == nil {
		opts = config.Default()
	}
	if logger == nil {
		logger = NewLogger("declarer." + opts.Unit)
	}
	b := builder.New()
	mod := b.CreateModule(opts.Unit)

	ts := NewTypeService()
	ctx := &Context{
		Builder:     b,
		IR:          mod,
		Diagnostics: diagnostics.NewDiagnosticEngine(),
		Logger:      logger,
		Options:     opts,
		Types:       ts,
		modules:     NewModuleRegistry(),
		bindings:    make(map[siteKey]Declaration),
		callTargets: make(map[siteKey][]Declaration),
		changed:     make(map[siteKey]VariableSet),
		irNames:     make(map[string]int),
	}
	ctx.scopes = []*Scope{universeScope(ts)}
	return ctx
}

// ---------------------------------------------------------------------------
// Scope table
// ---------------------------------------------------------------------------

// PushScope creates a new nested block scope
func (c *Context) PushScope() *Scope {
	s := NewScope()
	c.scopes = append(c.scopes, s)
	return s
}

// PopScope returns to the enclosing scope. The universe scope is never
// popped.
func (c *Context) PopScope() {
	if len(c.scopes) > 1 {
		c.scopes = c.scopes[:len(c.scopes)-1]
	}
}

// EnterScope pushes a block scope and returns the matching release, meant to
// be deferred.
func (c *Context) EnterScope() func() {
	depth := len(c.scopes)
	c.PushScope()
	return func() { c.scopes = c.scopes[:depth] }
}

// ScopeDepth is the number of active scopes, the universe included.
func (c *Context) ScopeDepth() int {
	return len(c.scopes)
}

// CurrentScope is the innermost active scope.
func (c *Context) CurrentScope() *Scope {
	return c.scopes[len(c.scopes)-1]
}

// EnterModule activates m: its scope is pushed and it becomes the current
// module until the returned release runs.
func (c *Context) EnterModule(m *Module) func() {
	prevModule := c.currentModule
	depth := len(c.scopes)
	c.scopes = append(c.scopes, m.scope)
	c.currentModule = m
	return func() {
		c.scopes = c.scopes[:depth]
		c.currentModule = prevModule
	}
}

// activate replaces the scope stack with a saved one, e.g. the stack a
// generic was declared in, until the returned release runs.
func (c *Context) activate(scopes []*Scope, module *Module) func() {
	prevScopes, prevModule := c.scopes, c.currentModule
	c.scopes = append([]*Scope(nil), scopes...)
	c.currentModule = module
	return func() {
		c.scopes = prevScopes
		c.currentModule = prevModule
	}
}

// snapshot copies the active scope stack.
func (c *Context) snapshot() []*Scope {
	return append([]*Scope(nil), c.scopes...)
}

// CurrentModule is the module being declared into.
func (c *Context) CurrentModule() *Module {
	return c.currentModule
}

// DefaultModule returns the unit's default module.
func (c *Context) DefaultModule() *Module {
	return c.modules.Default()
}

// Modules lists every module of the unit.
func (c *Context) Modules() []*Module {
	return c.modules.Modules()
}

// Declare binds decl in the innermost scope.
func (c *Context) Declare(decl Declaration) error {
	if err := c.CurrentScope().Define(decl); err != nil {
		return err
	}
	if c.Options.Verbose {
		c.Logger.Debug("declared %s '%s' at %s", decl.Kind(), decl.DeclName(), decl.Position())
	}
	return nil
}

// Lookup scans the scopes innermost to outermost and returns the
// declarations of the first scope binding name.
func (c *Context) Lookup(name string) ([]Declaration, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if decls, ok := c.scopes[i].LookupLocal(name); ok {
			return decls, true
		}
	}
	return nil, false
}

// LookupType resolves a type name.
func (c *Context) LookupType(name string, pos ast.Pos) (*Type, error) {
	decls, ok := c.Lookup(name)
	if !ok {
		return nil, diagnostics.Errorf(diagnostics.TypeResolutionError, pos, "cannot find type '%s'", name)
	}
	td, ok := decls[0].(*TypeDecl)
	if !ok {
		return nil, diagnostics.Errorf(diagnostics.TypeResolutionError, pos,
			"'%s' is a %s, not a type", name, decls[0].Kind())
	}
	return td.Type, nil
}

// LookupLabel resolves a label name.
func (c *Context) LookupLabel(name string, pos ast.Pos) (*Label, error) {
	decls, ok := c.Lookup(name)
	if !ok {
		return nil, diagnostics.Errorf(diagnostics.UnresolvedName, pos, "cannot find label '%s'", name)
	}
	l, ok := decls[0].(*Label)
	if !ok {
		return nil, diagnostics.Errorf(diagnostics.UnresolvedName, pos,
			"'%s' is a %s, not a label", name, decls[0].Kind())
	}
	return l, nil
}

// LiveVariables collects every variable bound in an active scope.
func (c *Context) LiveVariables() VariableSet {
	live := make(VariableSet)
	for _, s := range c.scopes {
		for _, v := range s.Variables() {
			live.Add(v)
		}
	}
	return live
}

// warn records a warning at pos and logs it.
func (c *Context) warn(pos ast.Pos, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	c.Diagnostics.WarningAt(pos.File, pos.Line, pos.Column, message)
	c.Logger.WarningAt(pos.File, pos.Line, pos.Column, "%s", message)
}

// ---------------------------------------------------------------------------
// Callables
// ---------------------------------------------------------------------------

// EnterFunction sets up context for declaring a callable body: a fresh scope
// and the callable as the current one, until the returned release runs.
func (c *Context) EnterFunction(fn *Callable) func() {
	prev := c.currentCallable
	release := c.EnterScope()
	c.currentCallable = fn
	return func() {
		release()
		c.currentCallable = prev
	}
}

// CurrentCallable is the callable whose body is being visited, or nil.
func (c *Context) CurrentCallable() *Callable {
	return c.currentCallable
}

// Callables lists every declared callable, specializations included, in the
// order they were declared.
func (c *Context) Callables() []*Callable {
	return c.callables
}

// addCallable records fn and declares its IR prototype.
func (c *Context) addCallable(fn *Callable) {
	c.callables = append(c.callables, fn)

	sig := fn.Signature
	paramTypes := make([]types.Type, len(sig.ParameterTypes))
	for i, t := range sig.ParameterTypes {
		paramTypes[i] = t.Lowered()
	}
	retType := sig.Return.Lowered()

	name := c.irName(fn)
	fn.IRName = name
	if fn.External {
		fn.Function = c.Builder.DeclareFunction(name, retType, paramTypes, sig.Varargs)
		return
	}
	fn.Function = c.Builder.CreateFunction(name, retType, paramTypes, sig.Varargs)
	for i, paramName := range sig.ParameterNames {
		if paramName != "" {
			fn.Function.Arguments[i].SetName(paramName)
		}
	}
}

// irName makes a unique IR symbol for fn. Specializations are mangled with
// their type arguments; remaining clashes between overloads get a numeric
// suffix.
func (c *Context) irName(fn *Callable) string {
	base := fn.Module.QualifiedName(fn.Name)
	if fn.Specialization != nil {
		base += "_" + fn.Specialization.mangle()
	}
	n := c.irNames[base]
	c.irNames[base] = n + 1
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s_%d", base, n)
}

// ---------------------------------------------------------------------------
// Control splits
// ---------------------------------------------------------------------------

// PushControlSplit opens a split at node, snapshotting the live variables.
func (c *Context) PushControlSplit(node ast.Node) {
	c.splits.Push(node, c.LiveVariables())
}

// PopControlSplit closes the innermost split and records its changed set
// for the split's node.
func (c *Context) PopControlSplit() (VariableSet, error) {
	top := c.splits.Top()
	changed, err := c.splits.Pop()
	if err != nil {
		return nil, err
	}
	c.changed[siteKey{c.currentCallable, top.Node}] = changed
	return changed, nil
}

// MarkVariableModified records a write to v in the innermost split.
func (c *Context) MarkVariableModified(v *Variable) bool {
	return c.splits.MarkVariableModified(v)
}

// SplitDepth is the number of open control splits.
func (c *Context) SplitDepth() int {
	return c.splits.Depth()
}

// ---------------------------------------------------------------------------
// Results for later phases
// ---------------------------------------------------------------------------

func (c *Context) bind(node ast.Node, decl Declaration) {
	c.bindings[siteKey{c.currentCallable, node}] = decl
}

// Binding returns the declaration expr resolved to while visiting the body
// of fn (nil for module level).
func (c *Context) Binding(fn *Callable, expr ast.Expression) (Declaration, bool) {
	d, ok := c.bindings[siteKey{fn, expr}]
	return d, ok
}

// CallTargets returns the candidate callables of call inside fn.
func (c *Context) CallTargets(fn *Callable, call *ast.Call) []Declaration {
	return c.callTargets[siteKey{fn, call}]
}

// ChangedVariables returns the changed set recorded for the split at node
// inside fn.
func (c *Context) ChangedVariables(fn *Callable, node ast.Node) (VariableSet, bool) {
	s, ok := c.changed[siteKey{fn, node}]
	return s, ok
}
