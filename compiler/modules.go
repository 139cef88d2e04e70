package compiler

import (
	"github.com/arc-language/core-declarer/ast"
)

// Module is a named, persistent scope. Reopening a module adds to the same
// scope.
type Module struct {
	Name    string
	Default bool
	Pos     ast.Pos

	scope *Scope
}

// Scope returns the module's own scope.
func (m *Module) Scope() *Scope {
	return m.scope
}

// QualifiedName prefixes name with the module name; names in the default
// module are left alone.
func (m *Module) QualifiedName(name string) string {
	if m == nil || m.Default {
		return name
	}
	return m.Name + "_" + name
}

// ModuleRegistry creates modules on first reference and caches them for the
// rest of the unit.
type ModuleRegistry struct {
	defaultModule *Module
	cache         map[string]*Module
	order         []*Module
}

// NewModuleRegistry creates a registry holding only the default module.
func NewModuleRegistry() *ModuleRegistry {
	def := &Module{Name: "", Default: true}
	def.scope = NewScope()
	return &ModuleRegistry{
		defaultModule: def,
		cache:         make(map[string]*Module),
		order:         []*Module{def},
	}
}

// Default returns the unit's default module.
func (r *ModuleRegistry) Default() *Module {
	return r.defaultModule
}

// GetModule returns the module called name, creating it on first reference.
func (r *ModuleRegistry) GetModule(name string, pos ast.Pos) *Module {
	if m, ok := r.cache[name]; ok {
		return m
	}
	m := &Module{Name: name, Pos: pos}
	m.scope = NewScope()
	r.cache[name] = m
	r.order = append(r.order, m)
	return m
}

// LookupModule returns a module without creating it.
func (r *ModuleRegistry) LookupModule(name string) (*Module, bool) {
	m, ok := r.cache[name]
	return m, ok
}

// Modules lists the default module followed by named modules in creation
// order.
func (r *ModuleRegistry) Modules() []*Module {
	return r.order
}
