package compiler

import (
	"strings"

	"github.com/arc-language/core-declarer/ast"
	"github.com/arc-language/core-declarer/diagnostics"
	"golang.org/x/exp/slices"
)

// SpecializationKey identifies a specialization: a generic and its ordered
// concrete type arguments. Types compare by identity.
type SpecializationKey struct {
	Generic   *Generic
	Arguments []*Type
}

// Equal reports whether both keys name the same generic with the same
// arguments.
func (k SpecializationKey) Equal(o SpecializationKey) bool {
	return k.Generic == o.Generic && slices.Equal(k.Arguments, o.Arguments)
}

func (k SpecializationKey) String() string {
	names := make([]string, len(k.Arguments))
	for i, t := range k.Arguments {
		names[i] = t.String()
	}
	return k.Generic.Name + "<" + strings.Join(names, ", ") + ">"
}

// mangle renders the arguments as an identifier fragment.
func (k SpecializationKey) mangle() string {
	r := strings.NewReplacer("*", "ptr_", "[", "arr", "]", "_")
	names := make([]string, len(k.Arguments))
	for i, t := range k.Arguments {
		names[i] = r.Replace(t.String())
	}
	return strings.Join(names, "_")
}

// specializationRequest is one unit of work of the queue.
type specializationRequest struct {
	key       SpecializationKey
	node      ast.Node
	signature *ast.Signature
	body      ast.Statement
	scopes    []*Scope
	module    *Module
	callable  *Callable
	// popped is set once the request left the queue; its body can no
	// longer be replaced.
	popped bool
}

// SpecializationQueue is the worklist of pending specializations. A key is
// claimed when first requested, so a key is materialized at most once no
// matter how often it is requested.
type SpecializationQueue struct {
	pending []*specializationRequest
	claimed []*specializationRequest
	drained int
}

func (q *SpecializationQueue) lookup(key SpecializationKey) *specializationRequest {
	for _, r := range q.claimed {
		if r.key.Equal(key) {
			return r
		}
	}
	return nil
}

// Pending is the number of requests waiting to be drained.
func (q *SpecializationQueue) Pending() int { return len(q.pending) }

// Drained is the number of requests materialized so far.
func (q *SpecializationQueue) Drained() int { return q.drained }

// Specialization returns the callable claimed for key, if any.
func (c *Context) Specialization(key SpecializationKey) (*Callable, bool) {
	if r := c.queue.lookup(key); r != nil {
		return r.callable, true
	}
	return nil, false
}

// Queue exposes the unit's specialization queue.
func (c *Context) Queue() *SpecializationQueue {
	return &c.queue
}

// Specialize requests the materialization of key with the given signature
// and body; a nil body makes the specialization external. A key that was
// already requested is a no-op returning the callable claimed first, except
// that an explicit specialization replaces the work of a request still
// waiting in the queue.
func (v *DeclarationVisitor) Specialize(key SpecializationKey, node ast.Node, signature *ast.Signature, body ast.Statement) (*Callable, error) {
	g := key.Generic
	if want := len(g.Declaration.TypeParameters); want != len(key.Arguments) {
		return nil, diagnostics.Errorf(diagnostics.InvalidSpecialization, node.Position(),
			"number of type arguments (%d) to instantiation of generic '%s' doesn't match its declaration (%d)",
			len(key.Arguments), g.Name, want)
	}

	explicit, isExplicit := node.(*ast.Specialization)
	if r := v.ctx.queue.lookup(key); r != nil {
		if !isExplicit {
			v.logger.Debug("specialization %s already requested", key)
			return r.callable, nil
		}
		if r.popped {
			v.ctx.warn(explicit.Pos, "explicit specialization %s ignored, it is already materialized", key)
			return r.callable, nil
		}
		if prev, ok := r.node.(*ast.Specialization); ok {
			return nil, diagnostics.Errorf(diagnostics.DuplicateDeclaration, explicit.Pos,
				"specialization %s already declared at %s", key, prev.Pos)
		}
		v.setRequestBody(r, explicit, signature, body)
		v.logger.Debug("explicit specialization %s replaces queued request", key)
		return r.callable, nil
	}

	template := g.Declaration.Callable
	fn := &Callable{
		Name:           g.Name,
		CallableKind:   template.Kind,
		JavaScript:     template.JavaScript,
		Module:         g.Module,
		Specialization: &SpecializationKey{Generic: g, Arguments: key.Arguments},
	}
	req := &specializationRequest{
		key:      key,
		scopes:   g.scopes,
		module:   g.Module,
		callable: fn,
	}
	if isExplicit {
		v.setRequestBody(req, explicit, signature, body)
	} else {
		req.node, req.signature, req.body = node, signature, body
		fn.Node, fn.Body, fn.External = template, body, body == nil
	}

	v.ctx.queue.claimed = append(v.ctx.queue.claimed, req)
	v.ctx.queue.pending = append(v.ctx.queue.pending, req)
	g.specializations = append(g.specializations, fn)
	v.logger.Debug("queued specialization %s", key)
	return fn, nil
}

// setRequestBody makes an explicit specialization the work of r. Explicit
// specializations may name types only visible where they are written, so
// they are materialized in the scopes active here.
func (v *DeclarationVisitor) setRequestBody(r *specializationRequest, explicit *ast.Specialization, signature *ast.Signature, body ast.Statement) {
	r.node, r.signature, r.body = explicit, signature, body
	r.scopes = v.ctx.snapshot()
	r.module = v.ctx.CurrentModule()

	fn := r.callable
	fn.Node, fn.Body, fn.External = explicit, body, body == nil
}

// DrainQueue materializes pending specializations until none are left.
// Specializations requested while draining are processed in the same call.
func (v *DeclarationVisitor) DrainQueue() error {
	q := &v.ctx.queue
	for len(q.pending) > 0 {
		req := q.pending[0]
		q.pending = q.pending[1:]
		req.popped = true
		if err := v.materialize(req); err != nil {
			return err
		}
		q.drained++
	}
	return nil
}

// materialize declares the concrete signature of a request and visits its
// body with the generic's type parameters bound to the type arguments.
func (v *DeclarationVisitor) materialize(req *specializationRequest) error {
	fn := req.callable
	return v.inGenericScope(req.key, req.scopes, req.module, func() error {
		sig, err := v.resolveSignature(req.signature)
		if err != nil {
			return err
		}
		fn.Signature = sig
		v.ctx.addCallable(fn)
		v.logger.Debug("materialized %s%s", fn.DisplayName(), sig)
		if fn.External {
			return nil
		}
		return v.visitCallableBody(fn)
	})
}

// inGenericScope runs fn on the saved scope stack with a fresh scope on top
// binding each type parameter of the key's generic to its argument.
func (v *DeclarationVisitor) inGenericScope(key SpecializationKey, scopes []*Scope, module *Module, fn func() error) error {
	defer v.ctx.activate(scopes, module)()
	defer v.ctx.EnterScope()()

	decl := key.Generic.Declaration
	for i, name := range decl.TypeParameters {
		td := &TypeDecl{Name: name, Type: key.Arguments[i], Pos: decl.Position()}
		if err := v.ctx.Declare(td); err != nil {
			return err
		}
	}
	return fn()
}
