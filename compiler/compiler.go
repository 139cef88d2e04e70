package compiler

import (
	"errors"
	"fmt"

	"github.com/arc-language/core-builder/ir"
	"github.com/arc-language/core-declarer/ast"
	"github.com/arc-language/core-declarer/config"
	"github.com/arc-language/core-declarer/diagnostics"
)

// Compiler runs the declaration pass over compilation units
type Compiler struct {
	options *config.Options
	context *Context
	logger  *Logger
}

// NewCompiler creates a new compiler instance. Nil options mean defaults.
func NewCompiler(opts *config.Options) *Compiler {
	if opts == nil {
		opts = config.Default()
	}
	ConfigureLogging(ParseLogLevel(opts.LogLevel))

	logger := NewLogger(fmt.Sprintf("declarer.%s", opts.Unit))
	logger.Info("Creating compiler for unit '%s'", opts.Unit)

	return &Compiler{
		options: opts,
		logger:  logger,
	}
}

// Declare runs the declaration pass over unit in a fresh context. The
// context is returned even on failure so diagnostics can be inspected, but
// its declarations must not be used then.
func (c *Compiler) Declare(unit *ast.Unit) (*Context, error) {
	opts := *c.options
	if unit.Name != "" {
		opts.Unit = unit.Name
	}
	c.logger.Reset()
	c.logger.Debug("Declaring unit '%s'", opts.Unit)

	c.context = NewContext(&opts, c.logger)
	visitor := NewDeclarationVisitor(c.context)

	if err := visitor.Visit(unit); err != nil {
		var derr *diagnostics.Error
		if errors.As(err, &derr) {
			c.context.Diagnostics.Report(derr)
			c.logger.ErrorAt(derr.Pos.File, derr.Pos.Line, derr.Pos.Column, "%s", derr.Message)
		} else {
			c.logger.Error("%v", err)
		}
		c.logger.PrintSummary()
		return c.context, fmt.Errorf("declaration of unit '%s' failed: %w", opts.Unit, err)
	}

	c.logger.Info("Declared unit '%s': %d callable(s), %d specialization(s), %d warning(s)",
		opts.Unit, len(c.context.Callables()), c.context.Queue().Drained(), c.context.Diagnostics.WarningCount())
	c.logger.PrintSummary()
	return c.context, nil
}

// GenerateHeader writes the builtin list of the last declared unit. An empty
// fileName means the header path from the options.
func (c *Compiler) GenerateHeader(fileName string) error {
	if c.context == nil {
		return fmt.Errorf("no unit declared")
	}
	if d := c.context.Diagnostics; d.HasErrors() {
		return fmt.Errorf("unit '%s' has %d error(s), not writing header", c.context.Options.Unit, d.ErrorCount())
	}
	if fileName == "" {
		fileName = c.options.Header
	}
	if fileName == "" {
		return fmt.Errorf("no header file configured")
	}
	return c.context.GenerateHeader(fileName)
}

// GetModule returns the IR module of the last declared unit
func (c *Compiler) GetModule() *ir.Module {
	if c.context == nil {
		return nil
	}
	return c.context.IR
}

// GetContext returns the context of the last declared unit
func (c *Compiler) GetContext() *Context {
	return c.context
}
