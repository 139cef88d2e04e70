package compiler

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/arc-language/core-declarer/ast"
	"golang.org/x/exp/slices"
)

// HeaderText renders the builtin list of the unit: one line per builtin
// defined in the DSL, inside an include guard derived from fileName.
func (c *Context) HeaderText(fileName string) string {
	guard := headerGuard(fileName)

	var b strings.Builder
	fmt.Fprintf(&b, "#ifndef %s\n#define %s\n\n", guard, guard)
	b.WriteString("#define BUILTIN_LIST_FROM_DSL(TFJ, TFS) \\\n")
	for _, fn := range c.definedBuiltins() {
		b.WriteString(builtinListEntry(fn))
		b.WriteString(" \\\n")
	}
	fmt.Fprintf(&b, "\n#endif  // %s\n", guard)
	return b.String()
}

// definedBuiltins lists the builtins with a body, ordered by IR name.
func (c *Context) definedBuiltins() []*Callable {
	var fns []*Callable
	for _, fn := range c.callables {
		if fn.CallableKind == ast.Builtin && !fn.External {
			fns = append(fns, fn)
		}
	}
	slices.SortStableFunc(fns, func(a, b *Callable) int {
		return strings.Compare(a.IRName, b.IRName)
	})
	return fns
}

// builtinListEntry describes how fn is called from outside the DSL. Stubs
// take an implicit context as first parameter; JavaScript builtins take the
// function and the receiver first.
func builtinListEntry(fn *Callable) string {
	sig := fn.Signature
	if !fn.JavaScript {
		var params []string
		for i, name := range sig.ParameterNames {
			if i == 0 {
				continue
			}
			params = append(params, "k"+camelify(name))
		}
		return "TFS(" + strings.Join(append([]string{fn.IRName}, params...), ", ") + ")"
	}

	if sig.Varargs {
		return fmt.Sprintf("TFJ(%s, kDontAdaptArgumentsSentinel)", fn.IRName)
	}
	n := len(sig.ParameterNames)
	parts := []string{fn.IRName, fmt.Sprint(n - 2), "kReceiver"}
	for _, name := range sig.ParameterNames[2:] {
		parts = append(parts, "k"+camelify(name))
	}
	return "TFJ(" + strings.Join(parts, ", ") + ")"
}

// camelify turns snake_case into CamelCase.
func camelify(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// headerGuard derives an include guard from a file name, e.g.
// "builtins/list-from-dsl.h" gives BUILTINS_LIST_FROM_DSL_H_.
func headerGuard(fileName string) string {
	name := filepath.ToSlash(filepath.Clean(fileName))
	name = strings.TrimLeft(name, "./")
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteByte('_')
		}
	}
	b.WriteByte('_')
	return b.String()
}

// GenerateHeader writes HeaderText to fileName, leaving the file untouched
// when it already has the same contents.
func (c *Context) GenerateHeader(fileName string) error {
	contents := []byte(c.HeaderText(fileName))

	if old, err := os.ReadFile(fileName); err == nil && bytes.Equal(old, contents) {
		c.Logger.Debug("header %s is up to date", fileName)
		return nil
	}

	if err := os.WriteFile(fileName, contents, 0644); err != nil {
		c.Logger.Error("Failed to write header '%s': %v", fileName, err)
		return fmt.Errorf("failed to write header: %w", err)
	}
	c.Logger.Info("Successfully wrote header to: %s", fileName)
	return nil
}
