package predicate

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var (
	programMu    sync.RWMutex
	programCache = make(map[string]*vm.Program)
)

// Predicate is a compiled boolean expression over one element, bound as v.
type Predicate struct {
	src  string
	prog *vm.Program
}

// Compile compiles src into a Predicate. The expression must evaluate to a
// boolean.
func Compile(src string) (*Predicate, error) {
	prog, err := compile(src)
	if err != nil {
		return nil, fmt.Errorf("compile predicate %q: %w", src, err)
	}
	return &Predicate{src: src, prog: prog}, nil
}

// MustCompile is Compile that panics on error, for static expressions.
func MustCompile(src string) *Predicate {
	p, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return p
}

// Eval evaluates the predicate against v.
func (p *Predicate) Eval(v any) (bool, error) {
	result, err := expr.Run(p.prog, map[string]any{"v": v})
	if err != nil {
		return false, fmt.Errorf("eval predicate %q: %w", p.src, err)
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("predicate %q returned %T, want bool", p.src, result)
	}
	return b, nil
}

// Match evaluates the predicate and treats evaluation errors as no-match.
// Use Eval when errors must be surfaced.
func (p *Predicate) Match(v any) bool {
	b, err := p.Eval(v)
	return err == nil && b
}

// String returns the predicate source.
func (p *Predicate) String() string {
	return p.src
}

func compile(src string) (*vm.Program, error) {
	programMu.RLock()
	if prog, ok := programCache[src]; ok {
		programMu.RUnlock()
		return prog, nil
	}
	programMu.RUnlock()

	prog, err := expr.Compile(src, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, err
	}

	programMu.Lock()
	// Double-check in case another goroutine compiled the same source.
	if existing, ok := programCache[src]; ok {
		programMu.Unlock()
		return existing, nil
	}
	programCache[src] = prog
	programMu.Unlock()

	return prog, nil
}
