// Package exprlang provides the default logctx.Evaluator, backed by the
// expr expression language (github.com/expr-lang/expr).
//
// Declarations reference parameters by bare name and reach into them with
// dotted paths over exported fields or map keys:
//
//	"orderId=id"
//	"customerName=customer.Name"
//	"action=\"checkout\""
//
// Compiled programs are cached in an LRU so repeated invocations of the same
// declared method do not re-parse their expressions.
package exprlang

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tekbug/log-manager/internal/platform/logctx"
)

// DefaultCacheSize bounds the compiled-program cache. Declaration sets are
// static per call site, so this is generous for most services.
const DefaultCacheSize = 256

// Evaluator compiles and runs expr programs against argument bindings.
// Safe for concurrent use; the program cache is internally synchronized.
type Evaluator struct {
	programs *lru.Cache[string, *vm.Program]
}

var _ logctx.Evaluator = (*Evaluator)(nil)

// New creates an Evaluator with the default program-cache size.
func New() (*Evaluator, error) {
	return NewWithCacheSize(DefaultCacheSize)
}

// NewWithCacheSize creates an Evaluator whose program cache holds up to size
// compiled expressions.
func NewWithCacheSize(size int) (*Evaluator, error) {
	cache, err := lru.New[string, *vm.Program](size)
	if err != nil {
		return nil, fmt.Errorf("creating program cache: %w", err)
	}
	return &Evaluator{programs: cache}, nil
}

// Evaluate compiles code (or reuses a cached program) and runs it with the
// bindings as environment. Unknown references and runtime errors come back
// as *logctx.EvalError; a nil result simply means there is nothing to log.
func (e *Evaluator) Evaluate(code string, bindings map[string]any) (any, error) {
	program, ok := e.programs.Get(code)
	if !ok {
		var err error
		program, err = expr.Compile(code)
		if err != nil {
			return nil, &logctx.EvalError{Expr: code, Err: err}
		}
		e.programs.Add(code, program)
	}

	out, err := vm.Run(program, bindings)
	if err != nil {
		return nil, &logctx.EvalError{Expr: code, Err: err}
	}
	return out, nil
}
