package logctx

import "fmt"

// Evaluator evaluates one textual expression against a binding of parameter
// names to argument values. Any expression micro-language can satisfy this;
// the default implementation lives in the exprlang subpackage.
//
// A nil result with a nil error means "nothing to log": the engine skips the
// key without treating it as a failure.
type Evaluator interface {
	Evaluate(expr string, bindings map[string]any) (any, error)
}

// EvalError wraps an evaluator failure with the expression that caused it.
// Evaluation failures are localized to their declaration and never abort the
// wrapped call.
type EvalError struct {
	Expr string
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluating %q: %v", e.Expr, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}
