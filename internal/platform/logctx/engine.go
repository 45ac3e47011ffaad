package logctx

import (
	"context"
	"fmt"
	"log/slog"
)

// CallSite describes one concrete invocation of a declared method: its name
// (diagnostics only), formal parameter names positionally paired with the
// actual arguments, and the declaration sets in effect at the method and
// type level. Nil MethodExprs means the method is undeclared.
type CallSite struct {
	Method      string
	Params      []string
	Args        []any
	MethodExprs []string
	TypeExprs   []string
}

// Engine evaluates declarations around wrapped calls and guarantees that
// every key it writes is removed again, whatever the outcome of the call.
type Engine struct {
	eval   Evaluator
	logger *slog.Logger
}

// NewEngine creates an Engine using the given evaluator. A nil logger falls
// back to slog.Default; machinery diagnostics (invalid declarations,
// evaluation failures, duplicates) are logged there at warn/debug level and
// never surface to callers.
func NewEngine(eval Evaluator, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{eval: eval, logger: logger}
}

// Around runs fn with the call site's declared context written to the Store
// carried by ctx. The sequence is:
//
//  1. Resolve the effective declaration set. Empty: invoke fn directly, no
//     store interaction at all.
//  2. Bind parameter names to arguments. A name/argument count mismatch is
//     recoverable: log and invoke fn directly.
//  3. Evaluate each declaration in order. Failures and nil results skip the
//     key; the first successful write of a key wins and later duplicates
//     are ignored. Every written key is recorded in a ledger.
//  4. Invoke fn. Its error (or panic) is the caller's outcome, unchanged.
//  5. Remove exactly the ledger keys, unconditionally — on normal return,
//     error, panic and context cancellation alike.
//
// The one injection failure that does abort the call is the Store itself
// rejecting a write: fn is never entered, the store error is returned, and
// keys already written in this pass are still removed.
//
// If ctx carries no Store, a fresh one is installed for the duration of the
// call so standalone use still works; HTTP requests get theirs from the
// seeding middleware.
func (e *Engine) Around(ctx context.Context, site CallSite, fn func(context.Context) error) error {
	exprs := Resolve(site.MethodExprs, site.TypeExprs)
	if len(exprs) == 0 {
		return fn(ctx)
	}

	store := FromContext(ctx)
	if store == nil {
		store = NewMapStore()
		ctx = WithStore(ctx, store)
	}

	if len(site.Params) != len(site.Args) {
		e.logger.Warn("parameter names unavailable for declared method, skipping context injection",
			slog.String("method", site.Method),
			slog.Int("params", len(site.Params)),
			slog.Int("args", len(site.Args)),
		)
		return fn(ctx)
	}

	bindings := make(map[string]any, len(site.Params))
	for i, name := range site.Params {
		bindings[name] = site.Args[i]
	}

	// Added-keys ledger. Owned by this invocation alone; the deferred sweep
	// is what makes cleanup symmetric under every exit path, including
	// panics out of fn and store-write failures below.
	added := make([]string, 0, len(exprs))
	defer func() {
		for _, key := range added {
			store.Remove(key)
		}
	}()

	seen := make(map[string]struct{}, len(exprs))
	for _, raw := range exprs {
		decl, ok := ParseDeclaration(raw)
		if !ok {
			e.logger.Warn("invalid declaration, expected key=expression",
				slog.String("method", site.Method),
				slog.String("declaration", raw),
			)
			continue
		}

		value, err := e.eval.Evaluate(decl.Expr, bindings)
		if err != nil {
			e.logger.Warn("failed to evaluate context expression",
				slog.String("method", site.Method),
				slog.String("key", decl.Key),
				slog.String("expression", decl.Expr),
				slog.Any("error", err),
			)
			continue
		}
		if value == nil {
			e.logger.Debug("skipped nil value for context key",
				slog.String("key", decl.Key),
			)
			continue
		}
		if _, dup := seen[decl.Key]; dup {
			e.logger.Warn("duplicate context key, keeping first occurrence",
				slog.String("method", site.Method),
				slog.String("key", decl.Key),
			)
			continue
		}

		if err := store.Set(decl.Key, stringOf(value)); err != nil {
			return fmt.Errorf("setting context key %q: %w", decl.Key, err)
		}
		seen[decl.Key] = struct{}{}
		added = append(added, decl.Key)
	}

	return fn(ctx)
}

// Invoke is the registry-backed form of Around: it looks up the method's
// metadata on typ and builds the CallSite. A method absent from the registry
// is treated as undeclared — the type-level set still applies, but without
// parameter names the engine falls back to a direct call whenever arguments
// are present.
func (e *Engine) Invoke(ctx context.Context, typ *Type, method string, args []any, fn func(context.Context) error) error {
	site := CallSite{
		Method:    method,
		Args:      args,
		TypeExprs: typ.Expressions,
	}
	if typ.Name != "" {
		site.Method = typ.Name + "." + method
	}
	if m, ok := typ.Methods[method]; ok {
		site.Params = m.Params
		site.MethodExprs = m.Expressions
	}
	return e.Around(ctx, site, fn)
}

// stringOf converts an evaluated value to its context-store representation.
func stringOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
