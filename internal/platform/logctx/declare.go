package logctx

import "strings"

// Declaration is one key=expression pair attached to a method or type.
type Declaration struct {
	Key  string
	Expr string
}

// ParseDeclaration splits a raw "<key>=<expression>" string on the FIRST '='
// only, so expression text may itself contain '=' (string literals,
// comparisons). Both sides are trimmed. Returns false when no '=' is present.
func ParseDeclaration(raw string) (Declaration, bool) {
	idx := strings.Index(raw, "=")
	if idx == -1 {
		return Declaration{}, false
	}
	return Declaration{
		Key:  strings.TrimSpace(raw[:idx]),
		Expr: strings.TrimSpace(raw[idx+1:]),
	}, true
}

// Method carries the explicit metadata the engine needs for one method:
// formal parameter names (positionally paired with the call's arguments) and
// the method-level declaration set. A nil Expressions slice means the method
// carries no declaration set of its own; an empty non-nil slice means it
// carries an explicitly empty one.
type Method struct {
	Params      []string
	Expressions []string
}

// Type groups per-method metadata with an optional type-level declaration
// set that applies to methods without one of their own.
type Type struct {
	Name        string
	Expressions []string
	Methods     map[string]Method
}

// Resolve returns the effective declaration set for one call: the
// method-level set when the method carries one (nil means it does not),
// otherwise the type-level set. A method-level set fully replaces the
// type-level set rather than merging with it — including the explicitly
// empty set, which suppresses type-level context for that method. Resolution
// is a pure function of its inputs.
func Resolve(methodExprs, typeExprs []string) []string {
	if methodExprs != nil {
		return methodExprs
	}
	return typeExprs
}
