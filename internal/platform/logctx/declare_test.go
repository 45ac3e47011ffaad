package logctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDeclaration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		wantKey  string
		wantExpr string
		wantOK   bool
	}{
		{
			name:     "simple pair",
			raw:      "orderId=id",
			wantKey:  "orderId",
			wantExpr: "id",
			wantOK:   true,
		},
		{
			name:     "splits on first equals only",
			raw:      `check=status == "active"`,
			wantKey:  "check",
			wantExpr: `status == "active"`,
			wantOK:   true,
		},
		{
			name:     "trims both sides",
			raw:      "  key = customer.Name ",
			wantKey:  "key",
			wantExpr: "customer.Name",
			wantOK:   true,
		},
		{
			name:   "missing equals",
			raw:    "notadeclaration",
			wantOK: false,
		},
		{
			name:     "string literal with equals inside",
			raw:      `banner="a=b"`,
			wantKey:  "banner",
			wantExpr: `"a=b"`,
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			decl, ok := ParseDeclaration(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantKey, decl.Key)
				assert.Equal(t, tt.wantExpr, decl.Expr)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	typeSet := []string{"a=1"}
	methodSet := []string{"b=2"}

	tests := []struct {
		name        string
		methodExprs []string
		typeExprs   []string
		want        []string
	}{
		{
			name:        "method set wins outright",
			methodExprs: methodSet,
			typeExprs:   typeSet,
			want:        methodSet,
		},
		{
			name:      "falls back to type set when method undeclared",
			typeExprs: typeSet,
			want:      typeSet,
		},
		{
			// Declared-but-empty method sets override rather than merge;
			// they suppress type-level context entirely.
			name:        "explicitly empty method set suppresses type set",
			methodExprs: []string{},
			typeExprs:   typeSet,
			want:        []string{},
		},
		{
			name: "both absent",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Resolve(tt.methodExprs, tt.typeExprs)
			assert.Equal(t, tt.want, got)
		})
	}
}
