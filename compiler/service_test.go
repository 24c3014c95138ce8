package compiler

import (
	"errors"
	"testing"

	"github.com/kakkky/csole/compiler/ctype"
	"github.com/kakkky/csole/compiler/hir"
	"github.com/kakkky/csole/errs"
)

func TestService_ParseExpression(t *testing.T) {
	tests := []struct {
		name          string
		opts          []Option
		src           string
		expectedType  string
		expectedValue int64
		expectedErr   errs.ErrType
	}{
		{
			name:          "integer expression",
			src:           "2 + 2\n",
			expectedType:  "int",
			expectedValue: 4,
		},
		{
			name:          "user defined macro",
			opts:          []Option{WithDefine("ANSWER", "42L")},
			src:           "ANSWER\n",
			expectedType:  "long",
			expectedValue: 42,
		},
		{
			name:        "missing trailing newline",
			src:         "2 + 2",
			expectedErr: errs.INTERNAL_ERROR,
		},
		{
			name:        "syntax error",
			src:         "(1 + 2\n",
			expectedErr: errs.SYNTAX_ERROR,
		},
		{
			name:        "semantic error",
			src:         "1 / 0\n",
			expectedErr: errs.SEMANTIC_ERROR,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewService(tt.opts...).ParseExpression(tt.src)
			if tt.expectedErr != "" {
				if got := errs.TypeOf(err); got != tt.expectedErr {
					t.Fatalf("expected %s, got %v", tt.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if e.Type.String() != tt.expectedType {
				t.Errorf("expected type %q, got %q", tt.expectedType, e.Type)
			}
			if e.Value.Int() != tt.expectedValue {
				t.Errorf("expected value %d, got %d", tt.expectedValue, e.Value.Int())
			}
		})
	}
}

func TestService_CompileModule(t *testing.T) {
	s := NewService()
	e, err := s.ParseExpression("1 + 2\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decl := &hir.Declaration{
		Symbol: &hir.Symbol{Name: "execute", Type: ctype.FunctionOf(e.Type, nil, false), Storage: hir.Extern},
		Body:   []hir.Stmt{{Kind: hir.Return, Expr: e}},
	}

	module, err := s.CompileModule([]*hir.Declaration{decl})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := module.Lookup("execute"); !ok {
		t.Error("execute is not in the module")
	}

	_, err = s.CompileModule([]*hir.Declaration{decl, decl})
	var compileErr *errs.CompileError
	if !errors.As(err, &compileErr) {
		t.Errorf("expected CompileError, got %v", err)
	}
}
