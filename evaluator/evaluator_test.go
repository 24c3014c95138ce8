package evaluator

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kakkky/csole/compiler/ctype"
	"github.com/kakkky/csole/compiler/hir"
	"github.com/kakkky/csole/compiler/ir"
	"github.com/kakkky/csole/compiler/token"
	"github.com/kakkky/csole/errs"
	gomock "go.uber.org/mock/gomock"
)

func TestEvaluator_Evaluate(t *testing.T) {
	intExpr := &hir.Expr{Kind: hir.Literal, Type: ctype.IntType, Value: hir.Value{Bits: 4}}
	doubleExpr := &hir.Expr{Kind: hir.Literal, Type: ctype.DoubleType, Value: hir.Value{Float: 1.5}}
	module := &ir.Module{}

	tests := []struct {
		name           string
		input          string
		setupMocks     func(*MockcompilerService, *Mockbridge)
		expectedOutput string
		expectedErr    errs.ErrType
	}{
		{
			name:  "prints the formatted value",
			input: "2 + 2",
			setupMocks: func(mockService *MockcompilerService, mockBridge *Mockbridge) {
				mockService.EXPECT().ParseExpression("2 + 2\n").Return(intExpr, nil).Times(1)
				mockService.EXPECT().CompileModule(gomock.Any()).DoAndReturn(func(decls []*hir.Declaration) (*ir.Module, error) {
					// execute という名前の関数1つだけがコンパイルに渡される
					if len(decls) != 1 || decls[0].Symbol.Name != "execute" {
						t.Errorf("unexpected declarations: %v", decls)
					}
					if decls[0].Body[0].Expr != intExpr {
						t.Error("the declaration must return the parsed expression")
					}
					return module, nil
				}).Times(1)
				mockBridge.EXPECT().Execute(module, ctype.IntType).Return("4", nil).Times(1)
			},
			expectedOutput: "=> 4\n",
		},
		{
			name:  "syntax error stops before compiling",
			input: "(1 + 2",
			setupMocks: func(mockService *MockcompilerService, mockBridge *Mockbridge) {
				mockService.EXPECT().ParseExpression("(1 + 2\n").
					Return(nil, errs.NewSyntaxError(token.Location{Line: 2, Column: 1}, "expected ')', got end of input")).Times(1)
			},
			expectedErr: errs.SYNTAX_ERROR,
		},
		{
			name:  "semantic error stops before compiling",
			input: "1 / 0",
			setupMocks: func(mockService *MockcompilerService, mockBridge *Mockbridge) {
				mockService.EXPECT().ParseExpression("1 / 0\n").
					Return(nil, errs.NewSemanticError(token.Location{Line: 1, Column: 3}, "division by zero")).Times(1)
			},
			expectedErr: errs.SEMANTIC_ERROR,
		},
		{
			name:  "compile error stops before executing",
			input: "1",
			setupMocks: func(mockService *MockcompilerService, mockBridge *Mockbridge) {
				mockService.EXPECT().ParseExpression("1\n").Return(intExpr, nil).Times(1)
				mockService.EXPECT().CompileModule(gomock.Any()).Return(nil, errs.NewCompileError("cannot compile 'execute'")).Times(1)
			},
			expectedErr: errs.COMPILE_ERROR,
		},
		{
			name:  "unsupported result type",
			input: "1.5",
			setupMocks: func(mockService *MockcompilerService, mockBridge *Mockbridge) {
				mockService.EXPECT().ParseExpression("1.5\n").Return(doubleExpr, nil).Times(1)
				mockService.EXPECT().CompileModule(gomock.Any()).Return(module, nil).Times(1)
				mockBridge.EXPECT().Execute(module, ctype.DoubleType).
					Return("", errs.NewUnsupportedResultTypeError("double")).Times(1)
			},
			expectedErr: errs.UNSUPPORTED_TYPE_ERROR,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := NewMockcompilerService(ctrl)
			mockBridge := NewMockbridge(ctrl)
			tt.setupMocks(mockService, mockBridge)

			var out bytes.Buffer
			err := NewEvaluator(mockService, mockBridge, &out).Evaluate(tt.input)

			if tt.expectedErr != "" {
				if got := errs.TypeOf(err); got != tt.expectedErr {
					t.Errorf("expected %s, got %v", tt.expectedErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.expectedOutput, out.String()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEvaluator_TypeOf(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := NewMockcompilerService(ctrl)
	mockBridge := NewMockbridge(ctrl)
	mockService.EXPECT().ParseExpression("1ul\n").
		Return(&hir.Expr{Kind: hir.Literal, Type: ctype.ULongType, Value: hir.Value{Bits: 1}}, nil).Times(1)

	got, err := NewEvaluator(mockService, mockBridge, &bytes.Buffer{}).TypeOf("1ul")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "unsigned long" {
		t.Errorf("expected unsigned long, got %s", got)
	}
}

func TestEvaluator_Lower(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := NewMockcompilerService(ctrl)
	mockBridge := NewMockbridge(ctrl)
	expr := &hir.Expr{Kind: hir.Literal, Type: ctype.IntType, Value: hir.Value{Bits: 1}}
	module := &ir.Module{Functions: []*ir.Function{{
		Name:     "execute",
		Type:     ctype.FunctionOf(ctype.IntType, nil, false),
		Code:     []ir.Instr{{Op: ir.OpConst, Imm: 1}, {Op: ir.OpRet}},
		MaxDepth: 1,
	}}}
	mockService.EXPECT().ParseExpression("1\n").Return(expr, nil).Times(1)
	mockService.EXPECT().CompileModule(gomock.Any()).Return(module, nil).Times(1)

	got, err := NewEvaluator(mockService, mockBridge, &bytes.Buffer{}).Lower("1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "int execute (depth 1):\n    const 1\n    ret\n"
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("dump mismatch (-want +got):\n%s", diff)
	}

	var syntaxErr *errs.SyntaxError
	mockService.EXPECT().ParseExpression(")\n").
		Return(nil, errs.NewSyntaxError(token.Location{Line: 1, Column: 1}, "expected expression, got ')'")).Times(1)
	if _, err := NewEvaluator(mockService, mockBridge, &bytes.Buffer{}).Lower(")"); !errors.As(err, &syntaxErr) {
		t.Errorf("expected SyntaxError, got %v", err)
	}
}
