package analyzer

import (
	"errors"
	"testing"

	"github.com/kakkky/csole/compiler/parser"
	"github.com/kakkky/csole/errs"
)

func analyze(t *testing.T, src string) (string, int64, uint64, error) {
	t.Helper()
	x, err := parser.ParseExpr(src + "\n")
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	e, err := New(nil).Expr(x)
	if err != nil {
		return "", 0, 0, err
	}
	return e.Type.String(), e.Value.Int(), e.Value.Bits, nil
}

func TestAnalyzer_Expr(t *testing.T) {
	tests := []struct {
		src          string
		expectedType string
		expected     int64
	}{
		{src: "2 + 2", expectedType: "int", expected: 4},
		{src: "-1", expectedType: "int", expected: -1},
		{src: "7 / -2", expectedType: "int", expected: -3},
		{src: "7 % -2", expectedType: "int", expected: 1},
		{src: "-7 >> 1", expectedType: "int", expected: -4},
		{src: "1 << 31", expectedType: "int", expected: -2147483648},
		{src: "INT_MIN", expectedType: "int", expected: -2147483648},
		{src: "LONG_MIN", expectedType: "long", expected: -9223372036854775808},
		{src: "2147483648", expectedType: "long", expected: 2147483648},
		{src: "0x7fffffff", expectedType: "int", expected: 2147483647},
		{src: "0x80000000", expectedType: "unsigned int", expected: 2147483648},
		{src: "0b101", expectedType: "int", expected: 5},
		{src: "017", expectedType: "int", expected: 15},
		{src: "10ull", expectedType: "unsigned long long", expected: 10},
		{src: "'a'", expectedType: "int", expected: 97},
		{src: `'\xff'`, expectedType: "int", expected: -1},
		{src: `'\n'`, expectedType: "int", expected: 10},
		{src: "'ab'", expectedType: "int", expected: 0x6162},
		{src: "(char)300", expectedType: "char", expected: 44},
		{src: "(unsigned char)-1", expectedType: "unsigned char", expected: 255},
		{src: "(_Bool)5", expectedType: "_Bool", expected: 1},
		{src: "(short)-1 == (unsigned short)65535", expectedType: "int", expected: 0},
		{src: "(char)1 + (char)2", expectedType: "int", expected: 3},
		{src: "-1 < 1u", expectedType: "int", expected: 0},
		{src: "(long)-1 < 1u", expectedType: "int", expected: 1},
		{src: "10u / 3", expectedType: "unsigned int", expected: 3},
		{src: "1 ? 2 : 3L", expectedType: "long", expected: 2},
		{src: "0 ? 2 : 3", expectedType: "int", expected: 3},
		{src: "0 && 1 / 0", expectedType: "int", expected: 0},
		{src: "1 || 1 / 0", expectedType: "int", expected: 1},
		{src: "1 ? 1 : 1 / 0", expectedType: "int", expected: 1},
		{src: "2 && 3", expectedType: "int", expected: 1},
		{src: "sizeof(1 / 0)", expectedType: "unsigned long", expected: 4},
		{src: "sizeof(long)", expectedType: "unsigned long", expected: 8},
		{src: "sizeof(char)", expectedType: "unsigned long", expected: 1},
		{src: "sizeof 1.0f", expectedType: "unsigned long", expected: 4},
		{src: "_Alignof(short)", expectedType: "unsigned long", expected: 2},
		{src: "(1, 2)", expectedType: "int", expected: 2},
		{src: "3.5 > 2", expectedType: "int", expected: 1},
		{src: "(int)3.9", expectedType: "int", expected: 3},
		{src: "(int)-3.9", expectedType: "int", expected: -3},
		{src: "!0", expectedType: "int", expected: 1},
		{src: "!2.5", expectedType: "int", expected: 0},
		{src: "~0", expectedType: "int", expected: -1},
		{src: "+(char)1", expectedType: "int", expected: 1},
		{src: "(int *)0 + 1", expectedType: "int *", expected: 4},
		{src: "2 + (long *)0", expectedType: "long *", expected: 16},
		{src: "(int *)8 - (int *)0", expectedType: "long", expected: 2},
		{src: "(int *)8 - 1", expectedType: "int *", expected: 4},
		{src: "(long *)0 == 0", expectedType: "int", expected: 1},
		{src: "1 ? (int *)0 : 0", expectedType: "int *", expected: 0},
		{src: "true + false", expectedType: "int", expected: 1},
		{src: "__LINE__", expectedType: "int", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			typ, got, _, err := analyze(t, tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if typ != tt.expectedType {
				t.Errorf("expected type %q, got %q", tt.expectedType, typ)
			}
			if got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestAnalyzer_Expr_UnsignedValues(t *testing.T) {
	tests := []struct {
		src          string
		expectedType string
		expected     uint64
	}{
		{src: "~0u", expectedType: "unsigned int", expected: 4294967295},
		{src: "1u - 2", expectedType: "unsigned int", expected: 4294967295},
		{src: "ULONG_MAX", expectedType: "unsigned long", expected: 18446744073709551615},
		{src: "18446744073709551615", expectedType: "unsigned long long", expected: 18446744073709551615},
		{src: "(unsigned long)-1 >> 63", expectedType: "unsigned long", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			typ, _, got, err := analyze(t, tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if typ != tt.expectedType {
				t.Errorf("expected type %q, got %q", tt.expectedType, typ)
			}
			if got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestAnalyzer_Expr_Errors(t *testing.T) {
	tests := []struct {
		src         string
		expectedMsg string
	}{
		{src: "x", expectedMsg: "use of undeclared identifier 'x'"},
		{src: "1 / 0", expectedMsg: "division by zero"},
		{src: "5 % (1 - 1)", expectedMsg: "division by zero"},
		{src: "INT_MIN / -1", expectedMsg: "integer overflow in division of 'int'"},
		{src: "1 << 32", expectedMsg: "shift count out of range for 'int'"},
		{src: "1 << -1", expectedMsg: "shift count out of range for 'int'"},
		{src: "(char)1 << 32", expectedMsg: "shift count out of range for 'int'"},
		{src: "1 = 2", expectedMsg: "expression is not assignable"},
		{src: "1 += 2", expectedMsg: "expression is not assignable"},
		{src: "++1", expectedMsg: "expression is not assignable"},
		{src: "1++", expectedMsg: "expression is not assignable"},
		{src: "y++", expectedMsg: "use of undeclared identifier 'y'"},
		{src: "1.5 % 2", expectedMsg: "invalid operands to binary expression ('double' and 'int')"},
		{src: "1 & 2.0f", expectedMsg: "invalid operands to binary expression ('int' and 'float')"},
		{src: "~1.0", expectedMsg: "invalid argument type 'double' to unary expression"},
		{src: "-(int *)0", expectedMsg: "invalid argument type 'int *' to unary expression"},
		{src: "(int *)0 + 1.0", expectedMsg: "invalid operands to binary expression ('int *' and 'double')"},
		{src: "(void)0 + 1", expectedMsg: "invalid operands to binary expression ('void' and 'int')"},
		{src: "(int *)0 * 2", expectedMsg: "invalid operands to binary expression ('int *' and 'int')"},
		{src: "(int *)1.0", expectedMsg: "invalid cast from 'double' to 'int *'"},
		{src: "(double)(char *)0", expectedMsg: "invalid cast from 'char *' to 'double'"},
		{src: "(int)(void)0", expectedMsg: "invalid cast from 'void' to 'int'"},
		{src: "sizeof(void)", expectedMsg: "invalid application of 'sizeof' to an incomplete type 'void'"},
		{src: "_Alignof((void)0)", expectedMsg: "invalid application of '_Alignof' to an incomplete type 'void'"},
		{src: "(unsigned double)1", expectedMsg: "invalid type specifier combination 'unsigned double'"},
		{src: "(long long long)1", expectedMsg: "invalid type specifier combination 'long long long'"},
		{src: "(signed unsigned)1", expectedMsg: "invalid type specifier combination 'signed unsigned'"},
		{src: "1 ? (int *)0 : 1", expectedMsg: "incompatible operand types ('int *' and 'int')"},
		{src: "1 ? (void)0 : 1", expectedMsg: "incompatible operand types ('void' and 'int')"},
		{src: "(int *)0 < 1", expectedMsg: "comparison between pointer and integer ('int *' and 'int')"},
		{src: "(int *)0 == (long *)0", expectedMsg: "comparison of distinct pointer types ('int *' and 'long *')"},
		{src: "(void *)0 + 1", expectedMsg: "arithmetic on a pointer to an incomplete type 'void'"},
		{src: "(int *)0 - (char *)0", expectedMsg: "'int *' and 'char *' are not pointers to compatible types"},
		{src: "1(2)", expectedMsg: "called object type 'int' is not a function"},
		{src: "0x1ffffffffffffffff", expectedMsg: "integer constant is too large for its type"},
		{src: "'abcde'", expectedMsg: "character constant too long for its type"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, _, _, err := analyze(t, tt.src)
			var semanticErr *errs.SemanticError
			if !errors.As(err, &semanticErr) {
				t.Fatalf("expected SemanticError, got %v", err)
			}
			if semanticErr.Error() != tt.expectedMsg {
				t.Errorf("expected message %q, got %q", tt.expectedMsg, semanticErr.Error())
			}
		})
	}
}

func TestAnalyzer_Expr_SyntaxErrorsInLiterals(t *testing.T) {
	tests := []struct {
		src         string
		expectedMsg string
	}{
		{src: "1lul", expectedMsg: "invalid suffix 'lul' on integer constant"},
		{src: "09", expectedMsg: "invalid integer constant '09'"},
		{src: "0x", expectedMsg: "invalid integer constant '0x'"},
		{src: `'\q'`, expectedMsg: `unknown escape sequence '\q'`},
		{src: "1.0e", expectedMsg: "invalid floating constant '1.0e'"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, _, _, err := analyze(t, tt.src)
			var syntaxErr *errs.SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("expected SyntaxError, got %v", err)
			}
			if syntaxErr.Error() != tt.expectedMsg {
				t.Errorf("expected message %q, got %q", tt.expectedMsg, syntaxErr.Error())
			}
		})
	}
}
