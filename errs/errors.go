package errs

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kakkky/csole/compiler/token"
	"github.com/mattn/go-isatty"
)

type ErrType string

const (
	INTERNAL_ERROR         ErrType = "INTERNAL ERROR"
	BAD_INPUT_ERROR        ErrType = "BAD INPUT ERROR"
	SYNTAX_ERROR           ErrType = "SYNTAX ERROR"
	SEMANTIC_ERROR         ErrType = "SEMANTIC ERROR"
	COMPILE_ERROR          ErrType = "COMPILE ERROR"
	UNSUPPORTED_TYPE_ERROR ErrType = "UNSUPPORTED TYPE ERROR"
	UNKNOWN_COMMAND_ERROR  ErrType = "UNKNOWN COMMAND ERROR"
	INPUT_ERROR            ErrType = "INPUT ERROR"
	UNKNOWN_ERROR          ErrType = "UNKNOWN ERROR"
)

// 内部的なエラー
type InternalError struct {
	message string
	wrapped error
}

func NewInternalError(message string) *InternalError {
	return &InternalError{
		message: message,
	}
}

func (e *InternalError) Wrap(err error) error {
	e.wrapped = err
	return e
}

func (e *InternalError) Error() string {
	if e.wrapped == nil {
		return e.message
	}
	return e.message + ": " + e.wrapped.Error()
}

func (e *InternalError) Unwrap() error {
	return e.wrapped
}

// ユーザー起因の無効な入力(設定値やコマンド引数)のエラー
type BadInputError struct {
	message string
	wrapped error
}

func NewBadInputError(message string) *BadInputError {
	return &BadInputError{
		message: message,
	}
}

func (e *BadInputError) Wrap(err error) error {
	e.wrapped = err
	return e
}

func (e *BadInputError) Error() string {
	if e.wrapped == nil {
		return e.message
	}
	return e.message + ": " + e.wrapped.Error()
}

func (e *BadInputError) Unwrap() error {
	return e.wrapped
}

// 式の字句解析・構文解析に失敗したエラー
type SyntaxError struct {
	message string
	loc     token.Location
}

func NewSyntaxError(loc token.Location, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		message: fmt.Sprintf(format, args...),
		loc:     loc,
	}
}

func (e *SyntaxError) Error() string {
	return e.message
}

// Location はエラーが発生したソース上の位置を返す
func (e *SyntaxError) Location() token.Location {
	return e.loc
}

// 構文としては正しいが意味解析で弾かれた式のエラー
type SemanticError struct {
	message string
	loc     token.Location
}

func NewSemanticError(loc token.Location, format string, args ...any) *SemanticError {
	return &SemanticError{
		message: fmt.Sprintf(format, args...),
		loc:     loc,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

// Location はエラーが発生したソース上の位置を返す
func (e *SemanticError) Location() token.Location {
	return e.loc
}

// 宣言をモジュールへ落とし込めなかったエラー
type CompileError struct {
	message string
	wrapped error
}

func NewCompileError(message string) *CompileError {
	return &CompileError{
		message: message,
	}
}

func (e *CompileError) Wrap(err error) error {
	e.wrapped = err
	return e
}

func (e *CompileError) Error() string {
	if e.wrapped == nil {
		return e.message
	}
	return e.message + ": " + e.wrapped.Error()
}

func (e *CompileError) Unwrap() error {
	return e.wrapped
}

// 評価結果の型に対応するデコード方法が存在しないエラー
type UnsupportedResultTypeError struct {
	typeName string
}

func NewUnsupportedResultTypeError(typeName string) *UnsupportedResultTypeError {
	return &UnsupportedResultTypeError{
		typeName: typeName,
	}
}

func (e *UnsupportedResultTypeError) Error() string {
	return "expression returns unsupported type: " + e.typeName
}

// コマンドテーブルに存在しないコマンドが入力されたエラー
type UnknownCommandError struct {
	name string
}

func NewUnknownCommandError(name string) *UnknownCommandError {
	return &UnknownCommandError{
		name: name,
	}
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command '%s'", e.name)
}

// 行入力が割り込み・入力終了以外の理由で失敗したエラー
// セッションを終了させる唯一のエラー
type InputError struct {
	message string
	wrapped error
}

func NewInputError(message string) *InputError {
	return &InputError{
		message: message,
	}
}

func (e *InputError) Wrap(err error) error {
	e.wrapped = err
	return e
}

func (e *InputError) Error() string {
	if e.wrapped == nil {
		return e.message
	}
	return e.message + ": " + e.wrapped.Error()
}

func (e *InputError) Unwrap() error {
	return e.wrapped
}

// TypeOf はエラーの種類を判定する
func TypeOf(err error) ErrType {
	var (
		internalErr    *InternalError
		badInputErr    *BadInputError
		syntaxErr      *SyntaxError
		semanticErr    *SemanticError
		compileErr     *CompileError
		unsupportedErr *UnsupportedResultTypeError
		unknownCmdErr  *UnknownCommandError
		inputErr       *InputError
	)
	switch {
	case errors.As(err, &internalErr):
		return INTERNAL_ERROR
	case errors.As(err, &badInputErr):
		return BAD_INPUT_ERROR
	case errors.As(err, &syntaxErr):
		return SYNTAX_ERROR
	case errors.As(err, &semanticErr):
		return SEMANTIC_ERROR
	case errors.As(err, &compileErr):
		return COMPILE_ERROR
	case errors.As(err, &unsupportedErr):
		return UNSUPPORTED_TYPE_ERROR
	case errors.As(err, &unknownCmdErr):
		return UNKNOWN_COMMAND_ERROR
	case errors.As(err, &inputErr):
		return INPUT_ERROR
	default:
		return UNKNOWN_ERROR
	}
}

// IsFatal はセッションを終了させるべきエラーかどうかを判定する
func IsFatal(err error) bool {
	return TypeOf(err) == INPUT_ERROR
}

var colorEnabled = true

// SetColor は端末出力時の色付けの有無を切り替える
func SetColor(enabled bool) {
	colorEnabled = enabled
}

func useColor(w io.Writer) bool {
	if !colorEnabled {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Report はセッション内で発生した致命的でないエラーを1行で出力する
func Report(w io.Writer, err error) {
	var msg string
	switch TypeOf(err) {
	case UNKNOWN_COMMAND_ERROR:
		msg = err.Error()
	default:
		msg = "error: " + err.Error()
	}
	if useColor(w) {
		fmt.Fprintf(w, "\033[31m%s\033[0m\n", msg)
		return
	}
	fmt.Fprintln(w, msg)
}

// エラーを処理する関数
// 内部エラーや起動時のエラーなど、1行で済ませられないものに使う
func HandleError(err error) {
	HandleErrorTo(os.Stdout, err)
}

// HandleErrorTo はHandleErrorと同じ内容をwに出力する
func HandleErrorTo(w io.Writer, err error) {
	errType := TypeOf(err)
	if useColor(w) {
		fmt.Fprintf(w, "\n\033[31m[%s]\n %s\033[0m\n\n", errType, err.Error())
		return
	}
	fmt.Fprintf(w, "\n[%s]\n %s\n\n", errType, err.Error())
}
