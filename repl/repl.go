// Package repl は行を読み取り、コマンドかコードかを判定して処理するセッションを担う
package repl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/kakkky/csole/errs"
	"github.com/kakkky/csole/linereader"
	"github.com/kakkky/csole/registry"
	"github.com/kakkky/csole/version"
)

const defaultPrompt = ">> "

// Repl は1つの対話セッション
type Repl struct {
	reader linereader.LineReader
	evaluator
	registry    *registry.Registry
	out         io.Writer
	logger      *slog.Logger
	prompt      string
	historyPath string
	history     []string
	stopped     bool
}

// Option はReplの設定を変更する
type Option func(*Repl)

// WithPrompt はプロンプトの文字列を指定する
func WithPrompt(prompt string) Option {
	return func(r *Repl) {
		r.prompt = prompt
	}
}

// WithHistoryFile は開始時に読み込み、終了時に書き出す履歴ファイルを指定する
func WithHistoryFile(path string) Option {
	return func(r *Repl) {
		r.historyPath = path
	}
}

// WithLogger はデバッグログの出力先を指定する
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repl) {
		r.logger = logger
	}
}

// NewRepl はReplのインスタンスを生成する
func NewRepl(reader linereader.LineReader, evaluator evaluator, registry *registry.Registry, out io.Writer, opts ...Option) *Repl {
	r := &Repl{
		reader:    reader,
		evaluator: evaluator,
		registry:  registry,
		out:       out,
		logger:    slog.New(slog.DiscardHandler),
		prompt:    defaultPrompt,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run は入力が終わるかセッションが止められるまで行を処理する。
// 割り込みと入力終了以外の理由で読み取りに失敗した場合はInputErrorを返す
func (r *Repl) Run() error {
	r.printBanner()
	r.loadHistory()
	defer r.saveHistory()

	for !r.stopped {
		line, err := r.reader.ReadLine(r.prompt)
		switch {
		case errors.Is(err, linereader.ErrInterrupted):
			// 入力途中の行を捨てて読み直す
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(r.out)
			return nil
		case err != nil:
			return errs.NewInputError("failed to read input").Wrap(err)
		}
		r.handle(line)
	}
	return nil
}

func (r *Repl) handle(line string) {
	defer func() {
		if rec := recover(); rec != nil {
			panicMsg := fmt.Sprintf("%v", rec)
			// スタックと同じ出力先に出す
			errs.HandleErrorTo(r.out, errs.NewInternalError(panicMsg))
			fmt.Fprintln(r.out, string(debug.Stack()))
		}
	}()

	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	// 失敗する行も含め、判定の前に履歴へ残す
	r.history = append(r.history, line)
	r.reader.AddHistory(line)

	if registry.IsCommand(line) {
		r.runCommand(line)
		return
	}
	r.logger.Debug("evaluate", "line", line)
	if err := r.Evaluate(line); err != nil {
		errs.Report(r.out, err)
	}
}

func (r *Repl) runCommand(line string) {
	name, args := registry.Split(line)
	r.logger.Debug("command", "name", name, "args", args)
	cmd, ok := r.registry.Lookup(name)
	if !ok {
		errs.Report(r.out, errs.NewUnknownCommandError(line[:len(name)+1]))
		return
	}
	if err := cmd.Action(r, args); err != nil {
		errs.Report(r.out, err)
	}
}

func (r *Repl) printBanner() {
	version.PrintVersion(r.out)
	fmt.Fprintln(r.out, `Type ":help" for more information.`)
}

func (r *Repl) loadHistory() {
	if r.historyPath == "" {
		return
	}
	if err := r.reader.LoadHistory(r.historyPath); err != nil {
		r.logger.Debug("history not loaded", "path", r.historyPath, "error", err)
	}
}

func (r *Repl) saveHistory() {
	if r.historyPath == "" {
		return
	}
	if err := r.reader.SaveHistory(r.historyPath); err != nil {
		r.logger.Debug("history not saved", "path", r.historyPath, "error", err)
	}
}

// Out はセッションの出力先を返す
func (r *Repl) Out() io.Writer {
	return r.out
}

// Stop は現在の行の処理を終えたあとにセッションを終了させる
func (r *Repl) Stop() {
	r.stopped = true
}

// History はこのセッションで受け付けた行を古い順に返す
func (r *Repl) History() []string {
	return r.history
}

// Commands は登録されている全てのコマンドを返す
func (r *Repl) Commands() []registry.Command {
	return r.registry.Commands()
}

var _ registry.Session = (*Repl)(nil)
