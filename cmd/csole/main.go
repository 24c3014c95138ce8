package main

import (
	"log/slog"
	"os"

	"github.com/kakkky/csole/compiler"
	"github.com/kakkky/csole/completer"
	"github.com/kakkky/csole/config"
	"github.com/kakkky/csole/errs"
	"github.com/kakkky/csole/evaluator"
	"github.com/kakkky/csole/jit"
	"github.com/kakkky/csole/linereader"
	"github.com/kakkky/csole/registry"
	"github.com/kakkky/csole/repl"
	"github.com/kakkky/csole/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		errs.HandleError(err)
		return 1
	}
	errs.SetColor(cfg.Color)
	logger := newLogger(cfg.Debug)

	if cfg.CheckUpdate {
		latest, latestVersion, err := version.IsLatestVersion()
		if err != nil {
			logger.Debug("version check failed", "error", err)
		} else if !latest {
			version.PrintNoteLatestVersion(os.Stdout, latestVersion)
		}
	}

	backend, err := jit.NewBackend(cfg.Backend)
	if err != nil {
		errs.HandleError(err)
		return 1
	}
	bridge := jit.NewBridge(backend, logger)
	service := compiler.NewService(compiler.WithLogger(logger))
	ev := evaluator.NewEvaluator(service, bridge, os.Stdout)

	commands, err := registry.New(repl.BuiltinCommands(ev, bridge)...)
	if err != nil {
		errs.HandleError(err)
		return 1
	}
	reader, err := linereader.New(cfg.Editor, completer.NewCompleter(commands), cfg.MaxHistory)
	if err != nil {
		errs.HandleError(err)
		return 1
	}
	defer func() {
		if err := reader.Close(); err != nil {
			logger.Debug("failed to close line reader", "error", err)
		}
	}()

	r := repl.NewRepl(reader, ev, commands, os.Stdout,
		repl.WithPrompt(cfg.Prompt),
		repl.WithHistoryFile(cfg.HistoryFile),
		repl.WithLogger(logger),
	)
	if err := r.Run(); err != nil {
		errs.HandleError(err)
		return 1
	}
	return 0
}

// newLogger はデバッグ時だけ標準エラーに出力するロガーを返す
func newLogger(debug bool) *slog.Logger {
	if !debug {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
