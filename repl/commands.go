package repl

import (
	"fmt"
	"strconv"

	"github.com/kakkky/csole/errs"
	"github.com/kakkky/csole/jit"
	"github.com/kakkky/csole/registry"
	"github.com/kakkky/csole/types"
	"github.com/kakkky/csole/version"
)

type backendSwitcher interface {
	Backend() jit.Backend
	SetBackend(backend jit.Backend)
}

// BuiltinCommands は組み込みコマンドの一覧を返す
func BuiltinCommands(ev evaluator, backends backendSwitcher) []registry.Command {
	quit := func(s registry.Session, _ string) error {
		s.Stop()
		return nil
	}
	return []registry.Command{
		{Name: "help", Description: "show this list", Action: help},
		{Name: "quit", Description: "exit csole", Action: quit},
		{Name: "q", Description: "exit csole", Action: quit},
		{Name: "exit", Description: "exit csole", Action: quit},
		{Name: "history", Usage: "history [n]", Description: "show the last n lines (all by default)", Action: history},
		{Name: "clear", Description: "clear the screen", Action: clearScreen},
		{Name: "version", Description: "show the csole version", Action: func(s registry.Session, _ string) error {
			version.PrintVersion(s.Out())
			return nil
		}},
		{Name: "type", Usage: "type <expr>", Description: "show the type of an expression without running it", Action: typeOf(ev)},
		{Name: "ir", Usage: "ir <expr>", Description: "show the lowered code of an expression", Action: lower(ev)},
		{Name: "backend", Usage: "backend [auto|native|interp]", Description: "show or switch the execution backend", Action: backend(backends)},
	}
}

func help(s registry.Session, _ string) error {
	fmt.Fprintln(s.Out(), "Commands:")
	for _, cmd := range s.Commands() {
		usage := cmd.Usage
		if usage == "" {
			usage = string(cmd.Name)
		}
		fmt.Fprintf(s.Out(), "  %s%-30s %s\n", types.CommandPrefix, usage, cmd.Description)
	}
	fmt.Fprintln(s.Out(), "Any other line is evaluated as a C expression.")
	return nil
}

func history(s registry.Session, args string) error {
	entries := s.History()
	start := 0
	if args != "" {
		n, err := strconv.Atoi(args)
		if err != nil || n < 0 {
			return errs.NewBadInputError(fmt.Sprintf("invalid history count '%s'", args))
		}
		start = max(len(entries)-n, 0)
	}
	for i := start; i < len(entries); i++ {
		fmt.Fprintf(s.Out(), "%5d  %s\n", i+1, entries[i])
	}
	return nil
}

func clearScreen(s registry.Session, _ string) error {
	fmt.Fprint(s.Out(), "\033[H\033[2J")
	return nil
}

func typeOf(ev evaluator) func(registry.Session, string) error {
	return func(s registry.Session, args string) error {
		if args == "" {
			return errs.NewBadInputError("usage: :type <expr>")
		}
		ty, err := ev.TypeOf(args)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.Out(), ty)
		return nil
	}
}

func lower(ev evaluator) func(registry.Session, string) error {
	return func(s registry.Session, args string) error {
		if args == "" {
			return errs.NewBadInputError("usage: :ir <expr>")
		}
		dump, err := ev.Lower(args)
		if err != nil {
			return err
		}
		fmt.Fprint(s.Out(), dump)
		return nil
	}
}

func backend(backends backendSwitcher) func(registry.Session, string) error {
	return func(s registry.Session, args string) error {
		if args != "" {
			b, err := jit.NewBackend(types.BackendName(args))
			if err != nil {
				return err
			}
			backends.SetBackend(b)
		}
		fmt.Fprintf(s.Out(), "backend: %s\n", backends.Backend().Name())
		return nil
	}
}
