package completer

import (
	"slices"

	"github.com/kakkky/csole/compiler/cpp"
	"github.com/kakkky/csole/compiler/token"
	"github.com/kakkky/csole/registry"
)

type candidates struct {
	commands []commandSet
	macros   []string
	keywords []string
}

type commandSet struct {
	name        string
	description string
}

type commandLister interface {
	Commands() []registry.Command
}

// newCandidates は補完候補の一覧を作る。候補は起動時に確定し、以後変わらない
func newCandidates(commands commandLister) *candidates {
	c := &candidates{
		macros:   cpp.MacroNames(),
		keywords: token.Keywords(),
	}
	slices.Sort(c.macros)
	if commands != nil {
		for _, cmd := range commands.Commands() {
			c.commands = append(c.commands, commandSet{
				name:        string(cmd.Name),
				description: cmd.Description,
			})
		}
	}
	return c
}
