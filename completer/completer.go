package completer

import (
	"slices"

	"github.com/c-bata/go-prompt"
)

// Completer は補完エンジンを担う
// go-promptのCompleterと liner のCompleterの両方の形で候補を返す
type Completer struct {
	candidates *candidates
}

// NewCompleter はCompleterのインスタンスを生成する
func NewCompleter(commands commandLister) *Completer {
	return &Completer{
		candidates: newCandidates(commands),
	}
}

// Complete はgo-promptのCompleterとして補完候補を返す
func (c *Completer) Complete(input prompt.Document) []prompt.Suggest {
	sb := newSuggestionBuilder(input.TextBeforeCursor())
	suggestions := make([]prompt.Suggest, 0)
	for _, candidate := range c.find(sb) {
		suggestions = append(suggestions, sb.build(candidate.text, candidate.suggestType, candidate.description))
	}
	return suggestions
}

// CompleteLine はlinerのCompleterとして、補完後の行全体を返す
func (c *Completer) CompleteLine(line string) []string {
	sb := newSuggestionBuilder(line)
	lines := make([]string, 0)
	for _, candidate := range c.find(sb) {
		lines = append(lines, sb.buildLine(candidate.text))
	}
	return lines
}

type found struct {
	text        string
	suggestType suggestType
	description string
}

func (c *Completer) find(sb *suggestionBuilder) []found {
	if sb.input.command {
		return c.findCommandSuggestions(sb)
	}
	// 何も入力していない位置では候補を出さない
	if sb.input.fragment == "" {
		return nil
	}
	return slices.Concat(c.findMacroSuggestions(sb), c.findKeywordSuggestions(sb))
}

func (c *Completer) findCommandSuggestions(sb *suggestionBuilder) []found {
	var suggestions []found
	for _, cmd := range c.candidates.commands {
		if sb.matches(cmd.name) {
			suggestions = append(suggestions, found{text: cmd.name, suggestType: suggestTypeCommand, description: cmd.description})
		}
	}
	return suggestions
}

func (c *Completer) findMacroSuggestions(sb *suggestionBuilder) []found {
	var suggestions []found
	for _, name := range c.candidates.macros {
		if sb.matches(name) {
			suggestions = append(suggestions, found{text: name, suggestType: suggestTypeMacro})
		}
	}
	return suggestions
}

func (c *Completer) findKeywordSuggestions(sb *suggestionBuilder) []found {
	var suggestions []found
	for _, kw := range c.candidates.keywords {
		if sb.matches(kw) {
			suggestions = append(suggestions, found{text: kw, suggestType: suggestTypeKeyword})
		}
	}
	return suggestions
}
