package completer

import (
	"strings"
	"unicode"

	"github.com/c-bata/go-prompt"
	"github.com/kakkky/csole/types"
)

type suggestionBuilder struct {
	input input
}

type input struct {
	raw      string // カーソルより前の入力全体
	head     string // 補完する断片より前の部分
	wordHead string // 空白で区切った最後の語のうち、断片より前の部分
	fragment string // 補完する断片
	command  bool   // コマンド名を入力している途中かどうか
}

type suggestType int

const (
	suggestTypeUnknown suggestType = iota
	suggestTypeCommand
	suggestTypeMacro
	suggestTypeKeyword
)

func newSuggestionBuilder(rawInput string) *suggestionBuilder {
	sb := &suggestionBuilder{
		input: input{
			raw: rawInput,
		},
	}

	// ":" で始まり空白を含まなければコマンド名の補完
	if strings.HasPrefix(rawInput, types.CommandPrefix) && !strings.ContainsFunc(rawInput, unicode.IsSpace) {
		sb.input.command = true
		sb.input.head = types.CommandPrefix
		sb.input.fragment = strings.TrimPrefix(rawInput, types.CommandPrefix)
	} else {
		start := len(rawInput)
		for start > 0 && isIdentChar(rawInput[start-1]) {
			start--
		}
		// 数字で始まる断片は識別子ではない
		if start < len(rawInput) && !isDigit(rawInput[start]) {
			sb.input.fragment = rawInput[start:]
		}
		sb.input.head = rawInput[:len(rawInput)-len(sb.input.fragment)]
	}

	wordStart := strings.LastIndexFunc(sb.input.head, unicode.IsSpace) + 1
	sb.input.wordHead = sb.input.head[wordStart:]
	return sb
}

func isIdentChar(c byte) bool {
	return c == '_' || isDigit(c) || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func (sb *suggestionBuilder) matches(candidate string) bool {
	return strings.HasPrefix(candidate, sb.input.fragment)
}

// build は go-prompt 用の候補を作る。go-prompt はカーソル直前の語を候補のTextで置き換える
func (sb *suggestionBuilder) build(candidate string, suggestType suggestType, description string) prompt.Suggest {
	return prompt.Suggest{
		Text:        sb.input.wordHead + candidate,
		DisplayText: candidate,
		Description: sb.buildSuggestDescription(suggestType, description),
	}
}

// buildLine は行全体を置き換える候補を作る
func (sb *suggestionBuilder) buildLine(candidate string) string {
	return sb.input.head + candidate
}

func (sb *suggestionBuilder) buildSuggestDescription(suggestType suggestType, description string) string {
	suggestTypeStr := convertSuggestTypeToString(suggestType)
	if description == "" {
		return suggestTypeStr
	}
	return suggestTypeStr + ": " + description
}

func convertSuggestTypeToString(suggestType suggestType) string {
	switch suggestType {
	case suggestTypeCommand:
		return "Command"
	case suggestTypeMacro:
		return "Macro"
	case suggestTypeKeyword:
		return "Keyword"
	default:
		return "Unknown"
	}
}
