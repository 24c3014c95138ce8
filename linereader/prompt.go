package linereader

import (
	"io"

	"github.com/c-bata/go-prompt"
)

// promptReader は go-prompt の Input を1行ごとに呼び出す。
// go-prompt は空行のEnterとCtrl+Dをどちらも空文字列で返すため、Enterをキーバインドで記録して区別する
type promptReader struct {
	completer  completer
	history    []string
	maxHistory int
	entered    bool
}

func newPromptReader(c completer, maxHistory int) *promptReader {
	return &promptReader{
		completer:  c,
		maxHistory: maxHistory,
	}
}

func (r *promptReader) ReadLine(p string) (string, error) {
	r.entered = false
	line := prompt.Input(p, r.complete, r.options()...)
	if line == "" && !r.entered {
		return "", io.EOF
	}
	return line, nil
}

func (r *promptReader) options() []prompt.Option {
	return []prompt.Option{
		prompt.OptionTitle("csole"),
		prompt.OptionHistory(r.history),
		prompt.OptionAddKeyBind(prompt.KeyBind{
			Key: prompt.Enter,
			Fn: func(*prompt.Buffer) {
				r.entered = true
			},
		}),
	}
}

func (r *promptReader) complete(d prompt.Document) []prompt.Suggest {
	if r.completer == nil {
		return nil
	}
	return r.completer.Complete(d)
}

func (r *promptReader) AddHistory(line string) {
	r.history = lastN(append(r.history, line), r.maxHistory)
}

func (r *promptReader) LoadHistory(path string) error {
	entries, err := readHistoryFile(path)
	if err != nil {
		return err
	}
	r.history = lastN(append(entries, r.history...), r.maxHistory)
	return nil
}

func (r *promptReader) SaveHistory(path string) error {
	return writeHistoryFile(path, r.history)
}

func (r *promptReader) Close() error {
	return nil
}

var _ LineReader = (*promptReader)(nil)
