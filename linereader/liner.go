package linereader

import (
	"bufio"
	"bytes"
	"errors"
	"strings"

	"github.com/peterh/liner"
)

type linerReader struct {
	state      *liner.State
	maxHistory int
}

func newLinerReader(c completer, maxHistory int) *linerReader {
	state := liner.NewLiner()
	// Ctrl+Cでプロセスを止めず、読み取り中の行だけを破棄する
	state.SetCtrlCAborts(true)
	if c != nil {
		state.SetCompleter(c.CompleteLine)
	}
	return &linerReader{
		state:      state,
		maxHistory: maxHistory,
	}
}

func (r *linerReader) ReadLine(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", ErrInterrupted
	}
	// io.EOF はそのまま返す
	return line, err
}

func (r *linerReader) AddHistory(line string) {
	r.state.AppendHistory(line)
}

func (r *linerReader) LoadHistory(path string) error {
	entries, err := readHistoryFile(path)
	if err != nil {
		return err
	}
	_, err = r.state.ReadHistory(strings.NewReader(strings.Join(lastN(entries, r.maxHistory), "\n")))
	return err
}

func (r *linerReader) SaveHistory(path string) error {
	var buf bytes.Buffer
	if _, err := r.state.WriteHistory(&buf); err != nil {
		return err
	}
	var entries []string
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		entries = append(entries, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return writeHistoryFile(path, lastN(entries, r.maxHistory))
}

func (r *linerReader) Close() error {
	return r.state.Close()
}

var _ LineReader = (*linerReader)(nil)
