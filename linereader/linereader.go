// Package linereader は行編集と入力履歴を持つ行入力を提供する
package linereader

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/kakkky/csole/errs"
	"github.com/kakkky/csole/types"
)

// ErrInterrupted は入力途中の行が割り込みで破棄されたことを表す
var ErrInterrupted = errors.New("interrupted")

// LineReader はプロンプトを表示して1行を読み取る。
// ReadLine は割り込みでErrInterrupted、入力終了でio.EOFを返す
type LineReader interface {
	ReadLine(prompt string) (string, error)
	AddHistory(line string)
	LoadHistory(path string) error
	SaveHistory(path string) error
	Close() error
}

type completer interface {
	Complete(d prompt.Document) []prompt.Suggest
	CompleteLine(line string) []string
}

// New はエディタ名に応じたLineReaderを生成する
func New(editor types.EditorName, c completer, maxHistory int) (LineReader, error) {
	switch editor {
	case types.EditorLiner:
		return newLinerReader(c, maxHistory), nil
	case types.EditorPrompt:
		return newPromptReader(c, maxHistory), nil
	default:
		return nil, errs.NewBadInputError("unknown editor '" + string(editor) + "' (want liner or prompt)")
	}
}

// 履歴ファイルは1行1エントリのテキスト
func readHistoryFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if line := sc.Text(); strings.TrimSpace(line) != "" {
			entries = append(entries, line)
		}
	}
	return entries, sc.Err()
}

func writeHistoryFile(path string, entries []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var buf bytes.Buffer
	for _, entry := range entries {
		buf.WriteString(entry)
		buf.WriteByte('\n')
	}
	return os.WriteFile(path, buf.Bytes(), 0600)
}

// lastN は末尾からn件だけを残す。nが0以下なら制限しない
func lastN(entries []string, n int) []string {
	if n <= 0 || len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}
