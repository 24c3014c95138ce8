package registry

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"

	"github.com/kakkky/csole/errs"
	"github.com/kakkky/csole/types"
)

// Session はコマンドから操作できるセッションの状態
type Session interface {
	// Out はコマンドの出力先を返す
	Out() io.Writer
	// Stop はセッションを終了させる
	Stop()
	// History はこれまでに受け付けた行を古い順に返す
	History() []string
	// Commands は登録されている全てのコマンドを名前順に返す
	Commands() []Command
}

// Command は名前の付いたREPLコマンド
type Command struct {
	Name types.CommandName
	// Usage は引数を含めた書式。空ならNameだけ
	Usage       string
	Description string
	Action      func(s Session, args string) error
}

// Registry はコマンド名からコマンドを引く表。生成後は変更しない
type Registry struct {
	commands map[types.CommandName]Command
}

// New はコマンドの表を作る。名前が重複していればInternalErrorを返す
func New(cmds ...Command) (*Registry, error) {
	r := &Registry{
		commands: make(map[types.CommandName]Command, len(cmds)),
	}
	for _, cmd := range cmds {
		if cmd.Name == "" || cmd.Action == nil {
			return nil, errs.NewInternalError("command must have a name and an action")
		}
		if _, ok := r.commands[cmd.Name]; ok {
			return nil, errs.NewInternalError(fmt.Sprintf("command '%s' is registered twice", cmd.Name))
		}
		r.commands[cmd.Name] = cmd
	}
	return r, nil
}

// Lookup は名前に完全一致するコマンドを返す。大文字と小文字は区別する
func (r *Registry) Lookup(name types.CommandName) (Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Commands は全てのコマンドを名前順に返す
func (r *Registry) Commands() []Command {
	cmds := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	slices.SortFunc(cmds, func(a, b Command) int {
		return strings.Compare(string(a.Name), string(b.Name))
	})
	return cmds
}

// IsCommand は行がコマンドかどうかを判定する
func IsCommand(line string) bool {
	return strings.HasPrefix(line, types.CommandPrefix)
}

// Split はコマンド行を最初の空白で名前と引数に分ける。名前から接頭辞を取り除き、引数の前後の空白は取り除く
func Split(line string) (types.CommandName, string) {
	rest := strings.TrimPrefix(line, types.CommandPrefix)
	i := strings.IndexFunc(rest, unicode.IsSpace)
	if i < 0 {
		return types.CommandName(rest), ""
	}
	return types.CommandName(rest[:i]), strings.TrimSpace(rest[i:])
}
