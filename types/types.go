package types

// CommandName はREPLコマンドの名前を表す。接頭辞の ':' は含まない。
type CommandName string

// CommandPrefix はコマンド行の先頭に置く文字。
const CommandPrefix = ":"

// SymbolName は翻訳単位内のシンボル名を表す。
type SymbolName string

// EntryName は入力された式を包む関数の名前。
const EntryName SymbolName = "execute"

// BackendName はJITバックエンドの名前を表す。
type BackendName string

const (
	BackendAuto   BackendName = "auto"
	BackendNative BackendName = "native"
	BackendInterp BackendName = "interp"
)

// EditorName は行入力の実装の名前を表す。
type EditorName string

const (
	EditorLiner  EditorName = "liner"
	EditorPrompt EditorName = "prompt"
)
