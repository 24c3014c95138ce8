// Package config はcsoleの設定ファイルと環境変数を読み込む
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"

	"github.com/kakkky/csole/errs"
	"github.com/kakkky/csole/types"
)

const (
	appName        = "csole"
	configFileName = "config.yaml"
	historyName    = "history"

	defaultPrompt     = ">> "
	defaultMaxHistory = 1000
)

// Config はセッションの設定
type Config struct {
	Prompt      string            `yaml:"prompt"`
	Editor      types.EditorName  `yaml:"editor"`
	Backend     types.BackendName `yaml:"backend"`
	HistoryFile string            `yaml:"history_file"`
	MaxHistory  int               `yaml:"max_history"`
	CheckUpdate bool              `yaml:"check_update"`
	Debug       bool              `yaml:"debug"`
	Color       bool              `yaml:"color"`
}

// Dir はcsoleの設定ディレクトリを返す
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", errs.NewInternalError("failed to get user config directory").Wrap(err)
	}
	return filepath.Join(configDir, appName), nil
}

// DataDir はcsoleのデータディレクトリを返す。
// LinuxなどではXDG_DATA_HOME（未設定なら~/.local/share）、macOSとWindowsでは設定ディレクトリと同じ場所を使う
func DataDir() (string, error) {
	switch runtime.GOOS {
	case "darwin", "windows", "plan9":
		return Dir()
	}
	if dir := os.Getenv("XDG_DATA_HOME"); filepath.IsAbs(dir) {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errs.NewInternalError("failed to get user data directory").Wrap(err)
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// Default は既定値の設定を返す。履歴ファイルはデータディレクトリの下に置く
func Default() *Config {
	cfg := &Config{
		Prompt:     defaultPrompt,
		Editor:     types.EditorLiner,
		Backend:    types.BackendAuto,
		MaxHistory: defaultMaxHistory,
		Color:      true,
	}
	if dir, err := DataDir(); err == nil {
		cfg.HistoryFile = filepath.Join(dir, historyName)
	}
	return cfg
}

// Load は設定ディレクトリのconfig.yamlと環境変数から設定を読み込む
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadFile(filepath.Join(dir, configFileName))
}

// LoadFile は指定したファイルと環境変数から設定を読み込む。
// ファイルが存在しなければ既定値を使う。環境変数はファイルの値より優先する
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errs.NewBadInputError(fmt.Sprintf("failed to parse %s", path)).Wrap(err)
		}
	case os.IsNotExist(err):
	default:
		return nil, errs.NewBadInputError(fmt.Sprintf("failed to read %s", path)).Wrap(err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.HistoryFile = expandHome(cfg.HistoryFile)
	return cfg, nil
}

func (c *Config) applyEnv() error {
	// envは初回の呼び出しで環境変数をキャッシュするので、読み込みのたびに取り直す
	env.Load()

	if v := env.Str("CSOLE_PROMPT"); v != "" {
		c.Prompt = v
	}
	if v := env.Str("CSOLE_EDITOR"); v != "" {
		c.Editor = types.EditorName(v)
	}
	if v := env.Str("CSOLE_BACKEND"); v != "" {
		c.Backend = types.BackendName(v)
	}
	if v := env.Str("CSOLE_HISTORY"); v != "" {
		c.HistoryFile = v
	}
	if v := env.Str("CSOLE_MAX_HISTORY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errs.NewBadInputError(fmt.Sprintf("invalid CSOLE_MAX_HISTORY '%s' (want a positive integer)", v)).Wrap(err)
		}
		c.MaxHistory = n
	}
	if v := env.Str("CSOLE_DEBUG"); v != "" {
		c.Debug = env.Bool("CSOLE_DEBUG")
	}
	if v := env.Str("CSOLE_CHECK_UPDATE"); v != "" {
		c.CheckUpdate = env.Bool("CSOLE_CHECK_UPDATE")
	}
	// https://no-color.org
	if env.Str("NO_COLOR") != "" {
		c.Color = false
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Editor {
	case types.EditorLiner, types.EditorPrompt:
	default:
		return errs.NewBadInputError(fmt.Sprintf("invalid editor '%s' (want liner or prompt)", c.Editor))
	}
	switch c.Backend {
	case types.BackendAuto, types.BackendNative, types.BackendInterp:
	default:
		return errs.NewBadInputError(fmt.Sprintf("invalid backend '%s' (want auto, native or interp)", c.Backend))
	}
	if c.MaxHistory <= 0 {
		return errs.NewBadInputError(fmt.Sprintf("max_history must be positive, got %d", c.MaxHistory))
	}
	return nil
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
