// Package cpp は1行分のCソースを前処理してトークン列に変換する。
// サポートするのはコメント除去、行継続、事前定義されたオブジェクト形式マクロの展開のみで、
// #で始まるディレクティブは扱わない。
package cpp

import (
	"strconv"

	"github.com/kakkky/csole/compiler/token"
	"github.com/kakkky/csole/errs"
)

// PreProcessor はソースを読み進めながらトークンを生成する
type PreProcessor struct {
	src  string
	pos  int
	line int
	col  int

	// 行頭からトークンが現れていないか
	atLineStart bool

	macros  map[string]string
	pending []token.Token
}

// Option はPreProcessorの設定を変更する
type Option func(*PreProcessor)

// WithDefine はオブジェクト形式マクロを追加で定義する
func WithDefine(name, replacement string) Option {
	return func(p *PreProcessor) {
		p.macros[name] = replacement
	}
}

// WithoutPredefined は事前定義マクロを全て取り除く
func WithoutPredefined() Option {
	return func(p *PreProcessor) {
		p.macros = map[string]string{}
	}
}

// New はPreProcessorのインスタンスを生成する
func New(src string, opts ...Option) *PreProcessor {
	p := &PreProcessor{
		src:         src,
		line:        1,
		col:         1,
		atLineStart: true,
		macros:      predefinedMacros(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tokens はEOFまでの全トークンを返す。最後の要素は必ずEOF
func (p *PreProcessor) Tokens() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok, err := p.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}

// Next はマクロ展開済みの次のトークンを返す
func (p *PreProcessor) Next() (token.Token, error) {
	if len(p.pending) > 0 {
		tok := p.pending[0]
		p.pending = p.pending[1:]
		return tok, nil
	}
	tok, err := p.lex()
	if err != nil {
		return token.Token{}, err
	}
	if tok.Kind != token.IDENT {
		return tok, nil
	}
	expanded, ok, err := p.expand(tok, map[string]bool{})
	if err != nil {
		return token.Token{}, err
	}
	if !ok {
		return tok, nil
	}
	if len(expanded) == 0 {
		return p.Next()
	}
	p.pending = append(expanded[1:], p.pending...)
	return expanded[0], nil
}

// expand はマクロ名のトークンを置換後のトークン列に展開する
// 置換後のトークンは全て展開元の位置を持つ
func (p *PreProcessor) expand(tok token.Token, active map[string]bool) ([]token.Token, bool, error) {
	if tok.Text == "__LINE__" {
		return []token.Token{{Kind: token.INT, Text: strconv.Itoa(tok.Loc.Line), Loc: tok.Loc}}, true, nil
	}
	replacement, ok := p.macros[tok.Text]
	if !ok || active[tok.Text] {
		return nil, false, nil
	}
	active[tok.Text] = true
	defer delete(active, tok.Text)

	sub := &PreProcessor{src: replacement, line: 1, col: 1}
	var out []token.Token
	for {
		t, err := sub.lex()
		if err != nil {
			return nil, false, errs.NewSyntaxError(tok.Loc, "in expansion of macro '%s': %s", tok.Text, err.Error())
		}
		if t.Kind == token.EOF {
			break
		}
		t.Loc = tok.Loc
		if t.Kind == token.IDENT {
			nested, ok, err := p.expand(t, active)
			if err != nil {
				return nil, false, err
			}
			if ok {
				out = append(out, nested...)
				continue
			}
		}
		out = append(out, t)
	}
	return out, true, nil
}

func (p *PreProcessor) peekByte(offset int) byte {
	if p.pos+offset >= len(p.src) {
		return 0
	}
	return p.src[p.pos+offset]
}

func (p *PreProcessor) advance() byte {
	c := p.src[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
		p.col = 1
		p.atLineStart = true
	} else {
		p.col++
	}
	return c
}

func (p *PreProcessor) location() token.Location {
	return token.Location{Line: p.line, Column: p.col}
}

// skipSpace は空白・行継続・コメントを読み飛ばす
func (p *PreProcessor) skipSpace() error {
	for p.pos < len(p.src) {
		c := p.peekByte(0)
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f' || c == '\n':
			p.advance()
		case c == '\\' && p.peekByte(1) == '\n':
			p.advance()
			p.advance()
		case c == '/' && p.peekByte(1) == '/':
			for p.pos < len(p.src) && p.peekByte(0) != '\n' {
				p.advance()
			}
		case c == '/' && p.peekByte(1) == '*':
			start := p.location()
			p.advance()
			p.advance()
			for {
				if p.pos >= len(p.src) {
					return errs.NewSyntaxError(start, "unterminated comment")
				}
				if p.peekByte(0) == '*' && p.peekByte(1) == '/' {
					p.advance()
					p.advance()
					break
				}
				p.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

func (p *PreProcessor) lex() (token.Token, error) {
	if err := p.skipSpace(); err != nil {
		return token.Token{}, err
	}
	loc := p.location()
	if p.pos >= len(p.src) {
		return token.Token{Kind: token.EOF, Loc: loc}, nil
	}
	lineStart := p.atLineStart
	p.atLineStart = false

	c := p.peekByte(0)
	switch {
	case isIdentStart(c):
		start := p.pos
		for p.pos < len(p.src) && isIdentPart(p.peekByte(0)) {
			p.advance()
		}
		text := p.src[start:p.pos]
		return token.Token{Kind: token.Lookup(text), Text: text, Loc: loc}, nil
	case isDigit(c) || (c == '.' && isDigit(p.peekByte(1))):
		return p.lexNumber(loc), nil
	case c == '\'':
		return p.lexChar(loc)
	case c == '"':
		return token.Token{}, errs.NewSyntaxError(loc, "string literals are not supported")
	case c == '#' && lineStart:
		return token.Token{}, errs.NewSyntaxError(loc, "preprocessing directives are not supported in expressions")
	}
	return p.lexPunct(loc)
}

// lexNumber はpp-numberを読む。整数か浮動小数点数かの区別だけをここで行い、値の解釈は意味解析に任せる
func (p *PreProcessor) lexNumber(loc token.Location) token.Token {
	start := p.pos
	hex := p.peekByte(0) == '0' && (p.peekByte(1) == 'x' || p.peekByte(1) == 'X')
	isFloat := false
	for p.pos < len(p.src) {
		c := p.peekByte(0)
		switch {
		case (c == 'e' || c == 'E') && !hex, (c == 'p' || c == 'P') && hex:
			isFloat = true
			p.advance()
			if n := p.peekByte(0); n == '+' || n == '-' {
				p.advance()
			}
		case c == '.':
			isFloat = true
			p.advance()
		case isIdentPart(c):
			p.advance()
		default:
			return p.numberToken(start, loc, isFloat)
		}
	}
	return p.numberToken(start, loc, isFloat)
}

func (p *PreProcessor) numberToken(start int, loc token.Location, isFloat bool) token.Token {
	kind := token.INT
	if isFloat {
		kind = token.FLOAT
	}
	return token.Token{Kind: kind, Text: p.src[start:p.pos], Loc: loc}
}

func (p *PreProcessor) lexChar(loc token.Location) (token.Token, error) {
	start := p.pos
	p.advance()
	for {
		if p.pos >= len(p.src) || p.peekByte(0) == '\n' {
			return token.Token{}, errs.NewSyntaxError(loc, "missing terminating ' character")
		}
		c := p.advance()
		if c == '\\' {
			if p.pos >= len(p.src) {
				return token.Token{}, errs.NewSyntaxError(loc, "missing terminating ' character")
			}
			p.advance()
			continue
		}
		if c == '\'' {
			break
		}
	}
	text := p.src[start:p.pos]
	if text == "''" {
		return token.Token{}, errs.NewSyntaxError(loc, "empty character constant")
	}
	return token.Token{Kind: token.CHAR, Text: text, Loc: loc}, nil
}

var punctuators = []struct {
	text string
	kind token.Kind
}{
	// 最長一致させるため長いものから並べる
	{"<<=", token.SHL_ASSIGN},
	{">>=", token.SHR_ASSIGN},
	{"<<", token.SHL},
	{">>", token.SHR},
	{"<=", token.LEQ},
	{">=", token.GEQ},
	{"==", token.EQL},
	{"!=", token.NEQ},
	{"&&", token.LAND},
	{"||", token.LOR},
	{"++", token.INC},
	{"--", token.DEC},
	{"+=", token.ADD_ASSIGN},
	{"-=", token.SUB_ASSIGN},
	{"*=", token.MUL_ASSIGN},
	{"/=", token.QUO_ASSIGN},
	{"%=", token.REM_ASSIGN},
	{"&=", token.AND_ASSIGN},
	{"|=", token.OR_ASSIGN},
	{"^=", token.XOR_ASSIGN},
	{"(", token.LPAREN},
	{")", token.RPAREN},
	{",", token.COMMA},
	{"?", token.QUESTION},
	{":", token.COLON},
	{"+", token.ADD},
	{"-", token.SUB},
	{"*", token.MUL},
	{"/", token.QUO},
	{"%", token.REM},
	{"&", token.AND},
	{"|", token.OR},
	{"^", token.XOR},
	{"~", token.TILDE},
	{"!", token.NOT},
	{"<", token.LSS},
	{">", token.GTR},
	{"=", token.ASSIGN},
}

func (p *PreProcessor) lexPunct(loc token.Location) (token.Token, error) {
	rest := p.src[p.pos:]
	for _, punct := range punctuators {
		if len(rest) >= len(punct.text) && rest[:len(punct.text)] == punct.text {
			for range len(punct.text) {
				p.advance()
			}
			return token.Token{Kind: punct.kind, Text: punct.text, Loc: loc}, nil
		}
	}
	return token.Token{}, errs.NewSyntaxError(loc, "invalid character '%c'", rest[0])
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
