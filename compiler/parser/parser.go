// Package parser はトークン列からCの式の構文木を組み立てる
package parser

import (
	"github.com/kakkky/csole/compiler/ast"
	"github.com/kakkky/csole/compiler/cpp"
	"github.com/kakkky/csole/compiler/token"
	"github.com/kakkky/csole/errs"
)

// Parser は再帰下降でCの式を解析する
type Parser struct {
	toks []token.Token
	pos  int
}

// New はParserのインスタンスを生成する。toksの末尾はEOFでなければならない
func New(toks []token.Token) *Parser {
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		toks = append(toks, token.Token{Kind: token.EOF})
	}
	return &Parser{toks: toks}
}

// ParseExpr はソースを前処理して1つの式として解析する
func ParseExpr(src string, opts ...cpp.Option) (ast.Expr, error) {
	toks, err := cpp.New(src, opts...).Tokens()
	if err != nil {
		return nil, err
	}
	return New(toks).Expr()
}

// Expr は入力全体を1つの式として解析する。式の後ろに余分なトークンがあればエラー
func (p *Parser) Expr() (ast.Expr, error) {
	if p.peek().Kind == token.EOF {
		return nil, errs.NewSyntaxError(p.peek().Loc, "expected expression, got end of input")
	}
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != token.EOF {
		return nil, errs.NewSyntaxError(tok.Loc, "unexpected %s after expression", tok)
	}
	return x, nil
}

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) peekAt(offset int) token.Token {
	if p.pos+offset >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+offset]
}

func (p *Parser) next() token.Token {
	tok := p.toks[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return token.Token{}, errs.NewSyntaxError(tok.Loc, "expected '%s', got %s", kind, tok)
	}
	return p.next(), nil
}

// expression := assignment (',' assignment)*
func (p *Parser) parseExpr() (ast.Expr, error) {
	x, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == token.COMMA {
		op := p.next()
		y, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		x = &ast.Binary{Loc: op.Loc, Op: token.COMMA, X: x, Y: y}
	}
	return x, nil
}

// assignment := conditional (assign-op assignment)?
// 左辺が代入可能かどうかは意味解析で判定する
func (p *Parser) parseAssign() (ast.Expr, error) {
	x, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind.IsAssign() {
		p.next()
		y, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Loc: tok.Loc, Op: tok.Kind, X: x, Y: y}, nil
	}
	return x, nil
}

// conditional := binary ('?' expression ':' conditional)?
func (p *Parser) parseCond() (ast.Expr, error) {
	c, err := p.parseBinary(lowestPrec)
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != token.QUESTION {
		return c, nil
	}
	q := p.next()
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	els, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	return &ast.Cond{Loc: q.Loc, C: c, Then: then, Else: els}, nil
}

const lowestPrec = 1

var binaryPrec = map[token.Kind]int{
	token.LOR:  1,
	token.LAND: 2,
	token.OR:   3,
	token.XOR:  4,
	token.AND:  5,
	token.EQL:  6,
	token.NEQ:  6,
	token.LSS:  7,
	token.GTR:  7,
	token.LEQ:  7,
	token.GEQ:  7,
	token.SHL:  8,
	token.SHR:  8,
	token.ADD:  9,
	token.SUB:  9,
	token.MUL:  10,
	token.QUO:  10,
	token.REM:  10,
}

// 優先順位法で左結合の二項演算を解析する
func (p *Parser) parseBinary(minPrec int) (ast.Expr, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		prec, ok := binaryPrec[op.Kind]
		if !ok || prec < minPrec {
			return x, nil
		}
		p.next()
		y, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		x = &ast.Binary{Loc: op.Loc, Op: op.Kind, X: x, Y: y}
	}
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.ADD, token.SUB, token.TILDE, token.NOT, token.INC, token.DEC:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Loc: tok.Loc, Op: tok.Kind, X: x}, nil
	case token.SIZEOF, token.ALIGNOF:
		return p.parseSizeof()
	case token.LPAREN:
		if p.peekAt(1).Kind.IsTypeSpecifier() {
			return p.parseCast()
		}
	}
	return p.parsePostfix()
}

// sizeof unary | sizeof '(' type-name ')'
func (p *Parser) parseSizeof() (ast.Expr, error) {
	tok := p.next()
	alignof := tok.Kind == token.ALIGNOF
	if p.peek().Kind == token.LPAREN && p.peekAt(1).Kind.IsTypeSpecifier() {
		p.next()
		typ, err := p.parseTypeName()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return &ast.SizeofType{Loc: tok.Loc, Alignof: alignof, Type: typ}, nil
	}
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.SizeofExpr{Loc: tok.Loc, Alignof: alignof, X: x}, nil
}

// '(' type-name ')' unary
func (p *Parser) parseCast() (ast.Expr, error) {
	lparen := p.next()
	typ, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.Cast{Loc: lparen.Loc, Type: typ, X: x}, nil
}

// type-name := specifier+ '*'*
// 指定子の組み合わせの妥当性は意味解析で判定する
func (p *Parser) parseTypeName() (*ast.TypeName, error) {
	typ := &ast.TypeName{Loc: p.peek().Loc}
	for p.peek().Kind.IsTypeSpecifier() {
		typ.Specifiers = append(typ.Specifiers, p.next().Kind)
	}
	if len(typ.Specifiers) == 0 {
		return nil, errs.NewSyntaxError(p.peek().Loc, "expected type name, got %s", p.peek())
	}
	for p.peek().Kind == token.MUL {
		p.next()
		typ.Pointers++
		// 'int * const' のようなポインタへの修飾子は読み飛ばす
		for p.peek().Kind == token.CONST || p.peek().Kind == token.VOLATILE {
			p.next()
		}
	}
	return typ, nil
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.INC, token.DEC:
			p.next()
			x = &ast.Postfix{Loc: tok.Loc, Op: tok.Kind, X: x}
		case token.LPAREN:
			p.next()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			x = &ast.Call{Loc: tok.Loc, Fun: x, Args: args}
		default:
			return x, nil
		}
	}
}

func (p *Parser) parseArgs() ([]ast.Expr, error) {
	var args []ast.Expr
	if p.peek().Kind == token.RPAREN {
		p.next()
		return args, nil
	}
	for {
		arg, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().Kind != token.COMMA {
			break
		}
		p.next()
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.INT:
		p.next()
		return &ast.IntLit{Loc: tok.Loc, Text: tok.Text}, nil
	case token.FLOAT:
		p.next()
		return &ast.FloatLit{Loc: tok.Loc, Text: tok.Text}, nil
	case token.CHAR:
		p.next()
		return &ast.CharLit{Loc: tok.Loc, Text: tok.Text}, nil
	case token.IDENT:
		p.next()
		return &ast.Ident{Loc: tok.Loc, Name: tok.Text}, nil
	case token.LPAREN:
		p.next()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return &ast.Paren{Loc: tok.Loc, X: x}, nil
	}
	return nil, errs.NewSyntaxError(tok.Loc, "expected expression, got %s", tok)
}
