package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse reads a whole Rill source file into a Program.
func Parse(file string, src io.Reader) (*Program, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", file, err)
	}

	return ParseString(file, string(data))
}

func ParseString(file, src string) (*Program, error) {
	tokens, err := newLexer(file, src).Lex()
	if err != nil {
		return nil, err
	}

	p := &parser{
		tokens: tokens,
		locals: []map[string]bool{make(map[string]bool)},
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	if p.peek().Kind != TokenEOF {
		return nil, p.unexpected(p.peek())
	}

	return &Program{Body: body, Position: Position{File: file, Line: 1, Column: 1}}, nil
}

type parser struct {
	tokens []Token
	off    int

	// locals tracks which bare names were assigned in each enclosing body. A
	// bare name already assigned parses as an Ident; anything else parses as
	// a receiver-less paren-less Call.
	locals []map[string]bool
}

func (p *parser) peek() Token {
	return p.tokens[p.off]
}

func (p *parser) next() Token {
	tok := p.tokens[p.off]
	if tok.Kind != TokenEOF {
		p.off++
	}

	return tok
}

func (p *parser) atKeyword(kws ...Keyword) bool {
	tok := p.peek()
	if tok.Kind != TokenKeyword {
		return false
	}
	for _, kw := range kws {
		if tok.Text == string(kw) {
			return true
		}
	}

	return false
}

func (p *parser) expectKeyword(kw Keyword) error {
	tok := p.next()
	if tok.Kind != TokenKeyword || tok.Text != string(kw) {
		return tok.WrapError(fmt.Errorf("expected %q, found %q", kw, tok.Text))
	}

	return nil
}

func (p *parser) expect(kind TokenKind, what string) (Token, error) {
	tok := p.next()
	if tok.Kind != kind {
		return tok, tok.WrapError(fmt.Errorf("expected %s, found %q", what, tok.Text))
	}

	return tok, nil
}

func (p *parser) unexpected(tok Token) error {
	if tok.Kind == TokenEOF {
		return tok.WrapError(fmt.Errorf("unexpected end of file"))
	}

	return tok.WrapError(fmt.Errorf("unexpected %q", tok.Text))
}

func (p *parser) skipNewlines() {
	for p.peek().Kind == TokenNewline {
		p.next()
	}
}

func (p *parser) pushScope() {
	p.locals = append(p.locals, make(map[string]bool))
}

func (p *parser) popScope() {
	p.locals = p.locals[:len(p.locals)-1]
}

func (p *parser) declareLocal(name string) {
	p.locals[len(p.locals)-1][name] = true
}

func (p *parser) isLocal(name string) bool {
	return p.locals[len(p.locals)-1][name]
}

// parseBlock reads statements until end/else/EOF. The terminating token is
// left for the caller.
func (p *parser) parseBlock() (*Block, error) {
	block := &Block{Position: p.peek().Position}
	for {
		p.skipNewlines()
		if p.peek().Kind == TokenEOF || p.atKeyword(KeywordEnd, KeywordElse) {
			return block, nil
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		block.Statements = append(block.Statements, stmt)

		switch p.peek().Kind {
		case TokenNewline:
			p.next()
		case TokenEOF:
		default:
			if !p.atKeyword(KeywordEnd, KeywordElse) {
				return nil, p.unexpected(p.peek())
			}
		}
	}
}

func (p *parser) parseStatement() (Node, error) {
	if p.peek().Kind == TokenKeyword {
		switch Keyword(p.peek().Text) {
		case KeywordDef:
			return p.parseDef()
		case KeywordClass:
			return p.parseClass()
		case KeywordIf:
			return p.parseIf()
		case KeywordWhile:
			return p.parseWhile()
		}
	}

	return p.parseExpr()
}

func (p *parser) parseDef() (Node, error) {
	pos := p.next().Position

	name, err := p.expect(TokenIdent, "method name")
	if err != nil {
		return nil, err
	}

	p.pushScope()
	defer p.popScope()
	p.declareLocal("self")

	var params []string
	if p.peek().Kind == TokenLParen {
		p.next()
		for p.peek().Kind != TokenRParen {
			param, err := p.expect(TokenIdent, "parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param.Text)
			p.declareLocal(param.Text)

			if p.peek().Kind != TokenComma {
				break
			}
			p.next()
		}
		if _, err := p.expect(TokenRParen, `")"`); err != nil {
			return nil, err
		}
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	if err := p.expectKeyword(KeywordEnd); err != nil {
		return nil, err
	}

	return &Def{Name: name.Text, Params: params, Body: body, Position: pos}, nil
}

func (p *parser) parseClass() (Node, error) {
	pos := p.next().Position

	name, err := p.expect(TokenConst, "class name")
	if err != nil {
		return nil, err
	}

	p.pushScope()
	body, err := p.parseBlock()
	p.popScope()
	if err != nil {
		return nil, err
	}

	if err := p.expectKeyword(KeywordEnd); err != nil {
		return nil, err
	}

	return &ClassDef{Name: name.Text, Body: body, Position: pos}, nil
}

func (p *parser) parseIf() (Node, error) {
	pos := p.next().Position

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elseBlock *Block
	if p.atKeyword(KeywordElse) {
		p.next()
		elseBlock, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	if err := p.expectKeyword(KeywordEnd); err != nil {
		return nil, err
	}

	return &If{Cond: cond, Then: then, Else: elseBlock, Position: pos}, nil
}

func (p *parser) parseWhile() (Node, error) {
	pos := p.next().Position

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	if err := p.expectKeyword(KeywordEnd); err != nil {
		return nil, err
	}

	return &While{Cond: cond, Body: body, Position: pos}, nil
}

func (p *parser) parseExpr() (Node, error) {
	// Assignments are recognized by lookahead so targets never parse as
	// calls: name/@name followed by "=".
	tok := p.peek()
	if (tok.Kind == TokenIdent || tok.Kind == TokenIVar) && p.tokens[p.off+1].Kind == TokenAssign {
		p.next()
		p.next()

		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		var target Node
		if tok.Kind == TokenIVar {
			target = &IVar{Name: tok.Text, Position: tok.Position}
		} else {
			p.declareLocal(tok.Text)
			target = &Ident{Name: tok.Text, Position: tok.Position}
		}

		return &Assign{Target: target, Value: value, Position: tok.Position}, nil
	}

	return p.parseBinary(0)
}

// Binary operators are sugar for method calls on the left operand.
var precedence = []map[string]bool{
	{"==": true, "!=": true},
	{"<": true, ">": true},
	{"+": true, "-": true},
	{"*": true, "/": true},
}

func (p *parser) parseBinary(level int) (Node, error) {
	if level >= len(precedence) {
		return p.parsePostfix()
	}

	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}

	for p.peek().Kind == TokenOp && precedence[level][p.peek().Text] {
		op := p.next()

		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}

		left = &Call{
			Receiver:  left,
			Name:      op.Text,
			Args:      []Node{right},
			HasParens: true,
			Position:  op.Position,
		}
	}

	return left, nil
}

func (p *parser) parsePostfix() (Node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.peek().Kind == TokenDot {
		pos := p.next().Position

		name, err := p.expect(TokenIdent, "method name")
		if err != nil {
			return nil, err
		}

		call := &Call{Receiver: expr, Name: name.Text, Position: pos}
		if p.peek().Kind == TokenLParen {
			call.HasParens = true
			call.Args, err = p.parseArgs()
			if err != nil {
				return nil, err
			}
		}

		expr = call
	}

	return expr, nil
}

func (p *parser) parseArgs() ([]Node, error) {
	if _, err := p.expect(TokenLParen, `"("`); err != nil {
		return nil, err
	}

	var args []Node
	for p.peek().Kind != TokenRParen {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if p.peek().Kind != TokenComma {
			break
		}
		p.next()
	}

	if _, err := p.expect(TokenRParen, `")"`); err != nil {
		return nil, err
	}

	return args, nil
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenInt:
		p.next()
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, tok.WrapError(fmt.Errorf("invalid integer literal %q", tok.Text))
		}

		return &IntLit{Value: v, Position: tok.Position}, nil
	case TokenFloat:
		p.next()
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, tok.WrapError(fmt.Errorf("invalid float literal %q", tok.Text))
		}

		return &FloatLit{Value: v, Position: tok.Position}, nil
	case TokenChar:
		p.next()

		return &CharLit{Value: []rune(tok.Text)[0], Position: tok.Position}, nil
	case TokenString:
		p.next()

		return &StringLit{Value: tok.Text, Position: tok.Position}, nil
	case TokenKeyword:
		switch Keyword(tok.Text) {
		case KeywordTrue, KeywordFalse:
			p.next()

			return &BoolLit{Value: tok.Text == string(KeywordTrue), Position: tok.Position}, nil
		}

		return nil, p.unexpected(tok)
	case TokenIVar:
		p.next()

		return &IVar{Name: tok.Text, Position: tok.Position}, nil
	case TokenConst:
		p.next()

		return &Const{Name: tok.Text, Position: tok.Position}, nil
	case TokenIdent:
		p.next()
		if p.peek().Kind == TokenLParen {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}

			return &Call{Name: tok.Text, Args: args, HasParens: true, Position: tok.Position}, nil
		}

		if p.isLocal(tok.Text) {
			return &Ident{Name: tok.Text, Position: tok.Position}, nil
		}

		return &Call{Name: tok.Text, Position: tok.Position}, nil
	case TokenLParen:
		p.next()

		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenRParen, `")"`); err != nil {
			return nil, err
		}

		return expr, nil
	default:
		return nil, p.unexpected(tok)
	}
}

// Dump renders a parse tree for the "rill ast" command.
func Dump(node Node) string {
	var sb strings.Builder
	dump(&sb, node, 0)

	return sb.String()
}

func dump(sb *strings.Builder, node Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch node := node.(type) {
	case *Program:
		dump(sb, node.Body, depth)
	case *Block:
		fmt.Fprintf(sb, "%sblock\n", indent)
		for _, stmt := range node.Statements {
			dump(sb, stmt, depth+1)
		}
	case *BoolLit:
		fmt.Fprintf(sb, "%sbool %v\n", indent, node.Value)
	case *IntLit:
		fmt.Fprintf(sb, "%sint %d\n", indent, node.Value)
	case *FloatLit:
		fmt.Fprintf(sb, "%sfloat %v\n", indent, node.Value)
	case *CharLit:
		fmt.Fprintf(sb, "%schar %q\n", indent, node.Value)
	case *StringLit:
		fmt.Fprintf(sb, "%sstring %q\n", indent, node.Value)
	case *Ident:
		fmt.Fprintf(sb, "%sident %s\n", indent, node.Name)
	case *IVar:
		fmt.Fprintf(sb, "%sivar @%s\n", indent, node.Name)
	case *Const:
		fmt.Fprintf(sb, "%sconst %s\n", indent, node.Name)
	case *Assign:
		fmt.Fprintf(sb, "%sassign\n", indent)
		dump(sb, node.Target, depth+1)
		dump(sb, node.Value, depth+1)
	case *Call:
		fmt.Fprintf(sb, "%scall %s\n", indent, node.Name)
		if node.Receiver != nil {
			dump(sb, node.Receiver, depth+1)
		}
		for _, arg := range node.Args {
			dump(sb, arg, depth+1)
		}
	case *Def:
		fmt.Fprintf(sb, "%sdef %s(%s)\n", indent, node.Name, strings.Join(node.Params, ", "))
		dump(sb, node.Body, depth+1)
	case *ClassDef:
		fmt.Fprintf(sb, "%sclass %s\n", indent, node.Name)
		dump(sb, node.Body, depth+1)
	case *If:
		fmt.Fprintf(sb, "%sif\n", indent)
		dump(sb, node.Cond, depth+1)
		dump(sb, node.Then, depth+1)
		if node.Else != nil {
			dump(sb, node.Else, depth+1)
		}
	case *While:
		fmt.Fprintf(sb, "%swhile\n", indent)
		dump(sb, node.Cond, depth+1)
		dump(sb, node.Body, depth+1)
	}
}
