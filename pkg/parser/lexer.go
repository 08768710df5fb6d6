package parser

import (
	"fmt"
	"strings"
	"unicode"
)

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNewline
	TokenIdent
	TokenConst
	TokenIVar
	TokenInt
	TokenFloat
	TokenChar
	TokenString
	TokenKeyword
	TokenOp
	TokenAssign
	TokenLParen
	TokenRParen
	TokenDot
	TokenComma
)

type Token struct {
	Kind TokenKind
	Text string

	Position
}

var keywords = map[string]Keyword{
	"def":   KeywordDef,
	"end":   KeywordEnd,
	"class": KeywordClass,
	"if":    KeywordIf,
	"else":  KeywordElse,
	"while": KeywordWhile,
	"true":  KeywordTrue,
	"false": KeywordFalse,
}

type lexer struct {
	file string
	src  []rune
	off  int
	line int
	col  int
}

func newLexer(file, src string) *lexer {
	return &lexer{
		file: file,
		src:  []rune(src),
		line: 1,
		col:  1,
	}
}

func (l *lexer) pos() Position {
	return Position{File: l.file, Line: l.line, Column: l.col}
}

func (l *lexer) peek() rune {
	if l.off >= len(l.src) {
		return 0
	}

	return l.src[l.off]
}

func (l *lexer) peekAt(n int) rune {
	if l.off+n >= len(l.src) {
		return 0
	}

	return l.src[l.off+n]
}

func (l *lexer) next() rune {
	r := l.src[l.off]
	l.off++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

func (l *lexer) token(kind TokenKind, text string, pos Position) Token {
	return Token{Kind: kind, Text: text, Position: pos}
}

// Lex scans until EOF. Runs of blank lines collapse into one newline token.
func (l *lexer) Lex() ([]Token, error) {
	var tokens []Token
	for l.off < len(l.src) {
		pos := l.pos()
		r := l.peek()

		switch {
		case r == '#':
			for l.off < len(l.src) && l.peek() != '\n' {
				l.next()
			}
		case r == '\n' || r == ';':
			l.next()
			if len(tokens) > 0 && tokens[len(tokens)-1].Kind != TokenNewline {
				tokens = append(tokens, l.token(TokenNewline, "\n", pos))
			}
		case r == ' ' || r == '\t' || r == '\r':
			l.next()
		case unicode.IsDigit(r):
			tok, err := l.lexNumber(pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		case r == '@':
			l.next()
			name := l.lexName()
			if name == "" {
				return nil, pos.WrapError(fmt.Errorf("expected instance variable name after '@'"))
			}
			tokens = append(tokens, l.token(TokenIVar, name, pos))
		case unicode.IsLetter(r) || r == '_':
			name := l.lexName()
			switch {
			case keywords[name] != "":
				tokens = append(tokens, l.token(TokenKeyword, name, pos))
			case unicode.IsUpper([]rune(name)[0]):
				tokens = append(tokens, l.token(TokenConst, name, pos))
			default:
				tokens = append(tokens, l.token(TokenIdent, name, pos))
			}
		case r == '"':
			tok, err := l.lexString(pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		case r == '\'':
			tok, err := l.lexChar(pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		case r == '(':
			l.next()
			tokens = append(tokens, l.token(TokenLParen, "(", pos))
		case r == ')':
			l.next()
			tokens = append(tokens, l.token(TokenRParen, ")", pos))
		case r == '.':
			l.next()
			tokens = append(tokens, l.token(TokenDot, ".", pos))
		case r == ',':
			l.next()
			tokens = append(tokens, l.token(TokenComma, ",", pos))
		case r == '=':
			l.next()
			if l.peek() == '=' {
				l.next()
				tokens = append(tokens, l.token(TokenOp, "==", pos))
			} else {
				tokens = append(tokens, l.token(TokenAssign, "=", pos))
			}
		case r == '!':
			l.next()
			if l.peek() != '=' {
				return nil, pos.WrapError(fmt.Errorf("unexpected character %q", r))
			}
			l.next()
			tokens = append(tokens, l.token(TokenOp, "!=", pos))
		case strings.ContainsRune("+-*/<>", r):
			l.next()
			tokens = append(tokens, l.token(TokenOp, string(r), pos))
		default:
			return nil, pos.WrapError(fmt.Errorf("unexpected character %q", r))
		}
	}

	tokens = append(tokens, l.token(TokenEOF, "", l.pos()))

	return tokens, nil
}

func (l *lexer) lexName() string {
	var sb strings.Builder
	for l.off < len(l.src) {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		sb.WriteRune(l.next())
	}

	return sb.String()
}

func (l *lexer) lexNumber(pos Position) (Token, error) {
	var sb strings.Builder
	kind := TokenInt
	for l.off < len(l.src) && unicode.IsDigit(l.peek()) {
		sb.WriteRune(l.next())
	}

	if l.peek() == '.' && unicode.IsDigit(l.peekAt(1)) {
		kind = TokenFloat
		sb.WriteRune(l.next())
		for l.off < len(l.src) && unicode.IsDigit(l.peek()) {
			sb.WriteRune(l.next())
		}
	}

	return l.token(kind, sb.String(), pos), nil
}

func (l *lexer) lexString(pos Position) (Token, error) {
	l.next()
	var sb strings.Builder
	for {
		if l.off >= len(l.src) || l.peek() == '\n' {
			return Token{}, pos.WrapError(fmt.Errorf("unterminated string literal"))
		}

		r := l.next()
		if r == '"' {
			break
		}

		if r == '\\' {
			esc, err := l.lexEscape(pos)
			if err != nil {
				return Token{}, err
			}
			sb.WriteRune(esc)
			continue
		}

		sb.WriteRune(r)
	}

	return l.token(TokenString, sb.String(), pos), nil
}

func (l *lexer) lexChar(pos Position) (Token, error) {
	l.next()
	if l.off >= len(l.src) {
		return Token{}, pos.WrapError(fmt.Errorf("unterminated character literal"))
	}

	r := l.next()
	if r == '\\' {
		esc, err := l.lexEscape(pos)
		if err != nil {
			return Token{}, err
		}
		r = esc
	}

	if l.off >= len(l.src) || l.next() != '\'' {
		return Token{}, pos.WrapError(fmt.Errorf("unterminated character literal"))
	}

	return l.token(TokenChar, string(r), pos), nil
}

func (l *lexer) lexEscape(pos Position) (rune, error) {
	if l.off >= len(l.src) {
		return 0, pos.WrapError(fmt.Errorf("unterminated escape sequence"))
	}

	r := l.next()
	switch r {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case '\\', '"', '\'':
		return r, nil
	default:
		return 0, pos.WrapError(fmt.Errorf("unknown escape sequence \\%c", r))
	}
}
