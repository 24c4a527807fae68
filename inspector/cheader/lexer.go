package cheader

import (
	"strings"
	"unicode/utf8"

	"github.com/viant/autofake/inspector/graph"
)

// Lexer produces tokens on demand, it can be restarted from any saved Mark
type Lexer struct {
	file   string
	src    []byte
	offset int
	line   int
	col    int
	bol    bool // only whitespace seen since line start
}

// Mark represents saved lexer state
type Mark struct {
	offset int
	line   int
	col    int
	bol    bool
}

// NewLexer creates a lexer
func NewLexer(file string, src []byte) *Lexer {
	return &Lexer{file: file, src: src, line: 1, col: 1, bol: true}
}

// Mark returns current lexer state
func (l *Lexer) Mark() Mark {
	return Mark{offset: l.offset, line: l.line, col: l.col, bol: l.bol}
}

// Reset restores state returned by Mark
func (l *Lexer) Reset(mark Mark) {
	l.offset, l.line, l.col, l.bol = mark.offset, mark.line, mark.col, mark.bol
}

// Tokenize returns all tokens of src, the last one is EOF
func Tokenize(file string, src []byte) ([]*Token, error) {
	lexer := NewLexer(file, src)
	var result []*Token
	for {
		token, err := lexer.Next()
		if err != nil {
			return nil, err
		}
		result = append(result, token)
		if token.Kind == EOF {
			return result, nil
		}
	}
}

// Next returns next token
func (l *Lexer) Next() (*Token, error) {
	space, err := l.skipSpace()
	if err != nil {
		return nil, err
	}
	start := l.pos()
	if l.offset >= len(l.src) {
		return &Token{Kind: EOF, Pos: start, End: l.offset, Space: space}, nil
	}
	c := l.peek(0)
	if c == '#' && l.bol {
		return l.directive(start, space)
	}
	l.bol = false
	token := &Token{Pos: start, Space: space}
	switch {
	case isIdentStart(c):
		for isIdentChar(l.peek(0)) {
			l.advance()
		}
		token.Val = string(l.src[start.Offset:l.offset])
		token.Kind = Ident
		if keywords[token.Val] {
			token.Kind = Keyword
		}
		if isLiteralPrefix(token.Val) && (l.peek(0) == '"' || l.peek(0) == '\'') {
			if err = l.quoted(start); err != nil {
				return nil, err
			}
			token.Kind = Literal
		}
	case isDigit(c) || (c == '.' && isDigit(l.peek(1))):
		l.number()
		token.Kind = Literal
	case c == '"' || c == '\'':
		if err = l.quoted(start); err != nil {
			return nil, err
		}
		token.Kind = Literal
	case c == '.' && l.peek(1) == '.' && l.peek(2) == '.':
		l.advance()
		l.advance()
		l.advance()
		token.Kind = Punct
	default:
		_, size := utf8.DecodeRune(l.src[l.offset:])
		for i := 0; i < size; i++ {
			l.advance()
		}
		token.Kind = Punct
	}
	token.Val = string(l.src[start.Offset:l.offset])
	token.End = l.offset
	return token, nil
}

func (l *Lexer) skipSpace() (bool, error) {
	space := false
	for l.offset < len(l.src) {
		c := l.peek(0)
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == '\v':
			l.advance()
		case c == '\\' && l.peek(1) == '\n':
			l.advance()
			l.advance()
		case c == '\\' && l.peek(1) == '\r' && l.peek(2) == '\n':
			l.advance()
			l.advance()
			l.advance()
		case c == '/' && l.peek(1) == '/':
			l.lineComment()
		case c == '/' && l.peek(1) == '*':
			if err := l.blockComment(); err != nil {
				return space, err
			}
		default:
			return space, nil
		}
		space = true
	}
	return space, nil
}

// directive reads the whole logical line, comments are removed from Val
func (l *Lexer) directive(start graph.Position, space bool) (*Token, error) {
	builder := &strings.Builder{}
	for l.offset < len(l.src) {
		c := l.peek(0)
		switch {
		case c == '\n':
			return l.directiveToken(start, space, builder), nil
		case c == '\\' && l.peek(1) == '\n':
			l.advance()
			l.advance()
			builder.WriteByte(' ')
		case c == '\\' && l.peek(1) == '\r' && l.peek(2) == '\n':
			l.advance()
			l.advance()
			l.advance()
			builder.WriteByte(' ')
		case c == '/' && l.peek(1) == '/':
			l.lineComment()
		case c == '/' && l.peek(1) == '*':
			if err := l.blockComment(); err != nil {
				return nil, err
			}
			builder.WriteByte(' ')
		case c == '"' || c == '\'':
			begin := l.offset
			l.advance()
			for l.offset < len(l.src) && l.peek(0) != '\n' {
				ch := l.peek(0)
				l.advance()
				if ch == '\\' && l.offset < len(l.src) && l.peek(0) != '\n' {
					l.advance()
					continue
				}
				if ch == c {
					break
				}
			}
			builder.Write(l.src[begin:l.offset])
		default:
			builder.WriteByte(c)
			l.advance()
		}
	}
	return l.directiveToken(start, space, builder), nil
}

func (l *Lexer) directiveToken(start graph.Position, space bool, builder *strings.Builder) *Token {
	end := l.offset
	for end > start.Offset && isSpace(l.src[end-1]) {
		end--
	}
	text := strings.TrimPrefix(builder.String(), "#")
	return &Token{
		Kind:  Directive,
		Val:   "#" + strings.Join(strings.Fields(text), " "),
		Pos:   start,
		End:   end,
		Space: space,
	}
}

func (l *Lexer) quoted(start graph.Position) error {
	quote := l.peek(0)
	l.advance()
	for {
		if l.offset >= len(l.src) || l.peek(0) == '\n' {
			if quote == '"' {
				return &LexError{Pos: start, Msg: "unterminated string literal"}
			}
			return &LexError{Pos: start, Msg: "unterminated character literal"}
		}
		c := l.peek(0)
		l.advance()
		switch c {
		case '\\':
			if l.offset < len(l.src) {
				l.advance()
			}
		case quote:
			return nil
		}
	}
}

func (l *Lexer) number() {
	prev := byte(0)
	for l.offset < len(l.src) {
		c := l.peek(0)
		exponentSign := (c == '+' || c == '-') && (prev == 'e' || prev == 'E' || prev == 'p' || prev == 'P')
		if !isIdentChar(c) && c != '.' && !exponentSign {
			return
		}
		prev = c
		l.advance()
	}
}

func (l *Lexer) lineComment() {
	for l.offset < len(l.src) && l.peek(0) != '\n' {
		l.advance()
	}
}

func (l *Lexer) blockComment() error {
	start := l.pos()
	l.advance()
	l.advance()
	for l.offset < len(l.src) {
		if l.peek(0) == '*' && l.peek(1) == '/' {
			l.advance()
			l.advance()
			return nil
		}
		l.advance()
	}
	return &LexError{Pos: start, Msg: "unterminated comment"}
}

func (l *Lexer) pos() graph.Position {
	return graph.Position{File: l.file, Line: l.line, Column: l.col, Offset: l.offset}
}

func (l *Lexer) peek(n int) byte {
	if l.offset+n < len(l.src) {
		return l.src[l.offset+n]
	}
	return 0
}

func (l *Lexer) advance() {
	if l.src[l.offset] == '\n' {
		l.line++
		l.col = 1
		l.bol = true
	} else {
		l.col++
	}
	l.offset++
}

func isLiteralPrefix(val string) bool {
	return val == "L" || val == "u" || val == "U" || val == "u8"
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '$'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == '\v'
}
