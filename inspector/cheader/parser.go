package cheader

import (
	"strings"

	"github.com/viant/autofake/inspector/graph"
)

// Parser turns header tokens into declarations
type Parser struct {
	path    string
	src     []byte
	tokens  []*Token
	pos     int
	ignore  map[string]bool
	guard   map[*Token]bool
	linkage int // open extern "C" blocks
	file    *graph.File
}

// Option represents parser option
type Option func(*Parser)

// WithIgnoreKeywords sets identifiers dropped together with an optional (...) argument
func WithIgnoreKeywords(keywords ...string) Option {
	return func(p *Parser) {
		p.ignore = make(map[string]bool)
		for _, keyword := range keywords {
			p.ignore[keyword] = true
		}
	}
}

// NewParser creates a parser, src is used to extract verbatim declaration text
func NewParser(path string, src []byte, tokens []*Token, options ...Option) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != EOF {
		tokens = append(tokens, &Token{Kind: EOF, Pos: graph.Position{File: path}, End: len(src)})
	}
	ret := &Parser{path: path, src: src, tokens: tokens, guard: map[*Token]bool{}}
	WithIgnoreKeywords(DefaultIgnoreKeywords...)(ret)
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Parse tokenizes and parses header source
func Parse(path string, src []byte, options ...Option) (*graph.File, error) {
	tokens, err := Tokenize(path, src)
	if err != nil {
		return nil, err
	}
	return NewParser(path, src, tokens, options...).Parse()
}

// Parse parses all tokens into a file
func (p *Parser) Parse() (*graph.File, error) {
	p.file = graph.NewFile(p.path)
	p.detectGuard()
	for {
		token := p.peek()
		switch {
		case token.Kind == EOF:
			if p.linkage > 0 {
				return nil, p.expected("'}' closing extern \"C\"")
			}
			return p.file, nil
		case token.Kind == Directive:
			p.next()
			if p.guard[token] {
				continue
			}
			if err := p.directive(token); err != nil {
				return nil, err
			}
		case token.Is(Punct, ";"):
			p.next()
		case token.Is(Punct, "}") && p.linkage > 0:
			p.next()
			p.linkage--
		case p.isLinkageBlock():
			p.pos += 3
			p.linkage++
		default:
			if err := p.declaration(); err != nil {
				return nil, err
			}
		}
	}
}

func (p *Parser) isLinkageBlock() bool {
	return p.peek().Is(Keyword, "extern") && p.peekAt(1).Kind == Literal && p.peekAt(2).Is(Punct, "{")
}

// detectGuard recognizes leading #ifndef X / #define X paired with the last #endif
func (p *Parser) detectGuard() {
	if len(p.tokens) < 4 {
		return
	}
	ifndef, define, endif := p.tokens[0], p.tokens[1], p.tokens[len(p.tokens)-2]
	if ifndef.Kind != Directive || define.Kind != Directive || endif.Kind != Directive {
		return
	}
	cond, define1 := strings.Fields(ifndef.Val), strings.Fields(define.Val)
	if len(cond) != 2 || cond[0] != "#ifndef" || len(define1) != 2 || define1[0] != "#define" || cond[1] != define1[1] {
		return
	}
	if keyword, _ := directiveKeyword(endif.Val); keyword != "endif" {
		return
	}
	depth := 0
	for i, token := range p.tokens[:len(p.tokens)-1] {
		if token.Kind != Directive {
			continue
		}
		switch keyword, _ := directiveKeyword(token.Val); keyword {
		case "if", "ifdef", "ifndef":
			depth++
		case "endif":
			depth--
			if depth == 0 && i != len(p.tokens)-2 {
				return
			}
		}
	}
	p.file.Guard = cond[1]
	p.guard[ifndef], p.guard[define], p.guard[endif] = true, true, true
}

func (p *Parser) directive(token *Token) error {
	keyword, rest := directiveKeyword(token.Val)
	directive := &graph.Directive{Keyword: keyword, Text: token.Val}
	directive.Name = keyword
	directive.Raw = p.raw(token, token)
	directive.Position = token.Pos
	switch keyword {
	case "define", "undef", "ifdef", "ifndef":
		if fields := strings.FieldsFunc(rest, func(r rune) bool { return r == ' ' || r == '(' }); len(fields) > 0 {
			directive.Name = fields[0]
		}
	case "pragma":
		if rest == "once" {
			p.file.PragmaOnce = true
			return nil
		}
	case "include", "include_next", "import":
		include, err := p.include(token, rest)
		if err != nil {
			return err
		}
		directive.Include = include
		if include != nil {
			directive.Name = include.Path
		}
	}
	p.file.AddDeclaration(directive)
	return nil
}

func (p *Parser) include(token *Token, rest string) (*graph.Include, error) {
	if rest == "" {
		return nil, &ParseError{Pos: token.Pos, Expected: "include path", Found: "end of line"}
	}
	var closing string
	switch rest[0] {
	case '"':
		closing = `"`
	case '<':
		closing = ">"
	default: // computed include
		return nil, nil
	}
	end := strings.Index(rest[1:], closing)
	if end == -1 {
		return nil, &ParseError{Pos: token.Pos, Expected: "'" + closing + "' closing include path", Found: "end of line"}
	}
	return &graph.Include{
		From:     p.path,
		Path:     rest[1 : end+1],
		Angled:   closing == ">",
		Position: token.Pos,
	}, nil
}

func directiveKeyword(text string) (string, string) {
	text = strings.TrimSpace(strings.TrimPrefix(text, "#"))
	idx := strings.IndexAny(text, " \t<\"(")
	if idx == -1 {
		return text, ""
	}
	return text[:idx], strings.TrimSpace(text[idx:])
}

type specifiers struct {
	typedef bool
	storage []string
	typ     *graph.TypeRef
	body    *body
}

type body struct {
	keyword string
	tag     string
	members []string
}

type item struct {
	name        string
	typ         *graph.TypeRef
	initialized bool
}

func (p *Parser) declaration() error {
	start := p.peek()
	spec, err := p.specifiers(true)
	if err != nil {
		return err
	}
	if p.peek().Is(Punct, ";") {
		return p.tagDeclaration(spec, start, p.next())
	}
	var items []*item
	var end *Token
	for end == nil {
		d, err := p.declarator(false)
		if err != nil {
			return err
		}
		typ, err := d.build(spec.typ)
		if err != nil {
			return err
		}
		if _, err = p.skipIgnored(); err != nil {
			return err
		}
		current := &item{name: d.identifier(), typ: typ}
		token := p.peek()
		switch {
		case token.Is(Punct, "{"):
			if !typ.IsFunction() || len(items) > 0 || spec.typedef || spec.body != nil {
				return p.expected("';'")
			}
			closing, err := p.balanced()
			if err != nil {
				return err
			}
			function := &graph.Function{Decl: p.decl(spec, current, start, closing)}
			function.HasBody = true
			p.file.AddDeclaration(function)
			return nil
		case token.Is(Punct, "="):
			if spec.typedef || typ.IsFunction() {
				return p.expected("';'")
			}
			if err = p.skipInitializer(); err != nil {
				return err
			}
			current.initialized = true
		case token.Is(Punct, ":"):
			return &UnsupportedError{Pos: token.Pos, Construct: "bit-field outside of struct"}
		case typ.IsFunction() && p.isParameterDeclaration():
			return &UnsupportedError{Pos: token.Pos, Construct: "K&R style parameter declarations"}
		}
		items = append(items, current)
		switch token = p.peek(); {
		case token.Is(Punct, ","):
			p.next()
		case token.Is(Punct, ";"):
			end = p.next()
		default:
			return p.expected("';'")
		}
	}
	if spec.body != nil {
		return p.tagDeclaration(spec, start, end, items...)
	}
	for _, current := range items {
		decl := p.decl(spec, current, start, end)
		switch {
		case spec.typedef && current.typ.Func != nil && len(current.typ.Arrays) == 0:
			p.file.AddDeclaration(&graph.FunctionPointerTypedef{Decl: decl})
		case spec.typedef:
			p.file.AddDeclaration(&graph.TypeAlias{Decl: decl})
		case current.typ.IsFunction():
			p.file.AddDeclaration(&graph.Function{Decl: decl})
		default:
			p.file.AddDeclaration(&graph.Variable{Decl: decl, Initialized: current.initialized})
		}
	}
	return nil
}

// tagDeclaration handles enum, struct and union definitions, forward declarations and typedefs of them
func (p *Parser) tagDeclaration(spec *specifiers, start, end *Token, items ...*item) error {
	name := ""
	if len(items) > 0 {
		name = items[0].name
	}
	if spec.body == nil {
		keyword, tag, _ := strings.Cut(spec.typ.Name, " ")
		if tag == "" || (keyword != "struct" && keyword != "union" && keyword != "enum") {
			return &ParseError{Pos: end.Pos, Expected: "declarator", Found: end.String()}
		}
		decl := p.decl(spec, &item{name: tag, typ: spec.typ}, start, end)
		p.file.AddDeclaration(&graph.Record{Decl: decl, Keyword: keyword, Opaque: true})
		return nil
	}
	if name == "" {
		name = spec.body.tag
	}
	decl := p.decl(spec, &item{name: name, typ: spec.typ}, start, end)
	if spec.body.keyword == "enum" {
		p.file.AddDeclaration(&graph.Enum{Decl: decl, Members: spec.body.members})
		return nil
	}
	p.file.AddDeclaration(&graph.Record{Decl: decl, Keyword: spec.body.keyword})
	return nil
}

func (p *Parser) decl(spec *specifiers, current *item, start, end *Token) graph.Decl {
	return graph.Decl{
		Name:     current.name,
		Type:     current.typ,
		Storage:  spec.storage,
		Raw:      p.raw(start, end),
		Position: start.Pos,
	}
}

func (p *Parser) specifiers(topLevel bool) (*specifiers, error) {
	spec := &specifiers{typ: &graph.TypeRef{}}
	builtin := false
	for {
		skipped, err := p.skipIgnored()
		if err != nil {
			return nil, err
		}
		if skipped {
			continue
		}
		token := p.peek()
		switch {
		case token.Is(Keyword, "typedef"):
			if !topLevel {
				return nil, p.expected("parameter type")
			}
			spec.typedef = true
		case token.Kind == Keyword && storageClasses[token.Val]:
			if !topLevel && token.Val != "register" {
				return nil, p.expected("parameter type")
			}
			spec.storage = append(spec.storage, token.Val)
			if token.Val == "extern" && p.peekAt(1).Kind == Literal {
				p.next() // linkage "C"
			}
		case token.Kind == Keyword && qualifiers[token.Val]:
			if spec.typ.Name == "" {
				spec.typ.Qualifiers = append(spec.typ.Qualifiers, token.Val)
			} else {
				spec.typ.PostQualifiers = append(spec.typ.PostQualifiers, token.Val)
			}
		case token.Kind == Keyword && builtinTypes[token.Val]:
			if spec.typ.Name != "" && !builtin {
				return nil, p.expected("declarator")
			}
			builtin = true
			if spec.typ.Name != "" {
				after := len(strings.Fields(spec.typ.Name))
				for _, qualifier := range spec.typ.PostQualifiers {
					spec.typ.Inner = append(spec.typ.Inner, &graph.Inner{After: after, Qualifier: qualifier})
				}
				spec.typ.PostQualifiers = nil
			}
			spec.typ.Name = strings.TrimSpace(spec.typ.Name + " " + token.Val)
		case token.Is(Keyword, "struct") || token.Is(Keyword, "union") || token.Is(Keyword, "enum"):
			if spec.typ.Name != "" {
				return nil, p.expected("declarator")
			}
			if err = p.tagSpecifier(spec, topLevel); err != nil {
				return nil, err
			}
			continue
		case token.Kind == Ident:
			if spec.typ.Name != "" {
				return spec, nil
			}
			spec.typ.Name = token.Val
		default:
			if spec.typ.Name == "" {
				return nil, p.expected("type specifier")
			}
			return spec, nil
		}
		p.next()
	}
}

func (p *Parser) tagSpecifier(spec *specifiers, topLevel bool) error {
	keyword := p.next()
	if _, err := p.skipIgnored(); err != nil {
		return err
	}
	name, tag := keyword.Val, ""
	if p.peek().Kind == Ident {
		tag = p.next().Val
		name += " " + tag
	}
	if _, err := p.skipIgnored(); err != nil {
		return err
	}
	spec.typ.Name = name
	if !p.peek().Is(Punct, "{") {
		if tag == "" {
			return p.expected(keyword.Val + " tag or body")
		}
		return nil
	}
	if !topLevel {
		return &UnsupportedError{Pos: keyword.Pos, Construct: keyword.Val + " definition in parameter list"}
	}
	begin := p.pos
	if _, err := p.balanced(); err != nil {
		return err
	}
	spec.body = &body{keyword: keyword.Val, tag: tag}
	if keyword.Val == "enum" {
		spec.body.members = enumMembers(p.tokens[begin:p.pos])
	}
	return nil
}

// enumMembers returns enumerator names of a {...} token group
func enumMembers(tokens []*Token) []string {
	var result []string
	depth := 0
	expectName := false
	for _, token := range tokens {
		if token.Kind == Punct {
			switch token.Val {
			case "{", "(", "[":
				depth++
				expectName = depth == 1
			case "}", ")", "]":
				depth--
			case ",":
				expectName = depth == 1
			}
			continue
		}
		if expectName && token.Kind == Ident {
			result = append(result, token.Val)
		}
		expectName = false
	}
	return result
}

// isParameterDeclaration returns true if the current token starts a declaration
func (p *Parser) isParameterDeclaration() bool {
	token := p.peek()
	switch token.Kind {
	case Keyword:
		return builtinTypes[token.Val] || qualifiers[token.Val] || token.Val == "struct" || token.Val == "union" || token.Val == "enum" || token.Val == "register"
	case Ident:
		next := p.peekAt(1)
		return next.Kind == Ident || next.Is(Punct, "*")
	}
	return false
}

// skipIgnored drops ignored keywords with their optional argument list
func (p *Parser) skipIgnored() (bool, error) {
	skipped := false
	for {
		token := p.peek()
		if (token.Kind != Ident && token.Kind != Keyword) || !p.ignore[token.Val] {
			return skipped, nil
		}
		p.next()
		skipped = true
		if p.peek().Is(Punct, "(") {
			if _, err := p.balanced(); err != nil {
				return skipped, err
			}
		}
	}
}

// balanced consumes a bracketed token group starting at the current token and returns the closing token
func (p *Parser) balanced() (*Token, error) {
	open := p.next()
	stack := []string{closing(open.Val)}
	for {
		token := p.next()
		switch {
		case token.Kind == EOF:
			return nil, &ParseError{Pos: token.Pos, Expected: "'" + stack[len(stack)-1] + "'", Found: token.String()}
		case token.Kind != Punct:
		case token.Val == "(" || token.Val == "[" || token.Val == "{":
			stack = append(stack, closing(token.Val))
		case token.Val == ")" || token.Val == "]" || token.Val == "}":
			if expected := stack[len(stack)-1]; token.Val != expected {
				return nil, &ParseError{Pos: token.Pos, Expected: "'" + expected + "'", Found: token.String()}
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return token, nil
			}
		}
	}
}

func (p *Parser) skipInitializer() error {
	p.next()
	for {
		token := p.peek()
		switch {
		case token.Kind == EOF:
			return p.expected("';'")
		case token.Is(Punct, ",") || token.Is(Punct, ";"):
			return nil
		case token.Is(Punct, "(") || token.Is(Punct, "[") || token.Is(Punct, "{"):
			if _, err := p.balanced(); err != nil {
				return err
			}
		case token.Is(Punct, ")") || token.Is(Punct, "]") || token.Is(Punct, "}"):
			return p.expected("';'")
		default:
			p.next()
		}
	}
}

func closing(open string) string {
	switch open {
	case "(":
		return ")"
	case "[":
		return "]"
	}
	return "}"
}

func (p *Parser) raw(start, end *Token) string {
	if end.End < start.Pos.Offset || end.End > len(p.src) {
		return ""
	}
	return string(p.src[start.Pos.Offset:end.End])
}

func (p *Parser) expected(expected string) error {
	token := p.peek()
	return &ParseError{Pos: token.Pos, Expected: expected, Found: token.String()}
}

func (p *Parser) peek() *Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(n int) *Token {
	if p.pos+n < len(p.tokens) {
		return p.tokens[p.pos+n]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) next() *Token {
	token := p.tokens[p.pos]
	if token.Kind != EOF {
		p.pos++
	}
	return token
}
