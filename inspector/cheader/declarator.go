package cheader

import (
	"strings"

	"github.com/viant/autofake/inspector/graph"
)

// declarator represents the syntactic structure binding a name to pointer, array and function derivations:
// pointers name-or-(nested) suffixes
type declarator struct {
	name     string
	pos      graph.Position
	pointers []*graph.Pointer
	nested   *declarator
	suffixes []*suffix
}

type suffix struct {
	pos graph.Position
	dim string
	fn  *graph.FuncType // nil for array suffix
}

func (d *declarator) identifier() string {
	if d.name != "" || d.nested == nil {
		return d.name
	}
	return d.nested.identifier()
}

// build applies the declarator to base: pointers bind first, then suffixes right to left,
// the result becomes the base of the nested declarator
func (d *declarator) build(base *graph.TypeRef) (*graph.TypeRef, error) {
	if len(d.pointers) > 0 && len(base.Arrays) > 0 {
		return nil, &UnsupportedError{Pos: d.pos, Construct: "pointer to array declarator"}
	}
	ret := base.Clone()
	for _, ptr := range d.pointers {
		ret.Pointers = append(ret.Pointers, &graph.Pointer{Qualifiers: ptr.Qualifiers})
	}
	for i := len(d.suffixes) - 1; i >= 0; i-- {
		item := d.suffixes[i]
		switch {
		case item.fn != nil && len(ret.Arrays) > 0:
			return nil, &ParseError{Pos: item.pos, Expected: "declarator", Found: "function returning array"}
		case item.fn != nil && ret.IsFunction():
			return nil, &ParseError{Pos: item.pos, Expected: "declarator", Found: "function returning function"}
		case item.fn != nil:
			fn := *item.fn
			fn.Result = ret
			ret = &graph.TypeRef{Func: &fn}
		case ret.IsFunction():
			return nil, &ParseError{Pos: item.pos, Expected: "declarator", Found: "array of functions"}
		default:
			ret.Arrays = append([]string{item.dim}, ret.Arrays...)
		}
	}
	if d.nested == nil {
		return ret, nil
	}
	return d.nested.build(ret)
}

// declarator parses (possibly abstract) declarator
func (p *Parser) declarator(abstract bool) (*declarator, error) {
	ret := &declarator{pos: p.peek().Pos}
	for {
		if _, err := p.skipIgnored(); err != nil {
			return nil, err
		}
		if !p.peek().Is(Punct, "*") {
			break
		}
		p.next()
		ptr := &graph.Pointer{}
		for {
			if _, err := p.skipIgnored(); err != nil {
				return nil, err
			}
			token := p.peek()
			if token.Kind != Keyword || !qualifiers[token.Val] {
				break
			}
			ptr.Qualifiers = append(ptr.Qualifiers, token.Val)
			p.next()
		}
		ret.pointers = append(ret.pointers, ptr)
	}

	token := p.peek()
	switch {
	case token.Kind == Ident:
		ret.name, ret.pos = token.Val, token.Pos
		p.next()
	case token.Is(Punct, "(") && p.isNested(abstract):
		p.next()
		nested, err := p.declarator(abstract)
		if err != nil {
			return nil, err
		}
		if !p.peek().Is(Punct, ")") {
			return nil, p.expected("')'")
		}
		p.next()
		ret.nested = nested
	case !abstract:
		return nil, p.expected("identifier")
	}

	for {
		token = p.peek()
		switch {
		case token.Is(Punct, "["):
			closing, err := p.balanced()
			if err != nil {
				return nil, err
			}
			dim := strings.TrimSpace(string(p.src[token.End:closing.Pos.Offset]))
			ret.suffixes = append(ret.suffixes, &suffix{pos: token.Pos, dim: dim})
		case token.Is(Punct, "("):
			p.next()
			fn, err := p.params()
			if err != nil {
				return nil, err
			}
			ret.suffixes = append(ret.suffixes, &suffix{pos: token.Pos, fn: fn})
		default:
			return ret, nil
		}
	}
}

// isNested returns true if '(' at the current position opens a nested declarator rather than a parameter list
func (p *Parser) isNested(abstract bool) bool {
	if !abstract {
		return true
	}
	next := p.peekAt(1)
	switch {
	case next.Is(Punct, "*"), next.Is(Punct, "("):
		return true
	case next.Kind == Ident && p.ignore[next.Val]:
		return true
	case next.Kind == Ident:
		after := p.peekAt(2)
		return after.Is(Punct, ")") || after.Is(Punct, "[") || after.Is(Punct, "(")
	}
	return false
}

// params parses parameter list, the opening '(' was consumed
func (p *Parser) params() (*graph.FuncType, error) {
	ret := &graph.FuncType{}
	if p.peek().Is(Punct, ")") {
		p.next()
		return ret, nil
	}
	if p.peek().Is(Keyword, "void") && p.peekAt(1).Is(Punct, ")") {
		p.next()
		p.next()
		ret.Void = true
		return ret, nil
	}
	for {
		if p.peek().Is(Punct, "...") {
			p.next()
			ret.Variadic = true
			if !p.peek().Is(Punct, ")") {
				return nil, p.expected("')' after '...'")
			}
			p.next()
			return ret, nil
		}
		param, err := p.parameter()
		if err != nil {
			return nil, err
		}
		ret.Params = append(ret.Params, param)
		switch token := p.peek(); {
		case token.Is(Punct, ")"):
			p.next()
			return ret, nil
		case token.Is(Punct, ","):
			p.next()
		default:
			return nil, p.expected("',' or ')'")
		}
	}
}

func (p *Parser) parameter() (*graph.Parameter, error) {
	spec, err := p.specifiers(false)
	if err != nil {
		return nil, err
	}
	d, err := p.declarator(true)
	if err != nil {
		return nil, err
	}
	typ, err := d.build(spec.typ)
	if err != nil {
		return nil, err
	}
	if _, err = p.skipIgnored(); err != nil {
		return nil, err
	}
	return &graph.Parameter{Name: d.identifier(), Type: typ}, nil
}
