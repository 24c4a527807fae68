package cheader

import (
	"fmt"

	"github.com/viant/autofake/inspector/graph"
)

// Kind represents token kind
type Kind int

const (
	EOF Kind = iota
	Ident
	Keyword
	Punct
	Literal
	Directive
)

var kindNames = [...]string{
	EOF:       "EOF",
	Ident:     "identifier",
	Keyword:   "keyword",
	Punct:     "punctuator",
	Literal:   "literal",
	Directive: "directive",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token represents a lexical token
type Token struct {
	Kind  Kind
	Val   string // token text, directive text has comments stripped and lines joined
	Pos   graph.Position
	End   int  // byte offset after the token
	Space bool // whitespace or comment preceded the token
}

func (t *Token) String() string {
	switch t.Kind {
	case EOF:
		return "EOF"
	case Directive:
		return fmt.Sprintf("directive %q", t.Val)
	}
	return fmt.Sprintf("%q", t.Val)
}

// Is returns true if token has the given kind and text
func (t *Token) Is(kind Kind, val string) bool {
	return t.Kind == kind && t.Val == val
}

var keywords = map[string]bool{
	"auto": true, "char": true, "const": true, "double": true, "enum": true,
	"extern": true, "float": true, "inline": true, "int": true, "long": true,
	"register": true, "restrict": true, "short": true, "signed": true, "static": true,
	"struct": true, "typedef": true, "union": true, "unsigned": true, "void": true,
	"volatile": true, "_Bool": true, "_Complex": true, "_Noreturn": true, "_Atomic": true,
	"__inline": true, "__inline__": true, "__restrict": true, "__restrict__": true,
	"__volatile__": true, "__const": true,
}

var qualifiers = map[string]bool{
	"const": true, "volatile": true, "restrict": true, "_Atomic": true,
	"__restrict": true, "__restrict__": true, "__volatile__": true, "__const": true,
}

var storageClasses = map[string]bool{
	"extern": true, "static": true, "inline": true, "register": true, "auto": true,
	"_Noreturn": true, "__inline": true, "__inline__": true,
}

var builtinTypes = map[string]bool{
	"void": true, "char": true, "short": true, "int": true, "long": true, "float": true,
	"double": true, "signed": true, "unsigned": true, "_Bool": true, "_Complex": true,
}

// DefaultIgnoreKeywords lists compiler extensions dropped by the parser, with an optional (...) argument
var DefaultIgnoreKeywords = []string{
	"__attribute__", "__attribute", "__declspec", "__asm__", "__asm",
	"__extension__", "__cdecl", "__stdcall", "__fastcall",
}
