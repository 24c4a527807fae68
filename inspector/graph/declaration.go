package graph

import "strings"

// Declaration represents a top level header declaration,
// implementations: *Function, *FunctionPointerTypedef, *Enum, *TypeAlias, *Variable, *Record, *Directive
type Declaration interface {
	Declared() *Decl
	declaration()
}

// Decl holds attributes shared by all declarations
type Decl struct {
	Name     string
	Type     *TypeRef
	Storage  []string // storage class and function specifiers, e.g. extern, static inline
	HasBody  bool     // inline body was present and skipped
	Raw      string   // source text of the whole declaration
	Position Position
}

// Declared returns common declaration attributes
func (d *Decl) Declared() *Decl { return d }

// Function represents a function declaration or inline definition
type Function struct {
	Decl
}

// FunctionPointerTypedef represents typedef of a function or pointer to function
type FunctionPointerTypedef struct {
	Decl
}

// TypeAlias represents any other typedef, e.g. typedef void *Hardware
type TypeAlias struct {
	Decl
}

// Variable represents a variable declaration
type Variable struct {
	Decl
	Initialized bool
}

// Enum represents an enum definition
type Enum struct {
	Decl
	Members []string
}

// Record represents struct or union definition or forward declaration
type Record struct {
	Decl
	Keyword string // struct or union
	Opaque  bool   // no member list
}

// Directive represents preprocessor line
type Directive struct {
	Decl
	Keyword string   // e.g. include, define, ifdef
	Text    string   // directive text with comments stripped and lines joined
	Include *Include // set for include directives
}

func (*Function) declaration()               {}
func (*FunctionPointerTypedef) declaration() {}
func (*TypeAlias) declaration()              {}
func (*Variable) declaration()               {}
func (*Enum) declaration()                   {}
func (*Record) declaration()                 {}
func (*Directive) declaration()              {}

// Params returns function parameters
func (f *Function) Params() []*Parameter {
	return f.Type.Func.Params
}

// Result returns function result type
func (f *Function) Result() *TypeRef {
	return f.Type.Func.Result
}

// Variadic returns true if parameter list ends with ...
func (f *Function) Variadic() bool {
	return f.Type.Func.Variadic
}

// Signature returns function declarator text with linkage preserving specifiers
func (f *Function) Signature() string {
	return joinStorage(f.Storage, Format(f.Type, f.Name), func(word string) bool {
		return word == "extern" || word == "_Noreturn"
	})
}

// IsExtern returns true for extern variable declaration
func (v *Variable) IsExtern() bool {
	for _, item := range v.Storage {
		if item == "extern" {
			return true
		}
	}
	return false
}

// Definition returns variable definition text without storage class
func (v *Variable) Definition() string {
	return joinStorage(v.Storage, Format(v.Type, v.Name), func(word string) bool {
		return word != "extern" && word != "static"
	})
}

// IsConditional returns true for conditional compilation directive
func (d *Directive) IsConditional() bool {
	switch d.Keyword {
	case "if", "ifdef", "ifndef", "elif", "elifdef", "elifndef", "else", "endif":
		return true
	}
	return false
}

func joinStorage(storage []string, text string, keep func(word string) bool) string {
	var words []string
	for _, word := range storage {
		if keep(word) {
			words = append(words, word)
		}
	}
	words = append(words, text)
	return strings.Join(words, " ")
}
