package graph

import (
	"strings"
)

// TypeRef represents a C type exactly as it was written.
//
// A TypeRef describes one derivation level: Arrays of Pointers of either a
// base type (Name with its qualifiers) or a function (Func). When Func is set
// the base type lives in Func.Result and Pointers/Arrays are the
// parenthesized part of the declarator, e.g. void (*cb[2])(int).
type TypeRef struct {
	Name           string     // base type words, e.g. "unsigned long", "enum Driver_Event"
	Qualifiers     []string   // qualifiers written before Name
	PostQualifiers []string   // qualifiers written after Name
	Inner          []*Inner   // qualifiers written between Name words, e.g. unsigned const int
	Pointers       []*Pointer // [0] is adjacent to the base type
	Arrays         []string   // array dimensions, outermost first; "" for []
	Func           *FuncType
}

// Inner represents a qualifier written inside a multi word base type
type Inner struct {
	After     int // number of Name words written before the qualifier
	Qualifier string
}

// Pointer represents a single pointer level with its own qualifiers
type Pointer struct {
	Qualifiers []string
}

// FuncType represents a function type
type FuncType struct {
	Result   *TypeRef
	Params   []*Parameter
	Variadic bool
	Void     bool // parameter list was written as (void)
}

// Parameter represents a function parameter, Name is empty for abstract ones
type Parameter struct {
	Name string
	Type *TypeRef
}

// IsFunction returns true if type denotes a function (not a pointer to function)
func (t *TypeRef) IsFunction() bool {
	return t.Func != nil && len(t.Pointers) == 0 && len(t.Arrays) == 0
}

// IsFunctionPointer returns true if type is a (possibly array of) pointer to function
func (t *TypeRef) IsFunctionPointer() bool {
	return t.Func != nil && len(t.Pointers) > 0
}

// IsVoid returns true for plain void
func (t *TypeRef) IsVoid() bool {
	return t.Func == nil && t.Name == "void" && len(t.Pointers) == 0 && len(t.Arrays) == 0
}

// Base returns the innermost non function type
func (t *TypeRef) Base() *TypeRef {
	for t.Func != nil {
		t = t.Func.Result
	}
	return t
}

// TopQualifiers returns qualifiers applying to the outermost level
func (t *TypeRef) TopQualifiers() []string {
	if len(t.Arrays) > 0 {
		return nil
	}
	if n := len(t.Pointers); n > 0 {
		return t.Pointers[n-1].Qualifiers
	}
	if t.Func != nil {
		return nil
	}
	ret := append([]string{}, t.Qualifiers...)
	for _, inner := range t.Inner {
		ret = append(ret, inner.Qualifier)
	}
	return append(ret, t.PostQualifiers...)
}

// Unqualified returns a copy without outermost qualifiers
func (t *TypeRef) Unqualified() *TypeRef {
	ret := t.Clone()
	if len(ret.Arrays) > 0 {
		return ret
	}
	if n := len(ret.Pointers); n > 0 {
		ret.Pointers[n-1].Qualifiers = nil
		return ret
	}
	if ret.Func == nil {
		ret.Qualifiers = nil
		ret.PostQualifiers = nil
		ret.Inner = nil
	}
	return ret
}

// Decay returns the parameter type of t: the outermost array becomes a pointer,
// ok is false when the result can not be represented (pointer to array)
func (t *TypeRef) Decay() (*TypeRef, bool) {
	ret := t.Clone()
	switch len(ret.Arrays) {
	case 0:
	case 1:
		ret.Arrays = nil
		ret.Pointers = append(ret.Pointers, &Pointer{})
	default:
		return nil, false
	}
	if ret.IsFunction() {
		ret.Pointers = append(ret.Pointers, &Pointer{})
	}
	return ret, true
}

// Clone creates a deep copy of the type
func (t *TypeRef) Clone() *TypeRef {
	if t == nil {
		return nil
	}
	ret := &TypeRef{
		Name:           t.Name,
		Qualifiers:     cloneStrings(t.Qualifiers),
		PostQualifiers: cloneStrings(t.PostQualifiers),
		Arrays:         cloneStrings(t.Arrays),
	}
	for _, inner := range t.Inner {
		ret.Inner = append(ret.Inner, &Inner{After: inner.After, Qualifier: inner.Qualifier})
	}
	for _, ptr := range t.Pointers {
		ret.Pointers = append(ret.Pointers, &Pointer{Qualifiers: cloneStrings(ptr.Qualifiers)})
	}
	if t.Func != nil {
		ret.Func = &FuncType{
			Result:   t.Func.Result.Clone(),
			Variadic: t.Func.Variadic,
			Void:     t.Func.Void,
		}
		for _, param := range t.Func.Params {
			ret.Func.Params = append(ret.Func.Params, &Parameter{Name: param.Name, Type: param.Type.Clone()})
		}
	}
	return ret
}

// Equal returns true if both types are written identically, parameter names are ignored
func (t *TypeRef) Equal(o *TypeRef) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Name != o.Name || !equalStrings(t.Qualifiers, o.Qualifiers) || !equalStrings(t.PostQualifiers, o.PostQualifiers) {
		return false
	}
	if !equalStrings(t.Arrays, o.Arrays) || len(t.Pointers) != len(o.Pointers) || len(t.Inner) != len(o.Inner) {
		return false
	}
	for i := range t.Inner {
		if *t.Inner[i] != *o.Inner[i] {
			return false
		}
	}
	for i := range t.Pointers {
		if !equalStrings(t.Pointers[i].Qualifiers, o.Pointers[i].Qualifiers) {
			return false
		}
	}
	if (t.Func == nil) != (o.Func == nil) {
		return false
	}
	if t.Func == nil {
		return true
	}
	if t.Func.Variadic != o.Func.Variadic || t.Func.Void != o.Func.Void || len(t.Func.Params) != len(o.Func.Params) {
		return false
	}
	for i := range t.Func.Params {
		if !t.Func.Params[i].Type.Equal(o.Func.Params[i].Type) {
			return false
		}
	}
	return t.Func.Result.Equal(o.Func.Result)
}

// String returns the abstract type text, e.g. const uint8_t**
func (t *TypeRef) String() string {
	return Format(t, "")
}

// Format renders declaration of name with type t, empty name renders abstract type.
// Spacing is canonical: '*' follows the base type, pointer qualifiers and the
// declared name are preceded by a single space.
func Format(t *TypeRef, name string) string {
	builder := &strings.Builder{}
	format(builder, t, name)
	return builder.String()
}

func format(builder *strings.Builder, t *TypeRef, declarator string) {
	if t.Func == nil {
		builder.WriteString(t.baseText())
		writePointers(builder, t.Pointers)
		inner := declarator + arraysText(t.Arrays)
		if declarator != "" {
			builder.WriteByte(' ')
		}
		builder.WriteString(inner)
		return
	}
	inner := &strings.Builder{}
	nested := len(t.Pointers) > 0 || len(t.Arrays) > 0
	if nested {
		inner.WriteByte('(')
		writePointers(inner, t.Pointers)
		if declarator != "" && len(t.Pointers) > 0 && len(t.Pointers[len(t.Pointers)-1].Qualifiers) > 0 {
			inner.WriteByte(' ')
		}
	}
	inner.WriteString(declarator)
	if nested {
		inner.WriteString(arraysText(t.Arrays))
		inner.WriteByte(')')
	}
	inner.WriteByte('(')
	inner.WriteString(t.Func.ParamsText())
	inner.WriteByte(')')
	format(builder, t.Func.Result, inner.String())
}

// ParamsText returns parameter list without enclosing parenthesis
func (f *FuncType) ParamsText() string {
	if f.Void {
		return "void"
	}
	var items []string
	for _, param := range f.Params {
		items = append(items, Format(param.Type, param.Name))
	}
	if f.Variadic {
		items = append(items, "...")
	}
	return strings.Join(items, ", ")
}

func (t *TypeRef) baseText() string {
	words := make([]string, 0, len(t.Qualifiers)+len(t.Inner)+len(t.PostQualifiers)+1)
	words = append(words, t.Qualifiers...)
	if len(t.Inner) == 0 {
		words = append(words, t.Name)
	} else {
		next := 0
		for i, word := range strings.Fields(t.Name) {
			for ; next < len(t.Inner) && t.Inner[next].After <= i; next++ {
				words = append(words, t.Inner[next].Qualifier)
			}
			words = append(words, word)
		}
	}
	words = append(words, t.PostQualifiers...)
	return strings.Join(words, " ")
}

func writePointers(builder *strings.Builder, pointers []*Pointer) {
	for _, ptr := range pointers {
		builder.WriteByte('*')
		for _, qualifier := range ptr.Qualifiers {
			builder.WriteByte(' ')
			builder.WriteString(qualifier)
		}
	}
}

func arraysText(arrays []string) string {
	ret := ""
	for _, dim := range arrays {
		ret += "[" + dim + "]"
	}
	return ret
}

func cloneStrings(src []string) []string {
	if len(src) == 0 {
		return nil
	}
	return append([]string{}, src...)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
