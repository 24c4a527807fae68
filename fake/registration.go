package fake

import (
	"fmt"
	"strings"

	"github.com/viant/autofake/inspector/cheader"
	"github.com/viant/autofake/inspector/graph"
)

// Registration represents arguments of a framework fake macro
type Registration struct {
	Name     string
	Result   string   // empty for void function
	Params   []string // parameter type texts
	Variadic bool
	Typedefs []string // hoisted function pointer typedefs
}

// Macro returns macro name with the given prefix (DECLARE or DEFINE)
func (r *Registration) Macro(prefix string) string {
	kind := "VOID"
	if r.Result != "" {
		kind = "VALUE"
	}
	macro := prefix + "_FAKE_" + kind + "_FUNC"
	if r.Variadic {
		macro += "_VARARG"
	}
	return macro
}

// Invocation returns macro invocation, e.g. DECLARE_FAKE_VALUE_FUNC(uint32_t, fn, bool);
func (r *Registration) Invocation(prefix string) string {
	var args []string
	if r.Result != "" {
		args = append(args, r.Result)
	}
	args = append(args, r.Name)
	args = append(args, r.Params...)
	if r.Variadic {
		args = append(args, "...")
	}
	return r.Macro(prefix) + "(" + strings.Join(args, ", ") + ");"
}

// NewRegistration returns registration of a function: top level qualifiers are removed,
// arrays decay to pointers and function pointers are hoisted into typedefs
func NewRegistration(function *graph.Function, maxParams int) (*Registration, error) {
	params := function.Params()
	if maxParams > 0 && len(params) > maxParams {
		return nil, &cheader.UnsupportedError{Pos: function.Position, Construct: fmt.Sprintf("function %v with %d parameters, limit is %d", function.Name, len(params), maxParams)}
	}
	if function.Variadic() && len(params) == 0 {
		return nil, &cheader.UnsupportedError{Pos: function.Position, Construct: fmt.Sprintf("variadic function %v without named parameters", function.Name)}
	}
	ret := &Registration{Name: function.Name, Variadic: function.Variadic()}
	if result := function.Result(); !result.IsVoid() {
		ret.Result = ret.hoist(result.Unqualified(), "fff_"+function.Name+"_return")
	}
	for i, param := range params {
		decayed, ok := param.Type.Decay()
		if !ok {
			return nil, &cheader.UnsupportedError{Pos: function.Position, Construct: fmt.Sprintf("multi-dimensional array parameter %d of %v", i, function.Name)}
		}
		ret.Params = append(ret.Params, ret.hoist(decayed.Unqualified(), fmt.Sprintf("fff_%s_param%d", function.Name, i)))
	}
	return ret, nil
}

func (r *Registration) hoist(typ *graph.TypeRef, name string) string {
	if typ.Func == nil {
		return typ.String()
	}
	r.Typedefs = append(r.Typedefs, "typedef "+graph.Format(typ, name)+";")
	return name
}
