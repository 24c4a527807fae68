package fake

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/viant/autofake/inspector/graph"
	"github.com/viant/autofake/inspector/include"
)

// Generator generates fake header and source for parsed headers
type Generator struct {
	config *Config
	logger *slog.Logger
}

// New creates a generator
func New(options ...Option) *Generator {
	ret := &Generator{}
	for _, option := range options {
		option(ret)
	}
	if ret.config == nil {
		ret.config = DefaultConfig()
	}
	if ret.logger == nil {
		ret.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return ret
}

// Names returns fake header and source file names for a header
func (g *Generator) Names(path string) (string, string) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + g.config.Suffix
	return base + ".h", base + ".c"
}

// Generate generates fakes for file, resolver supplies headers processed earlier in the run
func (g *Generator) Generate(file *graph.File, resolver *include.Resolver) (*Unit, error) {
	if resolver == nil {
		resolver = include.New(nil)
	}
	plan, err := g.plan(file, resolver)
	if err != nil {
		return nil, err
	}
	ret := &Unit{Path: file.Path}
	ret.HeaderName, ret.SourceName = g.Names(file.Path)
	header := &headerEmitter{plan: plan, headerName: ret.HeaderName}
	if ret.Header, err = file.Content(header); err != nil {
		return nil, err
	}
	source := &sourceEmitter{plan: plan, headerName: ret.HeaderName}
	if ret.Source, err = file.Content(source); err != nil {
		return nil, err
	}
	for _, registration := range plan.registrations {
		ret.Fakes = append(ret.Fakes, registration.Name)
	}
	ret.Empty = header.declarations == 0
	return ret, nil
}

// plan represents decisions shared by header and source emitters
type plan struct {
	*Generator
	file          *graph.File
	resolver      *include.Resolver
	provided      map[string]string // symbols declared by visited includes
	registrations []*Registration
	fakes         map[*graph.Function]*Registration
	variables     map[*graph.Variable]bool
}

func (g *Generator) plan(file *graph.File, resolver *include.Resolver) (*plan, error) {
	ret := &plan{
		Generator: g,
		file:      file,
		resolver:  resolver,
		provided:  resolver.Symbols(file.ResolvedIncludes()...),
		fakes:     map[*graph.Function]*Registration{},
		variables: map[*graph.Variable]bool{},
	}
	declared := map[string]bool{}
	for _, declaration := range file.Declarations {
		switch actual := declaration.(type) {
		case *graph.Function:
			if ret.isProvided(actual.Name) || declared[actual.Name] {
				continue
			}
			declared[actual.Name] = true
			registration, err := NewRegistration(actual, g.config.MaxParams)
			if err != nil {
				return nil, err
			}
			ret.fakes[actual] = registration
			ret.registrations = append(ret.registrations, registration)
		case *graph.Variable:
			if ret.isProvided(actual.Name) {
				continue
			}
			ret.variables[actual] = true
		}
	}
	return ret, nil
}

func (p *plan) isProvided(symbol string) bool {
	header, ok := p.provided[symbol]
	if ok {
		p.logger.Debug("symbol declared by processed include", "file", p.file.Path, "symbol", symbol, "header", header)
	}
	return ok
}

// headerEmitter emits fake header
type headerEmitter struct {
	*plan
	headerName   string
	declarations int
}

// Emit emits fake header content
func (e *headerEmitter) Emit(file *graph.File) ([]byte, error) {
	buffer := &bytes.Buffer{}
	guard := file.Guard
	if guard == "" && !file.PragmaOnce && e.config.GenerateIncludeGuard {
		guard = IncludeGuard(e.headerName)
	}
	switch {
	case guard != "":
		fmt.Fprintf(buffer, "#ifndef %s\n#define %s\n\n", guard, guard)
	case file.PragmaOnce:
		buffer.WriteString("#pragma once\n\n")
	}
	fmt.Fprintf(buffer, "#include \"%s\"\n", e.config.FFFHeader)

	declarations := file.Declarations
	for len(declarations) > 0 {
		directive, ok := declarations[0].(*graph.Directive)
		if !ok || directive.IsConditional() {
			break
		}
		e.directive(buffer, directive)
		declarations = declarations[1:]
	}
	buffer.WriteString("\n")
	if e.config.CPlusPlus {
		buffer.WriteString("#ifdef __cplusplus\nextern \"C\" {\n#endif\n\n")
	}
	lastOffset := -1
	for _, declaration := range declarations {
		switch actual := declaration.(type) {
		case *graph.Directive:
			e.directive(buffer, actual)
		case *graph.Function:
			e.function(buffer, actual)
		case *graph.Variable:
			if !e.variables[actual] {
				continue
			}
			lastOffset = e.verbatim(buffer, &actual.Decl, lastOffset)
		case *graph.FunctionPointerTypedef:
			lastOffset = e.verbatim(buffer, &actual.Decl, lastOffset)
		case *graph.TypeAlias:
			lastOffset = e.verbatim(buffer, &actual.Decl, lastOffset)
		case *graph.Enum:
			lastOffset = e.verbatim(buffer, &actual.Decl, lastOffset)
		case *graph.Record:
			lastOffset = e.verbatim(buffer, &actual.Decl, lastOffset)
		default:
			return nil, fmt.Errorf("unsupported declaration type: %T", declaration)
		}
	}
	if e.config.CPlusPlus {
		buffer.WriteString("#ifdef __cplusplus\n}\n#endif\n")
		if guard != "" {
			buffer.WriteString("\n")
		}
	}
	if guard != "" {
		fmt.Fprintf(buffer, "#endif /* %s */\n", guard)
	}
	return buffer.Bytes(), nil
}

func (e *headerEmitter) directive(buffer *bytes.Buffer, directive *graph.Directive) {
	if include := directive.Include; include != nil {
		if e.resolver.ShouldSkip(e.file.Path, include.Resolved) {
			visit, _ := e.resolver.Visited(include.Resolved)
			if visit.Empty {
				e.logger.Debug("dropping include of empty fake", "file", e.file.Path, "include", include.Path)
				return
			}
			fmt.Fprintf(buffer, "#include \"%s\"\n", visit.FakeHeader)
			e.declarations++
			return
		}
		e.declarations++
	}
	if directive.Keyword == "define" {
		e.declarations++
	}
	buffer.WriteString(directive.Raw)
	buffer.WriteString("\n")
}

// verbatim copies declaration source, declarations sharing a statement are copied once
func (e *headerEmitter) verbatim(buffer *bytes.Buffer, decl *graph.Decl, lastOffset int) int {
	if decl.Position.Offset == lastOffset {
		return lastOffset
	}
	buffer.WriteString(decl.Raw)
	buffer.WriteString("\n\n")
	e.declarations++
	return decl.Position.Offset
}

func (e *headerEmitter) function(buffer *bytes.Buffer, function *graph.Function) {
	if _, ok := e.provided[function.Name]; ok {
		return
	}
	registration, ok := e.fakes[function]
	if !ok { // redeclaration
		buffer.WriteString(function.Signature() + ";\n\n")
		return
	}
	for _, typedef := range registration.Typedefs {
		buffer.WriteString(typedef + "\n")
	}
	if function.HasBody {
		e.logger.Debug("dropping inline body", "file", e.file.Path, "function", function.Name)
	}
	buffer.WriteString(function.Signature() + ";\n")
	if registration.Variadic {
		fmt.Fprintf(buffer, "/* variadic arguments of %s are not recorded */\n", function.Name)
	}
	buffer.WriteString(registration.Invocation("DECLARE") + "\n\n")
	e.declarations++
}

// sourceEmitter emits fake source
type sourceEmitter struct {
	*plan
	headerName string
}

// Emit emits fake source content
func (e *sourceEmitter) Emit(file *graph.File) ([]byte, error) {
	buffer := &bytes.Buffer{}
	fmt.Fprintf(buffer, "#include \"%s\"\n\n", e.headerName)
	for _, declaration := range file.Declarations {
		switch actual := declaration.(type) {
		case *graph.Directive:
			if actual.IsConditional() {
				buffer.WriteString(actual.Raw + "\n")
			}
		case *graph.Function:
			if registration, ok := e.fakes[actual]; ok {
				buffer.WriteString(registration.Invocation("DEFINE") + "\n")
			}
		case *graph.Variable:
			if e.variables[actual] && actual.IsExtern() && !actual.Initialized {
				buffer.WriteString(actual.Definition() + ";\n")
			}
		}
	}
	return buffer.Bytes(), nil
}
