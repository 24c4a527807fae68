package graph

import "path/filepath"

// File represents a parsed header with its declarations in source order
type File struct {
	Name         string         // File name
	Path         string         // File path
	Guard        string         // include guard macro, empty if none
	PragmaOnce   bool           // guarded with #pragma once
	Includes     []*Include     // include directives in source order
	Declarations []Declaration  // declarations in source order
	Hash         uint64         // source content hash
	functionMap  map[string]int // Map of functions for quick lookup
}

// Include represents an include directive (an include edge)
type Include struct {
	From     string // including file path
	Path     string // path as written
	Angled   bool   // <path> form
	Resolved string // resolved file path, empty if not found
	Position Position
}

// NewFile creates a file
func NewFile(path string) *File {
	return &File{Name: filepath.Base(path), Path: path}
}

// AddDeclaration appends a declaration
func (f *File) AddDeclaration(declaration Declaration) {
	f.Declarations = append(f.Declarations, declaration)
	if directive, ok := declaration.(*Directive); ok && directive.Include != nil {
		f.Includes = append(f.Includes, directive.Include)
	}
	f.functionMap = nil
}

// Functions returns all function declarations
func (f *File) Functions() []*Function {
	var result []*Function
	for _, declaration := range f.Declarations {
		if function, ok := declaration.(*Function); ok {
			result = append(result, function)
		}
	}
	return result
}

// LookupFunction retrieves the first function declaration by name
func (f *File) LookupFunction(name string) *Function {
	if f.functionMap == nil {
		f.IndexFunctions()
	}
	if idx, ok := f.functionMap[name]; ok && idx < len(f.Declarations) {
		return f.Declarations[idx].(*Function)
	}
	return nil
}

// IndexFunctions indexes function declarations by name
func (f *File) IndexFunctions() {
	f.functionMap = make(map[string]int)
	for i, declaration := range f.Declarations {
		function, ok := declaration.(*Function)
		if !ok {
			continue
		}
		if _, ok := f.functionMap[function.Name]; !ok {
			f.functionMap[function.Name] = i
		}
	}
}

// Symbols returns names of functions and variables declared in the file
func (f *File) Symbols() []string {
	var result []string
	seen := map[string]bool{}
	for _, declaration := range f.Declarations {
		switch actual := declaration.(type) {
		case *Function, *Variable:
			name := actual.Declared().Name
			if !seen[name] {
				seen[name] = true
				result = append(result, name)
			}
		}
	}
	return result
}

// ResolvedIncludes returns resolved include paths
func (f *File) ResolvedIncludes() []string {
	var result []string
	for _, include := range f.Includes {
		if include.Resolved != "" {
			result = append(result, include.Resolved)
		}
	}
	return result
}

// Content reconstructs the content of a file with supplied emitter
func (f *File) Content(emitter Emitter) ([]byte, error) {
	return emitter.Emit(f)
}
