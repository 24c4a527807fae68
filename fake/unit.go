package fake

import (
	"github.com/viant/autofake/inspector/graph"
	"github.com/viant/autofake/inspector/include"
)

// Unit represents generated fake header and source of one input header
type Unit struct {
	Path       string   // input header path
	HeaderName string   // fake header file name
	SourceName string   // fake source file name
	Header     []byte   // fake header content
	Source     []byte   // fake source content
	Fakes      []string // faked function names
	Empty      bool     // fake header has neither declarations nor includes
}

// Hash returns combined content hash
func (u *Unit) Hash() (uint64, error) {
	return graph.Hash(u.Header, u.Source)
}

// Visit returns resolver visit for the generated file
func (u *Unit) Visit(file *graph.File) *include.Visit {
	return &include.Visit{
		Path:       file.Path,
		FakeHeader: u.HeaderName,
		Symbols:    file.Symbols(),
		Includes:   file.ResolvedIncludes(),
		Empty:      u.Empty,
	}
}
