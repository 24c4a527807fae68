package graph

import "fmt"

// Position identifies a location in a source file
type Position struct {
	File   string
	Line   int // 1-based
	Column int // 1-based, in bytes
	Offset int // 0-based byte offset
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// IsValid returns true if position was set
func (p Position) IsValid() bool {
	return p.Line > 0
}
