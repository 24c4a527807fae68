package cheader

import (
	"fmt"
	"strings"

	"github.com/viant/autofake/inspector/graph"
)

// Located represents an error with source position
type Located interface {
	error
	Position() graph.Position
}

// LexError represents malformed token
type LexError struct {
	Pos graph.Position
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%v: %s", e.Pos, e.Msg)
}

// Position returns error position
func (e *LexError) Position() graph.Position { return e.Pos }

// ParseError represents input not matching declaration grammar
type ParseError struct {
	Pos      graph.Position
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: expected %s, found %s", e.Pos, e.Expected, e.Found)
}

// Position returns error position
func (e *ParseError) Position() graph.Position { return e.Pos }

// UnsupportedError represents recognized C construct that can not be faked
type UnsupportedError struct {
	Pos       graph.Position
	Construct string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%v: unsupported %s", e.Pos, e.Construct)
}

// Position returns error position
func (e *UnsupportedError) Position() graph.Position { return e.Pos }

// Context returns source lines around pos with a caret under the column
func Context(src []byte, pos graph.Position, before, after int) string {
	lines := strings.Split(string(src), "\n")
	if pos.Line < 1 || pos.Line > len(lines) {
		return ""
	}
	first := pos.Line - before
	if first < 1 {
		first = 1
	}
	last := pos.Line + after
	if last > len(lines) {
		last = len(lines)
	}
	width := len(fmt.Sprint(last))
	builder := &strings.Builder{}
	for i := first; i <= last; i++ {
		line := strings.TrimRight(lines[i-1], "\r")
		fmt.Fprintf(builder, "%*d | %s\n", width, i, line)
		if i == pos.Line {
			builder.WriteString(strings.Repeat(" ", width) + " | ")
			builder.WriteString(caretPadding(line, pos.Column))
			builder.WriteString("^\n")
		}
	}
	return builder.String()
}

func caretPadding(line string, column int) string {
	builder := &strings.Builder{}
	for i := 0; i < column-1 && i < len(line); i++ {
		if line[i] == '\t' {
			builder.WriteByte('\t')
			continue
		}
		builder.WriteByte(' ')
	}
	return builder.String()
}
