package cheader

import (
	"context"
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/viant/autofake/inspector/graph"
)

// TreeSitterInspector cross-checks parsed headers with tree-sitter C grammar
type TreeSitterInspector struct{}

// NewTreeSitterInspector creates a TreeSitterInspector
func NewTreeSitterInspector() *TreeSitterInspector {
	return &TreeSitterInspector{}
}

// Functions returns names of functions declared or defined in src and whether tree-sitter reported syntax errors
func (i *TreeSitterInspector) Functions(ctx context.Context, src []byte) ([]string, bool, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(c.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse source: %w", err)
	}
	defer tree.Close()
	root := tree.RootNode()
	var names []string
	collectFunctions(root, src, &names)
	return names, root.HasError(), nil
}

// Verify returns warnings for functions the parsed file and tree-sitter disagree on
func (i *TreeSitterInspector) Verify(ctx context.Context, file *graph.File, src []byte) ([]string, error) {
	names, hasError, err := i.Functions(ctx, src)
	if err != nil {
		return nil, err
	}
	var warnings []string
	if hasError {
		warnings = append(warnings, fmt.Sprintf("%v: tree-sitter reported syntax errors", file.Path))
	}
	found := map[string]bool{}
	for _, name := range names {
		found[name] = true
	}
	parsed := map[string]bool{}
	for _, function := range file.Functions() {
		parsed[function.Name] = true
		if !found[function.Name] {
			warnings = append(warnings, fmt.Sprintf("%v: function %v not recognized by tree-sitter", function.Position, function.Name))
		}
	}
	var missing []string
	for name := range found {
		if !parsed[name] {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	for _, name := range missing {
		warnings = append(warnings, fmt.Sprintf("%v: function %v recognized by tree-sitter only", file.Path, name))
	}
	return warnings, nil
}

func collectFunctions(node *sitter.Node, src []byte, names *[]string) {
	switch node.Type() {
	case "function_definition":
		if name := functionName(node.ChildByFieldName("declarator"), src); name != "" {
			*names = append(*names, name)
		}
		return
	case "declaration":
		for i := 0; i < int(node.ChildCount()); i++ {
			if node.FieldNameForChild(i) != "declarator" {
				continue
			}
			if name := functionName(node.Child(i), src); name != "" {
				*names = append(*names, name)
			}
		}
		return
	case "type_definition", "compound_statement", "struct_specifier", "union_specifier", "enum_specifier":
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		collectFunctions(node.NamedChild(i), src, names)
	}
}

// functionName returns identifier of a function declarator, empty for anything else
func functionName(node *sitter.Node, src []byte) string {
	for node != nil {
		switch node.Type() {
		case "function_declarator":
			inner := node.ChildByFieldName("declarator")
			if inner != nil && inner.Type() == "identifier" {
				return inner.Content(src)
			}
			node = inner // function returning function pointer
		case "pointer_declarator":
			node = node.ChildByFieldName("declarator")
		case "parenthesized_declarator":
			node = node.NamedChild(0)
		default:
			return ""
		}
	}
	return ""
}
