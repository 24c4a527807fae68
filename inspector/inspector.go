package inspector

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/autofake/inspector/cheader"
	"github.com/viant/autofake/inspector/graph"
)

// Inspector provides an interface for inspecting source code
type Inspector interface {
	// InspectSource parses source code from a byte slice and extracts declarations
	InspectSource(path string, src []byte) (*graph.File, error)

	// InspectFile parses a source file and extracts declarations
	InspectFile(ctx context.Context, path string) (*graph.File, error)
}

// Factory creates appropriate inspectors based on file extension
type Factory struct {
	fs      afs.Service
	options []cheader.Option
}

// NewFactory creates a new inspector factory, options are passed to the C header parser
func NewFactory(fs afs.Service, options ...cheader.Option) *Factory {
	if fs == nil {
		fs = afs.New()
	}
	return &Factory{fs: fs, options: options}
}

// GetInspector returns an appropriate inspector based on file extension
func (f *Factory) GetInspector(filename string) (Inspector, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".h":
		return f.Header(), nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}

// Header returns C header inspector
func (f *Factory) Header() Inspector {
	return cheader.NewInspector(f.fs, f.options...)
}

// InspectFile is a convenience method that gets the appropriate inspector and inspects the file
func (f *Factory) InspectFile(ctx context.Context, filename string) (*graph.File, error) {
	inspector, err := f.GetInspector(filename)
	if err != nil {
		return nil, err
	}
	return inspector.InspectFile(ctx, filename)
}
