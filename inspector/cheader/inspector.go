package cheader

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/autofake/inspector/graph"
)

// Inspector inspects C headers
type Inspector struct {
	fs      afs.Service
	options []Option
}

// NewInspector creates an inspector
func NewInspector(fs afs.Service, options ...Option) *Inspector {
	if fs == nil {
		fs = afs.New()
	}
	return &Inspector{fs: fs, options: options}
}

// InspectSource parses header source
func (i *Inspector) InspectSource(path string, src []byte) (*graph.File, error) {
	file, err := Parse(path, src, i.options...)
	if err != nil {
		return nil, err
	}
	if file.Hash, err = graph.Hash(src); err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return file, nil
}

// InspectFile loads and parses a header
func (i *Inspector) InspectFile(ctx context.Context, path string) (*graph.File, error) {
	src, err := i.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return i.InspectSource(path, src)
}
