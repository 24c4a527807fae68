package include

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/autofake/inspector/graph"
)

// Visit represents a header processed in the current run
type Visit struct {
	Path       string   // resolved header path
	FakeHeader string   // generated fake header file name
	Symbols    []string // functions and variables declared by the header
	Includes   []string // resolved includes of the header
	Empty      bool     // fake header has no fakeable declarations
}

// Resolver resolves include directives and tracks headers visited within one run
type Resolver struct {
	fs      afs.Service
	dirs    []string
	mux     sync.RWMutex
	visited map[string]*Visit
}

// New creates a resolver searching include dirs in order
func New(fs afs.Service, dirs ...string) *Resolver {
	if fs == nil {
		fs = afs.New()
	}
	return &Resolver{fs: fs, dirs: dirs, visited: map[string]*Visit{}}
}

// Reset clears the visited set
func (r *Resolver) Reset() {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.visited = map[string]*Visit{}
}

// Resolve finds the included file: quoted includes search the including file directory first,
// then include dirs. Returns empty path if not found.
func (r *Resolver) Resolve(ctx context.Context, include *graph.Include) (string, error) {
	var candidates []string
	if !include.Angled {
		candidates = append(candidates, filepath.Join(filepath.Dir(include.From), include.Path))
	}
	for _, dir := range r.dirs {
		candidates = append(candidates, filepath.Join(dir, include.Path))
	}
	for _, candidate := range candidates {
		ok, err := r.fs.Exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check %v: %w", candidate, err)
		}
		if ok {
			include.Resolved = filepath.Clean(candidate)
			return include.Resolved, nil
		}
	}
	return "", nil
}

// ResolveAll resolves all file includes
func (r *Resolver) ResolveAll(ctx context.Context, file *graph.File) error {
	for _, include := range file.Includes {
		if _, err := r.Resolve(ctx, include); err != nil {
			return err
		}
	}
	return nil
}

// RecordVisited marks header as processed
func (r *Resolver) RecordVisited(visit *Visit) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.visited[visit.Path] = visit
}

// Visited returns visit of processed header
func (r *Resolver) Visited(path string) (*Visit, bool) {
	r.mux.RLock()
	defer r.mux.RUnlock()
	visit, ok := r.visited[path]
	return visit, ok
}

// ShouldSkip returns true if included header was already processed,
// the including file then references the fake header instead
func (r *Resolver) ShouldSkip(from, included string) bool {
	if included == "" || included == from {
		return false
	}
	_, ok := r.Visited(included)
	return ok
}

// Symbols returns symbols declared by visited headers reachable through includes, mapped to the declaring header
func (r *Resolver) Symbols(includes ...string) map[string]string {
	r.mux.RLock()
	defer r.mux.RUnlock()
	result := map[string]string{}
	seen := map[string]bool{}
	pending := append([]string{}, includes...)
	for len(pending) > 0 {
		path := pending[0]
		pending = pending[1:]
		if seen[path] {
			continue
		}
		seen[path] = true
		visit, ok := r.visited[path]
		if !ok {
			continue
		}
		for _, symbol := range visit.Symbols {
			if _, ok := result[symbol]; !ok {
				result[symbol] = path
			}
		}
		pending = append(pending, visit.Includes...)
	}
	return result
}
