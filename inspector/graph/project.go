package graph

import (
	"sort"
)

// Project represents a set of headers processed in one run
type Project struct {
	Name     string
	RootPath string
	Files    []*File
	fileMap  map[string]int //position
}

// AddFile adds a file to the project
func (p *Project) AddFile(file *File) {
	if p.fileMap == nil {
		p.fileMap = make(map[string]int)
	}
	p.Files = append(p.Files, file)
	p.fileMap[file.Path] = len(p.Files) - 1
}

// LookupFile retrieves a file by path
func (p *Project) LookupFile(path string) *File {
	if idx, ok := p.fileMap[path]; ok && idx < len(p.Files) {
		return p.Files[idx]
	}
	return nil
}

// Layers returns project files in topological include order, leaves first.
// Files within a layer do not include each other. An include cycle is broken
// by taking the lowest path of the remaining files as its own layer.
func (p *Project) Layers() [][]*File {
	pending := map[string]int{}
	dependants := map[string][]string{}
	for _, file := range p.Files {
		pending[file.Path] = 0
	}
	for _, file := range p.Files {
		seen := map[string]bool{}
		for _, dependency := range file.ResolvedIncludes() {
			if dependency == file.Path || seen[dependency] || p.LookupFile(dependency) == nil {
				continue
			}
			seen[dependency] = true
			pending[file.Path]++
			dependants[dependency] = append(dependants[dependency], file.Path)
		}
	}

	var layers [][]*File
	for len(pending) > 0 {
		var ready []string
		for path, count := range pending {
			if count == 0 {
				ready = append(ready, path)
			}
		}
		sort.Strings(ready)
		if len(ready) == 0 { //cycle
			for path := range pending {
				if len(ready) == 0 || path < ready[0] {
					ready = []string{path}
				}
			}
		}
		layer := make([]*File, 0, len(ready))
		for _, path := range ready {
			delete(pending, path)
			layer = append(layer, p.LookupFile(path))
		}
		for _, path := range ready {
			for _, dependant := range dependants[path] {
				if _, ok := pending[dependant]; ok {
					pending[dependant]--
				}
			}
		}
		layers = append(layers, layer)
	}
	return layers
}
