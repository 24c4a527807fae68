package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/autofake/config"
	"github.com/viant/autofake/fake"
	"github.com/viant/autofake/inspector"
	"github.com/viant/autofake/inspector/cheader"
	"github.com/viant/autofake/inspector/graph"
	"github.com/viant/autofake/inspector/include"
	"github.com/viant/autofake/inspector/repository"
	"golang.org/x/sync/errgroup"
)

// Service generates fakes for a set of headers
type Service struct {
	config    *config.Config
	fs        afs.Service
	factory   *inspector.Factory
	generator *fake.Generator
	verifier  *cheader.TreeSitterInspector
	detector  *repository.Detector
	logger    *slog.Logger
}

// New creates a service
func New(cfg *config.Config, options ...Option) *Service {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ret := &Service{config: cfg}
	for _, option := range options {
		option(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	if ret.logger == nil {
		ret.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ret.factory = inspector.NewFactory(ret.fs, cheader.WithIgnoreKeywords(cfg.IgnoreKeywords...))
	ret.generator = fake.New(fake.WithConfig(cfg.Generator()), fake.WithLogger(ret.logger))
	ret.verifier = cheader.NewTreeSitterInspector()
	ret.detector = repository.New(ret.fs)
	return ret
}

// Run generates fakes for input headers or directories. Headers are generated in include order,
// a failing header does not stop the others; its error is reported in the result.
func (s *Service) Run(ctx context.Context, inputs ...string) (*Report, error) {
	paths, err := s.expand(ctx, inputs)
	if err != nil {
		return nil, err
	}
	results := make([]*Result, len(paths))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers())
	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			results[i] = s.inspect(groupCtx, path)
			return nil
		})
	}
	_ = group.Wait()
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	var dirs []string
	for _, dir := range s.config.IncludeDirs {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		dirs = append(dirs, dir)
	}
	resolver := include.New(s.fs, dirs...)
	project := &graph.Project{}
	if len(paths) > 0 {
		if info, err := s.detector.DetectProject(ctx, paths[0]); err == nil {
			project.Name, project.RootPath = info.Name, info.RootPath
			s.logger.Debug("detected project", "name", info.Name, "type", info.Type, "root", info.RootPath)
		}
	}
	byPath := map[string]*Result{}
	for _, result := range results {
		if result.Err != nil {
			continue
		}
		if err = resolver.ResolveAll(ctx, result.File); err != nil {
			result.Err = err
			continue
		}
		project.AddFile(result.File)
		byPath[result.Path] = result
	}

	for _, layer := range project.Layers() {
		group, groupCtx = errgroup.WithContext(ctx)
		group.SetLimit(s.workers())
		for _, file := range layer {
			result := byPath[file.Path]
			group.Go(func() error {
				s.generate(groupCtx, result, resolver)
				return nil
			})
		}
		_ = group.Wait()
		if err = ctx.Err(); err != nil {
			return nil, err
		}
	}
	return &Report{Project: project, Results: results}, nil
}

func (s *Service) inspect(ctx context.Context, path string) *Result {
	result := &Result{Path: path}
	src, err := s.fs.DownloadWithURL(ctx, path)
	if err != nil {
		result.Err = fmt.Errorf("failed to read file: %w", err)
		return result
	}
	result.Source = src
	headerInspector, err := s.factory.GetInspector(path)
	if err != nil {
		s.logger.Warn("input is not a .h file, parsing as C header", "path", path)
		headerInspector = s.factory.Header()
	}
	if result.File, err = headerInspector.InspectSource(path, src); err != nil {
		result.Err = err
		return result
	}
	if s.config.Verify {
		warnings, err := s.verifier.Verify(ctx, result.File, src)
		if err != nil {
			s.logger.Warn("failed to verify header", "path", path, "error", err)
		}
		for _, warning := range warnings {
			s.logger.Warn(warning)
		}
		result.Warnings = warnings
	}
	s.logger.Debug("inspected header", "path", path, "declarations", len(result.File.Declarations))
	return result
}

func (s *Service) generate(ctx context.Context, result *Result, resolver *include.Resolver) {
	unit, err := s.generator.Generate(result.File, resolver)
	if err != nil {
		result.Err = err
		return
	}
	result.Unit = unit
	resolver.RecordVisited(unit.Visit(result.File))
	outputDir := s.config.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(result.Path)
	}
	for _, output := range []struct {
		name    string
		content []byte
	}{{unit.HeaderName, unit.Header}, {unit.SourceName, unit.Source}} {
		written, err := s.write(ctx, filepath.Join(outputDir, output.name), output.content)
		if err != nil {
			result.Err = err
			return
		}
		result.Written = result.Written || written
	}
	s.logger.Info("generated fakes", "path", result.Path, "header", unit.HeaderName, "fakes", len(unit.Fakes), "written", result.Written)
}

// write uploads content unless the existing file has the same hash
func (s *Service) write(ctx context.Context, URL string, content []byte) (bool, error) {
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return false, fmt.Errorf("failed to check %v: %w", URL, err)
	}
	if exists {
		existing, err := s.fs.DownloadWithURL(ctx, URL)
		if err != nil {
			s.logger.Warn("failed to read existing output", "URL", URL, "error", err)
		} else {
			prev, err1 := graph.Hash(existing)
			next, err2 := graph.Hash(content)
			if err1 == nil && err2 == nil && prev == next {
				s.logger.Debug("output unchanged", "URL", URL)
				return false, nil
			}
		}
	}
	if err = s.fs.Upload(ctx, URL, 0644, bytes.NewReader(content)); err != nil {
		return false, fmt.Errorf("failed to write %v: %w", URL, err)
	}
	return true, nil
}

// expand returns sorted absolute header paths, directories are walked for .h files
func (s *Service) expand(ctx context.Context, inputs []string) ([]string, error) {
	var paths []string
	seen := map[string]bool{}
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}
	fakeSuffix := s.config.Suffix + ".h"
	for _, input := range inputs {
		if abs, err := filepath.Abs(input); err == nil {
			input = abs
		}
		object, err := s.fs.Object(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to locate input %v: %w", input, err)
		}
		if !object.IsDir() {
			add(input)
			continue
		}
		var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
			if info.IsDir() {
				return true, nil
			}
			name := info.Name()
			if filepath.Ext(name) == ".h" && !strings.HasSuffix(name, fakeSuffix) {
				add(filepath.Join(url.Path(baseURL), parent, name))
			}
			return true, nil
		}
		if err = s.fs.Walk(ctx, input, visitor); err != nil {
			return nil, fmt.Errorf("failed to walk %v: %w", input, err)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *Service) workers() int {
	if s.config.Workers < 1 {
		return 1
	}
	return s.config.Workers
}
