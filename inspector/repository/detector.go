package repository

import (
	"bufio"
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/viant/afs"
)

var (
	cmakeProject  = regexp.MustCompile(`(?i)project\s*\(\s*([A-Za-z0-9_.+-]+)`)
	mesonProject  = regexp.MustCompile(`project\s*\(\s*'([^']+)'`)
	autoconfInit  = regexp.MustCompile(`AC_INIT\(\s*\[?([^\],)]+)`)
	makefileLabel = regexp.MustCompile(`(?m)^\s*(?:PROJECT|PROJECT_NAME|TARGET)\s*:?=\s*(\S+)`)
)

// Detector identifies project root folders and provides project-related information
type Detector struct {
	fs afs.Service
	// Common project root marker files/directories
	markers []string
}

// New creates a new project detector instance
func New(fs afs.Service) *Detector {
	if fs == nil {
		fs = afs.New()
	}
	return &Detector{
		fs: fs,
		markers: []string{
			"CMakeLists.txt", // CMake projects
			"meson.build",    // Meson projects
			"configure.ac",   // Autotools projects
			"Makefile",       // Make projects
			".git",           // Generic VCS marker
		},
	}
}

// DetectProject identifies the project root for the given file path and returns project info
func (d *Detector) DetectProject(ctx context.Context, filePath string) (*Project, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}
	object, err := d.fs.Object(ctx, absPath)
	if err != nil {
		return nil, err
	}
	startDir := absPath
	if !object.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	rootPath, projectType := d.findProjectRoot(ctx, startDir)
	info := &Project{
		Type:     "unknown",
		RootPath: startDir,
		Name:     filepath.Base(startDir),
	}
	if rootPath != "" {
		info.RootPath = rootPath
		info.Type = projectType
		info.Name = d.extractProjectName(ctx, rootPath, projectType)
	}
	relPath, err := filepath.Rel(info.RootPath, absPath)
	if err != nil {
		relPath = filepath.Base(absPath)
	}
	info.RelativePath = filepath.ToSlash(relPath)
	return info, nil
}

// DetectRepository identifies the repository containing the given file path
func (d *Detector) DetectRepository(ctx context.Context, filePath string) (*Repository, error) {
	info, err := d.DetectProject(ctx, filePath)
	if err != nil {
		return nil, err
	}
	if gitRoot := d.findGitRoot(ctx, filepath.Join(info.RootPath, info.RelativePath)); gitRoot != "" {
		return &Repository{
			Kind:   "git",
			Root:   gitRoot,
			Origin: d.extractGitOrigin(ctx, gitRoot),
			Info:   info,
		}, nil
	}
	return &Repository{Kind: info.Type, Root: info.RootPath, Info: info}, nil
}

// findProjectRoot searches up from the current directory for project markers
func (d *Detector) findProjectRoot(ctx context.Context, startDir string) (string, string) {
	dir := startDir
	for {
		for _, marker := range d.markers {
			if ok, _ := d.fs.Exists(ctx, filepath.Join(dir, marker)); ok {
				return dir, determineProjectType(marker)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ""
		}
		dir = parent
	}
}

// findGitRoot finds the root of the git repository containing the given path
func (d *Detector) findGitRoot(ctx context.Context, path string) string {
	dir := filepath.Dir(path)
	for {
		if ok, _ := d.fs.Exists(ctx, filepath.Join(dir, ".git")); ok {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// extractGitOrigin extracts the origin URL from git config
func (d *Detector) extractGitOrigin(ctx context.Context, gitRoot string) string {
	data, err := d.fs.DownloadWithURL(ctx, filepath.Join(gitRoot, ".git", "config"))
	if err != nil {
		return ""
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	foundRemote := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") {
			foundRemote = line == `[remote "origin"]`
			continue
		}
		if foundRemote && strings.HasPrefix(line, "url") {
			if _, value, ok := strings.Cut(line, "="); ok {
				return strings.TrimSpace(value)
			}
		}
	}
	return ""
}

// extractProjectName attempts to extract a project name from build files
func (d *Detector) extractProjectName(ctx context.Context, rootPath string, projectType string) string {
	var name string
	switch projectType {
	case "cmake":
		name = d.match(ctx, filepath.Join(rootPath, "CMakeLists.txt"), cmakeProject)
	case "meson":
		name = d.match(ctx, filepath.Join(rootPath, "meson.build"), mesonProject)
	case "autotools":
		name = d.match(ctx, filepath.Join(rootPath, "configure.ac"), autoconfInit)
	case "make":
		name = d.match(ctx, filepath.Join(rootPath, "Makefile"), makefileLabel)
	case "git":
		if origin := d.extractGitOrigin(ctx, rootPath); origin != "" {
			origin = strings.TrimSuffix(strings.TrimSuffix(origin, "/"), ".git")
			name = origin[strings.LastIndexAny(origin, "/:")+1:]
		}
	}
	if name == "" {
		name = filepath.Base(rootPath)
	}
	return name
}

func (d *Detector) match(ctx context.Context, URL string, expr *regexp.Regexp) string {
	data, err := d.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return ""
	}
	matches := expr.FindSubmatch(data)
	if len(matches) < 2 {
		return ""
	}
	return strings.TrimSpace(string(matches[1]))
}

// determineProjectType identifies the type of project based on the marker file
func determineProjectType(marker string) string {
	switch marker {
	case "CMakeLists.txt":
		return "cmake"
	case "meson.build":
		return "meson"
	case "configure.ac":
		return "autotools"
	case "Makefile":
		return "make"
	case ".git":
		return "git"
	default:
		return "unknown"
	}
}
