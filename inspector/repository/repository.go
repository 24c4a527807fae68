package repository

// Repository represents the version controlled tree holding headers
type Repository struct {
	Kind   string
	Root   string
	Origin string
	Info   *Project
}

// Project represents information about a detected C project
type Project struct {
	RootPath     string // Absolute path to the project root directory
	Type         string // Build system of the project (cmake, meson, autotools, make, git)
	Name         string // Name of the project (extracted from build files)
	RelativePath string // Path from project root to the specified file
}
