package spec

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// LoaderConfig controls spec file loading.
type LoaderConfig struct {
	// MaxFileSize is the maximum spec file size in bytes.
	// Default: 1 MiB.
	MaxFileSize int64

	// AllowedExtensions are the file extensions treated as spec files.
	// Default: .yaml, .yml.
	AllowedExtensions []string

	// SkipHidden skips dotfiles and dot-directories when walking.
	// Default: true.
	SkipHidden bool
}

// DefaultLoaderConfig returns the default loader configuration.
func DefaultLoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		MaxFileSize:       1 << 20,
		AllowedExtensions: []string{".yaml", ".yml"},
		SkipHidden:        true,
	}
}

// Loader reads decision contracts from YAML files.
type Loader struct {
	config *LoaderConfig
}

// NewLoader creates a spec loader with the given configuration.
func NewLoader(config *LoaderConfig) *Loader {
	if config == nil {
		config = DefaultLoaderConfig()
	}
	return &Loader{config: config}
}

// specFile is the on-disk YAML shape. A file may declare one spec or a
// list of specs under a top-level "specs" key.
type specFile struct {
	Specs []*Spec `yaml:"specs"`
}

// LoadFromFile loads the specs declared in a single YAML file. Each loaded
// spec must pass structural validation.
func (l *Loader) LoadFromFile(path string) ([]*Spec, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{FilePath: path, Message: "file not found", Cause: err}
		}
		return nil, &LoadError{FilePath: path, Message: "failed to access file", Cause: err}
	}

	if !info.Mode().IsRegular() {
		return nil, &LoadError{FilePath: path, Message: "not a regular file"}
	}

	if info.Size() > l.config.MaxFileSize {
		return nil, &LoadError{
			FilePath: path,
			Message:  fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", info.Size(), l.config.MaxFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{FilePath: path, Message: "failed to read file", Cause: err}
	}

	if !utf8.Valid(data) {
		return nil, &LoadError{FilePath: path, Message: "file contains invalid UTF-8 encoding"}
	}

	var file specFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &ParseError{FilePath: path, Cause: err}
	}

	specs := file.Specs
	if len(specs) == 0 {
		// Fall back to a single top-level spec document.
		var single Spec
		if err := yaml.Unmarshal(data, &single); err != nil {
			return nil, &ParseError{FilePath: path, Cause: err}
		}
		if single.ID == "" {
			return nil, &LoadError{FilePath: path, Message: "no specs declared"}
		}
		specs = []*Spec{&single}
	}

	for _, s := range specs {
		if err := s.Validate(); err != nil {
			return nil, &LoadError{FilePath: path, Message: "spec validation failed", Cause: err}
		}
	}

	return specs, nil
}

// LoadFromDirectory loads every spec file in the directory recursively.
func (l *Loader) LoadFromDirectory(dir string) ([]*Spec, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{FilePath: dir, Message: "directory not found", Cause: err}
		}
		return nil, &LoadError{FilePath: dir, Message: "failed to access directory", Cause: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{FilePath: dir, Message: "not a directory"}
	}

	var specs []*Spec
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if l.config.SkipHidden && strings.HasPrefix(d.Name(), ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !l.hasValidExtension(path) {
			return nil
		}

		loaded, err := l.LoadFromFile(path)
		if err != nil {
			return err
		}
		specs = append(specs, loaded...)
		return nil
	})
	if err != nil {
		if _, ok := err.(*LoadError); ok {
			return nil, err
		}
		if _, ok := err.(*ParseError); ok {
			return nil, err
		}
		return nil, &LoadError{FilePath: dir, Message: "failed to walk directory", Cause: err}
	}

	if len(specs) == 0 {
		return nil, &LoadError{FilePath: dir, Message: "no spec files found in directory"}
	}

	return specs, nil
}

// hasValidExtension checks the file extension against the allow list.
func (l *Loader) hasValidExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range l.config.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
