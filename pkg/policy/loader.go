package policy

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// LoaderConfig controls policy file loading.
type LoaderConfig struct {
	// MaxFileSize is the maximum policy file size in bytes.
	// Default: 1 MiB.
	MaxFileSize int64

	// AllowedExtensions are the file extensions treated as policy files.
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

// Loader reads policy snapshot files from the file system.
type Loader struct {
	config *LoaderConfig
}

// NewLoader creates a policy loader with the given configuration.
func NewLoader(config *LoaderConfig) *Loader {
	if config == nil {
		config = DefaultLoaderConfig()
	}
	return &Loader{config: config}
}

// snapshotFile is the on-disk YAML shape of a policy bundle.
type snapshotFile struct {
	Version  string    `yaml:"version"`
	Policies []*Policy `yaml:"policies"`
}

// LoadFromFile loads the policies declared in a single YAML file. Every
// policy must pass structural validation (closed operator set, literal
// shapes); a single bad policy rejects the whole file.
func (l *Loader) LoadFromFile(path string) (string, []*Policy, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, &LoadError{FilePath: path, Message: "file not found", Cause: err}
		}
		return "", nil, &LoadError{FilePath: path, Message: "failed to access file", Cause: err}
	}

	if !info.Mode().IsRegular() {
		return "", nil, &LoadError{FilePath: path, Message: "not a regular file"}
	}

	if info.Size() > l.config.MaxFileSize {
		return "", nil, &LoadError{
			FilePath: path,
			Message:  fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", info.Size(), l.config.MaxFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, &LoadError{FilePath: path, Message: "failed to read file", Cause: err}
	}

	if !utf8.Valid(data) {
		return "", nil, &LoadError{FilePath: path, Message: "file contains invalid UTF-8 encoding"}
	}

	var file snapshotFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return "", nil, &ParseError{FilePath: path, Cause: err}
	}

	if len(file.Policies) == 0 {
		return "", nil, &LoadError{FilePath: path, Message: "no policies declared"}
	}

	seen := make(map[string]bool, len(file.Policies))
	for _, p := range file.Policies {
		if err := p.Validate(); err != nil {
			return "", nil, &LoadError{FilePath: path, Message: "policy validation failed", Cause: err}
		}
		if seen[p.ID] {
			return "", nil, &LoadError{FilePath: path, Message: fmt.Sprintf("duplicate policy id %q", p.ID)}
		}
		seen[p.ID] = true
	}

	return file.Version, file.Policies, nil
}

// LoadSnapshot loads every policy file under dir (recursively) into one
// immutable snapshot. The snapshot version is taken from the first file
// that declares one; files are visited in lexical walk order so the result
// is deterministic.
func (l *Loader) LoadSnapshot(dir string) (*Snapshot, error) {
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

	var (
		version  string
		policies []*Policy
		seen     = make(map[string]bool)
	)

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

		fileVersion, loaded, err := l.LoadFromFile(path)
		if err != nil {
			return err
		}
		if version == "" {
			version = fileVersion
		}
		for _, p := range loaded {
			if seen[p.ID] {
				return &LoadError{FilePath: path, Message: fmt.Sprintf("duplicate policy id %q across snapshot", p.ID)}
			}
			seen[p.ID] = true
		}
		policies = append(policies, loaded...)
		return nil
	})
	if err != nil {
		switch err.(type) {
		case *LoadError, *ParseError:
			return nil, err
		}
		return nil, &LoadError{FilePath: dir, Message: "failed to walk directory", Cause: err}
	}

	if len(policies) == 0 {
		return nil, &LoadError{FilePath: dir, Message: "no policy files found in directory"}
	}

	return NewSnapshot(version, policies), nil
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
