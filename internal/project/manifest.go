package project

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"basil/internal/scope"
)

// DefaultExtensions are the source extensions analysed when
// [analysis].extensions is absent.
var DefaultExtensions = []string{".bas", ".cls", ".frm"}

// ErrNoManifest is returned by Load when no basil.toml exists above startDir.
var ErrNoManifest = errors.New("no " + ManifestName + " found")

// Manifest is a located and validated basil.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
	// Digest hashes the manifest bytes; outline cache keys include it.
	Digest Digest
}

// Config mirrors basil.toml.
type Config struct {
	Project     ProjectConfig     `toml:"project"`
	Analysis    AnalysisConfig    `toml:"analysis"`
	Application ApplicationConfig `toml:"application"`
}

type ProjectConfig struct {
	Name string `toml:"name"`
}

// AnalysisConfig bounds what gets analysed.
type AnalysisConfig struct {
	MaxLines   int      `toml:"max_lines"`
	Extensions []string `toml:"extensions"`
	Exclude    []string `toml:"exclude"` // glob-шаблоны относительно корня
}

// ApplicationConfig declares the host application library, e.g. Excel.
type ApplicationConfig struct {
	Name    string   `toml:"name"`
	Globals []string `toml:"globals"`
}

// Load finds basil.toml above startDir and parses it.
func Load(startDir string) (*Manifest, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoManifest
	}
	return LoadManifest(path)
}

// LoadManifest parses and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := parseConfig(path, data)
	if err != nil {
		return nil, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
		Digest: Sum(data),
	}, nil
}

func parseConfig(path string, data []byte) (Config, error) {
	var cfg Config
	meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("project") {
		return Config{}, fmt.Errorf("%s: missing [project]", path)
	}
	if !meta.IsDefined("project", "name") || strings.TrimSpace(cfg.Project.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [project].name", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Analysis.MaxLines < 0 {
		return Config{}, fmt.Errorf("%s: [analysis].max_lines must not be negative", path)
	}
	if meta.IsDefined("analysis", "extensions") {
		if len(cfg.Analysis.Extensions) == 0 {
			return Config{}, fmt.Errorf("%s: [analysis].extensions is empty", path)
		}
		for i, ext := range cfg.Analysis.Extensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			cfg.Analysis.Extensions[i] = ext
		}
	} else {
		cfg.Analysis.Extensions = append([]string(nil), DefaultExtensions...)
	}
	for _, pattern := range cfg.Analysis.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return Config{}, fmt.Errorf("%s: bad [analysis].exclude pattern %q: %w", path, pattern, err)
		}
	}
	if meta.IsDefined("application") && strings.TrimSpace(cfg.Application.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [application].name", path)
	}
	return cfg, nil
}

// Default returns the configuration used when no manifest exists.
func Default() Config {
	return Config{
		Analysis: AnalysisConfig{Extensions: append([]string(nil), DefaultExtensions...)},
	}
}

// Libraries returns the host application library, if one is configured.
func (c Config) Libraries() []scope.Library {
	name := strings.TrimSpace(c.Application.Name)
	if name == "" {
		return nil
	}
	return []scope.Library{scope.ApplicationLibrary(name, c.Application.Globals)}
}
