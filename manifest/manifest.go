// Package manifest handles caby.toml configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/chazu/caby/pkg/bytecode"
)

// FileName is the configuration file Load and FindAndLoad look for.
const FileName = "caby.toml"

// Manifest represents a caby.toml configuration.
type Manifest struct {
	Growth  GrowthConfig  `toml:"growth"`
	Log     LogConfig     `toml:"log"`
	Profile ProfileConfig `toml:"profile"`

	// Dir is the directory containing the caby.toml file (set at load time).
	Dir string `toml:"-"`
}

// GrowthConfig configures the capacity policy of chunks and constant pools.
type GrowthConfig struct {
	MinCapacity int `toml:"min-capacity"`
	Factor      int `toml:"factor"`
	MaxElements int `toml:"max-elements"`
}

// LogConfig configures logging.
type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// ProfileConfig configures the growth profile store.
type ProfileConfig struct {
	Database string `toml:"database"`
}

// Default returns the configuration used when no caby.toml exists.
func Default() *Manifest {
	m := &Manifest{}
	m.applyDefaults()
	return m
}

// Load parses a caby.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("manifest: cannot resolve path %s: %w", dir, err)
	}

	m.applyDefaults()
	if err := m.GrowthPolicy().Validate(); err != nil {
		return nil, fmt.Errorf("manifest: %s: %w", path, err)
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a caby.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// GrowthPolicy returns the configured growth policy.
func (m *Manifest) GrowthPolicy() bytecode.Growth {
	return bytecode.Growth{
		MinCapacity: m.Growth.MinCapacity,
		Factor:      m.Growth.Factor,
		MaxElements: m.Growth.MaxElements,
	}
}

// DatabasePath returns the profile database path, resolved against Dir
// when relative. Empty means profiling is off.
func (m *Manifest) DatabasePath() string {
	return m.resolve(m.Profile.Database)
}

// LogFile returns the log file path, resolved against Dir when relative.
// Empty means logging goes to stderr.
func (m *Manifest) LogFile() string {
	return m.resolve(m.Log.File)
}

func (m *Manifest) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || m.Dir == "" {
		return p
	}
	return filepath.Join(m.Dir, p)
}

func (m *Manifest) applyDefaults() {
	if m.Growth.MinCapacity == 0 {
		m.Growth.MinCapacity = bytecode.DefaultGrowth.MinCapacity
	}
	if m.Growth.Factor == 0 {
		m.Growth.Factor = bytecode.DefaultGrowth.Factor
	}
}
