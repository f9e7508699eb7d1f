package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "chihirosctl"
	configFile = "config.yaml"

	// CurrentVersion is the only config file version understood.
	CurrentVersion = 1
)

var fileMutex sync.Mutex

// File is the on-disk configuration.
type File struct {
	Version int `yaml:"version"`

	// LogLevel is used when CHIHIROS_LOG_LEVEL is unset.
	LogLevel string `yaml:"log_level,omitempty"`

	// ScanTimeout bounds BLE discovery.
	ScanTimeout time.Duration `yaml:"scan_timeout,omitempty"`

	// Devices maps a user-chosen alias to a fixture.
	Devices map[string]*Device `yaml:"devices,omitempty"`
}

// Device is a saved fixture.
type Device struct {
	Address string `yaml:"address"`

	// Model overrides detection from the advertised name. It is a model name
	// or code, e.g. "WRGB II" or "DYNWRGB".
	Model string `yaml:"model,omitempty"`
}

// New returns an empty configuration.
func New() *File {
	return &File{
		Version: CurrentVersion,
		Devices: make(map[string]*Device),
	}
}

// Dir returns $XDG_CONFIG_HOME/chihirosctl, or ~/.config/chihirosctl.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the config at path. A missing file yields an empty config.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	f := New()
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if f.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", f.Version, CurrentVersion)
	}
	if f.Devices == nil {
		f.Devices = make(map[string]*Device)
	}
	return f, nil
}

// Save writes the config to path, replacing it atomically.
func (f *File) Save(path string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	header := []byte("# chihirosctl configuration\n\n")
	data = append(header, data...)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// SetDevice saves or replaces an alias.
func (f *File) SetDevice(alias, address, model string) error {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return errors.New("alias must not be empty")
	}
	if strings.TrimSpace(address) == "" {
		return errors.New("address must not be empty")
	}
	f.Devices[alias] = &Device{Address: address, Model: model}
	return nil
}

// RemoveDevice deletes an alias. It reports whether the alias existed.
func (f *File) RemoveDevice(alias string) bool {
	_, ok := f.Devices[alias]
	delete(f.Devices, alias)
	return ok
}

// Aliases returns every alias, sorted.
func (f *File) Aliases() []string {
	out := make([]string, 0, len(f.Devices))
	for alias := range f.Devices {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

// Resolve maps a command-line target to a scan target. Aliases are replaced
// by their address; anything else is returned unchanged with no model
// override.
func (f *File) Resolve(target string) (address, model string) {
	if d, ok := f.Devices[target]; ok {
		return d.Address, d.Model
	}
	return target, ""
}
