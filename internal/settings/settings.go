// Package settings loads and saves the plo settings file.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

// FileName is the default settings file name.
const FileName = ".plo.json"

// Settings errors.
var (
	ErrInvalid      = errors.New("invalid settings file")
	ErrDataDirEmpty = errors.New("data_dir cannot be empty")
)

// Settings holds all configuration options. The file is JSONC: comments
// and trailing commas are allowed.
type Settings struct {
	DataDir       string `json:"data_dir"`        //nolint:tagliatelle // snake_case for config file
	LockLoadOrder bool   `json:"lock_load_order"` //nolint:tagliatelle // snake_case for config file
}

// Default returns the default settings.
func Default() Settings {
	return Settings{
		DataDir: ".plo",
	}
}

// Load reads the settings file at path. A missing file yields defaults.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}

		return Settings{}, fmt.Errorf("reading settings: %w", err)
	}

	cfg, parseErr := parse(data)
	if parseErr != nil {
		return Settings{}, fmt.Errorf("%w %s: %w", ErrInvalid, path, parseErr)
	}

	if cfg.DataDir == "" {
		cfg.DataDir = Default().DataDir
	}

	if strings.TrimSpace(cfg.DataDir) == "" {
		return Settings{}, fmt.Errorf("%w %s: %w", ErrInvalid, path, ErrDataDirEmpty)
	}

	return cfg, nil
}

func parse(data []byte) (Settings, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Settings{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Settings

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Settings{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	return cfg, nil
}

// Save writes the settings file atomically, creating parent directories
// as needed.
func Save(path string, cfg Settings) error {
	mkdirErr := os.MkdirAll(filepath.Dir(path), 0o755)
	if mkdirErr != nil {
		return fmt.Errorf("creating settings dir: %w", mkdirErr)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	writeErr := atomic.WriteFile(path, strings.NewReader(string(data)+"\n"))
	if writeErr != nil {
		return fmt.Errorf("writing settings: %w", writeErr)
	}

	return nil
}

// Store persists settings at a fixed path and implements the load-order
// service's lock flag storage.
type Store struct {
	path string
}

// NewStore returns a Store backed by the settings file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the settings file path.
func (st *Store) Path() string {
	return st.path
}

// Load reads the settings file.
func (st *Store) Load() (Settings, error) {
	return Load(st.path)
}

// LoadLocked reads the persisted Lock Load Order flag.
func (st *Store) LoadLocked() (bool, error) {
	cfg, err := Load(st.path)
	if err != nil {
		return false, err
	}

	return cfg.LockLoadOrder, nil
}

// SaveLocked rewrites the settings file with the new lock flag, keeping
// the other fields.
func (st *Store) SaveLocked(locked bool) error {
	cfg, err := Load(st.path)
	if err != nil {
		return err
	}

	cfg.LockLoadOrder = locked

	return Save(st.path, cfg)
}
