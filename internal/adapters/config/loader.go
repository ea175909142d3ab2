// Package config provides the configuration loader for typegen.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/typegen/internal/core/domain"
	"go.trai.ch/typegen/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the only configuration version understood.
const SupportedVersion = "1"

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds typegen.yaml in cwd or the nearest parent directory and returns
// the resolved configuration. Relative paths are resolved against the
// directory holding the file.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	configPath, err := findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	var file Typegenfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, err
	}

	cfg, err := l.resolve(filepath.Dir(configPath), &file)
	if err != nil {
		return nil, zerr.With(err, "config", configPath)
	}
	return cfg, nil
}

func findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "no configuration"), "cwd", cwd)
		}
		currentDir = parentDir
	}
}

func readAndUnmarshalYAML(path string, out any) error {
	data, err := os.ReadFile(path) //nolint:gosec // Path is discovered from the working directory
	if err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrConfigReadFailed, err), "path", path)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrConfigParseFailed, err), "path", path)
	}
	return nil
}

func (l *Loader) resolve(baseDir string, file *Typegenfile) (*domain.Config, error) {
	if file.Version != "" && file.Version != SupportedVersion {
		return nil, invalid("unsupported version", "version", file.Version)
	}
	if len(file.Producers) == 0 {
		return nil, invalid("at least one producer is required", "producers", 0)
	}

	cfg := &domain.Config{
		Module:    orDefault(file.Module, domain.DefaultModuleName),
		Root:      resolvePath(baseDir, orDefault(file.Root, ".")),
		OutDir:    resolvePath(baseDir, orDefault(file.Out, domain.DefaultOutDir)),
		StorePath: resolvePath(baseDir, orDefault(file.Store, domain.DefaultStorePath())),
		Debounce:  domain.DefaultDebounce,
		Ignore:    file.Ignore,
	}

	if file.Debounce != "" {
		d, err := time.ParseDuration(file.Debounce)
		if err != nil || d < 0 {
			return nil, invalid("debounce must be a non-negative duration", "debounce", file.Debounce)
		}
		cfg.Debounce = d
	}

	claimed := make(map[string]string)
	for i, dto := range file.Producers {
		p, err := resolveProducer(dto)
		if err != nil {
			return nil, zerr.With(err, "producer", i)
		}
		// An extension belongs to the first producer that claims it.
		exts := p.Extensions[:0]
		for _, ext := range p.Extensions {
			key := strings.ToLower(ext)
			if owner, ok := claimed[key]; ok {
				l.Logger.Warn("extension claimed by several producers",
					"extension", ext, "kept", owner, "ignored", p.Strategy)
				continue
			}
			claimed[key] = p.Strategy
			exts = append(exts, ext)
		}
		if len(exts) == 0 {
			return nil, zerr.With(zerr.With(
				zerr.Wrap(domain.ErrNoExtensions, domain.ErrInvalidConfig.Error()), "strategy", p.Strategy), "producer", i)
		}
		p.Extensions = exts
		cfg.Producers = append(cfg.Producers, p)
	}
	return cfg, nil
}

func resolveProducer(dto *ProducerDTO) (domain.ProducerConfig, error) {
	if dto == nil || dto.Strategy == "" {
		return domain.ProducerConfig{}, invalid("producer strategy is required", "strategy", "")
	}
	exts := make([]string, 0, len(dto.Extensions))
	for _, ext := range dto.Extensions {
		if ext = strings.TrimPrefix(strings.TrimSpace(ext), "."); ext != "" {
			exts = append(exts, ext)
		}
	}
	if len(exts) == 0 {
		return domain.ProducerConfig{}, zerr.With(
			zerr.Wrap(domain.ErrNoExtensions, domain.ErrInvalidConfig.Error()), "strategy", dto.Strategy)
	}
	return domain.ProducerConfig{
		Strategy:   dto.Strategy,
		Extensions: exts,
		Options:    dto.Options,
	}, nil
}

func invalid(msg, key string, value any) error {
	return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, msg), key, value)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func resolvePath(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(baseDir, p)
}
