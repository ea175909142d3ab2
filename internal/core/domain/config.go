package domain

import "time"

// Config is the resolved project configuration.
type Config struct {
	// Module names the module whose files are indexed.
	Module string
	// Root is the absolute directory scanned for resource files.
	Root string
	// OutDir is the absolute directory generated sources are written to.
	OutDir string
	// StorePath is the absolute directory of the output record store.
	StorePath string
	// Debounce is the window used to coalesce file events in watch mode.
	Debounce time.Duration
	// Ignore lists base-name glob patterns skipped while walking Root.
	Ignore []string
	// Producers configures one source producer per entry.
	Producers []ProducerConfig
}

// ProducerConfig selects a strategy and the extensions it claims.
type ProducerConfig struct {
	Strategy   string
	Extensions []string
	Options    map[string]string
}

// Extensions returns the union of every producer's extensions in configuration order.
func (c *Config) Extensions() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.Producers {
		for _, ext := range p.Extensions {
			if _, ok := seen[ext]; ok {
				continue
			}
			seen[ext] = struct{}{}
			out = append(out, ext)
		}
	}
	return out
}
