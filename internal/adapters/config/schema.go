package config

// Typegenfile represents the structure of the typegen.yaml configuration file.
type Typegenfile struct {
	Version   string         `yaml:"version"`
	Module    string         `yaml:"module"`
	Root      string         `yaml:"root"`
	Out       string         `yaml:"out"`
	Store     string         `yaml:"store"`
	Debounce  string         `yaml:"debounce"`
	Ignore    []string       `yaml:"ignore"`
	Producers []*ProducerDTO `yaml:"producers"`
}

// ProducerDTO represents a producer definition in the configuration.
type ProducerDTO struct {
	Strategy   string            `yaml:"strategy"`
	Extensions []string          `yaml:"extensions"`
	Options    map[string]string `yaml:"options"`
}
