package properties

import (
	"go/token"

	"go.trai.ch/typegen/internal/adapters/fs"
	"go.trai.ch/typegen/internal/core/domain"
	"go.trai.ch/typegen/internal/engine/producer"
	"go.trai.ch/zerr"
)

// Name is the name the strategy is registered under.
const Name = "properties"

const (
	// OptionPackage sets the Go package clause of generated files.
	OptionPackage = "package"
	// OptionKeysSuffix sets the suffix of the key-list type.
	OptionKeysSuffix = "keys_suffix"

	// DefaultKeysSuffix names the key-list type of Foo as FooKeys.
	DefaultKeysSuffix = "Keys"
)

var (
	_ producer.Strategy        = (*Strategy)(nil)
	_ producer.AdditionalTyper = (*Strategy)(nil)
	_ producer.ModelInnerTyper = (*Strategy)(nil)
)

func init() {
	producer.DefaultRegistry.MustRegister(Name, func(options map[string]string) (producer.Strategy, error) {
		s, err := New(options)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}

// Strategy turns .properties files into Go constants.
type Strategy struct {
	pkg        string
	keysSuffix string
}

// New creates a Strategy from its options.
func New(options map[string]string) (*Strategy, error) {
	s := &Strategy{
		pkg:        options[OptionPackage],
		keysSuffix: DefaultKeysSuffix,
	}
	if s.pkg != "" && !token.IsIdentifier(s.pkg) {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "package option is not an identifier"), "package", s.pkg)
	}
	if suffix, ok := options[OptionKeysSuffix]; ok {
		if suffix == "" || !token.IsIdentifier("X"+suffix) {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "keys suffix is not an identifier"), "suffix", suffix)
		}
		s.keysSuffix = suffix
	}
	return s, nil
}

// Map parses file into a Model.
func (s *Strategy) Map(fqn string, file domain.File) (domain.Model, error) {
	content, err := fs.ReadContent(file)
	if err != nil {
		return nil, err
	}
	entries, issues := Parse(content)
	return NewModel(fqn, file, entries, issues), nil
}

// IsInnerTypeOf reports whether relative is a key prefix with nested keys.
func (s *Strategy) IsInnerTypeOf(model domain.Model, relative string) bool {
	m, ok := model.(*Model)
	if !ok {
		return false
	}
	n, ok := m.Lookup(relative)
	return ok && n.IsGroup()
}

// AdditionalTypes names the key-list type that shares the model of fqn.
func (s *Strategy) AdditionalTypes(fqn string, _ domain.File) []string {
	return []string{fqn + s.keysSuffix}
}
