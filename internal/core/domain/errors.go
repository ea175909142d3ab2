package domain

import "go.trai.ch/zerr"

var (
	// ErrUnresolvedName is returned when a name has no matching top-level type in the cache.
	ErrUnresolvedName = zerr.New("name does not resolve to a known type")

	// ErrModelConstruction is returned when a model mapper fails to build a model.
	ErrModelConstruction = zerr.New("failed to construct model")

	// ErrSourceIO is returned when the text of a resource file cannot be read.
	ErrSourceIO = zerr.New("failed to read resource file")

	// ErrGenerationFailed is returned when a strategy fails to synthesize source.
	ErrGenerationFailed = zerr.New("failed to generate source")

	// ErrUnexpectedModel is returned when a strategy is handed a model built by another strategy.
	ErrUnexpectedModel = zerr.New("unexpected model type")

	// ErrDeclarationClash is returned when two outputs of one package declare the same identifier.
	ErrDeclarationClash = zerr.New("identifier already declared in package")

	// ErrUnknownStrategy is returned when a configured strategy name is not registered.
	ErrUnknownStrategy = zerr.New("unknown strategy")

	// ErrStrategyAlreadyRegistered is returned when a strategy name is registered twice.
	ErrStrategyAlreadyRegistered = zerr.New("strategy already registered")

	// ErrNoExtensions is returned when a producer is configured without any file extension.
	ErrNoExtensions = zerr.New("producer requires at least one extension")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when no typegen.yaml can be found.
	ErrConfigNotFound = zerr.New("could not find typegen.yaml")

	// ErrInvalidConfig is returned when the config file is syntactically valid but unusable.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrStoreReadFailed is returned when the output store cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read output store")

	// ErrStoreUnmarshalFailed is returned when the output store cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal output store")

	// ErrStoreMarshalFailed is returned when the output store cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal output store")

	// ErrStoreWriteFailed is returned when the output store cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write output store")

	// ErrOutputWriteFailed is returned when a generated file cannot be written.
	ErrOutputWriteFailed = zerr.New("failed to write generated output")

	// ErrWalkFailed is returned when the resource root cannot be walked.
	ErrWalkFailed = zerr.New("failed to walk resource root")

	// ErrWatcherStartFailed is returned when the file watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")
)
