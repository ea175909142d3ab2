package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/typegen/internal/adapters/config"
	"go.trai.ch/typegen/internal/core/domain"
	"go.trai.ch/typegen/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestLoader_Load_Defaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, `
version: "1"
producers:
  - strategy: properties
    extensions: [".properties"]
`)

	cfg, err := config.NewLoader(mockLogger).Load(rootDir)
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultModuleName, cfg.Module)
	assert.Equal(t, rootDir, cfg.Root)
	assert.Equal(t, filepath.Join(rootDir, domain.DefaultOutDir), cfg.OutDir)
	assert.Equal(t, filepath.Join(rootDir, domain.TypegenDirName, domain.StoreDirName), cfg.StorePath)
	assert.Equal(t, domain.DefaultDebounce, cfg.Debounce)
	require.Len(t, cfg.Producers, 1)
	assert.Equal(t, "properties", cfg.Producers[0].Strategy)
	assert.Equal(t, []string{"properties"}, cfg.Producers[0].Extensions)
}

func TestLoader_Load_ExplicitValues(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, `
version: "1"
module: app
root: res
out: /tmp/typegen-out
store: state/outputs
debounce: 250ms
ignore: ["*.bak"]
producers:
  - strategy: properties
    extensions: [properties, msg]
    options:
      package: messages
`)

	cfg, err := config.NewLoader(mockLogger).Load(rootDir)
	require.NoError(t, err)

	assert.Equal(t, "app", cfg.Module)
	assert.Equal(t, filepath.Join(rootDir, "res"), cfg.Root)
	assert.Equal(t, "/tmp/typegen-out", cfg.OutDir)
	assert.Equal(t, filepath.Join(rootDir, "state", "outputs"), cfg.StorePath)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce)
	assert.Equal(t, []string{"*.bak"}, cfg.Ignore)
	assert.Equal(t, []string{"properties", "msg"}, cfg.Extensions())
	assert.Equal(t, map[string]string{"package": "messages"}, cfg.Producers[0].Options)
}

func TestLoader_Load_SearchesParents(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, `
producers:
  - strategy: properties
    extensions: [properties]
`)
	nested := filepath.Join(rootDir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))

	cfg, err := config.NewLoader(mockLogger).Load(nested)
	require.NoError(t, err)
	assert.Equal(t, rootDir, cfg.Root)
}

func TestLoader_Load_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	_, err := config.NewLoader(mockLogger).Load(t.TempDir())
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestLoader_Load_ParseError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, "producers: [")

	_, err := config.NewLoader(mockLogger).Load(rootDir)
	require.ErrorIs(t, err, domain.ErrConfigParseFailed)
}

func TestLoader_Load_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "unsupported version",
			content: "version: \"2\"\nproducers:\n  - strategy: properties\n    extensions: [properties]\n",
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:    "no producers",
			content: "version: \"1\"\n",
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:    "missing strategy",
			content: "producers:\n  - extensions: [properties]\n",
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:    "missing extensions",
			content: "producers:\n  - strategy: properties\n",
			wantErr: domain.ErrNoExtensions,
		},
		{
			name:    "bad debounce",
			content: "debounce: soon\nproducers:\n  - strategy: properties\n    extensions: [properties]\n",
			wantErr: domain.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockLogger := mocks.NewMockLogger(ctrl)

			rootDir := t.TempDir()
			createFile(t, rootDir, domain.ConfigFileName, tt.content)

			_, err := config.NewLoader(mockLogger).Load(rootDir)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoader_Load_DuplicateExtension(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn("extension claimed by several producers",
		"extension", "PROPERTIES", "kept", "properties", "ignored", "other")

	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, `
producers:
  - strategy: properties
    extensions: [properties]
  - strategy: other
    extensions: [PROPERTIES, txt]
`)

	cfg, err := config.NewLoader(mockLogger).Load(rootDir)
	require.NoError(t, err)
	require.Len(t, cfg.Producers, 2)
	assert.Equal(t, []string{"txt"}, cfg.Producers[1].Extensions)
}

func TestLoader_Load_FullyShadowedProducer(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()

	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, `
producers:
  - strategy: properties
    extensions: [properties]
  - strategy: other
    extensions: [properties]
`)

	_, err := config.NewLoader(mockLogger).Load(rootDir)
	require.ErrorIs(t, err, domain.ErrNoExtensions)
}

func createFile(t *testing.T, dir, name, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, name), []byte(content), domain.PrivateFilePerm)
	require.NoError(t, err)
}
