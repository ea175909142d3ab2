package properties_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/typegen/internal/adapters/properties"
	"go.trai.ch/typegen/internal/core/domain"
	"go.trai.ch/typegen/internal/engine/enginetest"
	"go.trai.ch/typegen/internal/engine/producer"
)

func messagesFile(t *testing.T) *enginetest.File {
	t.Helper()
	content, err := os.ReadFile(filepath.Join("testdata", "Messages.properties"))
	require.NoError(t, err)
	return enginetest.NewFile("pkg/Messages.properties", string(content))
}

func newStrategy(t *testing.T, options map[string]string) *properties.Strategy {
	t.Helper()
	s, err := properties.New(options)
	require.NoError(t, err)
	return s
}

func TestStrategy_Generate_Golden(t *testing.T) {
	s := newStrategy(t, nil)
	file := messagesFile(t)

	model, err := s.Map("pkg.Messages", file)
	require.NoError(t, err)

	tests := []struct {
		goldenName string
		topLevel   string
	}{
		{goldenName: "messages_constants", topLevel: "pkg.Messages"},
		{goldenName: "messages_keys", topLevel: "pkg.MessagesKeys"},
	}

	for _, tt := range tests {
		t.Run(tt.goldenName, func(t *testing.T) {
			var diags domain.Diagnostics
			src, err := s.Generate(context.Background(), tt.topLevel, "", model, &diags)
			require.NoError(t, err)
			assert.Empty(t, diags.All())

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, []byte(src))
		})
	}
}

func TestStrategy_Generate_AppendsToExisting(t *testing.T) {
	s := newStrategy(t, nil)
	model, err := s.Map("pkg.Messages", messagesFile(t))
	require.NoError(t, err)

	base, err := s.Generate(context.Background(), "pkg.Messages", "", model, domain.DiscardDiagnostics)
	require.NoError(t, err)

	combined, err := s.Generate(context.Background(), "pkg.MessagesKeys", base, model, domain.DiscardDiagnostics)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(combined, base))
	assert.Equal(t, 1, strings.Count(combined, "package pkg"))
	assert.Contains(t, combined, "var MessagesKeys = []string{")
}

func TestStrategy_Generate_ReportsIssues(t *testing.T) {
	s := newStrategy(t, map[string]string{properties.OptionPackage: "msgs"})
	file := enginetest.NewFile("Labels.properties", "=orphan\nok=1\nok=2\nnot-found=a\nnot_found=b\nbad..key=c\n")

	model, err := s.Map("Labels", file)
	require.NoError(t, err)

	var diags domain.Diagnostics
	src, err := s.Generate(context.Background(), "Labels", "", model, &diags)
	require.NoError(t, err)

	assert.Contains(t, src, "package msgs")
	assert.Contains(t, src, `LabelsOk       = "2"`)
	assert.Contains(t, src, `LabelsNotFound = "a"`)
	assert.NotContains(t, src, `"b"`)

	all := diags.All()
	require.Len(t, all, 4)
	assert.Equal(t, domain.Diagnostic{
		Severity: domain.SeverityError, FQN: "Labels", File: "Labels.properties", Line: 1, Message: "missing key",
	}, all[0])
	assert.Equal(t, 3, all[1].Line)
	assert.Contains(t, all[1].Message, `duplicate key "ok" overrides line 2`)
	assert.Equal(t, 6, all[2].Line)
	assert.Contains(t, all[2].Message, "empty segment")
	assert.Equal(t, domain.SeverityWarning, all[3].Severity)
	assert.Equal(t, 5, all[3].Line)
	assert.Contains(t, all[3].Message, "LabelsNotFound")
}

func TestStrategy_Generate_DefaultPackage(t *testing.T) {
	s := newStrategy(t, nil)
	model, err := s.Map("Top", enginetest.NewFile("Top.properties", "a=1"))
	require.NoError(t, err)

	src, err := s.Generate(context.Background(), "Top", "", model, domain.DiscardDiagnostics)
	require.NoError(t, err)
	assert.Contains(t, src, "package "+properties.DefaultPackage)
}

func TestStrategy_Generate_Canceled(t *testing.T) {
	s := newStrategy(t, nil)
	model, err := s.Map("pkg.Messages", messagesFile(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Generate(ctx, "pkg.Messages", "", model, domain.DiscardDiagnostics)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStrategy_Generate_ReservesKeyListName(t *testing.T) {
	tests := []struct {
		name    string
		options map[string]string
		content string
		keyList string
	}{
		{name: "default suffix", content: "keys=1\nname=x\n", keyList: "FooKeys"},
		{
			name:    "custom suffix",
			options: map[string]string{properties.OptionKeysSuffix: "List"},
			content: "list=1\nname=x\n",
			keyList: "FooList",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStrategy(t, tt.options)
			model, err := s.Map("pkg.Foo", enginetest.NewFile("pkg/Foo.properties", tt.content))
			require.NoError(t, err)

			var diags domain.Diagnostics
			constants, err := s.Generate(context.Background(), "pkg.Foo", "", model, &diags)
			require.NoError(t, err)
			assert.NotContains(t, constants, tt.keyList+" ")
			assert.Contains(t, constants, `FooName = "x"`)

			all := diags.All()
			require.Len(t, all, 1)
			assert.Equal(t, domain.SeverityWarning, all[0].Severity)
			assert.Equal(t, 1, all[0].Line)
			assert.Contains(t, all[0].Message, "clashes with the key list as "+tt.keyList)

			keys, err := s.Generate(context.Background(), "pkg."+tt.keyList, "", model, domain.DiscardDiagnostics)
			require.NoError(t, err)
			assert.Contains(t, keys, "var "+tt.keyList+" = []string{")
		})
	}
}

func TestStrategy_Generate_SurrogatePair(t *testing.T) {
	s := newStrategy(t, nil)
	model, err := s.Map("pkg.Foo", enginetest.NewFile("pkg/Foo.properties", "smile=\\uD83D\\uDE00\n"))
	require.NoError(t, err)

	var diags domain.Diagnostics
	src, err := s.Generate(context.Background(), "pkg.Foo", "", model, &diags)
	require.NoError(t, err)
	assert.Empty(t, diags.All())
	assert.Contains(t, src, "FooSmile = \"\U0001F600\"")
}

func TestStrategy_Generate_UnexpectedModel(t *testing.T) {
	s := newStrategy(t, nil)
	_, err := s.Generate(context.Background(), "pkg.Foo", "", &enginetest.Model{Name: "pkg.Foo"}, domain.DiscardDiagnostics)
	require.ErrorIs(t, err, domain.ErrUnexpectedModel)
}

func TestNew_Options(t *testing.T) {
	_, err := properties.New(map[string]string{properties.OptionPackage: "not a package"})
	require.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = properties.New(map[string]string{properties.OptionKeysSuffix: ""})
	require.ErrorIs(t, err, domain.ErrInvalidConfig)

	s := newStrategy(t, map[string]string{properties.OptionKeysSuffix: "List"})
	assert.Equal(t, []string{"pkg.FooList"}, s.AdditionalTypes("pkg.Foo", nil))
}

func TestStrategy_Registered(t *testing.T) {
	assert.Contains(t, producer.DefaultRegistry.Names(), properties.Name)

	s, err := producer.DefaultRegistry.New(properties.Name, nil)
	require.NoError(t, err)
	assert.IsType(t, &properties.Strategy{}, s)
}

func TestStrategy_Producer(t *testing.T) {
	s := newStrategy(t, nil)
	index := enginetest.NewIndex(messagesFile(t))
	p, err := producer.New(domain.NewModule("app", "/src"), index, []string{"properties"}, s)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"pkg.Messages", "pkg.MessagesKeys"}, p.AllTypeNames())

	assert.True(t, p.IsKnownType("pkg.Messages.errors"))
	assert.True(t, p.IsKnownType("pkg.Messages.errors.io"))
	assert.False(t, p.IsKnownType("pkg.Messages.greeting"))
	assert.False(t, p.IsKnownType("pkg.Messages.missing"))

	src, err := p.Produce(context.Background(), "pkg.MessagesKeys", "", nil)
	require.NoError(t, err)
	assert.Contains(t, src, `"errors.io.read",`)
	assert.False(t, p.Computed("pkg.Messages"))

	files, err := p.FilesForType("pkg.MessagesKeys")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "pkg/Messages.properties", files[0].Path())
}

func TestStrategy_Map_ReadFailure(t *testing.T) {
	s := newStrategy(t, nil)
	_, err := s.Map("pkg.Missing", brokenFile{File: enginetest.NewFile("pkg/Missing.properties", "")})
	require.ErrorIs(t, err, domain.ErrSourceIO)
}

type brokenFile struct {
	*enginetest.File
}

func (brokenFile) Open() (io.ReadCloser, error) {
	return nil, errors.New("permission denied")
}
