package producer_test

import (
	"context"
	"errors"
	"io"
	"iter"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/typegen/internal/core/domain"
	"go.trai.ch/typegen/internal/core/ports/mocks"
	"go.trai.ch/typegen/internal/engine/enginetest"
	"go.trai.ch/typegen/internal/engine/events"
	"go.trai.ch/typegen/internal/engine/lazy"
	"go.trai.ch/typegen/internal/engine/producer"
	"go.uber.org/mock/gomock"
)

// testStrategy builds models from file content and renders them verbatim.
type testStrategy struct {
	mu         sync.Mutex
	maps       map[string]int
	inner      map[string][]string
	aliases    map[string]string
	additional map[string][]string
	peripheral map[string]*lazy.Cell[domain.Model]
	genErr     error
}

func newTestStrategy() *testStrategy {
	return &testStrategy{maps: make(map[string]int)}
}

func (s *testStrategy) Map(fqn string, file domain.File) (domain.Model, error) {
	s.mu.Lock()
	s.maps[fqn]++
	s.mu.Unlock()

	r, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &enginetest.Model{Name: fqn, Content: string(content), Sources: []domain.File{file}}, nil
}

func (s *testStrategy) mapped(fqn string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maps[fqn]
}

func (s *testStrategy) IsInnerType(topLevel, relative string) bool {
	for _, name := range s.inner[topLevel] {
		if name == relative {
			return true
		}
	}
	return false
}

func (s *testStrategy) Generate(
	_ context.Context,
	topLevel, existing string,
	model domain.Model,
	sink domain.DiagnosticSink,
) (string, error) {
	if s.genErr != nil {
		sink.Report(domain.Diagnostic{Severity: domain.SeverityError, FQN: topLevel, Message: s.genErr.Error()})
		return "", s.genErr
	}
	return existing + "// " + topLevel + "\n" + model.(*enginetest.Model).Content, nil
}

func (s *testStrategy) AliasFQN(fqn string, _ domain.File) string {
	if alias, ok := s.aliases[fqn]; ok {
		return alias
	}
	return fqn
}

func (s *testStrategy) AdditionalTypes(fqn string, _ domain.File) []string {
	return s.additional[fqn]
}

func (s *testStrategy) PeripheralTypes() map[string]*lazy.Cell[domain.Model] {
	return s.peripheral
}

var module = domain.NewModule("app", "/src/app")

func newProducer(t *testing.T, index *enginetest.Index, s producer.Strategy, opts ...producer.Option) *producer.SourceProducer {
	t.Helper()
	p, err := producer.New(module, index, []string{"properties"}, s, opts...)
	require.NoError(t, err)
	return p
}

func TestNew_RequiresExtensions(t *testing.T) {
	_, err := producer.New(module, enginetest.NewIndex(), []string{"", "."}, newTestStrategy())
	require.ErrorIs(t, err, domain.ErrNoExtensions)
}

func TestProducer_InnerTypeResolution(t *testing.T) {
	s := newTestStrategy()
	s.inner = map[string][]string{"pkg.Foo": {"Bar", "Bar.Baz"}}
	p := newProducer(t, enginetest.NewIndex(enginetest.NewFile("pkg/Foo.properties", "a=1")), s)

	top, ok := p.ResolveTopLevel("pkg.Foo.Bar")
	require.True(t, ok)
	assert.Equal(t, "pkg.Foo", top)

	assert.True(t, p.IsKnownType("pkg.Foo"))
	assert.True(t, p.IsKnownType("pkg.Foo.Bar"))
	assert.True(t, p.IsKnownType("pkg.Foo.Bar.Baz"))
	assert.False(t, p.IsKnownType("pkg.Foo.Qux"))
	assert.False(t, p.IsKnownType("pkg.Other"))
	assert.False(t, p.IsKnownType("pkg"))

	assert.True(t, p.IsTopLevelType("pkg.Foo"))
	assert.False(t, p.IsTopLevelType("pkg.Foo.Bar"))

	pkg, ok := p.PackageOf("pkg.Foo.Bar")
	require.True(t, ok)
	assert.Equal(t, "pkg", pkg)

	_, ok = p.ResolveTopLevel("nope.Foo")
	assert.False(t, ok)

	// Resolution never forces a model.
	assert.Zero(t, s.mapped("pkg.Foo"))
}

func TestProducer_BareIdentifier(t *testing.T) {
	p := newProducer(t, enginetest.NewIndex(enginetest.NewFile("Root.properties", "")), newTestStrategy())

	top, ok := p.ResolveTopLevel("Root")
	require.True(t, ok)
	assert.Equal(t, "Root", top)
	assert.True(t, p.IsKnownPackage(""))
	assert.Equal(t, []string{"Root"}, p.TypeNamesInPackage(""))
}

func TestProducer_PackageListing(t *testing.T) {
	index := enginetest.NewIndex(
		enginetest.NewFile("pkg/A.properties", ""),
		enginetest.NewFile("pkg/B.properties", ""),
		enginetest.NewFile("other/C.properties", ""),
		enginetest.NewFile("pkg/sub/D.properties", ""),
	)
	p := newProducer(t, index, newTestStrategy())

	assert.Equal(t, []string{"pkg.A", "pkg.B"}, p.TypeNamesInPackage("pkg"))
	assert.Equal(t, []string{"other.C", "pkg.A", "pkg.B", "pkg.sub.D"}, p.AllTypeNames())
	assert.True(t, p.IsKnownPackage("pkg"))
	assert.True(t, p.IsKnownPackage("pkg.sub"))
	assert.False(t, p.IsKnownPackage("pk"))
	assert.False(t, p.IsKnownPackage("pkg.A"))
	assert.Empty(t, p.TypeNamesInPackage("missing"))
}

func TestProducer_AliasSharing(t *testing.T) {
	s := newTestStrategy()
	s.additional = map[string][]string{"pkg.Foo": {"pkg.FooKeys"}}
	file := enginetest.NewFile("pkg/Foo.properties", "a=1")
	p := newProducer(t, enginetest.NewIndex(file), s)

	base, err := p.FilesForType("pkg.Foo")
	require.NoError(t, err)
	extra, err := p.FilesForType("pkg.FooKeys")
	require.NoError(t, err)

	assert.Equal(t, base, extra)
	assert.Equal(t, []domain.File{file}, base)
	assert.Equal(t, 1, s.mapped("pkg.Foo"))
	assert.Zero(t, s.mapped("pkg.FooKeys"))
	assert.Equal(t, []string{"pkg.Foo", "pkg.FooKeys"}, p.AffectedTypes(file))
}

func TestProducer_Aliasing(t *testing.T) {
	s := newTestStrategy()
	s.aliases = map[string]string{"pkg.Foo": "gen.Foo", "pkg.Skip": ""}
	foo := enginetest.NewFile("pkg/Foo.properties", "")
	skip := enginetest.NewFile("pkg/Skip.properties", "")
	p := newProducer(t, enginetest.NewIndex(foo, skip), s)

	assert.Equal(t, []string{"gen.Foo"}, p.AllTypeNames())
	assert.Equal(t, []string{"gen.Foo"}, p.TypesForFile(foo))
	assert.Empty(t, p.TypesForFile(skip))
	assert.Empty(t, p.TypesForFile(enginetest.NewFile("pkg/Foo.json", "")))
}

func TestProducer_Peripheral(t *testing.T) {
	s := newTestStrategy()
	s.peripheral = map[string]*lazy.Cell[domain.Model]{
		"virtual.Registry": lazy.Of[domain.Model](&enginetest.Model{Name: "virtual.Registry", Content: "x"}),
	}
	p := newProducer(t, enginetest.NewIndex(), s)

	assert.True(t, p.IsKnownType("virtual.Registry"))
	files, err := p.FilesForType("virtual.Registry")
	require.NoError(t, err)
	assert.Empty(t, files)

	src, err := p.Produce(context.Background(), "virtual.Registry", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "// virtual.Registry\nx", src)
}

func TestProducer_ProduceClearsModel(t *testing.T) {
	s := newTestStrategy()
	s.inner = map[string][]string{"pkg.Foo": {"Bar"}}
	p := newProducer(t, enginetest.NewIndex(enginetest.NewFile("pkg/Foo.properties", "a=1")), s)

	sink := &domain.Diagnostics{}
	src, err := p.Produce(context.Background(), "pkg.Foo.Bar", "// prior\n", sink)
	require.NoError(t, err)
	assert.Equal(t, "// prior\n// pkg.Foo\na=1", src)
	assert.Empty(t, sink.All())

	assert.False(t, p.Computed("pkg.Foo"))
	assert.Equal(t, 1, s.mapped("pkg.Foo"))

	_, err = p.Produce(context.Background(), "pkg.Foo", "", sink)
	require.NoError(t, err)
	assert.Equal(t, 2, s.mapped("pkg.Foo"))
}

func TestProducer_ProduceUnresolved(t *testing.T) {
	p := newProducer(t, enginetest.NewIndex(), newTestStrategy())

	_, err := p.Produce(context.Background(), "pkg.Missing", "", nil)
	require.ErrorIs(t, err, domain.ErrUnresolvedName)

	files, err := p.FilesForType("pkg.Missing")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestProducer_ProduceGenerationFailure(t *testing.T) {
	s := newTestStrategy()
	s.genErr = errors.New("bad key")
	p := newProducer(t, enginetest.NewIndex(enginetest.NewFile("pkg/Foo.properties", "")), s)

	sink := &domain.Diagnostics{}
	_, err := p.Produce(context.Background(), "pkg.Foo", "", sink)
	require.ErrorIs(t, err, domain.ErrGenerationFailed)
	require.ErrorIs(t, err, s.genErr)
	require.Len(t, sink.All(), 1)
	assert.False(t, p.Computed("pkg.Foo"))
}

func TestProducer_ModelConstructionFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := mocks.NewMockFileIndex(ctrl)
	broken := &brokenFile{File: enginetest.NewFile("pkg/Foo.properties", "")}
	var files iter.Seq2[string, domain.File] = func(yield func(string, domain.File) bool) {
		yield("pkg.Foo", broken)
	}
	index.EXPECT().FilesWithExtension("properties").Return(files).AnyTimes()

	s := newTestStrategy()
	p, err := producer.New(module, index, []string{"properties"}, s)
	require.NoError(t, err)

	_, err = p.Produce(context.Background(), "pkg.Foo", "", nil)
	require.ErrorIs(t, err, domain.ErrModelConstruction)
	assert.False(t, p.Computed("pkg.Foo"))

	_, err = p.Produce(context.Background(), "pkg.Foo", "", nil)
	require.ErrorIs(t, err, domain.ErrModelConstruction)
	assert.Equal(t, 2, s.mapped("pkg.Foo"))
}

type brokenFile struct {
	*enginetest.File
}

func (brokenFile) Open() (io.ReadCloser, error) {
	return nil, errors.New("permission denied")
}

func TestProducer_HandlesFile(t *testing.T) {
	p, err := producer.New(module, enginetest.NewIndex(), []string{".Properties", "props", "props"}, newTestStrategy())
	require.NoError(t, err)

	assert.Equal(t, []string{"Properties", "props"}, p.Extensions())
	assert.True(t, p.HandlesFile(enginetest.NewFile("a/B.properties", "")))
	assert.True(t, p.HandlesFile(enginetest.NewFile("a/B.PROPS", "")))
	assert.False(t, p.HandlesFile(enginetest.NewFile("a/B.json", "")))
	assert.Same(t, module, p.Module())
}

type acceptingStrategy struct {
	*testStrategy
}

func (acceptingStrategy) Accepts(file domain.File) bool {
	return !strings.HasPrefix(file.Path(), "vendor/")
}

func TestProducer_FileAcceptor(t *testing.T) {
	index := enginetest.NewIndex(
		enginetest.NewFile("pkg/A.properties", ""),
		enginetest.NewFile("vendor/B.properties", ""),
	)
	p := newProducer(t, index, acceptingStrategy{newTestStrategy()})

	assert.Equal(t, []string{"pkg.A"}, p.AllTypeNames())
	assert.True(t, p.HandlesFile(enginetest.NewFile("vendor/B.properties", "")))
}

func TestProducer_RefreshedFile(t *testing.T) {
	file := enginetest.NewFile("pkg/A.properties", "")
	index := enginetest.NewIndex(file)
	p := newProducer(t, index, newTestStrategy())
	require.Equal(t, []string{"pkg.A"}, p.AllTypeNames())

	index.Delete("pkg/A.properties")
	kind := p.RefreshedFile(file, []string{"pkg.A"}, domain.RefreshDeletion)

	assert.Equal(t, domain.RefreshDeletion, kind)
	assert.Empty(t, p.AllTypeNames())
}

func TestProducer_ClearAll(t *testing.T) {
	index := enginetest.NewIndex(enginetest.NewFile("pkg/A.properties", ""))
	p := newProducer(t, index, newTestStrategy())
	require.Equal(t, []string{"pkg.A"}, p.AllTypeNames())

	index.Add(enginetest.NewFile("pkg/B.properties", ""))
	assert.Equal(t, []string{"pkg.A"}, p.AllTypeNames())

	p.ClearAll()
	assert.Equal(t, []string{"pkg.A", "pkg.B"}, p.AllTypeNames())
}

func TestListener_DoesNotKeepProducerAlive(t *testing.T) {
	hub := events.NewHub()
	index := enginetest.NewIndex(enginetest.NewFile("pkg/A.properties", ""))

	func() {
		p := newProducer(t, index, newTestStrategy(), producer.WithHub(hub))
		require.Equal(t, []string{"pkg.A"}, p.AllTypeNames())
	}()
	require.Equal(t, 1, hub.Len())

	require.Eventually(t, func() bool {
		runtime.GC()
		_ = hub.RefreshAll(context.Background(), nil)
		return hub.Len() == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestProducer_Close(t *testing.T) {
	hub := events.NewHub()
	p := newProducer(t, enginetest.NewIndex(), newTestStrategy(), producer.WithHub(hub))
	require.Equal(t, 1, hub.Len())

	p.Close()
	assert.Zero(t, hub.Len())
}

// modelInnerStrategy answers nested names from the model content.
type modelInnerStrategy struct {
	*testStrategy
}

func (s modelInnerStrategy) IsInnerTypeOf(model domain.Model, relative string) bool {
	for _, line := range strings.Split(model.(*enginetest.Model).Content, "\n") {
		if line == relative {
			return true
		}
	}
	return false
}

func TestProducer_ModelInnerTyper(t *testing.T) {
	s := modelInnerStrategy{newTestStrategy()}
	p := newProducer(t, enginetest.NewIndex(enginetest.NewFile("pkg/Foo.properties", "Bar\nBaz")), s)

	assert.True(t, p.IsKnownType("pkg.Foo.Bar"))
	assert.True(t, p.IsKnownType("pkg.Foo.Baz"))
	assert.False(t, p.IsKnownType("pkg.Foo.Qux"))
	assert.True(t, p.Computed("pkg.Foo"))
	assert.Equal(t, 1, s.mapped("pkg.Foo"))
}

// flatStrategy has no nested-type hook at all.
type flatStrategy struct {
	base *testStrategy
}

func (s flatStrategy) Map(fqn string, file domain.File) (domain.Model, error) {
	return s.base.Map(fqn, file)
}

func (s flatStrategy) Generate(
	ctx context.Context,
	topLevel, existing string,
	model domain.Model,
	sink domain.DiagnosticSink,
) (string, error) {
	return s.base.Generate(ctx, topLevel, existing, model, sink)
}

func TestProducer_WithoutInnerTypeHooks(t *testing.T) {
	s := flatStrategy{newTestStrategy()}
	p := newProducer(t, enginetest.NewIndex(enginetest.NewFile("pkg/Foo.properties", "Bar")), s)

	assert.True(t, p.IsKnownType("pkg.Foo"))
	assert.False(t, p.IsKnownType("pkg.Foo.Bar"))
	top, ok := p.ResolveTopLevel("pkg.Foo.Bar")
	require.True(t, ok)
	assert.Equal(t, "pkg.Foo", top)
	assert.False(t, p.Computed("pkg.Foo"))
}
