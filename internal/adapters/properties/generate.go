package properties

import (
	"context"
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"unicode"

	"go.trai.ch/typegen/internal/core/domain"
	"go.trai.ch/zerr"
)

// DefaultPackage is used when neither the option nor the name provides a package.
const DefaultPackage = "resources"

// Generate renders the constants of the model, or its key list when topLevel
// is the key-list name. Declarations are appended to existing when it is not
// empty.
func (s *Strategy) Generate(
	ctx context.Context,
	topLevel, existing string,
	model domain.Model,
	sink domain.DiagnosticSink,
) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m, ok := model.(*Model)
	if !ok {
		return "", zerr.With(zerr.Wrap(domain.ErrUnexpectedModel, "cannot generate"), "type", fmt.Sprintf("%T", model))
	}

	g := &generator{sink: sink, model: m, used: make(map[string]string)}
	if existing == "" {
		fmt.Fprintf(&g.buf, "// Code generated by typegen from %s. DO NOT EDIT.\n\npackage %s\n",
			displayPath(m.files[0]), s.packageName(m.fqn))
	} else {
		g.buf.WriteString(existing)
	}

	if topLevel == m.fqn {
		g.reportIssues()
		g.used[exportedIdent(domain.SimpleName(m.fqn+s.keysSuffix))] = "the key list"
		g.constants(exportedIdent(domain.SimpleName(m.fqn)), m.Root)
	} else {
		g.keys(exportedIdent(domain.SimpleName(topLevel)))
	}

	src, err := format.Source([]byte(g.buf.String()))
	if err != nil {
		return "", zerr.Wrap(err, "generated source does not parse")
	}
	return string(src), nil
}

func (s *Strategy) packageName(fqn string) string {
	if s.pkg != "" {
		return s.pkg
	}
	pkg := domain.SimpleName(domain.PackageOf(fqn))
	var b strings.Builder
	for _, r := range strings.ToLower(pkg) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" || unicode.IsDigit(rune(name[0])) {
		return DefaultPackage
	}
	return name
}

type generator struct {
	buf   strings.Builder
	sink  domain.DiagnosticSink
	model *Model
	used  map[string]string
}

func (g *generator) report(severity domain.Severity, line int, msg string) {
	g.sink.Report(domain.Diagnostic{
		Severity: severity,
		FQN:      g.model.fqn,
		File:     displayPath(g.model.files[0]),
		Line:     line,
		Message:  msg,
	})
}

func (g *generator) reportIssues() {
	for _, issue := range g.model.Issues {
		g.report(domain.SeverityError, issue.Line, issue.Message)
	}
}

// claim reserves ident for the node, reporting a clash with an earlier key
// or with the key list.
func (g *generator) claim(ident string, n *Node) bool {
	if owner, ok := g.used[ident]; ok {
		g.report(domain.SeverityWarning, n.Line,
			fmt.Sprintf("key %q clashes with %s as %s and is skipped", n.Key, owner, ident))
		return false
	}
	g.used[ident] = fmt.Sprintf("line %d", n.Line)
	return true
}

func (g *generator) constants(prefix string, group *Node) {
	var values []*Node
	for _, c := range group.Children {
		if c.HasValue {
			values = append(values, c)
		}
	}

	if len(values) > 0 {
		g.buf.WriteString("\n")
		if group.Key == "" {
			fmt.Fprintf(&g.buf, "// %s holds the values of %s.\n", prefix, displayPath(g.model.files[0]))
		} else {
			fmt.Fprintf(&g.buf, "// %s holds the values of the %s.* keys.\n", prefix, group.Key)
		}
		g.buf.WriteString("const (\n")
		for _, c := range values {
			ident := prefix + exportedIdent(c.Name)
			if !g.claim(ident, c) {
				continue
			}
			fmt.Fprintf(&g.buf, "\t%s = %s // %s\n", ident, strconv.Quote(c.Value), c.Key)
		}
		g.buf.WriteString(")\n")
	}

	for _, c := range group.Children {
		if c.IsGroup() {
			g.constants(prefix+exportedIdent(c.Name), c)
		}
	}
}

func (g *generator) keys(ident string) {
	fmt.Fprintf(&g.buf, "\n// %s lists the keys of %s in file order.\n", ident, displayPath(g.model.files[0]))
	fmt.Fprintf(&g.buf, "var %s = []string{\n", ident)
	for _, k := range g.model.Keys {
		fmt.Fprintf(&g.buf, "\t%s,\n", strconv.Quote(k))
	}
	g.buf.WriteString("}\n")
}

// exportedIdent turns a key segment such as "not-found" or "not_found" into
// an exported Go identifier ("NotFound").
func exportedIdent(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	ident := b.String()
	if ident == "" || !unicode.IsLetter([]rune(ident)[0]) {
		ident = "X" + ident
	}
	return ident
}

func displayPath(file domain.File) string {
	if r, ok := file.(interface{ Rel() string }); ok {
		return r.Rel()
	}
	return file.Path()
}
