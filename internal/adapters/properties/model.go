package properties

import (
	"fmt"
	"strings"

	"go.trai.ch/typegen/internal/core/domain"
)

var _ domain.Model = (*Model)(nil)

// Node is one segment of a dotted key. A node with children is a group; a
// node may also carry a value of its own.
type Node struct {
	Name     string
	Key      string
	Value    string
	HasValue bool
	Line     int
	Children []*Node
}

// IsGroup reports whether the node has nested keys.
func (n *Node) IsGroup() bool { return len(n.Children) > 0 }

func (n *Node) child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Model is the parsed form of a properties file.
type Model struct {
	fqn    string
	files  []domain.File
	Root   *Node
	Keys   []string
	Issues []Issue
}

// FQN implements domain.Model.
func (m *Model) FQN() string { return m.fqn }

// Files implements domain.Model.
func (m *Model) Files() []domain.File { return m.files }

// Lookup returns the node at the dotted path.
func (m *Model) Lookup(path string) (*Node, bool) {
	n := m.Root
	for _, seg := range strings.Split(path, ".") {
		if n = n.child(seg); n == nil {
			return nil, false
		}
	}
	return n, true
}

// NewModel builds the key tree from parsed entries. Children keep the order in
// which keys first appear. A repeated key keeps its last value and is recorded
// as an issue.
func NewModel(fqn string, file domain.File, entries []Entry, issues []Issue) *Model {
	m := &Model{
		fqn:    fqn,
		files:  []domain.File{file},
		Root:   &Node{},
		Issues: issues,
	}

	seen := make(map[string]int, len(entries))
	for _, e := range entries {
		segs := strings.Split(e.Key, ".")
		if !validSegments(segs) {
			m.Issues = append(m.Issues, Issue{Line: e.Line, Message: fmt.Sprintf("key %q has an empty segment", e.Key)})
			continue
		}

		if first, ok := seen[e.Key]; ok {
			m.Issues = append(m.Issues, Issue{
				Line:    e.Line,
				Message: fmt.Sprintf("duplicate key %q overrides line %d", e.Key, first),
			})
		} else {
			seen[e.Key] = e.Line
			m.Keys = append(m.Keys, e.Key)
		}

		n := m.Root
		for i, seg := range segs {
			next := n.child(seg)
			if next == nil {
				next = &Node{Name: seg, Key: strings.Join(segs[:i+1], ".")}
				n.Children = append(n.Children, next)
			}
			n = next
		}
		n.Value = e.Value
		n.HasValue = true
		n.Line = e.Line
	}
	return m
}

func validSegments(segs []string) bool {
	for _, s := range segs {
		if s == "" {
			return false
		}
	}
	return true
}
