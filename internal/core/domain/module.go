package domain

// Module identifies a host module. Two modules are the same when their names are.
type Module struct {
	Name InternedString
	Root string
}

// NewModule creates a Module with an interned name.
func NewModule(name, root string) *Module {
	return &Module{Name: NewInternedString(name), Root: root}
}

// Is reports whether m and other identify the same module.
func (m *Module) Is(other *Module) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.Name == other.Name
}
