package runtime

import "sort"

// SymbolTable maps variable names to values, optionally nested under a
// parent table that is consulted on a miss.
type SymbolTable struct {
	symbols map[string]Value
	parent  *SymbolTable
}

// NewSymbolTable creates an empty table. parent may be nil.
func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{
		symbols: make(map[string]Value),
		parent:  parent,
	}
}

// Parent returns the enclosing table (nil for the root).
func (s *SymbolTable) Parent() *SymbolTable {
	return s.parent
}

// Get looks name up locally, then in each parent in turn.
func (s *SymbolTable) Get(name string) (Value, bool) {
	for t := s; t != nil; t = t.parent {
		if v, ok := t.symbols[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Set binds name in this table, replacing any local binding.
func (s *SymbolTable) Set(name string, v Value) {
	s.symbols[name] = v
}

// Remove deletes the local binding for name. Parent bindings are untouched.
func (s *SymbolTable) Remove(name string) {
	delete(s.symbols, name)
}

// Names returns the local names in sorted order.
func (s *SymbolTable) Names() []string {
	names := make([]string, 0, len(s.symbols))
	for name := range s.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
