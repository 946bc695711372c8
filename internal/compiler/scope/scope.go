package scope

import (
	"fmt"

	"github.com/tbouvier/pseudoc/internal/compiler/symbols"
)

// Scope is one symbol table level. The analyzer keeps a global scope for the
// whole pass and pushes a single local level per function body; lookups walk
// outward so locals shadow globals.
type Scope struct {
	Symbols map[string]symbols.SymbolInfo
	Outer   *Scope
	Name    string
}

func NewScope(outer *Scope, name string) *Scope {
	return &Scope{
		Symbols: make(map[string]symbols.SymbolInfo),
		Outer:   outer,
		Name:    name,
	}
}

// Define adds a symbol to this scope level only. Redeclaring a name at the
// same level is an error; shadowing an outer name is not.
func (s *Scope) Define(name string, info symbols.SymbolInfo) error {
	if existing, exists := s.Symbols[name]; exists {
		return fmt.Errorf("symbol '%s' already declared at line %d", name, existing.Line)
	}
	s.Symbols[name] = info
	return nil
}

// Lookup searches from this scope outward.
func (s *Scope) Lookup(name string) (*symbols.SymbolInfo, bool) {
	for sc := s; sc != nil; sc = sc.Outer {
		if info, ok := sc.Symbols[name]; ok {
			infoCopy := info
			return &infoCopy, true
		}
	}
	return nil, false
}

// LookupCurrentScope checks only this level.
func (s *Scope) LookupCurrentScope(name string) (*symbols.SymbolInfo, bool) {
	info, ok := s.Symbols[name]
	if !ok {
		return nil, false
	}
	infoCopy := info
	return &infoCopy, true
}
