// Package symtab implements the multi-scope symbol table used by the
// parser/checker: a name may be declared at several lexical levels
// simultaneously, and lookup always resolves to the innermost (highest
// level) visible declaration.
package symtab

import (
	"strings"

	"github.com/rmerkel/pascal/internal/code"
	"github.com/rmerkel/pascal/internal/types"
)

// Kind identifies what a Symbol denotes.
type Kind byte

const (
	ConstKind Kind = iota
	VarKind
	TypeKind
	ProcKind
	FuncKind
	ProgramKind
)

// Symbol is one symbol table entry. Which fields are meaningful depends on
// Kind: Value is set for ConstKind; Offset and Level locate a VarKind datum
// in an activation frame; Params/EntryPC/EntryLevel describe a callable
// ProcKind/FuncKind entry.
type Symbol struct {
	Name  string
	Kind  Kind
	Type  *types.Type
	Level int

	Value code.Datum // ConstKind

	Offset int // VarKind: frame-relative offset, negative for parameters

	Params     []*types.Type // ProcKind/FuncKind
	EntryPC    int           // ProcKind/FuncKind: set to the body's first instruction before the body is parsed
	EntryLevel int           // lexical level at which the body executes
}

// Table is a lexical-level-scoped symbol table: a multimap from lower-cased
// name to every Symbol declared under that name across all currently-open
// scopes, ordered oldest-to-newest so the last entry for a name is always
// the innermost visible one — the same shape original_source/pascomp.h's
// SymbolTable presents through insert/equal_range/level-scoped erase.
type Table struct {
	entries map[string][]*Symbol
}

// New returns an empty Table pre-populated with the level-0 primitive
// types (integer, real, boolean, char) and constants (maxint, true, false)
// that original_source/pcomp.cc's PComp constructor installs before
// compiling any user source.
func New() *Table {
	t := &Table{entries: make(map[string][]*Symbol)}

	t.Insert(&Symbol{Name: "integer", Kind: TypeKind, Type: types.IntegerType})
	t.Insert(&Symbol{Name: "real", Kind: TypeKind, Type: types.RealType})
	t.Insert(&Symbol{Name: "boolean", Kind: TypeKind, Type: types.BooleanType})
	t.Insert(&Symbol{Name: "char", Kind: TypeKind, Type: types.CharType})

	t.Insert(&Symbol{Name: "maxint", Kind: ConstKind, Type: types.IntegerType, Value: code.IDatum(1<<63 - 1)})
	t.Insert(&Symbol{Name: "true", Kind: ConstKind, Type: types.BooleanType, Value: code.BDatum(true)})
	t.Insert(&Symbol{Name: "false", Kind: ConstKind, Type: types.BooleanType, Value: code.BDatum(false)})
	t.Insert(&Symbol{Name: "nil", Kind: ConstKind, Type: types.NewPointer(nil), Value: code.IDatum(0)})

	return t
}

func key(name string) string { return strings.ToLower(name) }

// Insert adds sym to the table under its Name, shadowing any entry already
// visible for that name at an outer level. Lookup order is unaffected by
// insertion order across different names.
func (t *Table) Insert(sym *Symbol) {
	k := key(sym.Name)
	t.entries[k] = append(t.entries[k], sym)
}

// Lookup returns the innermost visible Symbol for name, or nil if name is
// undeclared in any open scope.
func (t *Table) Lookup(name string) *Symbol {
	list := t.entries[key(name)]
	if len(list) == 0 {
		return nil
	}
	return list[len(list)-1]
}

// LookupLevel returns the Symbol for name declared exactly at level, or nil
// if none — used to detect duplicate declarations within a single scope.
func (t *Table) LookupLevel(name string, level int) *Symbol {
	for _, sym := range t.entries[key(name)] {
		if sym.Level == level {
			return sym
		}
	}
	return nil
}

// Purge removes every symbol declared at level or deeper, the action taken
// when a block or subroutine body's scope closes.
func (t *Table) Purge(level int) {
	for k, list := range t.entries {
		kept := list[:0]
		for _, sym := range list {
			if sym.Level < level {
				kept = append(kept, sym)
			}
		}
		if len(kept) == 0 {
			delete(t.entries, k)
		} else {
			t.entries[k] = kept
		}
	}
}
