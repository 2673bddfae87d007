package code

import "github.com/google/uuid"

// Module is a fully compiled program: its instruction stream plus the
// initial data segment layout the interpreter loads before running it.
// There is exactly one Module per compile — this system has no separate
// compilation or on-disk linking format, unlike the Dis modules this type
// is patterned on.
type Module struct {
	// BuildID distinguishes two compiles of textually identical source;
	// it plays no role in execution semantics.
	BuildID string

	Instructions []Instr

	// DataSize is not set by the parser and stays 0; the interpreter does
	// not read it and sizes its data segment from the stack and heap sizes
	// passed to interp.New.
	DataSize int

	// EntryPC is always 0: execution always begins with the CALL emitted
	// by progDecl, per original_source/pcomp.cc's run().
	EntryPC int
}

// NewModule returns an empty Module, stamped with a fresh build id the same
// way chazu-maggie's object space mints instance ids.
func NewModule() *Module {
	return &Module{BuildID: uuid.New().String()}
}

// AddInst appends in to the instruction stream and returns its address,
// mirroring dis.Module.AddInst's append-and-return-PC idiom.
func (m *Module) AddInst(in Instr) int {
	pc := len(m.Instructions)
	m.Instructions = append(m.Instructions, in)
	return pc
}
