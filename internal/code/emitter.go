package code

// Emitter accumulates instructions into a Module and supports the
// patch-back technique original_source/pcomp.cc uses throughout: emit a
// branch with a placeholder address, remember its pc, and overwrite the
// address once the true target is known.
type Emitter struct {
	Module *Module
}

// NewEmitter returns an Emitter over a fresh Module.
func NewEmitter() *Emitter {
	return &Emitter{Module: NewModule()}
}

// PC returns the address the next Emit call will occupy.
func (e *Emitter) PC() int {
	return len(e.Module.Instructions)
}

// Emit appends op(level, addr) and returns its address.
func (e *Emitter) Emit(op Op, level int8, addr Datum) int {
	return e.Module.AddInst(Instr{Op: op, Level: level, Addr: addr})
}

// Emit0 appends a bare opcode with no level and a zero addr operand.
func (e *Emitter) Emit0(op Op) int {
	return e.Emit(op, 0, IDatum(0))
}

// Patch overwrites the Addr operand of the instruction at pc, the
// "remember the index, overwrite later" half of the patch-back idiom.
func (e *Emitter) Patch(pc int, addr Datum) {
	e.Module.Instructions[pc].Addr = addr
}

// PatchToHere patches the instruction at pc to branch to the current PC,
// the common case of patch-back (an if/while/for exit jump).
func (e *Emitter) PatchToHere(pc int) {
	e.Patch(pc, IDatum(int64(e.PC())))
}
