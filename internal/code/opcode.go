// Package code defines the P-machine instruction set and the in-memory
// representation of a compiled program: opcodes, instructions, and the
// Module an emitter builds and an interpreter consumes.
package code

// Op is a P-machine opcode, following the "byte enum + string table" shape
// used throughout the retrieved pack's instruction-set packages.
type Op byte

const (
	// Arithmetic and logic
	Neg Op = iota
	Add
	Sub
	Mul
	Div
	Rem

	// Numeric conversion / rounding
	Itor  // int to real
	Itor2 // int to real, second operand of a binary op
	Round
	Trunc

	// Math library
	Abs
	Atan
	Exp
	Log
	Sin
	Sqr
	Sqrt

	// Ordinal predicates
	Odd
	Pred
	Succ
	Ord

	// Comparisons
	Lt
	Lte
	Equ
	Gte
	Gt
	Nequ

	// Boolean logic
	Lor
	Land
	Lnot

	// Stack control
	Dup
	Pop
	Push
	PushVar
	Eval
	Assign
	Copy

	// Range checks
	LLimit
	ULimit

	// Control flow
	Call
	Enter
	Ret
	Retf
	Jump
	Jneq

	// I/O
	Write
	Writeln

	// Heap
	New
	Dispose

	Halt Op = 255
)

var opNames = map[Op]string{
	Neg:     "neg",
	Add:     "add",
	Sub:     "sub",
	Mul:     "mul",
	Div:     "div",
	Rem:     "rem",
	Itor:    "itor",
	Itor2:   "itor2",
	Round:   "round",
	Trunc:   "trunc",
	Abs:     "abs",
	Atan:    "atan",
	Exp:     "exp",
	Log:     "log",
	Sin:     "sin",
	Sqr:     "sqr",
	Sqrt:    "sqrt",
	Odd:     "odd",
	Pred:    "pred",
	Succ:    "succ",
	Ord:     "ord",
	Lt:      "lt",
	Lte:     "lte",
	Equ:     "equ",
	Gte:     "gte",
	Gt:      "gt",
	Nequ:    "nequ",
	Lor:     "lor",
	Land:    "land",
	Lnot:    "lnot",
	Dup:     "dup",
	Pop:     "pop",
	Push:    "push",
	PushVar: "pushvar",
	Eval:    "eval",
	Assign:  "assign",
	Copy:    "copy",
	LLimit:  "llimit",
	ULimit:  "ulimit",
	Call:    "call",
	Enter:   "enter",
	Ret:     "ret",
	Retf:    "retf",
	Jump:    "jump",
	Jneq:    "jneq",
	Write:   "write",
	Writeln: "writeln",
	New:     "new",
	Dispose: "dispose",
	Halt:    "halt",
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "???"
}

// IsBranch reports whether op transfers control to Instr.Addr rather than
// treating it as a level, size, or value operand.
func (op Op) IsBranch() bool {
	switch op {
	case Jump, Jneq, Call:
		return true
	default:
		return false
	}
}
