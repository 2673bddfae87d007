package code

// Activation frame layout, grounded on original_source/instr.h's Frame enum:
// every call frame reserves four fixed slots before its locals begin.
const (
	FrameBase    = 0 // static link: base of the lexically enclosing frame
	FrameOldFp   = 1 // saved caller frame pointer
	FrameRetAddr = 2 // return address
	FrameRetVal  = 3 // function result slot
	FrameSize    = 4 // first offset available to locals; params sit at negative offsets
)
