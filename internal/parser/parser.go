// Package parser implements the Pascal-lite recursive-descent parser and
// checker: it consumes a token.Lexer and, in a single pass, both verifies
// the program's static semantics and emits code.Instr into a code.Module.
package parser

import (
	"fmt"

	"github.com/rmerkel/pascal/internal/code"
	"github.com/rmerkel/pascal/internal/symtab"
	"github.com/rmerkel/pascal/internal/token"
	"github.com/rmerkel/pascal/internal/types"
)

// Parser holds all state threaded implicitly through the recursive-descent
// methods below via the method receiver, rather than an explicit Context
// parameter passed at every call site.
type Parser struct {
	lex    *token.Lexer
	emit   *code.Emitter
	syms   *symtab.Table
	level  int
	errors []error

	filename string
}

// New returns a Parser reading from lex.
func New(lex *token.Lexer, filename string) *Parser {
	return &Parser{
		lex:      lex,
		emit:     code.NewEmitter(),
		syms:     symtab.New(),
		filename: filename,
	}
}

// Errors returns the diagnostics collected so far.
func (p *Parser) Errors() []error { return p.errors }

func (p *Parser) errorf(line int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, fmt.Errorf("%s:%d: %s", p.filename, line, msg))
}

func (p *Parser) peek() token.Token { return p.lex.Peek() }

func (p *Parser) next() token.Token { return p.lex.Next() }

// expect consumes the next token if it has kind k, else records an error
// and returns the token anyway so parsing can continue.
func (p *Parser) expect(k token.Kind) token.Token {
	tok := p.next()
	if tok.Kind != k {
		p.errorf(tok.Line, "expected %s, found %s", k, tok.Kind)
	}
	return tok
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

// Compile parses and checks the whole program, emitting into the returned
// Module. Compilation always succeeds in producing a Module — callers must
// check the returned errors before treating it as runnable.
func Compile(lex *token.Lexer, filename string) (*code.Module, []error) {
	p := New(lex, filename)
	p.program()
	return p.emit.Module, p.errors
}

// program: "program" ident ";" block "." — the single compilation unit.
// Grounded on original_source/pcomp.cc's progDecl/run: emit a CALL to the
// block about to be compiled, then HALT, then compile the block itself and
// patch the CALL's target back to the block's entry address.
func (p *Parser) program() {
	p.expect(token.KwProgram)
	nameTok := p.expect(token.Ident)
	p.expect(token.Semicolon)

	prog := &symtab.Symbol{Name: nameTok.Text, Kind: symtab.ProgramKind, EntryLevel: 0}
	p.syms.Insert(prog)

	callPC := p.emit.Emit(code.Call, 0, code.IDatum(0))
	p.emit.Emit0(code.Halt)

	prog.EntryPC = p.emit.PC()
	p.block(prog, nil, nil)

	p.emit.Patch(callPC, code.IDatum(int64(prog.EntryPC)))

	p.expect(token.Dot)
}

// block compiles one procedure/function/program body: declarations followed
// by a compound statement, wrapped in ENTER/RET|RETF (ENTER is emitted only
// when the block declares variables), per
// original_source/pcomp.cc's blockDecl. paramNames/paramTypes are empty for
// the outermost program block; otherwise they were parsed by subPrefixDecl
// and are bound here, at the new lexical level, with negative frame offsets.
func (p *Parser) block(sym *symtab.Symbol, paramNames []string, paramTypes []*types.Type) {
	p.level++
	defer func() { p.level-- }()

	paramsSize := 0
	for _, t := range paramTypes {
		paramsSize += t.Size
	}
	offset := -paramsSize
	for i, name := range paramNames {
		p.syms.Insert(&symtab.Symbol{
			Name: name, Kind: symtab.VarKind, Type: paramTypes[i],
			Level: p.level, Offset: offset,
		})
		offset += paramTypes[i].Size
	}

	// The skip-jump preamble, always emitted: the block's entry address is
	// this jump, and nested procedure/function bodies are emitted right
	// after it, so the jump carries execution past them to the block's own
	// ENTER and statements.
	skipPC := p.emit.Emit(code.Jump, 0, code.IDatum(0))

	dx := int64(code.FrameSize)

	for p.at(token.KwConst) {
		p.constDeclList()
	}
	for p.at(token.KwType) {
		p.typeDeclList()
	}
	for p.at(token.KwVar) {
		dx = p.varDeclBlock(dx)
	}
	for p.at(token.KwProcedure) || p.at(token.KwFunction) {
		p.subDecl()
	}

	p.emit.PatchToHere(skipPC)

	if dx > int64(code.FrameSize) {
		p.emit.Emit(code.Enter, 0, code.IDatum(dx))
	}

	p.expect(token.KwBegin)
	p.statementList()
	p.expect(token.KwEnd)

	if sym.Kind == symtab.FuncKind {
		p.emit.Emit(code.Retf, 0, code.IDatum(int64(paramsSize)))
	} else {
		p.emit.Emit(code.Ret, 0, code.IDatum(int64(paramsSize)))
	}

	p.syms.Purge(p.level)
}
