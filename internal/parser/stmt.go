package parser

import (
	"strings"

	"github.com/rmerkel/pascal/internal/code"
	"github.com/rmerkel/pascal/internal/symtab"
	"github.com/rmerkel/pascal/internal/token"
	"github.com/rmerkel/pascal/internal/types"
)

// statementList: statement (';' statement)*
func (p *Parser) statementList() {
	p.statement()
	for p.at(token.Semicolon) {
		p.next()
		if p.at(token.KwEnd) || p.at(token.KwUntil) {
			break
		}
		p.statement()
	}
}

// statement dispatches on the leading token, per
// original_source/pcomp.cc's statement().
func (p *Parser) statement() {
	switch p.peek().Kind {
	case token.KwBegin:
		p.compoundStatement()
	case token.KwIf:
		p.ifStatement()
	case token.KwWhile:
		p.whileStatement()
	case token.KwRepeat:
		p.repeatStatement()
	case token.KwFor:
		p.forStatement()
	case token.Ident:
		p.identStatement()
	default:
		// empty statement
	}
}

func (p *Parser) compoundStatement() {
	p.expect(token.KwBegin)
	p.statementList()
	p.expect(token.KwEnd)
}

// identStatement resolves an identifier-led statement: one of the four
// built-in statement forms (write/writeln/new/dispose), an assignment, a
// procedure call, or an assignment to the enclosing function's own name.
func (p *Parser) identStatement() {
	tok := p.peek()
	switch strings.ToLower(tok.Text) {
	case "write":
		p.writeStatement(false)
		return
	case "writeln":
		p.writeStatement(true)
		return
	case "new":
		p.newStatement()
		return
	case "dispose":
		p.disposeStatement()
		return
	}

	sym := p.syms.Lookup(tok.Text)
	if sym == nil {
		p.errorf(tok.Line, "undefined identifier %q", tok.Text)
		p.next()
		return
	}

	switch sym.Kind {
	case symtab.VarKind:
		p.assignStatement(sym)
	case symtab.ProcKind:
		p.next()
		p.callArgs(sym)
	case symtab.FuncKind:
		p.assignFuncResult(sym)
	default:
		p.errorf(tok.Line, "%q cannot be used as a statement", tok.Text)
		p.next()
	}
}

// emitRangeCheck emits LLimit/ULimit against t's declared bounds, when t is
// a proper (non-default) ordinal sub-range, guarding the boundary behaviors
// a proper (non-default) ordinal sub-range needs (min-1/max+1 faults at
// run time).
func (p *Parser) emitRangeCheck(t *types.Type) {
	if !t.IsOrdinal() || t.Range == types.MaxRange {
		return
	}
	p.emit.Emit(code.LLimit, 0, code.IDatum(t.Range.Min))
	p.emit.Emit(code.ULimit, 0, code.IDatum(t.Range.Max))
}

// assignStatement: variable ":=" expression. A composite (array/record)
// destination copies Size datums from the source address rather than
// evaluating and storing a single scalar.
func (p *Parser) assignStatement(sym *symtab.Symbol) {
	t := p.variableRef(sym)
	p.expect(token.Assign)
	line := p.peek().Line
	rt := p.expression()
	if t.Size > 1 {
		if !types.AssignCompatible(t, rt) {
			p.errorf(line, "cannot assign %s to %s", rt, t)
		}
		p.emit.Emit(code.Copy, 0, code.IDatum(int64(t.Size)))
		return
	}
	p.assignPromote(line, t, rt)
	p.emitRangeCheck(t)
	p.emit.Emit0(code.Assign)
}

// assignFuncResult: funcName ":=" expression, binding the function's
// result slot (Frame.RetVal) from within its own body.
func (p *Parser) assignFuncResult(sym *symtab.Symbol) {
	p.next()
	p.expect(token.Assign)
	p.emit.Emit(code.PushVar, 0, code.IDatum(code.FrameRetVal))
	line := p.peek().Line
	rt := p.expression()
	p.assignPromote(line, sym.Type, rt)
	p.emitRangeCheck(sym.Type)
	p.emit.Emit0(code.Assign)
}

// ifStatement: "if" expression "then" statement ("else" statement)?
func (p *Parser) ifStatement() {
	p.expect(token.KwIf)
	line := p.peek().Line
	t := p.expression()
	if t.Kind != types.Boolean {
		p.errorf(line, "if condition must be boolean, found %s", t.Kind)
	}
	p.expect(token.KwThen)

	jneqPC := p.emit.Emit(code.Jneq, 0, code.IDatum(0))
	p.statement()

	if p.at(token.KwElse) {
		p.next()
		jmpPC := p.emit.Emit(code.Jump, 0, code.IDatum(0))
		p.emit.PatchToHere(jneqPC)
		p.statement()
		p.emit.PatchToHere(jmpPC)
	} else {
		p.emit.PatchToHere(jneqPC)
	}
}

// whileStatement: "while" expression "do" statement
func (p *Parser) whileStatement() {
	p.expect(token.KwWhile)
	top := p.emit.PC()
	line := p.peek().Line
	t := p.expression()
	if t.Kind != types.Boolean {
		p.errorf(line, "while condition must be boolean, found %s", t.Kind)
	}
	p.expect(token.KwDo)

	exitPC := p.emit.Emit(code.Jneq, 0, code.IDatum(0))
	p.statement()
	p.emit.Emit(code.Jump, 0, code.IDatum(int64(top)))
	p.emit.PatchToHere(exitPC)
}

// repeatStatement: "repeat" statementList "until" expression
func (p *Parser) repeatStatement() {
	p.expect(token.KwRepeat)
	top := p.emit.PC()
	p.statementList()
	p.expect(token.KwUntil)
	line := p.peek().Line
	t := p.expression()
	if t.Kind != types.Boolean {
		p.errorf(line, "until condition must be boolean, found %s", t.Kind)
	}
	p.emit.Emit(code.Jneq, 0, code.IDatum(int64(top)))
}

// forStatement: "for" ident ":=" expression ("to"|"downto") expression "do"
// statement. The downto branch emits GTE, not the LTE original_source's
// forStatement always emits — the redesign flag applied against the
// original's downto bug.
func (p *Parser) forStatement() {
	p.expect(token.KwFor)
	nameTok := p.expect(token.Ident)
	sym := p.syms.Lookup(nameTok.Text)
	if sym == nil || sym.Kind != symtab.VarKind {
		p.errorf(nameTok.Line, "%q is not a variable", nameTok.Text)
		sym = nil
	}
	p.expect(token.Assign)

	if sym != nil {
		p.emit.Emit(code.PushVar, int8(p.level-sym.Level), code.IDatum(int64(sym.Offset)))
	}
	line := p.peek().Line
	initType := p.expression()
	if sym != nil {
		p.assignPromote(line, sym.Type, initType)
		p.emitRangeCheck(sym.Type)
		p.emit.Emit0(code.Assign)
	}

	downto := false
	if p.at(token.KwDownto) {
		downto = true
		p.next()
	} else {
		p.expect(token.KwTo)
	}

	top := p.emit.PC()
	if sym != nil {
		p.emit.Emit(code.PushVar, int8(p.level-sym.Level), code.IDatum(int64(sym.Offset)))
		p.emit.Emit0(code.Eval)
	}
	p.expression()
	if downto {
		p.emit.Emit0(code.Gte)
	} else {
		p.emit.Emit0(code.Lte)
	}
	exitPC := p.emit.Emit(code.Jneq, 0, code.IDatum(0))

	p.expect(token.KwDo)
	p.statement()

	if sym != nil {
		p.emit.Emit(code.PushVar, int8(p.level-sym.Level), code.IDatum(int64(sym.Offset)))
		p.emit.Emit(code.PushVar, int8(p.level-sym.Level), code.IDatum(int64(sym.Offset)))
		p.emit.Emit0(code.Eval)
		p.emit.Emit(code.Push, 0, code.IDatum(1))
		if downto {
			p.emit.Emit0(code.Sub)
		} else {
			p.emit.Emit0(code.Add)
		}
		p.emit.Emit0(code.Assign)
	}
	p.emit.Emit(code.Jump, 0, code.IDatum(int64(top)))
	p.emit.PatchToHere(exitPC)
}

// writeStatement: ("write"|"writeln") ('(' writeArg (',' writeArg)* ')')?
// where writeArg is expression (':' expression (':' expression)?)?. Each
// argument pushes a (value, width, precision) triple, defaulting width and
// precision to 0 when omitted, per original_source/pcomp.cc's writeStmt;
// the trailing count and the WRITE/WRITELN opcode itself are emitted once,
// after every argument's triple is on the stack.
func (p *Parser) writeStatement(newline bool) {
	p.next()
	nargs := int64(0)
	if p.at(token.LParen) {
		p.next()
		if !p.at(token.RParen) {
			for {
				p.writeArg()
				nargs++
				if !p.at(token.Comma) {
					break
				}
				p.next()
			}
		}
		p.expect(token.RParen)
	}
	p.emit.Emit(code.Push, 0, code.IDatum(nargs))
	if newline {
		p.emit.Emit0(code.Writeln)
	} else {
		p.emit.Emit0(code.Write)
	}
}

// writeArg parses one write/writeln argument and emits its
// (value, width, precision) triple.
func (p *Parser) writeArg() {
	p.expression()

	if p.at(token.Colon) {
		p.next()
		line := p.peek().Line
		t := p.expression()
		if t.Kind != types.Integer {
			p.errorf(line, "field width must be an integer, found %s", t.Kind)
		}
	} else {
		p.emit.Emit(code.Push, 0, code.IDatum(0))
	}

	if p.at(token.Colon) {
		p.next()
		line := p.peek().Line
		t := p.expression()
		if t.Kind != types.Integer {
			p.errorf(line, "precision must be an integer, found %s", t.Kind)
		}
	} else {
		p.emit.Emit(code.Push, 0, code.IDatum(0))
	}
}

// newStatement: "new" '(' variable ')' — re-derives the
// pointee's size from the variable's declared type and assigns the fresh
// address back into it in the same statement.
func (p *Parser) newStatement() {
	p.next()
	p.expect(token.LParen)
	nameTok := p.expect(token.Ident)
	sym := p.syms.Lookup(nameTok.Text)
	if sym == nil || sym.Kind != symtab.VarKind || sym.Type.Kind != types.Pointer {
		p.errorf(nameTok.Line, "new requires a pointer variable")
		p.expect(token.RParen)
		return
	}
	p.emit.Emit(code.PushVar, int8(p.level-sym.Level), code.IDatum(int64(sym.Offset)))
	size := int64(1)
	if sym.Type.Pointee != nil {
		size = int64(sym.Type.Pointee.Size)
	}
	p.emit.Emit(code.Push, 0, code.IDatum(size))
	p.emit.Emit0(code.New)
	p.emit.Emit0(code.Assign)
	p.expect(token.RParen)
}

// disposeStatement: "dispose" '(' expression ')' — evaluates its argument
// as an ordinary pointer-valued expression and frees the address.
func (p *Parser) disposeStatement() {
	p.next()
	p.expect(token.LParen)
	line := p.peek().Line
	t := p.expression()
	if t.Kind != types.Pointer {
		p.errorf(line, "dispose requires a pointer expression, found %s", t.Kind)
	}
	p.emit.Emit0(code.Dispose)
	p.expect(token.RParen)
}
