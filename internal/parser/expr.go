package parser

import (
	"github.com/rmerkel/pascal/internal/code"
	"github.com/rmerkel/pascal/internal/symtab"
	"github.com/rmerkel/pascal/internal/token"
	"github.com/rmerkel/pascal/internal/types"
)

// promote makes the top of stack (or top two, for a binary operator) a
// real when the operand types disagree on realness, emitting Itor/Itor2
// exactly as original_source/pcomp.cc's promote does, and returns the
// resulting common type.
func (p *Parser) promote(lhs, rhs *types.Type) *types.Type {
	if lhs.Kind == types.Real || rhs.Kind == types.Real {
		if lhs.Kind != types.Real {
			p.emit.Emit0(code.Itor2)
		} else if rhs.Kind != types.Real {
			p.emit.Emit0(code.Itor)
		}
		return types.RealType
	}
	return types.IntegerType
}

// assignPromote converts a single value on top of stack from src to dst's
// representation when dst is real and src is integer; converting the other
// way (real value into an integer variable) rounds, with a diagnostic,
// matching original_source/pcomp.cc's assignPromote.
func (p *Parser) assignPromote(line int, dst, src *types.Type) {
	if dst.Kind == types.Real && src.Kind != types.Real {
		p.emit.Emit0(code.Itor)
		return
	}
	if dst.Kind != types.Real && src.Kind == types.Real {
		p.errorf(line, "rounding real value to assign to %s", dst.Kind)
		p.emit.Emit0(code.Round)
	}
}

// constExpr: a compile-time constant: a possibly-signed number, an
// already-declared constant identifier, or a one-character string literal.
func (p *Parser) constExpr() (code.Datum, *types.Type) {
	neg := false
	switch p.peek().Kind {
	case token.Minus:
		p.next()
		neg = true
	case token.Plus:
		p.next()
	}

	tok := p.next()
	switch tok.Kind {
	case token.IntLit:
		v := tok.Int
		if neg {
			v = -v
		}
		return code.IDatum(v), types.IntegerType
	case token.RealLit:
		v := tok.Real
		if neg {
			v = -v
		}
		return code.RDatum(v), types.RealType
	case token.Ident:
		return p.constExprIdent(tok, neg)
	case token.StringLit:
		if neg {
			p.errorf(tok.Line, "cannot negate a string literal")
		}
		if len(tok.Text) == 1 {
			return code.ChDatum(int64(tok.Text[0])), types.CharType
		}
		p.errorf(tok.Line, "a multi-character string is not a valid constant expression")
		return code.IDatum(0), types.IntegerType
	default:
		p.errorf(tok.Line, "expected a constant expression, found %s", tok.Kind)
		return code.IDatum(0), types.IntegerType
	}
}

func (p *Parser) constExprIdent(tok token.Token, neg bool) (code.Datum, *types.Type) {
	sym := p.syms.Lookup(tok.Text)
	if sym == nil || sym.Kind != symtab.ConstKind {
		p.errorf(tok.Line, "%q is not a constant", tok.Text)
		return code.IDatum(0), types.IntegerType
	}
	v := sym.Value
	if neg {
		if v.IsReal() {
			v = code.RDatum(-v.R)
		} else {
			v = code.IDatum(-v.I)
		}
	}
	return v, sym.Type
}

// expressionList: expression (',' expression)*, used by write/writeln and
// actual-parameter lists. Returns the type of each expression in order.
func (p *Parser) expressionList() []*types.Type {
	var ts []*types.Type
	ts = append(ts, p.expression())
	for p.at(token.Comma) {
		p.next()
		ts = append(ts, p.expression())
	}
	return ts
}

// expression: simpleExpr (relOp simpleExpr)?
func (p *Parser) expression() *types.Type {
	lhs := p.simpleExpr()
	switch p.peek().Kind {
	case token.Equal, token.NotEqual, token.Less, token.LessEqual, token.Greater, token.GreaterEq:
		op := p.next().Kind
		rhs := p.simpleExpr()
		p.promote(lhs, rhs)
		switch op {
		case token.Equal:
			p.emit.Emit0(code.Equ)
		case token.NotEqual:
			p.emit.Emit0(code.Nequ)
		case token.Less:
			p.emit.Emit0(code.Lt)
		case token.LessEqual:
			p.emit.Emit0(code.Lte)
		case token.Greater:
			p.emit.Emit0(code.Gt)
		case token.GreaterEq:
			p.emit.Emit0(code.Gte)
		}
		return types.BooleanType
	}
	return lhs
}

// simpleExpr: ("+"|"-")? term (("+"|"-"|"or") term)*
func (p *Parser) simpleExpr() *types.Type {
	neg := false
	if p.at(token.Plus) {
		p.next()
	} else if p.at(token.Minus) {
		p.next()
		neg = true
	}

	t := p.term()
	if neg {
		p.emit.Emit0(code.Neg)
	}

	for {
		switch p.peek().Kind {
		case token.Plus:
			p.next()
			rhs := p.term()
			t = p.promote(t, rhs)
			p.emit.Emit0(code.Add)
		case token.Minus:
			p.next()
			rhs := p.term()
			t = p.promote(t, rhs)
			p.emit.Emit0(code.Sub)
		case token.KwOr:
			p.next()
			p.term()
			p.emit.Emit0(code.Lor)
			t = types.BooleanType
		default:
			return t
		}
	}
}

// term: unary (("*"|"/"|"mod"|"and") unary)*
func (p *Parser) term() *types.Type {
	t := p.unary()
	for {
		switch p.peek().Kind {
		case token.Star:
			p.next()
			rhs := p.unary()
			t = p.promote(t, rhs)
			p.emit.Emit0(code.Mul)
		case token.Slash:
			p.next()
			rhs := p.unary()
			p.promote(t, rhs)
			if t.Kind != types.Real {
				p.emit.Emit0(code.Itor2)
			}
			t = types.RealType
			p.emit.Emit0(code.Div)
		case token.KwDiv:
			p.next()
			p.unary()
			p.emit.Emit0(code.Div)
		case token.KwMod:
			p.next()
			p.unary()
			p.emit.Emit0(code.Rem)
		case token.KwAnd:
			p.next()
			p.unary()
			p.emit.Emit0(code.Land)
			t = types.BooleanType
		default:
			return t
		}
	}
}

// unary: "not" unary | factor
func (p *Parser) unary() *types.Type {
	if p.at(token.KwNot) {
		p.next()
		p.unary()
		p.emit.Emit0(code.Lnot)
		return types.BooleanType
	}
	return p.factor()
}

// factor: number | ident-based-factor | '(' expression ')' | string-literal
func (p *Parser) factor() *types.Type {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.next()
		p.emit.Emit(code.Push, 0, code.IDatum(tok.Int))
		return types.IntegerType
	case token.RealLit:
		p.next()
		p.emit.Emit(code.Push, 0, code.RDatum(tok.Real))
		return types.RealType
	case token.StringLit:
		p.next()
		if len(tok.Text) == 1 {
			p.emit.Emit(code.Push, 0, code.ChDatum(int64(tok.Text[0])))
			return types.CharType
		}
		p.errorf(tok.Line, "string literals longer than one character are not supported as expressions")
		return types.IntegerType
	case token.LParen:
		p.next()
		t := p.expression()
		p.expect(token.RParen)
		return t
	case token.KwNil:
		p.next()
		p.emit.Emit(code.Push, 0, code.IDatum(0))
		return types.NewPointer(nil)
	case token.Ident:
		return p.identFactor()
	default:
		p.errorf(tok.Line, "expected an expression, found %s", tok.Kind)
		p.next()
		return types.IntegerType
	}
}

// identFactor dispatches an identifier appearing in expression position: a
// constant, a variable (with selectors), a function call, or a built-in
// function, mirroring original_source/pcomp.cc's identFactor/builtInFunc.
func (p *Parser) identFactor() *types.Type {
	tok := p.peek()
	if t, ok := p.builtInFunc(tok.Text); ok {
		return t
	}

	sym := p.syms.Lookup(tok.Text)
	if sym == nil {
		p.errorf(tok.Line, "undefined identifier %q", tok.Text)
		p.next()
		return types.IntegerType
	}

	switch sym.Kind {
	case symtab.ConstKind:
		p.next()
		p.emit.Emit(code.Push, 0, sym.Value)
		return sym.Type
	case symtab.VarKind:
		t := p.variableRef(sym)
		if t.Size > 1 {
			// Composite values (arrays/records) are left as an address on
			// the stack for the caller to Copy; only scalars are Eval'd.
			return t
		}
		p.emit.Emit0(code.Eval)
		return t
	case symtab.FuncKind:
		p.next()
		p.callArgs(sym)
		return sym.Type
	default:
		p.errorf(tok.Line, "%q cannot be used in an expression", tok.Text)
		p.next()
		return types.IntegerType
	}
}

// builtInFunc recognizes the fixed set of built-in math/ordinal functions
// original_source/pcomp.cc's builtInFunc implements: round, trunc, abs,
// atan, exp, log, odd, pred, sin, sqr, sqrt, succ, ord.
func (p *Parser) builtInFunc(name string) (*types.Type, bool) {
	var op code.Op
	var argOrdinalOnly, resultInt, resultBool bool
	resultReal := true

	switch name {
	case "round":
		op, resultReal = code.Round, false
		resultInt = true
	case "trunc":
		op, resultReal = code.Trunc, false
		resultInt = true
	case "abs":
		op = code.Abs
		resultReal = false // matches argument type; handled specially below
	case "atan":
		op = code.Atan
	case "exp":
		op = code.Exp
	case "log":
		op = code.Log
	case "sin":
		op = code.Sin
	case "sqrt":
		op = code.Sqrt
	case "sqr":
		op = code.Sqr
	case "odd":
		op, argOrdinalOnly, resultBool, resultReal = code.Odd, true, true, false
	case "pred":
		op, argOrdinalOnly, resultReal = code.Pred, true, false
	case "succ":
		op, argOrdinalOnly, resultReal = code.Succ, true, false
	case "ord":
		argOrdinalOnly, resultInt, resultReal = true, true, false
	default:
		return nil, false
	}

	nameTok := p.next()
	p.expect(token.LParen)
	argType := p.expression()
	p.expect(token.RParen)

	if argOrdinalOnly && !argType.IsOrdinal() {
		p.errorf(nameTok.Line, "%s requires an ordinal argument", nameTok.Text)
	}

	if name == "ord" {
		p.emit.Emit0(code.Ord)
		return types.IntegerType, true
	}
	if name == "abs" {
		p.emit.Emit0(op)
		if argType.Kind == types.Real {
			return types.RealType, true
		}
		return types.IntegerType, true
	}
	if name == "pred" || name == "succ" {
		limit := argType.Range.Min
		if name == "succ" {
			limit = argType.Range.Max
		}
		p.emit.Emit(op, 0, code.IDatum(limit))
		return argType, true
	}
	if argType.Kind != types.Real && (op == code.Atan || op == code.Exp || op == code.Log || op == code.Sin || op == code.Sqrt || op == code.Sqr) {
		p.emit.Emit0(code.Itor)
	}
	p.emit.Emit0(op)

	switch {
	case resultInt:
		return types.IntegerType, true
	case resultBool:
		return types.BooleanType, true
	case resultReal:
		return types.RealType, true
	default:
		return argType, true
	}
}

// variableRef parses the "[expr] | .ident | ^" selector chain following a
// variable's base name and returns its final element type, leaving the
// element's address (not value) on top of the stack.
func (p *Parser) variableRef(sym *symtab.Symbol) *types.Type {
	p.next() // consume the base identifier
	p.emit.Emit(code.PushVar, int8(p.level-sym.Level), code.IDatum(int64(sym.Offset)))
	t := sym.Type

	for {
		switch p.peek().Kind {
		case token.LBracket:
			p.next()
			if t.Kind != types.Array {
				p.errorf(p.peek().Line, "cannot index a %s value", t.Kind)
			}
			p.expression()
			p.expect(token.RBracket)
			if t.Kind == types.Array {
				p.emit.Emit(code.LLimit, 0, code.IDatum(t.IndexType.Range.Min))
				p.emit.Emit(code.ULimit, 0, code.IDatum(t.IndexType.Range.Max))
				p.emit.Emit(code.Push, 0, code.IDatum(t.IndexType.Range.Min))
				p.emit.Emit0(code.Sub)
				p.emit.Emit(code.Push, 0, code.IDatum(int64(t.ElemType.Size)))
				p.emit.Emit0(code.Mul)
				p.emit.Emit0(code.Add)
				t = t.ElemType
			}
		case token.Dot:
			p.next()
			fieldTok := p.expect(token.Ident)
			if t.Kind != types.Record {
				p.errorf(fieldTok.Line, "cannot select a field of a %s value", t.Kind)
				continue
			}
			off, ft, ok := t.FieldByName(fieldTok.Text)
			if !ok {
				p.errorf(fieldTok.Line, "%s has no field %q", t, fieldTok.Text)
				continue
			}
			p.emit.Emit(code.Push, 0, code.IDatum(int64(off)))
			p.emit.Emit0(code.Add)
			t = ft
		case token.Caret:
			p.next()
			if t.Kind != types.Pointer {
				p.errorf(p.peek().Line, "cannot dereference a %s value", t.Kind)
				continue
			}
			p.emit.Emit0(code.Eval)
			t = t.Pointee
		default:
			return t
		}
	}
}

// callArgs emits an actual-parameter list and the CALL for sym, checking
// arity and applying assignPromote per parameter. Argument types are not
// otherwise checked against the declared parameter types.
func (p *Parser) callArgs(sym *symtab.Symbol) {
	var argTypes []*types.Type
	if p.at(token.LParen) {
		p.next()
		if !p.at(token.RParen) {
			line := p.peek().Line
			argTypes = p.expressionListPromoted(sym.Params, line)
		}
		p.expect(token.RParen)
	}
	if len(argTypes) != len(sym.Params) {
		p.errorf(p.peek().Line, "%s expects %d argument(s), got %d", sym.Name, len(sym.Params), len(argTypes))
	}
	p.emit.Emit(code.Call, int8(p.level-sym.Level), code.IDatum(int64(sym.EntryPC)))
}

// expressionListPromoted parses actual arguments against declared parameter
// types, applying assignPromote per argument.
func (p *Parser) expressionListPromoted(params []*types.Type, line int) []*types.Type {
	var ts []*types.Type
	i := 0
	for {
		argLine := p.peek().Line
		t := p.expression()
		if i < len(params) {
			p.assignPromote(argLine, params[i], t)
		}
		ts = append(ts, t)
		i++
		if !p.at(token.Comma) {
			break
		}
		p.next()
	}
	_ = line
	return ts
}
