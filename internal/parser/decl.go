package parser

import (
	"github.com/rmerkel/pascal/internal/code"
	"github.com/rmerkel/pascal/internal/symtab"
	"github.com/rmerkel/pascal/internal/token"
	"github.com/rmerkel/pascal/internal/types"
)

// identifierList: ident (',' ident)*
func (p *Parser) identifierList() []string {
	names := []string{p.expect(token.Ident).Text}
	for p.at(token.Comma) {
		p.next()
		names = append(names, p.expect(token.Ident).Text)
	}
	return names
}

// constDeclList: "const" (ident '=' constExpr ';')+
func (p *Parser) constDeclList() {
	p.expect(token.KwConst)
	for p.at(token.Ident) {
		p.constDecl()
		p.expect(token.Semicolon)
	}
}

func (p *Parser) constDecl() {
	nameTok := p.expect(token.Ident)
	p.expect(token.Equal)
	v, t := p.constExpr()
	if p.syms.LookupLevel(nameTok.Text, p.level) != nil {
		p.errorf(nameTok.Line, "%q is already declared in this scope", nameTok.Text)
	}
	p.syms.Insert(&symtab.Symbol{Name: nameTok.Text, Kind: symtab.ConstKind, Type: t, Value: v, Level: p.level})
}

// typeDeclList: "type" (ident '=' type ';')+
func (p *Parser) typeDeclList() {
	p.expect(token.KwType)
	for p.at(token.Ident) {
		p.typeDecl()
		p.expect(token.Semicolon)
	}
}

// typeDecl inserts a placeholder descriptor before parsing the right-hand
// side so a self-referential pointer field (e.g. "node = record next:
// ^node end") can resolve the name to the same *types.Type this
// declaration is still building, then overwrites the placeholder in place.
func (p *Parser) typeDecl() {
	nameTok := p.expect(token.Ident)
	p.expect(token.Equal)

	placeholder := &types.Type{}
	sym := &symtab.Symbol{Name: nameTok.Text, Kind: symtab.TypeKind, Type: placeholder, Level: p.level}
	p.syms.Insert(sym)

	resolved := p.typeExpr()
	*placeholder = *resolved
}

// typeExpr: pointerType | structuredType | simpleType
func (p *Parser) typeExpr() *types.Type {
	switch p.peek().Kind {
	case token.Caret:
		p.next()
		nameTok := p.expect(token.Ident)
		sym := p.syms.Lookup(nameTok.Text)
		if sym == nil || sym.Kind != symtab.TypeKind {
			p.errorf(nameTok.Line, "undefined type %q", nameTok.Text)
			return types.NewPointer(types.IntegerType)
		}
		return types.NewPointer(sym.Type)
	case token.KwArray, token.KwRecord:
		return p.structuredType()
	default:
		return p.simpleType()
	}
}

// structuredType: "array" '[' simpleType ']' "of" type | "record" fieldList "end"
func (p *Parser) structuredType() *types.Type {
	switch p.next().Kind {
	case token.KwArray:
		p.expect(token.LBracket)
		idx := p.simpleType()
		p.expect(token.RBracket)
		p.expect(token.KwOf)
		elem := p.typeExpr()
		if !idx.IsOrdinal() {
			p.errorf(p.peek().Line, "array index type must be ordinal")
		}
		return types.NewArray(idx, elem)
	case token.KwRecord:
		names, ftypes := p.fieldList()
		p.expect(token.KwEnd)
		return types.NewRecord(names, ftypes)
	default:
		return types.IntegerType
	}
}

// fieldList: (identifierList ':' type ';')*
func (p *Parser) fieldList() ([]string, []*types.Type) {
	var names []string
	var ftypes []*types.Type
	for !p.at(token.KwEnd) {
		idents := p.identifierList()
		p.expect(token.Colon)
		ft := p.typeExpr()
		for _, id := range idents {
			names = append(names, id)
			ftypes = append(ftypes, ft)
		}
		if !p.at(token.Semicolon) {
			break
		}
		p.next()
	}
	return names, ftypes
}

// simpleType: '(' identifierList ')' | ordinalTypeName | constExpr ".." constExpr
//
// simpleType never returns a nil descriptor: an unrecognized production
// records a semantic error and falls back to types.IntegerType, matching
// the redesign flag against the original's null-returning simpleType.
func (p *Parser) simpleType() *types.Type {
	if p.at(token.LParen) {
		return p.enumType()
	}
	if p.at(token.Ident) {
		idTok := p.next()
		if p.at(token.DotDot) {
			lo, loType := p.constExprIdent(idTok, false)
			return p.finishSubrange(lo, loType)
		}
		sym := p.syms.Lookup(idTok.Text)
		if sym == nil || sym.Kind != symtab.TypeKind {
			p.errorf(idTok.Line, "undefined type %q", idTok.Text)
			return types.IntegerType
		}
		return sym.Type
	}
	lo, loType := p.constExpr()
	return p.finishSubrange(lo, loType)
}

func (p *Parser) finishSubrange(lo code.Datum, loType *types.Type) *types.Type {
	p.expect(token.DotDot)
	hi, _ := p.constExpr()
	if !loType.IsOrdinal() {
		p.errorf(p.peek().Line, "subrange bounds must be an ordinal type")
		return types.IntegerType
	}
	return types.NewSubrangeInt(lo.I, hi.I)
}

// enumType: '(' identifierList ')'
func (p *Parser) enumType() *types.Type {
	p.expect(token.LParen)
	names := p.identifierList()
	p.expect(token.RParen)

	enum, values := types.NewEnum(names)
	for _, name := range names {
		p.syms.Insert(&symtab.Symbol{Name: name, Kind: symtab.ConstKind, Type: enum, Value: code.IDatum(values[name]), Level: p.level})
	}
	return enum
}

// varDeclBlock: "var" (identifierList ':' type ';')+
func (p *Parser) varDeclBlock(dx int64) int64 {
	p.expect(token.KwVar)
	for p.at(token.Ident) {
		dx = p.varDecl(dx)
		p.expect(token.Semicolon)
	}
	return dx
}

func (p *Parser) varDecl(dx int64) int64 {
	names := p.identifierList()
	p.expect(token.Colon)
	t := p.typeExpr()
	for _, name := range names {
		if p.syms.LookupLevel(name, p.level) != nil {
			p.errorf(p.peek().Line, "%q is already declared in this scope", name)
			continue
		}
		p.syms.Insert(&symtab.Symbol{Name: name, Kind: symtab.VarKind, Type: t, Level: p.level, Offset: int(dx)})
		dx += int64(t.Size)
	}
	return dx
}

// subDecl: procDecl | funcDecl, both of the shape prefix ';' block ';'
func (p *Parser) subDecl() {
	isFunc := p.at(token.KwFunction)
	name, paramNames, paramTypes, retType := p.subPrefixDecl(isFunc)
	p.expect(token.Semicolon)

	kind := symtab.ProcKind
	if isFunc {
		kind = symtab.FuncKind
	}
	sym := &symtab.Symbol{
		Name: name, Kind: kind, Type: retType, Level: p.level, Params: paramTypes,
	}
	p.syms.Insert(sym)

	sym.EntryPC = p.emit.PC()
	p.block(sym, paramNames, paramTypes)

	p.expect(token.Semicolon)
}

// subPrefixDecl: ("procedure"|"function") ident ('(' formalParams ')')? (':' simpleType)?
func (p *Parser) subPrefixDecl(isFunc bool) (name string, paramNames []string, paramTypes []*types.Type, retType *types.Type) {
	if isFunc {
		p.expect(token.KwFunction)
	} else {
		p.expect(token.KwProcedure)
	}
	name = p.expect(token.Ident).Text

	if p.at(token.LParen) {
		p.next()
		for {
			names := p.identifierList()
			p.expect(token.Colon)
			t := p.simpleType()
			for _, n := range names {
				paramNames = append(paramNames, n)
				paramTypes = append(paramTypes, t)
			}
			if !p.at(token.Semicolon) {
				break
			}
			p.next()
		}
		p.expect(token.RParen)
	}

	if isFunc {
		p.expect(token.Colon)
		retType = p.simpleType()
	}
	return
}
