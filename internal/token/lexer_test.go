package token

import (
	"strings"
	"testing"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	l := New(strings.NewReader(src), "test")
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return toks
}

func TestLexKeywordsAndIdents(t *testing.T) {
	toks := lexAll(t, "program Foo; var x: integer;")
	want := []Kind{KwProgram, Ident, Semicolon, KwVar, Ident, Colon, Ident, Semicolon, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: kind = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLexNumbers(t *testing.T) {
	toks := lexAll(t, "42 3.14 2.5e10")
	if toks[0].Kind != IntLit || toks[0].Int != 42 {
		t.Errorf("token 0 = %+v, want IntLit 42", toks[0])
	}
	if toks[1].Kind != RealLit || toks[1].Real != 3.14 {
		t.Errorf("token 1 = %+v, want RealLit 3.14", toks[1])
	}
	if toks[2].Kind != RealLit {
		t.Errorf("token 2 kind = %v, want RealLit", toks[2].Kind)
	}
}

func TestLexOperators(t *testing.T) {
	toks := lexAll(t, ":= <= <> >= .. .")
	want := []Kind{Assign, LessEqual, NotEqual, GreaterEq, DotDot, Dot, EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: kind = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLexStringLiteral(t *testing.T) {
	toks := lexAll(t, "'hello' 'it''s' 'x'")
	if toks[0].Kind != StringLit || toks[0].Text != "hello" {
		t.Errorf("token 0 = %+v, want StringLit \"hello\"", toks[0])
	}
	if toks[1].Text != "it's" {
		t.Errorf("token 1 text = %q, want %q", toks[1].Text, "it's")
	}
	if toks[2].Text != "x" {
		t.Errorf("token 2 text = %q, want %q", toks[2].Text, "x")
	}
}

func TestLexComments(t *testing.T) {
	toks := lexAll(t, "x { a comment } := (* another *) 1")
	want := []Kind{Ident, Assign, IntLit, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: kind = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := New(strings.NewReader("begin end"), "test")
	first := l.Peek()
	second := l.Peek()
	if first.Kind != second.Kind || first.Kind != KwBegin {
		t.Errorf("Peek() not idempotent: %+v then %+v", first, second)
	}
	consumed := l.Next()
	if consumed.Kind != KwBegin {
		t.Errorf("Next() = %v, want KwBegin", consumed.Kind)
	}
	if l.Next().Kind != KwEnd {
		t.Errorf("second Next() != KwEnd")
	}
}
