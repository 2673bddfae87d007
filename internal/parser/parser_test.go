package parser

import (
	"strings"
	"testing"

	"github.com/rmerkel/pascal/internal/code"
	"github.com/rmerkel/pascal/internal/token"
)

func compile(t *testing.T, src string) (*code.Module, []error) {
	t.Helper()
	lex := token.New(strings.NewReader(src), "test.pas")
	return Compile(lex, "test.pas")
}

func TestCompileEmptyProgram(t *testing.T) {
	mod, errs := compile(t, "program empty; begin end.")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(mod.Instructions) == 0 {
		t.Fatalf("expected at least the CALL/HALT/JUMP/RET skeleton")
	}
	if mod.Instructions[0].Op != code.Call {
		t.Errorf("first instruction = %v, want Call", mod.Instructions[0].Op)
	}
	if mod.Instructions[1].Op != code.Halt {
		t.Errorf("second instruction = %v, want Halt", mod.Instructions[1].Op)
	}
}

func TestCompileConstAndAssign(t *testing.T) {
	src := `
program constants;
const limit = 10;
var x: integer;
begin
	x := limit + 1
end.
`
	_, errs := compile(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestCompileArithmeticAndWrite(t *testing.T) {
	src := `
program arith;
var a, b: real;
begin
	a := 3;
	b := a / 2;
	writeln(b)
end.
`
	mod, errs := compile(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	var sawWriteln bool
	for _, in := range mod.Instructions {
		if in.Op == code.Writeln {
			sawWriteln = true
		}
	}
	if !sawWriteln {
		t.Errorf("expected a Writeln instruction to be emitted")
	}
}

func TestCompileWriteWithWidthAndPrecision(t *testing.T) {
	src := `
program formatted;
var x: real;
	i: integer;
begin
	i := 42;
	x := 3.14159;
	write(i:5);
	writeln(x:8:2)
end.
`
	mod, errs := compile(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	var sawWrite, sawWriteln bool
	for _, in := range mod.Instructions {
		switch in.Op {
		case code.Write:
			sawWrite = true
		case code.Writeln:
			sawWriteln = true
		}
	}
	if !sawWrite || !sawWriteln {
		t.Errorf("expected both a Write and a Writeln instruction to be emitted")
	}
}

func TestCompileIfWhileForRepeat(t *testing.T) {
	src := `
program control;
var i: integer;
begin
	i := 0;
	while i < 10 do
		i := i + 1;
	if i = 10 then
		i := 0
	else
		i := 1;
	repeat
		i := i + 1
	until i > 4;
	for i := 1 to 3 do
		writeln(i);
	for i := 3 downto 1 do
		writeln(i)
end.
`
	mod, errs := compile(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	var sawGte, sawLte bool
	for _, in := range mod.Instructions {
		switch in.Op {
		case code.Gte:
			sawGte = true
		case code.Lte:
			sawLte = true
		}
	}
	if !sawGte {
		t.Errorf("expected a downto loop to emit Gte")
	}
	if !sawLte {
		t.Errorf("expected a to loop to emit Lte")
	}
}

func TestCompileProcedureCallAndRecursion(t *testing.T) {
	src := `
program recur;
var result: integer;

function factorial(n: integer): integer;
begin
	if n = 0 then
		factorial := 1
	else
		factorial := n * factorial(n - 1)
end;

begin
	result := factorial(5);
	writeln(result)
end.
`
	mod, errs := compile(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	var calls int
	for _, in := range mod.Instructions {
		if in.Op == code.Call {
			calls++
		}
	}
	if calls < 2 {
		t.Errorf("expected at least 2 Call instructions (program entry + recursive call), got %d", calls)
	}
}

func TestCompileArrayAndSubrange(t *testing.T) {
	src := `
program arrays;
type
	index = 0..9;
var
	a: array[index] of integer;
	i: index;
begin
	for i := 0 to 9 do
		a[i] := i * i;
	writeln(a[9])
end.
`
	mod, errs := compile(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	var sawLLimit, sawULimit bool
	for _, in := range mod.Instructions {
		switch in.Op {
		case code.LLimit:
			sawLLimit = true
		case code.ULimit:
			sawULimit = true
		}
	}
	if !sawLLimit || !sawULimit {
		t.Errorf("expected array indexing to emit range checks")
	}
}

func TestCompilePointerAndHeap(t *testing.T) {
	src := `
program heaptest;
type
	node = record
		value: integer;
		next: ^node
	end;
var
	head: ^node;
begin
	new(head);
	head^.value := 42;
	dispose(head)
end.
`
	mod, errs := compile(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	var sawNew, sawDispose bool
	for _, in := range mod.Instructions {
		switch in.Op {
		case code.New:
			sawNew = true
		case code.Dispose:
			sawDispose = true
		}
	}
	if !sawNew || !sawDispose {
		t.Errorf("expected New and Dispose instructions")
	}
}

func TestCompileUndefinedIdentifierProducesError(t *testing.T) {
	src := `
program bad;
begin
	x := 1
end.
`
	_, errs := compile(t, src)
	if len(errs) == 0 {
		t.Fatalf("expected an error for undefined identifier %q", "x")
	}
}

func TestOneCharacterStringLiteralEmitsPlainPush(t *testing.T) {
	src := `
program charlit;
var c: char;
begin
	c := 'x'
end.
`
	mod, errs := compile(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	var found bool
	for _, in := range mod.Instructions {
		if in.Op == code.Push && in.Addr.I == int64('x') {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a plain Push of the character's ordinal value")
	}
}
