package types

import "testing"

func TestRangeSpan(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		want int64
	}{
		{"single", Range{5, 5}, 1},
		{"zero-to-nine", Range{0, 9}, 10},
		{"negative", Range{-3, 3}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Span(); got != tt.want {
				t.Errorf("Span() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewEnum(t *testing.T) {
	enum, values := NewEnum([]string{"mon", "tue", "wed"})
	if enum.Kind != Enumeration {
		t.Fatalf("Kind = %v, want Enumeration", enum.Kind)
	}
	if enum.Range != (Range{0, 2}) {
		t.Errorf("Range = %v, want {0 2}", enum.Range)
	}
	for name, want := range map[string]int64{"mon": 0, "tue": 1, "wed": 2} {
		if got := values[name]; got != want {
			t.Errorf("values[%q] = %d, want %d", name, got, want)
		}
	}
}

func TestNewArraySize(t *testing.T) {
	idx := NewSubrangeInt(0, 9)
	arr := NewArray(idx, IntegerType)
	if arr.Size != 10 {
		t.Errorf("Size = %d, want 10", arr.Size)
	}

	rec := NewRecord([]string{"x", "y"}, []*Type{IntegerType, RealType})
	arrOfRec := NewArray(idx, rec)
	if arrOfRec.Size != 20 {
		t.Errorf("Size = %d, want 20", arrOfRec.Size)
	}
}

func TestNewRecordOffsets(t *testing.T) {
	rec := NewRecord([]string{"x", "y", "z"}, []*Type{IntegerType, RealType, IntegerType})
	if rec.Size != 3 {
		t.Errorf("Size = %d, want 3", rec.Size)
	}
	off, ftype, ok := rec.FieldByName("y")
	if !ok || off != 1 || ftype != RealType {
		t.Errorf("FieldByName(y) = %d, %v, %v; want 1, Real, true", off, ftype, ok)
	}
	if _, _, ok := rec.FieldByName("nope"); ok {
		t.Errorf("FieldByName(nope) found, want not found")
	}
}

func TestIsOrdinal(t *testing.T) {
	enum, _ := NewEnum([]string{"a", "b"})
	ordinal := []*Type{IntegerType, BooleanType, CharType, enum}
	for _, ty := range ordinal {
		if !ty.IsOrdinal() {
			t.Errorf("%v.IsOrdinal() = false, want true", ty)
		}
	}
	notOrdinal := []*Type{RealType, NewArray(NewSubrangeInt(0, 1), IntegerType), NewPointer(IntegerType)}
	for _, ty := range notOrdinal {
		if ty.IsOrdinal() {
			t.Errorf("%v.IsOrdinal() = true, want false", ty)
		}
	}
}

func TestAssignCompatible(t *testing.T) {
	sub1 := NewSubrangeInt(0, 9)
	sub2 := NewSubrangeInt(-100, 100)
	if !AssignCompatible(sub1, sub2) {
		t.Errorf("subranges of the same kind should be assign-compatible regardless of bounds")
	}
	if AssignCompatible(IntegerType, RealType) {
		t.Errorf("integer and real should not be assign-compatible")
	}

	rec1 := NewRecord([]string{"a"}, []*Type{IntegerType})
	rec2 := NewRecord([]string{"a"}, []*Type{IntegerType})
	rec3 := NewRecord([]string{"b"}, []*Type{IntegerType})
	if !AssignCompatible(rec1, rec2) {
		t.Errorf("structurally identical records should be assign-compatible")
	}
	if AssignCompatible(rec1, rec3) {
		t.Errorf("records with different field names should not be assign-compatible")
	}

	p1 := NewPointer(IntegerType)
	p2 := NewPointer(IntegerType)
	p3 := NewPointer(RealType)
	if !AssignCompatible(p1, p2) {
		t.Errorf("pointers to the same type should be assign-compatible")
	}
	if AssignCompatible(p1, p3) {
		t.Errorf("pointers to different types should not be assign-compatible")
	}
}
