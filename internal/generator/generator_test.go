package generator

import (
	"errors"
	"testing"

	"github.com/torosent/searchbench/internal/search"
)

func TestLinearValues(t *testing.T) {
	table := Linear(2, 4)
	want := search.Matrix{
		{0, 2, 4, 6},
		{4, 6, 8, 10},
	}
	assertMatrix(t, want, table.Matrix)
	if table.Target != 9 {
		t.Errorf("Target = %d, want 9", table.Target)
	}
}

func TestProductValues(t *testing.T) {
	table := Product(2, 4)
	want := search.Matrix{
		{0, 0, 0, 0},
		{0, 4, 8, 12},
	}
	assertMatrix(t, want, table.Matrix)
	if table.Target != 65 {
		t.Errorf("Target = %d, want 65", table.Target)
	}
}

func TestGeneratedMatricesAreSorted(t *testing.T) {
	for _, name := range Names() {
		gen, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		for _, shape := range [][2]int{{1, 8}, {2, 8}, {8, 8}, {4, 64}, {3, 10}} {
			m := gen(shape[0], shape[1]).Matrix
			if len(m) != shape[0] {
				t.Fatalf("%s %v: got %d rows", name, shape, len(m))
			}
			for i := range m {
				if len(m[i]) != shape[1] {
					t.Fatalf("%s %v: row %d has %d columns", name, shape, i, len(m[i]))
				}
				for j := range m[i] {
					if j > 0 && m[i][j] < m[i][j-1] {
						t.Fatalf("%s %v: row %d not sorted at %d", name, shape, i, j)
					}
					if i > 0 && m[i][j] < m[i-1][j] {
						t.Fatalf("%s %v: column %d not sorted at %d", name, shape, j, i)
					}
				}
			}
		}
	}
}

func TestTargetsAreAbsent(t *testing.T) {
	for _, gen := range []Func{Linear, Product} {
		table := gen(16, 64)
		for _, alg := range search.All() {
			if got := alg.Run(table.Matrix, table.Target); got.Found() {
				t.Errorf("%s found target %d at %s", alg.Name, table.Target, got)
			}
		}
	}
}

func TestDegenerateShapes(t *testing.T) {
	for _, shape := range [][2]int{{0, 8}, {4, 0}, {-1, 3}} {
		if m := Linear(shape[0], shape[1]).Matrix; len(m) != 0 {
			t.Errorf("Linear%v returned %d rows, want 0", shape, len(m))
		}
		if m := Product(shape[0], shape[1]).Matrix; len(m) != 0 {
			t.Errorf("Product%v returned %d rows, want 0", shape, len(m))
		}
	}
}

func TestRowsDoNotAlias(t *testing.T) {
	m := Linear(3, 3).Matrix
	m[0] = append(m[0], 99)
	if m[1][0] != 2 {
		t.Fatalf("append to row 0 clobbered row 1: %v", m[1])
	}
}

func TestLookup(t *testing.T) {
	if _, err := Lookup(" Product "); err != nil {
		t.Fatalf("Lookup(Product): %v", err)
	}
	if _, err := Lookup(""); err != nil {
		t.Fatalf("Lookup(empty) should default to linear: %v", err)
	}
	_, err := Lookup("spiral")
	if !errors.Is(err, ErrUnknownGenerator) {
		t.Fatalf("Lookup(spiral) error = %v, want ErrUnknownGenerator", err)
	}
}

func assertMatrix(t *testing.T, want, got search.Matrix) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("rows = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if len(want[i]) != len(got[i]) {
			t.Fatalf("row %d has %d columns, want %d", i, len(got[i]), len(want[i]))
		}
		for j := range want[i] {
			if want[i][j] != got[i][j] {
				t.Errorf("cell (%d,%d) = %d, want %d", i, j, got[i][j], want[i][j])
			}
		}
	}
}
