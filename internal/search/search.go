package search

import (
	"errors"
	"fmt"
	"strings"
)

// Matrix is a row-major grid of integers. Every row is expected to be
// non-decreasing; the staircase searches also expect non-decreasing columns.
type Matrix [][]int

// Position is a zero-based (row, column) cell index.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NotFound is returned when the target does not occur in the matrix.
var NotFound = Position{Row: -1, Col: -1}

// Found reports whether p refers to a cell.
func (p Position) Found() bool {
	return p != NotFound
}

func (p Position) String() string {
	if !p.Found() {
		return "not found"
	}
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Func locates target in m.
type Func func(m Matrix, target int) Position

// Algorithm pairs a search function with the name used in reports and flags.
type Algorithm struct {
	Name  string
	Label string
	Run   Func
}

// ErrUnknownAlgorithm is returned by Lookup for unregistered names.
var ErrUnknownAlgorithm = errors.New("unknown search algorithm")

const (
	NameBinary               = "binary"
	NameStaircase            = "staircase"
	NameStaircaseExponential = "staircase-exp"
)

var registry = []Algorithm{
	{Name: NameBinary, Label: "Binary search", Run: BinaryRows},
	{Name: NameStaircase, Label: "Staircase search", Run: Staircase},
	{Name: NameStaircaseExponential, Label: "Staircase exponential search", Run: StaircaseExponential},
}

// All returns every registered algorithm in report order.
func All() []Algorithm {
	return append([]Algorithm(nil), registry...)
}

// Names lists the registered algorithm names.
func Names() []string {
	names := make([]string, len(registry))
	for i, a := range registry {
		names[i] = a.Name
	}
	return names
}

// Lookup resolves a registered algorithm by name, ignoring case.
func Lookup(name string) (Algorithm, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, a := range registry {
		if a.Name == key {
			return a, nil
		}
	}
	return Algorithm{}, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownAlgorithm, name, strings.Join(Names(), ", "))
}

// Select resolves names in order. An empty list selects all algorithms.
func Select(names []string) ([]Algorithm, error) {
	if len(names) == 0 {
		return All(), nil
	}
	seen := make(map[string]bool, len(names))
	out := make([]Algorithm, 0, len(names))
	for _, name := range names {
		a, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		if seen[a.Name] {
			continue
		}
		seen[a.Name] = true
		out = append(out, a)
	}
	return out, nil
}
