// Package generator builds the benchmark matrices and search targets.
package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/torosent/searchbench/internal/search"
)

// Table is a generated matrix together with the value to search for.
type Table struct {
	Matrix search.Matrix
	Target int
}

// Func builds a rows x cols table. Implementations must be deterministic.
type Func func(rows, cols int) Table

const (
	NameLinear  = "linear"
	NameProduct = "product"
)

// ErrUnknownGenerator is returned by Lookup for unsupported names.
var ErrUnknownGenerator = errors.New("unknown generator")

// Linear fills cell (i, j) with (cols/rows*i + j) * 2 and targets 2*cols + 1.
func Linear(rows, cols int) Table {
	m := allocate(rows, cols)
	if len(m) > 0 {
		step := cols / rows
		for i := range m {
			for j := range m[i] {
				m[i][j] = (step*i + j) * 2
			}
		}
	}
	return Table{Matrix: m, Target: 2*cols + 1}
}

// Product fills cell (i, j) with cols/rows*i*j*2 and targets 16*cols + 1.
func Product(rows, cols int) Table {
	m := allocate(rows, cols)
	if len(m) > 0 {
		step := cols / rows
		for i := range m {
			for j := range m[i] {
				m[i][j] = step * i * j * 2
			}
		}
	}
	return Table{Matrix: m, Target: 16*cols + 1}
}

// Lookup resolves a generator by name, ignoring case and surrounding space.
func Lookup(name string) (Func, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameLinear, "":
		return Linear, nil
	case NameProduct:
		return Product, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownGenerator, name, strings.Join(Names(), ", "))
	}
}

// Names lists the supported generator names.
func Names() []string {
	return []string{NameLinear, NameProduct}
}

// allocate returns a zeroed matrix backed by a single slice, or nil when
// either dimension is not positive.
func allocate(rows, cols int) search.Matrix {
	if rows <= 0 || cols <= 0 {
		return nil
	}
	backing := make([]int, rows*cols)
	m := make(search.Matrix, rows)
	for i := range m {
		m[i] = backing[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return m
}
