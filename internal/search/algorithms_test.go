package search_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torosent/searchbench/internal/search"
)

// sortedGrid returns a rows x cols matrix with strictly increasing rows and
// columns: cell (i, j) holds 2*(i*cols + j) + 2, so every odd number and 0
// are absent.
func sortedGrid(rows, cols int) search.Matrix {
	m := make(search.Matrix, rows)
	for i := range m {
		m[i] = make([]int, cols)
		for j := range m[i] {
			m[i][j] = 2*(i*cols+j) + 2
		}
	}
	return m
}

func TestConcreteScenarios(t *testing.T) {
	tests := []struct {
		name   string
		matrix search.Matrix
		target int
		want   search.Position
	}{
		{"single row middle", search.Matrix{{2, 4, 6, 8, 10}}, 6, search.Position{Row: 0, Col: 2}},
		{"single row first", search.Matrix{{2, 4, 6, 8, 10}}, 2, search.Position{Row: 0, Col: 0}},
		{"single row last", search.Matrix{{2, 4, 6, 8, 10}}, 10, search.Position{Row: 0, Col: 4}},
		{"single row below all", search.Matrix{{2, 4, 6, 8, 10}}, 1, search.NotFound},
		{"single row above all", search.Matrix{{2, 4, 6, 8, 10}}, 11, search.NotFound},
		{"two rows present", search.Matrix{{1, 3, 5}, {7, 9, 11}}, 9, search.Position{Row: 1, Col: 1}},
		{"two rows absent", search.Matrix{{1, 3, 5}, {7, 9, 11}}, 4, search.NotFound},
		{"two rows bottom left", search.Matrix{{1, 3, 5}, {7, 9, 11}}, 7, search.Position{Row: 1, Col: 0}},
		{"single cell hit", search.Matrix{{5}}, 5, search.Position{Row: 0, Col: 0}},
		{"single cell miss", search.Matrix{{5}}, 4, search.NotFound},
		{"nil matrix", nil, 3, search.NotFound},
		{"no rows", search.Matrix{}, 3, search.NotFound},
		{"empty rows", search.Matrix{{}, {}}, 3, search.NotFound},
	}

	for _, tt := range tests {
		for _, alg := range search.All() {
			t.Run(tt.name+"/"+alg.Name, func(t *testing.T) {
				got := alg.Run(tt.matrix, tt.target)
				assert.Equal(t, tt.want, got)
			})
		}
	}
}

func TestAlgorithmsAgreeOnEveryPresentValue(t *testing.T) {
	shapes := [][2]int{{1, 1}, {1, 7}, {3, 3}, {4, 9}, {8, 2}, {16, 16}, {5, 33}}
	for _, shape := range shapes {
		rows, cols := shape[0], shape[1]
		m := sortedGrid(rows, cols)
		t.Run(fmt.Sprintf("%dx%d", rows, cols), func(t *testing.T) {
			for i := 0; i < rows; i++ {
				for j := 0; j < cols; j++ {
					want := search.Position{Row: i, Col: j}
					for _, alg := range search.All() {
						require.Equal(t, want, alg.Run(m, m[i][j]), "%s target %d", alg.Name, m[i][j])
					}
				}
			}
		})
	}
}

func TestAlgorithmsReportAbsentValues(t *testing.T) {
	m := sortedGrid(6, 10)
	absent := []int{-5, 0, 1, 3, 61, 119, 121, 1000}
	for _, target := range absent {
		for _, alg := range search.All() {
			assert.Equal(t, search.NotFound, alg.Run(m, target), "%s target %d", alg.Name, target)
		}
	}
}

func TestGeneratorShapedMatrix(t *testing.T) {
	// Rows repeat values across columns of neighbouring rows, as the linear
	// generator produces.
	m := search.Matrix{
		{0, 2, 4, 6},
		{4, 6, 8, 10},
		{8, 10, 12, 14},
	}
	for _, alg := range search.All() {
		got := alg.Run(m, 12)
		require.Equal(t, search.Position{Row: 2, Col: 2}, got, alg.Name)
		require.Equal(t, search.NotFound, alg.Run(m, 9), alg.Name)
	}
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "not found", search.NotFound.String())
	assert.Equal(t, "(1, 2)", search.Position{Row: 1, Col: 2}.String())
	assert.False(t, search.NotFound.Found())
	assert.True(t, search.Position{}.Found())
}

func TestLookupAndSelect(t *testing.T) {
	alg, err := search.Lookup(" Staircase ")
	require.NoError(t, err)
	assert.Equal(t, search.NameStaircase, alg.Name)

	_, err = search.Lookup("linear")
	require.ErrorIs(t, err, search.ErrUnknownAlgorithm)

	all, err := search.Select(nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	picked, err := search.Select([]string{"staircase-exp", "binary", "BINARY"})
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, search.NameStaircaseExponential, picked[0].Name)
	assert.Equal(t, search.NameBinary, picked[1].Name)

	_, err = search.Select([]string{"binary", "bogus"})
	require.ErrorIs(t, err, search.ErrUnknownAlgorithm)
}
