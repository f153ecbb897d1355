package search

import "slices"

// BinaryRows binary searches each row from the top and returns the first hit.
func BinaryRows(m Matrix, target int) Position {
	for row, values := range m {
		if col, ok := slices.BinarySearch(values, target); ok {
			return Position{Row: row, Col: col}
		}
	}
	return NotFound
}

// Staircase walks from the top-right corner one row or one column at a time.
func Staircase(m Matrix, target int) Position {
	if len(m) == 0 {
		return NotFound
	}
	row, col := 0, len(m[0])-1
	for row < len(m) && col >= 0 {
		cell := m[row][col]
		switch {
		case cell < target:
			row++
		case cell > target:
			col--
		default:
			return Position{Row: row, Col: col}
		}
	}
	return NotFound
}

// StaircaseExponential is Staircase with the column step replaced by
// ColumnSearch.
func StaircaseExponential(m Matrix, target int) Position {
	if len(m) == 0 {
		return NotFound
	}
	row, col := 0, len(m[0])-1
	for row < len(m) && col >= 0 {
		cell := m[row][col]
		switch {
		case cell < target:
			row++
		case cell > target:
			next, found := ColumnSearch(m[row], col, target)
			if found {
				return Position{Row: row, Col: next}
			}
			col = next
		default:
			return Position{Row: row, Col: col}
		}
	}
	return NotFound
}

// ColumnSearch looks for target in values[:start+1], scanning leftwards from
// start with doubling steps and finishing with a binary search over the
// bracket it found.
//
// On a hit it returns the column and true. On a miss it returns the last
// column whose value is below target, or -1 when there is none. start is
// clamped to the row; an empty row or negative start yields (-1, false).
func ColumnSearch(values []int, start, target int) (int, bool) {
	if len(values) == 0 || start < 0 {
		return -1, false
	}
	if start >= len(values) {
		start = len(values) - 1
	}
	if values[start] <= target {
		return start, values[start] == target
	}

	// values[hi] > target always holds; lo is inclusive.
	hi, lo, step := start, start-1, 1
	for lo >= 0 && values[lo] > target {
		hi = lo
		step *= 2
		lo -= step
	}
	if lo < 0 {
		lo = 0
	}

	pos, found := slices.BinarySearch(values[lo:hi], target)
	if found {
		return lo + pos, true
	}
	return lo + pos - 1, false
}
