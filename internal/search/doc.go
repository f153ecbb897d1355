// Package search implements three searches for a target value in a matrix
// whose rows (and, for the staircase variants, columns) are sorted ascending.
//
// # Algorithms
//
//   - [BinaryRows]: binary search each row in turn, O(m log n).
//   - [Staircase]: walk from the top-right corner, moving down when the cell
//     is smaller than the target and left when it is larger, O(m + n).
//   - [StaircaseExponential]: the same walk, but a left move skips
//     geometrically with [ColumnSearch] and resolves the column with a
//     bounded binary search.
//
// All three share the [Func] signature and report a miss with [NotFound].
// None of them panic on empty matrices or empty rows.
//
// # Column bracket
//
// [ColumnSearch] keeps an exclusive upper bound (a column known to hold a
// value greater than the target) and an inclusive lower bound (the last
// probe, clamped to zero). When the target is absent it returns the last
// column holding a smaller value, or -1, so the staircase walk can continue
// by descending a row.
package search
