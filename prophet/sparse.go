package prophet

import (
	"fmt"
	"math"
	"sort"
)

// Entry is a non-zero cell of a sparse row.
type Entry struct {
	Col int
	Val float64
}

// Matrix is a row-major sparse matrix. Entries of each row are sorted by
// column and never hold zero values.
type Matrix struct {
	rows [][]Entry
	cols int
}

// NewMatrix returns an all-zero matrix of the given shape.
func NewMatrix(rows, cols int) Matrix {
	return Matrix{rows: make([][]Entry, rows), cols: cols}
}

// Rows returns the number of rows.
func (m Matrix) Rows() int { return len(m.rows) }

// Cols returns the number of columns.
func (m Matrix) Cols() int { return m.cols }

// Row returns the stored entries of row i. Callers must not modify them.
func (m Matrix) Row(i int) []Entry { return m.rows[i] }

// At returns the value at (i, j).
func (m Matrix) At(i, j int) float64 {
	row := m.rows[i]
	k := sort.Search(len(row), func(k int) bool { return row[k].Col >= j })
	if k < len(row) && row[k].Col == j {
		return row[k].Val
	}
	return 0
}

// Scale returns a copy of m with every value multiplied by f.
func (m Matrix) Scale(f float64) Matrix {
	out := NewMatrix(len(m.rows), m.cols)
	if f == 0 {
		return out
	}
	for i, row := range m.rows {
		if len(row) == 0 {
			continue
		}
		scaled := make([]Entry, len(row))
		for k, e := range row {
			scaled[k] = Entry{Col: e.Col, Val: e.Val * f}
		}
		out.rows[i] = scaled
	}
	return out
}

// HStack concatenates matrices horizontally. All parts must share the row count.
func HStack(parts ...Matrix) (Matrix, error) {
	if len(parts) == 0 {
		return Matrix{}, nil
	}
	n := parts[0].Rows()
	cols := 0
	for i, p := range parts {
		if p.Rows() != n {
			return Matrix{}, fmt.Errorf("hstack: part %d has %d rows, want %d", i, p.Rows(), n)
		}
		cols += p.cols
	}
	out := NewMatrix(n, cols)
	for r := 0; r < n; r++ {
		size := 0
		for _, p := range parts {
			size += len(p.rows[r])
		}
		if size == 0 {
			continue
		}
		row := make([]Entry, 0, size)
		offset := 0
		for _, p := range parts {
			for _, e := range p.rows[r] {
				row = append(row, Entry{Col: e.Col + offset, Val: e.Val})
			}
			offset += p.cols
		}
		out.rows[r] = row
	}
	return out, nil
}

func rowNorm(row []Entry) float64 {
	var sum float64
	for _, e := range row {
		sum += e.Val * e.Val
	}
	return math.Sqrt(sum)
}

func rowDot(a, b []Entry) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Col == b[j].Col:
			dot += a[i].Val * b[j].Val
			i++
			j++
		case a[i].Col < b[j].Col:
			i++
		default:
			j++
		}
	}
	return dot
}

// euclidean computes the distance by merging both rows so identical rows
// give exactly zero.
func euclidean(a, b []Entry) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j >= len(b) || (i < len(a) && a[i].Col < b[j].Col):
			sum += a[i].Val * a[i].Val
			i++
		case i >= len(a) || b[j].Col < a[i].Col:
			sum += b[j].Val * b[j].Val
			j++
		default:
			d := a[i].Val - b[j].Val
			sum += d * d
			i++
			j++
		}
	}
	return math.Sqrt(sum)
}

func cosineDistance(a, b []Entry, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		if na == nb {
			return 0
		}
		return 1
	}
	d := 1 - rowDot(a, b)/(na*nb)
	if d < 0 {
		return 0
	}
	return d
}
