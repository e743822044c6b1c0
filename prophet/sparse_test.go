package prophet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dense builds a sparse matrix from dense rows.
func dense(rows [][]float64) Matrix {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	m := NewMatrix(len(rows), cols)
	for i, row := range rows {
		for j, v := range row {
			if v != 0 {
				m.rows[i] = append(m.rows[i], Entry{Col: j, Val: v})
			}
		}
	}
	return m
}

func TestHStack(t *testing.T) {
	a := dense([][]float64{{1, 0}, {0, 2}})
	b := dense([][]float64{{0, 0, 3}, {4, 0, 0}})

	got, err := HStack(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Rows())
	assert.Equal(t, 5, got.Cols())
	assert.Equal(t, 1.0, got.At(0, 0))
	assert.Equal(t, 3.0, got.At(0, 4))
	assert.Equal(t, 2.0, got.At(1, 1))
	assert.Equal(t, 4.0, got.At(1, 2))
	assert.Equal(t, 0.0, got.At(1, 4))
}

func TestHStackZeroWidthPart(t *testing.T) {
	a := dense([][]float64{{1}, {2}})
	empty := NewMatrix(2, 0)

	got, err := HStack(empty, a, empty)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Cols())
	assert.Equal(t, 2.0, got.At(1, 0))
}

func TestHStackRowMismatch(t *testing.T) {
	_, err := HStack(NewMatrix(2, 1), NewMatrix(3, 1))
	require.Error(t, err)
}

func TestScale(t *testing.T) {
	m := dense([][]float64{{2, 0}, {0, 4}})

	half := m.Scale(0.5)
	assert.Equal(t, 1.0, half.At(0, 0))
	assert.Equal(t, 2.0, half.At(1, 1))
	assert.Equal(t, 2.0, m.At(0, 0), "scale must not modify the receiver")

	zero := m.Scale(0)
	assert.Equal(t, 2, zero.Cols())
	assert.Empty(t, zero.Row(0))
	assert.Empty(t, zero.Row(1))
}

func TestDistances(t *testing.T) {
	m := dense([][]float64{{1, 0}, {0, 1}, {1, 0}, {0, 0}})

	assert.Equal(t, 0.0, euclidean(m.Row(0), m.Row(2)))
	assert.InDelta(t, math.Sqrt2, euclidean(m.Row(0), m.Row(1)), 1e-12)
	assert.Equal(t, 1.0, euclidean(m.Row(0), m.Row(3)))

	assert.InDelta(t, 0.0, cosineDistance(m.Row(0), m.Row(2), 1, 1), 1e-12)
	assert.InDelta(t, 1.0, cosineDistance(m.Row(0), m.Row(1), 1, 1), 1e-12)
	assert.Equal(t, 0.0, cosineDistance(m.Row(3), m.Row(3), 0, 0))
	assert.Equal(t, 1.0, cosineDistance(m.Row(0), m.Row(3), 1, 0))
}
