/*
 * v3_test.go, part of gocube.
 *
 * Copyright 2024 The gocube Authors.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package v3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewMatrix(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(Te, err)
	assert.Equal(Te, 2, A.NVecs())

	_, err = NewMatrix([]float64{1, 2, 3, 4})
	require.Error(Te, err)
	var v3err Error
	require.ErrorAs(Te, err, &v3err)
	assert.True(Te, v3err.Critical())

	_, err = NewMatrix(nil)
	assert.Error(Te, err)
}

func TestSwapCols(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(Te, err)
	orig := Clone(A)
	A.SwapCols(0, 2)
	assert.Equal(Te, []float64{3, 2, 1}, A.RawRowView(0))
	assert.Equal(Te, []float64{6, 5, 4}, A.RawRowView(1))
	A.SwapCols(0, 2)
	assert.True(Te, mat.Equal(A, orig), "swap is not an involution:\n%v\n%v", A, orig)
	assert.Panics(Te, func() { A.SwapCols(0, 3) })
}

func TestSpread(Te *testing.T) {
	A, err := NewMatrix([]float64{0, -1, 2, 4, 1, 2, -2, 0, 2.5})
	require.NoError(Te, err)
	s := A.Spread()
	assert.InDelta(Te, 6.0, s[0], 1e-12)
	assert.InDelta(Te, 2.0, s[1], 1e-12)
	assert.InDelta(Te, 0.5, s[2], 1e-12)
	min, max := A.ColMinMax(1)
	assert.Equal(Te, -1.0, min)
	assert.Equal(Te, 1.0, max)
}

func TestString(Te *testing.T) {
	A, err := NewMatrix([]float64{100, 1, 1, 2, 2, 2})
	require.NoError(Te, err)
	assert.Contains(Te, A.String(), "100.000")
	B := Clone(A)
	B.Set(0, 0, 0)
	assert.Equal(Te, 100.0, A.At(0, 0), "Clone must not share memory with its source")
}
