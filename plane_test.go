/*
 * plane_test.go, part of gocube.
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

package cube

import (
	"math"
	"strings"
	"testing"

	v3 "github.com/rmera/gocube/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

//box10 returns a 10x10x10 grid spanning 10 bohr along each axis, starting at
//origin, with one atom at the (angstrom) position pos.
func box10(Te *testing.T, origin [3]float64, pos [3]float64) *Grid {
	Te.Helper()
	coords, err := v3.NewMatrix(pos[:])
	require.NoError(Te, err)
	L := mat.NewDense(3, 3, []float64{10, 0, 0, 0, 10, 0, 0, 0, 10})
	G, err := NewGrid([]int{6}, coords, origin, L, [3]int{10, 10, 10}, nil)
	require.NoError(Te, err)
	for i := range G.Data() {
		G.Data()[i] = float64(i)
	}
	return G
}

func TestPlaneBounds(Te *testing.T) {
	G := box10(Te, [3]float64{}, [3]float64{})
	_, err := G.PlaneIndexAboveTopmostAtom(100, 2)
	var oerr *OutOfRangeError
	require.ErrorAs(Te, err, &oerr)
	assert.False(Te, oerr.Critical())
	assert.Equal(Te, 2, oerr.Axis)
	assert.Equal(Te, 10, oerr.Len)
	assert.Equal(Te, 100.0, oerr.Query)
	idx, err := G.PlaneIndexAboveTopmostAtom(0, 2)
	require.NoError(Te, err)
	assert.True(Te, idx >= 0 && idx < 10, "index %d", idx)
	assert.Equal(Te, 0, idx)
	_, err = G.PlaneIndexAboveTopmostAtom(-5, 2)
	assert.ErrorAs(Te, err, &oerr)
	_, err = G.PlaneIndexAboveTopmostAtom(math.NaN(), 2)
	assert.ErrorAs(Te, err, &oerr)
	_, err = G.PlaneIndexAboveTopmostAtom(math.Inf(1), 2)
	assert.ErrorAs(Te, err, &oerr)
	_, err = G.PlaneIndexAboveTopmostAtom(1, 3)
	var cerr *CError
	assert.ErrorAs(Te, err, &cerr)
}

func TestPlaneRounding(Te *testing.T) {
	G := box10(Te, [3]float64{}, [3]float64{})
	//distance above the atom, in bohr, and the expected index
	tests := []struct {
		bohr float64
		want int
	}{
		{3.499, 3},
		{3.5, 3},
		{3.9, 3},
		{4.0, 4},
		{4.499, 4},
		{9.4, 9},
	}
	for _, tt := range tests {
		idx, err := G.PlaneIndexAboveTopmostAtom(tt.bohr/A2Bohr, 2)
		require.NoError(Te, err)
		assert.Equal(Te, tt.want, idx, "%.3f bohr above the atom", tt.bohr)
	}
	_, err := G.PlaneIndexAboveTopmostAtom(10.6/A2Bohr, 2)
	assert.Error(Te, err)

	//exact ties go to the even index
	for _, tt := range []struct {
		origin float64
		want   int
	}{{-2.5, 2}, {-7.5, 8}} {
		G := box10(Te, [3]float64{tt.origin, 0, 0}, [3]float64{})
		idx, err := G.XIndex(0)
		require.NoError(Te, err)
		assert.Equal(Te, tt.want, idx, "origin %.1f", tt.origin)
	}
}

func TestPlaneH2(Te *testing.T) {
	G := readH2(Te)
	for _, tt := range []struct {
		h    float64
		want int
	}{{0, 2}, {1, 3}, {2, 4}} {
		idx, err := G.PlaneIndexAboveTopmostAtom(tt.h, 2)
		require.NoError(Te, err)
		assert.Equal(Te, tt.want, idx, "height %.1f", tt.h)
	}
	_, err := G.PlaneAboveTopmostAtom(3, 2)
	assert.Error(Te, err)

	P, err := G.PlaneAboveTopmostAtom(2, 2)
	require.NoError(Te, err)
	r, c := P.Dims()
	assert.Equal(Te, 3, r)
	assert.Equal(Te, 4, c)
	assert.Equal(Te, 234.0, P.At(2, 3))
	assert.Equal(Te, 104.0, P.At(1, 0))

	P0, err := G.Plane(0, 1)
	require.NoError(Te, err)
	r, c = P0.Dims()
	assert.Equal(Te, [2]int{4, 5}, [2]int{r, c})
	assert.Equal(Te, 132.0, P0.At(3, 2))
	P1, err := G.Plane(1, 2)
	require.NoError(Te, err)
	assert.Equal(Te, 224.0, P1.At(2, 4))
	P1.Set(0, 0, -1)
	assert.Equal(Te, 20.0, G.At(0, 2, 0), "planes must be copies")

	_, err = G.Plane(2, 5)
	var oerr *OutOfRangeError
	assert.ErrorAs(Te, err, &oerr)
	H, err := ReadHeader(strings.NewReader(h2Header))
	require.NoError(Te, err)
	_, err = H.Plane(2, 0)
	assert.Error(Te, err, "header-only grids have no planes")
}

func TestPlaneNoAtoms(Te *testing.T) {
	L := mat.NewDense(3, 3, []float64{10, 0, 0, 0, 10, 0, 0, 0, 10})
	G, err := NewGrid(nil, nil, [3]float64{}, L, [3]int{10, 10, 10}, nil)
	require.NoError(Te, err)
	_, err = G.PlaneAboveTopmostAtom(0, 2)
	var oerr *OutOfRangeError
	assert.ErrorAs(Te, err, &oerr)
}

func TestCoordinateToIndex(Te *testing.T) {
	G := readH2(Te)
	//(0+3)/6*3 = 1.5, rounded to even.
	idx, err := G.XIndex(0)
	require.NoError(Te, err)
	assert.Equal(Te, 2, idx)
	idx, err = G.YIndex(-3 / A2Bohr)
	require.NoError(Te, err)
	assert.Equal(Te, 0, idx)
	idx, err = G.ZIndex(0)
	require.NoError(Te, err)
	assert.Equal(Te, 2, idx)
	_, err = G.ZIndex(20)
	assert.Error(Te, err)
	_, err = G.CoordinateToIndex(0, -1)
	assert.Error(Te, err)
}

func TestAxisCoordinates(Te *testing.T) {
	G := readH2(Te)
	x, err := G.AxisCoordinatesBohr(0)
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{-3, -1, 1}, x, 1e-12)
	z, err := G.AxisCoordinates(2)
	require.NoError(Te, err)
	require.Len(Te, z, 5)
	assert.InDelta(Te, -4/A2Bohr, z[0], 1e-12)
	assert.InDelta(Te, 4/A2Bohr, z[4], 1e-12)
	_, err = G.AxisCoordinates(3)
	assert.Error(Te, err)
}
