/*
 * transform_test.go, part of gocube.
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
	"testing"

	"github.com/google/go-cmp/cmp"
	v3 "github.com/rmera/gocube/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

//skewGrid returns a grid with a non-orthogonal lattice and distinct
//values everywhere, so misplaced elements are noticed.
func skewGrid(Te *testing.T) *Grid {
	Te.Helper()
	coords, err := v3.NewMatrix([]float64{0.1, 0.2, 0.3, 1.1, -0.5, 2.5, -1.0, 0.7, 0.0})
	require.NoError(Te, err)
	L := mat.NewDense(3, 3, []float64{
		4, 0.5, 0.1,
		0.2, 6, 0.3,
		0.4, 0.6, 8})
	shape := [3]int{2, 3, 4}
	data := make([]float64, 24)
	for i := range data {
		data[i] = float64(i) * 1.5
	}
	G, err := NewGrid([]int{6, 1, 8}, coords, [3]float64{-1, -2, -3}, L, shape, data)
	require.NoError(Te, err)
	return G
}

func TestSwapAxesInvolution(Te *testing.T) {
	for _, ax := range [][2]int{{0, 2}, {0, 1}, {1, 2}, {2, 0}} {
		G := skewGrid(Te)
		orig := G.Copy()
		require.NoError(Te, G.SwapAxes(ax[0], ax[1]))
		require.NoError(Te, G.SwapAxes(ax[0], ax[1]))
		assert.Equal(Te, orig.Shape(), G.Shape())
		assert.Equal(Te, orig.Origin, G.Origin)
		assert.True(Te, mat.Equal(orig.Lattice, G.Lattice))
		assert.True(Te, mat.Equal(orig.Coords, G.Coords))
		if diff := cmp.Diff(orig.Data(), G.Data()); diff != "" {
			Te.Errorf("swap %v is not an involution (-want +got):\n%s", ax, diff)
		}
	}
}

func TestSwapAxesMapping(Te *testing.T) {
	G := skewGrid(Te)
	S, err := G.WithAxesSwapped(0, 2)
	require.NoError(Te, err)
	assert.Equal(Te, [3]int{4, 3, 2}, S.Shape())
	assert.Equal(Te, [3]int{2, 3, 4}, G.Shape(), "WithAxesSwapped must not modify the receiver")
	assert.Equal(Te, [3]float64{-3, -2, -1}, S.Origin)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 4; k++ {
				assert.Equal(Te, G.At(i, j, k), S.At(k, j, i))
			}
		}
	}
	//the lattice is permuted on both indexes: L'[a][b] = L[p(a)][p(b)]
	p := [3]int{2, 1, 0}
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			assert.Equal(Te, G.Lattice.At(p[a], p[b]), S.Lattice.At(a, b), "lattice element %d,%d", a, b)
		}
	}
	for n := 0; n < G.NAtoms(); n++ {
		assert.Equal(Te, G.Coords.At(n, 0), S.Coords.At(n, 2))
		assert.Equal(Te, G.Coords.At(n, 2), S.Coords.At(n, 0))
		assert.Equal(Te, G.Coords.At(n, 1), S.Coords.At(n, 1))
	}
	//the voxel vectors keep their length
	assert.InDelta(Te, G.VoxelVolume(), S.VoxelVolume(), 1e-12)
}

func TestSwapAxesErrors(Te *testing.T) {
	G := skewGrid(Te)
	var cerr *CError
	require.ErrorAs(Te, G.SwapAxes(0, 3), &cerr)
	assert.Error(Te, G.SwapAxes(-1, 0))
	_, err := G.WithAxesSwapped(1, 5)
	assert.Error(Te, err)
	assert.NoError(Te, G.SwapAxes(1, 1))
	assert.Equal(Te, [3]int{2, 3, 4}, G.Shape())
}

func TestSwapAxesMultiBlock(Te *testing.T) {
	G, err := FileRead("testdata/orbitals.cube")
	require.NoError(Te, err)
	b1, err := G.Block(1)
	require.NoError(Te, err)
	require.NoError(Te, G.SwapAxes(0, 2))
	sb1, err := G.Block(1)
	require.NoError(Te, err)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				assert.Equal(Te, b1.At(i, j, k), sb1.At(k, j, i))
			}
		}
	}
}

func TestOrient(Te *testing.T) {
	//spreads: x 1, y 5, z 3
	coords, err := v3.NewMatrix([]float64{0, 0, 0, 1, 5, 3})
	require.NoError(Te, err)
	L := mat.NewDense(3, 3, []float64{10, 0, 0, 0, 20, 0, 0, 0, 30})
	G, err := NewGrid([]int{1, 1}, coords, [3]float64{1, 2, 3}, L, [3]int{2, 3, 4}, nil)
	require.NoError(Te, err)
	O := G.Oriented()
	assert.Equal(Te, [3]int{2, 3, 4}, G.Shape(), "Oriented must not modify the receiver")
	s := O.AtomSpread()
	assert.Equal(Te, [3]float64{5, 3, 1}, s)
	assert.Equal(Te, [3]int{3, 4, 2}, O.Shape())
	assert.Equal(Te, [3]float64{2, 3, 1}, O.Origin)
	assert.Equal(Te, 20.0, O.Lattice.At(0, 0))
	perm := G.Orient()
	assert.Equal(Te, [3]int{1, 2, 0}, perm)
	assert.Equal(Te, O.Shape(), G.Shape())

	//already oriented: nothing happens
	assert.Equal(Te, [3]int{0, 1, 2}, G.Orient())

	//no atoms: nothing happens
	E, err := NewGrid(nil, nil, [3]float64{}, mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}), [3]int{1, 2, 3}, nil)
	require.NoError(Te, err)
	assert.Equal(Te, [3]int{0, 1, 2}, E.Orient())
	assert.Equal(Te, [3]float64{}, E.AtomSpread())
}
