/*
 * transform.go, part of gocube.
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
	"fmt"
)

func checkAxis(axis int, caller string) error {
	if axis < 0 || axis > 2 {
		return &CError{fmt.Sprintf("invalid axis %d, must be 0, 1 or 2", axis), []string{caller}}
	}
	return nil
}

//SwapAxes exchanges the lattice axes a and b of the grid, in place. Everything
//that depends on the identity of an axis is swapped: the atomic coordinates,
//the origin, the rows and columns of the lattice, the data (all blocks) and the shape.
//No arithmetic is involved, so swapping the same axes twice gives back the
//original grid exactly.
func (G *Grid) SwapAxes(a, b int) error {
	if err := checkAxis(a, "SwapAxes"); err != nil {
		return err
	}
	if err := checkAxis(b, "SwapAxes"); err != nil {
		return err
	}
	if a == b {
		return nil
	}
	if G.Coords != nil {
		G.Coords.SwapCols(a, b)
	}
	G.Origin[a], G.Origin[b] = G.Origin[b], G.Origin[a]
	swapRowsCols(G.Lattice, a, b)
	old := G.shape
	G.shape[a], G.shape[b] = G.shape[b], G.shape[a]
	for i, v := range G.blocks {
		G.blocks[i] = transpose(v, old, a, b)
	}
	return nil
}

//the matrix is 3x3 and both indexes are valid.
func swapRowsCols(L interface {
	At(int, int) float64
	Set(int, int, float64)
}, a, b int) {
	for i := 0; i < 3; i++ {
		t := L.At(a, i)
		L.Set(a, i, L.At(b, i))
		L.Set(b, i, t)
	}
	for i := 0; i < 3; i++ {
		t := L.At(i, a)
		L.Set(i, a, L.At(i, b))
		L.Set(i, b, t)
	}
}

//transpose returns a new row-major array with the axes a and b of
//data (which has the given shape) exchanged.
func transpose(data []float64, shape [3]int, a, b int) []float64 {
	ret := make([]float64, len(data))
	nshape := shape
	nshape[a], nshape[b] = nshape[b], nshape[a]
	var idx, nidx [3]int
	for idx[0] = 0; idx[0] < shape[0]; idx[0]++ {
		for idx[1] = 0; idx[1] < shape[1]; idx[1]++ {
			for idx[2] = 0; idx[2] < shape[2]; idx[2]++ {
				nidx = idx
				nidx[a], nidx[b] = nidx[b], nidx[a]
				from := (idx[0]*shape[1]+idx[1])*shape[2] + idx[2]
				to := (nidx[0]*nshape[1]+nidx[1])*nshape[2] + nidx[2]
				ret[to] = data[from]
			}
		}
	}
	return ret
}

//WithAxesSwapped returns a copy of G with the axes a and b exchanged. G is not modified.
func (G *Grid) WithAxesSwapped(a, b int) (*Grid, error) {
	ret := G.Copy()
	if err := ret.SwapAxes(a, b); err != nil {
		return nil, errDecorate(err, "WithAxesSwapped")
	}
	return ret, nil
}

//AtomSpread returns the extent (max-min) of the atomic coordinates along each
//axis, in angstrom. It is zero for a grid without atoms.
func (G *Grid) AtomSpread() [3]float64 {
	if G.Coords == nil || G.NAtoms() == 0 {
		return [3]float64{}
	}
	return G.Coords.Spread()
}

//Orient reorders the axes of G, in place, so axis 0 is the one along which the atoms
//spread the most, and axis 2 the one along which they spread the least.
//At most two swaps are performed. Ties keep the current order. It returns the
//permutation applied: the ith element is the original index of the new axis i.
func (G *Grid) Orient() [3]int {
	perm := [3]int{0, 1, 2}
	s := G.AtomSpread()
	largest := 0
	for i := 1; i < 3; i++ {
		if s[i] > s[largest] {
			largest = i
		}
	}
	if largest != 0 {
		G.SwapAxes(0, largest) //valid axes, can't fail
		s[0], s[largest] = s[largest], s[0]
		perm[0], perm[largest] = perm[largest], perm[0]
	}
	if s[2] > s[1] {
		G.SwapAxes(1, 2)
		perm[1], perm[2] = perm[2], perm[1]
	}
	if perm != [3]int{0, 1, 2} {
		Logf("cube: %q reoriented, new axis order %v", G.Title, perm)
	}
	return perm
}

//Oriented returns a copy of G in the orientation described in Orient. G is not modified.
func (G *Grid) Oriented() *Grid {
	ret := G.Copy()
	ret.Orient()
	return ret
}
