/*
 * plane.go, part of gocube.
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
	"math"

	"gonum.org/v1/gonum/mat"
)

//planeBias is subtracted before rounding plane indexes, so a plane exactly
//between two lattice points is assigned to the lower one.
const planeBias = 0.499

//toIndex maps the float index f to an int, checking that it is a valid index for
//the given axis of G.
func (G *Grid) toIndex(f float64, axis int, query float64) (int, error) {
	n := G.shape[axis]
	if math.IsNaN(f) || math.IsInf(f, 0) || f < -1 || f > float64(n) {
		idx := -1
		if f > 0 {
			idx = n
		}
		return 0, &OutOfRangeError{Axis: axis, Index: idx, Len: n, Query: query}
	}
	idx := int(math.RoundToEven(f))
	if idx < 0 || idx >= n {
		return 0, &OutOfRangeError{Axis: axis, Index: idx, Len: n, Query: query}
	}
	return idx, nil
}

//TopmostAtom returns the largest coordinate of any atom along axis, in angstrom.
func (G *Grid) TopmostAtom(axis int) (float64, error) {
	if err := checkAxis(axis, "TopmostAtom"); err != nil {
		return 0, err
	}
	if G.NAtoms() == 0 {
		return 0, &OutOfRangeError{Axis: axis, Index: -1, Len: G.shape[axis], Query: math.NaN(), deco: []string{"TopmostAtom: no atoms"}}
	}
	_, max := G.Coords.ColMinMax(axis)
	return max, nil
}

//PlaneIndexAboveTopmostAtom returns the index, along axis, of the lattice plane
//height angstroms above the atom with the largest coordinate along that axis.
//An OutOfRangeError is returned if the plane is not inside the grid, or if
//the grid has no atoms.
func (G *Grid) PlaneIndexAboveTopmostAtom(height float64, axis int) (int, error) {
	top, err := G.TopmostAtom(axis)
	if err != nil {
		return 0, errDecorate(err, "PlaneIndexAboveTopmostAtom")
	}
	planeBohr := Ang2Bohr(height+top) - G.Origin[axis]
	f := planeBohr/G.Lattice.At(axis, axis)*float64(G.shape[axis]) - planeBias
	idx, err := G.toIndex(f, axis, height)
	return idx, errDecorate(err, "PlaneIndexAboveTopmostAtom")
}

//PlaneAboveTopmostAtom returns the plane, perpendicular to axis, height
//angstroms above the topmost atom along that axis. See PlaneIndexAboveTopmostAtom.
func (G *Grid) PlaneAboveTopmostAtom(height float64, axis int) (*mat.Dense, error) {
	idx, err := G.PlaneIndexAboveTopmostAtom(height, axis)
	if err != nil {
		return nil, errDecorate(err, "PlaneAboveTopmostAtom")
	}
	return G.Plane(axis, idx)
}

//Plane returns a new matrix with the values of the grid at the given index along axis.
//The rows and columns of the matrix are the two remaining axes, in increasing order.
func (G *Grid) Plane(axis, index int) (*mat.Dense, error) {
	if err := checkAxis(axis, "Plane"); err != nil {
		return nil, err
	}
	if !G.HasData() {
		return nil, &CError{"grid has no data", []string{"Plane"}}
	}
	if index < 0 || index >= G.shape[axis] {
		return nil, &OutOfRangeError{Axis: axis, Index: index, Len: G.shape[axis], Query: math.NaN(), deco: []string{"Plane"}}
	}
	var r, c int
	var at func(i, j int) float64
	switch axis {
	case 0:
		r, c = G.shape[1], G.shape[2]
		at = func(i, j int) float64 { return G.At(index, i, j) }
	case 1:
		r, c = G.shape[0], G.shape[2]
		at = func(i, j int) float64 { return G.At(i, index, j) }
	default:
		r, c = G.shape[0], G.shape[1]
		at = func(i, j int) float64 { return G.At(i, j, index) }
	}
	if r == 0 || c == 0 {
		return nil, &CError{fmt.Sprintf("empty %dx%d plane", r, c), []string{"Plane"}}
	}
	ret := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			ret.Set(i, j, at(i, j))
		}
	}
	return ret, nil
}

//CoordinateToIndex returns the index of the lattice point closest to
//value (angstrom) along axis. Ties are rounded to the even index.
func (G *Grid) CoordinateToIndex(value float64, axis int) (int, error) {
	if err := checkAxis(axis, "CoordinateToIndex"); err != nil {
		return 0, err
	}
	f := (Ang2Bohr(value) - G.Origin[axis]) / G.Lattice.At(axis, axis) * float64(G.shape[axis])
	idx, err := G.toIndex(f, axis, value)
	return idx, errDecorate(err, "CoordinateToIndex")
}

//XIndex returns CoordinateToIndex(x, 0)
func (G *Grid) XIndex(x float64) (int, error) { return G.CoordinateToIndex(x, 0) }

//YIndex returns CoordinateToIndex(y, 1)
func (G *Grid) YIndex(y float64) (int, error) { return G.CoordinateToIndex(y, 1) }

//ZIndex returns CoordinateToIndex(z, 2)
func (G *Grid) ZIndex(z float64) (int, error) { return G.CoordinateToIndex(z, 2) }

//AxisCoordinatesBohr returns the positions, in bohr, of the lattice points along axis.
//Only the diagonal element of the lattice is considered.
func (G *Grid) AxisCoordinatesBohr(axis int) ([]float64, error) {
	if err := checkAxis(axis, "AxisCoordinatesBohr"); err != nil {
		return nil, err
	}
	n := G.shape[axis]
	ret := make([]float64, n)
	if n == 0 {
		return ret, nil
	}
	step := G.Lattice.At(axis, axis) / float64(n)
	for i := range ret {
		ret[i] = G.Origin[axis] + float64(i)*step
	}
	return ret, nil
}

//AxisCoordinates returns the positions, in angstrom, of the lattice points along axis.
func (G *Grid) AxisCoordinates(axis int) ([]float64, error) {
	ret, err := G.AxisCoordinatesBohr(axis)
	if err != nil {
		return nil, errDecorate(err, "AxisCoordinates")
	}
	for i, v := range ret {
		ret[i] = Bohr2Ang(v)
	}
	return ret, nil
}
