/*
 * box.go, part of gocube.
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

	v3 "github.com/rmera/gocube/v3"
	"gonum.org/v1/gonum/mat"
)

//Defaults for NewBoxGrid, in angstrom.
const (
	DefaultEdgeSpace = 3.0
	DefaultSpacing   = 0.15
)

//NewBoxGrid returns a zero-filled, orthogonal grid that encloses the geometry given
//by numbers and coords (angstrom), leaving edge angstroms of empty space on each side
//of the bounding box. Points are spaced dx angstroms along each axis.
//The geometry is copied.
func NewBoxGrid(numbers []int, coords *v3.Matrix, edge, dx float64) (*Grid, error) {
	if coords == nil || len(numbers) == 0 {
		return nil, &CError{"a box needs at least one atom", []string{"NewBoxGrid"}}
	}
	if coords.NVecs() != len(numbers) {
		return nil, &CError{fmt.Sprintf("%d atomic numbers but %d positions", len(numbers), coords.NVecs()), []string{"NewBoxGrid"}}
	}
	if !(dx > 0) || math.IsInf(dx, 0) || edge < 0 || math.IsNaN(edge) || math.IsInf(edge, 0) {
		return nil, &CError{fmt.Sprintf("invalid spacing (%g) or edge (%g)", dx, edge), []string{"NewBoxGrid"}}
	}
	var shape [3]int
	var origin [3]float64
	lattice := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		min, max := coords.ColMinMax(i)
		min -= edge
		max += edge
		side := max - min
		center := (max + min) / 2
		shape[i] = int(math.RoundToEven(side / dx))
		if shape[i] < 1 {
			shape[i] = 1
		}
		origin[i] = Ang2Bohr(center - side/2)
		lattice.Set(i, i, Ang2Bohr(float64(shape[i])*dx))
	}
	G, err := NewGrid(append([]int(nil), numbers...), v3.Clone(coords), origin, lattice, shape, nil)
	if err != nil {
		return nil, errDecorate(err, "NewBoxGrid")
	}
	G.Title = "cube"
	G.Comment = fmt.Sprintf("box grid, %.3f A spacing", dx)
	return G, nil
}
