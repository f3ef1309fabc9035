/*
 * gocoords.go, part of gocube.
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
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//METHODS

//NVecs returns the number of vecs in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

//SwapCols swaps the cartesian components i and j of every vector in the receiver.
//No arithmetic is performed, so the operation is exact and its own inverse.
func (F *Matrix) SwapCols(i, j int) {
	if i < 0 || j < 0 || i > 2 || j > 2 {
		panic(ErrIndexOutOfRange)
	}
	if i == j {
		return
	}
	for k := 0; k < F.NVecs(); k++ {
		row := F.RawRowView(k)
		row[i], row[j] = row[j], row[i]
	}
}

//ColMinMax returns the smallest and largest values in the column col.
func (F *Matrix) ColMinMax(col int) (float64, float64) {
	if col < 0 || col > 2 {
		panic(ErrIndexOutOfRange)
	}
	c := mat.Col(nil, col, F.Dense)
	return floats.Min(c), floats.Max(c)
}

//Spread returns, for each cartesian axis, the difference between
//the largest and the smallest coordinate along that axis.
func (F *Matrix) Spread() [3]float64 {
	var ret [3]float64
	for i := range ret {
		min, max := F.ColMinMax(i)
		ret[i] = max - min
	}
	return ret
}

//Returns a neat string representation of a Matrix
func (F *Matrix) String() string {
	r, _ := F.Dims()
	v := make([]string, 0, r)
	for i := 0; i < r; i++ {
		row := F.RawRowView(i)
		v = append(v, fmt.Sprintf("%8.3f %8.3f %8.3f", row[0], row[1], row[2]))
	}
	return "[" + strings.Join(v, "\n ") + "]"
}
