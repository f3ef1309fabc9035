/*
 * output.go, part of gocube.
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

package cubegen

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//Names of the coordinate arrays in an Output.
const (
	XArr = "x_arr" //positions of the points along axis 0, angstrom
	YArr = "y_arr" //positions of the points along axis 1, angstrom
	HArr = "h_arr" //heights for which planes were obtained, angstrom
)

//Array is a dense, row-major, n-dimensional array of float64.
type Array struct {
	shape []int
	data  []float64
}

//NewArray returns an array with the given shape and data. If data is nil,
//a zero-filled slice is allocated. data is not copied.
func NewArray(data []float64, shape ...int) (*Array, error) {
	n := 1
	for _, v := range shape {
		if v < 0 {
			return nil, fmt.Errorf("cubegen: negative dimension in shape %v", shape)
		}
		n *= v
	}
	if data == nil {
		data = make([]float64, n)
	}
	if len(data) != n {
		return nil, fmt.Errorf("cubegen: %d elements given for shape %v", len(data), shape)
	}
	return &Array{shape: append([]int(nil), shape...), data: data}, nil
}

//VectorArray returns a 1D array with a copy of v.
func VectorArray(v []float64) *Array {
	return &Array{shape: []int{len(v)}, data: append([]float64(nil), v...)}
}

//StackPlanes returns an array of shape (r,c,n) where element [i][j][k] is
//element i,j of the kth plane. All planes must be r x c.
func StackPlanes(planes []*mat.Dense) (*Array, error) {
	if len(planes) == 0 {
		return nil, fmt.Errorf("cubegen: no planes to stack")
	}
	r, c := planes[0].Dims()
	n := len(planes)
	A, _ := NewArray(nil, r, c, n)
	for k, P := range planes {
		if pr, pc := P.Dims(); pr != r || pc != c {
			return nil, fmt.Errorf("cubegen: plane %d is %dx%d, expected %dx%d", k, pr, pc, r, c)
		}
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				A.data[(i*c+j)*n+k] = P.At(i, j)
			}
		}
	}
	return A, nil
}

//Shape returns the dimensions of the array.
func (A *Array) Shape() []int { return append([]int(nil), A.shape...) }

//Data returns the row-major data of the array. It is not a copy.
func (A *Array) Data() []float64 { return A.data }

//At returns the element at the given indexes. It panics if the number of indexes
//doesn't match the number of dimensions, or if any is out of range.
func (A *Array) At(idx ...int) float64 {
	if len(idx) != len(A.shape) {
		panic(fmt.Sprintf("cubegen: %d indexes for a %d-dimensional array", len(idx), len(A.shape)))
	}
	flat := 0
	for d, i := range idx {
		if i < 0 || i >= A.shape[d] {
			panic(fmt.Sprintf("cubegen: index %d out of range in dimension %d of %v", i, d, A.shape))
		}
		flat = flat*A.shape[d] + i
	}
	return A.data[flat]
}

//Plane returns the kth plane of a stack built with StackPlanes.
func (A *Array) Plane(k int) (*mat.Dense, error) {
	if len(A.shape) != 3 || k < 0 || k >= A.shape[2] {
		return nil, fmt.Errorf("cubegen: no plane %d in an array of shape %v", k, A.shape)
	}
	r, c := A.shape[0], A.shape[1]
	P := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			P.Set(i, j, A.At(i, j, k))
		}
	}
	return P, nil
}

func (A *Array) String() string {
	return fmt.Sprintf("array%v", A.shape)
}

func (A *Array) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Shape []int     `json:"shape"`
		Data  []float64 `json:"data"`
	}{
		Shape: A.shape,
		Data:  A.data,
	})
}

func (A *Array) UnmarshalJSON(b []byte) error {
	var a struct {
		Shape []int     `json:"shape"`
		Data  []float64 `json:"data"`
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	n, err := NewArray(a.Data, a.Shape...)
	if err != nil {
		return err
	}
	*A = *n
	return nil
}

//Output is the collection of arrays obtained from a set of cube files.
//Besides one plane stack per file, it contains the XArr, YArr and HArr arrays,
//taken from the first file that produced planes.
type Output map[string]*Array

//Labels returns the labels of the plane stacks, sorted, without the coordinate arrays.
func (O Output) Labels() []string {
	ret := make([]string, 0, len(O))
	for k := range O {
		if k == XArr || k == YArr || k == HArr {
			continue
		}
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

func (O Output) String() string {
	labels := O.Labels()
	s := make([]string, 0, len(labels))
	for _, v := range labels {
		s = append(s, fmt.Sprintf("%s: %v", v, O[v]))
	}
	if h, ok := O[HArr]; ok {
		s = append(s, fmt.Sprintf("heights: %v", h.data))
	}
	return strings.Join(s, "\n")
}
