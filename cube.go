/*
 * cube.go, part of gocube.
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
	"strings"

	v3 "github.com/rmera/gocube/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

/**Note: At, Set and the other element accessors panic on out-of-range indexes, as
 * slice indexing does. Everything that takes physical quantities or axis numbers
 * coming from outside returns errors instead.**/

//Grid is a scalar field sampled on a (possibly non-orthogonal) lattice, together
//with the geometry of the molecule that produced it. It is the in-memory
//representation of a cube file.
//Lattice and Origin are in bohr, as in the file. Atomic positions are in angstrom.
type Grid struct {
	Title   string
	Comment string
	Numbers []int      //atomic numbers
	Coords  *v3.Matrix //atomic positions, angstrom. nil if there are no atoms.
	Origin  [3]float64 //position of the (0,0,0) point, bohr
	Lattice *mat.Dense //3x3, row i spans the whole axis i, bohr.

	MultiBlock bool  //the file had a negative atom count
	BlockIDs   []int //identifiers of the data blocks (i.e. orbital numbers), if MultiBlock

	shape  [3]int
	blocks [][]float64 //row-major data, one slice per block. blocks[0] is the grid's data.
}

//NewGrid builds a Grid from its parts. coords may be nil only if numbers is empty.
//data is used directly, and it must be either nil, in which case a zero-filled
//array is allocated, or have exactly shape[0]*shape[1]*shape[2] elements.
func NewGrid(numbers []int, coords *v3.Matrix, origin [3]float64, lattice *mat.Dense, shape [3]int, data []float64) (*Grid, error) {
	if coords == nil && len(numbers) != 0 {
		return nil, &CError{"nil coordinates for a non-empty atom list", []string{"NewGrid"}}
	}
	if coords != nil && coords.NVecs() != len(numbers) {
		return nil, &CError{fmt.Sprintf("%d atomic numbers but %d positions", len(numbers), coords.NVecs()), []string{"NewGrid"}}
	}
	if lattice == nil {
		return nil, &CError{"nil lattice", []string{"NewGrid"}}
	}
	if r, c := lattice.Dims(); r != 3 || c != 3 {
		return nil, &CError{fmt.Sprintf("lattice must be 3x3, not %dx%d", r, c), []string{"NewGrid"}}
	}
	for i, v := range shape {
		if v < 0 {
			return nil, &CError{fmt.Sprintf("negative number of points (%d) along axis %d", v, i), []string{"NewGrid"}}
		}
	}
	npoints := shape[0] * shape[1] * shape[2]
	if data == nil {
		data = make([]float64, npoints)
	}
	if len(data) != npoints {
		return nil, &CError{fmt.Sprintf("%d data points given for a %dx%dx%d grid", len(data), shape[0], shape[1], shape[2]), []string{"NewGrid"}}
	}
	G := &Grid{
		Numbers: numbers,
		Coords:  coords,
		Origin:  origin,
		Lattice: lattice,
		shape:   shape,
		blocks:  [][]float64{data},
	}
	return G, nil
}

//Shape returns the number of points along each axis.
func (G *Grid) Shape() [3]int {
	return G.shape
}

//NAtoms returns the number of atoms in the grid's geometry.
func (G *Grid) NAtoms() int {
	return len(G.Numbers)
}

//HasData returns false if only the header of the grid was read.
func (G *Grid) HasData() bool {
	return len(G.blocks) > 0
}

//NBlocks returns the number of data blocks. Only multi-block files have more than one.
func (G *Grid) NBlocks() int {
	return len(G.blocks)
}

//Data returns the row-major data of the grid. It is not a copy.
func (G *Grid) Data() []float64 {
	if !G.HasData() {
		return nil
	}
	return G.blocks[0]
}

func (G *Grid) index(i, j, k int) int {
	if i < 0 || j < 0 || k < 0 || i >= G.shape[0] || j >= G.shape[1] || k >= G.shape[2] {
		panic(fmt.Sprintf("cube: index (%d,%d,%d) out of range for a %v grid", i, j, k, G.shape))
	}
	return (i*G.shape[1]+j)*G.shape[2] + k
}

//At returns the value at the point i,j,k.
func (G *Grid) At(i, j, k int) float64 {
	return G.blocks[0][G.index(i, j, k)]
}

//Set sets the value at the point i,j,k to v.
func (G *Grid) Set(i, j, k int, v float64) {
	G.blocks[0][G.index(i, j, k)] = v
}

//Block returns a Grid with the same header as the receiver and the
//data of block b. The data is copied.
func (G *Grid) Block(b int) (*Grid, error) {
	if b < 0 || b >= len(G.blocks) {
		return nil, &CError{fmt.Sprintf("block %d requested, but the grid has %d", b, len(G.blocks)), []string{"Block"}}
	}
	ret := G.copyHeader()
	ret.blocks = [][]float64{append([]float64(nil), G.blocks[b]...)}
	if b < len(G.BlockIDs) {
		ret.BlockIDs = []int{G.BlockIDs[b]}
	}
	ret.MultiBlock = false
	return ret, nil
}

func (G *Grid) copyHeader() *Grid {
	ret := &Grid{
		Title:      G.Title,
		Comment:    G.Comment,
		Numbers:    append([]int(nil), G.Numbers...),
		Origin:     G.Origin,
		MultiBlock: G.MultiBlock,
		BlockIDs:   append([]int(nil), G.BlockIDs...),
		shape:      G.shape,
	}
	if G.Coords != nil {
		ret.Coords = v3.Clone(G.Coords)
	}
	if G.Lattice != nil {
		ret.Lattice = mat.DenseCopyOf(G.Lattice)
	}
	return ret
}

//Copy returns a deep copy of the grid. Nothing is shared with the receiver.
func (G *Grid) Copy() *Grid {
	ret := G.copyHeader()
	if G.blocks != nil {
		ret.blocks = make([][]float64, len(G.blocks))
		for i, v := range G.blocks {
			ret.blocks[i] = append([]float64(nil), v...)
		}
	}
	return ret
}

//Position returns the position of the ith atom, in angstrom.
func (G *Grid) Position(i int) [3]float64 {
	r := G.Coords.RawRowView(i)
	return [3]float64{r[0], r[1], r[2]}
}

//Dv returns the voxel vectors (lattice rows divided by the number of points) in bohr.
func (G *Grid) Dv() *mat.Dense {
	dv := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		if G.shape[i] == 0 {
			continue
		}
		row := mat.Row(nil, i, G.Lattice)
		floats.Scale(1/float64(G.shape[i]), row)
		dv.SetRow(i, row)
	}
	return dv
}

//DvAng returns the voxel vectors in angstrom.
func (G *Grid) DvAng() *mat.Dense {
	dv := G.Dv()
	dv.Scale(1/A2Bohr, dv)
	return dv
}

//VoxelVolume returns the volume of one voxel, in bohr^3.
func (G *Grid) VoxelVolume() float64 {
	return math.Abs(mat.Det(G.Dv()))
}

//Integrate returns the sum of the grid values times the voxel volume. For an
//electron density cube this is the number of electrons in the box.
func (G *Grid) Integrate() float64 {
	if !G.HasData() {
		return 0
	}
	return floats.Sum(G.Data()) * G.VoxelVolume()
}

//String returns a short, human-readable summary of the grid header.
func (G *Grid) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s | %s\n", G.Title, G.Comment)
	fmt.Fprintf(&b, "atoms: %d  points: %d x %d x %d", G.NAtoms(), G.shape[0], G.shape[1], G.shape[2])
	if G.MultiBlock {
		fmt.Fprintf(&b, "  blocks: %v", G.BlockIDs)
	}
	fmt.Fprintf(&b, "\norigin (bohr): %10.5f %10.5f %10.5f\n", G.Origin[0], G.Origin[1], G.Origin[2])
	if G.Lattice != nil {
		for i := 0; i < 3; i++ {
			fmt.Fprintf(&b, "axis %d (bohr): %10.5f %10.5f %10.5f\n", i, G.Lattice.At(i, 0), G.Lattice.At(i, 1), G.Lattice.At(i, 2))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
