/*
 * cubeio.go, part of gocube.
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
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	v3 "github.com/rmera/gocube/v3"
	"gonum.org/v1/gonum/mat"
)

//lineReader keeps track of the line number, so format errors can point to it.
type lineReader struct {
	r    *bufio.Reader
	line int
}

//next returns the next line, without the line break. io.EOF is returned only
//if nothing at all could be read.
func (l *lineReader) next() (string, error) {
	s, err := l.r.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		return "", err
	}
	l.line++
	return strings.TrimRight(s, "\r\n"), nil
}

//fields returns the fields of the next line, or a FormatError
//if there is no next line, or it has less than min fields.
func (l *lineReader) fields(min int, what string) ([]string, error) {
	s, err := l.next()
	if err == io.EOF {
		return nil, newFormatError(l.line+1, "Read", "file ends before the %s", what)
	} else if err != nil {
		return nil, err
	}
	f := strings.Fields(s)
	if len(f) < min {
		return nil, newFormatError(l.line, "Read", "%s needs %d fields, found %d", what, min, len(f))
	}
	return f, nil
}

//parseFloats parses the strings in s into dest, which must be at least as long as s.
func parseFloats(dest []float64, s []string, line int, what string) error {
	for i, v := range s {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return newFormatError(line, "Read", "can't parse %q in the %s", v, what)
		}
		dest[i] = f
	}
	return nil
}

//Largest count accepted in a header, and largest number of values
//(all blocks together) a file can hold.
const (
	maxCount  = math.MaxInt32
	maxValues = math.MaxInt32
)

//parseCount parses a field that must hold an integer. Some programs write
//counts with a decimal point, so "10.0" is accepted. Counts larger than
//maxCount in absolute value are format errors.
func parseCount(s string, line int, what string) (int, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, newFormatError(line, "Read", "can't parse %q in the %s as an integer", s, what)
	}
	if math.Abs(f) > maxCount {
		return 0, newFormatError(line, "Read", "%s %s is too large", what, s)
	}
	return int(f), nil
}

//valueCount returns the number of values in nblocks blocks of the given shape,
//or a FormatError if there are more than maxValues.
func valueCount(shape [3]int, nblocks int, line int) (int, error) {
	total := nblocks
	for _, n := range shape {
		if n != 0 && total > maxValues/n {
			return 0, newFormatError(line, "Read", "a %dx%dx%d grid with %d blocks is too large", shape[0], shape[1], shape[2], nblocks)
		}
		total *= n
	}
	return total, nil
}

//Read reads a cube file from r and returns the corresponding Grid.
func Read(r io.Reader) (*Grid, error) {
	return read(r, true)
}

//ReadHeader reads everything in a cube file except the volumetric data.
//The returned Grid has the shape of the file, but HasData returns false
//for it.
func ReadHeader(r io.Reader) (*Grid, error) {
	return read(r, false)
}

func read(r io.Reader, withData bool) (*Grid, error) {
	in := &lineReader{r: bufio.NewReader(r)}
	G := new(Grid)
	var err error
	for _, v := range []*string{&G.Title, &G.Comment} {
		*v, err = in.next()
		if err == io.EOF {
			return nil, newFormatError(in.line+1, "Read", "file ends before the title lines")
		} else if err != nil {
			return nil, errDecorate(err, "Read")
		}
		*v = strings.TrimRight(*v, " \t")
	}
	f, err := in.fields(4, "atom count and origin")
	if err != nil {
		return nil, err
	}
	natoms, err := parseCount(f[0], in.line, "atom count")
	if err != nil {
		return nil, err
	}
	if natoms < 0 {
		G.MultiBlock = true
		natoms = -natoms
	}
	if err = parseFloats(G.Origin[:], f[1:4], in.line, "origin"); err != nil {
		return nil, err
	}
	G.Lattice = mat.NewDense(3, 3, nil)
	step := make([]float64, 3)
	for i := 0; i < 3; i++ {
		f, err = in.fields(4, fmt.Sprintf("axis %d line", i))
		if err != nil {
			return nil, err
		}
		G.shape[i], err = parseCount(f[0], in.line, "point count")
		if err != nil {
			return nil, err
		}
		if G.shape[i] < 0 {
			return nil, newFormatError(in.line, "Read", "negative number of points (%d) along axis %d", G.shape[i], i)
		}
		if err = parseFloats(step, f[1:4], in.line, "axis step"); err != nil {
			return nil, err
		}
		for j, s := range step {
			G.Lattice.Set(i, j, s*float64(G.shape[i]))
		}
	}
	//the slices grow as lines are read, so a bogus atom count in a
	//truncated file doesn't allocate anything.
	G.Numbers = []int{}
	var coords []float64
	pos := make([]float64, 3)
	for i := 0; i < natoms; i++ {
		f, err = in.fields(5, fmt.Sprintf("atom %d line", i+1))
		if err != nil {
			return nil, err
		}
		z, err := parseCount(f[0], in.line, "atomic number")
		if err != nil {
			return nil, err
		}
		if err = parseFloats(pos, f[2:5], in.line, "atom position"); err != nil {
			return nil, err
		}
		G.Numbers = append(G.Numbers, z)
		for _, p := range pos {
			coords = append(coords, Bohr2Ang(p))
		}
	}
	if natoms > 0 {
		if G.Coords, err = v3.NewMatrix(coords); err != nil {
			return nil, errDecorate(err, "Read")
		}
	}
	nblocks := 1
	if G.MultiBlock {
		G.BlockIDs, err = readBlockIDs(in)
		if err != nil {
			return nil, err
		}
		nblocks = len(G.BlockIDs)
	}
	if !withData {
		return G, nil
	}
	total, err := valueCount(G.shape, nblocks, in.line)
	if err != nil {
		return nil, err
	}
	npoints := total / nblocks
	raw, err := readData(in, total, G.MultiBlock)
	if err != nil {
		return nil, err
	}
	if nblocks == 1 {
		G.blocks = [][]float64{raw}
		return G, nil
	}
	//the values of all blocks for a point are contiguous in the file.
	G.blocks = make([][]float64, nblocks)
	for b := range G.blocks {
		G.blocks[b] = make([]float64, npoints)
		for p := 0; p < npoints; p++ {
			G.blocks[b][p] = raw[p*nblocks+b]
		}
	}
	return G, nil
}

//readBlockIDs reads the "m id1 ... idm" section of a multi-block
//file, which can span several lines.
func readBlockIDs(in *lineReader) ([]int, error) {
	f, err := in.fields(1, "block identifier line")
	if err != nil {
		return nil, err
	}
	m, err := parseCount(f[0], in.line, "block count")
	if err != nil {
		return nil, err
	}
	if m < 1 {
		return nil, newFormatError(in.line, "Read", "invalid number of data blocks: %d", m)
	}
	ids := make([]int, 0, min(m, 64))
	f = f[1:]
	for {
		for _, v := range f {
			if len(ids) == m {
				return nil, newFormatError(in.line, "Read", "more than %d block identifiers", m)
			}
			id, err := parseCount(v, in.line, "block identifiers")
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		if len(ids) == m {
			return ids, nil
		}
		f, err = in.fields(1, "block identifier line")
		if err != nil {
			return nil, err
		}
	}
}

func readData(in *lineReader, expected int, multi bool) ([]float64, error) {
	//grown while reading: the header alone can't be trusted with a large allocation.
	data := make([]float64, 0, min(expected, 1<<20))
	read := 0
	for {
		s, err := in.next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errDecorate(err, "Read")
		}
		for _, v := range strings.Fields(s) {
			if read == expected {
				return nil, newFormatError(in.line, "Read", "more than the %d data values expected", expected)
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, newFormatError(in.line, "Read", "can't parse data value %q", v)
			}
			data = append(data, f)
			read++
		}
	}
	if read < expected {
		what := "data values"
		if multi {
			what = "data values (all blocks)"
		}
		return nil, newFormatError(in.line, "Read", "file truncated: %d of %d %s read", read, expected, what)
	}
	return data, nil
}

//ReadNamed reads a cube file from r, decompressing it according to the suffix of
//name, as FileRead does. name is also reported in format errors.
func ReadNamed(name string, r io.Reader) (*Grid, error) {
	dr, err := NewReader(name, r)
	if err != nil {
		return nil, errDecorate(err, "ReadNamed")
	}
	defer dr.Close()
	G, err := Read(dr)
	if err != nil {
		var ferr *FormatError
		if errors.As(err, &ferr) {
			ferr.filename = name
		}
		return nil, errDecorate(err, "ReadNamed")
	}
	return G, nil
}

//FileRead opens and reads the cube file name. Files ending in .gz, .zst or .zstd
//are decompressed on the fly.
func FileRead(name string) (*Grid, error) {
	fin, err := os.Open(name)
	if err != nil {
		return nil, errDecorate(err, "FileRead")
	}
	defer fin.Close()
	G, err := ReadNamed(name, fin)
	return G, errDecorate(err, "FileRead")
}

//Write writes G to out in the cube format. An empty title or comment is
//written as "cube". Atom charges are written as zero, and only the first
//data block of a multi-block grid is written.
func Write(out io.Writer, G *Grid) error {
	if !G.HasData() {
		return &CError{"can't write a grid without data", []string{"Write"}}
	}
	w := bufio.NewWriter(out)
	title, comment := G.Title, G.Comment
	if title == "" {
		title = "cube"
	}
	if comment == "" {
		comment = "cube"
	}
	fmt.Fprintf(w, "%s\n%s\n", title, comment)
	fmt.Fprintf(w, "%5d %14.8f %14.8f %14.8f\n", G.NAtoms(), G.Origin[0], G.Origin[1], G.Origin[2])
	dv := G.Dv()
	for i := 0; i < 3; i++ {
		fmt.Fprintf(w, "%5d %14.8f %14.8f %14.8f\n", G.shape[i], dv.At(i, 0), dv.At(i, 1), dv.At(i, 2))
	}
	for i, z := range G.Numbers {
		p := G.Position(i)
		fmt.Fprintf(w, "%5d %14.8f %14.8f %14.8f %14.8f\n", z, 0.0, Ang2Bohr(p[0]), Ang2Bohr(p[1]), Ang2Bohr(p[2]))
	}
	data := G.Data()
	run := G.shape[2]
	for start := 0; start < len(data); start += run {
		for k, v := range data[start : start+run] {
			fmt.Fprintf(w, " %13.6E", v)
			if k%6 == 5 && k != run-1 {
				w.WriteByte('\n')
			}
		}
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return errDecorate(err, "Write")
	}
	return nil
}

//FileWrite writes G to the file name, compressing it if name ends in .gz, .zst
//or .zstd. If G has no title, the base name of the file is used.
func FileWrite(name string, G *Grid) error {
	fout, err := os.Create(name)
	if err != nil {
		return errDecorate(err, "FileWrite")
	}
	defer fout.Close()
	w, err := NewWriter(name, fout)
	if err != nil {
		return errDecorate(err, "FileWrite")
	}
	if G.Title == "" {
		cp := *G
		cp.Title = filepath.Base(name)
		G = &cp
	}
	if err = Write(w, G); err != nil {
		w.Close()
		return errDecorate(err, "FileWrite")
	}
	if err = w.Close(); err != nil {
		return errDecorate(err, "FileWrite")
	}
	return errDecorate(fout.Close(), "FileWrite")
}

//GeometryWrite writes the atoms of G to out as an XYZ block, in angstrom.
func GeometryWrite(out io.Writer, G *Grid) error {
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "%-4d\n%s\n", G.NAtoms(), G.Title)
	for i, z := range G.Numbers {
		c := G.Position(i)
		fmt.Fprintf(w, "%-2s  %12.6f%12.6f%12.6f\n", Symbol(z), c[0], c[1], c[2])
	}
	return errDecorate(w.Flush(), "GeometryWrite")
}
