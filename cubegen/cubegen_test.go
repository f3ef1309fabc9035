/*
 * cubegen_test.go, part of gocube.
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
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	cube "github.com/rmera/gocube"
	v3 "github.com/rmera/gocube/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

//testGrid returns a grid with 1 bohr spacing, its origin at 0, and
//atoms (in angstrom) at the positions in geom.
func testGrid(Te *testing.T, shape [3]int, geom ...float64) *cube.Grid {
	Te.Helper()
	coords, err := v3.NewMatrix(geom)
	require.NoError(Te, err)
	L := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		L.Set(i, i, float64(shape[i]))
	}
	G, err := cube.NewGrid(make([]int, coords.NVecs()), coords, [3]float64{}, L, shape, nil)
	require.NoError(Te, err)
	for i := range G.Data() {
		G.Data()[i] = float64(i) / 10
	}
	return G
}

//cubeFile returns G in the cube format, compressed according to the suffix of name.
func cubeFile(Te *testing.T, name string, G *cube.Grid) *fstest.MapFile {
	Te.Helper()
	var buf bytes.Buffer
	w, err := cube.NewWriter(name, &buf)
	require.NoError(Te, err)
	require.NoError(Te, cube.Write(w, G))
	require.NoError(Te, w.Close())
	return &fstest.MapFile{Data: buf.Bytes()}
}

func memLocation(label string, files fstest.MapFS) *FSLocation {
	return &FSLocation{FS: files, Label: label}
}

func init() {
	SetLogger(nil)
	cube.SetLogger(nil)
}

func TestLabel(Te *testing.T) {
	tests := map[string]string{
		"homo-1+.cube":       "cube_homo1",
		"lumo+2.cube.gz":     "cube_lumo2",
		"density.alpha.cube": "cube_density",
		"plain":              "cube_plain",
		"-+.cube":            "cube_",
	}
	for in, want := range tests {
		assert.Equal(Te, want, Label(in), in)
	}
	assert.True(Te, IsCubeFile("a.cube"))
	assert.True(Te, IsCubeFile("a.cube.gz"))
	assert.True(Te, IsCubeFile("a.cube.zst"))
	assert.False(Te, IsCubeFile("a.cub"))
	assert.False(Te, IsCubeFile("a.cube.bak"))
	assert.False(Te, IsCubeFile("a.gz"))
}

func TestParseSkipsOutOfRange(Te *testing.T) {
	G := testGrid(Te, [3]int{4, 6, 10}, 0, 0, 0)
	loc := memLocation("retrieved", fstest.MapFS{
		"homo-1+.cube": cubeFile(Te, "homo-1+.cube", G),
		"aiida.out":    &fstest.MapFile{Data: []byte("not a cube file")},
	})
	P := NewParser(&Options{Heights: []float64{2, 2, 10}})
	out, err := P.Parse(Retrieved{Folder: loc})
	require.NoError(Te, err)
	assert.Equal(Te, []string{"cube_homo1"}, out.Labels())
	stack := out["cube_homo1"]
	assert.Equal(Te, []int{4, 6, 2}, stack.Shape())
	assert.Equal(Te, []float64{2, 2}, out[HArr].Data())
	assert.Equal(Te, []int{4}, out[XArr].Shape())
	assert.Equal(Te, []int{6}, out[YArr].Shape())
	want, err := G.PlaneAboveTopmostAtom(2, 2)
	require.NoError(Te, err)
	for k := 0; k < 2; k++ {
		got, err := stack.Plane(k)
		require.NoError(Te, err)
		assert.True(Te, mat.EqualApprox(want, got, 1e-6), "plane %d:\n%v", k, mat.Formatted(got))
	}
	x, err := G.AxisCoordinates(0)
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, x, out[XArr].Data(), 1e-12)
}

func TestParseOmitsFilesWithoutPlanes(Te *testing.T) {
	high := testGrid(Te, [3]int{3, 5, 10}, 0, 0, 4) //2 A above the atom is outside the box
	low := testGrid(Te, [3]int{4, 6, 10}, 0, 0, 0)
	loc := memLocation("retrieved", fstest.MapFS{
		"a.cube": cubeFile(Te, "a.cube", high),
		"b.cube": cubeFile(Te, "b.cube", low),
	})
	out, err := NewParser(nil).Parse(Retrieved{Folder: loc})
	require.NoError(Te, err)
	assert.Equal(Te, []string{"cube_b"}, out.Labels())
	assert.Equal(Te, []int{4}, out[XArr].Shape(), "coordinates must come from the first file with planes")
	assert.Equal(Te, []float64{DefaultHeight}, out[HArr].Data())

	//nothing at all
	loc = memLocation("retrieved", fstest.MapFS{"a.cube": cubeFile(Te, "a.cube", high)})
	out, err = NewParser(nil).Parse(Retrieved{Folder: loc})
	require.NoError(Te, err)
	assert.Empty(Te, out)
}

func TestParseLocationOrder(Te *testing.T) {
	folder := memLocation("retrieved", fstest.MapFS{
		"z.cube": cubeFile(Te, "z.cube", testGrid(Te, [3]int{5, 6, 10}, 0, 0, 0)),
	})
	temp := memLocation("temporary", fstest.MapFS{
		"a.cube.gz": cubeFile(Te, "a.cube.gz", testGrid(Te, [3]int{7, 6, 10}, 0, 0, 0)),
	})
	out, err := NewParser(nil).Parse(Retrieved{Folder: folder, Temporary: temp, TemporaryExpected: true})
	require.NoError(Te, err)
	assert.Equal(Te, []string{"cube_a", "cube_z"}, out.Labels())
	assert.Equal(Te, []int{5}, out[XArr].Shape(), "the main folder is scanned first")
	assert.Equal(Te, []int{7, 6, 1}, out["cube_a"].Shape())

	//the temporary folder is ignored unless expected
	out, err = NewParser(nil).Parse(Retrieved{Folder: folder, Temporary: temp})
	require.NoError(Te, err)
	assert.Equal(Te, []string{"cube_z"}, out.Labels())
}

func TestParseConcurrent(Te *testing.T) {
	files := fstest.MapFS{}
	for i := 0; i < 9; i++ {
		name := fmt.Sprintf("f%d.cube", i)
		files[name] = cubeFile(Te, name, testGrid(Te, [3]int{4 + i, 6, 10}, 0, 0, float64(i)/10))
	}
	R := Retrieved{Folder: memLocation("retrieved", files)}
	O := &Options{Heights: []float64{0, 1, 2, 3}}
	serial, err := (&Parser{Options: O, Workers: 1}).Parse(R)
	require.NoError(Te, err)
	for _, w := range []int{2, 4, 16} {
		conc, err := (&Parser{Options: O, Workers: w}).Parse(R)
		require.NoError(Te, err)
		if diff := cmp.Diff(serial, conc, cmp.AllowUnexported(Array{})); diff != "" {
			Te.Errorf("%d workers give a different output (-serial +concurrent):\n%s", w, diff)
		}
	}
	assert.Equal(Te, []int{4}, serial[XArr].Shape())
	assert.Len(Te, serial.Labels(), 9)
}

func TestParseFormatErrorAborts(Te *testing.T) {
	files := fstest.MapFS{}
	for i := 0; i < 6; i++ {
		name := fmt.Sprintf("f%d.cube", i)
		files[name] = cubeFile(Te, name, testGrid(Te, [3]int{4, 6, 10}, 0, 0, 0))
	}
	good := files["f3.cube"].Data
	files["f3.cube"] = &fstest.MapFile{Data: good[:len(good)/2]}
	R := Retrieved{Folder: memLocation("retrieved", files)}
	for _, w := range []int{1, 3} {
		out, err := (&Parser{Workers: w}).Parse(R)
		assert.Nil(Te, out)
		var ferr *cube.FormatError
		require.ErrorAs(Te, err, &ferr, "%d workers", w)
		assert.Equal(Te, "f3.cube", ferr.FileName())
	}
	//a header announcing an absurd number of atoms is an error, not a crash
	files["f3.cube"] = &fstest.MapFile{Data: []byte("a\nb\n 1e30 0 0 0\n")}
	for _, w := range []int{1, 4} {
		_, err := (&Parser{Workers: w}).Parse(R)
		var ferr *cube.FormatError
		require.ErrorAs(Te, err, &ferr, "%d workers", w)
		assert.Equal(Te, 3, ferr.Line())
	}
}

func TestParseFirstErrorInOrder(Te *testing.T) {
	files := fstest.MapFS{}
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("f%d.cube", i)
		files[name] = cubeFile(Te, name, testGrid(Te, [3]int{4, 6, 10}, 0, 0, 0))
	}
	//f6 fails right away, f2 only after its header is read.
	files["f6.cube"] = &fstest.MapFile{Data: []byte("x\n")}
	good := files["f2.cube"].Data
	files["f2.cube"] = &fstest.MapFile{Data: good[:len(good)-20]}
	R := Retrieved{Folder: memLocation("retrieved", files)}
	for _, w := range []int{1, 2, 8} {
		for rep := 0; rep < 10; rep++ {
			_, err := (&Parser{Workers: w}).Parse(R)
			var ferr *cube.FormatError
			require.ErrorAs(Te, err, &ferr, "%d workers", w)
			assert.Equal(Te, "f2.cube", ferr.FileName(), "%d workers", w)
		}
	}
}

func TestDirLocationSymlinks(Te *testing.T) {
	dir := Te.TempDir()
	other := Te.TempDir()
	G := testGrid(Te, [3]int{4, 6, 10}, 0, 0, 0)
	target := filepath.Join(other, "real.cube")
	require.NoError(Te, cube.FileWrite(target, G))
	require.NoError(Te, cube.FileWrite(filepath.Join(dir, "homo.cube"), G))
	if err := os.Symlink(target, filepath.Join(dir, "lumo.cube")); err != nil {
		Te.Skipf("can't create symbolic links: %v", err)
	}
	require.NoError(Te, os.Symlink(filepath.Join(other, "gone.cube"), filepath.Join(dir, "broken.cube")))
	require.NoError(Te, os.Symlink(other, filepath.Join(dir, "sub.cube")))
	require.NoError(Te, os.Mkdir(filepath.Join(dir, "dir.cube"), 0o755))

	names, err := DirLocation(dir).List()
	require.NoError(Te, err)
	assert.Equal(Te, []string{"homo.cube", "lumo.cube"}, names)
	out, err := NewParser(nil).Parse(OpenRetrieved(dir, ""))
	require.NoError(Te, err)
	assert.Equal(Te, []string{"cube_homo", "cube_lumo"}, out.Labels())
}

func TestMissingLocations(Te *testing.T) {
	loc := memLocation("retrieved", fstest.MapFS{})
	var merr *MissingLocationError

	_, err := NewParser(nil).Parse(Retrieved{})
	require.ErrorAs(Te, err, &merr)
	assert.Equal(Te, ErrNoRetrievedFolder, merr.Code)
	assert.Equal(Te, "ERROR_NO_RETRIEVED_FOLDER", merr.Name())
	assert.True(Te, merr.Critical())

	_, err = NewParser(nil).Parse(Retrieved{Folder: loc, TemporaryExpected: true})
	require.ErrorAs(Te, err, &merr)
	assert.Equal(Te, 301, merr.Code)
	assert.Equal(Te, "ERROR_NO_RETRIEVED_TEMPORARY_FOLDER", merr.Name())

	dir := Te.TempDir()
	R := OpenRetrieved(filepath.Join(dir, "nothere"), "")
	_, err = R.Locations()
	require.ErrorAs(Te, err, &merr)
	assert.Equal(Te, 300, merr.Code)
	assert.Contains(Te, merr.Error(), "nothere")

	R = OpenRetrieved(dir, filepath.Join(dir, "tmp"))
	_, err = R.Locations()
	require.ErrorAs(Te, err, &merr)
	assert.Equal(Te, 301, merr.Code)

	require.NoError(Te, os.Mkdir(filepath.Join(dir, "tmp"), 0o755))
	require.NoError(Te, cube.FileWrite(filepath.Join(dir, "tmp", "homo.cube"), testGrid(Te, [3]int{4, 6, 10}, 0, 0, 0)))
	R = OpenRetrieved(dir, filepath.Join(dir, "tmp"))
	locs, err := R.Locations()
	require.NoError(Te, err)
	assert.Len(Te, locs, 2)
	out, err := NewParser(nil).Parse(R)
	require.NoError(Te, err)
	assert.Equal(Te, []string{"cube_homo"}, out.Labels())
}

func TestParseOrient(Te *testing.T) {
	//the molecule is 5 A long along z, and the box only 10 bohr high
	G := testGrid(Te, [3]int{4, 6, 10}, 0, 0, 0, 0, 0, 5)
	R := Retrieved{Folder: memLocation("retrieved", fstest.MapFS{"rod.cube": cubeFile(Te, "rod.cube", G)})}
	out, err := NewParser(nil).Parse(R)
	require.NoError(Te, err)
	assert.Empty(Te, out.Labels())

	out, err = NewParser(&Options{Heights: []float64{DefaultHeight}, OrientCube: true}).Parse(R)
	require.NoError(Te, err)
	require.Equal(Te, []string{"cube_rod"}, out.Labels())
	assert.Equal(Te, []int{10, 6, 1}, out["cube_rod"].Shape())
	assert.Equal(Te, []int{10}, out[XArr].Shape())
}

func TestOptions(Te *testing.T) {
	O := DefaultOptions()
	assert.Equal(Te, []float64{2.0}, O.Heights)
	assert.False(Te, O.OrientCube)

	O, err := ParseOptions([]byte("heights: [1, 2.5]\norient_cube: true\n"))
	require.NoError(Te, err)
	assert.Equal(Te, &Options{Heights: []float64{1, 2.5}, OrientCube: true}, O)

	O, err = ParseOptions([]byte(`{"orient_cube": true}`))
	require.NoError(Te, err)
	assert.Equal(Te, []float64{DefaultHeight}, O.Heights, "defaults must survive a partial file")

	var oerr *OptionsError
	_, err = ParseOptions([]byte("heights: [1, .nan]\n"))
	assert.ErrorAs(Te, err, &oerr)
	_, err = ParseOptions([]byte("heights: []\n"))
	assert.ErrorAs(Te, err, &oerr)
	_, err = ParseOptions([]byte("heights: [one]\n"))
	assert.ErrorAs(Te, err, &oerr)
	_, err = NewParser(&Options{}).Parse(Retrieved{Folder: memLocation("x", fstest.MapFS{})})
	assert.ErrorAs(Te, err, &oerr)

	dir := Te.TempDir()
	O, err = LoadOptions(filepath.Join(dir, "none.yaml"))
	require.NoError(Te, err)
	assert.Equal(Te, DefaultOptions(), O)
	name := filepath.Join(dir, "opts.yaml")
	require.NoError(Te, os.WriteFile(name, []byte("heights:\n  - 3.0\n  - 4.0\n"), 0o644))
	O, err = LoadOptions(name)
	require.NoError(Te, err)
	assert.Equal(Te, []float64{3, 4}, O.Heights)
}

func TestOutputJSON(Te *testing.T) {
	G := testGrid(Te, [3]int{2, 3, 4}, 0, 0, 0)
	R := Retrieved{Folder: memLocation("retrieved", fstest.MapFS{"homo.cube": cubeFile(Te, "homo.cube", G)})}
	out, err := NewParser(&Options{Heights: []float64{0.5, 1}}).Parse(R)
	require.NoError(Te, err)
	b, err := json.Marshal(out)
	require.NoError(Te, err)
	var back Output
	require.NoError(Te, json.Unmarshal(b, &back))
	if diff := cmp.Diff(out, back, cmp.AllowUnexported(Array{})); diff != "" {
		Te.Errorf("JSON round trip (-want +got):\n%s", diff)
	}
	assert.Error(Te, json.Unmarshal([]byte(`{"a": {"shape": [2, 2], "data": [1]}}`), &back))
}

func TestArray(Te *testing.T) {
	A, err := NewArray([]float64{0, 1, 2, 3, 4, 5}, 2, 3)
	require.NoError(Te, err)
	assert.Equal(Te, 5.0, A.At(1, 2))
	assert.Panics(Te, func() { A.At(2, 0) })
	assert.Panics(Te, func() { A.At(1) })
	_, err = NewArray(make([]float64, 5), 2, 3)
	assert.Error(Te, err)
	_, err = NewArray(nil, 2, -3)
	assert.Error(Te, err)
	_, err = A.Plane(0)
	assert.Error(Te, err)
	_, err = StackPlanes([]*mat.Dense{mat.NewDense(2, 2, nil), mat.NewDense(2, 3, nil)})
	assert.Error(Te, err)
	_, err = StackPlanes(nil)
	assert.Error(Te, err)
	S, err := StackPlanes([]*mat.Dense{mat.NewDense(1, 2, []float64{1, 2}), mat.NewDense(1, 2, []float64{3, 4})})
	require.NoError(Te, err)
	assert.Equal(Te, []float64{1, 3, 2, 4}, S.Data())
}
