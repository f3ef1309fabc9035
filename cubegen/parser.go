/*
 * parser.go, part of gocube.
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
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	cube "github.com/rmera/gocube"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

//Logf is the logger used by the package. It defaults to log.Printf.
var Logf func(format string, v ...any) = log.Printf

//SetLogger replaces the package logger. A nil f mutes it.
func SetLogger(f func(format string, v ...any)) {
	if f == nil {
		Logf = func(string, ...any) {}
		return
	}
	Logf = f
}

//planeAxis is the axis perpendicular to the collected planes.
const planeAxis = 2

//IsCubeFile returns true if name is a cube file, possibly compressed.
func IsCubeFile(name string) bool {
	return strings.HasSuffix(cube.StripCompression(name), ".cube")
}

//Label returns the label under which the planes of the file name are stored:
//"cube_" followed by the part of the name before the first dot, with
//any '-' and '+' removed.
func Label(name string) string {
	base, _, _ := strings.Cut(name, ".")
	base = strings.NewReplacer("-", "", "+", "").Replace(base)
	return "cube_" + base
}

//Parser collects planes from all the cube files in a set of locations.
type Parser struct {
	Options *Options //nil means DefaultOptions()
	Workers int      //number of files parsed at the same time. Values < 2 mean one.
}

//NewParser returns a sequential parser with the given options.
func NewParser(O *Options) *Parser {
	return &Parser{Options: O, Workers: 1}
}

//Parse obtains the locations from R and calls ParseLocations on them.
//If a required location is missing, a *MissingLocationError is returned.
func (P *Parser) Parse(R Retrieved) (Output, error) {
	locs, err := R.Locations()
	if err != nil {
		return nil, errDecorate(err, "Parse")
	}
	out, err := P.ParseLocations(locs)
	return out, errDecorate(err, "Parse")
}

//a cube file, and what was obtained from it.
type job struct {
	loc  Location
	name string

	planes  []*mat.Dense
	heights []float64
	x, y    []float64
}

//ParseLocations reads every cube file in locs, in order, and collects the planes
//at the requested heights above the topmost atom. Heights for which the plane falls
//outside a grid are skipped, and files that yield no plane at all are left out of
//the output. Any other problem with any file (including a malformed file)
//aborts the whole operation, and no output is returned.
func (P *Parser) ParseLocations(locs []Location) (Output, error) {
	O := P.Options
	if O == nil {
		O = DefaultOptions()
	}
	if err := O.Validate(); err != nil {
		return nil, errDecorate(err, "ParseLocations")
	}
	var jobs []*job
	for _, l := range locs {
		names, err := l.List()
		if err != nil {
			return nil, fmt.Errorf("cubegen: listing %s: %w", l.Name(), err)
		}
		for _, n := range names {
			if IsCubeFile(n) {
				jobs = append(jobs, &job{loc: l, name: n})
			}
		}
	}
	if err := P.run(jobs, O); err != nil {
		return nil, errDecorate(err, "ParseLocations")
	}
	out := make(Output)
	first := true
	for _, j := range jobs {
		if len(j.planes) == 0 {
			Logf("cubegen: no plane at the requested heights in %s/%s", j.loc.Name(), j.name)
			continue
		}
		label := Label(j.name)
		if _, ok := out[label]; ok {
			Logf("cubegen: label %s already used, ignoring %s/%s", label, j.loc.Name(), j.name)
			continue
		}
		stack, err := StackPlanes(j.planes)
		if err != nil {
			return nil, errDecorate(err, "ParseLocations")
		}
		out[label] = stack
		if first {
			out[XArr] = VectorArray(j.x)
			out[YArr] = VectorArray(j.y)
			out[HArr] = VectorArray(j.heights)
			first = false
		}
	}
	return out, nil
}

//run processes the jobs, concurrently if P.Workers > 1. After a failure, only
//jobs that come before the failed one are still processed, so the error returned
//is always the first one in job order, as in a sequential run.
func (P *Parser) run(jobs []*job, O *Options) error {
	if P.Workers < 2 || len(jobs) < 2 {
		for _, j := range jobs {
			if err := j.process(O); err != nil {
				return err
			}
		}
		return nil
	}
	errs := make([]error, len(jobs))
	var failed atomic.Int64 //lowest index of a failed job
	failed.Store(int64(len(jobs)))
	var g errgroup.Group
	g.SetLimit(P.Workers)
	for i, j := range jobs {
		if int64(i) > failed.Load() {
			break
		}
		i, j := i, j
		g.Go(func() error {
			if int64(i) > failed.Load() {
				return nil
			}
			errs[i] = j.process(O)
			if errs[i] == nil {
				return nil
			}
			for {
				cur := failed.Load()
				if int64(i) >= cur || failed.CompareAndSwap(cur, int64(i)) {
					break
				}
			}
			return errs[i]
		})
	}
	g.Wait() //errs has all the information
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (j *job) process(O *Options) error {
	f, err := j.loc.Open(j.name)
	if err != nil {
		return fmt.Errorf("cubegen: opening %s/%s: %w", j.loc.Name(), j.name, err)
	}
	defer f.Close()
	G, err := cube.ReadNamed(j.name, f)
	if err != nil {
		return errDecorate(err, "process "+j.loc.Name())
	}
	if O.OrientCube {
		G.Orient()
	}
	for _, h := range O.Heights {
		plane, err := G.PlaneAboveTopmostAtom(h, planeAxis)
		var oerr *cube.OutOfRangeError
		if errors.As(err, &oerr) {
			continue
		} else if err != nil {
			return errDecorate(err, fmt.Sprintf("process %s/%s height %.3f", j.loc.Name(), j.name, h))
		}
		j.planes = append(j.planes, plane)
		j.heights = append(j.heights, h)
	}
	if len(j.planes) == 0 {
		return nil
	}
	if j.x, err = G.AxisCoordinates(0); err != nil {
		return errDecorate(err, "process")
	}
	if j.y, err = G.AxisCoordinates(1); err != nil {
		return errDecorate(err, "process")
	}
	return nil
}
