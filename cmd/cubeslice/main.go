/*
 * main.go, part of gocube.
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

//cubeslice collects planes from the cube files left by a calculation, and
//offers a few utilities to inspect and reorient cube files.
package main

import (
	"errors"
	"os"

	"github.com/rmera/gocube/cubegen"
)

//Exit statuses. The codes of a MissingLocationError (300 and 301) don't fit in
//the 8 bits of a process exit status, so they are mapped to 30 and 31. The
//original code is reported in the error log.
const (
	exitFailure                    = 1
	exitNoRetrievedFolder          = 30
	exitNoRetrievedTemporaryFolder = 31
)

func main() {
	os.Exit(run(os.Args[1:]))
}

//run executes the command line args and returns the exit status.
func run(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return exitStatus(cmd.Execute())
}

func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var merr *cubegen.MissingLocationError
	if !errors.As(err, &merr) {
		return exitFailure
	}
	switch merr.Code {
	case cubegen.ErrNoRetrievedFolder:
		return exitNoRetrievedFolder
	case cubegen.ErrNoRetrievedTemporaryFolder:
		return exitNoRetrievedTemporaryFolder
	default:
		return exitFailure
	}
}
