/*
 * errors.go, part of gocube.
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
	"fmt"

	cube "github.com/rmera/gocube"
)

//Exit codes reported when the expected locations of the cube files are not available.
const (
	ErrNoRetrievedFolder          = 300
	ErrNoRetrievedTemporaryFolder = 301
)

var codeNames = map[int]string{
	ErrNoRetrievedFolder:          "ERROR_NO_RETRIEVED_FOLDER",
	ErrNoRetrievedTemporaryFolder: "ERROR_NO_RETRIEVED_TEMPORARY_FOLDER",
}

//MissingLocationError is returned when a location that should contain cube files
//is not available. Code is meant to be used as an exit status.
type MissingLocationError struct {
	Code int
	Path string //the path that was looked for, if known
	deco []string
}

//Name returns the symbolic name of the error code.
func (err *MissingLocationError) Name() string {
	return codeNames[err.Code]
}

func (err *MissingLocationError) Error() string {
	if err.Path != "" {
		return fmt.Sprintf("cubegen: %s (%d): %s not available", err.Name(), err.Code, err.Path)
	}
	return fmt.Sprintf("cubegen: %s (%d)", err.Name(), err.Code)
}

//Decorate adds new information to the error and returns the decoration slice.
func (err *MissingLocationError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Critical always returns true.
func (err *MissingLocationError) Critical() bool { return true }

//OptionsError is returned for invalid parser options.
type OptionsError struct {
	msg  string
	deco []string
}

func (err *OptionsError) Error() string { return "cubegen: invalid options: " + err.msg }

//Decorate adds new information to the error and returns the decoration slice.
func (err *OptionsError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Critical always returns true.
func (err *OptionsError) Critical() bool { return true }

func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(cube.Error); ok {
		e.Decorate(caller)
	}
	return err
}
