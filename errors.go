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

package cube

import (
	"fmt"
	"strings"
)

//Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
//error, without changing it's type or wrapping it around something else.
//The decoration slice should contain a list of functions in the calling stack, plus, for each function, any relevant information, or nothing.
//If information is to be added to an element of the slice, it should be in this format: "FunctionName: Extra info"
type Error interface {
	Error() string
	Decorate(string) []string
	Critical() bool
}

//FormatError is returned when a cube file doesn't follow the format, or is truncated.
//It is always critical: the file can't be used.
type FormatError struct {
	message  string
	filename string //the file that has problems, or empty string if unknown.
	line     int    //line number where the problem was found, 0 if not applicable.
	deco     []string
}

func (err *FormatError) Error() string {
	var loc string
	if err.filename != "" {
		loc = " " + err.filename
	}
	if err.line > 0 {
		loc = fmt.Sprintf("%s line %d", loc, err.line)
	}
	return fmt.Sprintf("cube file%s: %s", loc, err.message)
}

//Decorate adds new information to the error and returns the decoration slice.
func (err *FormatError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Critical always returns true.
func (err *FormatError) Critical() bool { return true }

//FileName returns the file associated to the error, if any.
func (err *FormatError) FileName() string { return err.filename }

//Line returns the line of the file where the problem was detected, or 0.
func (err *FormatError) Line() int { return err.line }

//Format returns the format of the file associated to the error.
func (err *FormatError) Format() string { return "cube" }

func newFormatError(line int, caller string, format string, a ...any) *FormatError {
	return &FormatError{message: fmt.Sprintf(format, a...), line: line, deco: []string{caller}}
}

//OutOfRangeError is returned when a requested point or plane is not inside the
//box spanned by the grid. It is not critical: callers scanning heights are expected
//to just move on.
type OutOfRangeError struct {
	Axis  int
	Index int     //the lattice index that was computed for the query
	Len   int     //number of points along Axis
	Query float64 //the requested value, in angstrom
	deco  []string
}

func (err *OutOfRangeError) Error() string {
	return fmt.Sprintf("cube: %.4f A maps to index %d on axis %d, outside [0,%d)", err.Query, err.Index, err.Axis, err.Len)
}

//Decorate adds new information to the error and returns the decoration slice.
func (err *OutOfRangeError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Critical always returns false.
func (err *OutOfRangeError) Critical() bool { return false }

//CError is a general error for the package. It is used for misuse
//of the API, such as invalid axes or inconsistent dimensions.
type CError struct {
	msg  string
	deco []string
}

func (err *CError) Error() string { return "cube: " + err.msg }

//Decorate adds new information to the error and returns the decoration slice.
func (err *CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical always returns true.
func (err *CError) Critical() bool { return true }

//errDecorate adds caller to the decoration of err, if err implements Error.
//Other errors are returned unchanged.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		e.Decorate(caller)
	}
	return err
}

//Trace returns the decoration (call trace) of err, joined by " <- ", or
//the empty string if err doesn't implement Error.
func Trace(err error) string {
	e, ok := err.(Error)
	if !ok {
		return ""
	}
	return strings.Join(e.Decorate(""), " <- ")
}
