/*
 * conversion.go, part of gocube.
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

//This provides the conversion factors used in cube files

//Conversions
const (
	A2Bohr = 1.8897259886 //bohr per angstrom
	Bohr2A = 1 / A2Bohr
)

//Ang2Bohr converts a length in angstrom to bohr.
func Ang2Bohr(a float64) float64 {
	return a * A2Bohr
}

//Bohr2Ang converts a length in bohr to angstrom.
//It divides by A2Bohr instead of multiplying by Bohr2A, so it is
//the exact inverse of Ang2Bohr up to one rounding.
func Bohr2Ang(b float64) float64 {
	return b / A2Bohr
}
