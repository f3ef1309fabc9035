/*
 * doc.go, part of gocube.
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

/*
Package cubegen collects 2D planes from the cube files written by a calculation.

Every cube file found in the retrieved folder (and, if expected, in the
temporary retrieved folder) is read, optionally reoriented, and sampled at
each requested height above its topmost atom. The planes of a file are stacked
into a 3D array stored under a label derived from the file name, and the
x and y coordinates of the planes, plus the heights actually sampled, are
stored alongside.

Heights falling outside a grid are skipped with a log line. Malformed cube
files abort the whole collection.
*/
package cubegen
