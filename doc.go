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
Package cube reads, writes and manipulates volumetric data in the Gaussian cube format.

	**Capabilities**

	Reads and writes cube files, including multi-block (orbital) files, optionally
	compressed with gzip or z-standard.

	Swaps lattice axes together with the atomic geometry, and reorients a grid
	so its first axis is the one where the molecule is most extended.

	Extracts 2D planes at a given height above the topmost atom, which is what you
	want for simulated STM images and similar.

	Builds empty grids around a geometry.

Units: the lattice and the origin of a Grid are kept in bohr, as they are in the file.
Atomic positions are kept in angstrom, and every method that takes a
physical position or height expects angstrom.

The subpackage cubegen collects planes from the cube files produced by a calculation,
and the subpackage archive stores the collected results in a SQLite database.
*/
package cube
