/*
 * doc.go, part of gomat.
 *
 * Copyright 2024 Rodrigo Molina <rmolina{at}usachDOTcl>
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
 * gomat is developed at the Universidad de Santiago de Chile
 * (USACH).
 *
 */

/*Package matter is the main package of the gomat library. It provides composition
and crystal-structure types for solid-state and materials chemistry, together with
facilities for reading and writing some of the file formats used in the field.


	**gomat capabilities**

    Parses chemical formulas ("Fe2O3", "Li(OH)2", "LiFePO4") into compositions,
	including parenthesized groups and fractional stoichiometries.

    Reads/writes VASP POSCAR files and a reasonable subset of CIF.

    Converts between fractional and cartesian coordinates, and between
	lattice matrices and cell parameters.

    The subpackage hull builds phase diagrams from composition/energy data,
	computes formation energies and distances to the convex hull, and plots
	binary and ternary systems.

    The subpackage relax drives external machine-learned interatomic
	potential programs for structure pre-relaxation and short
	molecular-dynamics shake tests, with sanity checks and provenance
	reports.

All energies in gomat are in eV (or eV/atom where noted), all distances in Å,
all forces in eV/Å. Fractional coordinates are expressed in terms of the rows
of the lattice matrix.
*/
package matter

// Version of the library, reported in provenance records.
const Version = "0.2.1"
