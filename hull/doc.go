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
 * */

//Package hull builds composition-space phase diagrams from
//composition/energy data. It computes formation energies against the
//elemental reference states found in the data, distances to the convex
//hull of formation energies (the standard thermodynamic stability
//indicator in materials screening), and plots of binary and ternary
//systems.
//
//The hull itself is never triangulated explicitly. The energy of the
//hull at a given composition is obtained as a small linear program
//(the lowest-energy mixture of the known phases with that overall
//composition), which works in any number of dimensions.

package hull
