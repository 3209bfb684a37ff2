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

//Package relax implements communication with external machine-learned
//interatomic potential programs for structure pre-relaxation and short
//molecular-dynamics shake tests, in such a way that the job settings are
//as separated as possible from the choice of program performing them.
//
//The heavy lifting (energy/force evaluation, minimization, MD
//integration) happens entirely inside the external program. This package
//builds its input files, runs it, and parses the results back, plus
//basic sanity checks and provenance records over those results.

package relax
