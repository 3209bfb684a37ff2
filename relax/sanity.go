/*
 * sanity.go, part of gomat.
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

package relax

import "fmt"

//DefaultDriftTol is the default MD energy drift threshold, in meV/atom,
//over the whole shake test.
const DefaultDriftTol = 2.5

//SanitySummary collects the quick checks made on a finished job. A
//flagged summary means the relaxed structure should not be trusted
//without a closer look; the Reasons say why.
type SanitySummary struct {
	MaxForce float64  `json:"max_force_eVA"`
	Energy   float64  `json:"energy_eV"`
	MDSteps  int      `json:"md_steps"`
	MDDrift  *float64 `json:"md_energy_drift_meV_per_atom"` //nil when no MD was run
	Flagged  bool     `json:"flagged"`
	Reasons  []string `json:"reasons"`
}

//Sanity builds the sanity summary for a finished job. mdEnergies may be
//nil or short if no shake test ran; the drift is only reported with at
//least two samples. driftTol is in meV/atom; a non-positive value means
//DefaultDriftTol.
func Sanity(Q *Options, energy, maxForce float64, mdEnergies []float64, natoms int, driftTol float64) *SanitySummary {
	if driftTol <= 0 {
		driftTol = DefaultDriftTol
	}
	s := &SanitySummary{
		MaxForce: maxForce,
		Energy:   energy,
		MDSteps:  Q.MDSteps,
		Reasons:  []string{},
	}
	//A relaxation that "converged" but left forces well above fmax means
	//the optimizer bailed out, or the driver lied.
	if maxForce > maxf(0.1, Q.FMax*2) {
		s.Flagged = true
		s.Reasons = append(s.Reasons, fmt.Sprintf("High max force after relax: %.3f eV/Å", maxForce))
	}
	if len(mdEnergies) >= 2 && natoms > 0 {
		drift := 1000.0 * (mdEnergies[len(mdEnergies)-1] - mdEnergies[0]) / float64(natoms)
		s.MDDrift = &drift
		if drift > driftTol || drift < -driftTol {
			s.Flagged = true
			s.Reasons = append(s.Reasons, fmt.Sprintf("MD energy drift %.2f meV/atom exceeds threshold %.2f", drift, driftTol))
		}
	}
	return s
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
