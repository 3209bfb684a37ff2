/*
 * hull.go, part of gomat.
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

package hull

import (
	"fmt"
	"sort"

	matter "github.com/rmolina/gomat"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

//StableTol is the distance to the hull (eV/atom) under which an entry is
//considered to sit on the hull. It absorbs the tolerance of the LP solver.
const StableTol = 1e-6

//Entry is one composition/energy data point.
type Entry struct {
	Comp  *matter.Composition
	EPA   float64 //total energy per atom, eV
	Label string
	Raw   string            //the composition string as it appeared in the input, if any
	Extra map[string]string //any other input columns, carried through to the results
}

//NewEntry builds an entry from a formula string and an energy per atom.
func NewEntry(formula string, epa float64, label string) (*Entry, error) {
	comp, err := matter.ParseComposition(formula)
	if err != nil {
		return nil, err
	}
	return &Entry{Comp: comp, EPA: epa, Label: label, Raw: formula}, nil
}

//PhaseDiagram holds a set of entries, the elemental reference energies
//found among them, and the formation energy of each entry.
type PhaseDiagram struct {
	entries []*Entry
	elems   []string
	refs    map[string]float64 //element -> lowest elemental energy per atom, eV
	fe      []float64          //formation energy per atom for each entry, eV
}

//NewPhaseDiagram builds a phase diagram from the given entries. Every
//element appearing in any entry must also appear as a pure-element entry,
//which provides its reference energy (the lowest one, if several).
func NewPhaseDiagram(entries []*Entry) (*PhaseDiagram, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("NewPhaseDiagram: No entries given")
	}
	pd := &PhaseDiagram{entries: entries, refs: make(map[string]float64)}
	elemset := make(map[string]bool)
	for _, e := range entries {
		for _, sym := range e.Comp.Elements() {
			elemset[sym] = true
		}
		if sym, ok := e.Comp.Elemental(); ok {
			ref, seen := pd.refs[sym]
			if !seen || e.EPA < ref {
				pd.refs[sym] = e.EPA
			}
		}
	}
	for sym := range elemset {
		pd.elems = append(pd.elems, sym)
		if _, ok := pd.refs[sym]; !ok {
			return nil, fmt.Errorf("NewPhaseDiagram: No elemental reference entry for %s", sym)
		}
	}
	sort.Strings(pd.elems)
	pd.fe = make([]float64, len(entries))
	for i, e := range entries {
		fe, err := pd.FormationEnergy(e)
		if err != nil {
			return nil, err
		}
		pd.fe[i] = fe
	}
	return pd, nil
}

//Elements returns the elements spanned by the diagram, in alphabetical
//order.
func (pd *PhaseDiagram) Elements() []string {
	return pd.elems
}

//Entries returns the entries the diagram was built from, in input order.
func (pd *PhaseDiagram) Entries() []*Entry {
	return pd.entries
}

//FormationEnergy returns the formation energy per atom of e with respect
//to the diagram's elemental references, in eV/atom. The entry need not be
//one of the diagram's own entries, but its elements must be covered.
func (pd *PhaseDiagram) FormationEnergy(e *Entry) (float64, error) {
	fe := e.EPA
	for _, sym := range e.Comp.Elements() {
		ref, ok := pd.refs[sym]
		if !ok {
			return 0, fmt.Errorf("FormationEnergy: Element %s of %s not in the diagram", sym, e.Comp)
		}
		fe -= e.Comp.Fraction(sym) * ref
	}
	return fe, nil
}

//HullEnergy returns the formation energy per atom of the convex hull at
//the given composition, in eV/atom. It is obtained as the lowest-energy
//barycentric mixture of the diagram's entries with that overall
//composition, solved as a linear program.
func (pd *PhaseDiagram) HullEnergy(comp *matter.Composition) (float64, error) {
	for _, sym := range comp.Elements() {
		if _, ok := pd.refs[sym]; !ok {
			return 0, fmt.Errorf("HullEnergy: Element %s not in the diagram", sym)
		}
	}
	n := len(pd.entries)
	k := len(pd.elems)
	//One balance row per element except the last (their fractions are not
	//independent) plus the normalization row. Variables are the mixing
	//weights, one per entry, constrained to x>=0 by the solver.
	rows := k
	data := make([]float64, 0, rows*n)
	b := make([]float64, 0, rows)
	for _, sym := range pd.elems[:k-1] {
		for _, e := range pd.entries {
			data = append(data, e.Comp.Fraction(sym))
		}
		b = append(b, comp.Fraction(sym))
	}
	for range pd.entries {
		data = append(data, 1)
	}
	b = append(b, 1)
	A := mat.NewDense(rows, n, data)
	c := make([]float64, n)
	copy(c, pd.fe)
	opt, _, err := lp.Simplex(c, A, b, 1e-10, nil)
	if err != nil {
		return 0, fmt.Errorf("HullEnergy: LP for %s failed: %v", comp, err)
	}
	return opt, nil
}

//DistanceToHull returns how far above the hull the entry's formation
//energy lies, in eV/atom. Entries on the hull report (numerically) zero;
//the value is never meaningfully negative since the entry itself is an
//admissible one-phase mixture.
func (pd *PhaseDiagram) DistanceToHull(e *Entry) (float64, error) {
	fe, err := pd.FormationEnergy(e)
	if err != nil {
		return 0, err
	}
	he, err := pd.HullEnergy(e.Comp)
	if err != nil {
		return 0, err
	}
	d := fe - he
	if d < 0 {
		d = 0 //LP tolerance noise
	}
	return d, nil
}

//Stable reports whether the entry sits on the hull, within StableTol.
func (pd *PhaseDiagram) Stable(e *Entry) (bool, error) {
	d, err := pd.DistanceToHull(e)
	if err != nil {
		return false, err
	}
	return d <= StableTol, nil
}

//Analyze computes the formation energy and distance to the hull of every
//entry of the diagram, in input order.
func (pd *PhaseDiagram) Analyze() (formation, distance []float64, err error) {
	formation = make([]float64, len(pd.entries))
	distance = make([]float64, len(pd.entries))
	copy(formation, pd.fe)
	for i, e := range pd.entries {
		distance[i], err = pd.DistanceToHull(e)
		if err != nil {
			return nil, nil, err
		}
	}
	return formation, distance, nil
}
