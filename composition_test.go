/*
 * composition_test.go, part of gomat.
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

package matter

import (
	"fmt"
	"math"
	"testing"
)

func TestParseComposition(Te *testing.T) {
	comp, err := ParseComposition("LiFePO4")
	if err != nil {
		Te.Error(err)
	}
	for sym, want := range map[string]float64{"Li": 1, "Fe": 1, "P": 1, "O": 4} {
		if got := comp.Amount(sym); math.Abs(got-want) > 1e-10 {
			Te.Errorf("LiFePO4: %s amount %v, wanted %v", sym, got, want)
		}
	}
	if n := comp.NumAtoms(); math.Abs(n-7) > 1e-10 {
		Te.Errorf("LiFePO4: %v atoms, wanted 7", n)
	}
	fmt.Println("LiFePO4 parsed!", comp.String())
}

func TestParseCompositionGroups(Te *testing.T) {
	comp, err := ParseComposition("Ca3(PO4)2")
	if err != nil {
		Te.Error(err)
	}
	if got := comp.Amount("O"); math.Abs(got-8) > 1e-10 {
		Te.Errorf("Ca3(PO4)2: O amount %v, wanted 8", got)
	}
	if got := comp.Amount("P"); math.Abs(got-2) > 1e-10 {
		Te.Errorf("Ca3(PO4)2: P amount %v, wanted 2", got)
	}
	comp, err = ParseComposition("Li0.5Na0.5Cl")
	if err != nil {
		Te.Error(err)
	}
	if got := comp.Fraction("Cl"); math.Abs(got-0.5) > 1e-10 {
		Te.Errorf("Li0.5Na0.5Cl: Cl fraction %v, wanted 0.5", got)
	}
}

func TestParseCompositionErrors(Te *testing.T) {
	for _, bad := range []string{"", "Xx2O", "Li(OH", "Li)O", "li2O", "Li-O"} {
		if _, err := ParseComposition(bad); err == nil {
			Te.Errorf("Parsing %q should have failed", bad)
		}
	}
}

func TestReducedFormula(Te *testing.T) {
	for formula, want := range map[string]string{
		"Li4O2":  "Li2O",
		"Fe2O3":  "Fe2O3",
		"Li8O4":  "Li2O",
		"O":      "O",
		"Li1Fe1": "FeLi",
		"Na2Cl2": "ClNa",
	} {
		comp, err := ParseComposition(formula)
		if err != nil {
			Te.Error(err)
			continue
		}
		if got := comp.ReducedFormula(); got != want {
			Te.Errorf("%s reduced to %q, wanted %q", formula, got, want)
		}
	}
}

func TestElemental(Te *testing.T) {
	comp, err := ParseComposition("O2")
	if err != nil {
		Te.Error(err)
	}
	sym, ok := comp.Elemental()
	if !ok || sym != "O" {
		Te.Errorf("O2 should be elemental O, got %q %v", sym, ok)
	}
	comp, _ = ParseComposition("Li2O")
	if _, ok := comp.Elemental(); ok {
		Te.Error("Li2O should not be elemental")
	}
}

func TestWeight(Te *testing.T) {
	comp, err := ParseComposition("H2O")
	if err != nil {
		Te.Error(err)
	}
	if w := comp.Weight(); math.Abs(w-18.015) > 0.01 {
		Te.Errorf("H2O weighs %v, wanted ~18.015", w)
	}
}
