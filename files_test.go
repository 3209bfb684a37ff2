/*
 * files_test.go, part of gomat.
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

func TestPOSCARIO(Te *testing.T) {
	s, err := POSCARRead("test/POSCAR")
	if err != nil {
		fmt.Println("There was an error!", err.Error())
		Te.Error(err)
		return
	}
	if s.NumSites() != 12 {
		Te.Errorf("Read %d sites from test/POSCAR, wanted 12", s.NumSites())
	}
	comp, err := s.Composition()
	if err != nil {
		Te.Error(err)
	}
	if f := comp.ReducedFormula(); f != "Li2O" {
		Te.Errorf("test/POSCAR reduces to %q, wanted Li2O", f)
	}
	want := 4.61 * 4.61 * 4.61
	if v := s.Volume(); math.Abs(v-want) > 1e-6 {
		Te.Errorf("Volume %v, wanted %v", v, want)
	}
	err = POSCARWrite("test/POSCARIO", s)
	if err != nil {
		Te.Error(err)
	}
	s2, err := StructureRead("test/POSCARIO")
	if err != nil {
		Te.Error(err)
		return
	}
	if math.Abs(s2.Volume()-s.Volume()) > 1e-6 {
		Te.Errorf("Volume changed on rewrite: %v vs %v", s2.Volume(), s.Volume())
	}
	if s2.NumSites() != s.NumSites() {
		Te.Errorf("Site count changed on rewrite: %d vs %d", s2.NumSites(), s.NumSites())
	}
	fmt.Println("POSCAR read and written!")
}

func TestCIFIO(Te *testing.T) {
	s, err := CIFRead("test/sample.cif")
	if err != nil {
		Te.Error(err)
		return
	}
	if s.NumSites() != 8 {
		Te.Errorf("Read %d sites from test/sample.cif, wanted 8", s.NumSites())
	}
	a, b, c, alpha, beta, gamma := LatticeParams(s.Lattice)
	for name, got := range map[string]float64{"a": a, "b": b, "c": c} {
		if math.Abs(got-5.6402) > 1e-4 {
			Te.Errorf("Cell length %s is %v, wanted 5.6402", name, got)
		}
	}
	for name, got := range map[string]float64{"alpha": alpha, "beta": beta, "gamma": gamma} {
		if math.Abs(got-90) > 1e-6 {
			Te.Errorf("Cell angle %s is %v, wanted 90", name, got)
		}
	}
	err = CIFWrite("test/sampleIO.cif", s)
	if err != nil {
		Te.Error(err)
	}
	s2, err := StructureRead("test/sampleIO.cif")
	if err != nil {
		Te.Error(err)
		return
	}
	if math.Abs(s2.Volume()-s.Volume()) > 1e-3 {
		Te.Errorf("Volume changed on rewrite: %v vs %v", s2.Volume(), s.Volume())
	}
	fmt.Println("CIF read and written!")
}

//TestFormatConvert round-trips a structure through the other format and
//checks the cell survives.
func TestFormatConvert(Te *testing.T) {
	s, err := StructureRead("test/POSCAR")
	if err != nil {
		Te.Error(err)
		return
	}
	if err := StructureWrite("test/Li2O.cif", s); err != nil {
		Te.Error(err)
	}
	s2, err := StructureRead("test/Li2O.cif")
	if err != nil {
		Te.Error(err)
		return
	}
	if s2.NumSites() != s.NumSites() {
		Te.Errorf("Site count changed in conversion: %d vs %d", s2.NumSites(), s.NumSites())
	}
	if math.Abs(s2.Volume()-s.Volume()) > 1e-3 {
		Te.Errorf("Volume changed in conversion: %v vs %v", s2.Volume(), s.Volume())
	}
	for i := 0; i < s.NumSites(); i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(s2.Frac.At(i, j)-s.Frac.At(i, j)) > 1e-5 {
				Te.Errorf("Fractional coordinate (%d,%d) changed in conversion", i, j)
			}
		}
	}
}

func TestLatticeParamsRoundTrip(Te *testing.T) {
	//triclinic, nothing special about the numbers
	lat, err := LatticeFromParams(5.1, 6.2, 7.3, 88.0, 95.5, 101.0)
	if err != nil {
		Te.Error(err)
		return
	}
	a, b, c, alpha, beta, gamma := LatticeParams(lat)
	for _, v := range []struct {
		got, want float64
	}{{a, 5.1}, {b, 6.2}, {c, 7.3}, {alpha, 88.0}, {beta, 95.5}, {gamma, 101.0}} {
		if math.Abs(v.got-v.want) > 1e-8 {
			Te.Errorf("Round-tripped cell parameter %v, wanted %v", v.got, v.want)
		}
	}
	if _, err := LatticeFromParams(5, 5, 5, 10, 10, 170); err == nil {
		Te.Error("Impossible cell angles should have failed")
	}
}

func TestCart(Te *testing.T) {
	s, err := POSCARRead("test/POSCAR")
	if err != nil {
		Te.Error(err)
		return
	}
	cart := s.Cart()
	//site 0 is Li at (1/4,1/4,1/4) of a 4.61 Å cube
	for j := 0; j < 3; j++ {
		if math.Abs(cart.At(0, j)-4.61/4) > 1e-6 {
			Te.Errorf("Cartesian coordinate %d of site 0 is %v, wanted %v", j, cart.At(0, j), 4.61/4)
		}
	}
}
