/*
 * hull_test.go, part of gomat.
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
	"os"
	"path/filepath"
	"strings"
	"testing"

	matter "github.com/rmolina/gomat"
	"github.com/stretchr/testify/require"
)

//The test/entries.csv fixture is a Li-O system built so the results are
//known in closed form: Li, O and Li2O (Ef=-2.0 eV/atom) lie on the hull,
//fcc Li sits 0.1 eV/atom above the Li reference and LiO2 (Ef=-0.5) sits
//0.5 eV/atom above the Li2O--O tie line.
func readLiO(t *testing.T) *PhaseDiagram {
	entries, err := ReadEntriesCSV("../test/entries.csv")
	require.NoError(t, err)
	pd, err := NewPhaseDiagram(entries)
	require.NoError(t, err)
	return pd
}

func TestPhaseDiagramLiO(t *testing.T) {
	pd := readLiO(t)
	require.Equal(t, []string{"Li", "O"}, pd.Elements())
	formation, distance, err := pd.Analyze()
	require.NoError(t, err)
	require.Len(t, formation, 5)

	require.InDelta(t, 0.0, formation[0], 1e-8)  //Li bcc reference
	require.InDelta(t, 0.1, formation[1], 1e-8)  //Li fcc
	require.InDelta(t, 0.0, formation[2], 1e-8)  //O reference
	require.InDelta(t, -2.0, formation[3], 1e-5) //Li2O
	require.InDelta(t, -0.5, formation[4], 1e-5) //LiO2

	require.InDelta(t, 0.0, distance[0], 1e-8)
	require.InDelta(t, 0.1, distance[1], 1e-6)
	require.InDelta(t, 0.0, distance[3], 1e-5)
	require.InDelta(t, 0.5, distance[4], 1e-4)
}

func TestStable(t *testing.T) {
	pd := readLiO(t)
	entries := pd.Entries()
	for i, want := range []bool{true, false, true} {
		got, err := pd.Stable(entries[i])
		require.NoError(t, err)
		require.Equal(t, want, got, "entry %d (%s)", i, entries[i].Raw)
	}
}

//TestHullEnergyInterpolated queries the hull at a composition that is not
//among the entries: at Li3O the hull is the Li--Li2O tie line, which gives
//(1/4)/(1/3) of Li2O's -2.0 eV/atom.
func TestHullEnergyInterpolated(t *testing.T) {
	pd := readLiO(t)
	comp, err := matter.ParseComposition("Li3O")
	require.NoError(t, err)
	he, err := pd.HullEnergy(comp)
	require.NoError(t, err)
	require.InDelta(t, -1.5, he, 1e-5)
}

func TestMissingReference(t *testing.T) {
	li2o, err := NewEntry("Li2O", -4.9, "")
	require.NoError(t, err)
	li, err := NewEntry("Li", -1.9, "")
	require.NoError(t, err)
	_, err = NewPhaseDiagram([]*Entry{li2o, li})
	require.Error(t, err)
	require.Contains(t, err.Error(), "O")
}

func TestFormationEnergyOutsideDiagram(t *testing.T) {
	pd := readLiO(t)
	fe2o3, err := NewEntry("Fe2O3", -7.1, "")
	require.NoError(t, err)
	_, err = pd.FormationEnergy(fe2o3)
	require.Error(t, err)
	_, err = pd.DistanceToHull(fe2o3)
	require.Error(t, err)
}

func TestWriteResultsCSV(t *testing.T) {
	pd := readLiO(t)
	formation, distance, err := pd.Analyze()
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "hull_results.csv")
	err = WriteResultsCSV(out, pd.Entries(), formation, distance)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 6) //header plus one row per entry
	require.Equal(t, "composition,energy_per_atom_eV,label,formation_energy_per_atom_eV,distance_to_hull_eV", lines[0])
	require.True(t, strings.HasPrefix(lines[4], "Li2O,-4.916667,lithia,-2.000000,0.000000"), "got %q", lines[4])

	//the written file is itself valid input
	back, err := ReadEntriesCSV(out)
	require.NoError(t, err)
	require.Len(t, back, 5)
	require.Equal(t, "lithia", back[3].Label)
}

//TestExtraColumnsCarried checks that input columns other than the three
//known ones survive into the results file, values intact.
func TestExtraColumnsCarried(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	content := "composition,source,energy_per_atom_eV,icsd_id\n" +
		"Li,mp,-1.9,101\n" +
		"O,mp,-4.95,102\n" +
		"Li2O,expt,-4.916667,103\n"
	require.NoError(t, os.WriteFile(in, []byte(content), 0644))
	entries, err := ReadEntriesCSV(in)
	require.NoError(t, err)
	require.Equal(t, "expt", entries[2].Extra["source"])
	require.Equal(t, "103", entries[2].Extra["icsd_id"])

	pd, err := NewPhaseDiagram(entries)
	require.NoError(t, err)
	formation, distance, err := pd.Analyze()
	require.NoError(t, err)
	out := filepath.Join(dir, "out.csv")
	require.NoError(t, WriteResultsCSV(out, entries, formation, distance))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Equal(t, "composition,energy_per_atom_eV,label,icsd_id,source,formation_energy_per_atom_eV,distance_to_hull_eV", lines[0])
	require.True(t, strings.HasPrefix(lines[3], "Li2O,-4.916667,,103,expt,"), "got %q", lines[3])
}

func TestReadEntriesCSVErrors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"nocol.csv":  "composition,label\nLi,foo\n",
		"badnum.csv": "composition,energy_per_atom_eV\nLi,not-a-number\n",
		"badsym.csv": "composition,energy_per_atom_eV\nXx2O,-1.0\n",
		"empty.csv":  "composition,energy_per_atom_eV\n",
	}
	for name, content := range cases {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		_, err := ReadEntriesCSV(path)
		require.Error(t, err, name)
	}
}
