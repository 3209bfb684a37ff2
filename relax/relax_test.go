/*
 * relax_test.go, part of gomat.
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

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	matter "github.com/rmolina/gomat"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestBuildInput(t *testing.T) {
	s, err := matter.POSCARRead("../test/POSCAR")
	require.NoError(t, err)
	name := filepath.Join(t.TempDir(), "job")
	opts := new(Options)
	opts.SetDefaults()
	opts.MDSteps = 50
	h := NewCHGNetHandle()
	h.SetName(name)
	require.NoError(t, h.BuildInput(s, opts))

	s2, err := matter.POSCARRead(name + ".POSCAR")
	require.NoError(t, err)
	require.Equal(t, s.NumSites(), s2.NumSites())

	data, err := os.ReadFile(name + ".job.yaml")
	require.NoError(t, err)
	back := new(Options)
	require.NoError(t, yaml.Unmarshal(data, back))
	require.Equal(t, opts, back)

	require.Error(t, h.BuildInput(nil, opts))
}

//writeFakeResults plays the part of the driver: it drops a result JSON
//where the handle will look for it.
func writeFakeResults(t *testing.T, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(name+".json", []byte(body), 0644))
}

const goodResults = `{
  "normal_termination": true,
  "energy_eV": -56.123456,
  "forces_eVA": [[0.010, -0.020, 0.005], [0.080, 0.0, 0.0], [0.0, 0.001, -0.003]],
  "relaxed_poscar": "../test/POSCAR",
  "md_energies_eV": [-56.12, -56.118, -56.121],
  "versions": {"chgnet": "0.3.8", "driver": "0.2"}
}`

func TestDriverResults(t *testing.T) {
	name := filepath.Join(t.TempDir(), "job")
	writeFakeResults(t, name, goodResults)
	h := NewCHGNetHandle()
	h.SetName(name)

	e, err := h.Energy()
	require.NoError(t, err)
	require.InDelta(t, -56.123456, e, 1e-10)

	mf, err := h.MaxForce()
	require.NoError(t, err)
	require.InDelta(t, 0.080, mf, 1e-10)

	s, err := h.OptimizedStructure()
	require.NoError(t, err)
	require.Equal(t, 12, s.NumSites())

	md, err := h.MDEnergies()
	require.NoError(t, err)
	require.Len(t, md, 3)

	require.Equal(t, "0.3.8", h.Versions()["chgnet"])
}

func TestAbnormalTermination(t *testing.T) {
	name := filepath.Join(t.TempDir(), "job")
	writeFakeResults(t, name, `{"normal_termination": false}`)
	h := NewCHGNetHandle()
	h.SetName(name)
	_, err := h.Energy()
	require.Error(t, err)
	rerr, ok := err.(Error)
	require.True(t, ok)
	require.True(t, rerr.Critical())
	require.Contains(t, rerr.Decorate(""), "readResults")
}

func TestMissingResults(t *testing.T) {
	h := NewCHGNetHandle()
	h.SetName(filepath.Join(t.TempDir(), "nothing_here"))
	_, err := h.Energy()
	require.Error(t, err)
	_, err = h.MDEnergies()
	require.Error(t, err)
}

func TestNoMD(t *testing.T) {
	name := filepath.Join(t.TempDir(), "job")
	writeFakeResults(t, name, `{"normal_termination": true, "energy_eV": -1.0,
		"forces_eVA": [[0.0, 0.0, 0.0]], "relaxed_poscar": "../test/POSCAR"}`)
	h := NewCHGNetHandle()
	h.SetName(name)
	_, err := h.MDEnergies()
	require.Error(t, err)
	rerr, ok := err.(Error)
	require.True(t, ok)
	require.False(t, rerr.Critical()) //a job without a shake test is still a valid job
}

func TestSanity(t *testing.T) {
	opts := new(Options)
	opts.SetDefaults()

	s := Sanity(opts, -56.1, 0.04, nil, 12, 0)
	require.False(t, s.Flagged)
	require.Nil(t, s.MDDrift)
	require.Empty(t, s.Reasons)

	//forces above max(0.1, 2*fmax)
	s = Sanity(opts, -56.1, 0.5, nil, 12, 0)
	require.True(t, s.Flagged)
	require.Contains(t, s.Reasons[0], "max force")

	//10 meV/atom of MD drift on 10 atoms
	s = Sanity(opts, -56.1, 0.04, []float64{-50.0, -49.95, -49.9}, 10, 0)
	require.True(t, s.Flagged)
	require.NotNil(t, s.MDDrift)
	require.InDelta(t, 10.0, *s.MDDrift, 1e-8)

	//same drift, laxer threshold
	s = Sanity(opts, -56.1, 0.04, []float64{-50.0, -49.95, -49.9}, 10, 20.0)
	require.False(t, s.Flagged)

	//negative drift flags too
	s = Sanity(opts, -56.1, 0.04, []float64{-49.9, -50.0}, 10, 0)
	require.True(t, s.Flagged)
}

func TestTrajRoundTrip(t *testing.T) {
	name := filepath.Join(t.TempDir(), "md.traj.zst")
	w, err := NewTrajWriter(name, 2, map[string]string{"system": "LiH"})
	require.NoError(t, err)
	syms := []string{"Li", "H"}
	require.NoError(t, w.WNext(0, -3.5, syms, []float64{0, 0, 0, 1.6, 0, 0}))
	require.NoError(t, w.WNext(10, -3.45, syms, []float64{0.01, 0, 0, 1.59, 0.02, 0}))
	require.Error(t, w.WNext(20, -3.4, syms, []float64{0, 0, 0})) //short frame
	w.Close()
	require.Error(t, w.WNext(30, -3.4, syms, []float64{0, 0, 0, 1.6, 0, 0}))

	energies, err := TrajEnergies(name)
	require.NoError(t, err)
	require.Equal(t, []float64{-3.5, -3.45}, energies)
}

func TestProvenance(t *testing.T) {
	opts := new(Options)
	opts.SetDefaults()
	p := NewProvenance("in.POSCAR", []string{"gorelax", "in.POSCAR"}, opts, map[string]string{"chgnet": "0.3.8"})
	require.NotEmpty(t, p.RunID)
	require.Equal(t, matter.Version, p.Versions["gomat"])
	require.Equal(t, "0.3.8", p.Versions["chgnet"])
	p.AddOutput("relaxed_cif", "runs/out/relaxed.cif")

	path := filepath.Join(t.TempDir(), "provenance.json")
	require.NoError(t, WriteJSON(p, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	back := new(Provenance)
	require.NoError(t, json.Unmarshal(data, back))
	require.Equal(t, p.RunID, back.RunID)
	require.Equal(t, "runs/out/relaxed.cif", back.Outputs["relaxed_cif"])
}
