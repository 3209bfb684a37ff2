/*
 * chgnet.go, part of gomat.
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
//In order to use this part of the library you need a CHGNet driver
//program in the path (anything honoring the little protocol described
//below will do; the reference one is a short Python script over the
//chgnet package). Please cite the CHGNet references if you use it.

package relax

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"

	matter "github.com/rmolina/gomat"
	"gopkg.in/yaml.v3"
)

//The name under which the driver is reported in errors.
const CHGNet = "CHGNet"

//CHGNetHandle runs pre-relaxation jobs through an external CHGNet driver
//program. The protocol is file-based: the handle writes NAME.POSCAR and
//NAME.job.yaml, the driver is expected to write NAME.json with the
//results (and whatever relaxed-structure file that JSON points to).
type CHGNetHandle struct {
	command   string
	inputname string
	res       *chgnetResults
}

//chgnetResults mirrors the driver's result JSON.
type chgnetResults struct {
	NormalTermination bool              `json:"normal_termination"`
	EnergyEV          float64           `json:"energy_eV"`
	ForcesEVA         [][]float64       `json:"forces_eVA"`
	RelaxedPOSCAR     string            `json:"relaxed_poscar"`
	MDEnergiesEV      []float64         `json:"md_energies_eV"`
	MDFramesCart      [][]float64       `json:"md_frames_cart"`
	Versions          map[string]string `json:"versions"`
}

//NewCHGNetHandle initializes and returns a CHGNetHandle with the default
//settings.
func NewCHGNetHandle() *CHGNetHandle {
	run := new(CHGNetHandle)
	run.SetDefaults()
	return run
}

//SetDefaults sets the driver command to the contents of $CHGNET_DRIVER,
//or "chgnet-driver" if the variable is empty.
func (O *CHGNetHandle) SetDefaults() {
	O.command = os.Getenv("CHGNET_DRIVER")
	if O.command == "" {
		O.command = "chgnet-driver"
	}
}

//Command returns the driver command.
func (O *CHGNetHandle) Command() string {
	return O.command
}

//SetCommand sets the driver command.
func (O *CHGNetHandle) SetCommand(name string) {
	O.command = name
}

//SetName sets the name for the job, used for all input and output files.
func (O *CHGNetHandle) SetName(name string) {
	O.inputname = name
}

//BuildInput writes the structure and the job settings for the driver.
func (O *CHGNetHandle) BuildInput(s *matter.Structure, Q *Options) error {
	if s == nil || Q == nil {
		return Error{ErrCantInput, CHGNet, O.inputname, "nil structure or options", []string{"BuildInput"}, true}
	}
	if O.inputname == "" {
		O.inputname = "gomat"
	}
	O.res = nil //results from a previous run don't apply anymore
	if err := matter.POSCARWrite(O.inputname+".POSCAR", s); err != nil {
		return Error{ErrCantInput, CHGNet, O.inputname, err.Error(), []string{"matter.POSCARWrite", "BuildInput"}, true}
	}
	job, err := yaml.Marshal(Q)
	if err != nil {
		return Error{ErrCantInput, CHGNet, O.inputname, err.Error(), []string{"yaml.Marshal", "BuildInput"}, true}
	}
	if err := os.WriteFile(O.inputname+".job.yaml", job, 0644); err != nil {
		return Error{ErrCantInput, CHGNet, O.inputname, err.Error(), []string{"os.WriteFile", "BuildInput"}, true}
	}
	return nil
}

//Run runs the driver on the previously built input. It waits or not for
//the results depending on wait. Not waiting works only on
//unix-compatible systems, as it uses sh and nohup.
func (O *CHGNetHandle) Run(wait bool) error {
	com := fmt.Sprintf("%s %s.POSCAR --job %s.job.yaml --out %s.json > %s.out 2>&1",
		O.command, O.inputname, O.inputname, O.inputname, O.inputname)
	var err error
	if wait {
		err = exec.Command("sh", "-c", com).Run()
	} else {
		err = exec.Command("sh", "-c", "nohup "+com).Start()
	}
	if err != nil {
		return Error{ErrNotRunning, CHGNet, O.inputname, err.Error(), []string{"exec.Run/Start", "Run"}, true}
	}
	return nil
}

//readResults parses (and caches) the driver's result file.
func (O *CHGNetHandle) readResults() (*chgnetResults, error) {
	if O.res != nil {
		return O.res, nil
	}
	data, err := os.ReadFile(O.inputname + ".json")
	if err != nil {
		return nil, Error{ErrNoResults, CHGNet, O.inputname, err.Error(), []string{"os.ReadFile", "readResults"}, true}
	}
	res := new(chgnetResults)
	if err := json.Unmarshal(data, res); err != nil {
		return nil, Error{ErrNoResults, CHGNet, O.inputname, err.Error(), []string{"json.Unmarshal", "readResults"}, true}
	}
	if !res.NormalTermination {
		return nil, Error{ErrAbnormal, CHGNet, O.inputname, "", []string{"readResults"}, true}
	}
	O.res = res
	return res, nil
}

//Energy returns the final potential energy of the job, in eV.
func (O *CHGNetHandle) Energy() (float64, error) {
	res, err := O.readResults()
	if err != nil {
		return 0, errDecorate(err, "Energy")
	}
	return res.EnergyEV, nil
}

//MaxForce returns the largest absolute force component left after the
//relaxation, in eV/Å.
func (O *CHGNetHandle) MaxForce() (float64, error) {
	res, err := O.readResults()
	if err != nil {
		return 0, errDecorate(err, "MaxForce")
	}
	if len(res.ForcesEVA) == 0 {
		return 0, Error{ErrNoForces, CHGNet, O.inputname, "", []string{"MaxForce"}, true}
	}
	max := 0.0
	for _, row := range res.ForcesEVA {
		for _, f := range row {
			if a := math.Abs(f); a > max {
				max = a
			}
		}
	}
	return max, nil
}

//OptimizedStructure reads the relaxed structure pointed to by the driver
//results.
func (O *CHGNetHandle) OptimizedStructure() (*matter.Structure, error) {
	res, err := O.readResults()
	if err != nil {
		return nil, errDecorate(err, "OptimizedStructure")
	}
	if res.RelaxedPOSCAR == "" {
		return nil, Error{ErrNoStructure, CHGNet, O.inputname, "", []string{"OptimizedStructure"}, true}
	}
	s, err := matter.POSCARRead(res.RelaxedPOSCAR)
	if err != nil {
		return nil, Error{ErrNoStructure, CHGNet, O.inputname, err.Error(), []string{"matter.POSCARRead", "OptimizedStructure"}, true}
	}
	return s, nil
}

//MDEnergies returns the per-step potential energies of the MD shake
//test, in eV.
func (O *CHGNetHandle) MDEnergies() ([]float64, error) {
	res, err := O.readResults()
	if err != nil {
		return nil, errDecorate(err, "MDEnergies")
	}
	if len(res.MDEnergiesEV) == 0 {
		return nil, Error{ErrNoMD, CHGNet, O.inputname, "", []string{"MDEnergies"}, false}
	}
	return res.MDEnergiesEV, nil
}

//MDFrames returns the sampled cartesian MD frames, one flattened
//(3*natoms) row per sample, if the driver recorded them. This is not
//part of the Handle interface; not every driver can produce frames.
func (O *CHGNetHandle) MDFrames() ([][]float64, error) {
	res, err := O.readResults()
	if err != nil {
		return nil, errDecorate(err, "MDFrames")
	}
	if len(res.MDFramesCart) == 0 {
		return nil, Error{ErrNoMD, CHGNet, O.inputname, "", []string{"MDFrames"}, false}
	}
	return res.MDFramesCart, nil
}

//Versions returns whatever component versions the driver reported
//(driver, potential, backing libraries). Used for provenance.
func (O *CHGNetHandle) Versions() map[string]string {
	res, err := O.readResults()
	if err != nil || res.Versions == nil {
		return map[string]string{}
	}
	return res.Versions
}

//errDecorate asserts that the error implements the decorable interface
//and decorates it with the caller's name before returning it.
func errDecorate(err error, caller string) error {
	err2, ok := err.(interface {
		Error() string
		Decorate(string) []string
	})
	if !ok {
		return fmt.Errorf("%s: %v", caller, err)
	}
	err2.Decorate(caller)
	return err2.(error)
}

var _ Handle = (*CHGNetHandle)(nil)
