/*
 * relax.go, part of gomat.
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
	"fmt"

	matter "github.com/rmolina/gomat"
)

//Handle allows running pre-relaxation jobs with different external
//potential drivers while keeping the job settings program-independent.
type Handle interface {

	//Sets the name for the job, used for input and output files.
	SetName(name string)

	//BuildInput builds the input files for the driver from the structure
	//and the job options. Returns only error.
	BuildInput(s *matter.Structure, Q *Options) error

	//Run runs the driver for a job previously set up. It waits or not
	//for the results depending on the value of wait.
	Run(wait bool) error

	//Energy gets the final potential energy of the relaxed structure, in
	//eV, by parsing the driver's results. Returns error if fail.
	Energy() (float64, error)

	//MaxForce returns the largest absolute force component left after
	//relaxation, in eV/Å.
	MaxForce() (float64, error)

	//OptimizedStructure reads the relaxed structure from the driver's
	//results.
	OptimizedStructure() (*matter.Structure, error)

	//MDEnergies returns the per-step potential energies of the MD shake
	//test, in eV, or an error if no MD was run.
	MDEnergies() ([]float64, error)
}

//Options holds the settings for a pre-relaxation job. They are
//driver-independent; each handle translates them to its own program.
type Options struct {
	FMax         float64  `yaml:"fmax" json:"fmax"`                         //force convergence, eV/Å
	MDSteps      int      `yaml:"md_steps" json:"md_steps"`                 //0 skips the shake test
	MDTimestepFs float64  `yaml:"md_timestep_fs" json:"md_timestep_fs"`     //fs
	MDTempK      float64  `yaml:"md_temperature_K" json:"md_temperature_K"` //K
	Seed         int      `yaml:"seed" json:"seed"`                         //for the initial velocities
	Extra        []string `yaml:"extra,omitempty" json:"extra,omitempty"`   //free-form extra driver arguments
}

//SetDefaults sets the default job settings. Note that the defaults are
//NOT considered part of the API and can change.
func (Q *Options) SetDefaults() {
	Q.FMax = 0.05
	Q.MDSteps = 0
	Q.MDTimestepFs = 1.0
	Q.MDTempK = 300.0
	Q.Seed = 42
}

//Errors

//Error messages.
const (
	ErrCantInput   = "relax: Can't build the input files for the driver"
	ErrNotRunning  = "relax: Driver didn't run or exited abnormally"
	ErrNoResults   = "relax: Can't read the driver results"
	ErrAbnormal    = "relax: Driver reported abnormal termination"
	ErrNoEnergy    = "relax: No energy in the driver results"
	ErrNoForces    = "relax: No forces in the driver results"
	ErrNoStructure = "relax: No relaxed structure in the driver results"
	ErrNoMD        = "relax: No MD data in the driver results"
)

//Error is the error type for the relax package, implementing
//matter-style decoration: info can be added as the error goes up the
//call stack, without wrapping.
type Error struct {
	message  string
	driver   string //the driver program concerned
	job      string //the job (input name) concerned
	extra    string //any additional info
	deco     []string
	critical bool
}

//Error returns a string with an error message.
func (err Error) Error() string {
	s := fmt.Sprintf("%s. Driver: %s, Job: %s", err.message, err.driver, err.job)
	if err.extra != "" {
		s = s + ". " + err.extra
	}
	return s
}

//Decorate adds the dec string to the decoration slice of strings of the
//error and returns the resulting slice. An empty dec only returns the
//current decoration.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error is critical or can be ignored.
func (err Error) Critical() bool { return err.critical }
