/*
 * traj.go, part of gomat.
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

//Shake-test trajectories are written in a small zstd-compressed text
//format: a header with the atom count, then one block per sampled frame
//with the step number, the potential energy, and the cartesian
//coordinates. Plain text compresses well enough here, and anything can
//read it back.

package relax

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

//TrajW writes a shake-test trajectory.
type TrajW struct {
	f         *os.File
	h         io.WriteCloser
	natoms    int
	filename  string
	writeable bool
}

//NewTrajWriter creates a trajectory file with the given number of atoms
//per frame. The optional header map is written as key=value lines before
//the atom count.
func NewTrajWriter(name string, natoms int, header map[string]string) (*TrajW, error) {
	if natoms <= 0 {
		return nil, Error{"relax: Trajectory needs a positive atom count", CHGNet, name, "", []string{"NewTrajWriter"}, true}
	}
	T := new(TrajW)
	var err error
	T.f, err = os.Create(name)
	if err != nil {
		return nil, err
	}
	T.h, err = zstd.NewWriter(T.f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		T.f.Close()
		return nil, err
	}
	T.natoms = natoms
	T.filename = name
	T.writeable = true
	for k, v := range header {
		fmt.Fprintf(T.h, "%s=%v\n", k, v)
	}
	fmt.Fprintf(T.h, "** %d\n", natoms)
	return T, nil
}

//Len returns the number of atoms per frame.
func (T *TrajW) Len() int {
	return T.natoms
}

//WNext writes the next frame: the MD step it was sampled at, its
//potential energy (eV) and the flattened (3*natoms) cartesian
//coordinates, in Å.
func (T *TrajW) WNext(step int, energy float64, syms []string, cart []float64) error {
	if !T.writeable {
		return Error{"relax: Trajectory not open for writing", CHGNet, T.filename, "", []string{"WNext"}, true}
	}
	if len(syms) != T.natoms || len(cart) != T.natoms*3 {
		return Error{fmt.Sprintf("relax: Frame with %d symbols and %d coordinates, expected %d atoms", len(syms), len(cart), T.natoms),
			CHGNet, T.filename, "", []string{"WNext"}, true}
	}
	fmt.Fprintf(T.h, "# step %d energy_eV %.8f\n", step, energy)
	for i := 0; i < T.natoms; i++ {
		fmt.Fprintf(T.h, "%-2s %10.5f %10.5f %10.5f\n", syms[i], cart[i*3], cart[i*3+1], cart[i*3+2])
	}
	_, err := fmt.Fprint(T.h, "*\n")
	return err
}

//Close flushes and closes the trajectory. The writer can't be used
//afterwards.
func (T *TrajW) Close() {
	if T == nil || !T.writeable {
		return
	}
	T.h.Close()
	T.f.Close()
	T.writeable = false
}

//TrajEnergies reads back the per-frame energies of a trajectory file.
//Mostly a convenience for tests and quick checks.
func TrajEnergies(name string) ([]float64, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	var energies []float64
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "# step ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			return nil, Error{"relax: Ill-formed frame header: " + line, CHGNet, name, "", []string{"TrajEnergies"}, true}
		}
		e, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, Error{"relax: Bad energy in frame header", CHGNet, name, err.Error(), []string{"TrajEnergies"}, true}
		}
		energies = append(energies, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return energies, nil
}
