/*
Copyright © 2018 the bulkmicro authors.
This file is part of bulkmicro.

bulkmicro is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

bulkmicro is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with bulkmicro.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package bulkmicro computes warm-rain microphysical source terms for a
// two-moment bulk cloud/rain scheme: autoconversion, accretion,
// self-collection and breakup, cloud and rain sedimentation,
// evaporation, and aerosol activation. It is a pure computational
// kernel invoked once per physics step by a host model that supplies
// the current state fields and integrates the accumulated tendencies
// forward in time.
package bulkmicro

import (
	"fmt"
	"io"
	"time"

	"github.com/ctessum/sparse"
	"github.com/gonum/floats"
)

// ShapeFunc derives rain drop-size-distribution parameters for one
// grid column: mean volume diameter dvr [m], gamma slope λ [1/m] and
// gamma shape μ [-] from rain mass qr [kg/kg], rain number nr [1/m³]
// and air density ρ [kg/m³]. Only levels kmin ≤ k ≤ kmax with
// mask[k] set need to be filled. It is called repeatedly within the
// rain sedimentation sub-step loop.
type ShapeFunc func(qr, nr, ρ []float64, mask []bool, kmin, kmax int, dvr, λ, μ []float64)

// Micro holds the state of the microphysics over one model physics
// step. The host-supplied fields are read-only here; all process
// functions communicate exclusively through the tendency accumulators.
// Field arrays are indexed (k, j, i) with k the vertical index and
// k = 0 the surface-adjacent level.
type Micro struct {
	Nz, Ny, Nx int
	Δt         float64 // s

	Nc float64 // 1/m³, fixed cloud droplet number concentration

	// Per-level host profiles.
	Dzf  []float64 // m, layer thicknesses
	Rhof []float64 // kg/m³, air density
	Exnf []float64 // exner function

	// Host-supplied state fields (read-only).
	QL0  *sparse.DenseArray // kg/kg, cloud liquid water mixing ratio
	Qt0  *sparse.DenseArray // kg/kg, total water mixing ratio
	QR   *sparse.DenseArray // kg/kg, rain water mixing ratio
	NR   *sparse.DenseArray // 1/m³, rain number concentration
	Thl0 *sparse.DenseArray // K, liquid water potential temperature
	Tmp0 *sparse.DenseArray // K, absolute temperature
	Qvsl *sparse.DenseArray // kg/kg, saturation mixing ratio over liquid
	Esl  *sparse.DenseArray // Pa, saturation vapor pressure over liquid

	// Tendency accumulators: every process adds its contribution.
	QRp     *sparse.DenseArray // kg/kg/s
	NRp     *sparse.DenseArray // 1/m³/s
	Qtpmcr  *sparse.DenseArray // kg/kg/s
	Thlpmcr *sparse.DenseArray // K/s

	// Rain distribution shape parameters, owned by the Shape
	// collaborator and consumed read-only by the processes.
	Dvr  *sparse.DenseArray // m
	Lbdr *sparse.DenseArray // 1/m
	Mur  *sparse.DenseArray // -

	// Precep is the rain sedimentation flux diagnostic
	// [kg/kg · m/s], set once per step.
	Precep *sparse.DenseArray

	// Shape derives the rain distribution parameters from mass and
	// number; it must be set before calling Step.
	Shape ShapeFunc

	// Per-cell activity masks and vertical bounds of the active
	// regions. base > roof means the field is empty everywhere.
	qrmask, qcmask                 []bool
	qrbase, qrroof, qcbase, qcroof int
}

// NewMicro allocates the state for a domain with nz vertical levels
// and ny×nx columns, and physics time step Δt [s]. The host fields
// must be filled by the caller before stepping.
func NewMicro(nz, ny, nx int, Δt float64) *Micro {
	m := &Micro{
		Nz: nz, Ny: ny, Nx: nx,
		Δt:     Δt,
		Dzf:    make([]float64, nz),
		Rhof:   make([]float64, nz),
		Exnf:   make([]float64, nz),
		qrmask: make([]bool, nz*ny*nx),
		qcmask: make([]bool, nz*ny*nx),
	}
	for _, a := range []**sparse.DenseArray{
		&m.QL0, &m.Qt0, &m.QR, &m.NR, &m.Thl0, &m.Tmp0, &m.Qvsl, &m.Esl,
		&m.QRp, &m.NRp, &m.Qtpmcr, &m.Thlpmcr,
		&m.Dvr, &m.Lbdr, &m.Mur, &m.Precep,
	} {
		*a = sparse.ZerosDense(nz, ny, nx)
	}
	return m
}

// ix returns the flat index of cell (k, j, i) in the activity masks.
func (m *Micro) ix(k, j, i int) int {
	return (k*m.Ny+j)*m.Nx + i
}

// ResetTendencies zeroes the tendency accumulators. The host calls
// this (or zeroes the fields itself) before each physics step.
func (m *Micro) ResetTendencies() {
	for _, a := range []*sparse.DenseArray{m.QRp, m.NRp, m.Qtpmcr, m.Thlpmcr} {
		for i := range a.Elements {
			a.Elements[i] = 0
		}
	}
}

// Calculations returns a function that concurrently runs a series of
// process calculations on all grid columns. Columns are independent,
// so each is handled by its own goroutine; within a column the
// processes run in the order given.
func Calculations(procs ...ColumnManipulator) DomainManipulator {
	return func(m *Micro) error {
		type empty struct{}
		sem := make(chan empty, m.Ny) // semaphore pattern
		for j := 0; j < m.Ny; j++ {
			go func(j int) { // concurrent processing
				for i := 0; i < m.Nx; i++ {
					for _, p := range procs {
						p(m, j, i)
					}
				}
				sem <- empty{}
			}(j)
		}
		for j := 0; j < m.Ny; j++ {
			<-sem
		}
		return nil
	}
}

// deriveShape fills the rain distribution parameter fields for one
// column from the current prognostic state.
func deriveShape() ColumnManipulator {
	return func(m *Micro, j, i int) {
		if m.qrbase > m.qrroof {
			return
		}
		nz := m.Nz
		qr := make([]float64, nz)
		nr := make([]float64, nz)
		mask := make([]bool, nz)
		dvr := make([]float64, nz)
		λ := make([]float64, nz)
		μ := make([]float64, nz)
		for k := m.qrbase; k <= m.qrroof; k++ {
			qr[k] = m.QR.Get(k, j, i)
			nr[k] = m.NR.Get(k, j, i)
			mask[k] = m.qrmask[m.ix(k, j, i)]
		}
		m.Shape(qr, nr, m.Rhof, mask, m.qrbase, m.qrroof, dvr, λ, μ)
		for k := m.qrbase; k <= m.qrroof; k++ {
			m.Dvr.Set(dvr[k], k, j, i)
			m.Lbdr.Set(λ[k], k, j, i)
			m.Mur.Set(μ[k], k, j, i)
		}
	}
}

// Step runs one microphysics step with the given closure scheme,
// accumulating into the tendency fields. The process order is
// autoconversion, accretion, cloud sedimentation, rain sedimentation,
// evaporation.
func (m *Micro) Step(s Scheme) error {
	if m.Shape == nil {
		return fmt.Errorf("bulkmicro: Shape collaborator is not set")
	}
	m.UpdateActiveRegion()
	return Calculations(
		deriveShape(),
		s.Autoconversion(),
		s.Accretion(),
		CloudSedimentation(),
		s.RainSedimentation(),
		s.Evaporation(),
	)(m)
}

// Log writes step status messages to w.
func Log(w io.Writer) DomainManipulator {
	startTime := time.Now()
	iteration := 0
	return func(m *Micro) error {
		iteration++
		fmt.Fprintf(w, "Step %-4d  walltime=%6.3gs  Σprecep=%.4g  Σqrp=%.4g\n",
			iteration, time.Since(startTime).Seconds(),
			floats.Sum(m.Precep.Elements), floats.Sum(m.QRp.Elements))
		return nil
	}
}
