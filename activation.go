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

package bulkmicro

import (
	"math"

	"github.com/ctessum/sparse"

	"github.com/spatialmodel/bulkmicro/dsd"
)

const (
	σwater = 0.0728    // N/m, surface tension of water at 20 °C
	mwater = 18.016e-3 // kg/mol, molar mass of water
	runiv  = 8.314     // J/mol/K, universal gas constant
)

// AerosolMode describes one lognormal aerosol mode: a contiguous range
// of chemical species indices [Lo, Hi) in the concentration array,
// the index of its number concentration, and per-species density and
// hygroscopicity coefficients (indexed relative to Lo).
type AerosolMode struct {
	Name string

	Lo, Hi int // species index range, Hi exclusive
	NumIdx int // number concentration index

	Density []float64 // kg/m³ per species
	Kappa   []float64 // hygroscopicity per species

	SigmaG float64 // geometric standard deviation

	// Activates marks the mode as eligible for activation into the
	// in-cloud mode.
	Activates bool
}

// AerosolPopulation couples aerosol mode descriptions to their
// concentration and tendency arrays, both of shape
// (nspecies, nz, ny, nx). Species concentrations are in kg/m³ and
// numbers in 1/m³. InCloud is the index within Modes of the
// destination mode for activated aerosol.
type AerosolPopulation struct {
	Modes   []AerosolMode
	InCloud int

	Conc *sparse.DenseArray // read-only here
	Tend *sparse.DenseArray // accumulator

	// SMax is the prescribed maximum supersaturation (fraction, e.g.
	// 0.002 for 0.2%).
	SMax float64
}

// Activation returns a function that activates aerosol into cloud
// droplets following κ-Köhler theory (Petters and
// Kreidenweis (2007)): within each cloudy cell, the fraction of each
// eligible mode's lognormal spectrum above the critical dry diameter
// is moved from the source mode's tendencies into the in-cloud
// mode's, conserving total aerosol number and mass across modes. It
// is independent of the other processes and may be scheduled before
// or after them.
func Activation(a *AerosolPopulation) ColumnManipulator {
	return func(m *Micro, j, i int) {
		if m.qcbase > m.qcroof {
			return
		}
		dst := &a.Modes[a.InCloud]
		for k := m.qcbase; k <= m.qcroof; k++ {
			if !m.qcmask[m.ix(k, j, i)] {
				continue
			}
			// Temperature from liquid water potential temperature and
			// condensed water.
			T := m.Exnf[k]*m.Thl0.Get(k, j, i) + rlv/cp*m.QL0.Get(k, j, i)
			// Kelvin (curvature) coefficient.
			A := 4. * σwater * mwater / (runiv * T * ρwater)

			for nm := range a.Modes {
				mode := &a.Modes[nm]
				if !mode.Activates {
					continue
				}
				N := a.Conc.Get(mode.NumIdx, k, j, i)
				if N <= 0 {
					continue
				}
				// Abundance-weighted hygroscopicity and mean density.
				var vol, mass, κvol float64
				for s := mode.Lo; s < mode.Hi; s++ {
					ms := a.Conc.Get(s, k, j, i)
					v := ms / mode.Density[s-mode.Lo]
					vol += v
					mass += ms
					κvol += v * mode.Kappa[s-mode.Lo]
				}
				if vol <= 0 || κvol <= 0 {
					continue
				}
				κ := κvol / vol

				// Critical dry diameter from the κ-Köhler
				// supersaturation-diameter relation.
				lnSc := math.Log(1. + a.SMax)
				dcrit := math.Pow(4.*A*A*A/(27.*κ*lnSc*lnSc), 1./3.)

				// Mean number and mass diameters of the mode.
				σ2 := math.Pow(math.Log(mode.SigmaG), 2)
				ρbar := mass / vol
				dnum := math.Pow(6.*mass/(math.Pi*ρbar*N*math.Exp(4.5*σ2)), 1./3.)
				dmass := dnum * math.Exp(3.*σ2)

				lnσ := math.Log(mode.SigmaG)
				fn := 0.5 * dsd.Erfc(math.Log(dcrit/dnum)/(math.Sqrt2*lnσ))
				fm := 0.5 * dsd.Erfc(math.Log(dcrit/dmass)/(math.Sqrt2*lnσ))

				rate := fn * N / m.Δt
				a.Tend.AddVal(-rate, mode.NumIdx, k, j, i)
				a.Tend.AddVal(rate, dst.NumIdx, k, j, i)
				for s := mode.Lo; s < mode.Hi; s++ {
					r := fm * a.Conc.Get(s, k, j, i) / m.Δt
					a.Tend.AddVal(-r, s, k, j, i)
					a.Tend.AddVal(r, dst.Lo+(s-mode.Lo), k, j, i)
				}
			}
		}
	}
}
