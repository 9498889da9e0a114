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

	"github.com/ctessum/atmos/advect"

	"github.com/spatialmodel/bulkmicro/dsd"
)

// Stokes fall speed coefficient for cloud droplets [m⁻¹s⁻¹]
// (Rogers and Yau (1989) ch. 8, in terms of radius).
const cStokes = 1.19e8

// CloudSedimentation returns a function that settles cloud water with
// a single analytic flux step, assuming a lognormal droplet spectrum
// with fixed geometric standard deviation and fixed droplet number.
// The column conserves mass except at the domain floor, which deposits
// to the surface.
func CloudSedimentation() ColumnManipulator {
	// Flux coefficient: Stokes settling of the 5/3 moment of a
	// lognormal spectrum.
	csed := cStokes * math.Pow(3./(4.*math.Pi*ρwater), 2./3.) *
		math.Exp(5.*σ2Cloud)
	return func(m *Micro, j, i int) {
		if m.qcbase > m.qcroof {
			return
		}
		sedc := make([]float64, m.Nz) // kg/m²/s
		for k := m.qcbase; k <= m.qcroof; k++ {
			if !m.qcmask[m.ix(k, j, i)] {
				continue
			}
			ql := m.QL0.Get(k, j, i)
			sedc[k] = csed * math.Pow(m.Nc, -2./3.) *
				math.Pow(ql*m.Rhof[k], 5./3.)
		}
		// Apply the flux divergence from a buffer so the debit at k
		// and the credit at k-1 come from the same snapshot.
		for k := m.qcbase; k <= m.qcroof; k++ {
			if sedc[k] == 0 {
				continue
			}
			rate := sedc[k] / (m.Dzf[k] * m.Rhof[k])
			m.Qtpmcr.AddVal(-rate, k, j, i)
			m.Thlpmcr.AddVal(rlv/(cp*m.Exnf[k])*rate, k, j, i)
			if k > 0 {
				gain := sedc[k] / (m.Dzf[k-1] * m.Rhof[k-1])
				m.Qtpmcr.AddVal(gain, k-1, j, i)
				m.Thlpmcr.AddVal(-rlv/(cp*m.Exnf[k-1])*gain, k-1, j, i)
			}
		}
	}
}

// fallSpeeds computes per-level mass- and number-weighted rain fall
// speeds wq and wn [m/s] for one column from the working state.
type fallSpeeds func(qr, nr, dvr, λ, μ, ρ []float64, mask []bool, kmin, kmax int, wq, wn []float64)

// gammaSpeeds is the gamma-distribution terminal velocity
// parameterization of Seifert and Beheng (2001) eq. 34: the
// exponential velocity kernel integrated over the gamma spectrum
// saturates for large mean diameter and vanishes for small.
func gammaSpeeds(qr, nr, dvr, λ, μ, ρ []float64, mask []bool, kmin, kmax int, wq, wn []float64) {
	for k := kmin; k <= kmax; k++ {
		wq[k], wn[k] = 0, 0
		if !mask[k] {
			continue
		}
		wq[k] = math.Max(0., aTv-bTv*math.Pow(1.+cTv/λ[k], -(μ[k]+4.)))
		wn[k] = math.Max(0., aTv-bTv*math.Pow(1.+cTv/λ[k], -(μ[k]+1.)))
	}
}

// lognormalSpeeds derives fall speeds implicitly from the analytic
// sedimentation flux over a lognormal spectrum. The raw mass flux is
// rescaled by the ratio of the actual to the spectrum-implied liquid
// water content, so the implied fall speed is consistent with the
// actual rain mixing ratio.
func lognormalSpeeds(qr, nr, dvr, λ, μ, ρ []float64, mask []bool, kmin, kmax int, wq, wn []float64) {
	// Geometric mean diameter from the mean volume diameter.
	dgrFac := math.Pow(math.Exp(4.5*σ2Rain), -1./3.)
	for k := kmin; k <= kmax; k++ {
		wq[k], wn[k] = 0, 0
		if !mask[k] {
			continue
		}
		dgr := dgrFac * dvr[k]
		lwc := dsd.LiqCont(nr[k], dgr, σ2Rain, dDiv)
		wq[k] = dsd.MassFlux(nr[k], dgr, σ2Rain, dDiv) / math.Max(lwc, εlwc)
		wn[k] = dsd.NumberFlux(nr[k], dgr, σ2Rain, dDiv) / nr[k]
	}
}

// empiricalSpeeds is the fall speed law of Khairoutdinov and
// Kogan (2000) eq. 19: linear in the mean volume diameter, clamped
// non-negative.
func empiricalSpeeds(qr, nr, dvr, λ, μ, ρ []float64, mask []bool, kmin, kmax int, wq, wn []float64) {
	for k := kmin; k <= kmax; k++ {
		wq[k], wn[k] = 0, 0
		if !mask[k] {
			continue
		}
		wq[k] = math.Max(0., 0.006*1.e6*dvr[k]-0.2)
		wn[k] = math.Max(0., 0.0035*1.e6*dvr[k]-0.1)
	}
}

// RainSedimentation fulfils the Scheme interface.
func (s Spectral) RainSedimentation() ColumnManipulator {
	if s.Lognormal {
		return rainSedimentation(lognormalSpeeds)
	}
	return rainSedimentation(gammaSpeeds)
}

// RainSedimentation fulfils the Scheme interface.
func (e Empirical) RainSedimentation() ColumnManipulator {
	return rainSedimentation(empiricalSpeeds)
}

// rainSedimentation returns a function that advects rain mass and
// number downward under the given fall speed law, sub-stepping in time
// so that no drop falls more than one layer per sub-step. The
// precipitation flux diagnostic is set from the first sub-step. The
// net tendency over the whole step is added to the accumulators at
// the end.
func rainSedimentation(law fallSpeeds) ColumnManipulator {
	return func(m *Micro, j, i int) {
		for k := 0; k < m.Nz; k++ {
			m.Precep.Set(0, k, j, i)
		}
		if m.qrbase > m.qrroof {
			return
		}

		// Courant condition: sub-step so the fastest admissible drop
		// crosses at most the thinnest layer per sub-step.
		minΔz := m.Dzf[0]
		for _, dz := range m.Dzf {
			if dz < minΔz {
				minΔz = dz
			}
		}
		nsub := int(wfallmax*m.Δt/minΔz) + 1
		Δts := m.Δt / float64(nsub)

		nz := m.Nz
		qr := make([]float64, nz)
		nr := make([]float64, nz)
		qr0 := make([]float64, nz)
		nr0 := make([]float64, nz)
		mask := make([]bool, nz)
		dvr := make([]float64, nz)
		λ := make([]float64, nz)
		μ := make([]float64, nz)
		wq := make([]float64, nz)
		wn := make([]float64, nz)
		φq := make([]float64, nz)
		φn := make([]float64, nz)

		base, roof := m.qrbase, m.qrroof
		for k := base; k <= roof; k++ {
			qr[k] = m.QR.Get(k, j, i)
			nr[k] = m.NR.Get(k, j, i)
			qr0[k], nr0[k] = qr[k], nr[k]
			mask[k] = m.qrmask[m.ix(k, j, i)]
		}

		for sub := 0; sub < nsub; sub++ {
			if sub > 0 {
				// Rain falling out of the base can fill at most one
				// previously-empty level below per sub-step. Mass alone
				// is enough to admit the level: some fall-speed laws
				// move mass without number.
				if base > 0 && qr[base-1] > qrMin {
					base--
				}
				for k := base; k <= roof; k++ {
					mask[k] = qr[k] > qrMin && nr[k] > 0
				}
			}
			m.Shape(qr, nr, m.Rhof, mask, base, roof, dvr, λ, μ)
			law(qr, nr, dvr, λ, μ, m.Rhof, mask, base, roof, wq, wn)

			// Donor-cell flux across each cell's bottom edge,
			// computed from a snapshot of the working state before
			// any level is updated. The fall speed enters as a
			// negative vertical velocity.
			for k := base; k <= roof; k++ {
				φq[k], φn[k] = 0, 0
				if !mask[k] {
					continue
				}
				below := 0.
				belowN := 0.
				if k > 0 {
					below = m.Rhof[k-1] * qr[k-1]
					belowN = nr[k-1]
				}
				φq[k] = advect.UpwindFlux(-wq[k], below, m.Rhof[k]*qr[k], m.Dzf[k])
				φn[k] = advect.UpwindFlux(-wn[k], belowN, nr[k], m.Dzf[k])
			}

			if sub == 0 {
				// Precipitation flux diagnostic from the initial state.
				for k := base; k <= roof; k++ {
					m.Precep.Set(wq[k]*qr[k], k, j, i)
				}
			}

			// Apply the flux divergence: level k loses what level k-1
			// gains, except at the domain floor, which only loses.
			for k := base; k <= roof; k++ {
				if φq[k] == 0 && φn[k] == 0 {
					continue
				}
				qr[k] += φq[k] * Δts / m.Rhof[k]
				nr[k] += φn[k] * Δts
				if k > 0 {
					qr[k-1] -= φq[k] * Δts * m.Dzf[k] / m.Dzf[k-1] / m.Rhof[k-1]
					nr[k-1] -= φn[k] * Δts * m.Dzf[k] / m.Dzf[k-1]
				}
			}
		}

		// The last sub-step may have deposited into the level below the
		// final base, so the net tendency covers that level too.
		lo := base - 1
		if lo < 0 {
			lo = 0
		}
		for k := lo; k <= roof; k++ {
			m.QRp.AddVal((qr[k]-qr0[k])/m.Δt, k, j, i)
			m.NRp.AddVal((nr[k]-nr0[k])/m.Δt, k, j, i)
		}
	}
}
