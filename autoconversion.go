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

import "math"

// applyConversion adds a cloud-to-rain mass conversion rate au
// [kg/kg/s] to the tendency accumulators of cell (k, j, i), debiting
// total water and crediting heat through the latent-heat/exner factor.
func (m *Micro) applyConversion(au float64, k, j, i int) {
	m.QRp.AddVal(au, k, j, i)
	m.Qtpmcr.AddVal(-au, k, j, i)
	m.Thlpmcr.AddVal(rlv/(cp*m.Exnf[k])*au, k, j, i)
}

// Autoconversion returns a function that converts cloud water into
// rain following Seifert and Beheng (2001) eq. 14, with the
// similarity correction of their eq. 16 amplifying the rate as rain
// appears.
func (s Spectral) Autoconversion() ColumnManipulator {
	return func(m *Micro, j, i int) {
		if m.qcbase > m.qcroof {
			return
		}
		for k := m.qcbase; k <= m.qcroof; k++ {
			if !m.qcmask[m.ix(k, j, i)] {
				continue
			}
			ql := m.QL0.Get(k, j, i)
			qr := m.QR.Get(k, j, i)
			ρ := m.Rhof[k]

			// Spectral width of the cloud droplet spectrum,
			// diagnosed from the cloud water density following
			// Geoffroy et al. (2010).
			νc := 1.58*(ρ*ql*1000.) - 0.28
			xc := ρ * ql / m.Nc // mean droplet mass
			au := kAu * (νc + 2.) * (νc + 4.) / ((νc + 1.) * (νc + 1.)) *
				math.Pow(ql*xc, 2) * ρ0 // air density correction

			τ := qr / (ql + qr)
			φ := k1 * math.Pow(τ, k2) * math.Pow(1.-math.Pow(τ, k2), 3)
			au *= 1. + φ/math.Pow(1.-τ, 2)

			m.applyConversion(au, k, j, i)
			m.NRp.AddVal(au/xs, k, j, i)
		}
	}
}

// Autoconversion returns a function that converts cloud water into
// rain with the power law of Khairoutdinov and Kogan (2000) eq. 29;
// the number increase assumes all new drops have diameter d0kk.
func (e Empirical) Autoconversion() ColumnManipulator {
	x0 := pirhow * math.Pow(d0kk, 3) // mass of a new rain drop
	return func(m *Micro, j, i int) {
		if m.qcbase > m.qcroof {
			return
		}
		for k := m.qcbase; k <= m.qcroof; k++ {
			if !m.qcmask[m.ix(k, j, i)] {
				continue
			}
			ql := m.QL0.Get(k, j, i)
			au := 1350. * math.Pow(ql, 2.47) * math.Pow(m.Nc/1.e6, -1.79)
			m.applyConversion(au, k, j, i)
			m.NRp.AddVal(au/x0, k, j, i)
		}
	}
}
