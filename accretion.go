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

// Accretion returns a function that grows rain by collection of cloud
// water (Seifert and Beheng (2001) eq. 24 with the similarity function
// of eq. 25) and applies rain self-collection (their eq. 27) and
// collisional breakup to the number budget.
func (s Spectral) Accretion() ColumnManipulator {
	return func(m *Micro, j, i int) {
		// Accretion requires both cloud and rain.
		kmin := m.qcbase
		if m.qrbase > kmin {
			kmin = m.qrbase
		}
		kmax := m.qcroof
		if m.qrroof < kmax {
			kmax = m.qrroof
		}
		for k := kmin; k <= kmax; k++ {
			n := m.ix(k, j, i)
			if !m.qcmask[n] || !m.qrmask[n] {
				continue
			}
			ql := m.QL0.Get(k, j, i)
			qr := m.QR.Get(k, j, i)
			ρ := m.Rhof[k]

			τ := qr / (ql + qr)
			φ := math.Pow(τ/(τ+kl), 4)
			ac := kr * ρ * ql * qr * φ * math.Sqrt(ρ0/ρ)
			m.applyConversion(ac, k, j, i)
		}

		// Self-collection and breakup act on rain alone.
		if m.qrbase > m.qrroof {
			return
		}
		for k := m.qrbase; k <= m.qrroof; k++ {
			if !m.qrmask[m.ix(k, j, i)] {
				continue
			}
			qr := m.QR.Get(k, j, i)
			nr := m.NR.Get(k, j, i)
			ρ := m.Rhof[k]
			λ := m.Lbdr.Get(k, j, i)
			dvr := m.Dvr.Get(k, j, i)

			sc := krr * ρ * qr * nr *
				math.Pow(1.+κr/λ*math.Pow(pirhow, 1./3.), -9) *
				math.Sqrt(ρ0/ρ)

			// Breakup partially offsets the coalescence loss once
			// the drops grow large enough to fragment on collision.
			br := 0.
			if dvr > dBrkMin {
				φbr := kbr * (dvr - dEq)
				br = (φbr + 1.) * sc
			}
			m.NRp.AddVal(br-sc, k, j, i)
		}
	}
}

// Accretion returns a function that grows rain by collection of cloud
// water with the power law of Khairoutdinov and Kogan (2000) eq. 33.
// The empirical closure carries no separate self-collection or breakup
// term; rain number follows the mass through the fixed-diameter
// relation elsewhere.
func (e Empirical) Accretion() ColumnManipulator {
	return func(m *Micro, j, i int) {
		kmin := m.qcbase
		if m.qrbase > kmin {
			kmin = m.qrbase
		}
		kmax := m.qcroof
		if m.qrroof < kmax {
			kmax = m.qrroof
		}
		for k := kmin; k <= kmax; k++ {
			n := m.ix(k, j, i)
			if !m.qcmask[n] || !m.qrmask[n] {
				continue
			}
			ql := m.QL0.Get(k, j, i)
			qr := m.QR.Get(k, j, i)
			ac := 67. * math.Pow(ql*qr, 1.15)
			m.applyConversion(ac, k, j, i)
		}
	}
}
