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

// UpdateActiveRegion recomputes the per-cell activity masks and the
// vertical bounds of the rain- and cloud-active regions from the
// current prognostic fields. A cell is rain-active if its rain mixing
// ratio exceeds qrMin and its number concentration is positive, and
// cloud-active if its cloud water exceeds qcMin. If no cell qualifies
// the corresponding base exceeds its roof and every dependent process
// is a no-op.
func (m *Micro) UpdateActiveRegion() {
	m.qrbase, m.qrroof = m.Nz, -1
	m.qcbase, m.qcroof = m.Nz, -1
	for k := 0; k < m.Nz; k++ {
		for j := 0; j < m.Ny; j++ {
			for i := 0; i < m.Nx; i++ {
				n := m.ix(k, j, i)
				qrm := m.QR.Get(k, j, i) > qrMin && m.NR.Get(k, j, i) > 0
				qcm := m.QL0.Get(k, j, i) > qcMin
				m.qrmask[n] = qrm
				m.qcmask[n] = qcm
				if qrm {
					if k < m.qrbase {
						m.qrbase = k
					}
					if k > m.qrroof {
						m.qrroof = k
					}
				}
				if qcm {
					if k < m.qcbase {
						m.qcbase = k
					}
					if k > m.qcroof {
						m.qcroof = k
					}
				}
			}
		}
	}
}

// RainBounds returns the vertical index bounds of the rain-active
// region; base > roof means no rain anywhere in the domain.
func (m *Micro) RainBounds() (base, roof int) {
	return m.qrbase, m.qrroof
}

// CloudBounds returns the vertical index bounds of the cloud-active
// region; base > roof means no cloud water anywhere in the domain.
func (m *Micro) CloudBounds() (base, roof int) {
	return m.qcbase, m.qcroof
}
