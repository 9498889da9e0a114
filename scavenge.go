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
	"github.com/ctessum/atmos/emep"
	"github.com/ctessum/sparse"
)

// WetScavenging converts the rain field into EMEP wet-deposition rate
// coefficients for particles, SO2, and other gases [1/s], for use by
// a host chemistry model. The cloud fraction of a cell is taken as 1
// where the cloud mask is set and 0 elsewhere. This is a pure
// diagnostic; no tendency field is touched.
func (m *Micro) WetScavenging() (wdParticle, wdSO2, wdOtherGas *sparse.DenseArray) {
	wdParticle = sparse.ZerosDense(m.Nz, m.Ny, m.Nx)
	wdSO2 = sparse.ZerosDense(m.Nz, m.Ny, m.Nx)
	wdOtherGas = sparse.ZerosDense(m.Nz, m.Ny, m.Nx)
	for k := 0; k < m.Nz; k++ {
		for j := 0; j < m.Ny; j++ {
			for i := 0; i < m.Nx; i++ {
				cloudFrac := 0.
				if m.qcmask[m.ix(k, j, i)] {
					cloudFrac = 1.
				}
				p, s, o := emep.WetDeposition(cloudFrac,
					m.QR.Get(k, j, i), m.Rhof[k], m.Dzf[k])
				wdParticle.Set(p, k, j, i)
				wdSO2.Set(s, k, j, i)
				wdOtherGas.Set(o, k, j, i)
			}
		}
	}
	return wdParticle, wdSO2, wdOtherGas
}
