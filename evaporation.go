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

// Ratios of gamma functions used by the spectral ventilation factor,
// tabulated over shape parameters 0 ≤ μ ≤ 10 at resolution 0.01 and
// looked up by round(μ·100). Shape parameters outside the tabulated
// range are clamped to the table ends.
var γ21tab, γ251tab [1001]float64

func init() {
	for i := range γ21tab {
		μ := float64(i) / 100.
		γ21tab[i] = math.Gamma(μ+2.) / math.Gamma(μ+1.)
		γ251tab[i] = math.Gamma(μ+2.5) / math.Gamma(μ+1.)
	}
}

func γlookup(tab *[1001]float64, μ float64) float64 {
	i := int(μ*100. + 0.5)
	if i < 0 {
		i = 0
	}
	if i > 1000 {
		i = 1000
	}
	return tab[i]
}

// ventilationFunc returns the spectrum-averaged ventilation length
// F [m] such that the evaporation rate is 2π·Nr·G·F·S/ρ.
type ventilationFunc func(dvr, λ, μ float64) float64

// ventilationSB is the ventilation factor for a gamma spectrum with
// the terminal velocity kernel of Seifert and Beheng (2001): the
// diffusional term plus a convective term whose √w dependence is
// expanded to four correction terms in the velocity kernel.
func ventilationSB(dvr, λ, μ float64) float64 {
	γ21 := γlookup(&γ21tab, μ)
	γ251 := γlookup(&γ251tab, μ)
	ba := bTv / aTv
	series := 1. -
		1./2.*ba*math.Pow(λ/(λ+cTv), μ+2.5) -
		1./8.*ba*ba*math.Pow(λ/(λ+2.*cTv), μ+2.5) -
		1./16.*ba*ba*ba*math.Pow(λ/(λ+3.*cTv), μ+2.5) -
		5./128.*ba*ba*ba*ba*math.Pow(λ/(λ+4.*cTv), μ+2.5)
	return avf*γ21/λ +
		bvf*math.Pow(scNum, 1./3.)*math.Sqrt(aTv/νair)*
			γ251*math.Pow(λ, -1.5)*series
}

// ventilationKK reduces the evaporation law of Khairoutdinov and
// Kogan (2000) to the same form: a direct proportionality to the mean
// volume diameter.
func ventilationKK(dvr, λ, μ float64) float64 {
	return cEvapkk * dvr
}

// Evaporation fulfils the Scheme interface.
func (s Spectral) Evaporation() ColumnManipulator {
	return evaporation(ventilationSB)
}

// Evaporation fulfils the Scheme interface.
func (e Empirical) Evaporation() ColumnManipulator {
	return evaporation(ventilationKK)
}

// evaporation returns a function that removes rain mass and number in
// sub-saturated air. The combined diffusional/thermal growth factor G
// follows Pruppacher and Klett (1997) eq. 13-28. The rates are clamped
// so that no more mass or number can be removed than exists over one
// time step.
func evaporation(vent ventilationFunc) ColumnManipulator {
	return func(m *Micro, j, i int) {
		if m.qrbase > m.qrroof {
			return
		}
		for k := m.qrbase; k <= m.qrroof; k++ {
			if !m.qrmask[m.ix(k, j, i)] {
				continue
			}
			qr := m.QR.Get(k, j, i)
			nr := m.NR.Get(k, j, i)
			ql := m.QL0.Get(k, j, i)
			qt := m.Qt0.Get(k, j, i)
			qvsl := m.Qvsl.Get(k, j, i)
			esl := m.Esl.Get(k, j, i)
			T := m.Tmp0.Get(k, j, i)
			ρ := m.Rhof[k]

			// Sub-saturation: only sub-saturated air evaporates rain;
			// condensation onto rain is handled elsewhere.
			S := math.Min(0., (qt-ql)/qvsl-1.)
			G := 1. / (rv*T/(esl*dv) + rlv/(kt*T)*(rlv/(rv*T)-1.))
			F := vent(m.Dvr.Get(k, j, i), m.Lbdr.Get(k, j, i), m.Mur.Get(k, j, i))

			evap := 2. * math.Pi * nr * G * F * S / ρ
			xr := ρ * qr / nr // mean drop mass
			nevap := cNevap * evap * ρ / xr

			// Clamp: evaporation cannot remove more than is there.
			if evap < -qr/m.Δt {
				nevap = -nr / m.Δt
				evap = -qr / m.Δt
			}

			m.QRp.AddVal(evap, k, j, i)
			m.NRp.AddVal(nevap, k, j, i)
			m.Qtpmcr.AddVal(-evap, k, j, i)
			m.Thlpmcr.AddVal(rlv/(cp*m.Exnf[k])*evap, k, j, i)
		}
	}
}
