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
	"testing"

	"github.com/ctessum/sparse"
)

// columnMass integrates a mixing-ratio tendency field over a column
// [kg/m²/s].
func columnMass(m *Micro, a *sparse.DenseArray) float64 {
	var sum float64
	for k := 0; k < m.Nz; k++ {
		sum += m.Rhof[k] * m.Dzf[k] * a.Get(k, 0, 0)
	}
	return sum
}

// Cloud settling out of an interior level must conserve column water:
// what level k loses, level k-1 gains.
func TestCloudSedimentationConservation(t *testing.T) {
	const testTolerance = 1.e-12
	m := testMicro(3)
	addCloud(m, 2, 1.e-3)
	CloudSedimentation()(m, 0, 0)
	if m.Qtpmcr.Get(2, 0, 0) >= 0 {
		t.Error("settling level does not lose water")
	}
	if m.Qtpmcr.Get(1, 0, 0) <= 0 {
		t.Error("level below does not gain water")
	}
	scale := m.Rhof[2] * m.Dzf[2] * math.Abs(m.Qtpmcr.Get(2, 0, 0))
	if sum := columnMass(m, m.Qtpmcr); math.Abs(sum) > testTolerance*scale {
		t.Errorf("column water tendency %g, want 0", sum)
	}
}

// Cloud in the bottom level deposits to the surface.
func TestCloudSedimentationFloor(t *testing.T) {
	m := testMicro(3)
	addCloud(m, 0, 1.e-3)
	CloudSedimentation()(m, 0, 0)
	if sum := columnMass(m, m.Qtpmcr); sum >= 0 {
		t.Errorf("column water tendency %g, want surface loss", sum)
	}
	if m.Qtpmcr.Get(1, 0, 0) != 0 || m.Qtpmcr.Get(2, 0, 0) != 0 {
		t.Error("levels above the cloud changed")
	}
}

// Drizzle too small to fall under the empirical speed law must leave
// the state and the precipitation diagnostic untouched.
func TestRainSedimentationZeroSpeed(t *testing.T) {
	m := testMicro(4)
	for k := 0; k < 4; k++ {
		m.QR.Set(1.e-5, k, 0, 0)
		m.NR.Set(1.e7, k, 0, 0) // mean diameter ~13 µm, below both cutoffs
	}
	m.UpdateActiveRegion()
	Empirical{}.RainSedimentation()(m, 0, 0)
	for _, a := range []*sparse.DenseArray{m.QRp, m.NRp, m.Precep} {
		if !allZero(a) {
			t.Fatal("motionless rain produced tendencies")
		}
	}
}

// Rain aloft that cannot reach the floor within one step must conserve
// column mass while moving water downward.
func TestRainSedimentationConservation(t *testing.T) {
	const testTolerance = 1.e-12
	for _, s := range []Scheme{Spectral{}, Spectral{Lognormal: true}} {
		name := s.Name()
		if s.(Spectral).Lognormal {
			name += "-lognormal"
		}
		m := testMicro(6)
		addRain(m, 4, 1.e-4, 1.e7)
		s.RainSedimentation()(m, 0, 0)

		if m.QRp.Get(4, 0, 0) >= 0 {
			t.Errorf("%s: source level does not lose rain", name)
		}
		if m.QRp.Get(3, 0, 0) <= 0 {
			t.Errorf("%s: level below does not gain rain", name)
		}
		if m.Precep.Get(4, 0, 0) <= 0 {
			t.Errorf("%s: no precipitation flux at the rainy level", name)
		}
		if m.QRp.Get(0, 0, 0) != 0 {
			t.Errorf("%s: rain reached the floor within one step", name)
		}
		scale := m.Rhof[4] * m.Dzf[4] * math.Abs(m.QRp.Get(4, 0, 0))
		if sum := columnMass(m, m.QRp); math.Abs(sum) > testTolerance*scale {
			t.Errorf("%s: column rain tendency %g, want 0", name, sum)
		}
		var nsum float64
		for k := 0; k < m.Nz; k++ {
			nsum += m.Dzf[k] * m.NRp.Get(k, 0, 0)
		}
		nscale := m.Dzf[4] * math.Abs(m.NRp.Get(4, 0, 0))
		if math.Abs(nsum) > testTolerance*nscale {
			t.Errorf("%s: column number tendency %g, want 0", name, nsum)
		}
	}
}

// Small drops under the gamma velocity law move mass but no number
// (wn clamps to zero). The newly filled level below the rain base must
// still be admitted and credited, conserving column mass.
func TestRainSedimentationMassWithoutNumber(t *testing.T) {
	const testTolerance = 1.e-12
	m := testMicro(4)
	// qr/nr chosen so μ=0 and λ≈6e4: the number-weighted fall speed
	// clamps to zero while the mass-weighted one stays positive.
	addRain(m, 2, 3.e-4, 2.47e7)
	Spectral{}.RainSedimentation()(m, 0, 0)

	if m.QRp.Get(2, 0, 0) >= 0 {
		t.Error("source level does not lose rain")
	}
	if m.QRp.Get(1, 0, 0) <= 0 {
		t.Error("level below does not gain rain")
	}
	if !allZero(m.NRp) {
		t.Error("number moved despite zero number fall speed")
	}
	scale := m.Rhof[2] * m.Dzf[2] * math.Abs(m.QRp.Get(2, 0, 0))
	if sum := columnMass(m, m.QRp); math.Abs(sum) > testTolerance*scale {
		t.Errorf("column rain tendency %g, want 0", sum)
	}
}

// Rain in the bottom level can only leave through the floor.
func TestRainSedimentationFloorLoss(t *testing.T) {
	m := testMicro(3)
	addRain(m, 0, 1.e-4, 1.e7)
	Spectral{}.RainSedimentation()(m, 0, 0)
	if m.QRp.Get(0, 0, 0) >= 0 {
		t.Error("bottom level does not lose rain")
	}
	if m.Precep.Get(0, 0, 0) <= 0 {
		t.Error("no surface precipitation flux")
	}
	if m.QRp.Get(1, 0, 0) != 0 || m.QRp.Get(2, 0, 0) != 0 {
		t.Error("rain moved upward")
	}
}
