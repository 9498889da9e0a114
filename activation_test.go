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
	"testing"

	"github.com/ctessum/sparse"
)

// testPopulation builds a two-mode aerosol: an accumulation mode of
// sulfate and organic carbon (species 0-1, number 2) that activates
// into an in-cloud mode (species 3-4, number 5).
func testPopulation(nz int, κ float64) *AerosolPopulation {
	a := &AerosolPopulation{
		Modes: []AerosolMode{
			{
				Name: "accumulation",
				Lo:   0, Hi: 2, NumIdx: 2,
				Density:   []float64{1770., 1400.},
				Kappa:     []float64{κ, κ / 2.},
				SigmaG:    1.6,
				Activates: true,
			},
			{
				Name: "in-cloud",
				Lo:   3, Hi: 5, NumIdx: 5,
				Density: []float64{1770., 1400.},
				Kappa:   []float64{κ, κ / 2.},
				SigmaG:  1.6,
			},
		},
		InCloud: 1,
		Conc:    sparse.ZerosDense(6, nz, 1, 1),
		Tend:    sparse.ZerosDense(6, nz, 1, 1),
		SMax:    0.002,
	}
	for k := 0; k < nz; k++ {
		a.Conc.Set(2.e-9, 0, k, 0, 0) // kg/m³ sulfate
		a.Conc.Set(1.e-9, 1, k, 0, 0) // kg/m³ organic carbon
		a.Conc.Set(3.e8, 2, k, 0, 0)  // 1/m³
	}
	return a
}

func TestActivation(t *testing.T) {
	m := testMicro(3)
	addCloud(m, 1, 1.e-3)
	a := testPopulation(3, 0.6)
	Activation(a)(m, 0, 0)

	// Source mode loses, in-cloud mode gains, and the totals cancel.
	nLoss := a.Tend.Get(2, 1, 0, 0)
	nGain := a.Tend.Get(5, 1, 0, 0)
	if nLoss >= 0 || nGain <= 0 {
		t.Fatalf("number tendencies %g, %g; want loss and gain", nLoss, nGain)
	}
	if nLoss+nGain != 0 {
		t.Errorf("number not conserved: %g", nLoss+nGain)
	}
	for s := 0; s < 2; s++ {
		loss := a.Tend.Get(s, 1, 0, 0)
		gain := a.Tend.Get(s+3, 1, 0, 0)
		if loss >= 0 || gain <= 0 {
			t.Errorf("species %d tendencies %g, %g; want loss and gain", s, loss, gain)
		}
		if loss+gain != 0 {
			t.Errorf("species %d mass not conserved: %g", s, loss+gain)
		}
	}

	// The activated fraction cannot exceed what is there, and larger
	// particles activate preferentially, so the mass fraction exceeds
	// the number fraction.
	fn := -nLoss * m.Δt / a.Conc.Get(2, 1, 0, 0)
	fm := -a.Tend.Get(0, 1, 0, 0) * m.Δt / a.Conc.Get(0, 1, 0, 0)
	if fn <= 0 || fn >= 1 || fm <= 0 || fm >= 1 {
		t.Fatalf("fractions fn=%g fm=%g outside (0,1)", fn, fm)
	}
	if fm <= fn {
		t.Errorf("mass fraction %g not above number fraction %g", fm, fn)
	}

	// Cloud-free levels are untouched.
	for _, k := range []int{0, 2} {
		for s := 0; s < 6; s++ {
			if a.Tend.Get(s, k, 0, 0) != 0 {
				t.Errorf("tendency at cloud-free level %d species %d", k, s)
			}
		}
	}
}

// More hygroscopic aerosol activates more readily.
func TestActivationHygroscopicity(t *testing.T) {
	frac := func(κ float64) float64 {
		m := testMicro(1)
		addCloud(m, 0, 1.e-3)
		a := testPopulation(1, κ)
		Activation(a)(m, 0, 0)
		return -a.Tend.Get(2, 0, 0, 0) * m.Δt / a.Conc.Get(2, 0, 0, 0)
	}
	lo, hi := frac(0.1), frac(1.2)
	if hi <= lo {
		t.Errorf("activated fraction %g at κ=1.2 not above %g at κ=0.1", hi, lo)
	}
}

// A mode with no number concentration contributes nothing.
func TestActivationEmptyMode(t *testing.T) {
	m := testMicro(1)
	addCloud(m, 0, 1.e-3)
	a := testPopulation(1, 0.6)
	a.Conc.Set(0, 2, 0, 0, 0)
	Activation(a)(m, 0, 0)
	if !allZero(a.Tend) {
		t.Error("empty mode produced tendencies")
	}
}
