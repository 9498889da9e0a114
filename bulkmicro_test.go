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
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/ctessum/sparse"

	"github.com/spatialmodel/bulkmicro/rainshape"
)

// testMicro builds a single-column state with uniform layers and a
// sub-saturated thermodynamic background.
func testMicro(nz int) *Micro {
	m := NewMicro(nz, 1, 1, 10.)
	m.Nc = 1.e8
	m.Shape = rainshape.Parameters
	for k := 0; k < nz; k++ {
		m.Dzf[k] = 50.
		m.Rhof[k] = 1.2
		m.Exnf[k] = 0.95
		m.Tmp0.Set(285., k, 0, 0)
		m.Thl0.Set(285./0.95, k, 0, 0)
		m.Qvsl.Set(8.e-3, k, 0, 0)
		m.Esl.Set(1385., k, 0, 0)
		m.Qt0.Set(6.e-3, k, 0, 0)
	}
	return m
}

// addRain puts rain into level k and refreshes the active region.
func addRain(m *Micro, k int, qr, nr float64) {
	m.QR.Set(qr, k, 0, 0)
	m.NR.Set(nr, k, 0, 0)
	m.UpdateActiveRegion()
}

// addCloud puts cloud water into level k and refreshes the active
// region.
func addCloud(m *Micro, k int, ql float64) {
	m.QL0.Set(ql, k, 0, 0)
	m.Qt0.AddVal(ql, k, 0, 0)
	m.UpdateActiveRegion()
}

func allZero(a *sparse.DenseArray) bool {
	for _, v := range a.Elements {
		if v != 0 {
			return false
		}
	}
	return true
}

// With no water anywhere, a full step must leave every tendency field
// bit-identical to zero.
func TestStepEmptyNoOp(t *testing.T) {
	for _, s := range []Scheme{Spectral{Lognormal: true}, Spectral{}, Empirical{}} {
		m := testMicro(8)
		if err := m.Step(s); err != nil {
			t.Fatal(err)
		}
		for _, a := range []*sparse.DenseArray{m.QRp, m.NRp, m.Qtpmcr, m.Thlpmcr, m.Precep} {
			if !allZero(a) {
				t.Errorf("%s: tendencies changed on empty domain", s.Name())
			}
		}
	}
}

// Every process credits heat through the same latent-heat/exner
// factor it debits water with, so the two tendency fields must mirror
// each other cell by cell.
func TestStepHeatMoistureMirror(t *testing.T) {
	const testTolerance = 1.e-12
	for _, s := range []Scheme{Spectral{Lognormal: true}, Spectral{}, Empirical{}} {
		m := testMicro(8)
		addCloud(m, 5, 1.e-3)
		addRain(m, 5, 1.e-4, 1.e7)
		if err := m.Step(s); err != nil {
			t.Fatal(err)
		}
		for k := 0; k < m.Nz; k++ {
			qtp := m.Qtpmcr.Get(k, 0, 0)
			thlp := m.Thlpmcr.Get(k, 0, 0)
			want := -rlv / (cp * m.Exnf[k]) * qtp
			if math.Abs(thlp-want) > testTolerance*math.Max(math.Abs(want), 1.e-30) {
				t.Errorf("%s level %d: thlpmcr=%g, want %g", s.Name(), k, thlp, want)
			}
		}
	}
}

func TestNewScheme(t *testing.T) {
	for _, name := range []string{"spectral", "empirical"} {
		s, err := NewScheme(name)
		if err != nil {
			t.Fatal(err)
		}
		if s.Name() != name {
			t.Errorf("scheme %q reports name %q", name, s.Name())
		}
	}
	if _, err := NewScheme("unknown"); err == nil {
		t.Error("expected an error for an invalid scheme name")
	}
}

func TestStepRequiresShape(t *testing.T) {
	m := NewMicro(4, 1, 1, 10.)
	if err := m.Step(Empirical{}); err == nil {
		t.Error("expected an error when the Shape collaborator is unset")
	}
}

func TestResetTendencies(t *testing.T) {
	m := testMicro(4)
	m.QRp.Set(1., 2, 0, 0)
	m.Thlpmcr.Set(-1., 0, 0, 0)
	m.ResetTendencies()
	if !allZero(m.QRp) || !allZero(m.Thlpmcr) {
		t.Error("tendencies not zeroed")
	}
}

func TestLog(t *testing.T) {
	m := testMicro(4)
	var b bytes.Buffer
	if err := Log(&b)(m); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "Step") {
		t.Errorf("unexpected log output %q", b.String())
	}
}
