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

import "testing"

func TestWetScavenging(t *testing.T) {
	m := testMicro(3)
	addRain(m, 1, 1.e-4, 1.e7)
	wdParticle, wdSO2, wdOtherGas := m.WetScavenging()

	if wdParticle.Get(1, 0, 0) <= 0 || wdSO2.Get(1, 0, 0) <= 0 ||
		wdOtherGas.Get(1, 0, 0) <= 0 {
		t.Error("no scavenging in the rainy cell")
	}
	for _, k := range []int{0, 2} {
		if wdParticle.Get(k, 0, 0) != 0 || wdSO2.Get(k, 0, 0) != 0 ||
			wdOtherGas.Get(k, 0, 0) != 0 {
			t.Errorf("scavenging without rain at level %d", k)
		}
	}
}

// In-cloud scavenging is stronger than sub-cloud scavenging at equal
// rain content.
func TestWetScavengingInCloud(t *testing.T) {
	m := testMicro(2)
	addRain(m, 0, 1.e-4, 1.e7)
	addRain(m, 1, 1.e-4, 1.e7)
	addCloud(m, 1, 1.e-3)
	wdParticle, _, _ := m.WetScavenging()
	if in, sub := wdParticle.Get(1, 0, 0), wdParticle.Get(0, 0, 0); in <= sub {
		t.Errorf("in-cloud rate %g not above sub-cloud rate %g", in, sub)
	}
}
