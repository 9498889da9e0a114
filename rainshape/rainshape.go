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

// Package rainshape derives gamma drop-size-distribution parameters
// for rain from its mass and number concentrations. It satisfies the
// bulkmicro.ShapeFunc collaborator contract.
package rainshape

import "math"

const (
	ρwater = 1000. // kg/m³

	// The mean drop mass is clamped to a physical range, from a
	// 10 μm drop to a 6 mm drop.
	xrMin = 5.24e-13 // kg
	xrMax = 1.2e-4   // kg
)

var pirhow = math.Pi * ρwater / 6.

// Parameters fills, for one grid column, the rain mean volume
// diameter dvr [m], gamma slope λ [1/m] and gamma shape μ [-] for
// levels kmin ≤ k ≤ kmax where mask is set, from rain mass qr
// [kg/kg], rain number nr [1/m³] and air density ρ [kg/m³]. The shape
// parameter follows the rain water content fit of Geoffroy et
// al. (2014).
func Parameters(qr, nr, ρ []float64, mask []bool, kmin, kmax int, dvr, λ, μ []float64) {
	for k := kmin; k <= kmax; k++ {
		if !mask[k] {
			dvr[k], λ[k], μ[k] = 0, 0, 0
			continue
		}
		xr := ρ[k] * qr[k] / nr[k] // mean drop mass
		xr = math.Min(math.Max(xr, xrMin), xrMax)
		dvr[k] = math.Pow(xr/pirhow, 1./3.)

		μ[k] = math.Min(10., math.Max(0.,
			-1.+0.008*math.Pow(ρ[k]*qr[k], -0.6)))
		λ[k] = math.Pow((μ[k]+3.)*(μ[k]+2.)*(μ[k]+1.), 1./3.) / dvr[k]
	}
}
