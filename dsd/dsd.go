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

// Package dsd provides closed-form integrals over lognormal drop-size
// distributions: sedimentation fluxes and liquid water content. The
// integrals reduce to differences of the Gaussian error function, which
// is evaluated with a polynomial approximation.
package dsd

import "math"

const (
	ρwater = 1000. // kg/m³

	// Guard against a vanishing geometric mean diameter.
	εD = 1.e-10 // m
)

// πρw/6, the mass of a drop divided by the cube of its diameter.
var pirhow = math.Pi * ρwater / 6.

// Terminal fall speed of a drop of diameter D [m]:
//
//	w = c1·D²  for D < d1 (Stokes regime)
//	w = c2·D   for d1 < D < d2
//	w = c3·√D  for D > d2
//
// Coefficients after Rogers and Yau (1989) ch. 8, converted from radius
// to diameter. The breakpoints d1 and d2 are where adjacent regimes
// intersect, so w is continuous.
const (
	c1 = 2.975e7 // m⁻¹s⁻¹
	c2 = 4.0e3   // s⁻¹
	c3 = 142.13  // m^-½s⁻¹
)

var (
	d1 = c2 / c1             // ≈ 134 μm
	d2 = (c3 / c2) * (c3 / c2) // ≈ 1.26 mm
)

// Erf approximates the Gaussian error function using the rational
// polynomial of Abramowitz and Stegun (1964) eq. 7.1.26; the absolute
// error is below 1.5e-7 everywhere, which is adequate for integrating
// drop spectra.
func Erf(x float64) float64 {
	const (
		a1 = 0.254829592
		a2 = -0.284496736
		a3 = 1.421413741
		a4 = -1.453152027
		a5 = 1.061405429
		p  = 0.3275911
	)
	sign := 1.
	if x < 0 {
		sign = -1.
		x = -x
	}
	t := 1. / (1. + p*x)
	y := 1. - (((((a5*t+a4)*t)+a3)*t+a2)*t+a1)*t*math.Exp(-x*x)
	return sign * y
}

// Erfc returns the complementary error function 1−Erf(x).
func Erfc(x float64) float64 {
	return 1. - Erf(x)
}

// Erfint evaluates the integral of D'^(β+n) times the lognormal
// probability density with geometric mean diameter D [m] and
// log-variance σ2, between diameters Dmin and Dmax [m].
// Dmin ≤ 0 integrates from zero and Dmax may be +Inf.
func Erfint(β, D, Dmin, Dmax, σ2 float64, n int) float64 {
	D = math.Max(D, εD)
	c := β + float64(n)
	s := math.Sqrt(2. * σ2)

	lower := -1. // erf(-∞)
	if Dmin > 0 {
		lower = Erf((math.Log(Dmin/D) - c*σ2) / s)
	}
	upper := 1. // erf(+∞)
	if !math.IsInf(Dmax, 1) {
		upper = Erf((math.Log(Dmax/D) - c*σ2) / s)
	}
	return math.Pow(D, c) * math.Exp(0.5*c*c*σ2) * 0.5 * (upper - lower)
}

// sedint integrates w(D')·D'^n over [lo, hi], summing the contributions
// of whichever fall-speed regimes the interval intersects.
func sedint(D, σ2, lo, hi float64, n int) float64 {
	s := 0.
	if lo < d1 {
		s += c1 * Erfint(2, D, lo, math.Min(hi, d1), σ2, n)
	}
	if lo < d2 && hi > d1 {
		s += c2 * Erfint(1, D, math.Max(lo, d1), math.Min(hi, d2), σ2, n)
	}
	if hi > d2 {
		s += c3 * Erfint(0.5, D, math.Max(lo, d2), hi, σ2, n)
	}
	return s
}

// SedFlux returns the sedimentation flux of the n-th diameter moment of
// a lognormal spectrum with number concentration N [m⁻³], geometric
// mean diameter D [m] and log-variance σ2. Ddiv [m] is the division
// between droplets and drops; both partitions are integrated separately
// and summed, so the result is continuous as D crosses Ddiv.
// n=0 gives the number flux [m⁻²s⁻¹]; n=3 gives ∫D³w, which MassFlux
// converts to a mass flux.
func SedFlux(N, D, σ2, Ddiv float64, n int) float64 {
	return N * (sedint(D, σ2, 0, Ddiv, n) + sedint(D, σ2, Ddiv, math.Inf(1), n))
}

// MassFlux returns the sedimentation mass flux [kg m⁻² s⁻¹] of the
// spectrum described in SedFlux.
func MassFlux(N, D, σ2, Ddiv float64) float64 {
	return pirhow * SedFlux(N, D, σ2, Ddiv, 3)
}

// NumberFlux returns the sedimentation number flux [m⁻² s⁻¹].
func NumberFlux(N, D, σ2, Ddiv float64) float64 {
	return SedFlux(N, D, σ2, Ddiv, 0)
}

// LiqCont returns the liquid water content [kg/m³] held by the
// spectrum, split at Ddiv into droplet and drop partitions that are
// summed (β=0, third moment).
func LiqCont(N, D, σ2, Ddiv float64) float64 {
	return pirhow * N * (Erfint(0, D, 0, Ddiv, σ2, 3) +
		Erfint(0, D, Ddiv, math.Inf(1), σ2, 3))
}
