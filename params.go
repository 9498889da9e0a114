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
	"fmt"
	"math"
)

// Physical constants.
const (
	ρwater = 1000.  // kg/m³, density of liquid water
	ρ0     = 1.225  // kg/m³, reference air density
	rlv    = 2.5e6  // J/kg, latent heat of vaporization
	cp     = 1005.  // J/kg/K, specific heat of air at constant pressure
	rv     = 461.5  // J/kg/K, gas constant of water vapor
	dv     = 2.4e-5 // m²/s, diffusivity of water vapor in air
	kt     = 2.5e-2 // J/m/s/K, thermal conductivity of air
	νair   = 1.41e-5 // m²/s, kinematic viscosity of air
	scNum  = 0.71    // Schmidt number of water vapor in air
)

// Warm-rain closure constants after Seifert and Beheng (2001).
const (
	xs  = 2.6e-10 // kg, drop mass separating cloud droplets from rain
	kc  = 9.44e9  // m³/kg²/s, autoconversion kernel
	k1  = 600.    // autoconversion similarity function
	k2  = 0.68    // autoconversion similarity function exponent
	kr  = 5.25    // m³/kg/s, accretion kernel
	kl  = 5.e-5   // accretion similarity function constant
	krr = 7.12    // m³/kg/s, self-collection kernel
	κr  = 60.7    // kg^(-1/3), self-collection slope constant
	kbr = 1000.   // 1/m, breakup slope
	dEq = 0.9e-3  // m, equilibrium breakup diameter
	// Breakup is inactive below this mean volume diameter.
	dBrkMin = 0.30e-3 // m

	// Rain terminal velocity w = a − b·exp(−c·D), Seifert and
	// Beheng (2001) eq. 33.
	aTv = 9.65 // m/s
	bTv = 9.8  // m/s
	cTv = 600. // 1/m

	// Ventilation coefficients.
	avf    = 0.78
	bvf    = 0.308
	cNevap = 0.7 // number evaporation efficiency
)

// Constants for the empirical closure of Khairoutdinov and
// Kogan (2000).
const (
	d0kk    = 50.e-6 // m, autoconversion separation diameter
	cEvapkk = 0.87   // evaporation coefficient
)

// Numerical parameters.
const (
	wfallmax = 9.9 // m/s, upper bound on rain fall speed (CFL)

	σgCloud = 1.34 // geometric std dev of the cloud droplet spectrum
	σgRain  = 1.5  // geometric std dev of the rain drop spectrum

	qcMin = 1.e-7  // kg/kg, minimum cloud water to be considered active
	qrMin = 1.e-13 // kg/kg, minimum rain water to be considered active

	εlwc = 1.e-20 // kg/m³, guard against division by vanishing LWC
)

var (
	pirhow = math.Pi * ρwater / 6.

	// Autoconversion rate constant, Seifert and Beheng (2001) eq. 14.
	kAu = kc / (20. * xs)

	// Diameter of a drop of mass xs: the droplet/drop division.
	dDiv = math.Pow(6.*xs/(math.Pi*ρwater), 1./3.)

	σ2Cloud = math.Pow(math.Log(σgCloud), 2)
	σ2Rain  = math.Pow(math.Log(σgRain), 2)
)

// ColumnManipulator is a function that operates on a single grid
// column (j, i) of the model state.
type ColumnManipulator func(m *Micro, j, i int)

// DomainManipulator is a function that operates on the entire model
// domain.
type DomainManipulator func(m *Micro) error

// Scheme is an interface for warm-rain microphysical closures. Each
// method returns a process function for one conversion pathway; the
// functions accumulate into the tendency fields of the state they are
// given and may be composed with Calculations.
type Scheme interface {
	// Name returns the name of this closure family.
	Name() string

	// Autoconversion returns a function that converts cloud water
	// into rain by collision of cloud droplets.
	Autoconversion() ColumnManipulator

	// Accretion returns a function that grows rain by collection of
	// cloud water, including rain self-interaction where the closure
	// models it.
	Accretion() ColumnManipulator

	// RainSedimentation returns a function that advects rain mass and
	// number downward under the closure's terminal velocity law.
	RainSedimentation() ColumnManipulator

	// Evaporation returns a function that evaporates rain in
	// sub-saturated air.
	Evaporation() ColumnManipulator
}

// NewScheme returns the closure family indicated by name. Valid
// options are "spectral" (the moment scheme of Seifert and Beheng
// (2001), with lognormal analytic rain sedimentation) and "empirical"
// (the power laws of Khairoutdinov and Kogan (2000)).
func NewScheme(name string) (Scheme, error) {
	switch name {
	case "spectral":
		return Spectral{Lognormal: true}, nil
	case "empirical":
		return Empirical{}, nil
	default:
		return nil, fmt.Errorf("bulkmicro: invalid scheme %q; valid options are spectral and empirical", name)
	}
}

// Spectral is the moment-based closure of Seifert and Beheng (2001).
// If Lognormal is true, rain sedimentation integrates analytic fluxes
// over a lognormal spectrum; otherwise it uses the gamma-distribution
// terminal velocity parameterization.
type Spectral struct {
	Lognormal bool
}

// Name fulfils the Scheme interface.
func (s Spectral) Name() string { return "spectral" }

// Empirical is the power-law closure of Khairoutdinov and Kogan (2000).
type Empirical struct{}

// Name fulfils the Scheme interface.
func (e Empirical) Name() string { return "empirical" }
