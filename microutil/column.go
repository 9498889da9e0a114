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

package microutil

import (
	"fmt"
	"math"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/ctessum/unit"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"github.com/spatialmodel/bulkmicro"
	"github.com/spatialmodel/bulkmicro/rainshape"
)

const (
	p0      = 1.e5    // Pa, reference surface pressure
	rd      = 287.04  // J/kg/K, gas constant of dry air
	cpAir   = 1005.   // J/kg/K
	rlvHeat = 2.5e6   // J/kg
	γlapse  = 6.5e-3  // K/m, environmental lapse rate
	ρwater  = 1000.   // kg/m³
)

// Column describes a single-column simulation scenario.
type Column struct {
	Scheme string

	Levels int
	Dz     float64
	Dt     float64
	Steps  int

	SurfaceTemperature float64

	CloudBase, CloudTop int
	CloudWater          float64
	DropletNumber       float64

	LogEvery int
}

// ColumnConfig reads the column scenario from the configuration.
func ColumnConfig(cfg *viper.Viper) (*Column, error) {
	c := &Column{
		Scheme:             cfg.GetString("scheme"),
		Levels:             cast.ToInt(cfg.Get("Column.Levels")),
		Dz:                 cast.ToFloat64(cfg.Get("Column.Dz")),
		Dt:                 cast.ToFloat64(cfg.Get("Column.Dt")),
		Steps:              cast.ToInt(cfg.Get("Column.Steps")),
		SurfaceTemperature: cast.ToFloat64(cfg.Get("Column.SurfaceTemperature")),
		CloudBase:          cast.ToInt(cfg.Get("Cloud.Base")),
		CloudTop:           cast.ToInt(cfg.Get("Cloud.Top")),
		CloudWater:         cast.ToFloat64(cfg.Get("Cloud.Water")),
		DropletNumber:      cast.ToFloat64(cfg.Get("Cloud.DropletNumber")),
		LogEvery:           cast.ToInt(cfg.Get("LogEvery")),
	}
	if c.Levels < 2 {
		return nil, fmt.Errorf("bulkmicro: Column.Levels is %d; need at least 2", c.Levels)
	}
	if c.Dz <= 0 || c.Dt <= 0 {
		return nil, fmt.Errorf("bulkmicro: Column.Dz=%g and Column.Dt=%g must be positive", c.Dz, c.Dt)
	}
	if c.CloudBase < 0 || c.CloudTop >= c.Levels || c.CloudBase > c.CloudTop {
		return nil, fmt.Errorf("bulkmicro: cloud layer [%d,%d] does not fit in %d levels",
			c.CloudBase, c.CloudTop, c.Levels)
	}
	if c.LogEvery < 1 {
		c.LogEvery = 1
	}
	return c, nil
}

// esat is the saturation vapor pressure over liquid water [Pa]
// (Tetens formula).
func esat(T float64) float64 {
	return 610.78 * math.Exp(17.27*(T-273.16)/(T-35.86))
}

// state builds the initial microphysical state for the scenario: a
// hydrostatic column at a fixed lapse rate with a prescribed liquid
// cloud layer, nearly saturated within the cloud and drier elsewhere.
func (c *Column) state() *bulkmicro.Micro {
	m := bulkmicro.NewMicro(c.Levels, 1, 1, c.Dt)
	m.Nc = c.DropletNumber
	m.Shape = rainshape.Parameters
	for k := 0; k < c.Levels; k++ {
		z := (float64(k) + 0.5) * c.Dz
		T := c.SurfaceTemperature - γlapse*z
		p := p0 * math.Pow(1.-γlapse*z/c.SurfaceTemperature, 9.81/(rd*γlapse))
		exner := math.Pow(p/p0, rd/cpAir)
		es := esat(T)
		qvsl := rd / 461.5 * es / (p - es)

		m.Dzf[k] = c.Dz
		m.Rhof[k] = p / (rd * T)
		m.Exnf[k] = exner
		m.Tmp0.Set(T, k, 0, 0)
		m.Esl.Set(es, k, 0, 0)
		m.Qvsl.Set(qvsl, k, 0, 0)

		ql, rh := 0., 0.8
		if k >= c.CloudBase && k <= c.CloudTop {
			ql, rh = c.CloudWater, 0.99
		}
		m.QL0.Set(ql, k, 0, 0)
		m.Qt0.Set(rh*qvsl+ql, k, 0, 0)
		m.Thl0.Set(T/exner-rlvHeat/(cpAir*exner)*ql, k, 0, 0)
	}
	return m
}

// Run integrates the scenario, advancing the prognostic fields with
// forward-Euler updates from the accumulated tendencies, and logs
// surface rain statistics.
func (c *Column) Run(log *logrus.Logger) error {
	s, err := bulkmicro.NewScheme(c.Scheme)
	if err != nil {
		return err
	}
	m := c.state()

	log.WithFields(logrus.Fields{
		"scheme": s.Name(),
		"levels": c.Levels,
		"dz":     c.Dz,
		"dt":     c.Dt,
		"steps":  c.Steps,
	}).Info("starting column simulation")

	var rainRate stats.Stats
	var accumulated float64 // m of surface rain
	for n := 0; n < c.Steps; n++ {
		m.ResetTendencies()
		if err := m.Step(s); err != nil {
			return err
		}

		for k := 0; k < c.Levels; k++ {
			qr := math.Max(0., m.QR.Get(k, 0, 0)+m.QRp.Get(k, 0, 0)*c.Dt)
			nr := math.Max(0., m.NR.Get(k, 0, 0)+m.NRp.Get(k, 0, 0)*c.Dt)
			m.QR.Set(qr, k, 0, 0)
			m.NR.Set(nr, k, 0, 0)
			m.Qt0.AddVal(m.Qtpmcr.Get(k, 0, 0)*c.Dt, k, 0, 0)
			m.Thl0.AddVal(m.Thlpmcr.Get(k, 0, 0)*c.Dt, k, 0, 0)
			// The cloud layer is held fixed; condensation is not
			// modeled here.
		}

		// Surface rain rate from the precipitation flux diagnostic in
		// the bottom level [m/s water equivalent].
		rate := m.Precep.Get(0, 0, 0) * m.Rhof[0] / ρwater
		rainRate.Update(rate)
		accumulated += rate * c.Dt

		if (n+1)%c.LogEvery == 0 {
			log.WithFields(logrus.Fields{
				"step":        n + 1,
				"rain [mm/h]": rate * 3.6e6,
			}).Info("column state")
		}
	}

	total := unit.New(accumulated, unit.Meter)
	peak := unit.New(rainRate.Max(), unit.MeterPerSecond)
	mean := unit.New(rainRate.Mean(), unit.MeterPerSecond)
	log.WithFields(logrus.Fields{
		"accumulated": fmt.Sprintf("%v", total),
		"peak rate":   fmt.Sprintf("%v", peak),
		"mean rate":   fmt.Sprintf("%v", mean),
	}).Info("column simulation finished")
	return nil
}
