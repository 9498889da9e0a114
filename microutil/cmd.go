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

// Package microutil holds the configuration and commands of the
// bulkmicro command-line interface.
package microutil

import (
	"fmt"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var logger *logrus.Logger

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	logger = logrus.StandardLogger()
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:  true,
		DisableSorting: true,
	})

	// Options are the configuration options available to bulkmicro.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "scheme",
			usage: `
              scheme specifies the microphysical closure: 'spectral' for the
              two-moment spectral-collection scheme or 'empirical' for the
              drizzle power laws.`,
			shorthand:  "s",
			defaultVal: "spectral",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Column.Levels",
			usage: `
              Column.Levels is the number of vertical levels in the column.`,
			defaultVal: 60,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Column.Dz",
			usage: `
              Column.Dz is the layer thickness [m].`,
			defaultVal: 50.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Column.Dt",
			usage: `
              Column.Dt is the model time step [s].`,
			defaultVal: 10.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Column.Steps",
			usage: `
              Column.Steps is the number of time steps to run.`,
			defaultVal: 360,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Column.SurfaceTemperature",
			usage: `
              Column.SurfaceTemperature is the air temperature at the bottom
              of the column [K].`,
			defaultVal: 288.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Cloud.Base",
			usage: `
              Cloud.Base is the index of the lowest cloudy level.`,
			defaultVal: 15,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Cloud.Top",
			usage: `
              Cloud.Top is the index of the highest cloudy level.`,
			defaultVal: 30,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Cloud.Water",
			usage: `
              Cloud.Water is the prescribed cloud water mixing ratio within
              the cloudy layers [kg/kg].`,
			defaultVal: 1.0e-3,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Cloud.DropletNumber",
			usage: `
              Cloud.DropletNumber is the cloud droplet number
              concentration [1/m³].`,
			defaultVal: 70.0e6,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogEvery",
			usage: `
              LogEvery specifies how many steps pass between status
              messages.`,
			defaultVal: 30,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("BULKMICRO")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("bulkmicro: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "bulkmicro",
	Short: "A two-moment warm-rain microphysics column model.",
	Long: `bulkmicro integrates a two-moment bulk warm-rain microphysics
scheme over a single atmospheric column and reports the resulting
surface precipitation.

Configuration can be changed by using a configuration file (and providing
the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format
'BULKMICRO_var' where 'var' is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of bulkmicro.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("bulkmicro v%s\n", Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a column simulation.",
	Long: `run integrates the microphysics over the configured column,
with a fixed cloud layer maintained over the configured levels, and
reports surface rain statistics when finished.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		col, err := ColumnConfig(Cfg)
		if err != nil {
			return err
		}
		return col.Run(logger)
	},
	DisableAutoGenTag: true,
}

// Version is the version number of this version of bulkmicro.
const Version = "1.0.0"
