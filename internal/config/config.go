// Package config reads the configuration of the gosro command from defaults, an
// optional configuration file (JSON, YAML or TOML), GOSRO_* environment variables and
// command-line flags, in increasing order of priority.
package config

import (
	"fmt"
	"strconv"
	"strings"

	sro "github.com/rmera/gosro"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// PlotConfig holds the settings for the SRO plot.
type PlotConfig struct {
	File   string  `mapstructure:"file"`
	Title  string  `mapstructure:"title"`
	XLabel string  `mapstructure:"xlabel"`
	YLabel string  `mapstructure:"ylabel"`
	Width  float64 `mapstructure:"width"`  //cm
	Height float64 `mapstructure:"height"` //cm
}

// Config is the configuration of a gosro run.
type Config struct {
	Input      string     `mapstructure:"input"`
	CSV        string     `mapstructure:"csv"`
	JSON       string     `mapstructure:"json"`
	Plot       PlotConfig `mapstructure:"plot"`
	TypeMap    string     `mapstructure:"typemap"`
	Species    string     `mapstructure:"species"`
	Pairs      string     `mapstructure:"pairs"`
	Workers    int        `mapstructure:"workers"`
	TimeScale  float64    `mapstructure:"timescale"`
	LogLevel   string     `mapstructure:"loglevel"`
	CheckBonds bool       `mapstructure:"checkbonds"`
}

// SetDefaults sets the default values in v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input", "")
	v.SetDefault("csv", "")
	v.SetDefault("json", "")
	v.SetDefault("plot.file", "")
	v.SetDefault("plot.title", "")
	v.SetDefault("plot.xlabel", "time (ns)")
	v.SetDefault("plot.ylabel", "first ij Cowley SRO parameter")
	v.SetDefault("plot.width", 12.0)
	v.SetDefault("plot.height", 9.0)
	v.SetDefault("typemap", "")
	v.SetDefault("species", "")
	v.SetDefault("pairs", "")
	v.SetDefault("workers", 1)
	v.SetDefault("timescale", 1e-6)
	v.SetDefault("loglevel", "info")
	v.SetDefault("checkbonds", false)
}

// Flags returns the command-line flags of gosro. The flag names are the configuration
// keys, with "plot-" instead of "plot." for the plot keys.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("gosro", pflag.ContinueOnError)
	fs.StringP("config", "c", "", "configuration file (json, yaml or toml)")
	fs.StringP("input", "i", "", "bond trajectory (btf) file")
	fs.String("csv", "", "write the SRO table as CSV to this file, - for standard output")
	fs.String("json", "", "write the SRO table as JSON to this file")
	fs.StringP("plot", "o", "", "save the SRO plot to this file (png, svg, pdf...)")
	fs.String("plot-title", "", "title of the plot")
	fs.Float64("plot-width", 12, "plot width in cm")
	fs.Float64("plot-height", 9, "plot height in cm")
	fs.StringP("typemap", "t", "", "species names, as label:name items, i.e. 1:Fe,2:Ni")
	fs.StringP("species", "s", "", "species labels to report on, i.e. 1,2,3")
	fs.StringP("pairs", "p", "", "species pairs to report, as i-j items, i.e. 1-1,1-2. All pairs if not given")
	fs.IntP("workers", "w", 1, "frames computed concurrently, 0 for one per CPU")
	fs.Float64("timescale", 1e-6, "factor for the frame times in the plot")
	fs.String("loglevel", "info", "log level")
	fs.Bool("checkbonds", false, "check every bond list for self and repeated bonds")
	return fs
}

// BindFlags binds the flags returned by Flags to their keys in v.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, name := range []string{"input", "csv", "json", "typemap", "species", "pairs", "workers", "timescale", "loglevel", "checkbonds"} {
		if err := v.BindPFlag(name, fs.Lookup(name)); err != nil {
			return err
		}
	}
	for flag, key := range map[string]string{"plot": "plot.file", "plot-title": "plot.title", "plot-width": "plot.width", "plot-height": "plot.height"} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the configuration into a Config. configFile is read if not empty.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	v.SetEnvPrefix("GOSRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	c := new(Config)
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("error decoding configuration: %w", err)
	}
	if c.Input == "" {
		return nil, fmt.Errorf("no input trajectory given")
	}
	if c.Workers < 0 {
		return nil, fmt.Errorf("invalid number of workers: %d", c.Workers)
	}
	if c.TimeScale <= 0 {
		return nil, fmt.Errorf("invalid time scale: %g", c.TimeScale)
	}
	return c, nil
}

// Names returns the type map in the configuration, or nil if none is given.
func (c *Config) Names() (sro.TypeMap, error) {
	if strings.TrimSpace(c.TypeMap) == "" {
		return nil, nil
	}
	return sro.ParseTypeMap(c.TypeMap)
}

// SpeciesSet returns the species labels in the configuration, or nil if none are given.
func (c *Config) SpeciesSet() ([]int, error) {
	if strings.TrimSpace(c.Species) == "" {
		return nil, nil
	}
	items := strings.Split(c.Species, ",")
	ret := make([]int, 0, len(items))
	for _, v := range items {
		l, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("invalid species label %q: %w", v, err)
		}
		ret = append(ret, l)
	}
	return ret, nil
}

// PairList returns the pairs in the configuration. If none are given, it returns all the
// pairs with replacement of species.
func (c *Config) PairList(species []int) ([]sro.Pair, error) {
	if strings.TrimSpace(c.Pairs) == "" {
		return sro.PairsWithReplacement(species), nil
	}
	items := strings.Split(c.Pairs, ",")
	ret := make([]sro.Pair, 0, len(items))
	for _, v := range items {
		ij := strings.Split(strings.TrimSpace(v), "-")
		if len(ij) != 2 {
			return nil, fmt.Errorf("invalid pair %q, pairs are written as i-j", v)
		}
		i, err1 := strconv.Atoi(ij[0])
		j, err2 := strconv.Atoi(ij[1])
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("invalid pair %q, pairs are written as i-j", v)
		}
		ret = append(ret, sro.Pair{I: i, J: j})
	}
	return ret, nil
}
