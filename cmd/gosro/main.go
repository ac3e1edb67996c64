// gosro computes the Cowley short-range-order parameters for every frame of a bond
// trajectory (btf) file, and writes them as a CSV or JSON table and/or a plot.
//
// Usage:
//
//	gosro [flags] [input.btf] [plot file]
//
// Every flag can also be given in a configuration file (-c) or as a GOSRO_* environment
// variable.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gonum.org/v1/plot/vg"

	sro "github.com/rmera/gosro"
	"github.com/rmera/gosro/bondgraph"
	"github.com/rmera/gosro/internal/config"
	"github.com/rmera/gosro/internal/logging"
	"github.com/rmera/gosro/sroplot"
	"github.com/rmera/gosro/traj/btf"
)

// defaultNames is used when neither the configuration nor the trajectory name the species,
// as long as it covers all of them.
const defaultNames = "1:Fe,2:Ni,3:Cr,4:Co,5:Mn"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, "gosro:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := config.Flags()
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	v := viper.New()
	config.SetDefaults(v)
	if err := config.BindFlags(v, fs); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		v.Set("input", fs.Arg(0))
	}
	if fs.NArg() > 1 {
		v.Set("plot.file", fs.Arg(1))
	}
	configFile, _ := fs.GetString("config")
	c, err := config.Load(v, configFile)
	if err != nil {
		return err
	}
	log, err := logging.New(stderr, c.LogLevel, true)
	if err != nil {
		return err
	}

	traj, err := btf.Load(c.Input)
	if err != nil {
		return fmt.Errorf("reading trajectory: %w", err)
	}
	log.Info().Str("file", c.Input).Int("frames", traj.Len()).Int("atoms", traj.NAtoms()).Msg("trajectory read")

	names, err := typeMap(c, traj)
	if err != nil {
		return err
	}
	species, err := speciesSet(c, traj)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		if def, _ := sro.ParseTypeMap(defaultNames); def.Check(species) == nil {
			names = def
		}
	}
	if err := names.Check(species); err != nil {
		return fmt.Errorf("species names: %w", err)
	}
	pairs, err := c.PairList(species)
	if err != nil {
		return err
	}
	log.Info().Ints("species", species).Str("names", names.String()).Int("pairs", len(pairs)).Msg("settings")

	if c.CheckBonds {
		if err := checkBonds(traj, log); err != nil {
			return err
		}
	}

	progress := func(i int, f *sro.Frame, M *sro.Matrix) {
		log.Debug().Int("frame", i).Float64("time", f.Time).Int("bonds", M.NBonds()).Msg("frame done")
	}
	var T *sro.Table
	if c.Workers == 1 {
		T, err = sro.Aggregate(traj, species, pairs, progress)
	} else {
		T, err = sro.AggregateConc(traj, species, pairs, c.Workers, progress)
	}
	if err != nil {
		return fmt.Errorf("computing SRO: %w", err)
	}

	csvout := c.CSV
	if csvout == "" && c.JSON == "" && c.Plot.File == "" {
		csvout = "-"
	}
	if csvout != "" {
		if err := writeFile(csvout, stdout, func(w io.Writer) error { return T.WriteCSV(w, names) }); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
	}
	if c.JSON != "" {
		if err := writeFile(c.JSON, stdout, func(w io.Writer) error { return json.NewEncoder(w).Encode(T) }); err != nil {
			return fmt.Errorf("writing JSON: %w", err)
		}
	}
	if c.Plot.File != "" {
		o := &sroplot.Options{
			Title:     c.Plot.Title,
			XLabel:    c.Plot.XLabel,
			YLabel:    c.Plot.YLabel,
			TimeScale: c.TimeScale,
			Width:     vg.Length(c.Plot.Width) * vg.Centimeter,
			Height:    vg.Length(c.Plot.Height) * vg.Centimeter,
			Pairs:     pairs,
		}
		if err := sroplot.Save(T, names, o, c.Plot.File); err != nil {
			return fmt.Errorf("saving plot: %w", err)
		}
		log.Info().Str("file", c.Plot.File).Msg("plot saved")
	}
	if T.Len() > 0 {
		last, values := T.Row(T.Len() - 1)
		ev := log.Info().Int("frames", T.Len()).Float64("last_time", last)
		labels, _ := T.Labels(names)
		for i, l := range labels {
			ev = ev.Float64(l, values[i])
		}
		ev.Msg("done")
	}
	return nil
}

// typeMap returns the species names from the configuration or, failing that, from the
// trajectory header.
func typeMap(c *config.Config, traj *btf.Trajectory) (sro.TypeMap, error) {
	names, err := c.Names()
	if err != nil {
		return nil, fmt.Errorf("typemap option: %w", err)
	}
	if len(names) > 0 {
		return names, nil
	}
	names, err = traj.TypeMap()
	if err != nil {
		return nil, fmt.Errorf("typemap in %s: %w", c.Input, err)
	}
	return names, nil
}

// speciesSet returns the species given in the configuration or, if none are, all the
// labels found in the trajectory.
func speciesSet(c *config.Config, traj *btf.Trajectory) ([]int, error) {
	species, err := c.SpeciesSet()
	if err != nil || species != nil {
		return species, err
	}
	var types []int
	for i := 0; i < traj.Len(); i++ {
		f, err := traj.Frame(i)
		if err != nil {
			return nil, err
		}
		types = append(types, sro.SpeciesFromTypes(f.Types)...)
	}
	species = sro.SpeciesFromTypes(types)
	if len(species) == 0 {
		return nil, fmt.Errorf("no species found in %s", c.Input)
	}
	return species, nil
}

// checkBonds builds the bond graph of each frame, failing on malformed bond lists.
func checkBonds(traj *btf.Trajectory, log zerolog.Logger) error {
	for i := 0; i < traj.Len(); i++ {
		f, err := traj.Frame(i)
		if err != nil {
			return err
		}
		G, err := bondgraph.FromFrame(f)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		S := G.Summary()
		if S.Bonds == 0 {
			log.Warn().Int("frame", i).Msg("no bonds")
		}
		log.Debug().Int("frame", i).Stringer("graph", S).Msg("bonds checked")
	}
	return nil
}

// writeFile calls write with the file name, or with stdout if name is "-".
func writeFile(name string, stdout io.Writer, write func(io.Writer) error) error {
	if name == "-" {
		return write(stdout)
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
