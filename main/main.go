package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phil-mansfield/gosphere"
	"github.com/phil-mansfield/gosphere/geom"
	"github.com/phil-mansfield/gosphere/io"
	"github.com/phil-mansfield/gosphere/logging"
)

func main() {
	var (
		convert, table, dump, info string
		configFile, output, level  string
		shardID                    int
		exampleConfig              bool
	)
	vars := map[string]*string{
		"Convert": &convert,
		"Table":   &table,
		"Dump":    &dump,
		"Info":    &info,
	}

	flag.StringVar(
		&convert, "Convert", "",
		"Data file which is converted into a checkpoint in the Output directory.",
	)
	flag.StringVar(
		&table, "Table", "",
		"Headerless column file of atoms which is converted into a "+
			"checkpoint in the Output directory.",
	)
	flag.StringVar(
		&dump, "Dump", "",
		"Checkpoint directory which is written out as a data file to Output, "+
			"or to stdout if Output is not set.",
	)
	flag.StringVar(
		&info, "Info", "", "Checkpoint directory to print a summary of.",
	)
	flag.StringVar(&configFile, "Config", "", "Configuration file. Required.")
	flag.StringVar(&output, "Output", "", "Output file or directory.")
	flag.StringVar(&level, "Log", "", "Log level. Overrides the [Log] section.")
	flag.IntVar(&shardID, "Shard", 0, "Index of the shard being read or written.")
	flag.BoolVar(
		&exampleConfig, "ExampleConfig", false,
		"Prints an example configuration file to stdout.",
	)

	flag.Parse()
	logging.ConfigureRuntime()

	if exampleConfig {
		fmt.Println(io.ExampleConfigFile)
		return
	}

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal().Err(err).Msg("Bad flags.")
	}
	if configFile == "" {
		log.Fatal().Msg("Must supply a Config file.")
	}

	con, err := io.ReadConfig(configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not read config.")
	}
	if level == "" {
		level = con.Log.Level
	}
	if err := logging.SetLevel(level); err != nil {
		log.Fatal().Err(err).Msg("Bad log level.")
	}

	sh, err := gosphere.NewShard(
		shardID, con.StoreConfig(), con.Transform(), con.Modules()...,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not create shard.")
	}

	switch modeName {
	case "Convert":
		err = convertMain(sh, convert, output)
	case "Table":
		err = tableMain(sh, table, output)
	case "Dump":
		err = dumpMain(sh, con, dump, output)
	case "Info":
		err = infoMain(sh, info)
	default:
		panic("Impossible")
	}
	if err != nil {
		log.Fatal().Err(err).Str("mode", modeName).Msg("Failed.")
	}
}

// getModeName returns the name of the mode and fails with a descriptive error
// if the user provided less or more than one mode flag.
func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}
	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No mode flags have been set.")
	} else if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but gosphere only accepts "+
				"one mode at a time.", strings.Join(setNames, ", "),
		)
	}
	return setNames[0], nil
}

func convertMain(sh *gosphere.Shard, input, output string) error {
	if output == "" {
		return fmt.Errorf("Convert needs an Output directory.")
	}
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.ReadData(f, sh.Store); err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	return save(sh, output)
}

func tableMain(sh *gosphere.Shard, input, output string) error {
	if output == "" {
		return fmt.Errorf("Table needs an Output directory.")
	}
	if _, err := io.ReadAtomsTable(input, sh.Store); err != nil {
		return err
	}
	return save(sh, output)
}

func save(sh *gosphere.Shard, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return sh.Save(dir)
}

func dumpMain(sh *gosphere.Shard, con *io.Config, dir, output string) error {
	if _, err := sh.Load(dir); err != nil {
		return err
	}

	box := &con.Box
	hd := &io.DataHeader{
		Title:     fmt.Sprintf("gosphere dump of %s", filepath.Base(dir)),
		Hi:        geom.Vec{box.Lx, box.Ly, box.Lz},
		Triclinic: strings.EqualFold(box.Style, "triclinic"),
		XY:        box.XY,
		XZ:        box.XZ,
		YZ:        box.YZ,
	}
	if output == "" {
		return io.WriteData(os.Stdout, sh.Store, hd)
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := io.WriteData(f, sh.Store, hd); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func infoMain(sh *gosphere.Shard, dir string) error {
	if _, err := sh.Load(dir); err != nil {
		return err
	}
	s := sh.Store
	fmt.Printf("Shard:      %d\n", sh.ID)
	fmt.Printf("Particles:  %d\n", s.N)
	fmt.Printf("Capacity:   %d\n", s.Cap())
	fmt.Printf("Memory:     %d bytes\n", s.MemoryUsage())
	fmt.Printf("Modules:    %s\n", strings.Join(s.Ext.Names(), ", "))
	fmt.Printf("Restart:    %d slots\n", sh.Codec.SizeRestart(s))
	fmt.Printf("Variable:   %v\n", sh.Codec.VariableRadius())
	return nil
}
