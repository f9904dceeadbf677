package io

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/exp/slices"
	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/gosphere/domain"
	"github.com/phil-mansfield/gosphere/extension"
	"github.com/phil-mansfield/gosphere/geom"
	"github.com/phil-mansfield/gosphere/store"
)

const ExampleConfigFile = `[Sim]

#######################
# Required Parameters #
#######################

# Number of particle types. Every type read from a data file must lie in
# the range [1, Types].
Types = 1

#######################
# Optional Parameters #
#######################

# Dimension must be 2 or 3. It changes how mass is derived from radius and
# density. Default is 3.
# Dimension = 3

# Number of workers which accumulate forces in parallel. Each gets its own
# force and torque region. Default is 1.
# Threads = 1

[Box]

# Style must be one of [ Orthogonal | Triclinic | Wedge ].
Style = Orthogonal

# Edge lengths of the periodic cell.
Lx = 10
Ly = 10
Lz = 10

# Tilt factors, only read for Triclinic cells.
# XY = 0
# XZ = 0
# YZ = 0

# Wedge cells are periodic in angle. Axis is the axis of the wedge and
# AngleAxis is the direction whose crossings rotate particles by Angle
# radians around it. Both must be one of [ X | Y | Z ]. Lengths along Axis
# are taken from Lx, Ly or Lz.
# Axis = Z
# AngleAxis = Y
# Angle = 0.785398
# CenterX = 0
# CenterY = 0
# CenterZ = 0

#[Deform]

# Set Remap to true if ghost velocities must be remapped across periodic
# boundaries of a deforming cell. Only particles whose mask shares a bit
# with GroupBit are remapped.
# Remap = true
# GroupBit = 1
# RateXX = 0
# RateYY = 0
# RateZZ = 0
# RateYZ = 0
# RateXZ = 0
# RateXY = 0

#[Log]

# Level must be one of [ Trace | Debug | Info | Warn | Error | Off ].
# Level = Info

# Each [Property "name"] section registers a per-particle property which
# travels with its particle through border, exchange and restart records.
#[Property "temperature"]
# Width = 1
# Vary = false`

type SimConfig struct {
	// Required
	Types int

	// Optional
	Dimension, Threads int
}

type BoxConfig struct {
	// Required
	Style      string
	Lx, Ly, Lz float64

	// Optional
	XY, XZ, YZ                float64
	Axis, AngleAxis           string
	Angle                     float64
	CenterX, CenterY, CenterZ float64
}

type DeformConfig struct {
	Remap    bool
	GroupBit int

	RateXX, RateYY, RateZZ float64
	RateYZ, RateXZ, RateXY float64
}

type LogConfig struct {
	Level string
}

type PropertyConfig struct {
	Width int
	Vary  bool
}

// Config is the complete contents of a configuration file.
type Config struct {
	Sim      SimConfig
	Box      BoxConfig
	Deform   DeformConfig
	Log      LogConfig
	Property map[string]*PropertyConfig
}

// DefaultConfig returns a Config with every optional value set.
func DefaultConfig() *Config {
	return &Config{
		Sim: SimConfig{Dimension: 3, Threads: 1},
		Box: BoxConfig{Style: "Orthogonal"},
	}
}

// ReadConfig reads the configuration file at path and checks it. Files
// ending in .toml are decoded as TOML, everything else as gcfg INI.
func ReadConfig(path string) (*Config, error) {
	con := DefaultConfig()
	var err error
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err = toml.DecodeFile(path, con)
	} else {
		err = gcfg.ReadFileInto(con, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := con.CheckInit(); err != nil {
		return nil, err
	}
	return con, nil
}

// ReadConfigString is ReadConfig for gcfg text held in memory.
func ReadConfigString(str string) (*Config, error) {
	con := DefaultConfig()
	if err := gcfg.ReadStringInto(con, str); err != nil {
		return nil, err
	}
	if err := con.CheckInit(); err != nil {
		return nil, err
	}
	return con, nil
}

// CheckInit validates con.
func (con *Config) CheckInit() error {
	sim, box := &con.Sim, &con.Box

	if sim.Types <= 0 {
		return fmt.Errorf("Need to specify a positive Types, but got %d.", sim.Types)
	} else if sim.Dimension != 2 && sim.Dimension != 3 {
		return fmt.Errorf("Dimension must be 2 or 3, but is %d.", sim.Dimension)
	} else if sim.Threads <= 0 {
		return fmt.Errorf("Threads must be positive, but is %d.", sim.Threads)
	}

	if box.Lx <= 0 || box.Ly <= 0 || box.Lz <= 0 {
		return fmt.Errorf(
			"Box lengths must be positive, but are (%g, %g, %g).",
			box.Lx, box.Ly, box.Lz,
		)
	}

	switch strings.ToLower(box.Style) {
	case "orthogonal", "triclinic":
	case "wedge":
		axis, ok := axisIndex(box.Axis)
		if !ok {
			return fmt.Errorf("Unrecognized wedge Axis '%s'.", box.Axis)
		}
		angleAxis, ok := axisIndex(box.AngleAxis)
		if !ok {
			return fmt.Errorf("Unrecognized wedge AngleAxis '%s'.", box.AngleAxis)
		} else if axis == angleAxis {
			return fmt.Errorf("Wedge Axis and AngleAxis are both '%s'.", box.Axis)
		}
		if box.Angle <= 0 || box.Angle > math.Pi {
			return fmt.Errorf(
				"Wedge Angle must be in range (0, pi], but is %g.", box.Angle,
			)
		}
	default:
		return fmt.Errorf("Unrecognized box Style '%s'.", box.Style)
	}

	if con.Deform.Remap && con.Deform.GroupBit == 0 {
		return fmt.Errorf("Deform Remap is set, but GroupBit is 0.")
	}

	for name, p := range con.Property {
		if p.Width <= 0 {
			return fmt.Errorf(
				"Property '%s' needs a positive Width, but has %d.", name, p.Width,
			)
		}
	}

	return nil
}

// StoreConfig returns the fixed store parameters.
func (con *Config) StoreConfig() store.Config {
	return store.Config{
		Dimension: con.Sim.Dimension,
		Types:     con.Sim.Types,
		Threads:   con.Sim.Threads,
	}
}

// Transform resolves the boundary geometry and deformation. con must have
// passed CheckInit.
func (con *Config) Transform() *domain.Transform {
	box := &con.Box
	length := geom.Vec{box.Lx, box.Ly, box.Lz}

	var g domain.Geometry
	switch strings.ToLower(box.Style) {
	case "orthogonal":
		g = &domain.Orthogonal{Length: length}
	case "triclinic":
		g = &domain.Triclinic{Length: length, XY: box.XY, XZ: box.XZ, YZ: box.YZ}
	case "wedge":
		axis, _ := axisIndex(box.Axis)
		angleAxis, _ := axisIndex(box.AngleAxis)
		g = &domain.Wedge{
			Axis: axis, AngleAxis: angleAxis,
			Center: geom.Vec{box.CenterX, box.CenterY, box.CenterZ},
			Angle:  box.Angle, Length: length[axis],
		}
	default:
		panic("Impossible")
	}

	t := domain.NewTransform(g)
	if d := &con.Deform; d.Remap {
		t.Deform = &domain.Deform{
			Rate: [6]float64{
				d.RateXX, d.RateYY, d.RateZZ, d.RateYZ, d.RateXZ, d.RateXY,
			},
			GroupBit: int32(d.GroupBit),
		}
	}
	return t
}

// Modules returns the configured properties sorted by name, so that every
// shard registers them in the same order.
func (con *Config) Modules() []extension.Module {
	names := make([]string, 0, len(con.Property))
	for name := range con.Property {
		names = append(names, name)
	}
	slices.Sort(names)

	mods := make([]extension.Module, len(names))
	for i, name := range names {
		p := extension.NewProperty(name, con.Property[name].Width)
		p.Vary = con.Property[name].Vary
		mods[i] = p
	}
	return mods
}

func axisIndex(s string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return 0, true
	case "y":
		return 1, true
	case "z":
		return 2, true
	}
	return 0, false
}
