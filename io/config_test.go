package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/gosphere/domain"
	"github.com/phil-mansfield/gosphere/extension"
	"github.com/phil-mansfield/gosphere/geom"
	"github.com/phil-mansfield/gosphere/logging/testlog"
)

func TestExampleConfig(t *testing.T) {
	testlog.Start(t)
	con, err := ReadConfigString(ExampleConfigFile)
	require.NoError(t, err)

	assert.Equal(t, 1, con.Sim.Types)
	assert.Equal(t, 3, con.Sim.Dimension)
	assert.Equal(t, 1, con.Sim.Threads)

	tr := con.Transform()
	assert.False(t, tr.Deforming())
	assert.Equal(t, &domain.Orthogonal{Length: geom.Vec{10, 10, 10}}, tr.Geometry)
	assert.Empty(t, con.Modules())
}

func TestConfigSections(t *testing.T) {
	testlog.Start(t)
	con, err := ReadConfigString(`
[Sim]
Types = 2
Dimension = 2
Threads = 4

[Box]
Style = Wedge
Lx = 1
Ly = 2
Lz = 3
Axis = z
AngleAxis = y
Angle = 0.5
CenterX = 1

[Deform]
Remap = true
GroupBit = 4
RateXX = 1
RateXY = 6

[Property "b"]
Width = 2

[Property "a"]
Width = 1
Vary = true
`)
	require.NoError(t, err)

	sc := con.StoreConfig()
	assert.Equal(t, 2, sc.Dimension)
	assert.Equal(t, 4, sc.Threads)

	tr := con.Transform()
	require.True(t, tr.Deforming())
	assert.Equal(t, int32(4), tr.Deform.GroupBit)
	assert.Equal(t, [6]float64{1, 0, 0, 0, 0, 6}, tr.Deform.Rate)
	assert.Equal(t, &domain.Wedge{
		Axis: 2, AngleAxis: 1, Center: geom.Vec{1, 0, 0}, Angle: 0.5, Length: 3,
	}, tr.Geometry)

	mods := con.Modules()
	require.Len(t, mods, 2)
	assert.Equal(t, "a", mods[0].Name())
	assert.Equal(t, "b", mods[1].Name())
	assert.True(t, mods[0].(*extension.Property).Vary)
	assert.Equal(t, 2, mods[1].(*extension.Property).Width)
}

func TestConfigCheckInit(t *testing.T) {
	testlog.Start(t)
	bad := []string{
		"[Sim]\nTypes = 0\n[Box]\nLx = 1\nLy = 1\nLz = 1",
		"[Sim]\nTypes = 1\nDimension = 4\n[Box]\nLx = 1\nLy = 1\nLz = 1",
		"[Sim]\nTypes = 1\n[Box]\nLx = 1\nLy = 0\nLz = 1",
		"[Sim]\nTypes = 1\n[Box]\nStyle = Sphere\nLx = 1\nLy = 1\nLz = 1",
		"[Sim]\nTypes = 1\n[Box]\nStyle = Wedge\nAxis = z\nAngleAxis = z\n" +
			"Angle = 1\nLx = 1\nLy = 1\nLz = 1",
		"[Sim]\nTypes = 1\n[Box]\nStyle = Wedge\nAxis = z\nAngleAxis = x\n" +
			"Angle = 4\nLx = 1\nLy = 1\nLz = 1",
		"[Sim]\nTypes = 1\n[Box]\nLx = 1\nLy = 1\nLz = 1\n[Deform]\nRemap = true",
		"[Sim]\nTypes = 1\n[Box]\nLx = 1\nLy = 1\nLz = 1\n[Property \"p\"]\nWidth = 0",
	}
	for _, str := range bad {
		_, err := ReadConfigString(str)
		assert.Error(t, err, str)
	}
}

func TestReadConfigTOML(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "sim.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[Sim]
Types = 3

[Box]
Style = "Triclinic"
Lx = 4.0
Ly = 5.0
Lz = 6.0
XY = 0.5

[Property.temperature]
Width = 1
`), 0644))

	con, err := ReadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, con.Sim.Types)
	assert.Equal(t, 3, con.Sim.Dimension)
	assert.Equal(t, &domain.Triclinic{Length: geom.Vec{4, 5, 6}, XY: 0.5},
		con.Transform().Geometry)
	assert.Equal(t, []string{"temperature"}, names(con.Modules()))

	_, err = ReadConfig(filepath.Join(t.TempDir(), "missing.ini"))
	assert.Error(t, err)
}

func names(mods []extension.Module) []string {
	out := make([]string, len(mods))
	for i, m := range mods {
		out[i] = m.Name()
	}
	return out
}
