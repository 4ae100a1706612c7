package io

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/phil-mansfield/flipascii/flip"
)

func TestDefaultConfig(t *testing.T) {
	con := DefaultFluidWrapper().Fluid
	require.NoError(t, con.CheckInit())
	assert.InDelta(t, 1.0/180, con.Dt(), 1e-12)
	assert.Equal(t, flip.DefaultParams(), con.Params())
	assert.Equal(t, flip.DefaultTankConfig(), con.TankConfig())
	assert.False(t, con.ValidLogFile())
}

func TestExampleConfig(t *testing.T) {
	con, err := ParseFluidConfig(ExampleFluidFile)
	require.NoError(t, err)
	assert.Equal(t, DefaultFluidWrapper().Fluid, *con)
}

func TestParseConfig(t *testing.T) {
	con, err := ParseFluidConfig(`[Fluid]
Gravity = -9.8
FPS = 30
SeparateParticles = false
LogFile = sim.log`)
	require.NoError(t, err)

	assert.Equal(t, -9.8, con.Gravity)
	assert.InDelta(t, 1.0/90, con.Dt(), 1e-12)
	assert.False(t, con.Params().SeparateParticles)
	assert.True(t, con.ValidLogFile())
	assert.Equal(t, 15, con.PressureIters)
}

func TestInvalidConfig(t *testing.T) {
	tests := []string{
		"FPS = 0",
		"SubSteps = -1",
		"FlipRatio = 1.5",
		"PressureIters = -1",
		"OverRelaxation = 2",
		"Density = 0",
		"RelWaterHeight = 2",
		"Smoothing = 0",
		"RadiusEasing = 1.1",
		"ExplosionRadius = 0",
	}

	for _, test := range tests {
		_, err := ParseFluidConfig("[Fluid]\n" + test)
		assert.Error(t, err, test)
	}

	_, err := ParseFluidConfig("[Fluid]\nNotAField = 3")
	assert.Error(t, err)
}

func TestReadConfigFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "fluid.cfg")
	require.NoError(t, os.WriteFile(fname, []byte("[Fluid]\nFPS = 120\n"), 0644))

	con, err := ReadFluidConfig(fname)
	require.NoError(t, err)
	assert.Equal(t, 120, con.FPS)

	con, err = ReadFluidConfig("")
	require.NoError(t, err)
	assert.Equal(t, 60, con.FPS)

	_, err = ReadFluidConfig(filepath.Join(t.TempDir(), "missing.cfg"))
	assert.Error(t, err)
}

func TestGridRoundTrip(t *testing.T) {
	hd := &GridHeader{NX: 3, NY: 2, Frame: 7, H: 0.25, RestDensity: 3.5}
	xs := []float32{0, 1, 2, 3, 4.5, 5}

	buf := &bytes.Buffer{}
	require.NoError(t, WriteGrid(buf, hd, xs))
	assert.Equal(t, 48+4*len(xs), buf.Len())

	rhd, rxs, err := ReadGrid(buf)
	require.NoError(t, err)
	assert.Equal(t, hd, rhd)
	assert.Equal(t, xs, rxs)

	assert.Error(t, WriteGrid(&bytes.Buffer{}, hd, xs[:5]))
}

func TestReadGridErrors(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteGrid(buf, &GridHeader{NX: 2, NY: 2},
		[]float32{1, 2, 3, 4}))
	data := buf.Bytes()

	_, _, err := ReadGrid(bytes.NewReader(data[:10]))
	assert.Error(t, err, "truncated header")
	_, _, err = ReadGrid(bytes.NewReader(data[:len(data)-1]))
	assert.Error(t, err, "truncated grid")

	bad := append([]byte{}, data...)
	bad[0] = 0
	_, _, err = ReadGrid(bytes.NewReader(bad))
	assert.Error(t, err, "endianness")

	shapes := []struct {
		nx, ny int64
	}{
		{-1, 4},
		{1 << 31, 1 << 31},
		{1 << 32, 1 << 32}, // NX*NY wraps around to zero
		{MaxGridCells, 2},
	}
	for _, shape := range shapes {
		_, _, err = ReadGrid(bytes.NewReader(gridHeaderBytes(t, shape.nx, shape.ny)))
		assert.Error(t, err, "%d x %d grid", shape.nx, shape.ny)
	}

	// A legal shape with no data behind it.
	hdr := gridHeaderBytes(t, 4096, 4096)
	_, _, err = ReadGrid(bytes.NewReader(append(hdr, 0, 0, 0, 0)))
	assert.ErrorContains(t, err, "0 of 16777216 cells")
}

func gridHeaderBytes(t *testing.T, nx, ny int64) []byte {
	hd := &GridHeader{Endianness: -1, NX: nx, NY: ny}
	hd.HeaderSize = int64(binary.Size(hd))
	buf := &bytes.Buffer{}
	require.NoError(t, binary.Write(buf, binary.LittleEndian, hd))
	return buf.Bytes()
}

func TestGridFile(t *testing.T) {
	tank := flip.Setup(flip.NewLayout(160, 96), flip.DefaultTankConfig())
	tank.Simulate(1.0/180, flip.DefaultParams(), flip.Obstacle{})

	fname := filepath.Join(t.TempDir(), "grid.flip")
	require.NoError(t, WriteGridFile(fname, tank, 1))

	hd, xs, err := ReadGridFile(fname)
	require.NoError(t, err)
	assert.Equal(t, int64(tank.NX), hd.NX)
	assert.Equal(t, int64(tank.NY), hd.NY)
	assert.Equal(t, int64(1), hd.Frame)
	assert.Equal(t, tank.RestDensity, hd.RestDensity)
	require.Equal(t, tank.Cells, len(xs))
	for i := range xs {
		assert.InDelta(t, tank.ParticleDensity[i], xs[i], 1e-4)
	}
}

func TestWriteGridFileFailure(t *testing.T) {
	tank := flip.Setup(flip.NewLayout(160, 96), flip.DefaultTankConfig())
	tank.ParticleDensity = tank.ParticleDensity[:1]

	fname := filepath.Join(t.TempDir(), "grid.flip")
	assert.Error(t, WriteGridFile(fname, tank, 1))
	_, err := os.Stat(fname)
	assert.True(t, os.IsNotExist(err), "partial dump left behind")
}

func TestReadReplay(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "replay.txt")
	text := "5 10 20 1\n0 1.5 2.5 0\n5 11 21 0\n12 3 4 1\n"
	require.NoError(t, os.WriteFile(fname, []byte(text), 0644))

	events, err := ReadReplay(fname)
	require.NoError(t, err)
	assert.Equal(t, []PointerEvent{
		{0, 1.5, 2.5, false},
		{5, 10, 20, true},
		{5, 11, 21, false},
		{12, 3, 4, true},
	}, events)

	r := NewReplay(events)
	assert.Len(t, r.Until(-1), 0)
	assert.Len(t, r.Until(4), 1)
	assert.Len(t, r.Until(5), 2)
	assert.Len(t, r.Until(5), 0)
	assert.False(t, r.Done())
	assert.Len(t, r.Until(100), 1)
	assert.True(t, r.Done())
}

func TestWatchFluidConfig(t *testing.T) {
	defer goleak.VerifyNone(t)

	fname := filepath.Join(t.TempDir(), "fluid.cfg")
	require.NoError(t, os.WriteFile(fname, []byte("[Fluid]\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	reloads := make(chan *FluidConfig, 16)
	done := make(chan error)
	go func() {
		done <- WatchFluidConfig(ctx, fname, func(con *FluidConfig, err error) {
			if err != nil {
				return
			}
			select {
			case reloads <- con:
			default:
			}
		})
	}()

	// The watcher might not be registered yet, so keep writing until it
	// notices. A reload can also catch the file half written.
	found := false
	for i := 0; !found && i < 100; i++ {
		require.NoError(t, os.WriteFile(fname,
			[]byte("[Fluid]\nGravity = -5\n"), 0644))
		select {
		case con := <-reloads:
			found = con.Gravity == -5
		case <-time.After(50 * time.Millisecond):
		}
	}
	cancel()
	require.NoError(t, <-done)
	assert.True(t, found)
}
