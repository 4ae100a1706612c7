package io

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/phil-mansfield/flipascii/flip"
)

var end = binary.LittleEndian

/*
The binary format used for grid dumps is as follows:
    |-- 1 --||-- ... 2 ... --||-- ... 3 ... --|

    1 - (int64) Flag indicating the endianness of the file. 0 indicates a big
        endian byte ordering and -1 indicates a little endian byte order.
    2 - (GridHeader) The rest of the header, starting with its own size.
    3 - ([]float32) NX * NY particle densities, with y varying fastest.
*/
type GridHeader struct {
	Endianness int64
	HeaderSize int64

	NX, NY int64
	Frame  int64

	H           float64 // Cell width in simulation units
	RestDensity float64 // Particles per fluid cell at rest
}

// NewGridHeader describes the density grid of t after frame steps.
func NewGridHeader(t *flip.Tank, frame int) *GridHeader {
	hd := &GridHeader{
		NX: int64(t.NX), NY: int64(t.NY), Frame: int64(frame),
		H: t.H, RestDensity: t.RestDensity,
	}
	return hd
}

// WriteGrid writes a header and grid to wr.
func WriteGrid(wr io.Writer, hd *GridHeader, xs []float32) error {
	if int64(len(xs)) != hd.NX*hd.NY {
		return fmt.Errorf("Grid has %d cells, but its header expects %d x %d.",
			len(xs), hd.NX, hd.NY)
	}

	if end == binary.LittleEndian {
		hd.Endianness = -1
	} else {
		hd.Endianness = 0
	}
	hd.HeaderSize = int64(binary.Size(hd))

	if err := binary.Write(wr, end, hd); err != nil {
		return err
	}
	return binary.Write(wr, end, xs)
}

// MaxGridCells is the largest grid ReadGrid will accept.
const MaxGridCells = 1 << 26

// gridChunk is the number of cells ReadGrid reads at a time.
const gridChunk = 1 << 16

// ReadGrid reads a header and grid written by WriteGrid.
func ReadGrid(rd io.Reader) (*GridHeader, []float32, error) {
	hd := &GridHeader{}
	if err := binary.Read(rd, end, hd); err != nil {
		return nil, nil, fmt.Errorf("reading grid header: %w", err)
	}
	if hd.Endianness != -1 {
		return nil, nil, fmt.Errorf(
			"Grid has endianness flag %d, but only little endian grids "+
				"are supported.", hd.Endianness,
		)
	} else if hd.HeaderSize != int64(binary.Size(hd)) {
		return nil, nil, fmt.Errorf(
			"Grid header has size %d, but expected %d.",
			hd.HeaderSize, binary.Size(hd),
		)
	} else if hd.NX < 0 || hd.NY < 0 {
		return nil, nil, fmt.Errorf("Grid has invalid shape %d x %d.",
			hd.NX, hd.NY)
	} else if hd.NY > 0 && hd.NX > MaxGridCells/hd.NY {
		return nil, nil, fmt.Errorf(
			"Grid has shape %d x %d, but at most %d cells are supported.",
			hd.NX, hd.NY, MaxGridCells,
		)
	}

	// Memory only grows with the cells actually present in rd.
	cells := int(hd.NX * hd.NY)
	xs := make([]float32, 0, minInt(cells, gridChunk))
	buf := make([]float32, minInt(cells, gridChunk))
	for len(xs) < cells {
		chunk := buf[:minInt(cells-len(xs), len(buf))]
		if err := binary.Read(rd, end, chunk); err != nil {
			return nil, nil, fmt.Errorf(
				"reading grid: %d of %d cells: %w", len(xs), cells, err,
			)
		}
		xs = append(xs, chunk...)
	}
	return hd, xs, nil
}

// WriteGridFile dumps the particle density of t to the file fname. No file
// is left behind if the dump fails.
func WriteGridFile(fname string, t *flip.Tank, frame int) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}

	xs := make([]float32, len(t.ParticleDensity))
	for i, x := range t.ParticleDensity {
		xs[i] = float32(x)
	}

	wr := bufio.NewWriter(f)
	err = WriteGrid(wr, NewGridHeader(t, frame), xs)
	if err == nil {
		err = wr.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(fname)
		return fmt.Errorf("writing %s: %w", fname, err)
	}
	return nil
}

func minInt(x, y int) int {
	if x < y {
		return x
	}
	return y
}

// ReadGridFile reads a grid written by WriteGridFile.
func ReadGridFile(fname string) (*GridHeader, []float32, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ReadGrid(bufio.NewReader(f))
}
