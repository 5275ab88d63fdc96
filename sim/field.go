// Package sim is the simulation core of the duel: a damped 2-D wave field
// and the two ship bodies that disturb it and are capsized by it.
package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrInvalidConfig is returned, wrapped, by every constructor that rejects
// its configuration.
var ErrInvalidConfig = errors.New("invalid simulation config")

// invSqrt2 weakens diagonal coupling relative to axis coupling.
const invSqrt2 = float32(1 / math.Sqrt2)

// Cell is one grid element: signed displacement and its rate of change.
type Cell struct {
	Position float32
	Velocity float32
}

// InjectMode selects how Inject combines a disturbance with the cells it
// covers.
type InjectMode uint8

const (
	// Overwrite replaces the position of every covered cell. Used for
	// splashes; it can erase a larger disturbance already present.
	Overwrite InjectMode = iota
	// Additive adds to the position of every covered cell. Used for wakes.
	Additive
)

func (m InjectMode) String() string {
	switch m {
	case Overwrite:
		return "overwrite"
	case Additive:
		return "additive"
	default:
		return fmt.Sprintf("InjectMode(%d)", uint8(m))
	}
}

// FieldConfig holds the grid dimensions and the integrator constants.
type FieldConfig struct {
	// Width and Height are the grid dimensions in cells.
	Width, Height int

	// Dt is the fixed timestep used to integrate position.
	Dt float32

	// Restore is the spring constant pulling every cell back toward zero.
	Restore float32

	// Tension divides neighbour coupling; larger values give slower,
	// broader waves.
	Tension float32

	// Decay multiplies position and velocity after every step.
	Decay float32

	// VelocityLimit bounds |Velocity| after each integration.
	VelocityLimit float32

	// Rest is the initial position of every cell.
	Rest float32
}

// DefaultFieldConfig returns the tuning the game ships with.
func DefaultFieldConfig() FieldConfig {
	return FieldConfig{
		Width:         200,
		Height:        150,
		Dt:            0.01,
		Restore:       0.05,
		Tension:       4.0,
		Decay:         0.99,
		VelocityLimit: 1.0,
		Rest:          1e-6,
	}
}

// Validate reports the first misconfigured value.
func (c FieldConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.Dt <= 0:
		return fmt.Errorf("%w: dt %v", ErrInvalidConfig, c.Dt)
	case c.Tension <= 0:
		return fmt.Errorf("%w: tension %v", ErrInvalidConfig, c.Tension)
	case c.Decay <= 0 || c.Decay > 1:
		return fmt.Errorf("%w: decay %v outside (0, 1]", ErrInvalidConfig, c.Decay)
	case c.VelocityLimit <= 0:
		return fmt.Errorf("%w: velocity limit %v", ErrInvalidConfig, c.VelocityLimit)
	}
	return nil
}

// Field owns the cell grid. Cells live in two structure-of-arrays buffers;
// Step reads only the current pair and writes only the next pair, then
// swaps them.
type Field struct {
	cfg           FieldConfig
	width, height int

	pos, vel         []float32
	nextPos, nextVel []float32

	bands    []rowBand
	accel    Accelerator
	accelErr error
}

// NewField allocates a width*height grid with every cell at rest.
func NewField(cfg FieldConfig) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	size := cfg.Width * cfg.Height
	f := &Field{
		cfg:     cfg,
		width:   cfg.Width,
		height:  cfg.Height,
		pos:     make([]float32, size),
		vel:     make([]float32, size),
		nextPos: make([]float32, size),
		nextVel: make([]float32, size),
	}
	f.SetWorkers(1)
	f.Reset()
	return f, nil
}

// Config returns the configuration the field was built with.
func (f *Field) Config() FieldConfig { return f.cfg }

// Width returns the grid width in cells.
func (f *Field) Width() int { return f.width }

// Height returns the grid height in cells.
func (f *Field) Height() int { return f.height }

// Reset returns every cell in both buffers to the rest state.
func (f *Field) Reset() {
	rest := f.cfg.Rest
	for i := range f.pos {
		f.pos[i] = rest
		f.vel[i] = 0
		f.nextPos[i] = rest
		f.nextVel[i] = 0
	}
}

// Step advances every cell by one timestep. An attached Accelerator is
// used when present; if it fails it is dropped and the step completes on
// the CPU.
func (f *Field) Step() {
	if f.accel != nil {
		err := f.accel.Advance(f.pos, f.vel)
		if err == nil {
			return
		}
		f.accelErr = fmt.Errorf("%s: %w", f.accel.Name(), err)
		f.accel.Close()
		f.accel = nil
	}
	f.stepCPU()
}

// swap exchanges the current and next buffers.
func (f *Field) swap() {
	f.pos, f.nextPos = f.nextPos, f.pos
	f.vel, f.nextVel = f.nextVel, f.vel
}

// clampCell maps arbitrary coordinates onto the nearest valid cell.
func (f *Field) clampCell(x, y int) (int, int) {
	return clamp(x, 0, f.width-1), clamp(y, 0, f.height-1)
}

// square returns the inclusive bounds of the square of half-width radius
// around the clamped centre, clipped to the grid.
func (f *Field) square(cx, cy, radius int) (x0, y0, x1, y1 int) {
	if radius < 0 {
		radius = 0
	}
	cx, cy = f.clampCell(cx, cy)
	x0 = clamp(cx-radius, 0, f.width-1)
	x1 = clamp(cx+radius, 0, f.width-1)
	y0 = clamp(cy-radius, 0, f.height-1)
	y1 = clamp(cy+radius, 0, f.height-1)
	return x0, y0, x1, y1
}

// Inject disturbs the square of half-width radius centred on (cx, cy).
func (f *Field) Inject(cx, cy, radius int, magnitude float32, mode InjectMode) {
	x0, y0, x1, y1 := f.square(cx, cy, radius)
	for y := y0; y <= y1; y++ {
		row := f.pos[y*f.width : (y+1)*f.width]
		for x := x0; x <= x1; x++ {
			if mode == Additive {
				row[x] += magnitude
			} else {
				row[x] = magnitude
			}
		}
	}
}

// Sample returns the position of the cell nearest to (x, y).
func (f *Field) Sample(x, y int) float32 {
	x, y = f.clampCell(x, y)
	return f.pos[y*f.width+x]
}

// SampleArea scans the square of half-width radius around (cx, cy) and
// returns the largest and smallest position found.
func (f *Field) SampleArea(cx, cy, radius int) (hi, lo float32) {
	x0, y0, x1, y1 := f.square(cx, cy, radius)
	hi = f.pos[y0*f.width+x0]
	lo = hi
	for y := y0; y <= y1; y++ {
		row := f.pos[y*f.width : (y+1)*f.width]
		for x := x0; x <= x1; x++ {
			v := row[x]
			if v > hi {
				hi = v
			}
			if v < lo {
				lo = v
			}
		}
	}
	return hi, lo
}

// At returns a copy of the cell nearest to (x, y).
func (f *Field) At(x, y int) Cell {
	x, y = f.clampCell(x, y)
	i := y*f.width + x
	return Cell{Position: f.pos[i], Velocity: f.vel[i]}
}

// Positions exposes the current positions in row-major order for
// renderers. The slice is only valid until the next Step and must not be
// modified.
func (f *Field) Positions() []float32 { return f.pos }

// Extent returns the smallest and largest position in the grid.
func (f *Field) Extent() (lo, hi float32) {
	lo, hi = f.pos[0], f.pos[0]
	for _, v := range f.pos[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Sprinkle sets one randomly chosen cell to magnitude.
func (f *Field) Sprinkle(rng *rand.Rand, magnitude float32) {
	i := rng.Intn(len(f.pos))
	f.pos[i] = magnitude
}

// SetAccelerator routes subsequent steps through a. Passing nil restores
// CPU stepping. The previous accelerator, if any, is closed.
func (f *Field) SetAccelerator(a Accelerator) {
	if f.accel != nil && f.accel != a {
		f.accel.Close()
	}
	f.accel = a
	f.accelErr = nil
}

// AcceleratorName returns the active accelerator's name, or "cpu".
func (f *Field) AcceleratorName() string {
	if f.accel == nil {
		return "cpu"
	}
	return f.accel.Name()
}

// AcceleratorErr returns the error that caused the last accelerator to be
// dropped.
func (f *Field) AcceleratorErr() error { return f.accelErr }

// Accelerator performs one field step in place on the current buffers.
// pos and vel are row-major, Width*Height long.
type Accelerator interface {
	Advance(pos, vel []float32) error
	Name() string
	Close()
}
