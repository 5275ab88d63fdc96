package sim

import "golang.org/x/sync/errgroup"

// rowBand is a half-open range of rows [y0, y1) stepped by one worker.
type rowBand struct{ y0, y1 int }

// splitRows divides height rows into at most workers contiguous bands.
func splitRows(height, workers int) []rowBand {
	if workers < 1 {
		workers = 1
	}
	if workers > height {
		workers = height
	}
	rowsPer := (height + workers - 1) / workers
	bands := make([]rowBand, 0, workers)
	for y := 0; y < height; y += rowsPer {
		end := y + rowsPer
		if end > height {
			end = height
		}
		bands = append(bands, rowBand{y0: y, y1: end})
	}
	return bands
}

// SetWorkers sets how many goroutines share a CPU step. Each worker owns a
// band of rows in the next buffer and only reads the current buffer, so
// bands never need halo synchronisation. n <= 1 steps on the caller.
func (f *Field) SetWorkers(n int) {
	f.bands = splitRows(f.height, n)
}

// Workers returns the number of row bands used per CPU step.
func (f *Field) Workers() int { return len(f.bands) }

// stepCPU runs propagate and decay over every band, then swaps buffers.
func (f *Field) stepCPU() {
	if len(f.bands) <= 1 {
		f.processBand(0, f.height)
		f.swap()
		return
	}
	var g errgroup.Group
	for _, b := range f.bands {
		g.Go(func() error {
			f.processBand(b.y0, b.y1)
			return nil
		})
	}
	_ = g.Wait()
	f.swap()
}

// processBand propagates rows [y0, y1) from the current buffers into the
// next buffers and then decays them.
func (f *Field) processBand(y0, y1 int) {
	w, h := f.width, f.height
	for y := y0; y < y1; y++ {
		if y == 0 || y == h-1 || w < 3 {
			for x := 0; x < w; x++ {
				f.propagateEdge(x, y)
			}
			continue
		}
		f.propagateEdge(0, y)
		f.propagateInterior(y)
		f.propagateEdge(w-1, y)
	}

	decay := f.cfg.Decay
	nextPos := f.nextPos[y0*w : y1*w]
	nextVel := f.nextVel[y0*w : y1*w]
	for i := range nextPos {
		nextPos[i] *= decay
		nextVel[i] *= decay
	}
}

// propagateInterior handles columns 1..w-2 of a row that has both
// neighbouring rows, so every neighbour exists.
func (f *Field) propagateInterior(y int) {
	w := f.width
	dt, restore, tension, limit := f.cfg.Dt, f.cfg.Restore, f.cfg.Tension, f.cfg.VelocityLimit
	base := y * w
	top := f.pos[base-w : base]
	center := f.pos[base : base+w]
	bottom := f.pos[base+w : base+2*w]
	vel := f.vel[base : base+w]
	nextPos := f.nextPos[base : base+w]
	nextVel := f.nextVel[base : base+w]

	for x := 1; x < w-1; x++ {
		p := center[x]
		axis := center[x-1] + center[x+1] + top[x] + bottom[x] - 4*p
		diag := top[x-1] + top[x+1] + bottom[x-1] + bottom[x+1] - 4*p
		np := p + vel[x]*dt
		force := -np*restore + (axis+diag*invSqrt2)/tension
		nextPos[x] = np
		nextVel[x] = clamp(vel[x]+force, -limit, limit)
	}
}

// propagateEdge handles a cell that may be missing neighbours. A missing
// neighbour contributes nothing, which leaves border cells stiffer.
func (f *Field) propagateEdge(x, y int) {
	w, h := f.width, f.height
	i := y*w + x
	p := f.pos[i]

	var axis, diag float32
	left, right := x > 0, x < w-1
	up, down := y > 0, y < h-1
	if left {
		axis += f.pos[i-1] - p
	}
	if right {
		axis += f.pos[i+1] - p
	}
	if up {
		axis += f.pos[i-w] - p
		if left {
			diag += f.pos[i-w-1] - p
		}
		if right {
			diag += f.pos[i-w+1] - p
		}
	}
	if down {
		axis += f.pos[i+w] - p
		if left {
			diag += f.pos[i+w-1] - p
		}
		if right {
			diag += f.pos[i+w+1] - p
		}
	}

	np := p + f.vel[i]*f.cfg.Dt
	force := -np*f.cfg.Restore + (axis+diag*invSqrt2)/f.cfg.Tension
	f.nextPos[i] = np
	f.nextVel[i] = clamp(f.vel[i]+force, -f.cfg.VelocityLimit, f.cfg.VelocityLimit)
}
