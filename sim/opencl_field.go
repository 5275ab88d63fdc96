//go:build opencl

package sim

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
)

// OpenCLAccelerator steps the field on an OpenCL device using the same
// propagate and decay stencil as the CPU path.
type OpenCLAccelerator struct {
	context    *cl.Context
	queue      *cl.CommandQueue
	program    *cl.Program
	kernel     *cl.Kernel
	posBuf     *cl.MemObject
	velBuf     *cl.MemObject
	nextPosBuf *cl.MemObject
	nextVelBuf *cl.MemObject
	width      int
	height     int
	deviceName string
}

const fieldKernelSource = `__kernel void field_step(
    const int width,
    const int height,
    const float dt,
    const float restore,
    const float tension,
    const float decay,
    const float limit,
    __global const float* pos,
    __global const float* vel,
    __global float* next_pos,
    __global float* next_vel)
{
    int idx = get_global_id(0);
    if (idx >= width * height) {
        return;
    }
    int x = idx % width;
    int y = idx / width;
    float p = pos[idx];
    float axis = 0.0f;
    float diag = 0.0f;
    int left = x > 0;
    int right = x < width - 1;
    int up = y > 0;
    int down = y < height - 1;
    if (left) {
        axis += pos[idx - 1] - p;
    }
    if (right) {
        axis += pos[idx + 1] - p;
    }
    if (up) {
        axis += pos[idx - width] - p;
        if (left) {
            diag += pos[idx - width - 1] - p;
        }
        if (right) {
            diag += pos[idx - width + 1] - p;
        }
    }
    if (down) {
        axis += pos[idx + width] - p;
        if (left) {
            diag += pos[idx + width - 1] - p;
        }
        if (right) {
            diag += pos[idx + width + 1] - p;
        }
    }
    float np = p + vel[idx] * dt;
    float force = -np * restore + (axis + diag * 0.70710678f) / tension;
    float nv = clamp(vel[idx] + force, -limit, limit);
    next_pos[idx] = np * decay;
    next_vel[idx] = nv * decay;
}`

// NewOpenCLAccelerator picks the first GPU (falling back to a CPU device),
// compiles the field kernel and allocates device buffers sized for cfg.
func NewOpenCLAccelerator(cfg FieldConfig) (*OpenCLAccelerator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available")
	}
	device := firstDevice(platforms, cl.DeviceTypeGPU)
	if device == nil {
		device = firstDevice(platforms, cl.DeviceTypeCPU)
	}
	if device == nil {
		return nil, errors.New("no suitable OpenCL devices found")
	}

	a := &OpenCLAccelerator{
		width:      cfg.Width,
		height:     cfg.Height,
		deviceName: device.Name(),
	}
	if err := a.build(device, cfg); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func firstDevice(platforms []*cl.Platform, kind cl.DeviceType) *cl.Device {
	for _, p := range platforms {
		devices, err := p.GetDevices(kind)
		if err != nil && err != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			return devices[0]
		}
	}
	return nil
}

func (a *OpenCLAccelerator) build(device *cl.Device, cfg FieldConfig) error {
	var err error
	if a.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return fmt.Errorf("creating OpenCL context: %w", err)
	}
	if a.queue, err = a.context.CreateCommandQueue(device, 0); err != nil {
		return fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if a.program, err = a.context.CreateProgramWithSource([]string{fieldKernelSource}); err != nil {
		return fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := a.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		if buildErr, ok := err.(cl.BuildError); ok {
			return fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return fmt.Errorf("building OpenCL program: %w", err)
	}
	if a.kernel, err = a.program.CreateKernel("field_step"); err != nil {
		return fmt.Errorf("creating OpenCL kernel: %w", err)
	}

	byteSize := cfg.Width * cfg.Height * int(unsafe.Sizeof(float32(0)))
	for _, buf := range []**cl.MemObject{&a.posBuf, &a.velBuf, &a.nextPosBuf, &a.nextVelBuf} {
		if *buf, err = a.context.CreateEmptyBuffer(cl.MemReadWrite, byteSize); err != nil {
			return fmt.Errorf("allocating field buffer: %w", err)
		}
	}

	if err := a.kernel.SetArgs(
		int32(cfg.Width),
		int32(cfg.Height),
		cfg.Dt,
		cfg.Restore,
		cfg.Tension,
		cfg.Decay,
		cfg.VelocityLimit,
		a.posBuf,
		a.velBuf,
		a.nextPosBuf,
		a.nextVelBuf,
	); err != nil {
		return fmt.Errorf("setting kernel arguments: %w", err)
	}
	return nil
}

// Advance uploads the current buffers, runs one step and reads the result
// back into pos and vel.
func (a *OpenCLAccelerator) Advance(pos, vel []float32) error {
	size := a.width * a.height
	if len(pos) != size || len(vel) != size {
		return fmt.Errorf("unexpected field buffer size %d/%d, want %d", len(pos), len(vel), size)
	}
	if _, err := a.queue.EnqueueWriteBufferFloat32(a.posBuf, false, 0, pos, nil); err != nil {
		return fmt.Errorf("writing position buffer: %w", err)
	}
	if _, err := a.queue.EnqueueWriteBufferFloat32(a.velBuf, false, 0, vel, nil); err != nil {
		return fmt.Errorf("writing velocity buffer: %w", err)
	}
	if _, err := a.queue.EnqueueNDRangeKernel(a.kernel, nil, []int{size}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing kernel: %w", err)
	}
	if _, err := a.queue.EnqueueReadBufferFloat32(a.nextPosBuf, true, 0, pos, nil); err != nil {
		return fmt.Errorf("reading position buffer: %w", err)
	}
	if _, err := a.queue.EnqueueReadBufferFloat32(a.nextVelBuf, true, 0, vel, nil); err != nil {
		return fmt.Errorf("reading velocity buffer: %w", err)
	}
	return nil
}

// Name returns the OpenCL device name.
func (a *OpenCLAccelerator) Name() string { return "opencl:" + a.deviceName }

// Close releases every device object. It is safe on a partially built
// accelerator.
func (a *OpenCLAccelerator) Close() {
	for _, buf := range []**cl.MemObject{&a.nextVelBuf, &a.nextPosBuf, &a.velBuf, &a.posBuf} {
		if *buf != nil {
			(*buf).Release()
			*buf = nil
		}
	}
	if a.kernel != nil {
		a.kernel.Release()
		a.kernel = nil
	}
	if a.program != nil {
		a.program.Release()
		a.program = nil
	}
	if a.queue != nil {
		a.queue.Release()
		a.queue = nil
	}
	if a.context != nil {
		a.context.Release()
		a.context = nil
	}
}
