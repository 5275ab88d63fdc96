//go:build !opencl

package sim

import "errors"

// OpenCLAccelerator is unavailable in builds without the opencl tag.
type OpenCLAccelerator struct{}

// NewOpenCLAccelerator always fails; rebuild with -tags opencl.
func NewOpenCLAccelerator(FieldConfig) (*OpenCLAccelerator, error) {
	return nil, errors.New("OpenCL support is not enabled; rebuild with -tags opencl")
}

func (a *OpenCLAccelerator) Advance(pos, vel []float32) error {
	return errors.New("OpenCL accelerator unavailable")
}

func (a *OpenCLAccelerator) Name() string { return "opencl" }

func (a *OpenCLAccelerator) Close() {}
