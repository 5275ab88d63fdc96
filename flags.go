package main

import "flag"

// Command-line flags for the optional parts of the game. The duel itself
// needs none of them.
var (
	// debugFlag enables the FPS, step timing and field extent overlay plus
	// the worker hotkeys.
	debugFlag = flag.Bool("debug", false, "show FPS and simulation overlay; +/- change worker count")

	workersFlag = flag.Int("workers", 1, "row bands stepped in parallel on the CPU")

	// openCLFlag moves field stepping to an OpenCL device when the binary was
	// built with -tags opencl.
	openCLFlag = flag.Bool("opencl", false, "step the water on an OpenCL device if available")

	musicFlag = flag.String("music", "", "path to a WAV file looped as background music")

	// swellAudioFlag plays noise that swells with the water under the ships.
	swellAudioFlag = flag.Bool("swell-audio", false, "play surf noise driven by the water under the ships")

	seedFlag = flag.Int64("seed", 0, "seed for the opening disturbances (0 picks one from the clock)")

	seedDisturbancesFlag = flag.Int("seed-disturbances", 6, "mirrored disturbance pairs scattered at the start of each round")

	cpuProfileFlag = flag.String("cpuprofile", "", "write a CPU profile to this file")

	windowScaleFlag = flag.Int("window-scale", defaultWindowScale, "integer window scale factor")
)
