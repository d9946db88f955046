package blockprof

// Version information for the blockprof runtime.
const (
	// Version is the current version of the profiler runtime.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info provides runtime information about the profiler.
type Info struct {
	// Version is the runtime version string.
	Version string

	// Enabled reports the process-wide switch.
	Enabled bool

	// Profilers is the number of registered profiler instances.
	Profilers int
}

// GetInfo returns information about the profiler runtime.
//
// Example:
//
//	info := blockprof.GetInfo()
//	fmt.Printf("blockprof %s (enabled=%v)\n", info.Version, info.Enabled)
func GetInfo() Info {
	return Info{
		Version:   Version,
		Enabled:   IsGlobalEnabled(),
		Profilers: profilerCount(),
	}
}
