package hashset

// ResizePolicy controls how aggressively a Hashset grows and shrinks its
// tables. It is a plain process-wide flag, not scoped to any one Hashset:
// callers that flip it around a critical section own the discipline of
// restoring it afterward.
type ResizePolicy int

const (
	// ResizeAllow is the normal policy: grow once load reaches 100%, shrink
	// below 12.5% load.
	ResizeAllow ResizePolicy = iota
	// ResizeAvoid raises the grow threshold to 500% load and lowers the
	// shrink threshold to 3.125% load, for callers that know memory is
	// scarce or that a bulk operation is about to replace most elements
	// anyway.
	ResizeAvoid
)

var resizePolicy = ResizeAllow

// SetResizePolicy installs the process-wide resize policy.
func SetResizePolicy(p ResizePolicy) { resizePolicy = p }

// GetResizePolicy returns the current process-wide resize policy.
func GetResizePolicy() ResizePolicy { return resizePolicy }
