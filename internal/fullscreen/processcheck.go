package fullscreen

import "github.com/shirou/gopsutil/v3/process"

// ProcessNameResolver resolves a pid to its current process name. A
// candidate window's pid can be reused by an unrelated process between the
// moment the original source was captured and the moment the candidate
// list is enumerated; comparing process names alongside pids guards
// against treating that unrelated process as the original's full-screen
// companion.
type ProcessNameResolver interface {
	ProcessName(pid int64) (string, bool)
}

type gopsutilProcessResolver struct{}

func (gopsutilProcessResolver) ProcessName(pid int64) (string, bool) {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return "", false
	}
	name, err := p.Name()
	if err != nil {
		return "", false
	}
	return name, true
}

// DefaultProcessNameResolver resolves names via gopsutil, working
// cross-platform without any OS-specific window API.
var DefaultProcessNameResolver ProcessNameResolver = gopsutilProcessResolver{}

// sameProcessName reports whether candidatePID's current process name
// still matches originalName (captured when the handler was built). When
// resolver is nil, originalName couldn't be resolved, or candidatePID's
// name can't be resolved, the check is skipped (returns true) rather than
// rejecting a candidate on a platform or sandbox where process name lookup
// isn't available.
func sameProcessName(resolver ProcessNameResolver, originalName string, candidatePID int64) bool {
	if resolver == nil || originalName == "" {
		return true
	}
	name, ok := resolver.ProcessName(candidatePID)
	if !ok {
		return true
	}
	return name == originalName
}
