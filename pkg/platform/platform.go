// Package platform answers the handful of OS/architecture questions the
// layout planner needs (spec.md §6): the native page size, used by the
// segment planner's page-efficiency guard and the header-size tiers, and
// whether 64-bit memory operations are atomic on this architecture, which
// bounds how wide a hash-lookup slot may be.
//
// This package replaces the teacher's general-purpose pkg/filesys utility
// belt: a layout planner never opens, copies, or walks files (spec.md §1
// Non-goals), so only the narrow OS-capability queries survive, rewritten
// against os/runtime rather than the filesystem.
package platform

import (
	"os"
	"runtime"
)

// defaultPageSize is used if the OS query ever returns a non-positive value;
// 4096 is correct for the overwhelming majority of deployment targets.
const defaultPageSize = 4096

// atomic64Architectures lists the GOARCH values on which aligned 64-bit
// loads/stores are guaranteed atomic without a wider synchronization
// primitive. This mirrors the platforms Go's own sync/atomic documents as
// safe for 64-bit atomic access without the 8-byte-alignment caveat biting.
var atomic64Architectures = map[string]bool{
	"amd64":   true,
	"arm64":   true,
	"ppc64":   true,
	"ppc64le": true,
	"s390x":   true,
	"riscv64": true,
}

// PageSize returns the native OS page size in bytes.
func PageSize() int {
	if n := os.Getpagesize(); n > 0 {
		return n
	}
	return defaultPageSize
}

// Aligned64BitMemoryOperationsAtomic reports whether 8-byte-aligned 64-bit
// memory operations are atomic on the current architecture, i.e. whether an
// 8-byte hash-lookup slot may be used. This is the default for
// aligned64BitMemoryOperationsAtomic in spec.md §3.
func Aligned64BitMemoryOperationsAtomic() bool {
	return atomic64Architectures[runtime.GOARCH]
}
