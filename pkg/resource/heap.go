package resource

import "runtime"

// readHeapAlloc returns the runtime's current heap allocation, the
// "used" term in the memory probe (spec §4.2).
func readHeapAlloc() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}
