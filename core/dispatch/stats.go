package dispatch

import (
	"runtime"
	"strings"
	"time"
)

// Unit selects the scale of Mem.
type Unit string

const (
	Bytes  Unit = "Bytes"
	KBytes Unit = "KBytes"
	MBytes Unit = "MBytes"
)

// Stats reports time and heap growth since it was created.
type Stats struct {
	start    time.Time
	startMem uint64
	now      func() time.Time
	mem      func() uint64
}

func newStats(now func() time.Time, mem func() uint64) *Stats {
	return &Stats{start: now(), startMem: mem(), now: now, mem: mem}
}

// Ts returns the seconds elapsed since start.
func (s *Stats) Ts() float64 {
	return s.now().Sub(s.start).Seconds()
}

// Mem returns the heap allocated since start in unit. Unknown units mean Bytes.
func (s *Stats) Mem(unit Unit) float64 {
	cur := s.mem()
	var used float64
	if cur > s.startMem {
		used = float64(cur - s.startMem)
	}
	switch Unit(strings.TrimSpace(string(unit))) {
	case KBytes:
		return used / 1024
	case MBytes:
		return used / (1024 * 1024)
	default:
		return used
	}
}

func heapAlloc() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc
}
