// Package sysinfo samples host load for the dashboard banner.
package sysinfo

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Stats is one host sample.
type Stats struct {
	CPUPercent float64
	CPUCores   int
	MemPercent float64
	TotalMem   uint64
	UsedMem    uint64
}

// Read samples CPU and memory. Partial failures leave the affected fields
// zero; the error reports the first one.
func Read() (Stats, error) {
	var s Stats
	var firstErr error

	if percent, err := cpu.Percent(0, false); err != nil {
		firstErr = fmt.Errorf("cpu percent: %w", err)
	} else if len(percent) > 0 {
		s.CPUPercent = percent[0]
	}

	s.CPUCores, _ = cpu.Counts(true)

	if vm, err := mem.VirtualMemory(); err != nil {
		if firstErr == nil {
			firstErr = fmt.Errorf("virtual memory: %w", err)
		}
	} else {
		s.MemPercent = vm.UsedPercent
		s.TotalMem = vm.Total
		s.UsedMem = vm.Used
	}

	return s, firstErr
}

// String formats the banner status line.
func (s Stats) String() string {
	return fmt.Sprintf("CPU: %.1f%% | MEM: %.1f%%", s.CPUPercent, s.MemPercent)
}

// FormatBytes renders a byte count with a binary unit.
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
