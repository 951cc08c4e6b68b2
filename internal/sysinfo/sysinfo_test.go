package sysinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRead(t *testing.T) {
	s, err := Read()
	if err != nil {
		t.Skipf("host stats unavailable: %v", err)
	}
	assert.GreaterOrEqual(t, s.MemPercent, 0.0)
	assert.LessOrEqual(t, s.MemPercent, 100.0)
	assert.LessOrEqual(t, s.UsedMem, s.TotalMem)
}

func TestString(t *testing.T) {
	s := Stats{CPUPercent: 12.34, MemPercent: 56.78}
	assert.Equal(t, "CPU: 12.3% | MEM: 56.8%", s.String())
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KB", FormatBytes(1536))
	assert.Equal(t, "2.0 GB", FormatBytes(2*1024*1024*1024))
}
