package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func offsetSeconds(loc *time.Location) int {
	_, offset := time.Now().In(loc).Zone()
	return offset
}

func TestCutoffLocation(t *testing.T) {
	cfg := AttendanceConfig{CutoffOffset: "+05:30"}
	assert.Equal(t, 5*3600+30*60, offsetSeconds(cfg.CutoffLocation()))

	cfg = AttendanceConfig{CutoffOffset: "-08:00"}
	assert.Equal(t, -8*3600, offsetSeconds(cfg.CutoffLocation()))

	cfg = AttendanceConfig{CutoffOffset: "03:00"}
	assert.Equal(t, 3*3600, offsetSeconds(cfg.CutoffLocation()))
}

func TestCutoffLocationFallsBack(t *testing.T) {
	for _, bad := range []string{"", "banana", "+aa:bb"} {
		cfg := AttendanceConfig{CutoffOffset: bad}
		assert.Equal(t, 5*3600+30*60, offsetSeconds(cfg.CutoffLocation()), bad)
	}
}
