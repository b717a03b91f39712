package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTakeSnapshot(t *testing.T) {
	s, err := TakeSnapshot()
	if err != nil {
		t.Logf("partial snapshot: %v", err)
	}

	assert.False(t, s.Taken.IsZero())
	fields := s.Fields()
	for _, key := range []string{"host_total", "host_available", "host_used_pct", "rss", "threads"} {
		assert.Contains(t, fields, key)
	}
}

func TestRSSDelta(t *testing.T) {
	before := Snapshot{ProcessRSS: 10 * 1000 * 1000}
	after := Snapshot{ProcessRSS: 35 * 1000 * 1000}

	assert.Equal(t, "25 MB", after.RSSDelta(before))
	assert.Equal(t, "-25 MB", before.RSSDelta(after))
}
