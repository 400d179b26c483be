package shi

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_BoolRoundTrip(t *testing.T) {
	c := NewConfig()
	c.SetBool("gc.always", true)
	assert.True(t, c.GetBool("gc.always"))
}

func TestConfig_IntRoundTrip(t *testing.T) {
	c := NewConfig()
	c.SetInt("trap.max_depth", 7)
	assert.Equal(t, 7, c.GetInt("trap.max_depth"))
}

func TestConfig_StringRoundTrip(t *testing.T) {
	c := NewConfig()
	c.SetString("history.path", "/tmp/hist")
	assert.Equal(t, "/tmp/hist", c.GetString("history.path"))
}

func TestConfig_GetMissingPanics(t *testing.T) {
	c := NewConfig()
	assert.Panics(t, func() { c.GetInt("no.such.key") })
}

func TestConfig_TypeMismatchPanics(t *testing.T) {
	c := NewConfig()
	c.SetInt("trap.max_depth", 1)
	assert.Panics(t, func() { c.GetString("trap.max_depth") })
}

func TestConfig_ReassignDifferentTypePanics(t *testing.T) {
	c := NewConfig()
	c.SetInt("k", 1)
	assert.Panics(t, func() { c.SetString("k", "x") })
}

func TestConfig_Defaults(t *testing.T) {
	c := NewConfig()
	assert.Equal(t, DefaultSemispaceCells, c.GetInt("heap.semispace_cells"))
	assert.Equal(t, 16, c.GetInt("object.buckets"))
	assert.Equal(t, 25, c.GetInt("trap.max_depth"))
	assert.False(t, c.GetBool("gc.always"))
	assert.False(t, c.GetBool("gc.debug"))
	assert.Equal(t, "~/.shi-history", c.GetString("history.path"))
}

func TestConfig_GetHistoryPath_ExpandsTilde(t *testing.T) {
	c := NewConfig()
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available in this environment")
	}
	assert.Equal(t, home+"/.shi-history", c.GetHistoryPath())
}

func TestConfig_GetHistoryPath_LeavesAbsolutePathAlone(t *testing.T) {
	c := NewConfig()
	c.SetString("history.path", "/var/lib/shi/history")
	assert.Equal(t, "/var/lib/shi/history", c.GetHistoryPath())
}
