package palette

import (
	"errors"
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/watzon/pigment/color"
)

var canonicalHex = regexp.MustCompile(`^#[0-9A-F]{6}$`)

func newTestController(seed int64) *Controller {
	return New(rand.New(rand.NewSource(seed)))
}

func TestNewIsFullyRandomized(t *testing.T) {
	c := newTestController(1)

	require.Len(t, c.Colors(), Size)
	for _, hex := range c.Hexes() {
		assert.Regexp(t, canonicalHex, hex)
	}
	assert.Empty(t, c.Locked())
}

func TestRegenerateKeepsLockedColors(t *testing.T) {
	for _, locked := range [][]int{{}, {0}, {4}, {1, 3}, {0, 1, 2, 3, 4}} {
		c := newTestController(int64(len(locked)) + 10)
		for _, i := range locked {
			c.locked[i] = true
		}
		before := c.Colors()

		for round := 0; round < 25; round++ {
			c.Regenerate()
			after := c.Colors()
			for _, i := range locked {
				require.Equal(t, before[i], after[i], "locked slot %d changed", i)
			}
			for _, hex := range c.Hexes() {
				require.Regexp(t, canonicalHex, hex)
			}
		}
		assert.Equal(t, locked, nonNil(c.Locked()))
	}
}

func TestRegenerateChangesUnlockedColors(t *testing.T) {
	c := newTestController(3)
	before := c.Colors()

	changed := false
	for round := 0; round < 10 && !changed; round++ {
		c.Regenerate()
		for i, col := range c.Colors() {
			if col != before[i] {
				changed = true
			}
		}
	}
	assert.True(t, changed)
}

func TestToggleLock(t *testing.T) {
	c := newTestController(4)

	require.NoError(t, c.ToggleLock(2))
	assert.True(t, c.IsLocked(2))
	assert.Equal(t, []int{2}, c.Locked())
	locked := c.Colors()[2]

	require.NoError(t, c.ToggleLock(0))
	assert.Equal(t, locked, c.Colors()[2])
	assert.Equal(t, []int{0, 2}, c.Locked())

	require.NoError(t, c.ToggleLock(2))
	require.NoError(t, c.ToggleLock(0))
	assert.Empty(t, c.Locked())
}

func TestToggleLockTwiceRestoresState(t *testing.T) {
	c := newTestController(5)
	require.NoError(t, c.ToggleLock(1))
	want := c.Locked()

	for i := 0; i < Size; i++ {
		require.NoError(t, c.ToggleLock(i))
		require.NoError(t, c.ToggleLock(i))
		assert.Equal(t, want, c.Locked())
	}
}

func TestToggleLockOutOfRange(t *testing.T) {
	c := newTestController(6)
	before := c.Colors()

	for _, i := range []int{-1, Size, 100} {
		err := c.ToggleLock(i)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrIndexOutOfRange))
		assert.False(t, c.IsLocked(i))
	}
	assert.Equal(t, before, c.Colors())
}

func TestLockAllUnlockAll(t *testing.T) {
	c := newTestController(7)
	before := c.Colors()

	c.LockAll()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, c.Locked())
	assert.Equal(t, before, c.Colors())

	c.Regenerate()
	assert.Equal(t, before, c.Colors())

	c.UnlockAll()
	assert.Empty(t, c.Locked())
}

func TestSeedSkipsLockedSlots(t *testing.T) {
	c := newTestController(8)
	require.NoError(t, c.ToggleLock(0))
	require.NoError(t, c.ToggleLock(3))
	before := c.Colors()

	seed := []color.Color{{R: 1}, {G: 2}, {B: 3}, {R: 4}}
	n := c.Seed(seed)
	assert.Equal(t, 3, n)

	got := c.Colors()
	assert.Equal(t, before[0], got[0])
	assert.Equal(t, seed[0], got[1])
	assert.Equal(t, seed[1], got[2])
	assert.Equal(t, before[3], got[3])
	assert.Equal(t, seed[2], got[4])
}

func TestSeedWithFewerColors(t *testing.T) {
	c := newTestController(9)
	before := c.Colors()

	assert.Equal(t, 1, c.Seed([]color.Color{{R: 9}}))
	got := c.Colors()
	assert.Equal(t, color.Color{R: 9}, got[0])
	assert.Equal(t, before[1:], got[1:])
	assert.Equal(t, 0, c.Seed(nil))
}

func TestSetLocksSlot(t *testing.T) {
	c := newTestController(11)
	red := color.MustParseHex("#FF0000")

	require.NoError(t, c.Set(1, red))
	assert.True(t, c.IsLocked(1))
	c.Regenerate()

	got, err := c.Color(1)
	require.NoError(t, err)
	assert.Equal(t, red, got)

	_, err = c.Color(Size)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, c.Set(-1, red), ErrIndexOutOfRange)
}

func TestColorsReturnsCopy(t *testing.T) {
	c := newTestController(12)
	colors := c.Colors()
	colors[0] = color.Color{R: 1, G: 2, B: 3}
	assert.NotEqual(t, colors[0], c.Colors()[0])
}

func nonNil(in []int) []int {
	if in == nil {
		return []int{}
	}
	return in
}
