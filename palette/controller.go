package palette

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/watzon/pigment/color"
)

// Size is the fixed number of colors in a palette
const Size = 5

// ErrIndexOutOfRange is returned for slot indices outside [0, Size)
var ErrIndexOutOfRange = errors.New("palette index out of range")

// Controller owns a palette of Size colors and the set of locked slots.
// It is not safe for concurrent use; callers serialize access.
type Controller struct {
	rng    *rand.Rand
	colors [Size]color.Color
	locked [Size]bool
}

// New creates a controller with a fully randomized palette
func New(rng *rand.Rand) *Controller {
	c := &Controller{rng: rng}
	c.Regenerate()
	return c
}

// Regenerate replaces every unlocked color with a fresh random one
func (c *Controller) Regenerate() {
	for i := range c.colors {
		if !c.locked[i] {
			c.colors[i] = color.Random(c.rng)
		}
	}
}

// ToggleLock flips the lock on slot i and regenerates the palette
func (c *Controller) ToggleLock(i int) error {
	if err := checkIndex(i); err != nil {
		return err
	}
	c.locked[i] = !c.locked[i]
	c.Regenerate()
	return nil
}

// LockAll locks every slot
func (c *Controller) LockAll() {
	for i := range c.locked {
		c.locked[i] = true
	}
	c.Regenerate()
}

// UnlockAll clears every lock and regenerates the palette
func (c *Controller) UnlockAll() {
	c.locked = [Size]bool{}
	c.Regenerate()
}

// Seed fills unlocked slots, in order, with the given colors and returns how
// many slots were filled. Locked slots are skipped.
func (c *Controller) Seed(colors []color.Color) int {
	n := 0
	for i := range c.colors {
		if n == len(colors) {
			break
		}
		if c.locked[i] {
			continue
		}
		c.colors[i] = colors[n]
		n++
	}
	return n
}

// Set replaces slot i and locks it, regardless of its previous lock state
func (c *Controller) Set(i int, col color.Color) error {
	if err := checkIndex(i); err != nil {
		return err
	}
	c.colors[i] = col
	c.locked[i] = true
	return nil
}

// Colors returns a copy of the palette
func (c *Controller) Colors() []color.Color {
	out := make([]color.Color, Size)
	copy(out, c.colors[:])
	return out
}

// Color returns the color in slot i
func (c *Controller) Color(i int) (color.Color, error) {
	if err := checkIndex(i); err != nil {
		return color.Color{}, err
	}
	return c.colors[i], nil
}

// Hexes returns the #RRGGBB form of every color
func (c *Controller) Hexes() []string {
	out := make([]string, Size)
	for i, col := range c.colors {
		out[i] = col.Hex()
	}
	return out
}

// IsLocked reports whether slot i is locked. Out of range slots are never locked.
func (c *Controller) IsLocked(i int) bool {
	return checkIndex(i) == nil && c.locked[i]
}

// Locked returns the locked slot indices in ascending order
func (c *Controller) Locked() []int {
	var out []int
	for i, l := range c.locked {
		if l {
			out = append(out, i)
		}
	}
	return out
}

func checkIndex(i int) error {
	if i < 0 || i >= Size {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return nil
}
