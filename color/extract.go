package color

import (
	"image"
	"math"
	"sort"

	"github.com/nfnt/resize"
)

// similarityThreshold is the RGB distance under which two extracted colors
// count as the same color
const similarityThreshold = 60.0

// box is a region of RGB space holding the pixels that fall inside it
type box struct {
	rMin, rMax, gMin, gMax, bMin, bMax int
	colors                             []Color
}

func (b *box) volume() int {
	return (b.rMax - b.rMin + 1) * (b.gMax - b.gMin + 1) * (b.bMax - b.bMin + 1)
}

// Downscale resizes an image maintaining aspect ratio so that neither side
// exceeds maxSize. Smaller images are returned as is.
func Downscale(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if maxSize <= 0 || (width <= maxSize && height <= maxSize) {
		return img
	}

	ratio := math.Min(float64(maxSize)/float64(width), float64(maxSize)/float64(height))
	newWidth := uint(math.Max(1, float64(width)*ratio))
	newHeight := uint(math.Max(1, float64(height)*ratio))

	return resize.Resize(newWidth, newHeight, img, resize.Lanczos3)
}

// ExtractPalette extracts up to numColors dominant colors from an image using
// median cut. Transparent pixels are ignored.
func ExtractPalette(img image.Image, numColors int) []Color {
	if numColors < 1 {
		return nil
	}
	if numColors > 256 {
		numColors = 256
	}

	var colors []Color
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if a > 0 {
				colors = append(colors, Color{
					R: uint8(r >> 8),
					G: uint8(g >> 8),
					B: uint8(b >> 8),
				})
			}
		}
	}
	if len(colors) == 0 {
		return nil
	}

	boxes := []*box{newBox(colors)}

	// Extract more colors than needed to account for filtering
	target := numColors * 2
	for len(boxes) < target {
		i := findBoxToSplit(boxes)
		if i < 0 {
			break
		}
		b1, b2 := splitBox(boxes[i])
		boxes = append(boxes[:i], append([]*box{b1, b2}, boxes[i+1:]...)...)
	}

	// Larger boxes first so the dominant colors survive the trim below
	sort.SliceStable(boxes, func(i, j int) bool {
		return len(boxes[i].colors) > len(boxes[j].colors)
	})

	palette := make([]Color, len(boxes))
	for i, b := range boxes {
		palette[i] = averageColor(b.colors)
	}

	palette = filterSimilarColors(palette, similarityThreshold)
	if len(palette) > numColors {
		palette = palette[:numColors]
	}

	return palette
}

// colorDistance calculates the Euclidean distance between two colors in RGB space
func colorDistance(c1, c2 Color) float64 {
	rDiff := float64(c1.R) - float64(c2.R)
	gDiff := float64(c1.G) - float64(c2.G)
	bDiff := float64(c1.B) - float64(c2.B)
	return math.Sqrt(rDiff*rDiff + gDiff*gDiff + bDiff*bDiff)
}

// filterSimilarColors removes colors that are too similar to an earlier one
func filterSimilarColors(colors []Color, threshold float64) []Color {
	if len(colors) <= 1 {
		return colors
	}

	result := []Color{colors[0]}
	for _, c := range colors[1:] {
		distinct := true
		for _, existing := range result {
			if colorDistance(c, existing) < threshold {
				distinct = false
				break
			}
		}
		if distinct {
			result = append(result, c)
		}
	}
	return result
}

func newBox(colors []Color) *box {
	b := &box{
		rMin: 255, gMin: 255, bMin: 255,
		colors: colors,
	}

	for _, c := range colors {
		b.rMin = min(b.rMin, int(c.R))
		b.rMax = max(b.rMax, int(c.R))
		b.gMin = min(b.gMin, int(c.G))
		b.gMax = max(b.gMax, int(c.G))
		b.bMin = min(b.bMin, int(c.B))
		b.bMax = max(b.bMax, int(c.B))
	}

	return b
}

// findBoxToSplit returns the index of the largest splittable box, or -1
func findBoxToSplit(boxes []*box) int {
	idx := -1
	maxVolume := 1

	for i, b := range boxes {
		if len(b.colors) < 2 {
			continue
		}
		if v := b.volume(); v > maxVolume {
			maxVolume = v
			idx = i
		}
	}

	return idx
}

func splitBox(b *box) (*box, *box) {
	rRange := b.rMax - b.rMin
	gRange := b.gMax - b.gMin
	bRange := b.bMax - b.bMin

	var channel func(Color) uint8
	switch {
	case rRange >= gRange && rRange >= bRange:
		channel = func(c Color) uint8 { return c.R }
	case gRange >= bRange:
		channel = func(c Color) uint8 { return c.G }
	default:
		channel = func(c Color) uint8 { return c.B }
	}

	sort.Slice(b.colors, func(i, j int) bool {
		return channel(b.colors[i]) < channel(b.colors[j])
	})

	split := splitIndex(b.colors, channel)
	return newBox(b.colors[:split]), newBox(b.colors[split:])
}

// splitIndex returns the value boundary closest to the median of sorted, so
// that pixels of the same channel value always land in the same box
func splitIndex(sorted []Color, channel func(Color) uint8) int {
	median := len(sorted) / 2
	v := channel(sorted[median])

	lo := median
	for lo > 0 && channel(sorted[lo-1]) == v {
		lo--
	}
	hi := median
	for hi < len(sorted) && channel(sorted[hi]) == v {
		hi++
	}

	switch {
	case lo == 0:
		return hi
	case hi == len(sorted):
		return lo
	case median-lo <= hi-median:
		return lo
	default:
		return hi
	}
}

func averageColor(colors []Color) Color {
	if len(colors) == 0 {
		return Color{}
	}

	var rSum, gSum, bSum int
	for _, c := range colors {
		rSum += int(c.R)
		gSum += int(c.G)
		bSum += int(c.B)
	}

	count := len(colors)
	return Color{
		R: uint8(rSum / count),
		G: uint8(gSum / count),
		B: uint8(bSum / count),
	}
}
