package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"

	"github.com/watzon/pigment/color"
)

// FileName is the name used when the palette image is saved
const FileName = "color-palette.png"

const (
	// DefaultWidth is the width in pixels of an exported palette strip
	DefaultWidth  = 1000
	// DefaultHeight is the height in pixels of an exported palette strip
	DefaultHeight = 200

	// sourceShare is the fraction of the canvas given to the source image
	sourceShare = 3.0 / 4.0
)

// Options configures the palette image
type Options struct {
	Width  int
	Height int

	// Labels draws each hex code centered on its band
	Labels bool

	// Source, when set, is drawn across the top of the canvas and the bands
	// take the remaining quarter
	Source image.Image
}

// DefaultOptions returns a plain 1000x200 strip
func DefaultOptions() Options {
	return Options{Width: DefaultWidth, Height: DefaultHeight}
}

var (
	boldOnce sync.Once
	boldFont *truetype.Font
	boldErr  error
)

func loadBold() (*truetype.Font, error) {
	boldOnce.Do(func() {
		boldFont, boldErr = truetype.Parse(gobold.TTF)
	})
	return boldFont, boldErr
}

// Strip draws the colors as equal-width vertical bands
func Strip(colors []color.Color, opts Options) (image.Image, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("no colors provided")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", opts.Width, opts.Height)
	}

	dc := gg.NewContext(opts.Width, opts.Height)

	startY := 0.0
	barHeight := float64(opts.Height)
	if opts.Source != nil {
		dc.SetRGB(1, 1, 1)
		dc.Clear()
		drawSource(dc, opts.Source, float64(opts.Width), float64(opts.Height)*sourceShare)
		startY = math.Round(float64(opts.Height) * sourceShare)
		barHeight = float64(opts.Height) - startY
	}

	barWidth := float64(opts.Width) / float64(len(colors))

	var face font.Face
	if opts.Labels {
		f, err := loadBold()
		if err != nil {
			return nil, fmt.Errorf("failed to parse label font: %w", err)
		}
		size := math.Max(8, math.Min(barHeight*0.18, barWidth*0.16))
		face = truetype.NewFace(f, &truetype.Options{Size: size})
		defer face.Close()
	}

	for i, c := range colors {
		x := float64(i) * barWidth

		dc.SetColor(c.ToRGBA())
		dc.DrawRectangle(x, startY, barWidth, barHeight)
		dc.Fill()

		if face != nil {
			dc.SetFontFace(face)
			dc.SetColor(color.ContrastColor(c))
			dc.DrawStringAnchored(c.Hex(), x+barWidth/2, startY+barHeight/2, 0.5, 0.5)
		}
	}

	return dc.Image(), nil
}

// PNG renders the strip and encodes it as PNG
func PNG(colors []color.Color, opts Options) ([]byte, error) {
	img, err := Strip(colors, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode palette image: %w", err)
	}
	return buf.Bytes(), nil
}

// drawSource center-crops src to the target aspect ratio and scales it to fill
// the top of the canvas
func drawSource(dc *gg.Context, src image.Image, width, height float64) {
	bounds := src.Bounds()
	imgWidth := float64(bounds.Dx())
	imgHeight := float64(bounds.Dy())
	if imgWidth == 0 || imgHeight == 0 {
		return
	}

	scale := math.Max(width/imgWidth, height/imgHeight)
	x := (width - imgWidth*scale) / 2
	y := (height - imgHeight*scale) / 2

	dc.Push()
	dc.DrawRectangle(0, 0, width, height)
	dc.Clip()
	dc.Translate(x, y)
	dc.Scale(scale, scale)
	dc.DrawImage(src, -bounds.Min.X, -bounds.Min.Y)
	dc.ResetClip()
	dc.Pop()
}
