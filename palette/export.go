package palette

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/watzon/pigment/color"
)

// Format is an export format
type Format string

const (
	// FormatCSS exports CSS custom properties on :root
	FormatCSS  Format = "css"
	// FormatJSON exports a JSON document with name, hex and rgb per color
	FormatJSON Format = "json"
	// FormatPNG exports the palette as a PNG strip
	FormatPNG  Format = "png"
)

// ParseFormat validates a user supplied format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSS, FormatJSON, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want css, json or png)", s)
	}
}

// Entry is one color of the JSON export
type Entry struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
	RGB  RGB    `json:"rgb"`
}

// RGB holds the decoded channels of an Entry
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Document is the top-level JSON export
type Document struct {
	Palette []Entry `json:"palette"`
}

// ToCSS renders the palette as CSS custom properties on :root
func (c *Controller) ToCSS() string {
	return CSS(c.Colors())
}

// ToJSON renders the palette as an indented JSON document
func (c *Controller) ToJSON() (string, error) {
	return JSON(c.Colors())
}

// CSS renders colors as CSS custom properties, 1-indexed
func CSS(colors []color.Color) string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for i, col := range colors {
		fmt.Fprintf(&b, "  --color-%d: %s;\n", i+1, col.Hex())
	}
	b.WriteString("}")
	return b.String()
}

// JSON renders colors as a Document, indented with two spaces
func JSON(colors []color.Color) (string, error) {
	doc := Document{Palette: make([]Entry, len(colors))}
	for i, col := range colors {
		hex := col.Hex()
		// Parse the canonical text back so the rgb block always agrees with hex
		rgb := color.MustParseHex(hex)
		doc.Palette[i] = Entry{
			Name: fmt.Sprintf("color-%d", i+1),
			Hex:  hex,
			RGB:  RGB{R: rgb.R, G: rgb.G, B: rgb.B},
		}
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode palette: %w", err)
	}
	return string(out), nil
}
