package main

import (
	"bytes"
	"encoding/json"
	"image"
	stdcolor "image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watzon/pigment/palette"
	"github.com/watzon/pigment/render"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	t.Setenv("PIGMENT_CONFIG", "")
	t.Setenv("PIGMENT_LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateCSSWithLocks(t *testing.T) {
	out, err := runCLI(t, "generate", "--seed", "1", "--lock", "#aabbcc", "--lock", "102030")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, ":root {", lines[0])
	assert.Equal(t, "  --color-1: #AABBCC;", lines[1])
	assert.Equal(t, "  --color-2: #102030;", lines[2])
	assert.Equal(t, "}", lines[6])
}

func TestGenerateIsDeterministicWithSeed(t *testing.T) {
	a, err := runCLI(t, "generate", "--seed", "42", "--format", "json")
	require.NoError(t, err)
	b, err := runCLI(t, "generate", "--seed", "42", "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	var doc palette.Document
	require.NoError(t, json.Unmarshal([]byte(a), &doc))
	assert.Len(t, doc.Palette, palette.Size)
}

func TestGenerateRejectsBadInput(t *testing.T) {
	_, err := runCLI(t, "generate", "--lock", "#12345")
	assert.Error(t, err)

	_, err = runCLI(t, "generate", "--format", "svg")
	assert.Error(t, err)

	args := []string{"generate"}
	for i := 0; i <= palette.Size; i++ {
		args = append(args, "--lock", "#000000")
	}
	_, err = runCLI(t, args...)
	assert.Error(t, err)
}

func TestGeneratePNG(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, "generate", "--format", "png", "-o", dir)
	require.NoError(t, err)

	path := filepath.Join(dir, render.FileName)
	assert.Equal(t, path, strings.TrimSpace(out))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, render.DefaultWidth, render.DefaultHeight), img.Bounds())
}

func TestGenerateCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "new", "out")
	out, err := runCLI(t, "generate", "--format", "png", "-o", dir)
	require.NoError(t, err)

	path := filepath.Join(dir, render.FileName)
	assert.Equal(t, path, strings.TrimSpace(out))
	assert.FileExists(t, path)

	file := filepath.Join(t.TempDir(), "styles", "palette.css")
	_, err = runCLI(t, "generate", "--file", file)
	require.NoError(t, err)
	assert.FileExists(t, file)
}

func TestExtract(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			c := stdcolor.RGBA{255, 0, 0, 255}
			if x >= 10 {
				c = stdcolor.RGBA{0, 0, 255, 255}
			}
			src.SetRGBA(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "photo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, src))
	require.NoError(t, f.Close())

	out, err := runCLI(t, "extract", path, "--format", "css", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "#FF0000;")
	assert.Contains(t, out, "#0000FF;")
}

func TestExtractMissingFile(t *testing.T) {
	_, err := runCLI(t, "extract", filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}
