package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lukeforge/hal"
)

func TestCaptureWritesPNG(t *testing.T) {
	d := hal.NewOffscreen(8, 4)
	d.Framebuffer().ClearRGB(0xFF, 0, 0)

	img := capture(d.Framebuffer())
	require.NotNil(t, img)
	path := filepath.Join(t.TempDir(), "f.png")
	require.NoError(t, writePNG(path, img))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Bounds().Dx())
	r, g, b, _ := got.At(3, 2).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)
	assert.Zero(t, g)
	assert.Zero(t, b)
	assert.Nil(t, capture(nil))
}
