package models

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRandomInput(t *testing.T) {
	shape := NewInputShape(2)
	input := NewRandomInput(shape)

	assert.Equal(t, []int{2, 3, 224, 224}, []int(input.Shape()))
	data, ok := input.Data().([]float32)
	require.True(t, ok)
	assert.Len(t, data, shape.Elems())
}

func TestInputFromImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.png")
	writeTestPNG(t, path, 64, 48)

	shape := NewInputShape(2)
	input, err := InputFromImage(path, shape)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 224, 224}, []int(input.Shape()))

	// Both batch entries carry the same standardized sample.
	data := input.Data().([]float32)
	sample := shape.Channels * shape.Height * shape.Width
	assert.Equal(t, data[:sample], data[sample:2*sample])

	var sum float32
	for _, v := range data[:sample] {
		sum += v
	}
	assert.InDelta(t, 0.0, float64(sum)/float64(sample), 1e-3)
}

func TestInputFromImageMissingFile(t *testing.T) {
	_, err := InputFromImage(filepath.Join(t.TempDir(), "nope.png"), NewInputShape(1))
	assert.Error(t, err)
}

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: 128, A: 255})
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}
