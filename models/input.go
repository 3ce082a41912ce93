package models

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math/rand"
	"os"

	"github.com/chewxy/math32"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// NewRandomInput builds a synthetic input tensor of the given shape. Only
// the shape matters for timing; the content is pseudo-random.
func NewRandomInput(shape InputShape) *tensor.Dense {
	backing := make([]float32, shape.Elems())
	for i := range backing {
		backing[i] = rand.Float32()
	}
	return tensor.New(tensor.WithShape(shape.Dims()...), tensor.WithBacking(backing))
}

// InputFromImage decodes an image file, resizes it to the shape's spatial
// dimensions, and packs it as a standardized CHW float32 tensor replicated
// across the batch.
func InputFromImage(path string, shape InputShape) (*tensor.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening input image")
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, "decoding input image")
	}

	resized := resize.Resize(uint(shape.Width), uint(shape.Height), img, resize.Bilinear)

	sample := packCHW(resized, shape)
	standardize(sample)

	backing := make([]float32, shape.Elems())
	for b := 0; b < shape.Batch; b++ {
		copy(backing[b*len(sample):], sample)
	}
	return tensor.New(tensor.WithShape(shape.Dims()...), tensor.WithBacking(backing)), nil
}

// packCHW converts an image into channel-major float32 values in [0, 1].
func packCHW(img image.Image, shape InputShape) []float32 {
	bounds := img.Bounds()
	plane := shape.Height * shape.Width

	out := make([]float32, shape.Channels*plane)
	for y := 0; y < shape.Height; y++ {
		for x := 0; x < shape.Width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			idx := y*shape.Width + x
			out[idx] = float32(r) / 65535.0
			out[plane+idx] = float32(g) / 65535.0
			out[2*plane+idx] = float32(b) / 65535.0
		}
	}
	return out
}

// standardize shifts values to zero mean and unit variance in place.
func standardize(values []float32) {
	if len(values) == 0 {
		return
	}

	var sum float32
	for _, v := range values {
		sum += v
	}
	mean := sum / float32(len(values))

	var sq float32
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	std := math32.Sqrt(sq / float32(len(values)))
	if std == 0 {
		std = 1
	}

	for i := range values {
		values[i] = (values[i] - mean) / std
	}
}
