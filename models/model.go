// Package models - model registry and inference backends.
package models

import (
	"context"
	"fmt"

	"gorgonia.org/tensor"
)

// InputShape is the (batch, channels, height, width) layout fed to a model.
type InputShape struct {
	Batch    int
	Channels int
	Height   int
	Width    int
}

// NewInputShape returns the standard classifier input shape (batch, 3, 224, 224).
func NewInputShape(batch int) InputShape {
	return InputShape{Batch: batch, Channels: 3, Height: 224, Width: 224}
}

// Dims returns the shape as a dimension slice for tensor construction.
func (s InputShape) Dims() []int {
	return []int{s.Batch, s.Channels, s.Height, s.Width}
}

// Elems returns the total number of elements in the shape.
func (s InputShape) Elems() int {
	return s.Batch * s.Channels * s.Height * s.Width
}

func (s InputShape) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", s.Batch, s.Channels, s.Height, s.Width)
}

// Model is the narrow capability the benchmark loop needs: a single forward
// pass over a fixed-shape float32 tensor. Implementations are stateless
// across calls; any backend (compute graph, ONNX session, test stub) can be
// substituted without touching the loop.
type Model interface {
	// Name returns the registry name of the model.
	Name() string

	// Infer runs one forward pass and returns the class scores.
	Infer(ctx context.Context, input *tensor.Dense) (tensor.Tensor, error)

	// Close releases backend resources.
	Close() error
}
