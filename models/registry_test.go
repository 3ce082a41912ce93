package models

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

type fakeModel struct {
	name     string
	inferred int
}

func (f *fakeModel) Name() string { return f.name }

func (f *fakeModel) Infer(ctx context.Context, input *tensor.Dense) (tensor.Tensor, error) {
	f.inferred++
	return input, nil
}

func (f *fakeModel) Close() error { return nil }

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	fake := &fakeModel{name: "stub"}
	r.Register("stub", func() (Model, error) { return fake, nil })

	m, err := r.New("stub")
	require.NoError(t, err)
	assert.Equal(t, "stub", m.Name())
}

func TestRegistryUnknownModel(t *testing.T) {
	r := NewRegistry()
	r.Register("stub", func() (Model, error) { return &fakeModel{name: "stub"}, nil })

	m, err := r.New("resnet152")
	assert.Nil(t, m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownModel))
	assert.Contains(t, err.Error(), "stub")
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	r.Register("b", func() (Model, error) { return &fakeModel{name: "b"}, nil })
	r.Register("a", func() (Model, error) { return &fakeModel{name: "a"}, nil })
	r.Register("c", func() (Model, error) { return &fakeModel{name: "c"}, nil })

	assert.Equal(t, []string{"a", "b", "c"}, r.Names())
}

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"alexnet", "mobilenet_v2", "resnet18"}, r.Names())

	for _, name := range r.Names() {
		m, err := r.New(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.Name())
		require.NoError(t, m.Close())
	}
}
