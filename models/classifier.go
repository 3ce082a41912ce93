package models

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/pkg/errors"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

const numClasses = 1000

// arch describes a built-in classifier: a stack of fully connected layers
// run over a width-pooled view of the input. The widths are chosen so the
// relative cost ordering of the stand-ins matches their namesakes.
type arch struct {
	name   string
	hidden []int
}

var builtinArchs = []arch{
	{name: "resnet18", hidden: []int{512, 512, 512, 512}},
	{name: "mobilenet_v2", hidden: []int{256, 256}},
	{name: "alexnet", hidden: []int{384, 384, 384}},
}

// classifier is an in-process image classifier built as a gorgonia compute
// graph: matmul + rectify per hidden layer, softmax over the class scores.
// The graph is compiled lazily for the batch size of the first input it
// sees, so the cost lands in the warm-up pass rather than a timed iteration.
type classifier struct {
	arch    arch
	weights []*tensor.Dense

	batch int
	graph *gorgonia.ExprGraph
	vm    gorgonia.VM
	in    *gorgonia.Node
	out   *gorgonia.Node
}

func newClassifier(a arch) (Model, error) {
	poolWidth := 3 * 224
	dims := append([]int{poolWidth}, a.hidden...)
	dims = append(dims, numClasses)

	weights := make([]*tensor.Dense, 0, len(dims)-1)
	for i := 0; i < len(dims)-1; i++ {
		weights = append(weights, randomWeights(a.name, i, dims[i], dims[i+1]))
	}

	return &classifier{arch: a, weights: weights}, nil
}

// randomWeights builds a deterministic weight matrix so a given model name
// always produces the same network.
func randomWeights(name string, layer, rows, cols int) *tensor.Dense {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s/%d", name, layer)
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	backing := make([]float32, rows*cols)
	scale := float32(1.0) / float32(rows)
	for i := range backing {
		backing[i] = (rng.Float32() - 0.5) * scale
	}
	return tensor.New(tensor.WithShape(rows, cols), tensor.WithBacking(backing))
}

func (c *classifier) Name() string { return c.arch.name }

func (c *classifier) Infer(ctx context.Context, input *tensor.Dense) (tensor.Tensor, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	shape := input.Shape()
	if len(shape) != 4 {
		return nil, errors.Errorf("%s: expected 4D input, got shape %v", c.arch.name, shape)
	}

	pooled, err := poolWidthAxis(input)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: pooling input", c.arch.name)
	}

	if c.vm == nil || c.batch != shape[0] {
		if err := c.compile(shape[0]); err != nil {
			return nil, errors.Wrapf(err, "%s: compiling graph", c.arch.name)
		}
	}

	if err := gorgonia.Let(c.in, pooled); err != nil {
		return nil, errors.Wrapf(err, "%s: binding input", c.arch.name)
	}
	if err := c.vm.RunAll(); err != nil {
		return nil, errors.Wrapf(err, "%s: forward pass", c.arch.name)
	}

	value, ok := c.out.Value().(*tensor.Dense)
	if !ok {
		return nil, errors.Errorf("%s: unexpected output value %T", c.arch.name, c.out.Value())
	}
	// The tape machine reuses output storage between runs.
	result := value.Clone().(*tensor.Dense)
	c.vm.Reset()

	return result, nil
}

// compile builds the graph and tape machine for the given batch size.
func (c *classifier) compile(batch int) error {
	if c.vm != nil {
		if err := c.vm.Close(); err != nil {
			return err
		}
		c.vm = nil
	}

	g := gorgonia.NewGraph()
	in := gorgonia.NewMatrix(g, tensor.Float32,
		gorgonia.WithShape(batch, 3*224),
		gorgonia.WithName("input"))

	h := in
	var err error
	for i, w := range c.weights {
		wNode := gorgonia.NodeFromAny(g, w, gorgonia.WithName(fmt.Sprintf("w%d", i)))
		if h, err = gorgonia.Mul(h, wNode); err != nil {
			return err
		}
		if i < len(c.weights)-1 {
			if h, err = gorgonia.Rectify(h); err != nil {
				return err
			}
		}
	}

	out, err := gorgonia.SoftMax(h, 1)
	if err != nil {
		return err
	}

	c.graph = g
	c.vm = gorgonia.NewTapeMachine(g)
	c.in = in
	c.out = out
	c.batch = batch
	return nil
}

func (c *classifier) Close() error {
	if c.vm == nil {
		return nil
	}
	err := c.vm.Close()
	c.vm = nil
	return err
}

// poolWidthAxis averages a (b, c, h, w) tensor over its width axis and
// flattens the rest, producing the (b, c*h) matrix the graph consumes.
func poolWidthAxis(input *tensor.Dense) (*tensor.Dense, error) {
	data, ok := input.Data().([]float32)
	if !ok {
		return nil, errors.Errorf("expected float32 backing, got %T", input.Data())
	}

	shape := input.Shape()
	batch, rows, width := shape[0], shape[1]*shape[2], shape[3]

	pooled := make([]float32, batch*rows)
	for r := 0; r < batch*rows; r++ {
		var sum float32
		base := r * width
		for i := 0; i < width; i++ {
			sum += data[base+i]
		}
		pooled[r] = sum / float32(width)
	}

	return tensor.New(tensor.WithShape(batch, rows), tensor.WithBacking(pooled)), nil
}
