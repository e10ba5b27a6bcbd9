package snn

import (
	"fmt"

	"github.com/chewxy/math32"
	"golang.org/x/exp/rand"
)

// DefaultLearningRate is the learning rate of a freshly constructed Network.
const DefaultLearningRate float32 = 0.5

// Network is a layered sigmoid network trained by error back-propagation.
//
// Forward and Backward read and write the same activation and error buffers,
// so a Network must not be used from more than one goroutine at a time.
type Network struct {
	inputWidth   int
	hiddenLayers int
	hiddenWidth  int
	outputWidth  int

	layers  [][]float32   // [layer][neuron] activations
	weights [][][]float32 // [connection][dst][src]
	biases  [][]float32   // [connection][dst]
	errors  [][]float32   // [connection][dst], scratch for Backward

	eta float32
	src rand.Source // nil selects the global source
}

// Option configures a Network at construction.
type Option func(*Network)

// WithSource makes the random initializers draw from src.
func WithSource(src rand.Source) Option {
	return func(n *Network) {
		n.src = src
	}
}

// WithSeed makes the random initializers reproducible.
func WithSeed(seed uint64) Option {
	return WithSource(rand.NewSource(seed))
}

// New creates a Network with all activations, weights, biases and errors set
// to zero.
//
// Parameters:
//   - inputWidth: Number of input neurons
//   - hiddenLayers: Number of hidden layers
//   - hiddenWidth: Number of neurons in every hidden layer
//   - outputWidth: Number of output neurons
//
// New panics if any dimension is not positive.
func New(inputWidth, hiddenLayers, hiddenWidth, outputWidth int, opts ...Option) *Network {
	if inputWidth <= 0 || hiddenLayers <= 0 || hiddenWidth <= 0 || outputWidth <= 0 {
		panic(fmt.Sprintf("snn.New: dimensions must be positive, got input=%d hidden_layers=%d hidden_width=%d output=%d",
			inputWidth, hiddenLayers, hiddenWidth, outputWidth))
	}

	n := &Network{
		inputWidth:   inputWidth,
		hiddenLayers: hiddenLayers,
		hiddenWidth:  hiddenWidth,
		outputWidth:  outputWidth,
		eta:          DefaultLearningRate,
	}
	for _, opt := range opts {
		opt(n)
	}

	widths := layerWidths(inputWidth, hiddenLayers, hiddenWidth, outputWidth)

	n.layers = make([][]float32, len(widths))
	for l, w := range widths {
		n.layers[l] = make([]float32, w)
	}

	n.weights = make([][][]float32, len(widths)-1)
	n.biases = make([][]float32, len(widths)-1)
	n.errors = make([][]float32, len(widths)-1)
	for l := range n.weights {
		rows := make([][]float32, widths[l+1])
		for i := range rows {
			rows[i] = make([]float32, widths[l])
		}
		n.weights[l] = rows
		n.biases[l] = make([]float32, widths[l+1])
		n.errors[l] = make([]float32, widths[l+1])
	}

	return n
}

// layerWidths returns the width of every layer, input first.
func layerWidths(inputWidth, hiddenLayers, hiddenWidth, outputWidth int) []int {
	widths := make([]int, hiddenLayers+2)
	widths[0] = inputWidth
	for l := 1; l <= hiddenLayers; l++ {
		widths[l] = hiddenWidth
	}
	widths[hiddenLayers+1] = outputWidth
	return widths
}

// Dims returns the structural dimensions of the network.
func (n *Network) Dims() (inputWidth, hiddenLayers, hiddenWidth, outputWidth int) {
	return n.inputWidth, n.hiddenLayers, n.hiddenWidth, n.outputWidth
}

// SetLearningRate sets the multiplier applied to every weight and bias update.
// No bounds are enforced; values outside (0, 1] risk divergence.
func (n *Network) SetLearningRate(eta float32) {
	n.eta = eta
}

// LearningRate returns the current learning rate.
func (n *Network) LearningRate() float32 {
	return n.eta
}

// Forward computes the activations of every layer for the given input.
//
// Each neuron computes net = Σ w·prev + b and outputs sigmoid(net).
// Forward panics if len(input) differs from the input width.
func (n *Network) Forward(input []float32) {
	if len(input) != n.inputWidth {
		panic(fmt.Sprintf("snn.Forward: expected input of length %d, got %d", n.inputWidth, len(input)))
	}
	copy(n.layers[0], input)

	for l, rows := range n.weights {
		prev := n.layers[l]
		out := n.layers[l+1]
		bias := n.biases[l]
		for i, row := range rows {
			var net float32
			for j, w := range row {
				net += w * prev[j]
			}
			out[i] = sigmoid(net + bias[i])
		}
	}
}

// Backward propagates the output error for target back through the network
// and updates every weight and bias.
//
// It uses the activations left by the preceding Forward call, which must have
// been made with the input that target belongs to.
// Backward panics if len(target) differs from the output width.
func (n *Network) Backward(target []float32) {
	if len(target) != n.outputWidth {
		panic(fmt.Sprintf("snn.Backward: expected target of length %d, got %d", n.outputWidth, len(target)))
	}

	last := len(n.errors) - 1
	output := n.layers[last+1]
	for i, out := range output {
		n.errors[last][i] = out * (1 - out) * (target[i] - out)
	}

	// Hidden errors, from the last hidden layer to the first.
	for l := last - 1; l >= 0; l-- {
		errs := n.errors[l]
		clear(errs)
		for j, next := range n.errors[l+1] {
			row := n.weights[l+1][j]
			for i := range errs {
				errs[i] += row[i] * next
			}
		}
		for i, out := range n.layers[l+1] {
			errs[i] *= out * (1 - out)
		}
	}

	for l, rows := range n.weights {
		prev := n.layers[l]
		for i, row := range rows {
			delta := n.eta * n.errors[l][i]
			for j := range row {
				row[j] += delta * prev[j]
			}
			n.biases[l][i] += delta
		}
	}
}

// EvaluateError returns the root-mean-square error between the last computed
// output and target over the full output width.
func (n *Network) EvaluateError(target []float32) float32 {
	if len(target) != n.outputWidth {
		panic(fmt.Sprintf("snn.EvaluateError: expected target of length %d, got %d", n.outputWidth, len(target)))
	}
	return rmse(n.ReadOutput(), target)
}

// EvaluateErrorN is EvaluateError restricted to the first size outputs, for
// networks that reserve output slots they do not use.
func (n *Network) EvaluateErrorN(target []float32, size int) float32 {
	if size <= 0 || size > n.outputWidth || len(target) < size {
		panic(fmt.Sprintf("snn.EvaluateErrorN: size %d out of range for output %d and target %d",
			size, n.outputWidth, len(target)))
	}
	return rmse(n.ReadOutput()[:size], target[:size])
}

// ReadOutput returns the output layer activations. The slice is owned by the
// network and overwritten by the next Forward call.
func (n *Network) ReadOutput() []float32 {
	return n.layers[len(n.layers)-1]
}

func rmse(out, target []float32) float32 {
	var sum float32
	for i, o := range out {
		d := target[i] - o
		sum += d * d
	}
	return math32.Sqrt(sum / float32(len(out)))
}

// ArgMax returns the index and value of the largest element of v. Ties go to
// the lowest index. It returns -1 for an empty slice.
func ArgMax(v []float32) (int, float32) {
	if len(v) == 0 {
		return -1, 0
	}
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best, v[best]
}
