package snn

import "fmt"

// Snapshot is a deep copy of a Network's complete numeric state together with
// its structural dimensions. A Snapshot is never modified after creation.
type Snapshot struct {
	InputWidth   int
	HiddenLayers int
	HiddenWidth  int
	OutputWidth  int
	LearningRate float32

	Layers  [][]float32   // HiddenLayers+2 activation vectors
	Weights [][][]float32 // HiddenLayers+1 matrices [dst][src]
	Biases  [][]float32   // HiddenLayers+1 vectors
	Errors  [][]float32   // HiddenLayers+1 vectors
}

// CreateSnapshot captures the full state of n. The network is not modified.
func CreateSnapshot(n *Network) *Snapshot {
	return &Snapshot{
		InputWidth:   n.inputWidth,
		HiddenLayers: n.hiddenLayers,
		HiddenWidth:  n.hiddenWidth,
		OutputWidth:  n.outputWidth,
		LearningRate: n.eta,
		Layers:       clone2(n.layers),
		Weights:      clone3(n.weights),
		Biases:       clone2(n.biases),
		Errors:       clone2(n.errors),
	}
}

// Snapshot is shorthand for CreateSnapshot(n).
func (n *Network) Snapshot() *Snapshot {
	return CreateSnapshot(n)
}

// RestoreFromSnapshot overwrites the state and dimensions of n with a copy of
// s. If s is not valid, n is left untouched and the returned error matches
// ErrCorruptState.
func RestoreFromSnapshot(n *Network, s *Snapshot) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("restore network: %w", err)
	}

	n.inputWidth = s.InputWidth
	n.hiddenLayers = s.HiddenLayers
	n.hiddenWidth = s.HiddenWidth
	n.outputWidth = s.OutputWidth
	n.eta = s.LearningRate
	n.layers = clone2(s.Layers)
	n.weights = clone3(s.Weights)
	n.biases = clone2(s.Biases)
	n.errors = clone2(s.Errors)
	return nil
}

// NewFromSnapshot builds a Network from a valid snapshot.
func NewFromSnapshot(s *Snapshot, opts ...Option) (*Network, error) {
	n := &Network{}
	for _, opt := range opts {
		opt(n)
	}
	if err := RestoreFromSnapshot(n, s); err != nil {
		return nil, err
	}
	return n, nil
}

// Valid reports whether every container in s matches the dimensions it
// declares.
func (s *Snapshot) Valid() bool {
	return s.Validate() == nil
}

// Validate checks every nested container length against the dimensions
// declared by s and returns a *ShapeError for the first mismatch.
func (s *Snapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil snapshot", ErrCorruptState)
	}

	dims := []struct {
		name  string
		value int
	}{
		{"input_width", s.InputWidth},
		{"hidden_layers", s.HiddenLayers},
		{"hidden_width", s.HiddenWidth},
		{"output_width", s.OutputWidth},
	}
	for _, d := range dims {
		if d.value <= 0 {
			return &ShapeError{Field: d.name, Got: d.value, Want: 1}
		}
	}

	widths := layerWidths(s.InputWidth, s.HiddenLayers, s.HiddenWidth, s.OutputWidth)
	connections := len(widths) - 1

	if len(s.Layers) != len(widths) {
		return &ShapeError{Field: "layers", Got: len(s.Layers), Want: len(widths)}
	}
	for l, layer := range s.Layers {
		if len(layer) != widths[l] {
			return &ShapeError{Field: "layers", Index: []int{l}, Got: len(layer), Want: widths[l]}
		}
	}

	if len(s.Weights) != connections {
		return &ShapeError{Field: "weights", Got: len(s.Weights), Want: connections}
	}
	for l, rows := range s.Weights {
		if len(rows) != widths[l+1] {
			return &ShapeError{Field: "weights", Index: []int{l}, Got: len(rows), Want: widths[l+1]}
		}
		for i, row := range rows {
			if len(row) != widths[l] {
				return &ShapeError{Field: "weights", Index: []int{l, i}, Got: len(row), Want: widths[l]}
			}
		}
	}

	for _, f := range []struct {
		name string
		vecs [][]float32
	}{
		{"biases", s.Biases},
		{"errors", s.Errors},
	} {
		if len(f.vecs) != connections {
			return &ShapeError{Field: f.name, Got: len(f.vecs), Want: connections}
		}
		for l, v := range f.vecs {
			if len(v) != widths[l+1] {
				return &ShapeError{Field: f.name, Index: []int{l}, Got: len(v), Want: widths[l+1]}
			}
		}
	}

	return nil
}

func clone2(src [][]float32) [][]float32 {
	dst := make([][]float32, len(src))
	for i, v := range src {
		dst[i] = make([]float32, len(v))
		copy(dst[i], v)
	}
	return dst
}

func clone3(src [][][]float32) [][][]float32 {
	dst := make([][][]float32, len(src))
	for i, m := range src {
		dst[i] = clone2(m)
	}
	return dst
}
