package snn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainedNetwork(t *testing.T) *Network {
	t.Helper()

	n := New(6, 2, 5, 3, WithSeed(99))
	n.InitWeightsRandom()
	n.InitBiasesRandom(DefaultBiasMin, DefaultBiasMax)
	n.SetLearningRate(0.3)
	for i := 0; i < 20; i++ {
		n.Forward([]float32{1, 0, float32(i%2), 0.5, 0, 1})
		n.Backward(unit(3, i%3))
	}
	return n
}

func TestSnapshot_ValidAfterConstruction(t *testing.T) {
	dims := [][4]int{{1, 1, 1, 1}, {10, 1, 10, 10}, {1024, 2, 32, 10}, {3, 4, 7, 2}}
	for _, d := range dims {
		n := New(d[0], d[1], d[2], d[3])
		assert.True(t, CreateSnapshot(n).Valid(), "dims %v", d)
	}
}

func TestSnapshot_ValidAfterTraining(t *testing.T) {
	s := trainedNetwork(t).Snapshot()
	require.NoError(t, s.Validate())
	assert.Equal(t, float32(0.3), s.LearningRate)
	assert.Equal(t, 2, s.HiddenLayers)
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	n := trainedNetwork(t)
	s := n.Snapshot()
	before := s.Weights[0][0][0]

	n.Forward(make([]float32, 6))
	n.Backward([]float32{1, 1, 1})
	n.weights[0][0][0] = 123

	assert.Equal(t, before, s.Weights[0][0][0])
}

func TestRestoreFromSnapshot_ForwardMatches(t *testing.T) {
	orig := trainedNetwork(t)
	restored := New(1, 1, 1, 1)
	require.NoError(t, RestoreFromSnapshot(restored, orig.Snapshot()))

	in, hl, hw, out := restored.Dims()
	assert.Equal(t, []int{6, 2, 5, 3}, []int{in, hl, hw, out})
	assert.Equal(t, orig.LearningRate(), restored.LearningRate())

	input := []float32{0.2, 0.9, 0, 1, 0.4, 0.6}
	orig.Forward(input)
	restored.Forward(input)
	assert.Equal(t, orig.ReadOutput(), restored.ReadOutput())

	// Both keep training identically.
	orig.Backward([]float32{0, 1, 0})
	restored.Backward([]float32{0, 1, 0})
	assert.Equal(t, orig.Snapshot(), restored.Snapshot())
}

func TestNewFromSnapshot(t *testing.T) {
	s := trainedNetwork(t).Snapshot()
	n, err := NewFromSnapshot(s)
	require.NoError(t, err)
	assert.Equal(t, s, n.Snapshot())

	// The network does not share memory with the snapshot.
	n.weights[1][0][0] = 42
	assert.NotEqual(t, float32(42), s.Weights[1][0][0])
}

func TestSnapshot_InvalidRejected(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(s *Snapshot)
		field   string
	}{
		{"short bias vector", func(s *Snapshot) { s.Biases[1] = s.Biases[1][:len(s.Biases[1])-1] }, "biases"},
		{"missing bias vector", func(s *Snapshot) { s.Biases = s.Biases[:2] }, "biases"},
		{"long error vector", func(s *Snapshot) { s.Errors[0] = append(s.Errors[0], 0) }, "errors"},
		{"short layer", func(s *Snapshot) { s.Layers[0] = s.Layers[0][:5] }, "layers"},
		{"extra layer", func(s *Snapshot) { s.Layers = append(s.Layers, []float32{0}) }, "layers"},
		{"short weight row", func(s *Snapshot) { s.Weights[2][1] = s.Weights[2][1][:4] }, "weights"},
		{"missing weight row", func(s *Snapshot) { s.Weights[0] = s.Weights[0][:4] }, "weights"},
		{"missing matrix", func(s *Snapshot) { s.Weights = s.Weights[:2] }, "weights"},
		{"declared width changed", func(s *Snapshot) { s.HiddenWidth = 6 }, "layers"},
		{"zero input width", func(s *Snapshot) { s.InputWidth = 0 }, "input_width"},
		{"negative hidden layers", func(s *Snapshot) { s.HiddenLayers = -1 }, "hidden_layers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := trainedNetwork(t).Snapshot()
			tt.corrupt(s)

			assert.False(t, s.Valid())

			err := s.Validate()
			require.ErrorIs(t, err, ErrCorruptState)
			var shapeErr *ShapeError
			require.True(t, errors.As(err, &shapeErr))
			assert.Equal(t, tt.field, shapeErr.Field)

			target := New(2, 1, 2, 2)
			target.weights[0][0][0] = 7
			before := target.Snapshot()

			err = RestoreFromSnapshot(target, s)
			require.ErrorIs(t, err, ErrCorruptState)
			assert.Equal(t, before, target.Snapshot(), "network must be untouched")

			_, err = NewFromSnapshot(s)
			assert.ErrorIs(t, err, ErrCorruptState)
		})
	}
}

func TestSnapshot_NilInvalid(t *testing.T) {
	var s *Snapshot
	assert.False(t, s.Valid())
	assert.ErrorIs(t, s.Validate(), ErrCorruptState)
}

func TestShapeError_Message(t *testing.T) {
	err := &ShapeError{Field: "weights", Index: []int{1, 3}, Got: 4, Want: 5}
	assert.Equal(t, "snn: weights[1 3]: got 4 entries, want 5", err.Error())

	err = &ShapeError{Field: "biases", Got: 1, Want: 3}
	assert.Equal(t, "snn: biases: got 1 entries, want 3", err.Error())
}
