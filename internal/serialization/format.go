package serialization

import "encoding/binary"

// FormatVersion is the version tag written at the start of every file.
const FormatVersion uint32 = 0x24052823

// Field sizes in bytes.
const (
	VersionSize    = 4
	DimensionSize  = 8
	LengthSize     = 8
	ValueSize      = 4
	ChecksumSize   = 32
	FixedFieldSize = VersionSize + 4*DimensionSize + ValueSize // tag, dimensions, learning rate
)

var byteOrder = binary.LittleEndian

// Header holds the fixed fields at the start of a file.
type Header struct {
	Version      uint32
	InputWidth   int
	HiddenLayers int
	HiddenWidth  int
	OutputWidth  int
	LearningRate float32
}

// sequenceCounts returns how many sequences of each kind follow the header.
func (h Header) sequenceCounts() (layers, weightRows, vectors int) {
	connections := h.HiddenLayers + 1
	weightRows = h.HiddenLayers*h.HiddenWidth + h.OutputWidth
	return h.HiddenLayers + 2, weightRows, connections
}

// EncodedSize returns the exact size in bytes of a file holding a network
// with the dimensions in h.
func (h Header) EncodedSize() int64 {
	layers, weightRows, vectors := h.sequenceCounts()
	sequences := int64(layers + weightRows + 2*vectors)

	in, hw, out := int64(h.InputWidth), int64(h.HiddenWidth), int64(h.OutputWidth)
	hl := int64(h.HiddenLayers)
	neurons := hl*hw + out // every non-input layer
	weights := hw*in + (hl-1)*hw*hw + out*hw

	values := in + neurons + weights + 2*neurons
	return FixedFieldSize + sequences*LengthSize + values*ValueSize + ChecksumSize
}
