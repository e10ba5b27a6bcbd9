package serialization

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/charrec/internal/snn"
)

// Load reads a snapshot from path.
//
// Failure to open the file wraps ErrIO. A file with a foreign version tag
// fails with ErrUnsupportedVersion and nothing else is read. The returned
// snapshot has passed Validate.
func Load(path string) (*snn.Snapshot, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open file: %w", ErrIO, err)
	}
	defer file.Close()

	r := bufio.NewReader(file)
	s, err := ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	if err := checkTrailing(r); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return s, nil
}

// checkTrailing succeeds only when r is at EOF. Anything after the trailer
// means the file is not what we wrote.
func checkTrailing(r io.ByteReader) error {
	_, err := r.ReadByte()
	switch {
	case err == io.EOF:
		return nil
	case err != nil:
		return fmt.Errorf("%w: failed to read past checksum: %w", ErrIO, err)
	default:
		return &ValidationError{Type: "trailing_data", Details: "bytes after checksum"}
	}
}

// Inspect reads only the fixed fields at the start of the file at path.
func Inspect(path string) (Header, error) {
	//nolint:gosec // G304: File path comes from user input
	file, err := os.Open(path)
	if err != nil {
		return Header{}, fmt.Errorf("%w: failed to open file: %w", ErrIO, err)
	}
	defer file.Close()

	return readHeader(bufio.NewReader(file))
}

// ReadFrom reads a snapshot from an io.Reader.
// This is useful for reading from buffers or network connections.
func ReadFrom(reader io.Reader) (*snn.Snapshot, error) {
	d := newDigest()
	r := d.reader(reader)

	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	s := &snn.Snapshot{
		InputWidth:   h.InputWidth,
		HiddenLayers: h.HiddenLayers,
		HiddenWidth:  h.HiddenWidth,
		OutputWidth:  h.OutputWidth,
		LearningRate: h.LearningRate,
	}

	layers, _, vectors := h.sequenceCounts()

	s.Layers = make([][]float32, layers)
	for l := range s.Layers {
		if s.Layers[l], err = readSequence(r, fieldName("layers", l)); err != nil {
			return nil, err
		}
	}

	// Row counts come from the dimensions, row lengths from the file.
	s.Weights = make([][][]float32, vectors)
	for l := range s.Weights {
		rows := h.HiddenWidth
		if l == h.HiddenLayers {
			rows = h.OutputWidth
		}
		s.Weights[l] = make([][]float32, rows)
		for i := range s.Weights[l] {
			if s.Weights[l][i], err = readSequence(r, fieldName("weights", l, i)); err != nil {
				return nil, err
			}
		}
	}

	s.Biases = make([][]float32, vectors)
	for l := range s.Biases {
		if s.Biases[l], err = readSequence(r, fieldName("biases", l)); err != nil {
			return nil, err
		}
	}

	s.Errors = make([][]float32, vectors)
	for l := range s.Errors {
		if s.Errors[l], err = readSequence(r, fieldName("errors", l)); err != nil {
			return nil, err
		}
	}

	computed := d.sum()
	var stored [ChecksumSize]byte
	if _, err := io.ReadFull(reader, stored[:]); err != nil {
		return nil, readError("checksum", err)
	}
	if err := ValidateChecksum(computed, stored); err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// readHeader reads and checks the version tag, then the dimensions and the
// learning rate.
func readHeader(r io.Reader) (Header, error) {
	var h Header
	if err := binary.Read(r, byteOrder, &h.Version); err != nil {
		return Header{}, readError("version", err)
	}
	if h.Version != FormatVersion {
		return Header{}, fmt.Errorf("%w: got %#08x, expected %#08x", ErrUnsupportedVersion, h.Version, FormatVersion)
	}

	var dims [4]uint64
	if err := binary.Read(r, byteOrder, &dims); err != nil {
		return Header{}, readError("dimensions", err)
	}
	for i, name := range []string{"input_width", "hidden_layers", "hidden_width", "output_width"} {
		if dims[i] > MaxDimension {
			return Header{}, &ValidationError{
				Type:    "dimension",
				Field:   name,
				Details: fmt.Sprintf("got %d, max %d", dims[i], MaxDimension),
			}
		}
	}
	h.InputWidth = int(dims[0])
	h.HiddenLayers = int(dims[1])
	h.HiddenWidth = int(dims[2])
	h.OutputWidth = int(dims[3])

	if err := ValidateHeader(&h); err != nil {
		return Header{}, err
	}

	if err := binary.Read(r, byteOrder, &h.LearningRate); err != nil {
		return Header{}, readError("learning_rate", err)
	}
	return h, nil
}

func readSequence(r io.Reader, field string) ([]float32, error) {
	var n uint64
	if err := binary.Read(r, byteOrder, &n); err != nil {
		return nil, readError(field+" length", err)
	}
	if err := validateSequenceLen(field, n); err != nil {
		return nil, err
	}

	values := make([]float32, n)
	if err := binary.Read(r, byteOrder, values); err != nil {
		return nil, readError(field, err)
	}
	return values, nil
}

func readError(field string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: reading %s", ErrTruncated, field)
	}
	return fmt.Errorf("failed to read %s: %w", field, err)
}
