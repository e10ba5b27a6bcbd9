package serialization

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/born-ml/charrec/internal/snn"
)

// Save writes the snapshot to path.
//
// The data is written to a temporary file in the destination directory and
// renamed over path once complete, so path never holds a partial file.
// The saved file has mode 0644.
// Failures to create, write or rename the file wrap ErrIO. An invalid
// snapshot is rejected before anything is written.
func Save(path string, s *snn.Snapshot) (err error) {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("refusing to save: %w", err)
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: failed to create file: %w", ErrIO, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close() // Best effort cleanup on error
			_ = os.Remove(tmp.Name())
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err := WriteTo(buf, s); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("%w: failed to flush %s: %w", ErrIO, tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: failed to sync %s: %w", ErrIO, tmp.Name(), err)
	}
	// CreateTemp uses 0600; a saved network is readable like any other file.
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("%w: failed to chmod %s: %w", ErrIO, tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close %s: %w", ErrIO, tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: failed to rename %s to %s: %w", ErrIO, tmp.Name(), path, err)
	}
	return nil
}

// WriteTo writes the snapshot to an io.Writer.
// This is useful for writing to buffers or network connections.
func WriteTo(w io.Writer, s *snn.Snapshot) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("refusing to write: %w", err)
	}

	d := newDigest()
	sw := &sequenceWriter{w: d.writer(w)}

	// Version tag
	sw.put("version", FormatVersion)

	// Dimensions and learning rate
	sw.put("input_width", uint64(s.InputWidth))
	sw.put("hidden_layers", uint64(s.HiddenLayers))
	sw.put("hidden_width", uint64(s.HiddenWidth))
	sw.put("output_width", uint64(s.OutputWidth))
	sw.put("learning_rate", s.LearningRate)

	for l, layer := range s.Layers {
		sw.sequence(fieldName("layers", l), layer)
	}
	for l, rows := range s.Weights {
		for i, row := range rows {
			sw.sequence(fieldName("weights", l, i), row)
		}
	}
	for l, b := range s.Biases {
		sw.sequence(fieldName("biases", l), b)
	}
	for l, e := range s.Errors {
		sw.sequence(fieldName("errors", l), e)
	}
	if sw.err != nil {
		return sw.err
	}

	// Trailer, not part of the digest
	sum := d.sum()
	if _, err := w.Write(sum[:]); err != nil {
		return fmt.Errorf("failed to write checksum: %w", err)
	}
	return nil
}

// sequenceWriter remembers the first write error so that the field list in
// WriteTo reads in file order.
type sequenceWriter struct {
	w   io.Writer
	err error
}

func (sw *sequenceWriter) put(field string, v any) {
	if sw.err != nil {
		return
	}
	if err := binary.Write(sw.w, byteOrder, v); err != nil {
		sw.err = fmt.Errorf("failed to write %s: %w", field, err)
	}
}

func (sw *sequenceWriter) sequence(field string, values []float32) {
	sw.put(field+" length", uint64(len(values)))
	sw.put(field, values)
}

func fieldName(name string, index ...int) string {
	for _, i := range index {
		name += fmt.Sprintf("[%d]", i)
	}
	return name
}
