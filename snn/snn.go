// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package snn

import (
	"io"

	"github.com/born-ml/charrec/internal/serialization"
	"github.com/born-ml/charrec/internal/snn"
)

// Network

// Network is a fully-connected sigmoid network.
type Network = snn.Network

// Option configures a Network at construction.
type Option = snn.Option

// DefaultLearningRate is the learning rate of a newly created network.
const DefaultLearningRate = snn.DefaultLearningRate

// Default bias range for InitBiasesRandom.
const (
	DefaultBiasMin = snn.DefaultBiasMin
	DefaultBiasMax = snn.DefaultBiasMax
)

// New creates a zeroed network. It panics if any dimension is not positive.
//
// Example:
//
//	net := snn.New(1024, 2, 32, 10)
func New(inputWidth, hiddenLayers, hiddenWidth, outputWidth int, opts ...Option) *Network {
	return snn.New(inputWidth, hiddenLayers, hiddenWidth, outputWidth, opts...)
}

// WithSeed makes weight and bias initialization reproducible.
func WithSeed(seed uint64) Option {
	return snn.WithSeed(seed)
}

// ArgMax returns the index and value of the largest element, or -1 for an
// empty slice.
func ArgMax(v []float32) (int, float32) {
	return snn.ArgMax(v)
}

// Snapshot

// Snapshot is a deep copy of a network's state.
type Snapshot = snn.Snapshot

// ShapeError describes the first container of a snapshot whose length does
// not match the declared dimensions.
type ShapeError = snn.ShapeError

// ErrCorruptState is matched by every structural validation failure.
var ErrCorruptState = snn.ErrCorruptState

// CreateSnapshot captures the state of n.
func CreateSnapshot(n *Network) *Snapshot {
	return snn.CreateSnapshot(n)
}

// RestoreFromSnapshot replaces the state of n with a copy of s.
func RestoreFromSnapshot(n *Network, s *Snapshot) error {
	return snn.RestoreFromSnapshot(n, s)
}

// NewFromSnapshot builds a network from s.
func NewFromSnapshot(s *Snapshot, opts ...Option) (*Network, error) {
	return snn.NewFromSnapshot(s, opts...)
}

// Persistence

// FormatVersion is the tag at the start of every network file.
const FormatVersion = serialization.FormatVersion

// Persistence errors.
var (
	ErrIO                 = serialization.ErrIO
	ErrUnsupportedVersion = serialization.ErrUnsupportedVersion
	ErrChecksumMismatch   = serialization.ErrChecksumMismatch
	ErrTruncated          = serialization.ErrTruncated
)

// Save atomically writes the state of n to path.
func Save(path string, n *Network) error {
	return serialization.Save(path, n.Snapshot())
}

// Load reads the network stored at path.
func Load(path string) (*Network, error) {
	s, err := serialization.Load(path)
	if err != nil {
		return nil, err
	}
	return snn.NewFromSnapshot(s)
}

// SaveSnapshot writes s to path.
func SaveSnapshot(path string, s *Snapshot) error {
	return serialization.Save(path, s)
}

// LoadSnapshot reads the snapshot stored at path.
func LoadSnapshot(path string) (*Snapshot, error) {
	return serialization.Load(path)
}

// WriteTo encodes s to w.
func WriteTo(w io.Writer, s *Snapshot) error {
	return serialization.WriteTo(w, s)
}

// ReadFrom decodes a snapshot from r.
func ReadFrom(r io.Reader) (*Snapshot, error) {
	return serialization.ReadFrom(r)
}
