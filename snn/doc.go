// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package snn provides a small fully-connected sigmoid network for
// classifying normalized images of single characters, and a versioned binary
// file format for storing trained networks.
//
// # Overview
//
// This package contains:
//   - Network: layers, weights, biases and error terms stored as ragged slices
//   - Snapshot: a validated deep copy of a network's state
//   - Save/Load: atomic, checksummed persistence of snapshots
//
// # Basic Usage
//
//	import "github.com/born-ml/charrec/snn"
//
//	func main() {
//	    net := snn.New(1024, 2, 32, 10, snn.WithSeed(1))
//	    net.InitWeightsRandom()
//	    net.InitBiasesRandom(snn.DefaultBiasMin, snn.DefaultBiasMax)
//	    net.SetLearningRate(0.1)
//
//	    // One training step
//	    net.Forward(input)
//	    net.Backward(target)
//
//	    // Persist
//	    if err := snn.Save("snn_data", net); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Persistence
//
// A file starts with the FormatVersion tag, followed by the four dimensions,
// the learning rate, every activation, weight row, bias and error vector as
// length-prefixed little-endian float32 sequences, and a SHA-256 trailer.
//
//	net, err := snn.Load("snn_data")
//	if errors.Is(err, snn.ErrUnsupportedVersion) {
//	    // written by another format version
//	}
//
// # Concurrency
//
// A Network is owned by one goroutine at a time. Separate networks share no
// state.
package snn
