// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package snn_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/charrec/snn"
)

func TestSaveLoad(t *testing.T) {
	net := snn.New(4, 2, 3, 2, snn.WithSeed(8))
	net.InitWeightsRandom()
	net.InitBiasesRandom(snn.DefaultBiasMin, snn.DefaultBiasMax)

	input := []float32{0.1, 0.9, 0.4, 0}
	net.Forward(input)
	want := append([]float32(nil), net.ReadOutput()...)

	path := filepath.Join(t.TempDir(), "snn_data")
	require.NoError(t, snn.Save(path, net))

	loaded, err := snn.Load(path)
	require.NoError(t, err)
	loaded.Forward(input)
	assert.Equal(t, want, loaded.ReadOutput())
	assert.Equal(t, net.Snapshot(), loaded.Snapshot())
}

func TestWriteToReadFrom(t *testing.T) {
	s := snn.New(2, 1, 2, 2).Snapshot()

	var buf bytes.Buffer
	require.NoError(t, snn.WriteTo(&buf, s))
	got, err := snn.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestLoad_Missing(t *testing.T) {
	_, err := snn.Load(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, snn.ErrIO)
}

func TestRestoreFromSnapshot_Invalid(t *testing.T) {
	net := snn.New(2, 1, 2, 2)
	s := net.Snapshot()
	s.Layers = s.Layers[:1]

	require.ErrorIs(t, snn.RestoreFromSnapshot(net, s), snn.ErrCorruptState)
	assert.True(t, net.Snapshot().Valid())
}
