// Package snn implements a small fully-connected sigmoid network.
//
// The network is made of an input layer, one or more hidden layers of equal
// width and an output layer. Layer widths differ in general, so every
// per-layer container is a ragged slice of independently allocated rows:
//
//	layers[0]           input          len = inputWidth
//	layers[1..h]        hidden         len = hiddenWidth
//	layers[h+1]         output         len = outputWidth
//	weights[l][dst][src] connection l -> l+1
//	biases[l], errors[l] one value per neuron of layers[l+1]
//
// Training is one Forward call followed by one Backward call per sample.
// Backward computes the error terms and applies the weight and bias update
// in the same call.
//
// A Network can be captured into a Snapshot, a deep copy of its full numeric
// state plus its structural dimensions. Snapshots are the unit of persistence
// (see package serialization) and are validated before they may overwrite a
// Network.
//
// Example:
//
//	net := snn.New(1024, 2, 32, 10)
//	net.InitWeightsRandom()
//	net.InitBiasesRandom(snn.DefaultBiasMin, snn.DefaultBiasMax)
//	net.SetLearningRate(0.1)
//
//	net.Forward(features)
//	net.Backward(target)
//
//	class, p := snn.ArgMax(net.ReadOutput())
package snn
