package snn

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Default range for InitBiasesRandom.
const (
	DefaultBiasMin float32 = 0
	DefaultBiasMax float32 = 0.1
)

// InitWeightsRandom fills every weight with a draw from N(0, 2/hiddenWidth).
//
// The variance is scaled by the hidden width for every connection, including
// the ones touching the input and output layers.
func (n *Network) InitWeightsRandom() {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: math.Sqrt(2 / float64(n.hiddenWidth)),
		Src:   n.src,
	}
	for _, rows := range n.weights {
		for _, row := range rows {
			for j := range row {
				row[j] = float32(dist.Rand())
			}
		}
	}
}

// InitBiasesRandom fills every bias with a uniform draw from [lo, hi].
func (n *Network) InitBiasesRandom(lo, hi float32) {
	if lo == hi {
		for _, b := range n.biases {
			for i := range b {
				b[i] = lo
			}
		}
		return
	}

	dist := distuv.Uniform{
		Min: float64(lo),
		Max: float64(hi),
		Src: n.src,
	}
	for _, b := range n.biases {
		for i := range b {
			b[i] = float32(dist.Rand())
		}
	}
}
